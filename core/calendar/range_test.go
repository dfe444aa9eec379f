package calendar

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDayRange(t *testing.T) {
	ref := time.Date(2024, time.March, 15, 14, 30, 12, 0, time.UTC)
	got := DayRange(ref)

	wantStart := date(2024, time.March, 15)
	wantEnd := time.Date(2024, time.March, 15, 23, 59, 59, 999999999, time.UTC)
	if !got.Start.Equal(wantStart) {
		t.Errorf("Start = %v; want %v", got.Start, wantStart)
	}
	if !got.End.Equal(wantEnd) {
		t.Errorf("End = %v; want %v", got.End, wantEnd)
	}
	if !got.Contains(ref) {
		t.Errorf("range %v should contain ref %v", got, ref)
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		week  int
		want  time.Time
	}{
		// 2024-W01: Jan 1 2024 is a Monday, and the Monday of the week containing Jan 4.
		{name: "2024-W01", year: 2024, week: 1, want: date(2024, time.January, 1)},
		// week 1 of 2021 starts in the previous calendar year
		{name: "2021-W01", year: 2021, week: 1, want: date(2021, time.January, 4)},
		{name: "2020-W53", year: 2020, week: 53, want: date(2020, time.December, 28)},
		{name: "2026-W01", year: 2026, week: 1, want: date(2025, time.December, 29)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeekStart(tt.year, tt.week, time.UTC)
			if !got.Equal(tt.want) {
				t.Errorf("WeekStart(%d, %d) = %v; want %v", tt.year, tt.week, got, tt.want)
			}
			if got.Weekday() != time.Monday {
				t.Errorf("WeekStart(%d, %d) = %v; not a Monday", tt.year, tt.week, got.Weekday())
			}
		})
	}
}

func TestWeekRange_roundTripsISOWeek(t *testing.T) {
	// every day of a resolved week maps back to the same ISO week
	r := WeekRange(2024, 29, time.UTC)
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		year, week := WeekNumber(d)
		if year != 2024 || week != 29 {
			t.Errorf("WeekNumber(%v) = %d-W%d; want 2024-W29", d, year, week)
		}
	}
}

func TestMonthRange(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     time.Month
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name: "leap February", year: 2024, month: time.February,
			wantStart: date(2024, time.February, 1),
			wantEnd:   time.Date(2024, time.February, 29, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name: "non-leap February", year: 2023, month: time.February,
			wantStart: date(2023, time.February, 1),
			wantEnd:   time.Date(2023, time.February, 28, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name: "December (year end)", year: 2024, month: time.December,
			wantStart: date(2024, time.December, 1),
			wantEnd:   time.Date(2024, time.December, 31, 23, 59, 59, 999999999, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthRange(tt.year, tt.month, time.UTC)
			if !got.Start.Equal(tt.wantStart) {
				t.Errorf("Start = %v; want %v", got.Start, tt.wantStart)
			}
			if !got.End.Equal(tt.wantEnd) {
				t.Errorf("End = %v; want %v", got.End, tt.wantEnd)
			}
		})
	}
}

func TestResolveRange(t *testing.T) {
	ref := time.Date(2024, time.July, 18, 10, 0, 0, 0, time.UTC) // a Thursday in 2024-W29

	tests := []struct {
		name      string
		view      ViewMode
		token     string
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name: "day with token", view: ViewDay, token: "2024-02-29",
			wantStart: date(2024, time.February, 29),
			wantEnd:   time.Date(2024, time.February, 29, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name: "day without token", view: ViewDay,
			wantStart: date(2024, time.July, 18),
			wantEnd:   time.Date(2024, time.July, 18, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name: "week with token", view: ViewWeek, token: "2024-W01",
			wantStart: date(2024, time.January, 1),
			wantEnd:   time.Date(2024, time.January, 7, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name: "week without token", view: ViewWeek,
			wantStart: date(2024, time.July, 15),
			wantEnd:   time.Date(2024, time.July, 21, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name: "month with token", view: ViewMonth, token: "2024-02",
			wantStart: date(2024, time.February, 1),
			wantEnd:   time.Date(2024, time.February, 29, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name: "agenda uses month range", view: ViewAgenda,
			wantStart: date(2024, time.July, 1),
			wantEnd:   time.Date(2024, time.July, 31, 23, 59, 59, 999999999, time.UTC),
		},
		// malformed tokens fall back to the period containing ref
		{
			name: "malformed day token", view: ViewDay, token: "yesterday",
			wantStart: date(2024, time.July, 18),
			wantEnd:   time.Date(2024, time.July, 18, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name: "malformed week token", view: ViewWeek, token: "2024-Wxx",
			wantStart: date(2024, time.July, 15),
			wantEnd:   time.Date(2024, time.July, 21, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name: "week number out of range", view: ViewWeek, token: "2024-W99",
			wantStart: date(2024, time.July, 15),
			wantEnd:   time.Date(2024, time.July, 21, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name: "malformed month token", view: ViewMonth, token: "2024-13",
			wantStart: date(2024, time.July, 1),
			wantEnd:   time.Date(2024, time.July, 31, 23, 59, 59, 999999999, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveRange(tt.view, ref, tt.token)
			if !got.Start.Equal(tt.wantStart) {
				t.Errorf("Start = %v; want %v", got.Start, tt.wantStart)
			}
			if !got.End.Equal(tt.wantEnd) {
				t.Errorf("End = %v; want %v", got.End, tt.wantEnd)
			}
		})
	}
}

func TestResolveRange_containsRef(t *testing.T) {
	// without an explicit token, the resolved range always contains ref
	refs := []time.Time{
		time.Now(),
		date(2024, time.January, 1),
		date(2024, time.December, 31),
		time.Date(2020, time.February, 29, 12, 0, 0, 0, time.UTC),
	}
	for _, view := range ViewModes {
		for _, ref := range refs {
			if r := ResolveRange(view, ref, ""); !r.Contains(ref) {
				t.Errorf("ResolveRange(%s, %v) = %v; does not contain ref", view, ref, r)
			}
		}
	}
}
