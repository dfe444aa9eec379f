package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateRange is a concrete [Start, End] window, inclusive of both endpoints.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// DayRange returns the single calendar day containing ref,
// from local midnight to the last instant of the day.
func DayRange(ref time.Time) DateRange {
	return DateRange{Start: startOfDay(ref), End: endOfDay(ref)}
}

// WeekNumber returns the ISO-8601 week a date falls in:
// weeks start on Monday and week 1 contains the year's first Thursday.
func WeekNumber(t time.Time) (year, week int) {
	return t.ISOWeek()
}

// WeekStart returns the Monday of the given ISO week.
// Jan 4 is always in week 1, so week 1's Monday is walked back from it.
func WeekStart(year, week int, loc *time.Location) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, loc)
	wd := int(jan4.Weekday())
	if wd == 0 { // Sunday
		wd = 7
	}
	return jan4.AddDate(0, 0, -wd+1+(week-1)*7)
}

// WeekRange returns the full ISO week (Monday through Sunday) window.
func WeekRange(year, week int, loc *time.Location) DateRange {
	start := WeekStart(year, week, loc)
	return DateRange{Start: start, End: endOfDay(start.AddDate(0, 0, 6))}
}

// MonthRange returns the first through last calendar day of the month.
func MonthRange(year int, month time.Month, loc *time.Location) DateRange {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return DateRange{Start: start, End: endOfDay(start.AddDate(0, 1, -1))}
}

// ResolveRange maps (view mode, reference date, optional explicit period
// token) to the visible date window:
//
//	day:          token "YYYY-MM-DD"
//	week:         token "YYYY-Www" (ISO week)
//	month/agenda: token "YYYY-MM"
//
// A missing or malformed token falls back to the period containing ref;
// an unknown view mode falls back to the month view. ResolveRange never
// fails: the caller always gets a usable window.
func ResolveRange(view ViewMode, ref time.Time, token string) DateRange {
	loc := ref.Location()

	switch view {
	case ViewDay:
		if token != "" {
			if day, err := time.ParseInLocation("2006-01-02", token, loc); err == nil {
				return DayRange(day)
			}
		}
		return DayRange(ref)

	case ViewWeek:
		if year, week, err := parseWeekToken(token); err == nil {
			return WeekRange(year, week, loc)
		}
		year, week := WeekNumber(ref)
		return WeekRange(year, week, loc)

	default: // month & agenda
		if year, month, err := parseMonthToken(token); err == nil {
			return MonthRange(year, month, loc)
		}
		return MonthRange(ref.Year(), ref.Month(), loc)
	}
}

// parseWeekToken parses the ISO week format "YYYY-Www", e.g. "2024-W01".
func parseWeekToken(token string) (year, week int, err error) {
	parts := strings.SplitN(token, "-W", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid ISO week %q", token)
	}
	if year, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, fmt.Errorf("invalid ISO week year %q", token)
	}
	if week, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, fmt.Errorf("invalid ISO week number %q", token)
	}
	if week < 1 || week > 53 {
		return 0, 0, fmt.Errorf("ISO week number out of range %q", token)
	}
	return year, week, nil
}

// parseMonthToken parses the "YYYY-MM" format, e.g. "2024-02".
func parseMonthToken(token string) (year int, month time.Month, err error) {
	parts := strings.SplitN(token, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid month %q", token)
	}
	if year, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, fmt.Errorf("invalid month year %q", token)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > 12 {
		return 0, 0, fmt.Errorf("invalid month number %q", token)
	}
	return year, time.Month(m), nil
}
