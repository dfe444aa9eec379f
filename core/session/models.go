// Package session manages an organization's training sessions and maps
// them onto the schedule calendar.
package session

import (
	"time"

	"github.com/trezcool/michezo/core"
	"github.com/trezcool/michezo/core/calendar"
)

// defaultDuration applies when a session has no end time.
const defaultDuration = time.Hour

type TrainingSession struct {
	ID          string         `json:"id"`
	OrgID       string         `json:"org_id"`
	Date        time.Time      `json:"date"`       // date only, UTC midnight
	StartTime   string         `json:"start_time"` // "HH:MM"
	EndTime     string         `json:"end_time,omitempty"`
	Description string         `json:"description,omitempty"`
	Location    string         `json:"location,omitempty"`
	Color       calendar.Color `json:"color,omitempty"`
	GroupIDs    []string       `json:"group_ids,omitempty"`
	CreatedAt   time.Time      `json:"created_at"` // UTC
	UpdatedAt   time.Time      `json:"updated_at"` // UTC
}

// StartsAt combines Date and StartTime into a point in time.
func (s *TrainingSession) StartsAt() time.Time {
	return at(s.Date, s.StartTime)
}

// EndsAt combines Date and EndTime; sessions without an end time
// run for defaultDuration.
func (s *TrainingSession) EndsAt() time.Time {
	if s.EndTime == "" {
		return s.StartsAt().Add(defaultDuration)
	}
	return at(s.Date, s.EndTime)
}

func at(date time.Time, hhmm string) time.Time {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return date
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}

// Event maps the session onto the schedule calendar.
func (s *TrainingSession) Event() calendar.Event {
	return calendar.Event{
		ID:          s.ID,
		Title:       s.Description,
		Description: s.Description,
		Location:    s.Location,
		Start:       s.StartsAt(),
		End:         s.EndsAt(),
		Color:       s.Color,
		Type:        calendar.TypeTraining,
	}
}

// NewSession contains information needed to create a new TrainingSession.
type NewSession struct {
	Date        time.Time      `json:"date" validate:"required"`
	StartTime   string         `json:"start_time" validate:"required,hhmm"`
	EndTime     string         `json:"end_time" validate:"omitempty,hhmm"`
	Description string         `json:"description" validate:"required"`
	Location    string         `json:"location"`
	Color       calendar.Color `json:"color" validate:"omitempty,eventcolor"`
	GroupIDs    []string       `json:"group_ids" validate:"omitempty,dive,uuid4"`
}

func (ns *NewSession) Validate() error {
	ns.Description = core.CleanString(ns.Description)
	ns.Location = core.CleanString(ns.Location)
	return core.Validate.Struct(ns)
}

// UpdateSession defines what information may be provided to modify an
// existing TrainingSession.
type UpdateSession struct {
	Date        time.Time      `json:"date"`
	StartTime   string         `json:"start_time" validate:"omitempty,hhmm"`
	EndTime     string         `json:"end_time" validate:"omitempty,hhmm"`
	Description string         `json:"description"`
	Location    string         `json:"location"`
	Color       calendar.Color `json:"color" validate:"omitempty,eventcolor"`
	GroupIDs    []string       `json:"group_ids" validate:"omitempty,dive,uuid4"`
}

func (us *UpdateSession) Validate(orig TrainingSession) error {
	if us.Date.IsZero() {
		us.Date = orig.Date
	}
	if us.StartTime == "" {
		us.StartTime = orig.StartTime
	}
	desc := core.CleanString(us.Description)
	if desc != "" {
		us.Description = desc
	} else {
		us.Description = orig.Description
	}
	us.Location = core.CleanString(us.Location)
	return core.Validate.Struct(us)
}

// ScheduleQuery selects the sessions visible on the schedule page: a
// calendar view plus its period token, and an optional text search.
type ScheduleQuery struct {
	View   calendar.ViewMode `query:"view"`
	Date   string            `query:"date"`  // "YYYY-MM-DD"
	Week   string            `query:"week"`  // "YYYY-Www"
	Month  string            `query:"month"` // "YYYY-MM"
	Search string            `query:"search"`
}

func (sq *ScheduleQuery) Clean() {
	if !sq.View.Valid() {
		sq.View = calendar.ViewMonth
	}
	sq.Search = core.CleanString(sq.Search)
}

// Token returns the period token matching the query's view.
func (sq *ScheduleQuery) Token() string {
	switch sq.View {
	case calendar.ViewDay:
		return sq.Date
	case calendar.ViewWeek:
		return sq.Week
	default:
		return sq.Month
	}
}

// Range resolves the query to its date window.
func (sq *ScheduleQuery) Range(ref time.Time) calendar.DateRange {
	return calendar.ResolveRange(sq.View, ref, sq.Token())
}

// Schedule is the schedule page payload: the resolved window, the
// sessions in it as calendar events, and headline stats.
type Schedule struct {
	Range    calendar.DateRange `json:"range"`
	View     calendar.ViewMode  `json:"view"`
	Events   []calendar.Event   `json:"events"`
	Sessions []TrainingSession  `json:"sessions"`
	Stats    Stats              `json:"stats"`
}

// Stats are organization-wide session counters.
type Stats struct {
	Total       int `json:"total"`
	Upcoming    int `json:"upcoming"`
	Past        int `json:"past"`
	Attendances int `json:"attendances"`
}
