// Package calendar implements the club schedule calendar: the event model,
// day/week/month view-range resolution, event filtering and the optimistic
// mutation state container backing the schedule views.
package calendar

import "time"

// Color is an event's color tag, drawn from a fixed palette.
// It doubles as a filtering dimension.
type Color string

const (
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorRed    Color = "red"
	ColorYellow Color = "yellow"
	ColorPurple Color = "purple"
	ColorOrange Color = "orange"

	// DefaultColor is assumed for events without a color tag.
	DefaultColor = ColorBlue
)

var Colors = []Color{ColorBlue, ColorGreen, ColorRed, ColorYellow, ColorPurple, ColorOrange}

func (c Color) Valid() bool {
	for _, known := range Colors {
		if c == known {
			return true
		}
	}
	return false
}

// EventType is the kind of occurrence an event represents.
type EventType string

const (
	TypeTraining EventType = "training"
	TypeMatch    EventType = "match"
	TypeEvent    EventType = "event"
	TypeMeeting  EventType = "meeting"
)

var EventTypes = []EventType{TypeTraining, TypeMatch, TypeEvent, TypeMeeting}

func (t EventType) Valid() bool {
	for _, known := range EventTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ViewMode determines the visible date range and rendering layout.
type ViewMode string

const (
	ViewDay    ViewMode = "day"
	ViewWeek   ViewMode = "week"
	ViewMonth  ViewMode = "month"
	ViewAgenda ViewMode = "agenda"
)

var ViewModes = []ViewMode{ViewDay, ViewWeek, ViewMonth, ViewAgenda}

func (v ViewMode) Valid() bool {
	for _, known := range ViewModes {
		if v == known {
			return true
		}
	}
	return false
}

// BadgeVariant is how event badges are rendered.
type BadgeVariant string

const (
	BadgeDot     BadgeVariant = "dot"
	BadgeColored BadgeVariant = "colored"
)

// AgendaGroupBy is how agenda-view entries are grouped.
type AgendaGroupBy string

const (
	GroupByDate  AgendaGroupBy = "date"
	GroupByColor AgendaGroupBy = "color"
)

// EventUser is a display-only reference to the user owning an event.
// Sourced externally; read-only from the calendar's perspective.
type EventUser struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PicturePath string `json:"picture_path,omitempty"`
}

// Event is a schedulable occurrence (typically a training session)
// with a time range and descriptive metadata.
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	Start       time.Time  `json:"start"`
	End         time.Time  `json:"end"`
	AllDay      bool       `json:"all_day,omitempty"`
	Color       Color      `json:"color"`
	Type        EventType  `json:"type"`
	User        *EventUser `json:"user,omitempty"`
	Group       string     `json:"group,omitempty"`
}

// EffectiveColor returns the event's color tag, falling back to DefaultColor
// when unset. Filtering always goes through this.
func (e Event) EffectiveColor() Color {
	if e.Color == "" {
		return DefaultColor
	}
	return e.Color
}

func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}
