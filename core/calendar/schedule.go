package calendar

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Handlers are the injected persistence callbacks a Schedule delegates to.
// The calendar never performs storage I/O itself; the host supplies these.
//
// OnAdd and OnUpdate may return a canonical replacement for the event they
// were given (e.g. with a server-assigned ID); returning nil means "use the
// input as-is". A handler error propagates unchanged to the caller and
// leaves the local state untouched.
type Handlers struct {
	OnAdd        func(ctx context.Context, evt Event) (*Event, error)
	OnUpdate     func(ctx context.Context, evt Event) (*Event, error)
	OnDelete     func(ctx context.Context, eventID string) error
	OnChangeView func(ctx context.Context, view ViewMode) error
	OnChangeDate func(ctx context.Context, date time.Time) error
}

// Options configure a new Schedule.
type Options struct {
	Events   []Event
	Users    []EventUser
	View     ViewMode
	Badge    BadgeVariant
	Handlers Handlers
	Settings *SettingsStore
}

// Schedule is the state container behind the calendar views: it owns the
// full and visible event sets, the active filters, the selected date and
// view mode, and orchestrates optimistic create/update/delete through the
// injected Handlers.
//
// All methods are safe for concurrent use, but mutations are NOT serialized
// against each other per event ID: when two in-flight operations touch the
// same event, the last handler to return wins in local state. Acceptable for
// the intended scale of interaction (one user editing one event at a time).
type Schedule struct {
	mu       sync.Mutex
	handlers Handlers
	settings *SettingsStore

	users        []EventUser
	all          []Event
	visible      []Event
	filter       *Filter
	selectedDate time.Time
	view         ViewMode

	busy int32 // in-flight handler calls
}

func NewSchedule(opts Options) *Schedule {
	settings := opts.Settings
	if settings == nil {
		def := DefaultSettings()
		if opts.View.Valid() {
			def.View = opts.View
		}
		if opts.Badge != "" {
			def.BadgeVariant = opts.Badge
		}
		settings = NewSettingsStore(nil, def)
	}

	s := &Schedule{
		handlers:     opts.Handlers,
		settings:     settings,
		users:        append([]EventUser(nil), opts.Users...),
		all:          append([]Event(nil), opts.Events...),
		visible:      append([]Event(nil), opts.Events...),
		filter:       NewFilter(),
		selectedDate: time.Now(),
		view:         settings.Get().View,
	}
	if opts.View.Valid() {
		s.view = opts.View
	}
	return s
}

// Events returns the currently visible (filtered) event set.
func (s *Schedule) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.visible...)
}

// AllEvents returns the full event set, ignoring filters.
func (s *Schedule) AllEvents() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.all...)
}

func (s *Schedule) Users() []EventUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]EventUser(nil), s.users...)
}

func (s *Schedule) View() ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *Schedule) SelectedDate() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedDate
}

func (s *Schedule) SelectedUserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter.UserID
}

func (s *Schedule) SelectedColors() []Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Color(nil), s.filter.Colors...)
}

func (s *Schedule) Settings() Settings {
	return s.settings.Get()
}

// Busy reports whether any handler call is in flight.
func (s *Schedule) Busy() bool {
	return atomic.LoadInt32(&s.busy) > 0
}

// VisibleRange is the date window covered by the current view and selected
// date.
func (s *Schedule) VisibleRange() DateRange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ResolveRange(s.view, s.selectedDate, "")
}

func (s *Schedule) startCall() { atomic.AddInt32(&s.busy, 1) }
func (s *Schedule) endCall()   { atomic.AddInt32(&s.busy, -1) }

// AddEvent persists a fully formed candidate through the OnAdd handler and
// appends the result (or the candidate, when the handler returns nothing)
// to the full set, and to the visible set iff it passes the active filters.
// On handler failure nothing is applied locally.
func (s *Schedule) AddEvent(ctx context.Context, evt Event) (Event, error) {
	s.startCall()
	defer s.endCall()

	added := evt
	if s.handlers.OnAdd != nil {
		result, err := s.handlers.OnAdd(ctx, evt)
		if err != nil {
			return Event{}, err
		}
		if result != nil {
			added = *result
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.all = append(s.all, added)
	if s.filter.Matches(added) {
		s.visible = append(s.visible, added)
	}
	return added, nil
}

// UpdateEvent persists a modification through the OnUpdate handler and
// replaces every occurrence of the event's ID in both sets with the result
// (or the input, when the handler returns nothing). The event's time range
// is normalized to UTC before the handler sees it. On handler failure both
// sets are left exactly as they were.
func (s *Schedule) UpdateEvent(ctx context.Context, evt Event) (Event, error) {
	s.startCall()
	defer s.endCall()

	evt.Start = evt.Start.UTC()
	evt.End = evt.End.UTC()

	updated := evt
	if s.handlers.OnUpdate != nil {
		result, err := s.handlers.OnUpdate(ctx, evt)
		if err != nil {
			return Event{}, err
		}
		if result != nil {
			updated = *result
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	replaceByID(s.all, evt.ID, updated)
	replaceByID(s.visible, evt.ID, updated)
	return updated, nil
}

// RemoveEvent persists a removal through the OnDelete handler and drops all
// occurrences of the ID from both sets. On handler failure both sets are
// left unchanged.
func (s *Schedule) RemoveEvent(ctx context.Context, eventID string) error {
	s.startCall()
	defer s.endCall()

	if s.handlers.OnDelete != nil {
		if err := s.handlers.OnDelete(ctx, eventID); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.all = deleteByID(s.all, eventID)
	s.visible = deleteByID(s.visible, eventID)
	return nil
}

// SetView notifies the host of a view-mode change, then applies it locally
// and writes it through to the settings store.
func (s *Schedule) SetView(ctx context.Context, view ViewMode) error {
	s.startCall()
	defer s.endCall()

	if s.handlers.OnChangeView != nil {
		if err := s.handlers.OnChangeView(ctx, view); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.view = view
	s.mu.Unlock()
	s.settings.SetView(view)
	return nil
}

// SelectDate notifies the host of a reference-date change, then applies it.
func (s *Schedule) SelectDate(ctx context.Context, date time.Time) error {
	s.startCall()
	defer s.endCall()

	if s.handlers.OnChangeDate != nil {
		if err := s.handlers.OnChangeDate(ctx, date); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.selectedDate = date
	s.mu.Unlock()
	return nil
}

// FilterByColor toggles a color in the filter selection and recomputes the
// visible set.
func (s *Schedule) FilterByColor(color Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.ToggleColor(color)
	s.visible = s.filter.Apply(s.all)
}

// FilterByUser replaces the user selection and recomputes the visible set.
func (s *Schedule) FilterByUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.SelectUser(userID)
	s.visible = s.filter.Apply(s.all)
}

// ClearFilter resets both filter dimensions and restores the full event set.
func (s *Schedule) ClearFilter() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.Clear()
	s.visible = append([]Event(nil), s.all...)
}

func replaceByID(events []Event, id string, replacement Event) {
	for i := range events {
		if events[i].ID == id {
			events[i] = replacement
		}
	}
}

func deleteByID(events []Event, id string) []Event {
	kept := events[:0]
	for _, evt := range events {
		if evt.ID != id {
			kept = append(kept, evt)
		}
	}
	return kept
}
