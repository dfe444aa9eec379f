package calendar

// AllUsers is the user filter value that passes every event.
const AllUsers = "all"

// Filter narrows the full event set to the visible subset.
// The two dimensions combine with AND semantics: an event is visible when it
// passes both the user filter and the color filter. Within the color
// dimension any selected color passes (OR).
type Filter struct {
	UserID string
	Colors []Color
}

func NewFilter() *Filter {
	return &Filter{UserID: AllUsers}
}

// SelectUser replaces the prior user selection (single-select, not toggle).
func (f *Filter) SelectUser(userID string) {
	if userID == "" {
		userID = AllUsers
	}
	f.UserID = userID
}

// ToggleColor adds the color to the selection, or removes it when already
// selected.
func (f *Filter) ToggleColor(color Color) {
	for i, c := range f.Colors {
		if c == color {
			f.Colors = append(f.Colors[:i], f.Colors[i+1:]...)
			return
		}
	}
	f.Colors = append(f.Colors, color)
}

func (f *Filter) HasColor(color Color) bool {
	for _, c := range f.Colors {
		if c == color {
			return true
		}
	}
	return false
}

// Clear resets both filter dimensions.
func (f *Filter) Clear() {
	f.UserID = AllUsers
	f.Colors = nil
}

func (f *Filter) IsEmpty() bool {
	return f.UserID == AllUsers && len(f.Colors) == 0
}

// Matches reports whether an event passes both filter dimensions.
// Events with no owning user are excluded under any specific-user filter;
// events without a color tag are matched as DefaultColor.
func (f *Filter) Matches(evt Event) bool {
	if f.UserID != AllUsers {
		if evt.User == nil || evt.User.ID != f.UserID {
			return false
		}
	}
	if len(f.Colors) > 0 && !f.HasColor(evt.EffectiveColor()) {
		return false
	}
	return true
}

// Apply produces the visible subset of events. Filtering never fabricates
// events: the result is always a subset of the input, in input order.
func (f *Filter) Apply(events []Event) []Event {
	visible := make([]Event, 0, len(events))
	for _, evt := range events {
		if f.Matches(evt) {
			visible = append(visible, evt)
		}
	}
	return visible
}
