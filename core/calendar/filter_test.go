package calendar

import (
	"reflect"
	"testing"
)

func evt(id, userID string, color Color) Event {
	e := Event{ID: id, Color: color}
	if userID != "" {
		e.User = &EventUser{ID: userID}
	}
	return e
}

func eventIDs(events []Event) []string {
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	return ids
}

func TestFilter_SelectUser(t *testing.T) {
	f := NewFilter()
	if f.UserID != AllUsers {
		t.Fatalf("new filter UserID = %q; want %q", f.UserID, AllUsers)
	}

	f.SelectUser("u1")
	if f.UserID != "u1" {
		t.Errorf("UserID = %q; want u1", f.UserID)
	}

	// single-select: a new selection replaces the previous one
	f.SelectUser("u2")
	if f.UserID != "u2" {
		t.Errorf("UserID = %q; want u2", f.UserID)
	}

	// empty selection resets to all
	f.SelectUser("")
	if f.UserID != AllUsers {
		t.Errorf("UserID = %q; want %q", f.UserID, AllUsers)
	}
}

func TestFilter_ToggleColor(t *testing.T) {
	f := NewFilter()

	f.ToggleColor(ColorRed)
	if !f.HasColor(ColorRed) {
		t.Error("red should be active after first toggle")
	}
	f.ToggleColor(ColorGreen)
	if !f.HasColor(ColorGreen) || !f.HasColor(ColorRed) {
		t.Error("toggling green should not affect red")
	}

	// toggling twice restores the original state
	f.ToggleColor(ColorRed)
	if f.HasColor(ColorRed) {
		t.Error("red should be inactive after second toggle")
	}
	if !f.HasColor(ColorGreen) {
		t.Error("green should remain active")
	}
}

func TestFilter_Matches(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(*Filter)
		evt    Event
		want   bool
	}{
		{name: "empty filter matches everything", setup: func(*Filter) {}, evt: evt("a", "u1", ColorRed), want: true},
		{name: "user match", setup: func(f *Filter) { f.SelectUser("u1") }, evt: evt("a", "u1", ColorRed), want: true},
		{name: "user mismatch", setup: func(f *Filter) { f.SelectUser("u1") }, evt: evt("a", "u2", ColorRed), want: false},
		{name: "user filter excludes events with no user", setup: func(f *Filter) { f.SelectUser("u1") }, evt: evt("a", "", ColorRed), want: false},
		{name: "color match", setup: func(f *Filter) { f.ToggleColor(ColorRed) }, evt: evt("a", "u1", ColorRed), want: true},
		{name: "color mismatch", setup: func(f *Filter) { f.ToggleColor(ColorRed) }, evt: evt("a", "u1", ColorBlue), want: false},
		{name: "untagged event matches via default color", setup: func(f *Filter) { f.ToggleColor(DefaultColor) }, evt: evt("a", "u1", ""), want: true},
		{
			name:  "dimensions combine with AND",
			setup: func(f *Filter) { f.SelectUser("u1"); f.ToggleColor(ColorRed) },
			evt:   evt("a", "u1", ColorBlue),
			want:  false,
		},
		{
			name:  "colors within the dimension combine with OR",
			setup: func(f *Filter) { f.ToggleColor(ColorRed); f.ToggleColor(ColorBlue) },
			evt:   evt("a", "u1", ColorBlue),
			want:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFilter()
			tt.setup(f)
			if got := f.Matches(tt.evt); got != tt.want {
				t.Errorf("Matches(%+v) = %v; want %v", tt.evt, got, tt.want)
			}
		})
	}
}

func TestFilter_Apply(t *testing.T) {
	events := []Event{
		evt("a", "u1", ColorBlue),
		evt("b", "u2", ColorRed),
		evt("c", "u1", ColorRed),
		evt("d", "", ColorGreen),
	}

	f := NewFilter()
	if got := eventIDs(f.Apply(events)); !reflect.DeepEqual(got, []string{"a", "b", "c", "d"}) {
		t.Errorf("empty filter: got %v; want all in input order", got)
	}

	f.SelectUser("u1")
	if got := eventIDs(f.Apply(events)); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("user=u1: got %v; want [a c]", got)
	}

	f.ToggleColor(ColorRed)
	if got := eventIDs(f.Apply(events)); !reflect.DeepEqual(got, []string{"c"}) {
		t.Errorf("user=u1 + red: got %v; want [c]", got)
	}
}

// Seeing only user u1's blue event, then toggling red, yields an empty set:
// the composition is an intersection, not a union.
func TestFilter_compositionIsIntersection(t *testing.T) {
	events := []Event{
		evt("a", "u1", ColorBlue),
		evt("b", "u2", ColorRed),
	}

	f := NewFilter()
	f.SelectUser("u1")
	if got := eventIDs(f.Apply(events)); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("user=u1: got %v; want [a]", got)
	}

	f.ToggleColor(ColorRed)
	if got := f.Apply(events); len(got) != 0 {
		t.Errorf("user=u1 + red: got %v; want empty", eventIDs(got))
	}
}

func TestFilter_Clear(t *testing.T) {
	f := NewFilter()
	f.SelectUser("u1")
	f.ToggleColor(ColorRed)
	if f.IsEmpty() {
		t.Fatal("filter should not be empty")
	}

	f.Clear()
	if !f.IsEmpty() {
		t.Error("filter should be empty after Clear")
	}
	if f.UserID != AllUsers {
		t.Errorf("UserID = %q; want %q", f.UserID, AllUsers)
	}
	if len(f.Colors) != 0 {
		t.Errorf("Colors = %v; want empty", f.Colors)
	}
}
