package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestSchedule_AddEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("handler result replaces the candidate", func(t *testing.T) {
		var handlerGot Event
		sched := NewSchedule(Options{
			Handlers: Handlers{
				OnAdd: func(_ context.Context, evt Event) (*Event, error) {
					handlerGot = evt
					saved := evt
					saved.ID = "srv-1" // server-assigned ID
					return &saved, nil
				},
			},
		})

		added, err := sched.AddEvent(ctx, Event{Title: "Morning drills", Color: ColorGreen})
		if err != nil {
			t.Fatalf("AddEvent() error = %v", err)
		}
		if handlerGot.Title != "Morning drills" {
			t.Errorf("handler saw %+v; want the candidate", handlerGot)
		}
		if added.ID != "srv-1" {
			t.Errorf("added.ID = %q; want the handler's srv-1", added.ID)
		}

		all := sched.AllEvents()
		if len(all) != 1 || all[0].ID != "srv-1" {
			t.Errorf("AllEvents() = %v; want the handler result only", all)
		}
		visible := sched.Events()
		if len(visible) != 1 || visible[0].ID != "srv-1" {
			t.Errorf("Events() = %v; want the handler result only", visible)
		}
	})

	t.Run("nil handler result echoes the candidate", func(t *testing.T) {
		sched := NewSchedule(Options{
			Handlers: Handlers{
				OnAdd: func(context.Context, Event) (*Event, error) { return nil, nil },
			},
		})

		added, err := sched.AddEvent(ctx, Event{ID: "local-1", Title: "Scrimmage"})
		if err != nil {
			t.Fatalf("AddEvent() error = %v", err)
		}
		if added.ID != "local-1" {
			t.Errorf("added.ID = %q; want the candidate's local-1", added.ID)
		}
	})

	t.Run("handler failure applies nothing", func(t *testing.T) {
		wantErr := errors.New("storage unavailable")
		sched := NewSchedule(Options{
			Handlers: Handlers{
				OnAdd: func(context.Context, Event) (*Event, error) { return nil, wantErr },
			},
		})

		_, err := sched.AddEvent(ctx, Event{ID: "x"})
		if errors.Cause(err) != wantErr {
			t.Fatalf("AddEvent() error = %v; want %v", err, wantErr)
		}
		if got := sched.AllEvents(); len(got) != 0 {
			t.Errorf("AllEvents() = %v; want empty after failure", got)
		}
		if sched.Busy() {
			t.Error("Busy() = true after the call returned")
		}
	})

	t.Run("filtered-out event lands in the full set only", func(t *testing.T) {
		sched := NewSchedule(Options{})
		sched.FilterByColor(ColorRed)

		if _, err := sched.AddEvent(ctx, Event{ID: "a", Color: ColorBlue}); err != nil {
			t.Fatalf("AddEvent() error = %v", err)
		}
		if got := sched.AllEvents(); len(got) != 1 {
			t.Errorf("AllEvents() = %v; want [a]", got)
		}
		if got := sched.Events(); len(got) != 0 {
			t.Errorf("Events() = %v; want empty (blue fails the red filter)", got)
		}
	})
}

func TestSchedule_UpdateEvent(t *testing.T) {
	ctx := context.Background()
	seed := []Event{
		{ID: "a", Title: "Old title", Color: ColorBlue},
		{ID: "b", Title: "Untouched", Color: ColorRed},
	}

	t.Run("replaces in both sets", func(t *testing.T) {
		sched := NewSchedule(Options{
			Events: seed,
			Handlers: Handlers{
				OnUpdate: func(context.Context, Event) (*Event, error) { return nil, nil },
			},
		})

		updated, err := sched.UpdateEvent(ctx, Event{ID: "a", Title: "New title", Color: ColorBlue})
		if err != nil {
			t.Fatalf("UpdateEvent() error = %v", err)
		}
		if updated.Title != "New title" {
			t.Errorf("updated.Title = %q; want New title", updated.Title)
		}
		for _, events := range [][]Event{sched.AllEvents(), sched.Events()} {
			if len(events) != 2 {
				t.Fatalf("got %d events; want 2", len(events))
			}
			if events[0].Title != "New title" || events[1].Title != "Untouched" {
				t.Errorf("events = %v; only a should change", events)
			}
		}
	})

	t.Run("normalizes times to UTC before the handler", func(t *testing.T) {
		nairobi := time.FixedZone("EAT", 3*60*60)
		var handlerGot Event
		sched := NewSchedule(Options{
			Events: seed,
			Handlers: Handlers{
				OnUpdate: func(_ context.Context, evt Event) (*Event, error) {
					handlerGot = evt
					return nil, nil
				},
			},
		})

		start := time.Date(2024, time.July, 18, 18, 0, 0, 0, nairobi)
		if _, err := sched.UpdateEvent(ctx, Event{ID: "a", Start: start, End: start.Add(time.Hour)}); err != nil {
			t.Fatalf("UpdateEvent() error = %v", err)
		}
		if handlerGot.Start.Location() != time.UTC {
			t.Errorf("handler saw Start in %v; want UTC", handlerGot.Start.Location())
		}
		if !handlerGot.Start.Equal(start) {
			t.Errorf("Start = %v; normalization must not shift the instant", handlerGot.Start)
		}
	})

	t.Run("handler failure leaves both sets untouched", func(t *testing.T) {
		sched := NewSchedule(Options{
			Events: seed,
			Handlers: Handlers{
				OnUpdate: func(context.Context, Event) (*Event, error) {
					return nil, errors.New("boom")
				},
			},
		})

		if _, err := sched.UpdateEvent(ctx, Event{ID: "a", Title: "Should not stick"}); err == nil {
			t.Fatal("UpdateEvent() error = nil; want failure")
		}
		all := sched.AllEvents()
		if all[0].Title != "Old title" {
			t.Errorf("all[0].Title = %q; want the pre-update Old title", all[0].Title)
		}
	})

	t.Run("unknown ID is a no-op on state", func(t *testing.T) {
		sched := NewSchedule(Options{Events: seed})
		if _, err := sched.UpdateEvent(ctx, Event{ID: "nope", Title: "Ghost"}); err != nil {
			t.Fatalf("UpdateEvent() error = %v", err)
		}
		if got := sched.AllEvents(); len(got) != 2 || got[0].Title != "Old title" {
			t.Errorf("AllEvents() = %v; want the seed unchanged", got)
		}
	})
}

func TestSchedule_RemoveEvent(t *testing.T) {
	ctx := context.Background()
	seed := []Event{
		{ID: "a", Color: ColorBlue},
		{ID: "b", Color: ColorRed},
	}

	t.Run("drops from both sets", func(t *testing.T) {
		var deletedID string
		sched := NewSchedule(Options{
			Events: seed,
			Handlers: Handlers{
				OnDelete: func(_ context.Context, id string) error {
					deletedID = id
					return nil
				},
			},
		})

		if err := sched.RemoveEvent(ctx, "a"); err != nil {
			t.Fatalf("RemoveEvent() error = %v", err)
		}
		if deletedID != "a" {
			t.Errorf("handler saw %q; want a", deletedID)
		}
		if got := sched.AllEvents(); len(got) != 1 || got[0].ID != "b" {
			t.Errorf("AllEvents() = %v; want [b]", got)
		}
		if got := sched.Events(); len(got) != 1 || got[0].ID != "b" {
			t.Errorf("Events() = %v; want [b]", got)
		}

		// removed events never reappear, whatever the filters do
		sched.FilterByColor(ColorBlue)
		sched.ClearFilter()
		if got := sched.Events(); len(got) != 1 || got[0].ID != "b" {
			t.Errorf("Events() after filter churn = %v; want [b]", got)
		}
	})

	t.Run("handler failure keeps the event", func(t *testing.T) {
		sched := NewSchedule(Options{
			Events: seed,
			Handlers: Handlers{
				OnDelete: func(context.Context, string) error { return errors.New("boom") },
			},
		})

		if err := sched.RemoveEvent(ctx, "a"); err == nil {
			t.Fatal("RemoveEvent() error = nil; want failure")
		}
		if got := sched.AllEvents(); len(got) != 2 {
			t.Errorf("AllEvents() = %v; want the seed intact", got)
		}
	})
}

func TestSchedule_filtering(t *testing.T) {
	seed := []Event{
		{ID: "a", Color: ColorBlue, User: &EventUser{ID: "u1", Name: "Asha"}},
		{ID: "b", Color: ColorRed, User: &EventUser{ID: "u2", Name: "Brian"}},
	}
	sched := NewSchedule(Options{Events: seed})

	sched.FilterByUser("u1")
	if got := sched.Events(); len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("Events() after user filter = %v; want [a]", got)
	}
	if sched.SelectedUserID() != "u1" {
		t.Errorf("SelectedUserID() = %q; want u1", sched.SelectedUserID())
	}

	// red AND u1 matches nothing: dimensions intersect
	sched.FilterByColor(ColorRed)
	if got := sched.Events(); len(got) != 0 {
		t.Fatalf("Events() after user+color filter = %v; want empty", got)
	}

	sched.ClearFilter()
	if got := sched.Events(); len(got) != 2 {
		t.Errorf("Events() after ClearFilter = %v; want the full set", got)
	}
	if got := sched.SelectedColors(); len(got) != 0 {
		t.Errorf("SelectedColors() = %v; want empty", got)
	}
}

func TestSchedule_SetView(t *testing.T) {
	ctx := context.Background()
	backend := &MemoryBackend{}
	store := NewSettingsStore(backend)

	var notified ViewMode
	sched := NewSchedule(Options{
		Settings: store,
		Handlers: Handlers{
			OnChangeView: func(_ context.Context, view ViewMode) error {
				notified = view
				return nil
			},
		},
	})

	if err := sched.SetView(ctx, ViewWeek); err != nil {
		t.Fatalf("SetView() error = %v", err)
	}
	if notified != ViewWeek {
		t.Errorf("handler saw %q; want week", notified)
	}
	if sched.View() != ViewWeek {
		t.Errorf("View() = %q; want week", sched.View())
	}
	if store.Get().View != ViewWeek {
		t.Errorf("settings view = %q; want week (written through)", store.Get().View)
	}

	// a failing handler blocks the local change too
	sched2 := NewSchedule(Options{
		Handlers: Handlers{
			OnChangeView: func(context.Context, ViewMode) error { return errors.New("boom") },
		},
	})
	if err := sched2.SetView(ctx, ViewMonth); err == nil {
		t.Fatal("SetView() error = nil; want failure")
	}
	if sched2.View() == ViewMonth {
		t.Error("View() changed despite handler failure")
	}
}

func TestSchedule_SelectDate(t *testing.T) {
	ctx := context.Background()
	sched := NewSchedule(Options{View: ViewWeek})

	target := time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC) // falls in 2024-W01
	if err := sched.SelectDate(ctx, target); err != nil {
		t.Fatalf("SelectDate() error = %v", err)
	}
	if !sched.SelectedDate().Equal(target) {
		t.Errorf("SelectedDate() = %v; want %v", sched.SelectedDate(), target)
	}

	r := sched.VisibleRange()
	if !r.Start.Equal(date(2024, time.January, 1)) {
		t.Errorf("VisibleRange().Start = %v; want 2024-01-01", r.Start)
	}
}
