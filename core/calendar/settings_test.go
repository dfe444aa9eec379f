package calendar

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
)

type failingBackend struct {
	reads  int
	writes int
}

func (b *failingBackend) Read() ([]byte, error) {
	b.reads++
	return nil, errors.New("read failed")
}

func (b *failingBackend) Write([]byte) error {
	b.writes++
	return errors.New("write failed")
}

func TestNewSettingsStore(t *testing.T) {
	t.Run("empty backend yields defaults", func(t *testing.T) {
		store := NewSettingsStore(&MemoryBackend{})
		if got := store.Get(); got != DefaultSettings() {
			t.Errorf("Get() = %+v; want defaults", got)
		}
	})

	t.Run("loads a stored value", func(t *testing.T) {
		backend := &MemoryBackend{}
		want := Settings{BadgeVariant: BadgeDot, View: ViewMonth, Use24HourFormat: false, AgendaGroupBy: GroupByColor}
		data, err := json.Marshal(want)
		if err != nil {
			t.Fatal(err)
		}
		if err := backend.Write(data); err != nil {
			t.Fatal(err)
		}

		store := NewSettingsStore(backend)
		if got := store.Get(); got != want {
			t.Errorf("Get() = %+v; want %+v", got, want)
		}
	})

	t.Run("malformed stored value falls back to defaults", func(t *testing.T) {
		backend := &MemoryBackend{}
		if err := backend.Write([]byte(`{"view": nope`)); err != nil {
			t.Fatal(err)
		}
		store := NewSettingsStore(backend)
		if got := store.Get(); got != DefaultSettings() {
			t.Errorf("Get() = %+v; want defaults", got)
		}
	})

	t.Run("stored value with an unknown view falls back to defaults", func(t *testing.T) {
		backend := &MemoryBackend{}
		if err := backend.Write([]byte(`{"view": "fortnight"}`)); err != nil {
			t.Fatal(err)
		}
		store := NewSettingsStore(backend)
		if got := store.Get(); got != DefaultSettings() {
			t.Errorf("Get() = %+v; want defaults", got)
		}
	})

	t.Run("failing backend yields defaults", func(t *testing.T) {
		store := NewSettingsStore(&failingBackend{})
		if got := store.Get(); got != DefaultSettings() {
			t.Errorf("Get() = %+v; want defaults", got)
		}
	})
}

func TestSettingsStore_setters(t *testing.T) {
	backend := &MemoryBackend{}
	store := NewSettingsStore(backend)

	store.SetView(ViewAgenda)
	store.SetBadgeVariant(BadgeDot)
	store.SetAgendaGroupBy(GroupByColor)
	if got := store.ToggleTimeFormat(); got != false {
		t.Errorf("ToggleTimeFormat() = %v; want false (defaults start at 24h)", got)
	}

	want := Settings{BadgeVariant: BadgeDot, View: ViewAgenda, Use24HourFormat: false, AgendaGroupBy: GroupByColor}
	if got := store.Get(); got != want {
		t.Errorf("Get() = %+v; want %+v", got, want)
	}

	// each change is written through; a fresh store sees the final state
	reloaded := NewSettingsStore(backend)
	if got := reloaded.Get(); got != want {
		t.Errorf("reloaded Get() = %+v; want %+v", got, want)
	}
}

func TestSettingsStore_writesAreBestEffort(t *testing.T) {
	backend := &failingBackend{}
	store := NewSettingsStore(backend)

	// setters never surface storage errors; state still advances in memory
	store.SetView(ViewWeek)
	if got := store.Get().View; got != ViewWeek {
		t.Errorf("Get().View = %q; want week despite the failing backend", got)
	}
	if backend.writes == 0 {
		t.Error("backend.Write was never attempted")
	}
}

func TestFileBackend(t *testing.T) {
	backend := &FileBackend{Path: t.TempDir() + "/calendar-settings.json"}

	if _, err := backend.Read(); err == nil {
		t.Fatal("Read() on a missing file should fail")
	}

	store := NewSettingsStore(backend)
	store.SetView(ViewMonth)

	reloaded := NewSettingsStore(backend)
	if got := reloaded.Get().View; got != ViewMonth {
		t.Errorf("reloaded view = %q; want month", got)
	}
}
