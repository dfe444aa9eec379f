package calendar

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"sync"
)

// Settings are the persisted display preferences, independent of event data.
type Settings struct {
	BadgeVariant    BadgeVariant  `json:"badge_variant"`
	View            ViewMode      `json:"view"`
	Use24HourFormat bool          `json:"use_24_hour_format"`
	AgendaGroupBy   AgendaGroupBy `json:"agenda_group_by"`
}

func DefaultSettings() Settings {
	return Settings{
		BadgeVariant:    BadgeColored,
		View:            ViewDay,
		Use24HourFormat: true,
		AgendaGroupBy:   GroupByDate,
	}
}

// SettingsBackend is the raw storage a SettingsStore writes through to.
type SettingsBackend interface {
	Read() ([]byte, error)
	Write(data []byte) error
}

// MemoryBackend holds settings in memory; for tests and ephemeral sessions.
type MemoryBackend struct {
	mu   sync.Mutex
	data []byte
}

var _ SettingsBackend = (*MemoryBackend)(nil)

func (b *MemoryBackend) Read() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.data == nil {
		return nil, os.ErrNotExist
	}
	return b.data, nil
}

func (b *MemoryBackend) Write(data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append([]byte(nil), data...)
	return nil
}

// FileBackend persists settings as a JSON file, surviving across sessions.
type FileBackend struct {
	Path string
}

var _ SettingsBackend = (*FileBackend)(nil)

func (b *FileBackend) Read() ([]byte, error) {
	return ioutil.ReadFile(b.Path)
}

func (b *FileBackend) Write(data []byte) error {
	return ioutil.WriteFile(b.Path, data, 0o644)
}

// SettingsStore exposes display preferences loaded once at initialization
// and written through to the backend on every change. Writes are
// best-effort: a storage failure never propagates past a setter; a missing
// or malformed stored value falls back to the defaults.
type SettingsStore struct {
	mu      sync.Mutex
	backend SettingsBackend
	current Settings
}

func NewSettingsStore(backend SettingsBackend, defaults ...Settings) *SettingsStore {
	def := DefaultSettings()
	if len(defaults) > 0 {
		def = defaults[0]
	}

	store := &SettingsStore{backend: backend, current: def}
	if backend != nil {
		if data, err := backend.Read(); err == nil {
			var loaded Settings
			if err := json.Unmarshal(data, &loaded); err == nil && loaded.View.Valid() {
				store.current = loaded
			}
		}
	}
	return store
}

func (s *SettingsStore) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *SettingsStore) SetView(view ViewMode) {
	s.update(func(set *Settings) { set.View = view })
}

func (s *SettingsStore) SetBadgeVariant(variant BadgeVariant) {
	s.update(func(set *Settings) { set.BadgeVariant = variant })
}

func (s *SettingsStore) SetAgendaGroupBy(groupBy AgendaGroupBy) {
	s.update(func(set *Settings) { set.AgendaGroupBy = groupBy })
}

// ToggleTimeFormat flips between 12h and 24h display and returns the new value.
func (s *SettingsStore) ToggleTimeFormat() (use24Hour bool) {
	s.update(func(set *Settings) {
		set.Use24HourFormat = !set.Use24HourFormat
		use24Hour = set.Use24HourFormat
	})
	return use24Hour
}

func (s *SettingsStore) update(mutate func(*Settings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mutate(&s.current)
	if s.backend == nil {
		return
	}
	if data, err := json.Marshal(s.current); err == nil {
		_ = s.backend.Write(data) // best-effort
	}
}
