package drops

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// Storage location of the tuning document.
const (
	tuningObject   = "tuning"
	tuningProperty = "panel"
)

// TuningStore persists panel values between runs. Only tunable parameters
// are stored; droplet positions and drift are never saved.
type TuningStore struct {
	manager *gdata.Manager // nil means memory-only
	current Tuning
}

// OpenTuningStore opens the platform data directory for appName. On failure
// it returns a memory-only store together with the error.
func OpenTuningStore(appName string) (*TuningStore, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return NewTuningStore(nil), fmt.Errorf("open tuning store: %w", err)
	}
	return NewTuningStore(m), nil
}

// NewTuningStore wraps a gdata manager. A nil manager keeps values in memory.
func NewTuningStore(m *gdata.Manager) *TuningStore {
	return &TuningStore{manager: m, current: DefaultTuning()}
}

// Persistent reports whether the store writes to disk.
func (s *TuningStore) Persistent() bool {
	return s.manager != nil
}

// Load reads the saved values. Missing data yields fallback unchanged. The
// loaded values are clamped into their panel ranges.
func (s *TuningStore) Load(fallback Tuning) (Tuning, error) {
	s.current = fallback
	if s.manager == nil || !s.manager.ObjectPropExists(tuningObject, tuningProperty) {
		return s.current, nil
	}
	data, err := s.manager.LoadObjectProp(tuningObject, tuningProperty)
	if err != nil {
		return s.current, fmt.Errorf("load tuning: %w", err)
	}
	loaded := fallback
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return s.current, fmt.Errorf("unmarshal tuning: %w", err)
	}
	s.current = loaded.Clamp()
	return s.current, nil
}

// Save records t and writes it when the store is persistent.
func (s *TuningStore) Save(t Tuning) error {
	s.current = t
	if s.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal tuning: %w", err)
	}
	if err := s.manager.SaveObjectProp(tuningObject, tuningProperty, data); err != nil {
		return fmt.Errorf("save tuning: %w", err)
	}
	return nil
}

// Current returns the last loaded or saved values.
func (s *TuningStore) Current() Tuning {
	return s.current
}

// Reset stores the default values.
func (s *TuningStore) Reset() error {
	return s.Save(DefaultTuning())
}
