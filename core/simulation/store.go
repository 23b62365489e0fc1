package simulation

import (
	"encoding/json"
	"sync"

	"github.com/lutechstack-bit/theforgeapp-sub003/core/program"
)

// Store holds one session's overrides and mirrors every mutation to the
// SessionStore. Each mutation is applied atomically: a concurrent reader
// sees either none or all of it.
type Store struct {
	mu       sync.Mutex
	key      string
	sessions SessionStore
	ov       Overrides
}

// NewStore binds a Store to a session key, restoring any persisted record.
// A corrupt or unparseable record is discarded and defaults are used.
func NewStore(sessions SessionStore, key string) *Store {
	s := &Store{key: key, sessions: sessions}
	if data, ok := sessions.Load(key); ok {
		var ov Overrides
		if err := json.Unmarshal(data, &ov); err == nil {
			s.ov = ov
		}
	}
	return s
}

// Overrides returns a snapshot of the current record.
func (s *Store) Overrides() Overrides {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ov
}

// SetTestingMode turns simulation on or off. Turning it off clears all
// four simulated fields in the same step.
func (s *Store) SetTestingMode(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if enabled {
		s.ov.IsTestingMode = true
	} else {
		s.ov = Overrides{}
	}
	s.persist()
}

// SetSimulatedForgeMode sets the simulated lifecycle phase. A non-nil
// phase enables testing mode; nil leaves the flag unchanged.
func (s *Store) SetSimulatedForgeMode(mode *program.ForgeMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if mode != nil {
		s.enable()
	}
	s.ov.SimulatedForgeMode = mode
	s.persist()
}

// SetSimulatedDayNumber sets the simulated elapsed day. Range validation
// is the caller's job; a non-nil day enables testing mode.
func (s *Store) SetSimulatedDayNumber(day *int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if day != nil {
		s.enable()
	}
	s.ov.SimulatedDayNumber = day
	s.persist()
}

// SetSimulatedCohortType sets the simulated cohort track. It does not
// resolve an edition; see SetSimulatedEditionID.
func (s *Store) SetSimulatedCohortType(ct *program.CohortType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ct != nil {
		s.enable()
	}
	s.ov.SimulatedCohortType = ct
	s.persist()
}

// SetSimulatedEditionID sets the shadow edition id. It never toggles
// testing mode on its own.
func (s *Store) SetSimulatedEditionID(id *string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ov.SimulatedEditionID = id
	s.persist()
}

// ApplyPreset atomically applies a named phase/day combination with
// testing mode enabled. No intermediate state is observable.
func (s *Store) ApplyPreset(name string) error {
	preset, ok := presets[name]
	if !ok {
		return ErrUnknownPreset
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.enable()
	s.ov.SimulatedForgeMode = preset.Mode
	s.ov.SimulatedDayNumber = preset.Day
	s.persist()
	return nil
}

// ResetToRealTime clears the record to defaults and removes the persisted
// copy entirely: a fresh load finds no record, not a zeroed one.
func (s *Store) ResetToRealTime() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ov = Overrides{}
	s.sessions.Delete(s.key)
}

// enable is the single transition that turns simulation on; every setter
// that implies testing mode goes through it.
func (s *Store) enable() {
	s.ov.IsTestingMode = true
}

// persist mirrors the record to the session store, best-effort.
// Callers must hold s.mu.
func (s *Store) persist() {
	data, err := json.Marshal(s.ov)
	if err != nil {
		return
	}
	s.sessions.Save(s.key, data)
}
