package simulation

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/lutechstack-bit/theforgeapp-sub003/core/program"
)

func newTestStore(t *testing.T) (*Store, SessionStore) {
	t.Helper()
	sessions := NewMemSessionStore(time.Hour)
	return NewStore(sessions, "sess-1"), sessions
}

func TestSetTestingModeOffClearsEverything(t *testing.T) {
	store, _ := newTestStore(t)

	mode := program.ModeDuring
	day := 3
	ct := program.CohortWriting
	id := "ed-1"
	store.SetSimulatedForgeMode(&mode)
	store.SetSimulatedDayNumber(&day)
	store.SetSimulatedCohortType(&ct)
	store.SetSimulatedEditionID(&id)

	store.SetTestingMode(false)

	if got := store.Overrides(); !got.IsZero() {
		t.Errorf("overrides not cleared: %+v", got)
	}
}

func TestSettersImplicitlyEnableTestingMode(t *testing.T) {
	mode := program.ModeDuring
	day := 7
	ct := program.CohortCreator

	tests := []struct {
		name       string
		mutate     func(*Store)
		wantOn     bool
	}{
		{name: "forge mode", mutate: func(s *Store) { s.SetSimulatedForgeMode(&mode) }, wantOn: true},
		{name: "day number", mutate: func(s *Store) { s.SetSimulatedDayNumber(&day) }, wantOn: true},
		{name: "cohort type", mutate: func(s *Store) { s.SetSimulatedCohortType(&ct) }, wantOn: true},
		{name: "edition id does not enable", mutate: func(s *Store) { id := "x"; s.SetSimulatedEditionID(&id) }, wantOn: false},
		{name: "nil forge mode does not enable", mutate: func(s *Store) { s.SetSimulatedForgeMode(nil) }, wantOn: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := newTestStore(t)
			tt.mutate(store)
			if got := store.Overrides().IsTestingMode; got != tt.wantOn {
				t.Errorf("IsTestingMode = %v, want %v", got, tt.wantOn)
			}
		})
	}
}

func TestNilSetterLeavesTestingModeOn(t *testing.T) {
	store, _ := newTestStore(t)
	day := 5
	store.SetSimulatedDayNumber(&day)
	store.SetSimulatedDayNumber(nil)

	ov := store.Overrides()
	if !ov.IsTestingMode {
		t.Error("clearing a field must not auto-disable testing mode")
	}
	if ov.SimulatedDayNumber != nil {
		t.Error("day number not cleared")
	}
}

func TestApplyPreset(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.ApplyPreset("online-day-3"); err != nil {
		t.Fatalf("ApplyPreset() error = %v", err)
	}

	ov := store.Overrides()
	if !ov.IsTestingMode {
		t.Error("testing mode not enabled")
	}
	if ov.SimulatedForgeMode == nil || *ov.SimulatedForgeMode != program.ModeDuring {
		t.Errorf("mode = %v, want during", ov.SimulatedForgeMode)
	}
	if ov.SimulatedDayNumber == nil || *ov.SimulatedDayNumber != 3 {
		t.Errorf("day = %v, want 3", ov.SimulatedDayNumber)
	}
}

func TestApplyPresetUnknown(t *testing.T) {
	store, _ := newTestStore(t)
	if err := store.ApplyPreset("launch-party"); err != ErrUnknownPreset {
		t.Errorf("error = %v, want ErrUnknownPreset", err)
	}
}

func TestAllPresetsAgreeOnPhaseAndDay(t *testing.T) {
	for _, name := range PresetNames() {
		store, _ := newTestStore(t)
		if err := store.ApplyPreset(name); err != nil {
			t.Fatalf("ApplyPreset(%q) error = %v", name, err)
		}
		ov := store.Overrides()
		if !ov.IsTestingMode {
			t.Errorf("preset %q did not enable testing mode", name)
		}
		if ov.SimulatedForgeMode == nil {
			t.Errorf("preset %q has no phase", name)
			continue
		}
		if *ov.SimulatedForgeMode == program.ModeDuring && ov.SimulatedDayNumber == nil {
			t.Errorf("preset %q is during without a day", name)
		}
	}
}

func TestResetToRealTimeDeletesPersistedRecord(t *testing.T) {
	store, sessions := newTestStore(t)

	day := 10
	store.SetSimulatedDayNumber(&day)
	if _, ok := sessions.Load("sess-1"); !ok {
		t.Fatal("mutation was not persisted")
	}

	store.ResetToRealTime()

	if data, ok := sessions.Load("sess-1"); ok {
		t.Errorf("persisted record still present after reset: %s", data)
	}
	if got := store.Overrides(); !got.IsZero() {
		t.Errorf("overrides not reset: %+v", got)
	}
}

func TestStoreRestoresPersistedRecord(t *testing.T) {
	sessions := NewMemSessionStore(time.Hour)

	first := NewStore(sessions, "sess-9")
	ct := program.CohortWriting
	first.SetSimulatedCohortType(&ct)

	second := NewStore(sessions, "sess-9")
	ov := second.Overrides()
	if !ov.IsTestingMode || ov.SimulatedCohortType == nil || *ov.SimulatedCohortType != program.CohortWriting {
		t.Errorf("record not restored: %+v", ov)
	}
}

func TestStoreDiscardsCorruptRecord(t *testing.T) {
	sessions := NewMemSessionStore(time.Hour)
	sessions.Save("sess-x", []byte("{not-json"))

	store := NewStore(sessions, "sess-x")
	if got := store.Overrides(); !got.IsZero() {
		t.Errorf("corrupt record not discarded: %+v", got)
	}
}

func TestSessionStoreExpiry(t *testing.T) {
	sessions := NewMemSessionStore(time.Minute)
	now := time.Now()
	sessions.nowFunc = func() time.Time { return now }

	sessions.Save("k", []byte("{}"))
	if _, ok := sessions.Load("k"); !ok {
		t.Fatal("fresh record missing")
	}

	sessions.nowFunc = func() time.Time { return now.Add(2 * time.Minute) }
	if _, ok := sessions.Load("k"); ok {
		t.Error("expired record still served")
	}
}

func TestOverridesJSONShape(t *testing.T) {
	mode := program.ModeDuring
	day := 3
	ov := Overrides{IsTestingMode: true, SimulatedForgeMode: &mode, SimulatedDayNumber: &day}

	data, err := json.Marshal(ov)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"is_testing_mode":true,"simulated_forge_mode":"during","simulated_day_number":3,"simulated_cohort_type":null,"simulated_edition_id":null}`
	if string(data) != want {
		t.Errorf("serialized record = %s, want %s", data, want)
	}
}
