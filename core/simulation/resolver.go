package simulation

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/lutechstack-bit/theforgeapp-sub003/core/program"
)

// EffectiveState is what the rest of the application treats as "current".
// It is derived on every read and never stored.
type EffectiveState struct {
	EffectiveCohortType program.CohortType `json:"effective_cohort_type"`
	EffectiveEdition    *program.Edition   `json:"effective_edition"`
	EffectiveMode       program.ForgeMode  `json:"effective_mode"`
	EffectiveDayNumber  int                `json:"effective_day_number"`
	IsSimulating        bool               `json:"is_simulating"`
}

// Resolve merges the real edition with the session overrides. `simulated`
// is the already-fetched edition matching Overrides.SimulatedEditionID,
// nil while unresolved or missing; in that case the real edition stays in
// place even when IsSimulating is true. That window is a documented
// inconsistency, not an error.
func Resolve(real, simulated *program.Edition, ov Overrides, now time.Time) EffectiveState {
	var st EffectiveState

	if real != nil {
		st.EffectiveCohortType = real.CohortType
	}
	if ov.IsTestingMode && ov.SimulatedCohortType != nil {
		st.EffectiveCohortType = *ov.SimulatedCohortType
		st.IsSimulating = real == nil || *ov.SimulatedCohortType != real.CohortType
	}

	st.EffectiveEdition = real
	if st.IsSimulating && simulated != nil {
		st.EffectiveEdition = simulated
	}

	switch {
	case ov.IsTestingMode && ov.SimulatedForgeMode != nil:
		st.EffectiveMode = *ov.SimulatedForgeMode
	case st.EffectiveEdition != nil:
		st.EffectiveMode = st.EffectiveEdition.Mode(now)
	default:
		st.EffectiveMode = program.ModePre
	}

	switch {
	case ov.IsTestingMode && ov.SimulatedDayNumber != nil:
		st.EffectiveDayNumber = *ov.SimulatedDayNumber
	case st.EffectiveEdition != nil:
		st.EffectiveDayNumber = st.EffectiveEdition.DayNumber(now)
	default:
		st.EffectiveDayNumber = 1
	}

	return st
}

// Resolver resolves effective state for a session, fetching the simulated
// edition from storage when one is referenced.
type Resolver struct {
	editions program.Service
}

func NewResolver(editions program.Service) *Resolver {
	return &Resolver{editions: editions}
}

// ResolveState computes the effective state for the given real edition and
// overrides. A missing or archived simulated edition silently falls back
// to the real one.
func (r *Resolver) ResolveState(ctx context.Context, real *program.Edition, ov Overrides, now time.Time) (EffectiveState, error) {
	var simulated *program.Edition
	if ov.IsTestingMode && ov.SimulatedEditionID != nil {
		ed, err := r.editions.Get(ctx, *ov.SimulatedEditionID)
		switch {
		case err == nil:
			if !ed.IsArchived {
				simulated = &ed
			}
		case errors.Cause(err) == program.ErrNotFound:
			// fall back to the real edition
		default:
			return EffectiveState{}, errors.Wrap(err, "fetching simulated edition")
		}
	}
	return Resolve(real, simulated, ov, now), nil
}

// ResolveEditionForCohort finds the edition id to shadow when an admin
// picks a simulated cohort: the first non-archived edition of that track.
// It returns nil when none exists, leaving city/name displays on the real
// edition.
func (r *Resolver) ResolveEditionForCohort(ctx context.Context, ct program.CohortType) (*string, error) {
	ed, err := r.editions.FindActiveByCohort(ctx, ct)
	if err != nil {
		if errors.Cause(err) == program.ErrNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(err, "finding edition for cohort")
	}
	return &ed.ID, nil
}
