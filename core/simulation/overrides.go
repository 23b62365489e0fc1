package simulation

import (
	"github.com/lutechstack-bit/theforgeapp-sub003/core/program"
)

// Overrides holds an admin's testing-mode choices for one session.
// Zero value means "no simulation": real cohort, real edition, real time.
type Overrides struct {
	IsTestingMode       bool                `json:"is_testing_mode"`
	SimulatedForgeMode  *program.ForgeMode  `json:"simulated_forge_mode"`
	SimulatedDayNumber  *int                `json:"simulated_day_number"`
	SimulatedCohortType *program.CohortType `json:"simulated_cohort_type"`
	SimulatedEditionID  *string             `json:"simulated_edition_id"`
}

// IsZero reports whether no override is recorded at all.
func (ov Overrides) IsZero() bool {
	return !ov.IsTestingMode &&
		ov.SimulatedForgeMode == nil &&
		ov.SimulatedDayNumber == nil &&
		ov.SimulatedCohortType == nil &&
		ov.SimulatedEditionID == nil
}
