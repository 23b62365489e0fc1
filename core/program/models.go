package program

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/lutechstack-bit/theforgeapp-sub003/core"
)

// CohortType is one of the three parallel program tracks.
type CohortType string

const (
	CohortFilmmaking CohortType = "filmmaking"
	CohortWriting    CohortType = "writing"
	CohortCreator    CohortType = "creator"
)

var AllCohortTypes = []CohortType{CohortFilmmaking, CohortWriting, CohortCreator}

func (ct CohortType) Valid() bool {
	for _, known := range AllCohortTypes {
		if ct == known {
			return true
		}
	}
	return false
}

// ForgeMode is the lifecycle phase of an edition relative to its dates.
type ForgeMode string

const (
	ModePre    ForgeMode = "pre"
	ModeDuring ForgeMode = "during"
	ModePost   ForgeMode = "post"
)

var AllForgeModes = []ForgeMode{ModePre, ModeDuring, ModePost}

func (m ForgeMode) Valid() bool {
	return m == ModePre || m == ModeDuring || m == ModePost
}

// Edition is a scheduled instance of a cohort: dates, city, archival status.
type Edition struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	City           string     `json:"city"`
	CohortType     CohortType `json:"cohort_type"`
	ForgeStartDate time.Time  `json:"forge_start_date"` // UTC, date-only
	ForgeEndDate   time.Time  `json:"forge_end_date"`   // UTC, date-only, inclusive
	IsArchived     bool       `json:"is_archived"`
	CreatedAt      time.Time  `json:"created_at"` // UTC
	UpdatedAt      time.Time  `json:"updated_at"` // UTC
}

// Length is the inclusive number of program days between start and end.
func (e Edition) Length() int {
	if e.ForgeStartDate.IsZero() || e.ForgeEndDate.Before(e.ForgeStartDate) {
		return 0
	}
	return int(e.ForgeEndDate.Sub(e.ForgeStartDate).Hours()/24) + 1
}

// Mode derives the lifecycle phase at `now`: pre before the start date,
// post once the end date is fully over, during otherwise.
func (e Edition) Mode(now time.Time) ForgeMode {
	if e.ForgeStartDate.IsZero() || now.Before(e.ForgeStartDate) {
		return ModePre
	}
	if !now.Before(e.ForgeEndDate.Add(24 * time.Hour)) {
		return ModePost
	}
	return ModeDuring
}

// DayNumber is the 1-based elapsed program day at `now`, clamped to
// [1, Length]. Before the start it reports 1; after the end, Length.
func (e Edition) DayNumber(now time.Time) int {
	length := e.Length()
	if length == 0 {
		return 1
	}
	day := int(now.Sub(e.ForgeStartDate).Hours()/24) + 1
	if day < 1 {
		return 1
	}
	if day > length {
		return length
	}
	return day
}

// NewEdition contains information needed to create a new Edition.
type NewEdition struct {
	Name           string     `json:"name" validate:"required"`
	City           string     `json:"city" validate:"required"`
	CohortType     CohortType `json:"cohort_type" validate:"required,cohorttype"`
	ForgeStartDate time.Time  `json:"forge_start_date" validate:"required"`
	ForgeEndDate   time.Time  `json:"forge_end_date" validate:"required"`
}

func (ne *NewEdition) Validate(validate *validator.Validate) error {
	ne.Name = core.CleanString(ne.Name)
	ne.City = core.CleanString(ne.City)
	return validate.Struct(ne)
}
