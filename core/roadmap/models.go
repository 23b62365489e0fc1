package roadmap

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/lutechstack-bit/theforgeapp-sub003/core"
)

// Day is one entry of an edition's day-by-day roadmap. Its status is
// derived from the effective forge mode and day number, never stored.
type Day struct {
	ID        string    `json:"id"`
	EditionID string    `json:"edition_id"`
	DayNumber int       `json:"day_number"` // 1..N, unique and contiguous per edition
	Date      time.Time `json:"date"`       // UTC, date-only
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// DayView is a Day annotated with its derived status for a response.
type DayView struct {
	Day
	Status DayStatus `json:"status"`
}

// UpsertDay contains information needed to create or replace a roadmap day.
type UpsertDay struct {
	EditionID string    `json:"edition_id" validate:"required"`
	DayNumber int       `json:"day_number" validate:"required,min=1"`
	Date      time.Time `json:"date" validate:"required"`
	Title     string    `json:"title" validate:"required"`
	Summary   string    `json:"summary"`
	Location  string    `json:"location"`
}

func (ud *UpsertDay) Validate(validate *validator.Validate) error {
	ud.Title = core.CleanString(ud.Title)
	ud.Summary = core.CleanString(ud.Summary)
	ud.Location = core.CleanString(ud.Location)
	return validate.Struct(ud)
}
