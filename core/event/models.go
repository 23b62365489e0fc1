package event

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/lutechstack-bit/theforgeapp-sub003/core"
)

// Event is a scheduled happening of an edition: a masterclass, a screening,
// a deadline. Times are UTC.
type Event struct {
	ID          string    `json:"id"`
	EditionID   string    `json:"edition_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewEvent contains information needed to create a new Event.
type NewEvent struct {
	EditionID   string    `json:"edition_id" validate:"required"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
}

func (ne *NewEvent) Validate(validate *validator.Validate) error {
	ne.Title = core.CleanString(ne.Title)
	ne.Description = core.CleanString(ne.Description)
	ne.Location = core.CleanString(ne.Location)
	return validate.Struct(ne)
}
