package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lutechstack-bit/theforgeapp-sub003/core/event"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/program"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/roadmap"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd string,
	roles []string,
	isActive bool,
	editionID ...string,
) user.User {
	t.Helper()

	now := time.Now().UTC()
	usr := user.User{
		ID:              uuid.New().String(),
		FullName:        name,
		Email:           email,
		Roles:           roles,
		SectionProgress: make(map[string]bool),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	usr.SetActive(isActive)
	if len(editionID) > 0 {
		usr.EditionID = &editionID[0]
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateEdition(
	t *testing.T,
	repo program.Repository,
	name string,
	ct program.CohortType,
	start, end time.Time,
) program.Edition {
	t.Helper()

	now := time.Now().UTC()
	ed, err := repo.CreateEdition(context.Background(), program.Edition{
		ID:             uuid.New().String(),
		Name:           name,
		City:           "Mumbai",
		CohortType:     ct,
		ForgeStartDate: start.UTC(),
		ForgeEndDate:   end.UTC(),
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		t.Fatalf("CreateEdition() failed: %v", err)
	}
	return ed
}

func CreateDay(
	t *testing.T,
	repo roadmap.Repository,
	editionID string,
	dayNumber int,
	date time.Time,
	title string,
) roadmap.Day {
	t.Helper()

	now := time.Now().UTC()
	d, err := repo.UpsertDay(context.Background(), roadmap.Day{
		ID:        uuid.New().String(),
		EditionID: editionID,
		DayNumber: dayNumber,
		Date:      date.UTC(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateDay() failed: %v", err)
	}
	return d
}

func CreateEvent(
	t *testing.T,
	repo event.Repository,
	editionID, title string,
	startsAt, endsAt time.Time,
) event.Event {
	t.Helper()

	now := time.Now().UTC()
	evt, err := repo.CreateEvent(context.Background(), event.Event{
		ID:        uuid.New().String(),
		EditionID: editionID,
		Title:     title,
		StartsAt:  startsAt.UTC(),
		EndsAt:    endsAt.UTC(),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateEvent() failed: %v", err)
	}
	return evt
}
