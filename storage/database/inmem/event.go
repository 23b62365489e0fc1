package inmemdb

import (
	"context"
	"sort"

	"github.com/lutechstack-bit/theforgeapp-sub003/core/event"
)

type eventRepository struct {
	db *DB
}

func NewEventRepository(db *DB) event.Repository {
	return &eventRepository{db: db}
}

func (repo *eventRepository) QueryEventsByEdition(ctx context.Context, editionID string) ([]event.Event, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	evts := make([]event.Event, 0)
	for _, evt := range repo.db.events {
		if evt.EditionID == editionID {
			evts = append(evts, *evt)
		}
	}
	sort.Slice(evts, func(i, j int) bool { return evts[i].StartsAt.Before(evts[j].StartsAt) })
	return evts, nil
}

func (repo *eventRepository) GetEvent(ctx context.Context, id string) (event.Event, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if evt, ok := repo.db.events[id]; ok {
		return *evt, nil
	}
	return event.Event{}, event.ErrNotFound
}

func (repo *eventRepository) CreateEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.events[evt.ID] = &evt
	return evt, nil
}

func (repo *eventRepository) DeleteEvent(ctx context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	delete(repo.db.events, id)
	return nil
}
