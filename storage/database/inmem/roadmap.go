package inmemdb

import (
	"context"
	"sort"

	"github.com/lutechstack-bit/theforgeapp-sub003/core/roadmap"
)

type roadmapRepository struct {
	db *DB
}

func NewRoadmapRepository(db *DB) roadmap.Repository {
	return &roadmapRepository{db: db}
}

func (repo *roadmapRepository) QueryDays(ctx context.Context, editionID string) ([]roadmap.Day, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	days := make([]roadmap.Day, 0)
	for _, d := range repo.db.days {
		if d.EditionID == editionID {
			days = append(days, *d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].DayNumber < days[j].DayNumber })
	return days, nil
}

func (repo *roadmapRepository) GetDay(ctx context.Context, id string) (roadmap.Day, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if d, ok := repo.db.days[id]; ok {
		return *d, nil
	}
	return roadmap.Day{}, roadmap.ErrNotFound
}

func (repo *roadmapRepository) UpsertDay(ctx context.Context, d roadmap.Day) (roadmap.Day, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// replace the existing (edition_id, day_number) record if any
	for id, existing := range repo.db.days {
		if existing.EditionID == d.EditionID && existing.DayNumber == d.DayNumber {
			d.ID = existing.ID
			d.CreatedAt = existing.CreatedAt
			repo.db.days[id] = &d
			return d, nil
		}
	}
	repo.db.days[d.ID] = &d
	return d, nil
}

func (repo *roadmapRepository) DeleteDay(ctx context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	delete(repo.db.days, id)
	return nil
}
