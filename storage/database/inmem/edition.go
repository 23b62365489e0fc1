package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/lutechstack-bit/theforgeapp-sub003/core/program"
)

type editionRepository struct {
	db *DB
}

func NewEditionRepository(db *DB) program.Repository {
	return &editionRepository{db: db}
}

func (repo *editionRepository) query() []program.Edition {
	editions := make([]program.Edition, 0, len(repo.db.editions))
	for _, ed := range repo.db.editions {
		editions = append(editions, *ed)
	}
	sort.Slice(editions, func(i, j int) bool {
		return editions[i].ForgeStartDate.After(editions[j].ForgeStartDate)
	})
	return editions
}

func (repo *editionRepository) GetEdition(ctx context.Context, id string) (program.Edition, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if ed, ok := repo.db.editions[id]; ok {
		return *ed, nil
	}
	return program.Edition{}, program.ErrNotFound
}

func (repo *editionRepository) QueryEditions(ctx context.Context, includeArchived bool) ([]program.Edition, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	editions := make([]program.Edition, 0)
	for _, ed := range repo.query() {
		if !includeArchived && ed.IsArchived {
			continue
		}
		editions = append(editions, ed)
	}
	return editions, nil
}

func (repo *editionRepository) FindActiveEditionByCohort(ctx context.Context, ct program.CohortType) (program.Edition, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, ed := range repo.query() {
		if ed.CohortType == ct && !ed.IsArchived {
			return ed, nil
		}
	}
	return program.Edition{}, program.ErrNotFound
}

func (repo *editionRepository) CreateEdition(ctx context.Context, ed program.Edition) (program.Edition, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.editions[ed.ID] = &ed
	return ed, nil
}

func (repo *editionRepository) ArchiveEdition(ctx context.Context, id string) (program.Edition, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	ed, ok := repo.db.editions[id]
	if !ok {
		return program.Edition{}, program.ErrNotFound
	}
	ed.IsArchived = true
	ed.UpdatedAt = time.Now().UTC()
	return *ed, nil
}
