package weekly

import (
	"context"
	"time"

	"github.com/scidept/sentinel/internal/database"
	"github.com/scidept/sentinel/internal/database/types"
)

// Store adapts the database repository to the evaluator's store surface.
type Store struct {
	repo *database.Repository
}

// NewStore creates a store backed by the repository.
func NewStore(repo *database.Repository) *Store {
	return &Store{repo: repo}
}

func (s *Store) TaskCounts(ctx context.Context) (map[uint64]int, error) {
	return s.repo.Activity().TaskCounts(ctx)
}

func (s *Store) TimeCounts(ctx context.Context) (map[uint64]int, error) {
	return s.repo.Activity().TimeCounts(ctx)
}

func (s *Store) ActiveStrikeCounts(ctx context.Context, now time.Time) (map[uint64]int, error) {
	return s.repo.Strike().ActiveCounts(ctx, now)
}

func (s *Store) Excuse(ctx context.Context, weekKey string) (*types.ActivityExcuse, error) {
	return s.repo.Excuse().Get(ctx, weekKey)
}

func (s *Store) ResetWeek(ctx context.Context) error {
	return s.repo.Activity().ResetWeek(ctx)
}
