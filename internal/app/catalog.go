package app

import (
	"context"
	"sort"

	"vocab-quiz-service/internal/domain"
)

// CatalogService lists the playable sets.
type CatalogService struct {
	sets SetReader
}

func NewCatalogService(sets SetReader) *CatalogService {
	return &CatalogService{sets: sets}
}

// ListSets returns all sets, oldest first.
func (s *CatalogService) ListSets(ctx context.Context) ([]domain.Set, error) {
	sets, err := s.sets.ListSets(ctx)
	if err != nil {
		return nil, asRepositoryError("list sets", err)
	}
	sort.SliceStable(sets, func(i, j int) bool {
		return sets[i].CreatedAt.Before(sets[j].CreatedAt)
	})
	return sets, nil
}

// GetSet returns a single set.
func (s *CatalogService) GetSet(ctx context.Context, id string) (domain.Set, error) {
	return s.sets.GetSetByID(ctx, id)
}
