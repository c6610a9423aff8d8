package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocab-quiz-service/internal/domain"
)

func TestCatalogListsOldestFirst(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sets := newFakeSets()
	sets.add(domain.Set{ID: "new", Name: "Newest", CreatedAt: base.Add(2 * time.Hour)}, testWord("a", "alpha"))
	sets.add(domain.Set{ID: "old", Name: "Oldest", CreatedAt: base}, testWord("b", "beta"), testWord("c", "gamma"))
	sets.add(domain.Set{ID: "mid", Name: "Middle", CreatedAt: base.Add(time.Hour)})

	got, err := NewCatalogService(sets).ListSets(context.Background())
	require.NoError(t, err)

	ids := make([]string, len(got))
	for i, s := range got {
		ids[i] = s.ID
	}
	if diff := cmp.Diff([]string{"old", "mid", "new"}, ids); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, got[0].WordCount())
	assert.Equal(t, 0, got[1].WordCount())
}

func TestCatalogErrors(t *testing.T) {
	sets := newFakeSets()
	svc := NewCatalogService(sets)

	_, err := svc.GetSet(context.Background(), "missing")
	assert.True(t, domain.IsNotFound(err))

	sets.err = errors.New("relation \"sets\" does not exist")
	_, err = svc.ListSets(context.Background())
	var repoErr *domain.RepositoryError
	require.ErrorAs(t, err, &repoErr)
	assert.Equal(t, `relation "sets" does not exist`, err.Error())
}
