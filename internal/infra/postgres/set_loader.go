package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"vocab-quiz-service/internal/domain"
)

// SetLoader reads sets and words from Postgres. It is the read path that
// the caches sit in front of.
type SetLoader struct {
	pool *pgxpool.Pool
}

func NewSetLoader(pool *pgxpool.Pool) *SetLoader {
	return &SetLoader{pool: pool}
}

func (l *SetLoader) GetSetByID(ctx context.Context, id string) (domain.Set, error) {
	var set domain.Set
	err := l.pool.QueryRow(ctx,
		`SELECT id::text, name, word_ids, created_at FROM sets WHERE id::text = $1`, id,
	).Scan(&set.ID, &set.Name, &set.WordIDs, &set.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Set{}, domain.ErrSetNotFound
	}
	if err != nil {
		return domain.Set{}, fmt.Errorf("load set: %w", err)
	}
	return set, nil
}

// GetWordsByIDs returns the words found among ids, in ids order.
func (l *SetLoader) GetWordsByIDs(ctx context.Context, ids []string) ([]domain.Word, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := l.pool.Query(ctx,
		`SELECT id::text, word, meaning, distractor1, distractor2, distractor3,
		        synonym1, synonym2, antonym1, antonym2, example, poster_url, created_at
		   FROM words WHERE id::text = ANY($1)`, ids,
	)
	if err != nil {
		return nil, fmt.Errorf("load words: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]domain.Word, len(ids))
	for rows.Next() {
		var (
			w         domain.Word
			createdAt *time.Time
		)
		if err := rows.Scan(&w.ID, &w.Word, &w.Meaning, &w.Distractor1, &w.Distractor2, &w.Distractor3,
			&w.Synonym1, &w.Synonym2, &w.Antonym1, &w.Antonym2, &w.Example, &w.PosterURL, &createdAt); err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		w.CreatedAt = createdAt
		byID[w.ID] = w
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate words: %w", err)
	}

	words := make([]domain.Word, 0, len(byID))
	for _, id := range ids {
		if w, ok := byID[id]; ok {
			words = append(words, w)
			delete(byID, id)
		}
	}
	return words, nil
}

func (l *SetLoader) ListSets(ctx context.Context) ([]domain.Set, error) {
	rows, err := l.pool.Query(ctx, `SELECT id::text, name, word_ids, created_at FROM sets ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	defer rows.Close()

	var sets []domain.Set
	for rows.Next() {
		var set domain.Set
		if err := rows.Scan(&set.ID, &set.Name, &set.WordIDs, &set.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan set: %w", err)
		}
		sets = append(sets, set)
	}
	return sets, rows.Err()
}
