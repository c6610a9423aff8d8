package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"vocab-quiz-service/internal/domain"
)

// Store writes imported content and serves the leaderboard using bun.
type Store struct {
	db *bun.DB
}

func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

// OpenBun opens a bun handle over the pgdriver connector.
func OpenBun(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// ImportSet inserts rows and a set referencing them in one transaction, so a
// failed set insert leaves no orphaned words behind.
func (s *Store) ImportSet(ctx context.Context, name string, rows []domain.WordInput) (domain.Set, error) {
	var set domain.Set
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		ids, err := insertWords(ctx, tx, rows)
		if err != nil {
			return err
		}
		set, err = insertSet(ctx, tx, name, ids)
		return err
	})
	if err != nil {
		return domain.Set{}, err
	}
	return set, nil
}

// insertWords bulk-inserts rows in one statement and returns their ids in
// input order.
func insertWords(ctx context.Context, db bun.IDB, rows []domain.WordInput) ([]string, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	models := make([]*WordModel, len(rows))
	for i, row := range rows {
		models[i] = wordModelFrom(row)
	}
	if _, err := db.NewInsert().Model(&models).Exec(ctx); err != nil {
		return nil, fmt.Errorf("insert words: %w", err)
	}

	ids := make([]string, len(models))
	for i, m := range models {
		ids[i] = m.ID.String()
	}
	return ids, nil
}

func insertSet(ctx context.Context, db bun.IDB, name string, wordIDs []string) (domain.Set, error) {
	model := &SetModel{Name: name, WordIDs: wordIDs}
	if _, err := db.NewInsert().Model(model).Returning("id, created_at").Exec(ctx); err != nil {
		return domain.Set{}, fmt.Errorf("insert set: %w", err)
	}
	return model.toDomain(), nil
}

func (s *Store) InsertLeaderboardEntry(ctx context.Context, entry domain.LeaderboardEntry) error {
	model := &LeaderboardModel{SetID: entry.SetID, Name: entry.Name, Score: entry.Score}
	if _, err := s.db.NewInsert().Model(model).Exec(ctx); err != nil {
		return fmt.Errorf("insert leaderboard entry: %w", err)
	}
	return nil
}

// GetTopLeaderboard returns a set's best scores; ties fall back to id order.
func (s *Store) GetTopLeaderboard(ctx context.Context, setID string, limit int) ([]domain.LeaderboardEntry, error) {
	var models []LeaderboardModel
	err := s.db.NewSelect().
		Model(&models).
		Where("set_id = ?", setID).
		OrderExpr("score DESC, id ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("get top leaderboard: %w", err)
	}
	entries := make([]domain.LeaderboardEntry, len(models))
	for i := range models {
		entries[i] = models[i].toDomain()
	}
	return entries, nil
}
