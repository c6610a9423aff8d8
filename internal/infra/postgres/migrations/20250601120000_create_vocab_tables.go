package migrations

import (
	"context"

	"github.com/uptrace/bun"

	"vocab-quiz-service/internal/infra/postgres"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			if _, err := db.NewCreateTable().Model((*postgres.WordModel)(nil)).IfNotExists().Exec(ctx); err != nil {
				return err
			}
			if _, err := db.NewCreateTable().Model((*postgres.SetModel)(nil)).IfNotExists().Exec(ctx); err != nil {
				return err
			}
			if _, err := db.NewCreateTable().Model((*postgres.LeaderboardModel)(nil)).IfNotExists().Exec(ctx); err != nil {
				return err
			}
			_, err := db.NewRaw("CREATE INDEX IF NOT EXISTS idx_leaderboard_set_score ON leaderboard (set_id, score DESC)").Exec(ctx)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			for _, table := range []string{"leaderboard", "sets", "words"} {
				if _, err := db.NewRaw("DROP TABLE IF EXISTS " + table).Exec(ctx); err != nil {
					return err
				}
			}
			return nil
		},
	)
}
