package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"vocab-quiz-service/internal/domain"
)

// WordModel is the words table.
type WordModel struct {
	bun.BaseModel `bun:"table:words,alias:w"`

	ID          uuid.UUID  `bun:"id,pk,type:uuid"`
	Word        string     `bun:"word,notnull"`
	Meaning     string     `bun:"meaning,notnull"`
	Distractor1 string     `bun:"distractor1,notnull"`
	Distractor2 string     `bun:"distractor2,notnull"`
	Distractor3 string     `bun:"distractor3,notnull"`
	Synonym1    *string    `bun:"synonym1"`
	Synonym2    *string    `bun:"synonym2"`
	Antonym1    *string    `bun:"antonym1"`
	Antonym2    *string    `bun:"antonym2"`
	Example     string     `bun:"example,notnull"`
	PosterURL   *string    `bun:"poster_url"`
	CreatedAt   *time.Time `bun:"created_at"`
}

var _ bun.BeforeInsertHook = (*WordModel)(nil)

func (m *WordModel) BeforeInsert(ctx context.Context, _ *bun.InsertQuery) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func wordModelFrom(in domain.WordInput) *WordModel {
	return &WordModel{
		ID:          uuid.New(),
		Word:        in.Word,
		Meaning:     in.Meaning,
		Distractor1: in.Distractor1,
		Distractor2: in.Distractor2,
		Distractor3: in.Distractor3,
		Synonym1:    in.Synonym1,
		Synonym2:    in.Synonym2,
		Antonym1:    in.Antonym1,
		Antonym2:    in.Antonym2,
		Example:     in.Example,
		PosterURL:   in.PosterURL,
		CreatedAt:   in.CreatedAt,
	}
}

// SetModel is the sets table. Word ids are kept as a text array so the
// import order is preserved.
type SetModel struct {
	bun.BaseModel `bun:"table:sets,alias:s"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	Name      string    `bun:"name,notnull"`
	WordIDs   []string  `bun:"word_ids,array,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

var _ bun.BeforeInsertHook = (*SetModel)(nil)

func (m *SetModel) BeforeInsert(ctx context.Context, _ *bun.InsertQuery) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *SetModel) toDomain() domain.Set {
	return domain.Set{
		ID:        m.ID.String(),
		Name:      m.Name,
		WordIDs:   append([]string(nil), m.WordIDs...),
		CreatedAt: m.CreatedAt,
	}
}

// LeaderboardModel is one submitted score.
type LeaderboardModel struct {
	bun.BaseModel `bun:"table:leaderboard,alias:lb"`

	ID        int64     `bun:"id,pk,autoincrement"`
	SetID     string    `bun:"set_id,notnull"`
	Name      string    `bun:"name,notnull"`
	Score     int       `bun:"score,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func (m *LeaderboardModel) toDomain() domain.LeaderboardEntry {
	return domain.LeaderboardEntry{
		SetID:     m.SetID,
		Name:      m.Name,
		Score:     m.Score,
		CreatedAt: m.CreatedAt,
	}
}
