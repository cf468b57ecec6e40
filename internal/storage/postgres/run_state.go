package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"viral_feed/internal/domain"
)

type RunStateStore struct {
	db *sqlx.DB
}

func NewRunStateStore(db *sqlx.DB) *RunStateStore {
	return &RunStateStore{db: db}
}

func (s *RunStateStore) Get(ctx context.Context, key string) (*domain.RunState, error) {
	var state domain.RunState
	query := `
		SELECT id, key, last_run_at, last_hero_id, total_generated
		FROM run_state
		WHERE key = $1`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &state, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		// first run
		return &domain.RunState{Key: key}, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *RunStateStore) Update(ctx context.Context, state *domain.RunState) error {
	query := `
		INSERT INTO run_state (key, last_run_at, last_hero_id, total_generated)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE SET
			last_run_at = EXCLUDED.last_run_at,
			last_hero_id = EXCLUDED.last_hero_id,
			total_generated = EXCLUDED.total_generated`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		state.Key,
		state.LastRunAt,
		state.LastHeroID,
		state.TotalGenerated,
	)
	return err
}
