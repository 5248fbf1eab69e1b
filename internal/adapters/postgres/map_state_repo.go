package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/mapbridge/internal/codec"
	"github.com/samirrijal/mapbridge/internal/core/domain"
	"github.com/samirrijal/mapbridge/internal/pkg/value"
)

// MapStateRepo implements ports.MapStateRepository. The state column holds
// the JSON produced by codec.EncodeMapState.
type MapStateRepo struct {
	db *DB
}

func NewMapStateRepo(db *DB) *MapStateRepo {
	return &MapStateRepo{db: db}
}

func (r *MapStateRepo) Get(ctx context.Context, id string) (*domain.MapState, error) {
	var raw []byte
	err := r.db.Pool.QueryRow(ctx, `
		SELECT state FROM map_states WHERE map_id = $1
	`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrMapNotFound
	}
	if err != nil {
		return nil, err
	}

	v, err := value.ParseJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("map %s: parse stored state: %w", id, err)
	}
	state, err := codec.DecodeMapState(v)
	if err != nil {
		return nil, fmt.Errorf("map %s: decode stored state: %w", id, err)
	}
	return state, nil
}

func (r *MapStateRepo) Upsert(ctx context.Context, state *domain.MapState) error {
	raw, err := codec.EncodeMapState(state).MarshalJSON()
	if err != nil {
		return fmt.Errorf("map %s: encode state: %w", state.ID, err)
	}
	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO map_states (map_id, state, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (map_id) DO UPDATE SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at
	`, state.ID, raw, state.UpdatedAt)
	return err
}

func (r *MapStateRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM map_states WHERE map_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMapNotFound
	}
	return nil
}

