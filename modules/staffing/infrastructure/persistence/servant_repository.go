package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/servant"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/composables"
)

type ServantRepository struct{}

func NewServantRepository() servant.Repository {
	return &ServantRepository{}
}

func (r *ServantRepository) GetByID(ctx context.Context, id uuid.UUID) (*servant.Servant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
SELECT id, display_name, category
FROM servants
WHERE id=$1
`, pgUUID(id))

	var out servant.Servant
	var category string
	if err := row.Scan(&out.ID, &out.DisplayName, &category); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, servant.ErrNotFound
		}
		return nil, err
	}
	out.Category = servant.Category(category)
	return &out, nil
}

func (r *ServantRepository) Lock(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	var locked uuid.UUID
	if err := tx.QueryRow(ctx, `
SELECT id FROM servants WHERE id=$1 FOR UPDATE
`, pgUUID(id)).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return servant.ErrNotFound
		}
		return err
	}
	return nil
}
