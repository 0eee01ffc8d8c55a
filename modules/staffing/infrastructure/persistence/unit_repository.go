package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/unit"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/composables"
)

type UnitRepository struct{}

func NewUnitRepository() unit.Repository {
	return &UnitRepository{}
}

func (r *UnitRepository) GetByID(ctx context.Context, id uuid.UUID) (*unit.Unit, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	var out unit.Unit
	if err := tx.QueryRow(ctx, `
SELECT id, name, type FROM org_units WHERE id=$1
`, pgUUID(id)).Scan(&out.ID, &out.Name, &out.Type); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, unit.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (r *UnitRepository) ListByType(ctx context.Context, unitType string) ([]*unit.Unit, error) {
	return r.list(ctx, `SELECT id, name, type FROM org_units WHERE type=$1 ORDER BY name`, unitType)
}

func (r *UnitRepository) GetAll(ctx context.Context) ([]*unit.Unit, error) {
	return r.list(ctx, `SELECT id, name, type FROM org_units ORDER BY name`)
}

func (r *UnitRepository) list(ctx context.Context, query string, args ...any) ([]*unit.Unit, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*unit.Unit
	for rows.Next() {
		var u unit.Unit
		if err := rows.Scan(&u.ID, &u.Name, &u.Type); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}
