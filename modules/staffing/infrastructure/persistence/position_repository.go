package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/position"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/composables"
)

const positionColumns = `id, name, nature, quota, base_compensation, created_at, updated_at`

type PositionRepository struct{}

func NewPositionRepository() position.Repository {
	return &PositionRepository{}
}

func (r *PositionRepository) GetByID(ctx context.Context, id uuid.UUID) (*position.Position, error) {
	return r.getByID(ctx, id, false)
}

func (r *PositionRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*position.Position, error) {
	return r.getByID(ctx, id, true)
}

func (r *PositionRepository) getByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*position.Position, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + positionColumns + ` FROM positions WHERE id=$1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	row := tx.QueryRow(ctx, query, pgUUID(id))
	out, err := scanPosition(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, position.ErrNotFound
		}
		return nil, err
	}
	return out, nil
}

func (r *PositionRepository) ListByNature(ctx context.Context, nature position.Nature) ([]*position.Position, error) {
	return r.list(ctx, `
SELECT `+positionColumns+`
FROM positions
WHERE nature=$1
ORDER BY name
`, string(nature))
}

func (r *PositionRepository) GetPaginated(ctx context.Context, params *position.FindParams) ([]*position.Position, error) {
	if params == nil {
		params = &position.FindParams{}
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	return r.list(ctx, `
SELECT `+positionColumns+`
FROM positions
WHERE ($1 = '' OR nature = $1)
ORDER BY name
OFFSET $2 LIMIT $3
`, string(params.Nature), offset, limit)
}

func (r *PositionRepository) ListWithOccupancy(ctx context.Context, nature position.Nature) ([]position.Occupancy, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
SELECT
	p.id,
	p.name,
	p.nature,
	p.quota,
	p.base_compensation,
	p.created_at,
	p.updated_at,
	COUNT(a.id) AS occupied
FROM positions p
LEFT JOIN appointments a ON a.position_id = p.id AND a.status = 'active'
WHERE ($1 = '' OR p.nature = $1)
GROUP BY p.id
ORDER BY p.name
`, string(nature))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []position.Occupancy
	for rows.Next() {
		var p position.Position
		var natureRaw string
		var occupied int64
		if err := rows.Scan(
			&p.ID, &p.Name, &natureRaw, &p.Quota, &p.BaseCompensation,
			&p.CreatedAt, &p.UpdatedAt, &occupied,
		); err != nil {
			return nil, err
		}
		p.Nature = position.Nature(natureRaw)
		out = append(out, position.Occupancy{Position: &p, Occupied: int(occupied)})
	}
	return out, rows.Err()
}

func (r *PositionRepository) list(ctx context.Context, query string, args ...any) ([]*position.Position, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*position.Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPosition(row pgx.Row) (*position.Position, error) {
	var p position.Position
	var nature string
	if err := row.Scan(&p.ID, &p.Name, &nature, &p.Quota, &p.BaseCompensation, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Nature = position.Nature(nature)
	return &p, nil
}
