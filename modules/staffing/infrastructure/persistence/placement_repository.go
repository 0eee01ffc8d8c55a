package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/placement"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/composables"
)

const placementColumns = lifecycleColumns + `,
	unit_id,
	position_id,
	kind,
	movement_type,
	exercised_function,
	external_agency`

type PlacementRepository struct{}

func NewPlacementRepository() placement.Repository {
	return &PlacementRepository{}
}

func (r *PlacementRepository) GetByID(ctx context.Context, id uuid.UUID) (*placement.Placement, error) {
	return queryOne(ctx, `SELECT `+placementColumns+` FROM placements WHERE id=$1`, placement.ErrNotFound, scanPlacement, pgUUID(id))
}

func (r *PlacementRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*placement.Placement, error) {
	return queryOne(ctx, `SELECT `+placementColumns+` FROM placements WHERE id=$1 FOR UPDATE`, placement.ErrNotFound, scanPlacement, pgUUID(id))
}

func (r *PlacementRepository) GetActiveByServant(ctx context.Context, servantID uuid.UUID) (*placement.Placement, error) {
	return queryOne(ctx, `
SELECT `+placementColumns+` FROM placements WHERE servant_id=$1 AND active
`, placement.ErrNoActive, scanPlacement, pgUUID(servantID))
}

func (r *PlacementRepository) ListByServant(ctx context.Context, servantID uuid.UUID) ([]*placement.Placement, error) {
	return queryMany(ctx, `
SELECT `+placementColumns+`
FROM placements
WHERE servant_id=$1
ORDER BY start_date DESC, created_at DESC
`, scanPlacement, pgUUID(servantID))
}

func (r *PlacementRepository) Create(ctx context.Context, data *placement.Placement) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	args := lifecycleInsertArgs(&data.State)
	args = append(args,
		pgUUID(data.UnitID),
		pgUUIDPtr(data.PositionID),
		string(data.Kind),
		string(data.Movement),
		data.ExercisedFunction,
		data.ExternalAgency,
	)
	_, err = tx.Exec(ctx, `
INSERT INTO placements (
	id, servant_id, start_date, end_date, active,
	open_act_kind, open_act_number, open_act_date,
	close_act_kind, close_act_number, close_act_date,
	created_at, updated_at,
	unit_id, position_id, kind, movement_type, exercised_function, external_agency
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
`, args...)
	return err
}

func (r *PlacementRepository) Update(ctx context.Context, data *placement.Placement) error {
	return closeLifecycleRow(ctx, "placements", &data.State, placement.ErrNotFound)
}

func scanPlacement(row pgx.Row) (*placement.Placement, error) {
	var lr lifecycleRow
	var positionID pgtype.UUID
	var kind, movement string
	out := &placement.Placement{}

	targets := lr.scanTargets()
	targets = append(targets, &out.UnitID, &positionID, &kind, &movement, &out.ExercisedFunction, &out.ExternalAgency)
	if err := row.Scan(targets...); err != nil {
		return nil, err
	}

	lr.apply(&out.State)
	out.PositionID = uuidPtr(positionID)
	out.Kind = placement.Kind(kind)
	out.Movement = placement.MovementType(movement)
	return out, nil
}
