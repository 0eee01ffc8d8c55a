package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/bond"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/secondment"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/composables"
)

const secondmentColumns = lifecycleColumns + `,
	direction,
	counterpart_agency,
	counterpart_role,
	cost_bearer`

type SecondmentRepository struct{}

func NewSecondmentRepository() secondment.Repository {
	return &SecondmentRepository{}
}

func (r *SecondmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*secondment.Secondment, error) {
	return queryOne(ctx, `SELECT `+secondmentColumns+` FROM secondments WHERE id=$1`, secondment.ErrNotFound, scanSecondment, pgUUID(id))
}

func (r *SecondmentRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*secondment.Secondment, error) {
	return queryOne(ctx, `SELECT `+secondmentColumns+` FROM secondments WHERE id=$1 FOR UPDATE`, secondment.ErrNotFound, scanSecondment, pgUUID(id))
}

func (r *SecondmentRepository) GetActiveByServant(ctx context.Context, servantID uuid.UUID) (*secondment.Secondment, error) {
	return queryOne(ctx, `
SELECT `+secondmentColumns+` FROM secondments WHERE servant_id=$1 AND active
`, secondment.ErrNoActive, scanSecondment, pgUUID(servantID))
}

func (r *SecondmentRepository) ListByServant(ctx context.Context, servantID uuid.UUID) ([]*secondment.Secondment, error) {
	return queryMany(ctx, `
SELECT `+secondmentColumns+`
FROM secondments
WHERE servant_id=$1
ORDER BY start_date DESC, created_at DESC
`, scanSecondment, pgUUID(servantID))
}

func (r *SecondmentRepository) Create(ctx context.Context, data *secondment.Secondment) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	args := lifecycleInsertArgs(&data.State)
	args = append(args,
		string(data.Direction),
		data.CounterpartAgency,
		data.CounterpartRole,
		string(data.CostBearer),
	)
	_, err = tx.Exec(ctx, `
INSERT INTO secondments (
	id, servant_id, start_date, end_date, active,
	open_act_kind, open_act_number, open_act_date,
	close_act_kind, close_act_number, close_act_date,
	created_at, updated_at,
	direction, counterpart_agency, counterpart_role, cost_bearer
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
`, args...)
	return err
}

func (r *SecondmentRepository) Update(ctx context.Context, data *secondment.Secondment) error {
	return closeLifecycleRow(ctx, "secondments", &data.State, secondment.ErrNotFound)
}

func scanSecondment(row pgx.Row) (*secondment.Secondment, error) {
	var lr lifecycleRow
	var direction, costBearer string
	out := &secondment.Secondment{}

	targets := lr.scanTargets()
	targets = append(targets, &direction, &out.CounterpartAgency, &out.CounterpartRole, &costBearer)
	if err := row.Scan(targets...); err != nil {
		return nil, err
	}

	lr.apply(&out.State)
	out.Direction = secondment.Direction(direction)
	out.CostBearer = bond.CostBearer(costBearer)
	return out, nil
}
