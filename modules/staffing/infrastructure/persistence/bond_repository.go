package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/bond"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/composables"
)

const bondColumns = lifecycleColumns + `,
	type,
	origin_agency,
	destination_agency,
	cost_bearer,
	legal_basis`

type BondRepository struct{}

func NewBondRepository() bond.Repository {
	return &BondRepository{}
}

func (r *BondRepository) GetByID(ctx context.Context, id uuid.UUID) (*bond.Bond, error) {
	return queryOne(ctx, `SELECT `+bondColumns+` FROM bonds WHERE id=$1`, bond.ErrNotFound, scanBond, pgUUID(id))
}

func (r *BondRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*bond.Bond, error) {
	return queryOne(ctx, `SELECT `+bondColumns+` FROM bonds WHERE id=$1 FOR UPDATE`, bond.ErrNotFound, scanBond, pgUUID(id))
}

func (r *BondRepository) GetActiveByServant(ctx context.Context, servantID uuid.UUID) (*bond.Bond, error) {
	return queryOne(ctx, `
SELECT `+bondColumns+` FROM bonds WHERE servant_id=$1 AND active
`, bond.ErrNoActive, scanBond, pgUUID(servantID))
}

func (r *BondRepository) ListByServant(ctx context.Context, servantID uuid.UUID) ([]*bond.Bond, error) {
	return queryMany(ctx, `
SELECT `+bondColumns+`
FROM bonds
WHERE servant_id=$1
ORDER BY start_date DESC, created_at DESC
`, scanBond, pgUUID(servantID))
}

func (r *BondRepository) Create(ctx context.Context, data *bond.Bond) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	args := lifecycleInsertArgs(&data.State)
	args = append(args,
		string(data.Type),
		data.OriginAgency,
		data.DestinationAgency,
		string(data.CostBearer),
		data.LegalBasis,
	)
	_, err = tx.Exec(ctx, `
INSERT INTO bonds (
	id, servant_id, start_date, end_date, active,
	open_act_kind, open_act_number, open_act_date,
	close_act_kind, close_act_number, close_act_date,
	created_at, updated_at,
	type, origin_agency, destination_agency, cost_bearer, legal_basis
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
`, args...)
	return err
}

func (r *BondRepository) Update(ctx context.Context, data *bond.Bond) error {
	return closeLifecycleRow(ctx, "bonds", &data.State, bond.ErrNotFound)
}

func scanBond(row pgx.Row) (*bond.Bond, error) {
	var lr lifecycleRow
	var bondType, costBearer string
	out := &bond.Bond{}

	targets := lr.scanTargets()
	targets = append(targets, &bondType, &out.OriginAgency, &out.DestinationAgency, &costBearer, &out.LegalBasis)
	if err := row.Scan(targets...); err != nil {
		return nil, err
	}

	lr.apply(&out.State)
	out.Type = bond.Type(bondType)
	out.CostBearer = bond.CostBearer(costBearer)
	return out, nil
}
