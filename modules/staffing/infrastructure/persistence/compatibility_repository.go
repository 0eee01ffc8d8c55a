package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/compatibility"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/composables"
)

type CompatibilityRuleRepository struct{}

func NewCompatibilityRuleRepository() compatibility.Repository {
	return &CompatibilityRuleRepository{}
}

func (r *CompatibilityRuleRepository) ListByPosition(ctx context.Context, positionID uuid.UUID) ([]*compatibility.Rule, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
SELECT id, position_id, unit_id, unit_type
FROM compatibility_rules
WHERE position_id=$1
`, pgUUID(positionID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*compatibility.Rule
	for rows.Next() {
		var rule compatibility.Rule
		var unitID pgtype.UUID
		var unitType pgtype.Text
		if err := rows.Scan(&rule.ID, &rule.PositionID, &unitID, &unitType); err != nil {
			return nil, err
		}
		rule.UnitID = uuidPtr(unitID)
		if unitType.Valid {
			rule.UnitType = unitType.String
		}
		out = append(out, &rule)
	}
	return out, rows.Err()
}
