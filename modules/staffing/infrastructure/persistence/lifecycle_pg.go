package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/lifecycle"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/composables"
)

// Column order shared by every lifecycle table; each table appends its own
// type-specific columns after these.
const lifecycleColumns = `
	id,
	servant_id,
	start_date,
	end_date,
	active,
	open_act_kind,
	open_act_number,
	open_act_date,
	close_act_kind,
	close_act_number,
	close_act_date,
	created_at,
	updated_at`

type lifecycleRow struct {
	id                           uuid.UUID
	servantID                    uuid.UUID
	startDate                    pgtype.Date
	endDate                      pgtype.Date
	active                       bool
	openActKind, openActNumber   string
	openActDate                  pgtype.Date
	closeActKind, closeActNumber string
	closeActDate                 pgtype.Date
	createdAt, updatedAt         pgtype.Timestamptz
}

func (lr *lifecycleRow) scanTargets() []any {
	return []any{
		&lr.id, &lr.servantID, &lr.startDate, &lr.endDate, &lr.active,
		&lr.openActKind, &lr.openActNumber, &lr.openActDate,
		&lr.closeActKind, &lr.closeActNumber, &lr.closeActDate,
		&lr.createdAt, &lr.updatedAt,
	}
}

func (lr *lifecycleRow) apply(s *lifecycle.State) {
	s.ID = lr.id
	s.ServantID = lr.servantID
	s.StartDate = lr.startDate.Time
	s.EndDate = timePtr(lr.endDate)
	s.Active = lr.active
	s.OpenAct = actFromRow(lr.openActKind, lr.openActNumber, lr.openActDate)
	s.CloseAct = actFromRow(lr.closeActKind, lr.closeActNumber, lr.closeActDate)
	s.CreatedAt = lr.createdAt.Time
	s.UpdatedAt = lr.updatedAt.Time
}

func lifecycleInsertArgs(s *lifecycle.State) []any {
	return []any{
		pgUUID(s.ID),
		pgUUID(s.ServantID),
		pgDate(s.StartDate),
		pgDatePtr(s.EndDate),
		s.Active,
		s.OpenAct.Kind,
		s.OpenAct.Number,
		pgDateZero(s.OpenAct.Date),
		s.CloseAct.Kind,
		s.CloseAct.Number,
		pgDateZero(s.CloseAct.Date),
		s.CreatedAt,
		s.UpdatedAt,
	}
}

// closeLifecycleRow writes the mutable (close-transition) columns back.
func closeLifecycleRow(ctx context.Context, table string, s *lifecycle.State, notFound error) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
UPDATE `+table+`
SET end_date=$2,
	active=$3,
	close_act_kind=$4,
	close_act_number=$5,
	close_act_date=$6,
	updated_at=$7
WHERE id=$1
`,
		pgUUID(s.ID),
		pgDatePtr(s.EndDate),
		s.Active,
		s.CloseAct.Kind,
		s.CloseAct.Number,
		pgDateZero(s.CloseAct.Date),
		s.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}

func queryOne[T any](ctx context.Context, query string, notFound error, scan func(pgx.Row) (T, error), args ...any) (T, error) {
	var zero T
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return zero, err
	}

	out, err := scan(tx.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, notFound
		}
		return zero, err
	}
	return out, nil
}

func queryMany[T any](ctx context.Context, query string, scan func(pgx.Row) (T, error), args ...any) ([]T, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
