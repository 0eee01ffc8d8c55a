package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/appointment"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/composables"
)

const appointmentColumns = `
	id,
	servant_id,
	position_id,
	unit_id,
	status,
	nomination_date,
	possession_date,
	exercise_date,
	closing_date,
	closing_reason,
	open_act_kind,
	open_act_number,
	open_act_date,
	close_act_kind,
	close_act_number,
	close_act_date,
	created_at,
	updated_at`

type AppointmentRepository struct{}

func NewAppointmentRepository() appointment.Repository {
	return &AppointmentRepository{}
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	return r.getOne(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id=$1`, appointment.ErrNotFound, pgUUID(id))
}

func (r *AppointmentRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	return r.getOne(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id=$1 FOR UPDATE`, appointment.ErrNotFound, pgUUID(id))
}

func (r *AppointmentRepository) GetActiveByServant(ctx context.Context, servantID uuid.UUID) (*appointment.Appointment, error) {
	return r.getOne(ctx, `
SELECT `+appointmentColumns+`
FROM appointments
WHERE servant_id=$1 AND status='active'
`, appointment.ErrNoActive, pgUUID(servantID))
}

func (r *AppointmentRepository) ListByServant(ctx context.Context, servantID uuid.UUID) ([]*appointment.Appointment, error) {
	return r.list(ctx, `
SELECT `+appointmentColumns+`
FROM appointments
WHERE servant_id=$1
ORDER BY nomination_date DESC, created_at DESC
`, pgUUID(servantID))
}

func (r *AppointmentRepository) GetPaginated(ctx context.Context, params *appointment.FindParams) ([]*appointment.Appointment, error) {
	if params == nil {
		params = &appointment.FindParams{}
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
SELECT `+appointmentColumns+`
FROM appointments
WHERE ($1::uuid IS NULL OR servant_id=$1)
  AND ($2::uuid IS NULL OR position_id=$2)
ORDER BY nomination_date DESC, created_at DESC
OFFSET $3 LIMIT $4
`, nilableUUID(params.ServantID), nilableUUID(params.PositionID), offset, limit)
}

func (r *AppointmentRepository) CountActiveByPosition(ctx context.Context, positionID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := tx.QueryRow(ctx, `
SELECT COUNT(*) FROM appointments WHERE position_id=$1 AND status='active'
`, pgUUID(positionID)).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *AppointmentRepository) Create(ctx context.Context, data *appointment.Appointment) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
INSERT INTO appointments (
	id, servant_id, position_id, unit_id, status,
	nomination_date, possession_date, exercise_date, closing_date, closing_reason,
	open_act_kind, open_act_number, open_act_date,
	close_act_kind, close_act_number, close_act_date,
	created_at, updated_at
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
`,
		pgUUID(data.ID()),
		pgUUID(data.ServantID()),
		pgUUID(data.PositionID()),
		pgUUIDPtr(data.UnitID()),
		string(data.Status()),
		pgDate(data.NominationDate()),
		pgDatePtr(data.PossessionDate()),
		pgDatePtr(data.ExerciseDate()),
		pgDatePtr(data.ClosingDate()),
		string(data.ClosingReason()),
		data.OpenAct().Kind,
		data.OpenAct().Number,
		pgDateZero(data.OpenAct().Date),
		data.CloseAct().Kind,
		data.CloseAct().Number,
		pgDateZero(data.CloseAct().Date),
		data.CreatedAt(),
		data.UpdatedAt(),
	)
	return err
}

func (r *AppointmentRepository) Update(ctx context.Context, data *appointment.Appointment) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
UPDATE appointments
SET status=$2,
	possession_date=$3,
	exercise_date=$4,
	closing_date=$5,
	closing_reason=$6,
	close_act_kind=$7,
	close_act_number=$8,
	close_act_date=$9,
	updated_at=$10
WHERE id=$1
`,
		pgUUID(data.ID()),
		string(data.Status()),
		pgDatePtr(data.PossessionDate()),
		pgDatePtr(data.ExerciseDate()),
		pgDatePtr(data.ClosingDate()),
		string(data.ClosingReason()),
		data.CloseAct().Kind,
		data.CloseAct().Number,
		pgDateZero(data.CloseAct().Date),
		data.UpdatedAt(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return appointment.ErrNotFound
	}
	return nil
}

func (r *AppointmentRepository) getOne(ctx context.Context, query string, notFound error, args ...any) (*appointment.Appointment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	out, err := scanAppointment(tx.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound
		}
		return nil, err
	}
	return out, nil
}

func (r *AppointmentRepository) list(ctx context.Context, query string, args ...any) ([]*appointment.Appointment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*appointment.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAppointment(row pgx.Row) (*appointment.Appointment, error) {
	var (
		id, servantID, positionID            uuid.UUID
		unitID                               pgtype.UUID
		status, closingReason                string
		nominationDate                       pgtype.Date
		possessionDate, exerciseDate         pgtype.Date
		closingDate                          pgtype.Date
		openActKind, openActNumber           string
		openActDate                          pgtype.Date
		closeActKind, closeActNumber         string
		closeActDate                         pgtype.Date
		createdAt, updatedAt                 pgtype.Timestamptz
	)

	if err := row.Scan(
		&id, &servantID, &positionID, &unitID, &status,
		&nominationDate, &possessionDate, &exerciseDate, &closingDate, &closingReason,
		&openActKind, &openActNumber, &openActDate,
		&closeActKind, &closeActNumber, &closeActDate,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	return appointment.Hydrate(
		id, servantID, positionID,
		uuidPtr(unitID),
		appointment.Status(status),
		nominationDate.Time,
		timePtr(possessionDate), timePtr(exerciseDate), timePtr(closingDate),
		appointment.ClosingReason(closingReason),
		actFromRow(openActKind, openActNumber, openActDate),
		actFromRow(closeActKind, closeActNumber, closeActDate),
		createdAt.Time, updatedAt.Time,
	), nil
}

func nilableUUID(id uuid.UUID) pgtype.UUID {
	if id == uuid.Nil {
		return pgtype.UUID{}
	}
	return pgUUID(id)
}
