package timeslot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrSlotsUnavailable      = errors.New("one or more slots are no longer available")
	ErrSlotNotFoundOrNotIdle = errors.New("slot not found or not available")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const slotColumns = "id, field_id, availability_date, start_time, end_time, slot_status, reservation_id, created_at"

func (r *repository) CreateSlots(ctx context.Context, slots []Slot) ([]Slot, error) {
	if len(slots) == 0 {
		return nil, nil
	}

	query := `INSERT INTO time_slots (field_id, availability_date, start_time, end_time, slot_status) VALUES `
	args := make([]interface{}, 0, len(slots)*5)
	placeholders := make([]string, 0, len(slots))

	for i, s := range slots {
		base := i * 5
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5))
		args = append(args, s.FieldID, s.Date, s.StartTime, s.EndTime, string(s.Status))
	}

	query += strings.Join(placeholders, ", ")
	query += " RETURNING " + slotColumns

	var created []Slot
	if err := r.db.SelectContext(ctx, &created, query, args...); err != nil {
		return nil, err
	}

	return created, nil
}

func (r *repository) FindOverlapping(ctx context.Context, fieldID int, date, startTime, endTime string) ([]Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM time_slots
		WHERE field_id = $1
		  AND availability_date = $2
		  AND start_time < $3
		  AND end_time > $4
	`

	var slots []Slot
	err := r.db.SelectContext(ctx, &slots, query, fieldID, date, endTime, startTime)
	if err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *repository) GetFieldSlots(ctx context.Context, fieldID int, date string, status Status) ([]Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM time_slots
		WHERE field_id = $1
	`
	args := []interface{}{fieldID}

	if date != "" {
		args = append(args, date)
		query += fmt.Sprintf(" AND availability_date = $%d", len(args))
	}
	if status != "" {
		args = append(args, string(status))
		query += fmt.Sprintf(" AND slot_status = $%d", len(args))
	}

	query += " ORDER BY availability_date ASC, start_time ASC"

	var slots []Slot
	err := r.db.SelectContext(ctx, &slots, query, args...)
	if err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *repository) GetAvailableByFieldAndDate(ctx context.Context, fieldID int, date string) ([]Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM time_slots
		WHERE field_id = $1
		  AND availability_date = $2
		  AND slot_status = 'AVAILABLE'
		ORDER BY start_time ASC
	`

	var slots []Slot
	err := r.db.SelectContext(ctx, &slots, query, fieldID, date)
	if err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *repository) GetByID(ctx context.Context, fieldID, slotID int) (*Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM time_slots
		WHERE id = $1 AND field_id = $2
	`

	var s Slot
	if err := r.db.GetContext(ctx, &s, query, slotID, fieldID); err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *repository) UpdateStatus(ctx context.Context, fieldID, slotID int, status Status) error {
	query := `
		UPDATE time_slots
		SET slot_status = $1
		WHERE id = $2 AND field_id = $3 AND reservation_id IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, string(status), slotID, fieldID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrSlotNotFoundOrNotIdle
	}

	return nil
}

func (r *repository) DeleteAvailable(ctx context.Context, fieldID, slotID int) error {
	query := `
		DELETE FROM time_slots
		WHERE id = $1 AND field_id = $2 AND slot_status = 'AVAILABLE'
	`

	result, err := r.db.ExecContext(ctx, query, slotID, fieldID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrSlotNotFoundOrNotIdle
	}

	return nil
}

func (r *repository) FindByReservation(ctx context.Context, reservationID int) ([]Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM time_slots
		WHERE reservation_id = $1
		ORDER BY start_time ASC
	`

	var slots []Slot
	err := r.db.SelectContext(ctx, &slots, query, reservationID)
	if err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *repository) LockAvailable(ctx context.Context, tx *sqlx.Tx, ids []int) ([]Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM time_slots
		WHERE id = ANY($1)
		  AND slot_status = 'AVAILABLE'
		ORDER BY start_time ASC
		FOR UPDATE
	`

	var slots []Slot
	err := tx.SelectContext(ctx, &slots, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *repository) MarkBooked(ctx context.Context, tx *sqlx.Tx, ids []int, reservationID int) error {
	query := `
		UPDATE time_slots
		SET slot_status = 'BOOKED', reservation_id = $1
		WHERE id = ANY($2) AND slot_status = 'AVAILABLE'
	`

	result, err := tx.ExecContext(ctx, query, reservationID, pq.Array(ids))
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if int(rows) != len(ids) {
		return ErrSlotsUnavailable
	}

	return nil
}

func (r *repository) ReleaseByReservation(ctx context.Context, tx *sqlx.Tx, reservationID int) error {
	// No-op for already released slots, which keeps release idempotent.
	query := `
		UPDATE time_slots
		SET slot_status = 'AVAILABLE', reservation_id = NULL
		WHERE reservation_id = $1
	`

	_, err := tx.ExecContext(ctx, query, reservationID)
	return err
}
