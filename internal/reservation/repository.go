package reservation

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

// ErrInvalidTransition means the reservation was not in the expected state
// when a status update ran.
var ErrInvalidTransition = errors.New("reservation not in expected status")

const reservationColumns = "id, event_id, field_id, status, cost, created_at, updated_at"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, nil)
}

func (r *repository) CreateTx(ctx context.Context, tx *sqlx.Tx, res *Reservation) (*Reservation, error) {
	query := `
		INSERT INTO reservations (event_id, field_id, status, cost)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + reservationColumns

	var created Reservation
	err := tx.GetContext(ctx, &created, query, res.EventID, res.FieldID, res.Status, res.Cost)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	var res Reservation
	if err := r.db.GetContext(ctx, &res, query, id); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *repository) GetByEvent(ctx context.Context, eventID int) ([]Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE event_id = $1 ORDER BY created_at DESC`

	reservations := []Reservation{}
	if err := r.db.SelectContext(ctx, &reservations, query, eventID); err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *repository) GetByClub(ctx context.Context, clubID int) ([]Reservation, error) {
	query := `
		SELECT r.id, r.event_id, r.field_id, r.status, r.cost, r.created_at, r.updated_at
		FROM reservations r
		JOIN fields f ON f.id = r.field_id
		WHERE f.club_id = $1
		ORDER BY r.created_at DESC`

	reservations := []Reservation{}
	if err := r.db.SelectContext(ctx, &reservations, query, clubID); err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *repository) UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id int, from, to Status) error {
	return updateStatus(ctx, tx, id, from, to)
}

func (r *repository) UpdateStatus(ctx context.Context, id int, from, to Status) error {
	return updateStatus(ctx, r.db, id, from, to)
}

func updateStatus(ctx context.Context, ext sqlx.ExtContext, id int, from, to Status) error {
	query := `
		UPDATE reservations
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3`

	result, err := ext.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrInvalidTransition
	}
	return nil
}
