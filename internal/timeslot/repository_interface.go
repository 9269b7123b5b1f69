package timeslot

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	CreateSlots(ctx context.Context, slots []Slot) ([]Slot, error)
	FindOverlapping(ctx context.Context, fieldID int, date, startTime, endTime string) ([]Slot, error)
	GetFieldSlots(ctx context.Context, fieldID int, date string, status Status) ([]Slot, error)
	GetAvailableByFieldAndDate(ctx context.Context, fieldID int, date string) ([]Slot, error)
	GetByID(ctx context.Context, fieldID, slotID int) (*Slot, error)
	UpdateStatus(ctx context.Context, fieldID, slotID int, status Status) error
	DeleteAvailable(ctx context.Context, fieldID, slotID int) error
	FindByReservation(ctx context.Context, reservationID int) ([]Slot, error)

	// LockAvailable row-locks the AVAILABLE slots among ids inside tx and
	// returns them ordered by start time. Anything already claimed, in
	// maintenance, or missing is simply absent from the result.
	LockAvailable(ctx context.Context, tx *sqlx.Tx, ids []int) ([]Slot, error)
	MarkBooked(ctx context.Context, tx *sqlx.Tx, ids []int, reservationID int) error
	ReleaseByReservation(ctx context.Context, tx *sqlx.Tx, reservationID int) error
}
