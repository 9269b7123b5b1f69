package reservation

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	BeginTx(ctx context.Context) (*sqlx.Tx, error)
	CreateTx(ctx context.Context, tx *sqlx.Tx, r *Reservation) (*Reservation, error)
	GetByID(ctx context.Context, id int) (*Reservation, error)
	GetByEvent(ctx context.Context, eventID int) ([]Reservation, error)
	GetByClub(ctx context.Context, clubID int) ([]Reservation, error)
	UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id int, from, to Status) error
	UpdateStatus(ctx context.Context, id int, from, to Status) error
}
