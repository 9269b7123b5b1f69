package event

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Create(ctx context.Context, e *Event) (*Event, error)
	GetByID(ctx context.Context, id int) (*Event, error)
	Search(ctx context.Context, f Filters) ([]Event, error)
	// UpdateScheduleTx pushes confirmed reservation timing back onto the
	// event inside the caller's transaction.
	UpdateScheduleTx(ctx context.Context, tx *sqlx.Tx, eventID int, schedule time.Time, durationMinutes int, location string) error
}
