package event

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const eventColumns = "id, organizer_type, owner_id, sport_id, schedule, duration, location, expertise, remaining, description, created_at"

func (r *repository) Create(ctx context.Context, e *Event) (*Event, error) {
	query := `
		INSERT INTO events (organizer_type, owner_id, sport_id, schedule, duration, location, expertise, remaining, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + eventColumns

	var created Event
	err := r.db.GetContext(ctx, &created, query,
		string(e.OrganizerType), e.OwnerID, e.SportID, e.Schedule, e.Duration,
		e.Location, e.Expertise, e.Remaining, e.Description)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var e Event
	if err := r.db.GetContext(ctx, &e, query, id); err != nil {
		return nil, err
	}

	return &e, nil
}

// Search composes WHERE conditions with numbered placeholders; filter values
// never end up concatenated into the SQL text.
func (r *repository) Search(ctx context.Context, f Filters) ([]Event, error) {
	conds := []string{"1=1"}
	var args []interface{}

	if f.SportID != nil {
		args = append(args, *f.SportID)
		conds = append(conds, fmt.Sprintf("sport_id = $%d", len(args)))
	}
	if f.Location != nil {
		args = append(args, *f.Location)
		conds = append(conds, fmt.Sprintf("LOWER(location) = LOWER($%d)", len(args)))
	}
	if f.OrganizerType != nil {
		args = append(args, string(*f.OrganizerType))
		conds = append(conds, fmt.Sprintf("organizer_type = $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		conds = append(conds, fmt.Sprintf("schedule >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conds = append(conds, fmt.Sprintf("schedule <= $%d", len(args)))
	}

	query := `SELECT ` + eventColumns + ` FROM events WHERE ` +
		strings.Join(conds, " AND ") + ` ORDER BY schedule ASC`

	var events []Event
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *repository) UpdateScheduleTx(ctx context.Context, tx *sqlx.Tx, eventID int, schedule time.Time, durationMinutes int, location string) error {
	query := `
		UPDATE events
		SET schedule = $1, duration = $2, location = $3
		WHERE id = $4
	`

	_, err := tx.ExecContext(ctx, query, schedule, durationMinutes, location, eventID)
	return err
}
