package field

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, f *Field) (*Field, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO fields (club_id, name, description, slot_duration, cost_per_slot, capacity)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, club_id, name, description, slot_duration, cost_per_slot, capacity, created_at
	`

	var created Field
	err = tx.GetContext(ctx, &created, query,
		f.ClubID, f.Name, f.Description, f.SlotDurationMinutes, f.CostPerSlot, f.Capacity)
	if err != nil {
		return nil, err
	}

	for _, sportID := range f.SportIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO field_sports (field_id, sport_id) VALUES ($1, $2)`,
			created.ID, sportID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	created.SportIDs = f.SportIDs
	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Field, error) {
	query := `
		SELECT id, club_id, name, description, slot_duration, cost_per_slot, capacity, created_at
		FROM fields
		WHERE id = $1
	`

	var f Field
	if err := r.db.GetContext(ctx, &f, query, id); err != nil {
		return nil, err
	}

	if err := r.loadSports(ctx, &f); err != nil {
		return nil, err
	}

	return &f, nil
}

func (r *repository) GetByClub(ctx context.Context, clubID int) ([]Field, error) {
	query := `
		SELECT id, club_id, name, description, slot_duration, cost_per_slot, capacity, created_at
		FROM fields
		WHERE club_id = $1
		ORDER BY name ASC
	`

	var fields []Field
	if err := r.db.SelectContext(ctx, &fields, query, clubID); err != nil {
		return nil, err
	}

	for i := range fields {
		if err := r.loadSports(ctx, &fields[i]); err != nil {
			return nil, err
		}
	}

	return fields, nil
}

func (r *repository) GetByClubAndSport(ctx context.Context, clubID, sportID int) ([]Field, error) {
	query := `
		SELECT f.id, f.club_id, f.name, f.description, f.slot_duration, f.cost_per_slot, f.capacity, f.created_at
		FROM fields f
		JOIN field_sports fs ON fs.field_id = f.id
		WHERE f.club_id = $1 AND fs.sport_id = $2
		ORDER BY f.name ASC
	`

	var fields []Field
	if err := r.db.SelectContext(ctx, &fields, query, clubID, sportID); err != nil {
		return nil, err
	}

	for i := range fields {
		if err := r.loadSports(ctx, &fields[i]); err != nil {
			return nil, err
		}
	}

	return fields, nil
}

func (r *repository) Update(ctx context.Context, f *Field) error {
	query := `
		UPDATE fields
		SET name = $1, description = $2, slot_duration = $3, cost_per_slot = $4, capacity = $5
		WHERE id = $6
	`

	_, err := r.db.ExecContext(ctx, query,
		f.Name, f.Description, f.SlotDurationMinutes, f.CostPerSlot, f.Capacity, f.ID)
	return err
}

func (r *repository) HasSlots(ctx context.Context, fieldID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM time_slots WHERE field_id = $1)`, fieldID)
	return exists, err
}

func (r *repository) loadSports(ctx context.Context, f *Field) error {
	var ids pq.Int64Array
	err := r.db.GetContext(ctx, &ids,
		`SELECT COALESCE(ARRAY_AGG(sport_id ORDER BY sport_id), '{}') FROM field_sports WHERE field_id = $1`,
		f.ID)
	if err != nil {
		return err
	}

	f.SportIDs = make([]int, len(ids))
	for i, id := range ids {
		f.SportIDs[i] = int(id)
	}
	return nil
}
