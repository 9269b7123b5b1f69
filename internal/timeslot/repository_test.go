package timeslot

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func slotRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "field_id", "availability_date", "start_time", "end_time",
		"slot_status", "reservation_id", "created_at",
	})
}

func TestRepository_CreateSlots(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	dbx := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(dbx)

	mock.ExpectQuery(`INSERT INTO time_slots.*RETURNING.*`).
		WithArgs(1, "2026-09-01", "09:00", "10:00", "AVAILABLE",
			1, "2026-09-01", "10:00", "11:00", "AVAILABLE").
		WillReturnRows(slotRows().
			AddRow(10, 1, "2026-09-01", "09:00", "10:00", "AVAILABLE", nil, time.Now()).
			AddRow(11, 1, "2026-09-01", "10:00", "11:00", "AVAILABLE", nil, time.Now()))

	slots, err := repo.CreateSlots(context.Background(), []Slot{
		{FieldID: 1, Date: "2026-09-01", StartTime: "09:00", EndTime: "10:00", Status: StatusAvailable},
		{FieldID: 1, Date: "2026-09-01", StartTime: "10:00", EndTime: "11:00", Status: StatusAvailable},
	})

	assert.NoError(t, err)
	assert.Len(t, slots, 2)
	assert.Equal(t, 10, slots[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindOverlapping(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	dbx := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(dbx)

	mock.ExpectQuery(`(?s)SELECT .* FROM time_slots.*start_time < \$3.*end_time > \$4.*`).
		WithArgs(1, "2026-09-01", "11:00", "09:00").
		WillReturnRows(slotRows().
			AddRow(7, 1, "2026-09-01", "10:00", "11:00", "AVAILABLE", nil, time.Now()))

	slots, err := repo.FindOverlapping(context.Background(), 1, "2026-09-01", "09:00", "11:00")

	assert.NoError(t, err)
	assert.Len(t, slots, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus_NotIdle(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	dbx := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(dbx)

	mock.ExpectExec(`(?s)UPDATE time_slots.*reservation_id IS NULL.*`).
		WithArgs("MAINTENANCE", 9, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateStatus(context.Background(), 1, 9, StatusMaintenance)

	assert.ErrorIs(t, err, ErrSlotNotFoundOrNotIdle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteAvailable_Booked(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	dbx := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(dbx)

	mock.ExpectExec(`(?s)DELETE FROM time_slots.*slot_status = 'AVAILABLE'.*`).
		WithArgs(9, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.DeleteAvailable(context.Background(), 1, 9)

	assert.ErrorIs(t, err, ErrSlotNotFoundOrNotIdle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_LockAvailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	dbx := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(dbx)

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)SELECT .* FROM time_slots.*FOR UPDATE.*`).
		WithArgs(pq.Array([]int{10, 11})).
		WillReturnRows(slotRows().
			AddRow(10, 1, "2026-09-01", "09:00", "10:00", "AVAILABLE", nil, time.Now()).
			AddRow(11, 1, "2026-09-01", "10:00", "11:00", "AVAILABLE", nil, time.Now()))

	tx, err := dbx.BeginTxx(context.Background(), nil)
	assert.NoError(t, err)

	slots, err := repo.LockAvailable(context.Background(), tx, []int{10, 11})

	assert.NoError(t, err)
	assert.Len(t, slots, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkBooked_Shrunk(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	dbx := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(dbx)

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)UPDATE time_slots.*slot_status = 'AVAILABLE'.*`).
		WithArgs(3, pq.Array([]int{10, 11})).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := dbx.BeginTxx(context.Background(), nil)
	assert.NoError(t, err)

	err = repo.MarkBooked(context.Background(), tx, []int{10, 11}, 3)

	assert.ErrorIs(t, err, ErrSlotsUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ReleaseByReservation(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	dbx := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(dbx)

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)UPDATE time_slots.*reservation_id = NULL.*`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 2))

	tx, err := dbx.BeginTxx(context.Background(), nil)
	assert.NoError(t, err)

	assert.NoError(t, repo.ReleaseByReservation(context.Background(), tx, 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}
