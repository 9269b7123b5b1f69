package timeslot

import "time"

type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusBooked      Status = "BOOKED"
	StatusMaintenance Status = "MAINTENANCE"
)

const (
	// DateFormat is the facility-local calendar date of a slot.
	DateFormat = "2006-01-02"
	// TimeFormat is the wall-clock boundary of a slot. Zero-padded HH:MM
	// compares correctly as a plain string.
	TimeFormat = "15:04"
)

type Slot struct {
	ID            int       `db:"id" json:"id"`
	FieldID       int       `db:"field_id" json:"field_id"`
	Date          string    `db:"availability_date" json:"date"`
	StartTime     string    `db:"start_time" json:"start_time"`
	EndTime       string    `db:"end_time" json:"end_time"`
	Status        Status    `db:"slot_status" json:"status"`
	ReservationID *int      `db:"reservation_id" json:"reservation_id,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// ConsecutiveGroup is one window of exactly slotsNeeded adjacent AVAILABLE
// slots that can satisfy a reservation request.
type ConsecutiveGroup struct {
	SlotIDs   []int  `json:"slot_ids"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type CreateTimeSlotsRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Status    Status `json:"status"`
}

type UpdateSlotStatusRequest struct {
	Status Status `json:"status" binding:"required,oneof=AVAILABLE MAINTENANCE"`
}
