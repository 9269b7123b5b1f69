package reservation

import (
	"time"

	"github.com/FranciscoFerrutti/sportsmatch-back/internal/timeslot"
)

// Status is the reservation lifecycle state.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Initiator tags who asked for a cancellation.
type Initiator string

const (
	InitiatorUser Initiator = "USER"
	InitiatorClub Initiator = "CLUB"
)

type Reservation struct {
	ID        int       `db:"id" json:"id"`
	EventID   int       `db:"event_id" json:"event_id"`
	FieldID   int       `db:"field_id" json:"field_id"`
	Status    Status    `db:"status" json:"status"`
	Cost      int64     `db:"cost" json:"cost"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Detail is a reservation together with the slots it holds.
type Detail struct {
	Reservation
	Slots []timeslot.Slot `json:"slots"`
}

// AvailableField is one bookable option for an event: a nearby field plus
// every consecutive slot window long enough for the event, costed.
type AvailableField struct {
	FieldID    int             `json:"field_id"`
	FieldName  string          `json:"field_name"`
	ClubName   string          `json:"club_name"`
	DistanceKm float64         `json:"distance_km"`
	Options    []BookingOption `json:"options"`
}

type BookingOption struct {
	SlotIDs   []int  `json:"slot_ids"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	TotalCost int64  `json:"total_cost"`
}

type CreateReservationRequest struct {
	EventID int   `json:"event_id" binding:"required"`
	FieldID int   `json:"field_id" binding:"required"`
	SlotIDs []int `json:"slot_ids" binding:"required,min=1"`
}
