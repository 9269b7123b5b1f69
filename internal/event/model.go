package event

import "time"

// OrganizerType tags which kind of principal owns an event.
type OrganizerType string

const (
	OrganizerUser OrganizerType = "USER"
	OrganizerClub OrganizerType = "CLUB"
)

type Event struct {
	ID            int           `db:"id" json:"id"`
	OrganizerType OrganizerType `db:"organizer_type" json:"organizer_type"`
	OwnerID       int           `db:"owner_id" json:"owner_id"`
	SportID       int           `db:"sport_id" json:"sport_id"`
	Schedule      time.Time     `db:"schedule" json:"schedule"`
	Duration      int           `db:"duration" json:"duration_minutes"`
	Location      string        `db:"location" json:"location"`
	Expertise     string        `db:"expertise" json:"expertise"`
	Remaining     int           `db:"remaining" json:"remaining"`
	Description   string        `db:"description" json:"description"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
}

// Owner is the resolved side of the organizer union.
type Owner struct {
	Type  OrganizerType `json:"type"`
	ID    int           `json:"id"`
	Name  string        `json:"name"`
	Email string        `json:"email"`
}

type Detail struct {
	Event
	Owner Owner `json:"owner"`
}

type CreateEventRequest struct {
	SportID     int       `json:"sport_id" binding:"required"`
	Schedule    time.Time `json:"schedule" binding:"required"`
	Duration    int       `json:"duration_minutes" binding:"required,gt=0"`
	Location    string    `json:"location" binding:"required"`
	Expertise   string    `json:"expertise"`
	Remaining   int       `json:"remaining" binding:"required,min=1"`
	Description string    `json:"description"`
}

// Filters narrows an event search. Nil fields are not applied.
type Filters struct {
	SportID       *int
	Location      *string
	OrganizerType *OrganizerType
	From          *time.Time
	To            *time.Time
}
