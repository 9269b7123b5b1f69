package field

import "time"

// AllowedSlotDurations are the slot lengths, in minutes, a field may be
// configured with.
var AllowedSlotDurations = []int{15, 30, 60, 90, 120}

type Field struct {
	ID                  int       `db:"id" json:"id"`
	ClubID              int       `db:"club_id" json:"club_id"`
	Name                string    `db:"name" json:"name"`
	Description         string    `db:"description" json:"description"`
	SlotDurationMinutes int       `db:"slot_duration" json:"slot_duration_minutes"`
	CostPerSlot         int64     `db:"cost_per_slot" json:"cost_per_slot"`
	Capacity            int       `db:"capacity" json:"capacity"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`

	SportIDs []int `db:"-" json:"sport_ids"`
}

type CreateFieldRequest struct {
	Name                string `json:"name" binding:"required"`
	Description         string `json:"description"`
	SlotDurationMinutes int    `json:"slot_duration_minutes" binding:"required"`
	CostPerSlot         int64  `json:"cost_per_slot" binding:"required,gt=0"`
	Capacity            int    `json:"capacity" binding:"required,min=1"`
	SportIDs            []int  `json:"sport_ids" binding:"required,min=1"`
}

type UpdateFieldRequest struct {
	Name                *string `json:"name"`
	Description         *string `json:"description"`
	SlotDurationMinutes *int    `json:"slot_duration_minutes"`
	CostPerSlot         *int64  `json:"cost_per_slot"`
	Capacity            *int    `json:"capacity"`
}

func IsAllowedSlotDuration(minutes int) bool {
	for _, d := range AllowedSlotDurations {
		if d == minutes {
			return true
		}
	}
	return false
}
