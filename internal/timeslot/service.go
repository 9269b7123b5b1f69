package timeslot

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/FranciscoFerrutti/sportsmatch-back/internal/apperr"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/field"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/metrics"
)

type Service interface {
	// CreateForField generates and stores the slots covering the requested
	// window, using the field's configured slot duration.
	CreateForField(ctx context.Context, clubID, fieldID int, req CreateTimeSlotsRequest) ([]Slot, error)
	GetFieldSlots(ctx context.Context, fieldID int, date string, status Status) ([]Slot, error)
	// FindConsecutiveAvailable returns every window of exactly
	// ceil(requestedMinutes / slotDuration) adjacent AVAILABLE slots on the
	// field for the facility-local date of `at`.
	FindConsecutiveAvailable(ctx context.Context, fieldID int, at time.Time, requestedMinutes int) ([]ConsecutiveGroup, error)
	SetStatus(ctx context.Context, clubID, fieldID, slotID int, status Status) error
	Delete(ctx context.Context, clubID, fieldID, slotID int) error
}

type service struct {
	repo     Repository
	fieldSvc field.Service
	loc      *time.Location
}

func NewService(repo Repository, fieldSvc field.Service, loc *time.Location) Service {
	return &service{
		repo:     repo,
		fieldSvc: fieldSvc,
		loc:      loc,
	}
}

func (s *service) CreateForField(ctx context.Context, clubID, fieldID int, req CreateTimeSlotsRequest) ([]Slot, error) {
	f, err := s.fieldSvc.CheckOwnership(ctx, fieldID, clubID)
	if err != nil {
		return nil, err
	}

	if _, err := time.Parse(DateFormat, req.Date); err != nil {
		return nil, apperr.BadRequest("INVALID_DATE", "date must be YYYY-MM-DD")
	}

	// One overlap check covers the whole batch: any existing slot that
	// intersects the requested window rejects the request.
	existing, err := s.repo.FindOverlapping(ctx, fieldID, req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, apperr.BadRequest("OVERLAPPING_SLOTS",
			"there are overlapping slots in the specified time range")
	}

	slots, err := GenerateSlots(fieldID, req.Date, req.StartTime, req.EndTime, f.SlotDurationMinutes, req.Status)
	if err != nil {
		return nil, apperr.BadRequest("INVALID_TIME_WINDOW", err.Error())
	}

	if len(slots) == 0 {
		return []Slot{}, nil
	}

	created, err := s.repo.CreateSlots(ctx, slots)
	if err != nil {
		return nil, err
	}

	metrics.SlotsGeneratedTotal.Add(float64(len(created)))
	return created, nil
}

func (s *service) GetFieldSlots(ctx context.Context, fieldID int, date string, status Status) ([]Slot, error) {
	return s.repo.GetFieldSlots(ctx, fieldID, date, status)
}

func (s *service) FindConsecutiveAvailable(ctx context.Context, fieldID int, at time.Time, requestedMinutes int) ([]ConsecutiveGroup, error) {
	f, err := s.fieldSvc.GetByID(ctx, fieldID)
	if err != nil {
		return nil, err
	}

	date := at.In(s.loc).Format(DateFormat)

	slots, err := s.repo.GetAvailableByFieldAndDate(ctx, fieldID, date)
	if err != nil {
		return nil, err
	}

	slotsNeeded := SlotsNeeded(requestedMinutes, f.SlotDurationMinutes)
	return consecutiveGroups(slots, slotsNeeded), nil
}

// consecutiveGroups slides a window of size slotsNeeded over each maximal
// run of adjacent slots, emitting one candidate per offset. A run of five
// slots with slotsNeeded=2 therefore yields four overlapping groups.
func consecutiveGroups(slots []Slot, slotsNeeded int) []ConsecutiveGroup {
	groups := []ConsecutiveGroup{}
	if slotsNeeded <= 0 || len(slots) < slotsNeeded {
		return groups
	}

	runStart := 0
	for i := 1; i <= len(slots); i++ {
		if i == len(slots) || slots[i-1].EndTime != slots[i].StartTime {
			groups = append(groups, windowsOf(slots[runStart:i], slotsNeeded)...)
			runStart = i
		}
	}

	return groups
}

func windowsOf(run []Slot, size int) []ConsecutiveGroup {
	var groups []ConsecutiveGroup
	for offset := 0; offset+size <= len(run); offset++ {
		window := run[offset : offset+size]

		ids := make([]int, size)
		for i, s := range window {
			ids[i] = s.ID
		}

		groups = append(groups, ConsecutiveGroup{
			SlotIDs:   ids,
			StartTime: window[0].StartTime,
			EndTime:   window[size-1].EndTime,
		})
	}
	return groups
}

func (s *service) SetStatus(ctx context.Context, clubID, fieldID, slotID int, status Status) error {
	if _, err := s.fieldSvc.CheckOwnership(ctx, fieldID, clubID); err != nil {
		return err
	}

	if err := s.repo.UpdateStatus(ctx, fieldID, slotID, status); err != nil {
		if errors.Is(err, ErrSlotNotFoundOrNotIdle) {
			return apperr.Conflict("SLOT_NOT_IDLE", "slot is booked or does not exist")
		}
		return err
	}

	return nil
}

func (s *service) Delete(ctx context.Context, clubID, fieldID, slotID int) error {
	if _, err := s.fieldSvc.CheckOwnership(ctx, fieldID, clubID); err != nil {
		return err
	}

	if _, err := s.repo.GetByID(ctx, fieldID, slotID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("Time slot")
		}
		return err
	}

	if err := s.repo.DeleteAvailable(ctx, fieldID, slotID); err != nil {
		if errors.Is(err, ErrSlotNotFoundOrNotIdle) {
			return apperr.Conflict("SLOT_NOT_IDLE", "only available slots can be deleted")
		}
		return err
	}

	return nil
}
