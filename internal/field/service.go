package field

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/FranciscoFerrutti/sportsmatch-back/internal/apperr"
)

type Service interface {
	Create(ctx context.Context, clubID int, req CreateFieldRequest) (*Field, error)
	GetByID(ctx context.Context, id int) (*Field, error)
	GetByClub(ctx context.Context, clubID int) ([]Field, error)
	Update(ctx context.Context, clubID, fieldID int, req UpdateFieldRequest) (*Field, error)
	// CheckOwnership returns the field when it belongs to clubID,
	// NOT_OWNER otherwise.
	CheckOwnership(ctx context.Context, fieldID, clubID int) (*Field, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, clubID int, req CreateFieldRequest) (*Field, error) {
	if !IsAllowedSlotDuration(req.SlotDurationMinutes) {
		return nil, apperr.BadRequest("INVALID_SLOT_DURATION",
			fmt.Sprintf("slot duration must be one of %v minutes", AllowedSlotDurations))
	}

	return s.repo.Create(ctx, &Field{
		ClubID:              clubID,
		Name:                req.Name,
		Description:         req.Description,
		SlotDurationMinutes: req.SlotDurationMinutes,
		CostPerSlot:         req.CostPerSlot,
		Capacity:            req.Capacity,
		SportIDs:            req.SportIDs,
	})
}

func (s *service) GetByID(ctx context.Context, id int) (*Field, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Field")
		}
		return nil, err
	}
	return f, nil
}

func (s *service) GetByClub(ctx context.Context, clubID int) ([]Field, error) {
	return s.repo.GetByClub(ctx, clubID)
}

func (s *service) Update(ctx context.Context, clubID, fieldID int, req UpdateFieldRequest) (*Field, error) {
	f, err := s.CheckOwnership(ctx, fieldID, clubID)
	if err != nil {
		return nil, err
	}

	if req.SlotDurationMinutes != nil && *req.SlotDurationMinutes != f.SlotDurationMinutes {
		if !IsAllowedSlotDuration(*req.SlotDurationMinutes) {
			return nil, apperr.BadRequest("INVALID_SLOT_DURATION",
				fmt.Sprintf("slot duration must be one of %v minutes", AllowedSlotDurations))
		}

		// Slot duration is frozen once slots exist; resizing would not
		// retroactively reshape them.
		hasSlots, err := s.repo.HasSlots(ctx, fieldID)
		if err != nil {
			return nil, err
		}
		if hasSlots {
			return nil, apperr.Conflict("SLOT_DURATION_IMMUTABLE",
				"slot duration cannot change once the field has time slots")
		}

		f.SlotDurationMinutes = *req.SlotDurationMinutes
	}

	if req.Name != nil {
		f.Name = *req.Name
	}
	if req.Description != nil {
		f.Description = *req.Description
	}
	if req.CostPerSlot != nil {
		f.CostPerSlot = *req.CostPerSlot
	}
	if req.Capacity != nil {
		f.Capacity = *req.Capacity
	}

	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}

	return f, nil
}

func (s *service) CheckOwnership(ctx context.Context, fieldID, clubID int) (*Field, error) {
	f, err := s.GetByID(ctx, fieldID)
	if err != nil {
		return nil, err
	}

	if f.ClubID != clubID {
		return nil, apperr.Forbidden("NOT_OWNER", "club is not the owner of the field")
	}

	return f, nil
}
