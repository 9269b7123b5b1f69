package event

import (
	"context"
	"database/sql"
	"errors"

	"github.com/FranciscoFerrutti/sportsmatch-back/internal/apperr"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/club"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/user"
)

type Service interface {
	Create(ctx context.Context, organizerType OrganizerType, ownerID int, req CreateEventRequest) (*Event, error)
	GetByID(ctx context.Context, id int) (*Event, error)
	// GetDetail resolves the organizer union to the owning user or club.
	GetDetail(ctx context.Context, id int) (*Detail, error)
	Search(ctx context.Context, f Filters) ([]Event, error)
	// CheckOwnership returns the event when it is owned by the given
	// principal, NOT_EVENT_OWNER otherwise.
	CheckOwnership(ctx context.Context, eventID int, organizerType OrganizerType, ownerID int) (*Event, error)
}

type service struct {
	repo     Repository
	userRepo user.Repository
	clubRepo club.Repository
}

func NewService(repo Repository, userRepo user.Repository, clubRepo club.Repository) Service {
	return &service{
		repo:     repo,
		userRepo: userRepo,
		clubRepo: clubRepo,
	}
}

func (s *service) Create(ctx context.Context, organizerType OrganizerType, ownerID int, req CreateEventRequest) (*Event, error) {
	return s.repo.Create(ctx, &Event{
		OrganizerType: organizerType,
		OwnerID:       ownerID,
		SportID:       req.SportID,
		Schedule:      req.Schedule,
		Duration:      req.Duration,
		Location:      req.Location,
		Expertise:     req.Expertise,
		Remaining:     req.Remaining,
		Description:   req.Description,
	})
}

func (s *service) GetByID(ctx context.Context, id int) (*Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Event")
		}
		return nil, err
	}
	return e, nil
}

func (s *service) GetDetail(ctx context.Context, id int) (*Detail, error) {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owner, err := s.resolveOwner(ctx, e)
	if err != nil {
		return nil, err
	}

	return &Detail{Event: *e, Owner: *owner}, nil
}

func (s *service) resolveOwner(ctx context.Context, e *Event) (*Owner, error) {
	switch e.OrganizerType {
	case OrganizerClub:
		cl, err := s.clubRepo.FindByID(ctx, e.OwnerID)
		if err != nil {
			return nil, apperr.NotFound("Event owner")
		}
		return &Owner{Type: OrganizerClub, ID: cl.ID, Name: cl.Name, Email: cl.Email}, nil
	default:
		u, err := s.userRepo.FindByID(ctx, e.OwnerID)
		if err != nil {
			return nil, apperr.NotFound("Event owner")
		}
		return &Owner{Type: OrganizerUser, ID: u.ID, Name: u.FirstName + " " + u.LastName, Email: u.Email}, nil
	}
}

func (s *service) Search(ctx context.Context, f Filters) ([]Event, error) {
	return s.repo.Search(ctx, f)
}

func (s *service) CheckOwnership(ctx context.Context, eventID int, organizerType OrganizerType, ownerID int) (*Event, error) {
	e, err := s.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if e.OrganizerType != organizerType || e.OwnerID != ownerID {
		return nil, apperr.Forbidden("NOT_EVENT_OWNER", "requester is not the owner of the event")
	}

	return e, nil
}
