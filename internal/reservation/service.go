package reservation

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/FranciscoFerrutti/sportsmatch-back/internal/apperr"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/club"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/event"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/field"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/logger"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/metrics"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/timeslot"
)

// Notifier is the slice of the email service the reservation flow uses.
type Notifier interface {
	SendReservationSubmitted(ctx context.Context, clubEmail, clubName, fieldName string, when time.Time) error
	SendReservationConfirmed(ctx context.Context, userEmail, userName, fieldName string, when time.Time, cost int64) error
	SendReservationCompleted(ctx context.Context, userEmail, userName, fieldName string, when time.Time) error
	SendReservationCancelled(ctx context.Context, toEmail, toName, fieldName string, when time.Time) error
	SendRefundIssued(ctx context.Context, toEmail, toName, fieldName string, amount int64) error
}

// PaymentRefunder refunds the approved payment of a reservation. Implemented
// by the payment service and injected after construction to keep the
// package dependency one-directional.
type PaymentRefunder interface {
	RefundByReservation(ctx context.Context, reservationID int) error
}

type Service interface {
	// FindAvailableFields lists, for an event the requester owns, every
	// nearby field of the event's sport together with its bookable
	// consecutive slot windows and their total cost.
	FindAvailableFields(ctx context.Context, eventID int, organizerType event.OrganizerType, ownerID int, radiusKm float64) ([]AvailableField, error)
	// Create claims the given slots atomically and opens a PENDING
	// reservation for the event.
	Create(ctx context.Context, organizerType event.OrganizerType, ownerID int, req CreateReservationRequest) (*Reservation, error)
	GetDetail(ctx context.Context, id int) (*Detail, error)
	// GetDetailFor is GetDetail gated on the requester: the event's owner
	// or the club owning the field.
	GetDetailFor(ctx context.Context, id int, organizerType event.OrganizerType, subjectID int) (*Detail, error)
	GetByEvent(ctx context.Context, eventID int, organizerType event.OrganizerType, ownerID int) ([]Reservation, error)
	GetByClub(ctx context.Context, clubID int) ([]Reservation, error)
	// Confirm moves PENDING to CONFIRMED and pushes the reserved timing
	// back onto the event. Club only.
	Confirm(ctx context.Context, clubID, reservationID int) (*Reservation, error)
	// Complete moves CONFIRMED to COMPLETED. Driven by the payment
	// webhook, never by a client call.
	Complete(ctx context.Context, reservationID int) (*Reservation, error)
	// Cancel releases the slots and, when the refund policy grants it,
	// refunds the payment.
	Cancel(ctx context.Context, reservationID int, initiator Initiator, subjectID int) error

	SetRefunder(r PaymentRefunder)
}

type service struct {
	repo      Repository
	slotRepo  timeslot.Repository
	slotSvc   timeslot.Service
	fieldRepo field.Repository
	fieldSvc  field.Service
	eventRepo event.Repository
	eventSvc  event.Service
	clubSvc   club.Service
	notifier  Notifier
	refunder  PaymentRefunder
	loc       *time.Location
}

func NewService(
	repo Repository,
	slotRepo timeslot.Repository,
	slotSvc timeslot.Service,
	fieldRepo field.Repository,
	fieldSvc field.Service,
	eventRepo event.Repository,
	eventSvc event.Service,
	clubSvc club.Service,
	notifier Notifier,
	loc *time.Location,
) Service {
	return &service{
		repo:      repo,
		slotRepo:  slotRepo,
		slotSvc:   slotSvc,
		fieldRepo: fieldRepo,
		fieldSvc:  fieldSvc,
		eventRepo: eventRepo,
		eventSvc:  eventSvc,
		clubSvc:   clubSvc,
		notifier:  notifier,
		loc:       loc,
	}
}

func (s *service) SetRefunder(r PaymentRefunder) {
	s.refunder = r
}

func (s *service) FindAvailableFields(ctx context.Context, eventID int, organizerType event.OrganizerType, ownerID int, radiusKm float64) ([]AvailableField, error) {
	ev, err := s.eventSvc.CheckOwnership(ctx, eventID, organizerType, ownerID)
	if err != nil {
		return nil, err
	}

	nearby, err := s.clubSvc.NearbyClubs(ctx, ev.Location, radiusKm)
	if err != nil {
		return nil, err
	}

	results := []AvailableField{}
	for _, nc := range nearby {
		fields, err := s.fieldRepo.GetByClubAndSport(ctx, nc.ClubID, ev.SportID)
		if err != nil {
			return nil, err
		}

		for _, f := range fields {
			groups, err := s.slotSvc.FindConsecutiveAvailable(ctx, f.ID, ev.Schedule, ev.Duration)
			if err != nil {
				return nil, err
			}
			if len(groups) == 0 {
				continue
			}

			options := make([]BookingOption, 0, len(groups))
			for _, g := range groups {
				options = append(options, BookingOption{
					SlotIDs:   g.SlotIDs,
					StartTime: g.StartTime,
					EndTime:   g.EndTime,
					TotalCost: int64(len(g.SlotIDs)) * f.CostPerSlot,
				})
			}

			results = append(results, AvailableField{
				FieldID:    f.ID,
				FieldName:  f.Name,
				ClubName:   nc.ClubName,
				DistanceKm: nc.DistanceKm,
				Options:    options,
			})
		}
	}

	return results, nil
}

func (s *service) Create(ctx context.Context, organizerType event.OrganizerType, ownerID int, req CreateReservationRequest) (*Reservation, error) {
	ev, err := s.eventSvc.CheckOwnership(ctx, req.EventID, organizerType, ownerID)
	if err != nil {
		return nil, err
	}

	if hasDuplicates(req.SlotIDs) {
		return nil, apperr.BadRequest("INVALID_SLOTS", "duplicate slot ids in request")
	}

	f, err := s.fieldSvc.GetByID(ctx, req.FieldID)
	if err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	locked, err := s.slotRepo.LockAvailable(ctx, tx, req.SlotIDs)
	if err != nil {
		return nil, err
	}
	if len(locked) != len(req.SlotIDs) {
		metrics.ReservationConflictsTotal.Inc()
		return nil, apperr.Conflict("UNAVAILABLE_SLOTS", "one or more slots are no longer available")
	}

	if err := validateSlotRun(locked, req.FieldID); err != nil {
		return nil, err
	}

	cost := int64(len(locked)) * f.CostPerSlot

	created, err := s.repo.CreateTx(ctx, tx, &Reservation{
		EventID: ev.ID,
		FieldID: f.ID,
		Status:  StatusPending,
		Cost:    cost,
	})
	if err != nil {
		return nil, err
	}

	if err := s.slotRepo.MarkBooked(ctx, tx, req.SlotIDs, created.ID); err != nil {
		if errors.Is(err, timeslot.ErrSlotsUnavailable) {
			metrics.ReservationConflictsTotal.Inc()
			return nil, apperr.Conflict("UNAVAILABLE_SLOTS", "one or more slots are no longer available")
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	metrics.ReservationsTotal.WithLabelValues(string(StatusPending)).Inc()
	s.notifySubmitted(ctx, created, f, locked[0])

	return created, nil
}

// validateSlotRun checks that the locked slots form one uninterrupted run on
// the requested field and date. The slots arrive ordered by start time.
func validateSlotRun(slots []timeslot.Slot, fieldID int) error {
	for i, slot := range slots {
		if slot.FieldID != fieldID {
			return apperr.BadRequest("INVALID_SLOTS", "slot does not belong to the requested field")
		}
		if slot.Date != slots[0].Date {
			return apperr.BadRequest("INVALID_SLOTS", "slots span multiple dates")
		}
		if i > 0 && slots[i-1].EndTime != slot.StartTime {
			return apperr.BadRequest("NON_CONSECUTIVE_SLOTS", "slots are not consecutive")
		}
	}
	return nil
}

func hasDuplicates(ids []int) bool {
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}

func (s *service) GetDetail(ctx context.Context, id int) (*Detail, error) {
	res, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	slots, err := s.slotRepo.FindByReservation(ctx, res.ID)
	if err != nil {
		return nil, err
	}

	return &Detail{Reservation: *res, Slots: slots}, nil
}

func (s *service) GetDetailFor(ctx context.Context, id int, organizerType event.OrganizerType, subjectID int) (*Detail, error) {
	detail, err := s.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}

	if organizerType == event.OrganizerClub {
		if _, err := s.fieldSvc.CheckOwnership(ctx, detail.FieldID, subjectID); err == nil {
			return detail, nil
		}
	}

	if _, err := s.eventSvc.CheckOwnership(ctx, detail.EventID, organizerType, subjectID); err != nil {
		return nil, err
	}

	return detail, nil
}

func (s *service) getByID(ctx context.Context, id int) (*Reservation, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Reservation")
		}
		return nil, err
	}
	return res, nil
}

func (s *service) GetByEvent(ctx context.Context, eventID int, organizerType event.OrganizerType, ownerID int) ([]Reservation, error) {
	if _, err := s.eventSvc.CheckOwnership(ctx, eventID, organizerType, ownerID); err != nil {
		return nil, err
	}
	return s.repo.GetByEvent(ctx, eventID)
}

func (s *service) GetByClub(ctx context.Context, clubID int) ([]Reservation, error) {
	return s.repo.GetByClub(ctx, clubID)
}

func (s *service) Confirm(ctx context.Context, clubID, reservationID int) (*Reservation, error) {
	res, err := s.getByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	f, err := s.fieldSvc.CheckOwnership(ctx, res.FieldID, clubID)
	if err != nil {
		return nil, err
	}

	slots, err := s.slotRepo.FindByReservation(ctx, res.ID)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, apperr.Conflict("UNAVAILABLE_SLOTS", "reservation holds no slots")
	}

	start, err := s.slotStart(slots[0])
	if err != nil {
		return nil, err
	}
	duration := len(slots) * f.SlotDurationMinutes

	location, err := s.clubSvc.GetLocation(ctx, f.ClubID)
	if err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.repo.UpdateStatusTx(ctx, tx, res.ID, StatusPending, StatusConfirmed); err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			return nil, apperr.Conflict("INVALID_STATUS", "reservation is not pending")
		}
		return nil, err
	}

	if err := s.eventRepo.UpdateScheduleTx(ctx, tx, res.EventID, start, duration, location.Address); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	res.Status = StatusConfirmed
	metrics.ReservationsTotal.WithLabelValues(string(StatusConfirmed)).Inc()
	s.notifyOwner(ctx, res, func(email, name string) {
		if err := s.notifier.SendReservationConfirmed(ctx, email, name, f.Name, start, res.Cost); err != nil {
			logger.Errorf("Failed to queue confirmation email for reservation %d: %v", res.ID, err)
		}
	})

	return res, nil
}

func (s *service) Complete(ctx context.Context, reservationID int) (*Reservation, error) {
	res, err := s.getByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, res.ID, StatusConfirmed, StatusCompleted); err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			return nil, apperr.Conflict("INVALID_STATUS", "reservation is not confirmed")
		}
		return nil, err
	}

	res.Status = StatusCompleted
	metrics.ReservationsTotal.WithLabelValues(string(StatusCompleted)).Inc()

	f, ferr := s.fieldSvc.GetByID(ctx, res.FieldID)
	start, serr := s.reservationStart(ctx, res.ID)
	if ferr == nil && serr == nil {
		s.notifyOwner(ctx, res, func(email, name string) {
			if err := s.notifier.SendReservationCompleted(ctx, email, name, f.Name, start); err != nil {
				logger.Errorf("Failed to queue completion email for reservation %d: %v", res.ID, err)
			}
		})
	}

	return res, nil
}

func (s *service) Cancel(ctx context.Context, reservationID int, initiator Initiator, subjectID int) error {
	res, err := s.getByID(ctx, reservationID)
	if err != nil {
		return err
	}
	if res.Status == StatusCancelled {
		return apperr.Conflict("INVALID_STATUS", "reservation is already cancelled")
	}

	ev, err := s.eventSvc.GetByID(ctx, res.EventID)
	if err != nil {
		return err
	}

	var f *field.Field
	if initiator == InitiatorClub {
		f, err = s.fieldSvc.CheckOwnership(ctx, res.FieldID, subjectID)
		if err != nil {
			return err
		}
	} else {
		if ev.OrganizerType != event.OrganizerUser || ev.OwnerID != subjectID {
			return apperr.Forbidden("NOT_EVENT_OWNER", "requester is not the owner of the event")
		}
		f, err = s.fieldSvc.GetByID(ctx, res.FieldID)
		if err != nil {
			return err
		}
	}

	prevStatus := res.Status

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.UpdateStatusTx(ctx, tx, res.ID, prevStatus, StatusCancelled); err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			return apperr.Conflict("INVALID_STATUS", "reservation changed state, retry")
		}
		return err
	}

	if err := s.slotRepo.ReleaseByReservation(ctx, tx, res.ID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	refund := RefundEligible(prevStatus, initiator, ev.Schedule, time.Now().In(s.loc))
	metrics.CancellationsTotal.WithLabelValues(string(initiator), boolLabel(refund)).Inc()

	res.Status = StatusCancelled
	s.notifyOwner(ctx, res, func(email, name string) {
		if err := s.notifier.SendReservationCancelled(ctx, email, name, f.Name, ev.Schedule); err != nil {
			logger.Errorf("Failed to queue cancellation email for reservation %d: %v", res.ID, err)
		}
	})

	if !refund {
		return nil
	}
	if s.refunder == nil {
		logger.Errorf("Reservation %d is refund-eligible but no refunder is wired", res.ID)
		return nil
	}

	if err := s.refunder.RefundByReservation(ctx, res.ID); err != nil {
		logger.Errorf("Refund for reservation %d failed: %v", res.ID, err)
		return apperr.Unavailable("REFUND_FAILED", "reservation cancelled but the refund could not be processed")
	}

	s.notifyOwner(ctx, res, func(email, name string) {
		if err := s.notifier.SendRefundIssued(ctx, email, name, f.Name, res.Cost); err != nil {
			logger.Errorf("Failed to queue refund email for reservation %d: %v", res.ID, err)
		}
	})
	if cl, err := s.clubSvc.GetByID(ctx, f.ClubID); err == nil {
		if err := s.notifier.SendRefundIssued(ctx, cl.Email, cl.Name, f.Name, res.Cost); err != nil {
			logger.Errorf("Failed to queue refund email for club %d: %v", cl.ID, err)
		}
	}

	return nil
}

func (s *service) slotStart(slot timeslot.Slot) (time.Time, error) {
	return time.ParseInLocation(timeslot.DateFormat+" "+timeslot.TimeFormat, slot.Date+" "+slot.StartTime, s.loc)
}

func (s *service) reservationStart(ctx context.Context, reservationID int) (time.Time, error) {
	slots, err := s.slotRepo.FindByReservation(ctx, reservationID)
	if err != nil {
		return time.Time{}, err
	}
	if len(slots) == 0 {
		return time.Time{}, errors.New("reservation holds no slots")
	}
	return s.slotStart(slots[0])
}

// notifySubmitted tells the field's club a new reservation is waiting.
func (s *service) notifySubmitted(ctx context.Context, res *Reservation, f *field.Field, first timeslot.Slot) {
	cl, err := s.clubSvc.GetByID(ctx, f.ClubID)
	if err != nil {
		logger.Errorf("Failed to load club %d for reservation %d notification: %v", f.ClubID, res.ID, err)
		return
	}

	start, err := s.slotStart(first)
	if err != nil {
		logger.Errorf("Bad slot timing on reservation %d: %v", res.ID, err)
		return
	}

	if err := s.notifier.SendReservationSubmitted(ctx, cl.Email, cl.Name, f.Name, start); err != nil {
		logger.Errorf("Failed to queue submission email for reservation %d: %v", res.ID, err)
	}
}

// notifyOwner resolves the event organizer and runs send with their contact.
func (s *service) notifyOwner(ctx context.Context, res *Reservation, send func(email, name string)) {
	detail, err := s.eventSvc.GetDetail(ctx, res.EventID)
	if err != nil {
		logger.Errorf("Failed to resolve owner of event %d: %v", res.EventID, err)
		return
	}
	send(detail.Owner.Email, detail.Owner.Name)
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
