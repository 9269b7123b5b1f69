package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/FranciscoFerrutti/sportsmatch-back/internal/apperr"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/event"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/logger"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/metrics"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/reservation"
)

// Reservations is the slice of the reservation service the payment flow
// needs. reservation.Service satisfies it.
type Reservations interface {
	GetDetail(ctx context.Context, id int) (*reservation.Detail, error)
	Complete(ctx context.Context, reservationID int) (*reservation.Reservation, error)
}

type Service interface {
	// CreateCheckout opens a gateway preference for a confirmed
	// reservation the requester's event owns.
	CreateCheckout(ctx context.Context, organizerType event.OrganizerType, ownerID, reservationID int) (*CheckoutResponse, error)
	// ProcessWebhook handles a gateway notification. A closed merchant
	// order with an approved payment completes the reservation. This is
	// the only path that moves a reservation to COMPLETED.
	ProcessWebhook(ctx context.Context, topic, resourceID string) error
	// RefundByReservation refunds the approved payment of a reservation,
	// at most once.
	RefundByReservation(ctx context.Context, reservationID int) error
	GetByReservation(ctx context.Context, reservationID int) (*Payment, error)
}

type service struct {
	repo         Repository
	gateway      Gateway
	reservations Reservations
	eventSvc     event.Service
}

func NewService(repo Repository, gateway Gateway, reservations Reservations, eventSvc event.Service) Service {
	return &service{
		repo:         repo,
		gateway:      gateway,
		reservations: reservations,
		eventSvc:     eventSvc,
	}
}

func (s *service) CreateCheckout(ctx context.Context, organizerType event.OrganizerType, ownerID, reservationID int) (*CheckoutResponse, error) {
	detail, err := s.reservations.GetDetail(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if _, err := s.eventSvc.CheckOwnership(ctx, detail.EventID, organizerType, ownerID); err != nil {
		return nil, err
	}

	if detail.Status != reservation.StatusConfirmed {
		return nil, apperr.Conflict("RESERVATION_NOT_CONFIRMED", "reservation must be confirmed before paying")
	}

	approved, err := s.repo.HasApproved(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if approved {
		return nil, apperr.Conflict("PAYMENT_ALREADY_APPROVED", "reservation already has an approved payment")
	}

	p, err := s.repo.Create(ctx, &Payment{
		ReservationID:     reservationID,
		Status:            StatusPending,
		Amount:            detail.Cost,
		ExternalReference: uuid.NewString(),
	})
	if err != nil {
		return nil, err
	}

	pref, err := s.gateway.CreatePreference(ctx, PreferenceRequest{
		Title:             fmt.Sprintf("Field reservation #%d", reservationID),
		Quantity:          1,
		UnitPrice:         detail.Cost,
		ExternalReference: p.ExternalReference,
	})
	if err != nil {
		logger.Errorf("Gateway preference for payment %d failed: %v", p.ID, err)
		if uerr := s.repo.UpdateStatus(ctx, p.ID, StatusRejected, ""); uerr != nil {
			logger.Errorf("Failed to reject payment %d: %v", p.ID, uerr)
		}
		metrics.PaymentsTotal.WithLabelValues(string(StatusRejected)).Inc()
		return nil, apperr.Unavailable("GATEWAY_ERROR", "payment provider is unavailable")
	}

	if err := s.repo.SetPreference(ctx, p.ID, pref.ID); err != nil {
		return nil, err
	}

	metrics.PaymentsTotal.WithLabelValues(string(StatusPending)).Inc()
	return &CheckoutResponse{
		PaymentID:    p.ID,
		PreferenceID: pref.ID,
		InitPoint:    pref.InitPoint,
	}, nil
}

func (s *service) ProcessWebhook(ctx context.Context, topic, resourceID string) error {
	if topic != "merchant_order" {
		logger.Debugf("Ignoring webhook topic %q", topic)
		return nil
	}

	order, err := s.gateway.GetMerchantOrder(ctx, resourceID)
	if err != nil {
		return apperr.Unavailable("GATEWAY_ERROR", "could not fetch merchant order")
	}

	if order.Status != orderStatusClosed {
		logger.Debugf("Merchant order %s not closed yet (%s)", order.ID, order.Status)
		return nil
	}

	approved := approvedPayment(order)
	if approved == nil {
		logger.Debugf("Merchant order %s closed without an approved payment", order.ID)
		return nil
	}

	p, err := s.repo.GetByExternalReference(ctx, order.ExternalReference)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("Payment")
		}
		return err
	}

	// Gateways retry notifications; a payment already approved is done.
	if p.Status == StatusApproved {
		return nil
	}

	if approved.Amount != p.Amount {
		logger.Errorf("Payment %d approved at the gateway for %d but %d was charged", p.ID, p.Amount, approved.Amount)
		return apperr.Conflict("TRANSACTION_AMOUNT_MISMATCH", "approved amount does not match the payment")
	}

	if err := s.repo.UpdateStatus(ctx, p.ID, StatusApproved, approved.ID); err != nil {
		return err
	}
	metrics.PaymentsTotal.WithLabelValues(string(StatusApproved)).Inc()

	if _, err := s.reservations.Complete(ctx, p.ReservationID); err != nil {
		logger.Errorf("Payment %d approved but completing reservation %d failed: %v", p.ID, p.ReservationID, err)
		return err
	}

	return nil
}

func approvedPayment(order *MerchantOrder) *OrderPayment {
	for i := range order.Payments {
		if order.Payments[i].Status == orderPaymentApproved {
			return &order.Payments[i]
		}
	}
	return nil
}

func (s *service) RefundByReservation(ctx context.Context, reservationID int) error {
	p, err := s.repo.GetApprovedByReservation(ctx, reservationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("Payment")
		}
		return err
	}

	exists, err := s.repo.RefundExists(ctx, p.ID)
	if err != nil {
		return err
	}
	if exists {
		logger.Infof("Payment %d already refunded, skipping", p.ID)
		return nil
	}

	refundID, err := s.gateway.RefundPayment(ctx, p.GatewayPaymentID)
	if err != nil {
		return apperr.Unavailable("GATEWAY_ERROR", "payment provider refund failed")
	}

	if _, err := s.repo.CreateRefund(ctx, &Refund{
		PaymentID:       p.ID,
		Amount:          p.Amount,
		GatewayRefundID: refundID,
	}); err != nil {
		return err
	}

	metrics.RefundsTotal.Inc()
	return nil
}

func (s *service) GetByReservation(ctx context.Context, reservationID int) (*Payment, error) {
	p, err := s.repo.GetApprovedByReservation(ctx, reservationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Payment")
		}
		return nil, err
	}
	return p, nil
}
