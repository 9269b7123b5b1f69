package payment

import "context"

type Repository interface {
	Create(ctx context.Context, p *Payment) (*Payment, error)
	GetByID(ctx context.Context, id int) (*Payment, error)
	GetByExternalReference(ctx context.Context, ref string) (*Payment, error)
	GetApprovedByReservation(ctx context.Context, reservationID int) (*Payment, error)
	HasApproved(ctx context.Context, reservationID int) (bool, error)
	SetPreference(ctx context.Context, id int, preferenceID string) error
	UpdateStatus(ctx context.Context, id int, status Status, gatewayPaymentID string) error
	CreateRefund(ctx context.Context, r *Refund) (*Refund, error)
	RefundExists(ctx context.Context, paymentID int) (bool, error)
}
