package payment

import (
	"context"

	"github.com/jmoiron/sqlx"
)

const paymentColumns = "id, reservation_id, status, amount, external_reference, preference_id, gateway_payment_id, created_at, updated_at"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Payment) (*Payment, error) {
	query := `
		INSERT INTO payments (reservation_id, status, amount, external_reference)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + paymentColumns

	var created Payment
	err := r.db.GetContext(ctx, &created, query, p.ReservationID, p.Status, p.Amount, p.ExternalReference)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	var p Payment
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetByExternalReference(ctx context.Context, ref string) (*Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE external_reference = $1`

	var p Payment
	if err := r.db.GetContext(ctx, &p, query, ref); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetApprovedByReservation(ctx context.Context, reservationID int) (*Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE reservation_id = $1 AND status = 'APPROVED'`

	var p Payment
	if err := r.db.GetContext(ctx, &p, query, reservationID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) HasApproved(ctx context.Context, reservationID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM payments WHERE reservation_id = $1 AND status = 'APPROVED')`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, reservationID); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *repository) SetPreference(ctx context.Context, id int, preferenceID string) error {
	query := `UPDATE payments SET preference_id = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, preferenceID, id)
	return err
}

func (r *repository) UpdateStatus(ctx context.Context, id int, status Status, gatewayPaymentID string) error {
	query := `
		UPDATE payments
		SET status = $1, gateway_payment_id = $2, updated_at = NOW()
		WHERE id = $3`

	_, err := r.db.ExecContext(ctx, query, status, gatewayPaymentID, id)
	return err
}

func (r *repository) CreateRefund(ctx context.Context, ref *Refund) (*Refund, error) {
	query := `
		INSERT INTO refunds (payment_id, amount, gateway_refund_id)
		VALUES ($1, $2, $3)
		RETURNING id, payment_id, amount, gateway_refund_id, created_at`

	var created Refund
	err := r.db.GetContext(ctx, &created, query, ref.PaymentID, ref.Amount, ref.GatewayRefundID)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) RefundExists(ctx context.Context, paymentID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM refunds WHERE payment_id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, paymentID); err != nil {
		return false, err
	}
	return exists, nil
}
