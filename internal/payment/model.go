package payment

import "time"

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

type Payment struct {
	ID                int       `db:"id" json:"id"`
	ReservationID     int       `db:"reservation_id" json:"reservation_id"`
	Status            Status    `db:"status" json:"status"`
	Amount            int64     `db:"amount" json:"amount"`
	ExternalReference string    `db:"external_reference" json:"external_reference"`
	PreferenceID      string    `db:"preference_id" json:"preference_id"`
	GatewayPaymentID  string    `db:"gateway_payment_id" json:"gateway_payment_id"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

type Refund struct {
	ID              int       `db:"id" json:"id"`
	PaymentID       int       `db:"payment_id" json:"payment_id"`
	Amount          int64     `db:"amount" json:"amount"`
	GatewayRefundID string    `db:"gateway_refund_id" json:"gateway_refund_id"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// CheckoutResponse carries the gateway redirect a client needs to pay.
type CheckoutResponse struct {
	PaymentID    int    `json:"payment_id"`
	PreferenceID string `json:"preference_id"`
	InitPoint    string `json:"init_point"`
}
