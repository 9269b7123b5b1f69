package payment

import "context"

// PreferenceRequest describes a checkout to open on the gateway.
type PreferenceRequest struct {
	Title             string
	Quantity          int
	UnitPrice         int64
	ExternalReference string
}

// Preference is the gateway's handle for an opened checkout.
type Preference struct {
	ID        string
	InitPoint string
}

// MerchantOrder is the gateway's view of a checkout and its payments.
type MerchantOrder struct {
	ID                string
	Status            string
	ExternalReference string
	Payments          []OrderPayment
}

type OrderPayment struct {
	ID     string
	Status string
	Amount int64
}

const (
	orderStatusClosed    = "closed"
	orderPaymentApproved = "approved"
)

// Gateway abstracts the payment provider. The production implementation
// talks to MercadoPago; tests substitute a fake.
type Gateway interface {
	CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error)
	GetMerchantOrder(ctx context.Context, orderID string) (*MerchantOrder, error)
	RefundPayment(ctx context.Context, gatewayPaymentID string) (string, error)
}
