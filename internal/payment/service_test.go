package payment

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/FranciscoFerrutti/sportsmatch-back/internal/apperr"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/event"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/logger"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/reservation"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

// MockRepository mocks Repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, p *Payment) (*Payment, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int) (*Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

func (m *MockRepository) GetByExternalReference(ctx context.Context, ref string) (*Payment, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

func (m *MockRepository) GetApprovedByReservation(ctx context.Context, reservationID int) (*Payment, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

func (m *MockRepository) HasApproved(ctx context.Context, reservationID int) (bool, error) {
	args := m.Called(ctx, reservationID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) SetPreference(ctx context.Context, id int, preferenceID string) error {
	args := m.Called(ctx, id, preferenceID)
	return args.Error(0)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id int, status Status, gatewayPaymentID string) error {
	args := m.Called(ctx, id, status, gatewayPaymentID)
	return args.Error(0)
}

func (m *MockRepository) CreateRefund(ctx context.Context, r *Refund) (*Refund, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Refund), args.Error(1)
}

func (m *MockRepository) RefundExists(ctx context.Context, paymentID int) (bool, error) {
	args := m.Called(ctx, paymentID)
	return args.Bool(0), args.Error(1)
}

// MockGateway mocks Gateway.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Preference), args.Error(1)
}

func (m *MockGateway) GetMerchantOrder(ctx context.Context, orderID string) (*MerchantOrder, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MerchantOrder), args.Error(1)
}

func (m *MockGateway) RefundPayment(ctx context.Context, gatewayPaymentID string) (string, error) {
	args := m.Called(ctx, gatewayPaymentID)
	return args.String(0), args.Error(1)
}

// MockReservations mocks the reservation slice the payment flow uses.
type MockReservations struct {
	mock.Mock
}

func (m *MockReservations) GetDetail(ctx context.Context, id int) (*reservation.Detail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Detail), args.Error(1)
}

func (m *MockReservations) Complete(ctx context.Context, reservationID int) (*reservation.Reservation, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

// MockEventService mocks event.Service.
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) Create(ctx context.Context, organizerType event.OrganizerType, ownerID int, req event.CreateEventRequest) (*event.Event, error) {
	args := m.Called(ctx, organizerType, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) GetByID(ctx context.Context, id int) (*event.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) GetDetail(ctx context.Context, id int) (*event.Detail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Detail), args.Error(1)
}

func (m *MockEventService) Search(ctx context.Context, f event.Filters) ([]event.Event, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]event.Event), args.Error(1)
}

func (m *MockEventService) CheckOwnership(ctx context.Context, eventID int, organizerType event.OrganizerType, ownerID int) (*event.Event, error) {
	args := m.Called(ctx, eventID, organizerType, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func confirmedDetail(reservationID int, cost int64) *reservation.Detail {
	return &reservation.Detail{
		Reservation: reservation.Reservation{
			ID:      reservationID,
			EventID: 3,
			FieldID: 1,
			Status:  reservation.StatusConfirmed,
			Cost:    cost,
		},
	}
}

func TestService_CreateCheckout(t *testing.T) {
	repo := new(MockRepository)
	gateway := new(MockGateway)
	reservations := new(MockReservations)
	eventSvc := new(MockEventService)
	svc := NewService(repo, gateway, reservations, eventSvc)

	reservations.On("GetDetail", mock.Anything, 42).Return(confirmedDetail(42, 1000), nil)
	eventSvc.On("CheckOwnership", mock.Anything, 3, event.OrganizerUser, 7).
		Return(&event.Event{ID: 3}, nil)
	repo.On("HasApproved", mock.Anything, 42).Return(false, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *Payment) bool {
		return p.ReservationID == 42 && p.Status == StatusPending && p.Amount == 1000 && p.ExternalReference != ""
	})).Return(&Payment{ID: 9, ReservationID: 42, Status: StatusPending, Amount: 1000, ExternalReference: "ext-ref"}, nil)
	gateway.On("CreatePreference", mock.Anything, mock.MatchedBy(func(req PreferenceRequest) bool {
		return req.UnitPrice == 1000 && req.Quantity == 1 && req.ExternalReference == "ext-ref"
	})).Return(&Preference{ID: "pref-1", InitPoint: "https://mp.example/init/pref-1"}, nil)
	repo.On("SetPreference", mock.Anything, 9, "pref-1").Return(nil)

	out, err := svc.CreateCheckout(context.Background(), event.OrganizerUser, 7, 42)

	assert.NoError(t, err)
	assert.Equal(t, 9, out.PaymentID)
	assert.Equal(t, "pref-1", out.PreferenceID)
	assert.Equal(t, "https://mp.example/init/pref-1", out.InitPoint)
	repo.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

func TestService_CreateCheckout_NotConfirmed(t *testing.T) {
	repo := new(MockRepository)
	gateway := new(MockGateway)
	reservations := new(MockReservations)
	eventSvc := new(MockEventService)
	svc := NewService(repo, gateway, reservations, eventSvc)

	detail := confirmedDetail(42, 1000)
	detail.Status = reservation.StatusPending
	reservations.On("GetDetail", mock.Anything, 42).Return(detail, nil)
	eventSvc.On("CheckOwnership", mock.Anything, 3, event.OrganizerUser, 7).
		Return(&event.Event{ID: 3}, nil)

	_, err := svc.CreateCheckout(context.Background(), event.OrganizerUser, 7, 42)

	appErr := apperr.As(err)
	assert.NotNil(t, appErr)
	assert.Equal(t, "RESERVATION_NOT_CONFIRMED", appErr.Code)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_CreateCheckout_AlreadyApproved(t *testing.T) {
	repo := new(MockRepository)
	gateway := new(MockGateway)
	reservations := new(MockReservations)
	eventSvc := new(MockEventService)
	svc := NewService(repo, gateway, reservations, eventSvc)

	reservations.On("GetDetail", mock.Anything, 42).Return(confirmedDetail(42, 1000), nil)
	eventSvc.On("CheckOwnership", mock.Anything, 3, event.OrganizerUser, 7).
		Return(&event.Event{ID: 3}, nil)
	repo.On("HasApproved", mock.Anything, 42).Return(true, nil)

	_, err := svc.CreateCheckout(context.Background(), event.OrganizerUser, 7, 42)

	appErr := apperr.As(err)
	assert.NotNil(t, appErr)
	assert.Equal(t, "PAYMENT_ALREADY_APPROVED", appErr.Code)
	gateway.AssertNotCalled(t, "CreatePreference", mock.Anything, mock.Anything)
}

func TestService_CreateCheckout_GatewayDownRejectsPayment(t *testing.T) {
	repo := new(MockRepository)
	gateway := new(MockGateway)
	reservations := new(MockReservations)
	eventSvc := new(MockEventService)
	svc := NewService(repo, gateway, reservations, eventSvc)

	reservations.On("GetDetail", mock.Anything, 42).Return(confirmedDetail(42, 1000), nil)
	eventSvc.On("CheckOwnership", mock.Anything, 3, event.OrganizerUser, 7).
		Return(&event.Event{ID: 3}, nil)
	repo.On("HasApproved", mock.Anything, 42).Return(false, nil)
	repo.On("Create", mock.Anything, mock.Anything).
		Return(&Payment{ID: 9, ReservationID: 42, Status: StatusPending, Amount: 1000, ExternalReference: "ext-ref"}, nil)
	gateway.On("CreatePreference", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))
	repo.On("UpdateStatus", mock.Anything, 9, StatusRejected, "").Return(nil)

	_, err := svc.CreateCheckout(context.Background(), event.OrganizerUser, 7, 42)

	appErr := apperr.As(err)
	assert.NotNil(t, appErr)
	assert.Equal(t, "GATEWAY_ERROR", appErr.Code)
	repo.AssertCalled(t, "UpdateStatus", mock.Anything, 9, StatusRejected, "")
	repo.AssertNotCalled(t, "SetPreference", mock.Anything, mock.Anything, mock.Anything)
}

func closedOrder(ref string) *MerchantOrder {
	return &MerchantOrder{
		ID:                "555",
		Status:            orderStatusClosed,
		ExternalReference: ref,
		Payments: []OrderPayment{
			{ID: "777", Status: orderPaymentApproved, Amount: 1000},
		},
	}
}

func TestService_ProcessWebhook_ApprovesAndCompletes(t *testing.T) {
	repo := new(MockRepository)
	gateway := new(MockGateway)
	reservations := new(MockReservations)
	svc := NewService(repo, gateway, reservations, new(MockEventService))

	gateway.On("GetMerchantOrder", mock.Anything, "555").Return(closedOrder("ext-ref"), nil)
	repo.On("GetByExternalReference", mock.Anything, "ext-ref").
		Return(&Payment{ID: 9, ReservationID: 42, Status: StatusPending, Amount: 1000}, nil)
	repo.On("UpdateStatus", mock.Anything, 9, StatusApproved, "777").Return(nil)
	reservations.On("Complete", mock.Anything, 42).
		Return(&reservation.Reservation{ID: 42, Status: reservation.StatusCompleted}, nil)

	err := svc.ProcessWebhook(context.Background(), "merchant_order", "555")

	assert.NoError(t, err)
	repo.AssertExpectations(t)
	reservations.AssertExpectations(t)
}

func TestService_ProcessWebhook_IgnoresOtherTopics(t *testing.T) {
	repo := new(MockRepository)
	gateway := new(MockGateway)
	svc := NewService(repo, gateway, new(MockReservations), new(MockEventService))

	err := svc.ProcessWebhook(context.Background(), "payment", "555")

	assert.NoError(t, err)
	gateway.AssertNotCalled(t, "GetMerchantOrder", mock.Anything, mock.Anything)
}

func TestService_ProcessWebhook_OrderNotClosed(t *testing.T) {
	repo := new(MockRepository)
	gateway := new(MockGateway)
	svc := NewService(repo, gateway, new(MockReservations), new(MockEventService))

	gateway.On("GetMerchantOrder", mock.Anything, "555").
		Return(&MerchantOrder{ID: "555", Status: "opened", ExternalReference: "ext-ref"}, nil)

	err := svc.ProcessWebhook(context.Background(), "merchant_order", "555")

	assert.NoError(t, err)
	repo.AssertNotCalled(t, "GetByExternalReference", mock.Anything, mock.Anything)
}

func TestService_ProcessWebhook_NoApprovedPayment(t *testing.T) {
	repo := new(MockRepository)
	gateway := new(MockGateway)
	svc := NewService(repo, gateway, new(MockReservations), new(MockEventService))

	gateway.On("GetMerchantOrder", mock.Anything, "555").Return(&MerchantOrder{
		ID:                "555",
		Status:            orderStatusClosed,
		ExternalReference: "ext-ref",
		Payments:          []OrderPayment{{ID: "777", Status: "rejected"}},
	}, nil)

	err := svc.ProcessWebhook(context.Background(), "merchant_order", "555")

	assert.NoError(t, err)
	repo.AssertNotCalled(t, "GetByExternalReference", mock.Anything, mock.Anything)
}

func TestService_ProcessWebhook_AmountMismatch(t *testing.T) {
	repo := new(MockRepository)
	gateway := new(MockGateway)
	reservations := new(MockReservations)
	svc := NewService(repo, gateway, reservations, new(MockEventService))

	// The gateway closed the order with a payment of 1 against a stored
	// payment of 1000.
	order := closedOrder("ext-ref")
	order.Payments[0].Amount = 1
	gateway.On("GetMerchantOrder", mock.Anything, "555").Return(order, nil)
	repo.On("GetByExternalReference", mock.Anything, "ext-ref").
		Return(&Payment{ID: 9, ReservationID: 42, Status: StatusPending, Amount: 1000}, nil)

	err := svc.ProcessWebhook(context.Background(), "merchant_order", "555")

	appErr := apperr.As(err)
	assert.NotNil(t, appErr)
	assert.Equal(t, "TRANSACTION_AMOUNT_MISMATCH", appErr.Code)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	reservations.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestService_ProcessWebhook_RetryIsIdempotent(t *testing.T) {
	repo := new(MockRepository)
	gateway := new(MockGateway)
	reservations := new(MockReservations)
	svc := NewService(repo, gateway, reservations, new(MockEventService))

	gateway.On("GetMerchantOrder", mock.Anything, "555").Return(closedOrder("ext-ref"), nil)
	repo.On("GetByExternalReference", mock.Anything, "ext-ref").
		Return(&Payment{ID: 9, ReservationID: 42, Status: StatusApproved, GatewayPaymentID: "777"}, nil)

	err := svc.ProcessWebhook(context.Background(), "merchant_order", "555")

	assert.NoError(t, err)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	reservations.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestService_ProcessWebhook_UnknownReference(t *testing.T) {
	repo := new(MockRepository)
	gateway := new(MockGateway)
	svc := NewService(repo, gateway, new(MockReservations), new(MockEventService))

	gateway.On("GetMerchantOrder", mock.Anything, "555").Return(closedOrder("ghost"), nil)
	repo.On("GetByExternalReference", mock.Anything, "ghost").Return(nil, sql.ErrNoRows)

	err := svc.ProcessWebhook(context.Background(), "merchant_order", "555")

	appErr := apperr.As(err)
	assert.NotNil(t, appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestService_RefundByReservation(t *testing.T) {
	repo := new(MockRepository)
	gateway := new(MockGateway)
	svc := NewService(repo, gateway, new(MockReservations), new(MockEventService))

	repo.On("GetApprovedByReservation", mock.Anything, 42).
		Return(&Payment{ID: 9, ReservationID: 42, Status: StatusApproved, Amount: 1000, GatewayPaymentID: "777"}, nil)
	repo.On("RefundExists", mock.Anything, 9).Return(false, nil)
	gateway.On("RefundPayment", mock.Anything, "777").Return("refund-1", nil)
	repo.On("CreateRefund", mock.Anything, mock.MatchedBy(func(r *Refund) bool {
		return r.PaymentID == 9 && r.Amount == 1000 && r.GatewayRefundID == "refund-1"
	})).Return(&Refund{ID: 1, PaymentID: 9, Amount: 1000, GatewayRefundID: "refund-1"}, nil)

	err := svc.RefundByReservation(context.Background(), 42)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

func TestService_RefundByReservation_AlreadyRefunded(t *testing.T) {
	repo := new(MockRepository)
	gateway := new(MockGateway)
	svc := NewService(repo, gateway, new(MockReservations), new(MockEventService))

	repo.On("GetApprovedByReservation", mock.Anything, 42).
		Return(&Payment{ID: 9, Status: StatusApproved, GatewayPaymentID: "777"}, nil)
	repo.On("RefundExists", mock.Anything, 9).Return(true, nil)

	err := svc.RefundByReservation(context.Background(), 42)

	assert.NoError(t, err)
	gateway.AssertNotCalled(t, "RefundPayment", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "CreateRefund", mock.Anything, mock.Anything)
}

func TestService_RefundByReservation_NoApprovedPayment(t *testing.T) {
	repo := new(MockRepository)
	gateway := new(MockGateway)
	svc := NewService(repo, gateway, new(MockReservations), new(MockEventService))

	repo.On("GetApprovedByReservation", mock.Anything, 42).Return(nil, sql.ErrNoRows)

	err := svc.RefundByReservation(context.Background(), 42)

	appErr := apperr.As(err)
	assert.NotNil(t, appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestService_RefundByReservation_GatewayFailure(t *testing.T) {
	repo := new(MockRepository)
	gateway := new(MockGateway)
	svc := NewService(repo, gateway, new(MockReservations), new(MockEventService))

	repo.On("GetApprovedByReservation", mock.Anything, 42).
		Return(&Payment{ID: 9, Status: StatusApproved, GatewayPaymentID: "777"}, nil)
	repo.On("RefundExists", mock.Anything, 9).Return(false, nil)
	gateway.On("RefundPayment", mock.Anything, "777").Return("", errors.New("timeout"))

	err := svc.RefundByReservation(context.Background(), 42)

	appErr := apperr.As(err)
	assert.NotNil(t, appErr)
	assert.Equal(t, "GATEWAY_ERROR", appErr.Code)
	repo.AssertNotCalled(t, "CreateRefund", mock.Anything, mock.Anything)
}
