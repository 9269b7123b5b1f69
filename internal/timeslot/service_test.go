package timeslot

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/FranciscoFerrutti/sportsmatch-back/internal/apperr"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/field"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateSlots(ctx context.Context, slots []Slot) ([]Slot, error) {
	args := m.Called(ctx, slots)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Slot), args.Error(1)
}

func (m *MockRepository) FindOverlapping(ctx context.Context, fieldID int, date, startTime, endTime string) ([]Slot, error) {
	args := m.Called(ctx, fieldID, date, startTime, endTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Slot), args.Error(1)
}

func (m *MockRepository) GetFieldSlots(ctx context.Context, fieldID int, date string, status Status) ([]Slot, error) {
	args := m.Called(ctx, fieldID, date, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Slot), args.Error(1)
}

func (m *MockRepository) GetAvailableByFieldAndDate(ctx context.Context, fieldID int, date string) ([]Slot, error) {
	args := m.Called(ctx, fieldID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Slot), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, fieldID, slotID int) (*Slot, error) {
	args := m.Called(ctx, fieldID, slotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Slot), args.Error(1)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, fieldID, slotID int, status Status) error {
	args := m.Called(ctx, fieldID, slotID, status)
	return args.Error(0)
}

func (m *MockRepository) DeleteAvailable(ctx context.Context, fieldID, slotID int) error {
	args := m.Called(ctx, fieldID, slotID)
	return args.Error(0)
}

func (m *MockRepository) FindByReservation(ctx context.Context, reservationID int) ([]Slot, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Slot), args.Error(1)
}

func (m *MockRepository) LockAvailable(ctx context.Context, tx *sqlx.Tx, ids []int) ([]Slot, error) {
	args := m.Called(ctx, tx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Slot), args.Error(1)
}

func (m *MockRepository) MarkBooked(ctx context.Context, tx *sqlx.Tx, ids []int, reservationID int) error {
	args := m.Called(ctx, tx, ids, reservationID)
	return args.Error(0)
}

func (m *MockRepository) ReleaseByReservation(ctx context.Context, tx *sqlx.Tx, reservationID int) error {
	args := m.Called(ctx, tx, reservationID)
	return args.Error(0)
}

// MockFieldService is a mock implementation of field.Service
type MockFieldService struct {
	mock.Mock
}

func (m *MockFieldService) Create(ctx context.Context, clubID int, req field.CreateFieldRequest) (*field.Field, error) {
	args := m.Called(ctx, clubID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*field.Field), args.Error(1)
}

func (m *MockFieldService) GetByID(ctx context.Context, id int) (*field.Field, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*field.Field), args.Error(1)
}

func (m *MockFieldService) GetByClub(ctx context.Context, clubID int) ([]field.Field, error) {
	args := m.Called(ctx, clubID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]field.Field), args.Error(1)
}

func (m *MockFieldService) Update(ctx context.Context, clubID, fieldID int, req field.UpdateFieldRequest) (*field.Field, error) {
	args := m.Called(ctx, clubID, fieldID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*field.Field), args.Error(1)
}

func (m *MockFieldService) CheckOwnership(ctx context.Context, fieldID, clubID int) (*field.Field, error) {
	args := m.Called(ctx, fieldID, clubID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*field.Field), args.Error(1)
}

func testLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func adjacentSlots(ids ...int) []Slot {
	times := []string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00"}
	slots := make([]Slot, len(ids))
	for i, id := range ids {
		slots[i] = Slot{
			ID:        id,
			FieldID:   1,
			Date:      "2026-09-01",
			StartTime: times[i],
			EndTime:   times[i+1],
			Status:    StatusAvailable,
		}
	}
	return slots
}

func TestConsecutiveGroups_SlidingWindow(t *testing.T) {
	slots := adjacentSlots(10, 11, 12)

	groups := consecutiveGroups(slots, 2)

	assert.Len(t, groups, 2)
	assert.Equal(t, []int{10, 11}, groups[0].SlotIDs)
	assert.Equal(t, "09:00", groups[0].StartTime)
	assert.Equal(t, "11:00", groups[0].EndTime)
	assert.Equal(t, []int{11, 12}, groups[1].SlotIDs)
}

func TestConsecutiveGroups_BrokenRun(t *testing.T) {
	slots := adjacentSlots(10, 11, 12)
	// Remove the middle slot's adjacency: 11:00-12:00 becomes 11:30-12:00.
	slots[2].StartTime = "11:30"

	groups := consecutiveGroups(slots, 2)

	assert.Len(t, groups, 1)
	assert.Equal(t, []int{10, 11}, groups[0].SlotIDs)
}

func TestConsecutiveGroups_RunTooShort(t *testing.T) {
	slots := adjacentSlots(10)

	groups := consecutiveGroups(slots, 2)

	assert.Empty(t, groups)
}

func TestConsecutiveGroups_NoSlots(t *testing.T) {
	groups := consecutiveGroups([]Slot{}, 2)

	assert.Empty(t, groups)
}

func TestConsecutiveGroups_ExactFit(t *testing.T) {
	slots := adjacentSlots(10, 11)

	groups := consecutiveGroups(slots, 2)

	assert.Len(t, groups, 1)
	assert.Equal(t, "09:00", groups[0].StartTime)
	assert.Equal(t, "11:00", groups[0].EndTime)
}

func TestService_FindConsecutiveAvailable(t *testing.T) {
	mockRepo := new(MockRepository)
	mockFields := new(MockFieldService)
	loc := testLocation(t)
	svc := NewService(mockRepo, mockFields, loc)

	mockFields.On("GetByID", mock.Anything, 1).Return(&field.Field{
		ID:                  1,
		SlotDurationMinutes: 60,
	}, nil)

	// 14:00 UTC is 11:00 in Buenos Aires, same calendar day.
	at := time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)
	mockRepo.On("GetAvailableByFieldAndDate", mock.Anything, 1, "2026-09-01").
		Return(adjacentSlots(10, 11, 12), nil)

	groups, err := svc.FindConsecutiveAvailable(context.Background(), 1, at, 90)

	assert.NoError(t, err)
	assert.Len(t, groups, 2)
	mockRepo.AssertExpectations(t)
	mockFields.AssertExpectations(t)
}

func TestService_FindConsecutiveAvailable_FacilityLocalDate(t *testing.T) {
	mockRepo := new(MockRepository)
	mockFields := new(MockFieldService)
	loc := testLocation(t)
	svc := NewService(mockRepo, mockFields, loc)

	mockFields.On("GetByID", mock.Anything, 1).Return(&field.Field{
		ID:                  1,
		SlotDurationMinutes: 60,
	}, nil)

	// 01:00 UTC on Sep 2 is still Sep 1 in Buenos Aires (UTC-3).
	at := time.Date(2026, 9, 2, 1, 0, 0, 0, time.UTC)
	mockRepo.On("GetAvailableByFieldAndDate", mock.Anything, 1, "2026-09-01").
		Return([]Slot{}, nil)

	groups, err := svc.FindConsecutiveAvailable(context.Background(), 1, at, 60)

	assert.NoError(t, err)
	assert.Empty(t, groups)
	mockRepo.AssertExpectations(t)
}

func TestService_CreateForField(t *testing.T) {
	mockRepo := new(MockRepository)
	mockFields := new(MockFieldService)
	svc := NewService(mockRepo, mockFields, testLocation(t))

	mockFields.On("CheckOwnership", mock.Anything, 1, 5).Return(&field.Field{
		ID:                  1,
		ClubID:              5,
		SlotDurationMinutes: 60,
	}, nil)
	mockRepo.On("FindOverlapping", mock.Anything, 1, "2026-09-01", "09:00", "11:00").
		Return([]Slot{}, nil)
	mockRepo.On("CreateSlots", mock.Anything, mock.MatchedBy(func(slots []Slot) bool {
		return len(slots) == 2
	})).Return(adjacentSlots(10, 11), nil)

	slots, err := svc.CreateForField(context.Background(), 5, 1, CreateTimeSlotsRequest{
		Date:      "2026-09-01",
		StartTime: "09:00",
		EndTime:   "11:00",
	})

	assert.NoError(t, err)
	assert.Len(t, slots, 2)
	mockRepo.AssertExpectations(t)
}

func TestService_CreateForField_Overlap(t *testing.T) {
	mockRepo := new(MockRepository)
	mockFields := new(MockFieldService)
	svc := NewService(mockRepo, mockFields, testLocation(t))

	mockFields.On("CheckOwnership", mock.Anything, 1, 5).Return(&field.Field{
		ID:                  1,
		ClubID:              5,
		SlotDurationMinutes: 60,
	}, nil)
	mockRepo.On("FindOverlapping", mock.Anything, 1, "2026-09-01", "09:00", "11:00").
		Return(adjacentSlots(10), nil)

	_, err := svc.CreateForField(context.Background(), 5, 1, CreateTimeSlotsRequest{
		Date:      "2026-09-01",
		StartTime: "09:00",
		EndTime:   "11:00",
	})

	appErr := apperr.As(err)
	assert.NotNil(t, appErr)
	assert.Equal(t, "OVERLAPPING_SLOTS", appErr.Code)
	mockRepo.AssertNotCalled(t, "CreateSlots", mock.Anything, mock.Anything)
}

func TestService_CreateForField_BadDate(t *testing.T) {
	mockRepo := new(MockRepository)
	mockFields := new(MockFieldService)
	svc := NewService(mockRepo, mockFields, testLocation(t))

	mockFields.On("CheckOwnership", mock.Anything, 1, 5).Return(&field.Field{ID: 1, ClubID: 5}, nil)

	_, err := svc.CreateForField(context.Background(), 5, 1, CreateTimeSlotsRequest{
		Date:      "09/01/2026",
		StartTime: "09:00",
		EndTime:   "11:00",
	})

	appErr := apperr.As(err)
	assert.NotNil(t, appErr)
	assert.Equal(t, "INVALID_DATE", appErr.Code)
}

func TestService_SetStatus_NotIdle(t *testing.T) {
	mockRepo := new(MockRepository)
	mockFields := new(MockFieldService)
	svc := NewService(mockRepo, mockFields, testLocation(t))

	mockFields.On("CheckOwnership", mock.Anything, 1, 5).Return(&field.Field{ID: 1, ClubID: 5}, nil)
	mockRepo.On("UpdateStatus", mock.Anything, 1, 9, StatusMaintenance).Return(ErrSlotNotFoundOrNotIdle)

	err := svc.SetStatus(context.Background(), 5, 1, 9, StatusMaintenance)

	appErr := apperr.As(err)
	assert.NotNil(t, appErr)
	assert.Equal(t, "SLOT_NOT_IDLE", appErr.Code)
}
