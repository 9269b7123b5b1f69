package reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRefundEligible_ClubCancelsPaidReservation(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	eventStart := now.Add(1 * time.Hour)

	assert.True(t, RefundEligible(StatusCompleted, InitiatorClub, eventStart, now))
}

func TestRefundEligible_UserCancelsWithEnoughLead(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	eventStart := now.Add(25 * time.Hour)

	assert.True(t, RefundEligible(StatusCompleted, InitiatorUser, eventStart, now))
}

func TestRefundEligible_UserCancelsAtExactLead(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	eventStart := now.Add(MinRefundLead)

	assert.True(t, RefundEligible(StatusCompleted, InitiatorUser, eventStart, now))
}

func TestRefundEligible_UserCancelsTooLate(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	eventStart := now.Add(MinRefundLead - time.Minute)

	assert.False(t, RefundEligible(StatusCompleted, InitiatorUser, eventStart, now))
}

func TestRefundEligible_UnpaidReservationNeverRefunds(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	eventStart := now.Add(48 * time.Hour)

	for _, status := range []Status{StatusPending, StatusConfirmed, StatusCancelled} {
		assert.False(t, RefundEligible(status, InitiatorClub, eventStart, now), "status %s", status)
		assert.False(t, RefundEligible(status, InitiatorUser, eventStart, now), "status %s", status)
	}
}

func TestRefundEligible_Deterministic(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	eventStart := now.Add(30 * time.Hour)

	first := RefundEligible(StatusCompleted, InitiatorUser, eventStart, now)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, RefundEligible(StatusCompleted, InitiatorUser, eventStart, now))
	}
}
