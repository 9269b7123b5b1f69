package reservation

import "time"

// MinRefundLead is the notice a user must give before the event start for a
// cancellation to be refundable.
const MinRefundLead = 24 * time.Hour

// RefundEligible decides whether cancelling a reservation triggers a refund.
// Only paid reservations qualify. A club cancelling always refunds; a user
// cancelling refunds only with at least MinRefundLead of notice before the
// event start.
func RefundEligible(status Status, initiator Initiator, eventStart, now time.Time) bool {
	if status != StatusCompleted {
		return false
	}
	if initiator == InitiatorClub {
		return true
	}
	return eventStart.Sub(now) >= MinRefundLead
}
