package email

import (
	"context"
	"fmt"
	"time"
)

const whenFormat = "Jan 2, 2006 at 3:04 PM"

func (s *Service) SendReservationSubmitted(ctx context.Context, clubEmail, clubName, fieldName string, when time.Time) error {
	subject := "New Reservation Request - " + fieldName
	body := fmt.Sprintf(`Hi %s,

A new reservation request was submitted for one of your fields.

Field: %s
Time: %s

Confirm or reject it from your dashboard.

- SportsMatch Team`, clubName, fieldName, when.Format(whenFormat))

	return s.Send(ctx, clubEmail, clubName, subject, body)
}

func (s *Service) SendReservationConfirmed(ctx context.Context, userEmail, userName, fieldName string, when time.Time, cost int64) error {
	subject := "Reservation Confirmed - " + fieldName
	body := fmt.Sprintf(`Hi %s,

Your reservation has been confirmed by the club!

Field: %s
Time: %s
Total: $%d

Complete the payment to secure your spot.

- SportsMatch Team`, userName, fieldName, when.Format(whenFormat), cost)

	return s.Send(ctx, userEmail, userName, subject, body)
}

func (s *Service) SendReservationCompleted(ctx context.Context, userEmail, userName, fieldName string, when time.Time) error {
	subject := "Payment Received - " + fieldName
	body := fmt.Sprintf(`Hi %s,

Your payment was received and your reservation is all set.

Field: %s
Time: %s

See you on the field!

- SportsMatch Team`, userName, fieldName, when.Format(whenFormat))

	return s.Send(ctx, userEmail, userName, subject, body)
}

func (s *Service) SendReservationCancelled(ctx context.Context, toEmail, toName, fieldName string, when time.Time) error {
	subject := "Reservation Cancelled - " + fieldName
	body := fmt.Sprintf(`Hi %s,

The following reservation has been cancelled:

Field: %s
Time: %s

The slots are available again.

- SportsMatch Team`, toName, fieldName, when.Format(whenFormat))

	return s.Send(ctx, toEmail, toName, subject, body)
}

func (s *Service) SendRefundIssued(ctx context.Context, toEmail, toName, fieldName string, amount int64) error {
	subject := "Refund Issued - " + fieldName
	body := fmt.Sprintf(`Hi %s,

A refund of $%d was issued for your cancelled reservation on %s.

It should reach your account within a few business days.

- SportsMatch Team`, toName, amount, fieldName)

	return s.Send(ctx, toEmail, toName, subject, body)
}
