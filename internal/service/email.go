package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"rentalworks-backend/internal/money"
)

type sendGridEmailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &sendGridEmailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendGridEmailService) send(to, toName, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *sendGridEmailService) SendCancellationNotification(ctx context.Context, email, name, bookingNumber, policyLabel string, fee, refund money.Cents) error {
	subject := fmt.Sprintf("Booking %s cancelled", bookingNumber)
	plainText := fmt.Sprintf(
		"Hello %s,\n\nYour booking %s has been cancelled under the policy: %s.\nCancellation fee: %s\nRefund due: %s\n\nBest regards,\nThe RentalWorks Team",
		name, bookingNumber, policyLabel, fee, refund)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Booking %s cancelled</h2>
				<p>Policy applied: <strong>%s</strong></p>
				<p>Cancellation fee: <strong>%s</strong></p>
				<p>Refund due: <strong>%s</strong></p>
			</body>
		</html>
	`, bookingNumber, policyLabel, fee, refund)

	return s.send(email, name, subject, plainText, htmlContent)
}

func (s *sendGridEmailService) SendInstallmentReminder(ctx context.Context, email, name, bookingNumber string, number int, amount money.Cents, dueDate time.Time) error {
	subject := fmt.Sprintf("Payment reminder for booking %s", bookingNumber)
	plainText := fmt.Sprintf(
		"Hello %s,\n\nInstallment #%d of %s for booking %s was due on %s and is still outstanding.\n\nBest regards,\nThe RentalWorks Team",
		name, number, amount, bookingNumber, dueDate.Format("January 2, 2006"))
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Payment reminder</h2>
				<p>Installment <strong>#%d</strong> of <strong>%s</strong> for booking %s was due on %s.</p>
			</body>
		</html>
	`, number, amount, bookingNumber, dueDate.Format("January 2, 2006"))

	return s.send(email, name, subject, plainText, htmlContent)
}

func (s *sendGridEmailService) SendInvoice(ctx context.Context, email, name, bookingNumber, htmlBody, textBody string) error {
	subject := fmt.Sprintf("Invoice for booking %s", bookingNumber)
	return s.send(email, name, subject, textBody, htmlBody)
}
