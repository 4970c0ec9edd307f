package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"nkadime-backend/internal/logger"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

// NewEmailService builds a SendGrid-backed mailer. An empty API key disables
// sending; every Send* call becomes a logged no-op.
func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(to, subject, body string) error {
	if s.apiKey == "" {
		logger.Debug("email disabled, skipping send", "to", to, "subject", subject)
		return nil
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

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

func (s *emailService) SendRentalRequestNotification(ctx context.Context, ownerEmail, renterName, listingTitle string) error {
	body := fmt.Sprintf("Hello,\n\n%s has requested to rent your listing \"%s\".\n\nLog in to Nkadime to approve or decline the request.\n\nThe Nkadime Team", renterName, listingTitle)
	return s.send(ownerEmail, "New rental request", body)
}

func (s *emailService) SendRentalApprovalNotification(ctx context.Context, renterEmail, listingTitle, ownerName string) error {
	body := fmt.Sprintf("Hello,\n\nYour rental request for \"%s\" was approved by %s.\n\nThe Nkadime Team", listingTitle, ownerName)
	return s.send(renterEmail, "Rental request approved", body)
}

func (s *emailService) SendRentalDeclineNotification(ctx context.Context, renterEmail, listingTitle, ownerName string) error {
	body := fmt.Sprintf("Hello,\n\nYour rental request for \"%s\" was declined by %s.\n\nThe Nkadime Team", listingTitle, ownerName)
	return s.send(renterEmail, "Rental request declined", body)
}

func (s *emailService) SendDisputeRaisedNotification(ctx context.Context, adminEmail, listingTitle, reason string) error {
	body := fmt.Sprintf("Hello,\n\nA dispute was raised on the rental of \"%s\".\n\nReason: %s\n\nPlease review it in the admin dashboard.\n\nThe Nkadime Team", listingTitle, reason)
	return s.send(adminEmail, "Dispute raised", body)
}

func (s *emailService) SendDisputeResolvedNotification(ctx context.Context, email, listingTitle, resolution string) error {
	body := fmt.Sprintf("Hello,\n\nThe dispute on the rental of \"%s\" has been resolved.\n\nResolution: %s\n\nThe Nkadime Team", listingTitle, resolution)
	return s.send(email, "Dispute resolved", body)
}
