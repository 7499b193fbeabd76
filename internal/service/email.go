package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"fleetdesk-backend/internal/domain"

	"gopkg.in/gomail.v2"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailService(host, port, username, password, from string) EmailService {
	p, _ := strconv.Atoi(port)
	return &emailService{
		host:     host,
		port:     p,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *emailService) send(m *gomail.Message) error {
	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *emailService) SendDocumentExpiryReminder(ctx context.Context, email, name, registrationNo string, kind domain.DocumentKind, expiry time.Time) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("Document expiring soon for %s", registrationNo))

	body := fmt.Sprintf("Hello %s,\n\nThe %s document for your vehicle %s expires on %s.\n\nPlease raise a renewal request before it lapses.\n\nBest regards,\nThe FleetDesk Team",
		name, kind, registrationNo, expiry.Format("2006-01-02"))
	m.SetBody("text/plain", body)

	return s.send(m)
}

func (s *emailService) SendSettlementReceipt(ctx context.Context, email, name string, rec *domain.SettlementRecord) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("Challan payment receipt for %s", rec.RegistrationNo))

	body := fmt.Sprintf("Hello %s,\n\nYour payment was successful.\n\nReceipt: %s\nChallans paid: %d\nFines: %d\nService fees: %d\nTax: %d\nTotal debited: %d credits\n\nBest regards,\nThe FleetDesk Team",
		name, rec.ID, len(rec.Items), rec.FineTotal, rec.FeeTotal, rec.TaxTotal, rec.GrandTotal)
	m.SetBody("text/plain", body)

	return s.send(m)
}

func (s *emailService) SendAssignmentNotification(ctx context.Context, email, name, vehicleNo, services string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("Renewal request for %s is in progress", vehicleNo))

	body := fmt.Sprintf("Hello %s,\n\nYour renewal request (%s) for vehicle %s has been assigned and is now being processed. You can track stage-by-stage progress from your dashboard.\n\nBest regards,\nThe FleetDesk Team",
		name, services, vehicleNo)
	m.SetBody("text/plain", body)

	return s.send(m)
}
