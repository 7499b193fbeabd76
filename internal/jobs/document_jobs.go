package jobs

import (
	"context"
	"fmt"
	"time"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/logger"
)

// SendDocumentExpiryReminders emails vehicle owners whose documents expire
// within the configured lookahead window and drops one in-app notification
// per expiring document.
func (jr *JobRunner) SendDocumentExpiryReminders() {
	jr.runWithRecovery("SendDocumentExpiryReminders", func() {
		ctx := context.Background()

		lookahead := time.Duration(jr.config.Scheduler.ExpiryLookaheadDays) * 24 * time.Hour
		cutoff := time.Now().Add(lookahead)

		docs, err := jr.store.VehicleRepository.ListExpiringDocuments(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to query expiring documents", "error", err)
			return
		}

		count := 0
		for _, doc := range docs {
			owner, err := jr.store.UserRepository.GetByID(ctx, doc.UserID)
			if err != nil {
				logger.Error("Failed to load document owner",
					"user_id", doc.UserID,
					"vehicle_id", doc.VehicleID,
					"error", err)
				continue
			}

			if err := jr.services.Email.SendDocumentExpiryReminder(ctx, owner.Email, owner.Name, doc.RegistrationNo, doc.Kind, doc.ExpiryDate); err != nil {
				logger.Error("Failed to send expiry reminder email",
					"user_id", doc.UserID,
					"vehicle_id", doc.VehicleID,
					"kind", doc.Kind,
					"error", err)
				continue
			}

			note := &domain.Notification{
				UserID:  doc.UserID,
				Title:   "Document expiring soon",
				Message: fmt.Sprintf("The %s for %s expires on %s. Renew it before the due date.", doc.Kind, doc.RegistrationNo, doc.ExpiryDate.Format("02 Jan 2006")),
				Attributes: map[string]string{
					"vehicle_id": doc.VehicleID,
					"kind":       string(doc.Kind),
				},
			}
			if err := jr.store.NotificationRepository.Create(ctx, note); err != nil {
				logger.Error("Failed to create expiry notification",
					"user_id", doc.UserID,
					"vehicle_id", doc.VehicleID,
					"error", err)
			}

			count++
			logger.Debug("Sent expiry reminder",
				"user_id", doc.UserID,
				"vehicle_id", doc.VehicleID,
				"kind", doc.Kind)
		}

		logger.Info("Document expiry reminders sent", "count", count)
	})
}
