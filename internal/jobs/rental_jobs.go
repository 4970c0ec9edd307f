package jobs

import (
	"context"
	"fmt"
	"time"

	"nkadime-backend/internal/domain"
	"nkadime-backend/internal/logger"
)

// SendOverdueReminders notifies renters whose rental end date has passed
// while the rental is still in a rented-out status. The rental itself is not
// transitioned; returning the item is a deliberate user action.
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func() {
		ctx := context.Background()

		overdue, err := jr.store.ListOverdue(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to list overdue rentals", "error", err)
			return
		}

		count := 0
		for _, rental := range overdue {
			note := &domain.Notification{
				UserID: rental.RenterID,
				Type:   domain.NotificationRentalOverdue,
				Message: fmt.Sprintf("Rental #%d ended on %s; please return the item or extend the rental",
					rental.ID, rental.EndDate.Format("2006-01-02")),
			}
			if err := jr.store.NotificationRepository.Create(ctx, note); err != nil {
				logger.Error("Failed to create overdue notification", "rental_id", rental.ID, "error", err)
				continue
			}
			count++
		}

		logger.Info("Sent overdue reminders", "count", count, "overdue", len(overdue))
	})
}
