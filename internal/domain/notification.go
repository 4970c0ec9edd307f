package domain

import "time"

// Notification types emitted by rental lifecycle transitions.
const (
	NotificationRentalRequested = "RENTAL_REQUESTED"
	NotificationRentalApproved  = "RENTAL_APPROVED"
	NotificationRentalDeclined  = "RENTAL_DECLINED"
	NotificationRentalStatus    = "RENTAL_STATUS"
	NotificationDisputeRaised   = "DISPUTE_RAISED"
	NotificationDisputeResolved = "DISPUTE_RESOLVED"
	NotificationRentalOverdue   = "RENTAL_OVERDUE"
)

type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"read"`
	CreatedOn time.Time `json:"createdOn"`
}
