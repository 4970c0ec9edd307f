// Package events defines the payloads published to the message broker after
// rental lifecycle transitions commit. Consumers can notify, log or feed
// analytics without querying the primary database.
package events

const (
	QueueNotificationCreated = "notification.created"
	QueueRentalStatusChanged = "rental.status_changed"
)

// NotificationCreated is published whenever a notification record is written
// for a user.
type NotificationCreated struct {
	NotificationID int64  `json:"notification_id"`
	UserID         int64  `json:"user_id"`
	Type           string `json:"type"`
	Message        string `json:"message"`
	CreatedAt      string `json:"created_at"`
}

// RentalStatusChanged is published after a rental status transition commits.
type RentalStatusChanged struct {
	RentalID  int64  `json:"rental_id"`
	ListingID int64  `json:"listing_id"`
	Previous  string `json:"previous_status"`
	Next      string `json:"next_status"`
	ActorID   int64  `json:"actor_id"`
	ChangedAt string `json:"changed_at"`
}
