package repository

import (
	"context"
	"time"

	"nkadime-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	ListAdmins(ctx context.Context) ([]domain.User, error)
}

type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
	Search(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error)
	SetAvailability(ctx context.Context, id int64, available bool) error
}

// RentalTransition describes one status change. Transitions run inside a
// single transaction holding a row lock on the rental, so the status column
// and the history append can never diverge under concurrent writers. The
// disputed status is out of reach here: OpenDispute and ResolveDispute own
// both ends of it.
type RentalTransition struct {
	RentalID int64
	ActorID  int64
	Next     domain.RentalStatus
	Note     string
}

type RentalRepository interface {
	// Create locks the listing row, checks availability, inserts the rental
	// with its first history entry (pending) and marks the listing
	// unavailable, all in one transaction.
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id int64) (*domain.Rental, error)
	GetDetail(ctx context.Context, id int64) (*domain.RentalDetail, error)
	Transition(ctx context.Context, t RentalTransition) error
	// AddMessage appends a chat message and/or an evidence record in one
	// transaction; both may be present.
	AddMessage(ctx context.Context, rentalID, fromUser int64, message, evidenceURL string) error
	// SetPayment overwrites the single payment record wholesale.
	SetPayment(ctx context.Context, rentalID int64, p domain.Payment) error
	AddReview(ctx context.Context, rentalID, reviewerID int64, rating int, comment string) error
	// OpenDispute inserts an open dispute row and forces the rental into the
	// disputed status, appending history, all in one transaction.
	OpenDispute(ctx context.Context, rentalID, raisedBy int64, reason, evidenceURL string) (*domain.Dispute, error)
	// ResolveDispute stamps the open dispute and transitions the rental out of
	// disputed into next, appending history, all in one transaction.
	ResolveDispute(ctx context.Context, rentalID, resolvedBy int64, status domain.DisputeStatus, resolution string, next domain.RentalStatus) (*domain.Dispute, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.RentalDetail, error)
	ListOpenDisputes(ctx context.Context) ([]domain.Dispute, error)
	// ListOverdue returns non-terminal rentals whose end date precedes asOf.
	ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Rental, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
}

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	ListByListing(ctx context.Context, listingID int64) ([]domain.Review, error)
}

type ListingMessageRepository interface {
	Create(ctx context.Context, msg *domain.ListingMessage) error
	ListByListing(ctx context.Context, listingID int64) ([]domain.ListingMessage, error)
}

type FavoriteRepository interface {
	Create(ctx context.Context, fav *domain.Favorite) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Favorite, error)
}
