package service

import (
	"context"
	"time"

	"nkadime-backend/internal/domain"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password, phone string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

type UserService interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, actorID, userID int64, name, location, profilePic string) (*domain.User, error)
}

type ListingService interface {
	CreateListing(ctx context.Context, listing *domain.Listing) error
	GetListing(ctx context.Context, id int64) (*domain.Listing, error)
	SearchListings(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error)
}

// RentalService is the rental lifecycle manager. Mutations return the rental
// re-read after commit so callers always see the post-transition aggregate.
type RentalService interface {
	CreateRentalRequest(ctx context.Context, renterID, listingID int64, startDate, endDate string) (*domain.Rental, error)
	Approve(ctx context.Context, ownerID, rentalID int64) (*domain.Rental, error)
	Decline(ctx context.Context, ownerID, rentalID int64) (*domain.Rental, error)
	UpdateStatusWithAudit(ctx context.Context, actorID, rentalID int64, status, note string) (*domain.Rental, error)
	AddMessage(ctx context.Context, actorID, rentalID int64, message, evidenceURL string) (*domain.Rental, error)
	AddPayment(ctx context.Context, actorID, rentalID int64, amountCents int64, method, reference string, paidAt *time.Time) (*domain.Rental, error)
	AddReview(ctx context.Context, reviewerID, rentalID int64, rating int, comment string) (*domain.Rental, error)
	RaiseDispute(ctx context.Context, actorID, rentalID int64, reason, evidenceURL string) (*domain.Rental, error)
	ResolveDispute(ctx context.Context, adminID, rentalID int64, status, resolution string) (*domain.Rental, error)
	ListOpenDisputes(ctx context.Context, adminID int64) ([]domain.Dispute, error)
	GetRental(ctx context.Context, userID, rentalID int64) (*domain.Rental, error)
	GetHistory(ctx context.Context, userID int64) ([]domain.RentalDetail, error)
	ExportAudit(ctx context.Context, userID, rentalID int64) (*domain.RentalDetail, error)
}

type NotificationService interface {
	ListNotifications(ctx context.Context, userID int64) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, userID, notificationID int64) error
}

type ReviewService interface {
	AddReview(ctx context.Context, review *domain.Review) error
	ListByListing(ctx context.Context, listingID int64) ([]domain.Review, error)
}

type ListingMessageService interface {
	SendMessage(ctx context.Context, fromUser int64, listingID int64, message string) (*domain.ListingMessage, error)
	ListByListing(ctx context.Context, userID, listingID int64) ([]domain.ListingMessage, error)
}

type FavoriteService interface {
	AddFavorite(ctx context.Context, userID, listingID int64) (*domain.Favorite, error)
	ListFavorites(ctx context.Context, userID int64) ([]domain.Favorite, error)
}

type EmailService interface {
	SendRentalRequestNotification(ctx context.Context, ownerEmail, renterName, listingTitle string) error
	SendRentalApprovalNotification(ctx context.Context, renterEmail, listingTitle, ownerName string) error
	SendRentalDeclineNotification(ctx context.Context, renterEmail, listingTitle, ownerName string) error
	SendDisputeRaisedNotification(ctx context.Context, adminEmail, listingTitle, reason string) error
	SendDisputeResolvedNotification(ctx context.Context, email, listingTitle, resolution string) error
}
