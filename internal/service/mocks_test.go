package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"nkadime-backend/internal/domain"
	"nkadime-backend/internal/repository"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) ListAdmins(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

type mockListingRepo struct {
	mock.Mock
}

func (m *mockListingRepo) Create(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *mockListingRepo) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *mockListingRepo) Search(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Listing), args.Error(1)
}

func (m *mockListingRepo) SetAvailability(ctx context.Context, id int64, available bool) error {
	args := m.Called(ctx, id, available)
	return args.Error(0)
}

type mockRentalRepo struct {
	mock.Mock
}

func (m *mockRentalRepo) Create(ctx context.Context, rental *domain.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}

func (m *mockRentalRepo) GetByID(ctx context.Context, id int64) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *mockRentalRepo) GetDetail(ctx context.Context, id int64) (*domain.RentalDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalDetail), args.Error(1)
}

func (m *mockRentalRepo) Transition(ctx context.Context, t repository.RentalTransition) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockRentalRepo) AddMessage(ctx context.Context, rentalID, fromUser int64, message, evidenceURL string) error {
	args := m.Called(ctx, rentalID, fromUser, message, evidenceURL)
	return args.Error(0)
}

func (m *mockRentalRepo) SetPayment(ctx context.Context, rentalID int64, p domain.Payment) error {
	args := m.Called(ctx, rentalID, p)
	return args.Error(0)
}

func (m *mockRentalRepo) AddReview(ctx context.Context, rentalID, reviewerID int64, rating int, comment string) error {
	args := m.Called(ctx, rentalID, reviewerID, rating, comment)
	return args.Error(0)
}

func (m *mockRentalRepo) OpenDispute(ctx context.Context, rentalID, raisedBy int64, reason, evidenceURL string) (*domain.Dispute, error) {
	args := m.Called(ctx, rentalID, raisedBy, reason, evidenceURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dispute), args.Error(1)
}

func (m *mockRentalRepo) ResolveDispute(ctx context.Context, rentalID, resolvedBy int64, status domain.DisputeStatus, resolution string, next domain.RentalStatus) (*domain.Dispute, error) {
	args := m.Called(ctx, rentalID, resolvedBy, status, resolution, next)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dispute), args.Error(1)
}

func (m *mockRentalRepo) ListByUser(ctx context.Context, userID int64) ([]domain.RentalDetail, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RentalDetail), args.Error(1)
}

func (m *mockRentalRepo) ListOpenDisputes(ctx context.Context) ([]domain.Dispute, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Dispute), args.Error(1)
}

func (m *mockRentalRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Rental, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rental), args.Error(1)
}

type mockNotificationRepo struct {
	mock.Mock
}

func (m *mockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *mockNotificationRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *mockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type mockEmailService struct {
	mock.Mock
}

func (m *mockEmailService) SendRentalRequestNotification(ctx context.Context, ownerEmail, renterName, listingTitle string) error {
	args := m.Called(ctx, ownerEmail, renterName, listingTitle)
	return args.Error(0)
}

func (m *mockEmailService) SendRentalApprovalNotification(ctx context.Context, renterEmail, listingTitle, ownerName string) error {
	args := m.Called(ctx, renterEmail, listingTitle, ownerName)
	return args.Error(0)
}

func (m *mockEmailService) SendRentalDeclineNotification(ctx context.Context, renterEmail, listingTitle, ownerName string) error {
	args := m.Called(ctx, renterEmail, listingTitle, ownerName)
	return args.Error(0)
}

func (m *mockEmailService) SendDisputeRaisedNotification(ctx context.Context, adminEmail, listingTitle, reason string) error {
	args := m.Called(ctx, adminEmail, listingTitle, reason)
	return args.Error(0)
}

func (m *mockEmailService) SendDisputeResolvedNotification(ctx context.Context, email, listingTitle, resolution string) error {
	args := m.Called(ctx, email, listingTitle, resolution)
	return args.Error(0)
}
