package service

import (
	"context"
	"fmt"
	"time"

	"nkadime-backend/internal/cache"
	"nkadime-backend/internal/domain"
	"nkadime-backend/internal/events"
	"nkadime-backend/internal/logger"
	"nkadime-backend/internal/repository"
)

const dateLayout = "2006-01-02"

type rentalService struct {
	rentalRepo  repository.RentalRepository
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	noteRepo    repository.NotificationRepository
	emailSvc    EmailService
	publisher   *events.Publisher
	cache       *cache.ListingCache
}

func NewRentalService(
	rentalRepo repository.RentalRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
	publisher *events.Publisher,
	c *cache.ListingCache,
) RentalService {
	return &rentalService{
		rentalRepo:  rentalRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		noteRepo:    noteRepo,
		emailSvc:    emailSvc,
		publisher:   publisher,
		cache:       c,
	}
}

// notify writes an in-app notification row and publishes the matching event.
// Both are best-effort: the rental mutation has already committed and is
// never rolled back for a failed side effect.
func (s *rentalService) notify(ctx context.Context, userID int64, ntype, message string) {
	n := &domain.Notification{UserID: userID, Type: ntype, Message: message}
	if err := s.noteRepo.Create(ctx, n); err != nil {
		logger.Warn("failed to create notification", "user_id", userID, "type", ntype, "error", err)
		return
	}
	_ = s.publisher.Publish(ctx, events.QueueNotificationCreated, events.NotificationCreated{
		NotificationID: n.ID,
		UserID:         n.UserID,
		Type:           n.Type,
		Message:        n.Message,
		CreatedAt:      n.CreatedOn.UTC().Format(time.RFC3339),
	})
}

func (s *rentalService) publishStatusChange(ctx context.Context, rt *domain.Rental, previous domain.RentalStatus, actorID int64) {
	_ = s.publisher.Publish(ctx, events.QueueRentalStatusChanged, events.RentalStatusChanged{
		RentalID:  rt.ID,
		ListingID: rt.ListingID,
		Previous:  string(previous),
		Next:      string(rt.Status),
		ActorID:   actorID,
		ChangedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// freeListing restores a listing's availability after a rental leaves the
// non-terminal path (declined, cancelled, completed).
func (s *rentalService) freeListing(ctx context.Context, listingID int64) {
	if err := s.listingRepo.SetAvailability(ctx, listingID, true); err != nil {
		logger.Warn("failed to restore listing availability", "listing_id", listingID, "error", err)
		return
	}
	s.cache.InvalidateSearch(ctx)
}

func (s *rentalService) CreateRentalRequest(ctx context.Context, renterID, listingID int64, startDate, endDate string) (*domain.Rental, error) {
	if listingID == 0 || startDate == "" || endDate == "" {
		return nil, domain.Invalid("All fields are required")
	}
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, domain.Invalid("Invalid start date")
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return nil, domain.Invalid("Invalid end date")
	}
	if end.Before(start) {
		return nil, domain.Invalid("End date must not precede start date")
	}

	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.OwnerID == renterID {
		return nil, domain.Invalid("You cannot rent your own listing")
	}
	if !listing.Available {
		return nil, domain.Invalid("Listing is not available")
	}

	rt := &domain.Rental{
		ListingID: listingID,
		OwnerID:   listing.OwnerID,
		RenterID:  renterID,
		StartDate: start,
		EndDate:   end,
	}
	// The repository claims the listing under a row lock; a concurrent
	// request for the same listing comes back Invalid here.
	if err := s.rentalRepo.Create(ctx, rt); err != nil {
		return nil, err
	}
	s.cache.InvalidateSearch(ctx)

	// Notify owner
	owner, _ := s.userRepo.GetByID(ctx, listing.OwnerID)
	renter, _ := s.userRepo.GetByID(ctx, renterID)
	if owner != nil && renter != nil {
		_ = s.emailSvc.SendRentalRequestNotification(ctx, owner.Email, renter.Name, listing.Title)
		s.notify(ctx, owner.ID, domain.NotificationRentalRequested,
			fmt.Sprintf("%s requested to rent %s", renter.Name, listing.Title))
	}

	return rt, nil
}

func (s *rentalService) Approve(ctx context.Context, ownerID, rentalID int64) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.OwnerID != ownerID {
		return nil, domain.Forbidden("Only the owner can approve a rental")
	}

	if err := s.rentalRepo.Transition(ctx, repository.RentalTransition{
		RentalID: rentalID,
		ActorID:  ownerID,
		Next:     domain.RentalStatusApproved,
	}); err != nil {
		return nil, err
	}
	// Listing stays unavailable for the duration of the rental.

	updated, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	s.publishStatusChange(ctx, updated, rt.Status, ownerID)

	renter, _ := s.userRepo.GetByID(ctx, rt.RenterID)
	owner, _ := s.userRepo.GetByID(ctx, ownerID)
	listing, _ := s.listingRepo.GetByID(ctx, rt.ListingID)
	if renter != nil && owner != nil && listing != nil {
		_ = s.emailSvc.SendRentalApprovalNotification(ctx, renter.Email, listing.Title, owner.Name)
		s.notify(ctx, renter.ID, domain.NotificationRentalApproved,
			fmt.Sprintf("Your rental request for %s was approved by %s", listing.Title, owner.Name))
	}

	return updated, nil
}

func (s *rentalService) Decline(ctx context.Context, ownerID, rentalID int64) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.OwnerID != ownerID {
		return nil, domain.Forbidden("Only the owner can decline a rental")
	}

	if err := s.rentalRepo.Transition(ctx, repository.RentalTransition{
		RentalID: rentalID,
		ActorID:  ownerID,
		Next:     domain.RentalStatusDeclined,
	}); err != nil {
		return nil, err
	}
	s.freeListing(ctx, rt.ListingID)

	updated, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	s.publishStatusChange(ctx, updated, rt.Status, ownerID)

	renter, _ := s.userRepo.GetByID(ctx, rt.RenterID)
	owner, _ := s.userRepo.GetByID(ctx, ownerID)
	listing, _ := s.listingRepo.GetByID(ctx, rt.ListingID)
	if renter != nil && owner != nil && listing != nil {
		_ = s.emailSvc.SendRentalDeclineNotification(ctx, renter.Email, listing.Title, owner.Name)
		s.notify(ctx, renter.ID, domain.NotificationRentalDeclined,
			fmt.Sprintf("Your rental request for %s was declined by %s", listing.Title, owner.Name))
	}

	return updated, nil
}

func (s *rentalService) UpdateStatusWithAudit(ctx context.Context, actorID, rentalID int64, status, note string) (*domain.Rental, error) {
	next := domain.RentalStatus(status)
	if !next.Valid() {
		return nil, domain.Invalid("Invalid status")
	}
	if next == domain.RentalStatusDisputed {
		return nil, domain.Invalid("Disputes must be raised through the dispute endpoint")
	}

	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if !rt.IsParty(actorID) {
		return nil, domain.Forbidden("Only the owner or renter can update this rental")
	}
	if (next == domain.RentalStatusApproved || next == domain.RentalStatusDeclined) && actorID != rt.OwnerID {
		return nil, domain.Forbidden("Only the owner can approve or decline a rental")
	}

	if err := s.rentalRepo.Transition(ctx, repository.RentalTransition{
		RentalID: rentalID,
		ActorID:  actorID,
		Next:     next,
		Note:     note,
	}); err != nil {
		return nil, err
	}

	// Any exit from the non-terminal path frees the listing, whichever code
	// path performed the transition.
	switch next {
	case domain.RentalStatusDeclined, domain.RentalStatusCancelled, domain.RentalStatusCompleted:
		s.freeListing(ctx, rt.ListingID)
	}

	updated, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	s.publishStatusChange(ctx, updated, rt.Status, actorID)

	if next == domain.RentalStatusApproved || next == domain.RentalStatusDeclined {
		renter, _ := s.userRepo.GetByID(ctx, rt.RenterID)
		listing, _ := s.listingRepo.GetByID(ctx, rt.ListingID)
		if renter != nil && listing != nil {
			s.notify(ctx, renter.ID, domain.NotificationRentalStatus,
				fmt.Sprintf("Your rental for %s is now %s", listing.Title, next))
		}
	}

	return updated, nil
}

func (s *rentalService) AddMessage(ctx context.Context, actorID, rentalID int64, message, evidenceURL string) (*domain.Rental, error) {
	if message == "" && evidenceURL == "" {
		return nil, domain.Invalid("Message or evidence is required")
	}

	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if !rt.IsParty(actorID) {
		return nil, domain.Forbidden("Only the owner or renter can message on this rental")
	}

	if err := s.rentalRepo.AddMessage(ctx, rentalID, actorID, message, evidenceURL); err != nil {
		return nil, err
	}
	return s.rentalRepo.GetByID(ctx, rentalID)
}

func (s *rentalService) AddPayment(ctx context.Context, actorID, rentalID int64, amountCents int64, method, reference string, paidAt *time.Time) (*domain.Rental, error) {
	if amountCents <= 0 || method == "" || reference == "" {
		return nil, domain.Invalid("Amount, method and reference are required")
	}

	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if !rt.IsParty(actorID) {
		return nil, domain.Forbidden("Only the owner or renter can record a payment")
	}

	when := time.Now()
	if paidAt != nil {
		when = *paidAt
	}
	if err := s.rentalRepo.SetPayment(ctx, rentalID, domain.Payment{
		AmountCents: amountCents,
		Method:      method,
		Reference:   reference,
		PaidAt:      when,
	}); err != nil {
		return nil, err
	}
	return s.rentalRepo.GetByID(ctx, rentalID)
}

func (s *rentalService) AddReview(ctx context.Context, reviewerID, rentalID int64, rating int, comment string) (*domain.Rental, error) {
	if rating < 1 || rating > 5 {
		return nil, domain.Invalid("Rating must be between 1 and 5")
	}

	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if !rt.IsParty(reviewerID) {
		return nil, domain.Forbidden("Only the owner or renter can review this rental")
	}

	if err := s.rentalRepo.AddReview(ctx, rentalID, reviewerID, rating, comment); err != nil {
		return nil, err
	}
	return s.rentalRepo.GetByID(ctx, rentalID)
}

func (s *rentalService) RaiseDispute(ctx context.Context, actorID, rentalID int64, reason, evidenceURL string) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if !rt.IsParty(actorID) {
		return nil, domain.Forbidden("Only the owner or renter can raise a dispute")
	}
	if reason == "" {
		return nil, domain.Invalid("Reason is required")
	}

	if _, err := s.rentalRepo.OpenDispute(ctx, rentalID, actorID, reason, evidenceURL); err != nil {
		return nil, err
	}

	updated, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	s.publishStatusChange(ctx, updated, rt.Status, actorID)

	// Every admin gets notified individually.
	listing, _ := s.listingRepo.GetByID(ctx, rt.ListingID)
	title := ""
	if listing != nil {
		title = listing.Title
	}
	admins, err := s.userRepo.ListAdmins(ctx)
	if err != nil {
		logger.Warn("failed to list admins for dispute notification", "rental_id", rentalID, "error", err)
	}
	for _, admin := range admins {
		_ = s.emailSvc.SendDisputeRaisedNotification(ctx, admin.Email, title, reason)
		s.notify(ctx, admin.ID, domain.NotificationDisputeRaised,
			fmt.Sprintf("A dispute was raised on rental #%d: %s", rentalID, reason))
	}

	return updated, nil
}

func (s *rentalService) ResolveDispute(ctx context.Context, adminID, rentalID int64, status, resolution string) (*domain.Rental, error) {
	admin, err := s.userRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !admin.IsAdmin {
		return nil, domain.Forbidden("Admin access required")
	}

	dStatus := domain.DisputeStatus(status)
	if dStatus != domain.DisputeStatusResolved && dStatus != domain.DisputeStatusRejected {
		return nil, domain.Invalid("Invalid dispute status")
	}

	// A resolved dispute completes the rental; a rejected one cancels it.
	next := domain.RentalStatusCompleted
	if dStatus == domain.DisputeStatusRejected {
		next = domain.RentalStatusCancelled
	}

	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	if _, err := s.rentalRepo.ResolveDispute(ctx, rentalID, adminID, dStatus, resolution, next); err != nil {
		return nil, err
	}
	s.freeListing(ctx, rt.ListingID)

	updated, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	s.publishStatusChange(ctx, updated, rt.Status, adminID)

	listing, _ := s.listingRepo.GetByID(ctx, rt.ListingID)
	title := ""
	if listing != nil {
		title = listing.Title
	}
	for _, partyID := range []int64{rt.OwnerID, rt.RenterID} {
		party, _ := s.userRepo.GetByID(ctx, partyID)
		if party != nil {
			_ = s.emailSvc.SendDisputeResolvedNotification(ctx, party.Email, title, resolution)
			s.notify(ctx, party.ID, domain.NotificationDisputeResolved,
				fmt.Sprintf("The dispute on rental #%d was %s", rentalID, dStatus))
		}
	}

	return updated, nil
}

func (s *rentalService) ListOpenDisputes(ctx context.Context, adminID int64) ([]domain.Dispute, error) {
	admin, err := s.userRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !admin.IsAdmin {
		return nil, domain.Forbidden("Admin access required")
	}
	return s.rentalRepo.ListOpenDisputes(ctx)
}

func (s *rentalService) GetRental(ctx context.Context, userID, rentalID int64) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if !rt.IsParty(userID) {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil || !user.IsAdmin {
			return nil, domain.Forbidden("You are not a party to this rental")
		}
	}
	return rt, nil
}

func (s *rentalService) GetHistory(ctx context.Context, userID int64) ([]domain.RentalDetail, error) {
	return s.rentalRepo.ListByUser(ctx, userID)
}

func (s *rentalService) ExportAudit(ctx context.Context, userID, rentalID int64) (*domain.RentalDetail, error) {
	detail, err := s.rentalRepo.GetDetail(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if !detail.IsParty(userID) {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil || !user.IsAdmin {
			return nil, domain.Forbidden("You are not a party to this rental")
		}
	}
	return detail, nil
}
