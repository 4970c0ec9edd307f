package service

import (
	"context"

	"nkadime-backend/internal/domain"
	"nkadime-backend/internal/repository"
)

type listingMessageService struct {
	msgRepo     repository.ListingMessageRepository
	listingRepo repository.ListingRepository
}

func NewListingMessageService(msgRepo repository.ListingMessageRepository, listingRepo repository.ListingRepository) ListingMessageService {
	return &listingMessageService{msgRepo: msgRepo, listingRepo: listingRepo}
}

func (s *listingMessageService) SendMessage(ctx context.Context, fromUser int64, listingID int64, message string) (*domain.ListingMessage, error) {
	if message == "" {
		return nil, domain.Invalid("Message is required")
	}
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	// Inquiries route to the owner; replies from the owner would need a
	// recipient, which the pre-rental message board does not model.
	if listing.OwnerID == fromUser {
		return nil, domain.Invalid("You cannot message your own listing")
	}
	msg := &domain.ListingMessage{
		ListingID: listingID,
		FromUser:  fromUser,
		ToUser:    listing.OwnerID,
		Message:   message,
	}
	if err := s.msgRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *listingMessageService) ListByListing(ctx context.Context, userID, listingID int64) ([]domain.ListingMessage, error) {
	msgs, err := s.msgRepo.ListByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	// Only threads the caller participates in are visible.
	visible := make([]domain.ListingMessage, 0, len(msgs))
	for _, m := range msgs {
		if m.FromUser == userID || m.ToUser == userID {
			visible = append(visible, m)
		}
	}
	return visible, nil
}
