package service

import (
	"context"

	"nkadime-backend/internal/domain"
	"nkadime-backend/internal/repository"
)

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	listingRepo repository.ListingRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, listingRepo repository.ListingRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, listingRepo: listingRepo}
}

func (s *reviewService) AddReview(ctx context.Context, review *domain.Review) error {
	if review.Rating < 1 || review.Rating > 5 {
		return domain.Invalid("Rating must be between 1 and 5")
	}
	listing, err := s.listingRepo.GetByID(ctx, review.ListingID)
	if err != nil {
		return err
	}
	if listing.OwnerID == review.ReviewerID {
		return domain.Invalid("You cannot review your own listing")
	}
	return s.reviewRepo.Create(ctx, review)
}

func (s *reviewService) ListByListing(ctx context.Context, listingID int64) ([]domain.Review, error) {
	return s.reviewRepo.ListByListing(ctx, listingID)
}
