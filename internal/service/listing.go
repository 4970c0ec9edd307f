package service

import (
	"context"

	"nkadime-backend/internal/cache"
	"nkadime-backend/internal/domain"
	"nkadime-backend/internal/repository"
)

type listingService struct {
	listingRepo repository.ListingRepository
	cache       *cache.ListingCache
}

func NewListingService(listingRepo repository.ListingRepository, c *cache.ListingCache) ListingService {
	return &listingService{listingRepo: listingRepo, cache: c}
}

func (s *listingService) CreateListing(ctx context.Context, l *domain.Listing) error {
	if l.Title == "" || l.Description == "" || l.Category == "" || l.Location == "" {
		return domain.Invalid("Title, description, category and location are required")
	}
	if l.PriceCents <= 0 {
		return domain.Invalid("Price must be positive")
	}
	if err := s.listingRepo.Create(ctx, l); err != nil {
		return err
	}
	s.cache.InvalidateSearch(ctx)
	return nil
}

func (s *listingService) GetListing(ctx context.Context, id int64) (*domain.Listing, error) {
	return s.listingRepo.GetByID(ctx, id)
}

func (s *listingService) SearchListings(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	if cached := s.cache.GetSearch(ctx, filter); cached != nil {
		return cached, nil
	}
	listings, err := s.listingRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.cache.SetSearch(ctx, filter, listings)
	return listings, nil
}
