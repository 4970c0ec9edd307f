package service

import (
	"context"

	"nkadime-backend/internal/domain"
	"nkadime-backend/internal/repository"
)

type favoriteService struct {
	favRepo     repository.FavoriteRepository
	listingRepo repository.ListingRepository
}

func NewFavoriteService(favRepo repository.FavoriteRepository, listingRepo repository.ListingRepository) FavoriteService {
	return &favoriteService{favRepo: favRepo, listingRepo: listingRepo}
}

func (s *favoriteService) AddFavorite(ctx context.Context, userID, listingID int64) (*domain.Favorite, error) {
	if _, err := s.listingRepo.GetByID(ctx, listingID); err != nil {
		return nil, err
	}
	fav := &domain.Favorite{UserID: userID, ListingID: listingID}
	if err := s.favRepo.Create(ctx, fav); err != nil {
		return nil, err
	}
	return fav, nil
}

func (s *favoriteService) ListFavorites(ctx context.Context, userID int64) ([]domain.Favorite, error) {
	return s.favRepo.ListByUser(ctx, userID)
}
