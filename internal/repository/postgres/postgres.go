package postgres

import (
	"database/sql"

	"nkadime-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.ListingRepository
	repository.RentalRepository
	repository.NotificationRepository
	repository.ReviewRepository
	repository.ListingMessageRepository
	repository.FavoriteRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                       db,
		UserRepository:           NewUserRepository(db),
		ListingRepository:        NewListingRepository(db),
		RentalRepository:         NewRentalRepository(db),
		NotificationRepository:   NewNotificationRepository(db),
		ReviewRepository:         NewReviewRepository(db),
		ListingMessageRepository: NewListingMessageRepository(db),
		FavoriteRepository:       NewFavoriteRepository(db),
	}
}
