package postgres

import (
	"context"
	"database/sql"
	"time"

	"nkadime-backend/internal/domain"
	"nkadime-backend/internal/repository"

	"github.com/lib/pq"
)

type favoriteRepository struct {
	db *sql.DB
}

func NewFavoriteRepository(db *sql.DB) repository.FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Create(ctx context.Context, f *domain.Favorite) error {
	query := `INSERT INTO favorites (user_id, listing_id, created_on) VALUES ($1, $2, $3) RETURNING id`
	f.CreatedOn = time.Now()
	return r.db.QueryRowContext(ctx, query, f.UserID, f.ListingID, f.CreatedOn).Scan(&f.ID)
}

func (r *favoriteRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Favorite, error) {
	query := `SELECT f.id, f.user_id, f.listing_id, f.created_on,
	                 l.owner_id, l.title, l.description, l.category, l.images, l.price_cents, l.price_unit, l.location, l.available, l.created_on
	          FROM favorites f
	          JOIN listings l ON l.id = f.listing_id
	          WHERE f.user_id = $1 ORDER BY f.created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favs []domain.Favorite
	for rows.Next() {
		var (
			f domain.Favorite
			l domain.Listing
		)
		if err := rows.Scan(&f.ID, &f.UserID, &f.ListingID, &f.CreatedOn,
			&l.OwnerID, &l.Title, &l.Description, &l.Category, pq.Array(&l.Images), &l.PriceCents, &l.PriceUnit, &l.Location, &l.Available, &l.CreatedOn); err != nil {
			return nil, err
		}
		l.ID = f.ListingID
		f.Listing = &l
		favs = append(favs, f)
	}
	return favs, rows.Err()
}
