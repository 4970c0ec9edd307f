package postgres

import (
	"context"
	"database/sql"
	"time"

	"nkadime-backend/internal/domain"
	"nkadime-backend/internal/repository"
)

type reviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	query := `INSERT INTO listing_reviews (listing_id, reviewer_id, rating, comment, created_on)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	rv.CreatedOn = time.Now()
	return r.db.QueryRowContext(ctx, query, rv.ListingID, rv.ReviewerID, rv.Rating, rv.Comment, rv.CreatedOn).Scan(&rv.ID)
}

func (r *reviewRepository) ListByListing(ctx context.Context, listingID int64) ([]domain.Review, error) {
	query := `SELECT rv.id, rv.listing_id, rv.reviewer_id, rv.rating, rv.comment, rv.created_on, u.name, u.profile_pic, u.location
	          FROM listing_reviews rv
	          JOIN users u ON u.id = rv.reviewer_id
	          WHERE rv.listing_id = $1 ORDER BY rv.created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var (
			rv domain.Review
			u  domain.User
		)
		if err := rows.Scan(&rv.ID, &rv.ListingID, &rv.ReviewerID, &rv.Rating, &rv.Comment, &rv.CreatedOn, &u.Name, &u.ProfilePic, &u.Location); err != nil {
			return nil, err
		}
		u.ID = rv.ReviewerID
		rv.Reviewer = &u
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}
