package postgres

import (
	"context"
	"database/sql"
	"time"

	"nkadime-backend/internal/domain"
	"nkadime-backend/internal/repository"
)

type listingMessageRepository struct {
	db *sql.DB
}

func NewListingMessageRepository(db *sql.DB) repository.ListingMessageRepository {
	return &listingMessageRepository{db: db}
}

func (r *listingMessageRepository) Create(ctx context.Context, m *domain.ListingMessage) error {
	query := `INSERT INTO listing_messages (listing_id, from_user, to_user, message, created_on)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	m.CreatedOn = time.Now()
	return r.db.QueryRowContext(ctx, query, m.ListingID, m.FromUser, m.ToUser, m.Message, m.CreatedOn).Scan(&m.ID)
}

func (r *listingMessageRepository) ListByListing(ctx context.Context, listingID int64) ([]domain.ListingMessage, error) {
	query := `SELECT id, listing_id, from_user, to_user, message, created_on FROM listing_messages WHERE listing_id = $1 ORDER BY created_on`
	rows, err := r.db.QueryContext(ctx, query, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []domain.ListingMessage
	for rows.Next() {
		var m domain.ListingMessage
		if err := rows.Scan(&m.ID, &m.ListingID, &m.FromUser, &m.ToUser, &m.Message, &m.CreatedOn); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
