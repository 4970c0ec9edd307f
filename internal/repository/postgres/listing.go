package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nkadime-backend/internal/domain"
	"nkadime-backend/internal/repository"

	"github.com/lib/pq"
)

type listingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) repository.ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(ctx context.Context, l *domain.Listing) error {
	query := `INSERT INTO listings (owner_id, title, description, category, images, price_cents, price_unit, location, available, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	if l.PriceUnit == "" {
		l.PriceUnit = "day"
	}
	l.Available = true
	return r.db.QueryRowContext(ctx, query, l.OwnerID, l.Title, l.Description, l.Category, pq.Array(l.Images), l.PriceCents, l.PriceUnit, l.Location, l.Available, time.Now()).Scan(&l.ID)
}

func (r *listingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	l := &domain.Listing{}
	query := `SELECT id, owner_id, title, description, category, images, price_cents, price_unit, location, available, created_on FROM listings WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&l.ID, &l.OwnerID, &l.Title, &l.Description, &l.Category, pq.Array(&l.Images), &l.PriceCents, &l.PriceUnit, &l.Location, &l.Available, &l.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("Listing not found")
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *listingRepository) Search(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	query := `SELECT id, owner_id, title, description, category, images, price_cents, price_unit, location, available, created_on FROM listings WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", argIdx)
		args = append(args, filter.Category)
		argIdx++
	}
	if filter.Location != "" {
		query += fmt.Sprintf(" AND location = $%d", argIdx)
		args = append(args, filter.Location)
		argIdx++
	}
	if filter.MinPrice > 0 {
		query += fmt.Sprintf(" AND price_cents >= $%d", argIdx)
		args = append(args, filter.MinPrice)
		argIdx++
	}
	if filter.MaxPrice > 0 {
		query += fmt.Sprintf(" AND price_cents <= $%d", argIdx)
		args = append(args, filter.MaxPrice)
		argIdx++
	}
	if filter.Available != nil {
		query += fmt.Sprintf(" AND available = $%d", argIdx)
		args = append(args, *filter.Available)
		argIdx++
	}
	query += " ORDER BY created_on DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		var l domain.Listing
		if err := rows.Scan(&l.ID, &l.OwnerID, &l.Title, &l.Description, &l.Category, pq.Array(&l.Images), &l.PriceCents, &l.PriceUnit, &l.Location, &l.Available, &l.CreatedOn); err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (r *listingRepository) SetAvailability(ctx context.Context, id int64, available bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE listings SET available = $1 WHERE id = $2`, available, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("Listing not found")
	}
	return nil
}
