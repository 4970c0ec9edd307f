package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nkadime-backend/internal/domain"
)

func TestListingCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewListingRepository(db)

	mock.ExpectQuery("INSERT INTO listings").
		WithArgs(int64(1), "Angle Grinder", "920W angle grinder", "tools",
			pq.Array([]string{"https://cdn.x.test/1.jpg"}), int64(4500), "day", "Gaborone", true, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))

	l := &domain.Listing{
		OwnerID:     1,
		Title:       "Angle Grinder",
		Description: "920W angle grinder",
		Category:    "tools",
		Images:      []string{"https://cdn.x.test/1.jpg"},
		PriceCents:  4500,
		Location:    "Gaborone",
	}
	err := repo.Create(context.Background(), l)

	require.NoError(t, err)
	assert.Equal(t, int64(10), l.ID)
	assert.Equal(t, "day", l.PriceUnit)
	assert.True(t, l.Available)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingSearchBuildsFilter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewListingRepository(db)

	avail := true
	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM listings WHERE 1=1 AND category = \$1 AND price_cents <= \$2 AND available = \$3`).
		WithArgs("tools", int64(9900), true).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "owner_id", "title", "description", "category", "images", "price_cents", "price_unit", "location", "available", "created_on",
		}).AddRow(10, 1, "Angle Grinder", "", "tools", "{}", 4500, "day", "Gaborone", true, now))

	listings, err := repo.Search(context.Background(), domain.ListingFilter{
		Category: "tools", MaxPrice: 9900, Available: &avail,
	})

	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "Angle Grinder", listings[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingSetAvailability(t *testing.T) {
	t.Run("updates the flag", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewListingRepository(db)

		mock.ExpectExec("UPDATE listings SET available").
			WithArgs(false, int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.SetAvailability(context.Background(), 10, false))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing listing maps to not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewListingRepository(db)

		mock.ExpectExec("UPDATE listings SET available").
			WithArgs(true, int64(404)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SetAvailability(context.Background(), 404, true)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestUserGetByID(t *testing.T) {
	t.Run("missing user maps to not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
			WithArgs(int64(404)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), 404)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestUserListAdmins(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM users WHERE is_admin").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "email", "password_hash", "phone", "is_verified", "is_admin", "profile_pic", "location", "created_on",
		}).
			AddRow(50, "Admin One", "a1@x.test", "hash", "", true, true, "", "", now).
			AddRow(51, "Admin Two", "a2@x.test", "hash", "", true, true, "", "", now))

	admins, err := repo.ListAdmins(context.Background())

	require.NoError(t, err)
	require.Len(t, admins, 2)
	assert.True(t, admins[0].IsAdmin)
	assert.NoError(t, mock.ExpectationsWereMet())
}
