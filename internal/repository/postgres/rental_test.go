package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nkadime-backend/internal/domain"
	"nkadime-backend/internal/repository"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestRentalCreate(t *testing.T) {
	t.Run("claims the listing and inserts rental with history in one transaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRentalRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT available FROM listings").
			WithArgs(int64(10)).
			WillReturnRows(sqlmock.NewRows([]string{"available"}).AddRow(true))
		mock.ExpectQuery("INSERT INTO rentals").
			WithArgs(int64(10), int64(1), int64(2), "pending",
				sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery("INSERT INTO rental_status_history").
			WithArgs(int64(7), "pending", int64(2), "", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectExec("UPDATE listings SET available = FALSE").
			WithArgs(int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		rt := &domain.Rental{
			ListingID: 10, OwnerID: 1, RenterID: 2,
			StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		}
		err := repo.Create(context.Background(), rt)

		require.NoError(t, err)
		assert.Equal(t, int64(7), rt.ID)
		assert.Equal(t, domain.RentalStatusPending, rt.Status)
		require.Len(t, rt.StatusHistory, 1)
		assert.Equal(t, domain.RentalStatusPending, rt.StatusHistory[0].Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("listing already claimed under the lock is refused", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRentalRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT available FROM listings").
			WithArgs(int64(10)).
			WillReturnRows(sqlmock.NewRows([]string{"available"}).AddRow(false))
		mock.ExpectRollback()

		err := repo.Create(context.Background(), &domain.Rental{
			ListingID: 10, OwnerID: 1, RenterID: 2,
			StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalid))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing listing maps to not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRentalRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT available FROM listings").
			WithArgs(int64(404)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		err := repo.Create(context.Background(), &domain.Rental{ListingID: 404, OwnerID: 1, RenterID: 2})

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestRentalTransition(t *testing.T) {
	t.Run("valid transition updates status and appends history in one transaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRentalRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM rentals").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("pending"))
		mock.ExpectExec("UPDATE rentals SET status").
			WithArgs("approved", sqlmock.AnyArg(), int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO rental_status_history").
			WithArgs(int64(7), "approved", int64(1), "", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectCommit()

		err := repo.Transition(context.Background(), repository.RentalTransition{
			RentalID: 7, ActorID: 1, Next: domain.RentalStatusApproved,
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid edge is refused without mutation", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRentalRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM rentals").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("completed"))
		mock.ExpectRollback()

		err := repo.Transition(context.Background(), repository.RentalTransition{
			RentalID: 7, ActorID: 1, Next: domain.RentalStatusApproved,
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalid))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("disputed rental refuses ordinary transitions", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRentalRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM rentals").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("disputed"))
		mock.ExpectRollback()

		err := repo.Transition(context.Background(), repository.RentalTransition{
			RentalID: 7, ActorID: 1, Next: domain.RentalStatusCompleted,
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalid))
	})

	t.Run("entering disputed is refused without touching the database", func(t *testing.T) {
		// Only OpenDispute may set the disputed status: a direct transition
		// would leave the rental disputed with no dispute row, and with no
		// open dispute to resolve it could never leave that status again.
		db, mock := newMockDB(t)
		repo := NewRentalRepository(db)

		err := repo.Transition(context.Background(), repository.RentalTransition{
			RentalID: 7, ActorID: 2, Next: domain.RentalStatusDisputed,
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalid))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing rental maps to not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRentalRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM rentals").
			WithArgs(int64(404)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		err := repo.Transition(context.Background(), repository.RentalTransition{
			RentalID: 404, ActorID: 1, Next: domain.RentalStatusApproved,
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestRentalAddMessage(t *testing.T) {
	t.Run("message and evidence insert in one transaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRentalRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM rentals").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectExec("INSERT INTO rental_messages").
			WithArgs(int64(7), int64(2), "scratched on pickup", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO rental_evidence").
			WithArgs(int64(7), "https://cdn.x.test/scratch.jpg", int64(2), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		err := repo.AddMessage(context.Background(), 7, 2, "scratched on pickup", "https://cdn.x.test/scratch.jpg")

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("evidence only skips the message insert", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRentalRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM rentals").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectExec("INSERT INTO rental_evidence").
			WithArgs(int64(7), "https://cdn.x.test/scratch.jpg", int64(2), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		err := repo.AddMessage(context.Background(), 7, 2, "", "https://cdn.x.test/scratch.jpg")

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRentalSetPayment(t *testing.T) {
	t.Run("overwrites the payment columns", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRentalRepository(db)

		paidAt := time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)
		mock.ExpectExec("UPDATE rentals SET payment_amount_cents").
			WithArgs(int64(4500), "eft", "TX-100", paidAt, sqlmock.AnyArg(), int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SetPayment(context.Background(), 7, domain.Payment{
			AmountCents: 4500, Method: "eft", Reference: "TX-100", PaidAt: paidAt,
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing rental maps to not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRentalRepository(db)

		mock.ExpectExec("UPDATE rentals SET payment_amount_cents").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SetPayment(context.Background(), 404, domain.Payment{AmountCents: 1, Method: "card", Reference: "r"})

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestRentalAddReview(t *testing.T) {
	t.Run("second review by the same user is refused", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRentalRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM rentals").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery("SELECT id FROM rental_reviews").
			WithArgs(int64(7), int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
		mock.ExpectRollback()

		err := repo.AddReview(context.Background(), 7, 2, 4, "again")

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalid))
	})
}

func TestRentalOpenDispute(t *testing.T) {
	t.Run("second open dispute is refused", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRentalRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM rentals").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("disputed"))
		mock.ExpectQuery("SELECT id FROM rental_disputes").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectRollback()

		_, err := repo.OpenDispute(context.Background(), 7, 2, "still broken", "")

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalid))
	})

	t.Run("dispute on pending rental is refused", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRentalRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM rentals").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("pending"))
		mock.ExpectQuery("SELECT id FROM rental_disputes").
			WithArgs(int64(7)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err := repo.OpenDispute(context.Background(), 7, 2, "broken", "")

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalid))
	})

	t.Run("opens dispute, flips status and appends history", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRentalRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM rentals").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("active"))
		mock.ExpectQuery("SELECT id FROM rental_disputes").
			WithArgs(int64(7)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("INSERT INTO rental_disputes").
			WithArgs(int64(7), int64(2), "broken", "", "open", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
		mock.ExpectExec("UPDATE rentals SET status").
			WithArgs("disputed", sqlmock.AnyArg(), int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO rental_status_history").
			WithArgs(int64(7), "disputed", int64(2), "broken", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(5, 1))
		mock.ExpectCommit()

		d, err := repo.OpenDispute(context.Background(), 7, 2, "broken", "")

		require.NoError(t, err)
		assert.Equal(t, int64(11), d.ID)
		assert.Equal(t, domain.DisputeStatusOpen, d.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRentalResolveDispute(t *testing.T) {
	t.Run("no open dispute maps to not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRentalRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM rentals").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("disputed"))
		mock.ExpectQuery("UPDATE rental_disputes SET status").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err := repo.ResolveDispute(context.Background(), 7, 9, domain.DisputeStatusResolved, "sorted", domain.RentalStatusCompleted)

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("resolution stamps the dispute and transitions the rental", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRentalRepository(db)

		raisedAt := time.Date(2026, 9, 3, 10, 0, 0, 0, time.UTC)
		resolvedAt := time.Date(2026, 9, 4, 10, 0, 0, 0, time.UTC)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM rentals").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("disputed"))
		mock.ExpectQuery("UPDATE rental_disputes SET status").
			WithArgs("resolved", "sorted", int64(9), sqlmock.AnyArg(), int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "rental_id", "raised_by", "reason", "evidence_url", "status", "resolution", "resolved_by", "raised_at", "resolved_at",
			}).AddRow(11, 7, 2, "broken", "", "resolved", "sorted", 9, raisedAt, resolvedAt))
		mock.ExpectExec("UPDATE rentals SET status").
			WithArgs("completed", sqlmock.AnyArg(), int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO rental_status_history").
			WithArgs(int64(7), "completed", int64(9), "sorted", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(6, 1))
		mock.ExpectCommit()

		d, err := repo.ResolveDispute(context.Background(), 7, 9, domain.DisputeStatusResolved, "sorted", domain.RentalStatusCompleted)

		require.NoError(t, err)
		assert.Equal(t, domain.DisputeStatusResolved, d.Status)
		require.NotNil(t, d.ResolvedBy)
		assert.Equal(t, int64(9), *d.ResolvedBy)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRentalGetByID(t *testing.T) {
	t.Run("missing rental maps to not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRentalRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id").
			WithArgs(int64(404)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), 404)

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("loads the aggregate with children", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRentalRepository(db)

		now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "listing_id", "owner_id", "renter_id", "status", "start_date", "end_date",
				"payment_amount_cents", "payment_method", "payment_reference", "payment_paid_at", "created_on", "updated_on",
			}).AddRow(7, 10, 1, 2, "active", now, now.AddDate(0, 0, 4), 4500, "eft", "TX-100", now, now, now))
		mock.ExpectQuery("SELECT (.+) FROM rental_status_history").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status", "changed_by", "note", "changed_at"}).
				AddRow(1, "pending", 2, "", now).
				AddRow(2, "approved", 1, "", now).
				AddRow(3, "active", 1, "", now))
		mock.ExpectQuery("SELECT (.+) FROM rental_messages").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "from_user", "message", "sent_at"}))
		mock.ExpectQuery("SELECT (.+) FROM rental_evidence").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "url", "uploaded_by", "uploaded_at"}))
		mock.ExpectQuery("SELECT (.+) FROM rental_reviews").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "reviewer_id", "rating", "comment", "created_on"}))
		mock.ExpectQuery("SELECT (.+) FROM rental_disputes").
			WithArgs(int64(7)).
			WillReturnError(sql.ErrNoRows)

		rt, err := repo.GetByID(context.Background(), 7)

		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusActive, rt.Status)
		require.NotNil(t, rt.Payment)
		assert.Equal(t, int64(4500), rt.Payment.AmountCents)
		assert.Len(t, rt.StatusHistory, 3)
		assert.Equal(t, rt.Status, rt.StatusHistory[len(rt.StatusHistory)-1].Status)
		assert.Nil(t, rt.Dispute)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRentalListOverdue(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRentalRepository(db)

	now := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM rentals").
		WithArgs(now).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "listing_id", "owner_id", "renter_id", "status", "start_date", "end_date",
			"payment_amount_cents", "payment_method", "payment_reference", "payment_paid_at", "created_on", "updated_on",
		}).AddRow(7, 10, 1, 2, "active", now.AddDate(0, 0, -9), now.AddDate(0, 0, -5), nil, nil, nil, nil, now, now))

	rentals, err := repo.ListOverdue(context.Background(), now)

	require.NoError(t, err)
	require.Len(t, rentals, 1)
	assert.Equal(t, int64(2), rentals[0].RenterID)
	assert.Nil(t, rentals[0].Payment)
}
