package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"nkadime-backend/internal/domain"
	"nkadime-backend/internal/repository"
)

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

// queryer lets child loaders run against either the pool or a transaction.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Lock the listing row so two concurrent requests cannot both see it as
	// available; the second blocks here and finds it claimed.
	var available bool
	err = tx.QueryRowContext(ctx, `SELECT available FROM listings WHERE id = $1 FOR UPDATE`, rt.ListingID).Scan(&available)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("Listing not found")
	}
	if err != nil {
		return err
	}
	if !available {
		return domain.Invalid("Listing is not available")
	}

	now := time.Now()
	rt.Status = domain.RentalStatusPending
	query := `INSERT INTO rentals (listing_id, owner_id, renter_id, status, start_date, end_date, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err := tx.QueryRowContext(ctx, query, rt.ListingID, rt.OwnerID, rt.RenterID, rt.Status, rt.StartDate, rt.EndDate, now, now).Scan(&rt.ID); err != nil {
		return err
	}
	rt.CreatedOn = now
	rt.UpdatedOn = now

	var hist domain.StatusChange
	hist.Status = domain.RentalStatusPending
	hist.ChangedBy = rt.RenterID
	hist.ChangedAt = now
	histQuery := `INSERT INTO rental_status_history (rental_id, status, changed_by, note, changed_at)
	              VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := tx.QueryRowContext(ctx, histQuery, rt.ID, hist.Status, hist.ChangedBy, hist.Note, hist.ChangedAt).Scan(&hist.ID); err != nil {
		return err
	}
	rt.StatusHistory = []domain.StatusChange{hist}

	if _, err := tx.ExecContext(ctx, `UPDATE listings SET available = FALSE WHERE id = $1`, rt.ListingID); err != nil {
		return err
	}

	return tx.Commit()
}

const rentalColumns = `id, listing_id, owner_id, renter_id, status, start_date, end_date,
	payment_amount_cents, payment_method, payment_reference, payment_paid_at, created_on, updated_on`

func scanRental(row interface{ Scan(...any) error }, rt *domain.Rental) error {
	var (
		payAmount sql.NullInt64
		payMethod sql.NullString
		payRef    sql.NullString
		payAt     sql.NullTime
	)
	err := row.Scan(&rt.ID, &rt.ListingID, &rt.OwnerID, &rt.RenterID, &rt.Status, &rt.StartDate, &rt.EndDate,
		&payAmount, &payMethod, &payRef, &payAt, &rt.CreatedOn, &rt.UpdatedOn)
	if err != nil {
		return err
	}
	if payMethod.Valid {
		rt.Payment = &domain.Payment{
			AmountCents: payAmount.Int64,
			Method:      payMethod.String,
			Reference:   payRef.String,
			PaidAt:      payAt.Time,
		}
	}
	return nil
}

func (r *rentalRepository) GetByID(ctx context.Context, id int64) (*domain.Rental, error) {
	rt := &domain.Rental{}
	err := scanRental(r.db.QueryRowContext(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE id = $1`, id), rt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("Rental not found")
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, r.db, rt); err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *rentalRepository) GetDetail(ctx context.Context, id int64) (*domain.RentalDetail, error) {
	rt, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &domain.RentalDetail{Rental: *rt}
	query := `SELECT l.title, o.name, rn.name
	          FROM rentals r
	          JOIN listings l ON l.id = r.listing_id
	          JOIN users o ON o.id = r.owner_id
	          JOIN users rn ON rn.id = r.renter_id
	          WHERE r.id = $1`
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&detail.ListingTitle, &detail.OwnerName, &detail.RenterName); err != nil {
		return nil, err
	}
	return detail, nil
}

func (r *rentalRepository) loadChildren(ctx context.Context, q queryer, rt *domain.Rental) error {
	rows, err := q.QueryContext(ctx, `SELECT id, status, changed_by, note, changed_at FROM rental_status_history WHERE rental_id = $1 ORDER BY id`, rt.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var h domain.StatusChange
		if err := rows.Scan(&h.ID, &h.Status, &h.ChangedBy, &h.Note, &h.ChangedAt); err != nil {
			return err
		}
		rt.StatusHistory = append(rt.StatusHistory, h)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = q.QueryContext(ctx, `SELECT id, from_user, message, sent_at FROM rental_messages WHERE rental_id = $1 ORDER BY id`, rt.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var m domain.RentalMessage
		if err := rows.Scan(&m.ID, &m.FromUser, &m.Message, &m.SentAt); err != nil {
			return err
		}
		rt.Messages = append(rt.Messages, m)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = q.QueryContext(ctx, `SELECT id, url, uploaded_by, uploaded_at FROM rental_evidence WHERE rental_id = $1 ORDER BY id`, rt.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var e domain.Evidence
		if err := rows.Scan(&e.ID, &e.URL, &e.UploadedBy, &e.UploadedAt); err != nil {
			return err
		}
		rt.Evidence = append(rt.Evidence, e)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = q.QueryContext(ctx, `SELECT id, reviewer_id, rating, comment, created_on FROM rental_reviews WHERE rental_id = $1 ORDER BY id`, rt.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var rv domain.RentalReview
		if err := rows.Scan(&rv.ID, &rv.ReviewerID, &rv.Rating, &rv.Comment, &rv.CreatedOn); err != nil {
			return err
		}
		rt.Reviews = append(rt.Reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	// Newest dispute row stands for "the dispute"; older resolved rows are
	// retained as history.
	d := domain.Dispute{}
	err = q.QueryRowContext(ctx, `SELECT id, rental_id, raised_by, reason, evidence_url, status, resolution, resolved_by, raised_at, resolved_at
	                              FROM rental_disputes WHERE rental_id = $1 ORDER BY id DESC LIMIT 1`, rt.ID).
		Scan(&d.ID, &d.RentalID, &d.RaisedBy, &d.Reason, &d.EvidenceURL, &d.Status, &d.Resolution, &d.ResolvedBy, &d.RaisedAt, &d.ResolvedAt)
	if err == nil {
		rt.Dispute = &d
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return nil
}

// lockStatus fetches the current status under FOR UPDATE so concurrent
// transitions serialize instead of silently overwriting each other.
func lockStatus(ctx context.Context, tx *sql.Tx, rentalID int64) (domain.RentalStatus, error) {
	var current domain.RentalStatus
	err := tx.QueryRowContext(ctx, `SELECT status FROM rentals WHERE id = $1 FOR UPDATE`, rentalID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.NotFound("Rental not found")
	}
	return current, err
}

func appendHistory(ctx context.Context, tx *sql.Tx, rentalID, actorID int64, status domain.RentalStatus, note string, at time.Time) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO rental_status_history (rental_id, status, changed_by, note, changed_at) VALUES ($1, $2, $3, $4, $5)`,
		rentalID, status, actorID, note, at)
	return err
}

// applyStatus validates the edge, writes the new status and appends history.
// The caller holds the row lock on the rental.
func applyStatus(ctx context.Context, tx *sql.Tx, rentalID, actorID int64, current, next domain.RentalStatus, note string, at time.Time) error {
	if !current.CanTransitionTo(next) {
		return domain.Invalidf("invalid transition from %s to %s", current, next)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE rentals SET status = $1, updated_on = $2 WHERE id = $3`, next, at, rentalID); err != nil {
		return err
	}
	return appendHistory(ctx, tx, rentalID, actorID, next, note, at)
}

func (r *rentalRepository) Transition(ctx context.Context, t repository.RentalTransition) error {
	// The disputed status is bracketed by the dispute flow: entered only via
	// OpenDispute (which records the dispute row) and left only via
	// ResolveDispute. Neither end of it is reachable here.
	if t.Next == domain.RentalStatusDisputed {
		return domain.Invalid("disputes are raised through the dispute flow")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	current, err := lockStatus(ctx, tx, t.RentalID)
	if err != nil {
		return err
	}
	if current == domain.RentalStatusDisputed {
		return domain.Invalid("rental is under dispute; resolve the dispute first")
	}
	if err := applyStatus(ctx, tx, t.RentalID, t.ActorID, current, t.Next, t.Note, time.Now()); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *rentalRepository) AddMessage(ctx context.Context, rentalID, fromUser int64, message, evidenceURL string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM rentals WHERE id = $1`, rentalID).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound("Rental not found")
		}
		return err
	}

	now := time.Now()
	if message != "" {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO rental_messages (rental_id, from_user, message, sent_at) VALUES ($1, $2, $3, $4)`,
			rentalID, fromUser, message, now); err != nil {
			return err
		}
	}
	if evidenceURL != "" {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO rental_evidence (rental_id, url, uploaded_by, uploaded_at) VALUES ($1, $2, $3, $4)`,
			rentalID, evidenceURL, fromUser, now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *rentalRepository) SetPayment(ctx context.Context, rentalID int64, p domain.Payment) error {
	query := `UPDATE rentals SET payment_amount_cents = $1, payment_method = $2, payment_reference = $3, payment_paid_at = $4, updated_on = $5 WHERE id = $6`
	res, err := r.db.ExecContext(ctx, query, p.AmountCents, p.Method, p.Reference, p.PaidAt, time.Now(), rentalID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("Rental not found")
	}
	return nil
}

func (r *rentalRepository) AddReview(ctx context.Context, rentalID, reviewerID int64, rating int, comment string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM rentals WHERE id = $1`, rentalID).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound("Rental not found")
		}
		return err
	}

	var prior int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM rental_reviews WHERE rental_id = $1 AND reviewer_id = $2`, rentalID, reviewerID).Scan(&prior)
	if err == nil {
		return domain.Invalid("You have already reviewed this rental")
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO rental_reviews (rental_id, reviewer_id, rating, comment, created_on) VALUES ($1, $2, $3, $4, $5)`,
		rentalID, reviewerID, rating, comment, time.Now()); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *rentalRepository) OpenDispute(ctx context.Context, rentalID, raisedBy int64, reason, evidenceURL string) (*domain.Dispute, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	current, err := lockStatus(ctx, tx, rentalID)
	if err != nil {
		return nil, err
	}

	var open int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM rental_disputes WHERE rental_id = $1 AND status = 'open'`, rentalID).Scan(&open)
	if err == nil {
		return nil, domain.Invalid("A dispute is already open for this rental")
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	if !current.CanTransitionTo(domain.RentalStatusDisputed) {
		return nil, domain.Invalidf("cannot dispute a %s rental", current)
	}

	now := time.Now()
	d := &domain.Dispute{
		RentalID:    rentalID,
		RaisedBy:    raisedBy,
		Reason:      reason,
		EvidenceURL: evidenceURL,
		Status:      domain.DisputeStatusOpen,
		RaisedAt:    now,
	}
	if err := tx.QueryRowContext(ctx,
		`INSERT INTO rental_disputes (rental_id, raised_by, reason, evidence_url, status, raised_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		rentalID, raisedBy, reason, evidenceURL, d.Status, now).Scan(&d.ID); err != nil {
		return nil, err
	}

	if err := applyStatus(ctx, tx, rentalID, raisedBy, current, domain.RentalStatusDisputed, reason, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *rentalRepository) ResolveDispute(ctx context.Context, rentalID, resolvedBy int64, status domain.DisputeStatus, resolution string, next domain.RentalStatus) (*domain.Dispute, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	current, err := lockStatus(ctx, tx, rentalID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	d := &domain.Dispute{}
	err = tx.QueryRowContext(ctx,
		`UPDATE rental_disputes SET status = $1, resolution = $2, resolved_by = $3, resolved_at = $4
		 WHERE rental_id = $5 AND status = 'open'
		 RETURNING id, rental_id, raised_by, reason, evidence_url, status, resolution, resolved_by, raised_at, resolved_at`,
		status, resolution, resolvedBy, now, rentalID).
		Scan(&d.ID, &d.RentalID, &d.RaisedBy, &d.Reason, &d.EvidenceURL, &d.Status, &d.Resolution, &d.ResolvedBy, &d.RaisedAt, &d.ResolvedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("No open dispute for this rental")
	}
	if err != nil {
		return nil, err
	}

	if current == domain.RentalStatusDisputed {
		if err := applyStatus(ctx, tx, rentalID, resolvedBy, current, next, resolution, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *rentalRepository) ListByUser(ctx context.Context, userID int64) ([]domain.RentalDetail, error) {
	query := `SELECT r.` + joinColumns() + `, l.title, o.name, rn.name
	          FROM rentals r
	          JOIN listings l ON l.id = r.listing_id
	          JOIN users o ON o.id = r.owner_id
	          JOIN users rn ON rn.id = r.renter_id
	          WHERE r.owner_id = $1 OR r.renter_id = $1
	          ORDER BY r.created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.RentalDetail
	for rows.Next() {
		var (
			d         domain.RentalDetail
			payAmount sql.NullInt64
			payMethod sql.NullString
			payRef    sql.NullString
			payAt     sql.NullTime
		)
		if err := rows.Scan(&d.ID, &d.ListingID, &d.OwnerID, &d.RenterID, &d.Status, &d.StartDate, &d.EndDate,
			&payAmount, &payMethod, &payRef, &payAt, &d.CreatedOn, &d.UpdatedOn,
			&d.ListingTitle, &d.OwnerName, &d.RenterName); err != nil {
			return nil, err
		}
		if payMethod.Valid {
			d.Payment = &domain.Payment{AmountCents: payAmount.Int64, Method: payMethod.String, Reference: payRef.String, PaidAt: payAt.Time}
		}
		rentals = append(rentals, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range rentals {
		if err := r.loadChildren(ctx, r.db, &rentals[i].Rental); err != nil {
			return nil, err
		}
	}
	return rentals, nil
}

func joinColumns() string {
	return `id, r.listing_id, r.owner_id, r.renter_id, r.status, r.start_date, r.end_date,
	r.payment_amount_cents, r.payment_method, r.payment_reference, r.payment_paid_at, r.created_on, r.updated_on`
}

func (r *rentalRepository) ListOpenDisputes(ctx context.Context) ([]domain.Dispute, error) {
	query := `SELECT id, rental_id, raised_by, reason, evidence_url, status, resolution, resolved_by, raised_at, resolved_at
	          FROM rental_disputes WHERE status = 'open' ORDER BY raised_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var disputes []domain.Dispute
	for rows.Next() {
		var d domain.Dispute
		if err := rows.Scan(&d.ID, &d.RentalID, &d.RaisedBy, &d.Reason, &d.EvidenceURL, &d.Status, &d.Resolution, &d.ResolvedBy, &d.RaisedAt, &d.ResolvedAt); err != nil {
			return nil, err
		}
		disputes = append(disputes, d)
	}
	return disputes, rows.Err()
}

func (r *rentalRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals
	          WHERE status IN ('paid', 'active', 'in-progress') AND end_date < $1`
	rows, err := r.db.QueryContext(ctx, query, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		var rt domain.Rental
		if err := scanRental(rows, &rt); err != nil {
			return nil, err
		}
		rentals = append(rentals, rt)
	}
	return rentals, rows.Err()
}
