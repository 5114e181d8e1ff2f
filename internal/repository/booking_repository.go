package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/sport-court-booking/internal/booking"
)

// BookingRepo provides CRUD operations for bookings.  A booking ties a
// user to a court for a date and time range.  Overlap against existing
// non-cancelled bookings and owner-blocked windows is enforced here, in
// the same transaction that writes the row.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so handlers can run queries that
// span repositories.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// Sentinel errors for booking operations.
var (
	// ErrBookingNotFound is returned when a booking does not exist or
	// does not belong to the requesting user.  The two cases are
	// deliberately indistinguishable so foreign bookings don't leak.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrSlotUnavailable is returned when the requested time range
	// overlaps an existing non-cancelled booking or a blocked window.
	ErrSlotUnavailable = errors.New("time slot unavailable")
)

// BookingRecord mirrors the schema of the bookings table.  Dates are
// YYYY-MM-DD strings, times HH:MM clock strings.
type BookingRecord struct {
	ID               uint64 `json:"id"`
	UserID           uint64 `json:"user_id"`
	CourtID          uint64 `json:"court_id"`
	BookingDate      string `json:"booking_date"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	Status           string `json:"status"`
	FinalAmountCents uint32 `json:"final_amount_cents"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

const bookingCols = `id, user_id, court_id, DATE_FORMAT(booking_date, '%Y-%m-%d'),
	TIME_FORMAT(start_time, '%H:%i'), TIME_FORMAT(end_time, '%H:%i'),
	status, final_amount_cents, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }, b *BookingRecord) error {
	return row.Scan(&b.ID, &b.UserID, &b.CourtID, &b.BookingDate, &b.StartTime, &b.EndTime,
		&b.Status, &b.FinalAmountCents, &b.CreatedAt, &b.UpdatedAt)
}

// slotTakenTx reports whether [start, end) on the given court and date
// intersects a non-cancelled booking (optionally excluding one booking,
// for reschedules) or a blocked window.  Intervals are half-open, so
// back-to-back bookings do not collide.
func slotTakenTx(ctx context.Context, tx *sql.Tx, courtID uint64, date, start, end string, excludeBookingID uint64) (bool, error) {
	const qBookings = `SELECT COUNT(*) FROM bookings
	                   WHERE court_id = ? AND booking_date = ? AND status <> 'CANCELLED'
	                     AND id <> ? AND start_time < ? AND end_time > ?`
	var n int64
	if err := tx.QueryRowContext(ctx, qBookings, courtID, date, excludeBookingID, end, start).Scan(&n); err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}
	const qBlocks = `SELECT COUNT(*) FROM blocked_slots
	                 WHERE court_id = ? AND block_date = ? AND start_time < ? AND end_time > ?`
	if err := tx.QueryRowContext(ctx, qBlocks, courtID, date, end, start).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create inserts a new booking after checking the slot inside one
// transaction.  It populates the generated ID and timestamps on the
// provided record.  ErrSlotUnavailable is returned when the range is
// taken.
func (r *BookingRepo) Create(ctx context.Context, b *BookingRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	taken, err := slotTakenTx(ctx, tx, b.CourtID, b.BookingDate, b.StartTime, b.EndTime, 0)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlotUnavailable
	}

	const qInsert = `INSERT INTO bookings (user_id, court_id, booking_date, start_time, end_time, status, final_amount_cents)
	                 VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, qInsert, b.UserID, b.CourtID, b.BookingDate, b.StartTime, b.EndTime, b.Status, b.FinalAmountCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	// Read the row back so timestamps and defaults are populated.
	const qSelect = `SELECT ` + bookingCols + ` FROM bookings WHERE id = ?`
	if err := scanBooking(tx.QueryRowContext(ctx, qSelect, b.ID), b); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByIDForUser returns a single booking scoped to the given user.
// Restricting the query to (id, user_id) enforces ownership; absence
// and foreign ownership both surface as ErrBookingNotFound.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, bookingID, userID uint64) (*BookingRecord, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE id = ? AND user_id = ?`
	var b BookingRecord
	if err := scanBooking(r.db.QueryRowContext(ctx, q, bookingID, userID), &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// BookingDetail couples a booking with court and facility context for
// display to customers.
type BookingDetail struct {
	BookingRecord
	CourtName    string `json:"court_name"`
	FacilityID   uint64 `json:"facility_id"`
	FacilityName string `json:"facility_name"`
	City         string `json:"city"`
}

const bookingDetailCols = `b.id, b.user_id, b.court_id, DATE_FORMAT(b.booking_date, '%Y-%m-%d'),
	TIME_FORMAT(b.start_time, '%H:%i'), TIME_FORMAT(b.end_time, '%H:%i'),
	b.status, b.final_amount_cents, b.created_at, b.updated_at,
	c.name, f.id, f.name, f.city`

func scanBookingDetail(row interface{ Scan(...any) error }, d *BookingDetail) error {
	return row.Scan(&d.ID, &d.UserID, &d.CourtID, &d.BookingDate, &d.StartTime, &d.EndTime,
		&d.Status, &d.FinalAmountCents, &d.CreatedAt, &d.UpdatedAt,
		&d.CourtName, &d.FacilityID, &d.FacilityName, &d.City)
}

// ListByUser returns all bookings for the given user along with court
// and facility details, newest first.  When no bookings exist, an empty
// slice is returned.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	const q = `SELECT ` + bookingDetailCols + `
	           FROM bookings b
	           JOIN courts c ON c.id = b.court_id
	           JOIN facilities f ON f.id = c.facility_id
	           WHERE b.user_id = ?
	           ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		if err := scanBookingDetail(rows, &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// StatsByUser aggregates the user's booking counters in a single
// statement so all five figures come from one snapshot.  Upcoming
// compares dates only: a CONFIRMED booking earlier today still counts.
// Total spent sums COMPLETED bookings only.
func (r *BookingRepo) StatsByUser(ctx context.Context, userID uint64) (booking.Stats, error) {
	const q = `SELECT
	             COUNT(*),
	             CAST(COALESCE(SUM(status = 'CONFIRMED' AND booking_date >= CURDATE()), 0) AS SIGNED),
	             CAST(COALESCE(SUM(status = 'COMPLETED'), 0) AS SIGNED),
	             CAST(COALESCE(SUM(status = 'CANCELLED'), 0) AS SIGNED),
	             CAST(COALESCE(SUM(CASE WHEN status = 'COMPLETED' THEN final_amount_cents ELSE 0 END), 0) AS UNSIGNED)
	           FROM bookings WHERE user_id = ?`
	var s booking.Stats
	err := r.db.QueryRowContext(ctx, q, userID).Scan(
		&s.TotalBookings, &s.UpcomingBookings, &s.CompletedBookings, &s.CancelledBookings, &s.TotalSpentCents,
	)
	return s, err
}

// Reschedule moves a booking owned by userID to a new date/time and
// writes the new total (original amount plus any modification fee).
// The new slot is checked inside the same transaction, excluding the
// booking itself so shifting within its own window works.  COMPLETED
// and CANCELLED bookings cannot be moved and surface ErrConflict.
func (r *BookingRepo) Reschedule(ctx context.Context, bookingID, userID uint64, newDate, newStart, newEnd string, newAmountCents uint32) (*BookingRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const qLock = `SELECT ` + bookingCols + ` FROM bookings WHERE id = ? AND user_id = ? FOR UPDATE`
	var b BookingRecord
	if err := scanBooking(tx.QueryRowContext(ctx, qLock, bookingID, userID), &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if b.Status == "COMPLETED" || b.Status == "CANCELLED" {
		return nil, ErrConflict
	}

	taken, err := slotTakenTx(ctx, tx, b.CourtID, newDate, newStart, newEnd, b.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlotUnavailable
	}

	const qUpdate = `UPDATE bookings
	                 SET booking_date = ?, start_time = ?, end_time = ?, final_amount_cents = ?
	                 WHERE id = ?`
	if _, err := tx.ExecContext(ctx, qUpdate, newDate, newStart, newEnd, newAmountCents, b.ID); err != nil {
		return nil, err
	}
	const qSelect = `SELECT ` + bookingCols + ` FROM bookings WHERE id = ?`
	if err := scanBooking(tx.QueryRowContext(ctx, qSelect, b.ID), &b); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return &b, nil
}

// Cancel marks a booking owned by userID as CANCELLED.  Only PENDING
// and CONFIRMED bookings can be cancelled; COMPLETED and already
// CANCELLED ones surface ErrConflict.
func (r *BookingRepo) Cancel(ctx context.Context, bookingID, userID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = 'CANCELLED'
		 WHERE id = ? AND user_id = ? AND status IN ('PENDING', 'CONFIRMED')`,
		bookingID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	// Nothing updated: distinguish absent from non-cancellable.
	var status string
	err = r.db.QueryRowContext(ctx,
		"SELECT status FROM bookings WHERE id = ? AND user_id = ?", bookingID, userID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBookingNotFound
	}
	if err != nil {
		return err
	}
	return ErrConflict
}

// TakenIntervals returns the occupied time ranges for a court on a
// date: non-cancelled bookings plus blocked windows.  The availability
// endpoint subtracts these from the facility's opening hours.
func (r *BookingRepo) TakenIntervals(ctx context.Context, courtID uint64, date string) ([]booking.Interval, error) {
	const q = `SELECT TIME_FORMAT(start_time, '%H:%i'), TIME_FORMAT(end_time, '%H:%i')
	           FROM bookings
	           WHERE court_id = ? AND booking_date = ? AND status <> 'CANCELLED'
	           UNION ALL
	           SELECT TIME_FORMAT(start_time, '%H:%i'), TIME_FORMAT(end_time, '%H:%i')
	           FROM blocked_slots
	           WHERE court_id = ? AND block_date = ?`
	rows, err := r.db.QueryContext(ctx, q, courtID, date, courtID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]booking.Interval, 0)
	for rows.Next() {
		var iv booking.Interval
		if err := rows.Scan(&iv.Start, &iv.End); err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// OwnerBookingDetail extends BookingDetail with the booking customer's
// email for owner-facing views.
type OwnerBookingDetail struct {
	BookingDetail
	UserEmail string `json:"user_email"`
}

// ListByCourtForOwner returns all bookings for a court when accessed by
// the owner of its facility.  It verifies ownership first; otherwise
// ErrForbidden is returned.  Bookings are ordered by date then time.
func (r *BookingRepo) ListByCourtForOwner(ctx context.Context, courtID, ownerID uint64) ([]OwnerBookingDetail, error) {
	const checkQ = `SELECT f.owner_id
	                FROM courts c
	                JOIN facilities f ON f.id = c.facility_id
	                WHERE c.id = ?`
	var actualOwnerID uint64
	err := r.db.QueryRowContext(ctx, checkQ, courtID).Scan(&actualOwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourtNotFound
		}
		return nil, err
	}
	if actualOwnerID != ownerID {
		return nil, ErrForbidden
	}

	const q = `SELECT ` + bookingDetailCols + `, u.email
	           FROM bookings b
	           JOIN courts c ON c.id = b.court_id
	           JOIN facilities f ON f.id = c.facility_id
	           JOIN users u ON u.id = b.user_id
	           WHERE b.court_id = ?
	           ORDER BY b.booking_date DESC, b.start_time DESC`
	rows, err := r.db.QueryContext(ctx, q, courtID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]OwnerBookingDetail, 0)
	for rows.Next() {
		var d OwnerBookingDetail
		if err := rows.Scan(&d.ID, &d.UserID, &d.CourtID, &d.BookingDate, &d.StartTime, &d.EndTime,
			&d.Status, &d.FinalAmountCents, &d.CreatedAt, &d.UpdatedAt,
			&d.CourtName, &d.FacilityID, &d.FacilityName, &d.City, &d.UserEmail); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CustomerEmail returns the email address of the user who made the
// booking, for notification sends.
func (r *BookingRepo) CustomerEmail(ctx context.Context, bookingID uint64) (string, error) {
	const q = `SELECT u.email FROM bookings b JOIN users u ON u.id = b.user_id WHERE b.id = ?`
	var email string
	err := r.db.QueryRowContext(ctx, q, bookingID).Scan(&email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrBookingNotFound
	}
	return email, err
}

// StatusForOwner returns a booking's current status after verifying
// that the booking's court belongs to a facility owned by ownerID.
// ErrBookingNotFound when the booking does not exist, ErrForbidden when
// the facility is owned by someone else.
func (r *BookingRepo) StatusForOwner(ctx context.Context, bookingID, ownerID uint64) (string, error) {
	const q = `SELECT b.status, f.owner_id
	           FROM bookings b
	           JOIN courts c ON c.id = b.court_id
	           JOIN facilities f ON f.id = c.facility_id
	           WHERE b.id = ?`
	var status string
	var actualOwnerID uint64
	err := r.db.QueryRowContext(ctx, q, bookingID).Scan(&status, &actualOwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrBookingNotFound
		}
		return "", err
	}
	if actualOwnerID != ownerID {
		return "", ErrForbidden
	}
	return status, nil
}

// UpdateStatusForOwner transitions a booking's status on behalf of the
// facility owner after the same ownership validation as StatusForOwner.
// Allowed transitions are enforced by the caller.
func (r *BookingRepo) UpdateStatusForOwner(ctx context.Context, bookingID, ownerID uint64, status string) error {
	if _, err := r.StatusForOwner(ctx, bookingID, ownerID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, "UPDATE bookings SET status = ? WHERE id = ?", status, bookingID)
	return err
}
