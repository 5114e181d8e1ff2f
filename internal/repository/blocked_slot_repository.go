package repository

import (
	"context"
	"database/sql"
	"errors"
)

// BlockedSlot is a time window an owner has taken off the market for a
// court.  Blocked windows exclude availability exactly like
// non-cancelled bookings do.
type BlockedSlot struct {
	ID        uint64 `json:"id"`
	CourtID   uint64 `json:"court_id"`
	BlockDate string `json:"block_date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Reason    string `json:"reason,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ErrBlockedSlotNotFound is returned when a blocked slot cannot be found.
var ErrBlockedSlotNotFound = errors.New("blocked slot not found")

// BlockedSlotRepo persists owner-blocked time windows per court.
type BlockedSlotRepo struct {
	db *sql.DB
}

// NewBlockedSlotRepo returns a new BlockedSlotRepo bound to the given database.
func NewBlockedSlotRepo(db *sql.DB) *BlockedSlotRepo { return &BlockedSlotRepo{db: db} }

const blockedSlotCols = `id, court_id, DATE_FORMAT(block_date, '%Y-%m-%d'),
	TIME_FORMAT(start_time, '%H:%i'), TIME_FORMAT(end_time, '%H:%i'),
	COALESCE(reason, ''), created_at`

func scanBlockedSlot(row interface{ Scan(...any) error }, b *BlockedSlot) error {
	return row.Scan(&b.ID, &b.CourtID, &b.BlockDate, &b.StartTime, &b.EndTime, &b.Reason, &b.CreatedAt)
}

// Create inserts a blocked window after verifying that the court's
// facility belongs to ownerID.  Overlap with existing bookings is not
// checked here: owners may block over pending bookings and resolve them
// out of band.
func (r *BlockedSlotRepo) Create(ctx context.Context, ownerID uint64, b *BlockedSlot) error {
	var actualOwner uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT f.owner_id FROM courts c JOIN facilities f ON f.id = c.facility_id WHERE c.id = ?`,
		b.CourtID).Scan(&actualOwner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCourtNotFound
		}
		return err
	}
	if actualOwner != ownerID {
		return ErrForbidden
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO blocked_slots (court_id, block_date, start_time, end_time, reason) VALUES (?, ?, ?, ?, ?)`,
		b.CourtID, b.BlockDate, b.StartTime, b.EndTime, sql.NullString{String: b.Reason, Valid: b.Reason != ""})
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const qSelect = `SELECT ` + blockedSlotCols + ` FROM blocked_slots WHERE id = ?`
	return scanBlockedSlot(r.db.QueryRowContext(ctx, qSelect, b.ID), b)
}

// ListByCourt returns blocked windows for a court ordered by date and
// start time.  When date is non-empty only that day is returned.
func (r *BlockedSlotRepo) ListByCourt(ctx context.Context, courtID uint64, date string) ([]BlockedSlot, error) {
	q := `SELECT ` + blockedSlotCols + ` FROM blocked_slots WHERE court_id = ?`
	args := []any{courtID}
	if date != "" {
		q += ` AND block_date = ?`
		args = append(args, date)
	}
	q += ` ORDER BY block_date, start_time`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]BlockedSlot, 0)
	for rows.Next() {
		var b BlockedSlot
		if err := scanBlockedSlot(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a blocked window when its court's facility belongs to
// ownerID.  ErrBlockedSlotNotFound when the window does not exist,
// ErrForbidden when owned by someone else.
func (r *BlockedSlotRepo) Delete(ctx context.Context, ownerID, slotID uint64) error {
	var actualOwner uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT f.owner_id
		 FROM blocked_slots b
		 JOIN courts c ON c.id = b.court_id
		 JOIN facilities f ON f.id = c.facility_id
		 WHERE b.id = ?`, slotID).Scan(&actualOwner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBlockedSlotNotFound
		}
		return err
	}
	if actualOwner != ownerID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx, "DELETE FROM blocked_slots WHERE id = ?", slotID)
	return err
}
