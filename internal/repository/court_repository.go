package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Court represents a bookable playing surface inside a facility.  The
// hourly price is denormalized onto the court so booking amounts can be
// computed without joining pricing tables.
type Court struct {
	ID                uint64 // courts.id
	FacilityID        uint64 // courts.facility_id
	Name              string // courts.name
	Surface           string // courts.surface
	PricePerHourCents uint32 // courts.price_per_hour_cents
	IsActive          bool   // courts.is_active
	CreatedAt         string // courts.created_at
	UpdatedAt         string // courts.updated_at
}

// ErrCourtNotFound is returned when a court cannot be found in the DB.
var ErrCourtNotFound = errors.New("court not found")

// CourtRepo encapsulates all database queries related to courts.
type CourtRepo struct {
	db *sql.DB
}

// NewCourtRepo constructs a CourtRepo with the provided DB handle.
func NewCourtRepo(db *sql.DB) *CourtRepo { return &CourtRepo{db: db} }

const courtCols = `id, facility_id, name, surface, price_per_hour_cents, is_active, created_at, updated_at`

func scanCourt(row interface{ Scan(...any) error }, c *Court) error {
	return row.Scan(&c.ID, &c.FacilityID, &c.Name, &c.Surface, &c.PricePerHourCents, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
}

// Create inserts a court after verifying that the target facility
// belongs to ownerID.  ErrFacilityNotFound is returned when the
// facility does not exist and ErrForbidden when it is owned by someone
// else.
func (r *CourtRepo) Create(ctx context.Context, ownerID uint64, c *Court) error {
	var actualOwner uint64
	err := r.db.QueryRowContext(ctx, "SELECT owner_id FROM facilities WHERE id = ?", c.FacilityID).Scan(&actualOwner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrFacilityNotFound
		}
		return err
	}
	if actualOwner != ownerID {
		return ErrForbidden
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO courts (facility_id, name, surface, price_per_hour_cents, is_active) VALUES (?, ?, ?, ?, ?)`,
		c.FacilityID, c.Name, c.Surface, c.PricePerHourCents, c.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	const qSelect = `SELECT ` + courtCols + ` FROM courts WHERE id = ?`
	return scanCourt(r.db.QueryRowContext(ctx, qSelect, c.ID), c)
}

// GetByID fetches a court by id.  ErrCourtNotFound when absent.
func (r *CourtRepo) GetByID(ctx context.Context, id uint64) (*Court, error) {
	const q = `SELECT ` + courtCols + ` FROM courts WHERE id = ?`
	var c Court
	if err := scanCourt(r.db.QueryRowContext(ctx, q, id), &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourtNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetWithOwner fetches a court together with the owning user of its
// facility, letting callers enforce ownership without a second query.
func (r *CourtRepo) GetWithOwner(ctx context.Context, id uint64) (*Court, uint64, error) {
	const q = `SELECT c.id, c.facility_id, c.name, c.surface, c.price_per_hour_cents, c.is_active,
	                  c.created_at, c.updated_at, f.owner_id
	           FROM courts c
	           JOIN facilities f ON f.id = c.facility_id
	           WHERE c.id = ?`
	var c Court
	var ownerID uint64
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&c.ID, &c.FacilityID, &c.Name, &c.Surface, &c.PricePerHourCents, &c.IsActive,
		&c.CreatedAt, &c.UpdatedAt, &ownerID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrCourtNotFound
		}
		return nil, 0, err
	}
	return &c, ownerID, nil
}

// ListByFacility returns courts of a facility ordered by id.  When
// activeOnly is set, deactivated courts are filtered out (the public
// browse endpoints use this; owners see everything).
func (r *CourtRepo) ListByFacility(ctx context.Context, facilityID uint64, activeOnly bool) ([]*Court, error) {
	q := `SELECT ` + courtCols + ` FROM courts WHERE facility_id = ?`
	if activeOnly {
		q += ` AND is_active = 1`
	}
	q += ` ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, facilityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Court
	for rows.Next() {
		c := new(Court)
		if err := scanCourt(rows, c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update modifies a court's editable fields when its facility belongs
// to ownerID.  ErrCourtNotFound when the court does not exist,
// ErrForbidden when owned by someone else.
func (r *CourtRepo) Update(ctx context.Context, ownerID uint64, c *Court) error {
	if _, owner, err := r.GetWithOwner(ctx, c.ID); err != nil {
		return err
	} else if owner != ownerID {
		return ErrForbidden
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE courts SET name = ?, surface = ?, price_per_hour_cents = ?, is_active = ? WHERE id = ?`,
		c.Name, c.Surface, c.PricePerHourCents, c.IsActive, c.ID)
	if err != nil {
		return err
	}
	const qSelect = `SELECT ` + courtCols + ` FROM courts WHERE id = ?`
	return scanCourt(r.db.QueryRowContext(ctx, qSelect, c.ID), c)
}

// Delete removes a court when its facility belongs to ownerID.  Courts
// with non-cancelled bookings cannot be deleted and surface ErrConflict.
func (r *CourtRepo) Delete(ctx context.Context, ownerID, courtID uint64) error {
	if _, owner, err := r.GetWithOwner(ctx, courtID); err != nil {
		return err
	} else if owner != ownerID {
		return ErrForbidden
	}
	var active int64
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookings WHERE court_id = ? AND status <> 'CANCELLED'", courtID).Scan(&active); err != nil {
		return err
	}
	if active > 0 {
		return ErrConflict
	}
	_, err := r.db.ExecContext(ctx, "DELETE FROM courts WHERE id = ?", courtID)
	return err
}
