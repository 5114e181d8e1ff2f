// This file defines the Facility model and repository methods for CRUD
// and lookup operations. A Facility represents a venue that can contain
// multiple courts. Only customer-safe fields should be exposed in
// public API responses.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"       // errors is used to define custom error values
)

// Facility represents a venue persisted in the database. Each facility belongs to a single
// owner and may contain multiple courts. The ID field is the primary key and is
// auto-incremented by the DB. OwnerID, CreatedAt and UpdatedAt should not be exposed via
// public API responses.
type Facility struct {
	ID        uint64 // ID is the unique identifier of the facility
	OwnerID   uint64 // OwnerID references the users.id of the facility owner
	Name      string // Name is the human-friendly name of the venue
	Sport     string // Sport is the primary sport offered (BADMINTON, TENNIS, ...)
	City      string // City the venue is located in
	Address   string // Address is the street address shown to customers
	OpenTime  string // OpenTime is the daily opening time (HH:MM)
	CloseTime string // CloseTime is the daily closing time (HH:MM)
	CreatedAt string // CreatedAt stores when the row was created (timestamp in DB timezone)
	UpdatedAt string // UpdatedAt stores when the row was last updated
}

// ErrFacilityNotFound is returned when a facility cannot be found in the DB.
var ErrFacilityNotFound = errors.New("facility not found")

// FacilityRepo encapsulates all database queries related to facilities.  It
// depends on a sql.DB connection which should be configured elsewhere.
type FacilityRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewFacilityRepo constructs a FacilityRepo with the provided DB handle.  This
// function allows dependency injection of the database in tests and at
// startup.  There is no initialization logic beyond assigning the field.
func NewFacilityRepo(db *sql.DB) *FacilityRepo {
	return &FacilityRepo{db: db}
}

const facilityCols = `id, owner_id, name, sport, city, address,
	TIME_FORMAT(open_time, '%H:%i'), TIME_FORMAT(close_time, '%H:%i'),
	created_at, updated_at`

func scanFacility(row interface{ Scan(...any) error }, f *Facility) error {
	return row.Scan(&f.ID, &f.OwnerID, &f.Name, &f.Sport, &f.City, &f.Address,
		&f.OpenTime, &f.CloseTime, &f.CreatedAt, &f.UpdatedAt)
}

// Create inserts a new facility into the database.  On success the facility's
// ID field will be populated with the auto-generated value and the row is
// re-read so callers receive a fully populated record.
func (r *FacilityRepo) Create(ctx context.Context, f *Facility) error {
	const qInsert = `INSERT INTO facilities (owner_id, name, sport, city, address, open_time, close_time)
	                 VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, f.OwnerID, f.Name, f.Sport, f.City, f.Address, f.OpenTime, f.CloseTime)
	if err != nil {
		return err // propagate DB errors to the caller
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)

	const qSelect = `SELECT ` + facilityCols + ` FROM facilities WHERE id = ?`
	return scanFacility(r.db.QueryRowContext(ctx, qSelect, f.ID), f)
}

// GetByID fetches a facility by its ID regardless of owner.  It returns
// ErrFacilityNotFound if no row is found.  Callers can use this method
// when they don't need to enforce ownership in the repository layer.
func (r *FacilityRepo) GetByID(ctx context.Context, id uint64) (*Facility, error) {
	const q = `SELECT ` + facilityCols + ` FROM facilities WHERE id = ?`
	var f Facility
	if err := scanFacility(r.db.QueryRowContext(ctx, q, id), &f); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFacilityNotFound
		}
		return nil, err
	}
	return &f, nil
}

// GetByIDAndOwner fetches a facility by id but only if it belongs to the
// specified owner.  If the facility doesn't exist or is owned by someone
// else, ErrFacilityNotFound is returned.
func (r *FacilityRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*Facility, error) {
	const q = `SELECT ` + facilityCols + ` FROM facilities WHERE id = ? AND owner_id = ?`
	var f Facility
	if err := scanFacility(r.db.QueryRowContext(ctx, q, id, ownerID), &f); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFacilityNotFound
		}
		return nil, err
	}
	return &f, nil
}

// ListByOwner returns all facilities for a specific owner ordered by id.
func (r *FacilityRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*Facility, error) {
	const q = `SELECT ` + facilityCols + ` FROM facilities WHERE owner_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Facility
	for rows.Next() {
		f := new(Facility)
		if err := scanFacility(rows, f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll returns all facilities ordered by id for public browsing.
func (r *FacilityRepo) ListAll(ctx context.Context) ([]*Facility, error) {
	const q = `SELECT ` + facilityCols + ` FROM facilities ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Facility
	for rows.Next() {
		f := new(Facility)
		if err := scanFacility(rows, f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update modifies a facility's editable fields when it belongs to the
// provided owner.  It returns ErrFacilityNotFound when no row matches
// (not found / not owned).
func (r *FacilityRepo) Update(ctx context.Context, f *Facility) error {
	const q = `UPDATE facilities
	           SET name = ?, sport = ?, city = ?, address = ?, open_time = ?, close_time = ?
	           WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q, f.Name, f.Sport, f.City, f.Address, f.OpenTime, f.CloseTime, f.ID, f.OwnerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the row doesn't exist/isn't owned, or nothing changed.
		// Distinguish by checking existence.
		if _, err := r.GetByIDAndOwner(ctx, f.ID, f.OwnerID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a facility owned by the given owner.  Courts and their
// bookings are protected by foreign keys; a facility with courts cannot
// be deleted and surfaces ErrConflict.
func (r *FacilityRepo) Delete(ctx context.Context, id, ownerID uint64) error {
	var courts int64
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM courts WHERE facility_id = ?", id).Scan(&courts); err != nil {
		return err
	}
	if courts > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM facilities WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrFacilityNotFound
	}
	return nil
}
