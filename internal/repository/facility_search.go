package repository

import (
	"context"
	"strings"
)

// FacilitySearchQuery defines filters & pagination for searching facilities.
type FacilitySearchQuery struct {
	Name     string
	Sport    string
	City     string
	Page     int
	PageSize int
}

type PublicFacilityRow struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Sport       string `json:"sport"`
	City        string `json:"city"`
	Address     string `json:"address"`
	OpenTime    string `json:"open_time"`
	CloseTime   string `json:"close_time"`
	CourtCount  int64  `json:"court_count"`
	MinPriceCts uint64 `json:"min_price_cents"`
}

// Search returns facilities matching the filters along with the total
// match count for pagination.  Name and city match case-insensitive
// substrings; sport matches exactly (it is an enum-like column).
func (r *FacilityRepo) Search(ctx context.Context, q FacilitySearchQuery) ([]PublicFacilityRow, int64, error) {
	where := []string{}
	args := []any{}

	if q.Name != "" {
		where = append(where, "LOWER(f.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Name)+"%")
	}
	if q.Sport != "" {
		where = append(where, "f.sport = ?")
		args = append(args, strings.ToUpper(q.Sport))
	}
	if q.City != "" {
		where = append(where, "LOWER(f.city) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.City)+"%")
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	countSQL := `SELECT COUNT(*) FROM facilities f WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT
			f.id,
			f.name,
			f.sport,
			f.city,
			f.address,
			TIME_FORMAT(f.open_time, '%H:%i')  AS open_time,
			TIME_FORMAT(f.close_time, '%H:%i') AS close_time,
			COUNT(c.id)                        AS court_count,
			COALESCE(MIN(c.price_per_hour_cents), 0) AS min_price_cents
		FROM facilities f
		LEFT JOIN courts c ON c.facility_id = f.id AND c.is_active = 1
		WHERE ` + cond + `
		GROUP BY f.id
		ORDER BY f.name ASC
		LIMIT ? OFFSET ?`

	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]PublicFacilityRow, 0, limit)
	for rows.Next() {
		var d PublicFacilityRow
		if err := rows.Scan(
			&d.ID,
			&d.Name,
			&d.Sport,
			&d.City,
			&d.Address,
			&d.OpenTime,
			&d.CloseTime,
			&d.CourtCount,
			&d.MinPriceCts,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
