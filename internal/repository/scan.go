package repository

import (
	"database/sql"

	"schoolapi/internal/model"
)

// SchoolColumns is the canonical column order used by every dialect.
const SchoolColumns = "id, name, address, city, state, contact, email_id, image"

// ScanSchools drains rows into a non-nil slice.
func ScanSchools(rows *sql.Rows) ([]model.School, error) {
	defer rows.Close()

	items := make([]model.School, 0)
	for rows.Next() {
		var s model.School
		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Address,
			&s.City,
			&s.State,
			&s.Contact,
			&s.EmailID,
			&s.Image,
		); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
