package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"schoolapi/internal/model"
	"schoolapi/internal/repository"
)

// SchoolMySQL is a MySQL implementation of repository.SchoolRepository.
// MySQL has no RETURNING clause, so the assigned id comes from LastInsertId.
type SchoolMySQL struct {
	db *sql.DB
}

func NewSchoolMySQL(db *sql.DB) *SchoolMySQL {
	return &SchoolMySQL{db: db}
}

var _ repository.SchoolRepository = (*SchoolMySQL)(nil)

func (r *SchoolMySQL) Create(ctx context.Context, s *model.School) (*model.School, error) {
	const q = `
		INSERT INTO schools (name, address, city, state, contact, email_id, image)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	res, err := r.db.ExecContext(ctx, q,
		s.Name,
		s.Address,
		s.City,
		s.State,
		s.Contact,
		s.EmailID,
		s.Image,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	out := *s
	out.ID = id
	return &out, nil
}

func (r *SchoolMySQL) List(ctx context.Context) ([]model.School, error) {
	const q = `SELECT ` + repository.SchoolColumns + ` FROM schools ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	return repository.ScanSchools(rows)
}
