package postgres

import (
	"context"
	"database/sql"

	"schoolapi/internal/model"
	"schoolapi/internal/repository"
)

// SchoolPostgres is a PostgreSQL implementation of repository.SchoolRepository.
type SchoolPostgres struct {
	db *sql.DB
}

// NewSchoolPostgres creates a new SchoolPostgres repository.
func NewSchoolPostgres(db *sql.DB) *SchoolPostgres {
	return &SchoolPostgres{db: db}
}

var _ repository.SchoolRepository = (*SchoolPostgres)(nil)

// Create inserts a school row and returns the stored record.
func (r *SchoolPostgres) Create(ctx context.Context, s *model.School) (*model.School, error) {
	const q = `
		INSERT INTO schools (name, address, city, state, contact, email_id, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + repository.SchoolColumns
	row := r.db.QueryRowContext(ctx, q,
		s.Name,
		s.Address,
		s.City,
		s.State,
		s.Contact,
		s.EmailID,
		s.Image,
	)
	var out model.School
	if err := row.Scan(
		&out.ID,
		&out.Name,
		&out.Address,
		&out.City,
		&out.State,
		&out.Contact,
		&out.EmailID,
		&out.Image,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns all schools by ascending id.
func (r *SchoolPostgres) List(ctx context.Context) ([]model.School, error) {
	const q = `SELECT ` + repository.SchoolColumns + ` FROM schools ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	return repository.ScanSchools(rows)
}
