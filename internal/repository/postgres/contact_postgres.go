package postgres

import (
	"context"
	"database/sql"

	"schoolapi/internal/model"
	"schoolapi/internal/repository"
)

type ContactPostgres struct {
	db *sql.DB
}

func NewContactPostgres(db *sql.DB) *ContactPostgres {
	return &ContactPostgres{db: db}
}

var _ repository.ContactRepository = (*ContactPostgres)(nil)

func (r *ContactPostgres) Create(ctx context.Context, c *model.Contact) (*model.Contact, error) {
	const q = `
		INSERT INTO contacts (name, email, message)
		VALUES ($1, $2, $3)
		RETURNING id, name, email, message, created_at
	`
	var out model.Contact
	if err := r.db.QueryRowContext(ctx, q, c.Name, c.Email, c.Message).Scan(
		&out.ID,
		&out.Name,
		&out.Email,
		&out.Message,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}
