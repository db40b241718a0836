package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"schoolapi/internal/model"
	"schoolapi/internal/repository"
)

type ContactMySQL struct {
	db  *sql.DB
	now func() time.Time
}

func NewContactMySQL(db *sql.DB) *ContactMySQL {
	return &ContactMySQL{db: db, now: time.Now}
}

var _ repository.ContactRepository = (*ContactMySQL)(nil)

func (r *ContactMySQL) Create(ctx context.Context, c *model.Contact) (*model.Contact, error) {
	const q = `INSERT INTO contacts (name, email, message, created_at) VALUES (?, ?, ?, ?)`
	createdAt := r.now().UTC()
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Email, c.Message, createdAt)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	out := *c
	out.ID = id
	out.CreatedAt = createdAt
	return &out, nil
}
