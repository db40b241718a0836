// Package repository contains data access layer abstractions.
// Implementations live in dialect subpackages (postgres, mysql).
package repository

import (
	"context"

	"schoolapi/internal/model"
)

// SchoolRepository defines data access for school records using SQL queries only.
type SchoolRepository interface {
	// Create inserts one row and returns it with the store-assigned ID.
	Create(ctx context.Context, s *model.School) (*model.School, error)

	// List returns every row ordered by ascending ID. An empty store yields an empty, non-nil slice.
	List(ctx context.Context) ([]model.School, error)
}

// ContactRepository persists contact form messages.
type ContactRepository interface {
	Create(ctx context.Context, c *model.Contact) (*model.Contact, error)
}
