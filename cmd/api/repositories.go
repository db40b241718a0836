package main

import (
	"database/sql"
	"fmt"

	"schoolapi/internal/database"
	"schoolapi/internal/repository"
	"schoolapi/internal/repository/mysql"
	"schoolapi/internal/repository/postgres"
)

// newRepositories picks the SQL dialect matching the opened connection.
func newRepositories(driver string, db *sql.DB) (repository.SchoolRepository, repository.ContactRepository, error) {
	switch driver {
	case "", database.DriverPostgres:
		return postgres.NewSchoolPostgres(db), postgres.NewContactPostgres(db), nil
	case database.DriverMySQL:
		return mysql.NewSchoolMySQL(db), mysql.NewContactMySQL(db), nil
	default:
		return nil, nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}
