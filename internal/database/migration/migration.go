package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"schoolapi/internal/logger"
)

type migrationStep struct {
	Name string
	SQL  string
}

type dialect struct {
	sentinel string
	steps    []migrationStep
}

var dialects = map[string]dialect{
	"postgres": {
		sentinel: "SELECT to_regclass('public.schools') IS NOT NULL",
		steps: []migrationStep{
			{
				Name: "create_table_schools",
				SQL: `CREATE TABLE IF NOT EXISTS schools (
  id       BIGSERIAL    PRIMARY KEY,
  name     TEXT         NOT NULL,
  address  TEXT         NOT NULL,
  city     TEXT         NOT NULL,
  state    TEXT         NOT NULL,
  contact  VARCHAR(10)  NOT NULL,
  email_id TEXT         NOT NULL,
  image    TEXT         NOT NULL
);`,
			},
			{
				Name: "create_table_contacts",
				SQL: `CREATE TABLE IF NOT EXISTS contacts (
  id         BIGSERIAL   PRIMARY KEY,
  name       TEXT        NOT NULL,
  email      TEXT        NOT NULL,
  message    TEXT        NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
			},
		},
	},
	"mysql": {
		sentinel: "SELECT COUNT(*) > 0 FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = 'schools'",
		steps: []migrationStep{
			{
				Name: "create_table_schools",
				SQL: `CREATE TABLE IF NOT EXISTS schools (
  id       BIGINT       NOT NULL AUTO_INCREMENT PRIMARY KEY,
  name     VARCHAR(255) NOT NULL,
  address  TEXT         NOT NULL,
  city     VARCHAR(255) NOT NULL,
  state    VARCHAR(255) NOT NULL,
  contact  VARCHAR(10)  NOT NULL,
  email_id VARCHAR(255) NOT NULL,
  image    VARCHAR(512) NOT NULL
);`,
			},
			{
				Name: "create_table_contacts",
				SQL: `CREATE TABLE IF NOT EXISTS contacts (
  id         BIGINT       NOT NULL AUTO_INCREMENT PRIMARY KEY,
  name       VARCHAR(255) NOT NULL,
  email      VARCHAR(255) NOT NULL,
  message    TEXT         NOT NULL,
  created_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP
);`,
			},
		},
	},
}

// EnsureMigrated checks if the 'schools' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, driver, dbHost string) error {
	if driver == "" {
		driver = "postgres"
	}
	d, ok := dialects[driver]
	if !ok {
		return fmt.Errorf("no migrations for driver %q", driver)
	}

	log := logger.Component("database").With().Str("db_host", dbHost).Str("db_driver", driver).Logger()
	start := time.Now()

	log.Info().Str("event", "db_migration_check").Str("status", "starting").Send()

	var exists bool
	if err := db.QueryRowContext(ctx, d.sentinel).Scan(&exists); err != nil {
		failed(log, start).Err(err).Msg("failed to check sentinel table")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info().
			Str("event", "db_migration_skip").
			Str("status", "success").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("schema already exists, skipping migration")
		return nil
	}

	log.Info().Str("event", "db_migration_start").Str("status", "in_progress").Send()

	for _, step := range d.steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			failed(log, start).
				Str("migration_step", step.Name).
				Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
				Err(err).
				Send()
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info().
			Str("event", "db_migration_step").
			Str("status", "success").
			Str("migration_step", step.Name).
			Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
			Send()
	}

	log.Info().
		Str("event", "db_migration_success").
		Str("status", "success").
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Send()

	return nil
}

func failed(log zerolog.Logger, start time.Time) *zerolog.Event {
	return log.Error().
		Str("event", "db_migration_failed").
		Str("status", "error").
		Int64("duration_ms", time.Since(start).Milliseconds())
}
