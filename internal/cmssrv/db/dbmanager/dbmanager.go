// Package dbmanager provides the PostgreSQL connection pool for the
// sitesmith storage layer.
package dbmanager

import (
	"database/sql"
	"time"

	"github.com/avast/retry-go/v4"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/rs/zerolog/log"
)

// NewPool opens a PostgreSQL connection pool for the given DSN and waits
// for the database to become reachable. The ping is retried because the
// server frequently starts before its database in containerized
// deployments; request-path operations never retry.
func NewPool(dsn string) (*sql.DB, error) {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Error().Err(err).Msg("failed to open db")
		return nil, err
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	err = retry.Do(
		func() error {
			return sqlDB.Ping()
		},
		retry.Attempts(5),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to ping db")
		sqlDB.Close()
		return nil, err
	}

	return sqlDB, nil
}
