package database

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver

	"mysql-table-backup/internal/apperrors"
	"mysql-table-backup/internal/logging"
)

// Service establishes and verifies database connections. Connections it
// hands out are owned by the caller; the service never closes them on the
// caller's behalf except when a connection attempt fails midway.
type Service struct {
	connectionTimeout time.Duration
	logger            *logging.Logger
	retryHandler      *apperrors.RetryHandler
}

// NewService creates a new database service
func NewService(logger *logging.Logger) *Service {
	return &Service{
		connectionTimeout: 30 * time.Second,
		logger:            logger,
		retryHandler:      apperrors.NewDefaultRetryHandler(),
	}
}

// NewServiceWithTimeout creates a new database service with a custom
// connection timeout
func NewServiceWithTimeout(logger *logging.Logger, timeout time.Duration) *Service {
	service := NewService(logger)
	service.connectionTimeout = timeout
	return service
}

// Connect establishes a connection to a MySQL database with retry logic for
// recoverable failures.
func (s *Service) Connect(config Config) (*sql.DB, error) {
	startTime := time.Now()

	s.logger.WithFields(map[string]interface{}{
		"host":     config.Host,
		"database": config.Database,
		"port":     config.Port,
	}).Debug("Attempting database connection")

	ctx, cancel := context.WithTimeout(context.Background(), s.connectionTimeout)
	defer cancel()

	var db *sql.DB
	err := s.retryHandler.Retry(ctx, func() error {
		var connectErr error

		db, connectErr = sql.Open("mysql", config.DSN())
		if connectErr != nil {
			return apperrors.WrapError(connectErr, "failed to open database connection")
		}

		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		if pingErr := s.Ping(db); pingErr != nil {
			db.Close()
			return pingErr
		}

		return nil
	})

	duration := time.Since(startTime)
	s.logger.LogDatabaseConnection(config.Host, config.Database, err == nil, duration, err)

	if err != nil {
		return nil, err
	}

	return db, nil
}

// Ping verifies that the database connection is working
func (s *Service) Ping(db *sql.DB) error {
	if db == nil {
		return apperrors.New(apperrors.ErrorTypeConnection, "database connection is nil", nil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.connectionTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return apperrors.WrapError(err, "failed to ping database")
	}

	return nil
}

// Close gracefully closes a database connection
func (s *Service) Close(db *sql.DB) error {
	if db == nil {
		return nil
	}

	if err := db.Close(); err != nil {
		s.logger.WithField("error", err.Error()).Error("Failed to close database connection")
		return apperrors.WrapError(err, "failed to close database connection")
	}

	s.logger.Debug("Database connection closed")
	return nil
}
