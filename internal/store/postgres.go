// Package store provides storage backends for shipment records and call logs.
//
// This file implements a PostgreSQL-backed store.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "embed"

	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/models"
	_ "github.com/lib/pq"
)

// Database connection pool configuration constants
const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections in the pool
	DefaultMaxIdleConns = 25
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused
	DefaultConnMaxLifetime = 5 * time.Minute
)

//go:embed migrations_postgres.sql
var postgresMigrations string

type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store based on provided options.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("PostgresStore.NewPostgresStore: creating Postgres store", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}

	slog.Debug("Running Postgres migrations")
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Postgres migrations applied successfully")
	return &PostgresStore{db: db}, nil
}

// GetShipment returns the shipment for the tracking ID, or (nil, nil) if absent.
func (s *PostgresStore) GetShipment(trackingID string) (*models.Shipment, error) {
	row := s.db.QueryRow(`SELECT tracking_id, customer_name, pickup_address, delivery_address, delivery_date, status, created_at, updated_at FROM shipments WHERE tracking_id = $1`, trackingID)
	sh, err := scanShipmentRow(row)
	if err == sql.ErrNoRows {
		slog.Debug("PostgresStore GetShipment not found", "trackingID", trackingID)
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetShipment failed", "error", err, "trackingID", trackingID)
		return nil, fmt.Errorf("failed to query shipment %s: %w", trackingID, err)
	}
	slog.Debug("PostgresStore GetShipment found", "trackingID", trackingID, "status", sh.Status)
	return &sh, nil
}

// SaveShipment inserts or replaces the shipment keyed by its tracking ID.
func (s *PostgresStore) SaveShipment(sh models.Shipment) error {
	if sh.TrackingID == "" {
		return models.ErrEmptyTrackingID
	}
	_, err := s.db.Exec(`
		INSERT INTO shipments (tracking_id, customer_name, pickup_address, delivery_address, delivery_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (tracking_id) DO UPDATE SET
			customer_name = EXCLUDED.customer_name,
			pickup_address = EXCLUDED.pickup_address,
			delivery_address = EXCLUDED.delivery_address,
			delivery_date = EXCLUDED.delivery_date,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at`,
		sh.TrackingID, sh.CustomerName, sh.PickupAddress, sh.DeliveryAddress, sh.DeliveryDate, sh.Status, sh.CreatedAt, sh.UpdatedAt)
	if err != nil {
		slog.Error("PostgresStore SaveShipment failed", "error", err, "trackingID", sh.TrackingID)
		return fmt.Errorf("failed to save shipment %s: %w", sh.TrackingID, err)
	}
	slog.Debug("PostgresStore SaveShipment succeeded", "trackingID", sh.TrackingID, "status", sh.Status)
	return nil
}

// AddCallLog stores a call interaction record.
func (s *PostgresStore) AddCallLog(l models.CallLog) error {
	_, err := s.db.Exec(`INSERT INTO call_logs (id, call_sid, from_number, action, tracking_id, details, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		l.ID, l.CallSID, nilIfEmpty(l.FromNumber), nilIfEmpty(l.Action), nilIfEmpty(l.TrackingID), nilIfEmpty(l.Details), l.CreatedAt)
	if err != nil {
		slog.Error("PostgresStore AddCallLog failed", "error", err, "callSID", l.CallSID)
		return fmt.Errorf("failed to insert call log for %s: %w", l.CallSID, err)
	}
	slog.Debug("PostgresStore AddCallLog succeeded", "callSID", l.CallSID, "action", l.Action)
	return nil
}

// GetCallLogs retrieves all stored call interactions.
func (s *PostgresStore) GetCallLogs() ([]models.CallLog, error) {
	rows, err := s.db.Query(`SELECT id, call_sid, from_number, action, tracking_id, details, created_at FROM call_logs`)
	if err != nil {
		slog.Error("PostgresStore GetCallLogs query failed", "error", err)
		return nil, fmt.Errorf("failed to query call logs: %w", err)
	}
	defer rows.Close()

	var logs []models.CallLog
	for rows.Next() {
		l, err := scanCallLog(rows)
		if err != nil {
			slog.Error("PostgresStore GetCallLogs scan failed", "error", err)
			return nil, err
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		slog.Error("PostgresStore GetCallLogs rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate call log rows: %w", err)
	}
	slog.Debug("PostgresStore GetCallLogs succeeded", "count", len(logs))
	return logs, nil
}

// Close closes the Postgres database connection.
func (s *PostgresStore) Close() error {
	slog.Debug("Closing Postgres database connection")
	err := s.db.Close()
	if err != nil {
		slog.Error("Failed to close Postgres database", "error", err)
	}
	return err
}
