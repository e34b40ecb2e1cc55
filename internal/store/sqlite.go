// Package store provides storage backends for shipment records and call logs.
//
// This file implements an SQLite-backed store.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "embed"

	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// Constants for SQLite store configuration
const (
	// DefaultDirPermissions defines the default permissions for database directories
	DefaultDirPermissions = 0755
)

//go:embed migrations_sqlite.sql
var sqliteMigrations string

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given DSN.
// The DSN should be a file path to the SQLite database file.
// If the directory doesn't exist, it will be created.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}

	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}

	slog.Debug("Running SQLite migrations")
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLite migrations applied successfully")

	return &SQLiteStore{db: db}, nil
}

// GetShipment returns the shipment for the tracking ID, or (nil, nil) if absent.
func (s *SQLiteStore) GetShipment(trackingID string) (*models.Shipment, error) {
	row := s.db.QueryRow(`SELECT tracking_id, customer_name, pickup_address, delivery_address, delivery_date, status, created_at, updated_at FROM shipments WHERE tracking_id = ?`, trackingID)
	sh, err := scanShipmentRow(row)
	if err == sql.ErrNoRows {
		slog.Debug("SQLiteStore GetShipment not found", "trackingID", trackingID)
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetShipment failed", "error", err, "trackingID", trackingID)
		return nil, fmt.Errorf("failed to query shipment %s: %w", trackingID, err)
	}
	slog.Debug("SQLiteStore GetShipment found", "trackingID", trackingID, "status", sh.Status)
	return &sh, nil
}

// SaveShipment inserts or replaces the shipment keyed by its tracking ID.
func (s *SQLiteStore) SaveShipment(sh models.Shipment) error {
	if sh.TrackingID == "" {
		return models.ErrEmptyTrackingID
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO shipments (tracking_id, customer_name, pickup_address, delivery_address, delivery_date, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sh.TrackingID, sh.CustomerName, sh.PickupAddress, sh.DeliveryAddress, sh.DeliveryDate, sh.Status, sh.CreatedAt, sh.UpdatedAt)
	if err != nil {
		slog.Error("SQLiteStore SaveShipment failed", "error", err, "trackingID", sh.TrackingID)
		return fmt.Errorf("failed to save shipment %s: %w", sh.TrackingID, err)
	}
	slog.Debug("SQLiteStore SaveShipment succeeded", "trackingID", sh.TrackingID, "status", sh.Status)
	return nil
}

// AddCallLog stores a call interaction record.
func (s *SQLiteStore) AddCallLog(l models.CallLog) error {
	_, err := s.db.Exec(`INSERT INTO call_logs (id, call_sid, from_number, action, tracking_id, details, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.CallSID, nilIfEmpty(l.FromNumber), nilIfEmpty(l.Action), nilIfEmpty(l.TrackingID), nilIfEmpty(l.Details), l.CreatedAt)
	if err != nil {
		slog.Error("SQLiteStore AddCallLog failed", "error", err, "callSID", l.CallSID)
		return fmt.Errorf("failed to insert call log for %s: %w", l.CallSID, err)
	}
	slog.Debug("SQLiteStore AddCallLog succeeded", "callSID", l.CallSID, "action", l.Action)
	return nil
}

// GetCallLogs retrieves all stored call interactions.
func (s *SQLiteStore) GetCallLogs() ([]models.CallLog, error) {
	rows, err := s.db.Query(`SELECT id, call_sid, from_number, action, tracking_id, details, created_at FROM call_logs`)
	if err != nil {
		slog.Error("SQLiteStore GetCallLogs query failed", "error", err)
		return nil, fmt.Errorf("failed to query call logs: %w", err)
	}
	defer rows.Close()

	var logs []models.CallLog
	for rows.Next() {
		l, err := scanCallLog(rows)
		if err != nil {
			slog.Error("SQLiteStore GetCallLogs scan failed", "error", err)
			return nil, err
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		slog.Error("SQLiteStore GetCallLogs rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate call log rows: %w", err)
	}
	slog.Debug("SQLiteStore GetCallLogs succeeded", "count", len(logs))
	return logs, nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	slog.Debug("Closing SQLite database connection")
	err := s.db.Close()
	if err != nil {
		slog.Error("Failed to close SQLite database", "error", err)
	}
	return err
}
