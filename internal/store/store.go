// Package store provides storage backends for shipment records and call logs.
//
// It includes an in-memory store for tests and single-process use, plus
// SQLite- and PostgreSQL-backed stores for persistent deployments.
package store

import (
	"sync"

	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/models"
)

// Store defines the persistence operations the logistics layer depends on.
// GetShipment returns (nil, nil) when no shipment exists for the tracking ID.
type Store interface {
	GetShipment(trackingID string) (*models.Shipment, error)
	SaveShipment(s models.Shipment) error
	AddCallLog(l models.CallLog) error
	GetCallLogs() ([]models.CallLog, error)
	Close() error
}

// InMemoryStore is a simple in-memory store for shipments and call logs.
type InMemoryStore struct {
	mu        sync.RWMutex
	shipments map[string]models.Shipment
	callLogs  []models.CallLog
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{shipments: make(map[string]models.Shipment)}
}

// GetShipment returns the shipment for the tracking ID, or (nil, nil) if absent.
func (s *InMemoryStore) GetShipment(trackingID string) (*models.Shipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sh, ok := s.shipments[trackingID]
	if !ok {
		return nil, nil
	}
	out := sh
	return &out, nil
}

// SaveShipment inserts or replaces the shipment keyed by its tracking ID.
func (s *InMemoryStore) SaveShipment(sh models.Shipment) error {
	if sh.TrackingID == "" {
		return models.ErrEmptyTrackingID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shipments[sh.TrackingID] = sh
	return nil
}

// AddCallLog appends a call interaction record.
func (s *InMemoryStore) AddCallLog(l models.CallLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callLogs = append(s.callLogs, l)
	return nil
}

// GetCallLogs returns all recorded call interactions.
func (s *InMemoryStore) GetCallLogs() ([]models.CallLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CallLog, len(s.callLogs))
	copy(out, s.callLogs)
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error { return nil }
