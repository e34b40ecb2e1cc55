// Package logistics implements the shipment store collaborator consumed by the
// dialogue engine: lookups with speech-error recovery, booking, rescheduling,
// cancellation, address and delivery-time updates, and identity verification.
package logistics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/models"
	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/store"
	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/util"
)

// Error variables for better error handling and testability
var (
	// ErrNotFound indicates no shipment exists for the tracking ID.
	ErrNotFound = errors.New("shipment not found")
	// ErrAlreadyCancelled indicates the shipment was already cancelled; cancelling
	// a cancelled shipment is an error, not a no-op.
	ErrAlreadyCancelled = errors.New("shipment already cancelled")
	// ErrInvalidDate indicates a date was not in canonical YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date format")
	// ErrMissingInformation indicates a booking slot was empty.
	ErrMissingInformation = errors.New("missing booking information")
)

// bookingIDAttempts bounds collision retries when generating tracking IDs.
const bookingIDAttempts = 10

// Service provides shipment operations on top of a persistence store.
type Service struct {
	store store.Store
}

// NewService creates a logistics service backed by the given store.
func NewService(st store.Store) *Service {
	slog.Debug("Creating logistics service")
	return &Service{store: st}
}

// Lookup retrieves a shipment by tracking ID, tolerating a known speech
// recognition failure mode: when an exactly-8-digit ID ending in "00" is not
// found, the trailing digit may have been dropped and defaulted to zero, so the
// variants ending "01".."09" are tried in ascending order and the first hit is
// returned. Returns ErrNotFound after exhausting all candidates.
func (s *Service) Lookup(ctx context.Context, trackingID string) (*models.Shipment, error) {
	trackingID = strings.ToUpper(strings.TrimSpace(trackingID))
	slog.Debug("Logistics Lookup", "trackingID", trackingID)

	sh, err := s.store.GetShipment(trackingID)
	if err != nil {
		slog.Error("Logistics Lookup store error", "error", err, "trackingID", trackingID)
		return nil, fmt.Errorf("failed to look up shipment %s: %w", trackingID, err)
	}
	if sh != nil {
		return sh, nil
	}

	if len(trackingID) == 8 && strings.HasSuffix(trackingID, "00") {
		base := trackingID[:6]
		for last := 1; last <= 9; last++ {
			variant := fmt.Sprintf("%s0%d", base, last)
			sh, err := s.store.GetShipment(variant)
			if err != nil {
				slog.Error("Logistics Lookup variant store error", "error", err, "trackingID", variant)
				return nil, fmt.Errorf("failed to look up shipment %s: %w", variant, err)
			}
			if sh != nil {
				slog.Info("Logistics Lookup recovered via trailing-digit variant", "spoken", trackingID, "matched", variant)
				return sh, nil
			}
		}
	}

	slog.Debug("Logistics Lookup not found", "trackingID", trackingID)
	return nil, ErrNotFound
}

// Book creates a new shipment with a fresh 8-digit tracking identifier.
func (s *Service) Book(ctx context.Context, customerName, pickupAddress, deliveryAddress, deliveryDate string) (*models.Shipment, error) {
	customerName = strings.TrimSpace(customerName)
	pickupAddress = strings.TrimSpace(pickupAddress)
	deliveryAddress = strings.TrimSpace(deliveryAddress)
	if customerName == "" || pickupAddress == "" || deliveryAddress == "" || deliveryDate == "" {
		return nil, ErrMissingInformation
	}
	if !isValidDate(deliveryDate) {
		return nil, ErrInvalidDate
	}

	trackingID, err := s.freshTrackingID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sh := models.Shipment{
		TrackingID:      trackingID,
		CustomerName:    customerName,
		PickupAddress:   pickupAddress,
		DeliveryAddress: deliveryAddress,
		DeliveryDate:    deliveryDate,
		Status:          models.ShipmentStatusBooked,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.SaveShipment(sh); err != nil {
		slog.Error("Logistics Book save failed", "error", err, "trackingID", trackingID)
		return nil, fmt.Errorf("failed to book shipment: %w", err)
	}
	slog.Info("Logistics Book succeeded", "trackingID", trackingID, "deliveryDate", deliveryDate)
	return &sh, nil
}

// Reschedule updates the delivery date of an existing shipment and stamps
// status rescheduled. Fails with ErrNotFound if the shipment is absent.
func (s *Service) Reschedule(ctx context.Context, trackingID, newDate string) (*models.Shipment, error) {
	if !isValidDate(newDate) {
		return nil, ErrInvalidDate
	}
	sh, err := s.Lookup(ctx, trackingID)
	if err != nil {
		return nil, err
	}
	sh.DeliveryDate = newDate
	sh.Status = models.ShipmentStatusRescheduled
	sh.UpdatedAt = time.Now()
	if err := s.store.SaveShipment(*sh); err != nil {
		slog.Error("Logistics Reschedule save failed", "error", err, "trackingID", sh.TrackingID)
		return nil, fmt.Errorf("failed to reschedule shipment %s: %w", sh.TrackingID, err)
	}
	slog.Info("Logistics Reschedule succeeded", "trackingID", sh.TrackingID, "newDate", newDate)
	return sh, nil
}

// Cancel terminally cancels a shipment. Cancelling an already-cancelled
// shipment fails with ErrAlreadyCancelled.
func (s *Service) Cancel(ctx context.Context, trackingID string) (*models.Shipment, error) {
	sh, err := s.Lookup(ctx, trackingID)
	if err != nil {
		return nil, err
	}
	if sh.Status == models.ShipmentStatusCancelled {
		slog.Debug("Logistics Cancel already cancelled", "trackingID", sh.TrackingID)
		return nil, ErrAlreadyCancelled
	}
	sh.Status = models.ShipmentStatusCancelled
	sh.UpdatedAt = time.Now()
	if err := s.store.SaveShipment(*sh); err != nil {
		slog.Error("Logistics Cancel save failed", "error", err, "trackingID", sh.TrackingID)
		return nil, fmt.Errorf("failed to cancel shipment %s: %w", sh.TrackingID, err)
	}
	slog.Info("Logistics Cancel succeeded", "trackingID", sh.TrackingID)
	return sh, nil
}

// UpdateAddress replaces the pickup or delivery address and stamps status modified.
func (s *Service) UpdateAddress(ctx context.Context, trackingID string, kind models.AddressType, newAddress string) (*models.Shipment, error) {
	if !models.IsValidAddressType(kind) {
		return nil, models.ErrInvalidAddressType
	}
	newAddress = strings.TrimSpace(newAddress)
	sh, err := s.Lookup(ctx, trackingID)
	if err != nil {
		return nil, err
	}
	switch kind {
	case models.AddressTypePickup:
		sh.PickupAddress = newAddress
	case models.AddressTypeDelivery:
		sh.DeliveryAddress = newAddress
	}
	sh.Status = models.ShipmentStatusModified
	sh.UpdatedAt = time.Now()
	if err := s.store.SaveShipment(*sh); err != nil {
		slog.Error("Logistics UpdateAddress save failed", "error", err, "trackingID", sh.TrackingID, "kind", kind)
		return nil, fmt.Errorf("failed to update %s address for %s: %w", kind, sh.TrackingID, err)
	}
	slog.Info("Logistics UpdateAddress succeeded", "trackingID", sh.TrackingID, "kind", kind)
	return sh, nil
}

// UpdateDeliveryTime records a new delivery time and, when a date was parseable
// from the same utterance, a new delivery date. Stamps status rescheduled.
func (s *Service) UpdateDeliveryTime(ctx context.Context, trackingID, newTime, newDate string) (*models.Shipment, error) {
	if newDate != "" && !isValidDate(newDate) {
		return nil, ErrInvalidDate
	}
	sh, err := s.Lookup(ctx, trackingID)
	if err != nil {
		return nil, err
	}
	if newDate != "" {
		sh.DeliveryDate = newDate
	}
	sh.Status = models.ShipmentStatusRescheduled
	sh.UpdatedAt = time.Now()
	if err := s.store.SaveShipment(*sh); err != nil {
		slog.Error("Logistics UpdateDeliveryTime save failed", "error", err, "trackingID", sh.TrackingID)
		return nil, fmt.Errorf("failed to update delivery time for %s: %w", sh.TrackingID, err)
	}
	slog.Info("Logistics UpdateDeliveryTime succeeded", "trackingID", sh.TrackingID, "newTime", newTime, "newDate", newDate)
	return sh, nil
}

// VerifyIdentity performs case-insensitive substring containment in either
// direction between the caller-spoken name and the stored customer name.
// A spoken "John" matches a stored "John Smith" and vice versa. Fails with
// ErrNotFound when the shipment is absent.
func (s *Service) VerifyIdentity(ctx context.Context, spokenName, trackingID string) (bool, *models.Shipment, error) {
	sh, err := s.Lookup(ctx, trackingID)
	if err != nil {
		return false, nil, err
	}
	stored := strings.ToLower(sh.CustomerName)
	spoken := strings.ToLower(strings.TrimSpace(spokenName))
	if spoken == "" {
		return false, sh, nil
	}
	verified := strings.Contains(stored, spoken) || strings.Contains(spoken, stored)
	slog.Debug("Logistics VerifyIdentity", "trackingID", sh.TrackingID, "verified", verified)
	return verified, sh, nil
}

// LogInteraction records a host-level call interaction for analytics.
// Logging failures are reported but never fail a turn.
func (s *Service) LogInteraction(ctx context.Context, callSID, fromNumber, action, trackingID, details string) {
	l := models.CallLog{
		ID:         uuid.NewString(),
		CallSID:    callSID,
		FromNumber: fromNumber,
		Action:     action,
		TrackingID: trackingID,
		Details:    details,
		CreatedAt:  time.Now(),
	}
	if err := s.store.AddCallLog(l); err != nil {
		slog.Warn("Logistics LogInteraction failed", "error", err, "callSID", callSID, "action", action)
	}
}

// freshTrackingID generates a tracking ID that does not collide with an
// existing shipment.
func (s *Service) freshTrackingID() (string, error) {
	for i := 0; i < bookingIDAttempts; i++ {
		candidate := util.GenerateTrackingID()
		existing, err := s.store.GetShipment(candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check tracking ID %s: %w", candidate, err)
		}
		if existing == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique tracking ID after %d attempts", bookingIDAttempts)
}

// isValidDate reports whether the string is a canonical YYYY-MM-DD date.
func isValidDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}
