package store

import (
	"database/sql"
	"fmt"

	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/models"
)

// nilIfEmpty returns nil if s is empty, otherwise returns s.
// Used for nullable database columns.
func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// scanShipmentRow scans a Shipment from a single sql.Row.
func scanShipmentRow(row *sql.Row) (models.Shipment, error) {
	var sh models.Shipment
	err := row.Scan(
		&sh.TrackingID, &sh.CustomerName, &sh.PickupAddress, &sh.DeliveryAddress,
		&sh.DeliveryDate, &sh.Status, &sh.CreatedAt, &sh.UpdatedAt,
	)
	return sh, err
}

// scanCallLog scans a CallLog from sql.Rows.
func scanCallLog(rows *sql.Rows) (models.CallLog, error) {
	var l models.CallLog
	var fromNumber, action, trackingID, details sql.NullString
	err := rows.Scan(&l.ID, &l.CallSID, &fromNumber, &action, &trackingID, &details, &l.CreatedAt)
	if err != nil {
		return l, fmt.Errorf("scan call log failed: %w", err)
	}
	l.FromNumber = fromNumber.String
	l.Action = action.String
	l.TrackingID = trackingID.String
	l.Details = details.String
	return l, nil
}
