package dialogue

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/logistics"
	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/models"
)

// handleTracking collects a tracking ID (unless one is already in the
// context) and reports the shipment's status.
func (a *Agent) handleTracking(ctx context.Context, msg string, c models.ConversationContext) (models.TurnResult, error) {
	trackingID := c.TrackingID
	if trackingID == "" {
		id, ok := ExtractTrackingID(msg)
		if !ok {
			return models.TurnResult{
				Message:              "I didn't catch a valid tracking ID. Please say your 8-digit tracking ID, speaking each digit slowly.",
				NextState:            models.StateTracking,
				Context:              c,
				ContinueConversation: true,
			}, nil
		}
		trackingID = id
	}

	shipment, err := a.shipments.Lookup(ctx, trackingID)
	switch {
	case err == nil:
		slog.Debug("Agent.handleTracking: shipment found", "trackingID", shipment.TrackingID)
		return models.TurnResult{
			Message:              formatTrackingResponse(shipment) + anythingElsePrompt,
			NextState:            models.StateIntentDetection,
			Context:              models.ConversationContext{LastTrackingID: shipment.TrackingID},
			ContinueConversation: true,
		}, nil
	case errors.Is(err, logistics.ErrNotFound):
		// The caller's context survives an unknown ID so they can retry
		// without re-establishing anything.
		return models.TurnResult{
			Message:              notFoundMessage(trackingID) + " Would you like to try another tracking ID, or is there something else I can help you with?",
			NextState:            models.StateIntentDetection,
			Context:              c,
			ContinueConversation: true,
		}, nil
	default:
		return models.TurnResult{}, err
	}
}
