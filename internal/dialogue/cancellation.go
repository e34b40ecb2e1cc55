package dialogue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/logistics"
	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/models"
)

// handleCancellation runs the two-step cancellation flow. When the caller
// reached this flow through identity verification, a spoken confirmation is
// required before the shipment is touched.
func (a *Agent) handleCancellation(ctx context.Context, msg string, c models.ConversationContext) (models.TurnResult, error) {
	step := c.Step
	if step == "" {
		step = models.StepGetTrackingID
	}

	switch step {
	case models.StepConfirmCancellation:
		if !isAffirmative(msg) {
			return models.TurnResult{
				Message:              "Cancellation cancelled. Your shipment remains active." + anythingElsePrompt,
				NextState:            models.StateCompletion,
				Context:              models.ConversationContext{},
				ContinueConversation: true,
			}, nil
		}
		shipment, err := a.shipments.Cancel(ctx, c.TrackingID)
		switch {
		case err == nil:
			slog.Info("Agent.handleCancellation: shipment cancelled", "trackingID", shipment.TrackingID)
			return models.TurnResult{
				Message:              fmt.Sprintf("Your shipment %s has been successfully cancelled.", shipment.TrackingID) + anythingElsePrompt,
				NextState:            models.StateCompletion,
				Context:              models.ConversationContext{},
				ContinueConversation: true,
			}, nil
		case errors.Is(err, logistics.ErrAlreadyCancelled):
			return models.TurnResult{
				Message:              fmt.Sprintf("Shipment %s is already cancelled.", c.TrackingID) + anythingElsePrompt,
				NextState:            models.StateIntentDetection,
				Context:              models.ConversationContext{},
				ContinueConversation: true,
			}, nil
		case errors.Is(err, logistics.ErrNotFound):
			return models.TurnResult{
				Message:              "I'm having trouble cancelling that shipment. Let me transfer you to a human agent.",
				NextState:            models.StateTransferHuman,
				Context:              c,
				ContinueConversation: false,
			}, nil
		default:
			return models.TurnResult{}, err
		}

	default: // collect a tracking ID
		id, ok := ExtractTrackingID(msg)
		if !ok {
			return reprompt("I didn't catch your tracking ID. Could you please repeat your 8-digit tracking ID?", models.StateCancellation, c), nil
		}
		return a.cancelShipmentNow(ctx, id)
	}
}

// cancelShipmentNow cancels immediately once a tracking ID is in hand.
// Possessing the tracking ID is treated as sufficient authorization on this
// path; only the identity-verified confirmation path asks for a name.
func (a *Agent) cancelShipmentNow(ctx context.Context, trackingID string) (models.TurnResult, error) {
	shipment, err := a.shipments.Cancel(ctx, trackingID)
	switch {
	case err == nil:
		slog.Info("Agent.cancelShipmentNow: shipment cancelled", "trackingID", shipment.TrackingID)
		return models.TurnResult{
			Message:              fmt.Sprintf("Your shipment %s has been successfully cancelled.", shipment.TrackingID) + anythingElsePrompt,
			NextState:            models.StateIntentDetection,
			Context:              models.ConversationContext{},
			ContinueConversation: true,
		}, nil
	case errors.Is(err, logistics.ErrAlreadyCancelled):
		return models.TurnResult{
			Message:              fmt.Sprintf("Shipment %s is already cancelled.", trackingID) + anythingElsePrompt,
			NextState:            models.StateIntentDetection,
			Context:              models.ConversationContext{},
			ContinueConversation: true,
		}, nil
	case errors.Is(err, logistics.ErrNotFound):
		return models.TurnResult{
			Message:              notFoundMessage(trackingID) + anythingElsePrompt,
			NextState:            models.StateIntentDetection,
			Context:              models.ConversationContext{},
			ContinueConversation: true,
		}, nil
	default:
		return models.TurnResult{}, err
	}
}
