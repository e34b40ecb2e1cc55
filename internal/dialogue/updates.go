package dialogue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/logistics"
	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/models"
)

// handleAddressUpdate collects a tracking ID, routes through identity
// verification, asks which address is changing, then applies the new one.
func (a *Agent) handleAddressUpdate(ctx context.Context, msg string, c models.ConversationContext) (models.TurnResult, error) {
	step := c.Step
	if step == "" {
		step = models.StepGetTrackingID
	}

	switch step {
	case models.StepSelectAddressType:
		kind, ok := resolveAddressType(msg)
		if !ok {
			return reprompt("I didn't understand. Please say either pickup address or delivery address.", models.StateAddressUpdate, c), nil
		}
		c.AddressType = kind
		c.Step = models.StepGetNewAddress
		return models.TurnResult{
			Message:              fmt.Sprintf("What's the new %s address? Please include street, city, and state.", kind),
			NextState:            models.StateAddressUpdate,
			Context:              c,
			ContinueConversation: true,
		}, nil

	case models.StepGetNewAddress:
		if len(msg) < minAddressLength {
			return reprompt("I didn't catch the address. Could you please repeat the complete address?", models.StateAddressUpdate, c), nil
		}
		shipment, err := a.shipments.UpdateAddress(ctx, c.TrackingID, c.AddressType, msg)
		switch {
		case err == nil:
			slog.Info("Agent.handleAddressUpdate: address updated", "trackingID", shipment.TrackingID, "kind", c.AddressType)
			return models.TurnResult{
				Message:              fmt.Sprintf("Your %s address for shipment %s has been updated to %s.", c.AddressType, shipment.TrackingID, msg) + anythingElsePrompt,
				NextState:            models.StateCompletion,
				Context:              models.ConversationContext{},
				ContinueConversation: true,
			}, nil
		case errors.Is(err, logistics.ErrNotFound):
			return models.TurnResult{
				Message:              "I'm having trouble updating that shipment. Let me transfer you to a human agent.",
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
			return reprompt("I didn't catch your tracking ID. Could you please repeat your 8-digit tracking ID?", models.StateAddressUpdate, c), nil
		}
		c.TrackingID = id
		c.Action = models.ActionUpdateAddress
		return models.TurnResult{
			Message:              identityPrompt(id),
			NextState:            models.StateIdentityVerification,
			Context:              c,
			ContinueConversation: true,
		}, nil
	}
}

// handleTimeUpdate collects a tracking ID, routes through identity
// verification, then records a new delivery time. If the caller also names a
// date it is applied in the same update.
func (a *Agent) handleTimeUpdate(ctx context.Context, msg string, c models.ConversationContext) (models.TurnResult, error) {
	step := c.Step
	if step == "" {
		step = models.StepGetTrackingID
	}

	switch step {
	case models.StepGetNewTime:
		date, _ := a.dates.Parse(msg) // the date is optional here
		shipment, err := a.shipments.UpdateDeliveryTime(ctx, c.TrackingID, msg, date)
		switch {
		case err == nil:
			slog.Info("Agent.handleTimeUpdate: delivery time updated", "trackingID", shipment.TrackingID)
			return models.TurnResult{
				Message:              fmt.Sprintf("Your delivery for shipment %s has been rescheduled to %s at %s.", shipment.TrackingID, shipment.DeliveryDate, msg) + anythingElsePrompt,
				NextState:            models.StateCompletion,
				Context:              models.ConversationContext{},
				ContinueConversation: true,
			}, nil
		case errors.Is(err, logistics.ErrNotFound):
			return models.TurnResult{
				Message:              "I'm having trouble updating that shipment. Let me transfer you to a human agent.",
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
			return reprompt("I didn't catch your tracking ID. Could you please repeat your 8-digit tracking ID?", models.StateTimeUpdate, c), nil
		}
		c.TrackingID = id
		c.Action = models.ActionUpdateTime
		return models.TurnResult{
			Message:              identityPrompt(id),
			NextState:            models.StateIdentityVerification,
			Context:              c,
			ContinueConversation: true,
		}, nil
	}
}
