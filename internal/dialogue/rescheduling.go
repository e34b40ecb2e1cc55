package dialogue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/logistics"
	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/models"
)

// handleRescheduling collects a tracking ID, routes through identity
// verification, then applies a new delivery date.
func (a *Agent) handleRescheduling(ctx context.Context, msg string, c models.ConversationContext) (models.TurnResult, error) {
	step := c.RescheduleStep
	if step == "" {
		step = models.RescheduleStepGetTrackingID
	}

	switch step {
	case models.RescheduleStepGetNewDate:
		date, ok := a.dates.Parse(msg)
		if !ok {
			return reprompt("Sorry, I didn't get the date. Could you say it again? For example, December 20th or next Tuesday.", models.StateRescheduling, c), nil
		}
		shipment, err := a.shipments.Reschedule(ctx, c.TrackingID, date)
		switch {
		case err == nil:
			slog.Info("Agent.handleRescheduling: shipment rescheduled", "trackingID", shipment.TrackingID, "newDate", date)
			return models.TurnResult{
				Message:              fmt.Sprintf("Your shipment %s has been rescheduled for delivery on %s.", shipment.TrackingID, date) + anythingElsePrompt,
				NextState:            models.StateIntentDetection,
				Context:              models.ConversationContext{LastUpdate: shipment},
				ContinueConversation: true,
			}, nil
		case errors.Is(err, logistics.ErrNotFound):
			return models.TurnResult{
				Message:              notFoundMessage(c.TrackingID) + " Would you like to try again, or speak with a human agent?",
				NextState:            models.StateIntentDetection,
				Context:              models.ConversationContext{},
				ContinueConversation: true,
			}, nil
		default:
			return models.TurnResult{}, err
		}

	default: // collect a tracking ID
		id, ok := ExtractTrackingID(msg)
		if !ok {
			return reprompt("I didn't catch your tracking ID. Could you please repeat your 8-digit tracking ID?", models.StateRescheduling, c), nil
		}
		c.TrackingID = id
		c.Action = models.ActionReschedule
		c.RescheduleStep = models.RescheduleStepIdentityVerification
		return models.TurnResult{
			Message:              identityPrompt(id),
			NextState:            models.StateIdentityVerification,
			Context:              c,
			ContinueConversation: true,
		}, nil
	}
}
