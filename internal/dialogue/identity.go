package dialogue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/logistics"
	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/models"
)

// handleIdentityVerification compares the spoken name against the shipment
// record and, on success, resumes the flow named by the pending action. A
// failed match always transfers to a human; callers never get a second try.
func (a *Agent) handleIdentityVerification(ctx context.Context, msg string, c models.ConversationContext) (models.TurnResult, error) {
	if c.TrackingID == "" {
		return models.TurnResult{
			Message:              "I seem to have lost your tracking information. Could you please provide your tracking ID again?",
			NextState:            models.StateRescheduling,
			Context:              models.ConversationContext{},
			ContinueConversation: true,
		}, nil
	}

	verified, _, err := a.shipments.VerifyIdentity(ctx, msg, c.TrackingID)
	switch {
	case errors.Is(err, logistics.ErrNotFound):
		return models.TurnResult{
			Message:              fmt.Sprintf("I couldn't find shipment %s. Let me transfer you to a human agent.", c.TrackingID),
			NextState:            models.StateTransferHuman,
			Context:              c,
			ContinueConversation: false,
		}, nil
	case err != nil:
		return models.TurnResult{}, err
	case !verified:
		slog.Info("Agent.handleIdentityVerification: name mismatch", "trackingID", c.TrackingID)
		return models.TurnResult{
			Message:              "The name doesn't match our records. For security, I'll need to transfer you to a human agent.",
			NextState:            models.StateTransferHuman,
			Context:              c,
			ContinueConversation: false,
		}, nil
	}

	c.IdentityVerified = true
	slog.Debug("Agent.handleIdentityVerification: identity verified", "trackingID", c.TrackingID, "action", c.Action)

	switch c.Action {
	case models.ActionCancel:
		c.Step = models.StepConfirmCancellation
		return models.TurnResult{
			Message:              fmt.Sprintf("Thank you for the verification. Are you sure you want to cancel shipment %s? This action cannot be undone.", c.TrackingID),
			NextState:            models.StateCancellation,
			Context:              c,
			ContinueConversation: true,
		}, nil
	case models.ActionUpdateAddress:
		c.Step = models.StepSelectAddressType
		return models.TurnResult{
			Message:              "Thank you for the verification. Which address would you like to change: the pickup address or the delivery address?",
			NextState:            models.StateAddressUpdate,
			Context:              c,
			ContinueConversation: true,
		}, nil
	case models.ActionUpdateTime:
		c.Step = models.StepGetNewTime
		return models.TurnResult{
			Message:              fmt.Sprintf("Thank you for the verification. What new delivery time would you like for shipment %s?", c.TrackingID),
			NextState:            models.StateTimeUpdate,
			Context:              c,
			ContinueConversation: true,
		}, nil
	default: // reschedule
		c.RescheduleStep = models.RescheduleStepGetNewDate
		return models.TurnResult{
			Message:              fmt.Sprintf("Thank you for the verification. What's the new delivery date you'd like for shipment %s?", c.TrackingID),
			NextState:            models.StateRescheduling,
			Context:              c,
			ContinueConversation: true,
		}, nil
	}
}
