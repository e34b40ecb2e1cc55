package dialogue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/models"
)

// handleIntentDetection is the hub: it classifies the utterance and either
// answers directly or routes into a flow. Callers who volunteer a tracking ID
// in the same breath skip the collection step of the target flow.
func (a *Agent) handleIntentDetection(ctx context.Context, msg string, c models.ConversationContext) (models.TurnResult, error) {
	intent := ClassifyIntent(msg)
	slog.Debug("Agent.handleIntentDetection: classified intent", "intent", intent)

	switch intent {
	case IntentRepeatTracking:
		if c.LastBooking != nil {
			spelled := FormatTrackingIDForSpeech(c.LastBooking.TrackingID)
			return models.TurnResult{
				Message:              fmt.Sprintf("Your tracking ID is %s. Once again, that's %s.", spelled, spelled) + anythingElsePrompt,
				NextState:            models.StateIntentDetection,
				Context:              c,
				ContinueConversation: true,
			}, nil
		}
		return models.TurnResult{
			Message:              "I don't have a recent tracking ID to repeat. If you've booked a shipment, please provide the tracking ID you received." + anythingElsePrompt,
			NextState:            models.StateIntentDetection,
			Context:              c,
			ContinueConversation: true,
		}, nil

	case IntentCancel:
		if id, ok := ExtractTrackingID(msg); ok {
			return a.cancelShipmentNow(ctx, id)
		}
		return models.TurnResult{
			Message:              "I can help you cancel your shipment. First, please provide your tracking ID.",
			NextState:            models.StateCancellation,
			Context:              models.ConversationContext{Action: models.ActionCancel, Step: models.StepGetTrackingID},
			ContinueConversation: true,
		}, nil

	case IntentTrack:
		if id, ok := ExtractTrackingID(msg); ok {
			c.TrackingID = id
			return a.handleTracking(ctx, "", c)
		}
		return models.TurnResult{
			Message:              "I'd be happy to help you track your shipment. Please provide your 8-digit tracking ID, speaking each digit slowly.",
			NextState:            models.StateTracking,
			Context:              c,
			ContinueConversation: true,
		}, nil

	case IntentUpdateAddress:
		c = models.ConversationContext{Action: models.ActionUpdateAddress}
		if id, ok := ExtractTrackingID(msg); ok {
			c.TrackingID = id
			return models.TurnResult{
				Message:              identityPrompt(id),
				NextState:            models.StateIdentityVerification,
				Context:              c,
				ContinueConversation: true,
			}, nil
		}
		c.Step = models.StepGetTrackingID
		return models.TurnResult{
			Message:              "I can help you update your shipment address. First, please provide your tracking ID.",
			NextState:            models.StateAddressUpdate,
			Context:              c,
			ContinueConversation: true,
		}, nil

	case IntentBook:
		return models.TurnResult{
			Message:              "I'd be happy to help you book a new shipment. Let's start with your name. What's your full name?",
			NextState:            models.StateBooking,
			Context:              models.ConversationContext{BookingStep: models.BookingStepCustomerName},
			ContinueConversation: true,
		}, nil

	case IntentReschedule:
		c = models.ConversationContext{Action: models.ActionReschedule}
		if id, ok := ExtractTrackingID(msg); ok {
			c.TrackingID = id
			c.RescheduleStep = models.RescheduleStepIdentityVerification
			return models.TurnResult{
				Message:              identityPrompt(id),
				NextState:            models.StateIdentityVerification,
				Context:              c,
				ContinueConversation: true,
			}, nil
		}
		c.RescheduleStep = models.RescheduleStepGetTrackingID
		return models.TurnResult{
			Message:              "I can help you reschedule your delivery. First, please provide your tracking ID.",
			NextState:            models.StateRescheduling,
			Context:              c,
			ContinueConversation: true,
		}, nil

	case IntentUpdateTime:
		c = models.ConversationContext{Action: models.ActionUpdateTime}
		if id, ok := ExtractTrackingID(msg); ok {
			c.TrackingID = id
			return models.TurnResult{
				Message:              identityPrompt(id),
				NextState:            models.StateIdentityVerification,
				Context:              c,
				ContinueConversation: true,
			}, nil
		}
		c.Step = models.StepGetTrackingID
		return models.TurnResult{
			Message:              "I can help you change your delivery time. First, please provide your tracking ID.",
			NextState:            models.StateTimeUpdate,
			Context:              c,
			ContinueConversation: true,
		}, nil

	case IntentFarewell:
		return models.TurnResult{
			Message:              farewellMessage(),
			NextState:            models.StateCompletion,
			Context:              models.ConversationContext{},
			ContinueConversation: false,
		}, nil

	default:
		return models.TurnResult{
			Message:              greetingMenu(),
			NextState:            models.StateIntentDetection,
			Context:              c,
			ContinueConversation: true,
		}, nil
	}
}
