package dialogue

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/models"
)

// Minimum utterance lengths accepted as slot values. Anything shorter is
// treated as recognizer noise and re-prompted.
const (
	minNameLength    = 2
	minAddressLength = 3
)

// handleBooking fills the four booking slots in fixed order: customer name,
// pickup address, delivery address, delivery date. Each turn fills at most
// one slot.
func (a *Agent) handleBooking(ctx context.Context, msg string, c models.ConversationContext) (models.TurnResult, error) {
	step := c.BookingStep
	if step == "" {
		step = models.BookingStepCustomerName
	}

	switch step {
	case models.BookingStepCustomerName:
		if len(strings.TrimSpace(msg)) < minNameLength {
			return reprompt("I didn't catch your name. Could you please tell me your full name?", models.StateBooking, c), nil
		}
		c.CustomerName = strings.TrimSpace(msg)
		c.BookingStep = models.BookingStepPickupAddress
		return models.TurnResult{
			Message:              fmt.Sprintf("Thank you, %s. Now, what's the complete pickup address, including street, city, and state?", titleCase(c.CustomerName)),
			NextState:            models.StateBooking,
			Context:              c,
			ContinueConversation: true,
		}, nil

	case models.BookingStepPickupAddress:
		if len(strings.TrimSpace(msg)) < minAddressLength {
			return reprompt("I didn't catch the pickup address. Could you please repeat the complete pickup address?", models.StateBooking, c), nil
		}
		c.PickupAddress = strings.TrimSpace(msg)
		c.BookingStep = models.BookingStepDeliveryAddress
		return models.TurnResult{
			Message:              "Got it. And what's the complete delivery address?",
			NextState:            models.StateBooking,
			Context:              c,
			ContinueConversation: true,
		}, nil

	case models.BookingStepDeliveryAddress:
		if len(strings.TrimSpace(msg)) < minAddressLength {
			return reprompt("I didn't catch the delivery address. Could you please repeat the complete delivery address?", models.StateBooking, c), nil
		}
		c.DeliveryAddress = strings.TrimSpace(msg)
		c.BookingStep = models.BookingStepDeliveryDate
		return models.TurnResult{
			Message:              "Almost done. What date would you like the delivery? You can say something like December 15th or tomorrow.",
			NextState:            models.StateBooking,
			Context:              c,
			ContinueConversation: true,
		}, nil

	case models.BookingStepDeliveryDate:
		date, ok := a.dates.Parse(msg)
		if !ok {
			return reprompt("Sorry, I didn't understand the date. Could you say it again? For example, December 15th or tomorrow.", models.StateBooking, c), nil
		}
		shipment, err := a.shipments.Book(ctx, c.CustomerName, c.PickupAddress, c.DeliveryAddress, date)
		if err != nil {
			return models.TurnResult{}, err
		}
		slog.Info("Agent.handleBooking: shipment booked", "trackingID", shipment.TrackingID)
		spelled := FormatTrackingIDForSpeech(shipment.TrackingID)
		return models.TurnResult{
			Message: fmt.Sprintf(
				"Your shipment is booked for delivery on %s. Your tracking ID is %s. Let me repeat that: %s. Please write it down.",
				date, spelled, spelled,
			) + anythingElsePrompt,
			NextState:            models.StateIntentDetection,
			Context:              models.ConversationContext{LastBooking: shipment},
			ContinueConversation: true,
		}, nil

	default:
		return reprompt("Let's start over with your booking. What's your full name?",
			models.StateBooking, models.ConversationContext{BookingStep: models.BookingStepCustomerName}), nil
	}
}

// reprompt keeps the caller in the same flow with an unchanged context.
func reprompt(message string, state models.ConversationState, c models.ConversationContext) models.TurnResult {
	return models.TurnResult{
		Message:              message,
		NextState:            state,
		Context:              c,
		ContinueConversation: true,
	}
}
