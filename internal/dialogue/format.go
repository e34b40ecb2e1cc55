package dialogue

import (
	"fmt"
	"strings"

	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/models"
)

// All user-facing phrasing lives in this file so the voice persona can be
// tuned without touching flow logic.

const anythingElsePrompt = " Is there anything else I can help you with?"

// formatTrackingResponse renders a found shipment as a spoken status update.
func formatTrackingResponse(s *models.Shipment) string {
	status := strings.ReplaceAll(string(s.Status), "_", " ")
	return fmt.Sprintf(
		"I found your shipment %s for %s. The current status is %s. It's scheduled for delivery on %s to %s.",
		FormatTrackingIDForSpeech(s.TrackingID), titleCase(s.CustomerName), status, s.DeliveryDate, s.City(),
	)
}

func notFoundMessage(trackingID string) string {
	return fmt.Sprintf("Sorry, I couldn't find a shipment with tracking ID %s. Please double-check the number.", trackingID)
}

func greetingMenu() string {
	return "I can help you track a shipment, book a new shipment, reschedule a delivery, update an address, or cancel a shipment. What would you like to do?"
}

func identityPrompt(trackingID string) string {
	return fmt.Sprintf("For security, I need to verify your identity for shipment %s. What's the name on the shipment?", trackingID)
}

func farewellMessage() string {
	return "Thank you for calling Rocket Shipment! Have a great day. If you need anything else, feel free to call back or press star to reach a human agent. Goodbye!"
}
