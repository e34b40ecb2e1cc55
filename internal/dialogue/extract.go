package dialogue

import (
	"regexp"
	"strings"

	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/models"
)

// trackingIDRe matches a 7 or 8 digit run bounded by non-digits. Longer runs
// such as phone numbers deliberately do not match.
var trackingIDRe = regexp.MustCompile(`\b(\d{7,8})\b`)

// ExtractTrackingID pulls a tracking ID out of free-form speech. Speech
// recognizers routinely drop a leading zero, so a 7-digit run is padded back
// to the canonical 8 digits.
func ExtractTrackingID(msg string) (string, bool) {
	m := trackingIDRe.FindStringSubmatch(msg)
	if m == nil {
		return "", false
	}
	id := m[1]
	if len(id) == 7 {
		id = "0" + id
	}
	return id, true
}

// FormatTrackingIDForSpeech spells an ID digit by digit ("1-2-3-4-5-6-7-8")
// so text-to-speech reads it at a dictation pace.
func FormatTrackingIDForSpeech(id string) string {
	digits := strings.Split(id, "")
	return strings.Join(digits, "-")
}

var affirmativeKeywords = []string{"yes", "confirm", "sure", "ok", "proceed"}

// isAffirmative reports whether the utterance confirms a pending action.
func isAffirmative(msg string) bool {
	return containsAny(msg, affirmativeKeywords)
}

var (
	pickupKeywords   = []string{"pickup", "pick up", "pick-up", "from"}
	deliveryKeywords = []string{"delivery", "deliver", "to", "destination"}
)

// resolveAddressType maps an utterance to the address being changed. Pickup
// phrasing is checked first. The second return is false when neither matched.
func resolveAddressType(msg string) (models.AddressType, bool) {
	switch {
	case containsAny(msg, pickupKeywords):
		return models.AddressTypePickup, true
	case containsAny(msg, deliveryKeywords):
		return models.AddressTypeDelivery, true
	default:
		return "", false
	}
}

// titleCase capitalizes the first letter of each space-separated word, for
// presenting spoken names the way they would be written.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
