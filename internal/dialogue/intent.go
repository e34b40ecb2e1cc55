package dialogue

import (
	"regexp"
	"strings"
)

// Intent is the caller's classified goal for a turn.
type Intent string

const (
	IntentRepeatTracking Intent = "repeat_tracking"
	IntentCancel         Intent = "cancel"
	IntentTrack          Intent = "track"
	IntentUpdateAddress  Intent = "update_address"
	IntentBook           Intent = "book"
	IntentReschedule     Intent = "reschedule"
	IntentUpdateTime     Intent = "update_time"
	IntentFarewell       Intent = "farewell"
	IntentUnclear        Intent = "unclear"
)

// Keyword sets checked in strict precedence order. Overlapping phrases are
// resolved by which set is consulted first, e.g. "change my delivery address"
// must never route to booking even though it contains "delivery".
var (
	cancelKeywords = []string{"cancel", "delete", "remove", "stop", "abort", "terminate"}

	trackKeywords = []string{"track", "tracking", "status", "where is", "locate", "find my"}

	addressUpdateKeywords = []string{
		"change address", "update address", "modify address", "new address",
		"different address", "wrong address", "pickup", "delivery location",
		"update my address", "change my address", "modify my address",
		"update my shipment", "modify my shipment", "change my shipment",
	}

	bookKeywords = []string{"book", "schedule", "send", "new shipment", "create"}

	rescheduleKeywords = []string{"reschedule", "delay", "postpone", "change date", "move"}

	timeUpdateKeywords = []string{
		"change time", "update time", "different time", "new time",
		"morning", "afternoon", "evening", "am", "pm", "earlier", "later",
	}

	farewellKeywords = []string{"thank you", "thanks", "thats all", "that's all", "goodbye", "bye", "done"}

	humanKeywords = []string{"human", "agent", "person", "representative", "operator", "transfer"}
)

// shipWordRe matches "ship" as its own token so that "shipping update" books a
// shipment while "my shipment" does not.
var shipWordRe = regexp.MustCompile(`\bship\b`)

// ClassifyIntent maps a normalized utterance to an intent using the fixed
// precedence order: repeat, cancel, track, address update, book, reschedule,
// time update, farewell. Anything else is unclear.
func ClassifyIntent(msg string) Intent {
	switch {
	case strings.Contains(msg, "repeat") && strings.Contains(msg, "tracking"):
		return IntentRepeatTracking
	case containsAny(msg, cancelKeywords):
		return IntentCancel
	case containsAny(msg, trackKeywords):
		return IntentTrack
	case containsAny(msg, addressUpdateKeywords):
		return IntentUpdateAddress
	case containsAny(msg, bookKeywords),
		shipWordRe.MatchString(msg) && !strings.Contains(msg, "shipment"):
		return IntentBook
	case containsAny(msg, rescheduleKeywords):
		return IntentReschedule
	case containsAny(msg, timeUpdateKeywords):
		return IntentUpdateTime
	case containsAny(msg, farewellKeywords):
		return IntentFarewell
	default:
		return IntentUnclear
	}
}

// wantsHumanAgent reports whether the caller asked for a person. A lone "*"
// key press also counts; the voice host maps DTMF star to that literal.
func wantsHumanAgent(msg string) bool {
	return containsAny(msg, humanKeywords) || strings.Contains(msg, "*")
}

func containsAny(msg string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}
