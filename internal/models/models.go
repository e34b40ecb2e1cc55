// Package models defines the core data structures for the Rocket Logistics voice agent.
//
// It includes the conversation state machine types, the per-call context carried
// between turns, and the Turn Result contract shared across modules.
package models

import "errors"

// ConversationState identifies which flow handler runs on the next turn.
type ConversationState string

const (
	// StateGreeting is the initial state for a new call.
	StateGreeting ConversationState = "greeting"
	// StateIntentDetection is the hub state that routes utterances to flows.
	StateIntentDetection ConversationState = "intent_detection"
	// StateTracking collects a tracking ID and reports shipment status.
	StateTracking ConversationState = "tracking"
	// StateBooking walks the caller through the four booking slots.
	StateBooking ConversationState = "booking"
	// StateRescheduling changes the delivery date of an existing shipment.
	StateRescheduling ConversationState = "rescheduling"
	// StateCancellation cancels an existing shipment.
	StateCancellation ConversationState = "cancellation"
	// StateAddressUpdate changes the pickup or delivery address.
	StateAddressUpdate ConversationState = "address_update"
	// StateTimeUpdate changes the delivery time (and optionally date).
	StateTimeUpdate ConversationState = "time_update"
	// StateIdentityVerification gates mutations of existing shipments.
	StateIdentityVerification ConversationState = "identity_verification"
	// StateCompletion is terminal; the telephony layer takes over.
	StateCompletion ConversationState = "completion"
	// StateTransferHuman is terminal; the call is handed to a human agent.
	StateTransferHuman ConversationState = "transfer_human"
)

// IsValidConversationState checks if the given state is one the engine dispatches on.
func IsValidConversationState(s ConversationState) bool {
	switch s {
	case StateGreeting, StateIntentDetection, StateTracking, StateBooking,
		StateRescheduling, StateCancellation, StateAddressUpdate, StateTimeUpdate,
		StateIdentityVerification, StateCompletion, StateTransferHuman:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further flow handler logic runs in this state.
func (s ConversationState) IsTerminal() bool {
	return s == StateCompletion || s == StateTransferHuman
}

// Action names the mutation a caller is working toward across the identity gate.
type Action string

const (
	ActionCancel        Action = "cancel"
	ActionUpdateAddress Action = "update_address"
	ActionUpdateTime    Action = "update_time"
	ActionReschedule    Action = "reschedule"
)

// Step is the sub-state within the cancellation, address-update and time-update flows.
type Step string

const (
	StepGetTrackingID       Step = "get_tracking_id"
	StepConfirmCancellation Step = "confirm_cancellation"
	StepSelectAddressType   Step = "select_address_type"
	StepGetNewAddress       Step = "get_new_address"
	StepGetNewTime          Step = "get_new_time"
)

// BookingStep is the sub-state within the booking flow. Slots fill in fixed order.
type BookingStep string

const (
	BookingStepCustomerName    BookingStep = "customer_name"
	BookingStepPickupAddress   BookingStep = "pickup_address"
	BookingStepDeliveryAddress BookingStep = "delivery_address"
	BookingStepDeliveryDate    BookingStep = "delivery_date"
)

// RescheduleStep is the sub-state within the rescheduling flow.
type RescheduleStep string

const (
	RescheduleStepGetTrackingID        RescheduleStep = "get_tracking_id"
	RescheduleStepIdentityVerification RescheduleStep = "identity_verification"
	RescheduleStepGetNewDate           RescheduleStep = "get_new_date"
)

// AddressType selects which address an update applies to.
type AddressType string

const (
	AddressTypePickup   AddressType = "pickup"
	AddressTypeDelivery AddressType = "delivery"
)

// IsValidAddressType checks if the given address type is supported.
func IsValidAddressType(at AddressType) bool {
	return at == AddressTypePickup || at == AddressTypeDelivery
}

// Error variables for better error handling and testability
var (
	ErrEmptyTrackingID    = errors.New("tracking ID cannot be empty")
	ErrInvalidState       = errors.New("invalid conversation state")
	ErrInvalidAddressType = errors.New("address type must be pickup or delivery")
)

// ConversationContext carries all variable state for one call between turns.
// It is caller-owned: the engine receives it by value and returns a replacement
// (possibly reset wholesale) in every Turn Result. At most one of Step,
// BookingStep and RescheduleStep is meaningful at a time, selected by the
// current ConversationState.
type ConversationContext struct {
	TrackingID       string         `json:"tracking_id,omitempty"`
	Action           Action         `json:"action,omitempty"`
	Step             Step           `json:"step,omitempty"`
	BookingStep      BookingStep    `json:"booking_step,omitempty"`
	RescheduleStep   RescheduleStep `json:"reschedule_step,omitempty"`
	AddressType      AddressType    `json:"address_type,omitempty"`
	CustomerName     string         `json:"customer_name,omitempty"`
	PickupAddress    string         `json:"pickup_address,omitempty"`
	DeliveryAddress  string         `json:"delivery_address,omitempty"`
	IdentityVerified bool           `json:"identity_verified,omitempty"`
	LastBooking      *Shipment      `json:"last_booking,omitempty"`
	LastTrackingID   string         `json:"last_tracking_id,omitempty"`
	LastUpdate       *Shipment      `json:"last_update,omitempty"`
}

// TurnResult is the output contract of every flow handler and of the engine itself.
type TurnResult struct {
	Message              string              `json:"message"`
	NextState            ConversationState   `json:"next_state"`
	Context              ConversationContext `json:"context"`
	ContinueConversation bool                `json:"continue_conversation"`
}
