package dialogue

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/logistics"
	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/models"
)

// mockShipmentService records calls and returns canned results.
type mockShipmentService struct {
	shipment    *models.Shipment
	err         error
	verified    bool
	cancelCalls int
	lastID      string
}

func (m *mockShipmentService) Lookup(_ context.Context, trackingID string) (*models.Shipment, error) {
	m.lastID = trackingID
	return m.shipment, m.err
}

func (m *mockShipmentService) Book(_ context.Context, name, pickup, delivery, date string) (*models.Shipment, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.Shipment{
		TrackingID:      "11223344",
		CustomerName:    name,
		PickupAddress:   pickup,
		DeliveryAddress: delivery,
		DeliveryDate:    date,
		Status:          models.ShipmentStatusBooked,
	}, nil
}

func (m *mockShipmentService) Reschedule(_ context.Context, trackingID, newDate string) (*models.Shipment, error) {
	m.lastID = trackingID
	if m.err != nil {
		return nil, m.err
	}
	sh := *m.shipment
	sh.DeliveryDate = newDate
	sh.Status = models.ShipmentStatusRescheduled
	return &sh, nil
}

func (m *mockShipmentService) Cancel(_ context.Context, trackingID string) (*models.Shipment, error) {
	m.cancelCalls++
	m.lastID = trackingID
	if m.err != nil {
		return nil, m.err
	}
	sh := *m.shipment
	sh.Status = models.ShipmentStatusCancelled
	return &sh, nil
}

func (m *mockShipmentService) UpdateAddress(_ context.Context, trackingID string, kind models.AddressType, newAddress string) (*models.Shipment, error) {
	m.lastID = trackingID
	if m.err != nil {
		return nil, m.err
	}
	return m.shipment, nil
}

func (m *mockShipmentService) UpdateDeliveryTime(_ context.Context, trackingID, newTime, newDate string) (*models.Shipment, error) {
	m.lastID = trackingID
	if m.err != nil {
		return nil, m.err
	}
	return m.shipment, nil
}

func (m *mockShipmentService) VerifyIdentity(_ context.Context, spokenName, trackingID string) (bool, *models.Shipment, error) {
	m.lastID = trackingID
	if m.err != nil {
		return false, nil, m.err
	}
	return m.verified, m.shipment, nil
}

func testShipment() *models.Shipment {
	return &models.Shipment{
		TrackingID:      "12345678",
		CustomerName:    "john smith",
		PickupAddress:   "10 main st, springfield, il",
		DeliveryAddress: "22 oak ave, portland, or",
		DeliveryDate:    "2025-12-15",
		Status:          models.ShipmentStatusBooked,
	}
}

func newTestAgent(svc ShipmentService) *Agent {
	return NewAgent(svc, NewDateParser(2025))
}

func TestProcessTurnTracksVolunteeredID(t *testing.T) {
	svc := &mockShipmentService{shipment: testShipment()}
	agent := newTestAgent(svc)

	res := agent.ProcessTurn(context.Background(), "track 12345678 please", models.StateIntentDetection, models.ConversationContext{})
	if res.NextState != models.StateIntentDetection {
		t.Errorf("next state = %v, want intent_detection", res.NextState)
	}
	if !res.ContinueConversation {
		t.Error("conversation should continue after a tracking answer")
	}
	if res.Context.LastTrackingID != "12345678" {
		t.Errorf("last tracking ID = %q, want 12345678", res.Context.LastTrackingID)
	}
	if !strings.Contains(res.Message, "portland") {
		t.Errorf("tracking response should name the destination city, got %q", res.Message)
	}
	if svc.lastID != "12345678" {
		t.Errorf("looked up %q, want 12345678", svc.lastID)
	}
}

func TestProcessTurnTrackingNotFound(t *testing.T) {
	svc := &mockShipmentService{err: logistics.ErrNotFound}
	agent := newTestAgent(svc)

	in := models.ConversationContext{LastTrackingID: "12345678"}
	res := agent.ProcessTurn(context.Background(), "87654321", models.StateTracking, in)
	if res.NextState != models.StateIntentDetection {
		t.Errorf("next state = %v, want intent_detection", res.NextState)
	}
	if !res.ContinueConversation {
		t.Error("conversation should continue after a failed lookup")
	}
	if !strings.Contains(res.Message, "couldn't find") {
		t.Errorf("message should report the miss, got %q", res.Message)
	}
	if res.Context.LastTrackingID != "12345678" {
		t.Errorf("context should survive a failed lookup, got %+v", res.Context)
	}
}

func TestProcessTurnCancelWithVolunteeredID(t *testing.T) {
	svc := &mockShipmentService{shipment: testShipment()}
	agent := newTestAgent(svc)

	res := agent.ProcessTurn(context.Background(), "cancel shipment 12345678", models.StateIntentDetection, models.ConversationContext{})
	if svc.cancelCalls != 1 {
		t.Fatalf("Cancel called %d times, want 1", svc.cancelCalls)
	}
	if res.NextState != models.StateIntentDetection || !res.ContinueConversation {
		t.Errorf("unexpected result after cancel: state=%v continue=%v", res.NextState, res.ContinueConversation)
	}
	if res.Context != (models.ConversationContext{}) {
		t.Errorf("context should be reset after a completed cancellation, got %+v", res.Context)
	}
}

func TestProcessTurnCancelAlreadyCancelled(t *testing.T) {
	svc := &mockShipmentService{err: logistics.ErrAlreadyCancelled}
	agent := newTestAgent(svc)

	res := agent.ProcessTurn(context.Background(), "cancel 12345678", models.StateIntentDetection, models.ConversationContext{})
	if res.NextState != models.StateIntentDetection || !res.ContinueConversation {
		t.Errorf("already-cancelled should return to intent detection, got state=%v continue=%v", res.NextState, res.ContinueConversation)
	}
	if !strings.Contains(res.Message, "already cancelled") {
		t.Errorf("message should report the shipment is already cancelled, got %q", res.Message)
	}
}

func TestProcessTurnHumanTransferWinsEverywhere(t *testing.T) {
	agent := newTestAgent(&mockShipmentService{shipment: testShipment()})
	for _, state := range []models.ConversationState{
		models.StateIntentDetection, models.StateBooking, models.StateCancellation, models.StateIdentityVerification,
	} {
		res := agent.ProcessTurn(context.Background(), "i want a human", state, models.ConversationContext{TrackingID: "12345678"})
		if res.NextState != models.StateTransferHuman {
			t.Errorf("state %v: next state = %v, want transfer_human", state, res.NextState)
		}
		if res.ContinueConversation {
			t.Errorf("state %v: conversation should end on transfer", state)
		}
	}
}

func TestProcessTurnBookingFlow(t *testing.T) {
	svc := &mockShipmentService{}
	agent := newTestAgent(svc)
	ctx := context.Background()

	res := agent.ProcessTurn(ctx, "i want to book a shipment", models.StateIntentDetection, models.ConversationContext{})
	if res.NextState != models.StateBooking || res.Context.BookingStep != models.BookingStepCustomerName {
		t.Fatalf("booking should start with the customer name slot, got state=%v step=%v", res.NextState, res.Context.BookingStep)
	}

	res = agent.ProcessTurn(ctx, "jane doe", res.NextState, res.Context)
	if res.Context.CustomerName != "jane doe" || res.Context.BookingStep != models.BookingStepPickupAddress {
		t.Fatalf("name slot not filled: %+v", res.Context)
	}

	res = agent.ProcessTurn(ctx, "10 main st, springfield, il", res.NextState, res.Context)
	if res.Context.BookingStep != models.BookingStepDeliveryAddress {
		t.Fatalf("pickup slot not filled: %+v", res.Context)
	}

	res = agent.ProcessTurn(ctx, "22 oak ave, portland, or", res.NextState, res.Context)
	if res.Context.BookingStep != models.BookingStepDeliveryDate {
		t.Fatalf("delivery slot not filled: %+v", res.Context)
	}

	// An unparseable date re-prompts without losing the filled slots.
	res = agent.ProcessTurn(ctx, "whenever", res.NextState, res.Context)
	if res.NextState != models.StateBooking || res.Context.DeliveryAddress == "" {
		t.Fatalf("date re-prompt lost state: %+v", res.Context)
	}

	res = agent.ProcessTurn(ctx, "december 15th", res.NextState, res.Context)
	if res.NextState != models.StateIntentDetection {
		t.Fatalf("booking should finish at intent detection, got %v", res.NextState)
	}
	if res.Context.LastBooking == nil || res.Context.LastBooking.TrackingID != "11223344" {
		t.Fatalf("booked shipment not kept for repeat requests: %+v", res.Context)
	}
	if !strings.Contains(res.Message, "1-1-2-2-3-3-4-4") {
		t.Errorf("tracking ID should be spelled out, got %q", res.Message)
	}

	// The caller can now ask for the tracking ID again.
	res = agent.ProcessTurn(ctx, "repeat my tracking number", res.NextState, res.Context)
	if !strings.Contains(res.Message, "1-1-2-2-3-3-4-4") {
		t.Errorf("repeat should spell the ID again, got %q", res.Message)
	}
}

func TestProcessTurnIdentityGate(t *testing.T) {
	ctx := context.Background()

	t.Run("mismatch transfers to human", func(t *testing.T) {
		svc := &mockShipmentService{shipment: testShipment(), verified: false}
		agent := newTestAgent(svc)
		res := agent.ProcessTurn(ctx, "totally different name", models.StateIdentityVerification,
			models.ConversationContext{TrackingID: "12345678", Action: models.ActionReschedule})
		if res.NextState != models.StateTransferHuman || res.ContinueConversation {
			t.Errorf("mismatch should transfer, got state=%v continue=%v", res.NextState, res.ContinueConversation)
		}
	})

	t.Run("match resumes reschedule", func(t *testing.T) {
		svc := &mockShipmentService{shipment: testShipment(), verified: true}
		agent := newTestAgent(svc)
		res := agent.ProcessTurn(ctx, "john", models.StateIdentityVerification,
			models.ConversationContext{TrackingID: "12345678", Action: models.ActionReschedule})
		if res.NextState != models.StateRescheduling || res.Context.RescheduleStep != models.RescheduleStepGetNewDate {
			t.Fatalf("verified caller should resume rescheduling, got state=%v step=%v", res.NextState, res.Context.RescheduleStep)
		}
		if !res.Context.IdentityVerified {
			t.Error("context should record the verification")
		}

		res = agent.ProcessTurn(ctx, "december 20th", res.NextState, res.Context)
		if res.NextState != models.StateIntentDetection || res.Context.LastUpdate == nil {
			t.Errorf("reschedule should complete, got state=%v context=%+v", res.NextState, res.Context)
		}
		if !strings.Contains(res.Message, "2025-12-20") {
			t.Errorf("message should confirm the new date, got %q", res.Message)
		}
	})

	t.Run("match resumes cancellation with confirmation", func(t *testing.T) {
		svc := &mockShipmentService{shipment: testShipment(), verified: true}
		agent := newTestAgent(svc)
		res := agent.ProcessTurn(ctx, "john smith", models.StateIdentityVerification,
			models.ConversationContext{TrackingID: "12345678", Action: models.ActionCancel})
		if res.NextState != models.StateCancellation || res.Context.Step != models.StepConfirmCancellation {
			t.Fatalf("verified caller should be asked to confirm, got state=%v step=%v", res.NextState, res.Context.Step)
		}
		if svc.cancelCalls != 0 {
			t.Fatal("nothing should be cancelled before confirmation")
		}

		res = agent.ProcessTurn(ctx, "no wait", res.NextState, res.Context)
		if svc.cancelCalls != 0 {
			t.Error("declining must not cancel")
		}
		if res.NextState != models.StateCompletion || !res.ContinueConversation {
			t.Errorf("declined cancellation: state=%v continue=%v", res.NextState, res.ContinueConversation)
		}
	})

	t.Run("lost tracking ID restarts collection", func(t *testing.T) {
		agent := newTestAgent(&mockShipmentService{})
		res := agent.ProcessTurn(ctx, "john", models.StateIdentityVerification, models.ConversationContext{})
		if res.NextState != models.StateRescheduling {
			t.Errorf("missing tracking ID should restart collection, got %v", res.NextState)
		}
	})
}

func TestProcessTurnAddressUpdateFlow(t *testing.T) {
	svc := &mockShipmentService{shipment: testShipment(), verified: true}
	agent := newTestAgent(svc)
	ctx := context.Background()

	res := agent.ProcessTurn(ctx, "i need to change my address", models.StateIntentDetection, models.ConversationContext{})
	if res.NextState != models.StateAddressUpdate || res.Context.Action != models.ActionUpdateAddress {
		t.Fatalf("address update should start by collecting an ID: state=%v action=%v", res.NextState, res.Context.Action)
	}

	res = agent.ProcessTurn(ctx, "12345678", res.NextState, res.Context)
	if res.NextState != models.StateIdentityVerification {
		t.Fatalf("ID collection should route to the identity gate, got %v", res.NextState)
	}

	res = agent.ProcessTurn(ctx, "john smith", res.NextState, res.Context)
	if res.NextState != models.StateAddressUpdate || res.Context.Step != models.StepSelectAddressType {
		t.Fatalf("verified caller should pick an address type, got state=%v step=%v", res.NextState, res.Context.Step)
	}

	res = agent.ProcessTurn(ctx, "the delivery address", res.NextState, res.Context)
	if res.Context.AddressType != models.AddressTypeDelivery || res.Context.Step != models.StepGetNewAddress {
		t.Fatalf("address type not resolved: %+v", res.Context)
	}

	res = agent.ProcessTurn(ctx, "99 new st, denver, co", res.NextState, res.Context)
	if res.NextState != models.StateCompletion || !res.ContinueConversation {
		t.Errorf("address update should complete, got state=%v continue=%v", res.NextState, res.ContinueConversation)
	}
	if !strings.Contains(res.Message, "99 new st") {
		t.Errorf("confirmation should read back the address, got %q", res.Message)
	}
}

func TestProcessTurnSystemFailureTransfers(t *testing.T) {
	svc := &mockShipmentService{err: errors.New("store unreachable")}
	agent := newTestAgent(svc)

	res := agent.ProcessTurn(context.Background(), "track 12345678", models.StateIntentDetection, models.ConversationContext{})
	if res.NextState != models.StateTransferHuman || res.ContinueConversation {
		t.Errorf("system failure should transfer and end, got state=%v continue=%v", res.NextState, res.ContinueConversation)
	}
}

func TestProcessTurnFarewellEndsCall(t *testing.T) {
	agent := newTestAgent(&mockShipmentService{})
	res := agent.ProcessTurn(context.Background(), "thats all, goodbye", models.StateIntentDetection, models.ConversationContext{})
	if res.NextState != models.StateCompletion || res.ContinueConversation {
		t.Errorf("farewell should end the call, got state=%v continue=%v", res.NextState, res.ContinueConversation)
	}
}

func TestProcessTurnUnclearShowsMenu(t *testing.T) {
	agent := newTestAgent(&mockShipmentService{})
	res := agent.ProcessTurn(context.Background(), "blue elephants", models.StateIntentDetection, models.ConversationContext{})
	if res.NextState != models.StateIntentDetection || !res.ContinueConversation {
		t.Errorf("unclear input should stay at intent detection, got state=%v continue=%v", res.NextState, res.ContinueConversation)
	}
	if !strings.Contains(res.Message, "track") {
		t.Errorf("menu should list capabilities, got %q", res.Message)
	}
}
