// Package dialogue implements the per-call conversation engine for the Rocket
// Logistics hotline: intent classification, the state-machine flow handlers,
// and the orchestrator that dispatches one transcribed utterance per turn.
//
// The engine holds no mutable state between turns. Each call to ProcessTurn is
// a pure function of (utterance, state, context) plus collaborator calls, so a
// host can re-enter after a crash as long as it kept the context alive.
package dialogue

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/models"
)

// ShipmentService is the shipment store collaborator consumed by the flow
// handlers. It is satisfied by logistics.Service.
type ShipmentService interface {
	Lookup(ctx context.Context, trackingID string) (*models.Shipment, error)
	Book(ctx context.Context, customerName, pickupAddress, deliveryAddress, deliveryDate string) (*models.Shipment, error)
	Reschedule(ctx context.Context, trackingID, newDate string) (*models.Shipment, error)
	Cancel(ctx context.Context, trackingID string) (*models.Shipment, error)
	UpdateAddress(ctx context.Context, trackingID string, kind models.AddressType, newAddress string) (*models.Shipment, error)
	UpdateDeliveryTime(ctx context.Context, trackingID, newTime, newDate string) (*models.Shipment, error)
	VerifyIdentity(ctx context.Context, spokenName, trackingID string) (bool, *models.Shipment, error)
}

// Agent drives the multi-turn conversation. One Agent serves any number of
// concurrent calls; all per-call state lives in the caller-supplied context.
type Agent struct {
	shipments ShipmentService
	dates     *DateParser
}

// NewAgent creates a dialogue agent backed by the given shipment service and
// date parser.
func NewAgent(shipments ShipmentService, dates *DateParser) *Agent {
	slog.Debug("Creating dialogue agent", "hasShipments", shipments != nil)
	return &Agent{shipments: shipments, dates: dates}
}

// ProcessTurn processes one transcribed utterance and returns the next prompt,
// state and context. Any unexpected failure — a collaborator error or a panic —
// is converted into a transfer_human result with the conversation ended; this
// is the engine's single blanket fault boundary.
func (a *Agent) ProcessTurn(ctx context.Context, utterance string, state models.ConversationState, convCtx models.ConversationContext) (result models.TurnResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Agent.ProcessTurn: panic recovered", "panic", r, "state", state)
			result = systemFailureResult(convCtx)
		}
	}()

	msg := strings.ToLower(strings.TrimSpace(utterance))
	slog.Info("Agent.ProcessTurn: processing utterance", "utterance", msg, "state", state)

	// Human transfer requests win in every state.
	if wantsHumanAgent(msg) {
		return transferToHuman()
	}

	var res models.TurnResult
	var err error
	switch state {
	case models.StateGreeting:
		res, err = a.handleIntentDetection(ctx, msg, convCtx)
	case models.StateIntentDetection:
		res, err = a.handleIntentDetection(ctx, msg, convCtx)
	case models.StateTracking:
		res, err = a.handleTracking(ctx, msg, convCtx)
	case models.StateBooking:
		res, err = a.handleBooking(ctx, msg, convCtx)
	case models.StateRescheduling:
		res, err = a.handleRescheduling(ctx, msg, convCtx)
	case models.StateCancellation:
		res, err = a.handleCancellation(ctx, msg, convCtx)
	case models.StateAddressUpdate:
		res, err = a.handleAddressUpdate(ctx, msg, convCtx)
	case models.StateTimeUpdate:
		res, err = a.handleTimeUpdate(ctx, msg, convCtx)
	case models.StateIdentityVerification:
		res, err = a.handleIdentityVerification(ctx, msg, convCtx)
	default:
		res, err = a.handleIntentDetection(ctx, msg, convCtx)
	}
	if err != nil {
		slog.Error("Agent.ProcessTurn: handler failed", "error", err, "state", state)
		return systemFailureResult(convCtx)
	}
	return res
}

// transferToHuman ends the dialogue and hands the call to a human agent.
func transferToHuman() models.TurnResult {
	return models.TurnResult{
		Message:              "I'll transfer you to one of our human agents who can better assist you. Please hold.",
		NextState:            models.StateTransferHuman,
		Context:              models.ConversationContext{},
		ContinueConversation: false,
	}
}

// systemFailureResult is the uniform fault-boundary result for unexpected
// collaborator failures.
func systemFailureResult(convCtx models.ConversationContext) models.TurnResult {
	return models.TurnResult{
		Message:              "I'm sorry, I'm having technical difficulties. Let me transfer you to a human agent.",
		NextState:            models.StateTransferHuman,
		Context:              convCtx,
		ContinueConversation: false,
	}
}
