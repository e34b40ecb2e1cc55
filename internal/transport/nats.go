// Package transport exposes the dialogue engine over NATS request/reply so
// other services can run turns without going through HTTP.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/dialogue"
	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/models"
)

// DefaultSubject is the request subject turns are served on.
const DefaultSubject = "logistics.dialogue.turn"

// turnTimeout bounds one dialogue turn, store lookups included.
const turnTimeout = 15 * time.Second

// TurnRequest is the NATS request payload. It mirrors the HTTP turn contract.
type TurnRequest struct {
	SessionID string                     `json:"session_id,omitempty"`
	Utterance string                     `json:"utterance"`
	State     models.ConversationState   `json:"state"`
	Context   models.ConversationContext `json:"context"`
}

// TurnReply is the NATS reply payload. Error is set instead of Result when
// the request itself was malformed.
type TurnReply struct {
	Result *models.TurnResult `json:"result,omitempty"`
	Error  string             `json:"error,omitempty"`
}

// NATSTransport serves dialogue turns over a NATS request/reply subject.
type NATSTransport struct {
	conn    *nats.Conn
	subject string
	agent   *dialogue.Agent
	sub     *nats.Subscription
}

// NewNATSTransport connects to the NATS server at natsURL. An empty subject
// falls back to DefaultSubject.
func NewNATSTransport(natsURL, subject string, agent *dialogue.Agent) (*NATSTransport, error) {
	if subject == "" {
		subject = DefaultSubject
	}
	conn, err := nats.Connect(natsURL,
		nats.Name("rocket-logistics-agent"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	slog.Info("NATSTransport: connected", "url", natsURL, "subject", subject)
	return &NATSTransport{conn: conn, subject: subject, agent: agent}, nil
}

// Start subscribes to the turn subject. Replies are sent on each message's
// reply inbox.
func (t *NATSTransport) Start() error {
	sub, err := t.conn.Subscribe(t.subject, t.handleTurnRequest)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", t.subject, err)
	}
	t.sub = sub
	slog.Info("NATSTransport.Start: subscribed", "subject", t.subject)
	return nil
}

func (t *NATSTransport) handleTurnRequest(msg *nats.Msg) {
	var req TurnRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		slog.Warn("NATSTransport.handleTurnRequest: failed to parse request", "error", err)
		t.reply(msg, TurnReply{Error: "invalid request format"})
		return
	}
	if req.State == "" {
		req.State = models.StateGreeting
	}
	if !models.IsValidConversationState(req.State) {
		slog.Warn("NATSTransport.handleTurnRequest: invalid state", "state", req.State)
		t.reply(msg, TurnReply{Error: "invalid conversation state"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
	defer cancel()

	result := t.agent.ProcessTurn(ctx, req.Utterance, req.State, req.Context)
	slog.Debug("NATSTransport.handleTurnRequest: turn processed", "sessionID", req.SessionID, "nextState", result.NextState)
	t.reply(msg, TurnReply{Result: &result})
}

func (t *NATSTransport) reply(msg *nats.Msg, reply TurnReply) {
	data, err := json.Marshal(reply)
	if err != nil {
		slog.Error("NATSTransport.reply: failed to marshal reply", "error", err)
		return
	}
	if err := msg.Respond(data); err != nil {
		slog.Error("NATSTransport.reply: failed to send reply", "error", err)
	}
}

// Close drains the subscription and closes the connection.
func (t *NATSTransport) Close() error {
	if t.sub != nil {
		if err := t.sub.Unsubscribe(); err != nil {
			slog.Warn("NATSTransport.Close: failed to unsubscribe", "error", err)
		}
	}
	if t.conn != nil {
		t.conn.Close()
		slog.Info("NATSTransport.Close: connection closed")
	}
	return nil
}
