package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/models"
)

// TurnRequest is the body of POST /v1/turn. State and context round-trip
// between turns unchanged; the caller owns them.
type TurnRequest struct {
	SessionID string                     `json:"session_id,omitempty"`
	Utterance string                     `json:"utterance"`
	State     models.ConversationState   `json:"state"`
	Context   models.ConversationContext `json:"context"`
}

// turnHandler processes one dialogue turn for a programmatic host. It holds
// no session state; the request carries everything.
func (s *Server) turnHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.turnHandler: processing turn request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		slog.Warn("Server.turnHandler: method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.turnHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}

	if req.State == "" {
		req.State = models.StateGreeting
	}
	if !models.IsValidConversationState(req.State) {
		slog.Warn("Server.turnHandler: invalid state", "state", req.State)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid conversation state"))
		return
	}

	result := s.agent.ProcessTurn(r.Context(), req.Utterance, req.State, req.Context)
	slog.Info("Server.turnHandler: turn processed", "sessionID", req.SessionID, "nextState", result.NextState)
	writeJSONResponse(w, http.StatusOK, models.Success(result))
}
