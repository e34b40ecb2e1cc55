package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/dialogue"
	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/logistics"
	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/models"
	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/session"
	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.InMemoryStore) {
	t.Helper()
	st := store.NewInMemoryStore()
	shipments := logistics.NewService(st)
	agent := dialogue.NewAgent(shipments, dialogue.NewDateParser(2025))
	srv := NewServer(agent, shipments, session.NewMemoryManager(), WithTransferNumber("+15559990000"))
	return srv, st
}

func seedShipment(t *testing.T, st *store.InMemoryStore) {
	t.Helper()
	err := st.SaveShipment(models.Shipment{
		TrackingID:      "12345678",
		CustomerName:    "john smith",
		PickupAddress:   "10 main st, springfield, il",
		DeliveryAddress: "22 oak ave, portland, or",
		DeliveryDate:    "2025-12-15",
		Status:          models.ShipmentStatusBooked,
	})
	if err != nil {
		t.Fatalf("failed to seed shipment: %v", err)
	}
}

func postTurn(t *testing.T, srv *Server, req TurnRequest) (*httptest.ResponseRecorder, models.APIResponse) {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/v1/turn", bytes.NewReader(body))
	srv.turnHandler(w, r)

	var resp models.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return w, resp
}

func turnResult(t *testing.T, resp models.APIResponse) models.TurnResult {
	t.Helper()
	data, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("failed to remarshal result: %v", err)
	}
	var result models.TurnResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("failed to decode turn result: %v", err)
	}
	return result
}

func TestTurnHandlerTracksShipment(t *testing.T) {
	srv, st := newTestServer(t)
	seedShipment(t, st)

	w, resp := postTurn(t, srv, TurnRequest{
		SessionID: "s1",
		Utterance: "track my package 12345678",
		State:     models.StateIntentDetection,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if resp.Status != string(models.APIStatusOK) {
		t.Fatalf("response status = %q, want ok", resp.Status)
	}
	result := turnResult(t, resp)
	if result.NextState != models.StateIntentDetection || !result.ContinueConversation {
		t.Errorf("unexpected result: state=%v continue=%v", result.NextState, result.ContinueConversation)
	}
	if !strings.Contains(result.Message, "portland") {
		t.Errorf("message should name the destination city, got %q", result.Message)
	}
}

func TestTurnHandlerDefaultsToGreeting(t *testing.T) {
	srv, _ := newTestServer(t)
	w, resp := postTurn(t, srv, TurnRequest{Utterance: "hello"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	result := turnResult(t, resp)
	if result.NextState != models.StateIntentDetection {
		t.Errorf("greeting turn should land at intent detection, got %v", result.NextState)
	}
}

func TestTurnHandlerRejectsInvalidState(t *testing.T) {
	srv, _ := newTestServer(t)
	w, resp := postTurn(t, srv, TurnRequest{Utterance: "hi", State: "daydreaming"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if resp.Status != string(models.APIStatusError) {
		t.Errorf("response status = %q, want error", resp.Status)
	}
}

func TestTurnHandlerRejectsBadJSON(t *testing.T) {
	srv, _ := newTestServer(t)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/v1/turn", strings.NewReader("{nope"))
	srv.turnHandler(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestTurnHandlerMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/v1/turn", nil)
	srv.turnHandler(w, r)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	srv, _ := newTestServer(t)
	w := httptest.NewRecorder()
	srv.healthHandler(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ok") {
		t.Errorf("body = %q, want an ok status", w.Body.String())
	}
}

func postWebhookForm(t *testing.T, handler http.HandlerFunc, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	handler(w, r)
	return w
}

func TestVoiceWebhookGreetsAndGathers(t *testing.T) {
	srv, _ := newTestServer(t)
	w := postWebhookForm(t, srv.voiceWebhookHandler, "/webhook/voice", url.Values{
		"CallSid": {"CA123"},
		"From":    {"+15550001111"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "<Gather") {
		t.Errorf("TwiML should gather speech, got %q", body)
	}
	if !strings.Contains(body, "Rocket Shipment") {
		t.Errorf("TwiML should speak the greeting, got %q", body)
	}
}

func TestProcessSpeechWebhookRunsTurn(t *testing.T) {
	srv, st := newTestServer(t)
	seedShipment(t, st)

	// Register the call first, as Twilio would.
	postWebhookForm(t, srv.voiceWebhookHandler, "/webhook/voice", url.Values{
		"CallSid": {"CA123"},
		"From":    {"+15550001111"},
	})

	w := postWebhookForm(t, srv.processSpeechHandler, "/webhook/process-speech", url.Values{
		"CallSid":      {"CA123"},
		"From":         {"+15550001111"},
		"SpeechResult": {"track my package 12345678"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "portland") {
		t.Errorf("TwiML should speak the tracking answer, got %q", body)
	}
	if !strings.Contains(body, "<Gather") {
		t.Errorf("conversation should continue with another gather, got %q", body)
	}

	logs, err := st.GetCallLogs()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(logs) == 0 {
		t.Error("turn should be recorded in the call log")
	}
}

func TestProcessSpeechWebhookStarTransfers(t *testing.T) {
	srv, _ := newTestServer(t)
	w := postWebhookForm(t, srv.processSpeechHandler, "/webhook/process-speech", url.Values{
		"CallSid": {"CA999"},
		"From":    {"+15550001111"},
		"Digits":  {"*"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "<Dial") || !strings.Contains(body, "+15559990000") {
		t.Errorf("star press should dial the transfer number, got %q", body)
	}
}

func TestTransferHumanWebhookDialsAndDropsSession(t *testing.T) {
	srv, _ := newTestServer(t)
	postWebhookForm(t, srv.voiceWebhookHandler, "/webhook/voice", url.Values{
		"CallSid": {"CA555"},
		"From":    {"+15550001111"},
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/webhook/transfer-human/CA555", nil)
	srv.routes().ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "<Dial") || !strings.Contains(body, "+15559990000") {
		t.Errorf("transfer should dial the human agent line, got %q", body)
	}
	call, err := srv.sessions.Get(r.Context(), "CA555")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if call != nil {
		t.Error("transferred call session should be deleted")
	}
}

func TestProcessSpeechWebhookFarewellHangsUp(t *testing.T) {
	srv, _ := newTestServer(t)
	w := postWebhookForm(t, srv.processSpeechHandler, "/webhook/process-speech", url.Values{
		"CallSid":      {"CA777"},
		"From":         {"+15550001111"},
		"SpeechResult": {"thats all, goodbye"},
	})
	body := w.Body.String()
	if !strings.Contains(body, "<Hangup") {
		t.Errorf("farewell should hang up, got %q", body)
	}
}
