package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/twilio/twilio-go/twiml"

	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/models"
	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/session"
)

const voiceGreeting = "Thank you for calling Rocket Shipment. I can help you track a shipment, book a new shipment, reschedule a delivery, update an address, or cancel a shipment. How can I help you today?"

// voiceWebhookHandler answers a new inbound Twilio call: it registers the
// call session and asks Twilio to gather the caller's first utterance.
func (s *Server) voiceWebhookHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.Warn("Server.voiceWebhookHandler: failed to parse form", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	callSID := r.PostFormValue("CallSid")
	from := r.PostFormValue("From")
	slog.Info("Server.voiceWebhookHandler: incoming call", "callSID", callSID, "from", from)

	call := session.NewCall(callSID, from)
	call.State = models.StateIntentDetection
	if err := s.sessions.Save(r.Context(), call); err != nil {
		slog.Error("Server.voiceWebhookHandler: failed to save call session", "error", err, "callSID", callSID)
	}

	doc, err := s.gatherSpeech(voiceGreeting)
	if err != nil {
		slog.Error("Server.voiceWebhookHandler: failed to render TwiML", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeTwiMLResponse(w, doc)
}

// processSpeechHandler receives Twilio's transcription of the caller's last
// utterance, runs one dialogue turn, and renders the reply as TwiML.
func (s *Server) processSpeechHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.Warn("Server.processSpeechHandler: failed to parse form", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	callSID := r.PostFormValue("CallSid")
	from := r.PostFormValue("From")
	utterance := r.PostFormValue("SpeechResult")
	// A star key press anywhere requests a human agent.
	if digits := r.PostFormValue("Digits"); strings.Contains(digits, "*") {
		utterance = "*"
	}

	call, err := s.sessions.Get(r.Context(), callSID)
	if err != nil {
		slog.Error("Server.processSpeechHandler: failed to load call session", "error", err, "callSID", callSID)
	}
	if call == nil {
		// Session expired or the node restarted; start the call over.
		call = session.NewCall(callSID, from)
		call.State = models.StateIntentDetection
	}

	result := s.agent.ProcessTurn(r.Context(), utterance, call.State, call.Context)
	s.shipments.LogInteraction(r.Context(), callSID, from, string(result.NextState), result.Context.TrackingID, utterance)

	var doc string
	switch {
	case result.NextState == models.StateTransferHuman:
		doc, err = s.transferTwiML(result.Message)
		s.endCallSession(r, callSID)
	case !result.ContinueConversation:
		doc, err = hangupTwiML(result.Message)
		s.endCallSession(r, callSID)
	default:
		call.State = result.NextState
		call.Context = result.Context
		if saveErr := s.sessions.Save(r.Context(), call); saveErr != nil {
			slog.Error("Server.processSpeechHandler: failed to save call session", "error", saveErr, "callSID", callSID)
		}
		doc, err = s.gatherSpeech(result.Message)
	}
	if err != nil {
		slog.Error("Server.processSpeechHandler: failed to render TwiML", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeTwiMLResponse(w, doc)
}

// transferHumanHandler hands an in-progress call to the human agent line
// directly, outside the dialogue loop, and drops its session.
func (s *Server) transferHumanHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	callSID := r.PathValue("callSID")
	slog.Info("Server.transferHumanHandler: transferring call", "callSID", callSID)

	s.endCallSession(r, callSID)

	doc, err := s.transferTwiML("Please hold while I transfer you to a human agent.")
	if err != nil {
		slog.Error("Server.transferHumanHandler: failed to render TwiML", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeTwiMLResponse(w, doc)
}

func (s *Server) endCallSession(r *http.Request, callSID string) {
	if err := s.sessions.Delete(r.Context(), callSID); err != nil {
		slog.Error("Server.endCallSession: failed to delete call session", "error", err, "callSID", callSID)
	}
}

// gatherSpeech speaks the message and collects the next utterance. Speech and
// DTMF are both accepted so the star key works mid-prompt.
func (s *Server) gatherSpeech(message string) (string, error) {
	gather := &twiml.VoiceGather{
		Input:         "speech dtmf",
		Action:        "/webhook/process-speech",
		Method:        "POST",
		SpeechTimeout: "auto",
		NumDigits:     "1",
		Language:      "en-US",
		InnerElements: []twiml.Element{
			&twiml.VoiceSay{Message: message},
		},
	}
	retry := &twiml.VoiceSay{Message: "I didn't hear anything. Let's try again."}
	redirect := &twiml.VoiceRedirect{Url: "/webhook/process-speech", Method: "POST"}
	return twiml.Voice([]twiml.Element{gather, retry, redirect})
}

// transferTwiML speaks the handoff message and dials the human agent line,
// or apologizes and hangs up when no line is configured.
func (s *Server) transferTwiML(message string) (string, error) {
	verbs := []twiml.Element{&twiml.VoiceSay{Message: message}}
	if s.transferNumber != "" {
		verbs = append(verbs, &twiml.VoiceDial{Number: s.transferNumber})
	} else {
		verbs = append(verbs,
			&twiml.VoiceSay{Message: "I'm sorry, no agents are available right now. Please call back later."},
			&twiml.VoiceHangup{},
		)
	}
	return twiml.Voice(verbs)
}

func hangupTwiML(message string) (string, error) {
	return twiml.Voice([]twiml.Element{
		&twiml.VoiceSay{Message: message},
		&twiml.VoiceHangup{},
	})
}
