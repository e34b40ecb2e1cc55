// Package api provides the HTTP surface of the Rocket Logistics voice agent:
// a JSON turn endpoint for programmatic hosts and Twilio voice webhooks that
// drive a phone call through the dialogue engine.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/dialogue"
	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/logistics"
	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/session"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

// Opts holds configuration options for the API server.
type Opts struct {
	Addr           string
	TransferNumber string
}

// Option defines a configuration option for the API server.
type Option func(*Opts)

// WithAddr overrides the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// WithTransferNumber sets the phone number calls are dialed to when the
// engine hands off to a human agent. When empty, transfers end with an
// apology and a hangup.
func WithTransferNumber(number string) Option {
	return func(o *Opts) { o.TransferNumber = number }
}

// Server wires the dialogue engine, the shipment service and the call session
// manager behind HTTP.
type Server struct {
	addr           string
	transferNumber string
	agent          *dialogue.Agent
	shipments      *logistics.Service
	sessions       session.Manager
	httpSrv        *http.Server
}

// NewServer creates an API server. The session manager is used only by the
// Twilio webhooks; the JSON turn endpoint is stateless.
func NewServer(agent *dialogue.Agent, shipments *logistics.Service, sessions session.Manager, opts ...Option) *Server {
	cfg := Opts{Addr: DefaultAddr}
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("Creating API server", "addr", cfg.Addr, "transferConfigured", cfg.TransferNumber != "")
	return &Server{
		addr:           cfg.Addr,
		transferNumber: cfg.TransferNumber,
		agent:          agent,
		shipments:      shipments,
		sessions:       sessions,
	}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/turn", s.turnHandler)
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/webhook/voice", s.voiceWebhookHandler)
	mux.HandleFunc("/webhook/process-speech", s.processSpeechHandler)
	mux.HandleFunc("/webhook/transfer-human/{callSID}", s.transferHumanHandler)
	return mux
}

// Run starts the HTTP server and blocks until the context is cancelled or the
// listener fails.
func (s *Server) Run(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server.Run: API server listening", "addr", s.addr)
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down API server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("API server failed: %w", err)
	}
}

// healthHandler reports liveness.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
