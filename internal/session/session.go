// Package session tracks active calls for hosts of the dialogue engine. The
// engine itself is stateless; whoever fronts it (HTTP, Twilio, NATS) owns the
// per-call state and keeps it here between turns.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/nikhilthakur97/Rocket-Logistics-ai-agent/internal/models"
)

// DefaultTTL is how long an idle call survives before a store may evict it.
const DefaultTTL = 30 * time.Minute

// Call is the engine state for one phone call, keyed by the telephony
// provider's call identifier.
type Call struct {
	CallSID    string                     `json:"call_sid"`
	FromNumber string                     `json:"from_number"`
	State      models.ConversationState   `json:"state"`
	Context    models.ConversationContext `json:"context"`
	StartedAt  time.Time                  `json:"started_at"`
	LastActive time.Time                  `json:"last_active"`
}

// NewCall starts tracking a call in the greeting state.
func NewCall(callSID, fromNumber string) *Call {
	now := time.Now()
	return &Call{
		CallSID:    callSID,
		FromNumber: fromNumber,
		State:      models.StateGreeting,
		Context:    models.ConversationContext{},
		StartedAt:  now,
		LastActive: now,
	}
}

// Manager persists call state between turns. Get returns nil, nil when the
// call is unknown.
type Manager interface {
	Get(ctx context.Context, callSID string) (*Call, error)
	Save(ctx context.Context, call *Call) error
	Delete(ctx context.Context, callSID string) error
	Close() error
}

// MemoryManager keeps calls in process memory. Suitable for a single-node
// deployment or tests.
type MemoryManager struct {
	mu    sync.RWMutex
	calls map[string]*Call
}

// NewMemoryManager creates an empty in-memory call manager.
func NewMemoryManager() *MemoryManager {
	return &MemoryManager{calls: make(map[string]*Call)}
}

func (m *MemoryManager) Get(_ context.Context, callSID string) (*Call, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	call, ok := m.calls[callSID]
	if !ok {
		return nil, nil
	}
	cp := *call
	return &cp, nil
}

func (m *MemoryManager) Save(_ context.Context, call *Call) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	call.LastActive = time.Now()
	cp := *call
	m.calls[call.CallSID] = &cp
	return nil
}

func (m *MemoryManager) Delete(_ context.Context, callSID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.calls, callSID)
	return nil
}

func (m *MemoryManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = make(map[string]*Call)
	return nil
}

// Len reports how many calls are currently tracked.
func (m *MemoryManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.calls)
}
