package notify

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Emission is one domain notification produced after a ledger write commits.
// Payloads carry asset ids and digests only, never plaintext identifiers.
type Emission struct {
	Event     string          `json:"event"`
	Payload   json.RawMessage `json:"payload"`
	EmittedAt time.Time       `json:"emittedAt"`
}

// Emitter delivers notifications to off-ledger subscribers. Fire-and-forget:
// delivery failures never fail the ledger call that produced the emission.
type Emitter interface {
	Emit(event string, payload []byte)
}

// LogEmitter writes emissions to the process log. Default for the node.
type LogEmitter struct{}

func (LogEmitter) Emit(event string, payload []byte) {
	log.Printf("[NOTIFY] event=%s payload=%s", event, payload)
}

// Feed keeps the most recent emissions in a bounded ring so the gateway can
// serve them to polling subscribers.
type Feed struct {
	mu   sync.Mutex
	ring []Emission
	max  int
	now  func() time.Time
}

func NewFeed(max int) *Feed {
	if max <= 0 {
		max = 256
	}
	return &Feed{max: max, now: func() time.Time { return time.Now().UTC() }}
}

func (f *Feed) Emit(event string, payload []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ring = append(f.ring, Emission{
		Event:     event,
		Payload:   append(json.RawMessage(nil), payload...),
		EmittedAt: f.now(),
	})
	if len(f.ring) > f.max {
		f.ring = f.ring[len(f.ring)-f.max:]
	}
}

// Recent returns the buffered emissions, oldest first.
func (f *Feed) Recent() []Emission {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Emission, len(f.ring))
	copy(out, f.ring)
	return out
}

// Multi fans one emission out to several emitters.
type Multi []Emitter

func (m Multi) Emit(event string, payload []byte) {
	for _, e := range m {
		e.Emit(event, payload)
	}
}
