// Package memory keeps run completion notices in-process. The serve and run
// commands use it when no Pub/Sub topic is configured, and tests use it to
// inspect what a run announced.
package memory

import (
	"context"
	"fmt"
	"sync"
)

// Notice is one recorded publish call.
type Notice struct {
	ID      string
	Topic   string
	Payload any
}

// Publisher stores published payloads for inspection.
type Publisher struct {
	mu      sync.RWMutex
	notices []Notice
}

// New returns a memory Publisher.
func New() *Publisher {
	return &Publisher{}
}

// Publish records the payload and returns a sequential pseudo ID.
func (p *Publisher) Publish(_ context.Context, topic string, payload any) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := fmt.Sprintf("memory-%d", len(p.notices)+1)
	p.notices = append(p.notices, Notice{ID: id, Topic: topic, Payload: payload})
	return id, nil
}

// Notices returns a copy of the recorded publishes, oldest first.
func (p *Publisher) Notices() []Notice {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Notice, len(p.notices))
	copy(out, p.notices)
	return out
}

// Last returns the most recent notice.
func (p *Publisher) Last() (Notice, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.notices) == 0 {
		return Notice{}, false
	}
	return p.notices[len(p.notices)-1], true
}
