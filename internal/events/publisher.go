// Package events announces ledger changes to other systems. Publishing is
// best effort: a failed publish is logged by the caller and never undoes a
// committed write.
package events

import (
	"context"
	"sync"
)

type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Message) error { return nil }
func (NoopPublisher) Close() error                           { return nil }

// MemoryPublisher keeps every message it is given. Tests use it to inspect
// what a service announced.
type MemoryPublisher struct {
	mu       sync.Mutex
	messages []Message
}

func (p *MemoryPublisher) Publish(_ context.Context, msg Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return nil
}

func (p *MemoryPublisher) Close() error { return nil }

func (p *MemoryPublisher) Messages() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Message(nil), p.messages...)
}
