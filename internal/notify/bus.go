// Package notify provides the payload-free "collection changed" broadcast
// that keeps shelf processes in step with each other.
package notify

import (
	"sort"
	"sync"
)

// LinksChanged is the name of the signal published after every save.
const LinksChanged = "dev.shelf.linksChanged"

// Event is a named signal. It carries no payload; receivers reload
// whatever state the name refers to.
type Event struct {
	Name string
	// Origin identifies the publisher when it is known. Empty otherwise.
	Origin string
}

// Handler receives events.
type Handler func(Event)

// Token identifies a subscription so it can be removed.
type Token uint64

// Bus is a publish/subscribe channel for change signals.
type Bus interface {
	// Subscribe registers h and returns a token for Unsubscribe.
	Subscribe(h Handler) Token
	// Unsubscribe removes the handler registered under t. Unknown tokens are ignored.
	Unsubscribe(t Token)
	// Publish broadcasts e.
	Publish(e Event)
}

// registry holds subscribers for a bus implementation.
type registry struct {
	mu       sync.Mutex
	next     Token
	handlers map[Token]Handler
}

func (r *registry) subscribe(h Handler) Token {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.handlers == nil {
		r.handlers = make(map[Token]Handler)
	}
	r.next++
	r.handlers[r.next] = h
	return r.next
}

func (r *registry) unsubscribe(t Token) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, t)
}

// snapshot returns the current handlers in subscription order.
// Handlers run outside the lock so they may subscribe or unsubscribe.
func (r *registry) snapshot() []Handler {
	r.mu.Lock()
	defer r.mu.Unlock()

	tokens := make([]Token, 0, len(r.handlers))
	for t := range r.handlers {
		tokens = append(tokens, t)
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i] < tokens[j] })

	hs := make([]Handler, 0, len(tokens))
	for _, t := range tokens {
		hs = append(hs, r.handlers[t])
	}
	return hs
}

func (r *registry) dispatch(e Event) {
	for _, h := range r.snapshot() {
		h(e)
	}
}

// LocalBus delivers events synchronously to subscribers in the same process.
type LocalBus struct {
	reg registry
}

// NewLocalBus creates an empty in-process bus.
func NewLocalBus() *LocalBus {
	return &LocalBus{}
}

// Subscribe registers h.
func (b *LocalBus) Subscribe(h Handler) Token {
	return b.reg.subscribe(h)
}

// Unsubscribe removes a handler.
func (b *LocalBus) Unsubscribe(t Token) {
	b.reg.unsubscribe(t)
}

// Publish calls every handler before returning.
func (b *LocalBus) Publish(e Event) {
	b.reg.dispatch(e)
}

// Nop is a bus that drops everything.
type Nop struct{}

func (Nop) Subscribe(Handler) Token { return 0 }
func (Nop) Unsubscribe(Token)       {}
func (Nop) Publish(Event)           {}
