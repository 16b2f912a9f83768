package event

import (
	"sync"

	"github.com/ventureflow/backend/internal/domain/shared"
)

// handlerRegistry maps event types to subscribed handlers.
// A handler registered without types receives every event.
type handlerRegistry struct {
	mu       sync.RWMutex
	byType   map[string][]shared.EventHandler
	wildcard []shared.EventHandler
}

func newHandlerRegistry() *handlerRegistry {
	return &handlerRegistry{byType: make(map[string][]shared.EventHandler)}
}

func (r *handlerRegistry) register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(eventTypes) == 0 {
		r.wildcard = append(r.wildcard, handler)
		return
	}
	for _, t := range eventTypes {
		r.byType[t] = append(r.byType[t], handler)
	}
}

func (r *handlerRegistry) unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.wildcard = without(r.wildcard, handler)
	for t, handlers := range r.byType {
		if rest := without(handlers, handler); len(rest) > 0 {
			r.byType[t] = rest
		} else {
			delete(r.byType, t)
		}
	}
}

// handlersFor returns a snapshot so dispatch runs without holding the lock
func (r *handlerRegistry) handlersFor(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typed := r.byType[eventType]
	out := make([]shared.EventHandler, 0, len(typed)+len(r.wildcard))
	out = append(out, typed...)
	return append(out, r.wildcard...)
}

func without(handlers []shared.EventHandler, target shared.EventHandler) []shared.EventHandler {
	out := make([]shared.EventHandler, 0, len(handlers))
	for _, h := range handlers {
		if h != target {
			out = append(out, h)
		}
	}
	return out
}
