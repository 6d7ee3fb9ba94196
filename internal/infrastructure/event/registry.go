package event

import (
	"slices"
	"sync"

	"github.com/saifghl/lms/internal/domain/shared"
)

// subscription binds a handler to a set of event types. A nil set matches
// every event.
type subscription struct {
	handler shared.EventHandler
	types   map[string]struct{}
}

func (s subscription) matches(eventType string) bool {
	if s.types == nil {
		return true
	}
	_, ok := s.types[eventType]
	return ok
}

// subscriptions keeps handlers in subscription order, so delivery order is
// the order in which the composition root wired them.
type subscriptions struct {
	mu   sync.RWMutex
	subs []subscription
}

func (r *subscriptions) add(handler shared.EventHandler, eventTypes ...string) {
	sub := subscription{handler: handler}
	if len(eventTypes) > 0 {
		sub.types = make(map[string]struct{}, len(eventTypes))
		for _, t := range eventTypes {
			sub.types[t] = struct{}{}
		}
	}

	r.mu.Lock()
	r.subs = append(r.subs, sub)
	r.mu.Unlock()
}

func (r *subscriptions) remove(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = slices.DeleteFunc(r.subs, func(s subscription) bool { return s.handler == handler })
}

// matching returns the handlers for eventType, each at most once.
func (r *subscriptions) matching(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []shared.EventHandler
	for _, s := range r.subs {
		if s.matches(eventType) && !slices.Contains(out, s.handler) {
			out = append(out, s.handler)
		}
	}
	return out
}

// handlerCount counts distinct handlers.
func (r *subscriptions) handlerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make([]shared.EventHandler, 0, len(r.subs))
	for _, s := range r.subs {
		if !slices.Contains(seen, s.handler) {
			seen = append(seen, s.handler)
		}
	}
	return len(seen)
}
