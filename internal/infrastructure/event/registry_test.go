package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptions_MatchByType(t *testing.T) {
	var r subscriptions
	handler := newTestHandler("LeaseCreated", "LeaseUpdated")

	r.add(handler, "LeaseCreated", "LeaseUpdated")

	assert.Len(t, r.matching("LeaseCreated"), 1)
	assert.Len(t, r.matching("LeaseUpdated"), 1)
	assert.Empty(t, r.matching("LeaseDeleted"))
}

func TestSubscriptions_CatchAllKeepsOrder(t *testing.T) {
	var r subscriptions
	catchAll := newTestHandler()
	specific := newTestHandler("LeaseCreated")

	r.add(catchAll)
	r.add(specific, "LeaseCreated")

	handlers := r.matching("LeaseCreated")
	assert.Len(t, handlers, 2)
	assert.Same(t, catchAll, handlers[0])
	assert.Same(t, specific, handlers[1])
	assert.Len(t, r.matching("LeaseStatusChanged"), 1)
}

func TestSubscriptions_HandlerDeliveredOnce(t *testing.T) {
	var r subscriptions
	h := newTestHandler("LeaseCreated")

	r.add(h, "LeaseCreated")
	r.add(h)

	assert.Len(t, r.matching("LeaseCreated"), 1)
	assert.Equal(t, 1, r.handlerCount())
}

func TestSubscriptions_Remove(t *testing.T) {
	var r subscriptions
	a := newTestHandler("LeaseCreated")
	b := newTestHandler("LeaseCreated")

	r.add(a, "LeaseCreated")
	r.add(b, "LeaseCreated")
	r.add(a)

	r.remove(a)

	handlers := r.matching("LeaseCreated")
	assert.Len(t, handlers, 1)
	assert.Equal(t, b, handlers[0])
	assert.Equal(t, 1, r.handlerCount())
}
