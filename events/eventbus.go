package events

import (
	"sync"

	"github.com/Starloss/iris-chain/core/types"
)

type EventBus struct {
	mu          sync.RWMutex
	receiptSubs []chan *types.Receipt
	eventSubs   []chan types.Event
}

func NewEventBus() *EventBus {
	return &EventBus{
		receiptSubs: make([]chan *types.Receipt, 0),
		eventSubs:   make([]chan types.Event, 0),
	}
}

// -------------------- Receipts --------------------

func (b *EventBus) SubscribeReceipts() <-chan *types.Receipt {
	ch := make(chan *types.Receipt, 16)

	b.mu.Lock()
	b.receiptSubs = append(b.receiptSubs, ch)
	b.mu.Unlock()

	return ch
}

func (b *EventBus) PublishReceipt(r *types.Receipt) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.receiptSubs {
		// non-blocking send
		select {
		case ch <- r:
		default:
		}
	}
}

// -------------------- Contract events --------------------

func (b *EventBus) SubscribeEvents() <-chan types.Event {
	ch := make(chan types.Event, 64)

	b.mu.Lock()
	b.eventSubs = append(b.eventSubs, ch)
	b.mu.Unlock()

	return ch
}

func (b *EventBus) PublishEvent(ev types.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.eventSubs {
		select {
		case ch <- ev:
		default:
		}
	}
}
