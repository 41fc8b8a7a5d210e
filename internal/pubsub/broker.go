// Package pubsub provides an in-process fan-out of values to subscribers.
package pubsub

import (
	"context"
	"sync"
)

// Broker fans out published values to subscribers.
// Each subscriber channel holds at most one pending value: a slow
// subscriber skips intermediate values and always sees the latest one.
// The zero value is not usable; create brokers with New.
type Broker[T any] struct {
	last    T
	subs    map[chan T]struct{}
	mu      sync.Mutex
	hasLast bool
	closed  bool
}

// New creates an empty Broker.
func New[T any]() *Broker[T] {
	return &Broker[T]{subs: make(map[chan T]struct{})}
}

// Subscribe registers a subscriber for the lifetime of ctx.
// If a value has been published, it is delivered first.
// The returned channel is closed when ctx is done or the broker is closed.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch
	}
	if b.hasLast {
		ch <- b.last
	}
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.unsubscribe(ch)
	}()
	return ch
}

func (b *Broker[T]) unsubscribe(ch chan T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[ch]; !ok {
		return
	}
	delete(b.subs, ch)
	close(ch)
}

// Publish delivers v to every subscriber and remembers it for new ones.
// Publish never blocks on a slow subscriber.
func (b *Broker[T]) Publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.last = v
	b.hasLast = true
	for ch := range b.subs {
		SendLatest(ch, v)
	}
}

// SendLatest sends v on a channel with a buffer of one without blocking,
// replacing a value the receiver has not picked up yet.
// ch must have a single sender.
func SendLatest[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}

// Latest returns the last published value and whether one exists.
func (b *Broker[T]) Latest() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last, b.hasLast
}

// Len returns the number of active subscribers.
func (b *Broker[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close closes every subscriber channel. Later Subscribe calls return
// closed channels and Publish becomes a no-op.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}
