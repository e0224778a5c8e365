package trigger

import "sync"

// Bus delivers events of type E to subscribed handlers in subscription
// order. It is safe for concurrent use. Handlers run on the emitting
// goroutine and may subscribe or unsubscribe from within a delivery.
type Bus[E any] struct {
	mu   sync.Mutex
	next uint64
	subs []*subscriber[E]
}

type subscriber[E any] struct {
	id   uint64
	fn   func(E)
	once bool
}

// Subscription is the handle returned by [Bus.Subscribe] and [Bus.Once].
type Subscription struct {
	unsubscribe func()
	once        sync.Once
}

// Unsubscribe removes the handler. Calling it more than once, or after a
// once-handler already fired, does nothing.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.unsubscribe == nil {
		return
	}
	s.once.Do(s.unsubscribe)
}

// Subscribe registers fn for every subsequent event.
func (b *Bus[E]) Subscribe(fn func(E)) *Subscription {
	return b.add(fn, false)
}

// Once registers fn for the next event only.
func (b *Bus[E]) Once(fn func(E)) *Subscription {
	return b.add(fn, true)
}

func (b *Bus[E]) add(fn func(E), once bool) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	id := b.next
	b.subs = append(b.subs, &subscriber[E]{id: id, fn: fn, once: once})
	return &Subscription{unsubscribe: func() { b.remove(id) }}
}

func (b *Bus[E]) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Emit delivers e to every current subscriber. Once-handlers are removed
// before they run, so a re-entrant Emit never delivers to them twice.
// It returns the number of handlers called.
func (b *Bus[E]) Emit(e E) int {
	b.mu.Lock()
	targets := make([]*subscriber[E], len(b.subs))
	copy(targets, b.subs)
	kept := b.subs[:0]
	for _, s := range b.subs {
		if !s.once {
			kept = append(kept, s)
		}
	}
	clear(b.subs[len(kept):])
	b.subs = kept
	b.mu.Unlock()

	for _, s := range targets {
		s.fn(e)
	}
	return len(targets)
}

// Len returns the number of registered handlers.
func (b *Bus[E]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
