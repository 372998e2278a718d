package router

import "sync"

// EventPageChanged is the name of the notification published after every
// completed navigation.
const EventPageChanged = "page-changed"

// PageChanged is the payload of the page-changed notification.
type PageChanged struct {
	Context *Context
}

// Bus is a synchronous observer list for PageChanged events. Listeners run
// in registration order on the publishing goroutine. A Bus may be shared by
// several routers.
type Bus struct {
	mu        sync.Mutex
	nextID    uint64
	listeners []listener
}

type listener struct {
	id uint64
	fn func(PageChanged)
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus) Subscribe(fn func(PageChanged)) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.listeners = append(b.listeners, listener{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, l := range b.listeners {
				if l.id == id {
					b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish delivers ev to every listener registered at the time of the call.
func (b *Bus) Publish(ev PageChanged) {
	b.mu.Lock()
	snapshot := make([]listener, len(b.listeners))
	copy(snapshot, b.listeners)
	b.mu.Unlock()

	for _, l := range snapshot {
		l.fn(ev)
	}
}

// Len returns the number of registered listeners.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}
