package registry

import "sync"

// HostBoard publishes the current mount point for callers that were not
// handed one explicitly. Only one host is current at a time; the last
// Publish wins. Applications with several mount points should pass each
// trigger its own host instead.
type HostBoard[H any] struct {
	mu          sync.Mutex
	current     H
	has         bool
	subscribers []chan H
}

func NewHostBoard[H any]() *HostBoard[H] {
	return &HostBoard[H]{}
}

// Publish makes h current and hands it to every waiting subscriber.
func (b *HostBoard[H]) Publish(h H) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = h
	b.has = true

	for _, sub := range b.subscribers {
		sub <- h
		close(sub)
	}
	b.subscribers = nil
}

// Subscribe yields the next published host exactly once. A host that is
// already current is delivered immediately.
func (b *HostBoard[H]) Subscribe() <-chan H {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan H, 1)
	if b.has {
		ch <- b.current
		close(ch)
		return ch
	}
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Current returns the most recently published host.
func (b *HostBoard[H]) Current() (H, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current, b.has
}
