package offload

import "sync"

// Latest hands out generation numbers per key so a caller can tell whether a
// result that just arrived still belongs to its newest request.
type Latest[K comparable] struct {
	mu  sync.Mutex
	gen map[K]uint64
}

// Next starts a new generation for key, making every earlier one stale.
func (l *Latest[K]) Next(key K) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gen == nil {
		l.gen = map[K]uint64{}
	}
	l.gen[key]++
	return l.gen[key]
}

// IsCurrent reports whether gen is the newest generation issued for key.
func (l *Latest[K]) IsCurrent(key K, gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen[key] == gen
}

// Invalidate makes every outstanding generation for key stale.
func (l *Latest[K]) Invalidate(key K) {
	l.Next(key)
}
