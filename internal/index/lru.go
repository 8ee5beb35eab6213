package index

import "sync"

// LRU wraps a Store and bounds the number of resident documents: when a Put
// would exceed capacity, the least recently used document is evicted. Get
// and Put both count as use.
type LRU struct {
	mu       sync.Mutex
	inner    Store
	capacity int
	order    []string // least recently used first
}

// NewLRU wraps inner with an eviction bound. A capacity below one disables
// eviction entirely.
func NewLRU(inner Store, capacity int) *LRU {
	return &LRU{inner: inner, capacity: capacity}
}

func (l *LRU) Put(documentID string, records []Record) error {
	if err := l.inner.Put(documentID, records); err != nil {
		return err
	}

	l.mu.Lock()
	l.touch(documentID)
	for l.capacity > 0 && len(l.order) > l.capacity {
		evict := l.order[0]
		l.order = l.order[1:]
		l.inner.Clear(evict)
	}
	l.mu.Unlock()
	return nil
}

func (l *LRU) Get(documentID string) ([]Record, bool) {
	records, ok := l.inner.Get(documentID)
	if ok {
		l.mu.Lock()
		l.touch(documentID)
		l.mu.Unlock()
	}
	return records, ok
}

func (l *LRU) Clear(documentID string) {
	l.mu.Lock()
	l.remove(documentID)
	l.mu.Unlock()
	l.inner.Clear(documentID)
}

func (l *LRU) Stats() Stats { return l.inner.Stats() }

func (l *LRU) touch(documentID string) {
	l.remove(documentID)
	l.order = append(l.order, documentID)
}

func (l *LRU) remove(documentID string) {
	for i, id := range l.order {
		if id == documentID {
			l.order = append(l.order[:i], l.order[i+1:]...)
			return
		}
	}
}
