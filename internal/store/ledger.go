package store

import "sync"

// BidLedger records which auction ids this process has already bid on. It is
// the single arbiter of "first wins" when the same auction is discovered
// concurrently by several sources. Entries are never evicted; the set grows
// for the process lifetime.
type BidLedger struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

func NewBidLedger() *BidLedger {
	return &BidLedger{ids: make(map[string]struct{})}
}

func (l *BidLedger) Has(id string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.ids[id]
	return ok
}

// Mark inserts id into the ledger. Idempotent.
func (l *BidLedger) Mark(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ids[id] = struct{}{}
}

// TryMark inserts id and reports whether this call was the first to do so.
// Exactly one of any set of concurrent callers wins for a given id.
func (l *BidLedger) TryMark(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.ids[id]; ok {
		return false
	}
	l.ids[id] = struct{}{}
	return true
}

func (l *BidLedger) Size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.ids)
}
