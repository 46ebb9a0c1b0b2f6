package app

import (
	"sync"
	"time"

	"pos-billing/internal/core"
)

// settlementBook remembers the payment lines of bills settled through this
// process so their receipts show the tenders used. Bills of a run halted on
// a checkout are held until the checkout is confirmed. Entries expire after
// ttl; an expired or unknown bill falls back to the backend's paid flag.
type settlementBook struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[int]settlement
}

type settlement struct {
	lines []core.PaymentLine
	held  bool
	at    time.Time
}

func newSettlementBook(ttl time.Duration) *settlementBook {
	return &settlementBook{ttl: ttl, now: time.Now, entries: make(map[int]settlement)}
}

// record stores lines for billID and releases any hold on it.
func (b *settlementBook) record(billID int, lines []core.PaymentLine) {
	b.put(billID, settlement{lines: lines})
}

// hold stores lines for billID but keeps its receipt back.
func (b *settlementBook) hold(billID int, lines []core.PaymentLine) {
	b.put(billID, settlement{lines: lines, held: true})
}

func (b *settlementBook) put(billID int, s settlement) {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	for id, e := range b.entries {
		if now.Sub(e.at) > b.ttl {
			delete(b.entries, id)
		}
	}
	s.at = now
	b.entries[billID] = s
}

// lookup returns the live entry for billID, dropping it once expired.
func (b *settlementBook) lookup(billID int) (settlement, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.entries[billID]
	if !ok {
		return settlement{}, false
	}
	if b.now().Sub(s.at) > b.ttl {
		delete(b.entries, billID)
		return settlement{}, false
	}
	return s, true
}

func (b *settlementBook) size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}
