// Package session persists the billing workflow between steps: the selected
// orders, and the payloads left over when finalize stops for an online
// checkout.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pos-billing/internal/core"
)

// ErrNotFound is returned by Load for an absent or expired workflow.
var ErrNotFound = errors.New("workflow not found")

// DefaultTTL is how long a workflow survives without being saved again.
const DefaultTTL = 2 * time.Hour

// Workflow is the state carried across the external checkout round trip.
type Workflow struct {
	SelectedOrderIDs []int                   `json:"selected_order_ids"`
	Pending          []core.FinalizedPayload `json:"pending,omitempty"`
	CheckoutBillID   int                     `json:"checkout_bill_id,omitempty"`
	// Awaiting holds the bills of a halted finalize run, the checkout bill
	// included. Their receipts wait until the checkout is confirmed.
	Awaiting  []AwaitingBill `json:"awaiting,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// AwaitingBill is a created bill and the payment lines its receipt will show.
type AwaitingBill struct {
	BillID int                `json:"bill_id"`
	Lines  []core.PaymentLine `json:"lines"`
}

// Store keeps one workflow per key. Implementations are safe for concurrent
// use and treat entries older than their TTL as absent.
type Store interface {
	Load(ctx context.Context, key string) (*Workflow, error)
	Save(ctx context.Context, key string, w *Workflow) error
	Clear(ctx context.Context, key string) error
	Close() error
}

// Kind names a Store backend.
type Kind string

const (
	KindMemory   Kind = "memory"
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
)

// Options configures Open.
type Options struct {
	Kind        Kind
	SQLitePath  string
	DatabaseURL string
	TTL         time.Duration
}

// Open returns the store selected by opts.Kind.
func Open(ctx context.Context, opts Options) (Store, error) {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	switch opts.Kind {
	case KindMemory, "":
		return NewMemoryStore(ttl), nil
	case KindSQLite:
		return NewSQLiteStore(opts.SQLitePath, ttl)
	case KindPostgres:
		return NewPostgresStore(ctx, opts.DatabaseURL, ttl)
	}
	return nil, fmt.Errorf("unknown session store %q", opts.Kind)
}

func expired(updated time.Time, ttl time.Duration, now time.Time) bool {
	return now.Sub(updated) > ttl
}
