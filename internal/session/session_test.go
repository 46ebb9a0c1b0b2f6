package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-billing/internal/core"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func storesUnderTest(t *testing.T, c *clock) map[string]Store {
	t.Helper()
	mem := NewMemoryStore(time.Hour)
	mem.now = c.now

	lite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "nested", "session.db"), time.Hour)
	require.NoError(t, err)
	lite.now = c.now
	t.Cleanup(func() { lite.Close() })

	return map[string]Store{"memory": mem, "sqlite": lite}
}

func TestStore_RoundTrip(t *testing.T) {
	c := &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	for name, s := range storesUnderTest(t, c) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := s.Load(ctx, "till-1")
			assert.ErrorIs(t, err, ErrNotFound)

			w := &Workflow{
				SelectedOrderIDs: []int{4, 9},
				CheckoutBillID:   77,
				Pending: []core.FinalizedPayload{{
					OrderIDs:        []int{4},
					ItemIDs:         []int{2},
					Amount:          decimal.RequireFromString("40"),
					PaymentMethodID: 1,
				}},
				Awaiting: []AwaitingBill{{
					BillID: 76,
					Lines:  []core.PaymentLine{{MethodName: "Cash", Amount: decimal.RequireFromString("60")}},
				}},
			}
			require.NoError(t, s.Save(ctx, "till-1", w))

			got, err := s.Load(ctx, "till-1")
			require.NoError(t, err)
			assert.Equal(t, []int{4, 9}, got.SelectedOrderIDs)
			assert.Equal(t, 77, got.CheckoutBillID)
			require.Len(t, got.Pending, 1)
			assert.True(t, decimal.NewFromInt(40).Equal(got.Pending[0].Amount))
			require.Len(t, got.Awaiting, 1)
			assert.Equal(t, 76, got.Awaiting[0].BillID)
			assert.Equal(t, "Cash", got.Awaiting[0].Lines[0].MethodName)

			_, err = s.Load(ctx, "till-2")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Clear(ctx, "till-1"))
			_, err = s.Load(ctx, "till-1")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStore_Expiry(t *testing.T) {
	c := &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	for name, s := range storesUnderTest(t, c) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Save(ctx, "k", &Workflow{SelectedOrderIDs: []int{1}}))

			c.t = c.t.Add(59 * time.Minute)
			_, err := s.Load(ctx, "k")
			require.NoError(t, err)

			c.t = c.t.Add(2 * time.Minute)
			_, err = s.Load(ctx, "k")
			assert.ErrorIs(t, err, ErrNotFound)

			c.t = c.t.Add(-30 * time.Minute)
			_, err = s.Load(ctx, "k")
			assert.ErrorIs(t, err, ErrNotFound, "expired entries are deleted on read")
		})
		c.t = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}
}

func TestOpen(t *testing.T) {
	s, err := Open(context.Background(), Options{Kind: KindMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = Open(context.Background(), Options{Kind: "redis"})
	assert.Error(t, err)

	_, err = Open(context.Background(), Options{Kind: KindSQLite})
	assert.Error(t, err)
}

func TestPostgresStore(t *testing.T) {
	_ = godotenv.Load("../../.env")
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test")
	}
	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dbURL, time.Hour)
	require.NoError(t, err)
	defer s.Close()

	key := "test-" + time.Now().Format("150405.000")
	require.NoError(t, s.Save(ctx, key, &Workflow{SelectedOrderIDs: []int{3}}))
	got, err := s.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, got.SelectedOrderIDs)
	require.NoError(t, s.Clear(ctx, key))
}
