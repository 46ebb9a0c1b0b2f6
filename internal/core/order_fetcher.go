package core

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// OrderFetcher loads the full records of the selected orders.
type OrderFetcher struct {
	src OrderSource
}

func NewOrderFetcher(src OrderSource) *OrderFetcher {
	return &OrderFetcher{src: src}
}

// FetchOrders fetches every id concurrently and returns the orders in the
// order of ids. The first failure cancels the remaining requests and no
// partial result is returned.
func (f *OrderFetcher) FetchOrders(ctx context.Context, ids []int) ([]Order, error) {
	if len(ids) == 0 {
		return nil, ErrNoOrdersSelected
	}

	orders := make([]Order, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			o, err := f.src.GetOrder(gctx, id)
			if err != nil {
				return &FetchError{Resource: "order", ID: id, Err: err}
			}
			if o == nil {
				return &FetchError{Resource: "order", ID: id, Err: ErrOrderNotFound}
			}
			orders[i] = *o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return orders, nil
}
