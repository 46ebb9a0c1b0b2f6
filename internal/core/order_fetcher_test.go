package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"pos-billing/internal/core"
	"pos-billing/internal/mocks"
)

func TestOrderFetcher_KeepsInputOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockOrderSource(ctrl)
	src.EXPECT().GetOrder(gomock.Any(), gomock.Any()).Times(3).
		DoAndReturn(func(_ context.Context, id int) (*core.Order, error) {
			return &core.Order{ID: id, Total: d("10")}, nil
		})

	orders, err := core.NewOrderFetcher(src).FetchOrders(context.Background(), []int{9, 3, 5})
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, 9, orders[0].ID)
	assert.Equal(t, 3, orders[1].ID)
	assert.Equal(t, 5, orders[2].ID)
}

func TestOrderFetcher_FailsWhole(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockOrderSource(ctrl)
	src.EXPECT().GetOrder(gomock.Any(), 2).Return(nil, core.ErrOrderNotFound)
	src.EXPECT().GetOrder(gomock.Any(), gomock.Not(2)).AnyTimes().
		DoAndReturn(func(_ context.Context, id int) (*core.Order, error) {
			return &core.Order{ID: id}, nil
		})

	orders, err := core.NewOrderFetcher(src).FetchOrders(context.Background(), []int{1, 2, 3})
	assert.Nil(t, orders)
	var ferr *core.FetchError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, 2, ferr.ID)
	assert.ErrorIs(t, err, core.ErrOrderNotFound)
}

func TestOrderFetcher_NilOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockOrderSource(ctrl)
	src.EXPECT().GetOrder(gomock.Any(), 4).Return(nil, nil)

	_, err := core.NewOrderFetcher(src).FetchOrders(context.Background(), []int{4})
	assert.True(t, errors.Is(err, core.ErrOrderNotFound))
}

func TestOrderFetcher_EmptySelection(t *testing.T) {
	_, err := core.NewOrderFetcher(nil).FetchOrders(context.Background(), nil)
	assert.ErrorIs(t, err, core.ErrNoOrdersSelected)
}
