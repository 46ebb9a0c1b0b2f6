package posapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"pos-billing/internal/core"
)

var _ core.Backend = (*Client)(nil)

// ── Orders ───────────────────────────────────────────────────────────────────

func (c *Client) GetOrder(ctx context.Context, id int) (*core.Order, error) {
	var o core.Order
	if err := c.do(ctx, http.MethodGet, "/orders/{id}", "/orders/"+strconv.Itoa(id), nil, nil, &o); err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %w", core.ErrOrderNotFound, err)
		}
		return nil, err
	}
	return &o, nil
}

func (c *Client) ListOrders(ctx context.Context) ([]core.Order, error) {
	var out []core.Order
	if err := c.do(ctx, http.MethodGet, "/orders", "/orders", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListOrderTypes(ctx context.Context) ([]core.OrderType, error) {
	var out []core.OrderType
	if err := c.do(ctx, http.MethodGet, "/order-types", "/order-types", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListOrderStatuses(ctx context.Context) ([]core.OrderStatus, error) {
	var out []core.OrderStatus
	if err := c.do(ctx, http.MethodGet, "/orders/status", "/orders/status", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListMenuItems(ctx context.Context) ([]core.MenuItem, error) {
	var out []core.MenuItem
	if err := c.do(ctx, http.MethodGet, "/menu/items", "/menu/items", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListMenuCategories(ctx context.Context) ([]core.MenuCategory, error) {
	var out []core.MenuCategory
	if err := c.do(ctx, http.MethodGet, "/menu/categories", "/menu/categories", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListCustomers(ctx context.Context) ([]core.Customer, error) {
	var out []core.Customer
	if err := c.do(ctx, http.MethodGet, "/customers", "/customers", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ── Bills ────────────────────────────────────────────────────────────────────

func (c *Client) ListBills(ctx context.Context) ([]core.Bill, error) {
	var out []core.Bill
	if err := c.do(ctx, http.MethodGet, "/bills", "/bills", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListTodayBills(ctx context.Context) ([]core.Bill, error) {
	var out []core.Bill
	if err := c.do(ctx, http.MethodGet, "/bills/today", "/bills/today", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetBill(ctx context.Context, id int) (*core.Bill, error) {
	var b core.Bill
	if err := c.do(ctx, http.MethodGet, "/bills/{id}", "/bills/"+strconv.Itoa(id), nil, nil, &b); err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %w", core.ErrBillNotFound, err)
		}
		return nil, err
	}
	return &b, nil
}

func (c *Client) ListPaymentMethods(ctx context.Context) ([]core.PaymentMethod, error) {
	var out []core.PaymentMethod
	if err := c.do(ctx, http.MethodGet, "/bills/methods", "/bills/methods", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateEmptyBill returns the new bill id, or 0 when the response has none.
func (c *Client) CreateEmptyBill(ctx context.Context, req core.CreateBillRequest) (int, error) {
	var out struct {
		BillID int `json:"bill_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/bills/create-empty", "/bills/create-empty", nil, req, &out); err != nil {
		return 0, err
	}
	return out.BillID, nil
}

func (c *Client) AttachItems(ctx context.Context, billID int, payload core.FinalizedPayload) error {
	path := "/bills/" + strconv.Itoa(billID) + "/attach-items"
	return c.do(ctx, http.MethodPost, "/bills/{id}/attach-items", path, nil, payload, nil)
}

func (c *Client) PayBill(ctx context.Context, billID int, req core.PayBillRequest) error {
	path := "/bills/" + strconv.Itoa(billID) + "/pay"
	return c.do(ctx, http.MethodPost, "/bills/{id}/pay", path, nil, req, nil)
}

// ── Online checkout ──────────────────────────────────────────────────────────

// CreateCheckoutSession returns the hosted checkout URL, or "" when the
// response has none.
func (c *Client) CreateCheckoutSession(ctx context.Context, billID int) (string, error) {
	body := struct {
		BillID int `json:"bill_id"`
	}{billID}
	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/stripe/create-checkout-session", "/stripe/create-checkout-session", nil, body, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

func (c *Client) VerifyCheckoutSession(ctx context.Context, sessionID string) (*core.SessionVerification, error) {
	var out core.SessionVerification
	q := url.Values{"session_id": {sessionID}}
	if err := c.do(ctx, http.MethodGet, "/stripe/verify-session", "/stripe/verify-session", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Auth ─────────────────────────────────────────────────────────────────────

func (c *Client) Me(ctx context.Context) (*core.User, error) {
	var u core.User
	if err := c.do(ctx, http.MethodGet, "/me", "/me", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
