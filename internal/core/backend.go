package core

import "context"

//go:generate mockgen -source=backend.go -destination=../mocks/backend_mock.go -package=mocks

// OrderSource reads orders.
type OrderSource interface {
	GetOrder(ctx context.Context, id int) (*Order, error)
}

// BillWriter is what the finalizer needs from the backend.
type BillWriter interface {
	CreateEmptyBill(ctx context.Context, req CreateBillRequest) (int, error)
	AttachItems(ctx context.Context, billID int, payload FinalizedPayload) error
	CreateCheckoutSession(ctx context.Context, billID int) (string, error)
}

// SessionVerifier confirms online checkout sessions.
type SessionVerifier interface {
	VerifyCheckoutSession(ctx context.Context, sessionID string) (*SessionVerification, error)
}

// BillPayer records payments against existing bills.
type BillPayer interface {
	PayBill(ctx context.Context, billID int, req PayBillRequest) error
}

// Backend is the full REST surface used by the billing workflow.
type Backend interface {
	OrderSource
	BillWriter
	SessionVerifier
	BillPayer

	ListOrders(ctx context.Context) ([]Order, error)
	ListBills(ctx context.Context) ([]Bill, error)
	ListTodayBills(ctx context.Context) ([]Bill, error)
	GetBill(ctx context.Context, id int) (*Bill, error)
	ListPaymentMethods(ctx context.Context) ([]PaymentMethod, error)
	ListMenuItems(ctx context.Context) ([]MenuItem, error)
	ListMenuCategories(ctx context.Context) ([]MenuCategory, error)
	ListOrderTypes(ctx context.Context) ([]OrderType, error)
	ListOrderStatuses(ctx context.Context) ([]OrderStatus, error)
	ListCustomers(ctx context.Context) ([]Customer, error)
	Me(ctx context.Context) (*User, error)
}
