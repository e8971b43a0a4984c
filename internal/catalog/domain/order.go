package domain

import "github.com/railzwaylabs/storefront/pkg/money"

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	PaymentStatusPaid    = "paid"
)

type OrderUser struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// Order is the admin view of a customer order.
type Order struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"user_id"`
	PlanID        int64  `json:"plan_id"`
	OrderNumber   string `json:"order_number"`
	OrderStatus   string `json:"order_status"`
	PaymentStatus string `json:"payment_status"`
	BillingCycle  string `json:"billing_cycle"`

	TotalAmount    money.Rupees `json:"total_amount"`
	DiscountAmount money.Rupees `json:"discount_amount"`
	TaxAmount      money.Rupees `json:"tax_amount"`
	GrandTotal     money.Rupees `json:"grand_total"`
	Currency       string       `json:"currency"`
	PromoCode      string       `json:"promo_code,omitempty"`

	PlanName      string         `json:"plan_name"`
	PlanType      string         `json:"plan_type"`
	ServerDetails map[string]any `json:"server_details,omitempty"`

	PaymentMethod    string `json:"payment_method,omitempty"`
	PaymentReference string `json:"payment_reference,omitempty"`

	UserEmail string     `json:"user_email"`
	User      *OrderUser `json:"user,omitempty"`

	CreatedAt   string `json:"created_at"`
	PaidAt      string `json:"paid_at,omitempty"`
	CompletedAt string `json:"completed_at,omitempty"`
}

// Email prefers the joined user record over the denormalized column.
func (o Order) Email() string {
	if o.User != nil && o.User.Email != "" {
		return o.User.Email
	}
	return o.UserEmail
}

func (o Order) FullName() string {
	if o.User == nil {
		return ""
	}
	return o.User.FullName
}

// RevenueSummary aggregates the order list for the admin header cards.
type RevenueSummary struct {
	TotalOrders     int          `json:"total_orders"`
	CompletedOrders int          `json:"completed_orders"`
	PendingOrders   int          `json:"pending_orders"`
	TotalRevenue    money.Rupees `json:"total_revenue"`
}
