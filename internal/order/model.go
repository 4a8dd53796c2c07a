package order

import "time"

type Order struct {
	ID          string `json:"id"`
	OrderNumber string `json:"order_number"`
	SipperID    string `json:"sipper_id"`
	MakerID     string `json:"maker_id"`
	Status      Status `json:"status"`
	// NUMERIC -> string
	TotalAmount      string        `json:"total_amount"`
	Notes            string        `json:"notes,omitempty"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
	EstimatedReadyAt *time.Time    `json:"estimated_ready_at,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	Items            []Item        `json:"items,omitempty"`
}

// Item is a snapshot of the product at order time; name and unit price are
// denormalized so later catalog edits never change a placed order.
type Item struct {
	ID          string `json:"id"`
	OrderID     string `json:"order_id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Subtotal    string `json:"subtotal"`
}
