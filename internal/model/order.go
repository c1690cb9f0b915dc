package model

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Observed order statuses. The column is free-form text; these are the values
// the application itself assigns.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// OrderItem is one line of an order. UnitPrice and TotalPrice are captured at
// construction time and stay frozen even if the product's price changes later.
type OrderItem struct {
	Product    Product         `json:"product"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// NewOrderItem creates an item snapshotting the product's current price.
func NewOrderItem(product Product, quantity int) OrderItem {
	return OrderItem{
		Product:    product,
		Quantity:   quantity,
		UnitPrice:  product.Price,
		TotalPrice: product.Price.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// Record returns the item as a flat map keyed by column name.
func (i OrderItem) Record() map[string]any {
	return map[string]any{
		"product_id":   i.Product.ID,
		"product_name": i.Product.Name,
		"quantity":     i.Quantity,
		"unit_price":   i.UnitPrice,
		"total_price":  i.TotalPrice,
	}
}

// Order represents a customer order with its line items.
type Order struct {
	ID          int64           `json:"id"`
	Customer    *Customer       `json:"customer"`
	OrderDate   string          `json:"orderDate"`
	Status      string          `json:"status"`
	Items       []OrderItem     `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// NewOrder creates a pending order for the given customer, dated now.
func NewOrder(customer *Customer) *Order {
	return &Order{
		Customer:  customer,
		OrderDate: time.Now().Format(TimeFormat),
		Status:    StatusPending,
	}
}

// AddItem appends a line item and keeps the running total in step. Adding the
// same product twice creates two distinct items; they are never merged.
func (o *Order) AddItem(product Product, quantity int) {
	item := NewOrderItem(product, quantity)
	o.Items = append(o.Items, item)
	o.TotalAmount = o.TotalAmount.Add(item.TotalPrice)
}

// ItemTotal recomputes the order total from its items. This is the source of
// truth; TotalAmount is the running copy maintained by AddItem and the two
// must agree for an order built through AddItem alone.
func (o *Order) ItemTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.TotalPrice)
	}
	return total
}

// Validate reports whether the order may be persisted: it needs a customer
// and at least one item.
func (o *Order) Validate() bool {
	return o.Customer != nil && len(o.Items) > 0
}

// Record returns the order as a flat map keyed by column name, with items
// nested as a slice of item records.
func (o *Order) Record() map[string]any {
	var customerID int64
	var customerName string
	if o.Customer != nil {
		customerID = o.Customer.ID
		customerName = o.Customer.Name
	}

	items := make([]map[string]any, len(o.Items))
	for i, item := range o.Items {
		items[i] = item.Record()
	}

	return map[string]any{
		"id":            o.ID,
		"customer_id":   customerID,
		"customer_name": customerName,
		"order_date":    o.OrderDate,
		"status":        o.Status,
		"total_amount":  o.TotalAmount,
		"items":         items,
	}
}

// SortOrdersByDate sorts orders newest first, in place.
func SortOrdersByDate(orders []*Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].OrderDate > orders[j].OrderDate
	})
}

// SortOrdersByAmount sorts orders by total amount, largest first, in place.
func SortOrdersByAmount(orders []*Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].TotalAmount.GreaterThan(orders[j].TotalAmount)
	})
}
