package domain

import "time"

// OrderStatus represents the backend status of an order.
type OrderStatus string

// List of possible order statuses.
const (
	StatusInProgress OrderStatus = "EN_PROCESO"
	StatusDone       OrderStatus = "HECHO"
	StatusCanceled   OrderStatus = "CANCELADO"
)

var allowedStatuses = [...]OrderStatus{
	StatusInProgress, StatusDone, StatusCanceled,
}

// Valid checks if the OrderStatus is one the backend accepts.
func (s OrderStatus) Valid() bool {
	for _, v := range allowedStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Order represents a delivery assignment owned by the backend. The id is
// server-assigned and immutable; the client never mutates an order locally,
// it re-reads the list after every transition.
type Order struct {
	ID           string      `json:"id"`
	CourierID    string      `json:"courier_id"`
	MerchantID   string      `json:"merchant_id"`
	FinalValue   int64       `json:"final_value"`
	DeliveryFee  *int64      `json:"delivery_fee,omitempty"`
	Destination  string      `json:"destination"`
	Status       OrderStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	CourierName  string      `json:"courier_name,omitempty"`
	MerchantName string      `json:"merchant_name,omitempty"`
	MerchantAddr string      `json:"merchant_addr,omitempty"`
	AssignedBy   string      `json:"assigned_by,omitempty"`
}

// StatusCounts aggregates a list of orders by status, used by the
// history view.
type StatusCounts struct {
	InProgress int
	Done       int
	Canceled   int
}

// CountByStatus tallies per-status totals over a list of orders.
func CountByStatus(orders []Order) StatusCounts {
	var c StatusCounts
	for _, o := range orders {
		switch o.Status {
		case StatusInProgress:
			c.InProgress++
		case StatusDone:
			c.Done++
		case StatusCanceled:
			c.Canceled++
		}
	}
	return c
}

// GroupByCourier buckets orders per assigned courier preserving the input
// order inside each bucket. Keys follow first appearance.
func GroupByCourier(orders []Order) ([]string, map[string][]Order) {
	keys := make([]string, 0)
	groups := make(map[string][]Order)
	for _, o := range orders {
		if _, ok := groups[o.CourierID]; !ok {
			keys = append(keys, o.CourierID)
		}
		groups[o.CourierID] = append(groups[o.CourierID], o)
	}
	return keys, groups
}
