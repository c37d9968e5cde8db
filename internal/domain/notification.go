package domain

import "time"

// EventKindNewOrder is the only event kind this client produces.
const EventKindNewOrder = "new_order"

// Event is a transient "new order assigned" signal addressed to exactly
// one courier. Events are never persisted; a restart loses pending ones.
type Event struct {
	ID              string    `json:"id"`
	Kind            string    `json:"kind"`
	TargetCourierID string    `json:"target_courier_id"`
	OrderID         string    `json:"order_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// PushSubscription is the descriptor handed to the backend's subscribe
// endpoint. Field names follow the web push wire format.
type PushSubscription struct {
	Endpoint string           `json:"endpoint"`
	Keys     SubscriptionKeys `json:"keys"`
}

// SubscriptionKeys holds the client key material of a push subscription.
type SubscriptionKeys struct {
	P256DH string `json:"p256dh"`
	Auth   string `json:"auth"`
}
