// Package notify implements the new-order notification pipeline: delivery
// transports on one side, a deduplicating courier-facing listener on the
// other. Transport semantics are deliberately not merged: the broadcast bus
// only reaches subscribers in this process, the poller converges on server
// state and works across devices, and inbound push covers backgrounded
// agents.
package notify

import "context"

// Transport is one delivery strategy for new-order events. Implementations
// block in Run until the context is canceled and must release their
// resources (timers, subscriptions) on the way out.
type Transport interface {
	Run(ctx context.Context) error
}
