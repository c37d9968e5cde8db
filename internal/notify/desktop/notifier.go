// Package desktop raises operating-system notifications, degrading to a
// no-op when permission is denied or the platform offers no notification
// surface. Failures here must never interrupt order management.
package desktop

import (
	"fmt"
	"sync"

	"dispatch-admin/internal/logx"
)

// NotificationTitle is the fixed title of every new-order notification.
const NotificationTitle = "Nuevo pedido"

// NotificationBody is the fixed body text of every new-order notification.
const NotificationBody = "Toca para ver el pedido en curso."

// Permission mirrors the browser notification permission states.
type Permission string

// Notification permission states.
const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Sender delivers one notification to the operating system.
type Sender interface {
	Send(title, body string) error
}

// Notifier gates a Sender behind the permission model. Permission is
// requested at most once per session; when it is not granted the notifier
// silently degrades and the in-app banner remains the only surface.
type Notifier struct {
	mu         sync.Mutex
	send       Sender
	permission Permission
	requested  bool
	lastTag    string
	logger     logx.Logger
}

// NewNotifier creates a Notifier in the undecided permission state. A nil
// sender means notifications are unavailable on this platform.
func NewNotifier(send Sender, logger logx.Logger) *Notifier {
	return &Notifier{send: send, permission: PermissionDefault, logger: logger}
}

// RequestPermission resolves the permission state, once per session.
// Subsequent calls return the already-decided state.
func (n *Notifier) RequestPermission() Permission {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.requested || n.permission != PermissionDefault {
		return n.permission
	}
	n.requested = true
	if n.send == nil {
		n.permission = PermissionDenied
	} else {
		n.permission = PermissionGranted
	}
	return n.permission
}

// Permission returns the current permission state.
func (n *Notifier) Permission() Permission {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.permission
}

// Notify raises a notification tagged by the order id. Repeated calls with
// the same tag collapse instead of stacking. Errors are logged and
// swallowed; Notify never propagates a failure.
func (n *Notifier) Notify(orderID string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.permission != PermissionGranted || n.send == nil {
		return
	}
	tag := fmt.Sprintf("pedido-%s", orderID)
	if tag == n.lastTag {
		return
	}
	if err := n.send.Send(NotificationTitle, NotificationBody); err != nil {
		n.logger.Warn("os notification failed",
			logx.String("order_id", orderID),
			logx.Err(err),
		)
		return
	}
	n.lastTag = tag
}
