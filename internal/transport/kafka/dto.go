package kafka

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"dispatch-admin/internal/domain"
)

// PayloadDTO is the inbound push payload. Presentation fields are optional
// and get defaults when absent; only the order id is required.
type PayloadDTO struct {
	Title           string    `json:"title,omitempty"`
	Body            string    `json:"body,omitempty"`
	Icon            string    `json:"icon,omitempty"`
	URL             string    `json:"url,omitempty"`
	OrderID         string    `json:"orderId"`
	TargetCourierID string    `json:"targetCourierId,omitempty"`
	CreatedAt       time.Time `json:"createdAt,omitempty"`
}

// ToEvent converts a push payload to a domain event. It returns false when
// the payload carries no order id.
func ToEvent(dto PayloadDTO) (domain.Event, bool) {
	orderID := strings.TrimSpace(dto.OrderID)
	if orderID == "" {
		return domain.Event{}, false
	}

	createdAt := dto.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return domain.Event{
		ID:              uuid.NewString(),
		Kind:            domain.EventKindNewOrder,
		TargetCourierID: strings.TrimSpace(dto.TargetCourierID),
		OrderID:         orderID,
		CreatedAt:       createdAt,
	}, true
}
