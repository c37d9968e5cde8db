package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"dispatch-admin/internal/config"
	"dispatch-admin/internal/domain"
	"dispatch-admin/internal/logx"
	"dispatch-admin/internal/session"
)

// CreateOrderInput is the validated payload of an order creation.
type CreateOrderInput struct {
	CourierID   string
	MerchantID  string
	FinalValue  int64
	DeliveryFee *int64
	Destination string
}

// Client talks to the dispatch REST backend. All privileged calls carry the
// bearer token from the session store; a 401 clears the session.
type Client struct {
	http    *resty.Client
	session *session.Store
	logger  logx.Logger
}

// NewClient creates a dispatch backend client.
func NewClient(cfg config.API, sess *session.Store, logger logx.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &Client{http: httpClient, session: sess, logger: logger}
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if token := c.session.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}

// do executes the request and decodes the payload into out, unwrapping the
// optional {data: value} envelope. A nil out skips decoding.
func (c *Client) do(req *resty.Request, method, url string, out any) error {
	resp, err := req.Execute(method, url)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, transportError(err))
	}

	status := resp.StatusCode()
	if status == http.StatusUnauthorized {
		c.session.Clear()
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return &BackendError{Status: status, Message: normalizeMessage(resp.Body(), "")}
	}

	if out == nil {
		return nil
	}
	payload := unwrap(resp.Body())
	if len(payload) == 0 || string(payload) == "null" {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, url, err)
	}
	return nil
}

// unwrap transparently strips the {data: value} response envelope; absence
// of a data field means the raw body is the payload.
func unwrap(body []byte) json.RawMessage {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 {
		return envelope.Data
	}
	return body
}

// ListCouriers fetches the couriers available for assignment.
func (c *Client) ListCouriers(ctx context.Context) ([]domain.Courier, error) {
	var dtos []courierDTO
	if err := c.do(c.request(ctx), http.MethodGet, "/api/v1/domiciliarios", &dtos); err != nil {
		return nil, err
	}
	couriers := make([]domain.Courier, 0, len(dtos))
	for _, dto := range dtos {
		couriers = append(couriers, toCourier(dto))
	}
	return couriers, nil
}

// ListMerchants fetches the merchants available for assignment.
func (c *Client) ListMerchants(ctx context.Context) ([]domain.Merchant, error) {
	var dtos []merchantDTO
	if err := c.do(c.request(ctx), http.MethodGet, "/api/v1/comercios", &dtos); err != nil {
		return nil, err
	}
	merchants := make([]domain.Merchant, 0, len(dtos))
	for _, dto := range dtos {
		merchants = append(merchants, toMerchant(dto))
	}
	return merchants, nil
}

// CreateOrder submits a new order assignment. Never retried: exactly one
// creation request per confirmed submission.
func (c *Client) CreateOrder(ctx context.Context, in CreateOrderInput) (domain.Order, error) {
	body := createOrderRequest{
		UsuarioID:        in.CourierID,
		ComercioID:       in.MerchantID,
		ValorFinal:       in.FinalValue,
		ValorDomicilio:   in.DeliveryFee,
		DireccionDestino: in.Destination,
	}
	var dto orderDTO
	req := c.request(ctx).SetBody(body)
	if err := c.do(req, http.MethodPost, "/api/v1/pedidos/admin", &dto); err != nil {
		return domain.Order{}, err
	}
	return toOrder(dto), nil
}

// ListToday fetches today's orders.
func (c *Client) ListToday(ctx context.Context) ([]domain.Order, error) {
	var dtos []orderDTO
	if err := c.do(c.request(ctx), http.MethodGet, "/api/v1/pedidos/admin/today", &dtos); err != nil {
		return nil, err
	}
	return toOrders(dtos), nil
}

// ListHistory fetches orders for a past date (YYYY-MM-DD).
func (c *Client) ListHistory(ctx context.Context, date string) ([]domain.Order, error) {
	var dtos []orderDTO
	req := c.request(ctx).SetQueryParam("date", date)
	if err := c.do(req, http.MethodGet, "/api/v1/pedidos/admin/history", &dtos); err != nil {
		return nil, err
	}
	return toOrders(dtos), nil
}

// UpdateStatus requests an order status transition; the server is the
// authority, the caller re-reads the list afterwards.
func (c *Client) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error) {
	var dto orderDTO
	req := c.request(ctx).
		SetBody(updateStatusRequest{Estado: string(status)}).
		SetPathParam("id", orderID)
	if err := c.do(req, http.MethodPatch, "/api/v1/pedidos/admin/{id}/estado", &dto); err != nil {
		return domain.Order{}, err
	}
	return toOrder(dto), nil
}

// CurrentDelivery fetches the authenticated courier's current order, or nil
// when there is none. Absence is a normal state, not an error.
func (c *Client) CurrentDelivery(ctx context.Context) (*domain.Order, error) {
	var dto *orderDTO
	if err := c.do(c.request(ctx), http.MethodGet, "/api/v1/pedidos/admin/domiciliarios/current", &dto); err != nil {
		return nil, err
	}
	if dto == nil || dto.ID == "" {
		return nil, nil
	}
	ord := toOrder(*dto)
	return &ord, nil
}

// SubscribePush hands a push subscription descriptor to the backend. The
// endpoint is idempotent.
func (c *Client) SubscribePush(ctx context.Context, sub domain.PushSubscription) error {
	req := c.request(ctx).SetBody(sub)
	return c.do(req, http.MethodPost, "/api/v1/notifications/subscribe", nil)
}
