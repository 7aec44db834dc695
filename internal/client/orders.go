package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Gunvolt24/pos_reports/internal/domain"
	"github.com/Gunvolt24/pos_reports/internal/ports"
	"github.com/Gunvolt24/pos_reports/pkg/validate"
)

var _ ports.OrderSource = (*OrdersClient)(nil)

// OrdersClient — источник заказов через GET /api/order.
type OrdersClient struct {
	baseURL string
	http    *http.Client
}

// NewOrdersClient — клиент API заказов.
func NewOrdersClient(baseURL string, timeout time.Duration) *OrdersClient {
	return &OrdersClient{baseURL: baseURL, http: newHTTPClient(timeout)}
}

// ListOrders — все заказы бэкенда. Ответ: конверт {"data":[...]} или {"data":{"data":[...]}};
// записи, которые не разбираются как заказ, пропускаются.
func (c *OrdersClient) ListOrders(ctx context.Context) ([]domain.Order, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, joinURL(c.baseURL, ordersPath), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build orders request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get orders: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get orders: unexpected status %d", resp.StatusCode)
	}

	res, err := validate.ReadOrders(ctx, nil, io.LimitReader(resp.Body, maxBodyBytes), validate.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return res.Orders, nil
}
