// Пакет client — HTTP-клиенты бэкенда POS (заказы, регистрация сотрудников).
package client

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	ordersPath   = "/api/order"
	registerPath = "/api/user/register"

	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 10 << 20
)

// newHTTPClient — клиент с трейсингом исходящих запросов.
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}

// apiMessage — поле message из JSON-ответа бэкенда; пусто, если его нет.
func apiMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	raw, err := io.ReadAll(io.LimitReader(body, maxBodyBytes))
	if err != nil || len(raw) == 0 {
		return ""
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Message)
}
