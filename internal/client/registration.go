package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Gunvolt24/pos_reports/internal/domain"
	"github.com/Gunvolt24/pos_reports/internal/ports"
)

var _ ports.Registrar = (*RegistrationClient)(nil)

// RegistrationClient — POST /api/user/register.
type RegistrationClient struct {
	baseURL string
	http    *http.Client
}

// NewRegistrationClient — клиент регистрации сотрудников.
func NewRegistrationClient(baseURL string, timeout time.Duration) *RegistrationClient {
	return &RegistrationClient{baseURL: baseURL, http: newHTTPClient(timeout)}
}

// Register — отправить регистрацию. Ответ 2xx — сообщение бэкенда;
// любой другой статус — *domain.RejectedError; сетевые ошибки возвращаются как есть.
func (c *RegistrationClient) Register(ctx context.Context, payload json.RawMessage) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, joinURL(c.baseURL, registerPath), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build register request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("post register: %w", err)
	}
	defer resp.Body.Close()

	msg := apiMessage(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &domain.RejectedError{StatusCode: resp.StatusCode, Message: msg}
	}
	return msg, nil
}
