package domain

import "fmt"

// RejectedError — апстрим ответил отказом (4xx/5xx) с сообщением для пользователя.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("upstream rejected request: status=%d message=%q", e.StatusCode, e.Message)
}
