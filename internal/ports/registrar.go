package ports

import (
	"context"
	"encoding/json"
)

// Registrar — удалённая регистрация пользователя.
// Возвращает сообщение апстрима; отказ апстрима — *domain.RejectedError.
type Registrar interface {
	Register(ctx context.Context, payload json.RawMessage) (string, error)
}
