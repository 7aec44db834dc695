package ports

import (
	"context"

	"github.com/Gunvolt24/pos_reports/internal/domain"
)

// OrderSource — откуда отчёты берут заказы (API заказов или собственная БД).
// Фильтрация по диапазону выполняется на стороне отчётов.
type OrderSource interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
}

// OrderRepository — хранилище заказов, пришедших из брокера.
type OrderRepository interface {
	OrderSource

	// Save — идемпотентный upsert; raw сохраняется как есть, чтобы не терять неизвестные поля.
	Save(ctx context.Context, order *domain.Order, raw []byte) error
}
