package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Gunvolt24/pos_reports/internal/domain"
	"github.com/Gunvolt24/pos_reports/internal/ports"
)

// Проверка, что OrderRepository удовлетворяет интерфейсу OrderRepository.
var _ ports.OrderRepository = (*OrderRepository)(nil)

// OrderRepository — заказы POS в Postgres: исходный JSON в JSONB плюс колонки для выборок.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository — конструктор OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository { return &OrderRepository{pool: pool} }

// Save — идемпотентный upsert по id. raw пишется как есть, чтобы позиции
// в любом из форматов клиентов разбирались при чтении так же, как из API.
func (r *OrderRepository) Save(ctx context.Context, order *domain.Order, raw []byte) error {
	if order == nil || order.ID == "" {
		return errors.New("order is empty or id is required")
	}
	if !json.Valid(raw) {
		return errors.New("raw payload is not valid json")
	}

	var orderDate *time.Time
	if !order.OrderDate.IsZero() {
		ts := order.OrderDate.UTC()
		orderDate = &ts
	}

	if _, err := r.pool.Exec(ctx, `
		INSERT INTO orders (id, order_date, status, total_with_tax, payload)
		VALUES ($1, $2, $3, $4::text::numeric, $5::jsonb)
		ON CONFLICT (id) DO UPDATE SET
			order_date = EXCLUDED.order_date,
			status = EXCLUDED.status,
			total_with_tax = EXCLUDED.total_with_tax,
			payload = EXCLUDED.payload,
			received_at = now()
	`,
		order.ID, orderDate, string(order.Status), order.Bills.TotalWithTax.String(), string(raw),
	); err != nil {
		return fmt.Errorf("upsert order: %w", err)
	}
	return nil
}

// ListOrders — все заказы по времени (без даты — в конце).
func (r *OrderRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, `SELECT payload FROM orders ORDER BY order_date ASC NULLS LAST, id ASC`)
}

func (r *OrderRepository) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		var order domain.Order
		if err := json.Unmarshal(payload, &order); err != nil {
			return nil, fmt.Errorf("decode order payload: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

// Count — число заказов (для логов прогрева и тестов).
func (r *OrderRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}
