package reporting

import (
	"github.com/shopspring/decimal"

	"github.com/Gunvolt24/pos_reports/internal/domain"
)

// statusLabels — подписи статусов для отчёта.
var statusLabels = map[domain.OrderStatus]string{
	domain.StatusInProgress: "En progreso",
	domain.StatusReady:      "Listo",
	domain.StatusCompleted:  "Completado",
}

// StatusLabel — подпись статуса; неизвестный статус выводится как есть.
func StatusLabel(status domain.OrderStatus) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return string(status)
}

// FilterByRange — заказы, чей момент попадает в [start, end] включительно.
// При rng == nil возвращает исходный срез без фильтрации: без диапазона
// лучше показать всё, чем потерять данные.
func FilterByRange(orders []domain.Order, rng *domain.DateRange) []domain.Order {
	if rng == nil {
		return orders
	}
	filtered := make([]domain.Order, 0, len(orders))
	for i := range orders {
		if rng.Contains(orders[i].OrderDate) {
			filtered = append(filtered, orders[i])
		}
	}
	return filtered
}

// Summarize — выручка, проданные блюда, количество чеков и средний чек.
func Summarize(orders []domain.Order) domain.Summary {
	total := decimal.Zero
	var dishes float64
	for i := range orders {
		total = total.Add(orders[i].Bills.TotalWithTax.Decimal)
		dishes += CountOrderItems(&orders[i])
	}

	summary := domain.Summary{
		TotalSales:    total,
		DishesSold:    dishes,
		TicketCount:   len(orders),
		AverageTicket: decimal.Zero,
	}
	if summary.TicketCount > 0 {
		summary.AverageTicket = total.Div(decimal.NewFromInt(int64(summary.TicketCount)))
	}
	return summary
}
