package ports

import (
	"context"

	"github.com/Gunvolt24/pos_reports/internal/domain"
)

// Notifier — доставка уведомлений пользователю. Ошибки доставки не возвращаются.
type Notifier interface {
	Notify(ctx context.Context, notice domain.Notice)
}

// NoticeFeed — последние уведомления (для GET /notices).
type NoticeFeed interface {
	Recent(limit int) []domain.Notice
}
