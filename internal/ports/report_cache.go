package ports

import (
	"context"

	"github.com/Gunvolt24/pos_reports/internal/domain"
)

// ReportCache — кэш собранных отчётов по ключу диапазона.
// Реализация потокобезопасна и возвращает копии.
type ReportCache interface {
	Get(ctx context.Context, key string) (*domain.SalesReport, bool)
	Set(ctx context.Context, key string, report *domain.SalesReport) error
	// Purge — сбросить всё (например, пришёл новый заказ).
	Purge(ctx context.Context)
}
