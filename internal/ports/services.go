package ports

import (
	"context"

	"github.com/Gunvolt24/pos_reports/internal/domain"
)

// ReportService — отчёты по продажам (то, что нужно HTTP-слою и CLI).
type ReportService interface {
	Report(ctx context.Context, spec domain.RangeSpec) (*domain.SalesReport, error)
	Orders(ctx context.Context, spec domain.RangeSpec, limit, offset int) ([]domain.ReportRow, int, error)
	Export(ctx context.Context, spec domain.RangeSpec) (*domain.ExportFile, error)
}

// RegistrationService — приём формы регистрации (онлайн или в очередь).
type RegistrationService interface {
	Submit(ctx context.Context, reg domain.Registration) (domain.SubmitResult, error)
}

// OfflineQueue — операции над офлайн-очередью, доступные снаружи.
type OfflineQueue interface {
	ReadAll(ctx context.Context, queueType string) []domain.QueueEntry
	Pending(ctx context.Context) []domain.QueueEntry
	Clear(ctx context.Context, queueType string) error
}

// SyncTrigger — ручной запуск синхронизации; ok=false, если синхронизация уже идёт.
type SyncTrigger interface {
	Trigger(ctx context.Context) (domain.SyncOutcome, bool)
}

// OrderIngestor — обработка сырого заказа из брокера.
type OrderIngestor interface {
	SaveFromMessage(ctx context.Context, raw []byte) error
}
