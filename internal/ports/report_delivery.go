package ports

import (
	"context"

	"github.com/Gunvolt24/pos_reports/internal/domain"
)

// ReportDelivery — доставка готового файла выгрузки (каталог, ответ HTTP и т.п.).
type ReportDelivery interface {
	Deliver(ctx context.Context, file *domain.ExportFile) error
}
