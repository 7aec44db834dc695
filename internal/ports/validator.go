package ports

import (
	"context"

	"github.com/Gunvolt24/pos_reports/internal/domain"
)

type OrderValidator interface {
	Validate(ctx context.Context, order *domain.Order) error
}
