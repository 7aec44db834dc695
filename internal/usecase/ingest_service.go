package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Gunvolt24/pos_reports/internal/domain"
	"github.com/Gunvolt24/pos_reports/internal/ports"
	"github.com/Gunvolt24/pos_reports/pkg/validate"
)

var _ ports.OrderIngestor = (*IngestService)(nil)

// IngestService — приём заказов из брокера в собственное хранилище.
type IngestService struct {
	repo      ports.OrderRepository
	cache     ports.ReportCache
	log       ports.Logger
	validator ports.OrderValidator
}

// NewIngestService — DI-конструктор.
func NewIngestService(
	repo ports.OrderRepository,
	cache ports.ReportCache,
	log ports.Logger,
	validator ports.OrderValidator,
) *IngestService {
	return &IngestService{
		repo:      repo,
		cache:     cache,
		log:       log,
		validator: validator,
	}
}

// SaveFromMessage — сохранить заказ, пришедший из Kafka (raw JSON).
// Шаги:
//  1. разбор JSON; неизвестные поля допустимы (клиенты POS присылают разные схемы позиций);
//  2. доменная валидация (вернёт validate.ErrInvalidOrder при проблемах);
//  3. идемпотентный upsert вместе с исходным JSON;
//  4. сброс кэша отчётов.
func (s *IngestService) SaveFromMessage(ctx context.Context, raw []byte) error {
	var order domain.Order
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&order); err != nil {
		s.log.Warnf(ctx, "invalid json err=%v", err)
		return fmt.Errorf("%w: invalid json: %v", validate.ErrMalformedOrder, err)
	}

	// После объекта не должно быть лишних данных.
	if err := dec.Decode(new(struct{})); err != io.EOF {
		s.log.Warnf(ctx, "invalid json: trailing data")
		return fmt.Errorf("%w: invalid json: trailing data", validate.ErrMalformedOrder)
	}

	if err := s.validator.Validate(ctx, &order); err != nil {
		s.log.Warnf(ctx, "validation failed order_id=%s err=%v", order.ID, err)
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := s.repo.Save(ctx, &order, raw); err != nil {
		s.log.Errorf(ctx, "repo.Save failed order_id=%s err=%v", order.ID, err)
		return fmt.Errorf("failed to save order: %w", err)
	}

	s.cache.Purge(ctx)
	s.log.Infof(ctx, "order saved id=%s status=%s", order.ID, order.Status)
	return nil
}
