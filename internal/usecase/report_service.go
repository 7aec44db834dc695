package usecase

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/Gunvolt24/pos_reports/internal/domain"
	"github.com/Gunvolt24/pos_reports/internal/ports"
	"github.com/Gunvolt24/pos_reports/internal/reporting"
	"github.com/Gunvolt24/pos_reports/pkg/metrics"
)

var _ ports.ReportService = (*ReportService)(nil)

// ReportService — отчёты по продажам за диапазон и выгрузка в CSV (без знаний о транспорте).
type ReportService struct {
	source   ports.OrderSource
	cache    ports.ReportCache
	notifier ports.Notifier
	delivery ports.ReportDelivery // опционально
	resolver *reporting.Resolver
	log      ports.Logger
}

// NewReportService — DI-конструктор.
func NewReportService(
	source ports.OrderSource,
	cache ports.ReportCache,
	notifier ports.Notifier,
	resolver *reporting.Resolver,
	log ports.Logger,
) *ReportService {
	return &ReportService{
		source:   source,
		cache:    cache,
		notifier: notifier,
		resolver: resolver,
		log:      log,
	}
}

// WithDelivery — куда отдавать готовый CSV помимо возврата вызывающему.
func (s *ReportService) WithDelivery(delivery ports.ReportDelivery) *ReportService {
	s.delivery = delivery
	return s
}

// Report — границы диапазона, агрегаты и строки заказов, попавших в диапазон.
func (s *ReportService) Report(ctx context.Context, spec domain.RangeSpec) (*domain.SalesReport, error) {
	rng, err := s.ResolveRange(spec)
	if err != nil {
		s.log.Warnf(ctx, "report range rejected spec=%s err=%v", spec.Key(), err)
		return nil, err
	}

	key := cacheKey(spec, rng)
	if report, ok := s.cache.Get(ctx, key); ok {
		return report, nil
	}

	start := time.Now()
	orders, err := s.source.ListOrders(ctx)
	if err != nil {
		s.log.Errorf(ctx, "source.ListOrders failed err=%v", err)
		return nil, fmt.Errorf("list orders: %w", err)
	}

	filtered := reporting.FilterByRange(orders, &rng)
	report := &domain.SalesReport{
		Spec:    spec,
		Range:   rng,
		Summary: reporting.Summarize(filtered),
		Rows:    reporting.BuildRows(filtered, s.resolver.Location()),
	}

	if err := s.cache.Set(ctx, key, report); err != nil {
		s.log.Warnf(ctx, "cache.Set failed key=%s err=%v", key, err)
	}
	metrics.ReportsServed.WithLabelValues(string(spec.Kind)).Inc()
	s.log.Infof(ctx, "report built spec=%s orders=%d matched=%d took=%s",
		spec.Key(), len(orders), len(filtered), time.Since(start))
	return report, nil
}

// Orders — страница строк отчёта и общее число строк.
func (s *ReportService) Orders(ctx context.Context, spec domain.RangeSpec, limit, offset int) ([]domain.ReportRow, int, error) {
	report, err := s.Report(ctx, spec)
	if err != nil {
		return nil, 0, err
	}
	total := len(report.Rows)
	if offset >= total {
		return []domain.ReportRow{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return slices.Clone(report.Rows[offset:end]), total, nil
}

// Export — CSV по диапазону. Пустой результат не ошибка: (nil, nil) и уведомление.
// Ошибки доставки только логируются.
func (s *ReportService) Export(ctx context.Context, spec domain.RangeSpec) (*domain.ExportFile, error) {
	report, err := s.Report(ctx, spec)
	if err != nil {
		if msg := NoticeMessage(err); msg != "" {
			metrics.ReportExports.WithLabelValues("invalid").Inc()
			s.notify(ctx, msg, domain.SeverityWarning)
		}
		return nil, err
	}

	file := reporting.NewExportFile(report.Rows, exportLabel(spec), s.resolver.Now())
	if file == nil {
		metrics.ReportExports.WithLabelValues("empty").Inc()
		s.notify(ctx, MsgNothingToExport, domain.SeverityInfo)
		return nil, nil
	}

	if s.delivery != nil {
		if err := s.delivery.Deliver(ctx, file); err != nil {
			s.log.Errorf(ctx, "report delivery failed file=%s err=%v", file.Name, err)
		}
	}
	metrics.ReportExports.WithLabelValues("file").Inc()
	s.log.Infof(ctx, "report exported file=%s rows=%d", file.Name, len(report.Rows))
	return file, nil
}

// ResolveRange — проверка ввода и вычисление границ.
// Порядок границ для произвольных диапазонов проверяется здесь, а не в Resolver.
func (s *ReportService) ResolveRange(spec domain.RangeSpec) (domain.DateRange, error) {
	custom := spec.Kind == domain.RangeCustomDate ||
		spec.Kind == domain.RangeCustomMonth ||
		spec.Kind == domain.RangeCustomYear

	if custom && (spec.Start == "" || spec.End == "") {
		return domain.DateRange{}, ErrRangeBoundsRequired
	}
	if spec.Kind == domain.RangeCustomDate {
		from, okFrom := s.resolver.ParseCalendarDate(spec.Start)
		to, okTo := s.resolver.ParseCalendarDate(spec.End)
		if okFrom && okTo && from.After(to) {
			return domain.DateRange{}, ErrInvertedRange
		}
	}

	rng, ok := s.resolver.Resolve(spec)
	if !ok {
		return domain.DateRange{}, fmt.Errorf("%w: %s", ErrInvalidRange, spec.Key())
	}
	if rng.Start.After(rng.End) {
		return domain.DateRange{}, ErrInvertedRange
	}
	return rng, nil
}

func (s *ReportService) notify(ctx context.Context, msg string, severity domain.Severity) {
	s.notifier.Notify(ctx, domain.Notice{Message: msg, Severity: severity, At: s.resolver.Now()})
}

func cacheKey(spec domain.RangeSpec, rng domain.DateRange) string {
	return string(spec.Kind) + "|" +
		strconv.FormatInt(rng.Start.UnixMilli(), 10) + "|" +
		strconv.FormatInt(rng.End.UnixMilli(), 10)
}

// exportLabel — метка в имени файла: вид пресета или границы произвольного диапазона.
func exportLabel(spec domain.RangeSpec) string {
	switch spec.Kind {
	case domain.RangeDay, domain.RangeWeek, domain.RangeMonth:
		return string(spec.Kind)
	default:
		return reporting.CustomDateLabel(spec.Start, spec.End)
	}
}
