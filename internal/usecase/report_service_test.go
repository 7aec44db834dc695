package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"

	"github.com/Gunvolt24/pos_reports/internal/domain"
	"github.com/Gunvolt24/pos_reports/internal/ports/mocks"
	"github.com/Gunvolt24/pos_reports/internal/reporting"
	"github.com/Gunvolt24/pos_reports/internal/usecase"
)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

var laPaz = time.FixedZone("BOT", -4*60*60)

func fixedResolver() *reporting.Resolver {
	now := time.Date(2025, time.January, 15, 14, 30, 0, 0, laPaz)
	return reporting.NewResolver(func() time.Time { return now }, laPaz)
}

func orderOn(id string, ts time.Time, total float64) domain.Order {
	return domain.Order{
		ID:        id,
		OrderDate: ts,
		Status:    domain.StatusCompleted,
		Bills:     domain.Bills{TotalWithTax: domain.NewAmount(total)},
	}
}

// сегодня два заказа, вчера один
func sampleOrders() []domain.Order {
	return []domain.Order{
		orderOn("today-1", time.Date(2025, 1, 15, 9, 0, 0, 0, laPaz), 100),
		orderOn("yesterday", time.Date(2025, 1, 14, 20, 0, 0, 0, laPaz), 999),
		orderOn("today-2", time.Date(2025, 1, 15, 13, 0, 0, 0, laPaz), 50),
	}
}

type reportDeps struct {
	source   *mocks.MockOrderSource
	cache    *mocks.MockReportCache
	notifier *mocks.MockNotifier
	delivery *mocks.MockReportDelivery
	svc      *usecase.ReportService
}

func newReportDeps(t *testing.T) reportDeps {
	ctrl := gomock.NewController(t)
	d := reportDeps{
		source:   mocks.NewMockOrderSource(ctrl),
		cache:    mocks.NewMockReportCache(ctrl),
		notifier: mocks.NewMockNotifier(ctrl),
		delivery: mocks.NewMockReportDelivery(ctrl),
	}
	d.svc = usecase.NewReportService(d.source, d.cache, d.notifier, fixedResolver(), noopLogger{}).
		WithDelivery(d.delivery)
	return d
}

func TestReport_CacheMiss_BuildsAndCaches(t *testing.T) {
	d := newReportDeps(t)

	gomock.InOrder(
		d.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false),
		d.source.EXPECT().ListOrders(gomock.Any()).Return(sampleOrders(), nil),
		d.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.AssignableToTypeOf(&domain.SalesReport{})).Return(nil),
	)

	report, err := d.svc.Report(context.Background(), domain.RangeSpec{Kind: domain.RangeDay})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Summary.TicketCount != 2 || !report.Summary.AverageTicket.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("unexpected summary: %+v", report.Summary)
	}
	if len(report.Rows) != 2 || report.Rows[0].OrderID != "today-1" || report.Rows[1].OrderID != "today-2" {
		t.Fatalf("unexpected rows: %+v", report.Rows)
	}
	if report.Rows[0].Time != "09:00" {
		t.Fatalf("rows must be rendered in the configured zone, got %q", report.Rows[0].Time)
	}
}

func TestReport_CacheHit_SkipsSource(t *testing.T) {
	d := newReportDeps(t)

	cached := &domain.SalesReport{Spec: domain.RangeSpec{Kind: domain.RangeWeek}}
	d.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cached, true)
	d.source.EXPECT().ListOrders(gomock.Any()).Times(0)

	got, err := d.svc.Report(context.Background(), domain.RangeSpec{Kind: domain.RangeWeek})
	if err != nil || got != cached {
		t.Fatalf("expected cached report, got %+v err=%v", got, err)
	}
}

func TestReport_SourceError(t *testing.T) {
	d := newReportDeps(t)

	srcErr := errors.New("orders api down")
	d.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false)
	d.source.EXPECT().ListOrders(gomock.Any()).Return(nil, srcErr)

	_, err := d.svc.Report(context.Background(), domain.RangeSpec{Kind: domain.RangeMonth})
	if !errors.Is(err, srcErr) || usecase.IsRangeError(err) {
		t.Fatalf("want wrapped source error, got %v", err)
	}
}

// Ошибки ввода диапазона отсекаются до обращения к источнику и кэшу.
func TestReport_RangeValidation(t *testing.T) {
	tests := []struct {
		name string
		spec domain.RangeSpec
		want error
	}{
		{"custom-date without end", domain.RangeSpec{Kind: domain.RangeCustomDate, Start: "2025-01-01"}, usecase.ErrRangeBoundsRequired},
		{"custom-date without start", domain.RangeSpec{Kind: domain.RangeCustomDate, End: "2025-01-01"}, usecase.ErrRangeBoundsRequired},
		{"custom-year without bounds", domain.RangeSpec{Kind: domain.RangeCustomYear}, usecase.ErrRangeBoundsRequired},
		{"custom-date inverted", domain.RangeSpec{Kind: domain.RangeCustomDate, Start: "2025-01-10", End: "2025-01-05"}, usecase.ErrInvertedRange},
		{"custom-month inverted", domain.RangeSpec{Kind: domain.RangeCustomMonth, Start: "2025-03", End: "2025-01"}, usecase.ErrInvertedRange},
		{"custom-year inverted", domain.RangeSpec{Kind: domain.RangeCustomYear, Start: "2025", End: "2023"}, usecase.ErrInvertedRange},
		{"custom-month garbage", domain.RangeSpec{Kind: domain.RangeCustomMonth, Start: "enero", End: "2025-02"}, usecase.ErrInvalidRange},
		{"custom-date garbage", domain.RangeSpec{Kind: domain.RangeCustomDate, Start: "ayer", End: "2025-01-05"}, usecase.ErrInvalidRange},
		{"unknown kind", domain.RangeSpec{Kind: "quarter"}, usecase.ErrInvalidRange},
		{"empty kind", domain.RangeSpec{}, usecase.ErrInvalidRange},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			d := newReportDeps(t)
			d.source.EXPECT().ListOrders(gomock.Any()).Times(0)
			d.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)

			_, err := d.svc.Report(context.Background(), tt.spec)
			if !errors.Is(err, tt.want) {
				t.Fatalf("want %v, got %v", tt.want, err)
			}
		})
	}
}

func TestOrders_Pagination(t *testing.T) {
	rows := []domain.ReportRow{{OrderID: "1"}, {OrderID: "2"}, {OrderID: "3"}}
	spec := domain.RangeSpec{Kind: domain.RangeMonth}

	tests := []struct {
		name          string
		limit, offset int
		want          []string
	}{
		{"first page", 2, 0, []string{"1", "2"}},
		{"second page", 2, 2, []string{"3"}},
		{"past the end", 2, 10, []string{}},
		{"no limit", 0, 1, []string{"2", "3"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			d := newReportDeps(t)
			d.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(&domain.SalesReport{Rows: rows}, true)

			got, total, err := d.svc.Orders(context.Background(), spec, tt.limit, tt.offset)
			if err != nil || total != 3 {
				t.Fatalf("unexpected total=%d err=%v", total, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("want %v, got %+v", tt.want, got)
			}
			for i, id := range tt.want {
				if got[i].OrderID != id {
					t.Fatalf("row %d: want %s, got %s", i, id, got[i].OrderID)
				}
			}
		})
	}
}

// Изменение страницы не трогает строки отчёта, который держит кэш.
func TestOrders_PageIsDetachedFromReport(t *testing.T) {
	report := &domain.SalesReport{Rows: []domain.ReportRow{{OrderID: "1"}, {OrderID: "2"}}}
	d := newReportDeps(t)
	d.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(report, true)

	page, _, err := d.svc.Orders(context.Background(), domain.RangeSpec{Kind: domain.RangeDay}, 1, 0)
	if err != nil {
		t.Fatalf("orders: %v", err)
	}
	page[0].OrderID = "changed"
	_ = append(page, domain.ReportRow{OrderID: "appended"})

	if report.Rows[0].OrderID != "1" || report.Rows[1].OrderID != "2" {
		t.Fatalf("report rows were mutated through the page: %+v", report.Rows)
	}
}

func TestExport_DeliversFile(t *testing.T) {
	d := newReportDeps(t)

	d.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false)
	d.source.EXPECT().ListOrders(gomock.Any()).Return(sampleOrders(), nil)
	d.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	var delivered *domain.ExportFile
	d.delivery.EXPECT().Deliver(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, f *domain.ExportFile) error {
			delivered = f
			return errors.New("disk full") // только логируется
		})

	file, err := d.svc.Export(context.Background(), domain.RangeSpec{Kind: domain.RangeDay})
	if err != nil {
		t.Fatalf("delivery failure must not surface, got %v", err)
	}
	if file == nil || delivered != file {
		t.Fatalf("expected the returned file to be delivered")
	}
	if file.Name != "ventas-day-2025-01-15.csv" {
		t.Fatalf("unexpected file name: %s", file.Name)
	}
	lines := strings.Split(string(file.Body), "\r\n")
	if len(lines) != 3 {
		t.Fatalf("want header + 2 rows, got %q", file.Body)
	}
}

func TestExport_CustomDateLabel(t *testing.T) {
	d := newReportDeps(t)

	d.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false)
	d.source.EXPECT().ListOrders(gomock.Any()).Return(sampleOrders(), nil)
	d.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.delivery.EXPECT().Deliver(gomock.Any(), gomock.Any()).Return(nil)

	spec := domain.RangeSpec{Kind: domain.RangeCustomDate, Start: "2025-01-14", End: "2025-01-15"}
	file, err := d.svc.Export(context.Background(), spec)
	if err != nil || file == nil {
		t.Fatalf("expected file, got %v", err)
	}
	if file.Name != "ventas-2025-01-14-2025-01-15-2025-01-15.csv" {
		t.Fatalf("unexpected file name: %s", file.Name)
	}
}

func TestExport_EmptyRangeNotifiesOnly(t *testing.T) {
	d := newReportDeps(t)

	d.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(&domain.SalesReport{}, true)
	d.delivery.EXPECT().Deliver(gomock.Any(), gomock.Any()).Times(0)
	d.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Do(func(_ context.Context, n domain.Notice) {
		if n.Severity != domain.SeverityInfo || n.Message != usecase.MsgNothingToExport {
			t.Errorf("unexpected notice: %+v", n)
		}
	})

	file, err := d.svc.Export(context.Background(), domain.RangeSpec{Kind: domain.RangeWeek})
	if err != nil || file != nil {
		t.Fatalf("want (nil, nil) for empty export, got %+v, %v", file, err)
	}
}

func TestExport_InvalidRangeWarns(t *testing.T) {
	tests := []struct {
		spec domain.RangeSpec
		msg  string
	}{
		{domain.RangeSpec{Kind: domain.RangeCustomDate, Start: "2025-01-01"}, usecase.MsgBoundsRequired},
		{domain.RangeSpec{Kind: domain.RangeCustomDate, Start: "2025-02-01", End: "2025-01-01"}, usecase.MsgInvertedRange},
		{domain.RangeSpec{Kind: domain.RangeCustomMonth, Start: "x", End: "y"}, usecase.MsgInvalidRange},
	}

	for _, tt := range tests {
		d := newReportDeps(t)
		d.source.EXPECT().ListOrders(gomock.Any()).Times(0)
		d.delivery.EXPECT().Deliver(gomock.Any(), gomock.Any()).Times(0)
		d.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Do(func(_ context.Context, n domain.Notice) {
			if n.Severity != domain.SeverityWarning || n.Message != tt.msg {
				t.Errorf("unexpected notice: %+v, want %q", n, tt.msg)
			}
		})

		if _, err := d.svc.Export(context.Background(), tt.spec); !usecase.IsRangeError(err) {
			t.Fatalf("want range error, got %v", err)
		}
	}
}
