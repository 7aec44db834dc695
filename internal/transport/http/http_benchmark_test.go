//go:build !integration

package rest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/pos_reports/internal/domain"
	"github.com/Gunvolt24/pos_reports/internal/reporting"
)

// --- Бенчмарки ---

// Сводка: LEAN vs FULL пайплайн
func BenchmarkHTTP_Summary(b *testing.B) {
	h := NewHandler(Services{Reports: reportStub{rows: makeRows(50)}}, nopLogger{}, 2*time.Second)

	lean := makeLeanRouter(h)
	full := makeFullRouter(h)

	b.Run("lean/no-mw", func(b *testing.B) {
		benchServeGET(b, lean, "/reports/summary?range=week")
	})
	b.Run("full/prod-mw", func(b *testing.B) {
		benchServeGET(b, full, "/reports/summary?range=week")
	})
}

// Пагинация: 10/50/100 строк на странице
func BenchmarkHTTP_Orders(b *testing.B) {
	for _, n := range []int{10, 50, 100} {
		b.Run("N="+strconv.Itoa(n), func(b *testing.B) {
			h := NewHandler(Services{Reports: reportStub{rows: makeRows(n)}}, nopLogger{}, 2*time.Second)
			benchServeGET(b, makeLeanRouter(h), "/reports/orders?range=month&limit="+strconv.Itoa(n))
		})
	}
}

// Выгрузка: CSV собирается на каждый запрос
func BenchmarkHTTP_Export(b *testing.B) {
	for _, n := range []int{100, 1000} {
		b.Run("N="+strconv.Itoa(n), func(b *testing.B) {
			h := NewHandler(Services{Reports: reportStub{rows: makeRows(n)}}, nopLogger{}, 2*time.Second)
			benchServeGET(b, makeLeanRouter(h), "/reports/export?range=month")
		})
	}
}

// Ошибочный путь (404): "цена" роутера и 404-хендлера
func BenchmarkHTTP_404(b *testing.B) {
	r := makeLeanRouter(NewHandler(Services{Reports: reportStub{}}, nopLogger{}, 2*time.Second))

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			req, _ := http.NewRequest(http.MethodGet, "/nope", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			_, _ = io.Copy(io.Discard, w.Body)
			if w.Code != http.StatusNotFound {
				b.Fatalf("status=%d", w.Code)
			}
		}
	})
}

// --- nopLogger — логгер, который не делает ничего. ---

type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

// --- Стабы ---

// reportStub — заранее подготовленные строки (без обращения к источнику заказов).
type reportStub struct{ rows []domain.ReportRow }

func (s reportStub) Report(_ context.Context, spec domain.RangeSpec) (*domain.SalesReport, error) {
	return &domain.SalesReport{Spec: spec, Rows: s.rows}, nil
}

func (s reportStub) Orders(_ context.Context, _ domain.RangeSpec, limit, offset int) ([]domain.ReportRow, int, error) {
	if offset >= len(s.rows) {
		return nil, len(s.rows), nil
	}
	end := min(offset+limit, len(s.rows))
	return s.rows[offset:end], len(s.rows), nil
}

func (s reportStub) Export(_ context.Context, spec domain.RangeSpec) (*domain.ExportFile, error) {
	return reporting.NewExportFile(s.rows, string(spec.Kind), time.Now()), nil
}

// --- функции-помощники ---

func makeRows(n int) []domain.ReportRow {
	rows := make([]domain.ReportRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, domain.ReportRow{
			OrderID:       "ord-" + strconv.Itoa(i),
			Date:          "15/01/2025",
			Time:          "14:05",
			Customer:      "Ana Quispe",
			Status:        "Completado",
			Items:         "3",
			Total:         "45.50",
			PaymentMethod: "Efectivo",
		})
	}
	return rows
}

func makeLeanRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New() // без Recovery/otel/logger — получаем меньшую аллокацию
	r.GET("/reports/summary", h.reportSummary)
	r.GET("/reports/orders", h.reportOrders)
	r.GET("/reports/export", h.reportExport)
	return r
}

func makeFullRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	// prod пайплайн из NewRouter
	return NewRouter(h, "", "")
}

func benchServeGET(b *testing.B, r *gin.Engine, path string) {
	b.Helper()
	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			req, _ := http.NewRequest(http.MethodGet, path, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			_, _ = io.Copy(io.Discard, w.Body)
			if w.Code != http.StatusOK {
				b.Fatalf("status=%d", w.Code)
			}
		}
	})
}
