package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RangeKind — вид спецификатора диапазона.
type RangeKind string

const (
	RangeDay         RangeKind = "day"
	RangeWeek        RangeKind = "week"
	RangeMonth       RangeKind = "month"
	RangeCustomDate  RangeKind = "custom-date"
	RangeCustomMonth RangeKind = "custom-month"
	RangeCustomYear  RangeKind = "custom-year"
)

// RangeSpec — какой временной отрезок должен покрыть отчёт.
// Start/End — сырой ввод, используется только custom-* видами.
type RangeSpec struct {
	Kind  RangeKind `json:"type"`
	Start string    `json:"start,omitempty"`
	End   string    `json:"end,omitempty"`
}

// Key — ключ спецификатора (для кэша и логов).
func (s RangeSpec) Key() string {
	return string(s.Kind) + ":" + s.Start + ":" + s.End
}

// DateRange — замкнутый интервал [Start, End].
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains — попадает ли момент в интервал (границы включительно).
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Summary — агрегаты продаж за период.
type Summary struct {
	TotalSales    decimal.Decimal `json:"totalSales"`
	DishesSold    float64         `json:"dishesSold"`
	TicketCount   int             `json:"ticketCount"`
	AverageTicket decimal.Decimal `json:"averageTicket"`
}

// ReportRow — строка экспорта по одному заказу.
type ReportRow struct {
	OrderID       string `json:"orderId"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Customer      string `json:"customer"`
	Status        string `json:"status"`
	Items         string `json:"items"`
	Total         string `json:"total"`
	PaymentMethod string `json:"paymentMethod"`
}

// SalesReport — отчёт по диапазону: границы, агрегаты и строки.
type SalesReport struct {
	Spec    RangeSpec   `json:"spec"`
	Range   DateRange   `json:"range"`
	Summary Summary     `json:"summary"`
	Rows    []ReportRow `json:"rows"`
}

// ExportFile — готовый к выдаче файл выгрузки.
type ExportFile struct {
	Name        string
	ContentType string
	Body        []byte
}
