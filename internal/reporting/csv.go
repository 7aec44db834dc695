package reporting

import (
	"strconv"
	"strings"
	"time"

	"github.com/Gunvolt24/pos_reports/internal/domain"
)

const (
	// CSVContentType — MIME выгрузки.
	CSVContentType = "text/csv;charset=utf-8"

	defaultCustomer = "Cliente"
	defaultPayment  = "-"
	missingValue    = "-"

	dateLayout = "02/01/2006"
	timeLayout = "15:04"
)

// csvHeader — порядок колонок фиксирован.
var csvHeader = []string{"Pedido", "Fecha", "Hora", "Cliente", "Estado", "Articulos", "Total", "Metodo de pago"}

// BuildRows — проекция заказов в строки выгрузки; дата и время во временной зоне loc.
func BuildRows(orders []domain.Order, loc *time.Location) []domain.ReportRow {
	if loc == nil {
		loc = time.Local
	}
	rows := make([]domain.ReportRow, 0, len(orders))
	for i := range orders {
		rows = append(rows, BuildRow(&orders[i], loc))
	}
	return rows
}

// BuildRow — строка выгрузки для одного заказа.
func BuildRow(order *domain.Order, loc *time.Location) domain.ReportRow {
	row := domain.ReportRow{
		OrderID:       order.ID,
		Date:          missingValue,
		Time:          missingValue,
		Customer:      defaultCustomer,
		Status:        StatusLabel(order.Status),
		Items:         strconv.FormatFloat(CountOrderItems(order), 'f', -1, 64),
		Total:         order.Bills.TotalWithTax.StringFixed(2),
		PaymentMethod: defaultPayment,
	}
	if !order.OrderDate.IsZero() {
		local := order.OrderDate.In(loc)
		row.Date = local.Format(dateLayout)
		row.Time = local.Format(timeLayout)
	}
	if order.Customer != nil && order.Customer.Name != "" {
		row.Customer = order.Customer.Name
	}
	if order.PaymentMethod != "" {
		row.PaymentMethod = order.PaymentMethod
	}
	return row
}

// ToCSV — заголовок и строки через запятую, разделитель строк CRLF.
// Значения не экранируются: поля короткие и контролируемые.
func ToCSV(rows []domain.ReportRow) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(csvHeader, ","))
	for _, row := range rows {
		lines = append(lines, strings.Join([]string{
			row.OrderID,
			row.Date,
			row.Time,
			row.Customer,
			row.Status,
			row.Items,
			row.Total,
			row.PaymentMethod,
		}, ","))
	}
	return strings.Join(lines, "\r\n")
}

// FileName — ventas-<label>-<YYYY-MM-DD>.csv; дата берётся в UTC.
func FileName(label string, now time.Time) string {
	return "ventas-" + label + "-" + now.UTC().Format(time.DateOnly) + ".csv"
}

// CustomDateLabel — метка файла для произвольного диапазона дат.
func CustomDateLabel(from, to string) string {
	if from == "" {
		from = "inicio"
	}
	if to == "" {
		to = "fin"
	}
	return from + "-" + to
}

// NewExportFile — CSV-файл из строк; nil, если строк нет (файл не создаётся).
func NewExportFile(rows []domain.ReportRow, label string, now time.Time) *domain.ExportFile {
	if len(rows) == 0 {
		return nil
	}
	return &domain.ExportFile{
		Name:        FileName(label, now),
		ContentType: CSVContentType,
		Body:        []byte(ToCSV(rows)),
	}
}
