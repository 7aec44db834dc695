package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"
	_ "time/tzdata" // America/La_Paz в минимальных образах

	"github.com/Gunvolt24/pos_reports/internal/cache/memory"
	"github.com/Gunvolt24/pos_reports/internal/client"
	"github.com/Gunvolt24/pos_reports/internal/delivery"
	"github.com/Gunvolt24/pos_reports/internal/domain"
	"github.com/Gunvolt24/pos_reports/internal/notify"
	"github.com/Gunvolt24/pos_reports/internal/ports"
	"github.com/Gunvolt24/pos_reports/internal/reporting"
	"github.com/Gunvolt24/pos_reports/internal/usecase"
	"github.com/Gunvolt24/pos_reports/pkg/logger"
	"github.com/Gunvolt24/pos_reports/pkg/validate"
)

// loadedOrders — заказы, прочитанные из файла.
type loadedOrders []domain.Order

func (o loadedOrders) ListOrders(context.Context) ([]domain.Order, error) { return o, nil }

// CLI-приложение для выгрузки продаж в CSV.
func main() {
	inputPath := flag.String("in", "", "orders file (.json or .jsonl); '-' reads jsonl from stdin; empty uses -api")
	formatStr := flag.String("format", "auto", "input format: auto|json|jsonl")
	apiURL := flag.String("api", "http://localhost:8000", "POS backend base URL (used when -in is empty)")
	rangeKind := flag.String("range", "day", "day|week|month|custom-date|custom-month|custom-year")
	from := flag.String("from", "", "range start (YYYY-MM-DD, YYYY-MM or YYYY)")
	to := flag.String("to", "", "range end (YYYY-MM-DD, YYYY-MM or YYYY)")
	outDir := flag.String("out", ".", "output directory")
	tz := flag.String("tz", "America/La_Paz", "report timezone")
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	loc, err := time.LoadLocation(*tz)
	if err != nil {
		fmt.Fprintf(os.Stderr, "timezone: %v\n", err)
		os.Exit(1)
	}
	domain.SetLocalZone(loc)

	logg, cleanup, err := logger.NewZapLogger(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = cleanup() }()

	source, err := openSource(ctx, *inputPath, validate.InputFormat(*formatStr), *apiURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "orders: %v\n", err)
		os.Exit(1)
	}

	svc := usecase.NewReportService(
		source,
		memory.NewReportCache(1, time.Minute),
		notify.NewLogNotifier(logg),
		reporting.NewResolver(time.Now, loc),
		logg,
	).WithDelivery(delivery.NewDir(*outDir))

	file, err := svc.Export(ctx, domain.RangeSpec{Kind: domain.RangeKind(*rangeKind), Start: *from, End: *to})
	if err != nil {
		if msg := usecase.NoticeMessage(err); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "export: %v\n", err)
		os.Exit(1)
	}
	if file == nil {
		fmt.Fprintln(os.Stderr, usecase.MsgNothingToExport)
		return
	}
	fmt.Println(file.Name)
}

// openSource — файл (или stdin) с валидацией заказов либо API бэкенда.
func openSource(ctx context.Context, path string, format validate.InputFormat, apiURL string) (ports.OrderSource, error) {
	if path == "" {
		return client.NewOrdersClient(apiURL, 10*time.Second), nil
	}

	validator := validate.NewOrderValidator()
	var (
		res validate.ReadResult
		err error
	)
	if path == "-" {
		if format == validate.FormatAuto {
			format = validate.FormatJSONL
		}
		res, err = validate.ReadOrders(ctx, validator, os.Stdin, format)
	} else {
		res, err = validate.ReadOrdersFile(ctx, validator, path, format)
	}
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(os.Stderr, "orders loaded (%s)\n", res.Summary())
	return loadedOrders(res.Orders), nil
}
