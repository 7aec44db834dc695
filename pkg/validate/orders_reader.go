package validate

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gunvolt24/pos_reports/internal/domain"
	"github.com/Gunvolt24/pos_reports/internal/ports"
)

// InputFormat допустимые значения.
type InputFormat string

const (
	FormatAuto  InputFormat = "auto"
	FormatJSON  InputFormat = "json"
	FormatJSONL InputFormat = "jsonl"
)

// ReadResult — прочитанные валидные заказы и число отброшенных записей.
type ReadResult struct {
	Orders  []domain.Order
	Invalid int
}

// Summary — "N valid / M invalid".
func (r ReadResult) Summary() string {
	return fmt.Sprintf("%d valid / %d invalid", len(r.Orders), r.Invalid)
}

// FormatFromPath — формат по расширению; по умолчанию JSON.
func FormatFromPath(path string) InputFormat {
	if strings.ToLower(filepath.Ext(path)) == ".jsonl" {
		return FormatJSONL
	}
	return FormatJSON
}

// ReadOrdersFile — открыть файл и прочитать заказы (см. ReadOrders).
func ReadOrdersFile(ctx context.Context, validator ports.OrderValidator, path string, format InputFormat) (ReadResult, error) {
	if format == FormatAuto {
		format = FormatFromPath(path)
	}
	file, err := os.Open(path)
	if err != nil {
		return ReadResult{}, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return ReadOrders(ctx, validator, file, format)
}

// ReadOrders — JSON (массив, одиночный заказ или конверт API {"data":[...]} / {"data":{"data":[...]}})
// или JSONL (заказ на строку). Невалидные записи пропускаются и считаются в Invalid;
// ошибка возвращается только если поток нельзя прочитать целиком.
// validator может быть nil, тогда проверяется только разбор JSON.
func ReadOrders(ctx context.Context, validator ports.OrderValidator, r io.Reader, format InputFormat) (ReadResult, error) {
	switch format {
	case FormatJSONL:
		return readJSONL(ctx, validator, r)
	case FormatJSON, FormatAuto:
		raw, err := io.ReadAll(r)
		if err != nil {
			return ReadResult{}, fmt.Errorf("read input: %w", err)
		}
		items, err := splitJSONDocument(raw)
		if err != nil {
			return ReadResult{}, err
		}
		var res ReadResult
		for _, item := range items {
			res.add(ctx, validator, item)
		}
		return res, nil
	default:
		return ReadResult{}, fmt.Errorf("unsupported format: %s", format)
	}
}

func readJSONL(ctx context.Context, validator ports.OrderValidator, r io.Reader) (ReadResult, error) {
	var res ReadResult

	scanner := bufio.NewScanner(r)
	// запас на большие строки
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		res.add(ctx, validator, line)
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("scan: %w", err)
	}
	return res, nil
}

func (r *ReadResult) add(ctx context.Context, validator ports.OrderValidator, raw []byte) {
	var order domain.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		r.Invalid++
		return
	}
	if validator != nil {
		if err := validator.Validate(ctx, &order); err != nil {
			r.Invalid++
			return
		}
	}
	r.Orders = append(r.Orders, order)
}

// splitJSONDocument — элементы документа: массив, конверт API или одиночный объект.
func splitJSONDocument(raw []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
		return items, nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if items, ok := envelopeItems(envelope.Data); ok {
		return items, nil
	}
	return []json.RawMessage{trimmed}, nil
}

// envelopeItems — массив из поля data: {"data":[...]} или {"data":{"data":[...]}}.
func envelopeItems(data json.RawMessage) ([]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, false
	}
	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, false
		}
		return items, true
	case '{':
		var inner struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &inner); err != nil || len(inner.Data) == 0 || inner.Data[0] != '[' {
			return nil, false
		}
		var items []json.RawMessage
		if err := json.Unmarshal(inner.Data, &items); err != nil {
			return nil, false
		}
		return items, true
	}
	return nil, false
}
