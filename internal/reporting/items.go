package reporting

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/Gunvolt24/pos_reports/internal/domain"
)

// ItemShape — распознанная форма контейнера позиций.
type ItemShape int

const (
	ShapeNone  ItemShape = iota // позиций нет или форма не распознана
	ShapeList                   // JSON-массив
	ShapeKeyed                  // объект, значения которого — позиции
)

func (s ItemShape) String() string {
	switch s {
	case ShapeList:
		return "list"
	case ShapeKeyed:
		return "keyed"
	default:
		return "none"
	}
}

// ItemSet — нормализованный вид позиций заказа.
type ItemSet struct {
	Field string // поле, из которого взяты позиции
	Shape ItemShape
	Items []json.RawMessage
}

// Len — количество позиций.
func (s ItemSet) Len() int { return len(s.Items) }

var (
	// quantityFields — поля количества в порядке приоритета.
	quantityFields = []string{"quantity", "qty", "count", "quantityOrdered", "quantityRequested"}

	// labelFields — поля названия позиции в порядке приоритета.
	labelFields = []string{"name", "title", "dishName", "productName", "itemName"}
)

const defaultItemLabel = "Articulo"

// ExtractItems — перебирает domain.ItemFields по приоритету:
// первый непустой массив берётся как есть, у объекта берутся значения (в порядке документа).
// Если ничего не подошло, набор пустой и без ошибки.
func ExtractItems(order *domain.Order) ItemSet {
	if order == nil {
		return ItemSet{}
	}
	for _, src := range order.ItemSources {
		raw := bytes.TrimSpace(src.Raw)
		if len(raw) == 0 {
			continue
		}
		switch raw[0] {
		case '[':
			var list []json.RawMessage
			if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
				return ItemSet{Field: src.Field, Shape: ShapeList, Items: list}
			}
		case '{':
			if values := objectValues(raw); len(values) > 0 {
				return ItemSet{Field: src.Field, Shape: ShapeKeyed, Items: values}
			}
		}
	}
	return ItemSet{}
}

// ItemQuantity — количество единиц позиции; 1, если ни одно поле количества не задано.
func ItemQuantity(item json.RawMessage) float64 {
	fields := itemFields(item)
	for _, name := range quantityFields {
		if q, ok := number(fields[name]); ok {
			return q
		}
	}
	return 1
}

// ItemLabel — название позиции для вывода.
func ItemLabel(item json.RawMessage) string {
	fields := itemFields(item)
	for _, name := range labelFields {
		if s := str(fields[name]); s != "" {
			return s
		}
	}
	if product := itemFields(fields["product"]); product != nil {
		if s := str(product["name"]); s != "" {
			return s
		}
	}
	return defaultItemLabel
}

// CountOrderItems — сумма количеств по всем позициям заказа.
func CountOrderItems(order *domain.Order) float64 {
	set := ExtractItems(order)
	if set.Len() == 0 {
		return 0
	}
	var total float64
	for _, item := range set.Items {
		total += ItemQuantity(item)
	}
	return total
}

// objectValues — значения JSON-объекта с сохранением порядка ключей.
func objectValues(raw json.RawMessage) []json.RawMessage {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}

	var values []json.RawMessage
	for dec.More() {
		if _, err := dec.Token(); err != nil { // ключ
			return nil
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil
		}
		values = append(values, value)
	}
	return values
}

// itemFields — поля позиции; для не-объектов nil.
func itemFields(raw json.RawMessage) map[string]json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil
	}
	return fields
}

// number — число или числовая строка; null и мусор — ok=false.
func number(raw json.RawMessage) (float64, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(trimmed, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func str(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
