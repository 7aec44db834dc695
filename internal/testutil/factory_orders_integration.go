//go:build integration

package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// OrderDoc — заказ в том виде, в каком его присылает POS (map, чтобы тесты
// могли класть позиции в любое из полей-кандидатов).
type OrderDoc map[string]any

// MakeOrder — валидный уникальный заказ с одной позицией.
func MakeOrder(opts ...func(OrderDoc)) OrderDoc {
	doc := OrderDoc{
		"_id":         "ord-" + UniqSuffix(),
		"orderDate":   time.Now().UTC().Truncate(time.Millisecond).Format(time.RFC3339Nano),
		"orderStatus": "Completed",
		"bills": map[string]any{
			"total":        40,
			"tax":          5.5,
			"totalWithTax": 45.5,
		},
		"customerDetails": map[string]any{"name": "Ana Quispe", "phone": "71234567", "guests": 2},
		"paymentMethod":   "Efectivo",
		"table":           map[string]any{"_id": "tbl-" + UniqSuffix(), "tableNo": 4},
		"items":           []any{map[string]any{"name": "Silpancho", "quantity": 2}},
	}
	for _, fn := range opts {
		fn(doc)
	}
	return doc
}

// ID — _id заказа.
func (d OrderDoc) ID() string {
	id, _ := d["_id"].(string)
	return id
}

// JSON — сериализованный заказ.
func (d OrderDoc) JSON() []byte {
	raw, _ := json.Marshal(d)
	return raw
}

func WithID(id string) func(OrderDoc) {
	return func(d OrderDoc) { d["_id"] = id }
}

func WithOrderDate(ts time.Time) func(OrderDoc) {
	return func(d OrderDoc) { d["orderDate"] = ts.UTC().Format(time.RFC3339Nano) }
}

func WithTotal(total float64) func(OrderDoc) {
	return func(d OrderDoc) {
		d["bills"] = map[string]any{"total": total, "tax": 0, "totalWithTax": total}
	}
}

// WithKeyedItems — позиции в виде объекта {"<key>": {...}} в поле field.
func WithKeyedItems(field string, quantities ...int) func(OrderDoc) {
	return func(d OrderDoc) {
		delete(d, "items")
		items := make(map[string]any, len(quantities))
		for i, q := range quantities {
			items["line-"+string(rune('a'+i))] = map[string]any{"qty": q}
		}
		d[field] = items
	}
}
