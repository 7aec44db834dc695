package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"
)

// OrderStatus — статус заказа в POS.
type OrderStatus string

const (
	StatusInProgress OrderStatus = "In Progress"
	StatusReady      OrderStatus = "Ready"
	StatusCompleted  OrderStatus = "Completed"
)

// ItemFields — приоритетный список полей, в которых разные клиенты POS хранят позиции заказа.
var ItemFields = []string{"items", "orderItems", "itemsOrdered", "cartItems", "products"}

// Order — заказ, как его отдаёт API заказов. Для отчётов только чтение.
type Order struct {
	ID            string
	OrderDate     time.Time // нулевое значение, если дата отсутствует или не парсится
	Status        OrderStatus
	Bills         Bills
	Customer      *Customer
	PaymentMethod string
	Table         *Table

	// ItemSources — сырые контейнеры позиций в порядке ItemFields (отсутствующие пропущены).
	ItemSources []ItemSource
}

// Bills — суммы заказа.
type Bills struct {
	Total        Amount `json:"total"`
	Tax          Amount `json:"tax"`
	TotalWithTax Amount `json:"totalWithTax"`
}

// Customer — данные клиента.
type Customer struct {
	Name   string `json:"name"`
	Phone  string `json:"phone,omitempty"`
	Guests int    `json:"guests,omitempty"`
}

// Table — стол, к которому привязан заказ.
type Table struct {
	ID      string `json:"_id,omitempty"`
	TableNo int    `json:"tableNo,omitempty"`
}

// ItemSource — сырой JSON одного поля-кандидата с позициями.
type ItemSource struct {
	Field string
	Raw   json.RawMessage
}

// orderWire — форма заказа на проводе; поля с позициями разбираются отдельно.
type orderWire struct {
	ID            string          `json:"_id"`
	AltID         string          `json:"id"`
	OrderDate     string          `json:"orderDate"`
	OrderStatus   OrderStatus     `json:"orderStatus"`
	Bills         Bills           `json:"bills"`
	Customer      *Customer       `json:"customerDetails"`
	PaymentMethod string          `json:"paymentMethod"`
	Table         json.RawMessage `json:"table"`
}

// UnmarshalJSON — терпимый к дрейфу схемы разбор заказа.
// Некорректная дата или сумма не ломают заказ целиком.
func (o *Order) UnmarshalJSON(data []byte) error {
	var wire orderWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*o = Order{
		ID:            wire.ID,
		OrderDate:     ParseTimestamp(wire.OrderDate),
		Status:        wire.OrderStatus,
		Bills:         wire.Bills,
		Customer:      wire.Customer,
		PaymentMethod: wire.PaymentMethod,
		Table:         decodeTable(wire.Table),
	}
	if o.ID == "" {
		o.ID = wire.AltID
	}

	for _, name := range ItemFields {
		raw, ok := fields[name]
		if !ok || isNull(raw) {
			continue
		}
		o.ItemSources = append(o.ItemSources, ItemSource{Field: name, Raw: raw})
	}
	return nil
}

// zonedLayouts — форматы orderDate со смещением.
var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z07:00",
}

// localLayouts — форматы без зоны; читаются как местное время точки продаж.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

var localZone atomic.Pointer[time.Location]

// SetLocalZone — зона, в которой читаются даты заказов без смещения (обычно зона отчётов).
func SetLocalZone(loc *time.Location) {
	if loc != nil {
		localZone.Store(loc)
	}
}

// LocalZone — зона для дат без смещения; по умолчанию UTC.
func LocalZone() *time.Location {
	if loc := localZone.Load(); loc != nil {
		return loc
	}
	return time.UTC
}

// ParseTimestamp — разбирает момент заказа; при неудаче возвращает нулевое время.
func ParseTimestamp(s string) time.Time {
	return ParseTimestampIn(s, LocalZone())
}

// ParseTimestampIn — как ParseTimestamp, но даты без смещения читаются в loc.
func ParseTimestampIn(s string, loc *time.Location) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t
		}
	}
	return time.Time{}
}

// decodeTable — стол бывает объектом, а бывает просто id (populate не сделан).
func decodeTable(raw json.RawMessage) *Table {
	if len(raw) == 0 || isNull(raw) {
		return nil
	}
	var t Table
	if err := json.Unmarshal(raw, &t); err == nil {
		return &t
	}
	var id string
	if err := json.Unmarshal(raw, &id); err == nil && id != "" {
		return &Table{ID: id}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
