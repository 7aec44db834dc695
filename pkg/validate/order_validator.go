package validate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gunvolt24/pos_reports/internal/domain"
	"github.com/Gunvolt24/pos_reports/internal/ports"
)

// Проверка, что OrderValidator удовлетворяет интерфейсу OrderValidator.
var _ ports.OrderValidator = (*OrderValidator)(nil)

// ErrInvalidOrder — базовая (sentinel error) ошибка валидации.
var ErrInvalidOrder = errors.New("order validation failed")

// minOrderDate — всё раньше считается мусором от продюсера.
var minOrderDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// OrderValidator — проверка заказа перед сохранением из брокера.
// Отчёты сами терпимы к грязным данным, но в БД пишем только то, что можно показать.
type OrderValidator struct{}

// NewOrderValidator — конструктор OrderValidator.
// Возвращает ErrInvalidOrder (с обёрнутой причиной) при любой проблеме.
func NewOrderValidator() *OrderValidator { return &OrderValidator{} }

// Validate — проверяет корректность полей заказа.
func (v *OrderValidator) Validate(_ context.Context, order *domain.Order) error {
	if err := v.validateCore(order); err != nil {
		return err
	}
	return v.validateBills(&order.Bills)
}

func (v *OrderValidator) validateCore(order *domain.Order) error {
	if order == nil {
		return fmt.Errorf("%w: заказ не может быть nil", ErrInvalidOrder)
	}
	if order.ID == "" {
		return fmt.Errorf("%w: _id обязателен", ErrInvalidOrder)
	}
	if order.OrderDate.IsZero() || order.OrderDate.Before(minOrderDate) {
		return fmt.Errorf("%w: orderDate некорректен", ErrInvalidOrder)
	}
	return nil
}

// Валидация сумм
func (v *OrderValidator) validateBills(b *domain.Bills) error {
	if b.Total.IsNegative() {
		return fmt.Errorf("%w: bills.total должен быть неотрицательным", ErrInvalidOrder)
	}
	if b.Tax.IsNegative() {
		return fmt.Errorf("%w: bills.tax должен быть неотрицательным", ErrInvalidOrder)
	}
	if b.TotalWithTax.IsNegative() {
		return fmt.Errorf("%w: bills.totalWithTax должен быть неотрицательным", ErrInvalidOrder)
	}
	return nil
}

// ErrMalformedOrder — сообщение не является заказом (битый JSON, мусор после объекта).
var ErrMalformedOrder = errors.New("malformed order message")
