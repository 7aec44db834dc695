package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Gunvolt24/pos_reports/internal/domain"
	"github.com/Gunvolt24/pos_reports/internal/ports"
)

var _ ports.Notifier = (*AMQPNotifier)(nil)

// DefaultExchange — fanout-обменник уведомлений.
const DefaultExchange = "notifications_fanout"

// publisher — часть *amqp.Channel, нужная для публикации.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPNotifier — публикует уведомления в fanout-обменник RabbitMQ.
type AMQPNotifier struct {
	pub      publisher
	exchange string
	log      ports.Logger
	timeout  time.Duration
}

// NewAMQPNotifier — нотификатор поверх готового канала.
func NewAMQPNotifier(pub publisher, exchange string, log ports.Logger) *AMQPNotifier {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &AMQPNotifier{pub: pub, exchange: exchange, log: log, timeout: 2 * time.Second}
}

// DialAMQP — подключение, канал и объявление обменника. Возвращает нотификатор и функцию закрытия.
func DialAMQP(url, exchange string, log ports.Logger) (*AMQPNotifier, func() error, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("amqp channel: %w", err)
	}

	n := NewAMQPNotifier(ch, exchange, log)
	if err := ch.ExchangeDeclare(n.exchange, "fanout", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare exchange %s: %w", n.exchange, err)
	}

	closer := func() error {
		_ = ch.Close()
		return conn.Close()
	}
	return n, closer, nil
}

// Notify — ошибки публикации только логируются.
func (n *AMQPNotifier) Notify(ctx context.Context, notice domain.Notice) {
	body, err := json.Marshal(notice)
	if err != nil {
		n.log.Warnf(ctx, "amqp notice marshal: %v", err)
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()

	err = n.pub.PublishWithContext(pubCtx, n.exchange, "", false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		ContentType:  "application/json",
		Type:         string(notice.Severity),
		Body:         body,
	})
	if err != nil {
		n.log.Warnf(ctx, "amqp notice publish exchange=%s: %v", n.exchange, err)
	}
}
