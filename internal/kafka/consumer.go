package kafka

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/pos_reports/internal/ports"
	"github.com/Gunvolt24/pos_reports/pkg/metrics"
)

//go:generate mockgen -source=consumer.go -destination=./mocks/mock_consumer.go -package=mocks

var _ ports.MessageConsumer = (*Consumer)(nil)

// reader — часть kafka.Reader, которой пользуется Consumer.
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Config() kafka.ReaderConfig
	Close() error
}

// messageSaver — приём заказа: разбор, валидация, сохранение, сброс кэша отчётов.
type messageSaver interface {
	SaveFromMessage(ctx context.Context, raw []byte) error
}

// Consumer — читает заказы POS из топика и отдаёт их в IngestService.
// Доставка at-least-once: оффсет коммитится только после решения по сообщению.
type Consumer struct {
	reader         reader
	service        messageSaver
	log            ports.Logger
	processTimeout time.Duration
	retry          *backoff
	closeOnce      sync.Once
}

// NewConsumer — reader с ручным коммитом; неположительные таймауты заменяются умолчаниями.
func NewConsumer(cfg *ConsumerConfig, service messageSaver, log ports.Logger) *Consumer {
	c := cfg.withDefaults()
	return &Consumer{
		reader:         kafka.NewReader(c.ReaderConfig()),
		service:        service,
		log:            log,
		processTimeout: c.ProcessTimeout,
		retry:          newBackoff(c.RetryInitial, c.RetryMax, rand.New(rand.NewSource(time.Now().UnixNano()))),
	}
}

// Run — цикл чтения до отмены контекста. Ошибки брокера ждут с растущей паузой,
// решение о коммите принимает process.
func (c *Consumer) Run(ctx context.Context) error {
	rc := c.reader.Config()
	c.log.Infof(ctx, "order consumer started topic=%s group_id=%s brokers=%v", rc.Topic, rc.GroupID, rc.Brokers)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			wait := c.retry.Next()
			c.log.Warnf(ctx, "fetch failed: %v (will retry in %s)", err, wait)
			if !sleep(ctx, wait) {
				return ctx.Err()
			}
			continue
		}
		c.retry.Reset()
		metrics.KafkaMessagesConsumed.WithLabelValues(rc.Topic).Inc()

		switch c.process(ctx, rc.Topic, &msg) {
		case outcomeSaved, outcomeSkipped:
			c.commit(ctx, &msg)
		case outcomeRetry:
			_ = sleep(ctx, c.retry.Pause())
		}
	}
}

// Close — закрывает reader; повторные вызовы ничего не делают.
func (c *Consumer) Close() (retErr error) {
	c.closeOnce.Do(func() {
		retErr = c.reader.Close()
	})
	return retErr
}
