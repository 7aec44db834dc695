package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/pos_reports/pkg/metrics"
	"github.com/Gunvolt24/pos_reports/pkg/validate"
)

// outcome — что делать с оффсетом после обработки.
type outcome int

const (
	outcomeSaved   outcome = iota // сохранено, коммит
	outcomeSkipped                // заказ не принят навсегда, коммит
	outcomeRetry                  // временная ошибка, без коммита
)

// process — приём одного сообщения с таймаутом processTimeout.
func (c *Consumer) process(ctx context.Context, topic string, msg *kafka.Message) outcome {
	pctx, cancel := context.WithTimeout(ctx, c.processTimeout)
	defer cancel()

	err := c.service.SaveFromMessage(pctx, msg.Value)
	switch {
	case err == nil:
		metrics.KafkaMessagesProcessed.WithLabelValues(topic).Inc()
		return outcomeSaved
	case errors.Is(err, validate.ErrInvalidOrder), errors.Is(err, validate.ErrMalformedOrder):
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Warnf(ctx, "order rejected partition=%d offset=%d key=%s: %v (skipped)",
			msg.Partition, msg.Offset, string(msg.Key), err)
		return outcomeSkipped
	default:
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Warnf(ctx, "order processing failed partition=%d offset=%d: %v (will retry without commit)",
			msg.Partition, msg.Offset, err)
		return outcomeRetry
	}
}

// commit — ошибка коммита только логируется: сообщение придёт повторно, upsert идемпотентен.
func (c *Consumer) commit(ctx context.Context, msg *kafka.Message) {
	if err := c.reader.CommitMessages(ctx, *msg); err != nil {
		c.log.Warnf(ctx, "commit failed partition=%d offset=%d: %v", msg.Partition, msg.Offset, err)
	}
}

// sleep — false, если контекст отменён раньше.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
