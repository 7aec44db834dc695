package offline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Gunvolt24/pos_reports/internal/domain"
	"github.com/Gunvolt24/pos_reports/internal/ports"
	"github.com/Gunvolt24/pos_reports/pkg/metrics"
)

var _ ports.SyncTrigger = (*Coordinator)(nil)

const removeTimeout = 5 * time.Second

// Coordinator — повторная отправка отложенных регистраций.
// Одновременно выполняется не больше одного прохода.
type Coordinator struct {
	queue     *Queue
	registrar ports.Registrar
	notifier  ports.Notifier
	log       ports.Logger
	now       func() time.Time

	syncing atomic.Bool
}

// NewCoordinator — DI-конструктор.
func NewCoordinator(queue *Queue, registrar ports.Registrar, notifier ports.Notifier, log ports.Logger) *Coordinator {
	return &Coordinator{
		queue:     queue,
		registrar: registrar,
		notifier:  notifier,
		log:       log,
		now:       time.Now,
	}
}

// Syncing — идёт ли сейчас проход.
func (c *Coordinator) Syncing() bool { return c.syncing.Load() }

// Trigger — запустить проход; false, если проход уже идёт (вызов игнорируется).
func (c *Coordinator) Trigger(ctx context.Context) (domain.SyncOutcome, bool) {
	if !c.syncing.CompareAndSwap(false, true) {
		metrics.SyncRuns.WithLabelValues("busy").Inc()
		c.log.Infof(ctx, "offline sync already running, trigger ignored")
		return domain.SyncOutcome{}, false
	}
	defer c.syncing.Store(false)

	return c.drain(ctx), true
}

// drain — каждая запись отправляется ровно один раз, по порядку.
// Успешные удаляются одним пакетом, неуспешные остаются в очереди.
func (c *Coordinator) drain(ctx context.Context) domain.SyncOutcome {
	entries := c.queue.ReadAll(ctx, domain.QueueTypeUserRegistration)
	if len(entries) == 0 {
		metrics.SyncRuns.WithLabelValues("empty").Inc()
		return domain.SyncOutcome{}
	}

	c.log.Infof(ctx, "offline sync started entries=%d", len(entries))
	start := time.Now()

	synced := make([]string, 0, len(entries))
	failed := 0
	for _, entry := range entries {
		if ctx.Err() != nil {
			// оставшиеся записи дождутся следующего прохода
			break
		}
		if _, err := c.registrar.Register(ctx, entry.Payload); err != nil {
			failed++
			metrics.SyncReplays.WithLabelValues("failed").Inc()
			c.log.Warnf(ctx, "offline replay failed id=%s err=%v", entry.ID, err)
			continue
		}
		synced = append(synced, entry.ID)
		metrics.SyncReplays.WithLabelValues("synced").Inc()
	}

	// отправленные записи удаляются и после отмены ctx, иначе они уйдут повторно
	removeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), removeTimeout)
	defer cancel()
	if err := c.queue.RemoveByIDs(removeCtx, domain.QueueTypeUserRegistration, synced...); err != nil {
		c.log.Errorf(ctx, "offline sync could not drop synced entries err=%v", err)
	}

	outcome := domain.SyncOutcome{
		Attempted: len(synced) + failed,
		Synced:    len(synced),
		Failed:    failed,
	}
	if notice, ok := summaryNotice(outcome.Synced, outcome.Failed, c.now()); ok {
		outcome.Notice = &notice
		c.notifier.Notify(ctx, notice)
	}

	metrics.SyncRuns.WithLabelValues("drained").Inc()
	c.log.Infof(ctx, "offline sync finished synced=%d failed=%d took=%s", outcome.Synced, outcome.Failed, time.Since(start))
	return outcome
}

// Watch — проход сразу, если связь уже есть, и затем на каждое восстановление связи.
// Блокируется до отмены ctx и завершения запущенных проходов.
func (c *Coordinator) Watch(ctx context.Context, conn ports.Connectivity) {
	var wg sync.WaitGroup
	defer wg.Wait()

	trigger := func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Trigger(ctx)
		}()
	}

	if conn.Online() {
		trigger()
	}
	events := conn.BecameOnline()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			trigger()
		}
	}
}

// summaryNotice — одно сводное уведомление по итогам прохода.
func summaryNotice(synced, failed int, at time.Time) (domain.Notice, bool) {
	if synced == 0 && failed == 0 {
		return domain.Notice{}, false
	}

	parts := make([]string, 0, 2)
	if synced > 0 {
		parts = append(parts, fmt.Sprintf("%d %s correctamente.", synced, plural(synced, "registro sincronizado", "registros sincronizados")))
	}
	if failed > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", failed, plural(failed, "registro", "registros")+" no pudo sincronizarse."))
	}

	severity := domain.SeverityWarning
	switch {
	case failed == 0:
		severity = domain.SeveritySuccess
	case synced == 0:
		severity = domain.SeverityError
	}
	return domain.Notice{Message: strings.Join(parts, " "), Severity: severity, At: at}, true
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
