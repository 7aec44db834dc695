// Пакет notify — доставка пользовательских уведомлений (лог, лента последних, RabbitMQ).
package notify

import (
	"context"

	"github.com/Gunvolt24/pos_reports/internal/domain"
	"github.com/Gunvolt24/pos_reports/internal/ports"
	"github.com/Gunvolt24/pos_reports/pkg/metrics"
)

var (
	_ ports.Notifier = (*Fanout)(nil)
	_ ports.Notifier = (*LogNotifier)(nil)
)

// Fanout — рассылает уведомление всем получателям по очереди.
type Fanout struct {
	targets []ports.Notifier
}

// NewFanout — nil-получатели пропускаются.
func NewFanout(targets ...ports.Notifier) *Fanout {
	f := &Fanout{}
	for _, t := range targets {
		if t != nil {
			f.targets = append(f.targets, t)
		}
	}
	return f
}

func (f *Fanout) Notify(ctx context.Context, notice domain.Notice) {
	metrics.NoticesPublished.WithLabelValues(string(notice.Severity)).Inc()
	for _, t := range f.targets {
		t.Notify(ctx, notice)
	}
}

// LogNotifier — уведомления в лог; уровень по severity.
type LogNotifier struct {
	log ports.Logger
}

func NewLogNotifier(log ports.Logger) *LogNotifier { return &LogNotifier{log: log} }

func (n *LogNotifier) Notify(ctx context.Context, notice domain.Notice) {
	switch notice.Severity {
	case domain.SeverityError:
		n.log.Errorf(ctx, "notice severity=%s message=%q", notice.Severity, notice.Message)
	case domain.SeverityWarning:
		n.log.Warnf(ctx, "notice severity=%s message=%q", notice.Severity, notice.Message)
	default:
		n.log.Infof(ctx, "notice severity=%s message=%q", notice.Severity, notice.Message)
	}
}
