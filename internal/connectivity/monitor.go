// Пакет connectivity — отслеживание связи с бэкендом POS.
package connectivity

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Gunvolt24/pos_reports/internal/ports"
)

var (
	_ ports.Connectivity = (*Monitor)(nil)
	_ ports.Connectivity = Static(true)
)

const (
	defaultInterval = 5 * time.Second
	defaultTimeout  = 2 * time.Second
)

// Monitor — периодический probe-запрос к бэкенду.
// Любой HTTP-ответ ниже 500 считается наличием связи.
type Monitor struct {
	probeURL string
	interval time.Duration
	http     *http.Client
	log      ports.Logger

	online atomic.Bool
	events chan struct{}
}

// NewMonitor — до первой проверки связь считается доступной.
func NewMonitor(probeURL string, interval, timeout time.Duration, log ports.Logger) *Monitor {
	if interval <= 0 {
		interval = defaultInterval
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	m := &Monitor{
		probeURL: probeURL,
		interval: interval,
		http:     &http.Client{Timeout: timeout, Transport: otelhttp.NewTransport(http.DefaultTransport)},
		log:      log,
		events:   make(chan struct{}, 1),
	}
	m.online.Store(true)
	return m
}

func (m *Monitor) Online() bool { return m.online.Load() }

// BecameOnline — событие на переход offline → online; пропущенные события схлопываются.
func (m *Monitor) BecameOnline() <-chan struct{} { return m.events }

// Check — одна проверка; обновляет состояние и возвращает его.
func (m *Monitor) Check(ctx context.Context) bool {
	up := m.probe(ctx)
	prev := m.online.Swap(up)

	switch {
	case up && !prev:
		m.log.Infof(ctx, "connectivity restored probe=%s", m.probeURL)
		select {
		case m.events <- struct{}{}:
		default:
		}
	case !up && prev:
		m.log.Warnf(ctx, "connectivity lost probe=%s", m.probeURL)
	}
	return up
}

// Run — проверяет сразу и затем раз в interval до отмены контекста.
func (m *Monitor) Run(ctx context.Context) error {
	m.Check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

func (m *Monitor) probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.probeURL, http.NoBody)
	if err != nil {
		return false
	}
	resp, err := m.http.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return resp.StatusCode < http.StatusInternalServerError
}

// Static — фиксированное состояние связи (CLI, отключённый probe).
type Static bool

func (s Static) Online() bool { return bool(s) }

// BecameOnline — nil-канал: события не приходят никогда.
func (Static) BecameOnline() <-chan struct{} { return nil }
