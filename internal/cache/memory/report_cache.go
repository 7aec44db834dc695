// Package memory — LRU-кэш отчётов с TTL в памяти процесса.
package memory

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/Gunvolt24/pos_reports/internal/domain"
	"github.com/Gunvolt24/pos_reports/internal/ports"
	"github.com/Gunvolt24/pos_reports/pkg/metrics"
)

var _ ports.ReportCache = (*ReportCache)(nil)

type cached struct {
	key    string
	report *domain.SalesReport
	until  time.Time // нулевое значение: без срока
}

// ReportCache — LRU с фиксированным сроком жизни записи (ttl <= 0 — без срока).
// Срок считается от Set и не продлевается чтением.
type ReportCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	now      func() time.Time
	order    *list.List // фронт: последние использованные
	byKey    map[string]*list.Element
}

func NewReportCache(capacity int, ttl time.Duration) *ReportCache {
	return &ReportCache{
		capacity: max(capacity, 1),
		ttl:      ttl,
		now:      time.Now,
		order:    list.New(),
		byKey:    make(map[string]*list.Element),
	}
}

// WithClock — подмена часов (для тестов).
func (c *ReportCache) WithClock(now func() time.Time) *ReportCache {
	c.now = now
	return c
}

// Get — копия отчёта; просроченная запись удаляется и считается промахом.
func (c *ReportCache) Get(_ context.Context, key string) (*domain.SalesReport, bool) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.byKey[key]
	switch {
	case !ok:
		metrics.CacheOps.WithLabelValues("miss").Inc()
		return nil, false
	case c.stale(el, now):
		c.drop(el, "expired")
		return nil, false
	}
	c.order.MoveToFront(el)
	metrics.CacheOps.WithLabelValues("hit").Inc()
	return cloneReport(el.Value.(*cached).report), true
}

// Set — сохраняет копию отчёта; nil-отчёт и пустой ключ игнорируются.
func (c *ReportCache) Set(_ context.Context, key string, report *domain.SalesReport) error {
	if report == nil || key == "" {
		return nil
	}
	now := c.now()
	item := &cached{key: key, report: cloneReport(report)}
	if c.ttl > 0 {
		item.until = now.Add(c.ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.byKey[key]; ok {
		el.Value = item
		c.order.MoveToFront(el)
		return nil
	}

	// просроченные копятся в хвосте
	for back := c.order.Back(); back != nil && c.stale(back, now); back = c.order.Back() {
		c.drop(back, "expired")
	}

	c.byKey[key] = c.order.PushFront(item)
	if c.order.Len() > c.capacity {
		c.drop(c.order.Back(), "evicted")
	}
	metrics.CacheSize.Set(float64(len(c.byKey)))
	return nil
}

// Purge — сбросить все отчёты (пришли новые заказы).
func (c *ReportCache) Purge(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n := len(c.byKey); n > 0 {
		metrics.CacheOps.WithLabelValues("purged").Add(float64(n))
	}
	c.order.Init()
	clear(c.byKey)
	metrics.CacheSize.Set(0)
}

// Len — число записей, включая ещё не вычищенные просроченные.
func (c *ReportCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *ReportCache) stale(el *list.Element, now time.Time) bool {
	until := el.Value.(*cached).until
	return !until.IsZero() && now.After(until)
}

// drop — удаление под c.mu с учётом в метриках.
func (c *ReportCache) drop(el *list.Element, reason string) {
	delete(c.byKey, el.Value.(*cached).key)
	c.order.Remove(el)
	metrics.CacheOps.WithLabelValues(reason).Inc()
	metrics.CacheSize.Set(float64(len(c.byKey)))
}

func cloneReport(report *domain.SalesReport) *domain.SalesReport {
	cp := *report
	cp.Rows = append([]domain.ReportRow(nil), report.Rows...)
	return &cp
}
