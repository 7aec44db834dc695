package memory

import (
	"context"
	"testing"
	"time"

	"github.com/Gunvolt24/pos_reports/internal/domain"
)

type manualClock struct{ t time.Time }

func (m *manualClock) now() time.Time          { return m.t }
func (m *manualClock) advance(d time.Duration) { m.t = m.t.Add(d) }

func newReport(kind domain.RangeKind, ids ...string) *domain.SalesReport {
	r := &domain.SalesReport{Spec: domain.RangeSpec{Kind: kind}}
	for _, id := range ids {
		r.Rows = append(r.Rows, domain.ReportRow{OrderID: id})
	}
	return r
}

func TestSetGet_HitMiss(t *testing.T) {
	c := NewReportCache(2, 5*time.Minute)
	ctx := context.Background()

	if _, ok := c.Get(ctx, "day"); ok {
		t.Fatalf("expected miss before Set")
	}

	_ = c.Set(ctx, "day", newReport(domain.RangeDay, "1"))
	got, ok := c.Get(ctx, "day")
	if !ok || got.Spec.Kind != domain.RangeDay || len(got.Rows) != 1 {
		t.Fatalf("expected hit for day, got %+v", got)
	}
}

func TestTTL_FixedExpiry(t *testing.T) {
	clock := &manualClock{t: time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)}
	c := NewReportCache(2, time.Minute).WithClock(clock.now)
	ctx := context.Background()

	_ = c.Set(ctx, "week", newReport(domain.RangeWeek))

	clock.advance(40 * time.Second)
	if _, ok := c.Get(ctx, "week"); !ok {
		t.Fatalf("expected hit before TTL")
	}

	// чтение не продлевает срок
	clock.advance(40 * time.Second)
	if _, ok := c.Get(ctx, "week"); ok {
		t.Fatalf("expected miss after TTL expires")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry must be removed, len=%d", c.Len())
	}
}

func TestLRUEviction(t *testing.T) {
	c := NewReportCache(2, 0) // 0 = без TTL
	ctx := context.Background()

	_ = c.Set(ctx, "A", newReport(domain.RangeDay))
	_ = c.Set(ctx, "B", newReport(domain.RangeWeek))
	if _, ok := c.Get(ctx, "A"); !ok {
		t.Fatalf("expected hit for A")
	}
	// C вытеснит B (самый давний по использованию)
	_ = c.Set(ctx, "C", newReport(domain.RangeMonth))

	if _, ok := c.Get(ctx, "B"); ok {
		t.Fatalf("expected B to be evicted")
	}
	if _, ok := c.Get(ctx, "A"); !ok {
		t.Fatalf("expected A to stay")
	}
	if _, ok := c.Get(ctx, "C"); !ok {
		t.Fatalf("expected C to stay")
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	c := NewReportCache(2, 0)
	ctx := context.Background()

	_ = c.Set(ctx, "day", newReport(domain.RangeDay, "1", "2"))

	got, _ := c.Get(ctx, "day")
	got.Rows[0].OrderID = "changed"
	got.Rows = got.Rows[:1]

	again, _ := c.Get(ctx, "day")
	if len(again.Rows) != 2 || again.Rows[0].OrderID != "1" {
		t.Fatalf("cached report was mutated through a returned copy: %+v", again.Rows)
	}
}

func TestPurge(t *testing.T) {
	c := NewReportCache(4, 0)
	ctx := context.Background()

	_ = c.Set(ctx, "A", newReport(domain.RangeDay))
	_ = c.Set(ctx, "B", newReport(domain.RangeDay))
	c.Purge(ctx)

	if c.Len() != 0 {
		t.Fatalf("want empty cache after purge, len=%d", c.Len())
	}
	if _, ok := c.Get(ctx, "A"); ok {
		t.Fatalf("expected miss after purge")
	}
}

func TestSet_IgnoresNilAndEmptyKey(t *testing.T) {
	c := NewReportCache(2, 0)
	ctx := context.Background()

	_ = c.Set(ctx, "", newReport(domain.RangeDay))
	_ = c.Set(ctx, "x", nil)
	if c.Len() != 0 {
		t.Fatalf("nothing must be cached, len=%d", c.Len())
	}
}
