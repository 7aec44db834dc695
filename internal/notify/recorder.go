package notify

import (
	"context"
	"sync"

	"github.com/Gunvolt24/pos_reports/internal/domain"
	"github.com/Gunvolt24/pos_reports/internal/ports"
)

var (
	_ ports.Notifier   = (*Recorder)(nil)
	_ ports.NoticeFeed = (*Recorder)(nil)
)

const defaultRecorderSize = 50

// Recorder — кольцевой буфер последних уведомлений.
type Recorder struct {
	mu    sync.Mutex
	buf   []domain.Notice
	next  int
	count int
}

// NewRecorder — size <= 0 означает размер по умолчанию.
func NewRecorder(size int) *Recorder {
	if size <= 0 {
		size = defaultRecorderSize
	}
	return &Recorder{buf: make([]domain.Notice, size)}
}

func (r *Recorder) Notify(_ context.Context, notice domain.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buf[r.next] = notice
	r.next = (r.next + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Recent — до limit последних уведомлений, новые первыми; limit <= 0 — все.
func (r *Recorder) Recent(limit int) []domain.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.count
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.Notice, 0, n)
	for i := 1; i <= n; i++ {
		idx := (r.next - i + len(r.buf)) % len(r.buf)
		out = append(out, r.buf[idx])
	}
	return out
}
