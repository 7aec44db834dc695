package connectivity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

// switchable — probe-сервер, который можно "ронять".
func switchable(t *testing.T) (*httptest.Server, *atomic.Bool) {
	t.Helper()
	var down atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if down.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv, &down
}

func TestMonitor_TransitionsEmitOnlineEvent(t *testing.T) {
	srv, down := switchable(t)
	m := NewMonitor(srv.URL, time.Hour, time.Second, noopLogger{})
	ctx := context.Background()

	if !m.Check(ctx) || !m.Online() {
		t.Fatal("expected online")
	}
	select {
	case <-m.BecameOnline():
		t.Fatal("no event expected while staying online")
	default:
	}

	down.Store(true)
	if m.Check(ctx) || m.Online() {
		t.Fatal("expected offline on 503")
	}

	down.Store(false)
	if !m.Check(ctx) {
		t.Fatal("expected online again")
	}
	select {
	case <-m.BecameOnline():
	default:
		t.Fatal("expected became-online event")
	}
}

// 4xx от бэкенда: связь есть.
func TestMonitor_ClientErrorCountsAsOnline(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	if !NewMonitor(srv.URL, time.Hour, time.Second, noopLogger{}).Check(context.Background()) {
		t.Fatal("404 must count as online")
	}
}

func TestMonitor_UnreachableIsOffline(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	m := NewMonitor(url, time.Hour, 200*time.Millisecond, noopLogger{})
	if m.Check(context.Background()) {
		t.Fatal("closed server must be offline")
	}
}

// Повторные переходы без чтения канала не блокируют Check.
func TestMonitor_EventsCoalesce(t *testing.T) {
	srv, down := switchable(t)
	m := NewMonitor(srv.URL, time.Hour, time.Second, noopLogger{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		down.Store(true)
		m.Check(ctx)
		down.Store(false)
		m.Check(ctx)
	}

	if got := len(m.BecameOnline()); got != 1 {
		t.Fatalf("want 1 pending event, got %d", got)
	}
}

func TestMonitor_RunStopsOnCancel(t *testing.T) {
	srv, _ := switchable(t)
	m := NewMonitor(srv.URL, 10*time.Millisecond, time.Second, noopLogger{})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := m.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want DeadlineExceeded, got %v", err)
	}
}

func TestStatic(t *testing.T) {
	if !Static(true).Online() || Static(false).Online() {
		t.Fatal("static state mismatch")
	}
	if Static(true).BecameOnline() != nil {
		t.Fatal("static monitor has no events")
	}
}
