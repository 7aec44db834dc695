package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Gunvolt24/pos_reports/pkg/ctxmeta"
)

func observed() (*ZapLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return New(zap.New(core)), logs
}

func TestZapLogger_Levels(t *testing.T) {
	l, logs := observed()
	ctx := context.Background()

	l.Infof(ctx, "report built spec=%s", "day::")
	l.Warnf(ctx, "cache.Set failed key=%s", "k")
	l.Errorf(ctx, "list orders: %v", "boom")

	entries := logs.AllUntimed()
	if len(entries) != 3 {
		t.Fatalf("want 3 entries, got %d", len(entries))
	}
	want := []zapcore.Level{zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	for i, lvl := range want {
		if entries[i].Level != lvl {
			t.Fatalf("entry %d: want %s, got %s", i, lvl, entries[i].Level)
		}
	}
	if entries[0].Message != "report built spec=day::" {
		t.Fatalf("unexpected message %q", entries[0].Message)
	}
	if len(entries[0].Context) != 0 {
		t.Fatalf("no fields expected without metadata, got %v", entries[0].Context)
	}
}

func TestZapLogger_RequestIDField(t *testing.T) {
	l, logs := observed()

	l.Infof(ctxmeta.WithRequestID(context.Background(), "req-42"), "request")

	entries := logs.FilterField(zap.String("request_id", "req-42")).All()
	if len(entries) != 1 {
		t.Fatalf("want entry with request_id field, got %v", logs.AllUntimed())
	}
}

func TestNewZapLogger(t *testing.T) {
	for _, prod := range []bool{false, true} {
		l, cleanup, err := NewZapLogger(prod)
		if err != nil {
			t.Fatalf("NewZapLogger(%v): %v", prod, err)
		}
		if l.Base() == nil || cleanup == nil {
			t.Fatalf("logger not initialised")
		}
		_ = cleanup()
	}
}
