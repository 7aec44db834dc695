package delivery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Gunvolt24/pos_reports/internal/domain"
)

func TestDir_DeliverWritesFile(t *testing.T) {
	root := filepath.Join(t.TempDir(), "exports")
	d := NewDir(root)

	file := &domain.ExportFile{
		Name:        "ventas-day-2025-01-15.csv",
		ContentType: "text/csv;charset=utf-8",
		Body:        []byte("Pedido,Fecha\r\nA1,15/01/2025"),
	}
	if err := d.Deliver(context.Background(), file); err != nil {
		t.Fatalf("Deliver: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(root, file.Name))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != string(file.Body) {
		t.Fatalf("body mismatch: %q", got)
	}

	// временных файлов не остаётся
	entries, _ := os.ReadDir(root)
	if len(entries) != 1 {
		t.Fatalf("want 1 file in dir, got %d", len(entries))
	}
}

func TestDir_DeliverOverwrites(t *testing.T) {
	d := NewDir(t.TempDir())
	ctx := context.Background()

	for _, body := range []string{"first", "second"} {
		if err := d.Deliver(ctx, &domain.ExportFile{Name: "r.csv", Body: []byte(body)}); err != nil {
			t.Fatalf("Deliver: %v", err)
		}
	}
	got, _ := os.ReadFile(filepath.Join(d.Path(), "r.csv"))
	if string(got) != "second" {
		t.Fatalf("want overwritten body, got %q", got)
	}
}

// Имя файла не может увести запись из каталога.
func TestDir_DeliverStripsPath(t *testing.T) {
	d := NewDir(t.TempDir())
	if err := d.Deliver(context.Background(), &domain.ExportFile{Name: "../../evil.csv", Body: []byte("x")}); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if _, err := os.Stat(filepath.Join(d.Path(), "evil.csv")); err != nil {
		t.Fatalf("expected file inside export dir: %v", err)
	}
}

func TestDir_DeliverErrors(t *testing.T) {
	d := NewDir(t.TempDir())

	if err := d.Deliver(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil file")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := d.Deliver(ctx, &domain.ExportFile{Name: "r.csv"}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
