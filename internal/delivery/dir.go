// Пакет delivery — выгрузка готовых файлов отчётов.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Gunvolt24/pos_reports/internal/domain"
	"github.com/Gunvolt24/pos_reports/internal/ports"
)

var _ ports.ReportDelivery = (*Dir)(nil)

// Dir — запись файла отчёта в каталог выгрузки.
type Dir struct {
	path string
}

// NewDir — каталог создаётся при первой записи.
func NewDir(path string) *Dir { return &Dir{path: path} }

// Path — каталог выгрузки.
func (d *Dir) Path() string { return d.path }

// Deliver — атомарная запись: временный файл и rename. Существующий файл перезаписывается.
func (d *Dir) Deliver(ctx context.Context, file *domain.ExportFile) error {
	if file == nil {
		return errors.New("nil export file")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	name := filepath.Base(file.Name)
	if name == "." || name == string(filepath.Separator) {
		return fmt.Errorf("invalid export file name %q", file.Name)
	}
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	tmp, err := os.CreateTemp(d.path, "."+name+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(file.Body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close export: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(d.path, name)); err != nil {
		return fmt.Errorf("rename export: %w", err)
	}
	return nil
}
