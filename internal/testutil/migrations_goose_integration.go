//go:build integration

package testutil

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pressly/goose/v3"

	pgrepo "github.com/Gunvolt24/pos_reports/internal/repo/postgres"
)

// ApplyMigrationsGoose — применяет миграции из <repo_root>/migrations
// (<repo_root> — два уровня вверх от этого файла). Схему orders и offline_kv
// тесты получают так же, как сервер при старте.
func ApplyMigrationsGoose(dsn string) error {
	_, thisFile, _, _ := runtime.Caller(0)
	repoRoot := filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", ".."))
	dir := filepath.Join(repoRoot, "migrations")

	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return fmt.Errorf("migrations dir not found: %q (рассчитан от %s)", dir, thisFile)
	}

	goose.SetLogger(log.New(os.Stdout, "[goose] ", 0))
	return pgrepo.Migrate(context.Background(), dsn, dir)
}
