//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/pos_reports/internal/domain"
	"github.com/Gunvolt24/pos_reports/internal/offline"
	pgstore "github.com/Gunvolt24/pos_reports/internal/storage/postgres"
	"github.com/Gunvolt24/pos_reports/internal/testutil"
)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

func TestStore_QueueRoundTrip_TC(t *testing.T) {
	t.Parallel()

	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStart()

	pg, stopPG, err := testutil.StartPostgresTC(ctxStart)
	require.NoError(t, err)
	defer func() { _ = stopPG(context.Background()) }()
	require.NoError(t, testutil.ApplyMigrationsGoose(pg.DSN))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store := pgstore.NewStore(pg.Pool)

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	q := offline.NewQueue(store, noopLogger{})
	res := q.Enqueue(ctx, domain.QueueTypeUserRegistration, []byte(`{"email":"a@pos.bo"}`))
	require.False(t, res.Dropped, "reason: %v", res.Reason)

	// новая очередь поверх того же хранилища видит запись (переживает перезапуск)
	reopened := offline.NewQueue(pgstore.NewStore(pg.Pool), noopLogger{})
	entries := reopened.ReadAll(ctx, domain.QueueTypeUserRegistration)
	require.Len(t, entries, 1)
	require.Equal(t, res.Entry.ID, entries[0].ID)

	require.NoError(t, reopened.RemoveByIDs(ctx, domain.QueueTypeUserRegistration, res.Entry.ID))
	_, ok, err = store.Get(ctx, offline.KeyPrefix+domain.QueueTypeUserRegistration)
	require.NoError(t, err)
	require.False(t, ok, "empty queue must be stored as absence of the key")
}
