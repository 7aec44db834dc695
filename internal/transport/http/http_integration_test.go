//go:build integration

package rest_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cachemem "github.com/Gunvolt24/pos_reports/internal/cache/memory"
	"github.com/Gunvolt24/pos_reports/internal/client"
	"github.com/Gunvolt24/pos_reports/internal/connectivity"
	"github.com/Gunvolt24/pos_reports/internal/domain"
	"github.com/Gunvolt24/pos_reports/internal/notify"
	"github.com/Gunvolt24/pos_reports/internal/offline"
	pgrepo "github.com/Gunvolt24/pos_reports/internal/repo/postgres"
	"github.com/Gunvolt24/pos_reports/internal/reporting"
	"github.com/Gunvolt24/pos_reports/internal/storage/memory"
	"github.com/Gunvolt24/pos_reports/internal/testutil"
	rest "github.com/Gunvolt24/pos_reports/internal/transport/http"
	"github.com/Gunvolt24/pos_reports/internal/usecase"
	"github.com/Gunvolt24/pos_reports/pkg/logger"
	"github.com/Gunvolt24/pos_reports/pkg/validate"
)

// fakeUpstream — бэкенд регистраций; online=false отвечает 503.
type fakeUpstream struct {
	online   atomic.Bool
	received atomic.Int32
}

func (u *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !u.online.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	_, _ = io.Copy(io.Discard, r.Body)
	u.received.Add(1)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = io.WriteString(w, `{"success":true,"message":"Nuevo usuario creado!"}`)
}

type server struct {
	url      string
	ingest   *usecase.IngestService
	queue    *offline.Queue
	upstream *fakeUpstream
}

// newServer — Postgres с миграциями, сервисы и HTTP-сервер поверх них.
// online задаёт состояние связи для регистраций.
func newServer(t *testing.T, online bool) *server {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg, stop, err := testutil.StartPostgresTC(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stop(context.Background()) })
	require.NoError(t, testutil.ApplyMigrationsGoose(pg.DSN))

	logg, cleanup, err := logger.NewZapLogger(false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })

	loc, err := time.LoadLocation("America/La_Paz")
	require.NoError(t, err)

	upstream := &fakeUpstream{}
	upstream.online.Store(true)
	up := httptest.NewServer(upstream)
	t.Cleanup(up.Close)

	repo := pgrepo.NewOrderRepository(pg.Pool)
	cache := cachemem.NewReportCache(16, time.Minute)
	recorder := notify.NewRecorder(32)
	notifier := notify.NewFanout(notify.NewLogNotifier(logg), recorder)

	queue := offline.NewQueue(memory.NewStore(), logg, domain.QueueTypeUserRegistration)
	registrar := client.NewRegistrationClient(up.URL, 2*time.Second)

	reports := usecase.NewReportService(repo, cache, notifier, reporting.NewResolver(time.Now, loc), logg)
	regs := usecase.NewRegistrationService(registrar, queue, connectivity.Static(online), notifier, logg)
	coordinator := offline.NewCoordinator(queue, registrar, notifier, logg)

	h := rest.NewHandler(rest.Services{
		Reports:       reports,
		Registrations: regs,
		Queue:         queue,
		Sync:          coordinator,
		Notices:       recorder,
	}, logg, 5*time.Second)
	ts := httptest.NewServer(rest.NewRouter(h, "", ""))
	t.Cleanup(ts.Close)

	return &server{
		url:      ts.URL,
		ingest:   usecase.NewIngestService(repo, cache, logg, validate.NewOrderValidator()),
		queue:    queue,
		upstream: upstream,
	}
}

func getJSON(t *testing.T, url string, wantCode int) map[string]any {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, wantCode, resp.StatusCode)

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	return got
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// Заказы из Postgres: сводка, страница строк и CSV за сегодня.
func TestHTTP_Reports_TC(t *testing.T) {
	s := newServer(t, true)
	ctx := context.Background()

	now := time.Now()
	for _, doc := range []testutil.OrderDoc{
		testutil.MakeOrder(testutil.WithOrderDate(now), testutil.WithTotal(100)),
		testutil.MakeOrder(testutil.WithOrderDate(now), testutil.WithTotal(50)),
		testutil.MakeOrder(testutil.WithOrderDate(now.AddDate(0, -3, 0)), testutil.WithTotal(999)),
	} {
		require.NoError(t, s.ingest.SaveFromMessage(ctx, doc.JSON()))
	}

	got := getJSON(t, s.url+"/reports/summary?range=day", http.StatusOK)
	summary := got["summary"].(map[string]any)
	require.Equal(t, "150", summary["totalSales"])
	require.EqualValues(t, 2, summary["ticketCount"])
	require.Equal(t, "75", summary["averageTicket"])

	page := getJSON(t, s.url+"/reports/orders?range=day&limit=1&offset=1", http.StatusOK)
	require.EqualValues(t, 2, page["total"])
	require.Len(t, page["rows"], 1)

	resp, err := http.Get(s.url + "/reports/export?range=day")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Disposition"), "ventas-day-")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(string(body), "\r\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "Pedido,Fecha,Hora"))
}

// Пустой диапазон: выгрузки нет, в ленте уведомление.
func TestHTTP_Export_Empty_TC(t *testing.T) {
	s := newServer(t, true)

	resp, err := http.Get(s.url + "/reports/export?range=custom-year&from=2001&to=2001")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	notices := getJSON(t, s.url+"/notices?limit=1", http.StatusOK)["notices"].([]any)
	require.Len(t, notices, 1)
	require.Equal(t, usecase.MsgNothingToExport, notices[0].(map[string]any)["message"])

	bad := getJSON(t, s.url+"/reports/summary?range=custom-date&from=2025-03-01&to=2025-01-01", http.StatusBadRequest)
	require.Equal(t, usecase.MsgInvertedRange, bad["error"])
}

const regJSON = `{"name":"Ana","email":"ana@pos.bo","phone":"71234567","password":"secreto","role":"Cajero"}`

// Без связи регистрация ждёт в очереди и уходит при синхронизации.
func TestHTTP_OfflineRegistration_SyncDrainsQueue_TC(t *testing.T) {
	s := newServer(t, false)

	resp := post(t, s.url+"/registrations", regJSON)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.EqualValues(t, 0, s.upstream.received.Load())

	pending := getJSON(t, s.url+"/offline/queue/"+domain.QueueTypeUserRegistration, http.StatusOK)
	require.EqualValues(t, 1, pending["total"])

	// апстрим лежит: запись остаётся в очереди
	s.upstream.online.Store(false)
	resp = post(t, s.url+"/offline/sync", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, s.queue.Pending(context.Background()), 1)

	s.upstream.online.Store(true)
	resp = post(t, s.url+"/offline/sync", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var outcome domain.SyncOutcome
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&outcome))
	require.Equal(t, 1, outcome.Synced)
	require.Equal(t, 0, outcome.Failed)
	require.EqualValues(t, 1, s.upstream.received.Load())
	require.Empty(t, s.queue.Pending(context.Background()))

	notices := getJSON(t, s.url+"/notices", http.StatusOK)["notices"].([]any)
	require.Equal(t, "1 registro sincronizado correctamente.", notices[0].(map[string]any)["message"])
}

// Со связью регистрация уходит сразу.
func TestHTTP_OnlineRegistration_TC(t *testing.T) {
	s := newServer(t, true)

	resp := post(t, s.url+"/registrations", regJSON)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.EqualValues(t, 1, s.upstream.received.Load())
	require.Empty(t, s.queue.Pending(context.Background()))

	s.upstream.online.Store(false)
	resp = post(t, s.url+"/registrations", regJSON)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	require.Empty(t, s.queue.Pending(context.Background()))
}

func TestHTTP_Health_Metrics_And_404_TC(t *testing.T) {
	s := newServer(t, true)

	for path, want := range map[string]int{
		"/ping":     http.StatusOK,
		"/metrics":  http.StatusOK,
		"/no-route": http.StatusNotFound,
	} {
		resp, err := http.Get(s.url + path)
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.Equal(t, want, resp.StatusCode, path)
	}

	resp, err := http.Post(s.url+"/reports/summary", "application/json", http.NoBody)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	require.Equal(t, "GET", resp.Header.Get("Allow"))
}
