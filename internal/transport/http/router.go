package rest

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Gunvolt24/pos_reports/internal/ports"
	"github.com/Gunvolt24/pos_reports/pkg/httpx"
)

// Services — прикладные сервисы, которые обслуживает HTTP-слой.
type Services struct {
	Reports       ports.ReportService
	Registrations ports.RegistrationService
	Queue         ports.OfflineQueue
	Sync          ports.SyncTrigger
	Notices       ports.NoticeFeed
}

// Handler — HTTP-обработчики отчётов, регистраций и офлайн-очереди.
type Handler struct {
	reports       ports.ReportService
	registrations ports.RegistrationService
	queue         ports.OfflineQueue
	sync          ports.SyncTrigger
	notices       ports.NoticeFeed
	log           ports.Logger
	timeout       time.Duration
}

// NewHandler — timeout <= 0 отключает ограничение времени обработчика.
func NewHandler(svc Services, log ports.Logger, timeout time.Duration) *Handler {
	return &Handler{
		reports:       svc.Reports,
		registrations: svc.Registrations,
		queue:         svc.Queue,
		sync:          svc.Sync,
		notices:       svc.Notices,
		log:           log,
		timeout:       timeout,
	}
}

// NewRouter — gin с middleware (recovery, request id, otel, логирование) и маршрутами.
// otelServiceName пустой — трейсинг запросов выключен.
func NewRouter(h *Handler, staticDir, otelServiceName string) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(httpx.RequestIDMiddleware())
	if otelServiceName != "" {
		r.Use(otelgin.Middleware(otelServiceName))
	}
	r.Use(httpx.RequestLogger(h.log, "/metrics", "/ping"))

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	reports := r.Group("/reports")
	reports.GET("/summary", h.reportSummary)
	reports.GET("/orders", h.reportOrders)
	reports.GET("/export", h.reportExport)

	r.POST("/registrations", h.submitRegistration)

	offline := r.Group("/offline")
	offline.GET("/queue", h.listPending)
	offline.GET("/queue/:type", h.listQueue)
	offline.DELETE("/queue/:type", h.clearQueue)
	offline.POST("/sync", h.triggerSync)

	r.GET("/notices", h.recentNotices)

	if staticDir != "" {
		r.Static("/static", staticDir)
		r.StaticFile("/", filepath.Join(staticDir, "index.html"))
	}

	return r
}

// requestContext — контекст запроса с таймаутом обработчика.
func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

func internalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
