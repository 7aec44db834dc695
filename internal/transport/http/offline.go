package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/pos_reports/internal/domain"
	"github.com/Gunvolt24/pos_reports/internal/usecase"
	"github.com/Gunvolt24/pos_reports/pkg/httpx"
)

const (
	defaultNoticesLimit = 20
	maxNoticesLimit     = 100
)

// registrationRequest — форма регистрации сотрудника.
type registrationRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// submitRegistration — 201 отправлено, 202 поставлено в очередь, статус апстрима при отказе.
func (h *Handler) submitRegistration(c *gin.Context) {
	var req registrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	res, err := h.registrations.Submit(ctx, domain.Registration{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     req.Role,
	})
	switch {
	case err == nil && res.Queued:
		c.JSON(http.StatusAccepted, res)
	case err == nil:
		c.JSON(http.StatusCreated, res)
	case errors.Is(err, usecase.ErrNotQueued):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": res.Message})
	default:
		if rejected, ok := isRejected(err); ok {
			status := rejected.StatusCode
			if status < 400 || status > 499 {
				status = http.StatusBadGateway
			}
			c.JSON(status, gin.H{"error": res.Message})
			return
		}
		h.log.Errorf(c.Request.Context(), "Submit registration failed err=%v", err)
		internalError(c)
	}
}

func (h *Handler) listPending(c *gin.Context) {
	entries := h.queue.Pending(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"total": len(entries), "entries": entries})
}

func (h *Handler) listQueue(c *gin.Context) {
	entries := h.queue.ReadAll(c.Request.Context(), c.Param("type"))
	c.JSON(http.StatusOK, gin.H{"total": len(entries), "entries": entries})
}

func (h *Handler) clearQueue(c *gin.Context) {
	queueType := c.Param("type")
	if err := h.queue.Clear(c.Request.Context(), queueType); err != nil {
		h.log.Errorf(c.Request.Context(), "Clear queue failed type=%s err=%v", queueType, err)
		internalError(c)
		return
	}
	c.Status(http.StatusNoContent)
}

// triggerSync — 409, если синхронизация уже идёт.
func (h *Handler) triggerSync(c *gin.Context) {
	outcome, ok := h.sync.Trigger(c.Request.Context())
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "sync already in progress"})
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (h *Handler) recentNotices(c *gin.Context) {
	limit := httpx.ParseLimit(c, "limit", defaultNoticesLimit, maxNoticesLimit)
	c.JSON(http.StatusOK, gin.H{"notices": h.notices.Recent(limit)})
}

// isRejected — отказ апстрима и его статус.
func isRejected(err error) (*domain.RejectedError, bool) {
	var rejected *domain.RejectedError
	if errors.As(err, &rejected) {
		return rejected, true
	}
	return nil, false
}
