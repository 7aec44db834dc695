package rest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/pos_reports/internal/domain"
	"github.com/Gunvolt24/pos_reports/internal/usecase"
	"github.com/Gunvolt24/pos_reports/pkg/httpx"
)

const (
	defaultOrdersLimit = 20
	maxOrdersLimit     = 100
)

// rangeSpec — ?range=day|week|month|custom-date|custom-month|custom-year&from=&to=
// Без range берётся сегодняшний день.
func rangeSpec(c *gin.Context) domain.RangeSpec {
	return domain.RangeSpec{
		Kind:  domain.RangeKind(c.DefaultQuery("range", string(domain.RangeDay))),
		Start: c.Query("from"),
		End:   c.Query("to"),
	}
}

// reportError — ошибки ввода диапазона → 400 с текстом для пользователя, прочие → 500.
func (h *Handler) reportError(c *gin.Context, op string, spec domain.RangeSpec, err error) {
	if msg := usecase.NoticeMessage(err); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	h.log.Errorf(c.Request.Context(), "%s failed spec=%s err=%v", op, spec.Key(), err)
	internalError(c)
}

func (h *Handler) reportSummary(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	spec := rangeSpec(c)
	report, err := h.reports.Report(ctx, spec)
	if err != nil {
		h.reportError(c, "Report", spec, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"spec":    report.Spec,
		"range":   report.Range,
		"summary": report.Summary,
	})
}

func (h *Handler) reportOrders(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	spec := rangeSpec(c)
	limit, offset := httpx.ParseLimitOffset(c, defaultOrdersLimit, maxOrdersLimit)

	rows, total, err := h.reports.Orders(ctx, spec, limit, offset)
	if err != nil {
		h.reportError(c, "Orders", spec, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"rows":   rows,
	})
}

// reportExport — CSV вложением; 204, если выгружать нечего.
func (h *Handler) reportExport(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	spec := rangeSpec(c)
	file, err := h.reports.Export(ctx, spec)
	if err != nil {
		h.reportError(c, "Export", spec, err)
		return
	}
	if file == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Body)
}
