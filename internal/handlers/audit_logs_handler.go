package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/staff-scheduler/internal/audit"
	"github.com/BruksfildServices01/staff-scheduler/internal/httpresp"
)

const maxAuditPageSize = 200

type AuditLogsHandler struct {
	store audit.Store
}

func NewAuditLogsHandler(store audit.Store) *AuditLogsHandler {
	return &AuditLogsHandler{store: store}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	page := parseInt(c.DefaultQuery("page", "1"), 1)
	if page <= 0 {
		page = 1
	}
	limit := parseInt(c.DefaultQuery("limit", "50"), 50)
	if limit <= 0 || limit > maxAuditPageSize {
		limit = 50
	}

	from, err := parseOptionalDate(c.Query("from"), "from")
	if err != nil {
		fail(c, err)
		return
	}
	to, err := parseOptionalDate(c.Query("to"), "to")
	if err != nil {
		fail(c, err)
		return
	}
	if !to.IsZero() {
		// inclusive end date
		to = to.AddDate(0, 0, 1)
	}

	logs, total, err := h.store.ListAuditLogs(c.Request.Context(), audit.Filter{
		BusinessID: callerFrom(c).BusinessID,
		Action:     c.Query("action"),
		Entity:     c.Query("entity"),
		From:       from,
		To:         to,
		Limit:      limit,
		Offset:     (page - 1) * limit,
	})
	if err != nil {
		fail(c, err)
		return
	}
	httpresp.Page(c, logs, page, limit, total)
}
