package admin

import (
	"net/http"
	"strings"

	"github.com/openfleet/audittrail/internal/api/response"
	"github.com/openfleet/audittrail/internal/domain"
	"github.com/openfleet/audittrail/internal/service"
)

type AuditHandler struct {
	audit        *service.AuditService
	defaultLimit int
	maxLimit     int
}

func NewAuditHandler(audit *service.AuditService, defaultLimit, maxLimit int) *AuditHandler {
	return &AuditHandler{audit: audit, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// List serves the compliance trail, newest first.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := response.ParseLimitOffset(r, h.defaultLimit, h.maxLimit)

	filter := domain.AuditFilter{Limit: limit, Offset: offset}

	q := r.URL.Query()
	if v := q.Get("user_id"); v != "" {
		filter.UserID = &v
	}
	if v := q.Get("action"); v != "" {
		action := domain.Action(strings.ToUpper(v))
		filter.Action = &action
	}
	if v := q.Get("entity_type"); v != "" {
		entityType := domain.EntityType(strings.ToUpper(v))
		filter.EntityType = &entityType
	}
	if t, ok := parseDate(q.Get("start_date"), false); ok {
		filter.StartDate = &t
	}
	if t, ok := parseDate(q.Get("end_date"), true); ok {
		filter.EndDate = &t
	}

	items, total := h.audit.Query(r.Context(), filter)
	response.Paginated(w, http.StatusOK, items, limit, offset, total)
}
