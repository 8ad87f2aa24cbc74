package admin

import (
	"net/http"
	"strings"

	"github.com/openfleet/audittrail/internal/api/response"
	"github.com/openfleet/audittrail/internal/domain"
	"github.com/openfleet/audittrail/internal/service"
)

type ActivityHandler struct {
	activities   *service.ActivityService
	defaultLimit int
	maxLimit     int
}

func NewActivityHandler(activities *service.ActivityService, defaultLimit, maxLimit int) *ActivityHandler {
	return &ActivityHandler{activities: activities, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// List serves the activity feed, newest first. The query service degrades
// to an empty result on storage failure, so this endpoint never 500s.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := response.ParseLimitOffset(r, h.defaultLimit, h.maxLimit)

	filter := domain.ActivityFilter{Limit: limit, Offset: offset}

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

	items, total := h.activities.Query(r.Context(), filter)
	response.Paginated(w, http.StatusOK, items, limit, offset, total)
}
