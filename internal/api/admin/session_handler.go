package admin

import (
	"net/http"
	"strconv"

	"github.com/openfleet/audittrail/internal/api/response"
	"github.com/openfleet/audittrail/internal/domain"
	"github.com/openfleet/audittrail/internal/service"
)

type SessionHandler struct {
	sessions     *service.SessionService
	defaultLimit int
	maxLimit     int
}

func NewSessionHandler(sessions *service.SessionService, defaultLimit, maxLimit int) *SessionHandler {
	return &SessionHandler{sessions: sessions, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// List serves the login history, newest login first.
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := response.ParseLimitOffset(r, h.defaultLimit, h.maxLimit)

	filter := domain.SessionFilter{Limit: limit, Offset: offset}

	q := r.URL.Query()
	if v := q.Get("user_id"); v != "" {
		filter.UserID = &v
	}
	if v := q.Get("is_active"); v != "" {
		if active, err := strconv.ParseBool(v); err == nil {
			filter.IsActive = &active
		}
	}
	if t, ok := parseDate(q.Get("start_date"), false); ok {
		filter.StartDate = &t
	}
	if t, ok := parseDate(q.Get("end_date"), true); ok {
		filter.EndDate = &t
	}

	items, total := h.sessions.History(r.Context(), filter)
	response.Paginated(w, http.StatusOK, items, limit, offset, total)
}
