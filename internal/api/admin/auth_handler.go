package admin

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/openfleet/audittrail/internal/api/middleware"
	"github.com/openfleet/audittrail/internal/api/response"
	"github.com/openfleet/audittrail/internal/auth"
	"github.com/openfleet/audittrail/internal/domain"
	"github.com/openfleet/audittrail/internal/service"
)

type AuthHandler struct {
	jwtMgr        *auth.JWTManager
	sessions      *service.SessionService
	audit         *service.AuditService
	adminEmail    string
	adminPassHash string
}

// NewAuthHandler creates an auth handler with a single admin user. The
// surrounding fleet application owns real user management; this service
// only needs an administrative login for its read API.
func NewAuthHandler(jwtMgr *auth.JWTManager, sessions *service.SessionService, audit *service.AuditService, adminEmail, adminPassword string) *AuthHandler {
	hash, _ := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	return &AuthHandler{
		jwtMgr:        jwtMgr,
		sessions:      sessions,
		audit:         audit,
		adminEmail:    adminEmail,
		adminPassHash: string(hash),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email != h.adminEmail {
		response.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.adminPassHash), []byte(req.Password)); err != nil {
		response.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, expiresAt, err := h.jwtMgr.Generate("admin")
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	// Session tracking and auditing are best-effort; they never fail the login.
	ip, userAgent := "127.0.0.1", domain.Unknown
	if info := middleware.TrackingFrom(r.Context()); info != nil {
		ip, userAgent = info.IPAddress, info.Device.UserAgent
	}
	sessionID := h.sessions.Open(r.Context(), "admin", ip, userAgent)

	entry := &domain.AuditLogEntry{
		Action:     domain.ActionLogin,
		EntityType: domain.EntityUser,
		EntityID:   "admin",
		UserID:     "admin",
		UserName:   "Administrator",
		UserEmail:  h.adminEmail,
		UserRole:   "admin",
		IPAddress:  ip,
		UserAgent:  userAgent,
	}
	if sessionID != uuid.Nil {
		entry.Changes = map[string]any{"session_id": sessionID.String()}
	}
	h.audit.Log(r.Context(), entry)

	response.JSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format("2006-01-02T15:04:05Z"),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		response.Error(w, http.StatusUnauthorized, "invalid token")
		return
	}

	h.sessions.Close(r.Context(), userID)

	ip, userAgent := "127.0.0.1", domain.Unknown
	if info := middleware.TrackingFrom(r.Context()); info != nil {
		ip, userAgent = info.IPAddress, info.Device.UserAgent
	}
	h.audit.Log(r.Context(), &domain.AuditLogEntry{
		Action:     domain.ActionLogout,
		EntityType: domain.EntityUser,
		EntityID:   userID,
		UserID:     userID,
		UserName:   "Administrator",
		UserEmail:  h.adminEmail,
		UserRole:   "admin",
		IPAddress:  ip,
		UserAgent:  userAgent,
	})

	response.JSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Refresh generates a new JWT token for an already authenticated user.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		response.Error(w, http.StatusUnauthorized, "invalid token")
		return
	}

	token, expiresAt, err := h.jwtMgr.Generate(userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	response.JSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format("2006-01-02T15:04:05Z"),
	})
}
