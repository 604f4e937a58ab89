package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"cashbook/internal/transport"
	"cashbook/pkg/logger"
)

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (*User, string, error)
	ValidateSession(token string) (*User, error)
	Logout(token string) error
	SessionTTL() time.Duration
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.Service.Authenticate(dto)
	if err != nil {
		h.Logger.Error("authentication failed", "error", err, "username", dto.Username)
		h.HandleServiceError(w, err)
		return
	}

	h.setSessionCookie(w, r, token, int(h.Service.SessionTTL().Seconds()))
	h.WriteJSON(w, http.StatusOK, LoginResponse{Success: true, User: user.Summary()})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.sessionToken(r)
	if err := h.Service.Logout(token); err != nil {
		h.Logger.Error("logout failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.setSessionCookie(w, r, "", -1)
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	h.WriteJSON(w, http.StatusOK, MeResponse{Success: true, User: user.Summary()})
}

// AuthMiddleware resolves the session cookie to a user and stores it in the
// request context. Expiry and existence are re-checked on every request.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.sessionToken(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "not logged in")
			return
		}

		user, err := h.Service.ValidateSession(token)
		if err != nil {
			h.Logger.Warn("session validation failed", "error", err)
			h.HandleServiceError(w, err)
			return
		}

		ctx := ContextWithUser(r.Context(), user)
		ctx = logger.With(ctx, "user_id", user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, r *http.Request, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}
