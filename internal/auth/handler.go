package auth

import (
	"log/slog"
	"net/http"

	"github.com/sgcalidad/plan-mejora/internal/transport"
	"github.com/sgcalidad/plan-mejora/pkg/logger"
)

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

// Token handles POST /auth/token. It accepts the OAuth2 password form
// (username, password) and returns a bearer token. Failures are a
// generic 400 regardless of which credential was wrong.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	dto := LoginDTO{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}

	tokens, err := h.Service.Login(dto)
	if err != nil {
		if _, ok := err.(ValidationError); ok {
			h.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// Me handles GET /auth/me: who the caller is and which role they hold.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok || identity == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	h.WriteJSON(w, http.StatusOK, MeResponse{
		ID:    identity.UserID,
		Email: identity.Email,
		Role:  identity.Role.String(),
	})
}

// AuthMiddleware resolves the bearer token into an Identity and stores
// it in the request context. Under bypass mode Resolve succeeds with
// the guest admin identity even when no token is present, so the
// middleware stays in the chain either way.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)

		identity, err := h.Service.Resolve(token)
		if err != nil {
			h.Logger.Warn("request not authenticated", "error", err, "path", r.URL.Path)
			h.HandleServiceError(w, err)
			return
		}

		ctx := ContextWithIdentity(r.Context(), identity)
		ctx = logger.With(ctx, "user_id", identity.UserID, "role", identity.Role.String())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
