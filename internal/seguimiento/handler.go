package seguimiento

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/sgcalidad/plan-mejora/internal/auth"
	"github.com/sgcalidad/plan-mejora/internal/transport"
	"github.com/sgcalidad/plan-mejora/pkg/logger"
)

type ServiceAPI interface {
	ListByPlan(identity *auth.Identity, planID int64) ([]*Seguimiento, error)
	Create(identity *auth.Identity, planID int64, dto WriteSeguimientoDTO) (*Seguimiento, error)
	Update(identity *auth.Identity, seguimientoID int64, dto WriteSeguimientoDTO) (*Seguimiento, error)
	Delete(identity *auth.Identity, seguimientoID int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) ListByPlan(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	planID, err := urlID(r, "planID")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid plan ID")
		return
	}

	rows, err := h.Service.ListByPlan(identity, planID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	planID, err := urlID(r, "planID")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid plan ID")
		return
	}

	var dto WriteSeguimientoDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	row, err := h.Service.Create(identity, planID, dto)
	if err != nil {
		h.Logger.Error("Create: service error", "error", err, "plan_id", planID, "user_id", identity.UserID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, row)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	seguimientoID, err := urlID(r, "seguimientoID")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid seguimiento ID")
		return
	}

	var dto WriteSeguimientoDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	row, err := h.Service.Update(identity, seguimientoID, dto)
	if err != nil {
		h.Logger.Error("Update: service error", "error", err, "seguimiento_id", seguimientoID, "user_id", identity.UserID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, row)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	seguimientoID, err := urlID(r, "seguimientoID")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid seguimiento ID")
		return
	}

	if err := h.Service.Delete(identity, seguimientoID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func urlID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, key), 10, 64)
}
