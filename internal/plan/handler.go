package plan

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
	List(identity *auth.Identity, query string, skip, limit int) ([]*Plan, error)
	Create(identity *auth.Identity, dto CreatePlanDTO) (*Plan, error)
	Get(identity *auth.Identity, planID int64) (*Plan, error)
	Update(identity *auth.Identity, planID int64, dto UpdatePlanDTO) (*Plan, error)
	EnviarRevision(identity *auth.Identity, planID int64) (*Plan, error)
	AgregarObservacion(identity *auth.Identity, planID int64, dto ObservacionDTO) (*Plan, error)
	CambiarEstado(identity *auth.Identity, planID int64, dto CambiarEstadoDTO) (*Plan, error)
	Delete(identity *auth.Identity, planID int64) error
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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	query := r.URL.Query().Get("q")

	skip := 0
	if s := r.URL.Query().Get("skip"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			skip = v
		}
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}

	plans, err := h.Service.List(identity, query, skip, limit)
	if err != nil {
		h.Logger.Error("List: service error", "error", err, "user_id", identity.UserID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, plans)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreatePlanDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.Create(identity, dto)
	if err != nil {
		h.Logger.Error("Create: service error", "error", err, "user_id", identity.UserID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	planID, err := h.planID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid plan ID")
		return
	}

	p, err := h.Service.Get(identity, planID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	planID, err := h.planID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid plan ID")
		return
	}

	var dto UpdatePlanDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.Update(identity, planID, dto)
	if err != nil {
		h.Logger.Error("Update: service error", "error", err, "plan_id", planID, "user_id", identity.UserID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) EnviarRevision(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	planID, err := h.planID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid plan ID")
		return
	}

	p, err := h.Service.EnviarRevision(identity, planID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) AgregarObservacion(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	planID, err := h.planID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid plan ID")
		return
	}

	var dto ObservacionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.AgregarObservacion(identity, planID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

// CambiarEstado accepts the target either as a query parameter, like
// the original API, or as a JSON body.
func (h *Handler) CambiarEstado(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	planID, err := h.planID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid plan ID")
		return
	}

	dto := CambiarEstadoDTO{Estado: r.URL.Query().Get("estado")}
	if dto.Estado == "" && r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&dto)
	}

	p, err := h.Service.CambiarEstado(identity, planID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	planID, err := h.planID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid plan ID")
		return
	}

	if err := h.Service.Delete(identity, planID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) planID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "planID"), 10, 64)
}
