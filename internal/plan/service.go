package plan

import (
	"log/slog"

	"github.com/sgcalidad/plan-mejora/internal"
	"github.com/sgcalidad/plan-mejora/internal/auth"
)

// ListFilter narrows a plan listing. OwnerID is set by the service for
// entidad callers; admins and auditors list everything.
type ListFilter struct {
	OwnerID *int64
	Query   string
	Skip    int
	Limit   int
}

// Repository defines the data access methods for plans. DeleteCascade
// removes the plan and every seguimiento attached to it in one
// transaction.
type Repository interface {
	Create(p *Plan) error
	GetByID(id int64) (*Plan, error)
	List(filter ListFilter) ([]*Plan, error)
	Update(p *Plan) error
	DeleteCascade(id int64) error
}

// Service runs the plan lifecycle: every operation resolves the acting
// identity first, gates it through the access policy, and only then
// touches state.
type Service struct {
	repo   Repository
	policy auth.Policy
	logger *slog.Logger
}

func NewService(repo Repository, policy auth.Policy, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		policy: policy,
		logger: logger,
	}
}

// List returns plans visible to the caller: everything for admin and
// auditor, own plans for entidad, nothing for ciudadano.
func (s *Service) List(identity *auth.Identity, query string, skip, limit int) ([]*Plan, error) {
	if !s.policy.Allow(identity, auth.ActionReadPlan, auth.Resource{OwnerID: identity.UserID}) {
		return nil, internal.ErrForbidden
	}

	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}

	filter := ListFilter{Query: query, Skip: skip, Limit: limit}
	if identity.Role == auth.RoleEntidad {
		owner := identity.UserID
		filter.OwnerID = &owner
	}

	plans, err := s.repo.List(filter)
	if err != nil {
		s.logger.Error("failed to list plans", "error", err, "user_id", identity.UserID)
		return nil, internal.NewInternalError("failed to list plans", err)
	}
	return plans, nil
}

// Create produces a plan in estado Pendiente owned by the caller.
func (s *Service) Create(identity *auth.Identity, dto CreatePlanDTO) (*Plan, error) {
	if !s.policy.Allow(identity, auth.ActionCreatePlan, auth.Resource{}) {
		s.logger.Warn("create plan denied", "user_id", identity.UserID, "role", identity.Role)
		return nil, internal.ErrForbidden
	}

	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	p := NewPlan(identity.UserID, dto)
	if err := s.repo.Create(p); err != nil {
		s.logger.Error("failed to create plan", "error", err, "user_id", identity.UserID)
		return nil, internal.NewInternalError("failed to create plan", err)
	}

	s.logger.Info("plan created", "plan_id", p.ID, "user_id", identity.UserID, "estado", p.Estado)
	return p, nil
}

// Get returns one plan, fenced by ownership for entidad callers.
func (s *Service) Get(identity *auth.Identity, planID int64) (*Plan, error) {
	p, err := s.repo.GetByID(planID)
	if err != nil {
		return nil, internal.ErrPlanNotFound
	}

	if !s.policy.Allow(identity, auth.ActionReadPlan, auth.Resource{OwnerID: p.CreatedBy}) {
		s.logger.Warn("plan read denied", "plan_id", planID, "user_id", identity.UserID)
		return nil, internal.ErrForbidden
	}

	return p, nil
}

// Update applies a partial edit of core fields. The quality note is
// writable only by admin and auditor; an entidad payload carrying it
// has the field dropped before apply, it is not an error.
func (s *Service) Update(identity *auth.Identity, planID int64, dto UpdatePlanDTO) (*Plan, error) {
	p, err := s.repo.GetByID(planID)
	if err != nil {
		return nil, internal.ErrPlanNotFound
	}

	if !s.policy.Allow(identity, auth.ActionEditPlan, auth.Resource{OwnerID: p.CreatedBy}) {
		s.logger.Warn("plan edit denied", "plan_id", planID, "user_id", identity.UserID)
		return nil, internal.ErrForbidden
	}

	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if dto.ObservacionCalidad != nil && !s.policy.Allow(identity, auth.ActionWriteQualityNote, auth.Resource{OwnerID: p.CreatedBy}) {
		dto.ObservacionCalidad = nil
	}

	applyUpdate(p, dto)

	if err := s.repo.Update(p); err != nil {
		s.logger.Error("failed to update plan", "error", err, "plan_id", planID)
		return nil, internal.NewInternalError("failed to update plan", err)
	}

	s.logger.Info("plan updated", "plan_id", planID, "user_id", identity.UserID)
	return p, nil
}

// EnviarRevision submits the plan for review. Legal only from
// Pendiente or Observado.
func (s *Service) EnviarRevision(identity *auth.Identity, planID int64) (*Plan, error) {
	p, err := s.repo.GetByID(planID)
	if err != nil {
		return nil, internal.ErrPlanNotFound
	}

	if !s.policy.Allow(identity, auth.ActionSubmitPlan, auth.Resource{OwnerID: p.CreatedBy}) {
		s.logger.Warn("enviar_revision denied", "plan_id", planID, "user_id", identity.UserID)
		return nil, internal.ErrForbidden
	}

	if !p.CanEnviarRevision() {
		s.logger.Warn("enviar_revision illegal from current estado", "plan_id", planID, "estado", p.Estado)
		return nil, internal.NewValidationError("el plan no puede enviarse a revisión desde su estado actual", internal.ErrCodeInvalidEstado)
	}

	p.EnviarRevision()

	if err := s.repo.Update(p); err != nil {
		s.logger.Error("failed to submit plan", "error", err, "plan_id", planID)
		return nil, internal.NewInternalError("failed to submit plan", err)
	}

	s.logger.Info("plan submitted for review", "plan_id", planID, "user_id", identity.UserID)
	return p, nil
}

// AgregarObservacion raises a quality finding: the plan moves to
// Observado from any estado and the note is recorded.
func (s *Service) AgregarObservacion(identity *auth.Identity, planID int64, dto ObservacionDTO) (*Plan, error) {
	p, err := s.repo.GetByID(planID)
	if err != nil {
		return nil, internal.ErrPlanNotFound
	}

	if !s.policy.Allow(identity, auth.ActionObservePlan, auth.Resource{OwnerID: p.CreatedBy}) {
		s.logger.Warn("agregar_observacion denied", "plan_id", planID, "user_id", identity.UserID, "role", identity.Role)
		return nil, internal.ErrForbidden
	}

	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	p.Observar(dto.Observacion)

	if err := s.repo.Update(p); err != nil {
		s.logger.Error("failed to record observation", "error", err, "plan_id", planID)
		return nil, internal.NewInternalError("failed to record observation", err)
	}

	s.logger.Info("observation recorded", "plan_id", planID, "user_id", identity.UserID)
	return p, nil
}

// CambiarEstado sets an arbitrary estado label. The target is not
// checked against the canonical set; operators rely on free-text
// labels and tightening this is a product decision, not ours.
func (s *Service) CambiarEstado(identity *auth.Identity, planID int64, dto CambiarEstadoDTO) (*Plan, error) {
	p, err := s.repo.GetByID(planID)
	if err != nil {
		return nil, internal.ErrPlanNotFound
	}

	if !s.policy.Allow(identity, auth.ActionSetEstado, auth.Resource{OwnerID: p.CreatedBy}) {
		s.logger.Warn("cambiar_estado denied", "plan_id", planID, "user_id", identity.UserID, "role", identity.Role)
		return nil, internal.ErrForbidden
	}

	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	p.SetEstado(dto.Estado)

	if err := s.repo.Update(p); err != nil {
		s.logger.Error("failed to set estado", "error", err, "plan_id", planID)
		return nil, internal.NewInternalError("failed to set estado", err)
	}

	s.logger.Info("estado set", "plan_id", planID, "estado", dto.Estado, "user_id", identity.UserID)
	return p, nil
}

// Delete removes the plan and cascades every attached seguimiento.
func (s *Service) Delete(identity *auth.Identity, planID int64) error {
	p, err := s.repo.GetByID(planID)
	if err != nil {
		return internal.ErrPlanNotFound
	}

	if !s.policy.Allow(identity, auth.ActionDeletePlan, auth.Resource{OwnerID: p.CreatedBy}) {
		s.logger.Warn("plan delete denied", "plan_id", planID, "user_id", identity.UserID)
		return internal.ErrForbidden
	}

	if err := s.repo.DeleteCascade(planID); err != nil {
		s.logger.Error("failed to delete plan", "error", err, "plan_id", planID)
		return internal.NewInternalError("failed to delete plan", err)
	}

	s.logger.Info("plan deleted", "plan_id", planID, "user_id", identity.UserID)
	return nil
}

func applyUpdate(p *Plan, dto UpdatePlanDTO) {
	if dto.NumPlanMejora != nil {
		p.NumPlanMejora = *dto.NumPlanMejora
	}
	if dto.NombreEntidad != nil {
		p.NombreEntidad = *dto.NombreEntidad
	}
	if dto.ObservacionCalidad != nil {
		p.ObservacionCalidad = dto.ObservacionCalidad
	}
	if dto.InsumoMejora != nil {
		p.InsumoMejora = dto.InsumoMejora
	}
	if dto.TipoAccionMejora != nil {
		p.TipoAccionMejora = dto.TipoAccionMejora
	}
	if dto.AccionMejoraPlanteada != nil {
		p.AccionMejoraPlanteada = dto.AccionMejoraPlanteada
	}
	if dto.DescripcionActividades != nil {
		p.DescripcionActividades = dto.DescripcionActividades
	}
	if dto.EvidenciaCumplimiento != nil {
		p.EvidenciaCumplimiento = dto.EvidenciaCumplimiento
	}
	if dto.FechaInicio != nil {
		p.FechaInicio = dto.FechaInicio
	}
	if dto.FechaFinal != nil {
		p.FechaFinal = dto.FechaFinal
	}
	if dto.EnlaceEntidad != nil {
		p.EnlaceEntidad = dto.EnlaceEntidad
	}
}
