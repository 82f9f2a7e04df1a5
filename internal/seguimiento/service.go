package seguimiento

import (
	"log/slog"
	"time"

	"github.com/sgcalidad/plan-mejora/internal"
	"github.com/sgcalidad/plan-mejora/internal/auth"
	"github.com/sgcalidad/plan-mejora/internal/plan"
)

// Repository defines the data access methods for seguimientos.
type Repository interface {
	Create(s *Seguimiento) error
	GetByID(id int64) (*Seguimiento, error)
	ListByPlan(planID int64) ([]*Seguimiento, error)
	Update(s *Seguimiento) error
	Delete(id int64) error
}

// PlanResolver is the slice of the plan repository this service needs:
// existence and ownership of the parent plan.
type PlanResolver interface {
	GetByID(id int64) (*plan.Plan, error)
}

// Service handles follow-up writes. Seguimientos stay mutable whatever
// the parent plan's estado; there is no freeze after approval.
type Service struct {
	repo   Repository
	plans  PlanResolver
	policy auth.Policy
	logger *slog.Logger
}

func NewService(repo Repository, plans PlanResolver, policy auth.Policy, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		plans:  plans,
		policy: policy,
		logger: logger,
	}
}

// ListByPlan returns the follow-ups of one plan, fenced by the plan
// read rule (entidad sees only its own plans' follow-ups).
func (s *Service) ListByPlan(identity *auth.Identity, planID int64) ([]*Seguimiento, error) {
	parent, err := s.plans.GetByID(planID)
	if err != nil {
		return nil, internal.ErrPlanNotFound
	}

	if !s.policy.Allow(identity, auth.ActionReadPlan, auth.Resource{OwnerID: parent.CreatedBy}) {
		return nil, internal.ErrForbidden
	}

	rows, err := s.repo.ListByPlan(planID)
	if err != nil {
		s.logger.Error("failed to list seguimientos", "error", err, "plan_id", planID)
		return nil, internal.NewInternalError("failed to list seguimientos", err)
	}
	return rows, nil
}

// Create attaches a new follow-up to a plan. UpdatedBy is stamped with
// the acting identity.
func (s *Service) Create(identity *auth.Identity, planID int64, dto WriteSeguimientoDTO) (*Seguimiento, error) {
	if !s.policy.Allow(identity, auth.ActionWriteSeguimiento, auth.Resource{}) {
		s.logger.Warn("seguimiento create denied", "user_id", identity.UserID, "role", identity.Role)
		return nil, internal.ErrForbidden
	}

	if _, err := s.plans.GetByID(planID); err != nil {
		return nil, internal.ErrPlanNotFound
	}

	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	s.dropQualityNoteIfNotAllowed(identity, &dto)

	now := time.Now()
	row := &Seguimiento{
		PlanID:                planID,
		ObservacionCalidad:    dto.ObservacionCalidad,
		InsumoMejora:          dto.InsumoMejora,
		TipoAccionMejora:      dto.TipoAccionMejora,
		AccionMejoraPlanteada: dto.AccionMejoraPlanteada,
		DescripcionActividades: dto.DescripcionActividades,
		EvidenciaCumplimiento: dto.EvidenciaCumplimiento,
		FechaInicio:           dto.FechaInicio,
		FechaFinal:            dto.FechaFinal,
		Seguimiento:           dto.Seguimiento,
		EnlaceEntidad:         dto.EnlaceEntidad,
		UpdatedBy:             identity.UserID,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := s.repo.Create(row); err != nil {
		s.logger.Error("failed to create seguimiento", "error", err, "plan_id", planID)
		return nil, internal.NewInternalError("failed to create seguimiento", err)
	}

	s.logger.Info("seguimiento created", "seguimiento_id", row.ID, "plan_id", planID, "user_id", identity.UserID)
	return row, nil
}

// Update applies a partial edit. Whatever fields change, UpdatedBy is
// unconditionally overwritten with the acting identity.
func (s *Service) Update(identity *auth.Identity, seguimientoID int64, dto WriteSeguimientoDTO) (*Seguimiento, error) {
	if !s.policy.Allow(identity, auth.ActionWriteSeguimiento, auth.Resource{}) {
		s.logger.Warn("seguimiento update denied", "user_id", identity.UserID, "role", identity.Role)
		return nil, internal.ErrForbidden
	}

	row, err := s.repo.GetByID(seguimientoID)
	if err != nil {
		return nil, internal.ErrSeguimientoNotFound
	}

	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	s.dropQualityNoteIfNotAllowed(identity, &dto)

	applyWrite(row, dto)
	row.UpdatedBy = identity.UserID
	row.UpdatedAt = time.Now()

	if err := s.repo.Update(row); err != nil {
		s.logger.Error("failed to update seguimiento", "error", err, "seguimiento_id", seguimientoID)
		return nil, internal.NewInternalError("failed to update seguimiento", err)
	}

	s.logger.Info("seguimiento updated", "seguimiento_id", seguimientoID, "user_id", identity.UserID)
	return row, nil
}

func (s *Service) Delete(identity *auth.Identity, seguimientoID int64) error {
	if !s.policy.Allow(identity, auth.ActionWriteSeguimiento, auth.Resource{}) {
		s.logger.Warn("seguimiento delete denied", "user_id", identity.UserID, "role", identity.Role)
		return internal.ErrForbidden
	}

	if _, err := s.repo.GetByID(seguimientoID); err != nil {
		return internal.ErrSeguimientoNotFound
	}

	if err := s.repo.Delete(seguimientoID); err != nil {
		s.logger.Error("failed to delete seguimiento", "error", err, "seguimiento_id", seguimientoID)
		return internal.NewInternalError("failed to delete seguimiento", err)
	}

	s.logger.Info("seguimiento deleted", "seguimiento_id", seguimientoID, "user_id", identity.UserID)
	return nil
}

// dropQualityNoteIfNotAllowed silently strips observacion_calidad from
// entidad payloads before the write. A stricter policy would reject
// the request instead; kept as observed pending a product decision.
func (s *Service) dropQualityNoteIfNotAllowed(identity *auth.Identity, dto *WriteSeguimientoDTO) {
	if dto.ObservacionCalidad == nil {
		return
	}
	if !s.policy.Allow(identity, auth.ActionWriteQualityNote, auth.Resource{}) {
		s.logger.Debug("dropping observacion_calidad from payload", "user_id", identity.UserID, "role", identity.Role)
		dto.ObservacionCalidad = nil
	}
}

func applyWrite(row *Seguimiento, dto WriteSeguimientoDTO) {
	if dto.ObservacionCalidad != nil {
		row.ObservacionCalidad = dto.ObservacionCalidad
	}
	if dto.InsumoMejora != nil {
		row.InsumoMejora = dto.InsumoMejora
	}
	if dto.TipoAccionMejora != nil {
		row.TipoAccionMejora = dto.TipoAccionMejora
	}
	if dto.AccionMejoraPlanteada != nil {
		row.AccionMejoraPlanteada = dto.AccionMejoraPlanteada
	}
	if dto.DescripcionActividades != nil {
		row.DescripcionActividades = dto.DescripcionActividades
	}
	if dto.EvidenciaCumplimiento != nil {
		row.EvidenciaCumplimiento = dto.EvidenciaCumplimiento
	}
	if dto.FechaInicio != nil {
		row.FechaInicio = dto.FechaInicio
	}
	if dto.FechaFinal != nil {
		row.FechaFinal = dto.FechaFinal
	}
	if dto.Seguimiento != nil {
		row.Seguimiento = dto.Seguimiento
	}
	if dto.EnlaceEntidad != nil {
		row.EnlaceEntidad = dto.EnlaceEntidad
	}
}
