package reporte

import (
	"log/slog"
	"time"

	"github.com/sgcalidad/plan-mejora/internal"
	"github.com/sgcalidad/plan-mejora/internal/auth"
)

// Repository defines the data access methods for published reports.
type Repository interface {
	Create(r *Reporte) error
	Latest() (*Reporte, error)
	List() ([]*Reporte, error)
}

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

// Latest returns the most recently published report. Every
// authenticated role may read it.
func (s *Service) Latest(identity *auth.Identity) (*Reporte, error) {
	if !s.policy.Allow(identity, auth.ActionReadReporte, auth.Resource{}) {
		return nil, internal.ErrForbidden
	}

	r, err := s.repo.Latest()
	if err != nil {
		return nil, internal.ErrReporteNotFound
	}
	return r, nil
}

func (s *Service) List(identity *auth.Identity) ([]*Reporte, error) {
	if !s.policy.Allow(identity, auth.ActionReadReporte, auth.Resource{}) {
		return nil, internal.ErrForbidden
	}

	rows, err := s.repo.List()
	if err != nil {
		s.logger.Error("failed to list reportes", "error", err)
		return nil, internal.NewInternalError("failed to list reportes", err)
	}
	return rows, nil
}

func (s *Service) Create(identity *auth.Identity, dto CreateReporteDTO) (*Reporte, error) {
	if !s.policy.Allow(identity, auth.ActionCreateReporte, auth.Resource{}) {
		s.logger.Warn("reporte create denied", "user_id", identity.UserID, "role", identity.Role)
		return nil, internal.ErrForbidden
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	r := &Reporte{
		Nombre:      dto.Nombre,
		Descripcion: dto.Descripcion,
		Periodo:     dto.Periodo,
		CreatedBy:   identity.UserID,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.Create(r); err != nil {
		s.logger.Error("failed to create reporte", "error", err)
		return nil, internal.NewInternalError("failed to create reporte", err)
	}

	s.logger.Info("reporte created", "reporte_id", r.ID, "user_id", identity.UserID)
	return r, nil
}
