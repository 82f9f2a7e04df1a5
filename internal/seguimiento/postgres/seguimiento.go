package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/sgcalidad/plan-mejora/internal"
	seguimientoDatamodel "github.com/sgcalidad/plan-mejora/internal/core/datamodel/seguimiento"
	"github.com/sgcalidad/plan-mejora/internal/seguimiento"
)

// SeguimientoRepository implements the seguimiento.Repository interface using GORM
type SeguimientoRepository struct {
	db *gorm.DB
}

func NewSeguimientoRepository(db *gorm.DB) seguimiento.Repository {
	return &SeguimientoRepository{db: db}
}

func (r *SeguimientoRepository) Create(s *seguimiento.Seguimiento) error {
	row := seguimiento.ToDataModel(s)
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	s.ID = row.ID
	return nil
}

func (r *SeguimientoRepository) GetByID(id int64) (*seguimiento.Seguimiento, error) {
	var row seguimientoDatamodel.Seguimiento
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrSeguimientoNotFound
		}
		return nil, err
	}
	return seguimiento.FromDataModel(&row), nil
}

func (r *SeguimientoRepository) ListByPlan(planID int64) ([]*seguimiento.Seguimiento, error) {
	var rows []*seguimientoDatamodel.Seguimiento
	err := r.db.Where("plan_id = ?", planID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return seguimiento.FromDataModelSlice(rows), nil
}

func (r *SeguimientoRepository) Update(s *seguimiento.Seguimiento) error {
	s.UpdatedAt = time.Now()
	return r.db.Save(seguimiento.ToDataModel(s)).Error
}

func (r *SeguimientoRepository) Delete(id int64) error {
	return r.db.Where("id = ?", id).Delete(&seguimientoDatamodel.Seguimiento{}).Error
}
