package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/sgcalidad/plan-mejora/internal"
	planDatamodel "github.com/sgcalidad/plan-mejora/internal/core/datamodel/plan"
	seguimientoDatamodel "github.com/sgcalidad/plan-mejora/internal/core/datamodel/seguimiento"
	"github.com/sgcalidad/plan-mejora/internal/plan"
)

// PlanRepository implements the plan.Repository interface using GORM
type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) plan.Repository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(p *plan.Plan) error {
	row := plan.ToDataModel(p)
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	p.ID = row.ID
	return nil
}

func (r *PlanRepository) GetByID(id int64) (*plan.Plan, error) {
	var row planDatamodel.Plan
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrPlanNotFound
		}
		return nil, err
	}
	return plan.FromDataModel(&row), nil
}

func (r *PlanRepository) List(filter plan.ListFilter) ([]*plan.Plan, error) {
	var rows []*planDatamodel.Plan

	q := r.db.Model(&planDatamodel.Plan{})
	if filter.OwnerID != nil {
		q = q.Where("created_by = ?", *filter.OwnerID)
	}
	if filter.Query != "" {
		q = q.Where("nombre_entidad ILIKE ?", "%"+filter.Query+"%")
	}

	err := q.Order("id DESC").
		Offset(filter.Skip).
		Limit(filter.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	return plan.FromDataModelSlice(rows), nil
}

func (r *PlanRepository) Update(p *plan.Plan) error {
	p.UpdatedAt = time.Now()
	return r.db.Save(plan.ToDataModel(p)).Error
}

// DeleteCascade removes the plan and all its seguimientos in a single
// transaction; a failure on either leaves both in place.
func (r *PlanRepository) DeleteCascade(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plan_id = ?", id).Delete(&seguimientoDatamodel.Seguimiento{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&planDatamodel.Plan{}).Error
	})
}
