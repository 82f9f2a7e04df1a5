package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/sgcalidad/plan-mejora/internal"
	reporteDatamodel "github.com/sgcalidad/plan-mejora/internal/core/datamodel/reporte"
	"github.com/sgcalidad/plan-mejora/internal/reporte"
)

// ReporteRepository implements the reporte.Repository interface using GORM
type ReporteRepository struct {
	db *gorm.DB
}

func NewReporteRepository(db *gorm.DB) reporte.Repository {
	return &ReporteRepository{db: db}
}

func (r *ReporteRepository) Create(rep *reporte.Reporte) error {
	row := reporte.ToDataModel(rep)
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	rep.ID = row.ID
	return nil
}

func (r *ReporteRepository) Latest() (*reporte.Reporte, error) {
	var row reporteDatamodel.Reporte
	err := r.db.Order("id DESC").First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrReporteNotFound
		}
		return nil, err
	}
	return reporte.FromDataModel(&row), nil
}

func (r *ReporteRepository) List() ([]*reporte.Reporte, error) {
	var rows []*reporteDatamodel.Reporte
	if err := r.db.Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return reporte.FromDataModelSlice(rows), nil
}
