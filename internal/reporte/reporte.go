package reporte

import (
	"time"

	reporteDatamodel "github.com/sgcalidad/plan-mejora/internal/core/datamodel/reporte"
)

// Reporte is a published snapshot of the follow-up report. Only the
// metadata lives here; the report content itself is an external file
// named by Nombre.
type Reporte struct {
	ID          int64     `json:"id"`
	Nombre      string    `json:"nombre"`
	Descripcion *string   `json:"descripcion,omitempty"`
	Periodo     *string   `json:"periodo,omitempty"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToDataModel(r *Reporte) *reporteDatamodel.Reporte {
	return &reporteDatamodel.Reporte{
		ID:          r.ID,
		Nombre:      r.Nombre,
		Descripcion: r.Descripcion,
		Periodo:     r.Periodo,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
	}
}

func FromDataModel(r *reporteDatamodel.Reporte) *Reporte {
	return &Reporte{
		ID:          r.ID,
		Nombre:      r.Nombre,
		Descripcion: r.Descripcion,
		Periodo:     r.Periodo,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
	}
}

func FromDataModelSlice(rows []*reporteDatamodel.Reporte) []*Reporte {
	result := make([]*Reporte, len(rows))
	for i, row := range rows {
		result[i] = FromDataModel(row)
	}
	return result
}
