package seguimiento

import (
	"time"

	seguimientoDatamodel "github.com/sgcalidad/plan-mejora/internal/core/datamodel/seguimiento"
)

// Seguimiento is a dated progress entry attached to one plan. It has
// no estado of its own: the free-text label in Seguimiento ("Pendiente",
// "En progreso", "Finalizado", ...) is descriptive only. UpdatedBy is
// last-writer attribution, overwritten on every write; it is not an
// audit trail.
type Seguimiento struct {
	ID                    int64      `json:"id"`
	PlanID                int64      `json:"plan_id"`
	ObservacionCalidad    *string    `json:"observacion_calidad,omitempty"`
	InsumoMejora          *string    `json:"insumo_mejora,omitempty"`
	TipoAccionMejora      *string    `json:"tipo_accion_mejora,omitempty"`
	AccionMejoraPlanteada *string    `json:"accion_mejora_planteada,omitempty"`
	DescripcionActividades *string   `json:"descripcion_actividades,omitempty"`
	EvidenciaCumplimiento *string    `json:"evidencia_cumplimiento,omitempty"`
	FechaInicio           *time.Time `json:"fecha_inicio,omitempty"`
	FechaFinal            *time.Time `json:"fecha_final,omitempty"`
	Seguimiento           *string    `json:"seguimiento,omitempty"`
	EnlaceEntidad         *string    `json:"enlace_entidad,omitempty"`
	UpdatedBy             int64      `json:"updated_by"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func ToDataModel(s *Seguimiento) *seguimientoDatamodel.Seguimiento {
	return &seguimientoDatamodel.Seguimiento{
		ID:                    s.ID,
		PlanID:                s.PlanID,
		ObservacionCalidad:    s.ObservacionCalidad,
		InsumoMejora:          s.InsumoMejora,
		TipoAccionMejora:      s.TipoAccionMejora,
		AccionMejoraPlanteada: s.AccionMejoraPlanteada,
		DescripcionActividades: s.DescripcionActividades,
		EvidenciaCumplimiento: s.EvidenciaCumplimiento,
		FechaInicio:           s.FechaInicio,
		FechaFinal:            s.FechaFinal,
		Seguimiento:           s.Seguimiento,
		EnlaceEntidad:         s.EnlaceEntidad,
		UpdatedBy:             s.UpdatedBy,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
	}
}

func FromDataModel(s *seguimientoDatamodel.Seguimiento) *Seguimiento {
	return &Seguimiento{
		ID:                    s.ID,
		PlanID:                s.PlanID,
		ObservacionCalidad:    s.ObservacionCalidad,
		InsumoMejora:          s.InsumoMejora,
		TipoAccionMejora:      s.TipoAccionMejora,
		AccionMejoraPlanteada: s.AccionMejoraPlanteada,
		DescripcionActividades: s.DescripcionActividades,
		EvidenciaCumplimiento: s.EvidenciaCumplimiento,
		FechaInicio:           s.FechaInicio,
		FechaFinal:            s.FechaFinal,
		Seguimiento:           s.Seguimiento,
		EnlaceEntidad:         s.EnlaceEntidad,
		UpdatedBy:             s.UpdatedBy,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*seguimientoDatamodel.Seguimiento) []*Seguimiento {
	result := make([]*Seguimiento, len(rows))
	for i, row := range rows {
		result[i] = FromDataModel(row)
	}
	return result
}
