package seguimiento

import (
	"errors"
	"time"
)

// WriteSeguimientoDTO is the payload for both create and update; nil
// fields are left untouched on update. ObservacionCalidad is applied
// only for admin and auditor callers; for entidad the field is dropped
// before the write, silently.
type WriteSeguimientoDTO struct {
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
}

func (dto WriteSeguimientoDTO) Validate() error {
	if dto.FechaInicio != nil && dto.FechaFinal != nil && dto.FechaFinal.Before(*dto.FechaInicio) {
		return errors.New("fecha_final cannot be before fecha_inicio")
	}
	return nil
}
