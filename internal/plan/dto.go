package plan

import (
	"errors"
	"time"
)

// CreatePlanDTO is the request payload for creating a plan. Estado is
// not accepted here: every plan starts in Pendiente.
type CreatePlanDTO struct {
	NumPlanMejora         string     `json:"num_plan_mejora"`
	NombreEntidad         string     `json:"nombre_entidad"`
	InsumoMejora          *string    `json:"insumo_mejora,omitempty"`
	TipoAccionMejora      *string    `json:"tipo_accion_mejora,omitempty"`
	AccionMejoraPlanteada *string    `json:"accion_mejora_planteada,omitempty"`
	DescripcionActividades *string   `json:"descripcion_actividades,omitempty"`
	EvidenciaCumplimiento *string    `json:"evidencia_cumplimiento,omitempty"`
	FechaInicio           *time.Time `json:"fecha_inicio,omitempty"`
	FechaFinal            *time.Time `json:"fecha_final,omitempty"`
	EnlaceEntidad         *string    `json:"enlace_entidad,omitempty"`
}

func (dto CreatePlanDTO) Validate() error {
	if dto.NombreEntidad == "" {
		return errors.New("nombre_entidad is required")
	}
	if dto.FechaInicio != nil && dto.FechaFinal != nil && dto.FechaFinal.Before(*dto.FechaInicio) {
		return errors.New("fecha_final cannot be before fecha_inicio")
	}
	return nil
}

// UpdatePlanDTO carries a partial update: nil fields are left as-is.
// ObservacionCalidad is accepted here but only applied for admin and
// auditor callers; for entidad it is dropped before the update.
type UpdatePlanDTO struct {
	NumPlanMejora         *string    `json:"num_plan_mejora,omitempty"`
	NombreEntidad         *string    `json:"nombre_entidad,omitempty"`
	ObservacionCalidad    *string    `json:"observacion_calidad,omitempty"`
	InsumoMejora          *string    `json:"insumo_mejora,omitempty"`
	TipoAccionMejora      *string    `json:"tipo_accion_mejora,omitempty"`
	AccionMejoraPlanteada *string    `json:"accion_mejora_planteada,omitempty"`
	DescripcionActividades *string   `json:"descripcion_actividades,omitempty"`
	EvidenciaCumplimiento *string    `json:"evidencia_cumplimiento,omitempty"`
	FechaInicio           *time.Time `json:"fecha_inicio,omitempty"`
	FechaFinal            *time.Time `json:"fecha_final,omitempty"`
	EnlaceEntidad         *string    `json:"enlace_entidad,omitempty"`
}

func (dto UpdatePlanDTO) Validate() error {
	if dto.NombreEntidad != nil && *dto.NombreEntidad == "" {
		return errors.New("nombre_entidad cannot be empty")
	}
	return nil
}

// CambiarEstadoDTO is the explicit estado set. The target is free text
// on purpose: operators may use labels outside the canonical set.
type CambiarEstadoDTO struct {
	Estado string `json:"estado"`
}

func (dto CambiarEstadoDTO) Validate() error {
	if dto.Estado == "" {
		return errors.New("estado is required")
	}
	return nil
}

// ObservacionDTO carries the auditor's quality finding.
type ObservacionDTO struct {
	Observacion string `json:"observacion_calidad"`
}

func (dto ObservacionDTO) Validate() error {
	if dto.Observacion == "" {
		return errors.New("observacion_calidad is required")
	}
	return nil
}
