package plan

import (
	"time"

	planDatamodel "github.com/sgcalidad/plan-mejora/internal/core/datamodel/plan"
)

// Canonical estados of the review workflow. CambiarEstado may also set
// operator-supplied labels outside this set; see Service.CambiarEstado.
const (
	EstadoPendiente  = "Pendiente"
	EstadoEnRevision = "En revisión"
	EstadoObservado  = "Observado"
	EstadoAprobado   = "Aprobado"
)

// Plan is an improvement plan owned by the entidad user that created
// it. CreatedBy never changes after creation.
type Plan struct {
	ID                    int64      `json:"id"`
	NumPlanMejora         string     `json:"num_plan_mejora"`
	NombreEntidad         string     `json:"nombre_entidad"`
	ObservacionCalidad    *string    `json:"observacion_calidad,omitempty"`
	InsumoMejora          *string    `json:"insumo_mejora,omitempty"`
	TipoAccionMejora      *string    `json:"tipo_accion_mejora,omitempty"`
	AccionMejoraPlanteada *string    `json:"accion_mejora_planteada,omitempty"`
	DescripcionActividades *string   `json:"descripcion_actividades,omitempty"`
	EvidenciaCumplimiento *string    `json:"evidencia_cumplimiento,omitempty"`
	FechaInicio           *time.Time `json:"fecha_inicio,omitempty"`
	FechaFinal            *time.Time `json:"fecha_final,omitempty"`
	EnlaceEntidad         *string    `json:"enlace_entidad,omitempty"`
	Estado                string     `json:"estado"`
	CreatedBy             int64      `json:"created_by"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// CanEnviarRevision reports whether the plan may be submitted for
// review: only from Pendiente or from Observado after rework.
func (p *Plan) CanEnviarRevision() bool {
	return p.Estado == EstadoPendiente || p.Estado == EstadoObservado
}

// EnviarRevision moves the plan into review.
func (p *Plan) EnviarRevision() {
	p.Estado = EstadoEnRevision
	p.UpdatedAt = time.Now()
}

// Observar records a quality finding: the plan becomes Observado and
// carries the auditor's note until the entidad reworks and resubmits.
func (p *Plan) Observar(nota string) {
	p.Estado = EstadoObservado
	p.ObservacionCalidad = &nota
	p.UpdatedAt = time.Now()
}

// SetEstado applies an explicit operator-supplied estado, with no
// validation against the canonical set.
func (p *Plan) SetEstado(estado string) {
	p.Estado = estado
	p.UpdatedAt = time.Now()
}

func NewPlan(createdBy int64, dto CreatePlanDTO) *Plan {
	now := time.Now()

	return &Plan{
		NumPlanMejora:         dto.NumPlanMejora,
		NombreEntidad:         dto.NombreEntidad,
		InsumoMejora:          dto.InsumoMejora,
		TipoAccionMejora:      dto.TipoAccionMejora,
		AccionMejoraPlanteada: dto.AccionMejoraPlanteada,
		DescripcionActividades: dto.DescripcionActividades,
		EvidenciaCumplimiento: dto.EvidenciaCumplimiento,
		FechaInicio:           dto.FechaInicio,
		FechaFinal:            dto.FechaFinal,
		EnlaceEntidad:         dto.EnlaceEntidad,
		Estado:                EstadoPendiente,
		CreatedBy:             createdBy,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

func ToDataModel(p *Plan) *planDatamodel.Plan {
	return &planDatamodel.Plan{
		ID:                    p.ID,
		NumPlanMejora:         p.NumPlanMejora,
		NombreEntidad:         p.NombreEntidad,
		ObservacionCalidad:    p.ObservacionCalidad,
		InsumoMejora:          p.InsumoMejora,
		TipoAccionMejora:      p.TipoAccionMejora,
		AccionMejoraPlanteada: p.AccionMejoraPlanteada,
		DescripcionActividades: p.DescripcionActividades,
		EvidenciaCumplimiento: p.EvidenciaCumplimiento,
		FechaInicio:           p.FechaInicio,
		FechaFinal:            p.FechaFinal,
		EnlaceEntidad:         p.EnlaceEntidad,
		Estado:                p.Estado,
		CreatedBy:             p.CreatedBy,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}

func FromDataModel(p *planDatamodel.Plan) *Plan {
	return &Plan{
		ID:                    p.ID,
		NumPlanMejora:         p.NumPlanMejora,
		NombreEntidad:         p.NombreEntidad,
		ObservacionCalidad:    p.ObservacionCalidad,
		InsumoMejora:          p.InsumoMejora,
		TipoAccionMejora:      p.TipoAccionMejora,
		AccionMejoraPlanteada: p.AccionMejoraPlanteada,
		DescripcionActividades: p.DescripcionActividades,
		EvidenciaCumplimiento: p.EvidenciaCumplimiento,
		FechaInicio:           p.FechaInicio,
		FechaFinal:            p.FechaFinal,
		EnlaceEntidad:         p.EnlaceEntidad,
		Estado:                p.Estado,
		CreatedBy:             p.CreatedBy,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*planDatamodel.Plan) []*Plan {
	result := make([]*Plan, len(rows))
	for i, row := range rows {
		result[i] = FromDataModel(row)
	}
	return result
}
