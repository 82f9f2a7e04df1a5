package plan

import "time"

type Plan struct {
	ID                    int64      `gorm:"primaryKey"`
	NumPlanMejora         string     `gorm:"column:num_plan_mejora"`
	NombreEntidad         string     `gorm:"column:nombre_entidad;not null"`
	ObservacionCalidad    *string    `gorm:"column:observacion_calidad"`
	InsumoMejora          *string    `gorm:"column:insumo_mejora"`
	TipoAccionMejora      *string    `gorm:"column:tipo_accion_mejora"`
	AccionMejoraPlanteada *string    `gorm:"column:accion_mejora_planteada"`
	DescripcionActividades *string   `gorm:"column:descripcion_actividades"`
	EvidenciaCumplimiento *string    `gorm:"column:evidencia_cumplimiento"`
	FechaInicio           *time.Time `gorm:"column:fecha_inicio;type:date"`
	FechaFinal            *time.Time `gorm:"column:fecha_final;type:date"`
	EnlaceEntidad         *string    `gorm:"column:enlace_entidad"`
	Estado                string     `gorm:"column:estado;default:'Pendiente'"`
	CreatedBy             int64      `gorm:"column:created_by;not null"`
	CreatedAt             time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt             time.Time  `gorm:"column:updated_at;default:now()"`
}

func (Plan) TableName() string {
	return "planes_mejora"
}
