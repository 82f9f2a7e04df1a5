package seguimiento

import "time"

type Seguimiento struct {
	ID                    int64      `gorm:"primaryKey"`
	PlanID                int64      `gorm:"column:plan_id;not null;index"`
	ObservacionCalidad    *string    `gorm:"column:observacion_calidad"`
	InsumoMejora          *string    `gorm:"column:insumo_mejora"`
	TipoAccionMejora      *string    `gorm:"column:tipo_accion_mejora"`
	AccionMejoraPlanteada *string    `gorm:"column:accion_mejora_planteada"`
	DescripcionActividades *string   `gorm:"column:descripcion_actividades"`
	EvidenciaCumplimiento *string    `gorm:"column:evidencia_cumplimiento"`
	FechaInicio           *time.Time `gorm:"column:fecha_inicio;type:date"`
	FechaFinal            *time.Time `gorm:"column:fecha_final;type:date"`
	Seguimiento           *string    `gorm:"column:seguimiento"`
	EnlaceEntidad         *string    `gorm:"column:enlace_entidad"`
	UpdatedBy             int64      `gorm:"column:updated_by;not null"`
	CreatedAt             time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt             time.Time  `gorm:"column:updated_at;default:now()"`
}

func (Seguimiento) TableName() string {
	return "seguimientos"
}
