package reporte

import "time"

type Reporte struct {
	ID          int64     `gorm:"primaryKey"`
	Nombre      string    `gorm:"column:nombre;not null"`
	Descripcion *string   `gorm:"column:descripcion"`
	Periodo     *string   `gorm:"column:periodo"`
	CreatedBy   int64     `gorm:"column:created_by;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
}

func (Reporte) TableName() string {
	return "reportes"
}
