package reporte

import (
	"strings"

	"github.com/sgcalidad/plan-mejora/internal"
)

type CreateReporteDTO struct {
	Nombre      string  `json:"nombre"`
	Descripcion *string `json:"descripcion,omitempty"`
	Periodo     *string `json:"periodo,omitempty"`
}

func (d CreateReporteDTO) Validate() error {
	if strings.TrimSpace(d.Nombre) == "" {
		return internal.NewValidationError("nombre es requerido", internal.ErrCodeValidationFailed)
	}
	return nil
}
