package user

import (
	"strings"

	"github.com/sgcalidad/plan-mejora/internal"
	"github.com/sgcalidad/plan-mejora/internal/auth"
)

const minPasswordLength = 8

type CreateUserDTO struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	Role        string  `json:"role"`
	EntidadPerm *string `json:"entidad_perm,omitempty"`
}

// Normalize trims and lowercases the email so duplicate detection is
// case-insensitive.
func (d *CreateUserDTO) Normalize() {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
}

func (d CreateUserDTO) Validate() error {
	if d.Email == "" || !strings.Contains(d.Email, "@") {
		return internal.NewValidationError("email inválido", internal.ErrCodeValidationFailed)
	}
	if len(d.Password) < minPasswordLength {
		return internal.NewValidationError("la contraseña debe tener al menos 8 caracteres", internal.ErrCodePasswordTooShort)
	}
	role, err := auth.ParseRole(d.Role)
	if err != nil {
		return internal.NewValidationError("rol inválido", internal.ErrCodeInvalidRole)
	}
	if d.EntidadPerm != nil && role != auth.RoleEntidad {
		return internal.ErrPermNotEntidad
	}
	if d.EntidadPerm != nil {
		if _, err := auth.ParsePermission(*d.EntidadPerm); err != nil {
			return internal.NewValidationError("permiso inválido", internal.ErrCodeValidationFailed)
		}
	}
	return nil
}

type UpdateRoleDTO struct {
	Role string `json:"role"`
}

func (d UpdateRoleDTO) Validate() error {
	if _, err := auth.ParseRole(d.Role); err != nil {
		return internal.NewValidationError("rol inválido", internal.ErrCodeInvalidRole)
	}
	return nil
}

type ResetPasswordDTO struct {
	Password string `json:"password"`
}

func (d ResetPasswordDTO) Validate() error {
	if len(d.Password) < minPasswordLength {
		return internal.NewValidationError("la contraseña debe tener al menos 8 caracteres", internal.ErrCodePasswordTooShort)
	}
	return nil
}

type UpdatePermDTO struct {
	EntidadPerm *string `json:"entidad_perm"`
}

func (d UpdatePermDTO) Validate() error {
	if d.EntidadPerm == nil {
		return nil
	}
	if _, err := auth.ParsePermission(*d.EntidadPerm); err != nil {
		return internal.NewValidationError("permiso inválido", internal.ErrCodeValidationFailed)
	}
	return nil
}
