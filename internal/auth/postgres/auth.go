package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/sgcalidad/plan-mejora/internal"
	"github.com/sgcalidad/plan-mejora/internal/auth"
	userDatamodel "github.com/sgcalidad/plan-mejora/internal/core/datamodel/user"
)

// Repository implements auth.CredentialStore on GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByEmail(email string) (*auth.User, error) {
	var row userDatamodel.User
	err := r.db.Where("email = ?", email).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return toAuthUser(&row)
}

func (r *Repository) GetByID(id int64) (*auth.User, error) {
	var row userDatamodel.User
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return toAuthUser(&row)
}

func toAuthUser(row *userDatamodel.User) (*auth.User, error) {
	role, err := auth.ParseRole(row.Role)
	if err != nil {
		// a stored row with an unknown role tag is unusable for auth
		return nil, internal.ErrUserNotFound.WithCause(err)
	}

	var perm *auth.Permission
	if row.EntidadPerm != nil {
		if p, err := auth.ParsePermission(*row.EntidadPerm); err == nil {
			perm = &p
		}
	}

	return &auth.User{
		ID:           row.ID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Role:         role,
		EntidadPerm:  perm,
	}, nil
}
