package user

import (
	"log/slog"
	"strings"
	"time"

	"github.com/sgcalidad/plan-mejora/internal"
	"github.com/sgcalidad/plan-mejora/internal/auth"
)

// Repository defines the data access methods for user administration.
type Repository interface {
	Create(u *User) error
	GetByID(id int64) (*User, error)
	List() ([]*User, error)
	Update(u *User) error
	Delete(id int64) error
	CountByRole(role string) (int64, error)
}

// PasswordHasher abstracts bcrypt so the service stays testable.
type PasswordHasher interface {
	HashPassword(plain string) (string, error)
}

// Service implements user administration. Every operation requires the
// manage-users privilege; the guards below protect the account pool
// from lockouts (last admin) and footguns (self delete, self demote).
type Service struct {
	repo   Repository
	hasher PasswordHasher
	policy auth.Policy
	logger *slog.Logger
}

func NewService(repo Repository, hasher PasswordHasher, policy auth.Policy, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		policy: policy,
		logger: logger,
	}
}

func (s *Service) List(identity *auth.Identity) ([]*User, error) {
	if !s.policy.Allow(identity, auth.ActionManageUsers, auth.Resource{}) {
		return nil, internal.ErrForbidden
	}

	users, err := s.repo.List()
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}
	return users, nil
}

func (s *Service) Create(identity *auth.Identity, dto CreateUserDTO) (*User, error) {
	if !s.policy.Allow(identity, auth.ActionManageUsers, auth.Resource{}) {
		return nil, internal.ErrForbidden
	}

	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	now := time.Now()
	u := &User{
		Email:        dto.Email,
		PasswordHash: hash,
		Role:         dto.Role,
		EntidadPerm:  dto.EntidadPerm,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(u); err != nil {
		if isUniqueViolation(err) {
			return nil, internal.ErrEmailExists
		}
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user created", "user_id", u.ID, "email", u.Email, "role", u.Role, "created_by", identity.UserID)
	return u, nil
}

// UpdateRole changes an account's role. An admin cannot demote their
// own account, and the last remaining admin cannot lose the role.
func (s *Service) UpdateRole(identity *auth.Identity, userID int64, dto UpdateRoleDTO) (*User, error) {
	if !s.policy.Allow(identity, auth.ActionManageUsers, auth.Resource{}) {
		return nil, internal.ErrForbidden
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}

	if u.Role == string(auth.RoleAdmin) && dto.Role != string(auth.RoleAdmin) {
		if userID == identity.UserID {
			return nil, internal.ErrSelfDemote
		}
		if err := s.ensureNotLastAdmin(); err != nil {
			return nil, err
		}
	}

	u.Role = dto.Role
	if dto.Role != string(auth.RoleEntidad) {
		u.EntidadPerm = nil
	}
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to update role", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to update role", err)
	}

	s.logger.Info("user role updated", "user_id", userID, "role", dto.Role, "updated_by", identity.UserID)
	return u, nil
}

func (s *Service) ResetPassword(identity *auth.Identity, userID int64, dto ResetPasswordDTO) error {
	if !s.policy.Allow(identity, auth.ActionManageUsers, auth.Resource{}) {
		return internal.ErrForbidden
	}

	if err := dto.Validate(); err != nil {
		return err
	}

	u, err := s.repo.GetByID(userID)
	if err != nil {
		return internal.ErrUserNotFound
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return internal.NewInternalError("failed to hash password", err)
	}

	u.PasswordHash = hash
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to reset password", "error", err, "user_id", userID)
		return internal.NewInternalError("failed to reset password", err)
	}

	s.logger.Info("user password reset", "user_id", userID, "updated_by", identity.UserID)
	return nil
}

// UpdatePerm sets or clears the entidad sub-permission. Only accounts
// with the entidad role carry one.
func (s *Service) UpdatePerm(identity *auth.Identity, userID int64, dto UpdatePermDTO) (*User, error) {
	if !s.policy.Allow(identity, auth.ActionManageUsers, auth.Resource{}) {
		return nil, internal.ErrForbidden
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}

	if u.Role != string(auth.RoleEntidad) {
		return nil, internal.ErrPermNotEntidad
	}

	u.EntidadPerm = dto.EntidadPerm
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to update permission", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to update permission", err)
	}

	s.logger.Info("user permission updated", "user_id", userID, "updated_by", identity.UserID)
	return u, nil
}

func (s *Service) Delete(identity *auth.Identity, userID int64) error {
	if !s.policy.Allow(identity, auth.ActionManageUsers, auth.Resource{}) {
		return internal.ErrForbidden
	}

	if userID == identity.UserID {
		return internal.ErrSelfDelete
	}

	u, err := s.repo.GetByID(userID)
	if err != nil {
		return internal.ErrUserNotFound
	}

	if u.Role == string(auth.RoleAdmin) {
		if err := s.ensureNotLastAdmin(); err != nil {
			return err
		}
	}

	if err := s.repo.Delete(userID); err != nil {
		s.logger.Error("failed to delete user", "error", err, "user_id", userID)
		return internal.NewInternalError("failed to delete user", err)
	}

	s.logger.Info("user deleted", "user_id", userID, "deleted_by", identity.UserID)
	return nil
}

func (s *Service) ensureNotLastAdmin() error {
	count, err := s.repo.CountByRole(string(auth.RoleAdmin))
	if err != nil {
		s.logger.Error("failed to count admins", "error", err)
		return internal.NewInternalError("failed to count admins", err)
	}
	if count <= 1 {
		return internal.ErrLastAdmin
	}
	return nil
}

// isUniqueViolation matches the duplicate-key errors both supported
// drivers produce: pgx's SQLSTATE 23505 and sqlite's UNIQUE message.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
