package auth

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the closed set of caller roles. Every comparison site matches
// exhaustively on these values; there is no fallback for unknown tags.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleEntidad   Role = "entidad"
	RoleAuditor   Role = "auditor"
	RoleCiudadano Role = "ciudadano"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEntidad, RoleAuditor, RoleCiudadano:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ParseRole maps a stored or submitted tag to a Role. Unknown tags are
// an error, never coerced.
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.Valid() {
		return "", ErrUnknownRole
	}
	return role, nil
}

// Permission narrows what an entidad user may do beyond role alone. It
// carries no meaning for any other role.
type Permission string

const (
	PermCapturaReportes     Permission = "captura_reportes"
	PermReportesSeguimiento Permission = "reportes_seguimiento"
)

func (p Permission) Valid() bool {
	switch p {
	case PermCapturaReportes, PermReportesSeguimiento:
		return true
	}
	return false
}

func ParsePermission(s string) (Permission, error) {
	perm := Permission(s)
	if !perm.Valid() {
		return "", ErrUnknownPermission
	}
	return perm, nil
}

// Identity is the resolved caller for one request. It is rebuilt from
// the credential store on every request and never persisted.
type Identity struct {
	UserID           int64       `json:"id"`
	Email            string      `json:"email"`
	Role             Role        `json:"role"`
	EntidadPermission *Permission `json:"entidad_perm,omitempty"`
}

// User is the credential-store record consulted during login and
// identity resolution. Persistence of this record lives elsewhere.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         Role
	EntidadPerm  *Permission
}

// CredentialStore is the durable user lookup this core depends on.
type CredentialStore interface {
	GetByEmail(email string) (*User, error)
	GetByID(id int64) (*User, error)
}

// Claims is the signed assertion carried by a token: subject email,
// role tag, numeric user id and expiry.
type Claims struct {
	Role   string `json:"role"`
	UserID int64  `json:"uid"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies signed identity assertions.
type TokenCodec interface {
	Issue(email string, role Role, userID int64) (string, error)
	Decode(tokenString string) (*Claims, error)
}

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenExpired      = errors.New("token expired")
	ErrUnknownRole       = errors.New("unknown role")
	ErrUnknownPermission = errors.New("unknown permission")
)

type ctxKey string

const ContextIdentityKey ctxKey = "identity"

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(ContextIdentityKey).(*Identity)
	return id, ok
}

func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ContextIdentityKey, id)
}
