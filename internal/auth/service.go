package auth

import (
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/sgcalidad/plan-mejora/internal"
)

// ServiceAPI is what the HTTP layer sees of the auth core.
type ServiceAPI interface {
	Login(dto LoginDTO) (TokenResponse, error)
	Resolve(tokenString string) (*Identity, error)
	HashPassword(password string) (string, error)
}

// Service verifies credentials, issues tokens and resolves request
// identities against the credential store.
type Service struct {
	store      CredentialStore
	codec      TokenCodec
	bypass     bool
	bcryptCost int
	logger     *slog.Logger
}

// NewService wires the auth core. bypass comes from configuration, is
// read once at startup and never mutated afterwards.
func NewService(store CredentialStore, codec TokenCodec, bypass bool, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		store:      store,
		codec:      codec,
		bypass:     bypass,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// guestIdentity is what every request resolves to while auth is
// disabled: a fixed admin with the sentinel id 0.
func guestIdentity() *Identity {
	return &Identity{
		UserID: 0,
		Email:  "guest@demo.com",
		Role:   RoleAdmin,
	}
}

// Login verifies email+password and issues a token carrying the stored
// role and id. Unknown email and wrong password fail identically so the
// endpoint cannot be used to enumerate accounts.
func (s *Service) Login(dto LoginDTO) (TokenResponse, error) {
	if err := dto.Validate(); err != nil {
		return TokenResponse{}, err
	}

	user, err := s.store.GetByEmail(dto.Username)
	if err != nil {
		s.logger.Warn("login failed: user lookup", "email", dto.Username)
		return TokenResponse{}, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("login failed: password mismatch", "user_id", user.ID)
		return TokenResponse{}, internal.ErrInvalidCredentials
	}

	token, err := s.codec.Issue(user.Email, user.Role, user.ID)
	if err != nil {
		s.logger.Error("token issue failed", "error", err, "user_id", user.ID)
		return TokenResponse{}, internal.NewInternalError("failed to issue token", err)
	}

	s.logger.Info("login succeeded", "user_id", user.ID, "role", user.Role)

	return TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// Resolve turns a bearer token (or its absence, under bypass) into the
// request Identity. Decode-and-verify and re-resolve-against-store are
// deliberately two steps: the Identity is built from the stored record,
// so a role change in the store takes effect even for tokens issued
// before the change.
func (s *Service) Resolve(tokenString string) (*Identity, error) {
	if s.bypass {
		return guestIdentity(), nil
	}

	if tokenString == "" {
		return nil, internal.ErrUnauthenticated
	}

	claims, err := s.codec.Decode(tokenString)
	if err != nil {
		s.logger.Warn("token rejected", "error", err)
		return nil, internal.ErrUnauthenticated
	}

	user, err := s.store.GetByID(claims.UserID)
	if err != nil {
		// id miss: fall back to the embedded email
		user, err = s.store.GetByEmail(claims.Subject)
	}
	if err != nil {
		s.logger.Warn("token subject not resolvable", "uid", claims.UserID, "sub", claims.Subject)
		return nil, internal.ErrUnauthenticated
	}

	return &Identity{
		UserID:            user.ID,
		Email:             user.Email,
		Role:              user.Role,
		EntidadPermission: user.EntidadPerm,
	}, nil
}

// HashPassword creates a bcrypt hash of the password.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
