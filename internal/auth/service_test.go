package auth

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/sgcalidad/plan-mejora/internal"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock CredentialStore for testing
type mockCredentialStore struct {
	usersByEmail  map[string]*User
	usersByID     map[int64]*User
	returnError   bool
	errorToReturn error
}

func newMockCredentialStore() *mockCredentialStore {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)

	users := []*User{
		{ID: 1, Email: "admin@example.com", PasswordHash: string(hash), Role: RoleAdmin},
		{ID: 2, Email: "entidad@example.com", PasswordHash: string(hash), Role: RoleEntidad},
		{ID: 3, Email: "auditor@example.com", PasswordHash: string(hash), Role: RoleAuditor},
	}

	byEmail := make(map[string]*User)
	byID := make(map[int64]*User)
	for _, u := range users {
		byEmail[u.Email] = u
		byID[u.ID] = u
	}

	return &mockCredentialStore{usersByEmail: byEmail, usersByID: byID}
}

func (m *mockCredentialStore) GetByEmail(email string) (*User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if u, ok := m.usersByEmail[email]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func (m *mockCredentialStore) GetByID(id int64) (*User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if u, ok := m.usersByID[id]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service   *Service
		mockStore *mockCredentialStore
		codec     *JWTTokenCodec
	)

	ginkgo.BeforeEach(func() {
		mockStore = newMockCredentialStore()
		codec = NewJWTTokenCodec("test-secret", 8)
		service = NewService(mockStore, codec, false, bcrypt.MinCost, slog.Default())
	})

	ginkgo.Describe("Login", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should return a bearer token", func() {
				// Given
				dto := LoginDTO{Username: "admin@example.com", Password: "correct_password"}

				// When
				resp, err := service.Login(dto)

				// Then
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(resp.AccessToken).ToNot(gomega.BeEmpty())
				gomega.Expect(resp.TokenType).To(gomega.Equal("bearer"))
			})

			ginkgo.It("should embed the stored role and id in the token", func() {
				resp, err := service.Login(LoginDTO{Username: "entidad@example.com", Password: "correct_password"})
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				claims, err := codec.Decode(resp.AccessToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.Subject).To(gomega.Equal("entidad@example.com"))
				gomega.Expect(claims.Role).To(gomega.Equal("entidad"))
				gomega.Expect(claims.UserID).To(gomega.Equal(int64(2)))
			})
		})

		ginkgo.Context("when credentials are invalid", func() {
			ginkgo.It("should fail identically for unknown email and wrong password", func() {
				_, unknownErr := service.Login(LoginDTO{Username: "nobody@example.com", Password: "correct_password"})
				_, wrongPassErr := service.Login(LoginDTO{Username: "admin@example.com", Password: "wrong_password"})

				gomega.Expect(unknownErr).To(gomega.Equal(internal.ErrInvalidCredentials))
				gomega.Expect(wrongPassErr).To(gomega.Equal(internal.ErrInvalidCredentials))
			})

			ginkgo.It("should reject an empty payload as a validation error", func() {
				_, err := service.Login(LoginDTO{})
				gomega.Expect(err).To(gomega.HaveOccurred())
			})
		})
	})

	ginkgo.Describe("Resolve", func() {
		ginkgo.Context("with a valid token", func() {
			ginkgo.It("should build the identity from the stored record", func() {
				token, err := codec.Issue("auditor@example.com", RoleAuditor, 3)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				identity, err := service.Resolve(token)

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(identity.UserID).To(gomega.Equal(int64(3)))
				gomega.Expect(identity.Email).To(gomega.Equal("auditor@example.com"))
				gomega.Expect(identity.Role).To(gomega.Equal(RoleAuditor))
			})

			ginkgo.It("should prefer the stored role over the token role", func() {
				// issued while the user was still an auditor
				token, err := codec.Issue("auditor@example.com", RoleAuditor, 3)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				// the account got demoted after issuance
				mockStore.usersByID[3].Role = RoleCiudadano

				identity, err := service.Resolve(token)

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(identity.Role).To(gomega.Equal(RoleCiudadano))
			})
		})

		ginkgo.Context("with a missing or bad token", func() {
			ginkgo.It("should reject an empty token", func() {
				_, err := service.Resolve("")
				gomega.Expect(err).To(gomega.Equal(internal.ErrUnauthenticated))
			})

			ginkgo.It("should reject a token signed with a different secret", func() {
				otherCodec := NewJWTTokenCodec("another-secret", 8)
				token, err := otherCodec.Issue("admin@example.com", RoleAdmin, 1)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				_, err = service.Resolve(token)
				gomega.Expect(err).To(gomega.Equal(internal.ErrUnauthenticated))
			})

			ginkgo.It("should reject an expired token", func() {
				expiredCodec := &JWTTokenCodec{Secret: []byte("test-secret"), TTL: -time.Hour}
				token, err := expiredCodec.Issue("admin@example.com", RoleAdmin, 1)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				_, err = service.Resolve(token)
				gomega.Expect(err).To(gomega.Equal(internal.ErrUnauthenticated))
			})

			ginkgo.It("should reject a token whose subject no longer exists", func() {
				token, err := codec.Issue("deleted@example.com", RoleEntidad, 99)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				_, err = service.Resolve(token)
				gomega.Expect(err).To(gomega.Equal(internal.ErrUnauthenticated))
			})
		})

		ginkgo.Context("when auth is disabled", func() {
			ginkgo.It("should resolve every request to the guest admin", func() {
				bypassService := NewService(mockStore, codec, true, bcrypt.MinCost, slog.Default())

				identity, err := bypassService.Resolve("")

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(identity.UserID).To(gomega.Equal(int64(0)))
				gomega.Expect(identity.Email).To(gomega.Equal("guest@demo.com"))
				gomega.Expect(identity.Role).To(gomega.Equal(RoleAdmin))
			})

			ginkgo.It("should ignore garbage tokens entirely", func() {
				bypassService := NewService(mockStore, codec, true, bcrypt.MinCost, slog.Default())

				identity, err := bypassService.Resolve("not-a-jwt")

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(identity.Role).To(gomega.Equal(RoleAdmin))
			})
		})
	})
})

var _ = ginkgo.Describe("JWTTokenCodec", func() {
	var codec *JWTTokenCodec

	ginkgo.BeforeEach(func() {
		codec = NewJWTTokenCodec("test-secret", 8)
	})

	ginkgo.It("should round-trip claims", func() {
		token, err := codec.Issue("user@example.com", RoleEntidad, 42)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		claims, err := codec.Decode(token)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(claims.Subject).To(gomega.Equal("user@example.com"))
		gomega.Expect(claims.Role).To(gomega.Equal("entidad"))
		gomega.Expect(claims.UserID).To(gomega.Equal(int64(42)))
	})

	ginkgo.It("should set expiry at issuance time plus the TTL", func() {
		token, err := codec.Issue("user@example.com", RoleEntidad, 42)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		claims, err := codec.Decode(token)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		remaining := time.Until(claims.ExpiresAt.Time)
		gomega.Expect(remaining).To(gomega.BeNumerically(">", 7*time.Hour))
		gomega.Expect(remaining).To(gomega.BeNumerically("<=", 8*time.Hour))
	})

	ginkgo.It("should map a stale token to ErrTokenExpired", func() {
		stale := &JWTTokenCodec{Secret: []byte("test-secret"), TTL: -time.Minute}
		token, err := stale.Issue("user@example.com", RoleAdmin, 1)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, err = codec.Decode(token)
		gomega.Expect(err).To(gomega.Equal(ErrTokenExpired))
	})

	ginkgo.It("should reject tampering", func() {
		token, err := codec.Issue("user@example.com", RoleCiudadano, 7)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, err = codec.Decode(token + "x")
		gomega.Expect(err).To(gomega.Equal(ErrInvalidToken))
	})
})
