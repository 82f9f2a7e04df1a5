package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTTokenCodec signs HS256 tokens with the process-wide secret. The
// same secret and claims at the same instant produce the same bytes;
// tokens are stateless and die at their expiry, there is no revocation
// list.
type JWTTokenCodec struct {
	Secret []byte
	TTL    time.Duration
}

func NewJWTTokenCodec(secret string, ttlHours int) *JWTTokenCodec {
	return &JWTTokenCodec{
		Secret: []byte(secret),
		TTL:    time.Duration(ttlHours) * time.Hour,
	}
}

// Issue encodes subject email, role and numeric id with an absolute
// expiry of now + TTL.
func (c *JWTTokenCodec) Issue(email string, role Role, userID int64) (string, error) {
	now := time.Now()

	claims := &Claims{
		Role:   role.String(),
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.Secret)
}

// Decode verifies the signature and structural claims. Expiry is part
// of the verified claim set: the jwt library rejects stale tokens here
// and the failure surfaces as ErrTokenExpired so the resolver can treat
// it as unauthenticated. A tampered payload or missing sub/role/uid is
// ErrInvalidToken.
func (c *JWTTokenCodec) Decode(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.Secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" || claims.Role == "" || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
