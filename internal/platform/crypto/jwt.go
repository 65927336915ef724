package crypto

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer is set on every token and required when parsing.
const Issuer = "bookstore"

// clockSkew tolerated on exp, nbf and iat.
const clockSkew = 30 * time.Second

var ErrInvalidToken = errors.New("invalid token")

// Claims of a bookstore access token. ID (jti) identifies the token for
// revocation.
type Claims struct {
	Sub   string `json:"sub"` // user id
	Staff bool   `json:"staff,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 access token for the user and returns it along
// with its jti so callers can revoke it later.
func GenerateToken(secret, userID string, staff bool, ttl time.Duration) (token, jti string, err error) {
	if secret == "" || userID == "" {
		return "", "", errors.New("crypto: secret and user id are required")
	}

	now := time.Now()
	jti = uuid.NewString()
	claims := Claims{
		Sub:   userID,
		Staff: staff,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", "", fmt.Errorf("sign token: %w", err)
	}
	return token, jti, nil
}

var parser = jwt.NewParser(
	jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	jwt.WithIssuer(Issuer),
	jwt.WithExpirationRequired(),
	jwt.WithIssuedAt(),
	jwt.WithLeeway(clockSkew),
)

// ParseToken verifies tokenStr and returns its claims. Every failure wraps
// ErrInvalidToken.
func ParseToken(secret, tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Sub == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}
