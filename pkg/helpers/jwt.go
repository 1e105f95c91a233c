package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is the single failure surfaced by Parse. Expiry, bad
// signature and malformed input all collapse into it so a caller cannot tell
// which check failed.
var ErrInvalidToken = errors.New("invalid token")

// JWTManager issues and verifies stateless HS256 access tokens. Validity is
// purely cryptographic plus time-based; nothing is persisted server-side.
type JWTManager struct {
	Secret []byte
	TTL    time.Duration
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{Secret: []byte(secret), TTL: ttl}
}

type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// Generate signs a token embedding the account id with a fixed expiry window.
func (m *JWTManager) Generate(userID string) (string, time.Time, error) {
	exp := time.Now().Add(m.TTL)
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// Parse verifies signature and expiry and returns the embedded account id.
func (m *JWTManager) Parse(tokenStr string) (string, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.Secret, nil
	})
	if err != nil || !tkn.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}
