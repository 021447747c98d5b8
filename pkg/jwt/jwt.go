package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims standard registered claims plus the session binding.
// The token carries no role or barangay: those live in the server-side session record.
type Claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
	UserID    string `json:"user_id"`
}

// Generate signs a token bound to sessionID that expires at expiresAt.
func Generate(secret, sessionID, userID, issuer string, issuedAt, expiresAt time.Time) (string, error) {
	if secret == "" {
		return "", errors.New("jwt: empty secret")
	}
	if sessionID == "" || userID == "" {
		return "", errors.New("jwt: session and user are required")
	}
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		SessionID: sessionID,
		UserID:    userID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse verifies signature and expiry and returns the bound session and user ids.
func Parse(secret, tokenString string) (sessionID, userID string, err error) {
	if secret == "" {
		return "", "", errors.New("jwt: empty secret")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", "", errors.New("jwt: invalid claims")
	}
	if claims.SessionID == "" || claims.UserID == "" {
		return "", "", errors.New("jwt: missing session binding")
	}
	return claims.SessionID, claims.UserID, nil
}
