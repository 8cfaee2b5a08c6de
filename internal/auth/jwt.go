package auth

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that fails verification:
// bad signature, expired, malformed, or missing claims. Callers must not
// distinguish these cases beyond rejecting the request.
var ErrInvalidToken = errors.New("invalid token")

// --- Context Keys ---

// contextKey is a custom type used for context keys to avoid collisions.
type contextKey string

const UsernameKey contextKey = "username"

// --- JWT Claims ---

// CustomClaims includes standard JWT claims plus the subject username.
type CustomClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// NewAccessToken generates a new signed JWT access token for the given user.
func NewAccessToken(username, jwtSecret string, expiration time.Duration) (string, error) {
	now := time.Now()
	claims := CustomClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "vaidyai-backend",
			Subject:   username,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		log.Printf("Error signing JWT token for user %s: %v", username, err)
		return "", err
	}

	return signedToken, nil
}

// ParseAccessToken verifies a signed token and returns the subject username.
// It fails closed: any parse, signature, expiry, or claim problem yields
// ErrInvalidToken.
func ParseAccessToken(tokenString, jwtSecret string) (string, error) {
	claims := &CustomClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing algorithm
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid || claims.Username == "" {
		return "", ErrInvalidToken
	}

	return claims.Username, nil
}
