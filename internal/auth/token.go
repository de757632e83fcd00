package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hunglv/expensive/internal/model"
)

// ErrInvalidToken is returned when a session token cannot be read.
var ErrInvalidToken = errors.New("invalid session token")

// Claims is what a session token carries.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// MintToken builds an unsigned (alg "none") JWT for user. It has the
// shape of a real token and no cryptographic value.
func MintToken(user model.User, now time.Time) (string, error) {
	claims := Claims{
		Name:  user.Name,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       fmt.Sprintf("mock-%d", now.UnixMilli()),
			Subject:  strconv.Itoa(user.ID),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		return "", fmt.Errorf("failed to mint token: %w", err)
	}
	return signed, nil
}

// ParseToken reads the claims of a token without verifying it.
func ParseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return claims, nil
}
