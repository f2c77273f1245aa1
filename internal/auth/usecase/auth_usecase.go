package usecase

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// AuthUsecase validates bearer tokens for API access. Token issuance and
// refresh live with the identity provider, not here.
type AuthUsecase interface {
	// ValidateToken returns the user id the token was issued for.
	ValidateToken(token string) (string, error)
}

type jwtAuthUsecase struct {
	secret []byte
}

func NewAuthUsecase(secret string) AuthUsecase {
	return &jwtAuthUsecase{secret: []byte(secret)}
}

func (u *jwtAuthUsecase) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return u.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return sub, nil
}
