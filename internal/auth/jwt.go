package auth

import (
	"time"

	"almoxarifado-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

type JWTCustomClaims struct {
	UserID    uint         `json:"user_id"`
	Matricula string       `json:"matricula"`
	Cargo     models.Cargo `json:"cargo"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, u *models.Usuario) (string, error) {
	claims := &JWTCustomClaims{
		UserID:    u.ID,
		Matricula: u.Matricula,
		Cargo:     u.Cargo,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
