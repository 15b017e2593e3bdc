package ds

import (
	"vidros-backend/internal/app/role"

	"github.com/golang-jwt/jwt"
)

type JWTClaims struct {
	jwt.StandardClaims
	UserID uint      `json:"id"`
	Email  string    `json:"email"`
	Role   role.Role `json:"role"`
	LojaID *uint     `json:"loja_id"`
}
