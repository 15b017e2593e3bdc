package middleware

import (
	"net/http"
	"strings"

	"vidros-backend/internal/app/apperr"
	"vidros-backend/internal/app/config"
	"vidros-backend/internal/app/ds"
	"vidros-backend/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

type AuthMiddleware struct {
	Config *config.Config
}

func NewAuthMiddleware(cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{
		Config: cfg,
	}
}

// WithAuthCheck valida o Bearer token e, se forem dados papéis, exige um deles
func (am *AuthMiddleware) WithAuthCheck(assignedRoles ...role.Role) gin.HandlerFunc {
	return func(gCtx *gin.Context) {
		jwtStr := gCtx.GetHeader("Authorization")
		if !strings.HasPrefix(jwtStr, "Bearer ") {
			abort(gCtx, http.StatusUnauthorized, apperr.ErrTokenMissing)
			return
		}
		jwtStr = strings.TrimPrefix(jwtStr, "Bearer ")

		claims, err := am.ParseToken(jwtStr)
		if err != nil {
			abort(gCtx, http.StatusUnauthorized, apperr.ErrTokenInvalid)
			return
		}

		user := &CurrentUser{
			ID:     claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
			LojaID: claims.LojaID,
		}

		if len(assignedRoles) > 0 && !user.Is(assignedRoles...) {
			abort(gCtx, http.StatusForbidden, apperr.ErrForbidden)
			return
		}

		setUserInContext(gCtx, user)
		gCtx.Next()
	}
}

// ParseToken só aceita o método de assinatura configurado
func (am *AuthMiddleware) ParseToken(tokenString string) (*ds.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ds.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != am.Config.JWT.SigningMethod.Alg() {
			return nil, apperr.ErrTokenInvalid
		}
		return []byte(am.Config.JWT.Token), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*ds.JWTClaims)
	if !ok || !token.Valid {
		return nil, apperr.ErrTokenInvalid
	}
	return claims, nil
}

func abort(gCtx *gin.Context, status int, err error) {
	gCtx.AbortWithStatusJSON(status, gin.H{"error": apperr.Message(err)})
}
