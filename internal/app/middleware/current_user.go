package middleware

import (
	"vidros-backend/internal/app/ds"
	"vidros-backend/internal/app/role"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "current_user"

// CurrentUser principal autenticado, extraído do token
type CurrentUser struct {
	ID     uint
	Email  string
	Role   role.Role
	LojaID *uint
}

// Scope utilizadores de loja só veem a própria loja; sem loja não veem nada
func (u *CurrentUser) Scope() ds.Scope {
	if u.Role != role.Loja {
		return ds.Unrestricted
	}
	if u.LojaID == nil {
		return ds.ForLoja(0)
	}
	return ds.ForLoja(*u.LojaID)
}

// Is indica se o papel do utilizador está no conjunto
func (u *CurrentUser) Is(roles ...role.Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

func setUserInContext(c *gin.Context, user *CurrentUser) {
	c.Set(currentUserKey, user)
}

// GetUserFromContext devolve nil fora de rotas autenticadas
func GetUserFromContext(c *gin.Context) *CurrentUser {
	if user, exists := c.Get(currentUserKey); exists {
		if u, ok := user.(*CurrentUser); ok {
			return u
		}
	}
	return nil
}
