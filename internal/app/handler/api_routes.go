package handler

import (
	"vidros-backend/internal/app/middleware"
	"vidros-backend/internal/app/role"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes regista as rotas REST; o rate limiter aplica-se a todo o /api
func (h *APIHandler) RegisterAPIRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware, limiter middleware.Limiter) {
	api := router.Group("/api")
	if limiter != nil {
		api.Use(middleware.RateLimit(limiter))
	}

	// ============ Autenticação ============
	auth := api.Group("/auth")
	{
		auth.POST("/login", h.AuthHandler.LoginUser)
		auth.GET("/me", authMiddleware.WithAuthCheck(), h.AuthHandler.GetUserProfile)
		auth.POST("/logout", authMiddleware.WithAuthCheck(), h.AuthHandler.LogoutUser)
	}

	// ============ Administração (só admin) ============
	admin := api.Group("/admin")
	admin.Use(authMiddleware.WithAuthCheck(role.Admin))
	{
		admin.GET("/lojas", h.GetLojas)
		admin.POST("/lojas", h.CreateLoja)
		admin.PUT("/lojas/:id", h.UpdateLoja)
		admin.DELETE("/lojas/:id", h.DeleteLoja)
		admin.POST("/lojas/:id/reset-pedidos", h.ResetLojaPedidos)

		admin.GET("/users", h.GetUsers)
		admin.POST("/users", h.CreateUser)
		admin.PUT("/users/:id", h.UpdateUser)
		admin.DELETE("/users/:id", h.DeleteUser)
		admin.POST("/users/:id/reset-password", h.ResetUserPassword)

		admin.GET("/stats", h.GetStats)
	}

	// ============ Pedidos (qualquer utilizador autenticado) ============
	pedidos := api.Group("/pedidos")
	pedidos.Use(authMiddleware.WithAuthCheck())
	{
		pedidos.GET("", h.GetPedidos)
		pedidos.GET("/:id", h.GetPedido)
		pedidos.POST("", authMiddleware.WithAuthCheck(role.Loja), h.CreatePedido)
		pedidos.PUT("/:id", authMiddleware.WithAuthCheck(role.Departamento, role.Admin), h.UpdatePedido)
		pedidos.DELETE("/:id", h.CancelPedido)

		pedidos.POST("/:id/fotos", h.AddPedidoFoto)
		pedidos.GET("/:id/updates", h.GetPedidoUpdates)
		pedidos.POST("/:id/updates", authMiddleware.WithAuthCheck(role.Loja, role.Departamento, role.Admin), h.AddPedidoUpdate)
	}
}
