package handler

import (
	"net/http"
	"time"

	"vidros-backend/internal/app/apperr"
	"vidros-backend/internal/app/config"
	"vidros-backend/internal/app/ds"
	"vidros-backend/internal/app/dto"
	"vidros-backend/internal/app/middleware"
	"vidros-backend/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

type AuthHandler struct {
	Users  UserStore
	Config *config.Config
}

func NewAuthHandler(users UserStore, config *config.Config) *AuthHandler {
	return &AuthHandler{
		Users:  users,
		Config: config,
	}
}

// LoginUser autenticação por email ou username
// @Summary Login
// @Description Valida as credenciais de um utilizador ativo e devolve um JWT válido por 24h
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credenciais"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) LoginUser(ctx *gin.Context) {
	var request dto.LoginRequest
	if !bindJSON(ctx, &request, "Email e password são obrigatórios") {
		return
	}

	user, err := h.Users.GetActiveUserByLogin(ctx.Request.Context(), request.Email)
	if err != nil {
		handleError(ctx, err)
		return
	}
	if !checkPassword(user.PasswordHash, request.Password) {
		handleError(ctx, apperr.ErrInvalidCredentials)
		return
	}

	accessToken, err := h.signToken(user)
	if err != nil {
		handleError(ctx, apperr.Internal("Erro ao fazer login", err))
		return
	}

	ctx.JSON(http.StatusOK, dto.LoginResponse{
		Token: accessToken,
		User:  toUserInfo(user),
	})
}

func (h *AuthHandler) signToken(user *ds.User) (string, error) {
	email := ""
	if user.Email != nil {
		email = *user.Email
	}

	now := time.Now()
	token := jwt.NewWithClaims(h.Config.JWT.SigningMethod, &ds.JWTClaims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(h.Config.JWT.ExpiresIn).Unix(),
			IssuedAt:  now.Unix(),
		},
		UserID: user.ID,
		Email:  email,
		Role:   role.Role(user.Role),
		LojaID: user.LojaID,
	})

	return token.SignedString([]byte(h.Config.JWT.Token))
}

// GetUserProfile dados do utilizador autenticado
// @Summary Utilizador autenticado
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserInfo
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/auth/me [get]
func (h *AuthHandler) GetUserProfile(ctx *gin.Context) {
	current := middleware.GetUserFromContext(ctx)

	user, err := h.Users.GetUserByID(ctx.Request.Context(), current.ID)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toUserInfo(user))
}

// LogoutUser o token é descartado pelo cliente
// @Summary Logout
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/logout [post]
func (h *AuthHandler) LogoutUser(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Logout efetuado com sucesso"})
}
