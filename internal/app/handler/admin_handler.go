package handler

import (
	"fmt"
	"net/http"

	"vidros-backend/internal/app/apperr"
	"vidros-backend/internal/app/ds"
	"vidros-backend/internal/app/dto"
	"vidros-backend/internal/app/middleware"
	"vidros-backend/internal/app/repository"
	"vidros-backend/internal/app/role"

	"github.com/gin-gonic/gin"
)

// ============ LOJAS ============

// GetLojas lista todas as lojas
// @Summary Listar lojas
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.LojaResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/admin/lojas [get]
func (h *APIHandler) GetLojas(c *gin.Context) {
	lojas, err := h.Admin.ListLojas(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	out := make([]dto.LojaResponse, 0, len(lojas))
	for i := range lojas {
		out = append(out, toLojaResponse(&lojas[i]))
	}
	c.JSON(http.StatusOK, out)
}

// CreateLoja cria uma loja ativa
// @Summary Criar loja
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateLojaRequest true "Dados da loja"
// @Success 201 {object} dto.LojaResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/admin/lojas [post]
func (h *APIHandler) CreateLoja(c *gin.Context) {
	var req dto.CreateLojaRequest
	if !bindJSON(c, &req, "Nome da loja é obrigatório") {
		return
	}

	loja := &ds.Loja{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
	}
	if err := h.Admin.CreateLoja(c.Request.Context(), loja); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toLojaResponse(loja))
}

// UpdateLoja atualiza só os campos enviados
// @Summary Atualizar loja
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da loja"
// @Param request body dto.UpdateLojaRequest true "Campos a alterar"
// @Success 200 {object} dto.LojaResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/admin/lojas/{id} [put]
func (h *APIHandler) UpdateLoja(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateLojaRequest
	if !bindJSON(c, &req, "Dados inválidos") {
		return
	}

	loja, err := h.Admin.UpdateLoja(c.Request.Context(), id, repository.LojaPatch{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
		Active:  req.Active,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toLojaResponse(loja))
}

// DeleteLoja falha enquanto houver utilizadores associados
// @Summary Eliminar loja
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da loja"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/admin/lojas/{id} [delete]
func (h *APIHandler) DeleteLoja(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.Admin.DeleteLoja(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Loja eliminada com sucesso"})
}

// ResetLojaPedidos elimina todos os pedidos da loja
// @Summary Reset de pedidos da loja
// @Description Elimina pedidos, fotos e updates da loja numa só transação
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da loja"
// @Success 200 {object} dto.ResetPedidosResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/admin/lojas/{id}/reset-pedidos [post]
func (h *APIHandler) ResetLojaPedidos(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	loja, deleted, err := h.Admin.ResetLojaPedidos(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ResetPedidosResponse{
		Message:           fmt.Sprintf("%d pedido(s) eliminado(s) da loja %s", deleted, loja.Name),
		LojaID:            loja.ID,
		LojaName:          loja.Name,
		PedidosEliminados: deleted,
	})
}

// ============ UTILIZADORES ============

// GetUsers lista utilizadores com o nome da loja
// @Summary Listar utilizadores
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.UserResponse
// @Router /api/admin/users [get]
func (h *APIHandler) GetUsers(c *gin.Context) {
	users, err := h.Admin.ListUsers(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, out)
}

// CreateUser cria utilizador; loja_id só é guardado para o papel loja
// @Summary Criar utilizador
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateUserRequest true "Dados do utilizador"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/admin/users [post]
func (h *APIHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(c, &req, "Username, password, nome e role são obrigatórios") {
		return
	}

	r := role.Role(req.Role)
	if !r.Valid() {
		errorResponse(c, http.StatusBadRequest, "Role inválido")
		return
	}
	if r == role.Loja && (req.LojaID == nil || *req.LojaID == 0) {
		errorResponse(c, http.StatusBadRequest, "Loja é obrigatória para utilizadores do tipo loja")
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		handleError(c, apperr.Internal("Erro ao criar utilizador", err))
		return
	}

	user := &ds.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         r.String(),
	}
	if user.Email != nil && *user.Email == "" {
		user.Email = nil
	}
	if r == role.Loja {
		user.LojaID = req.LojaID
	}

	if err = h.Admin.CreateUser(c.Request.Context(), user); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

// UpdateUser atualiza só os campos enviados
// @Summary Atualizar utilizador
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do utilizador"
// @Param request body dto.UpdateUserRequest true "Campos a alterar"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/admin/users/{id} [put]
func (h *APIHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !bindJSON(c, &req, "Dados inválidos") {
		return
	}

	if req.Role != nil && !role.Role(*req.Role).Valid() {
		errorResponse(c, http.StatusBadRequest, "Role inválido")
		return
	}

	patch := repository.UserPatch{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		Role:     req.Role,
		LojaID:   req.LojaID,
		Active:   req.Active,
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			handleError(c, apperr.Internal("Erro ao atualizar utilizador", err))
			return
		}
		patch.PasswordHash = &hash
	}

	user, err := h.Admin.UpdateUser(c.Request.Context(), id, patch)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// DeleteUser o admin não se pode eliminar a si próprio
// @Summary Eliminar utilizador
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do utilizador"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/admin/users/{id} [delete]
func (h *APIHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if id == middleware.GetUserFromContext(c).ID {
		errorResponse(c, http.StatusBadRequest, "Não pode eliminar o seu próprio utilizador")
		return
	}

	if err := h.Admin.DeleteUser(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Utilizador eliminado com sucesso"})
}

// ResetUserPassword grava a nova password na coluna "password".
// O login continua a validar password_hash, por isso a password antiga mantém-se válida.
// @Summary Repor password
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do utilizador"
// @Param request body dto.ResetPasswordRequest true "Nova password"
// @Success 200 {object} dto.ResetPasswordResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/admin/users/{id}/reset-password [post]
func (h *APIHandler) ResetUserPassword(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.ResetPasswordRequest
	if !bindJSON(c, &req, "Password deve ter pelo menos 6 caracteres") {
		return
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		handleError(c, apperr.Internal("Erro ao repor password", err))
		return
	}

	user, err := h.Admin.ResetUserPassword(c.Request.Context(), id, hash)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ResetPasswordResponse{
		Message: "Password alterada com sucesso",
		User: dto.UserSummary{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
	})
}

// ============ ESTATÍSTICAS ============

// GetStats contagens globais
// @Summary Estatísticas
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StatsResponse
// @Router /api/admin/stats [get]
func (h *APIHandler) GetStats(c *gin.Context) {
	stats, err := h.Admin.GetStats(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	porStatus := make([]dto.StatusCount, 0, len(stats.PedidosPorStatus))
	for _, sc := range stats.PedidosPorStatus {
		porStatus = append(porStatus, dto.StatusCount{Status: sc.Status, Count: sc.Count})
	}

	c.JSON(http.StatusOK, dto.StatsResponse{
		TotalLojas:       stats.TotalLojas,
		TotalUsers:       stats.TotalUsers,
		TotalPedidos:     stats.TotalPedidos,
		PedidosPorStatus: porStatus,
	})
}
