package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"vidros-backend/internal/app/apperr"
	"vidros-backend/internal/app/ds"
	"vidros-backend/internal/app/dto"
	"vidros-backend/internal/app/middleware"
	"vidros-backend/internal/app/repository"
	"vidros-backend/internal/app/role"

	"github.com/gin-gonic/gin"
)

const (
	dateLayout   = "2006-01-02"
	maxPhotoSize = 20 << 20
)

// parseDateBound aceita YYYY-MM-DD ou RFC3339; uma data sem hora como limite
// superior cobre o dia inteiro
func parseDateBound(value string, upper bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}

	t, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return nil, err
	}
	if upper {
		t = t.Add(24*time.Hour - time.Microsecond)
	}
	return &t, nil
}

// GetPedidos lista pedidos visíveis para o utilizador
// @Summary Listar pedidos
// @Description Utilizadores de loja só veem os pedidos da sua loja. has_new_activity indica updates ainda não vistos pelo papel.
// @Tags Pedidos
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status exato"
// @Param loja_id query int false "Filtrar por loja (ignorado para o papel loja)"
// @Param data_inicio query string false "Data mínima de criação (YYYY-MM-DD ou RFC3339)"
// @Param data_fim query string false "Data máxima de criação (YYYY-MM-DD ou RFC3339)"
// @Success 200 {array} dto.PedidoListItem
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/pedidos [get]
func (h *APIHandler) GetPedidos(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	filter := repository.PedidoFilter{
		Scope:  user.Scope(),
		Status: c.Query("status"),
	}

	if s := c.Query("loja_id"); s != "" && !filter.Scope.Restricted {
		lojaID, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			errorResponse(c, http.StatusBadRequest, "loja_id inválido")
			return
		}
		id := uint(lojaID)
		filter.LojaID = &id
	}

	var err error
	if filter.DateFrom, err = parseDateBound(c.Query("data_inicio"), false); err != nil {
		errorResponse(c, http.StatusBadRequest, "data_inicio inválida")
		return
	}
	if filter.DateTo, err = parseDateBound(c.Query("data_fim"), true); err != nil {
		errorResponse(c, http.StatusBadRequest, "data_fim inválida")
		return
	}

	rows, err := h.Pedidos.ListPedidos(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err)
		return
	}

	out := make([]dto.PedidoListItem, 0, len(rows))
	for i := range rows {
		out = append(out, toPedidoListItem(&rows[i], user.Role))
	}
	c.JSON(http.StatusOK, out)
}

// GetPedido detalhe com fotos e updates; marca o pedido como visto pelo papel
// @Summary Detalhe de pedido
// @Tags Pedidos
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do pedido"
// @Success 200 {object} dto.PedidoDetailResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/pedidos/{id} [get]
func (h *APIHandler) GetPedido(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user := middleware.GetUserFromContext(c)
	ctx := c.Request.Context()

	detail, err := h.Pedidos.GetPedidoDetail(ctx, id, user.Scope())
	if err != nil {
		handleError(c, err)
		return
	}

	fotos, err := h.Pedidos.ListFotos(ctx, id)
	if err != nil {
		handleError(c, err)
		return
	}

	// a loja vê as mensagens visíveis e as que ela própria escreveu
	uq := repository.UpdateQuery{}
	if user.Role == role.Loja {
		uq.OnlyVisible = true
		uq.AuthorID = &user.ID
	}
	updates, err := h.Pedidos.ListUpdates(ctx, id, uq)
	if err != nil {
		handleError(c, err)
		return
	}

	if column, ok := ds.ViewColumn(user.Role); ok {
		if err = h.Pedidos.MarkViewed(ctx, id, column, h.now()); err != nil {
			handleError(c, err)
			return
		}
	}

	resp := dto.PedidoDetailResponse{
		PedidoResponse: toPedidoResponse(&detail.Pedido),
		LojaName:       detail.LojaName,
		LojaEmail:      detail.LojaEmail,
		LojaPhone:      detail.LojaPhone,
		UserName:       detail.UserName,
		Fotos:          make([]dto.FotoResponse, 0, len(fotos)),
		Updates:        toUpdateResponses(updates),
	}
	for i := range fotos {
		resp.Fotos = append(resp.Fotos, toFotoResponse(&fotos[i]))
	}

	c.JSON(http.StatusOK, resp)
}

// CreatePedido cria o pedido e as fotos numa transação
// @Summary Criar pedido
// @Tags Pedidos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePedidoRequest true "Dados do pedido"
// @Success 201 {object} dto.PedidoResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/pedidos [post]
func (h *APIHandler) CreatePedido(c *gin.Context) {
	user := middleware.GetUserFromContext(c)

	var req dto.CreatePedidoRequest
	if !bindJSON(c, &req, "Matrícula, marca, modelo e tipo de vidro são obrigatórios") {
		return
	}
	if user.LojaID == nil {
		errorResponse(c, http.StatusBadRequest, "Utilizador sem loja associada")
		return
	}

	pedido := &ds.Pedido{
		LojaID:      *user.LojaID,
		UserID:      user.ID,
		Matricula:   req.Matricula,
		MarcaCarro:  req.MarcaCarro,
		ModeloCarro: req.ModeloCarro,
		AnoCarro:    req.AnoCarro,
		TipoVidro:   req.TipoVidro,
		Descricao:   req.Descricao,
		Status:      ds.StatusPendente,
	}
	if err := h.Pedidos.CreatePedido(c.Request.Context(), pedido, req.Fotos); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toPedidoResponse(pedido))
}

// UpdatePedido atualiza status, valores e notas
// @Summary Atualizar pedido
// @Description Qualquer status é aceite. Só departamento e admin.
// @Tags Pedidos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do pedido"
// @Param request body dto.UpdatePedidoRequest true "Campos a alterar"
// @Success 200 {object} dto.PedidoResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/pedidos/{id} [put]
func (h *APIHandler) UpdatePedido(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdatePedidoRequest
	if !bindJSON(c, &req, "Nenhum campo para atualizar") {
		return
	}

	patch := repository.PedidoPatch{
		Status:          req.Status,
		Valor:           req.Valor,
		Custo:           req.Custo,
		Fornecedor:      req.Fornecedor,
		Notas:           req.Notas,
		Disponibilidade: req.Disponibilidade,
	}
	if patch.Status != nil && *patch.Status == "" {
		patch.Status = nil
	}
	if patch.Empty() {
		errorResponse(c, http.StatusBadRequest, "Nenhum campo para atualizar")
		return
	}

	pedido, err := h.Pedidos.UpdatePedido(c.Request.Context(), id, patch)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPedidoResponse(pedido))
}

// AddPedidoFoto anexa uma foto por URL ou por upload de ficheiro
// @Summary Adicionar foto
// @Description JSON {foto_url} ou multipart com o ficheiro "foto" (guardado no MinIO)
// @Tags Pedidos
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do pedido"
// @Param request body dto.AddFotoRequest false "URL da foto"
// @Param foto formData file false "Ficheiro da foto"
// @Success 201 {object} dto.FotoResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/pedidos/{id}/fotos [post]
func (h *APIHandler) AddPedidoFoto(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user := middleware.GetUserFromContext(c)
	ctx := c.Request.Context()

	var fotoURL string
	var upload *multipart.FileHeader
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if fh, err := c.FormFile("foto"); err == nil {
			upload = fh
		} else {
			fotoURL = c.PostForm("foto_url")
		}
	} else {
		var req dto.AddFotoRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			fotoURL = req.FotoURL
		}
	}

	if upload == nil && fotoURL == "" {
		errorResponse(c, http.StatusBadRequest, "URL da foto é obrigatória")
		return
	}
	if upload != nil && h.Photos == nil {
		errorResponse(c, http.StatusBadRequest, "Upload de ficheiros não disponível")
		return
	}
	if upload != nil && upload.Size > maxPhotoSize {
		errorResponse(c, http.StatusBadRequest, "Ficheiro demasiado grande")
		return
	}

	if err := h.Pedidos.CheckPedidoScope(ctx, id, user.Scope()); err != nil {
		handleError(c, err)
		return
	}

	if upload != nil {
		url, err := h.uploadPhoto(c, upload)
		if err != nil {
			handleError(c, apperr.Internal("Erro ao adicionar foto", err))
			return
		}
		fotoURL = url
	}

	foto, err := h.Pedidos.AddFoto(ctx, id, fotoURL)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toFotoResponse(foto))
}

func (h *APIHandler) uploadPhoto(c *gin.Context, fh *multipart.FileHeader) (string, error) {
	file, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}

	return h.Photos.UploadPhoto(c.Request.Context(), data, fh.Filename)
}

// AddPedidoUpdate adiciona uma mensagem ao pedido
// @Summary Adicionar update
// @Description visivel_loja omitido conta como true
// @Tags Pedidos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do pedido"
// @Param request body dto.AddUpdateRequest true "Mensagem"
// @Success 201 {object} dto.UpdateResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/pedidos/{id}/updates [post]
func (h *APIHandler) AddPedidoUpdate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user := middleware.GetUserFromContext(c)
	ctx := c.Request.Context()

	var req dto.AddUpdateRequest
	if !bindJSON(c, &req, "Mensagem é obrigatória") {
		return
	}
	if strings.TrimSpace(req.Mensagem) == "" {
		errorResponse(c, http.StatusBadRequest, "Mensagem é obrigatória")
		return
	}

	if err := h.Pedidos.CheckPedidoScope(ctx, id, user.Scope()); err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			err = apperr.NotFound("Pedido não encontrado ou sem permissão")
		}
		handleError(c, err)
		return
	}

	update := &ds.PedidoUpdate{
		PedidoID:    id,
		UserID:      user.ID,
		Tipo:        ds.UpdateTipoGeral,
		Conteudo:    req.Mensagem,
		VisivelLoja: req.VisivelLoja == nil || *req.VisivelLoja,
	}
	if err := h.Pedidos.AddUpdate(ctx, update); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUpdateResponse(update))
}

// GetPedidoUpdates updates do mais recente para o mais antigo
// @Summary Listar updates
// @Description Utilizadores de loja só veem updates com visivel_loja
// @Tags Pedidos
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do pedido"
// @Success 200 {array} dto.UpdateResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/pedidos/{id}/updates [get]
func (h *APIHandler) GetPedidoUpdates(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user := middleware.GetUserFromContext(c)
	ctx := c.Request.Context()

	if err := h.Pedidos.CheckPedidoScope(ctx, id, user.Scope()); err != nil {
		handleError(c, err)
		return
	}

	updates, err := h.Pedidos.ListUpdates(ctx, id, repository.UpdateQuery{
		OnlyVisible: user.Role == role.Loja,
		Desc:        true,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUpdateResponses(updates))
}

// CancelPedido marca o pedido como cancelado, seja qual for o status atual
// @Summary Cancelar pedido
// @Tags Pedidos
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do pedido"
// @Success 200 {object} dto.CancelPedidoResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/pedidos/{id} [delete]
func (h *APIHandler) CancelPedido(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user := middleware.GetUserFromContext(c)

	pedido, err := h.Pedidos.CancelPedido(c.Request.Context(), id, user.Scope())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CancelPedidoResponse{
		Message: "Pedido cancelado com sucesso",
		Pedido:  toPedidoResponse(pedido),
	})
}
