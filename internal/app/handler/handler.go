package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"vidros-backend/internal/app/apperr"
	"vidros-backend/internal/app/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

const (
	apiName    = "API Portal de Vidros Especiais"
	apiVersion = "1.0.0"

	msgInternal = "Erro interno do servidor"
)

// Handler rotas públicas: estado, health check e 404
type Handler struct {
	now func() time.Time
}

func NewHandler() *Handler {
	return &Handler{now: time.Now}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.NoRoute(h.NotFound)
}

// Root estado da API
// @Summary Estado da API
// @Tags Public
// @Produce json
// @Success 200 {object} dto.StatusResponse
// @Router / [get]
func (h *Handler) Root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.StatusResponse{
		Message: apiName,
		Version: apiVersion,
		Status:  "online",
	})
}

// Health health check
// @Summary Health check
// @Tags Public
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *Handler) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Timestamp: h.now().UTC()})
}

func (h *Handler) NotFound(ctx *gin.Context) {
	errorResponse(ctx, http.StatusNotFound, "Rota não encontrada")
}

// Recovery responde 500 em JSON quando um handler entra em pânico
func Recovery(ctx *gin.Context, recovered interface{}) {
	logrus.WithField("panic", recovered).Error("panic recovered")
	errorResponse(ctx, http.StatusInternalServerError, msgInternal)
}

func errorResponse(ctx *gin.Context, statusCode int, message string) {
	ctx.AbortWithStatusJSON(statusCode, dto.ErrorResponse{Error: message})
}

// handleError traduz erros de domínio; erros internos ficam no log
func handleError(ctx *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	message := apperr.Message(err)

	if status == http.StatusInternalServerError {
		logrus.WithError(err).WithField("path", ctx.FullPath()).Error("request failed")
		if message == "" {
			message = msgInternal
		}
	}

	errorResponse(ctx, status, message)
}

// bindJSON corpo vazio ou campos em falta respondem com a mensagem do domínio
func bindJSON(ctx *gin.Context, req interface{}, validationMsg string) bool {
	err := ctx.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) || errors.Is(err, io.EOF) {
		errorResponse(ctx, http.StatusBadRequest, validationMsg)
		return false
	}

	logrus.WithError(err).Debug("invalid request body")
	errorResponse(ctx, http.StatusBadRequest, "Pedido inválido")
	return false
}

func parseID(ctx *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(param), 10, 32)
	if err != nil || id == 0 {
		errorResponse(ctx, http.StatusBadRequest, "ID inválido")
		return 0, false
	}
	return uint(id), true
}
