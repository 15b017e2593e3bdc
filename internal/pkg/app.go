package pkg

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"vidros-backend/internal/app/config"
	"vidros-backend/internal/app/handler"
	"vidros-backend/internal/app/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const shutdownTimeout = 10 * time.Second

type Application struct {
	Config         *config.Config
	Router         *gin.Engine
	Handler        *handler.Handler
	APIHandler     *handler.APIHandler
	AuthMiddleware *middleware.AuthMiddleware
	Limiter        middleware.Limiter
}

func NewApp(c *config.Config, r *gin.Engine, h *handler.Handler, api *handler.APIHandler, am *middleware.AuthMiddleware, limiter middleware.Limiter) *Application {
	return &Application{
		Config:         c,
		Router:         r,
		Handler:        h,
		APIHandler:     api,
		AuthMiddleware: am,
		Limiter:        limiter,
	}
}

// NewRouter gin com log de pedidos, recuperação de pânicos em JSON e CORS
func NewRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestLogger(),
		gin.CustomRecovery(handler.Recovery),
		cors.New(corsConfig(cfg.CORSOrigins)),
	)
	return r
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	c.ExposeHeaders = []string{middleware.RequestIDHeader}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

// RegisterRoutes rotas públicas, swagger e API
func (a *Application) RegisterRoutes() {
	a.Handler.RegisterRoutes(a.Router)
	a.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	a.APIHandler.RegisterAPIRoutes(a.Router, a.AuthMiddleware, a.Limiter)
}

// RunApp serve até o contexto ser cancelado e depois encerra com prazo
func (a *Application) RunApp(ctx context.Context) error {
	logrus.Info("Server start up")

	a.RegisterRoutes()

	serverAddress := fmt.Sprintf("%s:%d", a.Config.ServiceHost, a.Config.ServicePort)
	srv := &http.Server{
		Addr:              serverAddress,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("Starting server on %s", serverAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logrus.Info("Server down")
	return nil
}
