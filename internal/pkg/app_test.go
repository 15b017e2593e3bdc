package pkg

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vidros-backend/internal/app/config"
	"vidros-backend/internal/app/handler"
	"vidros-backend/internal/app/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

func newTestApp(origins []string, limiter middleware.Limiter) *Application {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		CORSOrigins: origins,
		JWT: config.JWTConfig{
			Token:         "segredo-de-teste",
			ExpiresIn:     time.Hour,
			SigningMethod: jwt.SigningMethodHS256,
		},
	}
	authHandler := handler.NewAuthHandler(nil, cfg)
	app := NewApp(
		cfg,
		NewRouter(cfg),
		handler.NewHandler(),
		handler.NewAPIHandler(nil, nil, nil, authHandler),
		middleware.NewAuthMiddleware(cfg),
		limiter,
	)
	app.RegisterRoutes()
	return app
}

func serve(app *Application, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	return w
}

func TestCORSAllowAll(t *testing.T) {
	app := newTestApp([]string{"*"}, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/pedidos", nil)
	req.Header.Set("Origin", "http://portal.vidros.pt")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := serve(app, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestCORSRestrictedOrigins(t *testing.T) {
	app := newTestApp([]string{"http://portal.vidros.pt"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://portal.vidros.pt")
	w := serve(app, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://portal.vidros.pt" {
		t.Errorf("origem permitida: Access-Control-Allow-Origin = %q", got)
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("origens explícitas enviam credenciais")
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://outro.pt")
	w = serve(app, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("origem desconhecida não deve ser aceite")
	}
}

func TestRateLimitOnAPI(t *testing.T) {
	app := newTestApp(nil, middleware.NewMemoryLimiter(2, time.Minute))

	for i := 0; i < 2; i++ {
		w := serve(app, httptest.NewRequest(http.MethodGet, "/api/pedidos", nil))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("pedido %d = %d", i+1, w.Code)
		}
	}
	w := serve(app, httptest.NewRequest(http.MethodGet, "/api/pedidos", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("terceiro pedido = %d, esperado 429", w.Code)
	}

	// rotas fora de /api não contam
	if w = serve(app, httptest.NewRequest(http.MethodGet, "/health", nil)); w.Code != http.StatusOK {
		t.Errorf("/health = %d", w.Code)
	}
}

func TestRequestIDAndRecovery(t *testing.T) {
	app := newTestApp(nil, nil)
	app.Router.GET("/panico", func(*gin.Context) { panic("boom") })

	w := serve(app, httptest.NewRequest(http.MethodGet, "/panico", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("pânico = %d", w.Code)
	}
	if w.Body.String() != `{"error":"Erro interno do servidor"}` {
		t.Errorf("corpo = %s", w.Body.String())
	}
	if w.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("resposta sem X-Request-ID")
	}
}

func TestSwaggerUI(t *testing.T) {
	app := newTestApp(nil, nil)

	w := serve(app, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	if w.Code != http.StatusOK {
		t.Errorf("/swagger/index.html = %d", w.Code)
	}
}
