package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"vidros-backend/internal/app/config"
	"vidros-backend/internal/app/ds"
	"vidros-backend/internal/app/dto"
	"vidros-backend/internal/app/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

type testServer struct {
	router *gin.Engine
	store  *memStore
	photos *fakePhotos
	auth   *AuthHandler
	api    *APIHandler
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Token:         "segredo-de-teste",
			ExpiresIn:     24 * time.Hour,
			SigningMethod: jwt.SigningMethodHS256,
		},
	}
}

// newTestServer router completo sobre o store em memória; o relógio do handler é o do store
func newTestServer(t *testing.T, withPhotos bool) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	store := newMemStore()
	srv := &testServer{store: store, auth: NewAuthHandler(store, cfg)}

	var photos PhotoStorage
	if withPhotos {
		srv.photos = &fakePhotos{}
		photos = srv.photos
	}
	srv.api = NewAPIHandler(store, store, photos, srv.auth)
	srv.api.now = store.tick

	r := gin.New()
	r.Use(gin.CustomRecovery(Recovery))
	NewHandler().RegisterRoutes(r)
	srv.api.RegisterAPIRoutes(r, middleware.NewAuthMiddleware(cfg), nil)
	srv.router = r
	return srv
}

func (s *testServer) token(t *testing.T, u *ds.User) string {
	t.Helper()
	token, err := s.auth.signToken(u)
	if err != nil {
		t.Fatalf("signToken: %v", err)
	}
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			if err != nil {
				t.Fatal(err)
			}
			reader = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("resposta não é JSON válido: %v (%s)", err, w.Body.String())
	}
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, esperado %d (%s)", w.Code, status, w.Body.String())
	}
	var body struct {
		Error string `json:"error"`
	}
	decode(t, w, &body)
	if message != "" && body.Error != message {
		t.Errorf("error = %q, esperado %q", body.Error, message)
	}
}

func uintPtr(v uint) *uint { return &v }

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// createPedido cria um pedido válido pela API e devolve a resposta
func createPedido(t *testing.T, srv *testServer, token string, fotos []string) dto.PedidoResponse {
	t.Helper()
	w := srv.do(t, http.MethodPost, "/api/pedidos", token, dto.CreatePedidoRequest{
		Matricula:   "AA-00-BB",
		MarcaCarro:  "Renault",
		ModeloCarro: "Clio",
		TipoVidro:   "Para-brisas",
		Fotos:       fotos,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("criar pedido = %d (%s)", w.Code, w.Body.String())
	}
	var p dto.PedidoResponse
	decode(t, w, &p)
	return p
}
