package handler

import "time"

// APIHandler contém os handlers REST autenticados
type APIHandler struct {
	Admin       AdminStore
	Pedidos     PedidoStore
	Photos      PhotoStorage // nil quando o MinIO não está configurado
	AuthHandler *AuthHandler

	now func() time.Time
}

func NewAPIHandler(admin AdminStore, pedidos PedidoStore, photos PhotoStorage, authHandler *AuthHandler) *APIHandler {
	return &APIHandler{
		Admin:       admin,
		Pedidos:     pedidos,
		Photos:      photos,
		AuthHandler: authHandler,
		now:         time.Now,
	}
}
