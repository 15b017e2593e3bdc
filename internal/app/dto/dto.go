package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============ Estruturas comuns ============

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type StatusResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// ============ Autenticação ============

// LoginRequest email aceita também o username
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserInfo struct {
	ID       uint    `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email"`
	Name     string  `json:"name"`
	Role     string  `json:"role"`
	LojaID   *uint   `json:"loja_id"`
	LojaName *string `json:"loja_name"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// ============ Lojas ============

type LojaResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Address   *string   `json:"address"`
	Phone     *string   `json:"phone"`
	Email     *string   `json:"email"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateLojaRequest struct {
	Name    string  `json:"name" binding:"required"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
}

// UpdateLojaRequest campos omitidos mantêm o valor atual
type UpdateLojaRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Active  *bool   `json:"active"`
}

type ResetPedidosResponse struct {
	Message           string `json:"message"`
	LojaID            uint   `json:"loja_id"`
	LojaName          string `json:"loja_name"`
	PedidosEliminados int64  `json:"pedidos_eliminados"`
}

// ============ Utilizadores ============

type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     *string   `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	LojaID    *uint     `json:"loja_id"`
	LojaName  *string   `json:"loja_name,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateUserRequest struct {
	Username string  `json:"username" binding:"required"`
	Email    *string `json:"email"`
	Password string  `json:"password" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Role     string  `json:"role" binding:"required"`
	LojaID   *uint   `json:"loja_id"`
}

// UpdateUserRequest password só é alterada quando enviada
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	LojaID   *uint   `json:"loja_id"`
	Active   *bool   `json:"active"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type UserSummary struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Email *string `json:"email"`
	Role  string  `json:"role"`
}

type ResetPasswordResponse struct {
	Message string      `json:"message"`
	User    UserSummary `json:"user"`
}

// ============ Estatísticas ============

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type StatsResponse struct {
	TotalLojas       int64         `json:"total_lojas"`
	TotalUsers       int64         `json:"total_users"`
	TotalPedidos     int64         `json:"total_pedidos"`
	PedidosPorStatus []StatusCount `json:"pedidos_por_status"`
}

// ============ Pedidos ============

type PedidoResponse struct {
	ID                     uint             `json:"id"`
	LojaID                 uint             `json:"loja_id"`
	UserID                 uint             `json:"user_id"`
	Matricula              string           `json:"matricula"`
	MarcaCarro             string           `json:"marca_carro"`
	ModeloCarro            string           `json:"modelo_carro"`
	AnoCarro               *string          `json:"ano_carro"`
	TipoVidro              string           `json:"tipo_vidro"`
	Descricao              *string          `json:"descricao"`
	Status                 string           `json:"status"`
	Valor                  *decimal.Decimal `json:"valor" swaggertype:"string"`
	Custo                  *decimal.Decimal `json:"custo" swaggertype:"string"`
	Fornecedor             *string          `json:"fornecedor"`
	Notas                  *string          `json:"notas"`
	Disponibilidade        *string          `json:"disponibilidade"`
	UltimaVisualizacaoLoja *time.Time       `json:"ultima_visualizacao_loja"`
	UltimaVisualizacaoDept *time.Time       `json:"ultima_visualizacao_dept"`
	CreatedAt              time.Time        `json:"created_at"`
}

type PedidoListItem struct {
	PedidoResponse
	LojaName          string     `json:"loja_name"`
	UserName          string     `json:"user_name"`
	TotalFotos        int64      `json:"total_fotos"`
	TotalUpdates      int64      `json:"total_updates"`
	UltimaAtualizacao *time.Time `json:"ultima_atualizacao"`
	HasNewActivity    bool       `json:"has_new_activity"`
}

type FotoResponse struct {
	ID        uint      `json:"id"`
	PedidoID  uint      `json:"pedido_id"`
	FotoURL   string    `json:"foto_url"`
	CreatedAt time.Time `json:"created_at"`
}

type UpdateResponse struct {
	ID          uint      `json:"id"`
	PedidoID    uint      `json:"pedido_id"`
	UserID      uint      `json:"user_id"`
	Tipo        string    `json:"tipo"`
	Conteudo    string    `json:"conteudo"`
	VisivelLoja bool      `json:"visivel_loja"`
	CreatedAt   time.Time `json:"created_at"`
	UserName    string    `json:"user_name,omitempty"`
	UserRole    string    `json:"user_role,omitempty"`
}

type PedidoDetailResponse struct {
	PedidoResponse
	LojaName  string           `json:"loja_name"`
	LojaEmail *string          `json:"loja_email"`
	LojaPhone *string          `json:"loja_phone"`
	UserName  string           `json:"user_name"`
	Fotos     []FotoResponse   `json:"fotos"`
	Updates   []UpdateResponse `json:"updates"`
}

type CreatePedidoRequest struct {
	Matricula   string   `json:"matricula" binding:"required"`
	MarcaCarro  string   `json:"marca_carro" binding:"required"`
	ModeloCarro string   `json:"modelo_carro" binding:"required"`
	AnoCarro    *string  `json:"ano_carro"`
	TipoVidro   string   `json:"tipo_vidro" binding:"required"`
	Descricao   *string  `json:"descricao"`
	Fotos       []string `json:"fotos"`
}

// UpdatePedidoRequest qualquer status é aceite
type UpdatePedidoRequest struct {
	Status          *string          `json:"status"`
	Valor           *decimal.Decimal `json:"valor" swaggertype:"number"`
	Custo           *decimal.Decimal `json:"custo" swaggertype:"number"`
	Fornecedor      *string          `json:"fornecedor"`
	Notas           *string          `json:"notas"`
	Disponibilidade *string          `json:"disponibilidade"`
}

type AddFotoRequest struct {
	FotoURL string `json:"foto_url" form:"foto_url"`
}

// AddUpdateRequest visivel_loja omitido conta como true
type AddUpdateRequest struct {
	Mensagem    string `json:"mensagem"`
	VisivelLoja *bool  `json:"visivel_loja"`
}

type CancelPedidoResponse struct {
	Message string         `json:"message"`
	Pedido  PedidoResponse `json:"pedido"`
}
