package handler

import (
	"context"
	"time"

	"vidros-backend/internal/app/ds"
	"vidros-backend/internal/app/repository"
)

// UserStore leitura de utilizadores para autenticação
type UserStore interface {
	GetActiveUserByLogin(ctx context.Context, login string) (*ds.User, error)
	GetUserByID(ctx context.Context, id uint) (*ds.User, error)
}

// AdminStore gestão de lojas, utilizadores e estatísticas
type AdminStore interface {
	ListLojas(ctx context.Context) ([]ds.Loja, error)
	CreateLoja(ctx context.Context, loja *ds.Loja) error
	UpdateLoja(ctx context.Context, id uint, patch repository.LojaPatch) (*ds.Loja, error)
	DeleteLoja(ctx context.Context, id uint) error
	ResetLojaPedidos(ctx context.Context, id uint) (*ds.Loja, int64, error)

	ListUsers(ctx context.Context) ([]ds.User, error)
	CreateUser(ctx context.Context, user *ds.User) error
	UpdateUser(ctx context.Context, id uint, patch repository.UserPatch) (*ds.User, error)
	DeleteUser(ctx context.Context, id uint) error
	ResetUserPassword(ctx context.Context, id uint, hash string) (*ds.User, error)

	GetStats(ctx context.Context) (*repository.Stats, error)
}

// PedidoStore ciclo de vida dos pedidos
type PedidoStore interface {
	ListPedidos(ctx context.Context, f repository.PedidoFilter) ([]repository.PedidoRow, error)
	GetPedidoDetail(ctx context.Context, id uint, scope ds.Scope) (*repository.PedidoDetail, error)
	ListFotos(ctx context.Context, pedidoID uint) ([]ds.PedidoFoto, error)
	ListUpdates(ctx context.Context, pedidoID uint, q repository.UpdateQuery) ([]repository.UpdateRow, error)
	MarkViewed(ctx context.Context, id uint, column string, at time.Time) error
	CreatePedido(ctx context.Context, p *ds.Pedido, fotoURLs []string) error
	UpdatePedido(ctx context.Context, id uint, patch repository.PedidoPatch) (*ds.Pedido, error)
	CheckPedidoScope(ctx context.Context, id uint, scope ds.Scope) error
	AddFoto(ctx context.Context, pedidoID uint, url string) (*ds.PedidoFoto, error)
	AddUpdate(ctx context.Context, u *ds.PedidoUpdate) error
	CancelPedido(ctx context.Context, id uint, scope ds.Scope) (*ds.Pedido, error)
}

// PhotoStorage destino dos ficheiros de fotos enviados por multipart
type PhotoStorage interface {
	UploadPhoto(ctx context.Context, data []byte, filename string) (string, error)
}

var (
	_ UserStore   = (*repository.Repository)(nil)
	_ AdminStore  = (*repository.Repository)(nil)
	_ PedidoStore = (*repository.Repository)(nil)
)
