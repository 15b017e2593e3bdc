package repository

import (
	"context"
	"time"

	"vidros-backend/internal/app/apperr"
	"vidros-backend/internal/app/ds"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PedidoFilter predicados opcionais da listagem; Scope restringe sempre primeiro
type PedidoFilter struct {
	Scope    ds.Scope
	LojaID   *uint
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time
}

// PedidoRow linha da listagem com dados agregados
type PedidoRow struct {
	ds.Pedido
	LojaName          string
	UserName          string
	TotalFotos        int64
	TotalUpdates      int64
	UltimaAtualizacao *time.Time
}

// PedidoDetail pedido com os contactos da loja
type PedidoDetail struct {
	ds.Pedido
	LojaName  string
	LojaEmail *string
	LojaPhone *string
	UserName  string
}

// UpdateRow update com o autor
type UpdateRow struct {
	ds.PedidoUpdate
	UserName string
	UserRole string
}

// UpdateQuery visibilidade e ordenação dos updates de um pedido.
// OnlyVisible limita a visivel_loja = true; AuthorID alarga a mensagens próprias.
type UpdateQuery struct {
	OnlyVisible bool
	AuthorID    *uint
	Desc        bool
}

// PedidoPatch campos a nil não são alterados
type PedidoPatch struct {
	Status          *string
	Valor           *decimal.Decimal
	Custo           *decimal.Decimal
	Fornecedor      *string
	Notas           *string
	Disponibilidade *string
}

func (p PedidoPatch) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	if p.Valor != nil {
		cols["valor"] = *p.Valor
	}
	if p.Custo != nil {
		cols["custo"] = *p.Custo
	}
	if p.Fornecedor != nil {
		cols["fornecedor"] = *p.Fornecedor
	}
	if p.Notas != nil {
		cols["notas"] = *p.Notas
	}
	if p.Disponibilidade != nil {
		cols["disponibilidade"] = *p.Disponibilidade
	}
	return cols
}

// Empty nenhum campo para atualizar
func (p PedidoPatch) Empty() bool {
	return len(p.columns()) == 0
}

const pedidoListSelect = `p.*,
	l.name AS loja_name,
	u.name AS user_name,
	(SELECT COUNT(*) FROM pedido_fotos f WHERE f.pedido_id = p.id) AS total_fotos,
	(SELECT COUNT(*) FROM pedido_updates pu WHERE pu.pedido_id = p.id) AS total_updates,
	(SELECT MAX(pu.created_at) FROM pedido_updates pu WHERE pu.pedido_id = p.id) AS ultima_atualizacao`

func scoped(q *gorm.DB, column string, scope ds.Scope) *gorm.DB {
	if scope.Restricted {
		return q.Where(column+" = ?", scope.LojaID)
	}
	return q
}

func (r *Repository) ListPedidos(ctx context.Context, f PedidoFilter) ([]PedidoRow, error) {
	q := r.db.WithContext(ctx).
		Table("pedidos AS p").
		Select(pedidoListSelect).
		Joins("JOIN lojas l ON p.loja_id = l.id").
		Joins("JOIN users u ON p.user_id = u.id")

	q = scoped(q, "p.loja_id", f.Scope)
	if !f.Scope.Restricted && f.LojaID != nil {
		q = q.Where("p.loja_id = ?", *f.LojaID)
	}
	if f.Status != "" {
		q = q.Where("p.status = ?", f.Status)
	}
	if f.DateFrom != nil {
		q = q.Where("p.created_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("p.created_at <= ?", *f.DateTo)
	}

	var rows []PedidoRow
	err := q.Order("p.created_at DESC").Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal("Erro ao listar pedidos", err)
	}
	return rows, nil
}

func (r *Repository) GetPedidoDetail(ctx context.Context, id uint, scope ds.Scope) (*PedidoDetail, error) {
	q := r.db.WithContext(ctx).
		Table("pedidos AS p").
		Select(`p.*, l.name AS loja_name, l.email AS loja_email, l.phone AS loja_phone, u.name AS user_name`).
		Joins("JOIN lojas l ON p.loja_id = l.id").
		Joins("JOIN users u ON p.user_id = u.id").
		Where("p.id = ?", id)
	q = scoped(q, "p.loja_id", scope)

	var rows []PedidoDetail
	err := q.Limit(1).Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal("Erro ao obter pedido", err)
	}
	if len(rows) == 0 {
		return nil, apperr.NotFound("Pedido não encontrado")
	}
	return &rows[0], nil
}

// ListFotos fotos por ordem de criação
func (r *Repository) ListFotos(ctx context.Context, pedidoID uint) ([]ds.PedidoFoto, error) {
	var fotos []ds.PedidoFoto
	err := r.db.WithContext(ctx).Where("pedido_id = ?", pedidoID).Order("created_at ASC").Find(&fotos).Error
	if err != nil {
		return nil, apperr.Internal("Erro ao obter fotos", err)
	}
	return fotos, nil
}

func (r *Repository) ListUpdates(ctx context.Context, pedidoID uint, uq UpdateQuery) ([]UpdateRow, error) {
	q := r.db.WithContext(ctx).
		Table("pedido_updates AS pu").
		Select("pu.*, u.name AS user_name, u.role AS user_role").
		Joins("JOIN users u ON pu.user_id = u.id").
		Where("pu.pedido_id = ?", pedidoID)

	switch {
	case uq.OnlyVisible && uq.AuthorID != nil:
		q = q.Where("(pu.visivel_loja = ? OR pu.user_id = ?)", true, *uq.AuthorID)
	case uq.OnlyVisible:
		q = q.Where("pu.visivel_loja = ?", true)
	}

	if uq.Desc {
		q = q.Order("pu.created_at DESC")
	} else {
		q = q.Order("pu.created_at ASC")
	}

	var rows []UpdateRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, apperr.Internal("Erro ao obter updates", err)
	}
	return rows, nil
}

// MarkViewed carimba a coluna de última visualização; a última escrita ganha
func (r *Repository) MarkViewed(ctx context.Context, id uint, column string, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&ds.Pedido{}).Where("id = ?", id).UpdateColumn(column, at).Error
	if err != nil {
		return apperr.Internal("Erro ao registar visualização", err)
	}
	return nil
}

// CreatePedido insere o pedido e as fotos numa transação: ou tudo ou nada
func (r *Repository) CreatePedido(ctx context.Context, p *ds.Pedido, fotoURLs []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Loja", "User").Create(p).Error; err != nil {
			return err
		}
		if len(fotoURLs) == 0 {
			return nil
		}

		fotos := make([]ds.PedidoFoto, len(fotoURLs))
		for i, url := range fotoURLs {
			fotos[i] = ds.PedidoFoto{PedidoID: p.ID, FotoURL: url}
		}
		return tx.Omit("Pedido").Create(&fotos).Error
	})
	if err != nil {
		return apperr.Internal("Erro ao criar pedido", err)
	}
	return nil
}

func (r *Repository) getPedido(ctx context.Context, id uint) (*ds.Pedido, error) {
	var p ds.Pedido
	err := r.db.WithContext(ctx).First(&p, id).Error
	if isNotFound(err) {
		return nil, apperr.NotFound("Pedido não encontrado")
	}
	if err != nil {
		return nil, apperr.Internal("Erro ao obter pedido", err)
	}
	return &p, nil
}

// UpdatePedido aceita qualquer status: não há máquina de estados
func (r *Repository) UpdatePedido(ctx context.Context, id uint, patch PedidoPatch) (*ds.Pedido, error) {
	cols := patch.columns()
	if len(cols) == 0 {
		return nil, apperr.Validation("Nenhum campo para atualizar")
	}

	res := r.db.WithContext(ctx).Model(&ds.Pedido{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return nil, apperr.Internal("Erro ao atualizar pedido", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("Pedido não encontrado")
	}
	return r.getPedido(ctx, id)
}

// CheckPedidoScope NotFound se o pedido não existe ou pertence a outra loja
func (r *Repository) CheckPedidoScope(ctx context.Context, id uint, scope ds.Scope) error {
	var count int64
	q := r.db.WithContext(ctx).Model(&ds.Pedido{}).Where("id = ?", id)
	q = scoped(q, "loja_id", scope)
	if err := q.Count(&count).Error; err != nil {
		return apperr.Internal("Erro ao verificar pedido", err)
	}
	if count == 0 {
		return apperr.NotFound("Pedido não encontrado")
	}
	return nil
}

func (r *Repository) AddFoto(ctx context.Context, pedidoID uint, url string) (*ds.PedidoFoto, error) {
	foto := ds.PedidoFoto{PedidoID: pedidoID, FotoURL: url}
	err := r.db.WithContext(ctx).Omit("Pedido").Create(&foto).Error
	if err != nil {
		return nil, apperr.Internal("Erro ao adicionar foto", err)
	}
	return &foto, nil
}

func (r *Repository) AddUpdate(ctx context.Context, u *ds.PedidoUpdate) error {
	err := r.db.WithContext(ctx).Omit("Pedido", "User").Create(u).Error
	if err != nil {
		return apperr.Internal("Erro ao adicionar update", err)
	}
	return nil
}

// CancelPedido marca como cancelado sem olhar ao status atual
func (r *Repository) CancelPedido(ctx context.Context, id uint, scope ds.Scope) (*ds.Pedido, error) {
	q := r.db.WithContext(ctx).Model(&ds.Pedido{}).Where("id = ?", id)
	q = scoped(q, "loja_id", scope)

	res := q.Update("status", ds.StatusCancelado)
	if res.Error != nil {
		return nil, apperr.Internal("Erro ao cancelar pedido", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("Pedido não encontrado")
	}
	return r.getPedido(ctx, id)
}
