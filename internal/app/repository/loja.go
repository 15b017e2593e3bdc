package repository

import (
	"context"

	"vidros-backend/internal/app/apperr"
	"vidros-backend/internal/app/ds"

	"gorm.io/gorm"
)

// LojaPatch campos a nil mantêm o valor atual
type LojaPatch struct {
	Name    *string
	Address *string
	Phone   *string
	Email   *string
	Active  *bool
}

func (p LojaPatch) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Address != nil {
		cols["address"] = *p.Address
	}
	if p.Phone != nil {
		cols["phone"] = *p.Phone
	}
	if p.Email != nil {
		cols["email"] = *p.Email
	}
	if p.Active != nil {
		cols["active"] = *p.Active
	}
	return cols
}

func (r *Repository) ListLojas(ctx context.Context) ([]ds.Loja, error) {
	var lojas []ds.Loja
	err := r.db.WithContext(ctx).Order("name ASC").Find(&lojas).Error
	if err != nil {
		return nil, apperr.Internal("Erro ao listar lojas", err)
	}
	return lojas, nil
}

func (r *Repository) GetLoja(ctx context.Context, id uint) (*ds.Loja, error) {
	var loja ds.Loja
	err := r.db.WithContext(ctx).First(&loja, id).Error
	if isNotFound(err) {
		return nil, apperr.NotFound("Loja não encontrada")
	}
	if err != nil {
		return nil, apperr.Internal("Erro ao obter loja", err)
	}
	return &loja, nil
}

func (r *Repository) CreateLoja(ctx context.Context, loja *ds.Loja) error {
	loja.Active = true
	err := r.db.WithContext(ctx).Create(loja).Error
	if err != nil {
		return apperr.Internal("Erro ao criar loja", err)
	}
	return nil
}

func (r *Repository) UpdateLoja(ctx context.Context, id uint, patch LojaPatch) (*ds.Loja, error) {
	cols := patch.columns()
	if len(cols) > 0 {
		res := r.db.WithContext(ctx).Model(&ds.Loja{}).Where("id = ?", id).Updates(cols)
		if res.Error != nil {
			return nil, apperr.Internal("Erro ao atualizar loja", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, apperr.NotFound("Loja não encontrada")
		}
	}
	return r.GetLoja(ctx, id)
}

// DeleteLoja recusa apagar lojas com utilizadores associados
func (r *Repository) DeleteLoja(ctx context.Context, id uint) error {
	var users int64
	err := r.db.WithContext(ctx).Model(&ds.User{}).Where("loja_id = ?", id).Count(&users).Error
	if err != nil {
		return apperr.Internal("Erro ao eliminar loja", err)
	}
	if users > 0 {
		return apperr.Conflict("Não é possível eliminar loja com utilizadores associados")
	}

	res := r.db.WithContext(ctx).Delete(&ds.Loja{}, id)
	if res.Error != nil {
		return apperr.Internal("Erro ao eliminar loja", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Loja não encontrada")
	}
	return nil
}

// ResetLojaPedidos apaga todos os pedidos da loja com fotos e updates numa só transação
func (r *Repository) ResetLojaPedidos(ctx context.Context, id uint) (*ds.Loja, int64, error) {
	loja, err := r.GetLoja(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	var deleted int64
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&ds.Pedido{}).Where("loja_id = ?", id).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		if err := tx.Where("pedido_id IN ?", ids).Delete(&ds.PedidoFoto{}).Error; err != nil {
			return err
		}
		if err := tx.Where("pedido_id IN ?", ids).Delete(&ds.PedidoUpdate{}).Error; err != nil {
			return err
		}

		res := tx.Where("id IN ?", ids).Delete(&ds.Pedido{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return nil, 0, apperr.Internal("Erro ao fazer reset de pedidos da loja", err)
	}

	return loja, deleted, nil
}
