package repository

import (
	"context"

	"vidros-backend/internal/app/apperr"
	"vidros-backend/internal/app/ds"
)

// UserPatch campos a nil mantêm o valor atual; Email vazio limpa o email
type UserPatch struct {
	Username     *string
	Email        *string
	PasswordHash *string
	Name         *string
	Role         *string
	LojaID       *uint
	Active       *bool
}

func (p UserPatch) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.Username != nil {
		cols["username"] = *p.Username
	}
	if p.Email != nil {
		if *p.Email == "" {
			cols["email"] = nil
		} else {
			cols["email"] = *p.Email
		}
	}
	if p.PasswordHash != nil {
		cols["password_hash"] = *p.PasswordHash
	}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Role != nil {
		cols["role"] = *p.Role
	}
	if p.LojaID != nil {
		cols["loja_id"] = *p.LojaID
	}
	if p.Active != nil {
		cols["active"] = *p.Active
	}
	return cols
}

// ListUsers utilizadores com a loja carregada, por nome
func (r *Repository) ListUsers(ctx context.Context) ([]ds.User, error) {
	var users []ds.User
	err := r.db.WithContext(ctx).Preload("Loja").Order("name ASC").Find(&users).Error
	if err != nil {
		return nil, apperr.Internal("Erro ao listar utilizadores", err)
	}
	return users, nil
}

func (r *Repository) GetUserByID(ctx context.Context, id uint) (*ds.User, error) {
	var user ds.User
	err := r.db.WithContext(ctx).Preload("Loja").First(&user, id).Error
	if isNotFound(err) {
		return nil, apperr.NotFound("Utilizador não encontrado")
	}
	if err != nil {
		return nil, apperr.Internal("Erro ao obter dados do utilizador", err)
	}
	return &user, nil
}

// GetActiveUserByLogin procura um utilizador ativo por email ou username
func (r *Repository) GetActiveUserByLogin(ctx context.Context, login string) (*ds.User, error) {
	var user ds.User
	err := r.db.WithContext(ctx).Preload("Loja").
		Where("(email = ? OR username = ?) AND active = ?", login, login, true).
		First(&user).Error
	if isNotFound(err) {
		return nil, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, apperr.Internal("Erro ao fazer login", err)
	}
	return &user, nil
}

func (r *Repository) CreateUser(ctx context.Context, user *ds.User) error {
	user.Active = true
	err := r.db.WithContext(ctx).Omit("Loja").Create(user).Error
	if err != nil {
		return translateUserWriteError(err, "Erro ao criar utilizador")
	}
	return nil
}

func (r *Repository) UpdateUser(ctx context.Context, id uint, patch UserPatch) (*ds.User, error) {
	cols := patch.columns()
	if len(cols) > 0 {
		res := r.db.WithContext(ctx).Model(&ds.User{}).Where("id = ?", id).Updates(cols)
		if res.Error != nil {
			return nil, translateUserWriteError(res.Error, "Erro ao atualizar utilizador")
		}
		if res.RowsAffected == 0 {
			return nil, apperr.NotFound("Utilizador não encontrado")
		}
	}
	return r.GetUserByID(ctx, id)
}

func (r *Repository) DeleteUser(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&ds.User{}, id)
	if res.Error != nil {
		return apperr.Internal("Erro ao eliminar utilizador", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Utilizador não encontrado")
	}
	return nil
}

// ResetUserPassword grava o hash na coluna "password", não em "password_hash" que o login lê.
// Discrepância herdada do sistema em produção, mantida até o dono do sistema decidir.
func (r *Repository) ResetUserPassword(ctx context.Context, id uint, hash string) (*ds.User, error) {
	res := r.db.WithContext(ctx).Model(&ds.User{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return nil, apperr.Internal("Erro ao repor password", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("Utilizador não encontrado")
	}
	return r.GetUserByID(ctx, id)
}
