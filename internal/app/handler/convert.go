package handler

import (
	"vidros-backend/internal/app/ds"
	"vidros-backend/internal/app/dto"
	"vidros-backend/internal/app/repository"
	"vidros-backend/internal/app/role"
)

func lojaName(u *ds.User) *string {
	if u.Loja == nil {
		return nil
	}
	return &u.Loja.Name
}

func toUserInfo(u *ds.User) dto.UserInfo {
	return dto.UserInfo{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Name:     u.Name,
		Role:     u.Role,
		LojaID:   u.LojaID,
		LojaName: lojaName(u),
	}
}

func toUserResponse(u *ds.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		LojaID:    u.LojaID,
		LojaName:  lojaName(u),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

func toLojaResponse(l *ds.Loja) dto.LojaResponse {
	return dto.LojaResponse{
		ID:        l.ID,
		Name:      l.Name,
		Address:   l.Address,
		Phone:     l.Phone,
		Email:     l.Email,
		Active:    l.Active,
		CreatedAt: l.CreatedAt,
	}
}

func toPedidoResponse(p *ds.Pedido) dto.PedidoResponse {
	return dto.PedidoResponse{
		ID:                     p.ID,
		LojaID:                 p.LojaID,
		UserID:                 p.UserID,
		Matricula:              p.Matricula,
		MarcaCarro:             p.MarcaCarro,
		ModeloCarro:            p.ModeloCarro,
		AnoCarro:               p.AnoCarro,
		TipoVidro:              p.TipoVidro,
		Descricao:              p.Descricao,
		Status:                 p.Status,
		Valor:                  p.Valor,
		Custo:                  p.Custo,
		Fornecedor:             p.Fornecedor,
		Notas:                  p.Notas,
		Disponibilidade:        p.Disponibilidade,
		UltimaVisualizacaoLoja: p.UltimaVisualizacaoLoja,
		UltimaVisualizacaoDept: p.UltimaVisualizacaoDept,
		CreatedAt:              p.CreatedAt,
	}
}

func toPedidoListItem(row *repository.PedidoRow, r role.Role) dto.PedidoListItem {
	return dto.PedidoListItem{
		PedidoResponse:    toPedidoResponse(&row.Pedido),
		LojaName:          row.LojaName,
		UserName:          row.UserName,
		TotalFotos:        row.TotalFotos,
		TotalUpdates:      row.TotalUpdates,
		UltimaAtualizacao: row.UltimaAtualizacao,
		HasNewActivity:    row.Pedido.NewActivityFor(r, row.UltimaAtualizacao),
	}
}

func toFotoResponse(f *ds.PedidoFoto) dto.FotoResponse {
	return dto.FotoResponse{
		ID:        f.ID,
		PedidoID:  f.PedidoID,
		FotoURL:   f.FotoURL,
		CreatedAt: f.CreatedAt,
	}
}

func toUpdateResponse(u *ds.PedidoUpdate) dto.UpdateResponse {
	return dto.UpdateResponse{
		ID:          u.ID,
		PedidoID:    u.PedidoID,
		UserID:      u.UserID,
		Tipo:        u.Tipo,
		Conteudo:    u.Conteudo,
		VisivelLoja: u.VisivelLoja,
		CreatedAt:   u.CreatedAt,
	}
}

func toUpdateResponses(rows []repository.UpdateRow) []dto.UpdateResponse {
	out := make([]dto.UpdateResponse, 0, len(rows))
	for i := range rows {
		resp := toUpdateResponse(&rows[i].PedidoUpdate)
		resp.UserName = rows[i].UserName
		resp.UserRole = rows[i].UserRole
		out = append(out, resp)
	}
	return out
}
