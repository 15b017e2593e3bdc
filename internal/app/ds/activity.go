package ds

import (
	"time"

	"vidros-backend/internal/app/role"
)

// HasNewActivity indica se o pedido tem atualizações que o papel ainda não viu.
// Pedidos cancelados ou concluídos nunca piscam.
func HasNewActivity(status string, lastUpdate, lastViewed *time.Time) bool {
	if status == StatusCancelado || status == StatusConcluido {
		return false
	}
	if lastUpdate == nil {
		return false
	}
	if lastViewed == nil {
		return true
	}
	return lastUpdate.After(*lastViewed)
}

// NewActivityFor aplica HasNewActivity com a última visualização do papel.
// Papéis desconhecidos nunca veem atividade nova.
func (p *Pedido) NewActivityFor(r role.Role, lastUpdate *time.Time) bool {
	switch {
	case r == role.Loja:
		return HasNewActivity(p.Status, lastUpdate, p.UltimaVisualizacaoLoja)
	case r.BackOffice():
		return HasNewActivity(p.Status, lastUpdate, p.UltimaVisualizacaoDept)
	}
	return false
}

// ViewColumn coluna de última visualização carimbada pelo papel
func ViewColumn(r role.Role) (string, bool) {
	switch {
	case r == role.Loja:
		return "ultima_visualizacao_loja", true
	case r.BackOffice():
		return "ultima_visualizacao_dept", true
	}
	return "", false
}
