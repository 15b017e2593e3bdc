package repository

import (
	"context"

	"vidros-backend/internal/app/apperr"
	"vidros-backend/internal/app/ds"

	"golang.org/x/sync/errgroup"
)

type StatusCount struct {
	Status string
	Count  int64
}

type Stats struct {
	TotalLojas       int64
	TotalUsers       int64
	TotalPedidos     int64
	PedidosPorStatus []StatusCount
}

// GetStats as quatro contagens correm em paralelo sobre o pool
func (r *Repository) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&ds.Loja{}).Where("active = ?", true).Count(&stats.TotalLojas).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&ds.User{}).Where("active = ?", true).Count(&stats.TotalUsers).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&ds.Pedido{}).Count(&stats.TotalPedidos).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&ds.Pedido{}).
			Select("status, COUNT(*) AS count").
			Group("status").
			Order("status").
			Scan(&stats.PedidosPorStatus).Error
	})

	if err := g.Wait(); err != nil {
		return nil, apperr.Internal("Erro ao obter estatísticas", err)
	}
	return stats, nil
}
