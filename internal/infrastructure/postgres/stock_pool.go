package postgres

import (
	"context"
	"fmt"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/ports"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain"
)

var _ ports.StockPool = (*StockPoolAdapter)(nil)

// StockPoolAdapter administra el pool físico compartido de unidades sobre el
// mismo Querier que los repositorios: dentro de una tx el descuento se
// confirma o revierte junto con el resto de la operación. El descuento es un
// único UPDATE condicional, atómico frente a activaciones concurrentes.
type StockPoolAdapter struct {
	q Querier
}

func NewStockPoolAdapter(q Querier) *StockPoolAdapter {
	return &StockPoolAdapter{q: q}
}

func (a *StockPoolAdapter) Deduct(units int) error {
	tag, err := a.q.Exec(context.Background(), `
		UPDATE stock_pool SET available = available - $1
		WHERE id = 1 AND available >= $1`, units)
	if err != nil {
		return fmt.Errorf("deduct stock pool: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var available int
		if err := a.q.QueryRow(context.Background(),
			`SELECT available FROM stock_pool WHERE id = 1`).Scan(&available); err != nil {
			return fmt.Errorf("read stock pool: %w", err)
		}
		return &domain.StockError{TrancheID: "stock_pool", Available: available, Requested: units}
	}
	return nil
}
