package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/batches"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/ports"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/settlements"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/wholesale"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/repository"
)

// TxRunner satisface los tres runners de los casos de uso.
var _ batches.TxRunner = (*TxRunner)(nil)
var _ settlements.TxRunner = (*TxRunner)(nil)
var _ wholesale.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	batchRepo repository.BatchRepository,
	trancheRepo repository.TrancheRepository,
	settlementRepo repository.SettlementRepository,
	saleRepo repository.SaleRepository,
	stockPool ports.StockPool,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewBatchRepository(tx),
		NewTrancheRepository(tx),
		NewSettlementRepository(tx),
		NewSaleRepository(tx),
		NewStockPoolAdapter(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunSettlement inicia una transacción con los repos del motor de cuadres.
// Los locks de ListOpenBySellerForUpdate viven hasta el Commit.
func (r *TxRunner) RunSettlement(ctx context.Context, fn func(
	batchRepo repository.BatchRepository,
	trancheRepo repository.TrancheRepository,
	settlementRepo repository.SettlementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewBatchRepository(tx),
		NewTrancheRepository(tx),
		NewSettlementRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunWholesale inicia una transacción con todos los repos del flujo mayorista,
// para que consumo de stock, cierre de cuadres y cuadre mayor confirmen juntos.
func (r *TxRunner) RunWholesale(ctx context.Context, fn func(
	batchRepo repository.BatchRepository,
	trancheRepo repository.TrancheRepository,
	settlementRepo repository.SettlementRepository,
	orderRepo repository.WholesaleOrderRepository,
	wsRepo repository.WholesaleSettlementRepository,
	stockPool ports.StockPool,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewBatchRepository(tx),
		NewTrancheRepository(tx),
		NewSettlementRepository(tx),
		NewWholesaleOrderRepository(tx),
		NewWholesaleSettlementRepository(tx),
		NewStockPoolAdapter(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
