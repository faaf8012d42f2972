package batches

import (
	"context"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/ports"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/repository"
)

// GetBatch devuelve el lote con sus tandas ordenadas por número.
func (uc *LifecycleUseCase) GetBatch(ctx context.Context, batchID string) (*entity.Batch, []*entity.Tranche, error) {
	var (
		batch    *entity.Batch
		tranches []*entity.Tranche
	)
	err := uc.txRunner.Run(ctx, func(
		batchRepo repository.BatchRepository,
		trancheRepo repository.TrancheRepository,
		_ repository.SettlementRepository,
		_ repository.SaleRepository,
		_ ports.StockPool,
	) error {
		var err error
		if batch, err = batchRepo.GetByID(batchID); err != nil {
			return err
		}
		tranches, err = trancheRepo.ListByBatch(batchID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return batch, tranches, nil
}

// ListActiveBySeller devuelve los lotes ACTIVE del vendedor, el más antiguo primero.
func (uc *LifecycleUseCase) ListActiveBySeller(ctx context.Context, sellerID string) ([]*entity.Batch, error) {
	var batches []*entity.Batch
	err := uc.txRunner.Run(ctx, func(
		batchRepo repository.BatchRepository,
		_ repository.TrancheRepository,
		_ repository.SettlementRepository,
		_ repository.SaleRepository,
		_ ports.StockPool,
	) error {
		var err error
		batches, err = batchRepo.ListActiveBySeller(sellerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return batches, nil
}
