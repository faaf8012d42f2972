package wholesale

import (
	"context"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/ports"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/repository"
)

// GetOrder devuelve un pedido mayorista con sus fuentes de stock.
func (uc *UseCase) GetOrder(ctx context.Context, orderID string) (*entity.WholesaleOrder, error) {
	var order *entity.WholesaleOrder
	err := uc.txRunner.RunWholesale(ctx, func(
		_ repository.BatchRepository,
		_ repository.TrancheRepository,
		_ repository.SettlementRepository,
		orderRepo repository.WholesaleOrderRepository,
		_ repository.WholesaleSettlementRepository,
		_ ports.StockPool,
	) error {
		var err error
		order, err = orderRepo.GetByID(orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetSettlement devuelve un cuadre mayor con desglose y pagos.
func (uc *UseCase) GetSettlement(ctx context.Context, settlementID string) (*entity.WholesaleSettlement, error) {
	var ws *entity.WholesaleSettlement
	err := uc.txRunner.RunWholesale(ctx, func(
		_ repository.BatchRepository,
		_ repository.TrancheRepository,
		_ repository.SettlementRepository,
		_ repository.WholesaleOrderRepository,
		wsRepo repository.WholesaleSettlementRepository,
		_ ports.StockPool,
	) error {
		var err error
		ws, err = wsRepo.GetByID(settlementID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ws, nil
}
