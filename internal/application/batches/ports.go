package batches

import (
	"context"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/ports"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que las mutaciones de un mismo
// caso de uso se confirman juntas o no se confirman. El pool físico viaja
// atado a la misma tx: si la activación de un lote no confirma, el descuento
// del pool se revierte con ella.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		batchRepo repository.BatchRepository,
		trancheRepo repository.TrancheRepository,
		settlementRepo repository.SettlementRepository,
		saleRepo repository.SaleRepository,
		stockPool ports.StockPool,
	) error) error
}

// SettlementTriggers es el gancho hacia el motor de cuadres que se evalúa
// después de aprobar una venta: dispara el cuadre de la tanda si corresponde
// y recalcula el monto esperado del cuadre activo del vendedor.
type SettlementTriggers interface {
	AfterSaleApproved(ctx context.Context, sellerID, batchID, trancheID string) error
}
