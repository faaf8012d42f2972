package wholesale

import (
	"context"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/ports"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con todos los
// colaboradores que el flujo mayorista toca: el cuadre mayor consume stock,
// cierra cuadres por tanda y persiste su desglose en una sola transacción.
// El pool físico entra atado a la misma tx para que su descuento se revierta
// junto con el resto si la transacción no confirma.
type TxRunner interface {
	RunWholesale(ctx context.Context, fn func(
		batchRepo repository.BatchRepository,
		trancheRepo repository.TrancheRepository,
		settlementRepo repository.SettlementRepository,
		orderRepo repository.WholesaleOrderRepository,
		wsRepo repository.WholesaleSettlementRepository,
		stockPool ports.StockPool,
	) error) error
}
