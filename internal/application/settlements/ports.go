package settlements

import (
	"context"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios que el motor de cuadres necesita. La serialización por
// vendedor se logra bloqueando sus cuadres abiertos dentro de la tx
// (ListOpenBySellerForUpdate).
type TxRunner interface {
	RunSettlement(ctx context.Context, fn func(
		batchRepo repository.BatchRepository,
		trancheRepo repository.TrancheRepository,
		settlementRepo repository.SettlementRepository,
	) error) error
}
