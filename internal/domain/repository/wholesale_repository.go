package repository

import (
	"time"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"
)

// WholesaleOrderRepository define el puerto de persistencia para pedidos
// mayoristas, incluidas sus fuentes de stock.
type WholesaleOrderRepository interface {
	Create(o *entity.WholesaleOrder) error
	GetByID(id string) (*entity.WholesaleOrder, error)
	Update(o *entity.WholesaleOrder) error
}

// WholesaleSettlementRepository define el puerto de persistencia para cuadres
// mayores, su desglose por fuente y los pagos a reclutadores.
type WholesaleSettlementRepository interface {
	Create(ws *entity.WholesaleSettlement) error
	GetByID(id string) (*entity.WholesaleSettlement, error)
	// MarkPayoutTransferred marca un pago a reclutador como transferido.
	MarkPayoutTransferred(payoutID string, at time.Time) error
}
