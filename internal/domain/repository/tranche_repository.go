package repository

import (
	"time"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"
)

// TrancheRepository define el puerto de persistencia para tandas.
type TrancheRepository interface {
	Create(t *entity.Tranche) error
	GetByID(id string) (*entity.Tranche, error)
	// ListByBatch devuelve las tandas del lote en orden ascendente de número.
	ListByBatch(batchID string) ([]*entity.Tranche, error)
	// ListReleasedBefore devuelve las tandas RELEASED liberadas antes del
	// instante dado (para el barrido de auto-tránsito).
	ListReleasedBefore(cutoff time.Time) ([]*entity.Tranche, error)
	// Update es condicional por versión (lock optimista).
	Update(t *entity.Tranche) error
	// DecrementStock descuenta unidades en un único UPDATE condicional por
	// (id, version) y stock suficiente, de modo que dos ventas concurrentes no
	// puedan dejar el stock en negativo. Devuelve la tanda actualizada.
	DecrementStock(id string, version int64, units int) (*entity.Tranche, error)
	// RestoreStock devuelve unidades tras el rechazo de una venta, sin superar
	// el stock inicial.
	RestoreStock(id string, units int) (*entity.Tranche, error)
	// ConsumeWholesale descuenta unidades y acumula el contador de consumo
	// mayorista en el mismo UPDATE condicional por (id, version).
	ConsumeWholesale(id string, version int64, units int) (*entity.Tranche, error)
}
