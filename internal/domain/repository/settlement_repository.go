package repository

import "github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"

// SettlementRepository define el puerto de persistencia para cuadres.
type SettlementRepository interface {
	Create(s *entity.Settlement) error
	GetByID(id string) (*entity.Settlement, error)
	GetByTranche(trancheID string) (*entity.Settlement, error)
	ListByBatch(batchID string) ([]*entity.Settlement, error)
	// ListOpenBySellerForUpdate devuelve los cuadres no terminales del
	// vendedor bloqueando las filas (SELECT FOR UPDATE). Serializa por
	// vendedor la selección del cuadre activo y la activación de disparos,
	// sosteniendo el invariante de un solo PENDING por vendedor.
	ListOpenBySellerForUpdate(sellerID string) ([]*entity.Settlement, error)
	// ListPendingByTranches devuelve los cuadres PENDING de las tandas dadas.
	ListPendingByTranches(trancheIDs []string) ([]*entity.Settlement, error)
	// Update es condicional por versión (lock optimista).
	Update(s *entity.Settlement) error
}

// SaleRepository define el puerto de persistencia para ventas al detalle.
type SaleRepository interface {
	Create(s *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	Update(s *entity.Sale) error
	Delete(id string) error
}
