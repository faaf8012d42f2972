package repository

import "github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"

// BatchRepository define el puerto de persistencia para lotes.
// Update es condicional por versión: incrementa Version y falla con
// VersionConflict si la versión leída quedó obsoleta.
type BatchRepository interface {
	Create(b *entity.Batch) error
	GetByID(id string) (*entity.Batch, error)
	// ListActiveBySeller devuelve los lotes ACTIVE del vendedor ordenados por
	// fecha de activación ascendente (el más antiguo primero).
	ListActiveBySeller(sellerID string) ([]*entity.Batch, error)
	Update(b *entity.Batch) error
}
