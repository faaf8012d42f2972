package settlements

import (
	"context"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/repository"
	setdom "github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/settlement"
)

// GetSettlement devuelve un cuadre por id.
func (uc *UseCase) GetSettlement(ctx context.Context, settlementID string) (*entity.Settlement, error) {
	var s *entity.Settlement
	err := uc.txRunner.RunSettlement(ctx, func(
		_ repository.BatchRepository,
		_ repository.TrancheRepository,
		settlementRepo repository.SettlementRepository,
	) error {
		var err error
		s, err = settlementRepo.GetByID(settlementID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListByBatch devuelve los cuadres de un lote ordenados por tanda.
func (uc *UseCase) ListByBatch(ctx context.Context, batchID string) ([]*entity.Settlement, error) {
	var settlements []*entity.Settlement
	err := uc.txRunner.RunSettlement(ctx, func(
		_ repository.BatchRepository,
		_ repository.TrancheRepository,
		settlementRepo repository.SettlementRepository,
	) error {
		var err error
		settlements, err = settlementRepo.ListByBatch(batchID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return settlements, nil
}

// GetActive devuelve el cuadre activo del vendedor: el PENDING si existe, si
// no el INACTIVE más antiguo. ErrNotFound si no tiene cuadres elegibles.
func (uc *UseCase) GetActive(ctx context.Context, sellerID string) (*entity.Settlement, error) {
	var active *entity.Settlement
	err := uc.txRunner.RunSettlement(ctx, func(
		_ repository.BatchRepository,
		_ repository.TrancheRepository,
		settlementRepo repository.SettlementRepository,
	) error {
		open, err := settlementRepo.ListOpenBySellerForUpdate(sellerID)
		if err != nil {
			return err
		}
		views := make([]entity.Settlement, 0, len(open))
		for _, s := range open {
			views = append(views, *s)
		}
		selected, ok := setdom.SelectActive(views)
		if !ok {
			return domain.ErrNotFound
		}
		active = &selected
		return nil
	})
	if err != nil {
		return nil, err
	}
	return active, nil
}
