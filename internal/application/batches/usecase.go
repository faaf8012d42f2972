package batches

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/params"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/ports"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain"
	batchdom "github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/batch"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/effect"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/repository"
)

// LifecycleUseCase orquesta el ciclo de vida de lotes y tandas: creación,
// activación, tránsito automático, entrega, finalización y ventas al detalle.
type LifecycleUseCase struct {
	txRunner   TxRunner
	notifier   ports.Notifier
	params     params.Provider
	settlement SettlementTriggers
}

// NewLifecycleUseCase construye el caso de uso.
func NewLifecycleUseCase(
	txRunner TxRunner,
	notifier ports.Notifier,
	paramsProvider params.Provider,
	settlement SettlementTriggers,
) *LifecycleUseCase {
	return &LifecycleUseCase{
		txRunner:   txRunner,
		notifier:   notifier,
		params:     paramsProvider,
		settlement: settlement,
	}
}

// CreateBatchInput entrada para emitir un lote nuevo.
type CreateBatchInput struct {
	SellerID           string
	TotalUnits         int
	PayoutModel        string
	TotalInvestment    decimal.Decimal
	SellerInvestment   decimal.Decimal
	OperatorInvestment decimal.Decimal
	Forced             bool
	WholesaleOrderID   *string
}

// CreateBatch emite un lote en estado CREATED con sus tandas INACTIVE según
// el algoritmo de partición (2 o 3 tandas contra el umbral configurado).
func (uc *LifecycleUseCase) CreateBatch(ctx context.Context, in CreateBatchInput) (*entity.Batch, error) {
	if in.SellerID == "" || in.TotalUnits <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.PayoutModel != entity.PayoutModelFlat && in.PayoutModel != entity.PayoutModelCascade {
		return nil, domain.ErrInvalidInput
	}
	if !in.SellerInvestment.Add(in.OperatorInvestment).Equal(in.TotalInvestment) {
		return nil, domain.ErrInvalidInput
	}
	cfg := params.Resolve(uc.params)
	now := time.Now()

	b := &entity.Batch{
		ID:                 uuid.New().String(),
		SellerID:           in.SellerID,
		TotalUnits:         in.TotalUnits,
		PayoutModel:        in.PayoutModel,
		TotalInvestment:    in.TotalInvestment,
		SellerInvestment:   in.SellerInvestment,
		OperatorInvestment: in.OperatorInvestment,
		MoneyCollected:     decimal.Zero,
		MoneyRemitted:      decimal.Zero,
		State:              entity.BatchStateCreated,
		Forced:             in.Forced,
		WholesaleOrderID:   in.WholesaleOrderID,
		CreatedAt:          now,
	}

	parts := batchdom.SplitUnits(in.TotalUnits, cfg.SplitThreshold)
	err := uc.txRunner.Run(ctx, func(
		batchRepo repository.BatchRepository,
		trancheRepo repository.TrancheRepository,
		_ repository.SettlementRepository,
		_ repository.SaleRepository,
		_ ports.StockPool,
	) error {
		if err := batchRepo.Create(b); err != nil {
			return err
		}
		for i, units := range parts {
			t := &entity.Tranche{
				ID:           uuid.New().String(),
				BatchID:      b.ID,
				Seq:          i + 1,
				InitialStock: units,
				CurrentStock: units,
				State:        entity.TrancheStateInactive,
			}
			if err := trancheRepo.Create(t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ActivateBatch activa un lote CREATED: descuenta del pool físico, libera la
// tanda 1 de inmediato y crea un cuadre INACTIVE por tanda.
func (uc *LifecycleUseCase) ActivateBatch(ctx context.Context, batchID string) error {
	now := time.Now()
	var released []effect.Effect

	err := uc.txRunner.Run(ctx, func(
		batchRepo repository.BatchRepository,
		trancheRepo repository.TrancheRepository,
		settlementRepo repository.SettlementRepository,
		_ repository.SaleRepository,
		stockPool ports.StockPool,
	) error {
		b, err := batchRepo.GetByID(batchID)
		if err != nil {
			return err
		}
		updated, err := batchdom.ActivateBatch(*b, now)
		if err != nil {
			return err
		}
		if err := stockPool.Deduct(b.TotalUnits); err != nil {
			return err
		}
		if err := batchRepo.Update(&updated); err != nil {
			return err
		}

		tranches, err := trancheRepo.ListByBatch(batchID)
		if err != nil {
			return err
		}
		for _, t := range tranches {
			s := &entity.Settlement{
				ID:             uuid.New().String(),
				TrancheID:      t.ID,
				BatchID:        b.ID,
				SellerID:       b.SellerID,
				TrancheSeq:     t.Seq,
				Concept:        entity.ConceptMixed,
				ExpectedAmount: decimal.Zero,
				ReceivedAmount: decimal.Zero,
				Shortfall:      decimal.Zero,
				State:          entity.SettlementStateInactive,
			}
			if err := settlementRepo.Create(s); err != nil {
				return err
			}
			if t.Seq == 1 {
				rel, effects, err := batchdom.ReleaseTranche(*t, now)
				if err != nil {
					return err
				}
				if err := trancheRepo.Update(&rel); err != nil {
					return err
				}
				released = append(released, effects...)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	uc.runNotifyEffects(released, "")
	return nil
}

// AutoTransit pasa una tanda RELEASED a IN_TRANSIT si ya venció el retardo
// configurado. El poller externo la invoca; falla si la tanda no está RELEASED.
func (uc *LifecycleUseCase) AutoTransit(ctx context.Context, trancheID string) error {
	cfg := params.Resolve(uc.params)
	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		_ repository.BatchRepository,
		trancheRepo repository.TrancheRepository,
		_ repository.SettlementRepository,
		_ repository.SaleRepository,
		_ ports.StockPool,
	) error {
		t, err := trancheRepo.GetByID(trancheID)
		if err != nil {
			return err
		}
		if !batchdom.IsTransitDue(*t, now, cfg.TransitDelay) {
			return &domain.TransitionError{Entity: "tranche", ID: t.ID, From: t.State, Action: "autoTransit"}
		}
		updated, err := batchdom.AutoTransit(*t, now)
		if err != nil {
			return err
		}
		return trancheRepo.Update(&updated)
	})
}

// AutoTransitSweep procesa todas las tandas RELEASED cuyo retardo ya venció.
// Invocado por el scheduler; devuelve cuántas transicionó.
func (uc *LifecycleUseCase) AutoTransitSweep(ctx context.Context, now time.Time) (int, error) {
	cfg := params.Resolve(uc.params)
	count := 0
	err := uc.txRunner.Run(ctx, func(
		_ repository.BatchRepository,
		trancheRepo repository.TrancheRepository,
		_ repository.SettlementRepository,
		_ repository.SaleRepository,
		_ ports.StockPool,
	) error {
		due, err := trancheRepo.ListReleasedBefore(now.Add(-cfg.TransitDelay))
		if err != nil {
			return err
		}
		for _, t := range due {
			updated, err := batchdom.AutoTransit(*t, now)
			if err != nil {
				return err
			}
			if err := trancheRepo.Update(&updated); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	return count, err
}

// ConfirmDelivery confirma la entrega de una tanda IN_TRANSIT al vendedor.
func (uc *LifecycleUseCase) ConfirmDelivery(ctx context.Context, trancheID string) error {
	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		_ repository.BatchRepository,
		trancheRepo repository.TrancheRepository,
		_ repository.SettlementRepository,
		_ repository.SaleRepository,
		_ ports.StockPool,
	) error {
		t, err := trancheRepo.GetByID(trancheID)
		if err != nil {
			return err
		}
		updated, err := batchdom.ConfirmDelivery(*t, now)
		if err != nil {
			return err
		}
		return trancheRepo.Update(&updated)
	})
}

// FinalizeBatch finaliza un lote ACTIVE con todas sus tandas FINALIZED.
func (uc *LifecycleUseCase) FinalizeBatch(ctx context.Context, batchID string) error {
	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		batchRepo repository.BatchRepository,
		trancheRepo repository.TrancheRepository,
		_ repository.SettlementRepository,
		_ repository.SaleRepository,
		_ ports.StockPool,
	) error {
		b, err := batchRepo.GetByID(batchID)
		if err != nil {
			return err
		}
		tranches, err := trancheRepo.ListByBatch(batchID)
		if err != nil {
			return err
		}
		all := make([]entity.Tranche, 0, len(tranches))
		for _, t := range tranches {
			all = append(all, *t)
		}
		updated, err := batchdom.FinalizeBatch(*b, all, now)
		if err != nil {
			return err
		}
		return batchRepo.Update(&updated)
	})
}

// runNotifyEffects ejecuta los efectos de notificación. Fire-and-forget.
func (uc *LifecycleUseCase) runNotifyEffects(effects []effect.Effect, sellerID string) {
	for _, e := range effects {
		if e.Kind != effect.KindNotify {
			continue
		}
		seller := e.SellerID
		if seller == "" {
			seller = sellerID
		}
		uc.notifier.Notify(ports.Notification{
			Kind:      e.NotifyKind,
			SellerID:  seller,
			BatchID:   e.BatchID,
			TrancheID: e.TrancheID,
		})
	}
}
