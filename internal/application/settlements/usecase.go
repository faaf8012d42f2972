package settlements

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/params"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/ports"
	batchdom "github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/batch"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/cascade"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/effect"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/repository"
	setdom "github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/settlement"
)

// UseCase orquesta el motor de cuadres: evaluación de disparos tras cada
// venta aprobada, recálculo del monto esperado del cuadre activo,
// confirmación de entregas y el mini-cuadre final del lote.
type UseCase struct {
	txRunner  TxRunner
	notifier  ports.Notifier
	hierarchy ports.HierarchyProvider
	debt      ports.EquipmentDebtProvider
	params    params.Provider
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	notifier ports.Notifier,
	hierarchy ports.HierarchyProvider,
	debt ports.EquipmentDebtProvider,
	paramsProvider params.Provider,
) *UseCase {
	return &UseCase{
		txRunner:  txRunner,
		notifier:  notifier,
		hierarchy: hierarchy,
		debt:      debt,
		params:    paramsProvider,
	}
}

// AfterSaleApproved evalúa el motor tras una venta aprobada sobre la tanda:
// dispara el cuadre de la tanda si alcanzó su umbral (y el vendedor no tiene
// otro PENDING), arma el mini-cuadre final si la última tanda quedó en cero y
// recalcula el monto esperado del cuadre activo.
func (uc *UseCase) AfterSaleApproved(ctx context.Context, sellerID, batchID, trancheID string) error {
	cfg := params.Resolve(uc.params)
	now := time.Now()
	var notifications []effect.Effect

	err := uc.txRunner.RunSettlement(ctx, func(
		batchRepo repository.BatchRepository,
		trancheRepo repository.TrancheRepository,
		settlementRepo repository.SettlementRepository,
	) error {
		// Bloquea los cuadres abiertos del vendedor: serializa por vendedor
		// las decisiones de activación y sostiene el invariante de un solo
		// PENDING a la vez.
		open, err := settlementRepo.ListOpenBySellerForUpdate(sellerID)
		if err != nil {
			return err
		}
		hasPending := false
		for _, s := range open {
			if s.State == entity.SettlementStatePending {
				hasPending = true
				break
			}
		}

		b, err := batchRepo.GetByID(batchID)
		if err != nil {
			return err
		}
		t, err := trancheRepo.GetByID(trancheID)
		if err != nil {
			return err
		}
		tranches, err := trancheRepo.ListByBatch(batchID)
		if err != nil {
			return err
		}
		numTranches := len(tranches)

		if !hasPending {
			s, err := settlementRepo.GetByTranche(trancheID)
			if err != nil {
				return err
			}
			if s.State == entity.SettlementStateInactive && setdom.ShouldTrigger(*t, numTranches, cfg.Trigger) {
				activated, effects, err := setdom.Activate(*s, now)
				if err != nil {
					return err
				}
				if err := settlementRepo.Update(&activated); err != nil {
					return err
				}
				notifications = append(notifications, effects...)
				hasPending = true
			}
		}

		// Última tanda agotada con su cuadre ya cerrado: armar el mini-cuadre
		// final en lugar de finalización simple.
		if t.Seq == numTranches && t.CurrentStock == 0 {
			if err := uc.armFinalIfDue(batchRepo, settlementRepo, b, t, hasPending, cfg, now, &notifications); err != nil {
				return err
			}
		}

		return uc.recomputeActiveLocked(batchRepo, trancheRepo, settlementRepo, sellerID, cfg)
	})
	if err != nil {
		return err
	}
	uc.notifyAll(notifications)
	return nil
}

// RecomputeActive recalcula el monto esperado del cuadre activo del vendedor.
// Lo invocan la aprobación de ventas (vía AfterSaleApproved) y el barrido de
// mora de equipos. Idempotente: sin cambios de estado intermedios produce el
// mismo monto y no escribe.
func (uc *UseCase) RecomputeActive(ctx context.Context, sellerID string) error {
	cfg := params.Resolve(uc.params)
	return uc.txRunner.RunSettlement(ctx, func(
		batchRepo repository.BatchRepository,
		trancheRepo repository.TrancheRepository,
		settlementRepo repository.SettlementRepository,
	) error {
		return uc.recomputeActiveLocked(batchRepo, trancheRepo, settlementRepo, sellerID, cfg)
	})
}

// recomputeActiveLocked bloquea los cuadres abiertos del vendedor (si la tx
// ya los bloqueó, el segundo FOR UPDATE es inocuo) y recalcula el activo.
func (uc *UseCase) recomputeActiveLocked(
	batchRepo repository.BatchRepository,
	trancheRepo repository.TrancheRepository,
	settlementRepo repository.SettlementRepository,
	sellerID string,
	cfg params.Snapshot,
) error {
	open, err := settlementRepo.ListOpenBySellerForUpdate(sellerID)
	if err != nil {
		return err
	}
	views := make([]entity.Settlement, 0, len(open))
	for _, s := range open {
		views = append(views, *s)
	}
	active, ok := setdom.SelectActive(views)
	if !ok {
		return nil
	}

	newExpected, err := uc.computeExpected(batchRepo, trancheRepo, active, cfg)
	if err != nil {
		return err
	}
	newExpected = cascade.RoundMinor(newExpected, cfg.CurrencyPrecision)

	// Recalculo ruidoso: bajo una unidad de moneda no se persiste.
	if setdom.RecomputeIsNoop(active.ExpectedAmount, newExpected, cfg.RecomputeMinDelta) {
		return nil
	}
	active.ExpectedAmount = newExpected
	active.Shortfall = active.RemainingShortfall()
	return settlementRepo.Update(&active)
}

// computeExpected arma la entrada del cálculo del monto esperado: concepto,
// lote, tanda, cadena de reclutadores y deuda de equipos. La deuda solo entra
// aquí, en el cuadre activo, para no duplicarse entre cuadres del mismo lote.
func (uc *UseCase) computeExpected(
	batchRepo repository.BatchRepository,
	trancheRepo repository.TrancheRepository,
	s entity.Settlement,
	cfg params.Snapshot,
) (decimal.Decimal, error) {
	b, err := batchRepo.GetByID(s.BatchID)
	if err != nil {
		return decimal.Zero, err
	}
	chain, err := uc.hierarchy.RecruiterChain(s.SellerID)
	if err != nil {
		return decimal.Zero, err
	}
	debt, err := uc.debt.OutstandingDebt(s.SellerID)
	if err != nil {
		return decimal.Zero, err
	}

	if s.Final {
		// Mini-cuadre final: recaudado menos entregado menos la utilidad
		// pendiente del vendedor.
		result := cascade.Distribute(b.MoneyCollected, b.TotalInvestment, b.PayoutModel, cfg.FlatSellerPct, chain)
		expected := b.MoneyCollected.Sub(b.MoneyRemitted).Sub(result.SellerShare)
		if expected.IsNegative() {
			expected = decimal.Zero
		}
		return expected.Add(debt), nil
	}

	t, err := trancheRepo.GetByID(s.TrancheID)
	if err != nil {
		return decimal.Zero, err
	}
	return setdom.ExpectedAmount(setdom.ExpectedInput{
		Concept:       s.Concept,
		Batch:         *b,
		Tranche:       *t,
		FlatSellerPct: cfg.FlatSellerPct,
		Chain:         chain,
		EquipmentDebt: debt,
	}), nil
}

// Confirm valida la entrega de dinero de un cuadre PENDING. Si cubre el
// esperado, el cuadre pasa a SUCCESS, el lote suma lo entregado y se libera
// la siguiente tanda INACTIVE; si era la última, se arma el mini-cuadre final.
func (uc *UseCase) Confirm(ctx context.Context, settlementID string, received decimal.Decimal) error {
	cfg := params.Resolve(uc.params)
	now := time.Now()
	var notifications []effect.Effect

	err := uc.txRunner.RunSettlement(ctx, func(
		batchRepo repository.BatchRepository,
		trancheRepo repository.TrancheRepository,
		settlementRepo repository.SettlementRepository,
	) error {
		s, err := settlementRepo.GetByID(settlementID)
		if err != nil {
			return err
		}
		// Mismo lock por vendedor que AfterSaleApproved: la confirmación puede
		// armar y activar el mini-cuadre final, y esa decisión debe ver los
		// cuadres abiertos reales del vendedor, no asumir que no hay ninguno.
		open, err := settlementRepo.ListOpenBySellerForUpdate(s.SellerID)
		if err != nil {
			return err
		}
		hasPending := false
		for _, o := range open {
			if o.ID == s.ID {
				// Releer tras el lock: la copia inicial pudo quedar obsoleta.
				s = o
				continue
			}
			if o.State == entity.SettlementStatePending {
				hasPending = true
			}
		}
		confirmed, effects, err := setdom.Confirm(*s, received, now)
		if err != nil {
			return err
		}
		if err := settlementRepo.Update(&confirmed); err != nil {
			return err
		}

		b, err := batchRepo.GetByID(s.BatchID)
		if err != nil {
			return err
		}
		b.MoneyRemitted = b.MoneyRemitted.Add(received)
		if err := batchRepo.Update(b); err != nil {
			return err
		}

		for _, e := range effects {
			switch e.Kind {
			case effect.KindNotify:
				notifications = append(notifications, e)
			case effect.KindReleaseNextTranche:
				if err := uc.releaseNextOrArmFinal(batchRepo, trancheRepo, settlementRepo, b, confirmed, hasPending, cfg, now, &notifications); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	uc.notifyAll(notifications)
	return nil
}

// releaseNextOrArmFinal ejecuta el efecto posterior a un cuadre exitoso:
// libera la tanda siguiente si existe; si no hay siguiente y el cuadre
// cerrado era el de la última tanda, arma el mini-cuadre final; si el cuadre
// cerrado era el final, finaliza tanda y lote.
func (uc *UseCase) releaseNextOrArmFinal(
	batchRepo repository.BatchRepository,
	trancheRepo repository.TrancheRepository,
	settlementRepo repository.SettlementRepository,
	b *entity.Batch,
	confirmed entity.Settlement,
	hasPending bool,
	cfg params.Snapshot,
	now time.Time,
	notifications *[]effect.Effect,
) error {
	tranches, err := trancheRepo.ListByBatch(b.ID)
	if err != nil {
		return err
	}

	if confirmed.Final {
		return uc.finalizeAfterFinalSettlement(batchRepo, trancheRepo, b, tranches, now)
	}

	for _, t := range tranches {
		if t.Seq == confirmed.TrancheSeq+1 && t.State == entity.TrancheStateInactive {
			released, effects, err := batchdom.ReleaseTranche(*t, now)
			if err != nil {
				return err
			}
			if err := trancheRepo.Update(&released); err != nil {
				return err
			}
			*notifications = append(*notifications, effects...)
			return nil
		}
	}

	// Sin tanda siguiente: si era la última, armar el mini-cuadre final.
	if confirmed.TrancheSeq == len(tranches) {
		last := tranches[len(tranches)-1]
		return uc.armFinal(batchRepo, settlementRepo, b, last, hasPending, cfg, now, notifications)
	}
	return nil
}

// armFinalIfDue arma el mini-cuadre final solo si el cuadre regular de la
// última tanda ya es terminal y el final no existe todavía.
func (uc *UseCase) armFinalIfDue(
	batchRepo repository.BatchRepository,
	settlementRepo repository.SettlementRepository,
	b *entity.Batch,
	last *entity.Tranche,
	hasPending bool,
	cfg params.Snapshot,
	now time.Time,
	notifications *[]effect.Effect,
) error {
	existing, err := settlementRepo.ListByBatch(b.ID)
	if err != nil {
		return err
	}
	var regular *entity.Settlement
	for _, s := range existing {
		if s.Final {
			return nil // ya armado
		}
		if s.TrancheID == last.ID {
			regular = s
		}
	}
	if regular == nil || !regular.IsTerminal() {
		return nil
	}
	return uc.armFinal(batchRepo, settlementRepo, b, last, hasPending, cfg, now, notifications)
}

// armFinal crea el mini-cuadre final y lo activa de inmediato si el vendedor
// no tiene otro cuadre PENDING.
func (uc *UseCase) armFinal(
	batchRepo repository.BatchRepository,
	settlementRepo repository.SettlementRepository,
	b *entity.Batch,
	last *entity.Tranche,
	hasPending bool,
	cfg params.Snapshot,
	now time.Time,
	notifications *[]effect.Effect,
) error {
	chain, err := uc.hierarchy.RecruiterChain(b.SellerID)
	if err != nil {
		return err
	}
	result := cascade.Distribute(b.MoneyCollected, b.TotalInvestment, b.PayoutModel, cfg.FlatSellerPct, chain)
	final := setdom.ArmFinal(*b, *last, result.SellerShare, uuid.New().String())
	final.ExpectedAmount = cascade.RoundMinor(final.ExpectedAmount, cfg.CurrencyPrecision)
	final.Shortfall = final.ExpectedAmount
	if err := settlementRepo.Create(&final); err != nil {
		return err
	}
	if hasPending {
		return nil
	}
	activated, effects, err := setdom.Activate(final, now)
	if err != nil {
		return err
	}
	if err := settlementRepo.Update(&activated); err != nil {
		return err
	}
	*notifications = append(*notifications, effects...)
	return nil
}

// finalizeAfterFinalSettlement cierra la última tanda y el lote una vez
// confirmado el mini-cuadre final.
func (uc *UseCase) finalizeAfterFinalSettlement(
	batchRepo repository.BatchRepository,
	trancheRepo repository.TrancheRepository,
	b *entity.Batch,
	tranches []*entity.Tranche,
	now time.Time,
) error {
	all := make([]entity.Tranche, 0, len(tranches))
	for _, t := range tranches {
		if t.Seq == len(tranches) && t.State == entity.TrancheStateInHome {
			finalized, err := batchdom.FinalizeTranche(*t, now)
			if err != nil {
				return err
			}
			if err := trancheRepo.Update(&finalized); err != nil {
				return err
			}
			all = append(all, finalized)
			continue
		}
		all = append(all, *t)
	}
	for _, t := range all {
		if t.State != entity.TrancheStateFinalized {
			return nil // quedan tandas abiertas; el lote sigue ACTIVE
		}
	}
	updated, err := batchdom.FinalizeBatch(*b, all, now)
	if err != nil {
		return err
	}
	return batchRepo.Update(&updated)
}

func (uc *UseCase) notifyAll(effects []effect.Effect) {
	for _, e := range effects {
		if e.Kind != effect.KindNotify {
			continue
		}
		uc.notifier.Notify(ports.Notification{
			Kind:      e.NotifyKind,
			SellerID:  e.SellerID,
			BatchID:   e.BatchID,
			TrancheID: e.TrancheID,
		})
	}
}
