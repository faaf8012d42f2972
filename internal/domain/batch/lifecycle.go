package batch

import (
	"time"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/effect"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"
)

// Transiciones de tanda: INACTIVE -> RELEASED -> IN_TRANSIT -> IN_HOME -> FINALIZED.
// Cada función recibe la tanda por valor y devuelve la copia mutada; el caller
// persiste con chequeo de versión.

// ReleaseTranche libera una tanda INACTIVE hacia el vendedor.
func ReleaseTranche(t entity.Tranche, now time.Time) (entity.Tranche, []effect.Effect, error) {
	if t.State != entity.TrancheStateInactive {
		return t, nil, &domain.TransitionError{Entity: "tranche", ID: t.ID, From: t.State, Action: "release"}
	}
	t.State = entity.TrancheStateReleased
	t.ReleasedAt = &now
	effects := []effect.Effect{effect.Notify(effect.NotifyTrancheReleased, "", t.BatchID, t.ID)}
	return t, effects, nil
}

// IsTransitDue indica si ya pasó el retardo configurado desde la liberación.
// Es un predicado puro: el poller externo decide cuándo consultarlo.
func IsTransitDue(t entity.Tranche, now time.Time, delay time.Duration) bool {
	if t.State != entity.TrancheStateReleased || t.ReleasedAt == nil {
		return false
	}
	return !now.Before(t.ReleasedAt.Add(delay))
}

// AutoTransit pasa una tanda RELEASED a IN_TRANSIT (invocado por el poller).
func AutoTransit(t entity.Tranche, now time.Time) (entity.Tranche, error) {
	if t.State != entity.TrancheStateReleased {
		return t, &domain.TransitionError{Entity: "tranche", ID: t.ID, From: t.State, Action: "autoTransit"}
	}
	t.State = entity.TrancheStateInTransit
	t.TransitAt = &now
	return t, nil
}

// ConfirmDelivery confirma que la tanda llegó a manos del vendedor.
func ConfirmDelivery(t entity.Tranche, now time.Time) (entity.Tranche, error) {
	if t.State != entity.TrancheStateInTransit {
		return t, &domain.TransitionError{Entity: "tranche", ID: t.ID, From: t.State, Action: "confirmDelivery"}
	}
	t.State = entity.TrancheStateInHome
	t.DeliveredAt = &now
	return t, nil
}

// FinalizeTranche finaliza una tanda IN_HOME con stock agotado.
func FinalizeTranche(t entity.Tranche, now time.Time) (entity.Tranche, error) {
	if t.State != entity.TrancheStateInHome {
		return t, &domain.TransitionError{Entity: "tranche", ID: t.ID, From: t.State, Action: "finalize"}
	}
	if t.CurrentStock != 0 {
		return t, &domain.StockError{TrancheID: t.ID, Available: t.CurrentStock, Requested: 0}
	}
	t.State = entity.TrancheStateFinalized
	t.FinalizedAt = &now
	return t, nil
}

// FinalizeConsumed finaliza una tanda de lote forzado agotada por un pedido
// mayorista. Estas tandas no pasan por el ciclo de entrega: nacen INACTIVE y
// se consumen completas al completar el pedido que originó el lote.
func FinalizeConsumed(t entity.Tranche, now time.Time) (entity.Tranche, error) {
	if t.State != entity.TrancheStateInactive {
		return t, &domain.TransitionError{Entity: "tranche", ID: t.ID, From: t.State, Action: "finalizeConsumed"}
	}
	if t.CurrentStock != 0 {
		return t, &domain.StockError{TrancheID: t.ID, Available: t.CurrentStock, Requested: 0}
	}
	t.State = entity.TrancheStateFinalized
	t.FinalizedAt = &now
	return t, nil
}

// HoldStock descuenta tentativamente unidades de una tanda IN_HOME (venta en
// espera de aprobación). El descuento definitivo o la restauración llegan con
// la aprobación o el rechazo de la venta.
func HoldStock(t entity.Tranche, units int) (entity.Tranche, error) {
	if t.State != entity.TrancheStateInHome {
		return t, &domain.TransitionError{Entity: "tranche", ID: t.ID, From: t.State, Action: "holdStock"}
	}
	if units <= 0 {
		return t, domain.ErrInvalidInput
	}
	if t.CurrentStock < units {
		return t, &domain.StockError{TrancheID: t.ID, Available: t.CurrentStock, Requested: units}
	}
	t.CurrentStock -= units
	return t, nil
}

// RestoreStock devuelve unidades a la tanda tras el rechazo de una venta.
func RestoreStock(t entity.Tranche, units int) (entity.Tranche, error) {
	if units <= 0 {
		return t, domain.ErrInvalidInput
	}
	if t.CurrentStock+units > t.InitialStock {
		return t, domain.ErrInvalidInput
	}
	t.CurrentStock += units
	return t, nil
}

// Transiciones de lote: CREATED -> ACTIVE -> FINALIZED.

// ActivateBatch activa un lote recién creado. La deducción del pool físico de
// stock la hace el caller antes de persistir (colaborador externo).
func ActivateBatch(b entity.Batch, now time.Time) (entity.Batch, error) {
	if b.State != entity.BatchStateCreated {
		return b, &domain.TransitionError{Entity: "batch", ID: b.ID, From: b.State, Action: "activate"}
	}
	b.State = entity.BatchStateActive
	b.ActivatedAt = &now
	return b, nil
}

// FinalizeBatch finaliza un lote ACTIVE cuyas tandas están todas FINALIZED.
func FinalizeBatch(b entity.Batch, tranches []entity.Tranche, now time.Time) (entity.Batch, error) {
	if b.State != entity.BatchStateActive {
		return b, &domain.TransitionError{Entity: "batch", ID: b.ID, From: b.State, Action: "finalize"}
	}
	for _, t := range tranches {
		if t.State != entity.TrancheStateFinalized {
			return b, &domain.TransitionError{Entity: "tranche", ID: t.ID, From: t.State, Action: "finalizeBatch"}
		}
	}
	b.State = entity.BatchStateFinalized
	b.FinalizedAt = &now
	return b, nil
}
