package settlement

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/effect"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"
)

// Confirm valida la entrega de dinero de un cuadre PENDING. Exige que lo
// recibido cubra el esperado menos lo ya cubierto por cuadre mayor; si cubre,
// el cuadre pasa a SUCCESS (terminal) y el shortfall queda en cero.
//
// Efectos: liberar la siguiente tanda INACTIVE del lote si existe; si era la
// última tanda, armar el mini-cuadre final en lugar de finalización simple.
// El caller decide cuál aplica con la información del lote.
func Confirm(s entity.Settlement, received decimal.Decimal, now time.Time) (entity.Settlement, []effect.Effect, error) {
	if s.State != entity.SettlementStatePending {
		return s, nil, &domain.TransitionError{Entity: "settlement", ID: s.ID, From: s.State, Action: "confirm"}
	}
	required := s.ExpectedAmount.Sub(s.CoveredByWholesale)
	if received.LessThan(required) {
		return s, nil, &domain.AmountError{SettlementID: s.ID, Expected: required, Received: received}
	}
	s.State = entity.SettlementStateSuccess
	s.ReceivedAmount = received
	s.Shortfall = decimal.Zero
	s.SuccessAt = &now
	effects := []effect.Effect{
		effect.Notify(effect.NotifySettlementSuccess, s.SellerID, s.BatchID, s.TrancheID),
		effect.ReleaseNext(s.BatchID, s.TrancheSeq),
	}
	return s, effects, nil
}

// CloseByWholesale descuenta del cuadre la porción cubierta por un cuadre
// mayor. Si el faltante restante queda en cero el cuadre pasa a
// CLOSED_BY_WHOLESALE (terminal); si no, permanece PENDING con el faltante
// reducido y el vínculo al cuadre mayor registrado.
func CloseByWholesale(s entity.Settlement, wholesaleSettlementID string, amountCovered decimal.Decimal, now time.Time) (entity.Settlement, error) {
	if s.State != entity.SettlementStatePending {
		return s, &domain.TransitionError{Entity: "settlement", ID: s.ID, From: s.State, Action: "closeByWholesale"}
	}
	if amountCovered.IsNegative() {
		return s, domain.ErrInvalidInput
	}
	s.CoveredByWholesale = s.CoveredByWholesale.Add(amountCovered)
	s.ClosedByWholesaleID = &wholesaleSettlementID
	s.Shortfall = s.RemainingShortfall()
	if s.Shortfall.IsZero() {
		s.State = entity.SettlementStateClosedByWholesale
		s.SuccessAt = &now
	}
	return s, nil
}

// ArmFinal construye el mini-cuadre final del lote: mismo ciclo
// INACTIVE -> PENDING -> SUCCESS, con monto esperado igual a lo recaudado
// menos lo entregado menos la utilidad pendiente del vendedor.
func ArmFinal(b entity.Batch, lastTranche entity.Tranche, pendingProfit decimal.Decimal, id string) entity.Settlement {
	expected := b.MoneyCollected.Sub(b.MoneyRemitted).Sub(pendingProfit)
	if expected.IsNegative() {
		expected = decimal.Zero
	}
	return entity.Settlement{
		ID:             id,
		TrancheID:      lastTranche.ID,
		BatchID:        b.ID,
		SellerID:       b.SellerID,
		TrancheSeq:     lastTranche.Seq,
		Concept:        entity.ConceptProfitOnly,
		ExpectedAmount: expected,
		ReceivedAmount: decimal.Zero,
		Shortfall:      expected,
		State:          entity.SettlementStateInactive,
		Final:          true,
	}
}
