// Package settlement implementa el motor de cuadres: evaluación de disparos,
// máquina de estados INACTIVE -> PENDING -> SUCCESS (o CLOSED_BY_WHOLESALE) y
// el cálculo del monto esperado. Funciones puras; la capa de aplicación
// persiste y ejecuta los efectos.
package settlement

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/effect"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"
)

// TriggerConfig porcentajes de disparo (configurados, no quemados).
// EarlyPct aplica a la tanda intermedia-temprana y LatePct a la última.
type TriggerConfig struct {
	EarlyPct decimal.Decimal // p.ej. 10
	LatePct  decimal.Decimal // p.ej. 20
}

// TriggerThreshold devuelve el porcentaje de stock restante que dispara el
// cuadre de la tanda seq en un lote de numTranches tandas, y si esa tanda
// tiene disparo automático.
//
// Lote de 3 tandas: la tanda 1 no tiene disparo (se activa al activar el
// lote), la 2 dispara con <= EarlyPct y la 3 con <= LatePct. Lote de 2
// tandas: la 1 dispara con <= EarlyPct y la 2 con <= LatePct.
func TriggerThreshold(numTranches, seq int, cfg TriggerConfig) (decimal.Decimal, bool) {
	switch numTranches {
	case 3:
		switch seq {
		case 2:
			return cfg.EarlyPct, true
		case 3:
			return cfg.LatePct, true
		}
	case 2:
		switch seq {
		case 1:
			return cfg.EarlyPct, true
		case 2:
			return cfg.LatePct, true
		}
	}
	return decimal.Zero, false
}

// ShouldTrigger evalúa si el stock restante de la tanda alcanzó el umbral de
// disparo de su cuadre. La comparación es inclusiva (<=).
func ShouldTrigger(t entity.Tranche, numTranches int, cfg TriggerConfig) bool {
	threshold, ok := TriggerThreshold(numTranches, t.Seq, cfg)
	if !ok {
		return false
	}
	return t.StockPercent().LessThanOrEqual(threshold)
}

// Activate pasa un cuadre INACTIVE a PENDING. El caller debe garantizar que
// el vendedor no tiene otro cuadre PENDING (serialización por vendedor).
func Activate(s entity.Settlement, now time.Time) (entity.Settlement, []effect.Effect, error) {
	if s.State != entity.SettlementStateInactive {
		return s, nil, &domain.TransitionError{Entity: "settlement", ID: s.ID, From: s.State, Action: "activate"}
	}
	s.State = entity.SettlementStatePending
	s.PendingAt = &now
	s.Shortfall = s.RemainingShortfall()
	effects := []effect.Effect{effect.Notify(effect.NotifySettlementPending, s.SellerID, s.BatchID, s.TrancheID)}
	return s, effects, nil
}
