package settlement

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"
)

// SelectActive identifica el único cuadre "activo" de un vendedor: el PENDING
// si existe (hay a lo sumo uno por vendedor), si no el INACTIVE más antiguo
// ordenado por número de tanda. Los cuadres terminales nunca se tocan.
// Devuelve false si el vendedor no tiene cuadres elegibles.
func SelectActive(settlements []entity.Settlement) (entity.Settlement, bool) {
	var inactive []entity.Settlement
	for _, s := range settlements {
		switch s.State {
		case entity.SettlementStatePending:
			return s, true
		case entity.SettlementStateInactive:
			inactive = append(inactive, s)
		}
	}
	if len(inactive) == 0 {
		return entity.Settlement{}, false
	}
	sort.SliceStable(inactive, func(i, j int) bool {
		return inactive[i].TrancheSeq < inactive[j].TrancheSeq
	})
	return inactive[0], true
}

// RecomputeIsNoop indica si un recálculo del monto esperado debe descartarse:
// la diferencia absoluta con el valor anterior es menor a una unidad de
// moneda, para evitar escrituras ruidosas.
func RecomputeIsNoop(oldAmount, newAmount, minDelta decimal.Decimal) bool {
	return oldAmount.Sub(newAmount).Abs().LessThan(minDelta)
}
