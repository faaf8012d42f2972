package planner

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain"
)

// PriceTier es un escalón de precio mayorista: aplica a pedidos de al menos
// MinUnits unidades, con precio distinto según si incluye licor.
type PriceTier struct {
	MinUnits           int
	PriceWithLiquor    decimal.Decimal
	PriceWithoutLiquor decimal.Decimal
}

// PriceTable es la tabla de escalones. No necesita venir ordenada.
type PriceTable []PriceTier

// ResolveUnitPrice devuelve el precio unitario del escalón aplicable: el de
// mayor MinUnits que no exceda la cantidad pedida. Bajo el escalón mínimo el
// pedido se rechaza con el detalle del piso.
func ResolveUnitPrice(table PriceTable, units int, withLiquor bool) (decimal.Decimal, error) {
	if len(table) == 0 {
		return decimal.Zero, domain.ErrInvalidInput
	}
	sorted := make(PriceTable, len(table))
	copy(sorted, table)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinUnits > sorted[j].MinUnits })

	for _, tier := range sorted {
		if units >= tier.MinUnits {
			if withLiquor {
				return tier.PriceWithLiquor, nil
			}
			return tier.PriceWithoutLiquor, nil
		}
	}
	minimum := sorted[len(sorted)-1].MinUnits
	return decimal.Zero, &domain.MinQuantityError{Requested: units, Minimum: minimum}
}
