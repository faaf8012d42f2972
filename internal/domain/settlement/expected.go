package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/cascade"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"
)

// ExpectedInput parámetros del cálculo del monto esperado de un cuadre.
type ExpectedInput struct {
	Concept       string
	Batch         entity.Batch
	Tranche       entity.Tranche
	FlatSellerPct decimal.Decimal // porcentaje del vendedor en modelo FLAT_SPLIT
	Chain         []string        // cadena de reclutadores, del más cercano al más lejano
	EquipmentDebt decimal.Decimal // solo distinto de cero para el cuadre "activo" del vendedor
}

// ExpectedAmount calcula lo que el vendedor debe entregar para un cuadre:
//
//   - INVESTMENT_ONLY: porción del operador de la inversión, prorrateada por
//     las unidades de la tanda sobre el total del lote.
//   - PROFIT_ONLY: porción del operador de la utilidad según el modelo de
//     reparto (los montos de la cascada a reclutadores se registran aparte y
//     no suman a esta cifra del vendedor).
//   - MIXED: suma de las dos anteriores.
//
// En los tres casos se suma la deuda de equipos pendiente del vendedor, que
// el caller incluye únicamente en el cuadre activo para no duplicarla.
func ExpectedAmount(in ExpectedInput) decimal.Decimal {
	var amount decimal.Decimal

	if in.Concept == entity.ConceptInvestmentOnly || in.Concept == entity.ConceptMixed {
		amount = amount.Add(investmentShare(in.Batch, in.Tranche))
	}
	if in.Concept == entity.ConceptProfitOnly || in.Concept == entity.ConceptMixed {
		result := cascade.Distribute(
			in.Batch.MoneyCollected,
			in.Batch.TotalInvestment,
			in.Batch.PayoutModel,
			in.FlatSellerPct,
			in.Chain,
		)
		amount = amount.Add(result.OperatorShare)
	}
	return amount.Add(in.EquipmentDebt)
}

// investmentShare prorratea la inversión del operador por la porción de
// unidades de la tanda dentro del lote.
func investmentShare(b entity.Batch, t entity.Tranche) decimal.Decimal {
	if b.TotalUnits <= 0 {
		return decimal.Zero
	}
	return b.OperatorInvestment.
		Mul(decimal.NewFromInt(int64(t.InitialStock))).
		Div(decimal.NewFromInt(int64(b.TotalUnits)))
}
