// Package cascade implementa el reparto de utilidad entre vendedor, cadena de
// reclutadores y operador. Toda la aritmética intermedia es decimal exacta;
// solo los montos persistidos se redondean a la unidad mínima de la moneda.
package cascade

import (
	"github.com/shopspring/decimal"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"
)

var two = decimal.NewFromInt(2)

// Share es el pago de un nivel de la cadena de reclutadores.
// Level 1 es el reclutador más cercano al vendedor.
type Share struct {
	RecruiterID string
	Level       int
	Amount      decimal.Decimal
}

// Result es el reparto completo de la utilidad de una operación.
// Invariante: SellerShare + suma(Levels) + OperatorShare == Profit exacto.
type Result struct {
	HasProfit     bool
	Profit        decimal.Decimal
	SellerShare   decimal.Decimal
	OperatorShare decimal.Decimal
	Levels        []Share
}

// Distribute calcula el reparto de utilidad. Hay utilidad solo si los ingresos
// superan la inversión; si no, todas las porciones quedan en cero.
//
// Modelo FLAT_SPLIT: vendedor recibe profit*flatSellerPct y el operador el
// resto exacto. Sin pagos a reclutadores.
//
// Modelo CASCADE: el vendedor recibe la mitad de la utilidad. El nivel 1 de la
// cadena recibe la mitad de la porción del vendedor y cada nivel siguiente la
// mitad del anterior. El operador recibe el resto exacto, que para la cadena
// de mitades coincide con lo que recibió el último reclutador. Con cadena
// vacía el operador recibe el mismo 50% que el vendedor (asimetría heredada
// del negocio: un nivel cero no es "una mitad menos" que un nivel uno).
func Distribute(proceeds, investment decimal.Decimal, model string, flatSellerPct decimal.Decimal, chain []string) Result {
	profit := proceeds.Sub(investment)
	if !profit.IsPositive() {
		return Result{
			Profit:        decimal.Zero,
			SellerShare:   decimal.Zero,
			OperatorShare: decimal.Zero,
		}
	}

	if model == entity.PayoutModelFlat {
		seller := profit.Mul(flatSellerPct)
		return Result{
			HasProfit:     true,
			Profit:        profit,
			SellerShare:   seller,
			OperatorShare: profit.Sub(seller),
		}
	}

	seller := profit.Div(two)
	levels := make([]Share, 0, len(chain))
	cur := seller
	total := seller
	for i, recruiterID := range chain {
		cur = cur.Div(two)
		levels = append(levels, Share{RecruiterID: recruiterID, Level: i + 1, Amount: cur})
		total = total.Add(cur)
	}
	// El operador absorbe el residuo exacto para que el reparto sume la
	// utilidad completa sin fugas de redondeo.
	operator := profit.Sub(total)
	return Result{
		HasProfit:     true,
		Profit:        profit,
		SellerShare:   seller,
		OperatorShare: operator,
		Levels:        levels,
	}
}

// RoundMinor redondea un monto a la unidad mínima de la moneda (half-up).
// Se aplica únicamente al persistir, nunca en pasos intermedios.
func RoundMinor(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}
