package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una tanda. El orden es estricto:
// ninguna transición puede saltarse estados ni retroceder.
const (
	TrancheStateInactive  = "INACTIVE"
	TrancheStateReleased  = "RELEASED"
	TrancheStateInTransit = "IN_TRANSIT"
	TrancheStateInHome    = "IN_HOME"
	TrancheStateFinalized = "FINALIZED"
)

// Tranche es una subasignación fija de las unidades de un lote, numerada 1..N.
// La tanda N+1 solo puede salir de INACTIVE cuando el cuadre de la tanda N
// llegó a SUCCESS (o fue cerrado por un cuadre mayor).
type Tranche struct {
	ID                string
	BatchID           string
	Seq               int // número de tanda, 1..N
	InitialStock      int
	CurrentStock      int // invariante: CurrentStock <= InitialStock
	WholesaleConsumed int // unidades consumidas por pedidos mayoristas
	State             string
	ReleasedAt        *time.Time
	TransitAt         *time.Time
	DeliveredAt       *time.Time
	FinalizedAt       *time.Time
	Version           int64
}

// StockPercent devuelve el porcentaje de stock restante (0..100).
// Con InitialStock cero devuelve cero para no dividir por cero.
func (t *Tranche) StockPercent() decimal.Decimal {
	if t.InitialStock <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(t.CurrentStock)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(t.InitialStock)))
}
