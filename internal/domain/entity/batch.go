package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un lote.
const (
	BatchStateCreated   = "CREATED"
	BatchStateActive    = "ACTIVE"
	BatchStateFinalized = "FINALIZED"
)

// Modelos de reparto de utilidad de un lote.
const (
	PayoutModelFlat    = "FLAT_SPLIT" // porcentaje fijo vendedor/operador
	PayoutModelCascade = "CASCADE"    // cascada decreciente hacia la cadena de reclutadores
)

// Batch representa un lote de inventario comprado, asignado a un vendedor
// y dividido en tandas secuenciales. Los montos usan decimal exacto.
type Batch struct {
	ID                 string
	SellerID           string
	TotalUnits         int
	PayoutModel        string
	TotalInvestment    decimal.Decimal // SellerInvestment + OperatorInvestment
	SellerInvestment   decimal.Decimal
	OperatorInvestment decimal.Decimal
	MoneyCollected     decimal.Decimal // recaudado por ventas aprobadas
	MoneyRemitted      decimal.Decimal // entregado al operador vía cuadres
	State              string
	Forced             bool    // creado para cubrir el faltante de un pedido mayorista
	WholesaleOrderID   *string // pedido mayorista de origen, si Forced
	CreatedAt          time.Time
	ActivatedAt        *time.Time
	FinalizedAt        *time.Time
	Version            int64 // contador de lock optimista
}

// PendingRemittance devuelve lo recaudado que aún no se ha entregado al operador.
func (b *Batch) PendingRemittance() decimal.Decimal {
	return b.MoneyCollected.Sub(b.MoneyRemitted)
}

// InvestmentRecovered indica si lo recaudado ya cubre la inversión total del lote.
func (b *Batch) InvestmentRecovered() bool {
	return b.MoneyCollected.GreaterThanOrEqual(b.TotalInvestment)
}
