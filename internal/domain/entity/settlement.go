package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del cuadre. SUCCESS y CLOSED_BY_WHOLESALE son terminales:
// un cuadre que llegó a cualquiera de los dos no acepta más mutaciones.
const (
	SettlementStateInactive          = "INACTIVE"
	SettlementStatePending           = "PENDING"
	SettlementStateSuccess           = "SUCCESS"
	SettlementStateClosedByWholesale = "CLOSED_BY_WHOLESALE"
)

// Conceptos de cuadre: qué compone el monto esperado.
const (
	ConceptInvestmentOnly = "INVESTMENT_ONLY"
	ConceptProfitOnly     = "PROFIT_ONLY"
	ConceptMixed          = "MIXED"
)

// Settlement ("cuadre") es la obligación del vendedor de entregar dinero
// asociada a una tanda. Existe a lo sumo un cuadre activo por tanda; se crea
// en estado INACTIVE al activar el lote, uno por tanda.
// Invariante: ExpectedAmount - CoveredByWholesale - ReceivedAmount == Shortfall
// (con piso en cero una vez exitoso).
type Settlement struct {
	ID                  string
	TrancheID           string
	BatchID             string
	SellerID            string
	TrancheSeq          int // copia del número de tanda, para ordenar la selección del cuadre activo
	Concept             string
	ExpectedAmount      decimal.Decimal
	ReceivedAmount      decimal.Decimal
	Shortfall           decimal.Decimal
	CoveredByWholesale  decimal.Decimal // porción ya cubierta por un cuadre mayor
	State               string
	ClosedByWholesaleID *string // cuadre mayor que lo cerró o cubrió parcialmente
	Final               bool    // mini-cuadre final del lote (última tanda agotada)
	PendingAt           *time.Time
	SuccessAt           *time.Time
	Version             int64
}

// IsTerminal indica si el cuadre ya no admite transiciones ni mutaciones.
func (s *Settlement) IsTerminal() bool {
	return s.State == SettlementStateSuccess || s.State == SettlementStateClosedByWholesale
}

// RemainingShortfall devuelve lo que falta por entregar: esperado menos lo
// cubierto por cuadre mayor menos lo recibido, con piso en cero.
func (s *Settlement) RemainingShortfall() decimal.Decimal {
	rem := s.ExpectedAmount.Sub(s.CoveredByWholesale).Sub(s.ReceivedAmount)
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}
