package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pedido mayorista.
const (
	WholesaleOrderStatePending   = "PENDING"
	WholesaleOrderStateCompleted = "COMPLETED"
	WholesaleOrderStateCancelled = "CANCELLED"
)

// Origen del stock consumido por un pedido mayorista.
const (
	StockSourceReserved = "RESERVED" // tandas INACTIVE (aún no entregadas al vendedor)
	StockSourceInHome   = "IN_HOME"  // tandas en manos del vendedor
	StockSourceForced   = "FORCED"   // lote forzado creado para cubrir el faltante
)

// StockSource registra de qué tanda salió cada porción de un pedido mayorista.
type StockSource struct {
	TrancheID string
	BatchID   string
	Quantity  int
	Kind      string
}

// WholesaleOrder es un pedido grande que puede abarcar varios lotes y forzar
// la creación de uno nuevo. El precio unitario se resuelve por escalones.
type WholesaleOrder struct {
	ID            string
	SellerID      string
	Units         int
	UnitPrice     decimal.Decimal
	GrossRevenue  decimal.Decimal // Units * UnitPrice
	WithLiquor    bool
	PaymentMethod string
	Sources       []StockSource
	BatchIDs      []string
	ForcedBatchID *string
	State         string
	CreatedAt     time.Time
	CompletedAt   *time.Time
}

// Estados de un cuadre mayor.
const (
	WholesaleSettlementStatePending   = "PENDING"
	WholesaleSettlementStateCompleted = "COMPLETED"
)

// SourceBreakdown desglosa inversión y utilidad por fuente de stock consumida.
type SourceBreakdown struct {
	TrancheID  string
	BatchID    string
	Quantity   int
	Investment decimal.Decimal
	Profit     decimal.Decimal
}

// WholesaleSettlement ("cuadre mayor") cierra un pedido mayorista: desglose por
// fuente, pagos a la cadena de reclutadores y los cuadres por tanda que cubre.
type WholesaleSettlement struct {
	ID                  string
	OrderID             string
	SellerID            string
	Breakdown           []SourceBreakdown
	Payouts             []RecruiterPayout
	SellerTotal         decimal.Decimal
	OperatorTotal       decimal.Decimal
	ClosedSettlementIDs []string
	State               string
	CreatedAt           time.Time
	CompletedAt         *time.Time
}

// RecruiterPayout es el pago a un reclutador de la cadena ascendente.
// Level es la distancia al vendedor que originó el pedido (1 = el más cercano).
type RecruiterPayout struct {
	ID                    string
	WholesaleSettlementID string
	RecruiterID           string
	Level                 int
	Amount                decimal.Decimal
	Transferred           bool
	TransferredAt         *time.Time
}
