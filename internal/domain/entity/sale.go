package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta al detalle sobre una tanda.
const (
	SaleStateHeld     = "HELD"     // stock descontado tentativamente
	SaleStateApproved = "APPROVED" // descuento definitivo; suma a MoneyCollected
	SaleStateRejected = "REJECTED" // stock restaurado
)

// Sale es una venta al detalle contra la tanda IN_HOME del vendedor.
// El descuento de stock es tentativo hasta que un admin la apruebe.
type Sale struct {
	ID         string
	TrancheID  string
	BatchID    string
	SellerID   string
	Units      int
	Amount     decimal.Decimal
	GiftUnits  int // unidades de regalo incluidas (cuota validada aparte)
	State      string
	CreatedAt  time.Time
	ResolvedAt *time.Time
}
