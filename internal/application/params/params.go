// Package params define el puerto de parámetros de negocio. Ningún
// componente del núcleo quema precios, porcentajes ni umbrales: todos se
// consultan por clave a un Provider inyectado.
package params

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/planner"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/settlement"
)

// Claves de parámetros numéricos.
const (
	KeyUnitPrice           = "UNIT_PRICE"             // precio unitario de venta al detalle
	KeyFlatSellerPct       = "FLAT_SELLER_PCT"        // porcentaje del vendedor en FLAT_SPLIT (0..1)
	KeySplitThreshold      = "SPLIT_THRESHOLD"        // unidades máximas para partir en 2 tandas
	KeyTriggerEarlyPct     = "TRIGGER_EARLY_PCT"      // % de stock que dispara el cuadre temprano
	KeyTriggerLatePct      = "TRIGGER_LATE_PCT"       // % de stock que dispara el cuadre de la última tanda
	KeyLowStockPct         = "LOW_STOCK_PCT"          // % de stock que dispara la alerta de stock bajo
	KeyRecomputeMinDelta   = "RECOMPUTE_MIN_DELTA"    // diferencia mínima para persistir un recálculo
	KeyTransitDelayMinutes = "TRANSIT_DELAY_MINUTES"  // retardo RELEASED -> IN_TRANSIT
	KeyCurrencyPrecision   = "CURRENCY_PRECISION"     // decimales de la unidad mínima de moneda
	KeyRegalosLimit        = "REGALOS_LIMIT"          // cuota de unidades de regalo por tanda
	KeyUnitInvestment      = "UNIT_INVESTMENT_COST"   // costo de inversión por unidad (lotes forzados)
	KeyOperatorInvPct      = "OPERATOR_INV_PCT"       // porción del operador en la inversión (0..1)
	KeyTier1MinUnits       = "WS_TIER1_MIN_UNITS"     // escalón mayorista superior
	KeyTier1PriceLiquor    = "WS_TIER1_PRICE_LIQUOR"
	KeyTier1Price          = "WS_TIER1_PRICE"
	KeyTier2MinUnits       = "WS_TIER2_MIN_UNITS"
	KeyTier2PriceLiquor    = "WS_TIER2_PRICE_LIQUOR"
	KeyTier2Price          = "WS_TIER2_PRICE"
	KeyTier3MinUnits       = "WS_TIER3_MIN_UNITS"     // escalón mínimo: bajo este piso se rechaza
	KeyTier3PriceLiquor    = "WS_TIER3_PRICE_LIQUOR"
	KeyTier3Price          = "WS_TIER3_PRICE"
)

// Provider entrega el valor vigente de un parámetro por clave. Debe devolver
// un valor estable durante un mismo cálculo; Resolve toma un snapshot
// completo al inicio de cada operación para garantizarlo.
type Provider interface {
	GetNumber(key string) decimal.Decimal
}

// Snapshot es la foto de los parámetros usada por una operación completa.
type Snapshot struct {
	UnitPrice         decimal.Decimal
	FlatSellerPct     decimal.Decimal
	SplitThreshold    int
	Trigger           settlement.TriggerConfig
	LowStockPct       decimal.Decimal
	RecomputeMinDelta decimal.Decimal
	TransitDelay      time.Duration
	CurrencyPrecision int32
	RegalosLimit      int
	UnitInvestment    decimal.Decimal
	OperatorInvPct    decimal.Decimal
	PriceTable        planner.PriceTable
}

// Resolve toma el snapshot de todos los parámetros de una vez.
func Resolve(p Provider) Snapshot {
	return Snapshot{
		UnitPrice:      p.GetNumber(KeyUnitPrice),
		FlatSellerPct:  p.GetNumber(KeyFlatSellerPct),
		SplitThreshold: int(p.GetNumber(KeySplitThreshold).IntPart()),
		Trigger: settlement.TriggerConfig{
			EarlyPct: p.GetNumber(KeyTriggerEarlyPct),
			LatePct:  p.GetNumber(KeyTriggerLatePct),
		},
		LowStockPct:       p.GetNumber(KeyLowStockPct),
		RecomputeMinDelta: p.GetNumber(KeyRecomputeMinDelta),
		TransitDelay:      time.Duration(p.GetNumber(KeyTransitDelayMinutes).IntPart()) * time.Minute,
		CurrencyPrecision: int32(p.GetNumber(KeyCurrencyPrecision).IntPart()),
		RegalosLimit:      int(p.GetNumber(KeyRegalosLimit).IntPart()),
		UnitInvestment:    p.GetNumber(KeyUnitInvestment),
		OperatorInvPct:    p.GetNumber(KeyOperatorInvPct),
		PriceTable: planner.PriceTable{
			{
				MinUnits:           int(p.GetNumber(KeyTier1MinUnits).IntPart()),
				PriceWithLiquor:    p.GetNumber(KeyTier1PriceLiquor),
				PriceWithoutLiquor: p.GetNumber(KeyTier1Price),
			},
			{
				MinUnits:           int(p.GetNumber(KeyTier2MinUnits).IntPart()),
				PriceWithLiquor:    p.GetNumber(KeyTier2PriceLiquor),
				PriceWithoutLiquor: p.GetNumber(KeyTier2Price),
			},
			{
				MinUnits:           int(p.GetNumber(KeyTier3MinUnits).IntPart()),
				PriceWithLiquor:    p.GetNumber(KeyTier3PriceLiquor),
				PriceWithoutLiquor: p.GetNumber(KeyTier3Price),
			},
		},
	}
}
