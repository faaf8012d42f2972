// Package params implementa el proveedor de parámetros de negocio sobre
// Viper: valores por defecto en código, sobreescribibles por variables de
// entorno con prefijo PARAM_ (ej. PARAM_UNIT_PRICE=9500).
package params

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	appparams "github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/params"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/pkg/logger"
)

var _ appparams.Provider = (*ViperProvider)(nil)

// ViperProvider resuelve parámetros por clave. Los defaults reflejan la
// operación en pesos colombianos (precisión 0: la unidad mínima es 1 peso).
type ViperProvider struct {
	v   *viper.Viper
	log *logger.Logger
}

// NewViperProvider construye el proveedor con los defaults de negocio.
func NewViperProvider(log *logger.Logger) *ViperProvider {
	v := viper.New()
	v.SetEnvPrefix("PARAM")
	v.AutomaticEnv()

	defaults := map[string]string{
		appparams.KeyUnitPrice:           "10000",
		appparams.KeyFlatSellerPct:       "0.5",
		appparams.KeySplitThreshold:      "50",
		// Porcentajes de stock en escala 0..100, como los reporta la tanda.
		appparams.KeyTriggerEarlyPct:     "10",
		appparams.KeyTriggerLatePct:      "20",
		appparams.KeyLowStockPct:         "25",
		appparams.KeyRecomputeMinDelta:   "1",
		appparams.KeyTransitDelayMinutes: "120",
		appparams.KeyCurrencyPrecision:   "0",
		appparams.KeyRegalosLimit:        "2",
		appparams.KeyUnitInvestment:      "4000",
		appparams.KeyOperatorInvPct:      "0.5",
		appparams.KeyTier1MinUnits:       "100",
		appparams.KeyTier1PriceLiquor:    "7500",
		appparams.KeyTier1Price:          "7000",
		appparams.KeyTier2MinUnits:       "50",
		appparams.KeyTier2PriceLiquor:    "8000",
		appparams.KeyTier2Price:          "7500",
		appparams.KeyTier3MinUnits:       "20",
		appparams.KeyTier3PriceLiquor:    "8500",
		appparams.KeyTier3Price:          "8000",
	}
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	return &ViperProvider{v: v, log: log}
}

// GetNumber devuelve el valor vigente de la clave. Un valor mal formado en el
// entorno cae al default en cero y queda registrado; los parámetros no deben
// tumbar una operación.
func (p *ViperProvider) GetNumber(key string) decimal.Decimal {
	raw := p.v.GetString(key)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		p.log.Error().Err(err).Str("param", key).Str("valor", raw).
			Msg("parámetro numérico inválido, usando cero")
		return decimal.Zero
	}
	return d
}
