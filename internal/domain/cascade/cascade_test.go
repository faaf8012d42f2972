package cascade_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/cascade"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func cadena(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("reclutador-%d", i+1)
	}
	return out
}

func TestDistribute_SinUtilidad(t *testing.T) {
	// Ingresos iguales o menores a la inversión: todas las porciones en cero.
	for _, proceeds := range []string{"100000", "99999"} {
		r := cascade.Distribute(dec(proceeds), dec("100000"), entity.PayoutModelCascade, dec("0.5"), cadena(2))
		assert.False(t, r.HasProfit)
		assert.True(t, r.Profit.IsZero())
		assert.True(t, r.SellerShare.IsZero())
		assert.True(t, r.OperatorShare.IsZero())
		assert.Empty(t, r.Levels)
	}
}

func TestDistribute_Flat(t *testing.T) {
	r := cascade.Distribute(dec("150000"), dec("100000"), entity.PayoutModelFlat, dec("0.6"), nil)
	require.True(t, r.HasProfit)
	assert.True(t, r.SellerShare.Equal(dec("30000")), "vendedor: %s", r.SellerShare)
	assert.True(t, r.OperatorShare.Equal(dec("20000")), "operador: %s", r.OperatorShare)
	assert.Empty(t, r.Levels)
}

// TestDistribute_CascadaMitades verifica la cadena de mitades con la
// absorción del residuo: el operador recibe exactamente lo mismo que el
// último reclutador de la cadena.
func TestDistribute_CascadaMitades(t *testing.T) {
	// Utilidad 80000: vendedor 40000, nivel 1 20000, nivel 2 10000, operador 10000.
	r := cascade.Distribute(dec("180000"), dec("100000"), entity.PayoutModelCascade, dec("0.5"), cadena(2))
	require.True(t, r.HasProfit)
	assert.True(t, r.SellerShare.Equal(dec("40000")))
	require.Len(t, r.Levels, 2)
	assert.True(t, r.Levels[0].Amount.Equal(dec("20000")))
	assert.True(t, r.Levels[1].Amount.Equal(dec("10000")))
	assert.True(t, r.OperatorShare.Equal(r.Levels[1].Amount),
		"el operador debe igualar al último nivel: %s vs %s", r.OperatorShare, r.Levels[1].Amount)
	assert.Equal(t, 1, r.Levels[0].Level)
	assert.Equal(t, "reclutador-1", r.Levels[0].RecruiterID)
}

func TestDistribute_CadenaVacia(t *testing.T) {
	// Sin reclutadores el operador recibe el mismo 50% que el vendedor.
	r := cascade.Distribute(dec("120000"), dec("100000"), entity.PayoutModelCascade, dec("0.5"), nil)
	require.True(t, r.HasProfit)
	assert.True(t, r.SellerShare.Equal(dec("10000")))
	assert.True(t, r.OperatorShare.Equal(dec("10000")))
}

// TestDistribute_SumaExacta comprueba, para cadenas de 0 a 5 niveles y
// utilidades que no dividen limpio entre potencias de dos, que las porciones
// suman la utilidad exacta sin fuga de redondeo.
func TestDistribute_SumaExacta(t *testing.T) {
	utilidades := []string{"1", "3", "7777", "99999.99", "123456.71"}
	for n := 0; n <= 5; n++ {
		for _, u := range utilidades {
			t.Run(fmt.Sprintf("niveles=%d/utilidad=%s", n, u), func(t *testing.T) {
				r := cascade.Distribute(dec(u), decimal.Zero, entity.PayoutModelCascade, dec("0.5"), cadena(n))
				total := r.SellerShare.Add(r.OperatorShare)
				for _, lvl := range r.Levels {
					total = total.Add(lvl.Amount)
				}
				require.True(t, total.Equal(r.Profit),
					"suma %s != utilidad %s", total, r.Profit)
			})
		}
	}
}

func TestRoundMinor(t *testing.T) {
	// Half-up a la unidad mínima (precisión 0 para pesos).
	assert.True(t, cascade.RoundMinor(dec("10.5"), 0).Equal(dec("11")))
	assert.True(t, cascade.RoundMinor(dec("10.4"), 0).Equal(dec("10")))
	assert.True(t, cascade.RoundMinor(dec("10.125"), 2).Equal(dec("10.13")))
}
