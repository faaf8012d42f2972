package settlement_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/effect"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/settlement"
)

var (
	ahora  = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	config = settlement.TriggerConfig{
		EarlyPct: decimal.NewFromInt(10),
		LatePct:  decimal.NewFromInt(20),
	}
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestTriggerThreshold(t *testing.T) {
	cases := []struct {
		nombre      string
		numTranches int
		seq         int
		want        string
		tiene       bool
	}{
		{"3 tandas: la primera no dispara", 3, 1, "0", false},
		{"3 tandas: la segunda dispara temprano", 3, 2, "10", true},
		{"3 tandas: la tercera dispara tarde", 3, 3, "20", true},
		{"2 tandas: la primera dispara temprano", 2, 1, "10", true},
		{"2 tandas: la segunda dispara tarde", 2, 2, "20", true},
		{"seq fuera de rango", 3, 4, "0", false},
	}
	for _, tc := range cases {
		t.Run(tc.nombre, func(t *testing.T) {
			got, ok := settlement.TriggerThreshold(tc.numTranches, tc.seq, config)
			assert.Equal(t, tc.tiene, ok)
			assert.True(t, got.Equal(dec(tc.want)), "umbral %s", got)
		})
	}
}

// TestShouldTrigger_Inclusivo verifica que la comparación del stock restante
// contra el umbral es <=: exactamente el 10% ya dispara.
func TestShouldTrigger_Inclusivo(t *testing.T) {
	tanda := entity.Tranche{Seq: 2, InitialStock: 100}

	tanda.CurrentStock = 11
	assert.False(t, settlement.ShouldTrigger(tanda, 3, config))

	tanda.CurrentStock = 10
	assert.True(t, settlement.ShouldTrigger(tanda, 3, config))

	tanda.CurrentStock = 0
	assert.True(t, settlement.ShouldTrigger(tanda, 3, config))

	// La primera tanda de un lote de 3 nunca dispara por stock.
	primera := entity.Tranche{Seq: 1, InitialStock: 100, CurrentStock: 0}
	assert.False(t, settlement.ShouldTrigger(primera, 3, config))
}

func TestActivate(t *testing.T) {
	s := entity.Settlement{
		ID:             "s-1",
		SellerID:       "v-1",
		BatchID:        "b-1",
		TrancheID:      "t-1",
		ExpectedAmount: dec("50000"),
		State:          entity.SettlementStateInactive,
	}
	out, effects, err := settlement.Activate(s, ahora)
	require.NoError(t, err)
	assert.Equal(t, entity.SettlementStatePending, out.State)
	assert.True(t, out.Shortfall.Equal(dec("50000")))
	require.NotNil(t, out.PendingAt)
	require.Len(t, effects, 1)
	assert.Equal(t, effect.NotifySettlementPending, effects[0].NotifyKind)

	// Activar un PENDING o un terminal es transición inválida.
	_, _, err = settlement.Activate(out, ahora)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
