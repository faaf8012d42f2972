package settlement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/effect"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/settlement"
)

func cuadrePendiente(expected string) entity.Settlement {
	return entity.Settlement{
		ID:             "s-1",
		TrancheID:      "t-2",
		BatchID:        "b-1",
		SellerID:       "v-1",
		TrancheSeq:     2,
		Concept:        entity.ConceptMixed,
		ExpectedAmount: dec(expected),
		Shortfall:      dec(expected),
		State:          entity.SettlementStatePending,
	}
}

func TestConfirm_MontoCompleto(t *testing.T) {
	s := cuadrePendiente("80000")
	out, effects, err := settlement.Confirm(s, dec("80000"), ahora)
	require.NoError(t, err)
	assert.Equal(t, entity.SettlementStateSuccess, out.State)
	assert.True(t, out.Shortfall.IsZero())
	assert.True(t, out.ReceivedAmount.Equal(dec("80000")))
	require.NotNil(t, out.SuccessAt)

	// Efectos: notificar y liberar la siguiente tanda del lote.
	require.Len(t, effects, 2)
	assert.Equal(t, effect.NotifySettlementSuccess, effects[0].NotifyKind)
	assert.Equal(t, effect.KindReleaseNextTranche, effects[1].Kind)
	assert.Equal(t, 2, effects[1].AfterSeq)
}

func TestConfirm_MontoInsuficiente(t *testing.T) {
	s := cuadrePendiente("80000")
	_, _, err := settlement.Confirm(s, dec("79999.99"), ahora)
	assert.ErrorIs(t, err, domain.ErrAmountBelowExpected)

	var amountErr *domain.AmountError
	require.ErrorAs(t, err, &amountErr)
	assert.True(t, amountErr.Expected.Equal(dec("80000")))
}

func TestConfirm_DescuentaLoCubiertoPorMayorista(t *testing.T) {
	s := cuadrePendiente("80000")
	s.CoveredByWholesale = dec("30000")

	// 49999 no alcanza; 50000 sí.
	_, _, err := settlement.Confirm(s, dec("49999"), ahora)
	assert.ErrorIs(t, err, domain.ErrAmountBelowExpected)

	out, _, err := settlement.Confirm(s, dec("50000"), ahora)
	require.NoError(t, err)
	assert.Equal(t, entity.SettlementStateSuccess, out.State)
}

// TestEstadosTerminalesInmutables verifica que SUCCESS y CLOSED_BY_WHOLESALE
// no aceptan más transiciones.
func TestEstadosTerminalesInmutables(t *testing.T) {
	for _, estado := range []string{entity.SettlementStateSuccess, entity.SettlementStateClosedByWholesale} {
		s := cuadrePendiente("80000")
		s.State = estado
		require.True(t, s.IsTerminal())

		_, _, err := settlement.Confirm(s, dec("80000"), ahora)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition, "confirm sobre %s", estado)
		_, err = settlement.CloseByWholesale(s, "ws-1", dec("1"), ahora)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition, "close sobre %s", estado)
		_, _, err = settlement.Activate(s, ahora)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition, "activate sobre %s", estado)
	}
}

func TestCloseByWholesale_Parcial(t *testing.T) {
	s := cuadrePendiente("80000")
	out, err := settlement.CloseByWholesale(s, "ws-1", dec("30000"), ahora)
	require.NoError(t, err)

	// Cobertura parcial: sigue PENDING con el faltante reducido.
	assert.Equal(t, entity.SettlementStatePending, out.State)
	assert.True(t, out.Shortfall.Equal(dec("50000")))
	require.NotNil(t, out.ClosedByWholesaleID)
	assert.Equal(t, "ws-1", *out.ClosedByWholesaleID)
}

func TestCloseByWholesale_Total(t *testing.T) {
	s := cuadrePendiente("80000")
	out, err := settlement.CloseByWholesale(s, "ws-1", dec("80000"), ahora)
	require.NoError(t, err)
	assert.Equal(t, entity.SettlementStateClosedByWholesale, out.State)
	assert.True(t, out.Shortfall.IsZero())
	require.NotNil(t, out.SuccessAt)
}

func TestArmFinal(t *testing.T) {
	lote := entity.Batch{
		ID:             "b-1",
		SellerID:       "v-1",
		MoneyCollected: dec("500000"),
		MoneyRemitted:  dec("300000"),
	}
	ultima := entity.Tranche{ID: "t-3", Seq: 3}

	s := settlement.ArmFinal(lote, ultima, dec("120000"), "s-final")
	assert.True(t, s.Final)
	assert.Equal(t, entity.ConceptProfitOnly, s.Concept)
	assert.Equal(t, entity.SettlementStateInactive, s.State)
	// 500000 - 300000 - 120000 = 80000
	assert.True(t, s.ExpectedAmount.Equal(dec("80000")))
	assert.True(t, s.Shortfall.Equal(dec("80000")))

	// La utilidad pendiente mayor a lo retenido deja el esperado en cero.
	s = settlement.ArmFinal(lote, ultima, dec("250000"), "s-final")
	assert.True(t, s.ExpectedAmount.IsZero())
}
