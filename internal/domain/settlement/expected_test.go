package settlement_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/settlement"
)

// Lote de referencia: 100 unidades, inversión total 400000 con 240000 del
// operador, recaudo 700000 con modelo de mitades.
func loteRef() entity.Batch {
	return entity.Batch{
		ID:                 "b-1",
		TotalUnits:         100,
		PayoutModel:        entity.PayoutModelCascade,
		TotalInvestment:    dec("400000"),
		OperatorInvestment: dec("240000"),
		MoneyCollected:     dec("700000"),
	}
}

func TestExpectedAmount_SoloInversion(t *testing.T) {
	// Tanda de 40 unidades: 240000 * 40/100 = 96000.
	got := settlement.ExpectedAmount(settlement.ExpectedInput{
		Concept: entity.ConceptInvestmentOnly,
		Batch:   loteRef(),
		Tranche: entity.Tranche{InitialStock: 40},
	})
	assert.True(t, got.Equal(dec("96000")), "esperado %s", got)
}

func TestExpectedAmount_SoloUtilidad(t *testing.T) {
	// Utilidad 300000, cadena de 1: vendedor 150000, nivel1 75000, operador 75000.
	got := settlement.ExpectedAmount(settlement.ExpectedInput{
		Concept: entity.ConceptProfitOnly,
		Batch:   loteRef(),
		Tranche: entity.Tranche{InitialStock: 40},
		Chain:   []string{"r-1"},
	})
	assert.True(t, got.Equal(dec("75000")), "esperado %s", got)
}

func TestExpectedAmount_Mixto(t *testing.T) {
	// 96000 de inversión + 75000 de utilidad.
	got := settlement.ExpectedAmount(settlement.ExpectedInput{
		Concept: entity.ConceptMixed,
		Batch:   loteRef(),
		Tranche: entity.Tranche{InitialStock: 40},
		Chain:   []string{"r-1"},
	})
	assert.True(t, got.Equal(dec("171000")), "esperado %s", got)
}

func TestExpectedAmount_SumaDeudaDeEquipos(t *testing.T) {
	got := settlement.ExpectedAmount(settlement.ExpectedInput{
		Concept:       entity.ConceptInvestmentOnly,
		Batch:         loteRef(),
		Tranche:       entity.Tranche{InitialStock: 40},
		EquipmentDebt: dec("15000"),
	})
	assert.True(t, got.Equal(dec("111000")), "esperado %s", got)
}

func TestExpectedAmount_SinUtilidadNoSumaNada(t *testing.T) {
	lote := loteRef()
	lote.MoneyCollected = dec("350000") // por debajo de la inversión

	got := settlement.ExpectedAmount(settlement.ExpectedInput{
		Concept: entity.ConceptProfitOnly,
		Batch:   lote,
		Tranche: entity.Tranche{InitialStock: 40},
		Chain:   []string{"r-1"},
	})
	assert.True(t, got.IsZero(), "esperado cero, vino %s", got)
}

func TestExpectedAmount_ModeloFlat(t *testing.T) {
	lote := loteRef()
	lote.PayoutModel = entity.PayoutModelFlat

	// Utilidad 300000 con 60% para el vendedor: operador 120000.
	got := settlement.ExpectedAmount(settlement.ExpectedInput{
		Concept:       entity.ConceptProfitOnly,
		Batch:         lote,
		Tranche:       entity.Tranche{InitialStock: 40},
		FlatSellerPct: decimal.NewFromFloat(0.6),
	})
	assert.True(t, got.Equal(dec("120000")), "esperado %s", got)
}

func TestExpectedAmount_LoteSinUnidades(t *testing.T) {
	lote := loteRef()
	lote.TotalUnits = 0

	got := settlement.ExpectedAmount(settlement.ExpectedInput{
		Concept: entity.ConceptInvestmentOnly,
		Batch:   lote,
		Tranche: entity.Tranche{InitialStock: 40},
	})
	assert.True(t, got.IsZero())
}
