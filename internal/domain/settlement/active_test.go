package settlement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/settlement"
)

func TestSelectActive(t *testing.T) {
	inactivo := func(id string, seq int) entity.Settlement {
		return entity.Settlement{ID: id, TrancheSeq: seq, State: entity.SettlementStateInactive}
	}

	t.Run("el PENDING gana siempre", func(t *testing.T) {
		s, ok := settlement.SelectActive([]entity.Settlement{
			inactivo("s-1", 1),
			{ID: "s-2", TrancheSeq: 2, State: entity.SettlementStatePending},
		})
		require.True(t, ok)
		assert.Equal(t, "s-2", s.ID)
	})

	t.Run("sin PENDING gana el INACTIVE de tanda más baja", func(t *testing.T) {
		s, ok := settlement.SelectActive([]entity.Settlement{
			inactivo("s-3", 3),
			inactivo("s-1", 1),
			{ID: "s-0", TrancheSeq: 1, State: entity.SettlementStateSuccess},
		})
		require.True(t, ok)
		assert.Equal(t, "s-1", s.ID)
	})

	t.Run("solo terminales no hay activo", func(t *testing.T) {
		_, ok := settlement.SelectActive([]entity.Settlement{
			{ID: "s-1", State: entity.SettlementStateSuccess},
			{ID: "s-2", State: entity.SettlementStateClosedByWholesale},
		})
		assert.False(t, ok)
	})

	t.Run("lista vacía", func(t *testing.T) {
		_, ok := settlement.SelectActive(nil)
		assert.False(t, ok)
	})
}

// TestRecomputeIsNoop verifica que diferencias menores a la unidad mínima de
// moneda se descartan y el resto se persiste.
func TestRecomputeIsNoop(t *testing.T) {
	min := dec("1")
	assert.True(t, settlement.RecomputeIsNoop(dec("100"), dec("100"), min))
	assert.True(t, settlement.RecomputeIsNoop(dec("100"), dec("100.99"), min))
	assert.True(t, settlement.RecomputeIsNoop(dec("100"), dec("99.01"), min))
	assert.False(t, settlement.RecomputeIsNoop(dec("100"), dec("101"), min))
	assert.False(t, settlement.RecomputeIsNoop(dec("100"), dec("98.5"), min))
}
