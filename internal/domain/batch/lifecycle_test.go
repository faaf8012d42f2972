package batch_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/batch"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/effect"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"
)

var ahora = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func tandaEn(state string) entity.Tranche {
	return entity.Tranche{
		ID:           "t-1",
		BatchID:      "b-1",
		Seq:          1,
		InitialStock: 20,
		CurrentStock: 20,
		State:        state,
	}
}

func TestReleaseTranche(t *testing.T) {
	tr, effects, err := batch.ReleaseTranche(tandaEn(entity.TrancheStateInactive), ahora)
	require.NoError(t, err)
	assert.Equal(t, entity.TrancheStateReleased, tr.State)
	require.NotNil(t, tr.ReleasedAt)
	require.Len(t, effects, 1)
	assert.Equal(t, effect.NotifyTrancheReleased, effects[0].NotifyKind)

	// Liberar dos veces es una transición inválida, no un no-op.
	_, _, err = batch.ReleaseTranche(tr, ahora)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// TestTransicionesNoSaltanNiRegresan recorre la cadena completa y verifica
// que cada paso exige exactamente el estado anterior.
func TestTransicionesNoSaltanNiRegresan(t *testing.T) {
	// Saltos hacia adelante
	_, err := batch.AutoTransit(tandaEn(entity.TrancheStateInactive), ahora)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = batch.ConfirmDelivery(tandaEn(entity.TrancheStateReleased), ahora)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// Regresiones
	_, err = batch.AutoTransit(tandaEn(entity.TrancheStateInHome), ahora)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, _, err = batch.ReleaseTranche(tandaEn(entity.TrancheStateFinalized), ahora)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// Cadena válida completa
	tr, _, err := batch.ReleaseTranche(tandaEn(entity.TrancheStateInactive), ahora)
	require.NoError(t, err)
	tr, err = batch.AutoTransit(tr, ahora.Add(time.Hour))
	require.NoError(t, err)
	tr, err = batch.ConfirmDelivery(tr, ahora.Add(2*time.Hour))
	require.NoError(t, err)
	tr.CurrentStock = 0
	tr, err = batch.FinalizeTranche(tr, ahora.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, entity.TrancheStateFinalized, tr.State)
}

func TestIsTransitDue(t *testing.T) {
	delay := 2 * time.Hour
	tr, _, err := batch.ReleaseTranche(tandaEn(entity.TrancheStateInactive), ahora)
	require.NoError(t, err)

	assert.False(t, batch.IsTransitDue(tr, ahora.Add(delay-time.Minute), delay))
	// El vencimiento es inclusivo.
	assert.True(t, batch.IsTransitDue(tr, ahora.Add(delay), delay))
	assert.False(t, batch.IsTransitDue(tandaEn(entity.TrancheStateInHome), ahora.Add(delay), delay))
}

func TestFinalizeTranche_ExigeStockCero(t *testing.T) {
	tr := tandaEn(entity.TrancheStateInHome)
	tr.CurrentStock = 3
	_, err := batch.FinalizeTranche(tr, ahora)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	tr.CurrentStock = 0
	out, err := batch.FinalizeTranche(tr, ahora)
	require.NoError(t, err)
	assert.Equal(t, entity.TrancheStateFinalized, out.State)
}

// TestFinalizeConsumed cubre el cierre directo de las tandas de lotes
// forzados: agotadas por un pedido mayorista sin pasar por el ciclo de entrega.
func TestFinalizeConsumed(t *testing.T) {
	tr := tandaEn(entity.TrancheStateInactive)
	tr.CurrentStock = 0
	out, err := batch.FinalizeConsumed(tr, ahora)
	require.NoError(t, err)
	assert.Equal(t, entity.TrancheStateFinalized, out.State)
	require.NotNil(t, out.FinalizedAt)

	// Con stock restante o fuera de INACTIVE se rechaza.
	_, err = batch.FinalizeConsumed(tandaEn(entity.TrancheStateInactive), ahora)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	_, err = batch.FinalizeConsumed(tandaEn(entity.TrancheStateInHome), ahora)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestHoldYRestoreStock(t *testing.T) {
	tr := tandaEn(entity.TrancheStateInHome)

	held, err := batch.HoldStock(tr, 5)
	require.NoError(t, err)
	assert.Equal(t, 15, held.CurrentStock)

	_, err = batch.HoldStock(held, 16)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	restored, err := batch.RestoreStock(held, 5)
	require.NoError(t, err)
	assert.Equal(t, 20, restored.CurrentStock)

	// Restaurar por encima del stock inicial se rechaza.
	_, err = batch.RestoreStock(restored, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Solo una tanda en casa vende.
	_, err = batch.HoldStock(tandaEn(entity.TrancheStateReleased), 1)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestFinalizeBatch(t *testing.T) {
	b := entity.Batch{ID: "b-1", State: entity.BatchStateActive}
	tandas := []entity.Tranche{
		tandaEn(entity.TrancheStateFinalized),
		tandaEn(entity.TrancheStateInHome),
	}
	_, err := batch.FinalizeBatch(b, tandas, ahora)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	tandas[1].State = entity.TrancheStateFinalized
	out, err := batch.FinalizeBatch(b, tandas, ahora)
	require.NoError(t, err)
	assert.Equal(t, entity.BatchStateFinalized, out.State)
	require.NotNil(t, out.FinalizedAt)
}
