package wholesale_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/params"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/ports"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/wholesale"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/effect"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/repository"
)

// Fakes en memoria para ejercitar el flujo mayorista completo sin PostgreSQL.

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type wsStore struct {
	batches     map[string]entity.Batch
	tranches    map[string]entity.Tranche
	settlements map[string]entity.Settlement
	orders      map[string]entity.WholesaleOrder
	wsettles    map[string]entity.WholesaleSettlement

	poolDeducted int
}

func newWsStore() *wsStore {
	return &wsStore{
		batches:     map[string]entity.Batch{},
		tranches:    map[string]entity.Tranche{},
		settlements: map[string]entity.Settlement{},
		orders:      map[string]entity.WholesaleOrder{},
		wsettles:    map[string]entity.WholesaleSettlement{},
	}
}

type wsBatchRepo struct{ st *wsStore }

func (r *wsBatchRepo) Create(b *entity.Batch) error {
	r.st.batches[b.ID] = *b
	return nil
}

func (r *wsBatchRepo) GetByID(id string) (*entity.Batch, error) {
	b, ok := r.st.batches[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (r *wsBatchRepo) ListActiveBySeller(sellerID string) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range r.st.batches {
		if b.SellerID == sellerID && b.State == entity.BatchStateActive {
			cp := b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *wsBatchRepo) Update(b *entity.Batch) error {
	if _, ok := r.st.batches[b.ID]; !ok {
		return domain.ErrNotFound
	}
	b.Version++
	r.st.batches[b.ID] = *b
	return nil
}

type wsTrancheRepo struct{ st *wsStore }

func (r *wsTrancheRepo) Create(t *entity.Tranche) error {
	r.st.tranches[t.ID] = *t
	return nil
}

func (r *wsTrancheRepo) GetByID(id string) (*entity.Tranche, error) {
	t, ok := r.st.tranches[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (r *wsTrancheRepo) ListByBatch(batchID string) ([]*entity.Tranche, error) {
	var out []*entity.Tranche
	for _, t := range r.st.tranches {
		if t.BatchID == batchID {
			cp := t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (r *wsTrancheRepo) ListReleasedBefore(time.Time) ([]*entity.Tranche, error) {
	return nil, nil
}

func (r *wsTrancheRepo) Update(t *entity.Tranche) error {
	if _, ok := r.st.tranches[t.ID]; !ok {
		return domain.ErrNotFound
	}
	t.Version++
	r.st.tranches[t.ID] = *t
	return nil
}

func (r *wsTrancheRepo) DecrementStock(id string, version int64, units int) (*entity.Tranche, error) {
	t, ok := r.st.tranches[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if t.Version != version {
		return nil, &domain.VersionConflictError{Entity: "tranche", ID: id, Version: version}
	}
	if t.CurrentStock < units {
		return nil, &domain.StockError{TrancheID: id, Available: t.CurrentStock, Requested: units}
	}
	t.CurrentStock -= units
	t.Version++
	r.st.tranches[id] = t
	return &t, nil
}

func (r *wsTrancheRepo) RestoreStock(id string, units int) (*entity.Tranche, error) {
	t, ok := r.st.tranches[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	t.CurrentStock += units
	if t.CurrentStock > t.InitialStock {
		t.CurrentStock = t.InitialStock
	}
	r.st.tranches[id] = t
	return &t, nil
}

func (r *wsTrancheRepo) ConsumeWholesale(id string, version int64, units int) (*entity.Tranche, error) {
	t, err := r.DecrementStock(id, version, units)
	if err != nil {
		return nil, err
	}
	t.WholesaleConsumed += units
	r.st.tranches[id] = *t
	return t, nil
}

type wsSettlementRepo struct{ st *wsStore }

func (r *wsSettlementRepo) Create(s *entity.Settlement) error {
	r.st.settlements[s.ID] = *s
	return nil
}

func (r *wsSettlementRepo) GetByID(id string) (*entity.Settlement, error) {
	s, ok := r.st.settlements[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (r *wsSettlementRepo) GetByTranche(trancheID string) (*entity.Settlement, error) {
	for _, s := range r.st.settlements {
		if s.TrancheID == trancheID && !s.Final {
			cp := s
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *wsSettlementRepo) ListByBatch(batchID string) ([]*entity.Settlement, error) {
	var out []*entity.Settlement
	for _, s := range r.st.settlements {
		if s.BatchID == batchID {
			cp := s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *wsSettlementRepo) ListOpenBySellerForUpdate(sellerID string) ([]*entity.Settlement, error) {
	var out []*entity.Settlement
	for _, s := range r.st.settlements {
		if s.SellerID == sellerID && !s.IsTerminal() {
			cp := s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *wsSettlementRepo) ListPendingByTranches(trancheIDs []string) ([]*entity.Settlement, error) {
	var out []*entity.Settlement
	for _, id := range trancheIDs {
		for _, s := range r.st.settlements {
			if s.TrancheID == id && s.State == entity.SettlementStatePending {
				cp := s
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

func (r *wsSettlementRepo) Update(s *entity.Settlement) error {
	if _, ok := r.st.settlements[s.ID]; !ok {
		return domain.ErrNotFound
	}
	s.Version++
	r.st.settlements[s.ID] = *s
	return nil
}

type wsOrderRepo struct{ st *wsStore }

func (r *wsOrderRepo) Create(o *entity.WholesaleOrder) error {
	r.st.orders[o.ID] = *o
	return nil
}

func (r *wsOrderRepo) GetByID(id string) (*entity.WholesaleOrder, error) {
	o, ok := r.st.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &o, nil
}

func (r *wsOrderRepo) Update(o *entity.WholesaleOrder) error {
	if _, ok := r.st.orders[o.ID]; !ok {
		return domain.ErrNotFound
	}
	r.st.orders[o.ID] = *o
	return nil
}

type wsSettleRepo struct{ st *wsStore }

func (r *wsSettleRepo) Create(ws *entity.WholesaleSettlement) error {
	r.st.wsettles[ws.ID] = *ws
	return nil
}

func (r *wsSettleRepo) GetByID(id string) (*entity.WholesaleSettlement, error) {
	ws, ok := r.st.wsettles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &ws, nil
}

func (r *wsSettleRepo) MarkPayoutTransferred(string, time.Time) error { return nil }

type wsTxRunner struct{ st *wsStore }

func (r *wsTxRunner) RunWholesale(_ context.Context, fn func(
	repository.BatchRepository,
	repository.TrancheRepository,
	repository.SettlementRepository,
	repository.WholesaleOrderRepository,
	repository.WholesaleSettlementRepository,
	ports.StockPool,
) error) error {
	return fn(
		&wsBatchRepo{r.st}, &wsTrancheRepo{r.st}, &wsSettlementRepo{r.st},
		&wsOrderRepo{r.st}, &wsSettleRepo{r.st}, &wsStockPool{r.st},
	)
}

type wsStockPool struct{ st *wsStore }

func (p *wsStockPool) Deduct(units int) error {
	p.st.poolDeducted += units
	return nil
}

type wsNotifier struct{ sent []ports.Notification }

func (n *wsNotifier) Notify(msg ports.Notification) { n.sent = append(n.sent, msg) }

type wsHierarchy struct{ chain []string }

func (h *wsHierarchy) RecruiterChain(string) ([]string, error) { return h.chain, nil }

type wsParams struct{ values map[string]string }

func (p *wsParams) GetNumber(key string) decimal.Decimal {
	if raw, ok := p.values[key]; ok {
		d, err := decimal.NewFromString(raw)
		if err == nil {
			return d
		}
	}
	return decimal.Zero
}

func wsParamsDePrueba() *wsParams {
	return &wsParams{values: map[string]string{
		params.KeyFlatSellerPct:     "0.5",
		params.KeySplitThreshold:    "50",
		params.KeyCurrencyPrecision: "0",
		params.KeyUnitInvestment:    "4000",
		params.KeyOperatorInvPct:    "0.5",
		params.KeyTier1MinUnits:     "100",
		params.KeyTier1PriceLiquor:  "7500",
		params.KeyTier1Price:        "7000",
		params.KeyTier2MinUnits:     "50",
		params.KeyTier2PriceLiquor:  "8000",
		params.KeyTier2Price:        "7500",
		params.KeyTier3MinUnits:     "20",
		params.KeyTier3PriceLiquor:  "8500",
		params.KeyTier3Price:        "8000",
	}}
}

func motorMayorista(st *wsStore, chain []string) (*wholesale.UseCase, *wsNotifier) {
	notifier := &wsNotifier{}
	uc := wholesale.NewUseCase(
		&wsTxRunner{st},
		notifier,
		&wsHierarchy{chain: chain},
		wsParamsDePrueba(),
	)
	return uc, notifier
}

// TestCreateOrder_PlanificaYFuerzaLote cubre el escenario de referencia:
// 80 unidades reservadas más 30 en casa frente a un pedido de 120 deja un
// faltante de 10 que se cubre con un lote forzado de ese tamaño exacto.
func TestCreateOrder_PlanificaYFuerzaLote(t *testing.T) {
	st := newWsStore()
	st.batches["b-1"] = entity.Batch{
		ID: "b-1", SellerID: "v-1", TotalUnits: 110,
		TotalInvestment: dec("440000"), State: entity.BatchStateActive,
	}
	st.tranches["t-11"] = entity.Tranche{ID: "t-11", BatchID: "b-1", Seq: 1, InitialStock: 30, CurrentStock: 30, State: entity.TrancheStateInHome}
	st.tranches["t-12"] = entity.Tranche{ID: "t-12", BatchID: "b-1", Seq: 2, InitialStock: 80, CurrentStock: 80, State: entity.TrancheStateInactive}
	uc, _ := motorMayorista(st, nil)

	order, err := uc.CreateOrder(context.Background(), wholesale.CreateOrderInput{
		SellerID: "v-1", Units: 120, WithLiquor: false, PaymentMethod: "CASH",
	})
	require.NoError(t, err)

	// Escalón >= 100 sin licor.
	assert.True(t, order.UnitPrice.Equal(dec("7000")))
	assert.True(t, order.GrossRevenue.Equal(dec("840000")))
	assert.Equal(t, entity.WholesaleOrderStatePending, order.State)

	// Reservado primero, luego en casa, luego el lote forzado.
	require.Len(t, order.Sources, 3)
	assert.Equal(t, entity.StockSourceReserved, order.Sources[0].Kind)
	assert.Equal(t, "t-12", order.Sources[0].TrancheID)
	assert.Equal(t, 80, order.Sources[0].Quantity)
	assert.Equal(t, entity.StockSourceInHome, order.Sources[1].Kind)
	assert.Equal(t, 30, order.Sources[1].Quantity)
	assert.Equal(t, entity.StockSourceForced, order.Sources[2].Kind)
	assert.Equal(t, 10, order.Sources[2].Quantity)

	require.NotNil(t, order.ForcedBatchID)
	forced := st.batches[*order.ForcedBatchID]
	assert.Equal(t, 10, forced.TotalUnits)
	assert.True(t, forced.Forced)
	assert.Equal(t, entity.BatchStateCreated, forced.State)
	// Inversión del lote forzado: 10 unidades a 4000, mitad del operador.
	assert.True(t, forced.TotalInvestment.Equal(dec("40000")))
	assert.True(t, forced.OperatorInvestment.Equal(dec("20000")))

	// El plan no consume stock todavía.
	assert.Equal(t, 80, st.tranches["t-12"].CurrentStock)
	assert.Equal(t, 30, st.tranches["t-11"].CurrentStock)
	assert.Equal(t, 0, st.poolDeducted)
}

func TestCreateOrder_RechazaBajoElPiso(t *testing.T) {
	uc, _ := motorMayorista(newWsStore(), nil)

	_, err := uc.CreateOrder(context.Background(), wholesale.CreateOrderInput{
		SellerID: "v-1", Units: 19,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBelowMinimumQuantity)
}

// TestCompleteOrder_CierraCuadresYBalancea verifica el cuadre mayor: consumo
// del plan, cascada sobre la cadena y cierre del cuadre pendiente de la tanda
// consumida con tope en su faltante.
//
// Números: 50 unidades de t-11 a 7500 = 375000 de ingreso; inversión
// prorrateada 200000; utilidad 175000 en cascada con un reclutador:
// vendedor 87500, nivel 1 43750, operador 43750. Total del operador
// (utilidad + inversión) 243750.
func TestCompleteOrder_CierraCuadresYBalancea(t *testing.T) {
	st := newWsStore()
	st.batches["b-1"] = entity.Batch{
		ID: "b-1", SellerID: "v-1", TotalUnits: 100,
		TotalInvestment: dec("400000"), State: entity.BatchStateActive,
	}
	st.tranches["t-11"] = entity.Tranche{ID: "t-11", BatchID: "b-1", Seq: 1, InitialStock: 50, CurrentStock: 50, State: entity.TrancheStateInHome}
	st.settlements["s-11"] = entity.Settlement{
		ID: "s-11", TrancheID: "t-11", BatchID: "b-1", SellerID: "v-1", TrancheSeq: 1,
		Concept: entity.ConceptMixed, State: entity.SettlementStatePending,
		ExpectedAmount: dec("120000"), Shortfall: dec("120000"),
	}
	st.orders["o-1"] = entity.WholesaleOrder{
		ID: "o-1", SellerID: "v-1", Units: 50,
		UnitPrice:    dec("7500"),
		GrossRevenue: dec("375000"),
		Sources: []entity.StockSource{
			{TrancheID: "t-11", BatchID: "b-1", Quantity: 50, Kind: entity.StockSourceInHome},
		},
		BatchIDs: []string{"b-1"},
		State:    entity.WholesaleOrderStatePending,
	}
	uc, _ := motorMayorista(st, []string{"r-1"})

	ws, err := uc.CompleteOrder(context.Background(), "o-1")
	require.NoError(t, err)

	assert.True(t, ws.SellerTotal.Equal(dec("87500")), "vendedor %s", ws.SellerTotal)
	assert.True(t, ws.OperatorTotal.Equal(dec("243750")), "operador %s", ws.OperatorTotal)
	require.Len(t, ws.Payouts, 1)
	assert.Equal(t, "r-1", ws.Payouts[0].RecruiterID)
	assert.Equal(t, 1, ws.Payouts[0].Level)
	assert.True(t, ws.Payouts[0].Amount.Equal(dec("43750")))

	require.Len(t, ws.Breakdown, 1)
	assert.True(t, ws.Breakdown[0].Investment.Equal(dec("200000")))
	assert.True(t, ws.Breakdown[0].Profit.Equal(dec("175000")))

	// El cuadre pendiente quedó cerrado por el cuadre mayor, con la cobertura
	// topada en su faltante.
	require.Contains(t, ws.ClosedSettlementIDs, "s-11")
	s11 := st.settlements["s-11"]
	assert.Equal(t, entity.SettlementStateClosedByWholesale, s11.State)
	assert.True(t, s11.CoveredByWholesale.Equal(dec("120000")))
	assert.True(t, s11.Shortfall.IsZero())
	require.NotNil(t, s11.ClosedByWholesaleID)
	assert.Equal(t, ws.ID, *s11.ClosedByWholesaleID)

	// Stock consumido y pedido completado.
	t11 := st.tranches["t-11"]
	assert.Equal(t, 0, t11.CurrentStock)
	assert.Equal(t, 50, t11.WholesaleConsumed)
	assert.Equal(t, entity.WholesaleOrderStateCompleted, st.orders["o-1"].State)
}

// TestCompleteOrder_ArmaElCuadreFinalDeLaUltimaTanda verifica que un pedido
// mayorista que deja en cero la última tanda de un lote con recaudo al detalle
// sin entregar arma y activa el mini-cuadre final en la misma transacción.
// Sin este paso el lote quedaría abierto para siempre: ninguna venta al
// detalle posterior puede ocurrir sobre una tanda sin stock.
func TestCompleteOrder_ArmaElCuadreFinalDeLaUltimaTanda(t *testing.T) {
	st := newWsStore()
	st.batches["b-1"] = entity.Batch{
		ID: "b-1", SellerID: "v-1", TotalUnits: 50,
		PayoutModel:     entity.PayoutModelCascade,
		TotalInvestment: dec("400000"),
		MoneyCollected:  dec("250000"),
		MoneyRemitted:   decimal.Zero,
		State:           entity.BatchStateActive,
	}
	st.tranches["t-11"] = entity.Tranche{ID: "t-11", BatchID: "b-1", Seq: 1, InitialStock: 50, CurrentStock: 50, State: entity.TrancheStateInHome}
	st.settlements["s-11"] = entity.Settlement{
		ID: "s-11", TrancheID: "t-11", BatchID: "b-1", SellerID: "v-1", TrancheSeq: 1,
		Concept: entity.ConceptMixed, State: entity.SettlementStatePending,
		ExpectedAmount: dec("120000"), Shortfall: dec("120000"),
	}
	st.orders["o-1"] = entity.WholesaleOrder{
		ID: "o-1", SellerID: "v-1", Units: 50,
		UnitPrice: dec("7500"), GrossRevenue: dec("375000"),
		Sources: []entity.StockSource{
			{TrancheID: "t-11", BatchID: "b-1", Quantity: 50, Kind: entity.StockSourceInHome},
		},
		BatchIDs: []string{"b-1"},
		State:    entity.WholesaleOrderStatePending,
	}
	uc, notifier := motorMayorista(st, []string{"r-1"})

	_, err := uc.CompleteOrder(context.Background(), "o-1")
	require.NoError(t, err)

	assert.Equal(t, entity.SettlementStateClosedByWholesale, st.settlements["s-11"].State)

	var final *entity.Settlement
	for _, s := range st.settlements {
		if s.Final {
			cp := s
			final = &cp
		}
	}
	require.NotNil(t, final, "el mini-cuadre final debe armarse al agotar la última tanda")
	assert.Equal(t, "b-1", final.BatchID)
	assert.Equal(t, "t-11", final.TrancheID)
	// Sin otro PENDING del vendedor, el final se activa de inmediato.
	assert.Equal(t, entity.SettlementStatePending, final.State)
	// Recaudo al detalle sin entregar, sin utilidad (recaudo < inversión).
	assert.True(t, final.ExpectedAmount.Equal(dec("250000")), "esperado %s", final.ExpectedAmount)
	assert.True(t, final.Shortfall.Equal(dec("250000")))

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, effect.NotifySettlementPending, notifier.sent[0].Kind)
	assert.Equal(t, "v-1", notifier.sent[0].SellerID)
}

// TestCompleteOrder_ConsumeYFinalizaElLoteForzado verifica que el lote forzado
// no sobrevive al pedido que lo originó: se activa, descuenta del pool, se
// consume completo y queda FINALIZED con sus tandas FINALIZED.
func TestCompleteOrder_ConsumeYFinalizaElLoteForzado(t *testing.T) {
	st := newWsStore()
	orderID := "o-1"
	st.batches["fb-1"] = entity.Batch{
		ID: "fb-1", SellerID: "v-1", TotalUnits: 10,
		PayoutModel:        entity.PayoutModelCascade,
		TotalInvestment:    dec("40000"),
		SellerInvestment:   dec("20000"),
		OperatorInvestment: dec("20000"),
		State:              entity.BatchStateCreated,
		Forced:             true,
		WholesaleOrderID:   &orderID,
	}
	st.tranches["ft-1"] = entity.Tranche{ID: "ft-1", BatchID: "fb-1", Seq: 1, InitialStock: 10, CurrentStock: 10, State: entity.TrancheStateInactive}
	forcedID := "fb-1"
	st.orders[orderID] = entity.WholesaleOrder{
		ID: orderID, SellerID: "v-1", Units: 10,
		UnitPrice: dec("8000"), GrossRevenue: dec("80000"),
		Sources: []entity.StockSource{
			{BatchID: "fb-1", Quantity: 10, Kind: entity.StockSourceForced},
		},
		BatchIDs:      []string{"fb-1"},
		ForcedBatchID: &forcedID,
		State:         entity.WholesaleOrderStatePending,
	}
	uc, _ := motorMayorista(st, nil)

	ws, err := uc.CompleteOrder(context.Background(), orderID)
	require.NoError(t, err)

	// Utilidad 40000 sin cadena: mitad al vendedor, mitad al operador, más
	// la inversión completa del lote forzado para el operador.
	assert.True(t, ws.SellerTotal.Equal(dec("20000")), "vendedor %s", ws.SellerTotal)
	assert.True(t, ws.OperatorTotal.Equal(dec("60000")), "operador %s", ws.OperatorTotal)
	require.Len(t, ws.Breakdown, 1)
	assert.True(t, ws.Breakdown[0].Investment.Equal(dec("40000")))
	assert.True(t, ws.Breakdown[0].Profit.Equal(dec("40000")))

	assert.Equal(t, 10, st.poolDeducted)

	fb := st.batches["fb-1"]
	assert.Equal(t, entity.BatchStateFinalized, fb.State)
	require.NotNil(t, fb.FinalizedAt)

	ft := st.tranches["ft-1"]
	assert.Equal(t, entity.TrancheStateFinalized, ft.State)
	assert.Equal(t, 0, ft.CurrentStock)
	assert.Equal(t, 10, ft.WholesaleConsumed)

	assert.Equal(t, entity.WholesaleOrderStateCompleted, st.orders[orderID].State)
}

// TestCompleteOrder_RechazaPedidoYaCompletado verifica que completar dos veces
// falla con transición inválida y no vuelve a consumir stock.
func TestCompleteOrder_RechazaPedidoYaCompletado(t *testing.T) {
	st := newWsStore()
	now := time.Now()
	st.orders["o-1"] = entity.WholesaleOrder{
		ID: "o-1", SellerID: "v-1", Units: 50,
		UnitPrice: dec("7500"), GrossRevenue: dec("375000"),
		State: entity.WholesaleOrderStateCompleted, CompletedAt: &now,
	}
	uc, _ := motorMayorista(st, nil)

	_, err := uc.CompleteOrder(context.Background(), "o-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
