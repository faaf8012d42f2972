package wholesale

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/params"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/ports"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain"
	batchdom "github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/batch"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/cascade"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/effect"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/planner"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/repository"
	setdom "github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/settlement"
)

// UseCase orquesta pedidos mayoristas y su cuadre mayor: resuelve el precio
// por escalones, arma el plan de consumo multi-fuente, crea el lote forzado
// cuando el stock no alcanza y, al completar el pedido, reparte utilidad en
// cascada y cierra los cuadres pendientes de las tandas involucradas.
type UseCase struct {
	txRunner  TxRunner
	notifier  ports.Notifier
	hierarchy ports.HierarchyProvider
	params    params.Provider
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	notifier ports.Notifier,
	hierarchy ports.HierarchyProvider,
	paramsProvider params.Provider,
) *UseCase {
	return &UseCase{
		txRunner:  txRunner,
		notifier:  notifier,
		hierarchy: hierarchy,
		params:    paramsProvider,
	}
}

// CreateOrderInput entrada para crear un pedido mayorista.
type CreateOrderInput struct {
	SellerID      string
	Units         int
	WithLiquor    bool
	PaymentMethod string
}

// CreateOrder resuelve el precio unitario por escalones, arma el plan de
// consumo sobre los lotes activos del vendedor (reservado primero, luego en
// casa) y, si falta stock, crea el lote forzado del tamaño exacto del
// faltante. El pedido queda PENDING hasta que un admin lo complete.
func (uc *UseCase) CreateOrder(ctx context.Context, in CreateOrderInput) (*entity.WholesaleOrder, error) {
	if in.SellerID == "" || in.Units <= 0 {
		return nil, domain.ErrInvalidInput
	}
	cfg := params.Resolve(uc.params)
	unitPrice, err := planner.ResolveUnitPrice(cfg.PriceTable, in.Units, in.WithLiquor)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	order := &entity.WholesaleOrder{
		ID:            uuid.New().String(),
		SellerID:      in.SellerID,
		Units:         in.Units,
		UnitPrice:     unitPrice,
		GrossRevenue:  unitPrice.Mul(decimal.NewFromInt(int64(in.Units))),
		WithLiquor:    in.WithLiquor,
		PaymentMethod: in.PaymentMethod,
		State:         entity.WholesaleOrderStatePending,
		CreatedAt:     now,
	}

	err = uc.txRunner.RunWholesale(ctx, func(
		batchRepo repository.BatchRepository,
		trancheRepo repository.TrancheRepository,
		_ repository.SettlementRepository,
		orderRepo repository.WholesaleOrderRepository,
		_ repository.WholesaleSettlementRepository,
		_ ports.StockPool,
	) error {
		stocks, err := loadBatchStocks(batchRepo, trancheRepo, in.SellerID)
		if err != nil {
			return err
		}
		plan := planner.BuildPlan(in.Units, stocks)
		order.Sources = plan.Sources
		order.BatchIDs = plan.BatchIDs

		if plan.NeedsForcedBatch {
			forced, err := uc.createForcedBatch(batchRepo, trancheRepo, order, plan.Residual, cfg, now)
			if err != nil {
				return err
			}
			order.ForcedBatchID = &forced.ID
			order.BatchIDs = append(order.BatchIDs, forced.ID)
			order.Sources = append(order.Sources, entity.StockSource{
				BatchID:  forced.ID,
				Quantity: plan.Residual,
				Kind:     entity.StockSourceForced,
			})
		}
		return orderRepo.Create(order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// createForcedBatch emite el lote forzado que cubre el faltante del pedido:
// tamaño exacto del residuo, inversión derivada del costo unitario
// configurado y reparto en cascada.
func (uc *UseCase) createForcedBatch(
	batchRepo repository.BatchRepository,
	trancheRepo repository.TrancheRepository,
	order *entity.WholesaleOrder,
	residual int,
	cfg params.Snapshot,
	now time.Time,
) (*entity.Batch, error) {
	total := cfg.UnitInvestment.Mul(decimal.NewFromInt(int64(residual)))
	operator := cascade.RoundMinor(total.Mul(cfg.OperatorInvPct), cfg.CurrencyPrecision)
	b := &entity.Batch{
		ID:                 uuid.New().String(),
		SellerID:           order.SellerID,
		TotalUnits:         residual,
		PayoutModel:        entity.PayoutModelCascade,
		TotalInvestment:    total,
		SellerInvestment:   total.Sub(operator),
		OperatorInvestment: operator,
		MoneyCollected:     decimal.Zero,
		MoneyRemitted:      decimal.Zero,
		State:              entity.BatchStateCreated,
		Forced:             true,
		WholesaleOrderID:   &order.ID,
		CreatedAt:          now,
	}
	if err := batchRepo.Create(b); err != nil {
		return nil, err
	}
	for i, units := range batchdom.SplitUnits(residual, cfg.SplitThreshold) {
		t := &entity.Tranche{
			ID:           uuid.New().String(),
			BatchID:      b.ID,
			Seq:          i + 1,
			InitialStock: units,
			CurrentStock: units,
			State:        entity.TrancheStateInactive,
		}
		if err := trancheRepo.Create(t); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// CompleteOrder cierra un pedido mayorista PENDING: consume el stock
// planificado con updates condicionales por versión, reparte la utilidad en
// cascada sobre la cadena de reclutadores, cubre los cuadres pendientes de
// las tandas involucradas y persiste el cuadre mayor. Todo en una sola
// transacción: o se confirma completo o no se confirma nada.
func (uc *UseCase) CompleteOrder(ctx context.Context, orderID string) (*entity.WholesaleSettlement, error) {
	cfg := params.Resolve(uc.params)
	now := time.Now()
	var ws *entity.WholesaleSettlement
	var notifications []effect.Effect

	err := uc.txRunner.RunWholesale(ctx, func(
		batchRepo repository.BatchRepository,
		trancheRepo repository.TrancheRepository,
		settlementRepo repository.SettlementRepository,
		orderRepo repository.WholesaleOrderRepository,
		wsRepo repository.WholesaleSettlementRepository,
		stockPool ports.StockPool,
	) error {
		order, err := orderRepo.GetByID(orderID)
		if err != nil {
			return err
		}
		if order.State != entity.WholesaleOrderStatePending {
			return &domain.TransitionError{Entity: "wholesale_order", ID: order.ID, From: order.State, Action: "complete"}
		}
		// Serializa por vendedor: cerrar cuadres y armar el mini-cuadre final
		// son decisiones de activación, como las del motor de cuadres.
		if _, err := settlementRepo.ListOpenBySellerForUpdate(order.SellerID); err != nil {
			return err
		}

		breakdown, trancheQty, err := uc.consumeSources(batchRepo, trancheRepo, stockPool, order, now)
		if err != nil {
			return err
		}

		var totalInvestment decimal.Decimal
		for _, src := range breakdown {
			totalInvestment = totalInvestment.Add(src.Investment)
		}
		chain, err := uc.hierarchy.RecruiterChain(order.SellerID)
		if err != nil {
			return err
		}
		result := cascade.Distribute(order.GrossRevenue, totalInvestment, entity.PayoutModelCascade, cfg.FlatSellerPct, chain)

		wsID := uuid.New().String()
		payouts := make([]entity.RecruiterPayout, 0, len(result.Levels))
		for _, level := range result.Levels {
			payouts = append(payouts, entity.RecruiterPayout{
				ID:                    uuid.New().String(),
				WholesaleSettlementID: wsID,
				RecruiterID:           level.RecruiterID,
				Level:                 level.Level,
				Amount:                cascade.RoundMinor(level.Amount, cfg.CurrencyPrecision),
			})
		}

		operatorTotal := cascade.RoundMinor(result.OperatorShare.Add(totalInvestment), cfg.CurrencyPrecision)
		sellerTotal := cascade.RoundMinor(result.SellerShare, cfg.CurrencyPrecision)

		closedIDs, err := uc.coverPendingSettlements(settlementRepo, trancheQty, order.Units, operatorTotal, wsID, cfg, now)
		if err != nil {
			return err
		}

		// Si el pedido dejó en cero la última tanda de un lote con su cuadre
		// regular ya terminal, el mini-cuadre final se arma aquí mismo: no
		// habrá más ventas al detalle sobre una tanda sin stock que lo armen.
		if err := uc.armDueFinals(batchRepo, trancheRepo, settlementRepo, order, chain, cfg, now, &notifications); err != nil {
			return err
		}

		ws = &entity.WholesaleSettlement{
			ID:                  wsID,
			OrderID:             order.ID,
			SellerID:            order.SellerID,
			Breakdown:           breakdown,
			Payouts:             payouts,
			SellerTotal:         sellerTotal,
			OperatorTotal:       operatorTotal,
			ClosedSettlementIDs: closedIDs,
			State:               entity.WholesaleSettlementStateCompleted,
			CreatedAt:           now,
			CompletedAt:         &now,
		}
		if err := wsRepo.Create(ws); err != nil {
			return err
		}

		order.State = entity.WholesaleOrderStateCompleted
		order.CompletedAt = &now
		return orderRepo.Update(order)
	})
	if err != nil {
		return nil, err
	}
	uc.notifyAll(notifications)
	return ws, nil
}

// consumeSources ejecuta el plan de consumo del pedido y arma el desglose por
// fuente. El lote forzado se activa aquí (descuenta del pool físico) y nace
// completamente consumido por el pedido.
func (uc *UseCase) consumeSources(
	batchRepo repository.BatchRepository,
	trancheRepo repository.TrancheRepository,
	stockPool ports.StockPool,
	order *entity.WholesaleOrder,
	now time.Time,
) ([]entity.SourceBreakdown, map[string]int, error) {
	breakdown := make([]entity.SourceBreakdown, 0, len(order.Sources))
	trancheQty := make(map[string]int)

	for _, src := range order.Sources {
		if src.Kind == entity.StockSourceForced {
			forcedBreakdown, err := uc.consumeForced(batchRepo, trancheRepo, stockPool, order, src, now)
			if err != nil {
				return nil, nil, err
			}
			breakdown = append(breakdown, forcedBreakdown...)
			continue
		}

		t, err := trancheRepo.GetByID(src.TrancheID)
		if err != nil {
			return nil, nil, err
		}
		if _, err := trancheRepo.ConsumeWholesale(t.ID, t.Version, src.Quantity); err != nil {
			return nil, nil, err
		}
		b, err := batchRepo.GetByID(src.BatchID)
		if err != nil {
			return nil, nil, err
		}
		breakdown = append(breakdown, sourceBreakdown(b, src, order.UnitPrice))
		trancheQty[src.TrancheID] += src.Quantity
	}
	return breakdown, trancheQty, nil
}

// consumeForced activa el lote forzado, consume todo su stock y lo finaliza.
// El lote forzado vive y muere dentro del pedido que lo originó: sin este
// cierre quedaría ACTIVE para siempre con tandas INACTIVE en cero.
func (uc *UseCase) consumeForced(
	batchRepo repository.BatchRepository,
	trancheRepo repository.TrancheRepository,
	stockPool ports.StockPool,
	order *entity.WholesaleOrder,
	src entity.StockSource,
	now time.Time,
) ([]entity.SourceBreakdown, error) {
	b, err := batchRepo.GetByID(src.BatchID)
	if err != nil {
		return nil, err
	}
	activated, err := batchdom.ActivateBatch(*b, now)
	if err != nil {
		return nil, err
	}
	if err := stockPool.Deduct(b.TotalUnits); err != nil {
		return nil, err
	}
	if err := batchRepo.Update(&activated); err != nil {
		return nil, err
	}

	tranches, err := trancheRepo.ListByBatch(b.ID)
	if err != nil {
		return nil, err
	}
	breakdown := make([]entity.SourceBreakdown, 0, len(tranches))
	finalized := make([]entity.Tranche, 0, len(tranches))
	for _, t := range tranches {
		if t.CurrentStock > 0 {
			qty := t.CurrentStock
			consumed, err := trancheRepo.ConsumeWholesale(t.ID, t.Version, qty)
			if err != nil {
				return nil, err
			}
			breakdown = append(breakdown, sourceBreakdown(&activated, entity.StockSource{
				TrancheID: t.ID,
				BatchID:   b.ID,
				Quantity:  qty,
				Kind:      entity.StockSourceForced,
			}, order.UnitPrice))
			t = consumed
		}
		done, err := batchdom.FinalizeConsumed(*t, now)
		if err != nil {
			return nil, err
		}
		if err := trancheRepo.Update(&done); err != nil {
			return nil, err
		}
		finalized = append(finalized, done)
	}

	closed, err := batchdom.FinalizeBatch(activated, finalized, now)
	if err != nil {
		return nil, err
	}
	if err := batchRepo.Update(&closed); err != nil {
		return nil, err
	}
	return breakdown, nil
}

// sourceBreakdown prorratea la inversión del lote por las unidades consumidas
// y calcula la utilidad de la fuente a precio mayorista.
func sourceBreakdown(b *entity.Batch, src entity.StockSource, unitPrice decimal.Decimal) entity.SourceBreakdown {
	qty := decimal.NewFromInt(int64(src.Quantity))
	investment := decimal.Zero
	if b.TotalUnits > 0 {
		investment = b.TotalInvestment.Mul(qty).Div(decimal.NewFromInt(int64(b.TotalUnits)))
	}
	revenue := unitPrice.Mul(qty)
	return entity.SourceBreakdown{
		TrancheID:  src.TrancheID,
		BatchID:    src.BatchID,
		Quantity:   src.Quantity,
		Investment: investment,
		Profit:     revenue.Sub(investment),
	}
}

// coverPendingSettlements reparte el total del operador entre los cuadres
// PENDING de las tandas consumidas, proporcional a las unidades tomadas de
// cada tanda y con tope en el faltante restante de cada cuadre. Devuelve los
// ids de los cuadres que quedaron CLOSED_BY_WHOLESALE.
func (uc *UseCase) coverPendingSettlements(
	settlementRepo repository.SettlementRepository,
	trancheQty map[string]int,
	orderUnits int,
	operatorTotal decimal.Decimal,
	wsID string,
	cfg params.Snapshot,
	now time.Time,
) ([]string, error) {
	if len(trancheQty) == 0 {
		return nil, nil
	}
	trancheIDs := make([]string, 0, len(trancheQty))
	for id := range trancheQty {
		trancheIDs = append(trancheIDs, id)
	}
	pending, err := settlementRepo.ListPendingByTranches(trancheIDs)
	if err != nil {
		return nil, err
	}

	var closed []string
	units := decimal.NewFromInt(int64(orderUnits))
	for _, s := range pending {
		qty := decimal.NewFromInt(int64(trancheQty[s.TrancheID]))
		covered := cascade.RoundMinor(operatorTotal.Mul(qty).Div(units), cfg.CurrencyPrecision)
		if covered.GreaterThan(s.RemainingShortfall()) {
			covered = s.RemainingShortfall()
		}
		updated, err := setdom.CloseByWholesale(*s, wsID, covered, now)
		if err != nil {
			return nil, err
		}
		if err := settlementRepo.Update(&updated); err != nil {
			return nil, err
		}
		if updated.State == entity.SettlementStateClosedByWholesale {
			closed = append(closed, updated.ID)
		}
	}
	return closed, nil
}

// armDueFinals arma el mini-cuadre final de cada lote regular cuya última
// tanda quedó en cero por este pedido con su cuadre regular ya terminal, y lo
// activa si el vendedor no tiene otro cuadre PENDING. Mismo criterio que el
// motor de cuadres tras una venta al detalle.
func (uc *UseCase) armDueFinals(
	batchRepo repository.BatchRepository,
	trancheRepo repository.TrancheRepository,
	settlementRepo repository.SettlementRepository,
	order *entity.WholesaleOrder,
	chain []string,
	cfg params.Snapshot,
	now time.Time,
	notifications *[]effect.Effect,
) error {
	open, err := settlementRepo.ListOpenBySellerForUpdate(order.SellerID)
	if err != nil {
		return err
	}
	hasPending := false
	for _, s := range open {
		if s.State == entity.SettlementStatePending {
			hasPending = true
			break
		}
	}

	seen := map[string]bool{}
	for _, src := range order.Sources {
		if src.Kind == entity.StockSourceForced || seen[src.BatchID] {
			continue
		}
		seen[src.BatchID] = true

		tranches, err := trancheRepo.ListByBatch(src.BatchID)
		if err != nil {
			return err
		}
		if len(tranches) == 0 {
			continue
		}
		last := tranches[len(tranches)-1]
		if last.CurrentStock != 0 {
			continue
		}
		existing, err := settlementRepo.ListByBatch(src.BatchID)
		if err != nil {
			return err
		}
		var regular *entity.Settlement
		alreadyArmed := false
		for _, s := range existing {
			if s.Final {
				alreadyArmed = true
				break
			}
			if s.TrancheID == last.ID {
				regular = s
			}
		}
		if alreadyArmed || regular == nil || !regular.IsTerminal() {
			continue
		}

		b, err := batchRepo.GetByID(src.BatchID)
		if err != nil {
			return err
		}
		result := cascade.Distribute(b.MoneyCollected, b.TotalInvestment, b.PayoutModel, cfg.FlatSellerPct, chain)
		final := setdom.ArmFinal(*b, *last, result.SellerShare, uuid.New().String())
		final.ExpectedAmount = cascade.RoundMinor(final.ExpectedAmount, cfg.CurrencyPrecision)
		final.Shortfall = final.ExpectedAmount
		if err := settlementRepo.Create(&final); err != nil {
			return err
		}
		if hasPending {
			continue
		}
		activated, effects, err := setdom.Activate(final, now)
		if err != nil {
			return err
		}
		if err := settlementRepo.Update(&activated); err != nil {
			return err
		}
		*notifications = append(*notifications, effects...)
		hasPending = true
	}
	return nil
}

// MarkPayoutTransferred marca como transferido el pago a un reclutador.
func (uc *UseCase) MarkPayoutTransferred(ctx context.Context, payoutID string) error {
	now := time.Now()
	return uc.txRunner.RunWholesale(ctx, func(
		_ repository.BatchRepository,
		_ repository.TrancheRepository,
		_ repository.SettlementRepository,
		_ repository.WholesaleOrderRepository,
		wsRepo repository.WholesaleSettlementRepository,
		_ ports.StockPool,
	) error {
		return wsRepo.MarkPayoutTransferred(payoutID, now)
	})
}

// loadBatchStocks carga los lotes ACTIVE del vendedor (más antiguo primero)
// con sus tandas en orden de número, listos para el planificador.
func loadBatchStocks(
	batchRepo repository.BatchRepository,
	trancheRepo repository.TrancheRepository,
	sellerID string,
) ([]planner.BatchStock, error) {
	active, err := batchRepo.ListActiveBySeller(sellerID)
	if err != nil {
		return nil, err
	}
	stocks := make([]planner.BatchStock, 0, len(active))
	for _, b := range active {
		tranches, err := trancheRepo.ListByBatch(b.ID)
		if err != nil {
			return nil, err
		}
		views := make([]entity.Tranche, 0, len(tranches))
		for _, t := range tranches {
			views = append(views, *t)
		}
		stocks = append(stocks, planner.BatchStock{Batch: *b, Tranches: views})
	}
	return stocks, nil
}

func (uc *UseCase) notifyAll(effects []effect.Effect) {
	for _, e := range effects {
		if e.Kind != effect.KindNotify {
			continue
		}
		uc.notifier.Notify(ports.Notification{
			Kind:      e.NotifyKind,
			SellerID:  e.SellerID,
			BatchID:   e.BatchID,
			TrancheID: e.TrancheID,
		})
	}
}
