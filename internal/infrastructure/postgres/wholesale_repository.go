package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/repository"
)

var _ repository.WholesaleOrderRepository = (*WholesaleOrderRepo)(nil)

// WholesaleOrderRepo persiste pedidos mayoristas y sus fuentes de stock.
// Las fuentes viven en una tabla hija y se reescriben completas en Update.
type WholesaleOrderRepo struct {
	q Querier
}

func NewWholesaleOrderRepository(q Querier) *WholesaleOrderRepo {
	return &WholesaleOrderRepo{q: q}
}

func (r *WholesaleOrderRepo) Create(o *entity.WholesaleOrder) error {
	ctx := context.Background()
	query := `
		INSERT INTO wholesale_orders (
			id, seller_id, units, unit_price, gross_revenue, with_liquor,
			payment_method, forced_batch_id, state, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.SellerID, o.Units, o.UnitPrice, o.GrossRevenue, o.WithLiquor,
		o.PaymentMethod, o.ForcedBatchID, o.State, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wholesale order: %w", err)
	}
	return r.insertSources(ctx, o)
}

func (r *WholesaleOrderRepo) insertSources(ctx context.Context, o *entity.WholesaleOrder) error {
	for _, src := range o.Sources {
		_, err := r.q.Exec(ctx, `
			INSERT INTO wholesale_order_sources (order_id, tranche_id, batch_id, quantity, kind)
			VALUES ($1,$2,$3,$4,$5)`,
			o.ID, src.TrancheID, src.BatchID, src.Quantity, src.Kind,
		)
		if err != nil {
			return fmt.Errorf("insert order source: %w", err)
		}
	}
	return nil
}

func (r *WholesaleOrderRepo) GetByID(id string) (*entity.WholesaleOrder, error) {
	ctx := context.Background()
	query := `
		SELECT id, seller_id, units, unit_price, gross_revenue, with_liquor,
			payment_method, forced_batch_id, state, created_at, completed_at
		FROM wholesale_orders WHERE id = $1`
	var o entity.WholesaleOrder
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.SellerID, &o.Units, &o.UnitPrice, &o.GrossRevenue, &o.WithLiquor,
		&o.PaymentMethod, &o.ForcedBatchID, &o.State, &o.CreatedAt, &o.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get wholesale order: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT tranche_id, batch_id, quantity, kind
		FROM wholesale_order_sources WHERE order_id = $1
		ORDER BY kind, tranche_id`, id)
	if err != nil {
		return nil, fmt.Errorf("list order sources: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	for rows.Next() {
		var src entity.StockSource
		if err := rows.Scan(&src.TrancheID, &src.BatchID, &src.Quantity, &src.Kind); err != nil {
			return nil, fmt.Errorf("scan order source: %w", err)
		}
		o.Sources = append(o.Sources, src)
		if !seen[src.BatchID] {
			seen[src.BatchID] = true
			o.BatchIDs = append(o.BatchIDs, src.BatchID)
		}
	}
	return &o, rows.Err()
}

func (r *WholesaleOrderRepo) Update(o *entity.WholesaleOrder) error {
	ctx := context.Background()
	tag, err := r.q.Exec(ctx, `
		UPDATE wholesale_orders SET
			unit_price = $1, gross_revenue = $2, forced_batch_id = $3,
			state = $4, completed_at = $5
		WHERE id = $6`,
		o.UnitPrice, o.GrossRevenue, o.ForcedBatchID, o.State, o.CompletedAt, o.ID,
	)
	if err != nil {
		return fmt.Errorf("update wholesale order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM wholesale_order_sources WHERE order_id = $1`, o.ID); err != nil {
		return fmt.Errorf("reset order sources: %w", err)
	}
	return r.insertSources(ctx, o)
}

var _ repository.WholesaleSettlementRepository = (*WholesaleSettlementRepo)(nil)

// WholesaleSettlementRepo persiste cuadres mayores con su desglose por fuente,
// los pagos a reclutadores y los cuadres por tanda que cerraron.
type WholesaleSettlementRepo struct {
	q Querier
}

func NewWholesaleSettlementRepository(q Querier) *WholesaleSettlementRepo {
	return &WholesaleSettlementRepo{q: q}
}

func (r *WholesaleSettlementRepo) Create(ws *entity.WholesaleSettlement) error {
	ctx := context.Background()
	_, err := r.q.Exec(ctx, `
		INSERT INTO wholesale_settlements (
			id, order_id, seller_id, seller_total, operator_total,
			state, created_at, completed_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		ws.ID, ws.OrderID, ws.SellerID, ws.SellerTotal, ws.OperatorTotal,
		ws.State, ws.CreatedAt, ws.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wholesale settlement: %w", err)
	}
	for _, b := range ws.Breakdown {
		_, err := r.q.Exec(ctx, `
			INSERT INTO wholesale_settlement_breakdown (
				settlement_id, tranche_id, batch_id, quantity, investment, profit
			) VALUES ($1,$2,$3,$4,$5,$6)`,
			ws.ID, b.TrancheID, b.BatchID, b.Quantity, b.Investment, b.Profit,
		)
		if err != nil {
			return fmt.Errorf("insert settlement breakdown: %w", err)
		}
	}
	for _, p := range ws.Payouts {
		_, err := r.q.Exec(ctx, `
			INSERT INTO recruiter_payouts (
				id, wholesale_settlement_id, recruiter_id, level, amount, transferred
			) VALUES ($1,$2,$3,$4,$5,$6)`,
			p.ID, ws.ID, p.RecruiterID, p.Level, p.Amount, p.Transferred,
		)
		if err != nil {
			return fmt.Errorf("insert recruiter payout: %w", err)
		}
	}
	for _, id := range ws.ClosedSettlementIDs {
		_, err := r.q.Exec(ctx, `
			INSERT INTO wholesale_closed_settlements (wholesale_settlement_id, settlement_id)
			VALUES ($1,$2)`, ws.ID, id)
		if err != nil {
			return fmt.Errorf("insert closed settlement link: %w", err)
		}
	}
	return nil
}

func (r *WholesaleSettlementRepo) GetByID(id string) (*entity.WholesaleSettlement, error) {
	ctx := context.Background()
	var ws entity.WholesaleSettlement
	err := r.q.QueryRow(ctx, `
		SELECT id, order_id, seller_id, seller_total, operator_total,
			state, created_at, completed_at
		FROM wholesale_settlements WHERE id = $1`, id).Scan(
		&ws.ID, &ws.OrderID, &ws.SellerID, &ws.SellerTotal, &ws.OperatorTotal,
		&ws.State, &ws.CreatedAt, &ws.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get wholesale settlement: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT tranche_id, batch_id, quantity, investment, profit
		FROM wholesale_settlement_breakdown WHERE settlement_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("list settlement breakdown: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var b entity.SourceBreakdown
		if err := rows.Scan(&b.TrancheID, &b.BatchID, &b.Quantity, &b.Investment, &b.Profit); err != nil {
			return nil, fmt.Errorf("scan breakdown: %w", err)
		}
		ws.Breakdown = append(ws.Breakdown, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	prows, err := r.q.Query(ctx, `
		SELECT id, recruiter_id, level, amount, transferred, transferred_at
		FROM recruiter_payouts WHERE wholesale_settlement_id = $1
		ORDER BY level ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("list recruiter payouts: %w", err)
	}
	defer prows.Close()
	for prows.Next() {
		p := entity.RecruiterPayout{WholesaleSettlementID: id}
		if err := prows.Scan(&p.ID, &p.RecruiterID, &p.Level, &p.Amount, &p.Transferred, &p.TransferredAt); err != nil {
			return nil, fmt.Errorf("scan recruiter payout: %w", err)
		}
		ws.Payouts = append(ws.Payouts, p)
	}
	if err := prows.Err(); err != nil {
		return nil, err
	}

	crows, err := r.q.Query(ctx, `
		SELECT settlement_id FROM wholesale_closed_settlements
		WHERE wholesale_settlement_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("list closed settlements: %w", err)
	}
	defer crows.Close()
	for crows.Next() {
		var sid string
		if err := crows.Scan(&sid); err != nil {
			return nil, fmt.Errorf("scan closed settlement: %w", err)
		}
		ws.ClosedSettlementIDs = append(ws.ClosedSettlementIDs, sid)
	}
	return &ws, crows.Err()
}

func (r *WholesaleSettlementRepo) MarkPayoutTransferred(payoutID string, at time.Time) error {
	tag, err := r.q.Exec(context.Background(), `
		UPDATE recruiter_payouts SET transferred = TRUE, transferred_at = $1
		WHERE id = $2 AND transferred = FALSE`, at, payoutID)
	if err != nil {
		return fmt.Errorf("mark payout transferred: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
