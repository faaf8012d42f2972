package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación de BatchRepository sobre PostgreSQL (pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

const batchColumns = `
	id, seller_id, total_units, payout_model,
	total_investment, seller_investment, operator_investment,
	money_collected, money_remitted, state, forced, wholesale_order_id,
	created_at, activated_at, finalized_at, version`

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	err := row.Scan(
		&b.ID, &b.SellerID, &b.TotalUnits, &b.PayoutModel,
		&b.TotalInvestment, &b.SellerInvestment, &b.OperatorInvestment,
		&b.MoneyCollected, &b.MoneyRemitted, &b.State, &b.Forced, &b.WholesaleOrderID,
		&b.CreatedAt, &b.ActivatedAt, &b.FinalizedAt, &b.Version,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserta un lote con versión inicial cero.
func (r *BatchRepo) Create(b *entity.Batch) error {
	query := `
		INSERT INTO batches (
			id, seller_id, total_units, payout_model,
			total_investment, seller_investment, operator_investment,
			money_collected, money_remitted, state, forced, wholesale_order_id,
			created_at, version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,0)`
	_, err := r.q.Exec(context.Background(), query,
		b.ID, b.SellerID, b.TotalUnits, b.PayoutModel,
		b.TotalInvestment, b.SellerInvestment, b.OperatorInvestment,
		b.MoneyCollected, b.MoneyRemitted, b.State, b.Forced, b.WholesaleOrderID,
		b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por id.
func (r *BatchRepo) GetByID(id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1`
	b, err := scanBatch(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// ListActiveBySeller devuelve los lotes ACTIVE del vendedor, el más antiguo
// por fecha de activación primero.
func (r *BatchRepo) ListActiveBySeller(sellerID string) ([]*entity.Batch, error) {
	query := `SELECT ` + batchColumns + `
		FROM batches WHERE seller_id = $1 AND state = $2
		ORDER BY activated_at ASC`
	rows, err := r.q.Query(context.Background(), query, sellerID, entity.BatchStateActive)
	if err != nil {
		return nil, fmt.Errorf("list active batches: %w", err)
	}
	defer rows.Close()

	var batches []*entity.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// Update actualiza el lote condicionado a la versión leída (lock optimista).
// Incrementa Version en el struct al confirmar; con versión obsoleta devuelve
// VersionConflict para que el caller relea y reintente.
func (r *BatchRepo) Update(b *entity.Batch) error {
	query := `
		UPDATE batches SET
			payout_model = $1, total_investment = $2, seller_investment = $3,
			operator_investment = $4, money_collected = $5, money_remitted = $6,
			state = $7, activated_at = $8, finalized_at = $9, version = version + 1
		WHERE id = $10 AND version = $11`
	tag, err := r.q.Exec(context.Background(), query,
		b.PayoutModel, b.TotalInvestment, b.SellerInvestment,
		b.OperatorInvestment, b.MoneyCollected, b.MoneyRemitted,
		b.State, b.ActivatedAt, b.FinalizedAt,
		b.ID, b.Version,
	)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.VersionConflictError{Entity: "batch", ID: b.ID, Version: b.Version}
	}
	b.Version++
	return nil
}
