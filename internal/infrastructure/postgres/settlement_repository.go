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

var _ repository.SettlementRepository = (*SettlementRepo)(nil)

// SettlementRepo implementación de SettlementRepository sobre PostgreSQL.
type SettlementRepo struct {
	q Querier
}

func NewSettlementRepository(q Querier) *SettlementRepo {
	return &SettlementRepo{q: q}
}

const settlementColumns = `
	id, tranche_id, batch_id, seller_id, tranche_seq, concept,
	expected_amount, received_amount, shortfall, covered_by_wholesale,
	state, closed_by_wholesale_id, final, pending_at, success_at, version`

func scanSettlement(row pgx.Row) (*entity.Settlement, error) {
	var s entity.Settlement
	err := row.Scan(
		&s.ID, &s.TrancheID, &s.BatchID, &s.SellerID, &s.TrancheSeq, &s.Concept,
		&s.ExpectedAmount, &s.ReceivedAmount, &s.Shortfall, &s.CoveredByWholesale,
		&s.State, &s.ClosedByWholesaleID, &s.Final, &s.PendingAt, &s.SuccessAt, &s.Version,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func collectSettlements(rows pgx.Rows) ([]*entity.Settlement, error) {
	defer rows.Close()
	var settlements []*entity.Settlement
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan settlement: %w", err)
		}
		settlements = append(settlements, s)
	}
	return settlements, rows.Err()
}

func (r *SettlementRepo) Create(s *entity.Settlement) error {
	query := `
		INSERT INTO settlements (
			id, tranche_id, batch_id, seller_id, tranche_seq, concept,
			expected_amount, received_amount, shortfall, covered_by_wholesale,
			state, closed_by_wholesale_id, final, pending_at, success_at, version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,0)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.TrancheID, s.BatchID, s.SellerID, s.TrancheSeq, s.Concept,
		s.ExpectedAmount, s.ReceivedAmount, s.Shortfall, s.CoveredByWholesale,
		s.State, s.ClosedByWholesaleID, s.Final, s.PendingAt, s.SuccessAt,
	)
	if err != nil {
		return fmt.Errorf("insert settlement: %w", err)
	}
	return nil
}

func (r *SettlementRepo) GetByID(id string) (*entity.Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements WHERE id = $1`
	s, err := scanSettlement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get settlement: %w", err)
	}
	return s, nil
}

func (r *SettlementRepo) GetByTranche(trancheID string) (*entity.Settlement, error) {
	// El cuadre regular de la tanda; el mini-cuadre final vive en la misma
	// tanda pero con final = true.
	query := `SELECT ` + settlementColumns + `
		FROM settlements WHERE tranche_id = $1 AND final = FALSE`
	s, err := scanSettlement(r.q.QueryRow(context.Background(), query, trancheID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get settlement by tranche: %w", err)
	}
	return s, nil
}

func (r *SettlementRepo) ListByBatch(batchID string) ([]*entity.Settlement, error) {
	query := `SELECT ` + settlementColumns + `
		FROM settlements WHERE batch_id = $1 ORDER BY tranche_seq ASC, final ASC`
	rows, err := r.q.Query(context.Background(), query, batchID)
	if err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}
	return collectSettlements(rows)
}

// ListOpenBySellerForUpdate bloquea las filas de cuadres no terminales del
// vendedor. Serializa por vendedor la activación de disparos y el recómputo
// del cuadre activo dentro de la transacción que lo invoca.
func (r *SettlementRepo) ListOpenBySellerForUpdate(sellerID string) ([]*entity.Settlement, error) {
	query := `SELECT ` + settlementColumns + `
		FROM settlements
		WHERE seller_id = $1 AND state IN ($2, $3)
		ORDER BY tranche_seq ASC, final ASC
		FOR UPDATE`
	rows, err := r.q.Query(context.Background(), query,
		sellerID, entity.SettlementStateInactive, entity.SettlementStatePending)
	if err != nil {
		return nil, fmt.Errorf("lock open settlements: %w", err)
	}
	return collectSettlements(rows)
}

func (r *SettlementRepo) ListPendingByTranches(trancheIDs []string) ([]*entity.Settlement, error) {
	if len(trancheIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + settlementColumns + `
		FROM settlements
		WHERE tranche_id = ANY($1) AND state = $2
		ORDER BY tranche_seq ASC`
	rows, err := r.q.Query(context.Background(), query, trancheIDs, entity.SettlementStatePending)
	if err != nil {
		return nil, fmt.Errorf("list pending settlements: %w", err)
	}
	return collectSettlements(rows)
}

func (r *SettlementRepo) Update(s *entity.Settlement) error {
	query := `
		UPDATE settlements SET
			concept = $1, expected_amount = $2, received_amount = $3,
			shortfall = $4, covered_by_wholesale = $5, state = $6,
			closed_by_wholesale_id = $7, pending_at = $8, success_at = $9,
			version = version + 1
		WHERE id = $10 AND version = $11`
	tag, err := r.q.Exec(context.Background(), query,
		s.Concept, s.ExpectedAmount, s.ReceivedAmount,
		s.Shortfall, s.CoveredByWholesale, s.State,
		s.ClosedByWholesaleID, s.PendingAt, s.SuccessAt,
		s.ID, s.Version,
	)
	if err != nil {
		return fmt.Errorf("update settlement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.VersionConflictError{Entity: "settlement", ID: s.ID, Version: s.Version}
	}
	s.Version++
	return nil
}

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `
	id, tranche_id, batch_id, seller_id, units, gift_units, amount, state, created_at, resolved_at`

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(
		&s.ID, &s.TrancheID, &s.BatchID, &s.SellerID,
		&s.Units, &s.GiftUnits, &s.Amount, &s.State, &s.CreatedAt, &s.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SaleRepo) Create(s *entity.Sale) error {
	query := `
		INSERT INTO sales (
			id, tranche_id, batch_id, seller_id, units, gift_units, amount,
			state, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.TrancheID, s.BatchID, s.SellerID,
		s.Units, s.GiftUnits, s.Amount, s.State, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	s, err := scanSale(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

func (r *SaleRepo) Update(s *entity.Sale) error {
	query := `
		UPDATE sales SET units = $1, gift_units = $2, amount = $3,
			state = $4, resolved_at = $5
		WHERE id = $6`
	tag, err := r.q.Exec(context.Background(), query,
		s.Units, s.GiftUnits, s.Amount, s.State, s.ResolvedAt, s.ID,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SaleRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
