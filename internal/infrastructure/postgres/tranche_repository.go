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

var _ repository.TrancheRepository = (*TrancheRepo)(nil)

// TrancheRepo implementación de TrancheRepository sobre PostgreSQL.
type TrancheRepo struct {
	q Querier
}

func NewTrancheRepository(q Querier) *TrancheRepo {
	return &TrancheRepo{q: q}
}

const trancheColumns = `
	id, batch_id, seq, initial_stock, current_stock, wholesale_consumed,
	state, released_at, transit_at, delivered_at, finalized_at, version`

func scanTranche(row pgx.Row) (*entity.Tranche, error) {
	var t entity.Tranche
	err := row.Scan(
		&t.ID, &t.BatchID, &t.Seq, &t.InitialStock, &t.CurrentStock, &t.WholesaleConsumed,
		&t.State, &t.ReleasedAt, &t.TransitAt, &t.DeliveredAt, &t.FinalizedAt, &t.Version,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TrancheRepo) Create(t *entity.Tranche) error {
	query := `
		INSERT INTO tranches (
			id, batch_id, seq, initial_stock, current_stock, wholesale_consumed,
			state, version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,0)`
	_, err := r.q.Exec(context.Background(), query,
		t.ID, t.BatchID, t.Seq, t.InitialStock, t.CurrentStock, t.WholesaleConsumed, t.State,
	)
	if err != nil {
		return fmt.Errorf("insert tranche: %w", err)
	}
	return nil
}

func (r *TrancheRepo) GetByID(id string) (*entity.Tranche, error) {
	query := `SELECT ` + trancheColumns + ` FROM tranches WHERE id = $1`
	t, err := scanTranche(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get tranche: %w", err)
	}
	return t, nil
}

// ListByBatch devuelve las tandas del lote en orden ascendente de número.
func (r *TrancheRepo) ListByBatch(batchID string) ([]*entity.Tranche, error) {
	query := `SELECT ` + trancheColumns + ` FROM tranches WHERE batch_id = $1 ORDER BY seq ASC`
	rows, err := r.q.Query(context.Background(), query, batchID)
	if err != nil {
		return nil, fmt.Errorf("list tranches: %w", err)
	}
	defer rows.Close()

	var tranches []*entity.Tranche
	for rows.Next() {
		t, err := scanTranche(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tranche: %w", err)
		}
		tranches = append(tranches, t)
	}
	return tranches, rows.Err()
}

// ListReleasedBefore alimenta el barrido de auto-tránsito del scheduler.
func (r *TrancheRepo) ListReleasedBefore(cutoff time.Time) ([]*entity.Tranche, error) {
	query := `SELECT ` + trancheColumns + `
		FROM tranches WHERE state = $1 AND released_at <= $2
		ORDER BY released_at ASC`
	rows, err := r.q.Query(context.Background(), query, entity.TrancheStateReleased, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list released tranches: %w", err)
	}
	defer rows.Close()

	var tranches []*entity.Tranche
	for rows.Next() {
		t, err := scanTranche(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tranche: %w", err)
		}
		tranches = append(tranches, t)
	}
	return tranches, rows.Err()
}

func (r *TrancheRepo) Update(t *entity.Tranche) error {
	query := `
		UPDATE tranches SET
			current_stock = $1, wholesale_consumed = $2, state = $3,
			released_at = $4, transit_at = $5, delivered_at = $6, finalized_at = $7,
			version = version + 1
		WHERE id = $8 AND version = $9`
	tag, err := r.q.Exec(context.Background(), query,
		t.CurrentStock, t.WholesaleConsumed, t.State,
		t.ReleasedAt, t.TransitAt, t.DeliveredAt, t.FinalizedAt,
		t.ID, t.Version,
	)
	if err != nil {
		return fmt.Errorf("update tranche: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.VersionConflictError{Entity: "tranche", ID: t.ID, Version: t.Version}
	}
	t.Version++
	return nil
}

// DecrementStock descuenta unidades en un único UPDATE condicional. El
// predicado current_stock >= $units garantiza que dos ventas concurrentes
// nunca dejen el stock en negativo; con cero filas afectadas se distingue
// falta de stock de conflicto de versión releyendo la tanda.
func (r *TrancheRepo) DecrementStock(id string, version int64, units int) (*entity.Tranche, error) {
	query := `
		UPDATE tranches SET current_stock = current_stock - $3, version = version + 1
		WHERE id = $1 AND version = $2 AND current_stock >= $3
		RETURNING ` + trancheColumns
	t, err := scanTranche(r.q.QueryRow(context.Background(), query, id, version, units))
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("decrement stock: %w", err)
	}
	current, getErr := r.GetByID(id)
	if getErr != nil {
		return nil, getErr
	}
	if current.Version != version {
		return nil, &domain.VersionConflictError{Entity: "tranche", ID: id, Version: version}
	}
	return nil, &domain.StockError{TrancheID: id, Available: current.CurrentStock, Requested: units}
}

// RestoreStock devuelve unidades tras un rechazo de venta. LEAST con el stock
// inicial evita que una doble restauración infle la tanda.
func (r *TrancheRepo) RestoreStock(id string, units int) (*entity.Tranche, error) {
	query := `
		UPDATE tranches SET
			current_stock = LEAST(current_stock + $2, initial_stock),
			version = version + 1
		WHERE id = $1
		RETURNING ` + trancheColumns
	t, err := scanTranche(r.q.QueryRow(context.Background(), query, id, units))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("restore stock: %w", err)
	}
	return t, nil
}

// ConsumeWholesale descuenta y acumula el contador mayorista en el mismo
// UPDATE condicional, de modo que el planificador consuma de forma atómica.
func (r *TrancheRepo) ConsumeWholesale(id string, version int64, units int) (*entity.Tranche, error) {
	query := `
		UPDATE tranches SET
			current_stock = current_stock - $3,
			wholesale_consumed = wholesale_consumed + $3,
			version = version + 1
		WHERE id = $1 AND version = $2 AND current_stock >= $3
		RETURNING ` + trancheColumns
	t, err := scanTranche(r.q.QueryRow(context.Background(), query, id, version, units))
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("consume wholesale: %w", err)
	}
	current, getErr := r.GetByID(id)
	if getErr != nil {
		return nil, getErr
	}
	if current.Version != version {
		return nil, &domain.VersionConflictError{Entity: "tranche", ID: id, Version: version}
	}
	return nil, &domain.StockError{TrancheID: id, Available: current.CurrentStock, Requested: units}
}
