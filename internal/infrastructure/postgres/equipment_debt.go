package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/ports"
)

var _ ports.EquipmentDebtProvider = (*EquipmentDebtAdapter)(nil)

// EquipmentDebtAdapter suma la deuda de equipos exigible de un vendedor:
// mensualidades vencidas no pagadas más cargos por daño o pérdida.
type EquipmentDebtAdapter struct {
	pool *pgxpool.Pool
}

func NewEquipmentDebtAdapter(pool *pgxpool.Pool) *EquipmentDebtAdapter {
	return &EquipmentDebtAdapter{pool: pool}
}

func (a *EquipmentDebtAdapter) OutstandingDebt(sellerID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM equipment_debts
		WHERE seller_id = $1 AND paid = FALSE AND due_at <= NOW()`
	var debt decimal.Decimal
	err := a.pool.QueryRow(context.Background(), query, sellerID).Scan(&debt)
	if err != nil {
		return decimal.Zero, fmt.Errorf("outstanding debt: %w", err)
	}
	return debt, nil
}

// SellersInArrears devuelve los vendedores con deuda de equipos vencida,
// para el barrido diario de recálculo.
func (a *EquipmentDebtAdapter) SellersInArrears() ([]string, error) {
	query := `
		SELECT DISTINCT seller_id FROM equipment_debts
		WHERE paid = FALSE AND due_at <= NOW()`
	rows, err := a.pool.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("sellers in arrears: %w", err)
	}
	defer rows.Close()

	var sellers []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan seller: %w", err)
		}
		sellers = append(sellers, id)
	}
	return sellers, rows.Err()
}
