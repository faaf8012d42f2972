package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/ports"
)

var _ ports.HierarchyProvider = (*HierarchyAdapter)(nil)

// HierarchyAdapter resuelve la cadena de reclutadores desde la tabla sellers
// con un CTE recursivo. La cadena sale ordenada del más cercano al más lejano
// y se corta ante un ciclo accidental en los datos.
type HierarchyAdapter struct {
	pool *pgxpool.Pool
}

func NewHierarchyAdapter(pool *pgxpool.Pool) *HierarchyAdapter {
	return &HierarchyAdapter{pool: pool}
}

// RecruiterChain devuelve los ids de los reclutadores ascendentes del vendedor.
// Un vendedor sin reclutador devuelve cadena vacía, no error.
func (a *HierarchyAdapter) RecruiterChain(sellerID string) ([]string, error) {
	query := `
		WITH RECURSIVE chain AS (
			SELECT recruiter_id, 1 AS level, ARRAY[id] AS visited
			FROM sellers WHERE id = $1
			UNION ALL
			SELECT s.recruiter_id, c.level + 1, c.visited || s.id
			FROM sellers s
			JOIN chain c ON s.id = c.recruiter_id
			WHERE NOT s.id = ANY(c.visited)
		)
		SELECT recruiter_id FROM chain
		WHERE recruiter_id IS NOT NULL
		ORDER BY level ASC`
	rows, err := a.pool.Query(context.Background(), query, sellerID)
	if err != nil {
		return nil, fmt.Errorf("recruiter chain: %w", err)
	}
	defer rows.Close()

	var chain []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan recruiter: %w", err)
		}
		chain = append(chain, id)
	}
	return chain, rows.Err()
}
