// Package planner implementa el plan de consumo de stock multi-fuente para
// pedidos mayoristas y la resolución del precio unitario por escalones.
package planner

import (
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"
)

// BatchStock agrupa un lote ACTIVE con sus tandas en orden ascendente de
// número. El caller entrega los lotes ordenados del más antiguo (por fecha de
// activación) al más reciente.
type BatchStock struct {
	Batch    entity.Batch
	Tranches []entity.Tranche
}

// Plan es el resultado del planificador. Cuando el stock disponible no cubre
// la cantidad pedida, NeedsForcedBatch queda en true y Residual indica el
// tamaño exacto del lote forzado que el caller debe crear.
type Plan struct {
	Sources          []entity.StockSource
	BatchIDs         []string
	Consumed         int
	NeedsForcedBatch bool
	Residual         int
}

// BuildPlan arma el plan de consumo para required unidades en dos fases:
//
//	Fase 1: stock "reservado" (tandas INACTIVE con stock positivo) de todos
//	        los lotes elegibles en orden.
//	Fase 2: stock "en casa" (tandas IN_HOME con stock positivo), mismo orden.
//	Fase 3: si aún falta, se marca el faltante para lote forzado.
//
// Ninguna tanda se cuenta dos veces: cada una aporta a lo sumo
// min(su stock disponible, lo que falta) y el resto pasa a la siguiente.
func BuildPlan(required int, batches []BatchStock) Plan {
	plan := Plan{}
	if required <= 0 {
		return plan
	}
	remaining := required

	remaining = consumePhase(&plan, batches, entity.TrancheStateInactive, entity.StockSourceReserved, remaining)
	if remaining > 0 {
		remaining = consumePhase(&plan, batches, entity.TrancheStateInHome, entity.StockSourceInHome, remaining)
	}
	if remaining > 0 {
		plan.NeedsForcedBatch = true
		plan.Residual = remaining
	}
	return plan
}

func consumePhase(plan *Plan, batches []BatchStock, state, kind string, remaining int) int {
	for _, bs := range batches {
		for _, t := range bs.Tranches {
			if remaining == 0 {
				return 0
			}
			if t.State != state || t.CurrentStock <= 0 {
				continue
			}
			take := t.CurrentStock
			if take > remaining {
				take = remaining
			}
			plan.Sources = append(plan.Sources, entity.StockSource{
				TrancheID: t.ID,
				BatchID:   bs.Batch.ID,
				Quantity:  take,
				Kind:      kind,
			})
			plan.addBatch(bs.Batch.ID)
			plan.Consumed += take
			remaining -= take
		}
	}
	return remaining
}

func (p *Plan) addBatch(id string) {
	for _, existing := range p.BatchIDs {
		if existing == id {
			return
		}
	}
	p.BatchIDs = append(p.BatchIDs, id)
}
