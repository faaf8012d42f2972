// Package ports define los puertos hacia colaboradores externos del núcleo.
package ports

import "github.com/shopspring/decimal"

// Notification es el payload mínimo de una notificación de dominio.
// Kind usa las constantes de internal/domain/effect.
type Notification struct {
	Kind      string
	SellerID  string
	BatchID   string
	TrancheID string
}

// Notifier entrega notificaciones fire-and-forget: un fallo del canal de
// entrega jamás revierte la mutación que lo originó; la implementación
// registra el error y sigue.
type Notifier interface {
	Notify(n Notification)
}

// HierarchyProvider resuelve la cadena de reclutadores de un vendedor,
// ordenada del más cercano al más lejano. Se resuelve antes de calcular para
// que la cascada reciba una lista explícita y siga siendo pura.
type HierarchyProvider interface {
	RecruiterChain(sellerID string) ([]string, error)
}

// StockPool es el pool físico de stock compartido (colaborador externo).
// Se descuenta únicamente al activar un lote; su control de concurrencia es
// responsabilidad del colaborador, atómico desde nuestra perspectiva.
type StockPool interface {
	Deduct(units int) error
}

// EquipmentDebtProvider entrega la deuda de equipos pendiente de un vendedor
// (mensualidades en mora más cargos por daño o pérdida).
type EquipmentDebtProvider interface {
	OutstandingDebt(sellerID string) (decimal.Decimal, error)
}
