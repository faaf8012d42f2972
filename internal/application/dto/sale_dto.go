package dto

import (
	"time"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"
)

// RegisterSaleRequest cuerpo para registrar una venta al detalle.
type RegisterSaleRequest struct {
	TrancheID string `json:"tranche_id" validate:"required,uuid"`
	Units     int    `json:"units" validate:"required,min=1"`
	GiftUnits int    `json:"gift_units" validate:"min=0"`
}

// SaleResponse representación HTTP de una venta.
type SaleResponse struct {
	ID         string     `json:"id"`
	TrancheID  string     `json:"tranche_id"`
	BatchID    string     `json:"batch_id"`
	SellerID   string     `json:"seller_id"`
	Units      int        `json:"units"`
	GiftUnits  int        `json:"gift_units"`
	Amount     string     `json:"amount"`
	State      string     `json:"state"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// NewSaleResponse mapea la entidad a su representación HTTP.
func NewSaleResponse(s *entity.Sale) SaleResponse {
	return SaleResponse{
		ID:         s.ID,
		TrancheID:  s.TrancheID,
		BatchID:    s.BatchID,
		SellerID:   s.SellerID,
		Units:      s.Units,
		GiftUnits:  s.GiftUnits,
		Amount:     s.Amount.String(),
		State:      s.State,
		CreatedAt:  s.CreatedAt,
		ResolvedAt: s.ResolvedAt,
	}
}
