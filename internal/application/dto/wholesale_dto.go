package dto

import (
	"time"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"
)

// CreateWholesaleOrderRequest cuerpo para crear un pedido mayorista.
type CreateWholesaleOrderRequest struct {
	SellerID      string `json:"seller_id" validate:"required,uuid"`
	Units         int    `json:"units" validate:"required,min=1"`
	WithLiquor    bool   `json:"with_liquor"`
	PaymentMethod string `json:"payment_method" validate:"required"`
}

// StockSourceResponse fuente de stock consumida por un pedido.
type StockSourceResponse struct {
	TrancheID string `json:"tranche_id"`
	BatchID   string `json:"batch_id"`
	Quantity  int    `json:"quantity"`
	Kind      string `json:"kind"`
}

// WholesaleOrderResponse representación HTTP de un pedido mayorista.
type WholesaleOrderResponse struct {
	ID            string                `json:"id"`
	SellerID      string                `json:"seller_id"`
	Units         int                   `json:"units"`
	UnitPrice     string                `json:"unit_price"`
	GrossRevenue  string                `json:"gross_revenue"`
	WithLiquor    bool                  `json:"with_liquor"`
	PaymentMethod string                `json:"payment_method"`
	Sources       []StockSourceResponse `json:"sources"`
	ForcedBatchID *string               `json:"forced_batch_id,omitempty"`
	State         string                `json:"state"`
	CreatedAt     time.Time             `json:"created_at"`
	CompletedAt   *time.Time            `json:"completed_at,omitempty"`
}

// NewWholesaleOrderResponse mapea la entidad a su representación HTTP.
func NewWholesaleOrderResponse(o *entity.WholesaleOrder) WholesaleOrderResponse {
	resp := WholesaleOrderResponse{
		ID:            o.ID,
		SellerID:      o.SellerID,
		Units:         o.Units,
		UnitPrice:     o.UnitPrice.String(),
		GrossRevenue:  o.GrossRevenue.String(),
		WithLiquor:    o.WithLiquor,
		PaymentMethod: o.PaymentMethod,
		ForcedBatchID: o.ForcedBatchID,
		State:         o.State,
		CreatedAt:     o.CreatedAt,
		CompletedAt:   o.CompletedAt,
	}
	for _, src := range o.Sources {
		resp.Sources = append(resp.Sources, StockSourceResponse{
			TrancheID: src.TrancheID,
			BatchID:   src.BatchID,
			Quantity:  src.Quantity,
			Kind:      src.Kind,
		})
	}
	return resp
}

// SourceBreakdownResponse desglose por fuente de un cuadre mayor.
type SourceBreakdownResponse struct {
	TrancheID  string `json:"tranche_id"`
	BatchID    string `json:"batch_id"`
	Quantity   int    `json:"quantity"`
	Investment string `json:"investment"`
	Profit     string `json:"profit"`
}

// RecruiterPayoutResponse pago a un reclutador de la cadena.
type RecruiterPayoutResponse struct {
	ID            string     `json:"id"`
	RecruiterID   string     `json:"recruiter_id"`
	Level         int        `json:"level"`
	Amount        string     `json:"amount"`
	Transferred   bool       `json:"transferred"`
	TransferredAt *time.Time `json:"transferred_at,omitempty"`
}

// WholesaleSettlementResponse representación HTTP de un cuadre mayor.
type WholesaleSettlementResponse struct {
	ID                  string                    `json:"id"`
	OrderID             string                    `json:"order_id"`
	SellerID            string                    `json:"seller_id"`
	Breakdown           []SourceBreakdownResponse `json:"breakdown"`
	Payouts             []RecruiterPayoutResponse `json:"payouts"`
	SellerTotal         string                    `json:"seller_total"`
	OperatorTotal       string                    `json:"operator_total"`
	ClosedSettlementIDs []string                  `json:"closed_settlement_ids,omitempty"`
	State               string                    `json:"state"`
	CreatedAt           time.Time                 `json:"created_at"`
	CompletedAt         *time.Time                `json:"completed_at,omitempty"`
}

// NewWholesaleSettlementResponse mapea la entidad a su representación HTTP.
func NewWholesaleSettlementResponse(ws *entity.WholesaleSettlement) WholesaleSettlementResponse {
	resp := WholesaleSettlementResponse{
		ID:                  ws.ID,
		OrderID:             ws.OrderID,
		SellerID:            ws.SellerID,
		SellerTotal:         ws.SellerTotal.String(),
		OperatorTotal:       ws.OperatorTotal.String(),
		ClosedSettlementIDs: ws.ClosedSettlementIDs,
		State:               ws.State,
		CreatedAt:           ws.CreatedAt,
		CompletedAt:         ws.CompletedAt,
	}
	for _, b := range ws.Breakdown {
		resp.Breakdown = append(resp.Breakdown, SourceBreakdownResponse{
			TrancheID:  b.TrancheID,
			BatchID:    b.BatchID,
			Quantity:   b.Quantity,
			Investment: b.Investment.String(),
			Profit:     b.Profit.String(),
		})
	}
	for _, p := range ws.Payouts {
		resp.Payouts = append(resp.Payouts, RecruiterPayoutResponse{
			ID:            p.ID,
			RecruiterID:   p.RecruiterID,
			Level:         p.Level,
			Amount:        p.Amount.String(),
			Transferred:   p.Transferred,
			TransferredAt: p.TransferredAt,
		})
	}
	return resp
}
