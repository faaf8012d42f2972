package dto

import (
	"time"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"
)

// CreateBatchRequest cuerpo para emitir un lote.
type CreateBatchRequest struct {
	SellerID           string `json:"seller_id" validate:"required,uuid"`
	TotalUnits         int    `json:"total_units" validate:"required,min=1"`
	PayoutModel        string `json:"payout_model" validate:"required,oneof=FLAT_SPLIT CASCADE"`
	TotalInvestment    string `json:"total_investment" validate:"required"`
	SellerInvestment   string `json:"seller_investment" validate:"required"`
	OperatorInvestment string `json:"operator_investment" validate:"required"`
}

// TrancheResponse representación HTTP de una tanda.
type TrancheResponse struct {
	ID                string     `json:"id"`
	Seq               int        `json:"seq"`
	InitialStock      int        `json:"initial_stock"`
	CurrentStock      int        `json:"current_stock"`
	WholesaleConsumed int        `json:"wholesale_consumed"`
	State             string     `json:"state"`
	ReleasedAt        *time.Time `json:"released_at,omitempty"`
	DeliveredAt       *time.Time `json:"delivered_at,omitempty"`
	FinalizedAt       *time.Time `json:"finalized_at,omitempty"`
}

// BatchResponse representación HTTP de un lote.
type BatchResponse struct {
	ID                 string            `json:"id"`
	SellerID           string            `json:"seller_id"`
	TotalUnits         int               `json:"total_units"`
	PayoutModel        string            `json:"payout_model"`
	TotalInvestment    string            `json:"total_investment"`
	SellerInvestment   string            `json:"seller_investment"`
	OperatorInvestment string            `json:"operator_investment"`
	MoneyCollected     string            `json:"money_collected"`
	MoneyRemitted      string            `json:"money_remitted"`
	State              string            `json:"state"`
	Forced             bool              `json:"forced"`
	CreatedAt          time.Time         `json:"created_at"`
	ActivatedAt        *time.Time        `json:"activated_at,omitempty"`
	FinalizedAt        *time.Time        `json:"finalized_at,omitempty"`
	Tranches           []TrancheResponse `json:"tranches,omitempty"`
}

// NewBatchResponse mapea la entidad a su representación HTTP.
func NewBatchResponse(b *entity.Batch, tranches []*entity.Tranche) BatchResponse {
	resp := BatchResponse{
		ID:                 b.ID,
		SellerID:           b.SellerID,
		TotalUnits:         b.TotalUnits,
		PayoutModel:        b.PayoutModel,
		TotalInvestment:    b.TotalInvestment.String(),
		SellerInvestment:   b.SellerInvestment.String(),
		OperatorInvestment: b.OperatorInvestment.String(),
		MoneyCollected:     b.MoneyCollected.String(),
		MoneyRemitted:      b.MoneyRemitted.String(),
		State:              b.State,
		Forced:             b.Forced,
		CreatedAt:          b.CreatedAt,
		ActivatedAt:        b.ActivatedAt,
		FinalizedAt:        b.FinalizedAt,
	}
	for _, t := range tranches {
		resp.Tranches = append(resp.Tranches, TrancheResponse{
			ID:                t.ID,
			Seq:               t.Seq,
			InitialStock:      t.InitialStock,
			CurrentStock:      t.CurrentStock,
			WholesaleConsumed: t.WholesaleConsumed,
			State:             t.State,
			ReleasedAt:        t.ReleasedAt,
			DeliveredAt:       t.DeliveredAt,
			FinalizedAt:       t.FinalizedAt,
		})
	}
	return resp
}
