package dto

import (
	"time"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"
)

// ConfirmSettlementRequest cuerpo para confirmar la entrega de un cuadre.
type ConfirmSettlementRequest struct {
	ReceivedAmount string `json:"received_amount" validate:"required"`
}

// SettlementResponse representación HTTP de un cuadre.
type SettlementResponse struct {
	ID                  string     `json:"id"`
	TrancheID           string     `json:"tranche_id"`
	BatchID             string     `json:"batch_id"`
	SellerID            string     `json:"seller_id"`
	TrancheSeq          int        `json:"tranche_seq"`
	Concept             string     `json:"concept"`
	ExpectedAmount      string     `json:"expected_amount"`
	ReceivedAmount      string     `json:"received_amount"`
	Shortfall           string     `json:"shortfall"`
	CoveredByWholesale  string     `json:"covered_by_wholesale"`
	State               string     `json:"state"`
	ClosedByWholesaleID *string    `json:"closed_by_wholesale_id,omitempty"`
	Final               bool       `json:"final"`
	PendingAt           *time.Time `json:"pending_at,omitempty"`
	SuccessAt           *time.Time `json:"success_at,omitempty"`
}

// NewSettlementResponse mapea la entidad a su representación HTTP.
func NewSettlementResponse(s *entity.Settlement) SettlementResponse {
	return SettlementResponse{
		ID:                  s.ID,
		TrancheID:           s.TrancheID,
		BatchID:             s.BatchID,
		SellerID:            s.SellerID,
		TrancheSeq:          s.TrancheSeq,
		Concept:             s.Concept,
		ExpectedAmount:      s.ExpectedAmount.String(),
		ReceivedAmount:      s.ReceivedAmount.String(),
		Shortfall:           s.Shortfall.String(),
		CoveredByWholesale:  s.CoveredByWholesale.String(),
		State:               s.State,
		ClosedByWholesaleID: s.ClosedByWholesaleID,
		Final:               s.Final,
		PendingAt:           s.PendingAt,
		SuccessAt:           s.SuccessAt,
	}
}
