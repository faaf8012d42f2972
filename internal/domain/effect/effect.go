// Package effect define los efectos que las funciones puras de dominio piden
// al orquestador en lugar de ejecutarlos ellas mismas. El núcleo permanece
// síncrono y sin efectos secundarios; el caso de uso decide cómo ejecutarlos.
package effect

// Tipos de efecto.
const (
	KindReleaseNextTranche = "RELEASE_NEXT_TRANCHE"
	KindArmFinalSettlement = "ARM_FINAL_SETTLEMENT"
	KindNotify             = "NOTIFY"
)

// Clases de notificación (fire-and-forget; un fallo del notificador nunca
// revierte la mutación del núcleo).
const (
	NotifyTrancheReleased     = "TRANCHE_RELEASED"
	NotifySettlementPending   = "SETTLEMENT_PENDING"
	NotifySettlementSuccess   = "SETTLEMENT_SUCCESS"
	NotifyLowStock            = "LOW_STOCK"
	NotifyInvestmentRecovered = "INVESTMENT_RECOVERED"
)

// Effect es una instrucción para el orquestador.
type Effect struct {
	Kind       string
	NotifyKind string // solo para KindNotify
	BatchID    string
	TrancheID  string
	SellerID   string
	AfterSeq   int // para KindReleaseNextTranche: liberar la tanda siguiente a esta
}

// ReleaseNext pide liberar la siguiente tanda INACTIVE del lote.
func ReleaseNext(batchID string, afterSeq int) Effect {
	return Effect{Kind: KindReleaseNextTranche, BatchID: batchID, AfterSeq: afterSeq}
}

// ArmFinal pide armar el mini-cuadre final del lote (última tanda agotada).
func ArmFinal(batchID, trancheID, sellerID string) Effect {
	return Effect{Kind: KindArmFinalSettlement, BatchID: batchID, TrancheID: trancheID, SellerID: sellerID}
}

// Notify pide enviar una notificación.
func Notify(kind, sellerID, batchID, trancheID string) Effect {
	return Effect{Kind: KindNotify, NotifyKind: kind, SellerID: sellerID, BatchID: batchID, TrancheID: trancheID}
}
