// Package notify implementa el canal de notificaciones de dominio. La
// entrega es fire-and-forget: un fallo del canal jamás revierte la mutación
// que originó la notificación.
package notify

import (
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/ports"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/pkg/logger"
)

var _ ports.Notifier = (*LogNotifier)(nil)

// LogNotifier registra cada notificación como evento estructurado. Es el
// canal por defecto; un push real (correo, WhatsApp) se conecta detrás del
// mismo puerto sin tocar el núcleo.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(msg ports.Notification) {
	n.log.Info().
		Str("tipo", msg.Kind).
		Str("vendedor", msg.SellerID).
		Str("lote", msg.BatchID).
		Str("tanda", msg.TrancheID).
		Msg("notificación")
}
