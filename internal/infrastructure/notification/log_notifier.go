// Package notification destinos de notificaciones del carrito (log y NATS).
package notification

import (
	"context"

	"github.com/jhoicas/rocketshoes-cart/internal/application/ports"
	"github.com/jhoicas/rocketshoes-cart/pkg/logger"
)

var _ ports.Notifier = (*LogNotifier)(nil)

// LogNotifier escribe cada notificación como evento estructurado.
type LogNotifier struct {
	log     *logger.Logger
	session string
}

// NewLogNotifier crea el destino de log para una sesión.
func NewLogNotifier(log *logger.Logger, sessionID string) *LogNotifier {
	if log == nil {
		log = logger.Nop()
	}
	return &LogNotifier{log: log, session: sessionID}
}

// Notify implementa ports.Notifier.
func (n *LogNotifier) Notify(_ context.Context, note ports.Notification) {
	ev := n.log.Info()
	if note.Severity == ports.SeverityError {
		ev = n.log.Warn()
	}
	ev.Str("session_id", n.session).
		Str("kind", string(note.Kind)).
		Int64("product_id", note.ProductID).
		Time("at", note.At).
		Msg(note.Message)
}
