package notification

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"

	"github.com/jhoicas/rocketshoes-cart/internal/application/ports"
	"github.com/jhoicas/rocketshoes-cart/pkg/logger"
)

var _ ports.Notifier = (*NATSNotifier)(nil)

// NATSNotifier publica cada notificación en JSON en "<prefijo>.<sesión>".
// Los errores de publicación solo se registran.
type NATSNotifier struct {
	nc      *nats.Conn
	subject string
	log     *logger.Logger
}

// NewNATSNotifier crea el publicador para una sesión.
func NewNATSNotifier(nc *nats.Conn, prefix, sessionID string, log *logger.Logger) *NATSNotifier {
	if log == nil {
		log = logger.Nop()
	}
	return &NATSNotifier{nc: nc, subject: Subject(prefix, sessionID), log: log}
}

// Subject tema NATS de las notificaciones de una sesión.
func Subject(prefix, sessionID string) string {
	return prefix + "." + sessionID
}

// Notify implementa ports.Notifier.
func (n *NATSNotifier) Notify(_ context.Context, note ports.Notification) {
	data, err := json.Marshal(note)
	if err != nil {
		n.log.Error().Err(err).Str("subject", n.subject).Msg("serializar notificación")
		return
	}
	if err := n.nc.Publish(n.subject, data); err != nil {
		n.log.Warn().Err(err).Str("subject", n.subject).Msg("publicar notificación en NATS")
	}
}
