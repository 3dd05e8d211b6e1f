package ports

import (
	"context"
	"time"
)

// Severity nivel de una notificación visible para el usuario.
type Severity string

const (
	SeverityError Severity = "error"
	SeverityInfo  Severity = "info"
)

// NotificationKind identifica la causa de la notificación.
type NotificationKind string

const (
	KindOutOfStock   NotificationKind = "out_of_stock"
	KindAddFailed    NotificationKind = "add_failed"
	KindRemoveFailed NotificationKind = "remove_failed"
	KindUpdateFailed NotificationKind = "update_failed"
)

// Notification mensaje para el usuario; Message ya viene traducido.
type Notification struct {
	Severity  Severity         `json:"severity"`
	Kind      NotificationKind `json:"kind"`
	Message   string           `json:"message"`
	ProductID int64            `json:"product_id"`
	At        time.Time        `json:"at"`
}

// Notifier destino "dispara y olvida" de notificaciones. No devuelve error:
// un fallo al notificar nunca afecta la operación del carrito.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Translator resuelve la clave de un mensaje al texto del idioma configurado.
type Translator interface {
	Translate(key string) string
}
