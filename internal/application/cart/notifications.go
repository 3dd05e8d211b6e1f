package cart

import (
	"context"
	"sync"

	"github.com/jhoicas/rocketshoes-cart/internal/application/ports"
)

const defaultInboxSize = 20

// Inbox cola acotada de notificaciones de una sesión; la capa HTTP la vacía después de
// cada operación. Al llenarse descarta la más antigua.
type Inbox struct {
	mu    sync.Mutex
	size  int
	items []ports.Notification
}

// NewInbox crea un Inbox con capacidad size (20 si size <= 0).
func NewInbox(size int) *Inbox {
	if size <= 0 {
		size = defaultInboxSize
	}
	return &Inbox{size: size}
}

// Notify implementa ports.Notifier.
func (b *Inbox) Notify(_ context.Context, n ports.Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.items) == b.size {
		b.items = b.items[1:]
	}
	b.items = append(b.items, n)
}

// Drain devuelve las notificaciones pendientes en orden de llegada y vacía la cola.
func (b *Inbox) Drain() []ports.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]ports.Notification, len(b.items))
	copy(out, b.items)
	b.items = nil
	return out
}

// Len cantidad pendiente.
func (b *Inbox) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Fanout reenvía cada notificación a todos los destinos, en orden.
type Fanout []ports.Notifier

// Notify implementa ports.Notifier.
func (f Fanout) Notify(ctx context.Context, n ports.Notification) {
	for _, sink := range f {
		if sink != nil {
			sink.Notify(ctx, n)
		}
	}
}
