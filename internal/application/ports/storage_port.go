package ports

import "context"

// KeyValueStore almacenamiento persistente clave/valor de texto donde se guarda el carrito.
// Get devuelve found=false (sin error) cuando la clave no existe.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}
