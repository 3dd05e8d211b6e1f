package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrUnauthorized     = errors.New("no autorizado")
	ErrOutOfStock       = errors.New("cantidad solicitada fuera de stock")
	ErrProductNotInCart = errors.New("producto no está en el carrito")
	ErrDuplicateProduct = errors.New("producto duplicado en el carrito")
	ErrInvalidAmount    = errors.New("cantidad inválida en el carrito")
	ErrStorage          = errors.New("fallo en el almacenamiento del carrito")
	ErrUpstream         = errors.New("fallo en el servicio de catálogo")
)
