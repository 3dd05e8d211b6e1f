// Package i18n catálogo de mensajes visibles para el usuario (notificaciones del carrito).
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Claves de mensajes.
const (
	MsgOutOfStock   = "cart.out_of_stock"
	MsgAddFailed    = "cart.add_failed"
	MsgRemoveFailed = "cart.remove_failed"
	MsgUpdateFailed = "cart.update_failed"
)

// supported el primero es el idioma por defecto (textos originales de la tienda).
var supported = []language.Tag{
	language.BrazilianPortuguese,
	language.Spanish,
	language.English,
}

var texts = map[language.Tag]map[string]string{
	language.BrazilianPortuguese: {
		MsgOutOfStock:   "Quantidade solicitada fora de estoque",
		MsgAddFailed:    "Erro na adição do produto",
		MsgRemoveFailed: "Erro na remoção do produto",
		MsgUpdateFailed: "Erro na alteração de quantidade do produto",
	},
	language.Spanish: {
		MsgOutOfStock:   "Cantidad solicitada fuera de stock",
		MsgAddFailed:    "Error al agregar el producto",
		MsgRemoveFailed: "Error al eliminar el producto",
		MsgUpdateFailed: "Error al cambiar la cantidad del producto",
	},
	language.English: {
		MsgOutOfStock:   "Requested quantity out of stock",
		MsgAddFailed:    "Error adding product",
		MsgRemoveFailed: "Error removing product",
		MsgUpdateFailed: "Error updating product quantity",
	},
}

// Printer traduce claves al idioma elegido. Implementa ports.Translator.
type Printer struct {
	tag language.Tag
	p   *message.Printer
}

// New construye el Printer para locale (ej. "pt-BR", "es-CO", "en").
// Un locale vacío o no soportado usa pt-BR.
func New(locale string) *Printer {
	b := catalog.NewBuilder(catalog.Fallback(supported[0]))
	for tag, msgs := range texts {
		for key, text := range msgs {
			_ = b.SetString(tag, key, text)
		}
	}
	tag := Match(locale)
	return &Printer{tag: tag, p: message.NewPrinter(tag, message.Catalog(b))}
}

// Match devuelve el idioma soportado más cercano a locale.
func Match(locale string) language.Tag {
	requested, err := language.Parse(locale)
	if err != nil {
		return supported[0]
	}
	_, idx, conf := language.NewMatcher(supported).Match(requested)
	if conf == language.No {
		return supported[0]
	}
	return supported[idx]
}

// Translate devuelve el texto de key; si la clave no existe devuelve la clave.
func (p *Printer) Translate(key string) string {
	return p.p.Sprintf(key)
}

// Locale etiqueta BCP 47 efectiva.
func (p *Printer) Locale() string {
	return p.tag.String()
}
