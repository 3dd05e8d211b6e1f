// Package catalogclient adaptador HTTP del servicio de catálogo (productos y stock).
package catalogclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jhoicas/rocketshoes-cart/internal/application/ports"
	"github.com/jhoicas/rocketshoes-cart/internal/domain"
	"github.com/jhoicas/rocketshoes-cart/internal/domain/entity"
)

// Verificar en tiempo de compilación que Client implementa CatalogService.
var _ ports.CatalogService = (*Client)(nil)

// Client consulta GET /stock/:id y GET /products/:id.
// Toda respuesta que no sea 2xx o que no se pueda decodificar es un error.
type Client struct {
	http *resty.Client
}

// New construye el cliente. timeout aplica a cada petición; el ctx del caller también la corta.
func New(baseURL string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{http: c}
}

// GetStock implementa ports.StockQuery.
func (c *Client) GetStock(ctx context.Context, productID int64) (entity.Stock, error) {
	var out entity.Stock
	if err := c.get(ctx, "/stock/{id}", productID, &out); err != nil {
		return entity.Stock{}, err
	}
	if out.ID != productID || out.Amount < 0 {
		return entity.Stock{}, fmt.Errorf("stock %d: respuesta inconsistente %+v: %w", productID, out, domain.ErrUpstream)
	}
	return out, nil
}

// GetProduct implementa ports.CatalogFetch.
func (c *Client) GetProduct(ctx context.Context, productID int64) (entity.Product, error) {
	var out entity.Product
	if err := c.get(ctx, "/products/{id}", productID, &out); err != nil {
		return entity.Product{}, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, productID int64, result interface{}) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatInt(productID, 10)).
		SetResult(result).
		Get(path)
	if err != nil {
		return fmt.Errorf("GET %s (%d): %v: %w", path, productID, err, domain.ErrUpstream)
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return fmt.Errorf("GET %s (%d): %w", path, productID, domain.ErrNotFound)
	case resp.IsError() || resp.StatusCode() >= 300:
		return fmt.Errorf("GET %s (%d): HTTP %d: %w", path, productID, resp.StatusCode(), domain.ErrUpstream)
	}
	return nil
}
