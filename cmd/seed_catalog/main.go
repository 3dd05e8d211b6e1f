// seed_catalog genera el script SQL que puebla products y stock
// a partir del db.json de la tienda ({"products": [...], "stock": [...]}).
//
// Uso: go run ./cmd/seed_catalog [-latin1] [ruta/db.json]
// Por defecto busca db.json en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/002_seed_catalog.sql
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type catalogFile struct {
	Products []productRow `json:"products"`
	Stock    []stockRow   `json:"stock"`
}

type productRow struct {
	ID    int64           `json:"id"`
	Title string          `json:"title"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

type stockRow struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

func main() {
	latin1 := flag.Bool("latin1", false, "el archivo viene en ISO-8859-1")
	flag.Parse()

	jsonPath := "db.json"
	if flag.NArg() > 0 {
		jsonPath = flag.Arg(0)
	}
	f, err := os.Open(jsonPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir JSON: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	db, err := decode(f, *latin1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Decodificar JSON: %v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "002_seed_catalog.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := render(out, db); err != nil {
		fmt.Fprintf(os.Stderr, "Generar SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d productos, %d registros de stock\n", outPath, len(db.Products), len(db.Stock))
}

func decode(r io.Reader, latin1 bool) (catalogFile, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	var db catalogFile
	if err := json.NewDecoder(r).Decode(&db); err != nil {
		return catalogFile{}, err
	}
	return db, nil
}

// render escribe la migración goose con los INSERT idempotentes y su reverso.
// Los productos salen ordenados por ID;
// el stock de productos inexistentes se descarta.
func render(w io.Writer, db catalogFile) error {
	products := make([]productRow, 0, len(db.Products))
	known := make(map[int64]bool, len(db.Products))
	for _, p := range db.Products {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			name = strings.TrimSpace(p.Title)
		}
		if p.ID <= 0 || name == "" || p.Price.IsNegative() {
			return fmt.Errorf("producto inválido: %+v", p)
		}
		if known[p.ID] {
			return fmt.Errorf("producto %d duplicado", p.ID)
		}
		known[p.ID] = true
		p.Name = norm.NFC.String(name)
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })

	var stock []stockRow
	for _, s := range db.Stock {
		if !known[s.ID] {
			continue
		}
		if s.Amount < 0 {
			return fmt.Errorf("stock negativo para %d", s.ID)
		}
		stock = append(stock, s)
	}
	sort.Slice(stock, func(i, j int) bool { return stock[i].ID < stock[j].ID })

	var b strings.Builder
	b.WriteString("-- Catálogo de la tienda\n")
	b.WriteString("-- Generado por cmd/seed_catalog desde db.json\n\n")
	b.WriteString("-- +goose Up\n")

	if len(products) > 0 {
		b.WriteString("-- 1. Productos\n")
		b.WriteString("INSERT INTO products (id, name, price, image) VALUES\n")
		for i, p := range products {
			fmt.Fprintf(&b, "  (%d, '%s', %s, '%s')", p.ID, escapeSQL(p.Name), p.Price.StringFixed(2), escapeSQL(p.Image))
			if i < len(products)-1 {
				b.WriteString(",\n")
			} else {
				b.WriteString("\n")
			}
		}
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price, image = EXCLUDED.image;\n\n")
	}

	if len(stock) > 0 {
		b.WriteString("-- 2. Stock\n")
		b.WriteString("INSERT INTO stock (id, amount) VALUES\n")
		for i, s := range stock {
			fmt.Fprintf(&b, "  (%d, %d)", s.ID, s.Amount)
			if i < len(stock)-1 {
				b.WriteString(",\n")
			} else {
				b.WriteString("\n")
			}
		}
		b.WriteString("ON CONFLICT (id) DO UPDATE SET amount = EXCLUDED.amount;\n")
	}

	b.WriteString("\n-- +goose Down\n")
	if len(products) > 0 {
		ids := make([]string, len(products))
		for i, p := range products {
			ids[i] = strconv.FormatInt(p.ID, 10)
		}
		list := strings.Join(ids, ", ")
		fmt.Fprintf(&b, "DELETE FROM stock WHERE id IN (%s);\n", list)
		fmt.Fprintf(&b, "DELETE FROM products WHERE id IN (%s);\n", list)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
