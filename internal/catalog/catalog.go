// Package catalog holds the read-only product list used for chat recommendations.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"go-skin-inspector/internal/logger"
)

// DefaultLimit is the number of recommendations returned per reply
const DefaultLimit = 3

var requiredColumns = []string{"name", "type", "skin_type", "price", "image_url"}

// Product is one catalog row
type Product struct {
	Name     string
	Type     string
	SkinType string
	Price    float64
	ImageURL string
}

// Recommendation is the wire form of a matched product
type Recommendation struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url"`
}

// Catalog is immutable after construction and safe for concurrent use
type Catalog struct {
	products []Product
}

// New builds a catalog from a copy of products
func New(products []Product) *Catalog {
	return &Catalog{products: append([]Product(nil), products...)}
}

// Load reads a CSV catalog. A missing file yields an empty catalog.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.WithField("path", path).Warn("Product catalog not found, recommendations disabled")
		return New(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", path, err)
	}
	logger.WithField("products", c.Len()).Info("Product catalog loaded")
	return c, nil
}

// Parse reads CSV with a header row naming at least the required columns, in any order
func Parse(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return New(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var products []Product
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		field := func(col string) string {
			if i := index[col]; i < len(record) {
				return strings.TrimSpace(record[i])
			}
			return ""
		}

		price, err := strconv.ParseFloat(field("price"), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid price %q", line, field("price"))
		}
		products = append(products, Product{
			Name:     field("name"),
			Type:     field("type"),
			SkinType: field("skin_type"),
			Price:    price,
			ImageURL: field("image_url"),
		})
	}
	return &Catalog{products: products}, nil
}

// Len returns the number of products
func (c *Catalog) Len() int {
	return len(c.products)
}

// Match returns up to limit products, in catalog order, whose type or skin type
// occurs in text. Matching is case-insensitive; empty fields never match.
func (c *Catalog) Match(text string, limit int) []Recommendation {
	out := []Recommendation{}
	if limit <= 0 {
		return out
	}
	text = strings.ToLower(text)

	for _, p := range c.products {
		if !containsField(text, p.Type) && !containsField(text, p.SkinType) {
			continue
		}
		out = append(out, p.recommendation())
		if len(out) == limit {
			break
		}
	}
	return out
}

func containsField(text, field string) bool {
	field = strings.ToLower(field)
	return field != "" && strings.Contains(text, field)
}

func (p Product) recommendation() Recommendation {
	return Recommendation{
		Name:        p.Name,
		Description: fmt.Sprintf("A %s specifically designed for %s skin", p.Type, p.SkinType),
		Price:       p.Price,
		Category:    p.Type,
		ImageURL:    p.ImageURL,
	}
}
