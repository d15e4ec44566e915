package domain

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DRSN-tech/catalog-enricher/pkg/e"
	"github.com/DRSN-tech/catalog-enricher/pkg/ordered"
)

const fieldProducts = "products"

// Catalog — документ каталога целиком. Кроме products в нем могут быть и другие
// коллекции (users, orders, ...), они сохраняются без изменений.
type Catalog struct {
	doc      *ordered.Object
	products []*Product
}

// EnrichStats — итоги разметки каталога.
type EnrichStats struct {
	Updated int
	Genders map[Gender]int
	Colors  map[Color]int
}

// ParseCatalog разбирает документ и проверяет форму всех товаров до любых изменений.
// Ошибки синтаксиса оборачиваются в e.ErrCatalogParse, ошибки формы — в e.ErrCatalogShape.
func ParseCatalog(data []byte) (*Catalog, error) {
	var probe json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %w", e.ErrCatalogParse, err)
	}

	doc := ordered.NewObject()
	if err := doc.UnmarshalJSON(data); err != nil {
		return nil, shapeErr("document", err)
	}

	raw, ok := doc.Get(fieldProducts)
	if !ok {
		return nil, shapeErr("document", e.ErrProductsMissing)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil || string(raw) == "null" {
		return nil, shapeErr("document", e.ErrProductsNotArray)
	}

	products := make([]*Product, 0, len(entries))
	for i, entry := range entries {
		p, err := NewProductFromJSON(entry)
		if err != nil {
			return nil, shapeErr(fmt.Sprintf("products[%d]", i), err)
		}
		products = append(products, p)
	}

	return &Catalog{
		doc:      doc,
		products: products,
	}, nil
}

func shapeErr(where string, err error) error {
	if errors.Is(err, e.ErrCatalogShape) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", e.ErrCatalogShape, where, err)
}

// Products возвращает товары в порядке документа.
func (c *Catalog) Products() []*Product {
	return c.products
}

func (c *Catalog) Len() int {
	return len(c.products)
}

// ProductIDs возвращает непустые идентификаторы товаров.
func (c *Catalog) ProductIDs() []string {
	ids := make([]string, 0, len(c.products))
	for _, p := range c.products {
		if id := p.ID(); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Enrich размечает каждый товар полями gender и color.
// Результат зависит только от позиции товара и его colors, поэтому повторный запуск дает то же самое.
func (c *Catalog) Enrich() (*EnrichStats, error) {
	stats := &EnrichStats{
		Genders: make(map[Gender]int, 2),
		Colors:  make(map[Color]int, len(palette)),
	}

	for i, p := range c.products {
		g := GenderByIndex(i)
		col := p.ResolveColor()

		if err := p.Annotate(g, col); err != nil {
			return nil, e.Wrap(fmt.Sprintf("products[%d]", i), err)
		}

		stats.Updated++
		stats.Genders[g]++
		stats.Colors[col]++
	}

	return stats, nil
}

// MarshalJSON собирает документ обратно, подставляя текущие товары на место products.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	if err := c.doc.Set(fieldProducts, c.products); err != nil {
		return nil, err
	}
	return c.doc.MarshalJSON()
}
