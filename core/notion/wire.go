package notion

import (
	"math"
	"strings"

	"stock-sync/core/inventory"
)

// Property names of the inventory database.
const (
	PropName     = "Name"
	PropSKU      = "SKU"
	PropStock    = "Stock"
	PropBrand    = "Brand"
	PropPrice    = "Price"
	PropCategory = "Category"
)

type page struct {
	ID         string              `json:"id"`
	Archived   bool                `json:"archived"`
	Properties map[string]property `json:"properties"`
}

type property struct {
	Type     string     `json:"type"`
	Title    []richText `json:"title,omitempty"`
	RichText []richText `json:"rich_text,omitempty"`
	Number   *float64   `json:"number,omitempty"`
	Select   *option    `json:"select,omitempty"`
}

type richText struct {
	PlainText string `json:"plain_text,omitempty"`
	Text      *text  `json:"text,omitempty"`
}

type text struct {
	Content string `json:"content"`
}

type option struct {
	Name string `json:"name"`
}

type queryRequest struct {
	Filter      *filter `json:"filter,omitempty"`
	StartCursor string  `json:"start_cursor,omitempty"`
	PageSize    int     `json:"page_size,omitempty"`
}

type filter struct {
	Property string     `json:"property"`
	RichText textFilter `json:"rich_text"`
}

type textFilter struct {
	Equals string `json:"equals"`
}

type queryResponse struct {
	Results    []page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

func plain(fragments []richText) string {
	var b strings.Builder
	for _, f := range fragments {
		switch {
		case f.PlainText != "":
			b.WriteString(f.PlainText)
		case f.Text != nil:
			b.WriteString(f.Text.Content)
		}
	}
	return b.String()
}

func (p property) String() string {
	switch p.Type {
	case "title":
		return plain(p.Title)
	case "rich_text":
		return plain(p.RichText)
	case "select":
		if p.Select != nil {
			return p.Select.Name
		}
	}
	return ""
}

func toRecord(pg page) inventory.InventoryRecord {
	rec := inventory.InventoryRecord{
		PageID:   pg.ID,
		Name:     pg.Properties[PropName].String(),
		SKU:      strings.TrimSpace(pg.Properties[PropSKU].String()),
		Brand:    pg.Properties[PropBrand].String(),
		Category: pg.Properties[PropCategory].String(),
	}
	if n := pg.Properties[PropStock].Number; n != nil {
		rec.Stock = inventory.IntPtr(int(math.Round(*n)))
	}
	if n := pg.Properties[PropPrice].Number; n != nil {
		price := *n
		rec.Price = &price
	}
	return rec
}

func textValue(s string) map[string]any {
	return map[string]any{"rich_text": []map[string]any{{"text": map[string]string{"content": s}}}}
}

// metaProperties renders the non-empty parts of meta.
func metaProperties(props map[string]any, meta inventory.RecordMeta) {
	if meta.Brand != "" {
		props[PropBrand] = textValue(meta.Brand)
	}
	if price, ok := meta.PriceFloat(); ok {
		props[PropPrice] = map[string]any{"number": price}
	}
	if meta.Category != "" {
		props[PropCategory] = map[string]any{"select": map[string]string{"name": meta.Category}}
	}
}

func createProperties(fields inventory.RecordFields) map[string]any {
	props := map[string]any{
		PropName:  map[string]any{"title": []map[string]any{{"text": map[string]string{"content": fields.Name}}}},
		PropSKU:   textValue(fields.SKU),
		PropStock: map[string]any{"number": fields.Stock},
	}
	metaProperties(props, fields.Meta)
	return props
}
