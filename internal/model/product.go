package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Product maps a row of the products table. Detail holds a JSON blob with the
// rich detail sections (attribute table, extra images, specs, skus); Images
// holds either a JSON array or a comma-separated list of URLs, legacy data
// has both shapes.
type Product struct {
	ID          string
	Category    string
	Tag         string
	Title       string
	Subtitle    string
	Description string
	Detail      string
	Price       float64
	Image       string
	Images      string
	TaobaoURL   string
	Stock       int
	Sales       int
	Status      int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductDetail is the parsed form of Product.Detail. The attribute/spec/sku
// entries are pass-through JSON owned by the admin frontend.
type ProductDetail struct {
	Attributes []any    `json:"attributes"`
	Images     []string `json:"images"`
	Specs      []any    `json:"specs"`
	Skus       []any    `json:"skus"`
}

// ParseDetail decodes the detail blob, returning empty sections for blank or
// malformed data so list endpoints never fail on one bad row.
func (p *Product) ParseDetail() ProductDetail {
	d := ProductDetail{Attributes: []any{}, Images: []string{}, Specs: []any{}, Skus: []any{}}
	if strings.TrimSpace(p.Detail) == "" {
		return d
	}
	var parsed ProductDetail
	if err := json.Unmarshal([]byte(p.Detail), &parsed); err != nil {
		return d
	}
	if parsed.Attributes != nil {
		d.Attributes = parsed.Attributes
	}
	if parsed.Images != nil {
		d.Images = parsed.Images
	}
	if parsed.Specs != nil {
		d.Specs = parsed.Specs
	}
	if parsed.Skus != nil {
		d.Skus = parsed.Skus
	}
	return d
}

// ImageList normalizes the images column: JSON array, comma-separated string,
// or a single URL.
func (p *Product) ImageList() []string {
	raw := strings.TrimSpace(p.Images)
	if raw == "" {
		return []string{}
	}
	if strings.HasPrefix(raw, "[") {
		var urls []string
		if err := json.Unmarshal([]byte(raw), &urls); err == nil {
			out := make([]string, 0, len(urls))
			for _, u := range urls {
				if u = strings.TrimSpace(u); u != "" {
					out = append(out, u)
				}
			}
			return out
		}
		return []string{}
	}
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ProductListItem is the public catalog list shape.
type ProductListItem struct {
	ID        string   `json:"id"`
	Category  string   `json:"category"`
	Tag       string   `json:"tag"`
	Title     string   `json:"title"`
	Desc      string   `json:"desc"`
	Price     float64  `json:"price"`
	Img       string   `json:"img"`
	Images    []string `json:"images"`
	TaobaoURL string   `json:"taobaoUrl"`
}

// ProductDetailItem is the full product shape used by the public detail
// endpoint and the admin list.
type ProductDetailItem struct {
	ID               string   `json:"id"`
	Category         string   `json:"category"`
	Tag              string   `json:"tag"`
	Title            string   `json:"title"`
	Desc             string   `json:"desc"`
	Price            float64  `json:"price"`
	Img              string   `json:"img"`
	Images           []string `json:"images"`
	DetailAttributes []any    `json:"detailAttributes"`
	DetailImages     []string `json:"detailImages"`
	TaobaoURL        string   `json:"taobaoUrl"`
	Stock            int      `json:"stock"`
	Sales            int      `json:"sales"`
	Status           int      `json:"status"`
	Specs            []any    `json:"specs"`
	Skus             []any    `json:"skus"`
}

func (p *Product) ListItem() ProductListItem {
	return ProductListItem{
		ID:        p.ID,
		Category:  p.Category,
		Tag:       p.Tag,
		Title:     p.Title,
		Desc:      p.Description,
		Price:     p.Price,
		Img:       p.Image,
		Images:    p.ImageList(),
		TaobaoURL: p.TaobaoURL,
	}
}

func (p *Product) DetailItem() ProductDetailItem {
	d := p.ParseDetail()
	return ProductDetailItem{
		ID:               p.ID,
		Category:         p.Category,
		Tag:              p.Tag,
		Title:            p.Title,
		Desc:             p.Description,
		Price:            p.Price,
		Img:              p.Image,
		Images:           p.ImageList(),
		DetailAttributes: d.Attributes,
		DetailImages:     d.Images,
		TaobaoURL:        p.TaobaoURL,
		Stock:            p.Stock,
		Sales:            p.Sales,
		Status:           p.Status,
		Specs:            d.Specs,
		Skus:             d.Skus,
	}
}

// CreateProductRequest is the admin create payload. Detail sections arrive
// split out and are folded into the detail JSON blob on insert.
type CreateProductRequest struct {
	ID           string   `json:"id"`
	Category     string   `json:"category"`
	Tag          string   `json:"tag"`
	Title        string   `json:"title"`
	Desc         string   `json:"desc"`
	Price        *float64 `json:"price"`
	Img          string   `json:"img"`
	Images       []string `json:"images"`
	TaobaoURL    string   `json:"taobaoUrl"`
	Stock        int      `json:"stock"`
	Sales        int      `json:"sales"`
	Status       *int     `json:"status"`
	DetailTable  []any    `json:"detailTable"`
	DetailImages []string `json:"detailImages"`
	Specs        []any    `json:"specs"`
	Skus         []any    `json:"skus"`
}

// DetailJSON builds the detail column value; empty when every section is empty.
func (r *CreateProductRequest) DetailJSON() string {
	return detailJSON(r.DetailTable, r.DetailImages, r.Specs, r.Skus)
}

// UpdateProductRequest carries partial updates; nil fields are left untouched.
type UpdateProductRequest struct {
	Category     *string  `json:"category"`
	Tag          *string  `json:"tag"`
	Title        *string  `json:"title"`
	Desc         *string  `json:"desc"`
	Price        *float64 `json:"price"`
	Img          *string  `json:"img"`
	Images       []string `json:"images"`
	TaobaoURL    *string  `json:"taobaoUrl"`
	Stock        *int     `json:"stock"`
	Sales        *int     `json:"sales"`
	Status       *int     `json:"status"`
	DetailTable  []any    `json:"detailTable"`
	DetailImages []string `json:"detailImages"`
	Specs        []any    `json:"specs"`
	Skus         []any    `json:"skus"`
}

func (r *UpdateProductRequest) DetailJSON() string {
	return detailJSON(r.DetailTable, r.DetailImages, r.Specs, r.Skus)
}

// HasDetailSections reports whether the request touched any detail section.
func (r *UpdateProductRequest) HasDetailSections() bool {
	return r.DetailTable != nil || r.DetailImages != nil || r.Specs != nil || r.Skus != nil
}

func detailJSON(attrs []any, images []string, specs, skus []any) string {
	if len(attrs) == 0 && len(images) == 0 && len(specs) == 0 && len(skus) == 0 {
		return ""
	}
	d := ProductDetail{
		Attributes: emptyIfNil(attrs),
		Images:     images,
		Specs:      emptyIfNil(specs),
		Skus:       emptyIfNil(skus),
	}
	if d.Images == nil {
		d.Images = []string{}
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return ""
	}
	return string(raw)
}

func emptyIfNil(v []any) []any {
	if v == nil {
		return []any{}
	}
	return v
}
