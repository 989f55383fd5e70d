// Package product models exported catalog records and splits them into
// embeddable chunks.
package product

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Default chunking parameters, in runes.
const (
	DefaultChunkSize    = 1200
	DefaultChunkOverlap = 150
)

// Product is one line of the exported products JSONL file.
type Product struct {
	ProductID      int64           `json:"product_id"`
	Name           string          `json:"name"`
	Brand          string          `json:"brand"`
	CategoryName   string          `json:"category_name"`
	Description    string          `json:"description"`
	UseCase        string          `json:"use_case"`
	USP            string          `json:"usp"`
	Price          *float64        `json:"price"`
	ImageURL       string          `json:"image_url"`
	Specifications json.RawMessage `json:"specifications"`
}

// Validate checks the fields the indexer relies on.
func (p *Product) Validate() error {
	if p.ProductID <= 0 {
		return errors.New("product_id must be positive")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("product %d: name is required", p.ProductID)
	}
	return nil
}

// SpecText flattens the specifications value into "key: value; ..." text,
// keeping the key order of the source document.
func (p *Product) SpecText() string {
	return flattenSpec(p.Specifications)
}

// Content builds the text that is chunked and embedded.
func (p *Product) Content() string {
	header := strings.TrimSpace(p.Name)
	if brand := strings.TrimSpace(p.Brand); brand != "" {
		header += " - " + brand
	}
	if category := strings.TrimSpace(p.CategoryName); category != "" {
		header += " | Danh mục: " + category
	}

	parts := []string{header}
	if d := strings.TrimSpace(p.Description); d != "" {
		parts = append(parts, d)
	}
	if u := strings.TrimSpace(p.UseCase); u != "" {
		parts = append(parts, "Mục đích sử dụng: "+u)
	}
	if u := strings.TrimSpace(p.USP); u != "" {
		parts = append(parts, "Điểm nổi bật: "+u)
	}
	if s := p.SpecText(); s != "" {
		parts = append(parts, "Thông số: "+s)
	}
	return strings.TrimSpace(strings.Join(parts, ". "))
}

func flattenSpec(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	switch raw[0] {
	case '{':
		dec := json.NewDecoder(bytes.NewReader(raw))
		if _, err := dec.Token(); err != nil {
			return string(raw)
		}
		var parts []string
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return string(raw)
			}
			key, _ := tok.(string)
			var v json.RawMessage
			if err := dec.Decode(&v); err != nil {
				return string(raw)
			}
			parts = append(parts, key+": "+scalarText(v))
		}
		return strings.Join(parts, "; ")
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return string(raw)
		}
		parts := make([]string, 0, len(items))
		for _, it := range items {
			parts = append(parts, scalarText(it))
		}
		return strings.Join(parts, "; ")
	default:
		return scalarText(raw)
	}
}

// scalarText renders strings unquoted and everything else as compact JSON.
func scalarText(v json.RawMessage) string {
	v = bytes.TrimSpace(v)
	if len(v) > 0 && v[0] == '"' {
		if s, err := strconv.Unquote(string(v)); err == nil {
			return s
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err != nil {
		return string(v)
	}
	return buf.String()
}
