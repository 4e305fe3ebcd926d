// Package importer turns semi-structured ERP spreadsheet exports into order
// preview records: a single pass over the grid matches order header and item
// rows, groups items under the preceding header, validates against the
// existing order numbers and commits the valid records one by one.
package importer

import (
	"regexp"
	"strings"
	"time"
)

// orderLineRegex matches an ERP order header in column A, e.g.
// "4063023 - SAO PAULO BALANCAS E MAQUINAS LTDA - 08.431.807/0001-90 - 20/08/2025"
var orderLineRegex = regexp.MustCompile(`(\d+)\s*-\s*([^-]+)\s*-\s*([\d./]+-?\d*)\s*-\s*(\d{2}/\d{2}/\d{4})`)

// capacityRegex extracts the capacity token after a "Cap." marker. The token
// stops at whitespace or a hyphen.
var capacityRegex = regexp.MustCompile(`Cap\.\s*([^\s-]+)`)

// certificateRegex extracts a trailing certificate marker ("- IPEM" / "- RBC").
var certificateRegex = regexp.MustCompile(`(?i)-\s*(IPEM|RBC)\s*$`)

var nonDigitRegex = regexp.MustCompile(`\D`)

// itemPrefixes are the product-line prefixes that mark an item row.
var itemPrefixes = []string{"Peso Padrão"}

// ValidationStatus is the tri-state outcome of validating one preview record.
type ValidationStatus string

const (
	StatusValid     ValidationStatus = "valid"
	StatusInvalid   ValidationStatus = "invalid"
	StatusDuplicate ValidationStatus = "duplicate"
)

// PreviewItem is one parsed item line, grouped under its order header.
type PreviewItem struct {
	ProductDescription string  `json:"product_description"`
	Capacity           *string `json:"capacity,omitempty"`
	CertificateType    *string `json:"certificate_type,omitempty"`
}

// PreviewRecord is one parsed order header with its accumulated items and the
// validation outcome shown to the operator before commit.
type PreviewRecord struct {
	OrderNumber  string           `json:"order_number"`
	CustomerName string           `json:"customer_name"`
	CNPJ         string           `json:"cnpj"`
	OrderDate    string           `json:"order_date"` // RFC3339, or "" when unparseable
	Items        []PreviewItem    `json:"items"`
	Status       ValidationStatus `json:"status"`
	Messages     []string         `json:"messages,omitempty"`
}

// ParseGrid scans the first column of every row and folds matched rows into
// preview records. An order header row flushes the running accumulator; item
// rows attach to it. Item rows seen before any header are dropped.
func ParseGrid(grid [][]string) []PreviewRecord {
	var out []PreviewRecord
	var current *PreviewRecord
	for _, row := range grid {
		if len(row) == 0 {
			continue
		}
		cell := strings.TrimSpace(row[0])
		if cell == "" {
			continue
		}
		if m := orderLineRegex.FindStringSubmatch(cell); m != nil {
			if current != nil {
				out = append(out, *current)
			}
			current = &PreviewRecord{
				OrderNumber:  strings.TrimSpace(m[1]),
				CustomerName: strings.TrimSpace(m[2]),
				CNPJ:         nonDigitRegex.ReplaceAllString(m[3], ""),
				OrderDate:    convertDate(strings.TrimSpace(m[4])),
				Items:        []PreviewItem{},
			}
			continue
		}
		if item, ok := matchItemLine(cell); ok {
			if current == nil {
				// item row before any order header: dropped
				continue
			}
			current.Items = append(current.Items, item)
		}
	}
	if current != nil {
		out = append(out, *current)
	}
	return out
}

func matchItemLine(cell string) (PreviewItem, bool) {
	matched := false
	for _, prefix := range itemPrefixes {
		if strings.HasPrefix(cell, prefix) {
			matched = true
			break
		}
	}
	if !matched {
		return PreviewItem{}, false
	}
	item := PreviewItem{ProductDescription: cell}
	if m := capacityRegex.FindStringSubmatch(cell); m != nil {
		cap := m[1]
		item.Capacity = &cap
	}
	if m := certificateRegex.FindStringSubmatch(cell); m != nil {
		cert := strings.ToUpper(m[1])
		item.CertificateType = &cert
	}
	return item, true
}

// convertDate parses a DD/MM/YYYY string into an RFC3339 instant. Unparseable
// dates yield an empty string rather than an error.
func convertDate(s string) string {
	t, err := time.Parse("02/01/2006", s)
	if err != nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
