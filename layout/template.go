package layout

import (
	"errors"
	"fmt"
)

// ErrTemplateNotFound is returned for unknown template keys.
var ErrTemplateNotFound = errors.New("template not found")

// Zone is a rectangular grid region. Rows are 0-based indexes, columns are
// 1-based, both ends inclusive.
type Zone struct {
	RowStart int
	RowEnd   int
	ColStart int
	ColEnd   int
}

// Template is a named, parameterized preset for generating a fresh layout.
// Templates are pure data; adding one is a catalog-only change.
type Template struct {
	Key          string
	DisplayName  string
	Rows         int
	Columns      int
	RowLabels    string
	AisleColumns []int
	AisleRows    []int
	PremiumZone  *Zone
	CoupleRows   []string
}

func (t *Template) isAisle(rowIndex, column int) bool {
	if t == nil {
		return false
	}
	for _, c := range t.AisleColumns {
		if c == column {
			return true
		}
	}
	for _, r := range t.AisleRows {
		if r == rowIndex {
			return true
		}
	}
	return false
}

func (t *Template) inPremiumZone(rowIndex, column int) bool {
	if t == nil || t.PremiumZone == nil {
		return false
	}
	z := t.PremiumZone
	return rowIndex >= z.RowStart && rowIndex <= z.RowEnd &&
		column >= z.ColStart && column <= z.ColEnd
}

func (t *Template) forcesCoupleRow(label string) bool {
	if t == nil {
		return false
	}
	for _, l := range t.CoupleRows {
		if l == label {
			return true
		}
	}
	return false
}

var templateCatalog = []Template{
	{
		Key:         "classic",
		DisplayName: "Classic 10x12",
		Rows:        10,
		Columns:     12,
		RowLabels:   "ABCDEFGHIJ",
	},
	{
		Key:          "center-aisle",
		DisplayName:  "Center Aisle 10x13",
		Rows:         10,
		Columns:      13,
		RowLabels:    "ABCDEFGHIJ",
		AisleColumns: []int{7},
	},
	{
		Key:          "imax",
		DisplayName:  "IMAX 14x18",
		Rows:         14,
		Columns:      18,
		RowLabels:    "ABCDEFGHIJKLMN",
		AisleColumns: []int{5, 14},
		PremiumZone:  &Zone{RowStart: 4, RowEnd: 9, ColStart: 6, ColEnd: 13},
	},
	{
		Key:          "couple-back",
		DisplayName:  "Couple Back Row 10x12",
		Rows:         10,
		Columns:      12,
		RowLabels:    "ABCDEFGHIJ",
		AisleColumns: []int{6},
		CoupleRows:   []string{"J"},
	},
	{
		Key:         "vip-hall",
		DisplayName: "VIP Hall 8x10",
		Rows:        8,
		Columns:     10,
		RowLabels:   "ABCDEFGH",
		AisleRows:   []int{4},
		PremiumZone: &Zone{RowStart: 5, RowEnd: 7, ColStart: 1, ColEnd: 10},
	},
}

// Templates lists the registered presets in catalog order.
func Templates() []Template {
	out := make([]Template, len(templateCatalog))
	copy(out, templateCatalog)
	return out
}

// TemplateByKey looks up a preset by key.
func TemplateByKey(key string) (Template, error) {
	for _, t := range templateCatalog {
		if t.Key == key {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("%w: %q", ErrTemplateNotFound, key)
}
