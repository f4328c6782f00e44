package layout

import (
	"sort"
	"strconv"
	"strings"

	"seatplan-cli/model"
	"seatplan-cli/pricing"
)

// Cell is one position of the designer grid. Cells with Exists=false are
// aisles unless PartOfCouple marks them as the consumed half of a couple seat.
type Cell struct {
	RowLabel     string
	Column       int
	Type         model.SeatType
	Status       string
	Multiplier   float64
	Exists       bool
	PartOfCouple bool
}

// Grid is an ephemeral rectangular projection of a room layout. It is rebuilt
// whenever the room selection changes or a template is applied.
type Grid [][]Cell

func (g Grid) RowCount() int { return len(g) }

func (g Grid) ColumnCount() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Clone returns a deep copy, so editor transforms never mutate their input.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for i, row := range g {
		out[i] = make([]Cell, len(row))
		copy(out[i], row)
	}
	return out
}

// Equal reports whether two grids are structurally identical cell for cell.
func (g Grid) Equal(other Grid) bool {
	if len(g) != len(other) {
		return false
	}
	for i := range g {
		if len(g[i]) != len(other[i]) {
			return false
		}
		for j := range g[i] {
			if g[i][j] != other[i][j] {
				return false
			}
		}
	}
	return true
}

// RowLabels returns the labels of all rows, top to bottom.
func (g Grid) RowLabels() []string {
	labels := make([]string, 0, len(g))
	for _, row := range g {
		if len(row) == 0 {
			continue
		}
		labels = append(labels, row[0].RowLabel)
	}
	return labels
}

func aisleCell(rowLabel string, column int) Cell {
	return Cell{
		RowLabel:   rowLabel,
		Column:     column,
		Type:       model.SeatStandard,
		Multiplier: 1.0,
	}
}

// BuildFromPersisted projects a flat persisted seat list into a rectangular
// grid. Missing positions become aisle placeholders; the consumed half of a
// couple seat is re-derived from the primary seat's type, since partners are
// never stored independently. Couple primaries with no room for a partner are
// demoted to STANDARD. Empty input yields an empty grid.
func BuildFromPersisted(seats []model.Seat) Grid {
	if len(seats) == 0 {
		return Grid{}
	}

	maxColumn := 0
	byRow := map[string]map[int]model.Seat{}
	for _, seat := range seats {
		if seat.RowLabel == "" || seat.ColumnNumber < 1 {
			continue
		}
		if seat.ColumnNumber > maxColumn {
			maxColumn = seat.ColumnNumber
		}
		row, ok := byRow[seat.RowLabel]
		if !ok {
			row = map[int]model.Seat{}
			byRow[seat.RowLabel] = row
		}
		if _, dup := row[seat.ColumnNumber]; dup {
			continue
		}
		row[seat.ColumnNumber] = seat
	}
	if maxColumn == 0 || len(byRow) == 0 {
		return Grid{}
	}

	labels := make([]string, 0, len(byRow))
	for label := range byRow {
		labels = append(labels, label)
	}
	sortRowLabels(labels)

	grid := make(Grid, 0, len(labels))
	for _, label := range labels {
		row := make([]Cell, maxColumn)
		for column := 1; column <= maxColumn; column++ {
			seat, ok := byRow[label][column]
			if !ok {
				row[column-1] = aisleCell(label, column)
				continue
			}
			row[column-1] = Cell{
				RowLabel:   label,
				Column:     column,
				Type:       seat.SeatType,
				Status:     seat.Status,
				Multiplier: seat.PriceMultiplier,
				Exists:     true,
			}
		}
		for column := 1; column <= maxColumn; column++ {
			if row[column-1].Type != model.SeatCouple || !row[column-1].Exists {
				continue
			}
			// A couple primary needs a free column to its right. Backend data
			// that puts one in the last column, or persists an independent
			// seat where the partner belongs, gets demoted to STANDARD.
			if _, persisted := byRow[label][column+1]; persisted || column == maxColumn {
				row[column-1].Type = model.SeatStandard
				continue
			}
			row[column].PartOfCouple = true
		}
		grid = append(grid, row)
	}
	return grid
}

// BuildFromSpec generates a fresh grid from a row/column specification and an
// optional template. Deterministic for identical inputs. Non-positive
// dimensions yield an empty grid; a short rowLabels string falls back to
// synthetic labels for the remaining rows.
func BuildFromSpec(rows, columns int, rowLabels string, tpl *Template, cfg pricing.Table) Grid {
	if rows <= 0 || columns <= 0 {
		return Grid{}
	}

	labelRunes := []rune(rowLabels)
	grid := make(Grid, rows)
	for i := 0; i < rows; i++ {
		label := "R" + strconv.Itoa(i+1)
		if i < len(labelRunes) {
			label = string(labelRunes[i])
		}
		coupleRow := tpl.forcesCoupleRow(label)

		row := make([]Cell, columns)
		for j := 1; j <= columns; j++ {
			if tpl.isAisle(i, j) {
				row[j-1] = aisleCell(label, j)
				continue
			}
			if j >= 2 && row[j-2].Exists && row[j-2].Type == model.SeatCouple {
				partner := aisleCell(label, j)
				partner.PartOfCouple = true
				row[j-1] = partner
				continue
			}

			seatType := model.SeatStandard
			switch {
			case tpl.inPremiumZone(i, j):
				seatType = model.SeatPremium
			case coupleRow && j < columns && !tpl.isAisle(i, j+1):
				seatType = model.SeatCouple
			}
			row[j-1] = Cell{
				RowLabel:   label,
				Column:     j,
				Type:       seatType,
				Status:     model.StatusAvailable,
				Multiplier: cfg.For(seatType),
				Exists:     true,
			}
		}
		grid[i] = row
	}
	return grid
}

// ApplyPricing rewrites every existing cell's multiplier from the given table
// without rebuilding the grid, preserving aisle and couple structure exactly.
func ApplyPricing(grid Grid, cfg pricing.Table) Grid {
	out := grid.Clone()
	for i := range out {
		for j := range out[i] {
			if out[i][j].Exists {
				out[i][j].Multiplier = cfg.For(out[i][j].Type)
			}
		}
	}
	return out
}

// Flatten serializes a grid back into the flat persisted seat list. Only real
// primary seats are emitted: aisles and couple-consumed cells never persist.
func Flatten(grid Grid) []model.Seat {
	var seats []model.Seat
	for _, row := range grid {
		for _, cell := range row {
			if !cell.Exists || cell.PartOfCouple {
				continue
			}
			status := cell.Status
			if status == "" {
				status = model.StatusAvailable
			}
			seat := model.Seat{
				RowLabel:        cell.RowLabel,
				ColumnNumber:    cell.Column,
				SeatType:        cell.Type,
				Status:          status,
				PriceMultiplier: cell.Multiplier,
				Exists:          true,
			}
			seat.SeatNumber = seat.Number()
			seats = append(seats, seat)
		}
	}
	return seats
}

// CountByType tallies existing seats per type; couple primaries count once.
func CountByType(grid Grid) map[model.SeatType]int {
	counts := map[model.SeatType]int{}
	for _, row := range grid {
		for _, cell := range row {
			if cell.Exists && !cell.PartOfCouple {
				counts[cell.Type]++
			}
		}
	}
	return counts
}

// sortRowLabels orders row labels for display: synthetic "R<n>" labels sort
// numerically among themselves, everything else lexically.
func sortRowLabels(labels []string) {
	sort.Slice(labels, func(i, j int) bool {
		left, leftSynthetic := syntheticIndex(labels[i])
		right, rightSynthetic := syntheticIndex(labels[j])
		if leftSynthetic && rightSynthetic {
			return left < right
		}
		if leftSynthetic != rightSynthetic {
			return !leftSynthetic
		}
		return labels[i] < labels[j]
	})
}

func syntheticIndex(label string) (int, bool) {
	rest, ok := strings.CutPrefix(label, "R")
	if !ok || rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}
