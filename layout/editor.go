package layout

import (
	"seatplan-cli/model"
	"seatplan-cli/pricing"
)

// Mode is the active edit mode of the layout editor.
type Mode int

const (
	ModeSingle Mode = iota
	ModeCouple
	ModePremium
	ModeAisle
)

func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeCouple:
		return "couple"
	case ModePremium:
		return "premium"
	case ModeAisle:
		return "aisle"
	default:
		return "unknown"
	}
}

// ApplyClick applies one edit-mode click at (rowIndex, colIndex) and returns
// the resulting grid; the input grid is never mutated. Invalid clicks return
// the input unchanged. Multipliers are re-derived from cfg at click time, so
// pricing edits made before a click are honored immediately.
//
// Couple merges are one-way: there is no single click that restores the
// consumed neighbor, and clicks on the consumed half are rejected while its
// primary is live. Turning the primary into an aisle leaves the neighbor
// marked as couple-consumed; the way back is aisle mode on the pair, then
// single mode on both cells.
func ApplyClick(grid Grid, rowIndex, colIndex int, mode Mode, cfg pricing.Table) Grid {
	if rowIndex < 0 || rowIndex >= len(grid) {
		return grid
	}
	if colIndex < 0 || colIndex >= len(grid[rowIndex]) {
		return grid
	}

	switch mode {
	case ModeAisle:
		return applyAisle(grid, rowIndex, colIndex, cfg)
	case ModeCouple:
		return applyCouple(grid, rowIndex, colIndex, cfg)
	case ModePremium:
		return applyPremium(grid, rowIndex, colIndex, cfg)
	case ModeSingle:
		return applySingle(grid, rowIndex, colIndex, cfg)
	default:
		return grid
	}
}

// consumedByLivePrimary reports whether the cell at colIndex is the consumed
// half of a couple whose primary still exists. Such cells cannot be edited
// directly; the pair is released through the primary.
func consumedByLivePrimary(row []Cell, colIndex int) bool {
	if !row[colIndex].PartOfCouple || colIndex == 0 {
		return false
	}
	left := row[colIndex-1]
	return left.Exists && left.Type == model.SeatCouple
}

func applyAisle(grid Grid, rowIndex, colIndex int, cfg pricing.Table) Grid {
	if consumedByLivePrimary(grid[rowIndex], colIndex) {
		return grid
	}
	out := grid.Clone()
	cell := &out[rowIndex][colIndex]
	if cell.Exists {
		// An aisle carries no seat attributes.
		cell.Exists = false
		cell.Type = model.SeatStandard
		cell.Status = ""
		cell.Multiplier = 1.0
		return out
	}
	cell.Exists = true
	cell.PartOfCouple = false
	cell.Type = model.SeatStandard
	cell.Status = model.StatusAvailable
	cell.Multiplier = cfg.For(model.SeatStandard)
	return out
}

func applyCouple(grid Grid, rowIndex, colIndex int, cfg pricing.Table) Grid {
	row := grid[rowIndex]
	if !row[colIndex].Exists || colIndex == len(row)-1 {
		return grid
	}
	neighbor := row[colIndex+1]
	if neighbor.PartOfCouple || (neighbor.Exists && neighbor.Type == model.SeatCouple) {
		return grid
	}

	out := grid.Clone()
	cell := &out[rowIndex][colIndex]
	cell.Type = model.SeatCouple
	cell.Multiplier = cfg.For(model.SeatCouple)
	if cell.Status == "" {
		cell.Status = model.StatusAvailable
	}

	partner := &out[rowIndex][colIndex+1]
	partner.Exists = false
	partner.PartOfCouple = true
	partner.Type = model.SeatStandard
	partner.Status = ""
	partner.Multiplier = 1.0
	return out
}

func applyPremium(grid Grid, rowIndex, colIndex int, cfg pricing.Table) Grid {
	if !grid[rowIndex][colIndex].Exists {
		return grid
	}
	out := grid.Clone()
	cell := &out[rowIndex][colIndex]
	cell.Type = model.SeatPremium
	cell.Multiplier = cfg.For(model.SeatPremium)
	return out
}

func applySingle(grid Grid, rowIndex, colIndex int, cfg pricing.Table) Grid {
	if consumedByLivePrimary(grid[rowIndex], colIndex) {
		return grid
	}
	out := grid.Clone()
	cell := &out[rowIndex][colIndex]
	if !cell.Exists {
		cell.Exists = true
		cell.PartOfCouple = false
		cell.Type = model.SeatStandard
		cell.Status = model.StatusAvailable
		cell.Multiplier = cfg.For(model.SeatStandard)
		return out
	}
	// Two-state toggle; couple and premium stay reachable only through their
	// dedicated modes.
	if cell.Type == model.SeatStandard {
		cell.Type = model.SeatVIP
	} else {
		cell.Type = model.SeatStandard
	}
	cell.Multiplier = cfg.For(cell.Type)
	return out
}
