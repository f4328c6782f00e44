package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"seatplan-cli/layout"
	"seatplan-cli/model"
	"seatplan-cli/pricing"
)

var (
	styleStandard = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleVIP      = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	stylePremium  = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	styleCouple   = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	styleAisle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleCursor   = lipgloss.NewStyle().Background(lipgloss.Color("63")).Foreground(lipgloss.Color("0")).Bold(true)
)

type gridCursor struct {
	row int
	col int
}

func cellToken(cell layout.Cell) string {
	if !cell.Exists {
		if cell.PartOfCouple {
			return "=="
		}
		return "··"
	}
	switch cell.Type {
	case model.SeatVIP:
		return "VV"
	case model.SeatPremium:
		return "PP"
	case model.SeatCouple:
		return "CC"
	default:
		return "[]"
	}
}

func cellStyle(cell layout.Cell) lipgloss.Style {
	if !cell.Exists {
		return styleAisle
	}
	switch cell.Type {
	case model.SeatVIP:
		return styleVIP
	case model.SeatPremium:
		return stylePremium
	case model.SeatCouple:
		return styleCouple
	default:
		return styleStandard
	}
}

// renderGrid draws a layout grid with row labels on both sides and a screen
// bar below, in front of the first row. cursor may be nil for read-only views.
func renderGrid(grid layout.Grid, cursor *gridCursor, showNumbers bool) string {
	if grid.RowCount() == 0 || grid.ColumnCount() == 0 {
		return "No seats defined for this room yet."
	}

	rowWidth := 2
	for _, label := range grid.RowLabels() {
		if len(label) > rowWidth {
			rowWidth = len(label)
		}
	}

	cellWidth := 2
	if showNumbers {
		for _, row := range grid {
			for _, cell := range row {
				if !cell.Exists {
					continue
				}
				if l := len(cell.RowLabel) + digits(cell.Column); l > cellWidth {
					cellWidth = l
				}
			}
		}
	}

	var b strings.Builder
	for r, row := range grid {
		label := ""
		if len(row) > 0 {
			label = row[0].RowLabel
		}
		b.WriteString(fmt.Sprintf("%*s ", rowWidth, label))
		for c, cell := range row {
			text := cellToken(cell)
			if showNumbers && cell.Exists {
				text = cell.RowLabel + fmt.Sprintf("%d", cell.Column)
			}
			rendered := padCell(text, cellWidth)
			if cursor != nil && cursor.row == r && cursor.col == c {
				rendered = styleCursor.Render(rendered)
			} else {
				rendered = cellStyle(cell).Render(rendered)
			}
			b.WriteString(rendered)
			if c < len(row)-1 {
				b.WriteString(" ")
			}
		}
		b.WriteString(fmt.Sprintf(" %*s\n", rowWidth, label))
	}

	gridWidth := grid.ColumnCount()*(cellWidth+1) - 1
	bar := screenBarBlock(gridWidth, "SCREEN")
	screenStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("214"))
	screenBorderStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("214"))

	indent := strings.Repeat(" ", rowWidth+1)
	b.WriteString("\n")
	b.WriteString(indent + screenBorderStyle.Render(bar.top) + "\n")
	b.WriteString(indent + screenStyle.Render(bar.mid) + "\n")
	b.WriteString(indent + screenBorderStyle.Render(bar.bot) + "\n")

	return b.String()
}

func renderCounts(grid layout.Grid) string {
	counts := layout.CountByType(grid)
	total := 0
	for _, n := range counts {
		total += n
	}
	return fmt.Sprintf(
		"Standard: %d • VIP: %d • Couple: %d • Premium: %d • Total: %d",
		counts[model.SeatStandard], counts[model.SeatVIP],
		counts[model.SeatCouple], counts[model.SeatPremium], total,
	)
}

func renderLegend(showNumbers bool) string {
	if showNumbers {
		return "Legend: color shows seat type • text is the seat number • ·· aisle • == couple half"
	}
	return "Legend: [] standard • VV vip • CC couple • == couple half • PP premium • ·· aisle"
}

// renderPricing draws the per-room multiplier panel with one line per seat
// type and a marker on the cursor line.
func renderPricing(roomName string, table pricing.Table, hasOverride bool, cursor int, notice string) string {
	var b strings.Builder
	title := fmt.Sprintf("Price multipliers • %s", roomName)
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(title))
	b.WriteString("\n")
	if hasOverride {
		b.WriteString(hint("Room override active (defaults shown in parentheses)"))
	} else {
		b.WriteString(hint("Using system defaults"))
	}
	b.WriteString("\n\n")

	defaults := pricing.Defaults()
	for i, seatType := range model.SeatTypes() {
		marker := "  "
		if i == cursor {
			marker = "> "
		}
		line := fmt.Sprintf("%s%-9s ×%.2f", marker, seatType, table.For(seatType))
		if hasOverride {
			line += fmt.Sprintf("  (%.2f)", defaults.For(seatType))
		}
		if i == cursor {
			line = lipgloss.NewStyle().Bold(true).Render(line)
		}
		b.WriteString(line + "\n")
	}

	if notice != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(notice))
	}
	return b.String()
}

func digits(n int) int {
	count := 1
	for n >= 10 {
		n /= 10
		count++
	}
	return count
}

func padCell(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if text == "" {
		return strings.Repeat(" ", width)
	}
	if len([]rune(text)) >= width {
		return text
	}
	padding := width - len([]rune(text))
	left := padding / 2
	right := padding - left
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", right)
}

type screenBlock struct {
	top string
	mid string
	bot string
}

func screenBarBlock(width int, label string) screenBlock {
	if width < len(label)+4 {
		width = len(label) + 4
	}
	if width < 10 {
		width = 10
	}

	border := "╭" + strings.Repeat("─", width-2) + "╮"
	bottom := "╰" + strings.Repeat("─", width-2) + "╯"

	labelText := " " + label + " "
	padding := width - len(labelText) - 2
	left := padding / 2
	right := padding - left
	mid := "│" + strings.Repeat(" ", left) + labelText + strings.Repeat(" ", right) + "│"
	return screenBlock{top: border, mid: mid, bot: bottom}
}
