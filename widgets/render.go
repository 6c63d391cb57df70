package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderPad renders a single colored cell
func RenderPad(color [3]uint8) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(color)))
	return style.Render("■")
}

// RenderBar renders a horizontal value bar filled from the origin. For
// unipolar controls origin is 0; for bipolar controls pass the normalized
// zero position so the fill grows away from the visual center.
func RenderBar(norm, origin float64, width int, fill, empty [3]uint8) string {
	if width < 1 {
		return ""
	}
	norm = clamp01(norm)
	origin = clamp01(origin)
	pos := int(norm*float64(width-1) + 0.5)
	org := int(origin*float64(width-1) + 0.5)
	lo, hi := org, pos
	if lo > hi {
		lo, hi = hi, lo
	}

	fillStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(fill)))
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(empty)))

	var out strings.Builder
	for i := 0; i < width; i++ {
		switch {
		case i >= lo && i <= hi:
			out.WriteString(fillStyle.Render("█"))
		case i == org:
			out.WriteString(emptyStyle.Render("┼"))
		default:
			out.WriteString(emptyStyle.Render("░"))
		}
	}
	return out.String()
}

// RenderToggle renders a boolean state marker.
func RenderToggle(on bool, onColor, offColor [3]uint8) string {
	if on {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(onColor))).Render("●")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(offColor))).Render("○")
}

// RenderXYPad renders a w x h cell grid with a marker at the normalized
// position (x grows right, y grows up).
func RenderXYPad(x, y float64, w, h int, marker, grid [3]uint8) string {
	if w < 1 || h < 1 {
		return ""
	}
	col := int(clamp01(x)*float64(w-1) + 0.5)
	row := int(clamp01(y)*float64(h-1) + 0.5)

	markerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(marker)))
	gridStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(grid)))

	var lines []string
	for r := h - 1; r >= 0; r-- {
		var line strings.Builder
		for c := 0; c < w; c++ {
			if r == row && c == col {
				line.WriteString(markerStyle.Render("◉"))
			} else {
				line.WriteString(gridStyle.Render("·"))
			}
			if c < w-1 {
				line.WriteString(" ")
			}
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// RenderWave draws a sampled curve onto a width x height character grid
// with a midline reference. Samples are display-normalized (0..1, 0.5 is
// the zero line); the function is pure, the same samples always draw the
// same string.
func RenderWave(samples []float64, width, height int, curve, grid [3]uint8) string {
	if width < 1 || height < 1 || len(samples) == 0 {
		return ""
	}
	curveStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(curve)))
	gridStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(grid)))

	// Row-quantize one sample per column.
	rows := make([]int, width)
	for col := 0; col < width; col++ {
		idx := 0
		if width > 1 {
			idx = col * (len(samples) - 1) / (width - 1)
		}
		v := clamp01(samples[idx])
		rows[col] = int(v*float64(height-1) + 0.5)
	}
	mid := (height - 1) / 2

	var lines []string
	for r := height - 1; r >= 0; r-- {
		var line strings.Builder
		for col := 0; col < width; col++ {
			switch {
			case rows[col] == r:
				line.WriteString(curveStyle.Render("●"))
			case r == mid:
				line.WriteString(gridStyle.Render("·"))
			default:
				line.WriteString(" ")
			}
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

func rgbToHex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
