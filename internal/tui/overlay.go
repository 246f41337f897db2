package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// renderPopup draws body in a bordered card centered over base. Columns of
// base outside the card stay visible.
func renderPopup(base, body string, border lipgloss.Color, width, height int) string {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2).
		Render(body)
	if width <= 0 || height <= 0 {
		return base + "\n\n" + card
	}
	baseCanvas := fitCanvas(base, width, height)
	placed := fitCanvas(lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card), width, height)
	return overlayOntoBase(baseCanvas, placed, width, height)
}

func overlayOntoBase(base, overlay string, width, height int) string {
	baseLines := splitToLines(base, height)
	overlayLines := splitToLines(overlay, height)
	out := make([]string, height)
	for i := 0; i < height; i++ {
		baseLine := padRightANSI(baseLines[i], width)
		overlayLine := padRightANSI(overlayLines[i], width)
		start, end, ok := cardBounds(overlayLine, width)
		if !ok {
			out[i] = baseLine
			continue
		}
		left := ansi.Truncate(baseLine, start, "")
		segment := ansi.Truncate(ansi.TruncateLeft(overlayLine, start, ""), end-start, "")
		right := ansi.TruncateLeft(baseLine, end, "")
		out[i] = padRightANSI(left+segment+right, width)
	}
	return strings.Join(out, "\n")
}

// cardBounds finds the first and last non-blank cell columns of a placed
// line. Widths are in terminal cells so wide runes in the card count double.
func cardBounds(line string, width int) (start, end int, ok bool) {
	plain := ansi.Strip(ansi.Truncate(line, width, ""))
	trimmed := strings.TrimRight(plain, " ")
	body := strings.TrimLeft(trimmed, " ")
	if body == "" {
		return 0, 0, false
	}
	start = len(trimmed) - len(body)
	return start, start + ansi.StringWidth(body), true
}

func fitCanvas(s string, width, height int) string {
	lines := splitToLines(s, height)
	for i := range lines {
		lines[i] = padRightANSI(lines[i], width)
	}
	return strings.Join(lines, "\n")
}

func splitToLines(s string, height int) []string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

func padRightANSI(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
