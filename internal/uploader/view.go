package uploader

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Catppuccin Mocha, same palette as the host screens.
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorLavender lipgloss.Color = "#b4befe"
	colorRed      lipgloss.Color = "#f38ba8"
	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface1 lipgloss.Color = "#45475a"
	colorBase     lipgloss.Color = "#1e1e2e"
)

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	styleAccent   = lipgloss.NewStyle().Foreground(colorPink)
	styleMuted    = lipgloss.NewStyle().Foreground(colorSubtext0)
	styleDisabled = lipgloss.NewStyle().Foreground(colorOverlay0)
	styleError    = lipgloss.NewStyle().Foreground(colorRed)

	styleDropZone = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(1, 2).
			Align(lipgloss.Center)
	styleDropZoneActive = styleDropZone.
				BorderForeground(colorLavender).
				Foreground(colorLavender)

	styleButton = lipgloss.NewStyle().
			Padding(0, 2).
			Bold(true).
			Foreground(colorBase).
			Background(colorPink)
	styleButtonDisabled = lipgloss.NewStyle().
				Padding(0, 2).
				Foreground(colorOverlay0).
				Background(colorSurface1)
)

const popupWidth = 52

func (m *Model) View() string {
	ctl := controlsFor(m.state)
	width := popupWidth
	if m.width > 0 && m.width-8 < width {
		width = max(m.width-8, 24)
	}

	var b strings.Builder

	header := styleTitle.Render("Upload Your Image")
	closeHint := styleMuted.Render("esc ✕")
	if !ctl.close {
		closeHint = styleDisabled.Render("esc ✕")
	}
	gap := width - lipgloss.Width(header) - lipgloss.Width(closeHint)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(header + strings.Repeat(" ", gap) + closeHint)
	b.WriteString("\n\n")

	if m.picking {
		b.WriteString(m.picker.View())
		b.WriteString("\n")
		b.WriteString(styleMuted.Render("enter select · q back"))
		b.WriteString("\n\n")
	} else {
		b.WriteString(m.renderDropZone(width, ctl))
		b.WriteString("\n")
	}

	if f, ok := selection(m.state); ok {
		b.WriteString(styleMuted.Render("Selected file: ") + f.Name)
		b.WriteString("\n")
	}
	if s, ok := m.state.(failed); ok {
		b.WriteString(styleError.Render(truncateLine(s.reason, width)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.renderSubmit(width, ctl))
	return b.String()
}

func (m *Model) renderDropZone(width int, ctl controls) string {
	prompt := "Drag and drop your image here"
	style := styleDropZone
	if m.dragging {
		prompt = "Drop your image here"
		style = styleDropZoneActive
	}
	choose := styleAccent.Render("[o] Choose file")
	if !ctl.fileInput {
		choose = styleDisabled.Render("[o] Choose file")
	}
	body := strings.Join([]string{
		prompt,
		styleMuted.Render("or"),
		choose,
	}, "\n")
	return style.Width(width - 2).Render(body)
}

func (m *Model) renderSubmit(width int, ctl controls) string {
	label := "Upload"
	style := styleButton
	if isUploading(m.state) {
		label = m.spinner.View() + " Uploading..."
	}
	if !ctl.submit {
		style = styleButtonDisabled
	}
	return style.Width(width).Align(lipgloss.Center).Render(label)
}

func truncateLine(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if width <= 1 || len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
