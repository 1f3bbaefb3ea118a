package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-programmer/config"
	"go-programmer/theme"
)

const SliderWidth = 16

// RenderToggle renders "[x]" or "[ ]"
func RenderToggle(on bool, sym theme.Symbols) string {
	mark := ' '
	if on {
		mark = sym.Checked
	}
	return fmt.Sprintf("[%c]", mark)
}

// RenderChoice renders "< label >"
func RenderChoice(label string, sym theme.Symbols) string {
	return fmt.Sprintf("%c %s %c", sym.Prev, label, sym.Next)
}

// RenderSlider renders a bar of width cells followed by the value
func RenderSlider(value, min, max, width int, sym theme.Symbols) string {
	filled := 0
	if max > min {
		filled = (clamp(value, min, max) - min) * width / (max - min)
	}
	return fmt.Sprintf("%s%s %3d",
		strings.Repeat(string(sym.Fill), filled),
		strings.Repeat(string(sym.Unfilled), width-filled),
		value)
}

// RenderControl renders a widget's value part without styling
func RenderControl(s State, sym theme.Symbols) string {
	switch s.Kind {
	case config.WidgetToggle:
		return RenderToggle(s.Value != s.Min, sym)
	case config.WidgetChoice:
		return RenderChoice(s.Choice(), sym)
	default:
		return RenderSlider(s.Value, s.Min, s.Max, SliderWidth, sym)
	}
}

// RenderRow renders one panel row: cursor, value, label and CC number
func RenderRow(s State, selected bool, th *theme.Theme) string {
	cursor := " "
	labelStyle := lipgloss.NewStyle().Foreground(th.FG())
	valueStyle := lipgloss.NewStyle().Foreground(th.Muted())
	if s.Value != s.Min {
		valueStyle = valueStyle.Foreground(th.Active())
	}
	if selected {
		cursor = lipgloss.NewStyle().Foreground(th.Cursor()).Render(string(th.Symbols.Cursor))
		labelStyle = labelStyle.Foreground(th.Cursor()).Bold(true)
	}
	ccStyle := lipgloss.NewStyle().Foreground(th.Muted())

	value := RenderControl(s, th.Symbols)
	if s.Kind == config.WidgetToggle {
		// toggles read as "[x] Label"
		return fmt.Sprintf("%s %s %s %s", cursor, valueStyle.Render(value),
			labelStyle.Render(s.Text()), ccStyle.Render(fmt.Sprintf("cc%d", s.CC)))
	}
	return fmt.Sprintf("%s %s %s %s", cursor, labelStyle.Render(fmt.Sprintf("%-20s", s.Text())),
		valueStyle.Render(value), ccStyle.Render(fmt.Sprintf("cc%d", s.CC)))
}

// RenderPanel renders every row of the panel
func RenderPanel(p *Panel, th *theme.Theme) string {
	sel := p.Selected()
	var lines []string
	for i, s := range p.States() {
		lines = append(lines, RenderRow(s, i == sel, th))
	}
	return strings.Join(lines, "\n")
}
