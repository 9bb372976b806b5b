package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"faultsim/model"
)

func (m Model) View() string {
	if m.mode == helpMode {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderTitle())
	b.WriteString("\n\n")
	b.WriteString(headerStyle.Render(m.renderHeader()))
	b.WriteString("\n\n")
	b.WriteString(baseStyle.Render(m.table.View()))
	b.WriteString("\n")

	if m.mode == normalMode {
		b.WriteString(m.renderQuickHelp())
		b.WriteString("\n")
	}

	if m.statusText != "" {
		b.WriteString(m.renderStatus())
		b.WriteString("\n")
	}

	if m.mode == filterMode {
		b.WriteString(m.renderFilterBar())
		b.WriteString("\n")
	}

	b.WriteString(m.renderReport())
	return b.String()
}

func (m Model) renderTitle() string {
	title := titleStyle.Render("OS FAULT SIMULATOR")
	return lipgloss.NewStyle().
		Background(lipgloss.Color("62")).
		Foreground(lipgloss.Color("230")).
		Bold(true).
		Width(m.width).
		Align(lipgloss.Center).
		Render(title)
}

func (m Model) renderHeader() string {
	direction := sortedColumnStyle.Render("↓")
	if !m.sorter.Descending {
		direction = sortedColumnStyle.Render("↑")
	}

	waiting := 0
	for _, r := range m.records {
		if r.State == model.StateWaiting {
			waiting++
		}
	}

	header := fmt.Sprintf(
		"Processes: %d (%s), %d waiting | Load: %.2f %.2f %.2f | Uptime: %s | Sort: %s %s",
		len(m.records), m.sim.Source(), waiting,
		m.loads[0], m.loads[1], m.loads[2],
		FormatUptime(m.uptime),
		sortedColumnStyle.Render(m.sorter.ColumnName()),
		direction,
	)

	if m.filterText != "" {
		header += fmt.Sprintf(" | Filter: %s",
			lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Render(m.filterText))
	}
	return header
}

func (m Model) renderQuickHelp() string {
	quickHelp := fmt.Sprintf(
		"%s Faults | %s Compare | %s Analyze | %s Reload | %s Sort | %s Filter | %s Report | %s Help | %s Quit",
		keybindStyle.Render("[1/2/3]"),
		keybindStyle.Render("[4]"),
		keybindStyle.Render("[5]"),
		keybindStyle.Render("[i]"),
		keybindStyle.Render("[c/m/p/r/b/a/n]"),
		keybindStyle.Render("[/]"),
		keybindStyle.Render("[tab]"),
		keybindStyle.Render("[?]"),
		keybindStyle.Render("[q]"),
	)
	return keybindDescStyle.Render(quickHelp)
}

func (m Model) renderStatus() string {
	style := successStyle
	if m.statusError {
		style = errorStyle
	}
	return style.Render(m.statusText)
}

func (m Model) renderFilterBar() string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Render("Filter: ") +
		m.filterInput.View() +
		keybindDescStyle.Render(" (Enter to apply, Esc to cancel)")
}

func (m Model) renderReport() string {
	style := reportStyle
	hint := "tab to scroll"
	if m.mode == reportMode {
		style = reportFocusStyle
		hint = "↑/↓ scroll, esc to return"
	}
	title := fmt.Sprintf("%s %s", sectionStyle.Render(m.reportTitle), keybindDescStyle.Render("("+hint+")"))
	return style.Render(title + "\n" + m.report.View())
}

func (m Model) renderHelp() string {
	var b strings.Builder

	title := titleStyle.Render("OS FAULT SIMULATOR - Keyboard Shortcuts")
	b.WriteString(lipgloss.NewStyle().
		Background(lipgloss.Color("62")).
		Foreground(lipgloss.Color("230")).
		Bold(true).
		Width(m.width).
		Align(lipgloss.Center).
		Render(title))
	b.WriteString("\n\n")

	sections := []struct {
		title string
		keys  []struct{ key, desc string }
	}{
		{
			title: "FAULTS & RECOVERY",
			keys: []struct{ key, desc string }{
				{"1", "Inject deadlock, then detect and recover"},
				{"2", "Inject CPU overload, then normalize"},
				{"3", "Inject thrashing, then raise allocation"},
				{"4", "Compare scheduling and page replacement"},
				{"5", "Full system analysis"},
				{"i", "Re-initialize the process table"},
			},
		},
		{
			title: "SORTING",
			keys: []struct{ key, desc string }{
				{"c", "Sort by %CPU"},
				{"m", "Sort by %MEM"},
				{"p", "Sort by PID"},
				{"r", "Sort by priority"},
				{"b", "Sort by burst"},
				{"a", "Sort by allocation"},
				{"n", "Sort by name"},
				{"", "Press same key to toggle ascending/descending"},
			},
		},
		{
			title: "FILTERING",
			keys: []struct{ key, desc string }{
				{"/", "Enter filter mode"},
				{"Enter", "Apply filter"},
				{"Esc", "Cancel filter"},
			},
		},
		{
			title: "NAVIGATION",
			keys: []struct{ key, desc string }{
				{"↑/↓ or j/k", "Move selection"},
				{"tab", "Focus the report pane"},
			},
		},
		{
			title: "GENERAL",
			keys: []struct{ key, desc string }{
				{"?/h", "Show/hide this help"},
				{"q", "Quit program"},
			},
		},
	}

	for _, section := range sections {
		b.WriteString(sectionStyle.Render(section.title))
		b.WriteString("\n")

		for _, binding := range section.keys {
			if binding.key == "" {
				b.WriteString(keybindDescStyle.Render("  ℹ " + binding.desc))
			} else {
				line := fmt.Sprintf("  %s  %s",
					keybindStyle.Render(lipgloss.NewStyle().Width(12).Render(binding.key)),
					keybindDescStyle.Render(binding.desc))
				b.WriteString(line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(keybindDescStyle.Render("Press any key to return..."))

	return helpBoxStyle.Render(b.String())
}
