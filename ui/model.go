package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"faultsim/model"
	"faultsim/proc"
)

// Model holds TUI state
type Model struct {
	sim      Simulator
	table    table.Model
	records  []model.ProcessRecord
	loads    [3]float64
	uptime   float64
	sorter   *model.Sorter
	interval time.Duration
	width    int
	height   int

	// Filtering
	filterInput textinput.Model
	filterText  string
	mode        uiMode

	// Report pane
	report      viewport.Model
	reportTitle string

	// Status messages
	statusText  string
	statusError bool
}

func NewModel(sim Simulator, interval time.Duration) Model {
	columns := []table.Column{
		{Title: "PID", Width: 7},
		{Title: "NAME", Width: 18},
		{Title: "%CPU", Width: 7},
		{Title: "%MEM", Width: 7},
		{Title: "ARR", Width: 4},
		{Title: "BURST", Width: 6},
		{Title: "PRIO", Width: 5},
		{Title: "ALLOC", Width: 7},
		{Title: "RES", Width: 4},
		{Title: "STATE", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(model.DefaultCapacity+1),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color("cyan"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	ti := textinput.New()
	ti.Placeholder = "filter by name..."
	ti.CharLimit = model.MaxNameLen

	vp := viewport.New(80, 12)

	m := Model{
		sim:         sim,
		table:       t,
		sorter:      model.NewSorter(),
		interval:    interval,
		filterInput: ti,
		mode:        normalMode,
		report:      vp,
		reportTitle: "Report",
	}
	m.records = sim.Records()
	m.updateTable()
	m.report.SetContent(RenderProcessTable(m.records))
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(m.interval),
		m.refreshCmd(),
	)
}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) refreshCmd() tea.Cmd {
	sim := m.sim
	return func() tea.Msg {
		return dataMsg{
			records: sim.Records(),
			loads:   proc.ReadLoadavg(),
			uptime:  proc.ReadUptime(),
		}
	}
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, sim Simulator, interval time.Duration) error {
	p := tea.NewProgram(NewModel(sim, interval), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
