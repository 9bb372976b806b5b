package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"faultsim/fault"
	"faultsim/model"
)

const errorFmt = "Error: %v"

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.report.Width = max(msg.Width-4, 20)
		m.report.Height = max(msg.Height-model.DefaultCapacity-14, 5)
		return m, nil

	case tickMsg:
		return m, tea.Batch(tickCmd(m.interval), m.refreshCmd())

	case dataMsg:
		m.records = msg.records
		m.loads = msg.loads
		m.uptime = msg.uptime
		m.updateTable()
		return m, nil

	case reportMsg:
		m.reportTitle = msg.title
		m.report.SetContent(msg.body)
		m.report.GotoTop()
		if msg.err != nil {
			return m, tea.Batch(m.showStatus(fmt.Sprintf(errorFmt, msg.err), true), m.refreshCmd())
		}
		return m, tea.Batch(m.showStatus(msg.title+" done", false), m.refreshCmd())

	case statusMsg:
		m.statusText = msg.text
		m.statusError = msg.isError
		return m, nil
	}

	if m.mode == filterMode {
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.filterText = m.filterInput.Value()
		m.updateTable()
		return m, cmd
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case normalMode:
		return m.handleNormalMode(msg)
	case filterMode:
		return m.handleFilterMode(msg)
	case reportMode:
		return m.handleReportMode(msg)
	case helpMode:
		return m.handleHelpMode(msg)
	}
	return m, nil
}

func (m Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "?", "h":
		m.mode = helpMode
		return m, nil

	// Simulation
	case "1":
		return m, m.injectCmd(fault.Deadlock)
	case "2":
		return m, m.injectCmd(fault.CPUOverload)
	case "3":
		return m, m.injectCmd(fault.Thrashing)
	case "4":
		return m, m.compareCmd()
	case "5":
		return m, m.analyzeCmd()
	case "i":
		return m, m.reinitCmd()

	case "tab":
		m.mode = reportMode
		return m, nil

	// Sorting
	case "c":
		m.sorter.Toggle(model.SortByCPU)
		m.updateTable()
	case "m":
		m.sorter.Toggle(model.SortByMEM)
		m.updateTable()
	case "p":
		m.sorter.Toggle(model.SortByPID)
		m.updateTable()
	case "r":
		m.sorter.Toggle(model.SortByPriority)
		m.updateTable()
	case "b":
		m.sorter.Toggle(model.SortByBurst)
		m.updateTable()
	case "a":
		m.sorter.Toggle(model.SortByAlloc)
		m.updateTable()
	case "n":
		m.sorter.Toggle(model.SortByName)
		m.updateTable()

	// Filtering
	case "/":
		m.mode = filterMode
		m.filterInput.Focus()
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleFilterMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.mode = normalMode
		m.filterInput.Blur()
		return m, nil
	case "enter":
		m.mode = normalMode
		m.filterInput.Blur()
		m.filterText = m.filterInput.Value()
		m.updateTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.filterText = m.filterInput.Value()
	m.updateTable()
	return m, cmd
}

func (m Model) handleReportMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "tab", "q":
		m.mode = normalMode
		return m, nil
	}

	var cmd tea.Cmd
	m.report, cmd = m.report.Update(msg)
	return m, cmd
}

func (m Model) handleHelpMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	m.mode = normalMode
	return m, nil
}

func (m Model) injectCmd(kind fault.Kind) tea.Cmd {
	sim := m.sim
	return func() tea.Msg {
		out, err := sim.InjectAndRecover(kind)
		return reportMsg{
			title: "Fault: " + strings.ReplaceAll(string(kind), "_", " "),
			body:  RenderOutcome(out),
			err:   err,
		}
	}
}

func (m Model) compareCmd() tea.Cmd {
	sim := m.sim
	return func() tea.Msg {
		c, err := sim.Compare()
		if err != nil {
			return reportMsg{title: "Algorithm comparison", err: err}
		}
		return reportMsg{title: "Algorithm comparison", body: RenderComparison(c)}
	}
}

func (m Model) analyzeCmd() tea.Cmd {
	sim := m.sim
	return func() tea.Msg {
		a, err := sim.Analyze()
		if err != nil {
			return reportMsg{title: "System analysis", err: err}
		}
		return reportMsg{title: "System analysis", body: RenderAnalysis(a)}
	}
}

func (m Model) reinitCmd() tea.Cmd {
	sim := m.sim
	return func() tea.Msg {
		if err := sim.Init(); err != nil {
			return reportMsg{title: "Re-initialize", err: err}
		}
		body := fmt.Sprintf("Loaded %s process table.\n\n%s", sim.Source(), RenderProcessTable(sim.Records()))
		return reportMsg{title: "Re-initialize", body: body}
	}
}

func (m *Model) updateTable() {
	// Resource classes follow registry order, so resolve them before sorting.
	resources := make(map[int]model.ResourceID, len(m.records))
	for i, r := range m.records {
		resources[r.Pid] = model.ResourceFor(i)
	}

	filtered := m.applyFilter(m.records, m.filterText)

	sorted := make([]model.ProcessRecord, len(filtered))
	copy(sorted, filtered)
	m.sorter.Sort(sorted)

	m.table.SetColumns(m.buildColumns())

	selectedPID := m.getSelectedPID()
	rows := m.buildRows(sorted, resources)
	m.table.SetRows(rows)
	m.restoreSelection(rows, selectedPID)
}

// buildColumns constructs the table columns with sort indicators applied.
func (m *Model) buildColumns() []table.Column {
	columns := m.table.Columns()
	sortIndicator := "↓"
	if !m.sorter.Descending {
		sortIndicator = "↑"
	}

	titles := []string{"PID", "NAME", "%CPU", "%MEM", "ARR", "BURST", "PRIO", "ALLOC", "RES", "STATE"}
	for i := range columns {
		columns[i].Title = titles[i]
	}

	switch m.sorter.Column {
	case model.SortByPID:
		columns[0].Title = "PID " + sortIndicator
	case model.SortByName:
		columns[1].Title = "NAME " + sortIndicator
	case model.SortByCPU:
		columns[2].Title = "%CPU " + sortIndicator
	case model.SortByMEM:
		columns[3].Title = "%MEM " + sortIndicator
	case model.SortByBurst:
		columns[5].Title = "BURST " + sortIndicator
	case model.SortByPriority:
		columns[6].Title = "PRIO " + sortIndicator
	case model.SortByAlloc:
		columns[7].Title = "ALLOC " + sortIndicator
	}
	return columns
}

// buildRows converts sorted process records into styled table rows.
func (m *Model) buildRows(sorted []model.ProcessRecord, resources map[int]model.ResourceID) []table.Row {
	rows := make([]table.Row, 0, len(sorted))
	for _, r := range sorted {
		cpu := FormatPercent(r.CPU)
		if r.CPU >= 99 {
			cpu = highCPUStyle.Render(cpu)
		} else if r.CPU > 50 {
			cpu = medCPUStyle.Render(cpu)
		}

		alloc := fmt.Sprintf("%d", r.Allocated)
		if r.Allocated < 100 {
			alloc = medCPUStyle.Render(alloc)
		}

		state := r.State.String()
		if r.State == model.StateWaiting {
			state = waitingStyle.Render(state)
		}

		rows = append(rows, table.Row{
			fmt.Sprintf("%d", r.Pid),
			Truncate(r.Name, 18),
			cpu,
			FormatPercent(r.Mem),
			fmt.Sprintf("%d", r.Arrival),
			fmt.Sprintf("%d", r.Burst),
			fmt.Sprintf("%d", r.Priority),
			alloc,
			resources[r.Pid].String(),
			state,
		})
	}
	return rows
}

// restoreSelection moves the cursor back to the previously selected PID if present.
func (m *Model) restoreSelection(rows []table.Row, selectedPID int) {
	if selectedPID <= 0 || len(rows) == 0 {
		return
	}
	for i := range rows {
		var pid int
		fmt.Sscanf(rows[i][0], "%d", &pid)
		if pid == selectedPID {
			m.table.SetCursor(i)
			break
		}
	}
}

// applyFilter returns the records whose name contains text, ignoring case.
func (m *Model) applyFilter(records []model.ProcessRecord, text string) []model.ProcessRecord {
	if text == "" {
		return records
	}

	searchLower := strings.ToLower(text)
	filtered := make([]model.ProcessRecord, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Name), searchLower) ||
			strings.Contains(fmt.Sprintf("%d", r.Pid), searchLower) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func (m Model) getSelectedPID() int {
	selected := m.table.SelectedRow()
	if len(selected) == 0 {
		return 0
	}

	var pid int
	fmt.Sscanf(selected[0], "%d", &pid)
	return pid
}

func (m Model) showStatus(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isError: isError}
	}
}
