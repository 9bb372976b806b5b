package ui

import (
	"fmt"
	"strings"

	"faultsim/deadlock"
	"faultsim/fault"
	"faultsim/model"
	"faultsim/monitor"
	"faultsim/paging"
	"faultsim/recovery"
	"faultsim/sched"
)

// The Render* functions produce plain text reports. The TUI shows them in its
// report pane and the headless commands print them.

func RenderProcessTable(records []model.ProcessRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%6s %-20s %6s %6s %5s %5s %4s %6s %3s %s\n",
		"PID", "NAME", "%CPU", "%MEM", "ARR", "BURST", "PRI", "ALLOC", "RES", "STATE")
	for i, r := range records {
		fmt.Fprintf(&b, "%6d %-20s %6.1f %6.1f %5d %5d %4d %6d %3s %s\n",
			r.Pid, Truncate(r.Name, 20), r.CPU, r.Mem, r.Arrival, r.Burst,
			r.Priority, r.Allocated, model.ResourceFor(i), r.State)
	}
	return b.String()
}

func RenderSchedule(r sched.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== %s SCHEDULING ===\n", strings.ToUpper(string(r.Policy)))
	if r.Quantum > 0 {
		fmt.Fprintf(&b, "Time quantum: %d units\n", r.Quantum)
	}
	b.WriteString("Execution order: ")
	for _, s := range r.Steps {
		if r.Policy == sched.PolicyPriority {
			fmt.Fprintf(&b, "P%d(pri:%d) ", s.Pid, s.Priority)
		} else {
			fmt.Fprintf(&b, "P%d ", s.Pid)
		}
	}
	b.WriteString("\n")
	b.WriteString(RenderGantt(r.Steps))
	fmt.Fprintf(&b, "Total execution time: %d units, average completion %.2f\n", r.TotalTime, r.AvgCompletion())
	return b.String()
}

// RenderGantt draws one cell per grant with its start time underneath.
func RenderGantt(steps []sched.Step) string {
	if len(steps) == 0 {
		return "(empty schedule)\n"
	}
	var bar, axis strings.Builder
	bar.WriteString("|")
	for _, s := range steps {
		cell := fmt.Sprintf(" P%d ", s.Pid)
		if w := s.Run * 2; w > len(cell) {
			cell += strings.Repeat(" ", w-len(cell))
		}
		bar.WriteString(cell + "|")
		label := fmt.Sprintf("%d", s.Start)
		axis.WriteString(label + strings.Repeat(" ", len(cell)+1-len(label)))
	}
	fmt.Fprintf(&axis, "%d", steps[len(steps)-1].End())
	return bar.String() + "\n" + axis.String() + "\n"
}

func RenderSchedulingComparison(c sched.Comparison) string {
	var b strings.Builder
	b.WriteString("=== CPU SCHEDULING COMPARISON ===\n")
	b.WriteString(RenderSchedule(c.RoundRobin))
	b.WriteString("\n")
	b.WriteString(RenderSchedule(c.Priority))
	fmt.Fprintf(&b, "\nRecommendation: %s\n", c.Recommendation)
	return b.String()
}

func RenderTrace(t paging.Trace) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== %s PAGE REPLACEMENT ===\n", t.Policy)
	fmt.Fprintf(&b, "Page requests: %s\n", joinInts(t.Reference))
	for _, s := range t.Steps {
		fmt.Fprintf(&b, "%3d -> %s", s.Page, formatFrames(s.Frames))
		if s.Fault {
			b.WriteString(" (FAULT")
			if s.Evicted != paging.Empty {
				fmt.Fprintf(&b, ", evicted %d", s.Evicted)
			}
			b.WriteString(")")
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%s page faults: %d/%d (hit ratio %.0f%%)\n",
		t.Policy, t.Faults, len(t.Reference), t.HitRatio()*100)
	return b.String()
}

func RenderPagingComparison(c paging.Comparison) string {
	var b strings.Builder
	b.WriteString("=== PAGE REPLACEMENT COMPARISON ===\n")
	b.WriteString(RenderTrace(c.FIFO))
	b.WriteString("\n")
	b.WriteString(RenderTrace(c.LRU))
	fmt.Fprintf(&b, "\nRecommendation: %s\n", c.Recommendation)
	return b.String()
}

func RenderSafety(v deadlock.SafetyVerdict) string {
	var b strings.Builder
	b.WriteString("=== BANKER'S SAFETY CHECK ===\n")
	for _, e := range v.Processes {
		safe := "YES"
		if e.Unsafe {
			safe = "NO"
		}
		fmt.Fprintf(&b, "Process P%d: Need=%d, Available=%d, Safe=%s\n", e.Pid, e.Need, e.Available, safe)
	}
	if v.Safe {
		fmt.Fprintf(&b, "RESULT: system is in a SAFE state (remaining %d)\n", v.Remaining)
	} else {
		fmt.Fprintf(&b, "RESULT: system is in an UNSAFE state (remaining %d)\n", v.Remaining)
	}
	return b.String()
}

func RenderCycles(v deadlock.CycleVerdict) string {
	var b strings.Builder
	b.WriteString("=== DEADLOCK CYCLE DETECTION ===\n")
	for _, w := range v.Waiting {
		fmt.Fprintf(&b, "Process P%d is waiting for resource %s\n", w.Pid, w.Resource)
	}
	for _, p := range v.Pairs {
		fmt.Fprintf(&b, "DEADLOCK DETECTED: P%d <-> P%d (resource %s)\n", p.A, p.B, p.Resource)
	}
	if !v.Found {
		b.WriteString("No deadlock cycles detected\n")
	}
	return b.String()
}

func RenderFault(f fault.Fault) string {
	if f.Kind == "" {
		return ""
	}
	return fmt.Sprintf("[fault %s] %s\n", f.Kind, f.Detail)
}

func RenderRecovery(r recovery.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== RECOVERY: %s ===\n", strings.ToUpper(string(r.Kind)))
	if r.Safety != nil {
		b.WriteString(RenderSafety(*r.Safety))
	}
	if r.Cycles != nil {
		b.WriteString(RenderCycles(*r.Cycles))
	}
	if r.Scheduling != nil {
		b.WriteString(RenderSchedulingComparison(*r.Scheduling))
	}
	if r.Paging != nil {
		b.WriteString(RenderPagingComparison(*r.Paging))
	}
	switch {
	case r.Triggered:
		for _, a := range r.Actions {
			fmt.Fprintf(&b, "  P%d: %s\n", a.Pid, a.Detail)
		}
		fmt.Fprintf(&b, "Recovered %d process(es).\n", len(r.Actions))
	case r.Detected:
		b.WriteString("Condition detected but no process needed remediation.\n")
	default:
		fmt.Fprintf(&b, "No %s detected.\n", strings.ReplaceAll(string(r.Kind), "_", " "))
	}
	return b.String()
}

func RenderOutcome(o monitor.Outcome) string {
	return RenderFault(o.Fault) + RenderRecovery(o.Recovery)
}

func RenderComparison(c monitor.Comparison) string {
	return RenderSchedulingComparison(c.Scheduling) + "\n" + RenderPagingComparison(c.Paging)
}

func RenderMemoryMap(m monitor.MemoryMap) string {
	const width = 40
	var b strings.Builder
	b.WriteString("=== MEMORY ALLOCATION MAP ===\n")
	used := min(m.UsedMB, m.TotalMB)
	filled := 0
	if m.TotalMB > 0 {
		filled = used * width / m.TotalMB
	}
	fmt.Fprintf(&b, "[%s%s] %d/%d MB used, %d MB free\n",
		strings.Repeat("#", filled), strings.Repeat(".", width-filled), m.UsedMB, m.TotalMB, m.FreeMB())
	for _, blk := range m.Blocks {
		fmt.Fprintf(&b, "  P%d: %d MB\n", blk.Pid, blk.MB)
	}
	return b.String()
}

func RenderResourceGraph(edges []monitor.ResourceEdge) string {
	var b strings.Builder
	b.WriteString("=== RESOURCE ALLOCATION GRAPH ===\n")
	for _, e := range edges {
		arrow := "holds"
		if e.Waiting {
			arrow = "waits for"
		}
		fmt.Fprintf(&b, "  P%d %s %s\n", e.Pid, arrow, e.Resource)
	}
	return b.String()
}

func RenderAnalysis(a monitor.Analysis) string {
	return strings.Join([]string{
		RenderSafety(a.Safety),
		RenderCycles(a.Cycles),
		RenderSchedulingComparison(a.Scheduling),
		RenderMemoryMap(a.Memory),
		RenderResourceGraph(a.Resources),
	}, "\n")
}

func formatFrames(frames []int) string {
	cells := make([]string, len(frames))
	for i, p := range frames {
		if p == paging.Empty {
			cells[i] = "-"
		} else {
			cells[i] = fmt.Sprintf("%d", p)
		}
	}
	return "[" + strings.Join(cells, " ") + "]"
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprintf("%d", x)
	}
	return strings.Join(parts, " ")
}
