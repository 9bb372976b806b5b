package ui

import (
	"strings"
	"testing"

	"faultsim/deadlock"
	"faultsim/model"
	"faultsim/monitor"
	"faultsim/paging"
	"faultsim/recovery"
	"faultsim/sched"
)

func sampleRecords() []model.ProcessRecord {
	return []model.ProcessRecord{
		{Pid: 100, Name: "Process_A", CPU: 7.5, Burst: 4, Priority: 2, Allocated: 120},
		{Pid: 101, Name: "Process_B", CPU: 5.0, Burst: 2, Priority: 1, Allocated: 80, State: model.StateWaiting},
	}
}

func TestRenderProcessTable(t *testing.T) {
	out := RenderProcessTable(sampleRecords())
	for _, want := range []string{"PID", "Process_A", "WAITING", "R2"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSchedule(t *testing.T) {
	rr, err := sched.RoundRobin(sampleRecords(), 3)
	if err != nil {
		t.Fatal(err)
	}
	out := RenderSchedule(rr)
	for _, want := range []string{"ROUND ROBIN", "Time quantum: 3", "P100 P101 P100", "Total execution time: 6"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q:\n%s", want, out)
		}
	}

	pr := RenderSchedule(sched.Priority(sampleRecords()))
	if !strings.Contains(pr, "P101(pri:1) P100(pri:2)") {
		t.Errorf("priority order:\n%s", pr)
	}
}

func TestRenderGantt(t *testing.T) {
	if RenderGantt(nil) != "(empty schedule)\n" {
		t.Error("empty gantt")
	}
	out := RenderGantt([]sched.Step{{Pid: 1, Start: 0, Run: 3}, {Pid: 2, Start: 3, Run: 1}})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "| P1") || !strings.HasSuffix(lines[1], "4") {
		t.Errorf("gantt:\n%s", out)
	}
}

func TestRenderTrace(t *testing.T) {
	tr, err := paging.FIFO([]int{1, 2, 1, 3}, 2)
	if err != nil {
		t.Fatal(err)
	}
	out := RenderTrace(tr)
	for _, want := range []string{"[1 -] (FAULT)", "[1 2]\n", "[3 2] (FAULT, evicted 1)", "FIFO page faults: 3/4"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q:\n%s", want, out)
		}
	}
}

func TestRenderDeadlockReports(t *testing.T) {
	s := RenderSafety(deadlock.SafetyVerdict{
		Safe:      false,
		Processes: []deadlock.SafetyEntry{{Pid: 1, Need: 12, Available: 10, Unsafe: true}},
		Remaining: -2,
	})
	if !strings.Contains(s, "Need=12, Available=10, Safe=NO") || !strings.Contains(s, "UNSAFE") {
		t.Errorf("safety:\n%s", s)
	}

	c := RenderCycles(deadlock.CycleVerdict{})
	if !strings.Contains(c, "No deadlock cycles detected") {
		t.Errorf("cycles:\n%s", c)
	}
	c = RenderCycles(deadlock.CycleVerdict{Found: true, Pairs: []deadlock.Pair{{A: 1, B: 5, Resource: 1}}})
	if !strings.Contains(c, "P1 <-> P5 (resource R1)") {
		t.Errorf("cycles:\n%s", c)
	}
}

func TestRenderRecovery(t *testing.T) {
	out := RenderRecovery(recovery.Report{Kind: recovery.KindCPUOverload})
	if !strings.Contains(out, "No cpu overload detected.") {
		t.Errorf("idle recovery:\n%s", out)
	}

	out = RenderRecovery(recovery.Report{
		Kind:      recovery.KindThrashing,
		Detected:  true,
		Triggered: true,
		Actions:   []recovery.Action{{Pid: 7, Detail: "memory 40 MB -> 190 MB"}},
	})
	if !strings.Contains(out, "P7: memory 40 MB -> 190 MB") || !strings.Contains(out, "Recovered 1 process(es).") {
		t.Errorf("recovery:\n%s", out)
	}

	out = RenderRecovery(recovery.Report{Kind: recovery.KindDeadlock, Detected: true})
	if !strings.Contains(out, "no process needed remediation") {
		t.Errorf("detected only:\n%s", out)
	}
}

func TestRenderMemoryMap(t *testing.T) {
	out := RenderMemoryMap(monitor.MemoryMap{TotalMB: 1000, UsedMB: 250, Blocks: []monitor.MemoryBlock{{Pid: 1, MB: 250}}})
	if !strings.Contains(out, strings.Repeat("#", 10)+strings.Repeat(".", 30)) || !strings.Contains(out, "750 MB free") {
		t.Errorf("memory map:\n%s", out)
	}

	over := RenderMemoryMap(monitor.MemoryMap{TotalMB: 1000, UsedMB: 1400})
	if !strings.Contains(over, strings.Repeat("#", 40)+"]") {
		t.Errorf("overcommitted map:\n%s", over)
	}
}

func TestRenderResourceGraph(t *testing.T) {
	out := RenderResourceGraph([]monitor.ResourceEdge{{Pid: 1, Resource: 1}, {Pid: 2, Resource: 2, Waiting: true}})
	if !strings.Contains(out, "P1 holds R1") || !strings.Contains(out, "P2 waits for R2") {
		t.Errorf("graph:\n%s", out)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"abcdefghij", 8, "abcde..."},
		{"abcdef", 2, "ab"},
		{"ñandú-process", 6, "ñan..."},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestFormatUptime(t *testing.T) {
	if got := FormatUptime(3725); got != "01:02:05" {
		t.Errorf("got %q", got)
	}
	if got := FormatUptime(90061); got != "1d 01:01" {
		t.Errorf("got %q", got)
	}
}
