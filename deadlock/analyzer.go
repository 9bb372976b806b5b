package deadlock

import "faultsim/model"

const (
	DefaultPool      = 10
	DefaultWindow    = 5
	DefaultNeedScale = 100
)

// Analyzer holds the parameters of the simplified safety check. The zero
// value is not usable; call New or fill every field.
type Analyzer struct {
	Pool      int // units available before any process is considered
	Window    int // how many leading processes the safety check inspects
	NeedScale int // need = allocated memory / NeedScale
}

func New() Analyzer {
	return Analyzer{
		Pool:      DefaultPool,
		Window:    DefaultWindow,
		NeedScale: DefaultNeedScale,
	}
}

type SafetyEntry struct {
	Pid       int
	Need      int
	Available int // pool before this process was charged
	Unsafe    bool
}

type SafetyVerdict struct {
	Safe      bool
	Processes []SafetyEntry
	Remaining int
}

// Flagged returns the pids whose need exceeded the pool at their turn.
func (v SafetyVerdict) Flagged() []int {
	var pids []int
	for _, e := range v.Processes {
		if e.Unsafe {
			pids = append(pids, e.Pid)
		}
	}
	return pids
}

type WaitEntry struct {
	Pid      int
	Resource model.ResourceID
}

type Pair struct {
	A, B     int
	Resource model.ResourceID
}

type CycleVerdict struct {
	Found   bool
	Waiting []WaitEntry
	Pairs   []Pair
}

// Has reports whether a and b were found contending, in either order.
func (v CycleVerdict) Has(a, b int) bool {
	for _, p := range v.Pairs {
		if (p.A == a && p.B == b) || (p.A == b && p.B == a) {
			return true
		}
	}
	return false
}

// CheckSafety charges the first Window processes against the pool. Each
// process is flagged when its need exceeds what is left, and then commits half
// of its need. The state is unsafe once the pool goes negative.
func (a Analyzer) CheckSafety(procs []model.ProcessRecord) SafetyVerdict {
	scale := a.NeedScale
	if scale <= 0 {
		scale = DefaultNeedScale
	}
	available := a.Pool
	v := SafetyVerdict{Safe: true}

	for i := 0; i < len(procs) && i < a.Window; i++ {
		need := procs[i].Allocated / scale
		v.Processes = append(v.Processes, SafetyEntry{
			Pid:       procs[i].Pid,
			Need:      need,
			Available: available,
			Unsafe:    need > available,
		})
		available -= need / 2
		if available < 0 {
			v.Safe = false
		}
	}
	v.Remaining = available
	return v
}

// CheckCycles reports every pair of distinct waiting processes that map to
// the same resource class. Each pair appears once, lower registry index first.
func (a Analyzer) CheckCycles(procs []model.ProcessRecord) CycleVerdict {
	var v CycleVerdict
	var idx []int

	for i, p := range procs {
		if p.State != model.StateWaiting {
			continue
		}
		v.Waiting = append(v.Waiting, WaitEntry{Pid: p.Pid, Resource: model.ResourceFor(i)})
		idx = append(idx, i)
	}

	for x := 0; x < len(idx); x++ {
		for y := x + 1; y < len(idx); y++ {
			rx, ry := model.ResourceFor(idx[x]), model.ResourceFor(idx[y])
			if rx != ry {
				continue
			}
			v.Pairs = append(v.Pairs, Pair{A: procs[idx[x]].Pid, B: procs[idx[y]].Pid, Resource: rx})
		}
	}
	v.Found = len(v.Pairs) > 0
	return v
}

// Deadlocked is the combined verdict recovery acts on.
func Deadlocked(s SafetyVerdict, c CycleVerdict) bool {
	return !s.Safe || c.Found
}
