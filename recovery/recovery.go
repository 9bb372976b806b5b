// Package recovery detects deadlock, CPU overload and thrashing in the process
// registry and applies a fixed remediation for each.
package recovery

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"faultsim/deadlock"
	"faultsim/model"
	"faultsim/paging"
	"faultsim/sched"
)

// Rand is the random source remediation values are drawn from.
// *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Kind names a fault category the controller can recover from.
type Kind string

const (
	KindDeadlock    Kind = "deadlock"
	KindCPUOverload Kind = "cpu_overload"
	KindThrashing   Kind = "thrashing"
)

const (
	DefaultCPUOverload     = 99.0
	DefaultThrashingMemory = 100

	cpuResetBase   = 15.0
	cpuResetSpan   = 20.0
	allocResetBase = 150
	allocResetSpan = 100
)

// Settings are the thresholds and diagnostic inputs a recovery run uses.
type Settings struct {
	CPUOverload     float64 // cpu_usage at or above this is overloaded
	ThrashingMemory int     // allocated memory below this is thrashing
	Quantum         int
	Reference       []int
	Frames          int
}

// DefaultSettings returns the classic thresholds: 99% CPU, 100 MB memory.
func DefaultSettings() Settings {
	return Settings{
		CPUOverload:     DefaultCPUOverload,
		ThrashingMemory: DefaultThrashingMemory,
		Quantum:         sched.DefaultQuantum,
		Reference:       paging.DefaultReference(),
		Frames:          paging.DefaultFrames,
	}
}

// Action is one remediation applied to one process.
type Action struct {
	Pid    int
	Detail string
}

// Report describes one recovery run. Detected is the raw verdict; Triggered
// means a remediation was actually applied. They differ only for deadlock,
// where an unsafe verdict with no waiting process leaves nothing to preempt.
// The diagnostic fields are filled only for the kind that produced them.
type Report struct {
	ID        uuid.UUID
	Kind      Kind
	Detected  bool
	Triggered bool
	Actions   []Action

	Safety     *deadlock.SafetyVerdict
	Cycles     *deadlock.CycleVerdict
	Scheduling *sched.Comparison
	Paging     *paging.Comparison
}

// PIDs lists the processes that were remediated, in registry order.
func (r Report) PIDs() []int {
	pids := make([]int, len(r.Actions))
	for i, a := range r.Actions {
		pids[i] = a.Pid
	}
	return pids
}

// Controller runs recovery procedures against one registry. Thresholds and
// the analyzer may be swapped while it is in use.
type Controller struct {
	reg    *model.Registry
	rnd    Rand
	logger logrus.FieldLogger

	mu       sync.RWMutex
	analyzer deadlock.Analyzer
	settings Settings
}

// NewController builds a controller over reg. rnd supplies the reset values.
func NewController(reg *model.Registry, analyzer deadlock.Analyzer, rnd Rand, settings Settings, logger logrus.FieldLogger) *Controller {
	return &Controller{
		reg:      reg,
		analyzer: analyzer,
		rnd:      rnd,
		settings: settings,
		logger:   logger,
	}
}

// SetSettings swaps thresholds, e.g. after a config reload.
func (c *Controller) SetSettings(s Settings) {
	c.mu.Lock()
	c.settings = s
	c.mu.Unlock()
}

// Settings returns the thresholds currently in effect.
func (c *Controller) Settings() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

// SetAnalyzer swaps the deadlock analyzer parameters.
func (c *Controller) SetAnalyzer(a deadlock.Analyzer) {
	c.mu.Lock()
	c.analyzer = a
	c.mu.Unlock()
}

// Analyzer returns the deadlock analyzer currently in effect.
func (c *Controller) Analyzer() deadlock.Analyzer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.analyzer
}

// Recover dispatches to the procedure for kind.
func (c *Controller) Recover(kind Kind) (Report, error) {
	switch kind {
	case KindDeadlock:
		return c.RecoverDeadlock()
	case KindCPUOverload:
		return c.RecoverCPUOverload()
	case KindThrashing:
		return c.RecoverThrashing()
	}
	return Report{}, fmt.Errorf("unknown recovery kind %q", kind)
}

func (c *Controller) newReport(kind Kind) (Report, logrus.FieldLogger) {
	rep := Report{ID: uuid.New(), Kind: kind}
	return rep, c.logger.WithFields(logrus.Fields{"kind": kind, "run": rep.ID})
}

// RecoverDeadlock runs both deadlock checks and, if either fires, moves every
// waiting process back to ready. No resource is reassigned. A second run
// finds nothing waiting and reports Triggered false.
func (c *Controller) RecoverDeadlock() (Report, error) {
	rep, log := c.newReport(KindDeadlock)
	analyzer := c.Analyzer()

	err := c.reg.Update(func(recs []model.ProcessRecord) error {
		safety := analyzer.CheckSafety(recs)
		cycles := analyzer.CheckCycles(recs)
		rep.Safety, rep.Cycles = &safety, &cycles

		for _, e := range safety.Processes {
			if e.Unsafe {
				log.WithFields(logrus.Fields{"pid": e.Pid, "need": e.Need, "available": e.Available}).
					Warn("need exceeds available pool")
			}
		}
		for _, p := range cycles.Pairs {
			log.WithFields(logrus.Fields{"pid": p.A, "peer": p.B, "resource": p.Resource.String()}).
				Warn("deadlock detected")
		}

		if !deadlock.Deadlocked(safety, cycles) {
			return nil
		}
		rep.Detected = true
		for i := range recs {
			if recs[i].State != model.StateWaiting {
				continue
			}
			recs[i].State = model.StateReady
			rep.Actions = append(rep.Actions, Action{
				Pid:    recs[i].Pid,
				Detail: fmt.Sprintf("preempted %s, WAITING -> READY", model.ResourceFor(i)),
			})
			log.WithField("pid", recs[i].Pid).Info("preempting resources")
		}
		rep.Triggered = len(rep.Actions) > 0
		return nil
	})
	if err != nil {
		return Report{}, fmt.Errorf("deadlock recovery: %w", err)
	}

	c.logOutcome(log, rep)
	return rep, nil
}

// RecoverCPUOverload resets every process at or above the overload threshold
// to a usage in [15, 35). The scheduling comparison is attached for display
// only.
func (c *Controller) RecoverCPUOverload() (Report, error) {
	rep, log := c.newReport(KindCPUOverload)
	settings := c.Settings()

	err := c.reg.Update(func(recs []model.ProcessRecord) error {
		var hot []int
		for i := range recs {
			if recs[i].CPU >= settings.CPUOverload {
				log.WithFields(logrus.Fields{"pid": recs[i].Pid, "cpu": recs[i].CPU}).Warn("cpu overload detected")
				hot = append(hot, i)
			}
		}
		if len(hot) == 0 {
			return nil
		}
		rep.Detected, rep.Triggered = true, true

		cmp, err := sched.Compare(recs, settings.Quantum)
		if err != nil {
			return err
		}
		rep.Scheduling = &cmp

		for _, i := range hot {
			before := recs[i].CPU
			recs[i].CPU = cpuResetBase + c.rnd.Float64()*cpuResetSpan
			rep.Actions = append(rep.Actions, Action{
				Pid:    recs[i].Pid,
				Detail: fmt.Sprintf("cpu %.1f%% -> %.1f%%", before, recs[i].CPU),
			})
			log.WithFields(logrus.Fields{"pid": recs[i].Pid, "cpu": recs[i].CPU}).Info("cpu usage normalized")
		}
		return nil
	})
	if err != nil {
		return Report{}, fmt.Errorf("cpu overload recovery: %w", err)
	}

	c.logOutcome(log, rep)
	return rep, nil
}

// RecoverThrashing raises every allocation below the thrashing threshold to a
// value in [150, 250). The paging comparison is attached for display only.
func (c *Controller) RecoverThrashing() (Report, error) {
	rep, log := c.newReport(KindThrashing)
	settings := c.Settings()

	err := c.reg.Update(func(recs []model.ProcessRecord) error {
		var starved []int
		for i := range recs {
			if recs[i].Allocated < settings.ThrashingMemory {
				log.WithFields(logrus.Fields{"pid": recs[i].Pid, "allocated": recs[i].Allocated}).Warn("thrashing detected")
				starved = append(starved, i)
			}
		}
		if len(starved) == 0 {
			return nil
		}
		rep.Detected, rep.Triggered = true, true

		cmp, err := paging.Compare(settings.Reference, settings.Frames)
		if err != nil {
			return err
		}
		rep.Paging = &cmp

		for _, i := range starved {
			before := recs[i].Allocated
			recs[i].Allocated = allocResetBase + c.rnd.Intn(allocResetSpan)
			rep.Actions = append(rep.Actions, Action{
				Pid:    recs[i].Pid,
				Detail: fmt.Sprintf("memory %d MB -> %d MB", before, recs[i].Allocated),
			})
			log.WithFields(logrus.Fields{"pid": recs[i].Pid, "allocated": recs[i].Allocated}).Info("memory allocation increased")
		}
		return nil
	})
	if err != nil {
		return Report{}, fmt.Errorf("thrashing recovery: %w", err)
	}

	c.logOutcome(log, rep)
	return rep, nil
}

func (c *Controller) logOutcome(log logrus.FieldLogger, rep Report) {
	if !rep.Triggered {
		if rep.Detected {
			log.Info("detected but no process to remediate")
			return
		}
		log.Debug("nothing to recover")
		return
	}
	log.WithField("processes", len(rep.Actions)).Info("recovery applied")
}
