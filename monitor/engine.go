package monitor

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"faultsim/config"
	"faultsim/deadlock"
	"faultsim/fault"
	"faultsim/model"
	"faultsim/paging"
	"faultsim/recovery"
	"faultsim/sched"
)

// SimulatedMemoryMB is the total the memory map measures usage against.
const SimulatedMemoryMB = 1000

// Source tells where the current table came from.
type Source string

const (
	SourceLive      Source = "live"
	SourceSynthetic Source = "synthetic"
)

// Engine owns the registry and every component that reads or mutates it.
type Engine struct {
	Registry   *model.Registry
	Collector  *Collector
	Controller *recovery.Controller
	Injector   *fault.Injector

	logger logrus.FieldLogger

	mu       sync.RWMutex // guards the fields below
	cfg      *config.SimConfig
	analyzer deadlock.Analyzer
	source   Source
}

// Outcome is one inject-then-recover cycle.
type Outcome struct {
	Fault    fault.Fault
	Recovery recovery.Report
}

type Comparison struct {
	Scheduling sched.Comparison
	Paging     paging.Comparison
}

type MemoryMap struct {
	TotalMB int
	UsedMB  int
	Blocks  []MemoryBlock
}

type MemoryBlock struct {
	Pid int
	MB  int
}

func (m MemoryMap) FreeMB() int {
	return max(m.TotalMB-m.UsedMB, 0)
}

type ResourceEdge struct {
	Pid      int
	Resource model.ResourceID
	Waiting  bool
}

type Analysis struct {
	Safety     deadlock.SafetyVerdict
	Cycles     deadlock.CycleVerdict
	Scheduling sched.Comparison
	Memory     MemoryMap
	Resources  []ResourceEdge
}

// NewEngine wires the components around one registry. The random source is
// seeded once here from cfg.Seed, or from the clock when the seed is zero.
func NewEngine(cfg *config.SimConfig, logger logrus.FieldLogger) *Engine {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rnd := &lockedRand{r: rand.New(rand.NewSource(seed))}
	return newEngine(cfg, rnd, logger)
}

func newEngine(cfg *config.SimConfig, rnd recovery.Rand, logger logrus.FieldLogger) *Engine {
	reg := model.NewRegistry(cfg.Capacity)
	analyzer := cfg.Analyzer()
	return &Engine{
		Registry:   reg,
		Collector:  NewCollector(rnd),
		analyzer:   analyzer,
		Controller: recovery.NewController(reg, analyzer, rnd, cfg.RecoverySettings(), logger),
		Injector:   fault.NewInjector(reg, rnd, logger),
		cfg:        cfg,
		logger:     logger,
	}
}

// Init replaces the table wholesale: live processes when enabled and
// readable, the synthetic generator otherwise.
func (e *Engine) Init() error {
	cfg := e.config()

	var records []model.ProcessRecord
	source := SourceSynthetic
	if cfg.Live {
		records = e.Collector.Scan(e.Registry.Capacity())
		if len(records) > 0 {
			source = SourceLive
		}
	}
	if len(records) == 0 {
		records = e.Collector.Synthetic(cfg.SyntheticCount)
	}

	if err := e.Registry.Reset(records); err != nil {
		return fmt.Errorf("init registry: %w", err)
	}
	e.mu.Lock()
	e.source = source
	e.mu.Unlock()

	e.logger.WithFields(logrus.Fields{"source": source, "processes": len(records)}).Info("process table initialized")
	return nil
}

func (e *Engine) Source() Source {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.source
}

func (e *Engine) config() *config.SimConfig {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg
}

// Analyzer returns the deadlock analyzer currently in effect.
func (e *Engine) Analyzer() deadlock.Analyzer {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.analyzer
}

func (e *Engine) Records() []model.ProcessRecord {
	return e.Registry.Snapshot()
}

// Reconfigure applies reloaded thresholds to the running controller.
func (e *Engine) Reconfigure(cfg *config.SimConfig) {
	analyzer := cfg.Analyzer()
	e.mu.Lock()
	e.cfg = cfg
	e.analyzer = analyzer
	e.mu.Unlock()
	e.Controller.SetSettings(cfg.RecoverySettings())
	e.Controller.SetAnalyzer(analyzer)
}

// InjectAndRecover injects kind and immediately runs the matching recovery.
func (e *Engine) InjectAndRecover(kind fault.Kind) (Outcome, error) {
	f, err := e.Injector.Inject(kind)
	if err != nil && !errors.Is(err, fault.ErrNotEnoughProcesses) {
		return Outcome{}, err
	}
	rep, rerr := e.Controller.Recover(recovery.Kind(kind))
	if rerr != nil {
		return Outcome{}, rerr
	}
	return Outcome{Fault: f, Recovery: rep}, err
}

func (e *Engine) Compare() (Comparison, error) {
	cfg := e.config()
	s, err := sched.Compare(e.Records(), cfg.Quantum)
	if err != nil {
		return Comparison{}, err
	}
	p, err := paging.Compare(cfg.Reference, cfg.Frames)
	if err != nil {
		return Comparison{}, err
	}
	return Comparison{Scheduling: s, Paging: p}, nil
}

// Analyze is the read-only full system report.
func (e *Engine) Analyze() (Analysis, error) {
	recs := e.Records()
	analyzer := e.Analyzer()
	s, err := sched.Compare(recs, e.config().Quantum)
	if err != nil {
		return Analysis{}, err
	}

	a := Analysis{
		Safety:     analyzer.CheckSafety(recs),
		Cycles:     analyzer.CheckCycles(recs),
		Scheduling: s,
		Memory:     memoryMap(recs),
	}
	for i, r := range recs {
		a.Resources = append(a.Resources, ResourceEdge{
			Pid:      r.Pid,
			Resource: model.ResourceFor(i),
			Waiting:  r.State == model.StateWaiting,
		})
	}
	return a, nil
}

func memoryMap(recs []model.ProcessRecord) MemoryMap {
	m := MemoryMap{TotalMB: SimulatedMemoryMB}
	for _, r := range recs {
		m.UsedMB += r.Allocated
		m.Blocks = append(m.Blocks, MemoryBlock{Pid: r.Pid, MB: r.Allocated})
	}
	return m
}
