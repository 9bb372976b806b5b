// Package fault perturbs the process registry to create the conditions the
// recovery controller has to detect.
package fault

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"faultsim/model"
)

var ErrNotEnoughProcesses = errors.New("not enough processes")

type Rand interface {
	Intn(n int) int
}

type Kind string

const (
	Deadlock    Kind = "deadlock"
	CPUOverload Kind = "cpu_overload"
	Thrashing   Kind = "thrashing"
)

// Kinds lists every fault in menu order.
var Kinds = []Kind{Deadlock, CPUOverload, Thrashing}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	switch s {
	case "cpu", "overload":
		return CPUOverload, nil
	case "thrash", "memory":
		return Thrashing, nil
	}
	return "", fmt.Errorf("unknown fault %q", s)
}

type Fault struct {
	ID     uuid.UUID
	Kind   Kind
	PIDs   []int
	Detail string
}

type Injector struct {
	reg    *model.Registry
	rnd    Rand
	logger logrus.FieldLogger
}

func NewInjector(reg *model.Registry, rnd Rand, logger logrus.FieldLogger) *Injector {
	return &Injector{reg: reg, rnd: rnd, logger: logger}
}

func (in *Injector) Inject(kind Kind) (Fault, error) {
	switch kind {
	case Deadlock:
		return in.InjectDeadlock()
	case CPUOverload:
		return in.InjectCPUOverload()
	case Thrashing:
		return in.InjectThrashing()
	}
	return Fault{}, fmt.Errorf("unknown fault %q", kind)
}

// InjectDeadlock puts two distinct random processes into WAITING.
func (in *Injector) InjectDeadlock() (Fault, error) {
	f := Fault{ID: uuid.New(), Kind: Deadlock}
	err := in.reg.Update(func(recs []model.ProcessRecord) error {
		if len(recs) < 2 {
			return fmt.Errorf("inject deadlock: %w (have %d, need 2)", ErrNotEnoughProcesses, len(recs))
		}
		i := in.rnd.Intn(len(recs))
		j := in.rnd.Intn(len(recs) - 1)
		if j >= i {
			j++
		}
		recs[i].State = model.StateWaiting
		recs[j].State = model.StateWaiting
		f.PIDs = []int{recs[i].Pid, recs[j].Pid}
		f.Detail = fmt.Sprintf("processes %d and %d marked as waiting", recs[i].Pid, recs[j].Pid)
		return nil
	})
	return in.finish(f, err)
}

// InjectCPUOverload pins one random process at 100% CPU.
func (in *Injector) InjectCPUOverload() (Fault, error) {
	f := Fault{ID: uuid.New(), Kind: CPUOverload}
	err := in.reg.Update(func(recs []model.ProcessRecord) error {
		if len(recs) < 1 {
			return fmt.Errorf("inject cpu overload: %w", ErrNotEnoughProcesses)
		}
		i := in.rnd.Intn(len(recs))
		recs[i].CPU = 100.0
		f.PIDs = []int{recs[i].Pid}
		f.Detail = fmt.Sprintf("process %d cpu usage set to 100%%", recs[i].Pid)
		return nil
	})
	return in.finish(f, err)
}

// InjectThrashing halves the allocation of one random process.
func (in *Injector) InjectThrashing() (Fault, error) {
	f := Fault{ID: uuid.New(), Kind: Thrashing}
	err := in.reg.Update(func(recs []model.ProcessRecord) error {
		if len(recs) < 1 {
			return fmt.Errorf("inject thrashing: %w", ErrNotEnoughProcesses)
		}
		i := in.rnd.Intn(len(recs))
		before := recs[i].Allocated
		recs[i].Allocated = before / 2
		f.PIDs = []int{recs[i].Pid}
		f.Detail = fmt.Sprintf("process %d memory reduced from %d to %d", recs[i].Pid, before, recs[i].Allocated)
		return nil
	})
	return in.finish(f, err)
}

func (in *Injector) finish(f Fault, err error) (Fault, error) {
	if err != nil {
		in.logger.WithField("kind", f.Kind).WithError(err).Warn("fault not injected")
		return Fault{}, err
	}
	in.logger.WithFields(logrus.Fields{"kind": f.Kind, "fault": f.ID, "pids": f.PIDs}).Info(f.Detail)
	return f, nil
}
