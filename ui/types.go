package ui

import (
	"time"

	"faultsim/fault"
	"faultsim/model"
	"faultsim/monitor"
)

// Simulator is what the TUI drives. *monitor.Engine implements it.
type Simulator interface {
	Init() error
	Source() monitor.Source
	Records() []model.ProcessRecord
	InjectAndRecover(kind fault.Kind) (monitor.Outcome, error)
	Compare() (monitor.Comparison, error)
	Analyze() (monitor.Analysis, error)
}

// Messages

type tickMsg time.Time

type dataMsg struct {
	records []model.ProcessRecord
	loads   [3]float64
	uptime  float64
}

type reportMsg struct {
	title string
	body  string
	err   error
}

type statusMsg struct {
	text    string
	isError bool
}

// UI Modes

type uiMode int

const (
	normalMode uiMode = iota
	filterMode
	reportMode
	helpMode
)
