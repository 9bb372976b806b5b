package model

import "fmt"

// MaxNameLen is the longest name a record keeps; longer names are truncated.
const MaxNameLen = 49

// DefaultCapacity matches the size of the classic fixed process table.
const DefaultCapacity = 10

// ResourceClasses is the number of modeled resource classes.
const ResourceClasses = 4

// State is the scheduling state of a simulated process.
type State int

const (
	StateReady State = iota
	StateRunning
	StateWaiting
)

// Valid reports whether s is one of the three defined states.
func (s State) Valid() bool {
	return s >= StateReady && s <= StateWaiting
}

func (s State) String() string {
	switch s {
	case StateReady:
		return "READY"
	case StateRunning:
		return "RUNNING"
	case StateWaiting:
		return "WAITING"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ResourceID identifies one of the modeled resource classes, 1..ResourceClasses.
type ResourceID int

func (r ResourceID) String() string {
	return fmt.Sprintf("R%d", int(r))
}

// ResourceFor derives the resource class a process contends for from its
// position in the registry.
func ResourceFor(index int) ResourceID {
	return ResourceID(index%ResourceClasses + 1)
}

// ProcessRecord is a simulated process control block.
type ProcessRecord struct {
	Pid  int
	Name string

	CPU float64 // %CPU
	Mem float64 // %MEM

	Arrival   int
	Burst     int
	Priority  int // lower value runs first
	Allocated int // MB

	State State
}

func (p ProcessRecord) String() string {
	return fmt.Sprintf("P%d(%s, %s)", p.Pid, p.Name, p.State)
}

func truncateName(name string) string {
	r := []rune(name)
	if len(r) <= MaxNameLen {
		return name
	}
	return string(r[:MaxNameLen])
}
