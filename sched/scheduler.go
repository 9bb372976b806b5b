// Package sched computes execution orders over a process table snapshot.
// Nothing here mutates the records it is given.
package sched

import (
	"fmt"
	"sort"

	"faultsim/model"
)

// DefaultQuantum is the Round-Robin time slice in simulated units.
const DefaultQuantum = 3

const Recommendation = "Priority scheduling for system processes, Round Robin for interactive tasks."

type Policy string

const (
	PolicyRoundRobin Policy = "Round Robin"
	PolicyPriority   Policy = "Priority"
)

// Step is one CPU grant in a schedule.
type Step struct {
	Pid       int
	Priority  int
	Start     int
	Run       int
	Remaining int // burst left after this grant
}

func (s Step) End() int {
	return s.Start + s.Run
}

type Report struct {
	Policy     Policy
	Quantum    int // zero for non-preemptive policies
	Order      []int
	Steps      []Step
	TotalTime  int
	Completion map[int]int // pid -> completion time
}

// AvgCompletion is the mean completion time, zero for an empty schedule.
func (r Report) AvgCompletion() float64 {
	if len(r.Completion) == 0 {
		return 0
	}
	sum := 0
	for _, t := range r.Completion {
		sum += t
	}
	return float64(sum) / float64(len(r.Completion))
}

// Count returns how many grants pid received.
func (r Report) Count(pid int) int {
	n := 0
	for _, p := range r.Order {
		if p == pid {
			n++
		}
	}
	return n
}

type Comparison struct {
	RoundRobin     Report
	Priority       Report
	Recommendation string
}

// RoundRobin cycles through unfinished processes in registry order granting
// min(quantum, remaining) units per visit. An empty table yields an empty
// report; any burst below 1 fails before anything is scheduled.
func RoundRobin(procs []model.ProcessRecord, quantum int) (Report, error) {
	if quantum < 1 {
		return Report{}, fmt.Errorf("round robin: quantum %d must be at least 1", quantum)
	}
	for _, p := range procs {
		if p.Burst < 1 {
			return Report{}, fmt.Errorf("round robin: pid %d burst %d: %w", p.Pid, p.Burst, model.ErrInvalidBurst)
		}
	}

	rep := Report{
		Policy:     PolicyRoundRobin,
		Quantum:    quantum,
		Completion: make(map[int]int, len(procs)),
	}
	n := len(procs)
	if n == 0 {
		return rep, nil
	}

	remaining := make([]int, n)
	for i, p := range procs {
		remaining[i] = p.Burst
	}

	completed := 0
	for i := 0; completed < n; i = (i + 1) % n {
		if remaining[i] == 0 {
			continue
		}
		run := min(quantum, remaining[i])
		remaining[i] -= run

		rep.Steps = append(rep.Steps, Step{
			Pid:       procs[i].Pid,
			Priority:  procs[i].Priority,
			Start:     rep.TotalTime,
			Run:       run,
			Remaining: remaining[i],
		})
		rep.Order = append(rep.Order, procs[i].Pid)
		rep.TotalTime += run

		if remaining[i] == 0 {
			rep.Completion[procs[i].Pid] = rep.TotalTime
			completed++
		}
	}
	return rep, nil
}

// Priority runs every process to completion in ascending priority value.
// Equal priorities keep registry order.
func Priority(procs []model.ProcessRecord) Report {
	order := make([]model.ProcessRecord, len(procs))
	copy(order, procs)
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Priority < order[j].Priority
	})

	rep := Report{
		Policy:     PolicyPriority,
		Completion: make(map[int]int, len(order)),
	}
	for _, p := range order {
		rep.Steps = append(rep.Steps, Step{
			Pid:      p.Pid,
			Priority: p.Priority,
			Start:    rep.TotalTime,
			Run:      p.Burst,
		})
		rep.Order = append(rep.Order, p.Pid)
		rep.TotalTime += p.Burst
		rep.Completion[p.Pid] = rep.TotalTime
	}
	return rep
}

// Compare runs both policies over the same snapshot.
func Compare(procs []model.ProcessRecord, quantum int) (Comparison, error) {
	rr, err := RoundRobin(procs, quantum)
	if err != nil {
		return Comparison{}, err
	}
	return Comparison{
		RoundRobin:     rr,
		Priority:       Priority(procs),
		Recommendation: Recommendation,
	}, nil
}
