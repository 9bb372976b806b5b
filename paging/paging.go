// Package paging simulates page replacement over a fixed frame pool.
package paging

import (
	"errors"
	"fmt"
)

// Empty marks a frame slot that holds no page.
const Empty = -1

const DefaultFrames = 5

const Recommendation = "LRU typically performs better than FIFO but requires more overhead to track page usage."

var (
	ErrInvalidFrameCount = errors.New("frame count must be at least 1")
	ErrInvalidPage       = errors.New("page numbers must be non-negative")
)

// DefaultReference is the classic demonstration reference string.
func DefaultReference() []int {
	return []int{1, 3, 0, 3, 5, 6, 3, 0, 1, 2}
}

type Policy string

const (
	PolicyFIFO Policy = "FIFO"
	PolicyLRU  Policy = "LRU"
)

type Step struct {
	Page    int
	Fault   bool
	Evicted int   // page removed by this reference, Empty if none
	Frames  []int // pool after the reference
}

type Trace struct {
	Policy    Policy
	Frames    int
	Reference []int
	Steps     []Step
	Faults    int
}

func (t Trace) Hits() int {
	return len(t.Reference) - t.Faults
}

func (t Trace) HitRatio() float64 {
	if len(t.Reference) == 0 {
		return 0
	}
	return float64(t.Hits()) / float64(len(t.Reference))
}

// Snapshots returns the pool contents after each reference.
func (t Trace) Snapshots() [][]int {
	out := make([][]int, len(t.Steps))
	for i, s := range t.Steps {
		out[i] = s.Frames
	}
	return out
}

type Comparison struct {
	FIFO           Trace
	LRU            Trace
	Recommendation string
}

func validate(reference []int, frames int) error {
	if frames < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidFrameCount, frames)
	}
	for i, p := range reference {
		if p < 0 {
			return fmt.Errorf("%w: reference[%d] = %d", ErrInvalidPage, i, p)
		}
	}
	return nil
}

func newPool(frames int) []int {
	pool := make([]int, frames)
	for i := range pool {
		pool[i] = Empty
	}
	return pool
}

func indexOf(pool []int, page int) int {
	for i, p := range pool {
		if p == page {
			return i
		}
	}
	return -1
}

func snapshot(pool []int) []int {
	out := make([]int, len(pool))
	copy(out, pool)
	return out
}

// FIFO replaces the slot under a rotating cursor on every fault.
func FIFO(reference []int, frames int) (Trace, error) {
	if err := validate(reference, frames); err != nil {
		return Trace{}, err
	}

	t := Trace{Policy: PolicyFIFO, Frames: frames, Reference: snapshot(reference)}
	pool := newPool(frames)
	cursor := 0

	for _, page := range reference {
		step := Step{Page: page, Evicted: Empty}
		if indexOf(pool, page) < 0 {
			step.Fault = true
			step.Evicted = pool[cursor]
			pool[cursor] = page
			cursor = (cursor + 1) % frames
			t.Faults++
		}
		step.Frames = snapshot(pool)
		t.Steps = append(t.Steps, step)
	}
	return t, nil
}

// LRU evicts the slot with the oldest last-use step; ties go to the lowest
// slot, so empty slots fill left to right.
func LRU(reference []int, frames int) (Trace, error) {
	if err := validate(reference, frames); err != nil {
		return Trace{}, err
	}

	t := Trace{Policy: PolicyLRU, Frames: frames, Reference: snapshot(reference)}
	pool := newPool(frames)
	lastUsed := make([]int, frames)
	for i := range lastUsed {
		lastUsed[i] = -1
	}

	for now, page := range reference {
		step := Step{Page: page, Evicted: Empty}
		if hit := indexOf(pool, page); hit >= 0 {
			lastUsed[hit] = now
		} else {
			victim := 0
			for j := 1; j < frames; j++ {
				if lastUsed[j] < lastUsed[victim] {
					victim = j
				}
			}
			step.Fault = true
			step.Evicted = pool[victim]
			pool[victim] = page
			lastUsed[victim] = now
			t.Faults++
		}
		step.Frames = snapshot(pool)
		t.Steps = append(t.Steps, step)
	}
	return t, nil
}

// Compare runs both policies over the same reference string.
func Compare(reference []int, frames int) (Comparison, error) {
	fifo, err := FIFO(reference, frames)
	if err != nil {
		return Comparison{}, err
	}
	lru, err := LRU(reference, frames)
	if err != nil {
		return Comparison{}, err
	}
	return Comparison{FIFO: fifo, LRU: lru, Recommendation: Recommendation}, nil
}
