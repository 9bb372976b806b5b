package model

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrCapacityExceeded = errors.New("registry capacity exceeded")
	ErrDuplicatePID     = errors.New("duplicate pid")
	ErrInvalidBurst     = errors.New("burst time must be at least 1")
	ErrInvalidPriority  = errors.New("priority must be positive")
	ErrInvalidState     = errors.New("invalid process state")
	ErrNegativeUsage    = errors.New("usage and allocation must be non-negative")
)

// Registry is the bounded process table. Every operation holds the lock for
// its full duration, so a UI goroutine and a daemon loop may share one.
type Registry struct {
	mu       sync.Mutex
	capacity int
	records  []ProcessRecord
}

// NewRegistry returns an empty table; a non-positive capacity means
// DefaultCapacity.
func NewRegistry(capacity int) *Registry {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Registry{
		capacity: capacity,
		records:  make([]ProcessRecord, 0, capacity),
	}
}

// Capacity is the fixed maximum number of records.
func (r *Registry) Capacity() int {
	return r.capacity
}

// Len is the current number of records.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Add validates rec and appends it. A full table returns ErrCapacityExceeded
// and leaves the registry unchanged.
func (r *Registry) Add(rec ProcessRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.records) >= r.capacity {
		return fmt.Errorf("add pid %d: %w (capacity %d)", rec.Pid, ErrCapacityExceeded, r.capacity)
	}
	rec.Name = truncateName(rec.Name)
	if err := validateRecord(rec); err != nil {
		return fmt.Errorf("add pid %d: %w", rec.Pid, err)
	}
	for i := range r.records {
		if r.records[i].Pid == rec.Pid {
			return fmt.Errorf("add pid %d: %w", rec.Pid, ErrDuplicatePID)
		}
	}
	r.records = append(r.records, rec)
	return nil
}

// Reset replaces the whole table. Nothing is swapped in unless every record
// is valid.
func (r *Registry) Reset(records []ProcessRecord) error {
	if len(records) > r.capacity {
		return fmt.Errorf("reset with %d records: %w (capacity %d)", len(records), ErrCapacityExceeded, r.capacity)
	}
	next := make([]ProcessRecord, len(records), r.capacity)
	for i, rec := range records {
		rec.Name = truncateName(rec.Name)
		next[i] = rec
	}
	if err := validateTable(next); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	r.mu.Lock()
	r.records = next
	r.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the table in registry order.
func (r *Registry) Snapshot() []ProcessRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]ProcessRecord, len(r.records))
	copy(out, r.records)
	return out
}

// Update runs fn against a working copy of the table. The copy is committed
// only if fn succeeds and the result still satisfies the table invariants;
// otherwise the registry is left as it was.
//
// fn may change fields in place but cannot add or remove records.
func (r *Registry) Update(fn func(records []ProcessRecord) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	work := make([]ProcessRecord, len(r.records), r.capacity)
	copy(work, r.records)

	if err := fn(work); err != nil {
		return err
	}
	for i := range work {
		work[i].Name = truncateName(work[i].Name)
	}
	if err := validateTable(work); err != nil {
		return fmt.Errorf("update rejected: %w", err)
	}
	r.records = work
	return nil
}

func validateRecord(rec ProcessRecord) error {
	switch {
	case rec.Burst < 1:
		return ErrInvalidBurst
	case rec.Priority < 1:
		return ErrInvalidPriority
	case !rec.State.Valid():
		return ErrInvalidState
	case rec.CPU < 0 || rec.Mem < 0 || rec.Allocated < 0 || rec.Arrival < 0:
		return ErrNegativeUsage
	}
	return nil
}

func validateTable(records []ProcessRecord) error {
	seen := make(map[int]struct{}, len(records))
	for _, rec := range records {
		if err := validateRecord(rec); err != nil {
			return fmt.Errorf("pid %d: %w", rec.Pid, err)
		}
		if _, dup := seen[rec.Pid]; dup {
			return fmt.Errorf("pid %d: %w", rec.Pid, ErrDuplicatePID)
		}
		seen[rec.Pid] = struct{}{}
	}
	return nil
}
