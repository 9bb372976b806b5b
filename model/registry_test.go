package model

import (
	"errors"
	"strings"
	"testing"
)

func rec(pid int) ProcessRecord {
	return ProcessRecord{Pid: pid, Name: "p", Burst: 1, Priority: 1, Allocated: 100}
}

func TestRegistryAddCapacity(t *testing.T) {
	r := NewRegistry(3)
	for pid := 1; pid <= 3; pid++ {
		if err := r.Add(rec(pid)); err != nil {
			t.Fatalf("Add(%d): %v", pid, err)
		}
	}

	err := r.Add(rec(4))
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("Add over capacity: got %v, want ErrCapacityExceeded", err)
	}
	if r.Len() != 3 {
		t.Errorf("Len = %d after rejected add, want 3", r.Len())
	}
}

func TestRegistryDefaultCapacity(t *testing.T) {
	if c := NewRegistry(0).Capacity(); c != DefaultCapacity {
		t.Errorf("Capacity = %d, want %d", c, DefaultCapacity)
	}
}

func TestRegistryAddRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*ProcessRecord)
		want error
	}{
		{"zero burst", func(p *ProcessRecord) { p.Burst = 0 }, ErrInvalidBurst},
		{"zero priority", func(p *ProcessRecord) { p.Priority = 0 }, ErrInvalidPriority},
		{"bad state", func(p *ProcessRecord) { p.State = State(7) }, ErrInvalidState},
		{"negative cpu", func(p *ProcessRecord) { p.CPU = -1 }, ErrNegativeUsage},
		{"negative alloc", func(p *ProcessRecord) { p.Allocated = -5 }, ErrNegativeUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry(DefaultCapacity)
			p := rec(1)
			tt.mod(&p)
			if err := r.Add(p); !errors.Is(err, tt.want) {
				t.Errorf("Add: got %v, want %v", err, tt.want)
			}
			if r.Len() != 0 {
				t.Errorf("Len = %d, want 0", r.Len())
			}
		})
	}
}

func TestRegistryDuplicatePID(t *testing.T) {
	r := NewRegistry(DefaultCapacity)
	if err := r.Add(rec(7)); err != nil {
		t.Fatal(err)
	}
	if err := r.Add(rec(7)); !errors.Is(err, ErrDuplicatePID) {
		t.Errorf("got %v, want ErrDuplicatePID", err)
	}
	if err := r.Reset([]ProcessRecord{rec(1), rec(1)}); !errors.Is(err, ErrDuplicatePID) {
		t.Errorf("Reset: got %v, want ErrDuplicatePID", err)
	}
}

func TestRegistryNameTruncation(t *testing.T) {
	r := NewRegistry(DefaultCapacity)
	p := rec(1)
	p.Name = strings.Repeat("x", 80)
	if err := r.Add(p); err != nil {
		t.Fatal(err)
	}
	if got := len(r.Snapshot()[0].Name); got != MaxNameLen {
		t.Errorf("name length = %d, want %d", got, MaxNameLen)
	}
}

func TestRegistryResetIsAtomic(t *testing.T) {
	r := NewRegistry(DefaultCapacity)
	if err := r.Reset([]ProcessRecord{rec(1), rec(2)}); err != nil {
		t.Fatal(err)
	}

	bad := rec(3)
	bad.Burst = 0
	if err := r.Reset([]ProcessRecord{rec(3), bad}); err == nil {
		t.Fatal("Reset with invalid record succeeded")
	}
	if r.Len() != 2 {
		t.Errorf("Len = %d after rejected reset, want 2", r.Len())
	}

	tooMany := make([]ProcessRecord, 11)
	for i := range tooMany {
		tooMany[i] = rec(i + 1)
	}
	if err := r.Reset(tooMany); !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("got %v, want ErrCapacityExceeded", err)
	}
}

func TestRegistryUpdateRollsBack(t *testing.T) {
	r := NewRegistry(DefaultCapacity)
	if err := r.Reset([]ProcessRecord{rec(1), rec(2)}); err != nil {
		t.Fatal(err)
	}

	errBoom := errors.New("boom")
	err := r.Update(func(recs []ProcessRecord) error {
		recs[0].State = StateWaiting
		return errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("got %v, want errBoom", err)
	}
	if r.Snapshot()[0].State != StateReady {
		t.Error("failed update leaked a state change")
	}

	err = r.Update(func(recs []ProcessRecord) error {
		recs[1].Pid = recs[0].Pid
		return nil
	})
	if !errors.Is(err, ErrDuplicatePID) {
		t.Fatalf("got %v, want ErrDuplicatePID", err)
	}
	if r.Snapshot()[1].Pid != 2 {
		t.Error("invalid update was committed")
	}

	err = r.Update(func(recs []ProcessRecord) error {
		recs[1].State = StateWaiting
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if r.Snapshot()[1].State != StateWaiting {
		t.Error("valid update was not committed")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	r := NewRegistry(DefaultCapacity)
	if err := r.Add(rec(1)); err != nil {
		t.Fatal(err)
	}
	snap := r.Snapshot()
	snap[0].CPU = 99
	if r.Snapshot()[0].CPU != 0 {
		t.Error("mutating a snapshot changed the registry")
	}
}

func TestResourceFor(t *testing.T) {
	want := []ResourceID{1, 2, 3, 4, 1, 2, 3, 4, 1, 2}
	for i, w := range want {
		if got := ResourceFor(i); got != w {
			t.Errorf("ResourceFor(%d) = %v, want %v", i, got, w)
		}
	}
	if ResourceFor(2).String() != "R3" {
		t.Errorf("String = %q", ResourceFor(2).String())
	}
}

func TestStateString(t *testing.T) {
	if StateWaiting.String() != "WAITING" || StateReady.String() != "READY" || StateRunning.String() != "RUNNING" {
		t.Error("unexpected state names")
	}
	if State(9).Valid() {
		t.Error("State(9) reported valid")
	}
}
