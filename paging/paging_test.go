package paging

import (
	"errors"
	"math/rand"
	"testing"
)

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDefaultReferenceFaults(t *testing.T) {
	tests := []struct {
		frames    int
		fifo, lru int
		fifoLast  []int
		lruLast   []int
	}{
		{3, 9, 8, []int{0, 1, 2}, []int{0, 2, 1}},
		{4, 7, 7, []int{6, 1, 2, 5}, []int{2, 3, 0, 1}},
		// Six distinct pages: only compulsory faults.
		{5, 6, 6, []int{2, 3, 0, 5, 6}, []int{1, 3, 0, 2, 6}},
	}

	for _, tt := range tests {
		c, err := Compare(DefaultReference(), tt.frames)
		if err != nil {
			t.Fatal(err)
		}
		if c.FIFO.Faults != tt.fifo {
			t.Errorf("%d frames: FIFO faults = %d, want %d", tt.frames, c.FIFO.Faults, tt.fifo)
		}
		if c.LRU.Faults != tt.lru {
			t.Errorf("%d frames: LRU faults = %d, want %d", tt.frames, c.LRU.Faults, tt.lru)
		}
		if got := c.FIFO.Steps[len(c.FIFO.Steps)-1].Frames; !equalInts(got, tt.fifoLast) {
			t.Errorf("%d frames: FIFO final pool = %v, want %v", tt.frames, got, tt.fifoLast)
		}
		if got := c.LRU.Steps[len(c.LRU.Steps)-1].Frames; !equalInts(got, tt.lruLast) {
			t.Errorf("%d frames: LRU final pool = %v, want %v", tt.frames, got, tt.lruLast)
		}
	}
}

func TestFaultBounds(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for n := 0; n < 200; n++ {
		ref := make([]int, rnd.Intn(30))
		distinct := map[int]struct{}{}
		for i := range ref {
			ref[i] = rnd.Intn(8)
			distinct[ref[i]] = struct{}{}
		}
		frames := rnd.Intn(6) + 1

		for _, run := range []func([]int, int) (Trace, error){FIFO, LRU} {
			tr, err := run(ref, frames)
			if err != nil {
				t.Fatal(err)
			}
			if tr.Faults < len(distinct) || tr.Faults > len(ref) {
				t.Fatalf("%s %v/%d: %d faults outside [%d, %d]",
					tr.Policy, ref, frames, tr.Faults, len(distinct), len(ref))
			}
			if len(tr.Steps) != len(ref) {
				t.Fatalf("%s: %d steps for %d references", tr.Policy, len(tr.Steps), len(ref))
			}
		}
	}
}

func TestImmediateRepeatIsHit(t *testing.T) {
	for _, run := range []func([]int, int) (Trace, error){FIFO, LRU} {
		tr, err := run([]int{4, 4, 4, 7, 7}, 1)
		if err != nil {
			t.Fatal(err)
		}
		if tr.Faults != 2 {
			t.Errorf("%s: faults = %d, want 2", tr.Policy, tr.Faults)
		}
		if tr.Steps[1].Fault || tr.Steps[4].Fault {
			t.Errorf("%s: repeat counted as fault", tr.Policy)
		}
		if tr.Steps[3].Evicted != 4 {
			t.Errorf("%s: evicted %d, want 4", tr.Policy, tr.Steps[3].Evicted)
		}
	}
}

func TestDeterministicAndPure(t *testing.T) {
	ref := DefaultReference()
	a, _ := LRU(ref, 3)
	b, _ := LRU(ref, 3)
	if a.Faults != b.Faults || !equalInts(a.Snapshots()[9], b.Snapshots()[9]) {
		t.Error("two runs over the same input differ")
	}
	if !equalInts(ref, DefaultReference()) {
		t.Error("reference string was modified")
	}
	a.Reference[0] = 99
	if b.Reference[0] == 99 {
		t.Error("traces share the reference slice")
	}
}

func TestSnapshotsStartEmpty(t *testing.T) {
	tr, err := FIFO([]int{1}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got := tr.Snapshots()[0]; !equalInts(got, []int{1, Empty, Empty}) {
		t.Errorf("first snapshot = %v", got)
	}
	if tr.Steps[0].Evicted != Empty {
		t.Error("filling an empty slot reported an eviction")
	}
}

func TestInvalidInput(t *testing.T) {
	if _, err := FIFO(DefaultReference(), 0); !errors.Is(err, ErrInvalidFrameCount) {
		t.Errorf("FIFO 0 frames: got %v", err)
	}
	if _, err := LRU(DefaultReference(), -1); !errors.Is(err, ErrInvalidFrameCount) {
		t.Errorf("LRU -1 frames: got %v", err)
	}
	if _, err := Compare([]int{1, -2}, 3); !errors.Is(err, ErrInvalidPage) {
		t.Errorf("negative page: got %v", err)
	}
}

func TestHitRatio(t *testing.T) {
	tr, _ := FIFO(DefaultReference(), 5)
	if tr.Hits() != 4 || tr.HitRatio() != 0.4 {
		t.Errorf("hits = %d ratio = %v", tr.Hits(), tr.HitRatio())
	}
	if (Trace{}).HitRatio() != 0 {
		t.Error("empty trace ratio")
	}
}
