package model

import (
	"sort"
	"strings"
)

type SortColumn int

const (
	SortByCPU SortColumn = iota
	SortByMEM
	SortByPID
	SortByPriority
	SortByBurst
	SortByAlloc
	SortByName
)

var columnNames = []string{"CPU", "MEM", "PID", "PRIO", "BURST", "ALLOC", "NAME"}

// Sorter orders a display copy of the table. Registry order itself is never
// changed, since resource classes are derived from it.
type Sorter struct {
	Column     SortColumn
	Descending bool
}

func NewSorter() *Sorter {
	return &Sorter{
		Column:     SortByPID,
		Descending: false,
	}
}

func (s *Sorter) Toggle(col SortColumn) {
	if s.Column == col {
		s.Descending = !s.Descending
	} else {
		s.Column = col
		s.Descending = true
	}
}

func (s *Sorter) Sort(records []ProcessRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := &records[i], &records[j]
		if s.Descending {
			a, b = b, a
		}

		var less bool
		switch s.Column {
		case SortByCPU:
			less = a.CPU < b.CPU
		case SortByMEM:
			less = a.Mem < b.Mem
		case SortByPID:
			less = a.Pid < b.Pid
		case SortByPriority:
			less = a.Priority < b.Priority
		case SortByBurst:
			less = a.Burst < b.Burst
		case SortByAlloc:
			less = a.Allocated < b.Allocated
		case SortByName:
			less = strings.ToLower(a.Name) < strings.ToLower(b.Name)
		default:
			less = a.Pid < b.Pid
		}
		return less
	})
}

func (s *Sorter) ColumnName() string {
	if int(s.Column) < 0 || int(s.Column) >= len(columnNames) {
		return "?"
	}
	return columnNames[s.Column]
}
