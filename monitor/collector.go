package monitor

import (
	"fmt"
	"os"
	"strconv"

	"faultsim/model"
	"faultsim/proc"
)

// Rand is what the generators draw simulation parameters from.
type Rand interface {
	Intn(n int) int
}

// Collector builds process tables, either from the live system or from the
// synthetic generator.
type Collector struct {
	rnd      Rand
	procRoot string
}

func NewCollector(rnd Rand) *Collector {
	return &Collector{rnd: rnd, procRoot: "/proc"}
}

// Scan reads the live process table and keeps the limit busiest processes.
// Name and usage come from /proc; arrival, burst and priority are simulated.
func (c *Collector) Scan(limit int) []model.ProcessRecord {
	entries, err := os.ReadDir(c.procRoot)
	if err != nil {
		return nil
	}

	uptime := proc.ReadUptime()
	memTotal := proc.ReadMemTotalKB()

	var samples []sample
	for _, ent := range entries {
		if !proc.IsNumeric(ent.Name()) {
			continue
		}
		pid, _ := strconv.Atoi(ent.Name())
		st, err := proc.ReadProcStatFrom(c.procRoot, pid)
		if err != nil {
			continue
		}
		samples = append(samples, sample{stat: st, cpu: st.CPUPercent(uptime)})
	}
	rankBusiest(samples)

	records := make([]model.ProcessRecord, 0, min(limit, len(samples)))
	for _, s := range samples[:min(limit, len(samples))] {
		records = append(records, c.fromStat(s, memTotal))
	}
	return records
}

func (c *Collector) fromStat(s sample, memTotalKB int64) model.ProcessRecord {
	st := s.stat
	rec := model.ProcessRecord{
		Pid:       st.Pid,
		Name:      st.Comm,
		CPU:       s.cpu,
		Allocated: int(st.RSSKB / 1024),
		State:     model.StateReady,
	}
	if memTotalKB > 0 {
		rec.Mem = float64(st.RSSKB) * 100.0 / float64(memTotalKB)
	}
	c.simulate(&rec)
	return rec
}

func (c *Collector) simulate(rec *model.ProcessRecord) {
	rec.Arrival = c.rnd.Intn(10)
	rec.Burst = c.rnd.Intn(10) + 1
	rec.Priority = c.rnd.Intn(5) + 1
}

// Synthetic generates n dummy processes with pids 100, 101, ...
func (c *Collector) Synthetic(n int) []model.ProcessRecord {
	records := make([]model.ProcessRecord, n)
	for i := range records {
		rec := model.ProcessRecord{
			Pid:   100 + i,
			Name:  syntheticName(i),
			CPU:   float64(c.rnd.Intn(50))/10.0 + 5.0,
			Mem:   float64(c.rnd.Intn(50))/10.0 + 5.0,
			State: model.StateReady,
		}
		c.simulate(&rec)
		rec.Allocated = c.rnd.Intn(200) + 50
		records[i] = rec
	}
	return records
}

func syntheticName(i int) string {
	if i < 26 {
		return fmt.Sprintf("Process_%c", 'A'+i)
	}
	return fmt.Sprintf("Process_%d", i)
}
