package monitor

import (
	"sort"

	"faultsim/proc"
)

type sample struct {
	stat proc.Stat
	cpu  float64
}

// rankBusiest orders samples so live processes come before zombies, then by
// CPU share, resident memory and pid.
func rankBusiest(samples []sample) {
	sort.SliceStable(samples, func(i, j int) bool {
		a := samples[i]
		b := samples[j]

		if a.stat.Zombie() != b.stat.Zombie() {
			return !a.stat.Zombie()
		}
		if a.cpu != b.cpu {
			return a.cpu > b.cpu
		}
		if a.stat.RSSKB != b.stat.RSSKB {
			return a.stat.RSSKB > b.stat.RSSKB
		}
		return a.stat.Pid < b.stat.Pid
	})
}
