package proc

import (
	"fmt"
	"os"
)

// ReadLoadavg returns the 1, 5 and 15 minute load averages.
func ReadLoadavg() [3]float64 {
	var l [3]float64
	f, err := os.Open("/proc/loadavg")
	if err != nil {
		return l
	}
	defer f.Close()

	fmt.Fscan(f, &l[0], &l[1], &l[2])
	return l
}
