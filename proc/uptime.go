package proc

import (
	"fmt"
	"os"
)

func ReadUptime() float64 {
	return readUptimeFrom("/proc/uptime")
}

func readUptimeFrom(path string) float64 {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	var up float64
	fmt.Fscan(f, &up)
	return up
}
