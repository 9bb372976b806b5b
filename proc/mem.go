package proc

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadMemTotalKB returns MemTotal from /proc/meminfo, or 0 if unreadable.
func ReadMemTotalKB() int64 {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0
	}
	defer f.Close()
	return parseMemTotal(f)
}

func parseMemTotal(r io.Reader) int64 {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "MemTotal:") {
			continue
		}
		for _, tok := range strings.Fields(line)[1:] {
			if v, err := strconv.ParseInt(tok, 10, 64); err == nil && v > 0 {
				return v
			}
		}
	}
	return 0
}
