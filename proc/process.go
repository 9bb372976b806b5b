package proc

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Stat is the subset of /proc/<pid>/stat the snapshot needs.
type Stat struct {
	Pid       int
	Comm      string
	State     byte
	Utime     uint64
	Stime     uint64
	StartTime uint64 // ticks after boot
	RSSKB     int64
}

// CPUPercent is the average CPU share since the process started, given the
// system uptime in seconds.
func (s Stat) CPUPercent(uptime float64) float64 {
	elapsed := uptime - float64(s.StartTime)/ClockTicks
	if elapsed <= 0 {
		return 0
	}
	busy := float64(s.Utime+s.Stime) / ClockTicks
	return busy * 100.0 / elapsed
}

// Zombie reports whether the process has exited but not been reaped.
func (s Stat) Zombie() bool {
	return s.State == 'Z'
}

// ReadProcStatFrom reads <root>/<pid>/stat.
func ReadProcStatFrom(root string, pid int) (Stat, error) {
	data, err := os.ReadFile(filepath.Join(root, strconv.Itoa(pid), "stat"))
	if err != nil {
		return Stat{}, err
	}
	st, err := ParseStat(string(data))
	if err != nil {
		return Stat{}, fmt.Errorf("pid %d: %w", pid, err)
	}
	return st, nil
}

// ParseStat parses one /proc/<pid>/stat line. The comm field may contain
// spaces and parentheses, so it is taken between the first '(' and the last ')'.
func ParseStat(line string) (Stat, error) {
	line = strings.TrimSpace(line)

	l := strings.IndexByte(line, '(')
	r := strings.LastIndexByte(line, ')')
	if l < 0 || r < 0 || r <= l {
		return Stat{}, fmt.Errorf("malformed stat line")
	}

	var st Stat
	pid, err := strconv.Atoi(strings.TrimSpace(line[:l]))
	if err != nil {
		return Stat{}, fmt.Errorf("malformed pid: %w", err)
	}
	st.Pid = pid
	st.Comm = line[l+1 : r]

	fields := strings.Fields(line[r+1:])
	if len(fields) < 22 {
		return Stat{}, fmt.Errorf("short stat line: %d fields", len(fields))
	}

	// fields[0] is field 3 in proc(5).
	field := func(i int) string { return fields[i-3] }

	st.State = field(3)[0]
	st.Utime, _ = strconv.ParseUint(field(14), 10, 64)
	st.Stime, _ = strconv.ParseUint(field(15), 10, 64)
	st.StartTime, _ = strconv.ParseUint(field(22), 10, 64)

	rss, _ := strconv.ParseInt(field(24), 10, 64)
	st.RSSKB = rss * int64(os.Getpagesize()/1024)

	return st, nil
}
