package proc

// ClockTicks is USER_HZ, the unit of the tick counters in /proc/<pid>/stat.
// Linux fixes it at 100 for userspace on every mainstream architecture.
const ClockTicks = 100

func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
