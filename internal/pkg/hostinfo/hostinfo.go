// Package hostinfo exposes the handful of host-level facts the samplers
// need: clock tick rate, CPU count, total physical memory, and system uptime.
package hostinfo

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// ClockTicks returns the number of clock ticks (jiffies) per second used by
// /proc accounting. The CLK_TCK env var overrides it (useful for tests);
// otherwise the standard Linux value of 100 is assumed, since reading it
// authoritatively needs sysconf(_SC_CLK_TCK) and therefore cgo.
func ClockTicks() int {
	if v, _ := strconv.Atoi(os.Getenv("CLK_TCK")); v > 0 {
		return v
	}
	return 100
}

// NumCPU returns the number of processing units available, never less than 1.
func NumCPU() int {
	if n := runtime.NumCPU(); n > 1 {
		return n
	}
	return 1
}

// PhysicalMemory returns total physical memory in bytes, or 0 with an error
// when it cannot be determined on this platform.
func PhysicalMemory() (uint64, error) {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return parseMemTotal(f)
}

// SystemUptime returns seconds since boot, or an error when /proc/uptime is
// unavailable.
func SystemUptime() (float64, error) {
	data, err := os.ReadFile("/proc/uptime")
	if err != nil {
		return 0, err
	}
	return parseUptime(string(data))
}

// parseMemTotal extracts the MemTotal row from /proc/meminfo content.
func parseMemTotal(r io.Reader) (uint64, error) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "MemTotal:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0, fmt.Errorf("malformed MemTotal row: %q", line)
		}
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("malformed MemTotal value: %q", fields[1])
		}
		return kb * 1024, nil
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("no MemTotal row in meminfo")
}

// parseUptime extracts the first field of /proc/uptime content.
func parseUptime(s string) (float64, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty uptime content")
	}
	uptime, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("malformed uptime value: %q", fields[0])
	}
	return uptime, nil
}
