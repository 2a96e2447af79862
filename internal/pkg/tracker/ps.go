package tracker

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// psSource obtains the same reading as the proc source by shelling out to
// ps(1). It works nearly everywhere but pays process-spawn overhead on every
// call, so it is only used when /proc is unusable.
type psSource struct {
	run func(pid int) (string, error)
}

func newPSSource() *psSource {
	return &psSource{run: runPS}
}

func runPS(pid int) (string, error) {
	out, err := exec.Command("ps", "-p", strconv.Itoa(pid), "-o", "cputime,etime,rss,%mem").Output()
	if err != nil {
		return "", fmt.Errorf("ps failed for pid %d: %w", pid, err)
	}
	return string(out), nil
}

// Available reports whether ps(1) is on the PATH.
func (s *psSource) Available() bool {
	_, err := exec.LookPath("ps")
	return err == nil
}

// Measure invokes ps for pid and parses its output.
func (s *psSource) Measure(pid int) (Reading, error) {
	out, err := s.run(pid)
	if err != nil {
		return Reading{}, err
	}
	return parsePSOutput(out)
}

// parsePSOutput parses the header-plus-row table ps prints for a single pid:
//
//	    TIME     ELAPSED   RSS %MEM
//	00:00:02       00:18 18848  0.4
//
// RSS is reported in KiB and %MEM as a percentage; the reading carries bytes
// and a 0-1 fraction.
func parsePSOutput(out string) (Reading, error) {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return Reading{}, fmt.Errorf("ps reported no process row: %q", out)
	}

	fields := strings.Fields(lines[1])
	if len(fields) < 4 {
		return Reading{}, fmt.Errorf("short ps row: %q", lines[1])
	}

	cpuTotal, err := parseClockDuration(fields[0])
	if err != nil {
		return Reading{}, fmt.Errorf("malformed ps cputime: %w", err)
	}
	uptime, err := parseClockDuration(fields[1])
	if err != nil {
		return Reading{}, fmt.Errorf("malformed ps etime: %w", err)
	}
	rssKB, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return Reading{}, fmt.Errorf("malformed ps rss: %q", fields[2])
	}
	memPercent, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return Reading{}, fmt.Errorf("malformed ps %%mem: %q", fields[3])
	}

	return Reading{
		CPUTotal:      cpuTotal,
		Uptime:        uptime,
		MemoryBytes:   rssKB * 1024,
		MemoryPercent: memPercent / 100,
	}, nil
}

// parseClockDuration parses the [[DD-]HH:]MM:SS format of ps time columns
// into seconds.
func parseClockDuration(s string) (float64, error) {
	var days float64
	if i := strings.Index(s, "-"); i >= 0 {
		d, err := strconv.ParseFloat(s[:i], 64)
		if err != nil {
			return 0, fmt.Errorf("bad day count in %q", s)
		}
		days = d
		s = s[i+1:]
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("unrecognized time format %q", s)
	}

	var total float64
	for _, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return 0, fmt.Errorf("bad time component in %q", s)
		}
		total = total*60 + v
	}
	return days*86400 + total, nil
}
