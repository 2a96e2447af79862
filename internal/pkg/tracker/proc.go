package tracker

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/relaymon/relaymon/internal/pkg/hostinfo"
)

// procSource reads per-process accounting from the /proc filesystem. It is
// cheap enough to query every tick but only exists on Linux-like hosts.
type procSource struct {
	root string // proc mount point, overridable in tests
	hz   float64
}

func newProcSource() *procSource {
	return &procSource{
		root: "/proc",
		hz:   float64(hostinfo.ClockTicks()),
	}
}

// Available probes for a readable proc filesystem.
func (s *procSource) Available() bool {
	_, err := os.Stat(filepath.Join(s.root, "stat"))
	return err == nil
}

// Measure reads CPU time, process uptime, and resident memory for pid.
func (s *procSource) Measure(pid int) (Reading, error) {
	utime, stime, starttime, err := s.readStat(pid)
	if err != nil {
		return Reading{}, err
	}

	sysUptime, err := s.readUptime()
	if err != nil {
		return Reading{}, err
	}

	rss, err := s.readRSS(pid)
	if err != nil {
		return Reading{}, err
	}

	var memPercent float64
	if total, err := s.readMemTotal(); err == nil && total > 0 {
		memPercent = float64(rss) / float64(total)
	}

	return Reading{
		CPUTotal:      float64(utime+stime) / s.hz,
		Uptime:        sysUptime - float64(starttime)/s.hz,
		MemoryBytes:   rss,
		MemoryPercent: memPercent,
	}, nil
}

// readStat parses utime, stime, and starttime (clock ticks) from
// /proc/<pid>/stat. The comm field is parenthesized and may contain spaces,
// so numeric fields are located relative to the closing paren.
func (s *procSource) readStat(pid int) (utime, stime, starttime uint64, err error) {
	path := filepath.Join(s.root, strconv.Itoa(pid), "stat")
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, 0, err
	}

	line := strings.TrimSpace(string(data))
	i := strings.LastIndex(line, ") ")
	if i < 0 {
		return 0, 0, 0, fmt.Errorf("malformed stat for pid %d: %q", pid, line)
	}

	// Fields after comm: index 11 is utime (field 14 overall), 12 is stime,
	// 19 is starttime (field 22 overall).
	fields := strings.Fields(line[i+2:])
	if len(fields) < 20 {
		return 0, 0, 0, fmt.Errorf("short stat for pid %d: %d fields", pid, len(fields))
	}

	if utime, err = strconv.ParseUint(fields[11], 10, 64); err != nil {
		return 0, 0, 0, fmt.Errorf("malformed utime for pid %d: %w", pid, err)
	}
	if stime, err = strconv.ParseUint(fields[12], 10, 64); err != nil {
		return 0, 0, 0, fmt.Errorf("malformed stime for pid %d: %w", pid, err)
	}
	if starttime, err = strconv.ParseUint(fields[19], 10, 64); err != nil {
		return 0, 0, 0, fmt.Errorf("malformed starttime for pid %d: %w", pid, err)
	}
	return utime, stime, starttime, nil
}

// readRSS parses the VmRSS row of /proc/<pid>/status, in bytes.
func (s *procSource) readRSS(pid int) (uint64, error) {
	path := filepath.Join(s.root, strconv.Itoa(pid), "status")
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "VmRSS:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0, fmt.Errorf("malformed VmRSS row for pid %d: %q", pid, line)
		}
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("malformed VmRSS value for pid %d: %q", pid, fields[1])
		}
		return kb * 1024, nil
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("no VmRSS row for pid %d", pid)
}

func (s *procSource) readUptime() (float64, error) {
	data, err := os.ReadFile(filepath.Join(s.root, "uptime"))
	if err != nil {
		return 0, err
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty uptime content")
	}
	uptime, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("malformed uptime value: %q", fields[0])
	}
	return uptime, nil
}

func (s *procSource) readMemTotal() (uint64, error) {
	f, err := os.Open(filepath.Join(s.root, "meminfo"))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
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
			return 0, err
		}
		return kb * 1024, nil
	}
	return 0, fmt.Errorf("no MemTotal row in meminfo")
}
