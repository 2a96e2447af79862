// Package conns lists a process' established TCP connections by running and
// parsing the system's connection-listing tools. Parsers are strict: rows
// that should be present but cannot be understood are errors, not silently
// dropped data.
package conns

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Connection is one established TCP connection of the monitored process.
type Connection struct {
	Protocol      string
	LocalAddress  string
	LocalPort     uint16
	RemoteAddress string
	RemotePort    uint16
}

// Key returns a stable identity for the connection across polls.
func (c Connection) Key() string {
	return fmt.Sprintf("%s|%s:%d|%s:%d", c.Protocol, c.LocalAddress, c.LocalPort, c.RemoteAddress, c.RemotePort)
}

// Resolver identifies a connection-listing tool.
type Resolver int

const (
	ResolverNetstat Resolver = iota
	ResolverLsof
)

func (r Resolver) String() string {
	switch r {
	case ResolverNetstat:
		return "netstat"
	case ResolverLsof:
		return "lsof"
	default:
		return "unknown"
	}
}

// SystemResolvers returns the resolvers whose tool is present on this host,
// in preference order.
func SystemResolvers() []Resolver {
	var available []Resolver
	for _, r := range []Resolver{ResolverNetstat, ResolverLsof} {
		if _, err := exec.LookPath(r.String()); err == nil {
			available = append(available, r)
		}
	}
	return available
}

// Connections lists the established TCP connections of pid using resolver.
func Connections(resolver Resolver, pid int) ([]Connection, error) {
	switch resolver {
	case ResolverNetstat:
		out, err := exec.Command("netstat", "-tnp").Output()
		if err != nil {
			return nil, fmt.Errorf("netstat failed: %w", err)
		}
		return parseNetstatOutput(string(out), pid)
	case ResolverLsof:
		out, err := exec.Command("lsof", "-wnPi", "-p", strconv.Itoa(pid)).Output()
		if err != nil {
			return nil, fmt.Errorf("lsof failed: %w", err)
		}
		return parseLsofOutput(string(out))
	default:
		return nil, fmt.Errorf("unrecognized resolver: %v", resolver)
	}
}

// parseNetstatOutput extracts pid's established connections from netstat -tnp
// output, for example:
//
//	Proto Recv-Q Send-Q Local Address    Foreign Address  State       PID/Program name
//	tcp        0      0 127.0.0.1:9051   127.0.0.1:37277  ESTABLISHED 2001/relay
func parseNetstatOutput(out string, pid int) ([]Connection, error) {
	connections := []Connection{}
	pidPrefix := strconv.Itoa(pid) + "/"

	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 7 || !strings.HasPrefix(fields[0], "tcp") {
			continue
		}
		if fields[5] != "ESTABLISHED" || !strings.HasPrefix(fields[6], pidPrefix) {
			continue
		}

		localAddr, localPort, err := splitAddr(fields[3])
		if err != nil {
			return nil, fmt.Errorf("malformed netstat row %q: %w", line, err)
		}
		remoteAddr, remotePort, err := splitAddr(fields[4])
		if err != nil {
			return nil, fmt.Errorf("malformed netstat row %q: %w", line, err)
		}

		connections = append(connections, Connection{
			Protocol:      "tcp",
			LocalAddress:  localAddr,
			LocalPort:     localPort,
			RemoteAddress: remoteAddr,
			RemotePort:    remotePort,
		})
	}
	return connections, nil
}

// parseLsofOutput extracts established TCP connections from lsof -wnPi
// output, for example:
//
//	COMMAND  PID   USER   FD   TYPE DEVICE SIZE/OFF NODE NAME
//	relay   2001 atagar   14u  IPv4  14048      0t0  TCP 127.0.0.1:9051->127.0.0.1:37277 (ESTABLISHED)
func parseLsofOutput(out string) ([]Connection, error) {
	connections := []Connection{}
	lines := strings.Split(out, "\n")

	for i, line := range lines {
		if i == 0 || strings.TrimSpace(line) == "" {
			continue // header
		}
		// Non-TCP rows can be shorter (UDP sockets carry no state column),
		// so the protocol check comes before any length demand.
		fields := strings.Fields(line)
		if len(fields) < 8 || fields[7] != "TCP" {
			continue
		}
		if len(fields) < 10 {
			return nil, fmt.Errorf("short lsof row: %q", line)
		}
		if fields[9] != "(ESTABLISHED)" {
			continue
		}

		mapping := fields[8]
		parts := strings.Split(mapping, "->")
		if len(parts) != 2 {
			return nil, fmt.Errorf("unrecognized lsof mapping: %q", mapping)
		}

		localAddr, localPort, err := splitAddr(parts[0])
		if err != nil {
			return nil, fmt.Errorf("malformed lsof mapping %q: %w", mapping, err)
		}
		remoteAddr, remotePort, err := splitAddr(parts[1])
		if err != nil {
			return nil, fmt.Errorf("malformed lsof mapping %q: %w", mapping, err)
		}

		connections = append(connections, Connection{
			Protocol:      "tcp",
			LocalAddress:  localAddr,
			LocalPort:     localPort,
			RemoteAddress: remoteAddr,
			RemotePort:    remotePort,
		})
	}
	return connections, nil
}

// splitAddr splits "address:port" with the port as the final colon-separated
// component, covering bracketless IPv6 forms tools emit.
func splitAddr(s string) (string, uint16, error) {
	i := strings.LastIndex(s, ":")
	if i < 1 {
		return "", 0, fmt.Errorf("no address:port separator in %q", s)
	}
	port, err := strconv.ParseUint(s[i+1:], 10, 16)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port in %q", s)
	}
	return s[:i], uint16(port), nil
}
