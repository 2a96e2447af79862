// Package control implements the client side of the relay daemon's control
// port: a line-oriented request/response protocol over TCP. The rest of the
// monitor treats it as an opaque query interface; only the few queries the
// panels and trackers need are exposed.
package control

import (
	"fmt"
	"net"
	"net/textproto"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/relaymon/relaymon/internal/pkg/logger"
)

const dialTimeout = 10 * time.Second

// Client is a connection to the relay's control port. Methods are safe for
// concurrent use; requests are serialized on the single connection.
type Client struct {
	addr string

	mu     sync.Mutex
	conn   net.Conn
	text   *textproto.Conn
	closed bool
}

// Dial connects to the control port at addr (host:port).
func Dial(addr string) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("connecting to control port %s: %w", addr, err)
	}
	return &Client{
		addr: addr,
		conn: conn,
		text: textproto.NewConn(conn),
	}, nil
}

// Address returns the control port address this client dialed.
func (c *Client) Address() string {
	return c.addr
}

// Close shuts the connection down, politely when possible. Safe to call
// multiple times.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	// Best effort; the daemon closes the connection on QUIT anyway.
	_ = c.text.PrintfLine("QUIT")
	return c.conn.Close()
}

// Authenticate presents the control password. An empty password is valid
// when the daemon does not require one.
func (c *Client) Authenticate(password string) error {
	_, err := c.request(fmt.Sprintf("AUTHENTICATE %q", password))
	if err != nil {
		return fmt.Errorf("authentication rejected: %w", err)
	}
	return nil
}

// GetInfo queries a single daemon-reported key and returns its value.
func (c *Client) GetInfo(key string) (string, error) {
	lines, err := c.request("GETINFO " + key)
	if err != nil {
		return "", err
	}
	return valueFor(lines, key)
}

// GetConf queries a single configuration option's value.
func (c *Client) GetConf(key string) (string, error) {
	lines, err := c.request("GETCONF " + key)
	if err != nil {
		return "", err
	}
	return valueFor(lines, key)
}

// Signal delivers a control signal (for instance RELOAD) to the daemon.
func (c *Client) Signal(name string) error {
	_, err := c.request("SIGNAL " + name)
	return err
}

// Version returns the daemon's self-reported version.
func (c *Client) Version() (string, error) {
	return c.GetInfo("version")
}

// Uptime returns how long the daemon has been running.
func (c *Client) Uptime() (time.Duration, error) {
	value, err := c.GetInfo("uptime")
	if err != nil {
		return 0, err
	}
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed uptime value %q", value)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

// PID returns the daemon's process ID. It queries the daemon on every call
// so callers always track the live process across restarts; ok is false when
// the query fails or the daemon does not know its own PID.
func (c *Client) PID() (int, bool) {
	value, err := c.GetInfo("process/pid")
	if err != nil {
		logger.Debug("Control port has no PID for us", "error", err)
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || pid <= 0 {
		logger.Debug("Control port reported a malformed PID", "value", value)
		return 0, false
	}
	return pid, true
}

// request sends one command and collects the reply lines. Replies are
// "250-..." continuation lines terminated by a "250 ..." line; any other
// status code is an error carrying the daemon's message, and "250+" data
// replies are rejected.
func (c *Client) request(command string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, fmt.Errorf("control connection is closed")
	}

	if err := c.text.PrintfLine("%s", command); err != nil {
		return nil, fmt.Errorf("sending %q: %w", command, err)
	}

	var lines []string
	for {
		line, err := c.text.ReadLine()
		if err != nil {
			return nil, fmt.Errorf("reading reply to %q: %w", command, err)
		}
		if len(line) < 4 {
			return nil, fmt.Errorf("malformed reply line %q", line)
		}

		status, sep, payload := line[:3], line[3], line[4:]
		if status != "250" {
			return nil, fmt.Errorf("daemon replied %s: %s", status, payload)
		}
		// A '+' separator opens a multi-line data reply whose raw lines carry
		// no status prefix. No key this client queries produces one.
		if sep == '+' {
			return nil, fmt.Errorf("unsupported data reply to %q", command)
		}

		if payload != "OK" {
			lines = append(lines, payload)
		}
		if sep == ' ' {
			return lines, nil
		}
	}
}

// valueFor extracts the value of a "key=value" reply line.
func valueFor(lines []string, key string) (string, error) {
	prefix := key + "="
	for _, line := range lines {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimPrefix(line, prefix), nil
		}
	}
	return "", fmt.Errorf("reply is missing %q", key)
}
