package hostinfo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockTicks(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		t.Setenv("CLK_TCK", "")
		assert.Equal(t, 100, ClockTicks())
	})

	t.Run("env override", func(t *testing.T) {
		t.Setenv("CLK_TCK", "250")
		assert.Equal(t, 250, ClockTicks())
	})

	t.Run("garbage ignored", func(t *testing.T) {
		t.Setenv("CLK_TCK", "lots")
		assert.Equal(t, 100, ClockTicks())
	})
}

func TestNumCPU(t *testing.T) {
	assert.GreaterOrEqual(t, NumCPU(), 1)
}

func TestParseMemTotal(t *testing.T) {
	meminfo := `MemTotal:        4712000 kB
MemFree:          123456 kB
Buffers:           78901 kB
`
	total, err := parseMemTotal(strings.NewReader(meminfo))
	require.NoError(t, err)
	assert.Equal(t, uint64(4712000*1024), total)
}

func TestParseMemTotalErrors(t *testing.T) {
	t.Run("missing row", func(t *testing.T) {
		_, err := parseMemTotal(strings.NewReader("MemFree: 1 kB\n"))
		assert.Error(t, err)
	})

	t.Run("malformed value", func(t *testing.T) {
		_, err := parseMemTotal(strings.NewReader("MemTotal: lots kB\n"))
		assert.Error(t, err)
	})
}

func TestParseUptime(t *testing.T) {
	uptime, err := parseUptime("1000.50 3992.12\n")
	require.NoError(t, err)
	assert.InDelta(t, 1000.50, uptime, 0.001)

	_, err = parseUptime("")
	assert.Error(t, err)

	_, err = parseUptime("soon\n")
	assert.Error(t, err)
}
