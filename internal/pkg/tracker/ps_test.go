package tracker

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const psOutput = `    TIME     ELAPSED   RSS %MEM
00:00:02       00:18 18848  0.4
`

func TestParsePSOutput(t *testing.T) {
	reading, err := parsePSOutput(psOutput)
	require.NoError(t, err)

	assert.Equal(t, 2.0, reading.CPUTotal)
	assert.Equal(t, 18.0, reading.Uptime)
	assert.Equal(t, uint64(19300352), reading.MemoryBytes)
	assert.InDelta(t, 0.004, reading.MemoryPercent, 1e-9)
}

func TestParsePSOutputErrors(t *testing.T) {
	cases := map[string]string{
		"empty":           "",
		"header only":     "    TIME     ELAPSED   RSS %MEM\n",
		"short row":       "    TIME     ELAPSED   RSS %MEM\n00:00:02 00:18 18848\n",
		"bad cputime":     "    TIME     ELAPSED   RSS %MEM\nxx:yy:zz 00:18 18848 0.4\n",
		"bad etime":       "    TIME     ELAPSED   RSS %MEM\n00:00:02 nope 18848 0.4\n",
		"bad rss":         "    TIME     ELAPSED   RSS %MEM\n00:00:02 00:18 18z48 0.4\n",
		"bad mem percent": "    TIME     ELAPSED   RSS %MEM\n00:00:02 00:18 18848 lots\n",
	}

	for name, out := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parsePSOutput(out)
			assert.Error(t, err)
		})
	}
}

func TestParseClockDuration(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"00:18", 18},
		{"02:30", 150},
		{"00:00:02", 2},
		{"02:15:30", 8130},
		{"1-02:15:30", 86400 + 8130},
		{"10-00:00:01", 864001},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseClockDuration(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	for _, in := range []string{"18", "a:b", "1:2:3:4", "x-00:18", ""} {
		t.Run("invalid "+in, func(t *testing.T) {
			_, err := parseClockDuration(in)
			assert.Error(t, err)
		})
	}
}

func TestPSSourceMeasure(t *testing.T) {
	t.Run("parses command output", func(t *testing.T) {
		src := &psSource{run: func(pid int) (string, error) {
			assert.Equal(t, 12345, pid)
			return psOutput, nil
		}}

		reading, err := src.Measure(12345)
		require.NoError(t, err)
		assert.Equal(t, 2.0, reading.CPUTotal)
	})

	t.Run("propagates command failure", func(t *testing.T) {
		src := &psSource{run: func(pid int) (string, error) {
			return "", errors.New("no such process")
		}}

		_, err := src.Measure(12345)
		assert.Error(t, err)
	})
}
