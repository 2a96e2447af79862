package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		duration time.Duration
		want     string
	}{
		{45 * time.Second, "45s"},
		{5*time.Minute + 3*time.Second, "5m 3s"},
		{2*time.Hour + 12*time.Minute, "2h 12m"},
		{76*time.Hour + 30*time.Minute, "3d 4h"},
		{0, "0s"},
		{-time.Minute, "0s"},
	}

	for _, c := range cases {
		t.Run(c.want, func(t *testing.T) {
			assert.Equal(t, c.want, formatDuration(c.duration))
		})
	}
}
