package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLimit(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"", defaultLimit},
		{"not-a-number", defaultLimit},
		{"0", raisedLimit},
		{"-5", raisedLimit},
		{"50", 50},
		{"1000", maxLimit},
		{"100", maxLimit},
		{"1", 1},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, parseLimit(c.raw), "raw=%q", c.raw)
	}
}

func TestParseClampedInt(t *testing.T) {
	cases := []struct {
		raw      string
		fallback int
		min, max int
		want     int
	}{
		{"", 1, 1, 100, 1},
		{"abc", 1, 1, 100, 1},
		{"0", 1, 1, 100, 1},
		{"-3", 1, 1, 100, 1},
		{"5", 1, 1, 100, 5},
		{"999", 1, 1, 100, 100},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, parseClampedInt(c.raw, c.fallback, c.min, c.max), "raw=%q", c.raw)
	}
}
