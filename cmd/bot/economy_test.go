package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{name: "hours minutes seconds", d: 23*time.Hour + 12*time.Minute + 5*time.Second, want: "23h 12m 5s"},
		{name: "hours with zero minutes", d: 2*time.Hour + 30*time.Second, want: "2h 0m 30s"},
		{name: "minutes seconds", d: 9*time.Minute + 59*time.Second, want: "9m 59s"},
		{name: "seconds only", d: 42 * time.Second, want: "42s"},
		{name: "sub second rounds up", d: 300 * time.Millisecond, want: "1s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, formatRemaining(tt.d))
		})
	}
}
