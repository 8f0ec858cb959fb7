package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{name: "default", config: Config{}, want: "info"},
		{name: "verbose", config: Config{Verbose: true}, want: "debug"},
		{name: "quiet", config: Config{Quiet: true}, want: "warn"},
		{name: "both flags prefer quiet", config: Config{Verbose: true, Quiet: true}, want: "warn"},
		{name: "explicit level wins", config: Config{LogLevel: "trace", Quiet: true}, want: "trace"},
		{name: "invalid level falls back", config: Config{LogLevel: "loud"}, want: "info"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, determineLogLevel(&tt.config))
		})
	}
}

func TestValidateLogLevel(t *testing.T) {
	assert.Equal(t, "debug", validateLogLevel("debug"))
	assert.Equal(t, "info", validateLogLevel("shouting"))
}
