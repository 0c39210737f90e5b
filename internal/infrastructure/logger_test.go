package infrastructure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"yieldpca/internal/config"
)

func TestNewLogger(t *testing.T) {
	logger := NewLogger(config.LoggingConfig{Level: "debug", Format: "text"})
	assert.NotNil(t, logger)
	assert.True(t, logger.Enabled(context.Background(), -4))
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"warn", "WARN"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"nonsense", "INFO"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.input).String(), tt.input)
	}
}

func TestTraceIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	ctx = WithTraceID(ctx, "abc-123")
	assert.Equal(t, "abc-123", GetTraceID(ctx))
}
