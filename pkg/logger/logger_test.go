package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    zapcore.Level
		wantErr bool
	}{
		{"default", Config{}, zapcore.InfoLevel, false},
		{"debug", Config{Level: "debug"}, zapcore.DebugLevel, false},
		{"upper case", Config{Level: "WARN"}, zapcore.WarnLevel, false},
		{"development", Config{Level: "error", Development: true}, zapcore.ErrorLevel, false},
		{"bad level", Config{Level: "loud"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, l.Core().Enabled(tt.want-1))
			}
		})
	}
}

func TestMustPanics(t *testing.T) {
	assert.Panics(t, func() { Must(Config{Level: "loud"}) })
	assert.NotPanics(t, func() { Must(Config{}) })
}
