package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsSet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key     string
		value   float64
		check   func(Params) bool
		wantErr bool
	}{
		{"ma_fast", 5, func(p Params) bool { return p.MAFast == 5 }, false},
		{"macd-signal", 4, func(p Params) bool { return p.MACDSignal == 4 }, false},
		{"BB_STD_DEV", 2.5, func(p Params) bool { return p.BBStdDev == 2.5 }, false},
		{"momentum_threshold", 0.5, func(p Params) bool { return p.MomentumThreshold == 0.5 }, false},
		{"rsi_period", 7.5, nil, true},
		{"nope", 1, nil, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()
			p := DefaultParams()
			err := p.Set(tt.key, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, DefaultParams(), p)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.check(p))
		})
	}
}

func TestParamsSetString(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	require.NoError(t, p.SetString("rsi_oversold=25"))
	assert.Equal(t, 25.0, p.RSIOversold)

	assert.Error(t, p.SetString("rsi_oversold"))
	assert.Error(t, p.SetString("rsi_oversold=low"))
}

func TestParamsJSON(t *testing.T) {
	t.Parallel()

	b, err := DefaultParams().JSON()
	require.NoError(t, err)
	for _, k := range Keys() {
		assert.Contains(t, string(b), `"`+k+`"`)
	}
}
