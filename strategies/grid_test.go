package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAxis(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    []float64
		wantErr bool
	}{
		{"ma_fast=3:9:3", []float64{3, 6, 9}, false},
		{"bb_std_dev=1.5:2.5:0.5", []float64{1.5, 2, 2.5}, false},
		{"momentum_threshold=0.1:0.3:0.1", []float64{0.1, 0.2, 0.30000000000000004}, false},
		{"rsi_period=7", []float64{7}, false},
		{"ma_fast=3:9", nil, true},
		{"ma_fast=3:9:0", nil, true},
		{"ma_fast=9:3:1", nil, true},
		{"=1:2:1", nil, true},
		{"ma_fast", nil, true},
		{"ma_fast=a:b:c", nil, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			a, err := ParseAxis(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.Values())
		})
	}
}

func TestGrid(t *testing.T) {
	t.Parallel()

	grid, err := Grid(DefaultParams(), []Axis{
		{Key: "ma_fast", Start: 5, End: 10, Step: 5},
		{Key: "ma_slow", Start: 20, End: 40, Step: 10},
	})
	require.NoError(t, err)
	require.Len(t, grid, 6)

	assert.Equal(t, 5, grid[0].MAFast)
	assert.Equal(t, 20, grid[0].MASlow)
	assert.Equal(t, 5, grid[2].MAFast)
	assert.Equal(t, 40, grid[2].MASlow)
	assert.Equal(t, 10, grid[3].MAFast)
	assert.Equal(t, 14, grid[5].RSIPeriod, "unswept fields keep the base value")

	base, err := Grid(DefaultParams(), nil)
	require.NoError(t, err)
	assert.Equal(t, []Params{DefaultParams()}, base)

	_, err = Grid(DefaultParams(), []Axis{{Key: "bogus", Start: 1, End: 1, Step: 1}})
	assert.Error(t, err)
}
