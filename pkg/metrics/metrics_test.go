package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRun(t *testing.T) {
	m := New()

	m.ObserveRun("rsi", "BTCUSDT", 3, 4.5, 1.2, 20*time.Millisecond)
	m.ObserveRun("rsi", "BTCUSDT", 2, -1, 0.3, 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Runs.WithLabelValues("rsi")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.Trades.WithLabelValues("rsi")))
	assert.Equal(t, -1.0, testutil.ToFloat64(m.ReturnPct.WithLabelValues("rsi", "BTCUSDT")))
	assert.Equal(t, 0.3, testutil.ToFloat64(m.Sharpe.WithLabelValues("rsi", "BTCUSDT")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RunDuration))
}

func TestObserveSweep(t *testing.T) {
	m := New()

	m.ObserveSweep("macd", 12, 2.5, time.Second)

	assert.Equal(t, 12.0, testutil.ToFloat64(m.SweepPoints))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.Runs.WithLabelValues("macd")))
	assert.Equal(t, 2.5, testutil.ToFloat64(m.SweepBest.WithLabelValues("macd")))
}

func TestWriteFile(t *testing.T) {
	m := New()
	m.ObserveRun("momentum", "ETHUSDT", 1, 2, 3, time.Millisecond)

	path := filepath.Join(t.TempDir(), "backtester.prom")
	require.NoError(t, m.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `backtester_runs_total{strategy="momentum"} 1`)
	assert.Contains(t, string(data), "# TYPE backtester_run_duration_seconds histogram")
}
