package backtest

import (
	"context"
	"runtime"
	"sort"

	"github.com/candlelab/backtester/market"
	"github.com/candlelab/backtester/strategies"
	"golang.org/x/sync/errgroup"
)

// SweepResult is the outcome of one grid point.
type SweepResult struct {
	Index   int
	Params  strategies.Params
	Metrics Metrics
}

// Sweep backtests every params set in grid concurrently, at most limit at a
// time (limit <= 0 uses GOMAXPROCS). Results keep grid order. Runs that have
// not started when ctx is cancelled are skipped and ctx's error is returned.
func Sweep(ctx context.Context, candles []market.Candle, kind strategies.Kind, grid []strategies.Params, opts Options, limit int) ([]SweepResult, error) {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	out := make([]SweepResult, len(grid))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, p := range grid {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := Run(candles, kind, p, opts)
			if err != nil {
				return err
			}
			out[i] = SweepResult{Index: i, Params: p, Metrics: res.Metrics}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Rank orders sweep results best first: by Sharpe, then total return, then
// grid position.
func Rank(results []SweepResult) []SweepResult {
	out := make([]SweepResult, len(results))
	copy(out, results)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Metrics, out[j].Metrics
		if a.Sharpe != b.Sharpe {
			return a.Sharpe > b.Sharpe
		}
		if a.TotalReturnPct != b.TotalReturnPct {
			return a.TotalReturnPct > b.TotalReturnPct
		}
		return out[i].Index < out[j].Index
	})
	return out
}
