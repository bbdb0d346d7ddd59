package strategies

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Axis is one swept parameter: Start to End inclusive in Step increments.
type Axis struct {
	Key   string
	Start float64
	End   float64
	Step  float64
}

// ParseAxis parses "key=start:end:step". A bare "key=value" is a single point.
func ParseAxis(s string) (Axis, error) {
	key, spec, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return Axis{}, fmt.Errorf("axis %q: expected key=start:end:step", s)
	}

	parts := strings.Split(spec, ":")
	vals := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Axis{}, fmt.Errorf("axis %q: %w", s, err)
		}
		vals[i] = v
	}

	a := Axis{Key: strings.TrimSpace(key)}
	switch len(vals) {
	case 1:
		a.Start, a.End, a.Step = vals[0], vals[0], 1
	case 3:
		a.Start, a.End, a.Step = vals[0], vals[1], vals[2]
	default:
		return Axis{}, fmt.Errorf("axis %q: expected key=start:end:step", s)
	}

	if a.Step <= 0 {
		return Axis{}, fmt.Errorf("axis %q: step must be positive", s)
	}
	if a.End < a.Start {
		return Axis{}, fmt.Errorf("axis %q: end before start", s)
	}
	return a, nil
}

// Values expands the axis. Points are computed as Start+i*Step so that
// fractional steps do not accumulate rounding error.
func (a Axis) Values() []float64 {
	n := int(math.Floor((a.End-a.Start)/a.Step+1e-9)) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = a.Start + float64(i)*a.Step
	}
	return out
}

// Grid returns the cartesian product of axes applied on top of base. The
// first axis varies slowest.
func Grid(base Params, axes []Axis) ([]Params, error) {
	grid := []Params{base}
	for _, a := range axes {
		next := make([]Params, 0, len(grid)*len(a.Values()))
		for _, p := range grid {
			for _, v := range a.Values() {
				q := p
				if err := q.Set(a.Key, v); err != nil {
					return nil, err
				}
				next = append(next, q)
			}
		}
		grid = next
	}
	return grid, nil
}
