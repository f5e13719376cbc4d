// Package sweep runs independent eyespot solves over a grid of parameter
// values in parallel and ranks them by a metric.
package sweep

import (
	"context"
	"math"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/eyespot/internal/config"
	"github.com/san-kum/eyespot/internal/dynamo"
	"github.com/san-kum/eyespot/internal/eyespot"
	"github.com/san-kum/eyespot/internal/metrics"
)

// Axis is one swept parameter and the values it takes.
type Axis struct {
	Name   string
	Values []float64
}

// ParseAxis reads "name=v1,v2,..." or "name=start:stop:step" (inclusive).
func ParseAxis(s string) (Axis, error) {
	name, values, ok := strings.Cut(s, "=")
	if !ok || name == "" || values == "" {
		return Axis{}, dynamo.Configf("axis %q: want name=v1,v2 or name=start:stop:step", s)
	}
	axis := Axis{Name: name}

	if parts := strings.Split(values, ":"); len(parts) == 3 {
		var bounds [3]float64
		for i, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return Axis{}, dynamo.Configf("axis %q: %v", s, err)
			}
			bounds[i] = v
		}
		start, stop, step := bounds[0], bounds[1], bounds[2]
		if !(step > 0) || stop < start {
			return Axis{}, dynamo.Configf("axis %q: need start <= stop and step > 0", s)
		}
		n := int(math.Floor((stop-start)/step + 1e-9))
		for i := 0; i <= n; i++ {
			axis.Values = append(axis.Values, start+float64(i)*step)
		}
		return axis, nil
	}

	for _, p := range strings.Split(values, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Axis{}, dynamo.Configf("axis %q: %v", s, err)
		}
		axis.Values = append(axis.Values, v)
	}
	return axis, nil
}

// Point is the outcome of one combination. A solve that fails keeps its
// error here instead of aborting the sweep.
type Point struct {
	Params  map[string]float64
	Metrics map[string]float64
	Err     error
}

type Sweep struct {
	base  *config.Config
	axes  []Axis
	limit int
	log   logr.Logger
}

func New(base *config.Config, axes ...Axis) *Sweep {
	return &Sweep{
		base:  base.Clone(),
		axes:  axes,
		limit: runtime.GOMAXPROCS(0),
		log:   logr.Discard(),
	}
}

// WithLimit caps the number of concurrent solves.
func (s *Sweep) WithLimit(n int) *Sweep {
	if n > 0 {
		s.limit = n
	}
	return s
}

func (s *Sweep) WithLogger(log logr.Logger) *Sweep {
	s.log = log
	return s
}

// Combinations enumerates the cartesian product of the axes, the last axis
// varying fastest.
func (s *Sweep) Combinations() []map[string]float64 {
	combos := []map[string]float64{{}}
	for _, axis := range s.axes {
		next := make([]map[string]float64, 0, len(combos)*len(axis.Values))
		for _, c := range combos {
			for _, v := range axis.Values {
				p := make(map[string]float64, len(c)+1)
				for k, val := range c {
					p[k] = val
				}
				p[axis.Name] = v
				next = append(next, p)
			}
		}
		combos = next
	}
	return combos
}

// Run solves every combination. Unknown parameter names fail before any
// solve starts; per-point failures are reported in the returned points.
func (s *Sweep) Run(ctx context.Context) ([]Point, error) {
	for _, axis := range s.axes {
		if _, err := s.base.Param(axis.Name); err != nil {
			return nil, err
		}
		if len(axis.Values) == 0 {
			return nil, dynamo.Configf("axis %s has no values", axis.Name)
		}
	}

	combos := s.Combinations()
	points := make([]Point, len(combos))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)
	for i, params := range combos {
		g.Go(func() error {
			points[i] = s.runOne(ctx, params)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.log.V(1).Info("sweep finished", "points", len(points))
	return points, nil
}

func (s *Sweep) runOne(ctx context.Context, params map[string]float64) Point {
	pt := Point{Params: params}

	cfg := s.base.Clone()
	for k, v := range params {
		if err := cfg.SetParam(k, v); err != nil {
			pt.Err = err
			return pt
		}
	}
	if err := cfg.Validate(); err != nil {
		pt.Err = err
		return pt
	}

	m, err := cfg.NewModel()
	if err != nil {
		pt.Err = err
		return pt
	}
	times, err := cfg.EvalTimes()
	if err != nil {
		pt.Err = err
		return pt
	}

	sol, err := m.Solve(ctx, cfg.Span(), times, eyespot.RunOptions{
		Method:  cfg.Method,
		Solver:  cfg.SolverOptions(),
		Metrics: metrics.Standard(m.Codec()),
	})
	if err != nil {
		s.log.V(1).Info("sweep point failed", "params", params, "error", err.Error())
		pt.Err = err
		return pt
	}
	pt.Metrics = sol.Metrics
	return pt
}

// Rank orders successful points by metric, ascending or descending, and
// drops failed ones.
func Rank(points []Point, metric string, descending bool) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if p.Err == nil {
			if _, ok := p.Metrics[metric]; ok {
				out = append(out, p)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return out[i].Metrics[metric] > out[j].Metrics[metric]
		}
		return out[i].Metrics[metric] < out[j].Metrics[metric]
	})
	return out
}
