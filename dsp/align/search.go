package align

import (
	"sync"

	"gonum.org/v1/gonum/mat"
)

// SearchSpace is the normalised (a, b) grid of the grid search, tiled once
// per iteration. Row k holds the k-th grid point; columns 2i and 2i+1 hold
// the a and b offsets of the i-th tile. It is immutable once built and
// independent of peaks and signals.
type SearchSpace struct {
	steps      int
	iterations int
	grid       *mat.Dense
}

// NewSearchSpace builds the grid for the given granularity and iteration count.
// Each axis takes steps values i/(steps-1) in [0, 1]; a single step sits at 0.5.
// Points are ordered with b varying fastest: a[k] = v[k/steps], b[k] = v[k%steps].
func NewSearchSpace(steps, iterations int) *SearchSpace {
	v := make([]float64, steps)
	for i := range v {
		if steps == 1 {
			v[i] = 0.5
			continue
		}
		v[i] = float64(i) / float64(steps-1)
	}

	n := steps * steps
	grid := mat.NewDense(n, 2*iterations, nil)
	for k := 0; k < n; k++ {
		a, b := v[k/steps], v[k%steps]
		for it := 0; it < iterations; it++ {
			grid.Set(k, 2*it, a)
			grid.Set(k, 2*it+1, b)
		}
	}

	return &SearchSpace{steps: steps, iterations: iterations, grid: grid}
}

type spaceKey struct{ steps, iterations int }

var spaceCache sync.Map

// SharedSearchSpace returns a cached grid for (steps, iterations), building
// it on first use. The returned value must not be modified.
func SharedSearchSpace(steps, iterations int) *SearchSpace {
	key := spaceKey{steps, iterations}
	if s, ok := spaceCache.Load(key); ok {
		return s.(*SearchSpace)
	}
	s, _ := spaceCache.LoadOrStore(key, NewSearchSpace(steps, iterations))
	return s.(*SearchSpace)
}

// Points returns the number of grid points, steps².
func (s *SearchSpace) Points() int { return s.steps * s.steps }

// Steps returns the per-axis granularity.
func (s *SearchSpace) Steps() int { return s.steps }

// Iterations returns the number of tiles.
func (s *SearchSpace) Iterations() int { return s.iterations }

// Column returns a copy of column c. Negative c counts from the end.
func (s *SearchSpace) Column(c int) []float64 {
	_, cols := s.grid.Dims()
	if c < 0 {
		c += cols
	}
	return mat.Col(nil, c, s.grid)
}

// scaleColumn and shiftColumn keep the historical column pattern: tile
// column 2n-2 (wrapping to the last tile at n = 0) drives the scale, column
// 2n+1 drives the shift.
func (s *SearchSpace) scaleColumn(n int) []float64 { return s.Column(2*n - 2) }

func (s *SearchSpace) shiftColumn(n int) []float64 { return s.Column(2*n + 1) }
