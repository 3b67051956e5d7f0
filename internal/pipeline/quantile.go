package pipeline

import (
	"math"
	"sort"
)

// QuantileSketch is a Greenwald-Khanna summary: it answers quantile queries
// over a stream of observations to within epsilon*n rank positions while
// holding O(1/epsilon * log(epsilon*n)) tuples instead of the full stream.
type QuantileSketch struct {
	epsilon float64
	n       int
	tuples  []gkTuple
}

// gkTuple covers a band of ranks around v: g is the rank gap to the previous
// tuple's minimum rank, delta the spread between v's minimum and maximum
// possible rank.
type gkTuple struct {
	v     float64
	g     int
	delta int
}

// NewQuantileSketch returns a sketch with the given relative rank error
// bound, which must lie in (0,1).
func NewQuantileSketch(epsilon float64) *QuantileSketch {
	if epsilon <= 0 || epsilon >= 1 {
		epsilon = 0.05
	}
	return &QuantileSketch{epsilon: epsilon}
}

// Add inserts one observation.
func (s *QuantileSketch) Add(v float64) {
	pos := sort.Search(len(s.tuples), func(i int) bool { return s.tuples[i].v >= v })

	// Interior inserts carry the widest rank band the invariant
	// g+delta <= 2*epsilon*n still allows.
	delta := 0
	if pos > 0 && pos < len(s.tuples) {
		delta = int(math.Floor(2*s.epsilon*float64(s.n))) - 1
		if delta < 0 {
			delta = 0
		}
	}

	s.tuples = append(s.tuples, gkTuple{})
	copy(s.tuples[pos+1:], s.tuples[pos:])
	s.tuples[pos] = gkTuple{v: v, g: 1, delta: delta}
	s.n++

	period := int(math.Ceil(1.0 / (2.0 * s.epsilon)))
	if period > 0 && s.n%period == 0 {
		s.compress()
	}
}

// compress merges adjacent tuples whose combined rank band still fits the
// error budget. The first and last tuples are kept so min and max stay exact.
func (s *QuantileSketch) compress() {
	budget := int(math.Floor(2 * s.epsilon * float64(s.n)))
	for i := len(s.tuples) - 2; i >= 1; i-- {
		if s.tuples[i].g+s.tuples[i+1].g+s.tuples[i+1].delta <= budget {
			s.tuples[i+1].g += s.tuples[i].g
			s.tuples = append(s.tuples[:i], s.tuples[i+1:]...)
		}
	}
}

// Count returns the number of observations added.
func (s *QuantileSketch) Count() int { return s.n }

// Query returns a value whose rank is within epsilon*n positions of
// ceil(q*n). It fails with *EmptyInputError when nothing was added.
func (s *QuantileSketch) Query(q float64) (float64, error) {
	if s.n == 0 {
		return 0, &EmptyInputError{Op: "quantile"}
	}
	if q < 0 {
		q = 0
	} else if q > 1 {
		q = 1
	}

	rank := math.Ceil(q * float64(s.n))
	if rank < 1 {
		rank = 1
	}
	margin := s.epsilon * float64(s.n)

	rmin := 0
	for _, t := range s.tuples {
		rmin += t.g
		rmax := rmin + t.delta
		if rank-float64(rmin) <= margin && float64(rmax)-rank <= margin {
			return t.v, nil
		}
	}
	return s.tuples[len(s.tuples)-1].v, nil
}
