package metrics

import "math"

type sample struct {
	t, y float64
}

// buffer keeps the finite samples; timing metrics need the final value
// before they can be evaluated.
type buffer struct {
	samples []sample
}

func (b *buffer) observe(t, y float64) {
	if finite(y) {
		b.samples = append(b.samples, sample{t, y})
	}
}

func (b *buffer) final() (float64, bool) {
	if len(b.samples) == 0 {
		return 0, false
	}
	return b.samples[len(b.samples)-1].y, true
}

func (b *buffer) firstCrossing(level float64) (float64, bool) {
	for _, s := range b.samples {
		if s.y >= level {
			return s.t, true
		}
	}
	return 0, false
}

// RiseTime is the time to go from lo to hi fractions of the final value.
type RiseTime struct {
	lo, hi float64
	buffer
}

func NewRiseTime(lo, hi float64) *RiseTime {
	return &RiseTime{lo: lo, hi: hi}
}

func (r *RiseTime) Name() string { return "rise_time" }

func (r *RiseTime) Observe(t, y float64) { r.observe(t, y) }

func (r *RiseTime) Value() float64 {
	final, ok := r.final()
	if !ok || final <= 0 {
		return 0
	}
	t1, ok1 := r.firstCrossing(r.lo * final)
	t2, ok2 := r.firstCrossing(r.hi * final)
	if !ok1 || !ok2 {
		return 0
	}
	return t2 - t1
}

func (r *RiseTime) Reset() { r.samples = r.samples[:0] }

// SettlingTime is the earliest time after which the response stays within
// band·|final| of the final value.
type SettlingTime struct {
	band float64
	buffer
}

func NewSettlingTime(band float64) *SettlingTime {
	return &SettlingTime{band: band}
}

func (s *SettlingTime) Name() string { return "settling_time" }

func (s *SettlingTime) Observe(t, y float64) { s.observe(t, y) }

func (s *SettlingTime) Value() float64 {
	final, ok := s.final()
	if !ok || final == 0 {
		return 0
	}
	tol := s.band * math.Abs(final)
	settled := s.samples[0].t
	for i := len(s.samples) - 1; i >= 0; i-- {
		if math.Abs(s.samples[i].y-final) > tol {
			if i+1 < len(s.samples) {
				settled = s.samples[i+1].t
			}
			break
		}
	}
	return settled
}

func (s *SettlingTime) Reset() { s.samples = s.samples[:0] }
