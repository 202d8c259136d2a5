// Package metrics summarizes a step response while it is being sampled.
package metrics

import "math"

// Metric observes (t, y) samples in time order. Non-finite samples are
// ignored by every metric in this package.
type Metric interface {
	Name() string
	Observe(t, y float64)
	Value() float64
	Reset()
}

// Default returns a fresh set of the step-response metrics.
func Default() []Metric {
	return []Metric{
		NewFinalValue(),
		NewPeak(),
		NewOvershoot(),
		NewRiseTime(0.1, 0.9),
		NewSettlingTime(0.02),
	}
}

// Collect returns name → value for ms.
func Collect(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

type FinalValue struct {
	last float64
}

func NewFinalValue() *FinalValue { return &FinalValue{} }

func (f *FinalValue) Name() string { return "final_value" }

func (f *FinalValue) Observe(t, y float64) {
	if finite(y) {
		f.last = y
	}
}

func (f *FinalValue) Value() float64 { return f.last }
func (f *FinalValue) Reset()         { f.last = 0 }

type Peak struct {
	max     float64
	samples int
}

func NewPeak() *Peak { return &Peak{} }

func (p *Peak) Name() string { return "peak" }

func (p *Peak) Observe(t, y float64) {
	if !finite(y) {
		return
	}
	if p.samples == 0 || y > p.max {
		p.max = y
	}
	p.samples++
}

func (p *Peak) Value() float64 { return p.max }

func (p *Peak) Reset() {
	p.max = 0
	p.samples = 0
}

// Overshoot is the peak excursion above the final value, in percent of the
// final value. It is zero when the final value is not positive.
type Overshoot struct {
	peak  Peak
	final FinalValue
}

func NewOvershoot() *Overshoot { return &Overshoot{} }

func (o *Overshoot) Name() string { return "overshoot" }

func (o *Overshoot) Observe(t, y float64) {
	o.peak.Observe(t, y)
	o.final.Observe(t, y)
}

func (o *Overshoot) Value() float64 {
	final := o.final.Value()
	if final <= 0 {
		return 0
	}
	return math.Max(0, (o.peak.Value()-final)/final*100)
}

func (o *Overshoot) Reset() {
	o.peak.Reset()
	o.final.Reset()
}
