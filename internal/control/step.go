package control

import "github.com/san-kum/zntune/internal/dynamo"

// Step applies Amplitude for t >= Delay and zero before.
type Step struct {
	Amplitude float64
	Delay     float64
}

func NewStep(amplitude float64) *Step {
	return &Step{Amplitude: amplitude}
}

func (s *Step) Compute(x dynamo.State, t float64) dynamo.Control {
	if t < s.Delay {
		return dynamo.Control{0}
	}
	return dynamo.Control{s.Amplitude}
}
