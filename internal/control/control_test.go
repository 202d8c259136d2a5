package control

import (
	"testing"

	"github.com/san-kum/zntune/internal/dynamo"
)

func TestStep(t *testing.T) {
	tests := []struct {
		name string
		step *Step
		t    float64
		want float64
	}{
		{"unit at zero", NewStep(1), 0, 1},
		{"unit later", NewStep(1), 10, 1},
		{"scaled", NewStep(2.5), 1, 2.5},
		{"before delay", &Step{Amplitude: 1, Delay: 1}, 0.5, 0},
		{"at delay", &Step{Amplitude: 1, Delay: 1}, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := tt.step.Compute(dynamo.State{}, tt.t)
			if len(u) != 1 || u[0] != tt.want {
				t.Errorf("Compute(t=%v) = %v, want [%v]", tt.t, u, tt.want)
			}
		})
	}
}
