package reaction

import (
	"math"
	"testing"

	"github.com/san-kum/zntune/internal/response"
)

func TestIdentify(t *testing.T) {
	tests := []struct {
		name  string
		curve *response.Curve
		want  FOPDT
	}{
		{
			name: "two point crossing",
			curve: &response.Curve{
				Times:  []float64{0, 0.5, 1.0, 2.0, 3.0, 4.0, 5.0},
				Values: []float64{0, 1, 2.83, 5, 6.32, 9, 10},
			},
			want: FOPDT{L: 1.0, T: 2.0 / 0.632},
		},
		{
			name:  "empty",
			curve: &response.Curve{},
			want:  FOPDT{},
		},
		{
			name:  "nil",
			curve: nil,
			want:  FOPDT{},
		},
		{
			name: "flat zero",
			curve: &response.Curve{
				Times:  []float64{0, 1, 2},
				Values: []float64{0, 0, 0},
			},
			want: FOPDT{},
		},
		{
			name: "negative final",
			curve: &response.Curve{
				Times:  []float64{0, 1, 2},
				Values: []float64{0, -1, -2},
			},
			want: FOPDT{},
		},
		{
			name: "non-finite final",
			curve: &response.Curve{
				Times:  []float64{0, 1, 2},
				Values: []float64{0, 1e300, math.Inf(1)},
			},
			want: FOPDT{},
		},
		{
			name: "nan final",
			curve: &response.Curve{
				Times:  []float64{0, 1, 2},
				Values: []float64{0, 1, math.NaN()},
			},
			want: FOPDT{},
		},
		{
			name: "nan samples never cross",
			curve: &response.Curve{
				Times:  []float64{0, 1, 2},
				Values: []float64{math.NaN(), math.NaN(), 1},
			},
			want: FOPDT{L: 2, T: 0},
		},
		{
			name: "threshold never reached",
			curve: &response.Curve{
				Times:  []float64{0, 1, 2},
				Values: []float64{-5, -3, -1},
			},
			want: FOPDT{},
		},
		{
			name: "instant jump",
			curve: &response.Curve{
				Times:  []float64{0, 1, 2},
				Values: []float64{1, 1, 1},
			},
			want: FOPDT{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Identify(tt.curve)
			if math.Abs(got.L-tt.want.L) > 1e-12 || math.Abs(got.T-tt.want.T) > 1e-12 {
				t.Errorf("Identify() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestIdentifyReferenceExample(t *testing.T) {
	c := &response.Curve{
		Times:  []float64{0, 0.5, 1.0, 1.5, 2.0, 2.5, 3.0, 10},
		Values: []float64{0, 1, 3, 4, 5, 6, 7, 10},
	}
	got := Identify(c)
	if got.L != 1.0 {
		t.Errorf("L = %v, want 1.0", got.L)
	}
	if math.Abs(got.T-3.165) > 1e-3 {
		t.Errorf("T = %v, want ~3.165", got.T)
	}
	if !got.Identified() {
		t.Error("expected identified parameters")
	}
}

func TestIdentified(t *testing.T) {
	if (FOPDT{}).Identified() {
		t.Error("zero FOPDT must not be identified")
	}
	if (FOPDT{L: 1}).Identified() || (FOPDT{T: 1}).Identified() {
		t.Error("a zero parameter must not be identified")
	}
}
