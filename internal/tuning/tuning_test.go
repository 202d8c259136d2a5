package tuning

import (
	"math"
	"testing"

	"github.com/san-kum/zntune/internal/reaction"
)

func TestZieglerNichols(t *testing.T) {
	tests := []struct {
		name string
		p    reaction.FOPDT
		want Gains
	}{
		{"reference", reaction.FOPDT{L: 1, T: 2}, Gains{Kp: 2.4, Ki: 1.2, Kd: 1.2}},
		{"zero L", reaction.FOPDT{L: 0, T: 5}, Gains{}},
		{"zero T", reaction.FOPDT{L: 3, T: 0}, Gains{}},
		{"both zero", reaction.FOPDT{}, Gains{}},
		{"slow plant", reaction.FOPDT{L: 2, T: 10}, Gains{Kp: 6, Ki: 1.5, Kd: 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ZieglerNichols(tt.p)
			if math.Abs(got.Kp-tt.want.Kp) > 1e-12 ||
				math.Abs(got.Ki-tt.want.Ki) > 1e-12 ||
				math.Abs(got.Kd-tt.want.Kd) > 1e-12 {
				t.Errorf("ZieglerNichols(%+v) = %+v, want %+v", tt.p, got, tt.want)
			}
		})
	}
}

func TestGainsIsZero(t *testing.T) {
	if !ZieglerNichols(reaction.FOPDT{}).IsZero() {
		t.Error("untunable plant must give zero gains")
	}
	if ZieglerNichols(reaction.FOPDT{L: 1, T: 1}).IsZero() {
		t.Error("tunable plant must give non-zero gains")
	}
}

func TestMethod(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		known bool
	}{
		{"", ZieglerNicholsMethod, true},
		{"Ziegler-Nichols", ZieglerNicholsMethod, true},
		{" ziegler_nichols ", ZieglerNicholsMethod, true},
		{"ZN", ZieglerNicholsMethod, true},
		{"Cohen Coon", "cohen-coon", false},
	}
	for _, tt := range tests {
		got, known := Method(tt.in)
		if got != tt.want || known != tt.known {
			t.Errorf("Method(%q) = (%q, %v), want (%q, %v)", tt.in, got, known, tt.want, tt.known)
		}
	}
}
