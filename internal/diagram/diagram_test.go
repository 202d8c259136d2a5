package diagram

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"reflect"
	"testing"

	"github.com/san-kum/zntune/internal/reaction"
	"github.com/san-kum/zntune/internal/tuning"
)

func TestLines(t *testing.T) {
	open, closed := Lines(reaction.FOPDT{L: 1, T: 3.16456}, tuning.Gains{Kp: 2.4, Ki: 1.2, Kd: 1.2})

	if want := []string{"L = 1.000", "T = 3.165"}; !reflect.DeepEqual(open, want) {
		t.Errorf("open = %q, want %q", open, want)
	}
	if want := []string{"Kp = 2.400", "Ki = 1.200", "Kd = 1.200"}; !reflect.DeepEqual(closed, want) {
		t.Errorf("closed = %q, want %q", closed, want)
	}
}

func TestRenderIsPNG(t *testing.T) {
	s, err := Render(reaction.FOPDT{L: 1, T: 2}, tuning.Gains{Kp: 2.4, Ki: 1.2, Kd: 1.2}, Options{})
	if err != nil {
		t.Fatal(err)
	}

	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		t.Fatalf("not base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("not a PNG: %v", err)
	}

	b := img.Bounds()
	if b.Dx() <= b.Dy() || b.Dy() == 0 {
		t.Errorf("unexpected size %v", b)
	}
}

func TestRenderDeterministic(t *testing.T) {
	p := reaction.FOPDT{L: 0.67, T: 2.1}
	g := tuning.ZieglerNichols(p)

	a, err := Render(p, g, Options{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Render(p, g, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("identical inputs rendered differently")
	}

	c, err := Render(p, tuning.Gains{}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if a == c {
		t.Error("different gains rendered identically")
	}
}

func TestRenderPNGSmall(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{Width: 200, Height: 100, DPI: 72}
	if err := RenderPNG(&buf, reaction.FOPDT{}, tuning.Gains{}, opts); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); abs(b.Dx()-200) > 1 || abs(b.Dy()-100) > 1 {
		t.Errorf("size = %v, want about 200x100", b)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
