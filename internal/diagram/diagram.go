// Package diagram draws the identified plant parameters and PID gains as a
// two-panel PNG.
package diagram

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/zntune/internal/reaction"
	"github.com/san-kum/zntune/internal/tuning"
)

const (
	OpenLoopTitle   = "open loop"
	ClosedLoopTitle = "closed loop"
)

type Options struct {
	Width    vg.Length
	Height   vg.Length
	DPI      int
	FontSize vg.Length
}

func DefaultOptions() Options {
	return Options{
		Width:    10 * vg.Inch,
		Height:   4 * vg.Inch,
		DPI:      100,
		FontSize: vg.Points(12),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.DPI <= 0 {
		o.DPI = d.DPI
	}
	if o.FontSize <= 0 {
		o.FontSize = d.FontSize
	}
	return o
}

// Lines returns the text of both panels, values at three decimals.
func Lines(p reaction.FOPDT, g tuning.Gains) (open, closed []string) {
	open = []string{
		fmt.Sprintf("L = %.3f", p.L),
		fmt.Sprintf("T = %.3f", p.T),
	}
	closed = []string{
		fmt.Sprintf("Kp = %.3f", g.Kp),
		fmt.Sprintf("Ki = %.3f", g.Ki),
		fmt.Sprintf("Kd = %.3f", g.Kd),
	}
	return open, closed
}

// Render returns the diagram as a base64-encoded PNG.
func Render(p reaction.FOPDT, g tuning.Gains, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := RenderPNG(&buf, p, g, opts); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// RenderPNG writes the raw PNG bytes to w.
func RenderPNG(w io.Writer, p reaction.FOPDT, g tuning.Gains, opts Options) error {
	opts = opts.withDefaults()
	open, closed := Lines(p, g)

	left, err := panel(OpenLoopTitle, open, opts)
	if err != nil {
		return fmt.Errorf("diagram: %w", err)
	}
	right, err := panel(ClosedLoopTitle, closed, opts)
	if err != nil {
		return fmt.Errorf("diagram: %w", err)
	}

	c := vgimg.NewWith(
		vgimg.UseWH(opts.Width, opts.Height),
		vgimg.UseDPI(opts.DPI),
	)
	dc := draw.New(c)

	tiles := draw.Tiles{
		Rows:      1,
		Cols:      2,
		PadX:      vg.Points(16),
		PadTop:    vg.Points(8),
		PadBottom: vg.Points(8),
		PadLeft:   vg.Points(8),
		PadRight:  vg.Points(8),
	}
	plots := [][]*plot.Plot{{left, right}}
	canvases := plot.Align(plots, tiles, dc)
	for j := range plots[0] {
		plots[0][j].Draw(canvases[0][j])
	}

	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("diagram: write png: %w", err)
	}
	return nil
}

// panel builds an axis-free plot holding centered text lines.
func panel(title string, lines []string, opts Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = opts.FontSize * 1.25
	p.HideAxes()

	xys := make(plotter.XYs, len(lines))
	step := 1.0 / float64(len(lines)+1)
	for i := range lines {
		xys[i].X = 0.5
		xys[i].Y = 1 - float64(i+1)*step
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: lines})
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Font.Size = opts.FontSize
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(labels)

	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	return p, nil
}
