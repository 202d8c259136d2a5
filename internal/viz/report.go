package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/zntune/internal/analysis"
	"github.com/san-kum/zntune/internal/response"
)

// CurvePlot draws y(t) with asciigraph. Non-finite samples become gaps.
// An empty curve yields "".
func CurvePlot(c *response.Curve, width, height int, caption string) string {
	if c.Len() == 0 {
		return ""
	}
	if width <= 0 {
		width = 70
	}
	if height <= 0 {
		height = 10
	}

	data := make([]float64, len(c.Values))
	finite := 0
	for i, v := range c.Values {
		if math.IsInf(v, 0) {
			v = math.NaN()
		}
		if !math.IsNaN(v) {
			finite++
		}
		data[i] = v
	}
	if finite == 0 {
		return ""
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// Report renders a finished run for the terminal.
func Report(s Styles, run *analysis.Run, width int) string {
	res := run.Result
	var b strings.Builder

	b.WriteString(s.Title.Render("zntune") + s.Muted.Render("  run "+run.ID) + "\n")
	b.WriteString(s.Separator(width) + "\n\n")

	b.WriteString(s.Title.Render("open loop") + "\n")
	b.WriteString(s.Panel.Render(res.OpenLoopText) + "\n")
	b.WriteString(s.Field("L", fmt.Sprintf("%.3f", res.L), 4) + "   ")
	b.WriteString(s.Field("T", fmt.Sprintf("%.3f", res.T), 4) + "\n\n")

	b.WriteString(s.Title.Render("pid ("+run.Method+")") + "\n")
	b.WriteString(s.Field("Kp", fmt.Sprintf("%.3f", res.Kp), 4) + "   ")
	b.WriteString(s.Field("Ki", fmt.Sprintf("%.3f", res.Ki), 4) + "   ")
	b.WriteString(s.Field("Kd", fmt.Sprintf("%.3f", res.Kd), 4) + "\n")
	if res.Gains().IsZero() {
		b.WriteString(s.Error.Render("plant could not be tuned") + "\n")
	}
	b.WriteString("\n")

	b.WriteString(s.Title.Render("closed loop") + "\n")
	b.WriteString(res.ClosedLoopLatex + "\n\n")

	if len(run.Metrics) > 0 {
		b.WriteString(s.Title.Render("step response") + "\n")
		names := make([]string, 0, len(run.Metrics))
		for name := range run.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			b.WriteString("  " + s.Field(name, fmt.Sprintf("%.6f", run.Metrics[name]), 16) + "\n")
		}
	}

	if plot := CurvePlot(run.Curve, width-10, 10, "y(t), unit step"); plot != "" {
		b.WriteString("\n" + plot + "\n")
	}

	return b.String()
}
