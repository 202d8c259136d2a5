package analysis_test

import (
	"context"
	"strings"
	"unicode/utf8"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/zntune/internal/analysis"
	"github.com/san-kum/zntune/internal/polyfmt"
	"github.com/san-kum/zntune/internal/response"
)

var _ = Describe("Analyzer", func() {
	var a *analysis.Analyzer

	BeforeEach(func() {
		a = analysis.New(analysis.WithSimulation(response.Config{
			Duration:   50,
			Samples:    2000,
			Integrator: "zoh",
		}))
	})

	Describe("the placeholder plant", func() {
		It("is 1/(2s + 1)", func() {
			p := analysis.PlaceholderPlant()
			Expect(p.Num).To(Equal([]float64{1}))
			Expect(p.Den).To(Equal([]float64{2, 1}))
			Expect(p.Validate()).To(Succeed())
		})

		It("is analyzed whatever the equation says", func() {
			first, err := a.Analyze(context.Background(), analysis.Request{Equation: "y'' + y = u"})
			Expect(err).NotTo(HaveOccurred())
			second, err := a.Analyze(context.Background(), analysis.Request{Equation: "y' = -10y + u"})
			Expect(err).NotTo(HaveOccurred())

			Expect(second.FOPDT()).To(Equal(first.FOPDT()))
			Expect(second.OpenLoopText).To(Equal(first.OpenLoopText))
		})
	})

	Describe("a result", func() {
		var res *analysis.Result

		BeforeEach(func() {
			var err error
			res, err = a.Analyze(context.Background(), analysis.Request{Method: "Ziegler Nichols"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("identifies a positive dead time and time constant", func() {
			Expect(res.FOPDT().Identified()).To(BeTrue())
			Expect(res.L).To(BeNumerically("~", 0.67, 0.02))
			Expect(res.T).To(BeNumerically("~", 2.1, 0.03))
		})

		It("derives Ziegler–Nichols gains from L and T", func() {
			Expect(res.Kp).To(BeNumerically("~", 1.2*res.T/res.L, 1e-12))
			Expect(res.Ki).To(BeNumerically("~", res.Kp/(2*res.L), 1e-12))
			Expect(res.Kd).To(BeNumerically("~", res.Kp*0.5*res.L, 1e-12))
		})

		It("formats the open loop from the numeric plant", func() {
			lines := strings.Split(res.OpenLoopText, "\n")
			Expect(lines).To(HaveLen(3))
			Expect(lines[0]).To(Equal("1"))
			Expect(lines[2]).To(Equal("2s + 1"))
			Expect(utf8.RuneCountInString(lines[1])).To(Equal(6))
			Expect(strings.Trim(lines[1], polyfmt.Divider)).To(BeEmpty())
		})

		It("renders the closed loop with its delay", func() {
			Expect(res.ClosedLoopLatex).To(HavePrefix(`\frac{`))
			Expect(res.ClosedLoopLatex).To(ContainSubstring(" s}"))
		})

		It("carries a diagram", func() {
			Expect(res.DiagramPNGBase64).NotTo(BeEmpty())
		})
	})

	Describe("cancellation", func() {
		It("returns no result", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			res, err := a.Analyze(ctx, analysis.Request{})
			Expect(err).To(MatchError(context.Canceled))
			Expect(res).To(BeNil())
		})
	})
})
