package analysis

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/zntune/internal/diagram"
	"github.com/san-kum/zntune/internal/lti"
	"github.com/san-kum/zntune/internal/metrics"
	"github.com/san-kum/zntune/internal/polyfmt"
	"github.com/san-kum/zntune/internal/reaction"
	"github.com/san-kum/zntune/internal/response"
	"github.com/san-kum/zntune/internal/symbolic"
	"github.com/san-kum/zntune/internal/tuning"
)

// PlaceholderTimeConstant is T of the fixed plant 1/(T·s + 1).
const PlaceholderTimeConstant = 2.0

// PlaceholderPlant returns the plant every analysis runs against.
func PlaceholderPlant() lti.TransferFunction {
	return lti.TransferFunction{
		Num: []float64{1},
		Den: []float64{PlaceholderTimeConstant, 1},
	}
}

// Request carries the four boundary inputs. Only Method is interpreted, and
// only for display.
type Request struct {
	Equation string `json:"equation"`
	Input    string `json:"input"`
	Output   string `json:"output"`
	Method   string `json:"method"`
}

type Result struct {
	L                float64 `json:"L"`
	T                float64 `json:"T"`
	Kp               float64 `json:"Kp"`
	Ki               float64 `json:"Ki"`
	Kd               float64 `json:"Kd"`
	OpenLoopText     string  `json:"openLoopText"`
	ClosedLoopLatex  string  `json:"closedLoopLatex"`
	DiagramPNGBase64 string  `json:"diagramImageBase64"`
}

func (r *Result) FOPDT() reaction.FOPDT {
	return reaction.FOPDT{L: r.L, T: r.T}
}

func (r *Result) Gains() tuning.Gains {
	return tuning.Gains{Kp: r.Kp, Ki: r.Ki, Kd: r.Kd}
}

// DiagramPNG decodes the embedded diagram. An empty diagram gives nil.
func (r *Result) DiagramPNG() ([]byte, error) {
	if r.DiagramPNGBase64 == "" {
		return nil, nil
	}
	img, err := base64.StdEncoding.DecodeString(r.DiagramPNGBase64)
	if err != nil {
		return nil, fmt.Errorf("analysis: diagram: %w", err)
	}
	return img, nil
}

// Run is a Result plus the data that produced it.
type Run struct {
	ID         string             `json:"id"`
	Request    Request            `json:"request"`
	Result     *Result            `json:"result"`
	Method     string             `json:"method"`
	Integrator string             `json:"integrator"`
	Duration   float64            `json:"duration"`
	Samples    int                `json:"samples"`
	Metrics    map[string]float64 `json:"metrics"`
	Started    time.Time          `json:"started"`
	Elapsed    time.Duration      `json:"elapsed"`
	Curve      *response.Curve    `json:"-"`
}

// Analyzer holds immutable settings and is safe for concurrent use.
type Analyzer struct {
	sim     response.Config
	timeout time.Duration
	diagram diagram.Options
	logger  *log.Logger
}

type Option func(*Analyzer)

func WithSimulation(cfg response.Config) Option {
	return func(a *Analyzer) { a.sim = cfg }
}

// WithTimeout bounds the simulation stage. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(a *Analyzer) { a.timeout = d }
}

func WithDiagram(opts diagram.Options) Option {
	return func(a *Analyzer) { a.diagram = opts }
}

func WithLogger(l *log.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		sim:     response.DefaultConfig(),
		diagram: diagram.DefaultOptions(),
		logger:  log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze returns a fully populated Result or an error, never a partial
// result.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*Result, error) {
	run, err := a.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return run.Result, nil
}

func (a *Analyzer) Run(ctx context.Context, req Request) (*Run, error) {
	started := time.Now()

	method, known := tuning.Method(req.Method)
	if !known {
		a.logger.Printf("tuning method %q is not implemented; using %s", req.Method, tuning.ZieglerNicholsMethod)
	}

	plant := PlaceholderPlant()
	if req.Equation != "" {
		a.logger.Printf("equation %q is not parsed; analyzing %s", req.Equation, plant)
	}

	curve, ms, err := a.simulate(ctx, plant)
	if err != nil {
		return nil, fmt.Errorf("analysis: simulate: %w", err)
	}

	fopdt := reaction.Identify(curve)
	gains := tuning.ZieglerNichols(fopdt)
	if !fopdt.Identified() {
		a.logger.Printf("identification failed (%s); gains are zero", fopdt)
	}

	s := symbolic.NewVar("s")
	closed, err := symbolic.ClosedLoop(symbolic.Controller(s, gains), symbolic.Plant(s, fopdt))
	if err != nil {
		return nil, fmt.Errorf("analysis: closed loop: %w", err)
	}

	img, err := diagram.Render(fopdt, gains, a.diagram)
	if err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}

	res := &Result{
		L:                fopdt.L,
		T:                fopdt.T,
		Kp:               gains.Kp,
		Ki:               gains.Ki,
		Kd:               gains.Kd,
		OpenLoopText:     polyfmt.Fraction(plant.Num, plant.Den),
		ClosedLoopLatex:  closed.LaTeX(),
		DiagramPNGBase64: img,
	}

	run := &Run{
		ID:         uuid.NewString(),
		Request:    req,
		Result:     res,
		Method:     method,
		Integrator: a.sim.Integrator,
		Duration:   a.sim.Duration,
		Samples:    a.sim.Samples,
		Metrics:    metrics.Collect(ms),
		Started:    started,
		Elapsed:    time.Since(started),
		Curve:      curve,
	}
	a.logger.Printf("run %s: %s %s in %s", run.ID, fopdt, gains, run.Elapsed)
	return run, nil
}

func (a *Analyzer) simulate(ctx context.Context, plant lti.TransferFunction) (*response.Curve, []metrics.Metric, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	ms := metrics.Default()
	curve, err := response.NewSimulator(a.sim).Step(ctx, plant, ms...)
	if err != nil {
		return nil, nil, err
	}
	return curve, ms, nil
}
