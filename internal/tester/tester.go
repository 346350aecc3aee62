package tester

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/DIvanCode/rwlock/internal/lib/mutex"
	"github.com/DIvanCode/rwlock/internal/scenario"
	"github.com/jonboulle/clockwork"
)

type Result struct {
	Name string
	// Start is the offset from the creation of the tester.
	Start    time.Duration
	Duration time.Duration
	Err      error
}

func (r Result) Passed() bool {
	return r.Err == nil
}

type Report struct {
	Results []Result
}

func (r Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if !res.Passed() {
			failed = append(failed, res)
		}
	}
	return failed
}

// WriteSummary prints the failures followed by the aligned run times of the
// passing scenarios.
func (r Report) WriteSummary(w io.Writer) error {
	p := &printer{w: w}

	failed := r.Failed()
	switch len(failed) {
	case 0:
		p.printf("All scenarios passed\n\n")
	case 1:
		p.printf("1 failed scenario:\n")
	default:
		p.printf("%d failed scenarios:\n", len(failed))
	}
	for _, res := range failed {
		p.printf("\t%s: %v\n", res.Name, res.Err)
	}
	if len(failed) > 0 {
		p.printf("\n")
	}

	width := 0
	for _, res := range r.Results {
		if res.Passed() {
			width = max(width, len(res.Name))
		}
	}

	p.printf("Summary of passing scenarios and run times:\n")
	for _, res := range r.Results {
		if res.Passed() {
			p.printf("%*s: %d microseconds\n", width, res.Name, res.Duration.Microseconds())
		}
	}
	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// Tester runs scenarios one after another against locks from one factory.
type Tester struct {
	newLock mutex.Factory
	timeout time.Duration

	clock clockwork.Clock
	start time.Time

	log *slog.Logger
}

func New(log *slog.Logger, newLock mutex.Factory, timeout time.Duration, clock clockwork.Clock) *Tester {
	return &Tester{
		newLock: newLock,
		timeout: timeout,

		clock: clock,
		start: clock.Now(),

		log: log,
	}
}

func (t *Tester) Run(ctx context.Context, scenarios []scenario.Scenario) Report {
	t.log.Info("running scenarios", slog.Int("count", len(scenarios)))

	report := Report{Results: make([]Result, 0, len(scenarios))}
	for _, s := range scenarios {
		report.Results = append(report.Results, t.RunOne(ctx, s))
	}

	t.log.Info("scenarios finished",
		slog.Int("passed", len(report.Results)-len(report.Failed())),
		slog.Int("failed", len(report.Failed())),
		slog.Duration("elapsed", t.clock.Since(t.start)))
	return report
}

func (t *Tester) RunOne(ctx context.Context, s scenario.Scenario) Result {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	begin := t.clock.Now()
	res := Result{Name: s.Name, Start: begin.Sub(t.start)}
	t.log.Info("begin scenario", slog.String("scenario", s.Name), slog.Duration("since_start", res.Start))

	res.Err = s.Run(ctx, t.newLock)
	res.Duration = t.clock.Since(begin)

	if res.Err != nil {
		t.log.Error("scenario failed",
			slog.String("scenario", s.Name),
			slog.Duration("duration", res.Duration),
			slog.String("error", res.Err.Error()))
	} else {
		t.log.Info("end scenario", slog.String("scenario", s.Name), slog.Duration("duration", res.Duration))
	}
	return res
}
