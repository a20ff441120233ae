package race

import (
	"context"
	"time"

	"github.com/mpapenbr/f1-visual-simulator/log"
)

const DefaultFrameRate = 60

// Runner drives the controller with frames at a fixed rate
type Runner struct {
	ctrl     *Controller
	interval time.Duration
	l        *log.Logger
}

type RunnerOption func(r *Runner)

// WithFrameRate sets the frames per second, values <= 0 are ignored
func WithFrameRate(fps int) RunnerOption {
	return func(r *Runner) {
		if fps > 0 {
			r.interval = time.Second / time.Duration(fps)
		}
	}
}

func WithRunnerLogger(l *log.Logger) RunnerOption {
	return func(r *Runner) {
		r.l = l
	}
}

func NewRunner(ctrl *Controller, opts ...RunnerOption) *Runner {
	ret := &Runner{
		ctrl:     ctrl,
		interval: time.Second / DefaultFrameRate,
		l:        log.Default().Named("runner"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Run fires frames until ctx is done. Cancelling ctx stops all further
// frames and lap updates.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	r.l.Debug("frame loop started", log.Duration("interval", r.interval))
	for {
		select {
		case <-ctx.Done():
			r.l.Debug("frame loop stopped")
			return
		case <-ticker.C:
			r.ctrl.Frame()
		}
	}
}

// RunToFinish performs lap updates without any delay until the race is no
// longer running. Returns the number of lap boundaries processed.
func (r *Runner) RunToFinish(ctx context.Context) int {
	n := 0
	for ctx.Err() == nil && r.ctrl.Phase() == PhaseRunning {
		if r.ctrl.Tick() {
			n++
		}
	}
	return n
}
