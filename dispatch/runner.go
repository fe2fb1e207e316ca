package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	bt "github.com/joeycumines/go-behaviortree"
)

// Runner steps a world on a wall-clock interval.
type Runner struct {
	world    *World
	dt       float64
	interval time.Duration
	steps    int
}

// NewRunner steps w by dt simulated seconds every interval.
func NewRunner(w *World, dt float64, interval time.Duration) *Runner {
	return &Runner{world: w, dt: dt, interval: interval}
}

// Steps is the number of completed steps. Read it after Run returns.
func (r *Runner) Steps() int { return r.steps }

// Node is one world step as a behaviour tree: a sequence of the step phases.
func (r *Runner) Node() bt.Node {
	var now float64
	phase := func(fn func()) bt.Node {
		return bt.New(func([]bt.Node) (bt.Status, error) {
			fn()
			return bt.Success, nil
		})
	}
	return bt.New(
		bt.Sequence,
		phase(func() { now = r.world.Advance(r.dt) }),
		phase(func() { r.world.Drain() }),
		phase(func() { r.world.WakeDue(now) }),
		phase(func() { r.world.Move(r.dt) }),
		phase(func() { r.world.FireDetected() }),
		phase(func() { r.world.Prune() }),
		phase(func() { r.steps++ }),
	)
}

// Run ticks until ctx is done. Cancellation is a clean stop.
func (r *Runner) Run(ctx context.Context) error {
	slog.Info("runner started", "dt", r.dt, "interval", r.interval)
	ticker := bt.NewTicker(ctx, r.interval, r.Node())
	<-ticker.Done()
	err := ticker.Err()
	slog.Info("runner stopped", "steps", r.steps)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
