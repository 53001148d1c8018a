package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikaelmello/uping/core"
)

// Result is the outcome of pinging one host
type Result struct {
	Host        string
	Transmitted int
	Received    int
}

// Runner is the struct that is responsible for running the program
type Runner struct {
	hosts    []string
	settings *core.Settings
	opts     []core.Option

	results []Result
	cancel  context.CancelFunc
	sigch   chan os.Signal
	endch   chan error
}

// newRunner creates a runner pinging hosts one after the other
func newRunner(hosts []string, settings *core.Settings, opts ...core.Option) *Runner {
	return &Runner{
		hosts:    hosts,
		settings: settings,
		opts:     opts,
		cancel:   func() {},
		sigch:    make(chan os.Signal, 1),
		endch:    make(chan error, 1),
	}
}

// Start starts the runner
func (r *Runner) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, r.cancel = context.WithCancel(ctx)

	r.handleSignals(ctx)

	go func() {
		defer r.cancel()
		r.endch <- r.run(ctx)
	}()
}

// run pings every host until one fails to start or the run is stopped
func (r *Runner) run(ctx context.Context) error {
	for _, host := range r.hosts {
		if ctx.Err() != nil {
			return nil
		}

		transmitted, received, err := core.Ping(ctx, host, r.settings, r.opts...)
		if err != nil {
			return err
		}

		r.results = append(r.results, Result{Host: host, Transmitted: transmitted, Received: received})
	}

	return nil
}

// RequestStop requests the stop of the current session and skips the remaining hosts
func (r *Runner) RequestStop() {
	r.cancel()
}

// Wait blocks the caller until the runner finishes
func (r *Runner) Wait() ([]Result, error) {
	err := <-r.endch
	return r.results, err
}

// handleSignals stops the runner on SIGINT or SIGTERM
func (r *Runner) handleSignals(ctx context.Context) {
	signal.Notify(r.sigch, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(r.sigch)

		select {
		case <-r.sigch:
			r.RequestStop()
		case <-ctx.Done():
		}
	}()
}
