package dirsync

import (
	"os"
	"time"

	"github.com/juju/clock"
	saveerrors "savedatamgr/pkg/errors"
	"savedatamgr/pkg/logger"
)

const (
	DefaultSteps    = 50
	DefaultInterval = 50 * time.Millisecond
	DefaultMessage  = "Initializing world..."
)

// Synchronizer copies directory trees while animating a progress observer
type Synchronizer struct {
	steps    int
	interval time.Duration
	message  string
	clock    clock.Clock
	logger   logger.Logger
}

// Option configures a Synchronizer
type Option func(*Synchronizer)

// WithSteps sets the number of synthetic progress steps
func WithSteps(n int) Option {
	return func(s *Synchronizer) {
		if n > 0 {
			s.steps = n
		}
	}
}

// WithInterval sets the delay between progress steps
func WithInterval(d time.Duration) Option {
	return func(s *Synchronizer) {
		if d >= 0 {
			s.interval = d
		}
	}
}

// WithMessage sets the message passed to Observer.Start
func WithMessage(msg string) Option {
	return func(s *Synchronizer) {
		if msg != "" {
			s.message = msg
		}
	}
}

// WithClock sets the clock used for ticks and timings
func WithClock(c clock.Clock) Option {
	return func(s *Synchronizer) {
		s.clock = c
	}
}

// WithLogger sets the logger
func WithLogger(l logger.Logger) Option {
	return func(s *Synchronizer) {
		s.logger = l
	}
}

// New creates a Synchronizer
func New(opts ...Option) *Synchronizer {
	s := &Synchronizer{
		steps:    DefaultSteps,
		interval: DefaultInterval,
		message:  DefaultMessage,
		clock:    clock.WallClock,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.GetLogger()
	}
	return s
}

// Steps returns the configured number of progress steps
func (s *Synchronizer) Steps() int {
	return s.steps
}

// treeCopier performs the actual copy; tests swap it to control timing
var treeCopier = copyDir

type copyOutcome struct {
	res *Result
	err error
}

// CopyTree overlays src onto dst in a background goroutine while the calling
// goroutine animates obs. It returns once both the copy and the animation are
// done. The final 100% step is only emitted after the copy has finished.
//
// A missing or non-directory src fails with a not-found error before dst is
// touched. A failed copy is not rolled back.
func (s *Synchronizer) CopyTree(src, dst string, obs Observer) (*Result, error) {
	root, err := resolveSource("copy", src)
	if err != nil {
		return nil, err
	}
	if obs == nil {
		obs = nopObserver{}
	}

	start := s.clock.Now()
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return nil, saveerrors.IO("copy", dst, err)
	}

	s.logger.DebugWithFields("Starting tree copy", map[string]interface{}{
		"source":      src,
		"destination": dst,
		"steps":       s.steps,
	})

	done := make(chan copyOutcome, 1)
	go func() {
		res, err := treeCopier(root, dst)
		done <- copyOutcome{res: res, err: err}
	}()

	obs.Start(s.message)

	var (
		outcome  copyOutcome
		finished bool
		step     int
	)

	// Animate while the copy runs, holding one step short of completion.
	for step < s.steps-1 {
		select {
		case outcome = <-done:
			finished = true
		default:
		}
		if finished {
			break
		}
		step++
		obs.Update(newProgress(step, s.steps))
		s.wait()
	}

	// Out of steps: keep the held state alive until the copy joins.
	for !finished {
		if s.interval <= 0 {
			outcome = <-done
			finished = true
			break
		}
		select {
		case outcome = <-done:
			finished = true
		case <-s.clock.After(s.interval):
			obs.Update(newProgress(step, s.steps))
		}
	}

	if outcome.err != nil {
		obs.Finish()
		s.logger.WithError(outcome.err).InfoWithFields("Tree copy failed", map[string]interface{}{
			"source":      src,
			"destination": dst,
		})
		return outcome.res, outcome.err
	}

	for step < s.steps {
		step++
		obs.Update(newProgress(step, s.steps))
		if step < s.steps {
			s.wait()
		}
	}
	obs.Finish()

	outcome.res.Duration = s.clock.Now().Sub(start)
	logger.LogCopy(s.logger, src, dst, outcome.res.Files, outcome.res.Bytes, outcome.res.Duration)
	return outcome.res, nil
}

// Copy overlays src onto dst synchronously with no progress reporting
func (s *Synchronizer) Copy(src, dst string) (*Result, error) {
	root, err := resolveSource("copy", src)
	if err != nil {
		return nil, err
	}

	start := s.clock.Now()
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return nil, saveerrors.IO("copy", dst, err)
	}

	res, err := treeCopier(root, dst)
	if err != nil {
		return res, err
	}

	res.Duration = s.clock.Now().Sub(start)
	logger.LogCopy(s.logger, src, dst, res.Files, res.Bytes, res.Duration)
	return res, nil
}

func (s *Synchronizer) wait() {
	if s.interval > 0 {
		<-s.clock.After(s.interval)
	}
}
