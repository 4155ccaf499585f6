// Package typer reveals a string one character at a time at a human pace.
//
// A Revealer owns at most one session. Start replaces whatever session is
// running, Cancel stops it, and every scheduled step carries the generation of
// the session that scheduled it so a step from a superseded session is a no-op.
package typer

import (
	"context"
	"math/rand/v2"
	"sync"
)

// State is a snapshot of a typing session.
type State struct {
	// Text is the revealed prefix of the source.
	Text string

	// Revealed is the length of Text in characters.
	Revealed int

	// Total is the length of the source in characters.
	Total int

	// Active reports whether more steps are scheduled.
	Active bool
}

// Done reports whether the whole source has been revealed.
func (s State) Done() bool {
	return s.Revealed == s.Total
}

// StepFunc receives the state after each revealed character. It runs with the
// Revealer locked and must not call Start or Cancel on it.
type StepFunc func(State)

// Option configures a Revealer.
type Option func(*Revealer)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(r *Revealer) {
		r.clock = c
	}
}

// WithJitter replaces the random source. fn(n) must return a value in [0, n).
func WithJitter(fn func(n int64) int64) Option {
	return func(r *Revealer) {
		r.jitter = fn
	}
}

// Revealer drives typing sessions.
type Revealer struct {
	clock   Clock
	profile Profile
	onStep  StepFunc
	jitter  func(n int64) int64

	mu     sync.Mutex
	gen    uint64
	source []rune
	pos    int
	active bool
	timer  Timer
	done   chan struct{}
}

// New creates a Revealer that reports progress to onStep.
func New(profile Profile, onStep StepFunc, opts ...Option) *Revealer {
	r := &Revealer{
		clock:   SystemClock,
		profile: profile,
		onStep:  onStep,
		jitter:  rand.Int64N,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start begins revealing source from an empty prefix, cancelling any session
// in progress. The returned channel is closed when the session completes or is
// cancelled.
func (r *Revealer) Start(source string) <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cancelLocked()

	r.gen++
	r.source = []rune(source)
	r.pos = 0
	r.done = make(chan struct{})

	if len(r.source) == 0 {
		close(r.done)
		return r.done
	}

	r.active = true
	r.scheduleLocked(r.gen)
	return r.done
}

// Cancel stops the active session. The revealed prefix is kept. No step runs
// after Cancel returns.
func (r *Revealer) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelLocked()
}

// State returns a snapshot of the current session.
func (r *Revealer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stateLocked()
}

// Active reports whether a session is in progress.
func (r *Revealer) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

func (r *Revealer) cancelLocked() {
	if !r.active {
		return
	}
	r.gen++
	r.stopTimerLocked()
	r.active = false
	close(r.done)
}

func (r *Revealer) scheduleLocked(gen uint64) {
	d := r.profile.delay(r.jitter)
	r.timer = r.clock.AfterFunc(d, func() {
		r.step(gen)
	})
}

func (r *Revealer) step(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.gen || !r.active {
		return
	}
	r.timer = nil
	r.pos++

	last := r.pos >= len(r.source)
	if last {
		r.active = false
	}

	if r.onStep != nil {
		r.onStep(r.stateLocked())
	}

	if last {
		close(r.done)
		return
	}
	r.scheduleLocked(gen)
}

func (r *Revealer) stopTimerLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Revealer) stateLocked() State {
	return State{
		Text:     string(r.source[:r.pos]),
		Revealed: r.pos,
		Total:    len(r.source),
		Active:   r.active,
	}
}

// Reveal types source to onStep and blocks until it is fully revealed or ctx
// is done, whichever comes first. It returns the final state.
func Reveal(ctx context.Context, profile Profile, source string, onStep StepFunc, opts ...Option) State {
	r := New(profile, onStep, opts...)
	done := r.Start(source)
	select {
	case <-done:
	case <-ctx.Done():
		r.Cancel()
	}
	return r.State()
}
