package typer

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidProfile is returned when delay bounds are negative or inverted.
var ErrInvalidProfile = errors.New("invalid typing profile")

// Profile is the closed interval a per-character delay is drawn from.
type Profile struct {
	Name     string
	MinDelay time.Duration
	MaxDelay time.Duration
}

var (
	// Human types at roughly the pace of a person.
	Human = Profile{Name: "human", MinDelay: 50 * time.Millisecond, MaxDelay: 150 * time.Millisecond}

	// Fast is for when the result matters more than the show.
	Fast = Profile{Name: "fast", MinDelay: 10 * time.Millisecond, MaxDelay: 30 * time.Millisecond}
)

// ProfileByName returns the built-in profile with the given name.
func ProfileByName(name string) (Profile, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "human", "slow":
		return Human, true
	case "fast":
		return Fast, true
	default:
	}
	return Profile{}, false
}

// Validate checks that 0 <= MinDelay <= MaxDelay.
func (p Profile) Validate() error {
	if p.MinDelay < 0 || p.MaxDelay < 0 {
		return fmt.Errorf("%w: negative delay", ErrInvalidProfile)
	}
	if p.MinDelay > p.MaxDelay {
		return fmt.Errorf("%w: min delay %s exceeds max delay %s", ErrInvalidProfile, p.MinDelay, p.MaxDelay)
	}
	return nil
}

// WithBounds returns a copy of p with any non-zero bound overridden.
func (p Profile) WithBounds(minDelay, maxDelay time.Duration) Profile {
	if minDelay != 0 {
		p.MinDelay = minDelay
	}
	if maxDelay != 0 {
		p.MaxDelay = maxDelay
	}
	if minDelay != 0 || maxDelay != 0 {
		p.Name = "custom"
	}
	return p
}

// delay draws a value uniformly from [MinDelay, MaxDelay]. jitter(n) must
// return a value in [0, n).
func (p Profile) delay(jitter func(n int64) int64) time.Duration {
	span := int64(p.MaxDelay - p.MinDelay)
	if span <= 0 {
		return p.MinDelay
	}
	return p.MinDelay + time.Duration(jitter(span+1))
}

func (p Profile) String() string {
	return fmt.Sprintf("%s [%s, %s]", p.Name, p.MinDelay, p.MaxDelay)
}

// Duration estimates how long revealing n characters takes at the profile's
// mean delay.
func (p Profile) Duration(n int) time.Duration {
	return time.Duration(n) * (p.MinDelay + p.MaxDelay) / 2
}
