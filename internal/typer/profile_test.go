package typer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProfileByName(t *testing.T) {
	tests := []struct {
		name string
		want Profile
		ok   bool
	}{
		{"", Human, true},
		{"human", Human, true},
		{" Slow ", Human, true},
		{"FAST", Fast, true},
		{"warp", Profile{}, false},
	}

	for _, tt := range tests {
		got, ok := ProfileByName(tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}
}

func TestProfile_Validate(t *testing.T) {
	assert.NoError(t, Human.Validate())
	assert.NoError(t, Fast.Validate())
	assert.NoError(t, Profile{MinDelay: 5 * time.Millisecond, MaxDelay: 5 * time.Millisecond}.Validate())

	assert.ErrorIs(t, Profile{MinDelay: -time.Millisecond}.Validate(), ErrInvalidProfile)
	assert.ErrorIs(t, Profile{MinDelay: 20 * time.Millisecond, MaxDelay: 10 * time.Millisecond}.Validate(), ErrInvalidProfile)
}

func TestProfile_WithBounds(t *testing.T) {
	p := Human.WithBounds(0, 0)
	assert.Equal(t, Human, p)

	p = Human.WithBounds(0, 400*time.Millisecond)
	assert.Equal(t, "custom", p.Name)
	assert.Equal(t, Human.MinDelay, p.MinDelay)
	assert.Equal(t, 400*time.Millisecond, p.MaxDelay)
}

func TestProfile_DelayUsesClosedInterval(t *testing.T) {
	p := Profile{MinDelay: 10 * time.Millisecond, MaxDelay: 30 * time.Millisecond}

	lowest := p.delay(func(int64) int64 { return 0 })
	highest := p.delay(func(n int64) int64 { return n - 1 })

	assert.Equal(t, 10*time.Millisecond, lowest)
	assert.Equal(t, 30*time.Millisecond, highest)
}

func TestProfile_Duration(t *testing.T) {
	assert.Equal(t, time.Second, Human.Duration(10))
}
