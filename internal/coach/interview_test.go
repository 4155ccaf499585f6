package coach

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterview_Validate(t *testing.T) {
	complete := Interview{Role: "PM", JobDescription: "Own the roadmap", ResumeURL: "https://example.com/cv.pdf"}
	assert.NoError(t, complete.Validate())

	err := Interview{Role: "PM"}.Validate()
	require.ErrorIs(t, err, ErrMissingContext)
	assert.Contains(t, err.Error(), "job description")
	assert.Contains(t, err.Error(), "resume or resume URL")
	assert.NotContains(t, err.Error(), "role,")
}

func TestGuard_SingleInFlight(t *testing.T) {
	var g Guard

	release, ok := g.TryAcquire()
	require.True(t, ok)
	assert.True(t, g.Busy())

	_, ok = g.TryAcquire()
	assert.False(t, ok)

	release()
	release()
	assert.False(t, g.Busy())

	again, ok := g.TryAcquire()
	require.True(t, ok)
	again()
}

func TestGuard_Concurrent(t *testing.T) {
	var g Guard
	var acquired atomic.Int32
	start := make(chan struct{})

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, ok := g.TryAcquire(); ok {
				acquired.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), acquired.Load())
}

func TestCards(t *testing.T) {
	s := Suggestions{Rebuttal: "a", QuestionToAsk: "c"}
	cards := s.Cards()
	require.Len(t, cards, 2)
	assert.Equal(t, KindRebuttal, cards[0].Kind)
	assert.Equal(t, KindQuestion, cards[1].Kind)
	assert.Equal(t, "Question to ask", cards[1].Kind.Title())

	sol := Solution{Code: "x()", Explanation: "calls x", FollowUpQuestion: "why?", Language: "go"}
	cards = sol.Cards()
	require.Len(t, cards, 3)
	assert.Equal(t, []CardKind{KindExplanation, KindCode, KindFollowUp}, []CardKind{cards[0].Kind, cards[1].Kind, cards[2].Kind})
	assert.Equal(t, "go", cards[1].Language)
}

func TestSolution_Markdown(t *testing.T) {
	sol := Solution{Code: "x()", Explanation: "calls x", FollowUpQuestion: "why?", Language: "go"}

	assert.Equal(t, "calls x\n\n```go\nx()\n```\n\nwhy?", sol.Markdown())
}
