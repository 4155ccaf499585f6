package coach

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markis/gh-coach/internal/client"
	"github.com/markis/gh-coach/internal/image"
)

type fakeCompleter struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests []client.Request
}

func (f *fakeCompleter) Complete(_ context.Context, req client.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.reply, f.err
}

func (f *fakeCompleter) last(t *testing.T) client.Request {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1]
}

func testImage(t *testing.T) image.Image {
	t.Helper()
	img, err := image.FromBytes("shot.png", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	require.NoError(t, err)
	return img
}

func TestHandleObjection(t *testing.T) {
	f := &fakeCompleter{reply: `{"rebuttal":"I shipped it twice.","comparison":"Unlike Kafka, ...","questionToAsk":"What does success look like?"}`}
	c := New(f, "gpt-4o", nil)

	got, err := c.HandleObjection(context.Background(), Interview{Role: "SRE", JobDescription: "Run prod"}, "  You lack Go experience  ")

	require.NoError(t, err)
	assert.Equal(t, Suggestions{
		Rebuttal:      "I shipped it twice.",
		Comparison:    "Unlike Kafka, ...",
		QuestionToAsk: "What does success look like?",
	}, got)

	req := f.last(t)
	assert.Equal(t, "gpt-4o", req.Model)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, client.RoleSystem, req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Text, `"questionToAsk"`)
	assert.Contains(t, req.Messages[0].Text, `"required"`)
	assert.Contains(t, req.Messages[1].Text, `"You lack Go experience"`)
	assert.Contains(t, req.Messages[1].Text, "Role: SRE")
	assert.Contains(t, req.Messages[1].Text, "Resume: not provided")
	assert.False(t, req.HasImages())
}

func TestHandleObjection_EmptyObjection(t *testing.T) {
	f := &fakeCompleter{}
	c := New(f, "gpt-4o", nil)

	_, err := c.HandleObjection(context.Background(), Interview{}, "   ")

	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Empty(t, f.requests)
}

func TestHandleObjection_MissingField(t *testing.T) {
	f := &fakeCompleter{reply: `{"rebuttal":"x","comparison":"y"}`}
	c := New(f, "gpt-4o", nil)

	_, err := c.HandleObjection(context.Background(), Interview{}, "why you?")

	require.ErrorIs(t, err, ErrInvalidReply)
	assert.Contains(t, err.Error(), "questionToAsk")
}

func TestCodeAndExplanation(t *testing.T) {
	f := &fakeCompleter{reply: "Sure!\n```json\n{\"code\":\"```python\\nprint(1)\\n```\",\"explanation\":\"Prints one.\",\"language\":\"python\"}\n```"}
	c := New(f, "gpt-4o", nil)

	sol, err := c.CodeAndExplanation(context.Background(), Input{Prompt: "use python", Images: []image.Image{testImage(t)}})

	require.NoError(t, err)
	assert.Equal(t, "print(1)\n", sol.Code)
	assert.Equal(t, "Prints one.", sol.Explanation)
	assert.Equal(t, "python", sol.Language)
	assert.Empty(t, sol.FollowUpQuestion)

	req := f.last(t)
	assert.True(t, req.HasImages())
	assert.Contains(t, req.Messages[1].Text, "use python")
	require.Len(t, req.Messages[1].Images, 1)
	assert.True(t, strings.HasPrefix(req.Messages[1].Images[0], "data:image/png;base64,"))
}

func TestCodeAndExplanation_InputValidation(t *testing.T) {
	c := New(&fakeCompleter{}, "gpt-4o", nil)
	img := testImage(t)

	_, err := c.CodeAndExplanation(context.Background(), Input{})
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = c.CodeAndExplanation(context.Background(), Input{Images: []image.Image{img, img, img, img}})
	assert.ErrorIs(t, err, ErrTooManyImages)
}

func TestCodeFromScreenshot(t *testing.T) {
	f := &fakeCompleter{reply: `Here you go: {"code":"func main() {}"} good luck`}
	c := New(f, "gpt-4o", nil)

	_, err := c.CodeFromScreenshot(context.Background(), Input{Prompt: "go please"})
	require.ErrorIs(t, err, ErrNoImage)

	got, err := c.CodeFromScreenshot(context.Background(), Input{Images: []image.Image{testImage(t)}})
	require.NoError(t, err)
	assert.Equal(t, "func main() {}", got.Code)
}

func TestCustomCode(t *testing.T) {
	f := &fakeCompleter{reply: "Use a map.\n```go\nm := map[string]int{}\n```\nThat's O(1)."}
	c := New(f, "gpt-4o", nil)

	got, err := c.CustomCode(context.Background(), Input{Prompt: "count words"})
	require.NoError(t, err)

	sol := got.Solution()
	assert.Equal(t, "m := map[string]int{}\n", sol.Code)
	assert.Equal(t, "Use a map.\n\nThat's O(1).", sol.Explanation)
	assert.Equal(t, "go", sol.Language)

	req := f.last(t)
	assert.NotContains(t, req.Messages[0].Text, "JSON Schema")
	assert.Contains(t, req.Messages[1].Text, "count words")
	assert.NotContains(t, req.Messages[1].Text, "screenshots")
}

func TestExplainCode(t *testing.T) {
	f := &fakeCompleter{reply: `{"explanation":"It loops."}`}
	c := New(f, "gpt-4o", nil)

	_, err := c.ExplainCode(context.Background(), "\n")
	require.ErrorIs(t, err, ErrEmptyInput)

	got, err := c.ExplainCode(context.Background(), "for {}")
	require.NoError(t, err)
	assert.Equal(t, "It loops.", got.Explanation)
	assert.Contains(t, f.last(t).Messages[1].Text, "for {}")
}

func TestCompleterErrorIsWrapped(t *testing.T) {
	f := &fakeCompleter{err: client.ErrRateLimited}
	c := New(f, "gpt-4o", nil)

	_, err := c.ExplainCode(context.Background(), "x := 1")

	assert.True(t, errors.Is(err, client.ErrRateLimited))
	assert.Contains(t, err.Error(), "explain")
}

func TestDecodeReply_NoJSON(t *testing.T) {
	_, err := decodeReply[Explanation]("I cannot help with that.", schemaFor[Explanation]())

	assert.ErrorIs(t, err, ErrInvalidReply)
}

func TestSchemaFor_RequiredFields(t *testing.T) {
	schema := schemaFor[Solution]()

	assert.ElementsMatch(t, []string{"code", "explanation"}, schema.Required)
}
