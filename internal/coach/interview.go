package coach

import (
	"errors"
	"fmt"
	"strings"

	"github.com/markis/gh-coach/internal/image"
)

// MaxImages is the number of screenshots one request may carry.
const MaxImages = 3

var (
	// ErrMissingContext means the interview form is incomplete.
	ErrMissingContext = errors.New("missing interview context")

	// ErrEmptyInput means neither a prompt nor a screenshot was given.
	ErrEmptyInput = errors.New("a prompt or a screenshot is required")

	// ErrNoImage means the request variant needs at least one screenshot.
	ErrNoImage = errors.New("a screenshot is required")

	// ErrTooManyImages means more than MaxImages screenshots were given.
	ErrTooManyImages = fmt.Errorf("at most %d screenshots are allowed", MaxImages)

	// ErrInvalidReply means the model's reply did not match the requested schema.
	ErrInvalidReply = errors.New("reply does not match schema")
)

// Interview is the context the candidate fills in before the interview.
type Interview struct {
	Role           string
	JobDescription string
	Resume         string
	ResumeURL      string
}

// Validate requires the role, the job description and a resume either as
// text or as a URL.
func (iv Interview) Validate() error {
	var missing []string
	if strings.TrimSpace(iv.Role) == "" {
		missing = append(missing, "role")
	}
	if strings.TrimSpace(iv.JobDescription) == "" {
		missing = append(missing, "job description")
	}
	if strings.TrimSpace(iv.Resume) == "" && strings.TrimSpace(iv.ResumeURL) == "" {
		missing = append(missing, "resume or resume URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingContext, strings.Join(missing, ", "))
	}
	return nil
}

// Input is a free-form request: instructions and screenshots.
type Input struct {
	Prompt string
	Images []image.Image
}

func (in Input) validate() error {
	if strings.TrimSpace(in.Prompt) == "" && len(in.Images) == 0 {
		return ErrEmptyInput
	}
	if len(in.Images) > MaxImages {
		return ErrTooManyImages
	}
	return nil
}
