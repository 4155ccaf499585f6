// Package coach turns interview moments into model requests and decodes the
// structured replies.
package coach

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/markis/gh-coach/internal/client"
	"github.com/markis/gh-coach/internal/image"
	"github.com/markis/gh-coach/internal/response"
)

// Completer is the completion service.
type Completer interface {
	Complete(ctx context.Context, req client.Request) (string, error)
}

// Suggestions answer an interviewer's objection.
type Suggestions struct {
	Rebuttal      string `json:"rebuttal" jsonschema_description:"A direct response or rebuttal to the objection."`
	Comparison    string `json:"comparison" jsonschema_description:"A relevant comparison to a competitor or alternative."`
	QuestionToAsk string `json:"questionToAsk" jsonschema_description:"A clarifying or insightful question to ask back to the interviewer."`
}

// Solution is code with its explanation.
type Solution struct {
	Code             string `json:"code" jsonschema_description:"The code solution, without markdown fences."`
	Explanation      string `json:"explanation" jsonschema_description:"A step by step explanation of the code."`
	FollowUpQuestion string `json:"followUpQuestion,omitempty" jsonschema_description:"A follow-up question the interviewer is likely to ask."`
	Language         string `json:"language,omitempty" jsonschema_description:"The programming language of the code."`
}

// GeneratedCode is code without commentary.
type GeneratedCode struct {
	Code string `json:"code" jsonschema_description:"The generated code solution for the problem in the screenshot."`
}

// Explanation explains a piece of code.
type Explanation struct {
	Explanation string `json:"explanation" jsonschema_description:"The explanation of the code."`
}

// CustomCode is a free-form markdown reply.
type CustomCode struct {
	GeneratedCode string
}

// Solution splits the markdown reply into code and explanation.
func (c CustomCode) Solution() Solution {
	resp := response.Parse(c.GeneratedCode)
	sol := Solution{Code: resp.Code, Explanation: resp.Explanation}
	if len(resp.Blocks) > 0 {
		sol.Language = resp.Blocks[0].Language
	}
	return sol
}

// Coach issues the request variants against a Completer.
type Coach struct {
	completer Completer
	model     string
	logger    *slog.Logger
}

// New creates a Coach using model for every request.
func New(completer Completer, model string, logger *slog.Logger) *Coach {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coach{completer: completer, model: model, logger: logger}
}

// HandleObjection suggests how to answer what the interviewer just said.
func (c *Coach) HandleObjection(ctx context.Context, iv Interview, objection string) (Suggestions, error) {
	objection = strings.TrimSpace(objection)
	if objection == "" {
		return Suggestions{}, ErrEmptyInput
	}

	prompt, err := render(objectionPrompt, struct {
		Interview
		Objection string
	}{iv, objection})
	if err != nil {
		return Suggestions{}, err
	}

	return completeStructured[Suggestions](ctx, c, "objection", prompt, nil)
}

// CodeAndExplanation solves the problem in the screenshots and explains it.
func (c *Coach) CodeAndExplanation(ctx context.Context, in Input) (Solution, error) {
	if err := in.validate(); err != nil {
		return Solution{}, err
	}

	prompt, err := render(solvePrompt, in)
	if err != nil {
		return Solution{}, err
	}

	sol, err := completeStructured[Solution](ctx, c, "solve", prompt, in.Images)
	if err != nil {
		return Solution{}, err
	}
	sol.Code = unfence(sol.Code)
	return sol, nil
}

// CodeFromScreenshot returns only the code solving the screenshots.
func (c *Coach) CodeFromScreenshot(ctx context.Context, in Input) (GeneratedCode, error) {
	if len(in.Images) == 0 {
		return GeneratedCode{}, ErrNoImage
	}
	if err := in.validate(); err != nil {
		return GeneratedCode{}, err
	}

	prompt, err := render(codePrompt, in)
	if err != nil {
		return GeneratedCode{}, err
	}

	code, err := completeStructured[GeneratedCode](ctx, c, "code", prompt, in.Images)
	if err != nil {
		return GeneratedCode{}, err
	}
	code.Code = unfence(code.Code)
	return code, nil
}

// CustomCode answers free instructions with markdown.
func (c *Coach) CustomCode(ctx context.Context, in Input) (CustomCode, error) {
	if err := in.validate(); err != nil {
		return CustomCode{}, err
	}

	prompt, err := render(customPrompt, struct {
		Prompt    string
		HasImages bool
	}{in.Prompt, len(in.Images) > 0})
	if err != nil {
		return CustomCode{}, err
	}

	text, err := c.complete(ctx, "custom", systemPrompt, prompt, in.Images)
	if err != nil {
		return CustomCode{}, err
	}
	return CustomCode{GeneratedCode: text}, nil
}

// ExplainCode explains a block of code.
func (c *Coach) ExplainCode(ctx context.Context, code string) (Explanation, error) {
	if strings.TrimSpace(code) == "" {
		return Explanation{}, ErrEmptyInput
	}

	prompt, err := render(explainPrompt, struct{ Code string }{code})
	if err != nil {
		return Explanation{}, err
	}

	return completeStructured[Explanation](ctx, c, "explain", prompt, nil)
}

func (c *Coach) complete(ctx context.Context, flow, system, prompt string, images []image.Image) (string, error) {
	req := client.Request{
		Model: c.model,
		Messages: []client.Message{
			{Role: client.RoleSystem, Text: system},
			{Role: client.RoleUser, Text: prompt, Images: image.DataURIs(images)},
		},
	}

	c.logger.Debug("running flow", "flow", flow, "model", c.model, "images", len(images))
	text, err := c.completer.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", flow, err)
	}
	return text, nil
}

func completeStructured[T any](ctx context.Context, c *Coach, flow, prompt string, images []image.Image) (T, error) {
	var zero T

	schema := schemaFor[T]()
	instructions, err := schemaInstructions(schema)
	if err != nil {
		return zero, err
	}

	text, err := c.complete(ctx, flow, systemPrompt+"\n\n"+instructions, prompt, images)
	if err != nil {
		return zero, err
	}

	out, err := decodeReply[T](text, schema)
	if err != nil {
		c.logger.Debug("undecodable reply", "flow", flow, "reply", text)
		return zero, fmt.Errorf("%s: %w", flow, err)
	}
	return out, nil
}

// unfence strips markdown fences a model put around a code field anyway.
func unfence(code string) string {
	if response.HasCode(code) {
		return response.ExtractCode(code)
	}
	return code
}

