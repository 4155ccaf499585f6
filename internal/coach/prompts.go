package coach

import (
	"fmt"
	"strings"
	"text/template"
)

var (
	objectionPrompt = template.Must(template.New("objection").Parse(
		`You are coaching a candidate through a live job interview. The interviewer just said:

"{{.Objection}}"

Role: {{or .Role "not provided"}}
Job description: {{or .JobDescription "not provided"}}
Resume: {{or .Resume .ResumeURL "not provided"}}

Suggest a short rebuttal the candidate can say out loud, a comparison with a competing product, technology or approach that plays to the candidate's strengths, and one question to ask the interviewer back.`))

	solvePrompt = template.Must(template.New("solve").Parse(
		`Solve the coding problem shown in the attached screenshots{{if .Prompt}} following these instructions: {{.Prompt}}{{end}}.
Write a correct, efficient solution, explain it step by step, and suggest one follow-up question an interviewer is likely to ask about it.`))

	codePrompt = template.Must(template.New("code").Parse(
		`Write only the code that solves the coding problem shown in the attached screenshots.{{if .Prompt}}
Instructions: {{.Prompt}}{{end}}`))

	customPrompt = template.Must(template.New("custom").Parse(
		`{{.Prompt}}{{if .HasImages}}

Use the attached screenshots as the primary source for the problem.{{end}}
Put all code in fenced markdown code blocks tagged with their language, and explain it briefly outside the blocks.`))

	explainPrompt = template.Must(template.New("explain").Parse(
		`Explain what the following code does, how it works and its time and space complexity:

{{.Code}}`))
)

const systemPrompt = "You are an expert software engineer and interview coach. Answers are read live, so keep them short and concrete."

func render(tmpl *template.Template, data any) (string, error) {
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
