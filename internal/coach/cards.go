package coach

import "strings"

// CardKind identifies what a card holds.
type CardKind string

const (
	KindRebuttal    CardKind = "rebuttal"
	KindComparison  CardKind = "comparison"
	KindQuestion    CardKind = "question"
	KindExplanation CardKind = "explanation"
	KindCode        CardKind = "code"
	KindFollowUp    CardKind = "follow-up"
)

var titles = map[CardKind]string{
	KindRebuttal:    "Rebuttal",
	KindComparison:  "Comparison",
	KindQuestion:    "Question to ask",
	KindExplanation: "Explanation",
	KindCode:        "Code",
	KindFollowUp:    "Follow-up question",
}

// Title is the heading shown above the card.
func (k CardKind) Title() string {
	if t, ok := titles[k]; ok {
		return t
	}
	return string(k)
}

// Card is one piece of a reply shown on its own.
type Card struct {
	Kind     CardKind
	Content  string
	Language string
}

// Cards returns the rebuttal, comparison and question cards, skipping empty ones.
func (s Suggestions) Cards() []Card {
	return compact([]Card{
		{Kind: KindRebuttal, Content: s.Rebuttal},
		{Kind: KindComparison, Content: s.Comparison},
		{Kind: KindQuestion, Content: s.QuestionToAsk},
	})
}

// Cards returns the explanation, code and follow-up cards, skipping empty ones.
func (s Solution) Cards() []Card {
	return compact([]Card{
		{Kind: KindExplanation, Content: s.Explanation},
		{Kind: KindCode, Content: s.Code, Language: s.Language},
		{Kind: KindFollowUp, Content: s.FollowUpQuestion},
	})
}

// Markdown renders the solution back into a single reply, code fenced.
func (s Solution) Markdown() string {
	var b strings.Builder
	if s.Explanation != "" {
		b.WriteString(s.Explanation)
		b.WriteString("\n\n")
	}
	if s.Code != "" {
		b.WriteString("```")
		b.WriteString(s.Language)
		b.WriteString("\n")
		b.WriteString(s.Code)
		if !strings.HasSuffix(s.Code, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("```\n")
	}
	if s.FollowUpQuestion != "" {
		b.WriteString("\n")
		b.WriteString(s.FollowUpQuestion)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func compact(cards []Card) []Card {
	out := cards[:0]
	for _, c := range cards {
		if strings.TrimSpace(c.Content) != "" {
			out = append(out, c)
		}
	}
	return out
}
