package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/cli/go-gh/v2/pkg/markdown"

	"github.com/markis/gh-coach/internal/stream"
)

type TerminalRenderer struct {
	out       io.Writer
	markdown  *glamour.TermRenderer
	plainText bool
	buffer    strings.Builder
	written   strings.Builder
}

func NewTerminalRenderer(out io.Writer, usePlainText bool, wrap int) *TerminalRenderer {
	var md *glamour.TermRenderer
	if !usePlainText {
		md, _ = glamour.NewTermRenderer(
			markdown.WithWrap(wrap),
			glamour.WithAutoStyle(),
		)
	}

	return &TerminalRenderer{
		out:       out,
		markdown:  md,
		plainText: usePlainText || md == nil,
	}
}

// Render prints chunks as they arrive, flushing at paragraph breaks so
// markdown is rendered in complete blocks.
func (t *TerminalRenderer) Render(chunks <-chan stream.Chunk) error {
	for chunk := range chunks {
		if chunk.Error != nil {
			return fmt.Errorf("stream error: %w", chunk.Error)
		}

		t.written.WriteString(chunk.Content)
		t.buffer.WriteString(chunk.Content)
		content := t.buffer.String()

		if idx := findMarkdownBreakPoint(content); idx > 0 {
			if err := t.renderContent(content[:idx]); err != nil {
				return err
			}
			// Reset buffer with remaining content
			remaining := content[idx:]
			t.buffer.Reset()
			t.buffer.WriteString(remaining)
		}
	}

	// Render any remaining content
	if remaining := t.buffer.String(); remaining != "" {
		if err := t.renderContent(remaining); err != nil {
			return err
		}
	}

	fmt.Fprintln(t.out)
	return nil
}

// Markdown renders a complete document.
func (t *TerminalRenderer) Markdown(content string) error {
	t.written.WriteString(content)
	if err := t.renderContent(content); err != nil {
		return err
	}
	fmt.Fprintln(t.out)
	return nil
}

// Text returns everything rendered so far, unformatted.
func (t *TerminalRenderer) Text() string {
	return t.written.String()
}

func (t *TerminalRenderer) renderContent(content string) error {
	if t.plainText {
		fmt.Fprint(t.out, content)
		return nil
	}

	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "#") {
		fmt.Fprintln(t.out)
	}

	mdContent, err := t.markdown.Render(content)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}

	fmt.Fprintln(t.out, strings.TrimSpace(mdContent))
	return nil
}

// findMarkdownBreakPoint returns the index just past the last blank line, or
// -1. A break inside an open code fence is not a break.
func findMarkdownBreakPoint(content string) int {
	const marker string = "\n\n"
	idx := strings.LastIndex(content, marker)
	if idx < 0 {
		return -1
	}
	if strings.Count(content[:idx], "```")%2 == 1 {
		return -1
	}
	return idx + len(marker)
}
