// Package response splits a raw model reply into its code and its prose.
//
// A fenced block is a run of text between two matching ``` markers. The opening
// marker may carry a language tag followed by a line break. An opening marker
// with no closing marker is not a block and stays in the prose.
//
//	resp := response.Parse(reply)
//	fmt.Println(resp.Explanation)
//	fmt.Println(resp.Code)
package response

import (
	"regexp"
	"strings"
)

// blockSeparator joins the contents of consecutive fenced blocks.
const blockSeparator = "\n\n"

// fenceRegex matches one fenced block. Group 1 is the language tag, group 2 the body.
var fenceRegex = regexp.MustCompile("(?s)```(?:([\\w+#.-]*)\\n)?(.*?)```")

// Block is a single fenced code block.
type Block struct {
	// Language is the tag after the opening fence, empty when absent.
	Language string

	// Content is the body between the fences, without the tag line.
	Content string

	// Raw is the complete block including both fences.
	Raw string
}

// Response is a model reply split into code and explanation.
type Response struct {
	// Code is the content of every block joined by a blank line.
	Code string

	// Explanation is the reply with every block removed, trimmed.
	Explanation string

	// Blocks holds the individual blocks in order of appearance.
	Blocks []Block
}

// Parse splits raw into its fenced blocks and the remaining prose.
func Parse(raw string) Response {
	blocks := extractBlocks(raw)

	contents := make([]string, 0, len(blocks))
	for _, b := range blocks {
		contents = append(contents, b.Content)
	}

	return Response{
		Code:        strings.Join(contents, blockSeparator),
		Explanation: ExtractExplanation(raw),
		Blocks:      blocks,
	}
}

// ExtractCode returns the contents of every fenced block in raw, in order,
// joined by a blank line. It returns "" when raw holds no complete block.
func ExtractCode(raw string) string {
	return Parse(raw).Code
}

// ExtractExplanation returns raw with every fenced block removed and the
// surrounding whitespace trimmed.
func ExtractExplanation(raw string) string {
	return strings.TrimSpace(fenceRegex.ReplaceAllLiteralString(raw, ""))
}

// HasCode reports whether raw contains at least one complete fenced block.
func HasCode(raw string) bool {
	return fenceRegex.MatchString(raw)
}

func extractBlocks(raw string) []Block {
	matches := fenceRegex.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return nil
	}

	blocks := make([]Block, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, Block{
			Language: m[1],
			Content:  m[2],
			Raw:      m[0],
		})
	}
	return blocks
}
