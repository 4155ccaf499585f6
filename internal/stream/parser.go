package stream

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

// ChatResponse represents the structure of the response from the chat API.
type ChatResponse struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Process reads server-sent events from body and emits their content. It
// closes both body and the chunk channel when done.
func (p *Parser) Process(body io.ReadCloser) {
	defer close(p.chunks)
	defer body.Close()

	reader := bufio.NewReaderSize(body, 4096)
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	scanner.Split(bufio.ScanLines)

	for {
		if err := p.ctx.Err(); err != nil {
			p.send(Chunk{Error: err})
			return
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				p.send(Chunk{Error: err})
				return
			}
			p.send(Chunk{Done: true})
			return
		}

		line := scanner.Text()
		if line == "" || line == "data: [DONE]" || strings.HasPrefix(line, ":") {
			continue
		}

		data := strings.TrimPrefix(line, "data: ")
		var chunk ChatResponse
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			p.send(Chunk{Error: err})
			return
		}

		if len(chunk.Choices) > 0 {
			content := chunk.Choices[0].Delta.Content
			if content == "" {
				content = chunk.Choices[0].Message.Content
			}
			if content != "" {
				if !p.send(Chunk{Content: content}) {
					return
				}
			}
		}
	}
}

// send delivers c unless the context is cancelled first.
func (p *Parser) send(c Chunk) bool {
	select {
	case p.chunks <- c:
		return true
	case <-p.ctx.Done():
		return false
	}
}
