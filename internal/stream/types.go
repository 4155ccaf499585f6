package stream

import (
	"context"
	"strings"
)

// Chunk represents a processed piece of content from the stream
type Chunk struct {
	Content string
	Done    bool
	Error   error
}

// Parser handles the processing of raw stream data into chunks
type Parser struct {
	ctx    context.Context
	chunks chan Chunk
}

func NewParser(ctx context.Context) *Parser {
	return &Parser{
		ctx:    ctx,
		chunks: make(chan Chunk),
	}
}

func (p *Parser) Chunks() <-chan Chunk {
	return p.chunks
}

// Collect drains chunks into a single string, stopping at the first error.
func Collect(chunks <-chan Chunk) (string, error) {
	var buf strings.Builder
	for chunk := range chunks {
		if chunk.Error != nil {
			// Drain so the producer can finish.
			for range chunks {
			}
			return buf.String(), chunk.Error
		}
		buf.WriteString(chunk.Content)
	}
	return buf.String(), nil
}
