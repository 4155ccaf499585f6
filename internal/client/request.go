package client

import (
	"encoding/json"
	"strings"
)

// Role is the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn. Images are data URIs attached after the text.
type Message struct {
	Role   Role
	Text   string
	Images []string
}

// Request is a chat completion request.
type Request struct {
	Model    string
	Messages []Message
}

// HasImages reports whether any message carries an image.
func (r Request) HasImages() bool {
	for _, m := range r.Messages {
		if len(m.Images) > 0 {
			return true
		}
	}
	return false
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

// MarshalJSON encodes text-only messages with a plain string content and
// messages with images as a list of content parts.
func (m Message) MarshalJSON() ([]byte, error) {
	if len(m.Images) == 0 {
		return json.Marshal(map[string]any{
			"role":    m.Role,
			"content": m.Text,
		})
	}

	parts := make([]contentPart, 0, len(m.Images)+1)
	if m.Text != "" {
		parts = append(parts, contentPart{Type: "text", Text: m.Text})
	}
	for _, uri := range m.Images {
		parts = append(parts, contentPart{Type: "image_url", ImageURL: &imageURL{URL: uri}})
	}
	return json.Marshal(map[string]any{
		"role":    m.Role,
		"content": parts,
	})
}

// prepareInput prepares chat input for Copilot API
func prepareInput(req Request) map[string]any {
	isOpenAIModel := strings.HasPrefix(req.Model, "o1")

	payload := make(map[string]any, 5)
	payload["messages"] = req.Messages
	payload["model"] = req.Model

	// o1 models reject sampling parameters and streaming
	if !isOpenAIModel {
		payload["n"] = 1
		payload["top_p"] = 1
		payload["stream"] = true
	}

	return payload
}
