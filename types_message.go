package goose

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Content type discriminators used by the server.
const (
	ContentText                    = "text"
	ContentImage                   = "image"
	ContentThinking                = "thinking"
	ContentToolRequest             = "toolRequest"
	ContentToolResponse            = "toolResponse"
	ContentToolConfirmationRequest = "toolConfirmationRequest"
	ContentFrontendToolRequest     = "frontendToolRequest"
	ContentContextLengthExceeded   = "contextLengthExceeded"
)

// ToolConfirmationRequest asks the caller to approve or deny a tool
// invocation before the agent runs it. The backend remains the source of
// truth for whether the tool actually executes; the client only reports a
// decision via Client.Confirm.
type ToolConfirmationRequest struct {
	ID        string         `json:"id"`
	ToolName  string         `json:"toolName"`
	Arguments map[string]any `json:"arguments"`
	Prompt    *string        `json:"prompt,omitempty"`
}

// Content represents one item of a message's content. Use the Type field to
// determine the specific kind; unknown kinds keep their raw payload in Raw.
type Content struct {
	Type string `json:"type"`

	// ContentText fields
	Text string `json:"text,omitempty"`

	// ContentToolConfirmationRequest fields
	ID        string         `json:"id,omitempty"`
	ToolName  string         `json:"toolName,omitempty"`
	Arguments map[string]any `json:"arguments,omitempty"`
	Prompt    *string        `json:"prompt,omitempty"`

	// ContentThinking fields
	Thinking  string `json:"thinking,omitempty"`
	Signature string `json:"signature,omitempty"`

	// ContentToolRequest / ContentToolResponse payloads, passed through
	// undecoded. The confirmation protocol does not need them.
	ToolCall   json.RawMessage `json:"toolCall,omitempty"`
	ToolResult json.RawMessage `json:"toolResult,omitempty"`

	// ContentContextLengthExceeded fields
	Msg string `json:"msg,omitempty"`

	raw json.RawMessage
}

// UnmarshalJSON keeps the original payload alongside the decoded fields so
// that content kinds this package does not model survive a round trip.
func (c *Content) UnmarshalJSON(data []byte) error {
	type content Content
	var decoded content
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*c = Content(decoded)
	c.raw = append(json.RawMessage(nil), data...)
	return nil
}

// Raw returns the undecoded JSON this content item was parsed from, or nil
// for content constructed locally.
func (c *Content) Raw() json.RawMessage {
	return c.raw
}

// IsText returns true if this is a text content item.
func (c *Content) IsText() bool {
	return c.Type == ContentText
}

// IsToolConfirmationRequest returns true if this item asks for a tool
// permission decision.
func (c *Content) IsToolConfirmationRequest() bool {
	return c.Type == ContentToolConfirmationRequest
}

// AsToolConfirmationRequest extracts the confirmation request, or nil if
// this is a different content kind.
func (c *Content) AsToolConfirmationRequest() *ToolConfirmationRequest {
	if !c.IsToolConfirmationRequest() {
		return nil
	}
	return &ToolConfirmationRequest{
		ID:        c.ID,
		ToolName:  c.ToolName,
		Arguments: c.Arguments,
		Prompt:    c.Prompt,
	}
}

// Message is a single conversation turn sent to or received from the agent.
type Message struct {
	ID      *string   `json:"id,omitempty"`
	Role    Role      `json:"role"`
	Created int64     `json:"created"`
	Content []Content `json:"content"`
}

// NewUserMessage creates a user message with a single text content item.
func NewUserMessage(text string) Message {
	return Message{
		ID:      String(uuid.NewString()),
		Role:    RoleUser,
		Created: Now(),
		Content: []Content{{Type: ContentText, Text: text}},
	}
}

// IsUser returns true if this is a user message.
func (m *Message) IsUser() bool {
	return m.Role == RoleUser
}

// IsAssistant returns true if this is an assistant message.
func (m *Message) IsAssistant() bool {
	return m.Role == RoleAssistant
}

// Text concatenates the message's text content items in order.
func (m *Message) Text() string {
	var b strings.Builder
	for i := range m.Content {
		if m.Content[i].IsText() {
			b.WriteString(m.Content[i].Text)
		}
	}
	return b.String()
}

// ConfirmationRequests extracts every tool confirmation request from the
// message's content, preserving order.
func (m *Message) ConfirmationRequests() []*ToolConfirmationRequest {
	var reqs []*ToolConfirmationRequest
	for i := range m.Content {
		if req := m.Content[i].AsToolConfirmationRequest(); req != nil {
			reqs = append(reqs, req)
		}
	}
	return reqs
}
