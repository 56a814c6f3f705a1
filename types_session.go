package goose

import "encoding/json"

// Session represents an agent session on the server. The ID is the handle
// every reply stream and confirmation decision is scoped to.
type Session struct {
	ID           string `json:"id"`
	WorkingDir   string `json:"working_dir,omitempty"`
	Description  string `json:"description,omitempty"`
	MessageCount int    `json:"message_count,omitempty"`
	Created      int64  `json:"created,omitempty"`
	Updated      int64  `json:"updated,omitempty"`
}

// SessionListResponse is the response body for listing sessions.
type SessionListResponse struct {
	Sessions []Session `json:"sessions"`
}

// Tool describes a tool the agent can call in a session.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
}
