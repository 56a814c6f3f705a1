package goose

// Action is a decision on a tool confirmation request.
type Action string

const (
	// ActionAllowOnce permits this tool call only.
	ActionAllowOnce Action = "allow_once"
	// ActionAlwaysAllow permits this tool for the rest of the session.
	ActionAlwaysAllow Action = "always_allow"
	// ActionDeny rejects the tool call.
	ActionDeny Action = "deny"
)

// PrincipalTool is the principal type for tool confirmations. It is the only
// principal the confirmation endpoint currently arbitrates.
const PrincipalTool = "Tool"

// ChatRequest is the request body for POST /reply.
type ChatRequest struct {
	Messages      []Message `json:"messages"`
	SessionID     string    `json:"session_id"`
	RecipeName    *string   `json:"recipe_name,omitempty"`
	RecipeVersion *string   `json:"recipe_version,omitempty"`
}

// ConfirmationRequestBody is the request body for POST /confirm.
type ConfirmationRequestBody struct {
	ID            string `json:"id"`
	PrincipalType string `json:"principalType"`
	Action        Action `json:"action"`
	SessionID     string `json:"sessionId"`
}

// StartAgentRequest is the request body for starting a new session.
type StartAgentRequest struct {
	WorkingDir string `json:"working_dir"`
}
