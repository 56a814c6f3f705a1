package goose

import "encoding/json"

// Event types emitted by the reply stream.
const (
	EventMessage      = "Message"
	EventError        = "Error"
	EventFinish       = "Finish"
	EventModelChange  = "ModelChange"
	EventNotification = "Notification"
	EventPing         = "Ping"
)

// Event is one decoded frame of a reply stream. Use the Type field to
// determine the variant; types this package does not model pass through
// with only Type and Raw populated, so new server events never break
// consumers.
type Event struct {
	Type string `json:"type"`

	// EventMessage
	Message *Message `json:"message,omitempty"`

	// EventError
	Error string `json:"error,omitempty"`

	// EventFinish
	Reason string `json:"reason,omitempty"`

	// EventModelChange
	Model string `json:"model,omitempty"`
	Mode  string `json:"mode,omitempty"`

	// Raw is the undecoded frame payload.
	Raw json.RawMessage `json:"-"`
}

// decodeEvent parses one SSE data payload into an Event. It is the single
// place raw JSON becomes typed; every consumption surface shares it.
func decodeEvent(data []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	ev.Raw = append(json.RawMessage(nil), data...)
	return &ev, nil
}

// errorEvent builds a synthetic terminal Error event for transport-level
// failures, so stream consumers see them as data instead of panicking out
// of an iteration loop.
func errorEvent(msg string) *Event {
	return &Event{Type: EventError, Error: msg}
}

// IsTerminal returns true if no further events follow this one.
func (e *Event) IsTerminal() bool {
	return e.Type == EventError || e.Type == EventFinish
}

// Text returns the concatenated text content of a Message event, or "" for
// any other variant.
func (e *Event) Text() string {
	if e.Type != EventMessage || e.Message == nil {
		return ""
	}
	return e.Message.Text()
}

// ConfirmationRequests returns the tool confirmation requests carried by a
// Message event, in content order.
func (e *Event) ConfirmationRequests() []*ToolConfirmationRequest {
	if e.Type != EventMessage || e.Message == nil {
		return nil
	}
	return e.Message.ConfirmationRequests()
}

// ReplyChunk is one element of a confirmation-aware reply stream: either a
// text chunk or a pending tool confirmation request, never both.
type ReplyChunk struct {
	Text         string
	Confirmation *ToolConfirmationRequest
}

// IsConfirmation returns true if the chunk carries a confirmation request.
func (ch ReplyChunk) IsConfirmation() bool {
	return ch.Confirmation != nil
}

// replyChunks flattens a Message event's content into reply chunks,
// preserving the order text and confirmation requests appeared in. Other
// event variants yield nothing.
func replyChunks(e *Event) []ReplyChunk {
	if e.Type != EventMessage || e.Message == nil {
		return nil
	}
	var chunks []ReplyChunk
	for i := range e.Message.Content {
		item := &e.Message.Content[i]
		switch {
		case item.IsToolConfirmationRequest():
			chunks = append(chunks, ReplyChunk{Confirmation: item.AsToolConfirmationRequest()})
		case item.IsText() && item.Text != "":
			chunks = append(chunks, ReplyChunk{Text: item.Text})
		}
	}
	return chunks
}
