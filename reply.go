package goose

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// streamChanBuffer is the capacity of the channels returned by the Chan
// stream variants. The pump goroutine keeps draining the HTTP connection
// while the consumer lags by up to this many elements.
const streamChanBuffer = 100

// StreamReply sends the message history to a session and returns the raw
// event stream. This is the richest surface: every event variant passes
// through, including ones this package does not model. Failures before any
// event is produced (bad URL, refused connection, non-2xx status, wrong
// content type) are returned as errors; everything after that point is the
// stream's business.
func (c *Client) StreamReply(ctx context.Context, sessionID string, messages []Message) (*EventStream, error) {
	cancel := func() {}
	if c.streamTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.streamTimeout)
	}

	body := ChatRequest{Messages: messages, SessionID: sessionID}
	req, err := c.newRequest(ctx, http.MethodPost, "/reply", body)
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	// A timeout-free client: the REST client's timeout would cut long
	// streams short. The configured transport still applies.
	sseClient := &http.Client{Transport: c.httpClient.Transport}
	resp, err := sseClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode >= 400 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(bodyBytes))
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(strings.ToLower(ct), "text/event-stream") {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("unexpected content type %q", ct)
	}

	c.logger.Debug("reply stream opened", "session_id", sessionID)
	return newEventStream(ctx, resp, cancel, c.logger), nil
}

// StreamReplyChan is the channel form of StreamReply. The returned channel
// is closed after the terminal event, on natural stream closure, or when ctx
// is cancelled; cancellation also releases the connection.
func (c *Client) StreamReplyChan(ctx context.Context, sessionID string, messages []Message) (<-chan *Event, error) {
	stream, err := c.StreamReply(ctx, sessionID, messages)
	if err != nil {
		return nil, err
	}

	eventCh := make(chan *Event, streamChanBuffer)
	go func() {
		defer close(eventCh)
		defer stream.Close()

		for {
			ev, err := stream.Recv()
			if err != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			case eventCh <- ev:
			}
		}
	}()
	return eventCh, nil
}

// TextStream narrows a reply stream to its text: Recv yields one string per
// Message event and io.EOF on completion. A stream that ended because of an
// Error event or transport failure still just ends; Err distinguishes the
// two outcomes afterwards.
type TextStream struct {
	events *EventStream
	err    error
}

// Recv returns the next text chunk, or io.EOF when the reply is over.
func (t *TextStream) Recv() (string, error) {
	for {
		ev, err := t.events.Recv()
		if err != nil {
			return "", io.EOF
		}
		switch ev.Type {
		case EventMessage:
			if text := ev.Text(); text != "" {
				return text, nil
			}
		case EventError:
			t.err = errors.New(ev.Error)
			return "", io.EOF
		case EventFinish:
			return "", io.EOF
		}
	}
}

// Err reports why the stream ended: nil after a Finish event or natural
// closure, otherwise the protocol or transport error.
func (t *TextStream) Err() error {
	return t.err
}

// Close releases the underlying connection early.
func (t *TextStream) Close() error {
	return t.events.Close()
}

// StreamText sends the message history and streams the reply's text.
func (c *Client) StreamText(ctx context.Context, sessionID string, messages []Message) (*TextStream, error) {
	stream, err := c.StreamReply(ctx, sessionID, messages)
	if err != nil {
		return nil, err
	}
	return &TextStream{events: stream}, nil
}

// StreamTextChan is the channel form of StreamText. The TextStream handle is
// returned alongside the channel so Err can be consulted once it closes.
func (c *Client) StreamTextChan(ctx context.Context, sessionID string, messages []Message) (<-chan string, *TextStream, error) {
	stream, err := c.StreamText(ctx, sessionID, messages)
	if err != nil {
		return nil, nil, err
	}

	textCh := make(chan string, streamChanBuffer)
	go func() {
		defer close(textCh)
		defer stream.Close()

		for {
			chunk, err := stream.Recv()
			if err != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			case textCh <- chunk:
			}
		}
	}()
	return textCh, stream, nil
}

// ReplyOptions configures confirmation-aware streaming.
type ReplyOptions struct {
	// AutoConfirm, when non-empty, answers every tool confirmation request
	// with this action immediately instead of yielding it to the caller.
	AutoConfirm Action
}

// ReplyStream interleaves text chunks and tool confirmation requests in the
// order the backend emitted them. Yielded confirmation requests do not pause
// the stream; the caller answers them out of band via Client.Confirm while
// continuing to Recv.
type ReplyStream struct {
	client      *Client
	events      *EventStream
	ctx         context.Context
	sessionID   string
	autoConfirm Action
	pending     []ReplyChunk
	err         error
}

// Recv returns the next text chunk or confirmation request, or io.EOF when
// the reply is over.
func (r *ReplyStream) Recv() (ReplyChunk, error) {
	for {
		if len(r.pending) > 0 {
			chunk := r.pending[0]
			r.pending = r.pending[1:]
			if chunk.IsConfirmation() && r.autoConfirm != "" {
				r.client.Confirm(r.ctx, chunk.Confirmation.ID, r.autoConfirm, r.sessionID)
				r.client.logger.Debug("auto-confirmed tool",
					"tool", chunk.Confirmation.ToolName, "action", r.autoConfirm)
				continue
			}
			return chunk, nil
		}

		ev, err := r.events.Recv()
		if err != nil {
			return ReplyChunk{}, io.EOF
		}
		switch ev.Type {
		case EventMessage:
			r.pending = replyChunks(ev)
		case EventError:
			r.err = errors.New(ev.Error)
			return ReplyChunk{}, io.EOF
		case EventFinish:
			return ReplyChunk{}, io.EOF
		}
	}
}

// Err reports why the stream ended, as in TextStream.Err.
func (r *ReplyStream) Err() error {
	return r.err
}

// Close releases the underlying connection early.
func (r *ReplyStream) Close() error {
	return r.events.Close()
}

// StreamWithConfirmations sends the message history and streams the reply
// with tool confirmation requests surfaced as first-class elements. opts may
// be nil, which yields every confirmation request to the caller.
func (c *Client) StreamWithConfirmations(ctx context.Context, sessionID string, messages []Message, opts *ReplyOptions) (*ReplyStream, error) {
	stream, err := c.StreamReply(ctx, sessionID, messages)
	if err != nil {
		return nil, err
	}
	r := &ReplyStream{
		client:    c,
		events:    stream,
		ctx:       ctx,
		sessionID: sessionID,
	}
	if opts != nil {
		r.autoConfirm = opts.AutoConfirm
	}
	return r, nil
}

// StreamWithConfirmationsChan is the channel form of StreamWithConfirmations.
// The pump goroutine keeps draining the HTTP connection while the consumer
// deliberates over a pending confirmation, up to the channel's buffer.
func (c *Client) StreamWithConfirmationsChan(ctx context.Context, sessionID string, messages []Message, opts *ReplyOptions) (<-chan ReplyChunk, *ReplyStream, error) {
	stream, err := c.StreamWithConfirmations(ctx, sessionID, messages, opts)
	if err != nil {
		return nil, nil, err
	}

	chunkCh := make(chan ReplyChunk, streamChanBuffer)
	go func() {
		defer close(chunkCh)
		defer stream.Close()

		for {
			chunk, err := stream.Recv()
			if err != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			case chunkCh <- chunk:
			}
		}
	}()
	return chunkCh, stream, nil
}

// Confirm reports a decision on a tool confirmation request. Confirmation is
// best-effort from the client's perspective: any transport or HTTP failure
// is logged and reported as false, never raised, so a dropped decision
// cannot crash a loop over pending requests. Sending a second decision for
// the same id is safe here; the backend arbitrates duplicates.
func (c *Client) Confirm(ctx context.Context, confirmationID string, action Action, sessionID string) bool {
	body := ConfirmationRequestBody{
		ID:            confirmationID,
		PrincipalType: PrincipalTool,
		Action:        action,
		SessionID:     sessionID,
	}
	if err := c.doRequest(ctx, http.MethodPost, "/confirm", body, nil); err != nil {
		c.logger.Error("confirmation failed",
			"id", confirmationID, "action", action, "error", err)
		return false
	}
	c.logger.Info("confirmed permission", "id", confirmationID, "action", action)
	return true
}

// Chat sends a text message and collects the complete reply. An Error event
// is returned as a Go error since there is no stream for it to end.
func (c *Client) Chat(ctx context.Context, sessionID, text string) (string, error) {
	stream, err := c.StreamText(ctx, sessionID, []Message{NewUserMessage(text)})
	if err != nil {
		return "", err
	}
	defer stream.Close()

	var b strings.Builder
	for {
		chunk, err := stream.Recv()
		if err != nil {
			break
		}
		b.WriteString(chunk)
	}
	if err := stream.Err(); err != nil {
		return "", fmt.Errorf("reply failed: %w", err)
	}
	return b.String(), nil
}
