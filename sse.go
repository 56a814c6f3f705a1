package goose

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
)

// EventStream is a single traversal over one reply stream. Recv blocks until
// the next frame arrives and returns io.EOF once the stream is exhausted.
// The underlying connection stays open for the duration of iteration and is
// released when the stream ends, errors, or is closed early; callers that
// break out of a Recv loop must call Close.
//
// Transport failures after setup never surface as Go errors: the stream
// yields one synthetic Error event and then ends. Frames that fail JSON
// decoding are logged and skipped.
type EventStream struct {
	resp   *http.Response
	reader *bufio.Reader
	ctx    context.Context
	cancel context.CancelFunc
	logger *Logger

	done      bool
	closeOnce sync.Once
}

func newEventStream(ctx context.Context, resp *http.Response, cancel context.CancelFunc, logger *Logger) *EventStream {
	if cancel == nil {
		cancel = func() {}
	}
	return &EventStream{
		resp:   resp,
		reader: bufio.NewReader(resp.Body),
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
}

// Recv returns the next event. It returns io.EOF when the server closes the
// stream, after a terminal Error or Finish event has been delivered, or
// after Close.
func (s *EventStream) Recv() (*Event, error) {
	if s.done {
		return nil, io.EOF
	}

	for {
		data, err := s.readFrame()
		if err != nil {
			s.finish()
			// The transport wraps context errors inconsistently, so ask
			// the stream's own context what happened.
			ctxErr := s.ctx.Err()
			switch {
			case errors.Is(err, io.EOF) && ctxErr == nil:
				return nil, io.EOF
			case errors.Is(ctxErr, context.Canceled):
				return nil, io.EOF
			case errors.Is(ctxErr, context.DeadlineExceeded):
				s.logger.Error("reply stream timed out")
				return errorEvent("stream timeout: " + ctxErr.Error()), nil
			default:
				s.logger.Error("reply stream read failed", "error", err)
				return errorEvent("stream error: " + err.Error()), nil
			}
		}

		ev, err := decodeEvent(data)
		if err != nil {
			s.logger.Warn("skipping malformed stream frame", "error", err)
			continue
		}

		s.logger.Debug("received stream event", "type", ev.Type)
		if ev.IsTerminal() {
			s.finish()
		}
		return ev, nil
	}
}

// readFrame reads one SSE frame and returns its data payload. Multi-line
// data fields are joined with newlines; event/id/retry fields and comment
// lines are skipped.
func (s *EventStream) readFrame() ([]byte, error) {
	var data []string
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			// A final frame without its trailing blank line still counts.
			if errors.Is(err, io.EOF) && len(data) > 0 {
				return []byte(strings.Join(data, "\n")), nil
			}
			return nil, err
		}

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if len(data) == 0 {
				continue
			}
			return []byte(strings.Join(data, "\n")), nil
		}
		if strings.HasPrefix(line, ":") {
			continue
		}
		if after, ok := strings.CutPrefix(line, "data:"); ok {
			data = append(data, strings.TrimPrefix(after, " "))
		}
	}
}

// finish marks the stream exhausted and releases the connection.
func (s *EventStream) finish() {
	s.done = true
	s.close()
}

// Close releases the underlying connection. It is idempotent and safe to
// call at any point; subsequent Recv calls return io.EOF.
func (s *EventStream) Close() error {
	s.done = true
	s.close()
	return nil
}

func (s *EventStream) close() {
	s.closeOnce.Do(func() {
		s.cancel()
		if s.resp != nil && s.resp.Body != nil {
			_ = s.resp.Body.Close()
		}
	})
}
