package goose_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goosehq/goose-go"
)

func recvAll(t *testing.T, stream *goose.EventStream) []*goose.Event {
	t.Helper()
	var events []*goose.Event
	for {
		ev, err := stream.Recv()
		if err == io.EOF {
			return events
		}
		require.NoError(t, err)
		events = append(events, ev)
	}
}

func TestEventStreamDecodesFramesInOrder(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	srv.setReply(
		messageFrame(t, assistantText("one")),
		messageFrame(t, assistantText("two")),
		messageFrame(t, assistantText("three")),
		finishFrame,
	)

	client := srv.client()
	stream, err := client.StreamReply(context.Background(), "sess_1", []goose.Message{goose.NewUserMessage("hi")})
	require.NoError(t, err)
	defer stream.Close()

	events := recvAll(t, stream)
	require.Len(t, events, 4)
	assert.Equal(t, "one", events[0].Text())
	assert.Equal(t, "two", events[1].Text())
	assert.Equal(t, "three", events[2].Text())
	assert.Equal(t, goose.EventFinish, events[3].Type)
	assert.Equal(t, "stop", events[3].Reason)
}

func TestEventStreamSkipsMalformedFrames(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	srv.setReply(
		messageFrame(t, assistantText("before")),
		"data: {not valid json\n\n",
		messageFrame(t, assistantText("after")),
		finishFrame,
	)

	client := srv.client()
	stream, err := client.StreamReply(context.Background(), "sess_1", nil)
	require.NoError(t, err)
	defer stream.Close()

	events := recvAll(t, stream)
	require.Len(t, events, 3)
	assert.Equal(t, "before", events[0].Text())
	assert.Equal(t, "after", events[1].Text())
	assert.Equal(t, goose.EventFinish, events[2].Type)
}

func TestEventStreamMultiLineData(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	// One logical frame split across two data lines, per the SSE spec.
	srv.setReply(
		"data: {\"type\":\"Finish\",\n"+
			"data: \"reason\":\"stop\"}\n\n",
	)

	client := srv.client()
	stream, err := client.StreamReply(context.Background(), "sess_1", nil)
	require.NoError(t, err)
	defer stream.Close()

	events := recvAll(t, stream)
	require.Len(t, events, 1)
	assert.Equal(t, goose.EventFinish, events[0].Type)
	assert.Equal(t, "stop", events[0].Reason)
}

func TestEventStreamSkipsCommentsAndBlankLines(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	srv.setReply(
		": keepalive\n\n",
		"\n\n",
		messageFrame(t, assistantText("hello")),
		finishFrame,
	)

	client := srv.client()
	stream, err := client.StreamReply(context.Background(), "sess_1", nil)
	require.NoError(t, err)
	defer stream.Close()

	events := recvAll(t, stream)
	require.Len(t, events, 2)
	assert.Equal(t, "hello", events[0].Text())
}

func TestEventStreamUnknownEventPassthrough(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	srv.setReply(
		"data: {\"type\":\"SomethingNew\",\"payload\":{\"x\":1}}\n\n",
		"data: {\"type\":\"Ping\"}\n\n",
		finishFrame,
	)

	client := srv.client()
	stream, err := client.StreamReply(context.Background(), "sess_1", nil)
	require.NoError(t, err)
	defer stream.Close()

	events := recvAll(t, stream)
	require.Len(t, events, 3)
	assert.Equal(t, "SomethingNew", events[0].Type)
	assert.JSONEq(t, `{"type":"SomethingNew","payload":{"x":1}}`, string(events[0].Raw))
	assert.Equal(t, goose.EventPing, events[1].Type)
}

func TestEventStreamNaturalClosure(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	// No Finish event: the server just closes the connection.
	srv.setReply(messageFrame(t, assistantText("partial")))

	client := srv.client()
	stream, err := client.StreamReply(context.Background(), "sess_1", nil)
	require.NoError(t, err)
	defer stream.Close()

	ev, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, "partial", ev.Text())

	_, err = stream.Recv()
	assert.Equal(t, io.EOF, err)

	// Recv after exhaustion stays at EOF.
	_, err = stream.Recv()
	assert.Equal(t, io.EOF, err)
}

func TestEventStreamRecvAfterClose(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	srv.setReply(
		messageFrame(t, assistantText("one")),
		messageFrame(t, assistantText("two")),
		finishFrame,
	)

	client := srv.client()
	stream, err := client.StreamReply(context.Background(), "sess_1", nil)
	require.NoError(t, err)

	_, err = stream.Recv()
	require.NoError(t, err)

	require.NoError(t, stream.Close())
	_, err = stream.Recv()
	assert.Equal(t, io.EOF, err)
}
