// Package goose provides a Go client for the goose agent server.
//
// The client wraps the server's REST surface (sessions, health, tools) and
// its streaming reply protocol: POST /reply returns a server-sent-events
// stream of typed events, and tool permission decisions travel out-of-band
// through POST /confirm.
//
// Example usage:
//
//	client := goose.NewClient("http://localhost:3000", "my-secret")
//
//	// Create a session
//	session, err := client.StartSession(ctx, "/tmp")
//
//	// Stream a reply as text
//	stream, err := client.StreamText(ctx, session.ID, []goose.Message{
//	    goose.NewUserMessage("Hello!"),
//	})
//	defer stream.Close()
//	for {
//	    chunk, err := stream.Recv()
//	    if err == io.EOF {
//	        break
//	    }
//	    fmt.Print(chunk)
//	}
package goose

import "time"

// String creates a string pointer (helper for optional fields).
func String(s string) *string {
	return &s
}

// Bool creates a bool pointer (helper for optional fields).
func Bool(b bool) *bool {
	return &b
}

// Int creates an int pointer (helper for optional fields).
func Int(i int) *int {
	return &i
}

// Now returns the current time as a Unix timestamp in seconds.
func Now() int64 {
	return time.Now().Unix()
}
