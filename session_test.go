package goose_test

import (
	"context"
	"testing"
)

func TestSessionOperations(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	client := srv.client()
	ctx := context.Background()

	t.Run("start session", func(t *testing.T) {
		session, err := client.StartSession(ctx, "/tmp/project")
		if err != nil {
			t.Fatalf("StartSession() error = %v", err)
		}

		if session.ID == "" {
			t.Error("expected non-empty session ID")
		}
		if session.WorkingDir != "/tmp/project" {
			t.Errorf("expected working dir /tmp/project, got %s", session.WorkingDir)
		}
	})

	t.Run("list sessions", func(t *testing.T) {
		if _, err := client.StartSession(ctx, "/tmp"); err != nil {
			t.Fatalf("StartSession() error = %v", err)
		}

		sessions, err := client.ListSessions(ctx)
		if err != nil {
			t.Fatalf("ListSessions() error = %v", err)
		}

		if len(sessions) == 0 {
			t.Error("expected at least one session")
		}
	})

	t.Run("get session", func(t *testing.T) {
		created, err := client.StartSession(ctx, "/tmp")
		if err != nil {
			t.Fatalf("StartSession() error = %v", err)
		}

		session, err := client.GetSession(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetSession() error = %v", err)
		}

		if session.ID != created.ID {
			t.Errorf("expected session ID %s, got %s", created.ID, session.ID)
		}
	})

	t.Run("delete session", func(t *testing.T) {
		created, err := client.StartSession(ctx, "/tmp")
		if err != nil {
			t.Fatalf("StartSession() error = %v", err)
		}

		if err := client.DeleteSession(ctx, created.ID); err != nil {
			t.Fatalf("DeleteSession() error = %v", err)
		}

		if _, err := client.GetSession(ctx, created.ID); err == nil {
			t.Error("expected error when getting deleted session")
		}
	})

	t.Run("get non-existent session", func(t *testing.T) {
		if _, err := client.GetSession(ctx, "nonexistent"); err == nil {
			t.Error("expected error for non-existent session")
		}
	})

	t.Run("list tools", func(t *testing.T) {
		created, err := client.StartSession(ctx, "/tmp")
		if err != nil {
			t.Fatalf("StartSession() error = %v", err)
		}

		tools, err := client.ListTools(ctx, created.ID)
		if err != nil {
			t.Fatalf("ListTools() error = %v", err)
		}

		if len(tools) == 0 {
			t.Error("expected at least one tool")
		}
		if tools[0].Name == "" {
			t.Error("expected tool to have a name")
		}
	})
}

func TestAsk(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	srv.setReply(
		messageFrame(t, assistantText("four")),
		finishFrame,
	)

	client := srv.client()
	ctx := context.Background()

	answer, err := client.Ask(ctx, "what is 2+2?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if answer != "four" {
		t.Errorf("expected answer 'four', got %q", answer)
	}

	// The throwaway session is gone afterwards.
	sessions, err := client.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("expected temporary session to be deleted, found %d", len(sessions))
	}
}

func TestAskDeletesSessionOnError(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	srv.setReply("data: {\"type\":\"Error\",\"error\":\"agent failed\"}\n\n")

	client := srv.client()
	ctx := context.Background()

	if _, err := client.Ask(ctx, "anything"); err == nil {
		t.Fatal("expected Ask to surface the error event")
	}

	sessions, err := client.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("expected temporary session to be deleted, found %d", len(sessions))
	}
}
