package goose

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// StartSession creates a new agent session rooted at workingDir.
func (c *Client) StartSession(ctx context.Context, workingDir string) (*Session, error) {
	req := StartAgentRequest{WorkingDir: workingDir}
	var result Session
	if err := c.doRequest(ctx, http.MethodPost, "/agent/start", req, &result); err != nil {
		return nil, err
	}
	c.logger.Info("started session", "session_id", result.ID, "working_dir", workingDir)
	return &result, nil
}

// ListSessions returns all sessions known to the server.
func (c *Client) ListSessions(ctx context.Context) ([]Session, error) {
	var result SessionListResponse
	if err := c.doRequest(ctx, http.MethodGet, "/sessions", nil, &result); err != nil {
		return nil, err
	}
	return result.Sessions, nil
}

// GetSession retrieves a session by ID.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	var result Session
	if err := c.doRequest(ctx, http.MethodGet, "/sessions/"+sessionID, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteSession deletes a session.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.doRequest(ctx, http.MethodDelete, "/sessions/"+sessionID, nil, nil)
}

// ListTools returns the tools available to a session.
func (c *Client) ListTools(ctx context.Context, sessionID string) ([]Tool, error) {
	path := "/agent/tools?session_id=" + url.QueryEscape(sessionID)
	var result []Tool
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Healthy reports whether the server answers its status endpoint. The body
// is treated as text since the server replies with a bare "ok".
func (c *Client) Healthy(ctx context.Context) bool {
	req, err := c.newRequest(ctx, http.MethodGet, "/status", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("health check failed", "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false
	}
	return strings.Trim(strings.TrimSpace(string(body)), `"`) == "ok"
}

// Ask answers a one-shot question in a throwaway session. The session is
// deleted afterwards even when the reply fails.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	session, err := c.StartSession(ctx, "/tmp")
	if err != nil {
		return "", fmt.Errorf("start session: %w", err)
	}
	defer func() {
		if err := c.DeleteSession(ctx, session.ID); err != nil {
			c.logger.Warn("failed to delete session", "session_id", session.ID, "error", err)
		}
	}()

	return c.Chat(ctx, session.ID, question)
}
