// goose-chat is a terminal chat client for a goose agent server. It streams
// replies as they arrive and surfaces tool confirmation requests as
// interactive prompts.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/goosehq/goose-go"
)

func main() {
	app := &cli.App{
		Name:  "goose-chat",
		Usage: "chat with a goose agent server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to config file",
				Value: defaultConfigPath(),
			},
			&cli.StringFlag{
				Name:  "server",
				Usage: "server base URL (overrides config)",
			},
			&cli.StringFlag{
				Name:  "secret",
				Usage: "secret key (overrides config)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "per-reply stream timeout",
				Value: 5 * time.Minute,
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "ask",
				Usage:     "ask a one-shot question in a throwaway session",
				ArgsUsage: "<question>",
				Action:    runAsk,
			},
			{
				Name:  "chat",
				Usage: "start an interactive chat session",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "dir",
						Usage: "working directory for the session",
					},
					&cli.StringFlag{
						Name:  "auto-confirm",
						Usage: "answer every tool request with this action (allow_once, always_allow, deny)",
					},
				},
				Action: runChat,
			},
			{
				Name:  "sessions",
				Usage: "manage sessions",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "list sessions on the server",
						Action: runSessionsList,
					},
					{
						Name:      "delete",
						Usage:     "delete a session",
						ArgsUsage: "<session-id>",
						Action:    runSessionsDelete,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newClient(c *cli.Context) (*goose.Client, Config, error) {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return nil, cfg, err
	}
	if v := c.String("server"); v != "" {
		cfg.ServerURL = v
	}
	if v := c.String("secret"); v != "" {
		cfg.SecretKey = v
	}
	if cfg.SecretKey == "" {
		return nil, cfg, fmt.Errorf("no secret key configured (flag --secret, env GOOSE_SECRET_KEY, or config file)")
	}

	client := goose.NewClient(cfg.ServerURL, cfg.SecretKey,
		goose.WithStreamTimeout(c.Duration("timeout")),
	)
	return client, cfg, nil
}

func runAsk(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("usage: goose-chat ask <question>")
	}

	client, _, err := newClient(c)
	if err != nil {
		return err
	}

	answer, err := client.Ask(c.Context, question)
	if err != nil {
		return err
	}
	fmt.Println(answer)
	return nil
}

func runChat(c *cli.Context) error {
	client, cfg, err := newClient(c)
	if err != nil {
		return err
	}

	ctx := c.Context
	if !client.Healthy(ctx) {
		return fmt.Errorf("server at %s is not healthy", client.BaseURL())
	}

	var opts *goose.ReplyOptions
	if action := c.String("auto-confirm"); action != "" {
		switch goose.Action(action) {
		case goose.ActionAllowOnce, goose.ActionAlwaysAllow, goose.ActionDeny:
			opts = &goose.ReplyOptions{AutoConfirm: goose.Action(action)}
		default:
			return fmt.Errorf("invalid auto-confirm action %q", action)
		}
	}

	workingDir := cfg.WorkingDir
	if v := c.String("dir"); v != "" {
		workingDir = v
	}

	session, err := client.StartSession(ctx, workingDir)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer client.DeleteSession(ctx, session.ID)

	fmt.Printf("session %s (type a message, ctrl-d to quit)\n", session.ID)

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	stdin := bufio.NewReader(os.Stdin)
	var history []goose.Message

	for {
		fmt.Print("> ")
		line, err := stdin.ReadString('\n')
		if err != nil {
			fmt.Println()
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		history = append(history, goose.NewUserMessage(line))
		if err := streamTurn(ctx, client, session.ID, history, opts, interactive, stdin); err != nil {
			return err
		}
	}
}

// streamTurn streams one reply, printing text and prompting for tool
// confirmation decisions as they arrive.
func streamTurn(ctx context.Context, client *goose.Client, sessionID string, history []goose.Message, opts *goose.ReplyOptions, interactive bool, stdin *bufio.Reader) error {
	stream, err := client.StreamWithConfirmations(ctx, sessionID, history, opts)
	if err != nil {
		return err
	}
	defer stream.Close()

	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if chunk.IsConfirmation() {
			action := promptConfirmation(chunk.Confirmation, interactive, stdin)
			client.Confirm(ctx, chunk.Confirmation.ID, action, sessionID)
			continue
		}
		fmt.Print(chunk.Text)
	}
	fmt.Println()

	if err := stream.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "reply ended with error:", err)
	}
	return nil
}

func promptConfirmation(req *goose.ToolConfirmationRequest, interactive bool, stdin *bufio.Reader) goose.Action {
	if !interactive {
		// Nobody is there to answer; refusing is the only safe default.
		return goose.ActionDeny
	}

	fmt.Printf("\ntool %q wants to run", req.ToolName)
	if req.Prompt != nil {
		fmt.Printf(" (%s)", *req.Prompt)
	}
	fmt.Println()
	for k, v := range req.Arguments {
		fmt.Printf("  %s: %v\n", k, v)
	}

	for {
		fmt.Print("allow once [1], always allow [2], deny [3]: ")
		line, err := stdin.ReadString('\n')
		if err != nil {
			return goose.ActionDeny
		}
		switch strings.TrimSpace(line) {
		case "1":
			return goose.ActionAllowOnce
		case "2":
			return goose.ActionAlwaysAllow
		case "3":
			return goose.ActionDeny
		}
	}
}

func runSessionsList(c *cli.Context) error {
	client, _, err := newClient(c)
	if err != nil {
		return err
	}

	sessions, err := client.ListSessions(c.Context)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("no sessions")
		return nil
	}
	for _, s := range sessions {
		fmt.Printf("%s\t%s\t%d messages\n", s.ID, s.WorkingDir, s.MessageCount)
	}
	return nil
}

func runSessionsDelete(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("usage: goose-chat sessions delete <session-id>")
	}

	client, _, err := newClient(c)
	if err != nil {
		return err
	}
	return client.DeleteSession(c.Context, c.Args().First())
}
