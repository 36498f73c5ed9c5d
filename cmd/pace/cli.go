package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/pace/internal/config"
	"github.com/hpungsan/pace/internal/engine"
	"github.com/hpungsan/pace/internal/errors"
	"github.com/hpungsan/pace/internal/publish"
	"github.com/hpungsan/pace/internal/store"
	"github.com/hpungsan/pace/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(st store.Store, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "pace",
		Usage:   "Posting safety and pacing engine",
		Version: Version,
		Commands: []*cli.Command{
			checkCmd(st, cfg),
			postCmd(st, cfg),
			statusCmd(st, cfg),
			historyCmd(st, cfg),
			webCmd(st, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// buildEngine wires an engine over the store with the configured publisher.
// Without a webhook URL, or in dry-run mode, posts are accepted locally.
func buildEngine(st store.Store, cfg *config.Config, dryRun bool) *engine.Engine {
	var pub publish.Publisher
	if dryRun || cfg.WebhookURL == "" {
		pub = publish.DryRun{}
	} else {
		pub = publish.NewWebhook(cfg.WebhookURL)
	}
	return engine.New(st, engine.SettingsFromConfig(cfg), pub)
}

// checkCmd creates the check command.
func checkCmd(st store.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Evaluate post text without publishing (reads text from args or stdin)",
		ArgsUsage: "[text]",
		Action: func(c *cli.Context) error {
			text, err := readText(c)
			if err != nil {
				return outputError(err)
			}

			eng := buildEngine(st, cfg, true)
			output, err := eng.Check(text)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// postCmd creates the post command.
func postCmd(st store.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "post",
		Usage:     "Evaluate and publish a post (reads text from args or stdin)",
		ArgsUsage: "[text]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "reply-to", Usage: "ID of the post being replied to"},
			&cli.StringFlag{Name: "quote", Usage: "ID of the post being quoted"},
			&cli.StringFlag{Name: "media", Usage: "Comma-separated media IDs"},
			&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Bypass all safety checks and scheduling"},
			&cli.BoolFlag{Name: "wait", Usage: "On a delayed verdict, sleep out the delay and then post"},
			&cli.IntFlag{Name: "jitter", Usage: "Override the configured jitter bound in minutes"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Evaluate and record locally without calling the webhook"},
		},
		Action: func(c *cli.Context) error {
			text, err := readText(c)
			if err != nil {
				return outputError(err)
			}

			input := engine.SubmitInput{
				Text:    text,
				ReplyTo: c.String("reply-to"),
				QuoteID: c.String("quote"),
				Force:   c.Bool("force"),
			}
			if media := c.String("media"); media != "" {
				input.MediaIDs = parseList(media)
			}
			if c.IsSet("jitter") {
				jitter := c.Int("jitter")
				input.JitterMinutes = &jitter
			}

			eng := buildEngine(st, cfg, c.Bool("dry-run"))

			var output *engine.Verdict
			if c.Bool("wait") {
				ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()
				output, err = eng.SubmitAndWait(ctx, input)
			} else {
				output, err = eng.Submit(context.Background(), input)
			}
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// statusCmd creates the status command.
func statusCmd(st store.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show current pacing state: quota, last post, rate limit, quiet hours",
		Action: func(c *cli.Context) error {
			eng := buildEngine(st, cfg, true)
			output, err := eng.Status()
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// historyCmd creates the history command.
func historyCmd(st store.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recorded posts, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: engine.DefaultHistoryLimit, Usage: "Maximum items to return"},
		},
		Action: func(c *cli.Context) error {
			eng := buildEngine(st, cfg, true)
			output, err := eng.History(c.Int("limit"))
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// webCmd creates the web command.
func webCmd(st store.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Start the web dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8421, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			eng := buildEngine(st, cfg, true)
			srv := web.NewServer(eng, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// Helper functions

// readText returns the post text from the first argument or piped stdin.
func readText(c *cli.Context) (string, error) {
	if c.NArg() > 0 {
		return c.Args().First(), nil
	}
	if !stdinHasData() {
		return "", errors.NewInvalidRequest("text must be given as an argument or piped via stdin")
	}
	text, err := readStdin()
	if err != nil {
		return "", errors.NewInternal(err)
	}
	if text == "" {
		return "", errors.NewInvalidRequest("text is required")
	}
	return text, nil
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if pErr, ok := err.(*errors.PaceError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", pErr.Code, pErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// parseList splits a comma-separated string into a slice.
func parseList(s string) []string {
	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			items = append(items, t)
		}
	}
	return items
}
