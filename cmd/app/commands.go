package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/starford/notebook/internal"
	"github.com/starford/notebook/internal/apperr"
	"github.com/starford/notebook/internal/noteservice"
	pkgconfig "github.com/starford/notebook/pkg/config"
)

func newCommand() *cli.Command {
	return &cli.Command{
		Name:   "notebook",
		Usage:  "Persistent note store with web, REST, dashboard and MCP front-ends",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the web app, REST API and dashboard",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the notebook over MCP on stdin/stdout",
				Action: serveMCP,
			},
			{
				Name:   "list",
				Usage:  "Print note names in insertion order",
				Action: withService(listNotes),
			},
			{
				Name:      "show",
				Usage:     "Print the contents of a note",
				ArgsUsage: "NAME",
				Action:    withService(showNote),
			},
			{
				Name:      "add",
				Usage:     "Add or replace a note",
				ArgsUsage: "NAME CONTENTS",
				Action:    withService(addNote),
			},
			{
				Name:      "find",
				Usage:     "Print the names of notes containing a word",
				ArgsUsage: "TERM",
				Action:    withService(findNotes),
			},
			{
				Name:   "clear",
				Usage:  "Delete every note",
				Action: withService(clearNotes),
			},
		},
	}
}

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.Root().String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg), internal.WithVersion(version)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.RunMCP(ctx, internal.WithConfig(cfg), internal.WithVersion(version)); err != nil {
		return fmt.Errorf("mcp run error: %w", err)
	}
	return nil
}

type serviceAction func(ctx context.Context, cmd *cli.Command, svc *noteservice.Service) error

// withService opens the configured store for one-shot commands.
func withService(fn serviceAction) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		backend, err := internal.OpenBackend(&cfg.Store, internal.NewLogger(os.Stderr, cfg.App.LogLevel))
		if err != nil {
			return fmt.Errorf("open notebook: %w", err)
		}
		defer backend.Close()
		return fn(ctx, cmd, noteservice.NewService(backend.Store, nil))
	}
}

func requireArgs(cmd *cli.Command, n int) error {
	if cmd.Args().Len() != n {
		return fmt.Errorf("%s: expected %d argument(s): %s", cmd.Name, n, cmd.ArgsUsage)
	}
	return nil
}

func listNotes(ctx context.Context, cmd *cli.Command, svc *noteservice.Service) error {
	for _, name := range svc.ListNotes(ctx) {
		fmt.Fprintln(cmd.Root().Writer, name)
	}
	return nil
}

func showNote(ctx context.Context, cmd *cli.Command, svc *noteservice.Service) error {
	if err := requireArgs(cmd, 1); err != nil {
		return err
	}
	name := cmd.Args().First()
	note, err := svc.GetNote(ctx, name)
	if errors.Is(err, apperr.ErrNotFound) {
		return fmt.Errorf("note %q: %w", name, err)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.Root().Writer, note.Contents)
	return nil
}

func addNote(ctx context.Context, cmd *cli.Command, svc *noteservice.Service) error {
	if err := requireArgs(cmd, 2); err != nil {
		return err
	}
	note, err := svc.AddNote(ctx, cmd.Args().Get(0), cmd.Args().Get(1))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Root().Writer, "added: %s\n", note.Name)
	return nil
}

func findNotes(ctx context.Context, cmd *cli.Command, svc *noteservice.Service) error {
	if err := requireArgs(cmd, 1); err != nil {
		return err
	}
	for _, name := range svc.Find(ctx, cmd.Args().First()) {
		fmt.Fprintln(cmd.Root().Writer, name)
	}
	return nil
}

func clearNotes(ctx context.Context, cmd *cli.Command, svc *noteservice.Service) error {
	if err := svc.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.Root().Writer, "cleared")
	return nil
}
