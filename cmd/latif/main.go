// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/latif"
	"github.com/poiesic/latif/config"
	"github.com/poiesic/latif/core"
	"github.com/poiesic/latif/corpus"
	"github.com/poiesic/latif/observe"
	"github.com/poiesic/latif/replay"
	"github.com/poiesic/latif/search"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "latif",
		Usage: "Recommend Shah Jo Risalo verses for spoken Sindhi and Urdu",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a TOML configuration file (default $" + config.EnvConfig + ")",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB verse library (default $" + config.EnvDB + ", or the embedded sample)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Import a YAML verse collection into the verse library",
				ArgsUsage: "FILE",
				Action:    importCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "replace",
						Usage: "Overwrite verses whose id already exists",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search the verse library",
				ArgsUsage: "[QUERY...]",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "theme",
						Usage: "Only verses with this theme",
					},
					&cli.StringFlag{
						Name:  "emotion",
						Usage: "Only verses with this emotion",
					},
				},
			},
			{
				Name:      "recommend",
				Usage:     "Recommend verses for a transcript, or start an interactive session",
				ArgsUsage: "[TRANSCRIPT...]",
				Action:    recommendCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "explain",
						Usage: "Print the score breakdown of each result",
					},
				},
			},
			{
				Name:      "replay",
				Usage:     "Replay scripted sessions and check their expectations",
				ArgsUsage: "PATH...",
				Action:    replayCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of scripts replayed concurrently (default from config)",
					},
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "Report progress on stderr",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Serve the HTTP API",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (default from config or $" + config.EnvAddr + ")",
					},
					&cli.StringFlag{
						Name:  "env-file",
						Usage: "Dotenv file loaded before reading the configuration",
						Value: ".env",
					},
				},
			},
			{
				Name:   "config",
				Usage:  "Print the effective configuration as TOML",
				Action: configCommand,
			},
		},
	}
}

// loadConfig resolves the configuration from --config, the environment
// and --db.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Resolve(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("db") {
		cfg.Storage.Path = c.String("db")
	}
	return cfg, nil
}

func openLibrary(ctx context.Context, c *cli.Context) (*latif.Library, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	lib, err := latif.Open(ctx, latif.WithConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open verse library: %w", err)
	}
	return lib, nil
}

func importCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.NArg() != 1 {
		return fmt.Errorf("exactly one collection file is required")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if cfg.Storage.Path == "" {
		return fmt.Errorf("database path is required (--db or $%s)", config.EnvDB)
	}

	cf, err := corpus.LoadFile(c.Args().First())
	if err != nil {
		return err
	}

	lib, err := latif.Open(ctx, latif.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to open verse library: %w", err)
	}
	defer lib.Close()

	result, err := lib.Import(ctx, cf, c.Bool("replace"))
	if err != nil {
		return err
	}

	w := c.App.Writer
	for _, r := range result.Rejected {
		fmt.Fprintf(w, "skipped %s\n", r.Error())
	}
	fmt.Fprintf(w, "Imported %d verses into %q (%d skipped, %d in library)\n",
		result.Imported, lib.Collection().Name, len(result.Rejected), lib.Collection().VerseCount)
	return nil
}

func searchCommand(c *cli.Context) error {
	lib, err := openLibrary(context.Background(), c)
	if err != nil {
		return err
	}
	defer lib.Close()

	filter := search.Filter{Query: strings.Join(c.Args().Slice(), " ")}
	if name := c.String("theme"); name != "" {
		if filter.Theme, err = core.ParseTheme(name); err != nil {
			return err
		}
	}
	if name := c.String("emotion"); name != "" {
		if filter.Emotion, err = core.ParseEmotion(name); err != nil {
			return err
		}
	}

	searcher, err := lib.NewSearcher()
	if err != nil {
		return err
	}
	verses := searcher.Find(filter)

	w := c.App.Writer
	fmt.Fprintf(w, "Found %d verses\n", len(verses))
	for _, v := range verses {
		printVerse(w, v)
	}
	return nil
}

func replayCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.NArg() == 0 {
		return fmt.Errorf("at least one script file or directory is required")
	}
	scripts, err := replay.LoadScripts(c.Args().Slice()...)
	if err != nil {
		return err
	}

	lib, err := openLibrary(ctx, c)
	if err != nil {
		return err
	}
	defer lib.Close()

	var opts []replay.Option
	if c.IsSet("workers") {
		opts = append(opts, replay.WithPoolSize(c.Int("workers")))
	}
	if c.Bool("progress") {
		opts = append(opts, replay.WithProgress(c.App.ErrWriter))
	}
	runner, err := lib.NewReplayRunner(opts...)
	if err != nil {
		return err
	}
	defer runner.Release()

	results, err := runner.Run(ctx, scripts)
	if err != nil {
		return err
	}

	w := c.App.Writer
	failed := 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			fmt.Fprintf(w, "ERROR %s: %v\n", r.Script, r.Err)
		case !r.Passed():
			failed++
			fmt.Fprintf(w, "FAIL  %s\n", r.Script)
			for _, f := range r.Failures() {
				fmt.Fprintf(w, "      %s\n", f)
			}
		default:
			fmt.Fprintf(w, "ok    %s (feedback %d, positive %.2f)\n",
				r.Script, r.Accuracy.TotalFeedback, r.Accuracy.PositiveRatio)
		}
	}
	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d scripts failed", failed, len(results)), 1)
	}
	return nil
}

func serveCommand(c *cli.Context) error {
	if err := godotenv.Load(c.String("env-file")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", c.String("env-file"), err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Metrics must be wired before the library creates its instruments
	shutdownMetrics, err := observe.InitProvider(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialise metrics: %w", err)
	}
	defer func() {
		if err := shutdownMetrics(context.Background()); err != nil {
			slog.Error("error shutting down metrics", "err", err)
		}
	}()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("addr") {
		cfg.Server.Addr = c.String("addr")
	}

	lib, err := latif.Open(ctx, latif.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to open verse library: %w", err)
	}
	defer lib.Close()

	srv, err := lib.NewServer()
	if err != nil {
		return err
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Start(cfg.Server.Addr)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}

func configCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	return config.Write(c.App.Writer, cfg)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))
	if !c.IsSet("log-level") {
		// Fall back to the configuration file when it sets a level
		if cfg, err := config.Resolve(c.String("config")); err == nil && cfg.LogLevel != "" {
			levelStr = string(cfg.LogLevel)
		}
	}

	// Map string to slog.Level
	var level slog.Level
	switch config.LogLevel(levelStr) {
	case config.LogDebug:
		level = slog.LevelDebug
	case config.LogInfo:
		level = slog.LevelInfo
	case config.LogWarn:
		level = slog.LevelWarn
	case config.LogError:
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
