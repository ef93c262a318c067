package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"neontetris/client"
	"neontetris/terminal"
	"neontetris/tetris"

	"github.com/spf13/cobra"
)

type options struct {
	timer   int
	seed    uint64
	noGrid  bool
	logFile string
	debug   bool
}

func defaultOptions() *options {
	return &options{
		timer:   getEnvIntOrDefault("NEONTETRIS_TIMER", 0),
		logFile: getEnvOrDefault("NEONTETRIS_LOG_FILE", ""),
	}
}

func newRootCmd() *cobra.Command {
	opts := defaultOptions()

	cmd := &cobra.Command{
		Use:   "neontetris",
		Short: "Neon falling blocks in your terminal",
		Long: `neontetris is a single player falling blocks game for the terminal.

Full rows blink before they clear and pay 50 points each. Play free or
against a countdown picked with --timer or the 0-3 keys in the lobby.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVar(&opts.timer, "timer", opts.timer, "Countdown in seconds, 0 for free play (env: NEONTETRIS_TIMER)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", opts.seed, "Shape sequence seed, 0 for a random one")
	cmd.Flags().BoolVar(&opts.noGrid, "no-grid", opts.noGrid, "Hide the background grid")
	cmd.Flags().StringVar(&opts.logFile, "log-file", opts.logFile, "Write JSON logs to this file (env: NEONTETRIS_LOG_FILE)")
	cmd.Flags().BoolVar(&opts.debug, "debug", opts.debug, "Log at debug level")

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, o *options) error {
	logger, closeLog, err := newLogger(o)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg := tetris.DefaultConfig()
	cfg.Timer = o.timer
	cfg.Random = tetris.NewRandom(o.seed)
	cfg.Logger = logger
	session, err := tetris.New(cfg)
	if err != nil {
		return fmt.Errorf("unable to create game: %w", err)
	}

	console := terminal.New(os.Stdout)
	if err := console.Open(2*cfg.Width+26, cfg.Height+2); err != nil {
		return fmt.Errorf("unable to open console: %w", err)
	}
	defer console.Close()

	c, err := client.New(logger, tetris.NewGame(session), &client.Options{NoGrid: o.noGrid})
	if err != nil {
		return fmt.Errorf("unable to start client: %w", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Error("unable to close keyboard", slog.String("error", err.Error()))
		}
	}()

	logger.Info("game started", slog.String("session", session.ID()), slog.Int("timer", o.timer))
	if err := c.Start(ctx); err != nil {
		logger.Error("client stopped", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// newLogger returns a JSON logger writing to the log file. Without one, logs
// are discarded since the terminal shows the game.
func newLogger(o *options) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if o.debug {
		level = slog.LevelDebug
	}
	if o.logFile == "" {
		return slog.New(slog.NewJSONHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open log file: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { f.Close() }, nil //nolint:errcheck
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	i, err := strconv.Atoi(getEnvOrDefault(key, ""))
	if err != nil {
		return defaultVal
	}
	return i
}
