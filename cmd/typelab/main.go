// Package main provides the CLI entrypoint for typelab.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typelab/internal/apiclient"
	"github.com/verte-zerg/typelab/internal/config"
	"github.com/verte-zerg/typelab/internal/leaderboardui"
	"github.com/verte-zerg/typelab/internal/model"
	"github.com/verte-zerg/typelab/internal/passage"
	"github.com/verte-zerg/typelab/internal/score"
	"github.com/verte-zerg/typelab/internal/scoredb"
	"github.com/verte-zerg/typelab/internal/server"
	"github.com/verte-zerg/typelab/internal/stats"
	"github.com/verte-zerg/typelab/internal/store"
	"github.com/verte-zerg/typelab/internal/tui"
)

const (
	defaultDuration    = 30
	defaultListen      = ":8080"
	defaultStatsWindow = 10
	defaultTermWidth   = 80
)

var (
	practiceName     string
	practiceDuration int
	practiceServer   string

	serveListen   string
	serveMongoURI string

	topServer string

	statsLast   int
	statsWindow int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typelab",
		Short:         "Typing speed test with a shared leaderboard",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceName, "name", "", "player name for the leaderboard")
	rootCmd.Flags().IntVar(&practiceDuration, "duration", defaultDuration, "test duration in seconds")
	rootCmd.Flags().StringVar(&practiceServer, "server", "", "leaderboard server URL (empty disables submission)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newTopCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "name", &practiceName, fileCfg.Practice.Name)
	applyIntConfig(cmd, "duration", &practiceDuration, fileCfg.Practice.Duration)
	applyStringConfig(cmd, "server", &practiceServer, fileCfg.Practice.Server)

	cfg := model.Config{
		Name:            practiceName,
		DurationSeconds: practiceDuration,
		ServerURL:       practiceServer,
		HistoryDBPath:   config.DefaultDBPath(),
	}
	if cfg.DurationSeconds <= 0 {
		return fmt.Errorf("--duration must be > 0")
	}

	st, err := store.Open(cfg.HistoryDBPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	var client *apiclient.Client
	if strings.TrimSpace(cfg.ServerURL) != "" {
		client = apiclient.New(cfg.ServerURL)
	}

	model := tui.NewModel(cfg, st, client, passage.NewPicker())
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the leaderboard server",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveListen, "listen", defaultListen, "listen address")
	cmd.Flags().StringVar(&serveMongoURI, "mongo-uri", "", "MongoDB connection URI")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	// A missing .env file is fine; the environment may already be set.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logErrf("failed to load .env: %v\n", err)
	}

	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "listen", &serveListen, fileCfg.Serve.Listen)
	applyStringConfig(cmd, "mongo-uri", &serveMongoURI, fileCfg.Serve.MongoURI)
	if serveMongoURI == "" {
		serveMongoURI = os.Getenv("MONGODB_URI")
	}
	if serveMongoURI == "" {
		return fmt.Errorf("mongo URI is required (--mongo-uri, config, or MONGODB_URI)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	db, err := scoredb.Open(ctx, serveMongoURI)
	if err != nil {
		return fmt.Errorf("failed to connect to mongo: %w", err)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if cerr := db.Close(closeCtx); cerr != nil {
			logErrf("failed to disconnect from mongo: %v\n", cerr)
		}
	}()

	hub := server.NewHub()
	go hub.Run()

	srv := server.New(score.NewService(db), hub)
	logErrf("listening on %s\n", serveListen)
	if err := srv.Router().Run(serveListen); err != nil {
		return fmt.Errorf("failed to run server: %w", err)
	}
	return nil
}

func newTopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the leaderboard",
		Args:  cobra.NoArgs,
		RunE:  runTopCmd,
	}
	cmd.Flags().StringVar(&topServer, "server", "", "leaderboard server URL")
	return cmd
}

func runTopCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "server", &topServer, fileCfg.Practice.Server)
	if strings.TrimSpace(topServer) == "" {
		return fmt.Errorf("server URL is required (--server or config)")
	}

	model := leaderboardui.NewModel(apiclient.New(topServer))
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run leaderboard TUI: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show local practice history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsWindow, "window", defaultStatsWindow, "moving average window")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	results, err := st.ListResults(context.Background(), statsLast)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	width := defaultTermWidth
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	if err := stats.RenderHistory(cmd.OutOrStdout(), results, statsWindow, width); err != nil {
		return fmt.Errorf("failed to render stats: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typelab configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# name = ""                # Player name for the leaderboard
# duration = %d            # Test duration in seconds
# server = ""              # Leaderboard server URL (empty disables submission)

[serve]
# listen = %q           # Listen address
# mongo-uri = ""           # MongoDB connection URI (or MONGODB_URI env)
`,
		defaultDuration,
		defaultListen,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
