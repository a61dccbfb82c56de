package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/santaclaude2025/sessiontriage/pkg/cache"
	"github.com/santaclaude2025/sessiontriage/pkg/config"
	"github.com/santaclaude2025/sessiontriage/pkg/discovery"
	"github.com/santaclaude2025/sessiontriage/pkg/logger"
	"github.com/santaclaude2025/sessiontriage/pkg/report"
	"github.com/santaclaude2025/sessiontriage/pkg/scanner"
	"github.com/spf13/cobra"
)

const usageLine = "usage: scan_sessions <sessions_dir> [--days N] [--sessions N]"

// errUsage is returned after the usage line has already been printed
var errUsage = errors.New("missing sessions directory")

var (
	maxAgeDays   int
	maxSessions  int
	outputFormat string
	configPath   string
	logLevel     string
	logFile      string
	cachePath    string
)

// RunOptions configures one scan run
type RunOptions struct {
	Dir        string
	MaxAgeDays int
	MaxCount   int
	Format     string
	Config     *config.Config
	// CachePath enables the summary cache when set
	CachePath string
	Now       func() time.Time
}

var rootCmd = &cobra.Command{
	Use:   "scan_sessions <sessions_dir>",
	Short: "Summarize Claude Code session logs for triage",
	Long: `Scans a directory of Claude Code session logs (*.jsonl) and prints one
summary per session, newest first: message counts, commit/transcribe/handoff
signals, interruption status and short excerpts.

Examples:
  scan_sessions ~/.claude/projects/my-project
  scan_sessions ~/.claude/projects/my-project --days 3
  scan_sessions ~/.claude/projects/my-project --sessions 10 --format text`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	FParseErrWhitelist: cobra.FParseErrWhitelist{
		UnknownFlags: true,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), usageLine)
			return errUsage
		}

		cfg, err := setup(cmd)
		if err != nil {
			return err
		}
		defer logger.Close()

		format := cfg.Format
		if cmd.Flags().Changed("format") {
			format = outputFormat
		}

		return Run(cmd.Context(), cmd.OutOrStdout(), RunOptions{
			Dir:        args[0],
			MaxAgeDays: maxAgeDays,
			MaxCount:   maxSessions,
			Format:     format,
			Config:     cfg,
			CachePath:  cachePath,
		})
	},
}

// setup loads the config file and initializes logging
func setup(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(config.ResolvePath(configPath))
	if err != nil {
		return nil, err
	}

	levelName := cfg.LogLevel
	if cmd.Flags().Changed("log-level") {
		levelName = logLevel
	}
	level, err := logger.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}

	if err := logger.Init(logger.Options{Level: level, FilePath: logFile}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd.SetArgs(dropDanglingFlag(rootCmd, os.Args[1:]))
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

// dropDanglingFlag removes a trailing value flag given without its value
// (e.g. "dir --days"), which is skipped rather than failing the run
func dropDanglingFlag(cmd *cobra.Command, args []string) []string {
	if len(args) == 0 {
		return args
	}
	last := args[len(args)-1]
	if !strings.HasPrefix(last, "--") || strings.Contains(last, "=") {
		return args
	}

	name := strings.TrimPrefix(last, "--")
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.PersistentFlags().Lookup(name)
	}
	// Unknown flags are tolerated by the parser; boolean flags need no value
	if flag == nil || flag.NoOptDefVal != "" {
		return args
	}
	return args[:len(args)-1]
}

// Run selects, scans and reports the sessions in opts.Dir
func Run(ctx context.Context, w io.Writer, opts RunOptions) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := report.CheckFormat(opts.Format); err != nil {
		return err
	}

	candidates, err := discovery.SelectCandidates(opts.Dir, discovery.SelectOptions{
		Pattern:     cfg.Pattern,
		AuxSuffixes: cfg.AuxSuffixes,
		MaxAgeDays:  opts.MaxAgeDays,
		MaxCount:    opts.MaxCount,
		Now:         opts.Now,
	})
	if err != nil {
		return fmt.Errorf("failed to select sessions: %w", err)
	}

	logger.Info("Scanning %d candidate session(s) in %s", len(candidates), opts.Dir)

	summaryCache := openCache(opts.CachePath)
	if summaryCache != nil {
		defer summaryCache.Close()
	}

	sc := scanner.New(cfg.Limits)
	limitsKey := cfg.Limits.Fingerprint()
	summaries := make([]*scanner.Summary, 0, len(candidates))
	var failed, cached int

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}

		summary, hit, err := scanCandidate(sc, summaryCache, limitsKey, c)
		if err != nil {
			logger.Warn("Skipping %s: %v", c.Path, err)
			failed++
			continue
		}
		if hit {
			cached++
		}
		if summary != nil {
			summaries = append(summaries, summary)
		}
	}

	logger.Info("Scan complete: %d summarized (%d from cache), %d below threshold, %d failed",
		len(summaries), cached, len(candidates)-len(summaries)-failed, failed)

	return report.Write(w, summaries, opts.Format)
}

// scanCandidate returns the summary for one candidate, consulting the cache first
func scanCandidate(sc *scanner.Scanner, summaryCache *cache.Cache, limitsKey string, c discovery.Candidate) (*scanner.Summary, bool, error) {
	meta := scanner.FileMeta{
		SessionID: c.SessionID,
		Path:      c.Path,
		ModTime:   c.ModTime,
		SizeBytes: c.SizeBytes,
	}
	key := cache.Key{
		Path:    c.Path,
		ModTime: c.ModTime,
		Size:    c.SizeBytes,
		Limits:  limitsKey,
	}

	if summaryCache != nil {
		summary, hit, err := summaryCache.Get(key)
		if err != nil {
			logger.Warn("Cache lookup failed for %s: %v", c.Path, err)
		} else if hit {
			meta.Stamp(summary)
			return summary, true, nil
		}
	}

	summary, err := sc.ScanFile(meta)
	if err != nil || summary == nil {
		return nil, false, err
	}

	if summaryCache != nil {
		if err := summaryCache.Put(key, summary); err != nil {
			logger.Warn("Failed to cache summary for %s: %v", c.Path, err)
		}
	}
	return summary, false, nil
}

// openCache opens the summary cache, or returns nil when disabled or unavailable
func openCache(path string) *cache.Cache {
	if path == "" {
		return nil
	}
	c, err := cache.Open(path)
	if err != nil {
		logger.Warn("Summary cache unavailable, scanning without it: %v", err)
		return nil
	}
	logger.Debug("Using summary cache at %s", c.Path())
	return c
}

func init() {
	rootCmd.Flags().IntVar(&maxAgeDays, "days", 0, "Only include sessions modified in the last N days")
	rootCmd.Flags().IntVar(&maxSessions, "sessions", 0, "Only include the N most recent sessions")
	rootCmd.Flags().StringVar(&outputFormat, "format", config.FormatJSON, "Output format: json, yaml or text")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (env "+config.ConfigPathEnv+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default warn)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to a rotating file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache", "", "SQLite summary cache file (disabled when empty)")
}
