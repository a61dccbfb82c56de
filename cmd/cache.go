package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/santaclaude2025/sessiontriage/pkg/cache"
	"github.com/santaclaude2025/sessiontriage/pkg/discovery"
	"github.com/santaclaude2025/sessiontriage/pkg/logger"
	"github.com/spf13/cobra"
)

var errNoCache = errors.New("no cache configured; pass --cache PATH")

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or prune the summary cache",
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cache location and size",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := setup(cmd); err != nil {
			return err
		}
		defer logger.Close()

		c, err := openCacheStrict(cachePath)
		if err != nil {
			return err
		}
		defer c.Close()

		stats, err := c.Stats()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Cache: %s\n", c.Path())
		fmt.Fprintf(out, "Cached summaries: %d\n", stats.Entries)
		if !stats.LastUpdated.IsZero() {
			fmt.Fprintf(out, "Last updated: %s ago\n", formatDuration(time.Since(stats.LastUpdated)))
		}
		return nil
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune <sessions_dir>",
	Short: "Drop cached summaries for session files that no longer exist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup(cmd)
		if err != nil {
			return err
		}
		defer logger.Close()

		c, err := openCacheStrict(cachePath)
		if err != nil {
			return err
		}
		defer c.Close()

		candidates, err := discovery.SelectCandidates(args[0], discovery.SelectOptions{
			Pattern:     cfg.Pattern,
			AuxSuffixes: cfg.AuxSuffixes,
		})
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		keep := make([]string, 0, len(candidates))
		for _, cand := range candidates {
			keep = append(keep, cand.Path)
		}

		removed, err := c.Prune(keep)
		if err != nil {
			return err
		}

		logger.Info("Pruned %d cached summaries", removed)
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d stale entr%s.\n", removed, pluralY(removed))
		return nil
	},
}

func openCacheStrict(path string) (*cache.Cache, error) {
	if path == "" {
		return nil, errNoCache
	}
	return cache.Open(path)
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	} else if d < time.Hour {
		return fmt.Sprintf("%.0fm", d.Minutes())
	} else if d < 24*time.Hour {
		return fmt.Sprintf("%.1fh", d.Hours())
	} else {
		return fmt.Sprintf("%.1fd", d.Hours()/24)
	}
}

func init() {
	cacheCmd.AddCommand(cacheStatusCmd, cachePruneCmd)
	rootCmd.AddCommand(cacheCmd)
}
