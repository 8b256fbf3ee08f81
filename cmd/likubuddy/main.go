package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/TayDa64/LikuBuddy/internal/control"
	"github.com/TayDa64/LikuBuddy/internal/input"
	"github.com/TayDa64/LikuBuddy/internal/livehttp"
	"github.com/TayDa64/LikuBuddy/internal/scripting"
	"github.com/TayDa64/LikuBuddy/internal/snapshot"
	"github.com/TayDa64/LikuBuddy/internal/statstore"
)

// nullSender stands in for the real injector under --dry-run, so a dry
// run works on hosts without any input tooling installed.
type nullSender struct{}

func (nullSender) Send(input.Key) bool { return false }
func (nullSender) SetTargetID(string)  {}

func newRootCommand() *cobra.Command {
	var (
		game         string
		snapshotPath string
		intervalMs   int
		maxCycles    int
		scriptPath   string
		dbPath       string
		httpPort     int
		minSendMs    int
		titleHint    string
		dryRun       bool
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "likubuddy",
		Short: "Automated player for LikuBuddy mini-games",
		Long: `Watches a game's snapshot file, decides the next move with a
per-game engine, and injects keystrokes into the game window.

  likubuddy --snapshot /tmp/liku.state
  likubuddy --snapshot /tmp/liku.state --game runner --interval 30
  likubuddy --snapshot /tmp/liku.state --script policy.js --dry-run`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := control.Config{
				Game:         game,
				SnapshotPath: snapshotPath,
				PollInterval: time.Duration(intervalMs) * time.Millisecond,
				MaxCycles:    maxCycles,
				DryRun:       dryRun,
				Verbose:      verbose,
			}

			parser := snapshot.NewParser(snapshotPath, snapshot.WithVerbose(verbose))

			var sender control.Sender
			if dryRun {
				sender = nullSender{}
			} else {
				opts := input.DefaultOptions()
				opts.MinInterval = time.Duration(minSendMs) * time.Millisecond
				opts.Verbose = verbose
				if titleHint != "" {
					opts.TitleHint = titleHint
				}
				inj, err := input.New(opts)
				if err != nil {
					return fmt.Errorf("input setup: %w", err)
				}
				sender = inj
			}

			var loopOpts []control.Option
			if scriptPath != "" {
				eng, err := scripting.Load(scriptPath)
				if err != nil {
					return fmt.Errorf("load script: %w", err)
				}
				loopOpts = append(loopOpts, control.WithEngine(eng))
			}

			loop, err := control.New(cfg, parser, sender, loopOpts...)
			if err != nil {
				return err
			}

			var db statstore.DB
			if dbPath != "" {
				sdb, err := statstore.NewSQLiteDB(dbPath)
				if err != nil {
					return fmt.Errorf("open run store: %w", err)
				}
				defer sdb.Close()
				if err := sdb.Migrate(); err != nil {
					return fmt.Errorf("migrate run store: %w", err)
				}
				db = sdb
			}

			if httpPort > 0 {
				srv := livehttp.New(loop, db, httpPort)
				if err := srv.Start(); err != nil {
					return err
				}
				defer func() {
					ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
					defer cancel()
					_ = srv.Shutdown(ctx)
				}()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			stats, runErr := loop.Run(ctx)
			if stats != nil {
				fmt.Fprint(os.Stdout, stats.Summary())
				if db != nil {
					if err := db.SaveRun(runToRecord(stats)); err != nil {
						fmt.Fprintf(os.Stderr, "save run: %v\n", err)
					}
				}
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&game, "game", control.GameAuto, "engine to use: auto, runner, snake or tictactoe")
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "path to the game's snapshot file (required)")
	cmd.Flags().IntVar(&intervalMs, "interval", 50, "poll interval in milliseconds")
	cmd.Flags().IntVar(&maxCycles, "max-cycles", 0, "stop after this many cycles (0 = unlimited)")
	cmd.Flags().StringVar(&scriptPath, "script", "", "JavaScript policy file overriding the built-in engines")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite file for persisted run statistics (empty = disabled)")
	cmd.Flags().IntVar(&httpPort, "http-port", 0, "loopback port for the status API (0 = disabled)")
	cmd.Flags().IntVar(&minSendMs, "min-send-interval", 50, "minimum spacing between injected keys in milliseconds")
	cmd.Flags().StringVar(&titleHint, "title", "", "window-title substring for locating the game")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "decide but do not inject keystrokes")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "log every cycle's decision")
	_ = cmd.MarkFlagRequired("snapshot")

	return cmd
}

func runToRecord(stats *control.RunStatistics) *statstore.Run {
	return &statstore.Run{
		ID:           stats.RunID,
		Game:         stats.Game,
		Cycles:       stats.Cycles,
		ActionsSent:  stats.ActionsSent,
		AvgLatencyUs: stats.AverageLatency().Microseconds(),
		MaxLatencyUs: stats.MaxLatency.Microseconds(),
		LastScore:    stats.LastScore,
		StopReason:   stats.StopReason,
		StartedAt:    stats.StartedAt,
		EndedAt:      stats.EndedAt,
	}
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
