// Package main is the nudge command: a terminal popup that asks Gemini for
// tutoring hints on data-structures and algorithms problems.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zoobzio/capitan"
	"go.uber.org/zap"

	"github.com/zoobzio/nudge"
	"github.com/zoobzio/nudge/internal/config"
	"github.com/zoobzio/nudge/internal/logging"
	"github.com/zoobzio/nudge/internal/popup"
)

var (
	// Global flags
	cfgFile string
	verbose bool

	cfg        *config.Config
	logger     *zap.Logger
	stopBridge func()
)

// errReported marks a failure already shown to the user.
var errReported = errors.New("reported")

var rootCmd = &cobra.Command{
	Use:   "nudge",
	Short: "Hints for LeetCode-style problems, never full solutions",
	Long: `nudge opens a small terminal popup. Paste a problem statement or your
code, press Ctrl+S (or Alt+Enter), and get a structured hint from Gemini:
an analysis, a nudge in the right direction, what to focus on, and a few
questions to think about.

The API key is read from nudge.yaml, NUDGE_API_KEY or GEMINI_API_KEY.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}

		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		// The popup owns the terminal; it only logs to a file.
		if cmd == cmd.Root() && cfg.Log.File == "" {
			logger = zap.NewNop()
		} else if logger, err = logging.New(level, cfg.Log.File); err != nil {
			return err
		}
		stopBridge = logging.Bridge(logger)

		warnCredential(cmd, cfg.Credential())
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if stopBridge != nil {
			stopBridge()
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		hinter, err := newHinter(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		return popup.Run(cmd.Context(), hinter, popup.Options{
			MaxHeight: cfg.Input.MaxHeight,
			Session: []nudge.SessionOption{
				nudge.WithDismissAfter(cfg.Error.DismissAfter),
				nudge.WithDisplay(cfg.Display()),
			},
		})
	},
}

// warnCredential reports an unusable API key at startup. Requests still
// fail with a configuration error when submitted.
func warnCredential(cmd *cobra.Command, credential nudge.Credential) {
	if credential.Valid() {
		return
	}
	capitan.Info(cmd.Context(), nudge.CredentialMissing,
		nudge.ErrorKey.Field("API key not properly configured"),
	)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default: ./nudge.yaml or ~/.config/nudge/nudge.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
