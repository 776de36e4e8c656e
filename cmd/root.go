package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/khrees2412/contactscout/internal/app"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// skipAppAnnotation marks commands that run without config or database
const skipAppAnnotation = "skip-app"

var rootCmd = &cobra.Command{
	Use:   "contactscout",
	Short: "Find public contact details on LinkedIn profiles",
	Long: `ContactScout searches the web for public LinkedIn profiles matching a keyword,
renders each profile and extracts email addresses and Indian mobile numbers.
Runs are stored locally and can be exported to CSV or Excel.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipAppAnnotation] == "true" {
			return nil
		}

		// Initialize app with all dependencies
		application, err := app.NewApp(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			application.Logger.SetLevel(logrus.DebugLevel)
		}

		// Store app in command context
		cmd.SetContext(app.WithApp(cmd.Context(), application))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if a := app.FromContext(cmd.Context()); a != nil {
			return a.Close()
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	// Cancel on Ctrl-C so runs can save what they have
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		cancel()
		os.Exit(1)
	}
}

// mustApp returns the App stored by PersistentPreRunE
func mustApp(cmd *cobra.Command) *app.App {
	a := app.FromContext(cmd.Context())
	if a == nil {
		fmt.Fprintln(os.Stderr, "internal error: app not initialized")
		os.Exit(1)
	}
	return a
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
