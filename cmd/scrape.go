package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/khrees2412/contactscout/internal/app"
	"github.com/khrees2412/contactscout/internal/browser"
	"github.com/khrees2412/contactscout/internal/export"
	"github.com/khrees2412/contactscout/internal/pipeline"
	"github.com/khrees2412/contactscout/internal/search"
	"github.com/khrees2412/contactscout/pkg/models"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <keyword>",
	Short: "Search LinkedIn profiles and extract contacts",
	Long: `Search for public LinkedIn profiles mentioning a keyword, render each profile
and extract email addresses and Indian mobile numbers. Results are saved as a
run and exported to CSV or Excel.`,
	Example: `  contactscout scrape "data scientist"
  contactscout scrape "hr manager" --engine bing --pages 5 --format xlsx
  contactscout scrape "devops" --browser static --skip-seen --no-export`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := mustApp(cmd)
		keyword := strings.TrimSpace(strings.Join(args, " "))
		if keyword == "" {
			return fmt.Errorf("%w: keyword must not be empty", app.ErrInvalidArgument)
		}

		opts, engine, backend, err := scrapeOptions(cmd, a, keyword)
		if err != nil {
			return err
		}
		provider, err := search.NewProvider(engine)
		if err != nil {
			return err
		}

		renderer, err := browser.New(a.BrowserOptions(backend))
		if err != nil {
			return err
		}
		defer func() {
			if err := renderer.Close(); err != nil {
				a.Logger.WithError(err).Warn("failed to close browser")
			}
		}()

		ctx := cmd.Context()
		query := search.BuildQuery(keyword, opts.EmailProviders)
		run := &models.Run{Keyword: keyword, Query: query, Engine: engine.String()}
		if err := a.Store.CreateRun(ctx, run); err != nil {
			return err
		}
		ctx = app.WithRunID(ctx, run.ID)

		fmt.Println(titleStyle.Render("ContactScout"))
		fmt.Printf("%s %s\n", labelStyle.Render("Keyword:"), keyword)
		fmt.Printf("%s %s\n", labelStyle.Render("Query:"), valueStyle.Render(query))
		fmt.Printf("%s %s (%s)\n", labelStyle.Render("Engine:"), engine, a.BrowserOptions(backend).Backend)
		fmt.Printf("%s %s\n\n", labelStyle.Render("Run:"), run.ID)

		runner := &pipeline.Runner{
			Renderer: renderer,
			Provider: provider,
			Reporter: pipeline.NewProgress(os.Stdout),
			Logger:   a.Logger,
			SeenFunc: a.Store.HasProfileURL,
		}
		state, runErr := runner.Run(ctx, pipeline.NewState(run.ID, query), opts)

		// Persist whatever was collected, even when the run was cut short
		saveCtx := context.WithoutCancel(ctx)
		if err := a.Store.SaveProfiles(saveCtx, run.ID, state.Results); err != nil {
			return err
		}
		status := runStatus(runErr)
		if err := a.Store.FinishRun(saveCtx, run.ID, status, len(state.Results)); err != nil {
			return err
		}
		app.Log(ctx).WithFields(logrus.Fields{
			"status":     status,
			"candidates": state.Candidates,
			"rejected":   state.Rejected,
			"failed":     state.Failed,
		}).Info("run finished")

		printSummary(state.Results)

		noExport, _ := cmd.Flags().GetBool("no-export")
		if !noExport && len(state.Results) > 0 {
			if err := exportProfiles(cmd, keyword, state.Results); err != nil {
				return err
			}
		}

		if runErr != nil {
			if errors.Is(runErr, search.ErrCaptcha) {
				return fmt.Errorf("%w (run %s saved with %d profiles)", runErr, shortID(run.ID), len(state.Results))
			}
			return runErr
		}
		return nil
	},
}

// scrapeOptions applies command line overrides on top of the config
func scrapeOptions(cmd *cobra.Command, a *app.App, keyword string) (pipeline.Options, search.Engine, string, error) {
	opts := a.PipelineOptions(keyword)
	flags := cmd.Flags()

	engineName := a.Config.SearchEngine
	if flags.Changed("engine") {
		engineName, _ = flags.GetString("engine")
	}
	engine, err := search.ParseEngine(engineName)
	if err != nil {
		return opts, "", "", err
	}

	if flags.Changed("pages") {
		opts.MaxPages, _ = flags.GetInt("pages")
	}
	if flags.Changed("results") {
		opts.ResultsPerPage, _ = flags.GetInt("results")
	}
	if flags.Changed("concurrency") {
		opts.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("delay") {
		opts.RequestDelay, _ = flags.GetDuration("delay")
	}
	if flags.Changed("providers") {
		opts.EmailProviders, _ = flags.GetStringSlice("providers")
	}
	opts.SkipSeen, _ = flags.GetBool("skip-seen")

	switch {
	case opts.MaxPages < 1 || opts.MaxPages > 10:
		return opts, "", "", fmt.Errorf("%w: --pages must be between 1 and 10", app.ErrInvalidArgument)
	case opts.ResultsPerPage < 1 || opts.ResultsPerPage > 20:
		return opts, "", "", fmt.Errorf("%w: --results must be between 1 and 20", app.ErrInvalidArgument)
	case opts.Concurrency < 1 || opts.Concurrency > 8:
		return opts, "", "", fmt.Errorf("%w: --concurrency must be between 1 and 8", app.ErrInvalidArgument)
	case opts.RequestDelay < 0 || opts.RequestDelay > time.Minute:
		return opts, "", "", fmt.Errorf("%w: --delay must be between 0s and 60s", app.ErrInvalidArgument)
	}

	backend, _ := flags.GetString("browser")
	return opts, engine, backend, nil
}

func runStatus(err error) string {
	switch {
	case err == nil:
		return models.RunStatusCompleted
	case errors.Is(err, search.ErrCaptcha):
		return models.RunStatusBlocked
	case errors.Is(err, context.Canceled):
		return models.RunStatusCancelled
	default:
		return models.RunStatusFailed
	}
}

func printSummary(profiles []*models.Profile) {
	stats := pipeline.Summary(profiles)
	fmt.Println(titleStyle.Render("Summary"))
	fmt.Printf("  %s %d\n", labelStyle.Render("Profiles:"), stats.Total)
	fmt.Printf("  %s %d (%d addresses)\n", labelStyle.Render("With emails:"), stats.WithEmails, stats.Emails)
	fmt.Printf("  %s %d (%d numbers)\n", labelStyle.Render("With phones:"), stats.WithPhones, stats.Phones)
	fmt.Printf("  %s %d\n", labelStyle.Render("With both:"), stats.Complete)
}

// exportProfiles writes profiles using the --format and --output flags
func exportProfiles(cmd *cobra.Command, keyword string, profiles []*models.Profile) error {
	formatName, _ := cmd.Flags().GetString("format")
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}
	dir, _ := cmd.Flags().GetString("output")

	path := filepath.Join(dir, export.FileName(keyword, format, time.Now()))
	if err := writeExport(path, format, profiles); err != nil {
		return err
	}
	fmt.Printf("\n✓ Exported %d profiles to %s\n", len(profiles), path)
	return nil
}

func writeExport(path string, format export.Format, profiles []*models.Profile) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := export.Write(f, format, profiles); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().String("engine", "", "Search engine: google, bing, duckduckgo (default from config)")
	scrapeCmd.Flags().Int("pages", 0, "Number of search result pages, 1-10 (default from config)")
	scrapeCmd.Flags().Int("results", 0, "Profiles to open per results page, 1-20 (default from config)")
	scrapeCmd.Flags().Int("concurrency", 0, "Profiles rendered in parallel, 1-8 (default from config)")
	scrapeCmd.Flags().Duration("delay", 0, "Delay between page loads, e.g. 2s (default from config)")
	scrapeCmd.Flags().StringSlice("providers", nil, "Mail providers to search for, e.g. @gmail.com,@yahoo.com")
	scrapeCmd.Flags().String("browser", "", "Browser backend: chromedp, playwright, rod, static (default from config)")
	scrapeCmd.Flags().Bool("skip-seen", false, "Skip profiles already stored by earlier runs")
	scrapeCmd.Flags().String("format", "csv", "Export format: csv, xlsx")
	scrapeCmd.Flags().StringP("output", "o", ".", "Directory for the export file")
	scrapeCmd.Flags().Bool("no-export", false, "Do not write an export file")
}
