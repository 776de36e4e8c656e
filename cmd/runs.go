package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/khrees2412/contactscout/internal/export"
	"github.com/khrees2412/contactscout/pkg/models"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage stored scrape runs",
	Long:  "List, inspect, export and delete the runs stored in the local database",
}

var listRunsCmd = &cobra.Command{
	Use:   "list",
	Short: "List runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := mustApp(cmd)
		runs, err := a.Store.GetAllRuns(cmd.Context())
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs yet. Start one with 'contactscout scrape <keyword>'")
			return nil
		}

		fmt.Println(titleStyle.Render("Runs"))
		for _, run := range runs {
			fmt.Printf("%s  %-10s  %-10s  %3d profiles  %s  %s\n",
				labelStyle.Render(shortID(run.ID)),
				run.Status,
				run.Engine,
				run.ProfileCount,
				mutedStyle.Render(run.StartedAt.Format("2006-01-02 15:04")),
				run.Keyword,
			)
		}
		return nil
	},
}

var showRunCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a run and its profiles",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := mustApp(cmd)
		run, err := a.Store.GetRun(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		profiles, err := a.Store.GetRunProfiles(cmd.Context(), run.ID)
		if err != nil {
			return err
		}

		printRun(run)
		onlyContacts, _ := cmd.Flags().GetBool("with-contacts")
		for i, p := range profiles {
			if onlyContacts && !p.HasEmails() && !p.HasPhones() {
				continue
			}
			printProfile(i+1, p)
		}
		printSummary(profiles)
		return nil
	},
}

var exportRunCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Export a stored run to CSV or Excel",
	Example: `  contactscout runs export 3f2a9c1b
  contactscout runs export 3f2a9c1b --format xlsx -o exports/`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := mustApp(cmd)
		run, err := a.Store.GetRun(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		profiles, err := a.Store.GetRunProfiles(cmd.Context(), run.ID)
		if err != nil {
			return err
		}

		formatName, _ := cmd.Flags().GetString("format")
		format, err := export.ParseFormat(formatName)
		if err != nil {
			return err
		}
		dir, _ := cmd.Flags().GetString("output")

		path := filepath.Join(dir, export.FileName(run.Keyword, format, run.StartedAt))
		if err := writeExport(path, format, profiles); err != nil {
			return err
		}
		fmt.Printf("✓ Exported %d profiles to %s\n", len(profiles), path)
		return nil
	},
}

var deleteRunCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a run and its profiles",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := mustApp(cmd)
		run, err := a.Store.GetRun(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := a.Store.DeleteRun(cmd.Context(), run.ID); err != nil {
			return err
		}
		fmt.Printf("✓ Deleted run %s (%s)\n", shortID(run.ID), run.Keyword)
		return nil
	},
}

func printRun(run *models.Run) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("Run %s", shortID(run.ID))))
	fmt.Printf("%s %s\n", labelStyle.Render("Keyword:"), run.Keyword)
	fmt.Printf("%s %s\n", labelStyle.Render("Query:"), valueStyle.Render(run.Query))
	fmt.Printf("%s %s\n", labelStyle.Render("Engine:"), run.Engine)
	fmt.Printf("%s %s\n", labelStyle.Render("Status:"), run.Status)
	fmt.Printf("%s %s\n", labelStyle.Render("Started:"), run.StartedAt.Format(time.RFC1123))
	if run.FinishedAt != nil {
		fmt.Printf("%s %s (%s)\n", labelStyle.Render("Finished:"),
			run.FinishedAt.Format(time.RFC1123), run.FinishedAt.Sub(run.StartedAt).Round(time.Second))
	}
	fmt.Println()
}

func printProfile(n int, p *models.Profile) {
	fmt.Printf("%d. %s\n", n, labelStyle.Render(p.Title))
	fmt.Printf("   %s\n", mutedStyle.Render(p.URL))
	row := export.Row(p)
	fmt.Printf("   %s %s\n", labelStyle.Render("Emails:"), row[3])
	fmt.Printf("   %s %s\n", labelStyle.Render("Phones:"), row[4])
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(listRunsCmd)
	runsCmd.AddCommand(showRunCmd)
	runsCmd.AddCommand(exportRunCmd)
	runsCmd.AddCommand(deleteRunCmd)

	showRunCmd.Flags().Bool("with-contacts", false, "Only show profiles with at least one contact")
	exportRunCmd.Flags().String("format", "csv", "Export format: csv, xlsx")
	exportRunCmd.Flags().StringP("output", "o", ".", "Directory for the export file")
}

