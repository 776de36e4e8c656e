package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/khrees2412/contactscout/internal/app"
	"github.com/khrees2412/contactscout/internal/export"
	"github.com/khrees2412/contactscout/pkg/models"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse stored runs interactively",
	Long:  "Launch an interactive terminal browser for stored runs and the contacts they found",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBrowser(cmd.Context(), mustApp(cmd))
	},
}

func runBrowser(ctx context.Context, a *app.App) error {
	runs, err := a.Store.GetAllRuns(ctx)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs found. Start one with 'contactscout scrape <keyword>'")
		return nil
	}

	reader := bufio.NewReader(os.Stdin)

	for {
		// Display run list
		fmt.Println(titleStyle.Render("Run Browser"))
		fmt.Println("Press 'q' to quit, or enter a run number to view its profiles")
		fmt.Println()

		for i, run := range runs {
			fmt.Printf("%d. %s  %s  (%d profiles, %s)\n", i+1, shortID(run.ID), run.Keyword,
				run.ProfileCount, run.StartedAt.Format("Jan 2 15:04"))
		}

		fmt.Print("\n> ")
		input, err := reader.ReadString('\n')
		input = strings.TrimSpace(input)

		if input == "q" || input == "Q" || (err != nil && input == "") {
			return nil
		}

		runNum, convErr := strconv.Atoi(input)
		if convErr != nil || runNum < 1 || runNum > len(runs) {
			fmt.Println("Invalid selection")
			continue
		}

		run := runs[runNum-1]
		if err := browseRun(ctx, a, run, reader); err != nil {
			return err
		}
	}
}

func browseRun(ctx context.Context, a *app.App, run *models.Run, reader *bufio.Reader) error {
	profiles, err := a.Store.GetRunProfiles(ctx, run.ID)
	if err != nil {
		return err
	}

	for {
		fmt.Println("\n" + strings.Repeat("=", 60))
		printRun(run)

		for i, p := range profiles {
			marker := " "
			if p.HasEmails() || p.HasPhones() {
				marker = "★"
			}
			fmt.Printf("%s %d. %s\n", marker, i+1, p.Title)
		}

		fmt.Println("\nOptions:")
		fmt.Println("  [number] Show profile contacts")
		fmt.Println("  [c] Export to CSV")
		fmt.Println("  [x] Export to Excel")
		fmt.Println("  [b] Back to list")
		fmt.Print("\n> ")

		choice, err := reader.ReadString('\n')
		choice = strings.TrimSpace(strings.ToLower(choice))
		if err != nil && choice == "" {
			return nil
		}

		switch choice {
		case "c", "x":
			format := export.CSV
			if choice == "x" {
				format = export.XLSX
			}
			path := export.FileName(run.Keyword, format, run.StartedAt)
			if err := writeExport(path, format, profiles); err != nil {
				fmt.Printf("Error: %v\n", err)
			} else {
				fmt.Printf("✓ Exported to %s\n", path)
			}
		case "b":
			return nil
		default:
			n, convErr := strconv.Atoi(choice)
			if convErr != nil || n < 1 || n > len(profiles) {
				fmt.Println("Invalid choice")
				continue
			}
			fmt.Println()
			printProfile(n, profiles[n-1])
		}
	}
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
