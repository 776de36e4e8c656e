package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/khrees2412/contactscout/internal/pipeline"
	"github.com/khrees2412/contactscout/pkg/models"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats [run-id]",
	Short: "View scraping statistics",
	Long:  "Display contact hit rates across all stored runs, or for a single run",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := mustApp(cmd)
		ctx := cmd.Context()

		var runs []*models.Run
		if len(args) == 1 {
			run, err := a.Store.GetRun(ctx, args[0])
			if err != nil {
				return err
			}
			runs = []*models.Run{run}
		} else {
			all, err := a.Store.GetAllRuns(ctx)
			if err != nil {
				return err
			}
			runs = all
		}

		if len(runs) == 0 {
			fmt.Println("No runs yet. Start one with 'contactscout scrape <keyword>'")
			return nil
		}

		var profiles []*models.Profile
		for _, run := range runs {
			p, err := a.Store.GetRunProfiles(ctx, run.ID)
			if err != nil {
				return err
			}
			profiles = append(profiles, p...)
		}

		stats := calculateStats(runs, profiles)

		fmt.Println(titleStyle.Render("Scraping Statistics"))

		// Overall stats
		fmt.Printf("%s\n", labelStyle.Render("Overview"))
		fmt.Printf("  Runs: %d\n", stats.Runs)
		fmt.Printf("  Profiles: %d\n", stats.Contacts.Total)
		fmt.Printf("  With emails: %d\n", stats.Contacts.WithEmails)
		fmt.Printf("  With phones: %d\n", stats.Contacts.WithPhones)
		fmt.Printf("  With both: %d\n", stats.Contacts.Complete)

		// Hit rates
		if stats.Contacts.Total > 0 {
			fmt.Printf("\n%s\n", labelStyle.Render("Hit Rate"))
			fmt.Printf("  Email: %.1f%%\n", percent(stats.Contacts.WithEmails, stats.Contacts.Total))
			fmt.Printf("  Phone: %.1f%%\n", percent(stats.Contacts.WithPhones, stats.Contacts.Total))
			fmt.Printf("  Either: %.1f%%\n", percent(stats.WithAny, stats.Contacts.Total))
		}

		// Run duration
		if stats.AvgDuration > 0 {
			fmt.Printf("\n%s\n", labelStyle.Render("Run Time"))
			fmt.Printf("  Average run duration: %s\n", stats.AvgDuration.Round(time.Second))
		}

		// Status breakdown
		fmt.Printf("\n%s\n", labelStyle.Render("Status Breakdown"))
		for _, status := range sortedKeys(stats.StatusBreakdown) {
			count := stats.StatusBreakdown[status]
			fmt.Printf("  %s: %d (%.1f%%)\n", status, count, percent(count, stats.Runs))
		}

		// Mail domains
		if len(stats.EmailDomains) > 0 {
			fmt.Printf("\n%s\n", labelStyle.Render("Email Domains"))
			for _, d := range topDomains(stats.EmailDomains, 5) {
				fmt.Printf("  %s: %d\n", d, stats.EmailDomains[d])
			}
		}
		return nil
	},
}

type Stats struct {
	Runs            int
	Contacts        pipeline.Stats
	WithAny         int
	AvgDuration     time.Duration
	StatusBreakdown map[string]int
	EmailDomains    map[string]int
}

func calculateStats(runs []*models.Run, profiles []*models.Profile) Stats {
	stats := Stats{
		Runs:            len(runs),
		Contacts:        pipeline.Summary(profiles),
		StatusBreakdown: make(map[string]int),
		EmailDomains:    make(map[string]int),
	}

	var total time.Duration
	var finished int
	for _, run := range runs {
		stats.StatusBreakdown[run.Status]++
		if run.FinishedAt != nil {
			total += run.FinishedAt.Sub(run.StartedAt)
			finished++
		}
	}
	if finished > 0 {
		stats.AvgDuration = total / time.Duration(finished)
	}

	for _, p := range profiles {
		if p.HasEmails() || p.HasPhones() {
			stats.WithAny++
		}
		for _, email := range p.Emails {
			if at := strings.LastIndex(email, "@"); at >= 0 {
				stats.EmailDomains[strings.ToLower(email[at+1:])]++
			}
		}
	}

	return stats
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// topDomains returns the n most common domains, ties broken alphabetically
func topDomains(counts map[string]int, n int) []string {
	domains := sortedKeys(counts)
	sort.SliceStable(domains, func(i, j int) bool {
		return counts[domains[i]] > counts[domains[j]]
	})
	if len(domains) > n {
		domains = domains[:n]
	}
	return domains
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
