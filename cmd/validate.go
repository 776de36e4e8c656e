package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/khrees2412/contactscout/internal/profileurl"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [url...]",
	Short: "Check whether URLs are individual LinkedIn profiles",
	Long: `Check URLs with the same validator used during scraping. Search engine
redirect links are unwrapped first. URLs are read from stdin, one per line,
when none are given as arguments.`,
	Example: `  contactscout validate https://www.linkedin.com/in/jane-doe/
  contactscout validate "https://www.google.com/url?q=https://www.linkedin.com/in/jane-doe"
  cat links.txt | contactscout validate --quiet`,
	Annotations: map[string]string{skipAppAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		urls := args
		if len(urls) == 0 {
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				if line := strings.TrimSpace(scanner.Text()); line != "" {
					urls = append(urls, line)
				}
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read urls: %w", err)
			}
		}

		quiet, _ := cmd.Flags().GetBool("quiet")
		out := cmd.OutOrStdout()

		valid := 0
		for _, raw := range urls {
			normalized, ok := profileurl.Normalize(raw)
			if ok {
				valid++
			}
			switch {
			case quiet && ok:
				fmt.Fprintln(out, normalized)
			case quiet:
			case ok:
				fmt.Fprintf(out, "✓ %s\n  %s %s\n", raw, labelStyle.Render("→"), normalized)
			default:
				fmt.Fprintf(out, "✗ %s\n", mutedStyle.Render(raw))
			}
		}

		if !quiet {
			fmt.Fprintf(out, "\n%d of %d URLs are profile URLs\n", valid, len(urls))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolP("quiet", "q", false, "Print only the normalized valid URLs")
}
