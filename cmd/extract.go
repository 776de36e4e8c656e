package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/khrees2412/contactscout/internal/contacts"
	"github.com/spf13/cobra"
)

// maxExtractInput bounds how much of a file or stdin is read
const maxExtractInput = 16 << 20

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract contacts from a saved page or text",
	Long: `Run the contact extractor over a local HTML or text file, or over stdin when
no file is given. With --explain every candidate is listed along with the
filter rule that discarded it.`,
	Example: `  contactscout extract profile.html
  curl -s https://example.org/team | contactscout extract --json
  contactscout extract notes.txt --explain`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{skipAppAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		explain, _ := cmd.Flags().GetBool("explain")
		asJSON, _ := cmd.Flags().GetBool("json")
		out := cmd.OutOrStdout()

		if explain {
			decisions := contacts.Explain(text)
			if asJSON {
				return writeJSON(out, decisions)
			}
			printDecisions(out, decisions)
			return nil
		}

		record := contacts.Extract(text)
		if asJSON {
			return writeJSON(out, record)
		}

		fmt.Fprintln(out, titleStyle.Render("Contacts"))
		printList(out, "Emails:", record.Emails, "No emails found")
		printList(out, "Phones:", record.Phones, "No phones found")
		return nil
	},
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	b, err := io.ReadAll(io.LimitReader(r, maxExtractInput))
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(b), nil
}

func printList(out io.Writer, label string, values []string, empty string) {
	fmt.Fprintln(out, labelStyle.Render(label))
	if len(values) == 0 {
		fmt.Fprintf(out, "  %s\n", mutedStyle.Render(empty))
		return
	}
	for _, v := range values {
		fmt.Fprintf(out, "  • %s\n", v)
	}
}

func printDecisions(out io.Writer, decisions []contacts.Decision) {
	fmt.Fprintln(out, titleStyle.Render("Candidates"))
	if len(decisions) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("  No candidates recognised"))
		return
	}
	for _, d := range decisions {
		verdict := "✓ kept"
		if !d.Kept() {
			verdict = "✗ " + d.Rule
		}
		fmt.Fprintf(out, "  %-5s %-36s %-20s %s\n", d.Kind, d.Candidate, mutedStyle.Render(d.Pattern), verdict)
	}
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().Bool("explain", false, "List every candidate and the rule that rejected it")
	extractCmd.Flags().Bool("json", false, "Print JSON instead of text")
}
