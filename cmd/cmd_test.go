package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/khrees2412/contactscout/internal/contacts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestExtractCommandJSON(t *testing.T) {
	out := execute(t, "Ping ravi.k@gmail.com or +91 98765 12345",
		"extract", "--json", "--explain=false")

	var record contacts.Record
	require.NoError(t, json.Unmarshal([]byte(out), &record))
	assert.Equal(t, []string{"ravi.k@gmail.com"}, record.Emails)
	assert.Equal(t, []string{"+91 98765 12345"}, record.Phones)
}

func TestExtractCommandFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.html")
	require.NoError(t, os.WriteFile(path, []byte(`<p>priya[at]outlook.com</p>`), 0600))

	out := execute(t, "", "extract", path, "--json=false", "--explain=false")
	assert.Contains(t, out, "priya@outlook.com")
	assert.Contains(t, out, "No phones found")
}

func TestExtractCommandExplain(t *testing.T) {
	out := execute(t, "noreply@shop.in 9999999999", "extract", "--explain", "--json=false")
	assert.Contains(t, out, "blocked_domain")
	assert.Contains(t, out, "fake_pattern")
}

func TestValidateCommand(t *testing.T) {
	out := execute(t, "", "validate", "--quiet=false",
		"https://www.google.com/url?q=https://www.linkedin.com/in/jane-doe",
		"https://www.linkedin.com/company/acme")

	assert.Contains(t, out, "https://www.linkedin.com/in/jane-doe")
	assert.Contains(t, out, "1 of 2 URLs are profile URLs")
}

func TestValidateCommandQuietFromStdin(t *testing.T) {
	stdin := "https://in.linkedin.com/in/rahul?trk=x\n\nhttps://www.linkedin.com/jobs/view/1\n"
	out := execute(t, stdin, "validate", "--quiet")

	assert.Equal(t, "https://in.linkedin.com/in/rahul\n", out)
}
