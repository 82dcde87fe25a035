package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/stories/internal/model"
	"github.com/idilsaglam/stories/internal/ui"
)

func writeConfig(t *testing.T, fail bool) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Cleanup(func() { ui.SetTheme("classic") })

	body := fmt.Sprintf(`
[storage]
driver = "json"
path = %q

[fetch]
delay = "0s"
fail = %t

[ui]
theme = "mono"
`, filepath.Join(dir, "prefs.json"), fail)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestListPrintsStories(t *testing.T) {
	cfg := writeConfig(t, false)

	code, out, errOut := run(t, "--config", cfg, "ls")
	require.Equal(t, 0, code, errOut)
	require.Contains(t, out, "React")
	require.Contains(t, out, "Redux")
	require.Contains(t, out, "Shown 5")
}

func TestListFilterAndHide(t *testing.T) {
	cfg := writeConfig(t, false)

	code, out, errOut := run(t, "--config", cfg, "ls", "--filter", "re", "--hide", "0")
	require.Equal(t, 0, code, errOut)
	require.Contains(t, out, "Redux")
	require.NotContains(t, out, "React")
	require.Contains(t, out, "Shown 1")
	require.Contains(t, out, "Total 4")
}

func TestListSuggestsClosest(t *testing.T) {
	cfg := writeConfig(t, false)

	code, out, _ := run(t, "--config", cfg, "ls", "-f", "Reduz")
	require.Equal(t, 0, code)
	require.Contains(t, out, "no stories")
	require.Contains(t, out, "Did you mean Redux?")
}

func TestListFetchFailure(t *testing.T) {
	cfg := writeConfig(t, true)

	code, out, errOut := run(t, "--config", cfg, "ls")
	require.Equal(t, 1, code)
	require.Contains(t, out, "Something went wrong")
	require.Contains(t, out, "no stories")
	require.Contains(t, errOut, "could not load stories")
}

func TestListTrace(t *testing.T) {
	cfg := writeConfig(t, false)

	code, _, errOut := run(t, "--config", cfg, "ls", "--trace", "--hide", "3")
	require.Equal(t, 0, code)
	require.Contains(t, errOut, "FETCH_STARTED")
	require.Contains(t, errOut, "FETCH_SUCCEEDED")
	require.Contains(t, errOut, "ITEM_REMOVED")
	require.NotContains(t, errOut, "loading=true error=true")
}

func TestSearchRoundTrip(t *testing.T) {
	cfg := writeConfig(t, false)

	code, out, errOut := run(t, "--config", cfg, "search", "set", "Bubble", "Tea")
	require.Equal(t, 0, code, errOut)
	require.Contains(t, out, "search term saved")

	code, out, _ = run(t, "--config", cfg, "search", "get")
	require.Equal(t, 0, code)
	require.Equal(t, "Bubble Tea\n", out)

	code, _, _ = run(t, "--config", cfg, "search", "clear")
	require.Equal(t, 0, code)

	code, out, _ = run(t, "--config", cfg, "search", "get")
	require.Equal(t, 0, code)
	require.Equal(t, "(none)\n", out)
}

func TestUsageErrors(t *testing.T) {
	cfg := writeConfig(t, false)

	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown_subcommand", args: []string{"--config", cfg, "bogus"}},
		{name: "search_set_without_term", args: []string{"--config", cfg, "search", "set"}},
		{name: "search_get_extra_arg", args: []string{"--config", cfg, "search", "get", "x"}},
		{name: "unknown_flag", args: []string{"--config", cfg, "ls", "--nope"}},
		{name: "bad_hide", args: []string{"--config", cfg, "ls", "--hide", "abc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := run(t, tt.args...)
			require.Equal(t, 2, code, errOut)
			require.NotEmpty(t, errOut)
		})
	}
}

func TestBadConfigIsAnError(t *testing.T) {
	cfg := writeConfig(t, false)
	code, _, errOut := run(t, "--config", cfg+".missing", "ls")
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "read config")
}

func TestConfigPrintsTOML(t *testing.T) {
	cfg := writeConfig(t, false)

	code, out, errOut := run(t, "--config", cfg, "config")
	require.Equal(t, 0, code, errOut)
	require.Contains(t, out, "[storage]")
	require.Contains(t, out, "[fetch]")
	require.Contains(t, out, "0s")
	require.Contains(t, out, "mono")
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{name: "short", in: "React", want: "React"},
		{name: "exact", in: strings.Repeat("é", 80), want: strings.Repeat("é", 80)},
		{name: "multibyte_at_cut", in: strings.Repeat("a", 76) + "éééé" + "b", want: strings.Repeat("a", 76) + "é..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, 80)
			require.Equal(t, tt.want, got)
			require.True(t, utf8.ValidString(got))
		})
	}
}

func TestFlatLinesLongTitleIsValidUTF8(t *testing.T) {
	ui.SetTheme("mono")
	t.Cleanup(func() { ui.SetTheme("classic") })

	lines := flatLines([]model.Story{{ID: 1, Title: strings.Repeat("a", 76) + "éééé" + "bb"}})
	require.NotEmpty(t, lines)
	require.True(t, utf8.ValidString(lines[0]), lines[0])
	require.Contains(t, lines[0], "é...")
}
