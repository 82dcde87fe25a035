package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/idilsaglam/stories/internal/fetch"
	"github.com/idilsaglam/stories/internal/filter"
	"github.com/idilsaglam/stories/internal/model"
	"github.com/idilsaglam/stories/internal/prefs"
	"github.com/idilsaglam/stories/internal/state"
	"github.com/idilsaglam/stories/internal/tui"
	"github.com/idilsaglam/stories/internal/ui"
)

// errFetchFailed marks a finished `ls` whose fetch failed; the list was
// already printed.
var errFetchFailed = errors.New("fetch failed")

// usageError is reported with exit code 2.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

// globalFlags apply to every subcommand.
type globalFlags struct {
	configPath string
	theme      string
	logLevel   string
}

func bindGlobalFlags(fs *pflag.FlagSet, g *globalFlags) {
	fs.StringVar(&g.configPath, "config", "", "config file (default $STORIES_CONFIG or ~/.config/stories/config.toml)")
	fs.StringVar(&g.theme, "theme", "", "color theme: classic, neon or mono")
	fs.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")
}

// Options tune the non-interactive list.
type Options struct {
	Filter string
	Hide   []int
	Delay  *time.Duration // overrides fetch.delay when set
	Trace  bool
}

// Execute runs the command line and returns an exit code (0 ok, 1 error, 2 usage).
func Execute(args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd(stdout, stderr)
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return 0
	}
	if errors.Is(err, errFetchFailed) {
		return 1
	}
	ui.Fail(stderr, err.Error())
	var uerr usageError
	if errors.As(err, &uerr) {
		fmt.Fprintln(stderr)
		_ = root.Usage()
		return 2
	}
	return 1
}

// NewRootCmd builds the command tree. Running it without a subcommand starts
// the interactive browser.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "stories",
		Short: "Browse and filter a list of stories",
		Long: strings.TrimSpace(`
stories loads a list of stories once, asynchronously, and lets you filter it
by title and remove entries. The search term is remembered between runs.`),
		Example: strings.TrimSpace(`
  stories
  stories ls --filter react
  stories search set redux`),
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowser(cmd.Context(), g, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{msg: err.Error()}
	})
	bindGlobalFlags(root.PersistentFlags(), g)

	root.AddCommand(newListCmd(g, stdout, stderr), newSearchCmd(g, stdout, stderr), newConfigCmd(g, stdout, stderr))
	return root
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usagef("unknown subcommand: %s", args[0])
	}
	return nil
}

func exactArgs(n int, use string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("usage: %s", use)
		}
		return nil
	}
}

// ---------------------------------------------------
// Interactive browser
// ---------------------------------------------------

func runBrowser(ctx context.Context, g *globalFlags, stderr io.Writer) error {
	s, err := openSession(g, stderr, true)
	if err != nil {
		return err
	}
	defer s.close()

	st := state.NewStore(s.log)
	return tui.Run(ctx, tui.Deps{
		Store:         st,
		Orchestrator:  fetch.NewOrchestrator(st, s.source(), s.log),
		Search:        prefs.NewSearchTerm(s.kv, s.cfg.UI.SearchKey, s.log),
		DefaultSearch: s.cfg.UI.DefaultSearch,
		AllowRefetch:  s.cfg.Fetch.AllowRefetch,
		Log:           s.log,
	})
}

// ---------------------------------------------------
// ls
// ---------------------------------------------------

func newListCmd(g *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var opt Options
	var delay time.Duration

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "Load the stories once and print the filtered list",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("delay") {
				opt.Delay = &delay
			}
			return doList(cmd.Context(), g, opt, stdout, stderr)
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&opt.Filter, "filter", "f", "", "only show stories whose title contains this text")
	fs.IntSliceVar(&opt.Hide, "hide", nil, "remove the story with this id (repeatable)")
	fs.DurationVar(&delay, "delay", 0, "override fetch.delay for the seed source")
	fs.BoolVar(&opt.Trace, "trace", false, "print every state transition to stderr")
	return cmd
}

func doList(ctx context.Context, g *globalFlags, opt Options, stdout, stderr io.Writer) error {
	s, err := openSession(g, stderr, false)
	if err != nil {
		return err
	}
	defer s.close()
	if opt.Delay != nil {
		s.cfg.Fetch.Delay = *opt.Delay
	}

	st := state.NewStore(s.log)
	if opt.Trace {
		cancel := st.Subscribe(func(_, next state.AsyncList, a state.Action) {
			fmt.Fprintln(stderr, traceLine(next, a))
		})
		defer cancel()
	}

	if err := fetch.NewOrchestrator(st, s.source(), s.log).Run(ctx); err != nil {
		return err
	}
	for _, id := range opt.Hide {
		if err := st.Dispatch(state.RemoveItem(id)); err != nil {
			return err
		}
	}

	cur := st.State()
	shown := filter.Titles(cur.Items, opt.Filter)

	t := ui.Current()
	var lines []string
	lines = append(lines, ui.Header(len(shown), len(cur.Items)))
	if cur.IsError {
		lines = append(lines, ui.ErrorBanner())
	}
	lines = append(lines, "")
	lines = append(lines, flatLines(shown)...)
	if len(shown) == 0 && opt.Filter != "" {
		if closest, ok := filter.Closest(cur.Items, opt.Filter); ok {
			lines = append(lines, "", t.Accent.Render("Did you mean "+closest.Title+"?"))
		}
	}
	fmt.Fprintln(stdout, ui.PanelLines(lines))

	if cur.IsError {
		ui.Fail(stderr, "could not load stories")
		return errFetchFailed
	}
	return nil
}

func traceLine(next state.AsyncList, a state.Action) string {
	return ui.Current().Muted.Render(fmt.Sprintf("%-16s loading=%t error=%t items=%d",
		a.Kind, next.IsLoading, next.IsError, len(next.Items)))
}

// -------------- rendering helpers --------------

func flatLines(items []model.Story) []string {
	t := ui.Current()
	if len(items) == 0 {
		return []string{t.Muted.Render("no stories")}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		idx := t.Muted.Render(fmt.Sprintf("%3d.", it.ID))
		line := fmt.Sprintf("%s %s %s", idx, t.Title.Render(truncate(it.Title, 80)), t.Accent.Render(it.URL))
		out = append(out, line, "     "+ui.StoryMeta(it))
	}
	return out
}

// truncate cuts s to at most n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// ---------------------------------------------------
// search
// ---------------------------------------------------

func newSearchCmd(g *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Show or change the remembered search term",
		Args:  noArgs,
	}

	get := &cobra.Command{
		Use:   "get",
		Short: "Print the remembered search term",
		Args:  exactArgs(0, "stories search get"),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(g, stderr, false)
			if err != nil {
				return err
			}
			defer s.close()

			v, ok, err := s.kv.Get(cmd.Context(), s.cfg.UI.SearchKey)
			if err != nil {
				return fmt.Errorf("load: %w", err)
			}
			if !ok || v == "" {
				fmt.Fprintln(stdout, ui.Current().Muted.Render("(none)"))
				return nil
			}
			fmt.Fprintln(stdout, v)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <term...>",
		Short: "Remember a search term (can be multiple words)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usagef("usage: stories search set <term...>")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return saveSearch(cmd.Context(), g, strings.Join(args, " "), "search term saved", stdout, stderr)
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget the search term",
		Args:  exactArgs(0, "stories search clear"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return saveSearch(cmd.Context(), g, "", "search term cleared", stdout, stderr)
		},
	}

	cmd.AddCommand(get, set, clearCmd)
	return cmd
}

func saveSearch(ctx context.Context, g *globalFlags, term, done string, stdout, stderr io.Writer) error {
	s, err := openSession(g, stderr, false)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.kv.Set(ctx, s.cfg.UI.SearchKey, strings.TrimSpace(term)); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	ui.OK(stdout, done)
	return nil
}

// ---------------------------------------------------
// config
// ---------------------------------------------------

func newConfigCmd(g *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(g, stderr, false)
			if err != nil {
				return err
			}
			defer s.close()

			b, err := s.cfg.TOML()
			if err != nil {
				return err
			}
			_, err = stdout.Write(b)
			return err
		},
	}
}

// Main is the shared entry point of the binaries.
func Main() {
	os.Exit(Execute(os.Args[1:], os.Stdout, os.Stderr))
}
