// Package tui is the interactive story browser: a search input over a list
// that is loaded once, asynchronously, when the program starts.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/idilsaglam/stories/internal/fetch"
	"github.com/idilsaglam/stories/internal/filter"
	"github.com/idilsaglam/stories/internal/model"
	"github.com/idilsaglam/stories/internal/prefs"
	"github.com/idilsaglam/stories/internal/state"
	"github.com/idilsaglam/stories/internal/ui"
)

// storyItem adapts model.Story to bubbles/list.Item
type storyItem struct {
	story model.Story
}

// Implement list.Item interface
func (i storyItem) Title() string       { return i.story.Title }
func (i storyItem) Description() string { return i.story.URL }
func (i storyItem) FilterValue() string { return i.story.Title }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(storyItem)
	if !ok {
		return
	}
	t := ui.Current()
	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render(t.SymCursor)
	}
	fmt.Fprintln(w, prefix+ui.StoryLine(it.story))
}

// Bubble Tea messages
type fetchDoneMsg struct {
	res fetch.Result
}

type fatalMsg struct {
	err error
}

// Deps are the collaborators of the browser.
type Deps struct {
	Store         *state.Store
	Orchestrator  *fetch.Orchestrator
	Search        *prefs.SearchTerm
	DefaultSearch string
	AllowRefetch  bool
	Log           zerolog.Logger
}

// Model implements tea.Model. The store and orchestrator are shared pointers;
// Bubble Tea calls Init and Update from one goroutine.
type Model struct {
	ctx     context.Context
	store   *state.Store
	orch    *fetch.Orchestrator
	search  *prefs.SearchTerm
	log     zerolog.Logger
	keys    keyMap
	list    list.Model
	input   textinput.Model
	spinner spinner.Model

	searching bool  // true while the search input has focus
	err       error // contract violation that ended the program
	width     int
	height    int
}

func New(ctx context.Context, d Deps) Model {
	keys := newKeyMap(d.AllowRefetch)

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetShowHelp(true)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("story", "stories")
	l.KeyMap.NextPage.SetKeys("right", "l", "pgdown", "f") // "d" removes
	l.Styles.HelpStyle = ui.Current().Muted
	l.Styles.PaginationStyle = ui.Current().Muted
	l.AdditionalShortHelpKeys = keys.extra
	l.AdditionalFullHelpKeys = keys.extra

	ti := textinput.New()
	ti.Prompt = "Search: "
	ti.Placeholder = "title..."
	ti.CharLimit = 200
	ti.SetValue(d.Search.Load(ctx, d.DefaultSearch))
	ti.CursorEnd()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = ui.Current().Pending

	m := Model{
		ctx:     ctx,
		store:   d.Store,
		orch:    d.Orchestrator,
		search:  d.Search,
		log:     d.Log,
		keys:    keys,
		list:    l,
		input:   ti,
		spinner: sp,
	}
	m.resize(80, 24)
	return m
}

// Init starts the one fetch of the session.
func (m Model) Init() tea.Cmd {
	load, err := m.orch.Start(m.ctx)
	if err != nil {
		return func() tea.Msg { return fatalMsg{err: err} }
	}
	return tea.Batch(m.spinner.Tick, loadCmd(load))
}

// loadCmd runs the pending fetch off the event loop.
func loadCmd(load fetch.Load) tea.Cmd {
	return func() tea.Msg {
		return fetchDoneMsg{res: load()}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fatalMsg:
		return m.fail(msg.err)

	case fetchDoneMsg:
		if err := m.orch.Settle(msg.res); err != nil {
			if errors.Is(err, fetch.ErrStaleResult) {
				m.log.Warn().Int("attempt", msg.res.Attempt).Msg("dropping stale fetch result")
				return m, nil
			}
			return m.fail(err)
		}
		cmd := m.syncList()
		return m, cmd

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if !m.store.State().IsLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// updateSearch feeds keys to the search input. The term is persisted on every
// path out of here.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	defer func() { m.search.Sync(m.ctx, m.input.Value()) }()

	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Done):
		m.searching = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	sync := m.syncList()
	return m, tea.Batch(cmd, sync)
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Remove):
		if it, ok := m.list.SelectedItem().(storyItem); ok {
			return m.remove(it.story.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Refetch):
		load, err := m.orch.Refetch(m.ctx)
		if errors.Is(err, fetch.ErrInFlight) {
			return m, nil
		}
		if err != nil {
			return m.fail(err)
		}
		return m, tea.Batch(m.spinner.Tick, loadCmd(load))
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// remove translates a removal request for id into ITEM_REMOVED.
func (m Model) remove(id int) (tea.Model, tea.Cmd) {
	if err := m.store.Dispatch(state.RemoveItem(id)); err != nil {
		return m.fail(err)
	}
	cmd := m.syncList()
	return m, cmd
}

func (m Model) fail(err error) (tea.Model, tea.Cmd) {
	m.log.Error().Err(err).Msg("stopping")
	m.err = err
	return m, tea.Quit
}

// Err is the error that ended the program, if any.
func (m Model) Err() error { return m.err }

// visible is the filtered view of the current state.
func (m Model) visible() []model.Story {
	return filter.Titles(m.store.State().Items, m.input.Value())
}

func (m *Model) syncList() tea.Cmd {
	stories := m.visible()
	items := make([]list.Item, 0, len(stories))
	for _, st := range stories {
		items = append(items, storyItem{story: st})
	}
	cmd := m.list.SetItems(items)
	if n := len(items); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}
	return cmd
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	listHeight := h - 7
	if listHeight < 3 {
		listHeight = 3
	}
	m.list.SetSize(w-4, listHeight)
	m.input.Width = w - 4 - len(m.input.Prompt)
}

func (m Model) View() string {
	st := m.store.State()
	t := ui.Current()
	shown := m.visible()

	lines := []string{ui.Header(len(shown), len(st.Items)), m.input.View()}

	switch {
	case st.IsLoading:
		lines = append(lines, m.spinner.View()+" Loading ...")
	case st.IsError:
		lines = append(lines, ui.ErrorBanner())
	default:
		lines = append(lines, "")
	}

	// the list itself says "No stories." when empty
	if term := m.input.Value(); len(shown) == 0 && term != "" && !st.IsLoading {
		empty := t.Muted.Render(fmt.Sprintf("No stories match %q.", term))
		if closest, ok := filter.Closest(st.Items, term); ok {
			empty += " " + t.Accent.Render("Did you mean "+closest.Title+"?")
		}
		lines = append(lines, empty)
	}
	lines = append(lines, m.list.View())

	return ui.Panel(strings.Join(lines, "\n"))
}

// Run starts the browser in the alternate screen and blocks until it quits.
func Run(ctx context.Context, d Deps) error {
	p := tea.NewProgram(New(ctx, d), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}
