package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/stories/internal/model"
)

// OK prints a success line to w.
func OK(w io.Writer, msg string) {
	t := Current()
	fmt.Fprintln(w, t.Success.Render(t.SymOK+" "+msg))
}

// Fail prints an error line to w.
func Fail(w io.Writer, msg string) {
	t := Current()
	fmt.Fprintln(w, t.Error.Render(t.SymFail+" "+msg))
}

// Panel frames inner with the current theme's border.
func Panel(inner string) string {
	t := Current()
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1).
		Render(inner)
}

// PanelLines frames lines joined by newlines.
func PanelLines(lines []string) string {
	return Panel(strings.Join(lines, "\n"))
}

// Header renders the list title with live counts.
func Header(shown, total int) string {
	t := Current()
	return fmt.Sprintf("%s   %s %d  %s %d",
		t.Title.Render("Stories"),
		t.Accent.Render("Shown"), shown,
		t.Muted.Render("Total"), total,
	)
}

// StoryLine renders one story on a single line.
func StoryLine(st model.Story) string {
	t := Current()
	return fmt.Sprintf("%s %s %s",
		t.Title.Render(st.Title),
		t.Muted.Render(st.URL),
		StoryMeta(st),
	)
}

// StoryMeta renders author, comment count and points.
func StoryMeta(st model.Story) string {
	t := Current()
	return t.Muted.Render(fmt.Sprintf("%s by %s · %d comments · %d points", t.SymBullet, st.Author, st.Comments, st.Points))
}

// ErrorBanner is shown above the list after a failed fetch.
func ErrorBanner() string {
	t := Current()
	return t.Error.Render(t.SymFail + " Something went wrong while loading stories.")
}
