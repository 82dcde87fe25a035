package fetch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/stories/internal/model"
	"github.com/idilsaglam/stories/internal/state"
)

func TestSeedSource(t *testing.T) {
	seed := DefaultSeed()
	src := NewSeedSource(seed, 0, false)

	seed[0].Title = "mutated after construction"

	got, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, DefaultSeed(), got)

	got[1].Title = "mutated result"
	again, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, DefaultSeed(), again)
}

func TestSeedSourceFailure(t *testing.T) {
	src := NewSeedSource(DefaultSeed(), 0, true)
	got, err := src.Fetch(context.Background())
	require.ErrorIs(t, err, ErrSeedFailure)
	require.Nil(t, got)
}

func TestSeedSourceHonoursContext(t *testing.T) {
	src := NewSeedSource(DefaultSeed(), time.Hour, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Fetch(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDefaultSeedHasUniqueIDs(t *testing.T) {
	seen := map[int]bool{}
	for _, st := range DefaultSeed() {
		require.False(t, seen[st.ID], "duplicate id %d", st.ID)
		seen[st.ID] = true
	}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestFileSource(t *testing.T) {
	want := []model.Story{
		{ID: 7, Title: "Go", URL: "https://go.dev/", Author: "gopher", Comments: 2, Points: 9},
	}

	tests := []struct {
		name string
		file string
		body string
	}{
		{
			name: "json",
			file: "stories.json",
			body: `[{"id":7,"title":"Go","url":"https://go.dev/","author":"gopher","num_comments":2,"points":9}]`,
		},
		{
			name: "yaml",
			file: "stories.yaml",
			body: "- id: 7\n  title: Go\n  url: https://go.dev/\n  author: gopher\n  num_comments: 2\n  points: 9\n",
		},
		{
			name: "toml",
			file: "stories.toml",
			body: "[[stories]]\nid = 7\ntitle = \"Go\"\nurl = \"https://go.dev/\"\nauthor = \"gopher\"\nnum_comments = 2\npoints = 9\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewFileSource(writeFile(t, tt.file, tt.body)).Fetch(context.Background())
			require.NoError(t, err)
			require.Equal(t, want, got)
		})
	}
}

func TestFileSourceErrors(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "missing.json")).Fetch(context.Background())
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = NewFileSource(writeFile(t, "stories.csv", "id,title")).Fetch(context.Background())
	require.ErrorContains(t, err, "unsupported")

	_, err = NewFileSource(writeFile(t, "stories.json", "{not json")).Fetch(context.Background())
	require.ErrorContains(t, err, "json unmarshal")
}

func TestFileSourceRejectsNegativeComments(t *testing.T) {
	path := writeFile(t, "stories.yaml", "- id: 7\n  title: Broken\n  num_comments: -3\n")
	_, err := NewFileSource(path).Fetch(context.Background())
	require.ErrorIs(t, err, ErrNegativeComments)
	require.ErrorContains(t, err, "story 7")

	st := state.NewStore(zerolog.Nop())
	require.NoError(t, NewOrchestrator(st, NewFileSource(path), zerolog.Nop()).Run(context.Background()))
	require.True(t, st.State().IsError)
	require.Empty(t, st.State().Items)
}

func TestFileSourceEmptyList(t *testing.T) {
	got, err := NewFileSource(writeFile(t, "stories.json", "[]")).Fetch(context.Background())
	require.NoError(t, err)
	require.Empty(t, got)
	require.NotNil(t, got)
}
