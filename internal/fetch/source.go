package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/stories/internal/model"
)

// ErrSeedFailure is what a SeedSource configured to fail returns.
var ErrSeedFailure = errors.New("fetch: seed source configured to fail")

// ErrNegativeComments rejects a stories file with a negative num_comments.
var ErrNegativeComments = errors.New("fetch: num_comments must not be negative")

// SeedSource serves a fixed list of stories after a delay.
type SeedSource struct {
	stories []model.Story
	delay   time.Duration
	fail    bool
}

func NewSeedSource(stories []model.Story, delay time.Duration, fail bool) *SeedSource {
	cp := make([]model.Story, len(stories))
	copy(cp, stories)
	return &SeedSource{stories: cp, delay: delay, fail: fail}
}

func (s *SeedSource) Fetch(ctx context.Context) ([]model.Story, error) {
	if s.delay > 0 {
		t := time.NewTimer(s.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	if s.fail {
		return nil, ErrSeedFailure
	}
	out := make([]model.Story, len(s.stories))
	copy(out, s.stories)
	return out, nil
}

// DefaultSeed returns a fresh copy of the demo stories.
func DefaultSeed() []model.Story {
	return []model.Story{
		{ID: 0, Title: "React", URL: "https://react.dev/", Author: "Jordan Walke", Comments: 3, Points: 4},
		{ID: 1, Title: "Redux", URL: "https://redux.js.org/", Author: "Dan Abramov, Andrew Clark", Comments: 2, Points: 5},
		{ID: 2, Title: "Bubble Tea", URL: "https://github.com/charmbracelet/bubbletea", Author: "Charm", Comments: 8, Points: 12},
		{ID: 3, Title: "Lip Gloss", URL: "https://github.com/charmbracelet/lipgloss", Author: "Charm", Comments: 1, Points: 7},
		{ID: 4, Title: "The Go Programming Language", URL: "https://go.dev/", Author: "Robert Griesemer, Rob Pike, Ken Thompson", Comments: 21, Points: 42},
	}
}

// FileSource reads stories from a JSON, YAML or TOML file, chosen by extension.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource { return &FileSource{path: path} }

// tomlDoc wraps the list; TOML has no top-level arrays.
type tomlDoc struct {
	Stories []model.Story `toml:"stories"`
}

func (f *FileSource) Fetch(ctx context.Context) ([]model.Story, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read stories: %w", err)
	}

	var stories []model.Story
	switch ext := strings.ToLower(filepath.Ext(f.path)); ext {
	case ".json":
		if err := json.Unmarshal(b, &stories); err != nil {
			return nil, fmt.Errorf("json unmarshal: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &stories); err != nil {
			return nil, fmt.Errorf("yaml unmarshal: %w", err)
		}
	case ".toml":
		var doc tomlDoc
		if err := toml.Unmarshal(b, &doc); err != nil {
			return nil, fmt.Errorf("toml unmarshal: %w", err)
		}
		stories = doc.Stories
	default:
		return nil, fmt.Errorf("unsupported stories file extension %q", ext)
	}
	for _, st := range stories {
		if st.Comments < 0 {
			return nil, fmt.Errorf("story %d: %w", st.ID, ErrNegativeComments)
		}
	}
	if stories == nil {
		stories = []model.Story{}
	}
	return stories, nil
}
