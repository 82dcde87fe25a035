package filter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/stories/internal/model"
)

func items() []model.Story {
	return []model.Story{
		{ID: 0, Title: "React"},
		{ID: 1, Title: "Redux"},
		{ID: 2, Title: "Straße und Reactivity"},
	}
}

func TestTitles(t *testing.T) {
	tests := []struct {
		name string
		term string
		want []int
	}{
		{name: "empty term keeps all", term: "", want: []int{0, 1, 2}},
		{name: "case insensitive", term: "rEaCt", want: []int{0, 2}},
		{name: "prefix", term: "Re", want: []int{0, 1, 2}},
		{name: "unicode folding", term: "STRASSE", want: []int{2}},
		{name: "no match", term: "Angular", want: []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Titles(items(), tt.term)
			ids := make([]int, 0, len(got))
			for _, st := range got {
				ids = append(ids, st.ID)
			}
			require.Equal(t, tt.want, ids)
		})
	}
}

func TestTitlesLeavesItemsUntouched(t *testing.T) {
	in := items()
	got := Titles(in, "zzz-not-in-any-title")
	require.Empty(t, got)
	require.Equal(t, items(), in)

	all := Titles(in, "")
	all[0].Title = "changed"
	require.Equal(t, "React", in[0].Title)
}

func TestClosest(t *testing.T) {
	got, ok := Closest(items(), "redx")
	require.True(t, ok)
	require.Equal(t, 1, got.ID)

	got, ok = Closest(items(), "REACT")
	require.True(t, ok)
	require.Equal(t, 0, got.ID)

	_, ok = Closest(items(), "")
	require.False(t, ok)

	_, ok = Closest(nil, "react")
	require.False(t, ok)
}
