// Package state holds the list state of a session and the only way to change it:
// a pure transition function keyed by a closed set of actions.
package state

import "github.com/idilsaglam/stories/internal/model"

// AsyncList is the single unit of state: the stories plus the status of the
// most recent fetch. Every transition sets both flags explicitly.
type AsyncList struct {
	Items     []model.Story
	IsLoading bool
	IsError   bool
}

// Initial is the state a session starts with.
func Initial() AsyncList {
	return AsyncList{Items: []model.Story{}}
}

// Kind names an action.
type Kind string

const (
	FetchStarted   Kind = "FETCH_STARTED"
	FetchSucceeded Kind = "FETCH_SUCCEEDED"
	FetchFailed    Kind = "FETCH_FAILED"
	ItemRemoved    Kind = "ITEM_REMOVED"
)

// Action is an immutable instruction for Transition. Stories is only read for
// FetchSucceeded, ID only for ItemRemoved.
type Action struct {
	Kind    Kind
	Stories []model.Story
	ID      int
}

func StartFetch() Action { return Action{Kind: FetchStarted} }

func SucceedFetch(stories []model.Story) Action {
	return Action{Kind: FetchSucceeded, Stories: stories}
}

func FailFetch() Action { return Action{Kind: FetchFailed} }

func RemoveItem(id int) Action { return Action{Kind: ItemRemoved, ID: id} }

// Transition computes the successor of s under a. It never modifies s.
// An unknown kind yields the zero AsyncList and an *UnrecognizedActionError.
func Transition(s AsyncList, a Action) (AsyncList, error) {
	next := s
	switch a.Kind {
	case FetchStarted:
		next.IsLoading = true
		next.IsError = false
	case FetchSucceeded:
		next.IsLoading = false
		next.IsError = false
		next.Items = uniqueByID(a.Stories)
	case FetchFailed:
		next.IsLoading = false
		next.IsError = true
	case ItemRemoved:
		next.Items = without(s.Items, a.ID)
	default:
		return AsyncList{}, &UnrecognizedActionError{Kind: a.Kind}
	}
	return next, nil
}

// uniqueByID copies stories, keeping the first story for each ID.
func uniqueByID(stories []model.Story) []model.Story {
	out := make([]model.Story, 0, len(stories))
	seen := make(map[int]struct{}, len(stories))
	for _, st := range stories {
		if _, dup := seen[st.ID]; dup {
			continue
		}
		seen[st.ID] = struct{}{}
		out = append(out, st)
	}
	return out
}

func without(items []model.Story, id int) []model.Story {
	out := make([]model.Story, 0, len(items))
	for _, st := range items {
		if st.ID != id {
			out = append(out, st)
		}
	}
	return out
}

func cloneItems(items []model.Story) []model.Story {
	out := make([]model.Story, len(items))
	copy(out, items)
	return out
}
