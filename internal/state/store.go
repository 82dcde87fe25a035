package state

import (
	"github.com/rs/zerolog"
)

// Observer runs after each state replacement.
type Observer func(prev, next AsyncList, a Action)

// Store owns the AsyncList of one session. It is driven from a single event
// loop and carries no lock.
type Store struct {
	current   AsyncList
	observers map[int]Observer
	order     []int
	nextID    int
	log       zerolog.Logger
}

func NewStore(log zerolog.Logger) *Store {
	return &Store{
		current:   Initial(),
		observers: map[int]Observer{},
		log:       log,
	}
}

// State returns a copy of the current state.
func (s *Store) State() AsyncList {
	return snapshot(s.current)
}

func snapshot(l AsyncList) AsyncList {
	l.Items = cloneItems(l.Items)
	return l
}

// Dispatch replaces the state with Transition(current, a). On error the state
// is left as it was and no observer runs. Observers receive copies.
func (s *Store) Dispatch(a Action) error {
	next, err := Transition(s.current, a)
	if err != nil {
		s.log.Error().Err(err).Str("action", string(a.Kind)).Msg("dispatch rejected")
		return err
	}
	prev := s.current
	s.current = next
	s.log.Debug().
		Str("action", string(a.Kind)).
		Int("items", len(next.Items)).
		Bool("loading", next.IsLoading).
		Bool("error", next.IsError).
		Msg("state replaced")

	for _, id := range s.order {
		if o, ok := s.observers[id]; ok {
			o(snapshot(prev), snapshot(next), a)
		}
	}
	return nil
}

// Subscribe registers o and returns a func that removes it.
func (s *Store) Subscribe(o Observer) (cancel func()) {
	id := s.nextID
	s.nextID++
	s.observers[id] = o
	s.order = append(s.order, id)
	return func() {
		delete(s.observers, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i:i], s.order[i+1:]...)
				break
			}
		}
	}
}
