package store

import (
	"fmt"
	"io"

	"github.com/idilsaglam/stories/internal/store/jsonstore"
	"github.com/idilsaglam/stories/internal/store/sqlitestore"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns the KV for driver ("json", "sqlite" or "memory"). An empty
// path selects the driver's default location. The closer must be closed when
// the KV is no longer used.
func Open(driver, path string) (KV, io.Closer, error) {
	switch driver {
	case "", "json":
		if path == "" {
			p, err := jsonstore.DefaultPath()
			if err != nil {
				return nil, nil, err
			}
			path = p
		}
		return jsonstore.New(path), nopCloser{}, nil
	case "sqlite":
		if path == "" {
			p, err := sqlitestore.DefaultPath()
			if err != nil {
				return nil, nil, err
			}
			path = p
		}
		s, err := sqlitestore.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case "memory":
		return NewMemory(), nopCloser{}, nil
	}
	return nil, nil, fmt.Errorf("store: unknown driver %q", driver)
}
