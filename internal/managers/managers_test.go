package managers

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/tarmac-project/indexeddb"
)

// stub satisfies indexeddb.Manager; only Open is reachable from the cache.
type stub struct {
	indexeddb.Manager
	name    string
	opened  int
	openErr error
}

func (s *stub) Open(indexeddb.Callback) (uuid.UUID, error) {
	s.opened++
	return uuid.New(), s.openErr
}

func schemas(names ...string) []indexeddb.DatabaseSchema {
	out := make([]indexeddb.DatabaseSchema, 0, len(names))
	for _, n := range names {
		out = append(out, indexeddb.DatabaseSchema{Name: n, Stores: []indexeddb.StoreSchema{{Name: "s"}}})
	}
	return out
}

func TestNew(t *testing.T) {
	t.Parallel()

	build := func(s indexeddb.DatabaseSchema) (indexeddb.Manager, error) { return &stub{name: s.Name}, nil }

	tt := []struct {
		name    string
		schemas []indexeddb.DatabaseSchema
		wantErr error
	}{
		{name: "valid", schemas: schemas("a", "b")},
		{name: "none", schemas: nil},
		{name: "duplicate", schemas: schemas("a", "a"), wantErr: indexeddb.ErrDuplicateDatabase},
		{name: "invalid", schemas: []indexeddb.DatabaseSchema{{}}, wantErr: indexeddb.ErrInvalidSchema},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(tc.schemas, build)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	var builds atomic.Int32
	c, err := New(schemas("a", "b"), func(s indexeddb.DatabaseSchema) (indexeddb.Manager, error) {
		builds.Add(1)
		return &stub{name: s.Name}, nil
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	t.Run("unknown name populates everything", func(t *testing.T) {
		m, err := c.Get("missing")
		if !errors.Is(err, indexeddb.ErrDatabaseNotFound) {
			t.Fatalf("expected ErrDatabaseNotFound, got %v", err)
		}
		if m != nil {
			t.Fatalf("expected nil manager, got %v", m)
		}
		if c.Len() != 2 {
			t.Fatalf("expected 2 cached managers, got %d", c.Len())
		}
	})

	t.Run("identity stable and opened once", func(t *testing.T) {
		first, err := c.Get("a")
		if err != nil {
			t.Fatalf("Get returned error: %v", err)
		}
		second, err := c.Get("a")
		if err != nil {
			t.Fatalf("Get returned error: %v", err)
		}
		if first != second {
			t.Fatalf("expected the same manager instance")
		}
		if got := first.(*stub).opened; got != 1 {
			t.Fatalf("expected manager opened once, got %d", got)
		}
		if got := builds.Load(); got != 2 {
			t.Fatalf("expected 2 builds, got %d", got)
		}
	})
}

func TestGetConcurrentFirstAccess(t *testing.T) {
	t.Parallel()

	var builds atomic.Int32
	c, err := New(schemas("a", "b", "c"), func(s indexeddb.DatabaseSchema) (indexeddb.Manager, error) {
		builds.Add(1)
		return &stub{name: s.Name}, nil
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Get("b")
		}()
	}
	wg.Wait()

	if got := builds.Load(); got != 3 {
		t.Fatalf("expected each manager built once, got %d builds", got)
	}
}

func TestPopulateFailure(t *testing.T) {
	t.Parallel()

	errOpen := errors.New("open refused")
	fail := true
	c, err := New(schemas("a", "b"), func(s indexeddb.DatabaseSchema) (indexeddb.Manager, error) {
		if s.Name == "b" && fail {
			return &stub{name: s.Name, openErr: errOpen}, nil
		}
		return &stub{name: s.Name}, nil
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if _, err := c.Get("a"); !errors.Is(err, errOpen) {
		t.Fatalf("expected open error, got %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty cache after failure, got %d", c.Len())
	}

	fail = false
	if _, err := c.Get("a"); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
}
