package indexeddb

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tt := []struct {
		name    string
		schema  DatabaseSchema
		wantErr error
	}{
		{name: "valid", schema: DatabaseSchema{Name: "db", Stores: []StoreSchema{{Name: "a"}, {Name: "b"}}}},
		{name: "no stores", schema: DatabaseSchema{Name: "db"}},
		{name: "empty name", schema: DatabaseSchema{}, wantErr: ErrInvalidSchema},
		{name: "unnamed store", schema: DatabaseSchema{Name: "db", Stores: []StoreSchema{{}}}, wantErr: ErrInvalidSchema},
		{name: "duplicate store", schema: DatabaseSchema{Name: "db", Stores: []StoreSchema{{Name: "a"}, {Name: "a"}}}, wantErr: ErrInvalidSchema},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if err := tc.schema.Validate(); !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestClone(t *testing.T) {
	t.Parallel()

	s := DatabaseSchema{Name: "db", Version: 3}
	s.AddStore("people", "Name", "Age").AddStore("pets")

	c := s.Clone()
	if diff := cmp.Diff(s, c); diff != "" {
		t.Fatalf("clone mismatch (-want +got):\n%s", diff)
	}

	c.Stores[0].Indexes[0] = "changed"
	c.Stores[1].Name = "changed"
	if s.Stores[0].Indexes[0] != "Name" || s.Stores[1].Name != "pets" {
		t.Fatalf("clone shares state with the original: %+v", s.Stores)
	}

	if diff := cmp.Diff([]string{"people", "pets"}, s.StoreNames()); diff != "" {
		t.Fatalf("store names mismatch (-want +got):\n%s", diff)
	}
	if _, ok := s.Store("pets"); !ok {
		t.Fatalf("want store pets to be declared")
	}
	if _, ok := s.Store("ghosts"); ok {
		t.Fatalf("want store ghosts to be undeclared")
	}
}

func TestRuntimeConfigDefaults(t *testing.T) {
	t.Parallel()

	if got := (RuntimeConfig{}).WithDefaults().Namespace; got != DefaultNamespace {
		t.Fatalf("want %q, got %q", DefaultNamespace, got)
	}
	if got := (RuntimeConfig{Namespace: "custom"}).WithDefaults().Namespace; got != "custom" {
		t.Fatalf("want custom namespace kept, got %q", got)
	}
}

func TestCallbackNotify(t *testing.T) {
	t.Parallel()

	var nilCallback Callback
	nilCallback.Notify(Event{})

	var got Event
	Callback(func(e Event) { got = e }).Notify(Event{Message: "done"})
	if got.Message != "done" {
		t.Fatalf("want callback invoked, got %+v", got)
	}
}
