package mock

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tarmac-project/indexeddb"
	"github.com/tarmac-project/indexeddb/hostmock"
	"github.com/tarmac-project/indexeddb/logging"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func appConfig() Config {
	var cfg Config
	cfg.AddDatabase(func(db *indexeddb.DatabaseSchema) {
		db.Name = "app"
		db.Version = 1
		db.AddStore("people", "Name", "Age")
	}).AddDatabase(func(db *indexeddb.DatabaseSchema) {
		db.Name = "cache"
		db.AddStore("entries")
	})
	return cfg
}

func TestNew(t *testing.T) {
	t.Parallel()

	tt := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{name: "registered databases", cfg: appConfig()},
		{name: "nothing registered", cfg: Config{}},
		{
			name:    "nil options",
			cfg:     *(&Config{}).AddDatabase(nil),
			wantErr: indexeddb.ErrInvalidSchema,
		},
		{
			name: "duplicate database",
			cfg: Config{Databases: []indexeddb.DatabaseSchema{
				{Name: "app"},
				{Name: "app"},
			}},
			wantErr: indexeddb.ErrDuplicateDatabase,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(tc.cfg)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestGetManager(t *testing.T) {
	t.Parallel()

	f, err := New(appConfig())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	t.Run("identity stable", func(t *testing.T) {
		first, err := f.GetManager("app")
		if err != nil {
			t.Fatalf("GetManager returned error: %v", err)
		}
		second, err := f.GetManager("app")
		if err != nil {
			t.Fatalf("GetManager returned error: %v", err)
		}
		if first != second {
			t.Fatalf("expected the same manager instance")
		}
		if first.DBName() != "app" || first.CurrentVersion() != 1 {
			t.Fatalf("unexpected manager %q v%d", first.DBName(), first.CurrentVersion())
		}
	})

	t.Run("all managers opened on first access", func(t *testing.T) {
		m, err := f.Manager("cache")
		if err != nil {
			t.Fatalf("Manager returned error: %v", err)
		}
		calls := m.Calls()
		if len(calls) == 0 || calls[0].Op != OpOpen {
			t.Fatalf("expected the factory to open the manager, got calls %+v", calls)
		}
	})

	t.Run("by schema", func(t *testing.T) {
		byName, _ := f.GetManager("cache")
		bySchema, err := f.GetManagerFor(indexeddb.DatabaseSchema{Name: "cache"})
		if err != nil {
			t.Fatalf("GetManagerFor returned error: %v", err)
		}
		if byName != bySchema {
			t.Fatalf("expected the same manager instance")
		}
	})

	t.Run("unknown database", func(t *testing.T) {
		m, err := f.GetManager("missing")
		if !errors.Is(err, indexeddb.ErrDatabaseNotFound) {
			t.Fatalf("expected ErrDatabaseNotFound, got %v", err)
		}
		if m != nil {
			t.Fatalf("expected nil manager, got %v", m)
		}
		if _, err := f.Manager("missing"); !errors.Is(err, indexeddb.ErrDatabaseNotFound) {
			t.Fatalf("expected ErrDatabaseNotFound, got %v", err)
		}
	})

	t.Run("nothing registered", func(t *testing.T) {
		empty, err := New(Config{})
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}
		if _, err := empty.GetManager("app"); !errors.Is(err, indexeddb.ErrDatabaseNotFound) {
			t.Fatalf("expected ErrDatabaseNotFound, got %v", err)
		}
	})
}

func TestGetManagerConcurrent(t *testing.T) {
	t.Parallel()

	f, err := New(appConfig())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	got := make([]indexeddb.Manager, 16)
	var g errgroup.Group
	for i := range got {
		g.Go(func() error {
			m, err := f.GetManager("app")
			got[i] = m
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("GetManager returned error: %v", err)
	}

	for i := range got {
		if got[i] == nil || got[i] != got[0] {
			t.Fatalf("expected one shared manager, got %v at %d", got[i], i)
		}
	}
}

func TestFactoryLogger(t *testing.T) {
	t.Parallel()

	host, err := hostmock.New(hostmock.Config{ExpectedCapability: "logging"})
	if err != nil {
		t.Fatalf("hostmock: %v", err)
	}
	logger, err := logging.New(logging.Config{HostCall: host.HostCall, Component: "indexeddb"})
	if err != nil {
		t.Fatalf("logging: %v", err)
	}

	cfg := appConfig()
	cfg.Logger = logger
	f, err := New(cfg)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	m, _ := f.GetManager("app")
	_, _ = m.ToArray("people")

	var sawOpen, sawWarn bool
	for _, c := range host.Calls() {
		msg := string(c.Payload)
		if c.Function == "Debug" && strings.Contains(msg, `opened database "app"`) {
			sawOpen = true
		}
		if c.Function == "Warn" && strings.Contains(msg, OpToArray) {
			sawWarn = true
		}
	}
	if !sawOpen || !sawWarn {
		t.Fatalf("expected open debug and unsupported warning, got %+v", host.Calls())
	}
}

// TestPeopleScenario walks the reference scenario end to end through the
// factory and the typed helpers.
func TestPeopleScenario(t *testing.T) {
	t.Parallel()

	f, err := New(appConfig())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	m, err := f.GetManager("app")
	if err != nil {
		t.Fatalf("GetManager returned error: %v", err)
	}

	if _, err := m.AddRecordWait(indexeddb.StoreRecord{StoreName: "people", Record: map[string]any{"Name": "Ann", "Age": 30}}); err != nil {
		t.Fatalf("AddRecordWait returned error: %v", err)
	}
	got, err := m.Where("people", "Age", 30)
	if err != nil {
		t.Fatalf("Where returned error: %v", err)
	}
	if diff := cmp.Diff([]any{map[string]any{"Name": "Ann", "Age": 30}}, got); diff != "" {
		t.Fatalf("Where mismatch (-want +got):\n%s", diff)
	}

	if _, err := m.AddRecord(indexeddb.StoreRecord{StoreName: "people", Record: map[string]any{"Name": "Bo", "Age": 40}}, nil); err != nil {
		t.Fatalf("AddRecord returned error: %v", err)
	}
	bo, err := m.GetRecordByIndex("people", "Name", "Bo")
	if err != nil {
		t.Fatalf("GetRecordByIndex returned error: %v", err)
	}
	if diff := cmp.Diff(any(map[string]any{"Name": "Bo", "Age": 40}), bo); diff != "" {
		t.Fatalf("GetRecordByIndex mismatch (-want +got):\n%s", diff)
	}

	none, err := m.Where("people", "Age", 99)
	if err != nil || len(none) != 0 {
		t.Fatalf("expected no matches, got %v / %v", none, err)
	}

	typed, err := indexeddb.Where[Person](m, "people", "age", 40)
	if err != nil {
		t.Fatalf("typed Where returned error: %v", err)
	}
	if diff := cmp.Diff([]Person{{Name: "Bo", Age: 40}}, typed); diff != "" {
		t.Fatalf("typed Where mismatch (-want +got):\n%s", diff)
	}
}
