package logging

import (
	"reflect"
	"testing"

	"github.com/tarmac-project/indexeddb"
	"github.com/tarmac-project/indexeddb/hostmock"
)

func TestNew(t *testing.T) {
	t.Parallel()

	customHostCall := func(string, string, string, []byte) ([]byte, error) {
		return nil, nil
	}

	tt := []struct {
		name        string
		namespace   string
		hostCall    func(string, string, string, []byte) ([]byte, error)
		wantNS      string
		wantHostPtr uintptr
	}{
		{
			name:      "custom namespace",
			namespace: "custom",
			wantNS:    "custom",
		},
		{
			name:        "default namespace with override",
			hostCall:    customHostCall,
			wantNS:      indexeddb.DefaultNamespace,
			wantHostPtr: reflect.ValueOf(customHostCall).Pointer(),
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c, err := New(Config{SDKConfig: indexeddb.RuntimeConfig{Namespace: tc.namespace}, HostCall: tc.hostCall})
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}

			impl, ok := c.(*client)
			if !ok {
				t.Fatalf("expected *client implementation, got %T", c)
			}

			if impl.runtime.Namespace != tc.wantNS {
				t.Fatalf("namespace mismatch: want %q, got %q", tc.wantNS, impl.runtime.Namespace)
			}

			if tc.wantHostPtr != 0 {
				if got := reflect.ValueOf(impl.hostCall).Pointer(); got != tc.wantHostPtr {
					t.Fatalf("hostcall pointer mismatch: want %v, got %v", tc.wantHostPtr, got)
				}
			}
		})
	}
}

func TestClientRoutesLevels(t *testing.T) {
	t.Parallel()

	tt := []struct {
		name      string
		component string
		call      func(Client)
		wantFn    string
		wantMsg   string
	}{
		{"Info", "", func(c Client) { c.Info("opened") }, "Info", "opened"},
		{"Warn", "", func(c Client) { c.Warn("slow") }, "Warn", "slow"},
		{"Error", "", func(c Client) { c.Error("boom") }, "Error", "boom"},
		{"Debug", "indexeddb[app]", func(c Client) { c.Debug("add people") }, "Debug", "indexeddb[app]: add people"},
		{"Trace", "indexeddb[app]", func(c Client) { c.Trace("scan") }, "Trace", "indexeddb[app]: scan"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mock, err := hostmock.New(hostmock.Config{
				ExpectedNamespace:  indexeddb.DefaultNamespace,
				ExpectedCapability: capabilityName,
				ExpectedFunction:   tc.wantFn,
			})
			if err != nil {
				t.Fatalf("hostmock: %v", err)
			}

			c, err := New(Config{HostCall: mock.HostCall, Component: tc.component})
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}
			tc.call(c)

			calls := mock.Calls()
			if len(calls) != 1 {
				t.Fatalf("expected 1 host call, got %d", len(calls))
			}
			if got := string(calls[0].Payload); got != tc.wantMsg {
				t.Fatalf("message mismatch: want %q, got %q", tc.wantMsg, got)
			}
		})
	}
}

func TestHostFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	mock, err := hostmock.New(hostmock.Config{Fail: true})
	if err != nil {
		t.Fatalf("hostmock: %v", err)
	}

	c, err := New(Config{HostCall: mock.HostCall})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	c.Error("still fine")
	if len(mock.Calls()) != 1 {
		t.Fatalf("expected the host to be called once")
	}
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	if _, ok := OrDiscard(nil).(discard); !ok {
		t.Fatalf("expected OrDiscard(nil) to return the discard client")
	}

	custom := Discard()
	if got := OrDiscard(custom); got != custom {
		t.Fatalf("expected OrDiscard to keep a provided client")
	}

	// must not panic
	d := Discard()
	d.Info("x")
	d.Warn("x")
	d.Error("x")
	d.Debug("x")
	d.Trace("x")
}
