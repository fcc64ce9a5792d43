package registry

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/dockerize/python-to-image/pkg/api"
	"github.com/dockerize/python-to-image/pkg/python"
)

// fakeIndex serves the /pypi/<name>/json endpoint for a fixed set of
// packages and counts the lookups per name.
type fakeIndex struct {
	mu       sync.Mutex
	packages map[string]bool
	lookups  map[string]int
}

func newFakeIndex(packages ...string) *fakeIndex {
	idx := &fakeIndex{packages: map[string]bool{}, lookups: map[string]int{}}
	for _, p := range packages {
		idx.packages[p] = true
	}
	return idx
}

func (f *fakeIndex) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/pypi/"), "/json")
	f.mu.Lock()
	f.lookups[name]++
	f.mu.Unlock()
	if f.packages[name] {
		w.Write([]byte(`{"info":{}}`))
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func newClient(t *testing.T, idx *fakeIndex, policy api.NetworkFailurePolicy) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(idx)
	t.Cleanup(server.Close)
	return New(&api.Config{RegistryURL: server.URL, OnNetworkFailure: policy}), server
}

func TestExists(t *testing.T) {
	client, _ := newClient(t, newFakeIndex("requests"), "")

	if exists, _ := client.Exists("requests"); !exists {
		t.Error("expected requests to exist")
	}
	if exists, _ := client.Exists("no-such-package"); exists {
		t.Error("expected no-such-package to not exist")
	}
}

func TestExistsMemoization(t *testing.T) {
	idx := newFakeIndex("requests")
	client, _ := newClient(t, idx, "")

	for i := 0; i < 3; i++ {
		client.Exists("requests")
		client.Exists("missing")
	}

	if idx.lookups["requests"] != 1 {
		t.Errorf("expected one lookup for requests, got %d", idx.lookups["requests"])
	}
	if idx.lookups["missing"] != 1 {
		t.Errorf("expected one lookup for missing, got %d", idx.lookups["missing"])
	}
}

func TestResolve(t *testing.T) {
	stdlib := python.ModuleSet{"os": {}, "sys": {}}

	tests := []struct {
		name     string
		packages []string
		imp      api.PythonImport
		expected string
		found    bool
	}{
		{
			name:     "standard module is skipped",
			packages: []string{"os"},
			imp:      api.PythonImport{Module: "os"},
			found:    false,
		},
		{
			name:     "standard module with member is skipped",
			packages: []string{"sys.path"},
			imp:      api.PythonImport{Module: "sys", Member: "path"},
			found:    false,
		},
		{
			name:     "module only resolves to itself",
			packages: []string{"requests"},
			imp:      api.PythonImport{Module: "requests"},
			expected: "requests",
			found:    true,
		},
		{
			name:     "dotted name preferred",
			packages: []string{"sklearn.svm", "sklearn"},
			imp:      api.PythonImport{Module: "sklearn", Member: "svm"},
			expected: "sklearn.svm",
			found:    true,
		},
		{
			name:     "falls back to root module",
			packages: []string{"numpy"},
			imp:      api.PythonImport{Module: "numpy", Member: "random"},
			expected: "numpy",
			found:    true,
		},
		{
			name:     "unknown module resolves to nothing",
			packages: []string{},
			imp:      api.PythonImport{Module: "localmodule"},
			found:    false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newClient(t, newFakeIndex(tc.packages...), "")
			name, found, err := client.Resolve(tc.imp, stdlib)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if found != tc.found || name != tc.expected {
				t.Errorf("Unexpected result. Expected: (%q, %v). Actual: (%q, %v)",
					tc.expected, tc.found, name, found)
			}
		})
	}
}

func TestResolveAll(t *testing.T) {
	stdlib := python.ModuleSet{"os": {}}
	client, _ := newClient(t, newFakeIndex("requests", "sklearn.svm"), "")

	imports := []api.PythonImport{
		{Module: "os"},
		{Module: "requests"},
		{Module: "sklearn", Member: "svm"},
	}
	verified, err := client.ResolveAll(imports, stdlib)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"requests", "sklearn.svm"}
	if !reflect.DeepEqual(verified, expected) {
		t.Errorf("Unexpected result. Expected: %v. Actual: %v", expected, verified)
	}
}

func TestNetworkFailurePolicies(t *testing.T) {
	// an immediately closed server yields a transport-level failure
	deadServer := httptest.NewServer(http.NotFoundHandler())
	deadServer.Close()

	tests := []struct {
		name      string
		policy    api.NetworkFailurePolicy
		exists    bool
		expectErr bool
	}{
		{name: "absent policy swallows the failure", policy: api.NetworkFailureAbsent, exists: false},
		{name: "present policy records the name", policy: api.NetworkFailurePresent, exists: true},
		{name: "abort policy fails the run", policy: api.NetworkFailureAbort, expectErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := New(&api.Config{RegistryURL: deadServer.URL, OnNetworkFailure: tc.policy})
			exists, err := client.Exists("requests")
			if tc.expectErr {
				if err == nil {
					t.Fatal("expected an error under the abort policy")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if exists != tc.exists {
				t.Errorf("Unexpected result. Expected: %v. Actual: %v", tc.exists, exists)
			}
		})
	}
}
