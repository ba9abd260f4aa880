package resolve

import (
	"bytes"
	"testing"

	"github.com/quasar/launchcore/internal/plan"
	"github.com/quasar/launchcore/internal/platform"
	"github.com/quasar/launchcore/internal/request"
)

func newTestResolver() *Resolver {
	return New("https://meta.example/v1", platform.OS{Name: "linux"}, plan.Config{
		LibrariesDir: "libraries",
		AssetsDir:    "assets",
	})
}

// S1 - Empty resolution: with one Wants and an empty cache, the first
// ContinueSearch returns exactly one MetaIndex request.
func TestContinueSearchS1EmptyResolution(t *testing.T) {
	r := newTestResolver()
	r.Search(Wants{UID: "net.minecraft", Version: "1.18.1"})

	result, err := r.ContinueSearch()
	if err != nil {
		t.Fatalf("ContinueSearch: %v", err)
	}
	if len(result.Requests) != 1 {
		t.Fatalf("Requests = %+v, want exactly one", result.Requests)
	}
	req := result.Requests[0]
	if req.Type != request.MetaIndex || req.URL != "https://meta.example/v1/index.json" {
		t.Errorf("request = %+v, want MetaIndex for index.json", req)
	}
}

// S2 - One-hop requires: a@1 requires b with suggests=2; after loading
// in order, the next call yields an empty request list and both
// manifests present.
func TestContinueSearchS2OneHopRequires(t *testing.T) {
	r := newTestResolver()
	r.Search(Wants{UID: "a", Version: "1"})

	// 1: MetaIndex
	result, err := r.ContinueSearch()
	if err != nil {
		t.Fatalf("ContinueSearch 1: %v", err)
	}
	metaIndex := `{"formatVersion":1,"packages":[{"uid":"a","name":"A","sha256":"s1"},{"uid":"b","name":"B","sha256":"s2"}]}`
	if err := r.LoadReader(request.MetaIndex, bytes.NewBufferString(metaIndex), request.Context{}); err != nil {
		t.Fatalf("LoadReader MetaIndex: %v", err)
	}

	// 2: Index(a)
	result, err = r.ContinueSearch()
	if err != nil {
		t.Fatalf("ContinueSearch 2: %v", err)
	}
	if len(result.Requests) != 1 || result.Requests[0].Type != request.Index {
		t.Fatalf("expected one Index request, got %+v", result.Requests)
	}
	indexA := `{"uid":"a","name":"A","formatVersion":1,"versions":[{"version":"1","sha256":"m1","requires":[{"uid":"b","suggests":"2"}]}]}`
	if err := r.LoadReader(request.Index, bytes.NewBufferString(indexA), request.Context{}); err != nil {
		t.Fatalf("LoadReader Index(a): %v", err)
	}

	// 3: Manifest(a@1) (extra_wants now has b@2, but its package index
	// isn't loaded yet so it also asks for Index(b))
	result, err = r.ContinueSearch()
	if err != nil {
		t.Fatalf("ContinueSearch 3: %v", err)
	}
	if len(result.Requests) != 2 {
		t.Fatalf("expected Manifest(a) + Index(b), got %+v", result.Requests)
	}
	for _, req := range result.Requests {
		switch req.Type {
		case request.Manifest:
			manifestA := `{"uid":"a","version":"1","name":"A 1"}`
			if err := r.LoadReader(request.Manifest, bytes.NewBufferString(manifestA), request.Context{UID: "a", Version: "1"}); err != nil {
				t.Fatalf("LoadReader Manifest(a@1): %v", err)
			}
		case request.Index:
			indexB := `{"uid":"b","name":"B","formatVersion":1,"versions":[{"version":"2","sha256":"m2"}]}`
			if err := r.LoadReader(request.Index, bytes.NewBufferString(indexB), request.Context{}); err != nil {
				t.Fatalf("LoadReader Index(b): %v", err)
			}
		default:
			t.Fatalf("unexpected request type %s", req.Type)
		}
	}

	// 4: Manifest(b@2)
	result, err = r.ContinueSearch()
	if err != nil {
		t.Fatalf("ContinueSearch 4: %v", err)
	}
	if len(result.Requests) != 1 || result.Requests[0].Type != request.Manifest {
		t.Fatalf("expected one Manifest(b) request, got %+v", result.Requests)
	}
	manifestB := `{"uid":"b","version":"2","name":"B 2"}`
	if err := r.LoadReader(request.Manifest, bytes.NewBufferString(manifestB), request.Context{UID: "b", Version: "2"}); err != nil {
		t.Fatalf("LoadReader Manifest(b@2): %v", err)
	}

	// 5: fixed point
	result, err = r.ContinueSearch()
	if err != nil {
		t.Fatalf("ContinueSearch 5: %v", err)
	}
	if len(result.Requests) != 0 {
		t.Fatalf("expected empty request list at fixed point, got %+v", result.Requests)
	}
	if len(result.Manifests) != 2 {
		t.Fatalf("expected 2 manifests, got %d: %+v", len(result.Manifests), result.Manifests)
	}
	if _, ok := result.Manifests["a"]; !ok {
		t.Error("manifests missing a")
	}
	if _, ok := result.Manifests["b"]; !ok {
		t.Error("manifests missing b")
	}

	// Idempotency: repeated calls on a settled state stay empty.
	result, err = r.ContinueSearch()
	if err != nil {
		t.Fatalf("ContinueSearch 6 (idempotent): %v", err)
	}
	if len(result.Requests) != 0 {
		t.Errorf("expected idempotent empty request list, got %+v", result.Requests)
	}
}

func TestContinueSearchUnknownUID(t *testing.T) {
	r := newTestResolver()
	r.Search(Wants{UID: "net.minecraft", Version: "1.18.1"})
	if _, err := r.ContinueSearch(); err != nil {
		t.Fatalf("ContinueSearch: %v", err)
	}
	emptyIndex := `{"formatVersion":1,"packages":[]}`
	if err := r.LoadReader(request.MetaIndex, bytes.NewBufferString(emptyIndex), request.Context{}); err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if _, err := r.ContinueSearch(); err == nil {
		t.Fatal("expected error for unknown uid")
	}
}
