package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quasar/launchcore/internal/hash"
	"github.com/quasar/launchcore/internal/request"
)

func TestFetchBytesNoHash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"formatVersion":1,"packages":[]}`))
	}))
	defer srv.Close()

	c := New(nil)
	data, err := c.FetchBytes(context.Background(), request.DownloadRequest{Type: request.MetaIndex, URL: srv.URL})
	if err != nil {
		t.Fatalf("FetchBytes: %v", err)
	}
	if !strings.Contains(string(data), "formatVersion") {
		t.Errorf("unexpected body: %s", data)
	}
}

func TestFetchBytesVerifiesSha256(t *testing.T) {
	content := `{"uid":"net.minecraft","versions":[]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(content))
	}))
	defer srv.Close()

	sum, err := hash.SumSha256(strings.NewReader(content))
	if err != nil {
		t.Fatalf("SumSha256: %v", err)
	}

	c := New(nil)
	data, err := c.FetchBytes(context.Background(), request.DownloadRequest{
		Type:    request.Index,
		URL:     srv.URL,
		HashHex: sum.String(),
	})
	if err != nil {
		t.Fatalf("FetchBytes: %v", err)
	}
	if string(data) != content {
		t.Errorf("body = %q, want %q", data, content)
	}
}

func TestFetchBytesSha256MismatchIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"uid":"tampered"}`))
	}))
	defer srv.Close()

	c := New(nil)
	_, err := c.FetchBytes(context.Background(), request.DownloadRequest{
		Type:    request.Manifest,
		URL:     srv.URL,
		HashHex: strings.Repeat("cd", 32),
	})
	if err == nil {
		t.Fatal("expected hash mismatch error")
	}
}

func TestFetchToFileVerifiesHash(t *testing.T) {
	content := "jar contents"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(content))
	}))
	defer srv.Close()

	sum, err := hash.SumSha1(strings.NewReader(content))
	if err != nil {
		t.Fatalf("SumSha1: %v", err)
	}

	dir := t.TempDir()
	dest := filepath.Join(dir, "a", "b.jar")
	c := New(nil)
	if err := c.Fetch(context.Background(), request.DownloadRequest{
		Type:    request.Library,
		URL:     srv.URL,
		HashHex: sum.String(),
		Path:    dest,
	}); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != content {
		t.Errorf("file content = %q, want %q", got, content)
	}
}

func TestFetchToFileHashMismatchIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("unexpected bytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "b.jar")
	c := New(nil)
	err := c.Fetch(context.Background(), request.DownloadRequest{
		Type:    request.Library,
		URL:     srv.URL,
		HashHex: strings.Repeat("ab", 20),
		Path:    dest,
	})
	if err == nil {
		t.Fatal("expected hash mismatch error")
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("file should not be written on hash mismatch")
	}
}

func TestFetchAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	sum, err := hash.SumSha1(strings.NewReader("ok"))
	if err != nil {
		t.Fatalf("SumSha1: %v", err)
	}

	dir := t.TempDir()
	reqs := []request.DownloadRequest{
		{Type: request.Library, URL: srv.URL, HashHex: sum.String(), Path: filepath.Join(dir, "a.jar")},
		{Type: request.Library, URL: srv.URL, HashHex: sum.String(), Path: filepath.Join(dir, "b.jar")},
	}
	c := New(nil)
	results := c.FetchAll(context.Background(), reqs)
	if len(results) != 2 {
		t.Fatalf("results = %+v, want 2", results)
	}
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("unexpected error for %s: %v", r.Request.Path, r.Err)
		}
	}
}
