package request

import "testing"

func TestIsFile(t *testing.T) {
	tests := []struct {
		ft   FileType
		want bool
	}{
		{MetaIndex, false},
		{Index, false},
		{Manifest, false},
		{Library, true},
		{AssetIndex, false},
		{Asset, true},
	}
	for _, tt := range tests {
		req := DownloadRequest{Type: tt.ft}
		if got := req.IsFile(); got != tt.want {
			t.Errorf("IsFile(%s) = %v, want %v", tt.ft, got, tt.want)
		}
	}
}

func TestHashAlgo(t *testing.T) {
	tests := []struct {
		ft   FileType
		want HashAlgo
	}{
		{MetaIndex, NoHash},
		{Index, Sha256},
		{Manifest, Sha256},
		{Library, Sha1},
		{AssetIndex, Sha1},
		{Asset, Sha1},
	}
	for _, tt := range tests {
		req := DownloadRequest{Type: tt.ft}
		if got := req.HashAlgo(); got != tt.want {
			t.Errorf("HashAlgo(%s) = %v, want %v", tt.ft, got, tt.want)
		}
	}
}

func TestHasHash(t *testing.T) {
	if (DownloadRequest{}).HasHash() {
		t.Error("zero-value request should have no hash")
	}
	if !(DownloadRequest{HashHex: "aa"}).HasHash() {
		t.Error("request with HashHex set should report HasHash")
	}
}
