package hash

import (
	"errors"
	"strings"
	"testing"

	"github.com/quasar/launchcore/internal/errs"
)

func TestParseSha1(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"valid lowercase", strings.Repeat("ab", 20), false},
		{"valid uppercase", strings.Repeat("AB", 20), false},
		{"too short", strings.Repeat("ab", 19), true},
		{"too long", strings.Repeat("ab", 21), true},
		{"non hex", strings.Repeat("zz", 20), true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSha1(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseSha1(%q) = %v, want error", tt.in, got)
				}
				if !errors.Is(err, errs.ErrInvalidHash) {
					t.Errorf("error = %v, want errs.ErrInvalidHash", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSha1(%q) unexpected error: %v", tt.in, err)
			}
			if got.String() != strings.ToLower(tt.in) {
				t.Errorf("round-trip mismatch: got %q, want %q", got.String(), strings.ToLower(tt.in))
			}
		})
	}
}

func TestParseSha256(t *testing.T) {
	valid := strings.Repeat("cd", 32)
	got, err := ParseSha256(valid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != valid {
		t.Errorf("round-trip mismatch: got %q, want %q", got.String(), valid)
	}

	if _, err := ParseSha256(strings.Repeat("cd", 20)); !errors.Is(err, errs.ErrInvalidHash) {
		t.Errorf("wrong length: got %v, want errs.ErrInvalidHash", err)
	}
}

func TestSha1JSONRoundTrip(t *testing.T) {
	sum, err := ParseSha1(strings.Repeat("12", 20))
	if err != nil {
		t.Fatalf("ParseSha1: %v", err)
	}

	data, err := sum.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}

	var back Sha1Sum
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if back != sum {
		t.Errorf("round-trip mismatch: got %v, want %v", back, sum)
	}
}

func TestSumSha1(t *testing.T) {
	r := strings.NewReader("hello world")
	sum, err := SumSha1(r)
	if err != nil {
		t.Fatalf("SumSha1: %v", err)
	}
	// sha1("hello world") = 2aae6c35c94fcfb415dbe95f408b9ce91ee846ed
	want := "2aae6c35c94fcfb415dbe95f408b9ce91ee846ed"
	if sum.String() != want {
		t.Errorf("SumSha1 = %s, want %s", sum.String(), want)
	}
}

func TestSumSha256(t *testing.T) {
	r := strings.NewReader("hello world")
	sum, err := SumSha256(r)
	if err != nil {
		t.Fatalf("SumSha256: %v", err)
	}
	// sha256("hello world") = b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if sum.String() != want {
		t.Errorf("SumSha256 = %s, want %s", sum.String(), want)
	}
}
