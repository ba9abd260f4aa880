// Package platform evaluates per-library rules against a host operating
// system and selects the correct download for that host.
package platform

import (
	"fmt"
	"runtime"

	"github.com/quasar/launchcore/internal/errs"
	"github.com/quasar/launchcore/internal/meta"
)

// OS identifies the host operating system a library rule is evaluated
// against. Name is one of "linux", "osx", "windows".
type OS struct {
	Name    string
	Version string
}

// Host returns the OS value for the platform this binary is running on.
func Host() OS {
	switch runtime.GOOS {
	case "darwin":
		return OS{Name: "osx"}
	case "windows":
		return OS{Name: "windows"}
	default:
		return OS{Name: "linux"}
	}
}

// RequiredFor reports whether a library with the given rules is required
// on host. Empty rules means always required. Rules are scanned in order,
// tracking a boolean that starts false and is set true by the first
// matching allow rule for the host's OS name; it is never reset once
// true. Disallow rules are parsed but not consulted — this reproduces
// the ambiguous source behavior literally rather than guessing at intent.
func RequiredFor(rules []meta.Rule, host OS) bool {
	if len(rules) == 0 {
		return true
	}
	allow := false
	for _, r := range rules {
		if r.Action != meta.RuleAllow {
			continue
		}
		if !allow {
			allow = r.OS.Name == host.Name
		}
	}
	return allow
}

// SelectDownload picks the Download to fetch for lib on host: the
// classifier download named by lib.Natives[host.Name] when present,
// otherwise the primary artifact. Returns errs.ErrLibraryNotSupported if
// neither is available.
func SelectDownload(lib meta.Library, host OS) (meta.Download, error) {
	if classifier, ok := lib.Natives[host.Name]; ok {
		if dl, ok := lib.Downloads.Classifiers[classifier]; ok {
			return dl, nil
		}
		return meta.Download{}, fmt.Errorf("%w: %s missing classifier %q", errs.ErrLibraryNotSupported, lib.Name.String(), classifier)
	}
	if lib.Downloads.Artifact != nil {
		return *lib.Downloads.Artifact, nil
	}
	return meta.Download{}, fmt.Errorf("%w: %s", errs.ErrLibraryNotSupported, lib.Name.String())
}

// NativesClassifier returns the classifier name for host, and whether
// lib has one.
func NativesClassifier(lib meta.Library, host OS) (string, bool) {
	c, ok := lib.Natives[host.Name]
	return c, ok
}
