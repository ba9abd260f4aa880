// Package coordinate parses and formats Maven-style library coordinates
// and maps them onto the on-disk library cache layout.
package coordinate

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/quasar/launchcore/internal/errs"
)

// Library identifies a single artifact within the library cache:
// namespace, name, version, plus any trailing colon-separated components
// (extra versions — typically a classifier such as "client" or "natives-linux").
type Library struct {
	Namespace     string
	Name          string
	Version       string
	ExtraVersions []string
}

// Parse splits s on ':'. It requires at least three components
// (namespace, name, version); anything past the third is kept, in order,
// as ExtraVersions.
func Parse(s string) (Library, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 3 {
		return Library{}, fmt.Errorf("%w: %q", errs.ErrInvalidLibraryName, s)
	}
	lib := Library{
		Namespace: parts[0],
		Name:      parts[1],
		Version:   parts[2],
	}
	if len(parts) > 3 {
		lib.ExtraVersions = append([]string(nil), parts[3:]...)
	}
	return lib, nil
}

// String renders the coordinate back into its colon-separated form.
// Parse(l.String()) == l for every Library produced by Parse.
func (l Library) String() string {
	s := fmt.Sprintf("%s:%s:%s", l.Namespace, l.Name, l.Version)
	if len(l.ExtraVersions) > 0 {
		s += ":" + strings.Join(l.ExtraVersions, ":")
	}
	return s
}

// BasePathAt returns the directory containing this library's jar(s) under
// root: each '.'-split component of Namespace, then Name, then Version.
// It never touches the filesystem.
func (l Library) BasePathAt(root string) string {
	parts := append(strings.Split(l.Namespace, "."), l.Name, l.Version)
	return filepath.Join(append([]string{root}, parts...)...)
}

// PathAt returns the path to the primary artifact jar:
// <base>/<name>-<version>[-<extras joined with '-'>].jar
func (l Library) PathAt(root string) string {
	return filepath.Join(l.BasePathAt(root), l.fileName(""))
}

// PathAtNatives returns the path to the natives classifier jar:
// <base>/<name>-<version>[-<extras joined with '-'>]-<classifier>.jar
func (l Library) PathAtNatives(root, classifier string) string {
	return filepath.Join(l.BasePathAt(root), l.fileName(classifier))
}

func (l Library) fileName(classifier string) string {
	name := fmt.Sprintf("%s-%s", l.Name, l.Version)
	if len(l.ExtraVersions) > 0 {
		name += "-" + strings.Join(l.ExtraVersions, "-")
	}
	if classifier != "" {
		name += "-" + classifier
	}
	return name + ".jar"
}

// MarshalJSON renders the coordinate in its colon-separated wire form.
func (l Library) MarshalJSON() ([]byte, error) {
	return []byte(`"` + l.String() + `"`), nil
}

// UnmarshalJSON parses the colon-separated wire form into the coordinate.
func (l *Library) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("%w: not a JSON string", errs.ErrInvalidLibraryName)
	}
	parsed, err := Parse(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
