// Package meta defines the wire-format metadata entities fetched from a
// registry: the top-level index, per-package version indexes, and
// per-version manifests, along with their JSON encodings.
//
// Every type here is immutable after parsing. The mutable annotation
// slots used by the resolver to cache loaded children (PackageEntry.Index,
// VersionEntry.Manifest, AssetIndexRef.Cache) are tagged json:"-" and are
// never serialized back to the wire.
package meta

import "github.com/quasar/launchcore/internal/coordinate"

// RegistryIndex is the top-level list of known package UIDs.
type RegistryIndex struct {
	FormatVersion int            `json:"formatVersion"`
	Packages      []PackageEntry `json:"packages"`
}

// PackageEntry names one package in the registry index. Index is the
// loaded per-package version index, populated by the resolver once
// fetched; it is nil until then.
type PackageEntry struct {
	UID    string `json:"uid"`
	Name   string `json:"name"`
	Sha256 string `json:"sha256"`

	Index *PackageIndex `json:"-"`
}

// PackageIndex lists the known versions of one UID.
type PackageIndex struct {
	UID           string         `json:"uid"`
	Name          string         `json:"name"`
	FormatVersion int            `json:"formatVersion"`
	Versions      []VersionEntry `json:"versions"`
}

// FindVersion returns a pointer to the VersionEntry matching version, or
// nil if no such version is listed.
func (p *PackageIndex) FindVersion(version string) *VersionEntry {
	for i := range p.Versions {
		if p.Versions[i].Version == version {
			return &p.Versions[i]
		}
	}
	return nil
}

// VersionEntry names one version of a package. Manifest is the loaded
// per-version manifest, populated by the resolver once fetched; it is
// nil until then.
type VersionEntry struct {
	Version     string        `json:"version"`
	Sha256      string        `json:"sha256"`
	ReleaseTime string        `json:"releaseTime,omitempty"`
	ReleaseType string        `json:"releaseType,omitempty"`
	Requires    []Requirement `json:"requires,omitempty"`

	Manifest *Manifest `json:"-"`
}

// Requirement says "also resolve UID, preferring version Suggests (soft)
// or Equals (hard)".
type Requirement struct {
	UID     string `json:"uid"`
	Equals  string `json:"equals,omitempty"`
	Suggests string `json:"suggests,omitempty"`
}

// Manifest is the full recipe for launching one version of one package.
type Manifest struct {
	UID                 string        `json:"uid"`
	Version             string        `json:"version"`
	Name                string        `json:"name,omitempty"`
	Order               int           `json:"order,omitempty"`
	ReleaseType         string        `json:"releaseType,omitempty"`
	ReleaseTime         string        `json:"releaseTime,omitempty"`
	Traits              []string      `json:"+traits,omitempty"`
	Requires            []Requirement `json:"requires,omitempty"`
	Libraries           []Library     `json:"libraries,omitempty"`
	MainClass           string        `json:"mainClass,omitempty"`
	MainJar             *Library      `json:"mainJar,omitempty"`
	MinecraftArguments  string        `json:"minecraftArguments,omitempty"`
	AssetIndex          *AssetIndexRef `json:"assetIndex,omitempty"`
}

// Library describes one dependency jar: its coordinate, its available
// downloads (main artifact plus optional per-classifier natives),
// platform rules, and native-extraction exclusions.
type Library struct {
	Name        coordinate.Library  `json:"name"`
	Downloads   LibraryDownloads    `json:"downloads"`
	Natives     map[string]string   `json:"natives,omitempty"`
	Extract     *Extract            `json:"extract,omitempty"`
	Rules       []Rule              `json:"rules,omitempty"`
}

// LibraryDownloads holds the primary artifact download plus any
// classifier-keyed downloads (typically OS-specific natives jars).
type LibraryDownloads struct {
	Artifact    *Download            `json:"artifact,omitempty"`
	Classifiers map[string]Download `json:"classifiers,omitempty"`
}

// Download is one fetchable artifact: its URL, expected size, and SHA-1.
type Download struct {
	URL  string `json:"url"`
	Size int64  `json:"size"`
	Sha1 string `json:"sha1"`
}

// Extract names archive-entry path prefixes to skip when extracting a
// native-library jar.
type Extract struct {
	Exclude []string `json:"exclude,omitempty"`
}

// RuleAction is the effect of a matching Rule: allow or disallow.
type RuleAction string

const (
	RuleAllow    RuleAction = "allow"
	RuleDisallow RuleAction = "disallow"
)

// Rule conditionally allows or disallows a library for a host OS.
type Rule struct {
	Action RuleAction `json:"action"`
	OS     RuleOS     `json:"os"`
}

// RuleOS names the operating system (and optionally version) a Rule
// matches against.
type RuleOS struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
}

// AssetIndexRef points at the asset index document for a manifest. Cache
// holds the loaded AssetIndex once fetched; it is nil until then.
type AssetIndexRef struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Sha1      string `json:"sha1"`
	Size      int64  `json:"size"`
	TotalSize int64  `json:"totalSize,omitempty"`

	Cache *AssetIndex `json:"-"`
}

// AssetIndex maps logical asset names to content-addressed objects.
type AssetIndex struct {
	Objects map[string]Asset `json:"objects"`
}

// Asset is one content-addressed object within an asset index.
type Asset struct {
	Hash string `json:"hash"`
	Size int64  `json:"size"`
}
