// Package request defines the DownloadRequest tagged union the resolver
// and planner hand to an external fetcher, and the FileType discriminator
// that selects its behavior.
package request

// FileType discriminates the kind of payload a DownloadRequest refers to.
type FileType int

const (
	// MetaIndex is the top-level registry index document.
	MetaIndex FileType = iota
	// Index is a per-package version index document.
	Index
	// Manifest is a per-version manifest document.
	Manifest
	// Library is a library artifact jar destined for the library cache.
	Library
	// AssetIndex is the asset index document for a manifest.
	AssetIndex
	// Asset is a single content-addressed object destined for the asset cache.
	Asset
)

func (t FileType) String() string {
	switch t {
	case MetaIndex:
		return "MetaIndex"
	case Index:
		return "Index"
	case Manifest:
		return "Manifest"
	case Library:
		return "Library"
	case AssetIndex:
		return "AssetIndex"
	case Asset:
		return "Asset"
	default:
		return "Unknown"
	}
}

// HashAlgo names the hash algorithm expected for a given FileType's
// payload, or "" if none is expected.
type HashAlgo string

const (
	NoHash HashAlgo = ""
	Sha1   HashAlgo = "sha1"
	Sha256 HashAlgo = "sha256"
)

// Context carries the (uid, version) a Manifest or AssetIndex request is
// dispatched for, so the caller can route the loaded payload back to
// resolve.Resolver.LoadReader without re-deriving it from the URL.
type Context struct {
	UID     string
	Version string
}

// DownloadRequest is a tagged union describing one thing the fetcher must
// retrieve: a metadata document (MetaIndex/Index/Manifest/AssetIndex) or a
// file-backed artifact (Library/Asset).
type DownloadRequest struct {
	Type FileType
	URL  string

	// HashHex is the expected digest in lowercase hex, or "" if none is
	// known (of the requests the resolver and planner emit, only MetaIndex
	// requests carry no hash).
	HashHex string

	// Path is the destination filesystem path. Set for Library and Asset
	// requests, and for AssetIndex requests (the index's location under the
	// assets directory); empty for MetaIndex, Index and Manifest requests.
	// Non-file payloads, AssetIndex included, are held in memory by the
	// caller and handed to Resolver.LoadReader.
	Path string

	// Ctx names the (uid, version) a Manifest or AssetIndex request
	// belongs to, for dispatch back into the resolver.
	Ctx Context
}

// IsFile reports whether this request's payload is destined for a file
// on disk (Library or Asset), as opposed to an in-memory metadata document.
func (r DownloadRequest) IsFile() bool {
	return r.Type == Library || r.Type == Asset
}

// HasHash reports whether an expected hash is known for this request.
func (r DownloadRequest) HasHash() bool {
	return r.HashHex != ""
}

// HashAlgo returns the hash algorithm expected for this request's
// FileType: SHA-256 for Index/Manifest, SHA-1 for Library/AssetIndex/Asset,
// NoHash for MetaIndex.
func (r DownloadRequest) HashAlgo() HashAlgo {
	switch r.Type {
	case Index, Manifest:
		return Sha256
	case Library, AssetIndex, Asset:
		return Sha1
	default:
		return NoHash
	}
}
