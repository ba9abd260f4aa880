// Package plan turns a fully-resolved manifest into the minimal set of
// download requests needed to materialize it on disk: missing or
// corrupted libraries, the asset index, and missing or corrupted assets.
package plan

import (
	"fmt"
	"path/filepath"

	"github.com/quasar/launchcore/internal/hash"
	"github.com/quasar/launchcore/internal/meta"
	"github.com/quasar/launchcore/internal/platform"
	"github.com/quasar/launchcore/internal/request"
	"github.com/quasar/launchcore/internal/verify"
)

// DefaultAssetsBaseURL is used when Config.AssetsBaseURL is unset.
const DefaultAssetsBaseURL = "https://resources.download.minecraft.net"

// Config names the local directories and remote base URL the planner
// resolves destination paths and asset URLs against.
type Config struct {
	LibrariesDir  string
	AssetsDir     string
	AssetsBaseURL string
}

// Planner verifies a manifest's artifacts against the local cache and
// emits download requests for whatever is missing or corrupt.
type Planner struct {
	cfg      Config
	host     platform.OS
	verifier *verify.Verifier
}

// New returns a Planner for host, verifying against a fresh per-session
// Verifier. Config.AssetsBaseURL defaults to DefaultAssetsBaseURL.
func New(cfg Config, host platform.OS) *Planner {
	if cfg.AssetsBaseURL == "" {
		cfg.AssetsBaseURL = DefaultAssetsBaseURL
	}
	return &Planner{cfg: cfg, host: host, verifier: verify.New()}
}

// Plan runs the library verifier over m's libraries and main jar, then
// the asset index and its objects if present, returning the requests
// needed to bring the cache up to date with m.
func (p *Planner) Plan(m *meta.Manifest) ([]request.DownloadRequest, error) {
	var reqs []request.DownloadRequest

	libs := append([]meta.Library(nil), m.Libraries...)
	if m.MainJar != nil {
		libs = append(libs, *m.MainJar)
	}

	for _, lib := range libs {
		if !platform.RequiredFor(lib.Rules, p.host) {
			continue
		}
		dl, err := platform.SelectDownload(lib, p.host)
		if err != nil {
			return nil, fmt.Errorf("plan %s: %w", m.UID, err)
		}

		var path string
		if classifier, ok := platform.NativesClassifier(lib, p.host); ok {
			path = lib.Name.PathAtNatives(p.cfg.LibrariesDir, classifier)
		} else {
			path = lib.Name.PathAt(p.cfg.LibrariesDir)
		}

		sum, err := hash.ParseSha1(dl.Sha1)
		if err != nil {
			return nil, fmt.Errorf("plan %s: library %s: %w", m.UID, lib.Name.String(), err)
		}

		ok, _, err := p.verifier.Check(path, sum)
		if err != nil {
			return nil, fmt.Errorf("plan %s: %w", m.UID, err)
		}
		if !ok {
			reqs = append(reqs, request.DownloadRequest{
				Type:    request.Library,
				URL:     dl.URL,
				HashHex: dl.Sha1,
				Path:    path,
			})
		}
	}

	if m.AssetIndex != nil {
		assetReqs, err := p.planAssetIndex(m)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, assetReqs...)
	}

	return reqs, nil
}

func (p *Planner) planAssetIndex(m *meta.Manifest) ([]request.DownloadRequest, error) {
	ai := m.AssetIndex
	if ai.Cache == nil {
		return []request.DownloadRequest{{
			Type:    request.AssetIndex,
			URL:     ai.URL,
			HashHex: ai.Sha1,
			Path:    filepath.Join(p.cfg.AssetsDir, "indexes", ai.ID+".json"),
			Ctx:     request.Context{UID: m.UID, Version: m.Version},
		}}, nil
	}

	var reqs []request.DownloadRequest
	for _, asset := range ai.Cache.Objects {
		sum, err := hash.ParseSha1(asset.Hash)
		if err != nil {
			return nil, fmt.Errorf("plan %s: asset %s: %w", m.UID, asset.Hash, err)
		}
		path := verify.AssetPath(p.cfg.AssetsDir, sum)
		ok, _, err := p.verifier.Check(path, sum)
		if err != nil {
			return nil, fmt.Errorf("plan %s: %w", m.UID, err)
		}
		if ok {
			continue
		}
		h := sum.String()
		reqs = append(reqs, request.DownloadRequest{
			Type:    request.Asset,
			URL:     fmt.Sprintf("%s/%s/%s", p.cfg.AssetsBaseURL, h[:2], h),
			HashHex: asset.Hash,
			Path:    path,
		})
	}
	return reqs, nil
}
