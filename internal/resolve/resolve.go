// Package resolve implements the iterative fixed-point search over wanted
// packages: a Resolver accumulates Wants, and repeated ContinueSearch
// calls emit download requests until the transitive dependency closure is
// fully materialized.
package resolve

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/quasar/launchcore/internal/errs"
	"github.com/quasar/launchcore/internal/meta"
	"github.com/quasar/launchcore/internal/plan"
	"github.com/quasar/launchcore/internal/platform"
	"github.com/quasar/launchcore/internal/request"
)

// maxIterations bounds the number of ContinueSearch calls that still
// produce outstanding requests before a Resolver assumes a requirement
// cycle and fails. Calls made after resolution has reached its fixed
// point (no requests emitted) don't count, so polling a settled
// Resolver is safe indefinitely. Requirements form a DAG in practice;
// this is a backstop, not a normal limit.
const maxIterations = 64

// Wants names one UID/version the caller (or a manifest's requires list)
// wants resolved.
type Wants struct {
	UID     string
	Version string
}

func wantsFromRequirement(r meta.Requirement) Wants {
	return Wants{UID: r.UID, Version: r.Suggests}
}

// SearchResult is returned by ContinueSearch: Requests is what the caller
// must satisfy (download + LoadReader/LoadData) before calling
// ContinueSearch again. Once Requests is empty the resolution is a fixed
// point and Manifests holds one manifest per resolved UID.
type SearchResult struct {
	Requests   []request.DownloadRequest
	Manifests  map[string]*meta.Manifest
	PrimaryUID string
}

// Resolver holds the search state: the caller's wants, the derived
// extra_wants, and the annotated registry index as it is progressively
// loaded.
type Resolver struct {
	BaseURL    string
	Host       platform.OS
	PlanConfig plan.Config

	registry   *meta.RegistryIndex
	byUID      map[string]*meta.PackageEntry
	wants      []Wants
	extraWants []Wants
	iterations int
}

// New returns a Resolver with no registry loaded and no wants. Callers
// must call Search at least once before the first ContinueSearch.
func New(baseURL string, host platform.OS, planCfg plan.Config) *Resolver {
	return &Resolver{BaseURL: baseURL, Host: host, PlanConfig: planCfg}
}

// Search appends w to the resolver's wants.
func (r *Resolver) Search(w Wants) {
	r.wants = append(r.wants, w)
}

// ContinueSearch advances resolution by one step. If the registry index
// has not yet been loaded, it returns a single MetaIndex request and does
// no further work. Otherwise it walks wants ∪ extra_wants (deduplicated
// by UID, wants taking priority) and resolves each, including wants
// merged from a requires list during this call, returning the requests
// needed before the next call.
func (r *Resolver) ContinueSearch() (SearchResult, error) {
	if r.registry == nil {
		return SearchResult{
			Requests: []request.DownloadRequest{{
				Type: request.MetaIndex,
				URL:  r.BaseURL + "/index.json",
			}},
		}, nil
	}

	var reqs []request.DownloadRequest
	// combinedWants only grows at its tail, so wants merged while resolving
	// an earlier entry are picked up and resolved in this same call.
	for i := 0; ; i++ {
		combined := r.combinedWants()
		if i >= len(combined) {
			break
		}
		got, err := r.resolveOne(combined[i])
		if err != nil {
			return SearchResult{}, err
		}
		reqs = append(reqs, got...)
	}

	// Only a call that still has outstanding work counts toward the cycle
	// backstop; a settled resolver can be polled indefinitely.
	if len(reqs) > 0 {
		r.iterations++
		if r.iterations > maxIterations {
			return SearchResult{}, fmt.Errorf("%w: exceeded %d resolution iterations, possible requirement cycle", errs.ErrMetaNotFound, maxIterations)
		}
	}

	var primary string
	if len(r.wants) > 0 {
		primary = r.wants[0].UID
	}

	return SearchResult{
		Requests:   reqs,
		Manifests:  r.snapshotManifests(),
		PrimaryUID: primary,
	}, nil
}

// combinedWants returns wants followed by extra_wants, skipping any
// extra_wants entry whose UID already appeared.
func (r *Resolver) combinedWants() []Wants {
	seen := make(map[string]bool, len(r.wants)+len(r.extraWants))
	combined := make([]Wants, 0, len(r.wants)+len(r.extraWants))
	for _, w := range r.wants {
		if seen[w.UID] {
			continue
		}
		seen[w.UID] = true
		combined = append(combined, w)
	}
	for _, w := range r.extraWants {
		if seen[w.UID] {
			continue
		}
		seen[w.UID] = true
		combined = append(combined, w)
	}
	return combined
}

func (r *Resolver) resolveOne(w Wants) ([]request.DownloadRequest, error) {
	pkg, ok := r.byUID[w.UID]
	if !ok {
		return nil, fmt.Errorf("%w: unknown uid %q", errs.ErrMetaNotFound, w.UID)
	}

	if pkg.Index == nil {
		return []request.DownloadRequest{{
			Type:    request.Index,
			URL:     fmt.Sprintf("%s/%s/index.json", r.BaseURL, w.UID),
			HashHex: pkg.Sha256,
		}}, nil
	}

	ver := pkg.Index.FindVersion(w.Version)
	if ver == nil {
		return nil, fmt.Errorf("%w: %s@%s", errs.ErrMetaNotFound, w.UID, w.Version)
	}

	r.mergeExtraWants(ver.Requires)

	if ver.Manifest == nil {
		return []request.DownloadRequest{{
			Type:    request.Manifest,
			URL:     fmt.Sprintf("%s/%s/%s.json", r.BaseURL, w.UID, w.Version),
			HashHex: ver.Sha256,
			Ctx:     request.Context{UID: w.UID, Version: w.Version},
		}}, nil
	}

	r.mergeExtraWants(ver.Manifest.Requires)

	p := plan.New(r.PlanConfig, r.Host)
	return p.Plan(ver.Manifest)
}

func (r *Resolver) mergeExtraWants(reqs []meta.Requirement) {
	for _, req := range reqs {
		if r.hasWant(req.UID) {
			continue
		}
		r.extraWants = append(r.extraWants, wantsFromRequirement(req))
	}
}

func (r *Resolver) hasWant(uid string) bool {
	for _, w := range r.wants {
		if w.UID == uid {
			return true
		}
	}
	for _, w := range r.extraWants {
		if w.UID == uid {
			return true
		}
	}
	return false
}

// snapshotManifests returns an immutable-in-spirit copy of every loaded
// manifest, keyed by UID.
func (r *Resolver) snapshotManifests() map[string]*meta.Manifest {
	out := make(map[string]*meta.Manifest)
	for _, pkg := range r.registry.Packages {
		if pkg.Index == nil {
			continue
		}
		for i := range pkg.Index.Versions {
			if m := pkg.Index.Versions[i].Manifest; m != nil {
				clone := *m
				out[pkg.UID] = &clone
			}
		}
	}
	return out
}

// LoadReader reads and parses a downloaded payload and installs it into
// the appropriate slot of the resolver's state. ctx names the (uid,
// version) an AssetIndex payload belongs to; it is ignored for MetaIndex,
// Index and Manifest payloads, which are routed by the uid (and version)
// they carry themselves.
func (r *Resolver) LoadReader(ft request.FileType, rd io.Reader, ctx request.Context) error {
	data, err := io.ReadAll(rd)
	if err != nil {
		return fmt.Errorf("load %s: %w", ft, err)
	}
	return r.LoadData(ft, data, ctx)
}

// LoadData is LoadReader for an already-buffered payload.
func (r *Resolver) LoadData(ft request.FileType, data []byte, ctx request.Context) error {
	switch ft {
	case request.MetaIndex:
		var idx meta.RegistryIndex
		if err := json.Unmarshal(data, &idx); err != nil {
			return fmt.Errorf("load meta index: %w", err)
		}
		r.registry = &idx
		r.byUID = make(map[string]*meta.PackageEntry, len(idx.Packages))
		for i := range r.registry.Packages {
			r.byUID[r.registry.Packages[i].UID] = &r.registry.Packages[i]
		}
		return nil

	case request.Index:
		var pkgIdx meta.PackageIndex
		if err := json.Unmarshal(data, &pkgIdx); err != nil {
			return fmt.Errorf("load package index: %w", err)
		}
		pkg, ok := r.byUID[pkgIdx.UID]
		if !ok {
			return fmt.Errorf("%w: unknown uid %q", errs.ErrMetaNotFound, pkgIdx.UID)
		}
		pkg.Index = &pkgIdx
		return nil

	case request.Manifest:
		var m meta.Manifest
		if err := json.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("load manifest: %w", err)
		}
		pkg, ok := r.byUID[m.UID]
		if !ok {
			return fmt.Errorf("%w: unknown uid %q", errs.ErrMetaNotFound, m.UID)
		}
		if pkg.Index == nil {
			return fmt.Errorf("%w: index not loaded for %q", errs.ErrMetaNotFound, m.UID)
		}
		ver := pkg.Index.FindVersion(m.Version)
		if ver == nil {
			return fmt.Errorf("%w: %s@%s", errs.ErrMetaNotFound, m.UID, m.Version)
		}
		ver.Manifest = &m
		return nil

	case request.AssetIndex:
		var ai meta.AssetIndex
		if err := json.Unmarshal(data, &ai); err != nil {
			return fmt.Errorf("load asset index: %w", err)
		}
		pkg, ok := r.byUID[ctx.UID]
		if !ok {
			return fmt.Errorf("%w: unknown uid %q", errs.ErrMetaNotFound, ctx.UID)
		}
		if pkg.Index == nil {
			return fmt.Errorf("%w: index not loaded for %q", errs.ErrMetaNotFound, ctx.UID)
		}
		ver := pkg.Index.FindVersion(ctx.Version)
		if ver == nil || ver.Manifest == nil {
			return fmt.Errorf("%w: manifest not loaded for %s@%s", errs.ErrMetaNotFound, ctx.UID, ctx.Version)
		}
		if ver.Manifest.AssetIndex == nil {
			return fmt.Errorf("%w: manifest %s@%s has no asset index", errs.ErrMetaNotFound, ctx.UID, ctx.Version)
		}
		ver.Manifest.AssetIndex.Cache = &ai
		return nil

	default:
		return fmt.Errorf("%w: cannot load file type %s", errs.ErrMetaNotFound, ft)
	}
}
