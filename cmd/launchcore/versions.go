package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"

	"github.com/quasar/launchcore/internal/config"
	"github.com/quasar/launchcore/internal/fetch"
	"github.com/quasar/launchcore/internal/meta"
)

// runVersions lists the versions known for uid, sorted newest-first when
// they parse as semver. This sorting is a display-only concern: the
// resolver itself never orders versions, treating Version as an opaque,
// exactly-equal string per the core's data model.
func runVersions(ctx context.Context, cfg *config.Config, uid string) error {
	client := fetch.New(nil)

	data, err := client.FetchBytes(ctx, indexRequest(cfg.BaseURL, uid))
	if err != nil {
		return fmt.Errorf("fetch package index: %w", err)
	}

	var idx meta.PackageIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return fmt.Errorf("parse package index: %w", err)
	}

	sort.Slice(idx.Versions, func(i, j int) bool {
		vi, erri := semver.NewVersion(idx.Versions[i].Version)
		vj, errj := semver.NewVersion(idx.Versions[j].Version)
		if erri != nil || errj != nil {
			return idx.Versions[i].Version > idx.Versions[j].Version
		}
		return vi.GreaterThan(vj)
	})

	for _, v := range idx.Versions {
		fmt.Printf("%s\t%s\n", v.Version, v.ReleaseType)
	}
	return nil
}
