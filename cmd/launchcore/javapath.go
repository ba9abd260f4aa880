package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/quasar/launchcore/internal/config"
	"github.com/quasar/launchcore/internal/java"
)

// minJavaVersion is the floor used when searching for an already-installed
// JVM. The registry doesn't currently advertise a per-manifest Java
// requirement, so this mirrors the teacher's own default search.
const minJavaVersion = 8

// adoptiumRuntimeVersion is what gets fetched from Adoptium when no local
// JVM satisfies minJavaVersion.
const adoptiumRuntimeVersion = 21

// resolveJavaPath returns the JVM executable to launch with: the
// configured JavaPath if set, otherwise the best local installation
// found by java.Detector, otherwise a JRE fetched from Adoptium via
// java.Downloader and cached under cfg.DataDir/java.
func resolveJavaPath(ctx context.Context, cfg *config.Config) (string, error) {
	if cfg.JavaPath != "" {
		return cfg.JavaPath, nil
	}

	if best := java.NewDetector().FindBest(minJavaVersion); best != nil {
		return best.Path, nil
	}

	javaDir := filepath.Join(cfg.DataDir, "java")
	dl := java.NewDownloader()
	path, err := dl.FindJavaExecutable(filepath.Join(javaDir, fmt.Sprintf("%d", adoptiumRuntimeVersion)))
	if err == nil {
		return path, nil
	}

	return dl.DownloadRuntime(ctx, adoptiumRuntimeVersion, javaDir, func(string) {})
}
