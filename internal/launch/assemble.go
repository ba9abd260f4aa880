// Package launch assembles a resolved set of manifests into a launchable
// command line — classpath, extracted natives, JVM flags, game
// arguments — and spawns the resulting Java process.
package launch

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/quasar/launchcore/internal/errs"
	"github.com/quasar/launchcore/internal/identity"
	"github.com/quasar/launchcore/internal/meta"
	"github.com/quasar/launchcore/internal/platform"
)

// Brand identifies this launcher to the game process, via both the
// minecraft.launcher.brand system property and the --version game
// argument.
const Brand = "launchcore"

// g1Flags are the fixed G1GC tuning flags applied to every launch.
var g1Flags = []string{
	"-XX:+UnlockExperimentalVMOptions",
	"-XX:+UseG1GC",
	"-XX:G1NewSizePercent=20",
	"-XX:G1ReservePercent=20",
	"-XX:MaxGCPauseMillis=50",
	"-XX:G1HeapRegionSize=32M",
}

// Paths names the directories the assembler resolves classpath entries,
// extracted natives and working directory against.
type Paths struct {
	MinecraftDir string
	LibrariesDir string
	AssetsDir    string
	NativesDir   string
}

// JVMConfig carries the heap sizing, window size and extra argument
// overrides for one launch.
type JVMConfig struct {
	Xms          string
	Xmx          string
	Width        int
	Height       int
	ExtraArgs    []string
	ExtraJVMOpts []string
}

// Plan is the fully assembled launch: the argv to execute, the
// environment overlay (CLASSPATH), and the working directory. SkippedTraits
// lists any manifest trait tokens that had no known JVM translation.
type Plan struct {
	Argv          []string
	Env           map[string]string
	WorkDir       string
	SkippedTraits []string
}

// Assemble builds a Plan for the primary manifest in manifests (keyed by
// UID), given the host platform, directory layout, JVM configuration and
// player identity. It fails with errs.ErrMetaNotFound if the primary
// manifest is missing its main class or its asset index id.
func Assemble(manifests map[string]*meta.Manifest, primaryUID string, host platform.OS, paths Paths, jvm JVMConfig, id identity.Identity) (Plan, error) {
	primary, ok := manifests[primaryUID]
	if !ok {
		return Plan{}, fmt.Errorf("%w: primary manifest %q not resolved", errs.ErrMetaNotFound, primaryUID)
	}
	if primary.MainClass == "" {
		return Plan{}, fmt.Errorf("%w: manifest %q has no main class", errs.ErrMetaNotFound, primaryUID)
	}
	if primary.AssetIndex == nil || primary.AssetIndex.ID == "" {
		return Plan{}, fmt.Errorf("%w: manifest %q has no asset index id", errs.ErrMetaNotFound, primaryUID)
	}

	classpath, err := Classpath(manifests, host, paths.LibrariesDir)
	if err != nil {
		return Plan{}, err
	}

	nativesDir, err := ExtractNatives(manifests, host, paths.LibrariesDir, paths.NativesDir)
	if err != nil {
		return Plan{}, err
	}

	flags, skipped := traitFlags(manifests, host)

	var argv []string
	argv = append(argv, flags...)
	argv = append(argv, jvm.ExtraJVMOpts...)
	argv = append(argv,
		"-Xms"+jvm.Xms,
		"-Xmx"+jvm.Xmx,
		"-Djava.library.path="+nativesDir,
		"-Dminecraft.launcher.brand="+Brand,
		"-Dminecraft.launcher.version="+primary.Version,
	)
	argv = append(argv, g1Flags...)
	argv = append(argv, primary.MainClass)

	token := id.AccessToken
	if token == "" {
		token = "0"
	}
	playerUUID := id.UUID
	if playerUUID == "" {
		playerUUID = "0"
	}

	argv = append(argv,
		"--gameDir", paths.MinecraftDir,
		"--assetsDir", paths.AssetsDir,
		"--accessToken", token,
		"--uuid", playerUUID,
		"--assetIndex", primary.AssetIndex.ID,
		"--width", strconv.Itoa(jvm.Width),
		"--height", strconv.Itoa(jvm.Height),
		"--username", id.Username,
		"--version", Brand,
	)
	// Extra game arguments are passed as individual argv elements, not
	// joined into one space-separated element.
	argv = append(argv, jvm.ExtraArgs...)

	if err := os.MkdirAll(paths.MinecraftDir, 0755); err != nil {
		return Plan{}, fmt.Errorf("launch workdir: %w", err)
	}

	return Plan{
		Argv:          argv,
		Env:           map[string]string{"CLASSPATH": classpath},
		WorkDir:       paths.MinecraftDir,
		SkippedTraits: skipped,
	}, nil
}

// Classpath produces the required-for-platform library paths plus each
// manifest's optional main jar, joined with the host's path-list
// separator. Libraries whose natives classifier applies to host are
// extracted rather than placed on the classpath and are skipped here.
func Classpath(manifests map[string]*meta.Manifest, host platform.OS, librariesDir string) (string, error) {
	var paths []string
	for _, uid := range sortedUIDs(manifests) {
		m := manifests[uid]
		libs := libraryList(m)
		for _, lib := range libs {
			if !platform.RequiredFor(lib.Rules, host) {
				continue
			}
			if _, ok := platform.NativesClassifier(lib, host); ok {
				continue
			}
			if _, err := platform.SelectDownload(lib, host); err != nil {
				return "", fmt.Errorf("classpath: %w", err)
			}
			paths = append(paths, lib.Name.PathAt(librariesDir))
		}
	}
	sep := ":"
	if host.Name == "windows" {
		sep = ";"
	}
	return strings.Join(paths, sep), nil
}

func libraryList(m *meta.Manifest) []meta.Library {
	libs := append([]meta.Library(nil), m.Libraries...)
	if m.MainJar != nil {
		libs = append(libs, *m.MainJar)
	}
	return libs
}

func sortedUIDs(manifests map[string]*meta.Manifest) []string {
	uids := make([]string, 0, len(manifests))
	for uid := range manifests {
		uids = append(uids, uid)
	}
	sort.Strings(uids)
	return uids
}

// traitFlags translates each manifest's traits into JVM flags. Unknown
// tokens are returned in skipped rather than applied, since this
// package performs no logging of its own.
func traitFlags(manifests map[string]*meta.Manifest, host platform.OS) (flags, skipped []string) {
	for _, uid := range sortedUIDs(manifests) {
		for _, trait := range manifests[uid].Traits {
			switch trait {
			case "FirstThreadOnMacOS":
				if host.Name == "osx" {
					flags = append(flags, "-XstartOnFirstThread")
				}
			default:
				skipped = append(skipped, trait)
			}
		}
	}
	return flags, skipped
}

// ExtractNatives creates nativesDir and, for every library in manifests
// whose natives classifier applies to host, extracts the selected
// classifier jar into it, skipping entries matching any extract.exclude
// prefix. It returns nativesDir.
func ExtractNatives(manifests map[string]*meta.Manifest, host platform.OS, librariesDir, nativesDir string) (string, error) {
	if err := os.MkdirAll(nativesDir, 0755); err != nil {
		return "", fmt.Errorf("natives dir: %w", err)
	}
	for _, uid := range sortedUIDs(manifests) {
		for _, lib := range manifests[uid].Libraries {
			classifier, ok := platform.NativesClassifier(lib, host)
			if !ok || !platform.RequiredFor(lib.Rules, host) {
				continue
			}
			jarPath := lib.Name.PathAtNatives(librariesDir, classifier)
			var exclude []string
			if lib.Extract != nil {
				exclude = lib.Extract.Exclude
			}
			if err := extractZip(jarPath, nativesDir, exclude); err != nil {
				return "", fmt.Errorf("extract natives for %s: %w", lib.Name.String(), err)
			}
		}
	}
	return nativesDir, nil
}

func extractZip(jarPath, destDir string, exclude []string) error {
	r, err := zip.OpenReader(jarPath)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if hasAnyPrefix(f.Name, exclude) {
			continue
		}
		target := filepath.Join(destDir, f.Name)
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, f.Mode()); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		if err := extractZipEntry(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractZipEntry(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}

func hasAnyPrefix(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}
