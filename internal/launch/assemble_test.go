package launch

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quasar/launchcore/internal/coordinate"
	"github.com/quasar/launchcore/internal/identity"
	"github.com/quasar/launchcore/internal/meta"
	"github.com/quasar/launchcore/internal/platform"
)

func minimalManifest() *meta.Manifest {
	return &meta.Manifest{
		UID:        "net.minecraft",
		Version:    "1.18.1",
		MainClass:  "m.M",
		AssetIndex: &meta.AssetIndexRef{ID: "a1"},
	}
}

// S6 - Argv shape: given a minimal manifest, host linux, offline identity
// "p", the argv includes the named flags and game arguments in order.
func TestAssembleS6ArgvShape(t *testing.T) {
	dir := t.TempDir()
	manifests := map[string]*meta.Manifest{"net.minecraft": minimalManifest()}
	paths := Paths{
		MinecraftDir: filepath.Join(dir, "mc"),
		LibrariesDir: filepath.Join(dir, "libraries"),
		AssetsDir:    filepath.Join(dir, "assets"),
		NativesDir:   filepath.Join(dir, "natives"),
	}
	jvm := JVMConfig{Xms: "512M", Xmx: "2G", Width: 854, Height: 480}
	id := identity.Identity{Kind: identity.Offline, Username: "p"}

	plan, err := Assemble(manifests, "net.minecraft", platform.OS{Name: "linux"}, paths, jvm, id)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	wantOrder := []string{
		"-Xms512M", "-Xmx2G",
		"-Djava.library.path=" + paths.NativesDir,
		"-Dminecraft.launcher.brand=" + Brand,
		"-Dminecraft.launcher.version=1.18.1",
		"-XX:+UnlockExperimentalVMOptions", "-XX:+UseG1GC",
		"-XX:G1NewSizePercent=20", "-XX:G1ReservePercent=20",
		"-XX:MaxGCPauseMillis=50", "-XX:G1HeapRegionSize=32M",
		"m.M",
		"--gameDir", paths.MinecraftDir,
		"--assetsDir", paths.AssetsDir,
		"--accessToken", "0",
		"--uuid", "0",
		"--assetIndex", "a1",
		"--width", "854",
		"--height", "480",
		"--username", "p",
	}
	if len(plan.Argv) < len(wantOrder) {
		t.Fatalf("argv too short: %v", plan.Argv)
	}
	if !containsSubsequenceAt(plan.Argv, wantOrder) {
		t.Errorf("argv = %v, want subsequence %v in order", plan.Argv, wantOrder)
	}
}

func containsSubsequenceAt(argv, want []string) bool {
	for start := 0; start+len(want) <= len(argv); start++ {
		match := true
		for i, w := range want {
			if argv[start+i] != w {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func TestAssembleMissingMainClass(t *testing.T) {
	manifests := map[string]*meta.Manifest{"net.minecraft": {UID: "net.minecraft", Version: "1"}}
	_, err := Assemble(manifests, "net.minecraft", platform.OS{Name: "linux"}, Paths{MinecraftDir: t.TempDir()}, JVMConfig{}, identity.Identity{})
	if err == nil {
		t.Fatal("expected error for missing main class")
	}
}

// Testable Property 7 - Classpath separator.
func TestClasspathSeparator(t *testing.T) {
	dir := t.TempDir()
	lib, err := coordinate.Parse("com.mojang:minecraft:1.18.1:client")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	m := &meta.Manifest{Libraries: []meta.Library{{
		Name:      lib,
		Downloads: meta.LibraryDownloads{Artifact: &meta.Download{URL: "https://x/lib.jar"}},
	}}}
	manifests := map[string]*meta.Manifest{"a": m}

	m.Libraries = append(m.Libraries, meta.Library{
		Name:      lib,
		Downloads: meta.LibraryDownloads{Artifact: &meta.Download{URL: "https://x/lib2.jar"}},
	})
	cpWin, err := Classpath(manifests, platform.OS{Name: "windows"}, dir)
	if err != nil {
		t.Fatalf("Classpath windows: %v", err)
	}
	if !strings.Contains(cpWin, ";") {
		t.Errorf("windows classpath = %q, want ';' separator", cpWin)
	}

	cpLinux, err := Classpath(manifests, platform.OS{Name: "linux"}, dir)
	if err != nil {
		t.Fatalf("Classpath linux: %v", err)
	}
	if strings.Contains(cpLinux, ";") || !strings.Contains(cpLinux, ":") {
		t.Errorf("linux classpath = %q, want ':' separator", cpLinux)
	}
}

func TestClasspathSkipsNativesLibraries(t *testing.T) {
	dir := t.TempDir()
	lib, err := coordinate.Parse("org.lwjgl:lwjgl:3.3.1")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	m := &meta.Manifest{Libraries: []meta.Library{{
		Name:    lib,
		Natives: map[string]string{"linux": "natives-linux"},
		Downloads: meta.LibraryDownloads{
			Classifiers: map[string]meta.Download{"natives-linux": {URL: "https://x/n.jar"}},
		},
	}}}
	manifests := map[string]*meta.Manifest{"a": m}

	cp, err := Classpath(manifests, platform.OS{Name: "linux"}, dir)
	if err != nil {
		t.Fatalf("Classpath: %v", err)
	}
	if cp != "" {
		t.Errorf("classpath = %q, want empty (natives-only library excluded)", cp)
	}
}

// Testable Property 8 - Natives exclusion.
func TestExtractNativesExcludesPrefix(t *testing.T) {
	dir := t.TempDir()
	librariesDir := filepath.Join(dir, "libraries")
	nativesDir := filepath.Join(dir, "natives")

	lib, err := coordinate.Parse("org.lwjgl:lwjgl:3.3.1")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	jarPath := lib.PathAtNatives(librariesDir, "natives-linux")
	writeTestZip(t, jarPath, map[string]string{
		"liblwjgl.so":         "binary",
		"META-INF/MANIFEST.MF": "manifest",
	})

	m := &meta.Manifest{Libraries: []meta.Library{{
		Name:    lib,
		Natives: map[string]string{"linux": "natives-linux"},
		Downloads: meta.LibraryDownloads{
			Classifiers: map[string]meta.Download{"natives-linux": {URL: "https://x/n.jar"}},
		},
		Extract: &meta.Extract{Exclude: []string{"META-INF/"}},
	}}}

	got, err := ExtractNatives(map[string]*meta.Manifest{"a": m}, platform.OS{Name: "linux"}, librariesDir, nativesDir)
	if err != nil {
		t.Fatalf("ExtractNatives: %v", err)
	}
	if got != nativesDir {
		t.Errorf("ExtractNatives returned %q, want %q", got, nativesDir)
	}
	if _, err := os.Stat(filepath.Join(nativesDir, "liblwjgl.so")); err != nil {
		t.Errorf("expected liblwjgl.so extracted: %v", err)
	}
	if _, err := os.Stat(filepath.Join(nativesDir, "META-INF", "MANIFEST.MF")); !os.IsNotExist(err) {
		t.Errorf("expected META-INF/MANIFEST.MF excluded, stat err = %v", err)
	}
}

func writeTestZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip Create: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip Write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip Close: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestRedactedArgv(t *testing.T) {
	argv := []string{"--username", "p", "--accessToken", "super-secret", "--uuid", "0"}
	got := RedactedArgv(argv)
	for _, a := range got {
		if a == "super-secret" {
			t.Fatalf("RedactedArgv leaked token: %v", got)
		}
	}
	if argv[3] != "super-secret" {
		t.Error("RedactedArgv should not mutate the original slice")
	}
}
