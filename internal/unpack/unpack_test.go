package unpack

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

type testEntry struct {
	name string
	body string
}

// writeJar builds a zip archive in a temp dir. Names ending in "/" become
// directory entries.
func writeJar(t *testing.T, entries []testEntry) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "app-0.0.1.jar")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			t.Fatalf("creating entry %s: %v", e.name, err)
		}
		if strings.HasSuffix(e.name, "/") {
			continue
		}
		if _, err := io.WriteString(w, e.body); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestUnpacker(template TemplateSource) *Unpacker {
	return New(template, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func unpackInto(t *testing.T, u *Unpacker, jar string, opts Options) (*Report, string) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "project")
	if err := PrepareProjectDir(root, false); err != nil {
		t.Fatal(err)
	}
	opts.ArchivePath = jar
	opts.ProjectDir = root
	report, err := u.Unpack(context.Background(), opts)
	if err != nil {
		t.Fatalf("Unpack() failed: %v", err)
	}
	return report, root
}

func assertFile(t *testing.T, path, want string) {
	t.Helper()
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if string(got) != want {
		t.Errorf("%s = %q, want %q", path, got, want)
	}
}

func assertMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected %s to be absent, stat err = %v", path, err)
	}
}

func TestUnpackEndToEnd(t *testing.T) {
	jar := writeJar(t, []testEntry{
		{"META-INF/", ""},
		{"META-INF/MANIFEST.MF", "Manifest-Version: 1.0\r\nStart-Class: com.acme.App\r\n\r\n"},
		{"BOOT-INF/", ""},
		{"BOOT-INF/classes/", ""},
		{"BOOT-INF/classes/com/acme/App.class", "\xca\xfe\xba\xbeApp"},
		{"BOOT-INF/classes/application.properties", "server.port=8081\n"},
		{"BOOT-INF/lib/", ""},
		{"BOOT-INF/lib/foo-1.0.jar", "foo-jar-bytes"},
		{"org/springframework/boot/loader/JarLauncher.class", "loader"},
	})

	report, root := unpackInto(t, newTestUnpacker(nil), jar, Options{})
	layout := NewLayout(root)

	assertFile(t, filepath.Join(layout.Classes, "com", "acme", "App.class"), "\xca\xfe\xba\xbeApp")
	assertFile(t, filepath.Join(layout.Lib, "foo-1.0.jar"), "foo-jar-bytes")
	assertFile(t, filepath.Join(layout.Resources, "application.properties"), "server.port=8081\n")
	assertMissing(t, filepath.Join(root, "org"))
	assertMissing(t, layout.Quarantine)

	pom, err := os.ReadFile(layout.Descriptor)
	if err != nil {
		t.Fatalf("reading pom.xml: %v", err)
	}
	for _, want := range []string{
		"<groupId>com.acme</groupId>",
		"<artifactId>com</artifactId>",
		"<java.version>1.8</java.version>",
		"<version>2.7.11</version>",
	} {
		if !strings.Contains(string(pom), want) {
			t.Errorf("pom.xml missing %q", want)
		}
	}

	if report.Libraries != 1 || report.Classes != 1 || report.Resources != 1 {
		t.Errorf("counts = lib %d, class %d, res %d; want 1 each", report.Libraries, report.Classes, report.Resources)
	}
	if report.Ignored != 1 {
		t.Errorf("Ignored = %d, want 1", report.Ignored)
	}
	if report.Directories != 4 {
		t.Errorf("Directories = %d, want 4", report.Directories)
	}
	if !report.Descriptor.Synthesized() {
		t.Errorf("Descriptor rule = %s, want synthesized", report.Descriptor.Rule)
	}
	if report.Manifest.StartClass != "com.acme.App" {
		t.Errorf("StartClass = %q", report.Manifest.StartClass)
	}
}

func TestUnpackSingleCandidateVerbatim(t *testing.T) {
	pom := "<project><groupId>org.other</groupId></project>\n"
	jar := writeJar(t, []testEntry{
		{"META-INF/maven/org.other/thing/pom.xml", pom},
		{"META-INF/MANIFEST.MF", "Start-Class: com.acme.App\n"},
	})

	report, root := unpackInto(t, newTestUnpacker(nil), jar, Options{})
	assertFile(t, filepath.Join(root, "pom.xml"), pom)
	if report.Descriptor.Rule != RuleSingleCandidate {
		t.Errorf("Rule = %s, want %s", report.Descriptor.Rule, RuleSingleCandidate)
	}
}

func TestUnpackManifestAfterCandidates(t *testing.T) {
	jar := writeJar(t, []testEntry{
		{"META-INF/maven/com/acme/app/pom.xml", "app-pom"},
		{"META-INF/maven/com/acme/lib/pom.xml", "lib-pom"},
		{"META-INF/MANIFEST.MF", "Start-Class: com.acme.app.Main\n"},
	})

	report, root := unpackInto(t, newTestUnpacker(nil), jar, Options{})
	assertFile(t, filepath.Join(root, "pom.xml"), "app-pom")
	if report.Descriptor.Rule != RulePackagePrefix {
		t.Errorf("Rule = %s, want %s", report.Descriptor.Rule, RulePackagePrefix)
	}
	if len(report.Warnings) == 0 {
		t.Error("expected a heuristic selection warning")
	}
}

func TestUnpackFilters(t *testing.T) {
	jar := writeJar(t, []testEntry{
		{"BOOT-INF/classes/com/acme/App.class", "app"},
		{"BOOT-INF/classes/com/acme/gen/Proto.class", "proto"},
		{"BOOT-INF/classes/org/vendor/Lib.class", "vendor"},
		{"BOOT-INF/classes/org/vendor/vendor.properties", "props"},
	})

	report, root := unpackInto(t, newTestUnpacker(nil), jar, Options{
		Include: "com.acme",
		Exclude: "com.acme.gen",
	})
	layout := NewLayout(root)

	assertFile(t, filepath.Join(layout.Classes, "com", "acme", "App.class"), "app")
	assertFile(t, filepath.Join(layout.Quarantine, "com", "acme", "gen", "Proto.class"), "proto")
	assertFile(t, filepath.Join(layout.Quarantine, "org", "vendor", "Lib.class"), "vendor")
	assertMissing(t, filepath.Join(layout.Classes, "com", "acme", "gen"))
	assertMissing(t, filepath.Join(layout.Classes, "org"))
	// Filters never apply to resources.
	assertFile(t, filepath.Join(layout.Resources, "org", "vendor", "vendor.properties"), "props")

	if report.Classes != 1 || report.Quarantined != 2 {
		t.Errorf("Classes = %d, Quarantined = %d; want 1, 2", report.Classes, report.Quarantined)
	}
}

func TestUnpackWarLayout(t *testing.T) {
	jar := writeJar(t, []testEntry{
		{"WEB-INF/classes/com/acme/App.class", "app"},
		{"WEB-INF/classes/templates/index.html", "<html/>"},
		{"WEB-INF/lib/spring-core.jar", "core"},
		{"WEB-INF/lib-provided/tomcat.jar", "tomcat"},
	})

	_, root := unpackInto(t, newTestUnpacker(nil), jar, Options{})
	layout := NewLayout(root)
	assertFile(t, filepath.Join(layout.Classes, "com", "acme", "App.class"), "app")
	assertFile(t, filepath.Join(layout.Resources, "templates", "index.html"), "<html/>")
	assertFile(t, filepath.Join(layout.Lib, "spring-core.jar"), "core")
	assertFile(t, filepath.Join(layout.Lib, "tomcat.jar"), "tomcat")
}

func TestUnpackDirectoryEntriesProduceNoFiles(t *testing.T) {
	jar := writeJar(t, []testEntry{
		{"BOOT-INF/lib/", ""},
		{"BOOT-INF/lib/nested/", ""},
		{"BOOT-INF/classes/static/", ""},
	})

	report, root := unpackInto(t, newTestUnpacker(nil), jar, Options{})
	layout := NewLayout(root)

	for _, dir := range []string{layout.Lib, layout.Resources, layout.Classes} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 0 {
			t.Errorf("%s should be empty, has %d entries", dir, len(entries))
		}
	}
	if report.Directories != 3 {
		t.Errorf("Directories = %d, want 3", report.Directories)
	}
}

func TestUnpackDuplicateEntriesLastWins(t *testing.T) {
	jar := writeJar(t, []testEntry{
		{"BOOT-INF/lib/a/dup.jar", "first"},
		{"BOOT-INF/lib/b/dup.jar", "second"},
	})

	report, root := unpackInto(t, newTestUnpacker(nil), jar, Options{})
	assertFile(t, filepath.Join(root, "lib", "dup.jar"), "second")
	if report.Overwritten != 1 {
		t.Errorf("Overwritten = %d, want 1", report.Overwritten)
	}
}

func TestUnpackMissingAndMalformedManifest(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		jar := writeJar(t, []testEntry{{"BOOT-INF/classes/a.txt", "a"}})
		report, root := unpackInto(t, newTestUnpacker(nil), jar, Options{})
		if report.ManifestFound {
			t.Error("ManifestFound = true, want false")
		}
		pom, err := os.ReadFile(filepath.Join(root, "pom.xml"))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(pom), "<groupId>com.example.demo</groupId>") {
			t.Errorf("pom.xml should use the default start class package:\n%s", pom)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		jar := writeJar(t, []testEntry{{"META-INF/MANIFEST.MF", "garbage without colon\n"}})
		report, _ := unpackInto(t, newTestUnpacker(nil), jar, Options{})
		if !report.ManifestFound {
			t.Error("ManifestFound = false, want true")
		}
		if report.Manifest.StartClass != "com.example.demo.DemoApplication" {
			t.Errorf("StartClass = %q, want default", report.Manifest.StartClass)
		}
		if len(report.Warnings) == 0 {
			t.Error("expected a malformed manifest warning")
		}
	})
}

func TestUnpackBlankStartClassUsesDefault(t *testing.T) {
	jar := writeJar(t, []testEntry{
		{"META-INF/MANIFEST.MF", "Manifest-Version: 1.0\r\nStart-Class: \r\n\r\n"},
		{"BOOT-INF/classes/a.txt", "a"},
	})

	report, root := unpackInto(t, newTestUnpacker(nil), jar, Options{})
	if report.Manifest.StartClass != "com.example.demo.DemoApplication" {
		t.Errorf("StartClass = %q, want default", report.Manifest.StartClass)
	}
	pom, err := os.ReadFile(filepath.Join(root, "pom.xml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(pom), "<groupId>com.example.demo</groupId>") {
		t.Errorf("pom.xml should use the default start class package:\n%s", pom)
	}
}

func TestUnpackOversizedManifestUsesDefaults(t *testing.T) {
	big := "Start-Class: com.acme.App\n" + strings.Repeat("X-Padding: 0123456789\n", (maxManifestSize/22)+1)
	jar := writeJar(t, []testEntry{
		{"META-INF/MANIFEST.MF", big},
		{"BOOT-INF/classes/a.txt", "a"},
	})

	report, root := unpackInto(t, newTestUnpacker(nil), jar, Options{})
	if !report.ManifestFound {
		t.Error("ManifestFound = false, want true")
	}
	if report.Manifest.StartClass != "com.example.demo.DemoApplication" {
		t.Errorf("StartClass = %q, want default", report.Manifest.StartClass)
	}
	if len(report.Warnings) == 0 {
		t.Error("expected an oversized manifest warning")
	}
	assertFile(t, filepath.Join(root, "src", "main", "resources", "a.txt"), "a")
}

func TestUnpackDuplicateSingleCandidate(t *testing.T) {
	jar := writeJar(t, []testEntry{
		{"META-INF/maven/org.other/thing/pom.xml", "first"},
		{"META-INF/maven/org.other/thing/pom.xml", "second"},
		{"META-INF/MANIFEST.MF", "Start-Class: com.acme.App\n"},
	})

	report, root := unpackInto(t, newTestUnpacker(nil), jar, Options{})
	if len(report.Candidates) != 1 {
		t.Errorf("Candidates = %v, want one entry", report.Candidates)
	}
	if report.Descriptor.Rule != RuleSingleCandidate {
		t.Errorf("Rule = %s, want %s", report.Descriptor.Rule, RuleSingleCandidate)
	}
	assertFile(t, filepath.Join(root, "pom.xml"), "second")
}

func TestUnpackTemplateOnlyLoadedForSynthesis(t *testing.T) {
	missing := FileTemplate(filepath.Join(t.TempDir(), "nope.xml"))

	jar := writeJar(t, []testEntry{{"META-INF/maven/com/acme/app/pom.xml", "pom"}})
	_, root := unpackInto(t, newTestUnpacker(missing), jar, Options{})
	assertFile(t, filepath.Join(root, "pom.xml"), "pom")

	jar = writeJar(t, []testEntry{{"BOOT-INF/classes/a.txt", "a"}})
	root = filepath.Join(t.TempDir(), "project")
	if err := PrepareProjectDir(root, false); err != nil {
		t.Fatal(err)
	}
	_, err := newTestUnpacker(missing).Unpack(context.Background(), Options{ArchivePath: jar, ProjectDir: root})
	if err == nil || !strings.Contains(err.Error(), "descriptor template") {
		t.Fatalf("expected template error, got %v", err)
	}
}

func TestUnpackCustomTemplate(t *testing.T) {
	tmplPath := filepath.Join(t.TempDir(), "pom.xml")
	if err := os.WriteFile(tmplPath, []byte("${groupId}:${artifactId}:${javaVersion}:${springBootVersion}"), 0o644); err != nil {
		t.Fatal(err)
	}
	jar := writeJar(t, []testEntry{
		{"META-INF/MANIFEST.MF", "Start-Class: acme.Main\nBuild-Jdk-Spec: 21\nSpring-Boot-Version: 3.3.0\n"},
	})

	_, root := unpackInto(t, newTestUnpacker(TemplateFor(tmplPath)), jar, Options{})
	assertFile(t, filepath.Join(root, "pom.xml"), "acme:demo:21:3.3.0")
}

func TestUnpackRejectsTraversal(t *testing.T) {
	jar := writeJar(t, []testEntry{{"BOOT-INF/classes/../../evil.class", "x"}})

	root := filepath.Join(t.TempDir(), "project")
	if err := PrepareProjectDir(root, false); err != nil {
		t.Fatal(err)
	}
	_, err := newTestUnpacker(nil).Unpack(context.Background(), Options{ArchivePath: jar, ProjectDir: root})
	if err == nil {
		t.Fatal("expected traversal entry to be rejected")
	}
	assertMissing(t, filepath.Join(filepath.Dir(root), "evil.class"))
	assertMissing(t, filepath.Join(root, "src", "evil.class"))
}

func TestUnpackMissingArchive(t *testing.T) {
	root := t.TempDir()
	_, err := newTestUnpacker(nil).Unpack(context.Background(), Options{
		ArchivePath: filepath.Join(root, "missing.jar"),
		ProjectDir:  filepath.Join(root, "project"),
	})
	if err == nil {
		t.Fatal("expected error for missing archive")
	}
}

func TestUnpackCancelled(t *testing.T) {
	jar := writeJar(t, []testEntry{{"BOOT-INF/lib/a.jar", "a"}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestUnpacker(nil).Unpack(ctx, Options{ArchivePath: jar, ProjectDir: t.TempDir()})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestUnpackIdempotent(t *testing.T) {
	jar := writeJar(t, []testEntry{
		{"META-INF/MANIFEST.MF", "Start-Class: com.acme.app.Main\nImplementation-Title: app\n"},
		{"META-INF/maven/org.lib/util/pom.xml", "util"},
		{"META-INF/maven/io.vendor/x/pom.xml", "x"},
		{"BOOT-INF/classes/com/acme/app/Main.class", "main"},
		{"BOOT-INF/classes/com/acme/app/web/Ctl.class", "ctl"},
		{"BOOT-INF/classes/logback.xml", "<configuration/>"},
		{"BOOT-INF/lib/util-1.jar", "util-jar"},
	})

	u := newTestUnpacker(nil)
	_, first := unpackInto(t, u, jar, Options{Exclude: "com.acme.app.web"})
	_, second := unpackInto(t, u, jar, Options{Exclude: "com.acme.app.web"})

	a := snapshotTree(t, first)
	b := snapshotTree(t, second)
	if len(a) == 0 {
		t.Fatal("empty output tree")
	}
	if len(a) != len(b) {
		t.Fatalf("tree sizes differ: %d vs %d", len(a), len(b))
	}
	for path, content := range a {
		if !bytes.Equal(content, b[path]) {
			t.Errorf("%s differs between runs", path)
		}
	}
}

func snapshotTree(t *testing.T, root string) map[string][]byte {
	t.Helper()
	out := make(map[string][]byte)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[rel] = data
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestInspectWritesNothing(t *testing.T) {
	jar := writeJar(t, []testEntry{
		{"META-INF/MANIFEST.MF", "Start-Class: com.acme.App\n"},
		{"BOOT-INF/classes/com/acme/App.class", "app"},
		{"BOOT-INF/lib/foo.jar", "foo"},
	})
	root := filepath.Join(t.TempDir(), "project")

	var seen []string
	report, err := newTestUnpacker(nil).Inspect(context.Background(), Options{
		ArchivePath: jar,
		ProjectDir:  root,
		OnEntry: func(name string, route Route) {
			seen = append(seen, name+"="+route.Kind.String())
		},
	})
	if err != nil {
		t.Fatalf("Inspect() failed: %v", err)
	}
	assertMissing(t, root)

	if report.Classes != 1 || report.Libraries != 1 {
		t.Errorf("counts = class %d, lib %d", report.Classes, report.Libraries)
	}
	if report.BytesWritten != int64(len("app")+len("foo")) {
		t.Errorf("BytesWritten = %d", report.BytesWritten)
	}
	want := "META-INF/MANIFEST.MF=manifest,BOOT-INF/classes/com/acme/App.class=class,BOOT-INF/lib/foo.jar=library"
	if strings.Join(seen, ",") != want {
		t.Errorf("OnEntry saw %v", seen)
	}
}

func TestPrepareProjectDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), "project")
	if err := PrepareProjectDir(root, false); err != nil {
		t.Fatalf("first prepare failed: %v", err)
	}
	stale := filepath.Join(root, "stale.txt")
	if err := os.WriteFile(stale, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := PrepareProjectDir(root, false)
	if !errors.Is(err, ErrProjectExists) {
		t.Fatalf("err = %v, want ErrProjectExists", err)
	}

	if err := PrepareProjectDir(root, true); err != nil {
		t.Fatalf("overwrite prepare failed: %v", err)
	}
	assertMissing(t, stale)
}

func TestProjectDirFor(t *testing.T) {
	tests := []struct {
		archive string
		output  string
		want    string
	}{
		{"/tmp/jars/app-0.0.1.jar", "", "/tmp/jars/app-0.0.1"},
		{"/tmp/jars/shop.war", "/out", "/out/shop"},
		{"/tmp/jars/noext", "", "/tmp/jars/noext"},
	}
	for _, tt := range tests {
		if got := ProjectDirFor(tt.archive, tt.output); got != filepath.FromSlash(tt.want) {
			t.Errorf("ProjectDirFor(%q, %q) = %q, want %q", tt.archive, tt.output, got, tt.want)
		}
	}
}

func TestBundle(t *testing.T) {
	jar := writeJar(t, []testEntry{
		{"BOOT-INF/classes/com/acme/App.class", "app"},
		{"BOOT-INF/lib/foo.jar", "foo"},
	})
	_, root := unpackInto(t, newTestUnpacker(nil), jar, Options{})

	info, err := Bundle(context.Background(), root, BundleZstd)
	if err != nil {
		t.Fatalf("Bundle() failed: %v", err)
	}
	if info.Files != 3 {
		t.Errorf("Files = %d, want 3", info.Files)
	}

	hash, _, err := HashFile(info.Path)
	if err != nil {
		t.Fatal(err)
	}
	if hash != info.SHA256 {
		t.Errorf("SHA256 = %s, file hashes to %s", info.SHA256, hash)
	}
	sidecar, err := os.ReadFile(info.Sidecar)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(sidecar), hash+"  project.tar.zst") {
		t.Errorf("sidecar = %q", sidecar)
	}

	f, err := os.Open(info.Path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zr, err := zstd.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()

	names := make(map[string]bool)
	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		names[hdr.Name] = true
	}
	for _, want := range []string{"project/lib/foo.jar", "project/pom.xml", "project/src/main/java/com/acme/App.class"} {
		if !names[want] {
			t.Errorf("bundle missing %s (have %v)", want, names)
		}
	}
}

func TestBundleXZ(t *testing.T) {
	jar := writeJar(t, []testEntry{
		{"BOOT-INF/classes/application.yml", "a: b\n"},
	})
	_, root := unpackInto(t, newTestUnpacker(nil), jar, Options{})

	info, err := Bundle(context.Background(), root, BundleXZ)
	if err != nil {
		t.Fatalf("Bundle() failed: %v", err)
	}
	if !strings.HasSuffix(info.Path, ".tar.xz") {
		t.Fatalf("Path = %s, want .tar.xz suffix", info.Path)
	}

	f, err := os.Open(info.Path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	xr, err := xz.NewReader(f)
	if err != nil {
		t.Fatalf("xz.NewReader: %v", err)
	}
	tr := tar.NewReader(xr)
	found := false
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		if hdr.Name == "project/src/main/resources/application.yml" {
			found = true
		}
	}
	if !found {
		t.Error("xz bundle missing application.yml")
	}
}

func TestParseBundleFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    BundleFormat
		wantErr bool
	}{
		{"", BundleZstd, false},
		{"zstd", BundleZstd, false},
		{"ZST", BundleZstd, false},
		{"xz", BundleXZ, false},
		{"gzip", "", true},
	}
	for _, tt := range tests {
		got, err := ParseBundleFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBundleFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseBundleFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
