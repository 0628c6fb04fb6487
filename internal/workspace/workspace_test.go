package workspace

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{MaxReadBytes: 1024, MaxWriteBytes: 1024, RateLimit: 1000}
}

func TestNew_ValidDirectory(t *testing.T) {
	dir := t.TempDir()
	ws, err := New(dir, testConfig())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if ws.Root() == "" {
		t.Fatal("workspace root should not be empty")
	}
}

func TestNew_NonexistentPath(t *testing.T) {
	_, err := New("/nonexistent/path/that/does/not/exist", testConfig())
	if err == nil {
		t.Fatal("expected error for nonexistent path")
	}
}

func TestNew_FileNotDirectory(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "somefile.txt")
	if err := os.WriteFile(filePath, []byte("test"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	if _, err := New(filePath, testConfig()); err == nil {
		t.Fatal("expected error when root is a file, not a directory")
	}
}

func TestWriteThenReadFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	ws, err := New(dir, testConfig())
	if err != nil {
		t.Fatalf("failed to create workspace: %v", err)
	}

	if err := ws.WriteFile("notes.txt", "hello", ModeOverwrite); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	got, err := ws.ReadFile("notes.txt")
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got != "hello" {
		t.Fatalf("expected %q, got %q", "hello", got)
	}
}

func TestWriteFile_AppendMode(t *testing.T) {
	dir := t.TempDir()
	ws, err := New(dir, testConfig())
	if err != nil {
		t.Fatalf("failed to create workspace: %v", err)
	}

	if err := ws.WriteFile("log.txt", "a", ModeOverwrite); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := ws.WriteFile("log.txt", "b", ModeAppend); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	got, err := ws.ReadFile("log.txt")
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got != "ab" {
		t.Fatalf("expected %q, got %q", "ab", got)
	}
}

func TestWriteFile_InvalidMode(t *testing.T) {
	dir := t.TempDir()
	ws, _ := New(dir, testConfig())
	if err := ws.WriteFile("f.txt", "x", WriteMode("bogus")); err == nil {
		t.Fatal("expected error for invalid write mode")
	}
}

func TestWriteFile_SizeLimit(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()
	cfg.MaxWriteBytes = 4
	ws, _ := New(dir, cfg)
	if err := ws.WriteFile("big.txt", "way too much content", ModeOverwrite); err == nil {
		t.Fatal("expected size limit error")
	}
}

func TestValidateSegment_RejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	ws, _ := New(dir, testConfig())

	cases := []string{"../escape.txt", "sub/escape.txt", "..", ".", ""}
	for _, c := range cases {
		if _, err := ws.validateSegment(c, true); err == nil {
			t.Fatalf("expected rejection for segment %q", c)
		}
	}
}

func TestReadFile_SymlinkEscapeDenied(t *testing.T) {
	dir := t.TempDir()
	outside := t.TempDir()
	secret := filepath.Join(outside, "secret.txt")
	if err := os.WriteFile(secret, []byte("nope"), 0644); err != nil {
		t.Fatalf("failed to create outside file: %v", err)
	}

	link := filepath.Join(dir, "link.txt")
	if err := os.Symlink(secret, link); err != nil {
		t.Skipf("symlinks unavailable in this environment: %v", err)
	}

	ws, err := New(dir, testConfig())
	if err != nil {
		t.Fatalf("failed to create workspace: %v", err)
	}
	if _, err := ws.ReadFile("link.txt"); err == nil {
		t.Fatal("expected symlink escape to be denied")
	}
}

func TestDeleteFile(t *testing.T) {
	dir := t.TempDir()
	ws, _ := New(dir, testConfig())
	if err := ws.WriteFile("gone.txt", "x", ModeOverwrite); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := ws.DeleteFile("gone.txt"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := ws.ReadFile("gone.txt"); err == nil {
		t.Fatal("expected read to fail after delete")
	}
}

func TestDeleteFile_RefusesDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatalf("failed to create subdir: %v", err)
	}
	ws, _ := New(dir, testConfig())
	if err := ws.DeleteFile("sub"); err == nil {
		t.Fatal("expected refusal to delete a directory")
	}
}

func TestListFiles_NewestFirst(t *testing.T) {
	dir := t.TempDir()
	ws, _ := New(dir, testConfig())

	if err := ws.WriteFile("old.txt", "1", ModeOverwrite); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if err := ws.WriteFile("new.txt", "2", ModeOverwrite); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	files, err := ws.ListFiles()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(files) != 2 || files[0] != "new.txt" {
		t.Fatalf("expected [new.txt old.txt], got %v", files)
	}
}

func TestListDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "alpha"), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	ws, _ := New(dir, testConfig())

	dirs, err := ws.ListDirectories()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(dirs) != 1 || dirs[0] != "alpha" {
		t.Fatalf("expected [alpha], got %v", dirs)
	}
}

func TestListAll_SuffixesDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "alpha"), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	ws, _ := New(dir, testConfig())
	if err := ws.WriteFile("beta.txt", "x", ModeOverwrite); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	all, err := ws.ListAll()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	found := map[string]bool{}
	for _, e := range all {
		found[e] = true
	}
	if !found["alpha/"] || !found["beta.txt"] {
		t.Fatalf("expected alpha/ and beta.txt in %v", all)
	}
}

func TestListFilesRecursive_SkipsHiddenAndPycache(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".git", "HEAD"), []byte("ref"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "__pycache__"), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "__pycache__", "mod.pyc"), []byte("x"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "pkg"), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "pkg", "main.go"), []byte("package main"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	ws, _ := New(dir, testConfig())
	files, err := ws.ListFilesRecursive()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, f := range files {
		if f == filepath.Join(".git", "HEAD") || f == filepath.Join("__pycache__", "mod.pyc") {
			t.Fatalf("expected %q to be skipped, got files %v", f, files)
		}
	}
	if len(files) != 1 || files[0] != filepath.Join("pkg", "main.go") {
		t.Fatalf("expected [pkg/main.go], got %v", files)
	}
}

func TestFindFileByName(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "pkg"), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "pkg", "target.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	ws, _ := New(dir, testConfig())
	rel, err := ws.FindFileByName("target.txt")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if rel != filepath.Join("pkg", "target.txt") {
		t.Fatalf("expected pkg/target.txt, got %q", rel)
	}

	if _, err := ws.FindFileByName("missing.txt"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadFileByPath(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "pkg"), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "pkg", "target.txt"), []byte("contents"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	ws, _ := New(dir, testConfig())
	got, err := ws.ReadFileByPath(filepath.Join("pkg", "target.txt"))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got != "contents" {
		t.Fatalf("expected %q, got %q", "contents", got)
	}
}

func TestReadFileByPath_RejectsAbsolute(t *testing.T) {
	dir := t.TempDir()
	ws, _ := New(dir, testConfig())
	if _, err := ws.ReadFileByPath("/etc/passwd"); err == nil {
		t.Fatal("expected rejection of absolute path")
	}
}

func TestListTree(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "a", "b"), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a", "b", "leaf.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	ws, _ := New(dir, testConfig())
	lines, err := ws.ListTree()
	if err != nil {
		t.Fatalf("tree failed: %v", err)
	}

	var sawLeaf bool
	for _, l := range lines {
		if l.Name == "leaf.txt" && l.Depth == 2 && !l.IsDir {
			sawLeaf = true
		}
	}
	if !sawLeaf {
		t.Fatalf("expected leaf.txt at depth 2, got %+v", lines)
	}
}

func TestRateLimit_EleventhOperationRejected(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{MaxReadBytes: 1024, MaxWriteBytes: 1024, RateLimit: 10}
	ws, err := New(dir, cfg)
	if err != nil {
		t.Fatalf("failed to create workspace: %v", err)
	}

	for i := 0; i < 10; i++ {
		if _, err := ws.ListFiles(); err != nil {
			t.Fatalf("operation %d: expected success, got %v", i+1, err)
		}
	}
	if _, err := ws.ListFiles(); err == nil {
		t.Fatal("expected the 11th operation within the window to be rate limited")
	}
}
