package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/go-logr/logr"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func enumerate(t *testing.T, root string, opts Options) []string {
	t.Helper()
	files, err := NewLocalSource(logr.Discard()).Enumerate(context.Background(), root, opts, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return files
}

func contains(files []string, want string) bool {
	for _, f := range files {
		if f == want {
			return true
		}
	}
	return false
}

func TestEnumerate_Recursive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "a")
	writeFile(t, filepath.Join(root, "sub", "b.txt"), "b")
	writeFile(t, filepath.Join(root, "sub", "deeper", "c.txt"), "c")
	if err := os.Mkdir(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}

	files := enumerate(t, root, DefaultOptions())
	want := []string{
		filepath.Join(root, "a.txt"),
		filepath.Join(root, "sub", "b.txt"),
		filepath.Join(root, "sub", "deeper", "c.txt"),
	}
	if len(files) != len(want) {
		t.Fatalf("expected %d files, got %d: %v", len(want), len(files), files)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("files[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}

func TestEnumerate_PathsKeepRootAsGiven(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "x", "a.txt"), "a")

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(root); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	files := enumerate(t, "x", DefaultOptions())
	if len(files) != 1 || files[0] != filepath.Join("x", "a.txt") {
		t.Fatalf("expected relative path x/a.txt, got %v", files)
	}
}

func TestEnumerate_NotDirectory(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "plain.txt")
	writeFile(t, file, "data")

	for _, path := range []string{file, filepath.Join(root, "missing")} {
		_, err := NewLocalSource(logr.Discard()).Enumerate(context.Background(), path, DefaultOptions(), nil)
		if !errors.Is(err, ErrNotDirectory) {
			t.Fatalf("Enumerate(%q): expected ErrNotDirectory, got %v", path, err)
		}
	}
}

func TestEnumerate_CanceledContext_ReturnsError(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 10; i++ {
		writeFile(t, filepath.Join(root, "dir"+string(rune('a'+i)), "file.txt"), "data")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLocalSource(logr.Discard()).Enumerate(ctx, root, DefaultOptions(), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestEnumerate_ShowHiddenFalse_SkipsHiddenEntries(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "visible.txt"), "v")
	writeFile(t, filepath.Join(root, ".hidden.txt"), "h")
	writeFile(t, filepath.Join(root, ".hidden-dir", "inside.txt"), "x")

	opts := DefaultOptions()
	opts.ShowHidden = false
	files := enumerate(t, root, opts)

	if !contains(files, filepath.Join(root, "visible.txt")) {
		t.Fatal("expected visible file to be present")
	}
	if len(files) != 1 {
		t.Fatalf("expected hidden entries to be skipped, got %v", files)
	}

	all := enumerate(t, root, DefaultOptions())
	if len(all) != 3 {
		t.Fatalf("expected hidden entries by default, got %v", all)
	}
}

func TestEnumerate_ExcludePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep", "a.txt"), "a")
	writeFile(t, filepath.Join(root, "node_modules", "b.txt"), "b")
	writeFile(t, filepath.Join(root, "keep", "skip.me"), "c")

	opts := DefaultOptions()
	opts.ExcludePatterns = []string{"node_modules", "skip.me"}
	files := enumerate(t, root, opts)

	if len(files) != 1 || files[0] != filepath.Join(root, "keep", "a.txt") {
		t.Fatalf("expected only keep/a.txt, got %v", files)
	}
}

func TestEnumerate_Symlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated privileges on windows")
	}
	root := t.TempDir()
	outside := t.TempDir()
	writeFile(t, filepath.Join(root, "target.txt"), "hello")
	writeFile(t, filepath.Join(outside, "remote.txt"), "far away")

	if err := os.Symlink("target.txt", filepath.Join(root, "alias.txt")); err != nil {
		t.Skipf("symlink not available on this platform: %v", err)
	}
	if err := os.Symlink("/definitely/missing/target", filepath.Join(root, "broken-link")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(outside, filepath.Join(root, "linked-dir")); err != nil {
		t.Fatal(err)
	}

	files := enumerate(t, root, DefaultOptions())
	if !contains(files, filepath.Join(root, "alias.txt")) {
		t.Fatalf("expected symlink to a regular file to be included, got %v", files)
	}
	if contains(files, filepath.Join(root, "broken-link")) {
		t.Fatal("expected broken symlink to be dropped")
	}
	if contains(files, filepath.Join(root, "linked-dir", "remote.txt")) {
		t.Fatal("expected symlinked directory not to be followed by default")
	}

	opts := DefaultOptions()
	opts.FollowSymlinks = true
	followed := enumerate(t, root, opts)
	if !contains(followed, filepath.Join(root, "linked-dir", "remote.txt")) {
		t.Fatalf("expected symlinked directory to be followed, got %v", followed)
	}
}

func TestEnumerate_SymlinkCycleTerminates(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "sub", "a.txt"), "a")
	if err := os.Symlink(root, filepath.Join(root, "sub", "loop")); err != nil {
		t.Skipf("symlink not available on this platform: %v", err)
	}

	opts := DefaultOptions()
	opts.FollowSymlinks = true

	done := make(chan []string, 1)
	go func() { done <- enumerate(t, root, opts) }()

	select {
	case files := <-done:
		if len(files) != 1 {
			t.Fatalf("expected exactly one file, got %v", files)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("enumeration did not terminate on a symlink cycle")
	}
}

func TestEnumerate_UnreadableDirectoryDropped(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ok.txt"), "ok")
	locked := filepath.Join(root, "locked")
	writeFile(t, filepath.Join(locked, "secret.txt"), "secret")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	progress := make(chan Progress, 100)
	files, err := NewLocalSource(logr.Discard()).Enumerate(context.Background(), root, DefaultOptions(), progress)
	if err != nil {
		t.Fatalf("expected unreadable directory to be skipped silently, got %v", err)
	}
	if len(files) != 1 || files[0] != filepath.Join(root, "ok.txt") {
		t.Fatalf("expected only ok.txt, got %v", files)
	}

	var last Progress
	for len(progress) > 0 {
		last = <-progress
	}
	if !last.Done {
		t.Fatal("expected final progress snapshot to be marked done")
	}
	if last.Errors != 1 {
		t.Fatalf("expected 1 dropped entry, got %d", last.Errors)
	}
}

func TestEnumerate_ProgressFinalSnapshot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "a")
	writeFile(t, filepath.Join(root, "b", "c.txt"), "c")

	progress := make(chan Progress, 100)
	if _, err := NewLocalSource(logr.Discard()).Enumerate(context.Background(), root, DefaultOptions(), progress); err != nil {
		t.Fatal(err)
	}

	var last Progress
	for len(progress) > 0 {
		last = <-progress
	}
	if !last.Done || last.FilesFound != 2 || last.DirsScanned != 2 {
		t.Fatalf("unexpected final progress: %+v", last)
	}
}
