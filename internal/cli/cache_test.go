package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCachePath(t *testing.T) {
	_, cacheHome := isolate(t)
	out, err := execute(t, "", "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	if want := filepath.Join(cacheHome, appName); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestCachePathFromConfig(t *testing.T) {
	configHome, _ := isolate(t)
	dir := filepath.Join(t.TempDir(), "charts")
	writeConfig(t, configHome, "[cache]\ndir = \""+filepath.ToSlash(dir)+"\"\n")

	out, err := execute(t, "", "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	if strings.TrimSpace(out) != filepath.ToSlash(dir) {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), dir)
	}
}

func TestCacheClearEmpty(t *testing.T) {
	isolate(t)
	if _, err := execute(t, "", "cache", "clear"); err != nil {
		t.Errorf("cache clear on missing dir: %v", err)
	}
}

func TestCacheClear(t *testing.T) {
	configHome, cacheHome := isolate(t)
	writeConfig(t, configHome, "[cache]\nbackend = \"file\"\n")

	if _, err := execute(t, barMessage, "render", "-o", "-"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	if countFiles(t, filepath.Join(cacheHome, appName)) == 0 {
		t.Fatal("render left no cache entries")
	}

	if _, err := execute(t, "", "cache", "clear"); err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	if n := countFiles(t, filepath.Join(cacheHome, appName)); n != 0 {
		t.Errorf("%d cache entries left after clear", n)
	}
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}
	return n
}
