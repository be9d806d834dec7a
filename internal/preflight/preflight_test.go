package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"pcbooth/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckOutputDir_CreatesMissing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "renders", "nested")
	result := CheckOutputDir("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass after creating dir, got: %s", result.Detail)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("expected directory to exist: %v", err)
	}
}

func TestCheckOutputDir_NotConfigured(t *testing.T) {
	result := CheckOutputDir("test", "")
	if result.Passed {
		t.Fatal("expected failure for empty path")
	}
}

func TestCheckSceneFile_OK(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.scene")
	if err := os.WriteFile(path, []byte("scene"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckSceneFile("test", path)
	if !result.Passed {
		t.Fatalf("expected pass for readable file, got: %s", result.Detail)
	}
}

func TestCheckSceneFile_NotExist(t *testing.T) {
	result := CheckSceneFile("test", filepath.Join(t.TempDir(), "missing.scene"))
	if result.Passed {
		t.Fatal("expected failure for missing scene")
	}
}

func TestCheckSceneFile_Directory(t *testing.T) {
	result := CheckSceneFile("test", t.TempDir())
	if result.Passed {
		t.Fatal("expected failure for directory path")
	}
}

func TestCheckDiskSpace_OK(t *testing.T) {
	result := CheckDiskSpace("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil, "")
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Settings.RenderDir = filepath.Join(t.TempDir(), "renders")
	cfg.Settings.AnimationDir = cfg.Settings.RenderDir

	results := RunAll(context.Background(), &cfg, "")
	// Render directory + disk space; animation dir merged with render dir.
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
}

func TestRunAll_IncludesSceneWhenGiven(t *testing.T) {
	scene := filepath.Join(t.TempDir(), "board.scene")
	if err := os.WriteFile(scene, []byte("scene"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Settings.RenderDir = filepath.Join(t.TempDir(), "renders")
	cfg.Settings.AnimationDir = filepath.Join(t.TempDir(), "animations")

	results := RunAll(context.Background(), &cfg, scene)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if results[0].Name != "Scene file" || !results[0].Passed {
		t.Fatalf("expected scene check to pass, got %#v", results[0])
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("expected no failures, got %#v", failed)
	}
}

func TestFailed(t *testing.T) {
	results := []Result{
		{Name: "a", Passed: true},
		{Name: "b"},
		{Name: "c", Passed: true},
	}
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "b" {
		t.Fatalf("unexpected failed set: %#v", failed)
	}
}
