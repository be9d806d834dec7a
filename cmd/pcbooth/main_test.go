package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, dir string, extra string) string {
	t.Helper()
	content := "[settings]\nrender_dir = " + tomlString(filepath.Join(dir, "renders")) + "\n" +
		"animation_dir = " + tomlString(filepath.Join(dir, "previews")) + "\n" +
		"[ledger]\npath = " + tomlString(filepath.Join(dir, "history.db")) + "\n" +
		extra
	path := filepath.Join(dir, "booth.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func tomlString(value string) string {
	return "\"" + strings.ReplaceAll(value, "\\", "\\\\") + "\""
}

func makeStubExecutables(t *testing.T, dir string, names ...string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create stub bin dir: %v", err)
	}
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
			t.Fatalf("write stub %s: %v", name, err)
		}
	}
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("expected output to contain %q, got:\n%s", want, output)
	}
}

func TestCLIConfigInit(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "nested", "config.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected second init without --overwrite to fail")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestCLIConfigShow(t *testing.T) {
	tmp := t.TempDir()
	configPath := writeTestConfig(t, tmp, "")

	out, _, err := runCLI(t, []string{"config", "show"}, configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, configPath)
	requireContains(t, out, "render_dir")
	requireContains(t, out, "bridge_binary")
}

func TestCLIConfigValidate(t *testing.T) {
	tmp := t.TempDir()
	configPath := writeTestConfig(t, tmp, "")

	stubDir := filepath.Join(tmp, "bin")
	makeStubExecutables(t, stubDir, "pcbooth-bridge", "ffmpeg")
	t.Setenv("PATH", stubDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	out, _, err := runCLI(t, []string{"config", "validate"}, configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Config path: "+configPath)
	requireContains(t, out, "Configuration valid")
}

func TestCLIConfigValidateMissingBinaries(t *testing.T) {
	tmp := t.TempDir()
	configPath := writeTestConfig(t, tmp, "[renderer]\nbridge_binary = \"definitely-not-a-real-binary\"\n")

	_, _, err := runCLI(t, []string{"config", "validate"}, configPath)
	if err == nil {
		t.Fatal("expected validate to fail when the bridge binary is missing")
	}
}

func TestCLIJobsListsCatalog(t *testing.T) {
	out, _, err := runCLI(t, []string{"jobs"}, "")
	if err != nil {
		t.Fatalf("jobs: %v", err)
	}
	for _, name := range []string{"STATIC", "ANIMATION", "FLIP_TRANSITION", "CAMERA_TRANSITION", "MASKS", "HIGHLIGHTS", "STACKUP"} {
		requireContains(t, out, name)
	}
}

func TestCLIJobsJSON(t *testing.T) {
	out, _, err := runCLI(t, []string{"jobs", "--json"}, "")
	if err != nil {
		t.Fatalf("jobs --json: %v", err)
	}
	requireContains(t, out, `"name": "STATIC"`)
	requireContains(t, out, `"parameters"`)
}

func TestCLIHistoryEmptyLedger(t *testing.T) {
	tmp := t.TempDir()
	configPath := writeTestConfig(t, tmp, "")

	out, _, err := runCLI(t, []string{"history"}, configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "Run")

	if _, err := os.Stat(filepath.Join(tmp, "history.db")); err != nil {
		t.Fatalf("expected ledger database to be created: %v", err)
	}
}

func TestCLIVersion(t *testing.T) {
	out, _, err := runCLI(t, []string{"version"}, "")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	requireContains(t, out, "pcbooth ")
}

func TestCLIRenderRejectsUnknownJob(t *testing.T) {
	tmp := t.TempDir()
	configPath := writeTestConfig(t, tmp, "")
	scenePath := filepath.Join(tmp, "board.blend")
	if err := os.WriteFile(scenePath, []byte("scene"), 0o644); err != nil {
		t.Fatalf("write scene stub: %v", err)
	}

	_, _, err := runCLI(t, []string{"render", scenePath, "--job", "NO_SUCH_JOB"}, configPath)
	if err == nil {
		t.Fatal("expected unknown --job to fail before any engine work")
	}
}

func TestProjectName(t *testing.T) {
	tmp := t.TempDir()
	scenePath := filepath.Join(tmp, "widget.blend")

	if got := projectName(scenePath, ".kicad_pro"); got != "widget" {
		t.Fatalf("expected scene stem fallback, got %q", got)
	}

	if err := os.WriteFile(filepath.Join(tmp, "mainboard.kicad_pro"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write project file: %v", err)
	}
	if got := projectName(scenePath, ".kicad_pro"); got != "mainboard" {
		t.Fatalf("expected project file stem, got %q", got)
	}
}
