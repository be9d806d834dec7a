package fileutil

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

func TestEnsureDir(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "renders", "masks", "covered")

	if err := EnsureDir(nested); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(nested)
	if err != nil {
		t.Fatal(err)
	}
	if !info.IsDir() {
		t.Fatalf("expected directory at %s", nested)
	}

	// Creating an existing directory is not an error.
	if err := EnsureDir(nested); err != nil {
		t.Fatal(err)
	}

	if err := EnsureDir("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "topT_paper_black.png")

	content := []byte("image bytes")
	if err := WriteFileAtomic(path, content); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}

	// Overwrite in place.
	if err := WriteFileAtomic(path, []byte("second")); err != nil {
		t.Fatal(err)
	}
	got, err = os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Fatalf("overwrite mismatch: got %q", got)
	}
}

func TestRemoveMatching(t *testing.T) {
	dir := t.TempDir()
	framePattern := regexp.MustCompile(`^.+_\d{4}\..+$`)

	keep := []string{"topT_paper_black.png", "notes.txt"}
	remove := []string{"topT_topB_0001.png", "topT_topB_0002.png", "isoT_black_0131.png"}
	for _, name := range append(append([]string{}, keep...), remove...) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "frames_0001.d"), 0o755); err != nil {
		t.Fatal(err)
	}

	n, err := RemoveMatching(dir, framePattern)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(remove) {
		t.Fatalf("removed %d files, want %d", n, len(remove))
	}

	for _, name := range keep {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s to survive: %v", name, err)
		}
	}
	for _, name := range remove {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Fatalf("expected %s to be removed", name)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "frames_0001.d")); err != nil {
		t.Fatalf("directories must not be removed: %v", err)
	}
}

func TestRemoveMatchingMissingDir(t *testing.T) {
	n, err := RemoveMatching(filepath.Join(t.TempDir(), "absent"), regexp.MustCompile(`.`))
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("expected 0 removals, got %d", n)
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"C12:cap_0603", "C12-cap_0603"},
		{"enclosure/rev2", "enclosure-rev2"},
		{"what?", "what"},
		{"  spaced  ", "spaced"},
		{"a<b>|c\"", "abc"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := SanitizeFileName(tc.in); got != tc.want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
