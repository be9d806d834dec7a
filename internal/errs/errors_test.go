package errs_test

import (
	"errors"
	"strings"
	"testing"

	"pcbooth/internal/errs"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := errs.Wrap(errs.ErrRenderFailure, "STATIC", "render", "cache decode failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, errs.ErrRenderFailure) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"STATIC", "render", "cache decode failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapNilMarkerDefaultsToScene(t *testing.T) {
	err := errs.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, errs.ErrScene) {
		t.Fatalf("expected scene marker fallback, got %v", err)
	}
	if !strings.Contains(err.Error(), "pipeline failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestExitCodeMapping(t *testing.T) {
	if code := errs.ExitCode(nil); code != 0 {
		t.Fatalf("expected 0 for nil error, got %d", code)
	}

	usage := errs.Wrap(errs.ErrUnknownJob, "", "discover", "no implementation for BOGUS", nil)
	if code := errs.ExitCode(usage); code != 2 {
		t.Fatalf("expected 2 for unknown job, got %d", code)
	}

	param := errs.Wrap(errs.ErrInvalidParameter, "STATIC", "parse", "FRAMES", nil)
	if code := errs.ExitCode(param); code != 2 {
		t.Fatalf("expected 2 for invalid parameter, got %d", code)
	}

	render := errs.Wrap(errs.ErrRenderFailure, "STATIC", "render", "engine exited", errors.New("io"))
	if code := errs.ExitCode(render); code != 1 {
		t.Fatalf("expected 1 for render failure, got %d", code)
	}
}
