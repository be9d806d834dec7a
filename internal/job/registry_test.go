package job

import (
	"context"
	"errors"
	"testing"

	"pcbooth/internal/errs"
)

type nopJob struct{ name string }

func (j nopJob) Name() string                      { return j.name }
func (j nopJob) Iterate(ctx context.Context) error { return nil }

func TestRegisterAndDiscover(t *testing.T) {
	Register("test_discover", nil, func(rt *Runtime) Job { return nopJob{name: "TEST_DISCOVER"} })

	reg, err := Discover("Test_Discover")
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if reg.Name != "TEST_DISCOVER" {
		t.Errorf("expected upper-cased name, got %s", reg.Name)
	}

	if _, err := Discover("  test_discover  "); err != nil {
		t.Errorf("expected trimmed lookup to succeed: %v", err)
	}
}

func TestDiscoverUnknown(t *testing.T) {
	_, err := Discover("NO_SUCH_JOB")
	if err == nil {
		t.Fatal("expected error for unregistered name")
	}
	if !errors.Is(err, errs.ErrUnknownJob) {
		t.Fatalf("expected ErrUnknownJob, got %v", err)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("test_duplicate", nil, func(rt *Runtime) Job { return nopJob{} })
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	Register("TEST_DUPLICATE", nil, func(rt *Runtime) Job { return nopJob{} })
}

func TestRegisteredSorted(t *testing.T) {
	Register("test_sorted_b", nil, func(rt *Runtime) Job { return nopJob{} })
	Register("test_sorted_a", nil, func(rt *Runtime) Job { return nopJob{} })

	regs := Registered()
	if len(regs) < 2 {
		t.Fatalf("expected at least 2 registrations, got %d", len(regs))
	}
	for i := 1; i < len(regs); i++ {
		if regs[i-1].Name >= regs[i].Name {
			t.Fatalf("registrations not sorted: %s before %s", regs[i-1].Name, regs[i].Name)
		}
	}
}
