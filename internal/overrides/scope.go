package overrides

import (
	"context"
	"errors"
)

// Scope collects the overrides a job acquired and releases them in reverse
// acquisition order. The zero value is ready to use.
type Scope struct {
	restores []Restore
}

// Acquire runs apply and tracks its restore. When apply fails, the overrides
// acquired so far are released before the error is returned, so a job that
// aborts mid-setup leaves no global state behind.
func (s *Scope) Acquire(ctx context.Context, apply func(ctx context.Context) (Restore, error)) error {
	restore, err := apply(ctx)
	if err != nil {
		return errors.Join(err, s.Release(ctx))
	}
	s.restores = append(s.restores, restore)
	return nil
}

// Release restores every tracked override, last acquired first. Each restore
// runs even when an earlier one fails; failures are joined. The scope is
// empty afterwards and may be reused.
func (s *Scope) Release(ctx context.Context) error {
	var errs []error
	for i := len(s.restores) - 1; i >= 0; i-- {
		if err := s.restores[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.restores = nil
	return errors.Join(errs...)
}

// Len reports how many overrides the scope currently holds.
func (s *Scope) Len() int {
	return len(s.restores)
}
