package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownJob       = errors.New("unknown job")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrMissingAsset     = errors.New("missing asset")
	ErrRenderFailure    = errors.New("render failure")
	ErrEncodeFailure    = errors.New("encode failure")
	ErrConfig           = errors.New("configuration error")
	ErrScene            = errors.New("scene error")
)

// Wrap builds an error message that includes job context while tagging it with
// the provided marker for later classification. The marker should be one of
// the exported sentinel errors above.
func Wrap(marker error, job, operation, message string, err error) error {
	detail := buildDetail(job, operation, message)
	if marker == nil {
		marker = ErrScene
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitCode maps a pipeline error to the process exit status the CLI should
// return. Configuration-time faults exit 2, runtime faults exit 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch {
	case errors.Is(err, ErrConfig), errors.Is(err, ErrUnknownJob), errors.Is(err, ErrInvalidParameter):
		return 2
	default:
		return 1
	}
}

func buildDetail(job, operation, message string) string {
	parts := make([]string, 0, 3)
	if job = strings.TrimSpace(job); job != "" {
		parts = append(parts, job)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
