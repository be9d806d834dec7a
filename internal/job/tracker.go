package job

import (
	"log/slog"

	"pcbooth/internal/logging"
)

// Tracker reports render progress for one job. The total may be revised as
// the true count becomes known mid-run; advancing past the current total is
// reported as an anomaly but never fails the job.
type Tracker struct {
	logger *slog.Logger
	done   int
	total  int
}

// NewTracker builds a tracker logging through logger.
func NewTracker(logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Tracker{logger: logger}
}

// SetTotal (re)sets the progress denominator.
func (t *Tracker) SetTotal(total int) {
	t.total = total
	t.logger.Info("total renders", logging.Int("total", total))
}

// Advance increments the numerator and emits a progress line.
func (t *Tracker) Advance() {
	t.done++
	if t.total > 0 && t.done > t.total {
		t.logger.Warn("progress exceeded expected total",
			logging.Alert("progress_overflow"),
			logging.Int("done", t.done),
			logging.Int("total", t.total))
	}
	percent := 0
	if t.total > 0 {
		percent = t.done * 100 / t.total
	}
	t.logger.Info("progress",
		logging.Int("done", t.done),
		logging.Int("total", t.total),
		logging.Int("pct", percent))
}

// Done returns the current numerator.
func (t *Tracker) Done() int {
	return t.done
}

// Total returns the current denominator.
func (t *Tracker) Total() int {
	return t.total
}
