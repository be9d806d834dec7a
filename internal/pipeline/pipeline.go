package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"pcbooth/internal/config"
	"pcbooth/internal/errs"
	"pcbooth/internal/fileutil"
	"pcbooth/internal/job"
	"pcbooth/internal/ledger"
	"pcbooth/internal/logging"
	"pcbooth/internal/studio"
)

// lockName is the advisory lock file guarding the render directory against
// a second pcbooth process interleaving renders into the same tree.
const lockName = ".pcbooth.lock"

// Deps carries the resolved run context the driver binds jobs to.
type Deps struct {
	Env    *job.Env
	Studio *studio.Studio

	// Ledger is optional; nil disables run history.
	Ledger *ledger.Ledger

	// Project is the scene file stem; ScenePath its full path, used when
	// the configuration asks for the modified scene to be saved.
	Project   string
	ScenePath string
	Preset    string

	Logger *slog.Logger
}

// JobReport is the driver's account of one configured job.
type JobReport struct {
	Name    string
	Status  job.Status
	Renders int
	Total   int
	Elapsed time.Duration
	Err     error
}

// RunReport summarizes one pipeline run.
type RunReport struct {
	RunID   string
	Jobs    []JobReport
	Elapsed time.Duration
}

// Renders sums the renders of every executed job.
func (r *RunReport) Renders() int {
	total := 0
	for _, jobReport := range r.Jobs {
		total += jobReport.Renders
	}
	return total
}

type resolvedEntry struct {
	reg    *job.Registration
	params job.Params
}

// Run validates and executes the configured job list. Validation is eager:
// every name is discovered and every parameter set parsed before the first
// job renders anything. Execution is sequential and halts on the first
// failure; the returned report covers the jobs that ran.
func Run(ctx context.Context, deps *Deps, entries []config.JobEntry) (*RunReport, error) {
	logger := logging.NewComponentLogger(deps.Logger, "pipeline")
	report := &RunReport{}
	started := time.Now()

	resolved, err := resolveEntries(entries)
	if err != nil {
		return report, err
	}
	if len(resolved) == 0 {
		logger.Warn("no outputs configured, nothing to do")
		return report, nil
	}

	unlock, err := lockRenderDir(deps.Env.RendersDir)
	if err != nil {
		return report, err
	}
	defer unlock()

	runID := beginLedgerRun(ctx, deps, logger)
	if runID != "" {
		report.RunID = runID
		ctx = errs.WithRunID(ctx, runID)
		logger = logger.With(logging.String(logging.FieldRunID, runID))
	}

	var runErr error
	for seq, entry := range resolved {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		jobStarted := time.Now()
		rt := &job.Runtime{
			Env:    deps.Env,
			Studio: deps.Studio.Clone(),
			Params: entry.params,
			Logger: deps.Logger,
		}
		result, err := job.Run(ctx, entry.reg, rt)
		jobReport := JobReport{
			Name:    entry.reg.Name,
			Status:  result.Status,
			Renders: result.Renders,
			Total:   result.Total,
			Elapsed: time.Since(jobStarted),
			Err:     err,
		}
		report.Jobs = append(report.Jobs, jobReport)
		recordLedgerJob(ctx, deps, logger, runID, seq, jobStarted, jobReport)
		if err != nil {
			runErr = err
		}
	}

	finishLedgerRun(ctx, deps, logger, runID, runErr)

	if runErr == nil && deps.Env.Config.Settings.SaveScene && deps.ScenePath != "" {
		if err := deps.Env.Engine.SaveScene(ctx, deps.ScenePath); err != nil {
			runErr = errs.Wrap(errs.ErrScene, "", "save scene", deps.ScenePath, err)
		} else {
			logger.Info("saved modified scene", logging.String(logging.FieldOutput, deps.ScenePath))
		}
	}

	report.Elapsed = time.Since(started)
	logger.Info("pipeline finished",
		logging.Int("jobs", len(report.Jobs)),
		logging.Int("renders", report.Renders()),
		logging.Duration("elapsed", report.Elapsed),
		logging.Bool("failed", runErr != nil))
	return report, runErr
}

// resolveEntries performs the eager validation phase: every configured name
// must discover and every parameter set must parse before anything runs.
func resolveEntries(entries []config.JobEntry) ([]resolvedEntry, error) {
	resolved := make([]resolvedEntry, 0, len(entries))
	for _, entry := range entries {
		reg, err := job.Discover(entry.Name)
		if err != nil {
			return nil, err
		}
		params, err := job.ParseParams(reg.Name, entry.Params, reg.Schema)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, resolvedEntry{reg: reg, params: params})
	}
	return resolved, nil
}

// lockRenderDir takes the advisory lock guarding the render tree.
func lockRenderDir(rendersDir string) (func(), error) {
	if err := fileutil.EnsureDir(rendersDir); err != nil {
		return nil, fmt.Errorf("prepare render directory: %w", err)
	}
	lock := flock.New(filepath.Join(rendersDir, lockName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire render lock: %w", err)
	}
	if !ok {
		return nil, errors.New("another pcbooth process is rendering into this directory")
	}
	return func() { _ = lock.Unlock() }, nil
}

// Ledger bookkeeping never fails a run; rendering is the product, history
// is a convenience.

func beginLedgerRun(ctx context.Context, deps *Deps, logger *slog.Logger) string {
	if deps.Ledger == nil {
		return ""
	}
	runID, err := deps.Ledger.BeginRun(ctx, deps.Project, deps.Preset)
	if err != nil {
		logger.Warn("run history unavailable", logging.Error(err))
		return ""
	}
	return runID
}

func recordLedgerJob(ctx context.Context, deps *Deps, logger *slog.Logger, runID string, seq int, startedAt time.Time, jobReport JobReport) {
	if deps.Ledger == nil || runID == "" {
		return
	}
	finished := time.Now()
	record := ledger.JobRecord{
		RunID:      runID,
		Seq:        seq,
		Name:       jobReport.Name,
		Status:     string(jobReport.Status),
		Renders:    jobReport.Renders,
		Total:      jobReport.Total,
		StartedAt:  startedAt,
		FinishedAt: &finished,
	}
	if jobReport.Err != nil {
		record.Error = jobReport.Err.Error()
	}
	if err := deps.Ledger.RecordJob(context.WithoutCancel(ctx), record); err != nil {
		logger.Warn("failed to record job history", logging.Error(err))
	}
}

func finishLedgerRun(ctx context.Context, deps *Deps, logger *slog.Logger, runID string, runErr error) {
	if deps.Ledger == nil || runID == "" {
		return
	}
	status := ledger.RunCompleted
	message := ""
	if runErr != nil {
		status = ledger.RunFailed
		message = runErr.Error()
	}
	if err := deps.Ledger.FinishRun(context.WithoutCancel(ctx), runID, status, message); err != nil {
		logger.Warn("failed to record run history", logging.Error(err))
	}
}
