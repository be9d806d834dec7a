package job

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"pcbooth/internal/errs"
	"pcbooth/internal/logging"
)

// Result is the executor's account of one job run.
type Result struct {
	Status  Status
	Renders int
	Total   int
}

// Run executes one job: PENDING becomes RUNNING on entry, the studio
// override (when the job implements it) adjusts the job-local clone, the run
// summary is reported, and Iterate performs the work. Empty dimensions
// complete with zero renders. On failure the job is marked FAILED and the
// error propagates after the job's deferred override releases have run;
// keyframes added by the job are cleared on every exit path so the next job
// starts from a clean scene.
func Run(ctx context.Context, reg *Registration, rt *Runtime) (Result, error) {
	ctx = errs.WithJob(ctx, reg.Name)
	logger := logging.NewComponentLogger(rt.Logger, "job").With(
		logging.String(logging.FieldJob, reg.Name))
	rt.Logger = logger
	if rt.Tracker == nil {
		rt.Tracker = NewTracker(logger)
	}

	result := Result{Status: StatusRunning}
	logger.Info("job started")

	j := reg.New(rt)
	if overrider, ok := j.(StudioOverrider); ok {
		if err := overrider.OverrideStudio(ctx); err != nil {
			result.Status = StatusFailed
			return result, fmt.Errorf("job %s: override studio: %w", reg.Name, err)
		}
		logger.Warn("configured studio dimensions overridden for this job")
	}
	if err := rt.Studio.SetDefaultFrames(ctx); err != nil {
		result.Status = StatusFailed
		return result, fmt.Errorf("job %s: %w", reg.Name, err)
	}

	err := func() error {
		if !reportSummary(logger, rt) {
			logger.Warn("nothing to render within this job")
			return nil
		}
		return j.Iterate(ctx)
	}()

	// The job's keyframes must not leak into the next job. Clearing uses a
	// fresh context so a cancelled run still leaves the scene clean.
	if clearErr := rt.Env.Engine.ClearAnimation(context.WithoutCancel(ctx)); clearErr != nil && err == nil {
		err = errs.Wrap(errs.ErrScene, reg.Name, "clear animation", "", clearErr)
	}

	result.Renders = rt.Tracker.Done()
	result.Total = rt.Tracker.Total()
	if err != nil {
		result.Status = StatusFailed
		logger.Error("job failed",
			logging.Int("renders", result.Renders),
			logging.Error(err))
		return result, fmt.Errorf("job %s: %w", reg.Name, err)
	}

	result.Status = StatusCompleted
	logger.Info("job completed", logging.Int("renders", result.Renders))
	return result, nil
}

// reportSummary logs the enabled dimensions and parameters and reports
// whether the job has anything to iterate over.
func reportSummary(logger *slog.Logger, rt *Runtime) bool {
	cameras := make([]string, 0, len(rt.Studio.Cameras))
	for _, camera := range rt.Studio.Cameras {
		cameras = append(cameras, camera.Name)
	}
	backgrounds := make([]string, 0, len(rt.Studio.Backgrounds))
	for _, background := range rt.Studio.Backgrounds {
		backgrounds = append(backgrounds, background.Name)
	}
	positions := make([]string, 0, len(rt.Studio.Positions))
	for _, position := range rt.Studio.Positions {
		positions = append(positions, string(position))
	}

	logger.Info("run summary",
		logging.String("cameras", strings.Join(cameras, ", ")),
		logging.String("backgrounds", strings.Join(backgrounds, ", ")),
		logging.String("positions", strings.Join(positions, ", ")),
		logging.String("parameters", rt.Params.Summary()))

	return len(cameras) > 0 && len(backgrounds) > 0 && len(positions) > 0
}
