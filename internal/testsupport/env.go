package testsupport

import (
	"context"
	"testing"

	"pcbooth/internal/config"
	"pcbooth/internal/encoder"
	"pcbooth/internal/job"
	"pcbooth/internal/logging"
	"pcbooth/internal/scene"
	"pcbooth/internal/studio"
)

// ResolveStudio resolves the studio against a fake engine, failing the test
// on error.
func ResolveStudio(t testing.TB, eng scene.Engine, cfg *config.Config, project string) *studio.Studio {
	t.Helper()

	st, err := studio.Resolve(context.Background(), eng, cfg, project, logging.NewNop())
	if err != nil {
		t.Fatalf("studio.Resolve: %v", err)
	}
	return st
}

// NewEnv wires a job environment over the config's output directories with
// a silent logger and the given encoder options (usually a stub executor).
func NewEnv(eng scene.Engine, cfg *config.Config, opts ...encoder.Option) *job.Env {
	return &job.Env{
		Engine:         eng,
		Config:         cfg,
		Logger:         logging.NewNop(),
		RendersDir:     cfg.Settings.RenderDir,
		AnimationsDir:  cfg.Settings.AnimationDir,
		EncoderOptions: opts,
	}
}

// NewRuntime binds one job execution to a job-local studio clone.
func NewRuntime(env *job.Env, st *studio.Studio, params job.Params) *job.Runtime {
	return &job.Runtime{
		Env:     env,
		Studio:  st.Clone(),
		Params:  params,
		Tracker: job.NewTracker(logging.NewNop()),
		Logger:  logging.NewNop(),
	}
}

// NopExecutor is an encoder executor that records nothing and always
// succeeds, for jobs whose encode step is not under test.
type NopExecutor struct{}

// Run implements encoder.Executor.
func (NopExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) error {
	return nil
}
