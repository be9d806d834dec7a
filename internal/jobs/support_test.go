package jobs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"pcbooth/internal/config"
	"pcbooth/internal/encoder"
	"pcbooth/internal/job"
	"pcbooth/internal/scene/scenetest"
	"pcbooth/internal/testsupport"
)

// errTest is the injected failure used by render-failure tests.
var errTest = errors.New("injected failure")

// ffmpegCall is one recorded executor invocation.
type ffmpegCall struct {
	Binary string
	Args   []string
}

// recordingExecutor captures ffmpeg invocations instead of running them.
type recordingExecutor struct {
	mu    sync.Mutex
	calls []ffmpegCall
}

func (r *recordingExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, ffmpegCall{Binary: binary, Args: append([]string(nil), args...)})
	return nil
}

func (r *recordingExecutor) Calls() []ffmpegCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ffmpegCall(nil), r.calls...)
}

// outputArgs collects the last argument before the trailing -y of each call,
// which is the output path.
func (r *recordingExecutor) Outputs() []string {
	var outputs []string
	for _, call := range r.Calls() {
		if len(call.Args) >= 2 && call.Args[len(call.Args)-1] == "-y" {
			outputs = append(outputs, call.Args[len(call.Args)-2])
		}
	}
	return outputs
}

// runNamed discovers a registered job, parses params against its schema, and
// executes it over a resolved studio.
func runNamed(t *testing.T, eng *scenetest.Engine, cfg *config.Config, name string, raw map[string]any, exec encoder.Executor) (job.Result, error) {
	t.Helper()

	reg, err := job.Discover(name)
	if err != nil {
		t.Fatalf("Discover(%s): %v", name, err)
	}
	params, err := job.ParseParams(reg.Name, raw, reg.Schema)
	if err != nil {
		t.Fatalf("ParseParams(%s): %v", name, err)
	}

	st := testsupport.ResolveStudio(t, eng, cfg, "board")
	if exec == nil {
		exec = testsupport.NopExecutor{}
	}
	env := testsupport.NewEnv(eng, cfg, encoder.WithExecutor(exec))
	rt := testsupport.NewRuntime(env, st, params)
	return job.Run(context.Background(), reg, rt)
}

// wantFile fails the test when the render output is missing.
func wantFile(t *testing.T, cfg *config.Config, name string) {
	t.Helper()
	path := filepath.Join(cfg.Settings.RenderDir, name)
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected render %s: %v", name, err)
	}
}

func wantNoFile(t *testing.T, cfg *config.Config, name string) {
	t.Helper()
	path := filepath.Join(cfg.Settings.RenderDir, name)
	if _, err := os.Stat(path); err == nil {
		t.Errorf("unexpected render %s", name)
	}
}
