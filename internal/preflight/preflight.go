package preflight

import (
	"context"

	"pcbooth/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all filesystem preflight checks for the given config and
// scene file. Binary checks live in CheckSystemDeps so the CLI can render
// them separately.
func RunAll(ctx context.Context, cfg *config.Config, scenePath string) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	if scenePath != "" {
		results = append(results, CheckSceneFile("Scene file", scenePath))
	}

	results = append(results, CheckOutputDir("Render directory", cfg.Settings.RenderDir))
	if cfg.Settings.AnimationDir != cfg.Settings.RenderDir {
		results = append(results, CheckOutputDir("Animation directory", cfg.Settings.AnimationDir))
	}

	results = append(results, CheckDiskSpace("Free disk space", cfg.Settings.RenderDir))

	return results
}

// Failed returns the subset of results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, res := range results {
		if !res.Passed {
			failed = append(failed, res)
		}
	}
	return failed
}
