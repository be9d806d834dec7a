package job

import (
	"context"
	"log/slog"

	"pcbooth/internal/config"
	"pcbooth/internal/encoder"
	"pcbooth/internal/render"
	"pcbooth/internal/scene"
	"pcbooth/internal/studio"
)

// Env is the per-run wiring shared by every job: the engine binding, the
// configuration, output directories, and the logger. Jobs build their own
// transient renderer and encoder from it.
type Env struct {
	Engine        scene.Engine
	Config        *config.Config
	Logger        *slog.Logger
	RendersDir    string
	AnimationsDir string

	// EncoderOptions lets tests substitute the ffmpeg executor.
	EncoderOptions []encoder.Option
}

// NewRenderer builds the render wrapper a job owns for its execution window.
func (e *Env) NewRenderer() *render.Renderer {
	return render.New(e.Engine, e.Config, e.RendersDir, e.Logger)
}

// NewEncoder builds the video encoder a job owns for its execution window.
func (e *Env) NewEncoder() (*encoder.FFmpeg, error) {
	return encoder.New(e.Config, e.RendersDir, e.AnimationsDir, e.Logger, e.EncoderOptions...)
}

// Runtime binds one job instance to the pipeline's shared context. Studio is
// a job-local clone; adjusting its dimension slices never reaches the shared
// instance.
type Runtime struct {
	Env     *Env
	Studio  *studio.Studio
	Params  Params
	Tracker *Tracker
	Logger  *slog.Logger
}

// Job is one named unit of the render pipeline. Iterate computes the
// expected render total (revising it as the true count becomes known) and
// performs the cross-product loop invoking render and encode operations.
type Job interface {
	Name() string
	Iterate(ctx context.Context) error
}

// StudioOverrider is the optional capability of jobs that substitute their
// own studio dimensions, e.g. a transition forcing the transparent
// background. The override adjusts the runtime's job-local clone.
type StudioOverrider interface {
	OverrideStudio(ctx context.Context) error
}
