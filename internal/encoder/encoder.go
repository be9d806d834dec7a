package encoder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"pcbooth/internal/config"
	"pcbooth/internal/errs"
	"pcbooth/internal/fileutil"
	"pcbooth/internal/logging"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onLine func(string)) error
}

// Option configures the encoder.
type Option func(*FFmpeg)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(f *FFmpeg) {
		if exec != nil {
			f.exec = exec
		}
	}
}

// Codec arguments per container. Order is part of the command line.
var formatArguments = map[string][]string{
	"WEBM": {"-c:v", "libvpx-vp9", "-pix_fmt", "yuva420p", "-b:v", "5M"},
	"MP4":  {"-c:v", "libx264", "-pix_fmt", "yuv420p", "-b:v", "5M", "-movflags", "+faststart"},
	"MPEG": {"-c:v", "mpeg2video", "-pix_fmt", "yuv420p", "-b:v", "5M"},
	"AVI":  {"-c:v", "libx264", "-pix_fmt", "yuv420p", "-b:v", "5M"},
	"GIF":  {},
}

// framePattern matches the numbered frame files renders produce, e.g.
// topT_black_animation_0001.png.
var framePattern = regexp.MustCompile(`^.+_\d{4}\..+$`)

// FFmpeg sequences numbered PNG frames from the renders directory into the
// configured video containers under the animations directory.
type FFmpeg struct {
	binary        string
	formats       []string
	fps           int
	width         int
	height        int
	thumbnails    bool
	thumbWidth    int
	thumbHeight   int
	rendersDir    string
	animationsDir string
	keepFrames    bool

	exec   Executor
	logger *slog.Logger
}

// New constructs an FFmpeg encoder from the renderer configuration.
func New(cfg *config.Config, rendersDir, animationsDir string, logger *slog.Logger, opts ...Option) (*FFmpeg, error) {
	binary := strings.TrimSpace(cfg.Renderer.FFmpegBinary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	for _, format := range cfg.Settings.VideoFormats {
		if _, ok := formatArguments[format]; !ok {
			return nil, fmt.Errorf("unsupported video format %q", format)
		}
	}

	f := &FFmpeg{
		binary:        binary,
		formats:       append([]string(nil), cfg.Settings.VideoFormats...),
		fps:           cfg.Renderer.FPS,
		width:         cfg.Renderer.VideoWidth,
		height:        cfg.Renderer.VideoHeight,
		thumbnails:    cfg.Settings.Thumbnails,
		thumbWidth:    cfg.Renderer.ThumbnailWidth,
		thumbHeight:   cfg.Renderer.ThumbnailHeight,
		rendersDir:    rendersDir,
		animationsDir: animationsDir,
		keepFrames:    cfg.Settings.KeepFrames,
		exec:          commandExecutor{},
		logger:        logging.NewComponentLogger(logger, "encoder"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Sequence assembles <rendersDir>/<base>_%04d.png into one video per
// configured format named <animationsDir>/<output>.<ext>.
func (f *FFmpeg) Sequence(ctx context.Context, base, output string) error {
	for _, format := range f.formats {
		input := []string{
			"-i", filepath.Join(f.rendersDir, base+"_%04d.png"),
			"-framerate", strconv.Itoa(f.fps),
			"-s", fmt.Sprintf("%dx%d", f.width, f.height),
		}
		if err := f.run(ctx, format, input, output, ""); err != nil {
			return errs.Wrap(errs.ErrEncodeFailure, "", "sequence", output, err)
		}
	}
	return nil
}

// Reverse writes a reversed copy of an already sequenced video.
func (f *FFmpeg) Reverse(ctx context.Context, input, output string) error {
	for _, format := range f.formats {
		args := []string{
			"-i", f.videoPath(input, "", format),
			"-vf", "reverse",
		}
		if err := f.run(ctx, format, args, output, ""); err != nil {
			return errs.Wrap(errs.ErrEncodeFailure, "", "reverse", output, err)
		}
	}
	return nil
}

// Thumbnail writes a scaled-down <output>_thumbnail copy of a sequenced
// video. A no-op when thumbnails are disabled.
func (f *FFmpeg) Thumbnail(ctx context.Context, input, output string) error {
	if !f.thumbnails {
		return nil
	}
	for _, format := range f.formats {
		args := []string{
			"-i", f.videoPath(input, "", format),
			"-vf", fmt.Sprintf("scale=%d:%d", f.thumbWidth, f.thumbHeight),
		}
		if err := f.run(ctx, format, args, output, "_thumbnail"); err != nil {
			return errs.Wrap(errs.ErrEncodeFailure, "", "thumbnail", output, err)
		}
	}
	return nil
}

// ClearFrames removes the numbered frame files left behind by sequencing,
// unless frames are configured to be kept.
func (f *FFmpeg) ClearFrames() error {
	if f.keepFrames {
		return nil
	}
	removed, err := fileutil.RemoveMatching(f.rendersDir, framePattern)
	if err != nil {
		return fmt.Errorf("clear frames: %w", err)
	}
	if removed > 0 {
		f.logger.Debug("removed frame files", logging.Int("count", removed))
	}
	return nil
}

func (f *FFmpeg) run(ctx context.Context, format string, input []string, output, suffix string) error {
	outputPath := f.videoPath(output, suffix, format)
	if err := fileutil.EnsureDir(filepath.Dir(outputPath)); err != nil {
		return err
	}

	args := append(append(input, formatArguments[format]...), outputPath, "-y")
	if err := f.exec.Run(ctx, f.binary, args, func(line string) {
		f.logger.Debug("ffmpeg", logging.String("line", line))
	}); err != nil {
		return fmt.Errorf("%s %s: %w", f.binary, format, err)
	}

	f.logger.Info("sequenced video", logging.String(logging.FieldOutput, outputPath))
	return nil
}

func (f *FFmpeg) videoPath(name, suffix, format string) string {
	return filepath.Join(f.animationsDir, name+suffix+"."+strings.ToLower(format))
}
