package encoder_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"pcbooth/internal/config"
	"pcbooth/internal/encoder"
	"pcbooth/internal/errs"
	"pcbooth/internal/logging"
)

type call struct {
	binary string
	args   []string
}

type stubExecutor struct {
	calls []call
	err   error
	lines []string
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) error {
	s.calls = append(s.calls, call{binary: binary, args: append([]string(nil), args...)})
	for _, line := range s.lines {
		if onLine != nil {
			onLine(line)
		}
	}
	return s.err
}

func newEncoder(t *testing.T, stub *stubExecutor, mutate func(*config.Config)) (*encoder.FFmpeg, string, string) {
	t.Helper()
	cfg := config.Default()
	cfg.Settings.VideoFormats = []string{"MP4"}
	if mutate != nil {
		mutate(&cfg)
	}

	rendersDir := t.TempDir()
	animationsDir := t.TempDir()
	enc, err := encoder.New(&cfg, rendersDir, animationsDir, logging.NewNop(), encoder.WithExecutor(stub))
	if err != nil {
		t.Fatalf("new encoder: %v", err)
	}
	return enc, rendersDir, animationsDir
}

func TestSequenceBuildsCommandPerFormat(t *testing.T) {
	stub := &stubExecutor{}
	enc, rendersDir, animationsDir := newEncoder(t, stub, func(cfg *config.Config) {
		cfg.Settings.VideoFormats = []string{"MP4", "WEBM"}
	})

	if err := enc.Sequence(context.Background(), "topT_black_animation", "topT_black_animation"); err != nil {
		t.Fatalf("sequence: %v", err)
	}
	if len(stub.calls) != 2 {
		t.Fatalf("expected one invocation per format, got %d", len(stub.calls))
	}
	if stub.calls[0].binary != "ffmpeg" {
		t.Fatalf("unexpected binary %q", stub.calls[0].binary)
	}

	wantMP4 := []string{
		"-i", filepath.Join(rendersDir, "topT_black_animation_%04d.png"),
		"-framerate", "25",
		"-s", "1920x1080",
		"-c:v", "libx264", "-pix_fmt", "yuv420p", "-b:v", "5M", "-movflags", "+faststart",
		filepath.Join(animationsDir, "topT_black_animation.mp4"),
		"-y",
	}
	if !reflect.DeepEqual(stub.calls[0].args, wantMP4) {
		t.Fatalf("mp4 args mismatch:\n got %q\nwant %q", stub.calls[0].args, wantMP4)
	}

	wantWEBM := []string{
		"-i", filepath.Join(rendersDir, "topT_black_animation_%04d.png"),
		"-framerate", "25",
		"-s", "1920x1080",
		"-c:v", "libvpx-vp9", "-pix_fmt", "yuva420p", "-b:v", "5M",
		filepath.Join(animationsDir, "topT_black_animation.webm"),
		"-y",
	}
	if !reflect.DeepEqual(stub.calls[1].args, wantWEBM) {
		t.Fatalf("webm args mismatch:\n got %q\nwant %q", stub.calls[1].args, wantWEBM)
	}
}

func TestSequenceGIFHasNoCodecArguments(t *testing.T) {
	stub := &stubExecutor{}
	enc, rendersDir, animationsDir := newEncoder(t, stub, func(cfg *config.Config) {
		cfg.Settings.VideoFormats = []string{"GIF"}
	})

	if err := enc.Sequence(context.Background(), "photo1T_black", "photo1T_black"); err != nil {
		t.Fatalf("sequence: %v", err)
	}
	want := []string{
		"-i", filepath.Join(rendersDir, "photo1T_black_%04d.png"),
		"-framerate", "25",
		"-s", "1920x1080",
		filepath.Join(animationsDir, "photo1T_black.gif"),
		"-y",
	}
	if !reflect.DeepEqual(stub.calls[0].args, want) {
		t.Fatalf("gif args mismatch:\n got %q\nwant %q", stub.calls[0].args, want)
	}
}

func TestReverseAppliesReverseFilter(t *testing.T) {
	stub := &stubExecutor{}
	enc, _, animationsDir := newEncoder(t, stub, nil)

	if err := enc.Reverse(context.Background(), "front1_top1", "top1_front1"); err != nil {
		t.Fatalf("reverse: %v", err)
	}
	want := []string{
		"-i", filepath.Join(animationsDir, "front1_top1.mp4"),
		"-vf", "reverse",
		"-c:v", "libx264", "-pix_fmt", "yuv420p", "-b:v", "5M", "-movflags", "+faststart",
		filepath.Join(animationsDir, "top1_front1.mp4"),
		"-y",
	}
	if !reflect.DeepEqual(stub.calls[0].args, want) {
		t.Fatalf("reverse args mismatch:\n got %q\nwant %q", stub.calls[0].args, want)
	}
}

func TestThumbnailScalesSequencedVideo(t *testing.T) {
	stub := &stubExecutor{}
	enc, _, animationsDir := newEncoder(t, stub, func(cfg *config.Config) {
		cfg.Settings.Thumbnails = true
	})

	if err := enc.Thumbnail(context.Background(), "topT_black_animation", "topT_black_animation"); err != nil {
		t.Fatalf("thumbnail: %v", err)
	}
	want := []string{
		"-i", filepath.Join(animationsDir, "topT_black_animation.mp4"),
		"-vf", "scale=512:288",
		"-c:v", "libx264", "-pix_fmt", "yuv420p", "-b:v", "5M", "-movflags", "+faststart",
		filepath.Join(animationsDir, "topT_black_animation_thumbnail.mp4"),
		"-y",
	}
	if !reflect.DeepEqual(stub.calls[0].args, want) {
		t.Fatalf("thumbnail args mismatch:\n got %q\nwant %q", stub.calls[0].args, want)
	}
}

func TestThumbnailDisabledSkipsExecution(t *testing.T) {
	stub := &stubExecutor{}
	enc, _, _ := newEncoder(t, stub, nil)

	if err := enc.Thumbnail(context.Background(), "in", "out"); err != nil {
		t.Fatalf("thumbnail: %v", err)
	}
	if len(stub.calls) != 0 {
		t.Fatalf("expected no ffmpeg invocations, got %d", len(stub.calls))
	}
}

func TestSequenceFailureIsClassified(t *testing.T) {
	stub := &stubExecutor{err: errors.New("exit status 1")}
	enc, _, _ := newEncoder(t, stub, nil)

	err := enc.Sequence(context.Background(), "base", "out")
	if !errors.Is(err, errs.ErrEncodeFailure) {
		t.Fatalf("expected encode failure classification, got %v", err)
	}
	if code := errs.ExitCode(err); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
}

func TestClearFramesRemovesNumberedFrames(t *testing.T) {
	stub := &stubExecutor{}
	enc, rendersDir, _ := newEncoder(t, stub, nil)

	for _, name := range []string{
		"topT_black_animation_0001.png",
		"topT_black_animation_0002.png",
		"topT_black.png",
	} {
		if err := os.WriteFile(filepath.Join(rendersDir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	if err := enc.ClearFrames(); err != nil {
		t.Fatalf("clear frames: %v", err)
	}
	if _, err := os.Stat(filepath.Join(rendersDir, "topT_black_animation_0001.png")); !os.IsNotExist(err) {
		t.Fatalf("expected frame file removed, stat returned %v", err)
	}
	if _, err := os.Stat(filepath.Join(rendersDir, "topT_black.png")); err != nil {
		t.Fatalf("expected still render kept: %v", err)
	}
}

func TestClearFramesKeepsFramesWhenConfigured(t *testing.T) {
	stub := &stubExecutor{}
	enc, rendersDir, _ := newEncoder(t, stub, func(cfg *config.Config) {
		cfg.Settings.KeepFrames = true
	})

	path := filepath.Join(rendersDir, "spin_0001.png")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := enc.ClearFrames(); err != nil {
		t.Fatalf("clear frames: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected frame kept: %v", err)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	cfg := config.Default()
	cfg.Settings.VideoFormats = []string{"MKV"}
	if _, err := encoder.New(&cfg, t.TempDir(), t.TempDir(), logging.NewNop()); err == nil {
		t.Fatal("expected error for unsupported video format")
	}
}
