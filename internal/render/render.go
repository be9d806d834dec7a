package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"pcbooth/internal/config"
	"pcbooth/internal/errs"
	"pcbooth/internal/fileutil"
	"pcbooth/internal/logging"
	"pcbooth/internal/scene"
)

// The engine renders every frame into one cache file; the wrapper decodes it
// once and fans it out to the requested formats.
const (
	cacheName   = "_tmp_render"
	cacheFormat = "PNG"

	jpegQuality = 90
)

var extensions = map[string]string{
	"PNG":  ".png",
	"JPEG": ".jpg",
	"TIFF": ".tif",
	"BMP":  ".bmp",
}

// Renderer asks the engine for at most one render per output name and writes
// the buffered frame under every configured image format. A job owns its
// Renderer exclusively and must ClearCache between scene-state changes.
type Renderer struct {
	eng    scene.Engine
	logger *slog.Logger

	rendersDir  string
	formats     []string
	thumbnails  bool
	thumbWidth  int
	thumbHeight int
	keepFrames  bool

	buffer    image.Image
	cachePath string
}

// New builds a Renderer writing into rendersDir.
func New(eng scene.Engine, cfg *config.Config, rendersDir string, logger *slog.Logger) *Renderer {
	return &Renderer{
		eng:         eng,
		logger:      logging.NewComponentLogger(logger, "renderer"),
		rendersDir:  rendersDir,
		formats:     append([]string(nil), cfg.Settings.ImageFormats...),
		thumbnails:  cfg.Settings.Thumbnails,
		thumbWidth:  cfg.Renderer.ThumbnailWidth,
		thumbHeight: cfg.Renderer.ThumbnailHeight,
		keepFrames:  cfg.Settings.KeepFrames,
	}
}

// Render produces the cache frame for name through camera and decodes it into
// the in-memory buffer. When a buffered frame is already present the call is
// a no-op, so fanning one render out to several files never renders twice.
func (r *Renderer) Render(ctx context.Context, camera, name string) error {
	if r.buffer != nil {
		return nil
	}

	r.logger.Info("rendering",
		logging.String(logging.FieldCamera, camera),
		logging.String(logging.FieldOutput, name))

	cachePath := filepath.Join(r.rendersDir, cacheName+extensions[cacheFormat])
	if err := fileutil.EnsureDir(r.rendersDir); err != nil {
		return errs.Wrap(errs.ErrRenderFailure, "", "render", name, err)
	}
	if err := r.eng.Render(ctx, camera, cachePath); err != nil {
		return errs.Wrap(errs.ErrRenderFailure, "", "render", name, err)
	}

	file, err := os.Open(cachePath)
	if err != nil {
		return errs.Wrap(errs.ErrRenderFailure, "", "render", "load cache "+cachePath, err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return errs.Wrap(errs.ErrRenderFailure, "", "render", "decode cache "+cachePath, err)
	}

	r.buffer = img
	r.cachePath = cachePath
	return nil
}

// Save writes the buffered frame under <rendersDir>/<name>.<ext> for every
// requested image format, defaulting to the configured format list.
func (r *Renderer) Save(name string, formats ...string) error {
	if r.buffer == nil {
		return errs.Wrap(errs.ErrRenderFailure, "", "save", name+": no buffered render", nil)
	}
	return r.write(r.buffer, name, "", formats)
}

// Thumbnail scales the buffered frame to the configured thumbnail box and
// writes <name>_thumbnail.<ext>. A no-op when thumbnails are disabled.
func (r *Renderer) Thumbnail(name string, formats ...string) error {
	if !r.thumbnails {
		return nil
	}
	if r.buffer == nil {
		return errs.Wrap(errs.ErrRenderFailure, "", "thumbnail", name+": no buffered render", nil)
	}

	dst := image.NewRGBA(image.Rect(0, 0, r.thumbWidth, r.thumbHeight))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), r.buffer, r.buffer.Bounds(), draw.Over, nil)
	return r.write(dst, name, "_thumbnail", formats)
}

// Still is the common render-save-thumbnail sequence followed by a cache
// clear, for jobs that produce exactly one image per scene state.
func (r *Renderer) Still(ctx context.Context, camera, name string) error {
	if err := r.Render(ctx, camera, name); err != nil {
		return err
	}
	if err := r.Save(name); err != nil {
		return err
	}
	if err := r.Thumbnail(name); err != nil {
		return err
	}
	return r.ClearCache()
}

// Frames renders the scene frame range through camera as a numbered PNG
// sequence (<base>_0001.png, ...). Frames feed the video encoder and are
// never written in multiple formats.
func (r *Renderer) Frames(ctx context.Context, camera, base string) error {
	start, end, err := r.eng.FrameRange(ctx)
	if err != nil {
		return errs.Wrap(errs.ErrRenderFailure, "", "frames", base, err)
	}
	for frame := start; frame <= end; frame++ {
		name := fmt.Sprintf("%s_%04d", base, frame)
		if err := r.eng.SetFrame(ctx, frame); err != nil {
			return errs.Wrap(errs.ErrRenderFailure, "", "frames", name, err)
		}
		if err := r.Render(ctx, camera, name); err != nil {
			return err
		}
		if err := r.Save(name, cacheFormat); err != nil {
			return err
		}
		if err := r.ClearCache(); err != nil {
			return err
		}
	}
	return nil
}

// ClearCache drops the buffered frame and removes the cache file unless
// frames are configured to be kept. Jobs call this whenever the scene state
// is about to change; a stale buffer would silently reuse the old frame.
func (r *Renderer) ClearCache() error {
	r.buffer = nil
	if r.cachePath == "" {
		return nil
	}
	path := r.cachePath
	r.cachePath = ""
	if r.keepFrames {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove render cache: %w", err)
	}
	return nil
}

func (r *Renderer) write(img image.Image, name, suffix string, formats []string) error {
	if len(formats) == 0 {
		formats = r.formats
	}
	for _, format := range formats {
		ext, ok := extensions[format]
		if !ok {
			return errs.Wrap(errs.ErrRenderFailure, "", "save", "unsupported image format "+format, nil)
		}

		var buf bytes.Buffer
		if err := encodeImage(&buf, format, img); err != nil {
			return errs.Wrap(errs.ErrRenderFailure, "", "save", name, err)
		}

		path := filepath.Join(r.rendersDir, name+suffix+ext)
		if err := fileutil.WriteFileAtomic(path, buf.Bytes()); err != nil {
			return errs.Wrap(errs.ErrRenderFailure, "", "save", name, err)
		}
		r.logger.Info("saved render", logging.String(logging.FieldOutput, path))
	}
	return nil
}

func encodeImage(w io.Writer, format string, img image.Image) error {
	switch format {
	case "PNG":
		return png.Encode(w, img)
	case "JPEG":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	case "TIFF":
		return tiff.Encode(w, img, nil)
	case "BMP":
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}
}
