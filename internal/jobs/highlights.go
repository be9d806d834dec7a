package jobs

import (
	"context"
	"path"

	"pcbooth/internal/errs"
	"pcbooth/internal/fileutil"
	"pcbooth/internal/job"
	"pcbooth/internal/logging"
	"pcbooth/internal/overrides"
	"pcbooth/internal/render"
	"pcbooth/internal/scene"
	"pcbooth/internal/studio"
)

var (
	// highlightTargetsDefault picks the groups worth pointing at in
	// documentation renders: connectors and switches.
	highlightTargetsDefault = []string{"J", "SW"}
	// highlightHiddenDefault removes the passive clutter around them.
	highlightHiddenDefault = []string{"R", "C", "T", "Q", "FB"}
)

const (
	highlightWhiteMaterial = "highlight_white"
	highlightColorMaterial = "highlight_color"
	solderObject           = "Solder"
)

func init() {
	job.Register("HIGHLIGHTS", job.Schema{
		{Name: "HIGHLIGHTED", Kind: job.KindStringList, Default: highlightTargetsDefault},
		{Name: "HIDDEN", Kind: job.KindStringList, Default: highlightHiddenDefault},
		{Name: "WHITE_RGB", Kind: job.KindString, Default: "FFFFFF"},
		{Name: "HIGHLIGHT_RGB", Kind: job.KindString, Default: "004C3C"},
	}, func(rt *job.Runtime) job.Job { return &Highlights{rt: rt} })
}

// Highlights paints the board white and renders one image per component of
// the selected designator groups with that component in the highlight
// color. Outputs land under highlights/<designator>, with a camera suffix
// for non-TOP cameras.
type Highlights struct {
	rt *job.Runtime
}

func (h *Highlights) Name() string { return "HIGHLIGHTS" }

// OverrideStudio forces the transparent backdrop and both board sides, so
// bottom-side components get their highlight too.
func (h *Highlights) OverrideStudio(ctx context.Context) error {
	st := h.rt.Studio
	st.Backgrounds = []studio.Background{transparentBackground(st)}
	st.Positions = []studio.Position{studio.PositionTop, studio.PositionBottom}
	return nil
}

func (h *Highlights) Iterate(ctx context.Context) (err error) {
	st := h.rt.Studio
	eng := st.Engine()
	renderer := h.rt.Env.NewRenderer()

	highlighted := h.rt.Params.Strings("HIGHLIGHTED")
	hidden := h.rt.Params.Strings("HIDDEN")

	all := st.Components()
	var targets []studio.Component
	var hiddenObjects []string
	for _, component := range all {
		if st.IsPCB && component.MatchesAny(hidden) {
			hiddenObjects = append(hiddenObjects, component.Object)
			continue
		}
		if !st.IsPCB || component.MatchesAny(highlighted) {
			targets = append(targets, component)
		}
	}
	if len(targets) == 0 {
		h.rt.Logger.Warn("no components match the selected designator groups",
			logging.Alert("no_highlight_targets"))
		return nil
	}

	// Solder blobs read as noise once the board turns flat white.
	if st.IsPCB {
		if exists, err := eng.ObjectExists(ctx, solderObject); err == nil && exists {
			hiddenObjects = append(hiddenObjects, solderObject)
		}
	}

	if err := eng.CreateMaterial(ctx, highlightWhiteMaterial, h.rt.Params.String("WHITE_RGB")); err != nil {
		return errs.Wrap(errs.ErrScene, h.Name(), "create material", highlightWhiteMaterial, err)
	}
	if err := eng.CreateMaterial(ctx, highlightColorMaterial, h.rt.Params.String("HIGHLIGHT_RGB")); err != nil {
		return errs.Wrap(errs.ErrScene, h.Name(), "create material", highlightColorMaterial, err)
	}

	whiteObjects := make([]string, 0, len(all)+1)
	for _, component := range all {
		whiteObjects = append(whiteObjects, component.Object)
	}
	if st.IsPCB {
		whiteObjects = append(whiteObjects, st.Rendered)
	}

	scope := &overrides.Scope{}
	defer releaseScope(ctx, scope, &err)
	if err := scope.Acquire(ctx, func(ctx context.Context) (overrides.Restore, error) {
		return overrides.FilmTransparent(ctx, eng, true)
	}); err != nil {
		return err
	}
	if len(hiddenObjects) > 0 {
		if err := scope.Acquire(ctx, func(ctx context.Context) (overrides.Restore, error) {
			return overrides.Visibility(ctx, eng, scene.ObjectRenderState{}, hiddenObjects...)
		}); err != nil {
			return err
		}
	}
	if err := scope.Acquire(ctx, func(ctx context.Context) (overrides.Restore, error) {
		return overrides.ObjectMaterial(ctx, eng, highlightWhiteMaterial, whiteObjects...)
	}); err != nil {
		return err
	}

	eligible := 0
	for _, position := range st.Positions {
		eligible += len(h.onSide(targets, position))
	}
	h.rt.Tracker.SetTotal(eligible * len(st.Cameras))

	for _, position := range st.Positions {
		sideTargets := h.onSide(targets, position)
		if len(sideTargets) == 0 {
			continue
		}
		if err := st.ChangePosition(ctx, position); err != nil {
			return err
		}
		if err := st.AlignBackgrounds(ctx); err != nil {
			return err
		}
		if err := st.UseBackground(ctx, st.Backgrounds[0]); err != nil {
			return err
		}
		for _, camera := range st.Cameras {
			if err := camera.ChangePosition(ctx, eng, position); err != nil {
				return errs.Wrap(errs.ErrScene, h.Name(), "move camera", camera.Name, err)
			}
			for _, target := range sideTargets {
				if err := h.renderHighlight(ctx, renderer, camera, position, target); err != nil {
					return err
				}
				h.rt.Tracker.Advance()
			}
		}
	}
	return nil
}

// renderHighlight paints one component in the highlight color for the
// duration of a single still.
func (h *Highlights) renderHighlight(ctx context.Context, renderer *render.Renderer, camera *studio.Camera, position studio.Position, target studio.Component) (err error) {
	eng := h.rt.Studio.Engine()

	scope := &overrides.Scope{}
	defer releaseScope(ctx, scope, &err)
	if err := scope.Acquire(ctx, func(ctx context.Context) (overrides.Restore, error) {
		return overrides.ObjectMaterial(ctx, eng, highlightColorMaterial, target.Object)
	}); err != nil {
		return err
	}

	name := fileutil.SanitizeFileName(target.Designator)
	if position != studio.PositionTop {
		name += position.Suffix()
	}
	if camera.Name != "TOP" {
		name += "_" + camera.Key()
	}
	return renderer.Still(ctx, camera.ObjectName, path.Join("highlights", name))
}

// onSide filters targets down to the components facing the camera at the
// position. Non-PCB scenes highlight every target on every side.
func (h *Highlights) onSide(targets []studio.Component, position studio.Position) []studio.Component {
	if !h.rt.Studio.IsPCB {
		return targets
	}
	want := studio.PositionTop
	if position == studio.PositionBottom {
		want = studio.PositionBottom
	}
	var side []studio.Component
	for _, target := range targets {
		if target.Side == want {
			side = append(side, target)
		}
	}
	return side
}
