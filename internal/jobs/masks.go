package jobs

import (
	"context"
	"path"
	"strconv"

	"pcbooth/internal/errs"
	"pcbooth/internal/fileutil"
	"pcbooth/internal/job"
	"pcbooth/internal/logging"
	"pcbooth/internal/overrides"
	"pcbooth/internal/render"
	"pcbooth/internal/scene"
	"pcbooth/internal/studio"
)

// maskHighlightedDefault selects the designator groups that typically need
// placement masks: connectors, switches, sockets, and ICs.
var maskHighlightedDefault = []string{"A", "J", "PS", "T", "U", "IC", "POT"}

func init() {
	job.Register("MASKS", job.Schema{
		{Name: "FULL", Kind: job.KindBool},
		{Name: "COVERED", Kind: job.KindBool, Default: true},
		{Name: "HIGHLIGHTED", Kind: job.KindStringList, Default: maskHighlightedDefault},
		{Name: "FRAMES", Kind: job.KindStringList},
	}, func(rt *job.Runtime) job.Job { return &Masks{rt: rt} })
}

// Masks renders white-on-black monochrome masks per component of the
// selected designator groups. A full mask shows the component's whole
// silhouette; a covered mask cuts away everything overlapping it, leaving
// only the visible part white. Renders land under masks/<mode>/<cam><P>/
// <bg>/<designator>.
type Masks struct {
	rt *job.Runtime
}

func (m *Masks) Name() string { return "MASKS" }

// OverrideStudio forces the transparent backdrop: masks derive from the
// alpha channel, so a visible backdrop would fill the whole frame white.
func (m *Masks) OverrideStudio(ctx context.Context) error {
	st := m.rt.Studio
	st.Backgrounds = []studio.Background{transparentBackground(st)}
	return nil
}

func (m *Masks) Iterate(ctx context.Context) (err error) {
	st := m.rt.Studio
	eng := st.Engine()
	renderer := m.rt.Env.NewRenderer()

	var modes []string
	if m.rt.Params.Bool("FULL") {
		modes = append(modes, "full")
	}
	if m.rt.Params.Bool("COVERED") {
		modes = append(modes, "covered")
	}
	if len(modes) == 0 {
		m.rt.Logger.Warn("both FULL and COVERED disabled, nothing to render",
			logging.Alert("no_mask_modes"))
		return nil
	}

	points, err := parseFramePoints(m.Name(), m.rt.Params.Strings("FRAMES"), st.FrameStart, st.Stash)
	if err != nil {
		return err
	}

	highlighted := m.rt.Params.Strings("HIGHLIGHTED")

	scope := &overrides.Scope{}
	defer releaseScope(ctx, scope, &err)
	for _, apply := range []func(ctx context.Context) (overrides.Restore, error){
		func(ctx context.Context) (overrides.Restore, error) {
			return overrides.FastPreview(ctx, eng)
		},
		func(ctx context.Context) (overrides.Restore, error) {
			return overrides.FilmTransparent(ctx, eng, true)
		},
		func(ctx context.Context) (overrides.Restore, error) {
			return overrides.Compositing(ctx, eng, scene.CompositorBWMask)
		},
	} {
		if err := scope.Acquire(ctx, apply); err != nil {
			return err
		}
	}
	if points.animation {
		if err := scope.Acquire(ctx, func(ctx context.Context) (overrides.Restore, error) {
			return overrides.UserAnimation(ctx, eng, st.Stash)
		}); err != nil {
			return err
		}
	}

	// The exact total depends on which side each component sits on; count
	// the eligible component-position pairs up front.
	eligible := 0
	for _, position := range st.Positions {
		eligible += len(m.targets(sideComponents(st, position), highlighted))
	}
	m.rt.Tracker.SetTotal(eligible * len(st.Backgrounds) * len(st.Cameras) * len(modes) * len(points.frames))
	if eligible == 0 {
		m.rt.Logger.Warn("no components match the selected designator groups",
			logging.Alert("no_mask_targets"))
		return nil
	}

	allComponents := st.Components()

	for _, position := range st.Positions {
		if err := st.ChangePosition(ctx, position); err != nil {
			return err
		}
		if err := st.AlignBackgrounds(ctx); err != nil {
			return err
		}
		targets := m.targets(sideComponents(st, position), highlighted)

		for _, background := range st.Backgrounds {
			if err := st.UseBackground(ctx, background); err != nil {
				return err
			}
			for _, camera := range st.Cameras {
				if err := camera.ChangePosition(ctx, eng, position); err != nil {
					return errs.Wrap(errs.ErrScene, m.Name(), "move camera", camera.Name, err)
				}
				for _, frame := range points.frames {
					if err := eng.SetFrame(ctx, frame); err != nil {
						return errs.Wrap(errs.ErrScene, m.Name(), "set frame", strconv.Itoa(frame), err)
					}
					for _, target := range targets {
						for _, mode := range modes {
							name := path.Join("masks", mode,
								camera.Key()+position.Suffix(), background.Name,
								fileutil.SanitizeFileName(target.Designator)+points.suffix(frame))
							if err := m.renderMask(ctx, renderer, camera, target, allComponents, mode, name); err != nil {
								return err
							}
							m.rt.Tracker.Advance()
						}
					}
				}
			}
		}
	}
	return nil
}

// renderMask isolates one component and renders its mask. In full mode
// everything else disappears; in covered mode everything else turns into a
// holdout that cuts its silhouette out of the target.
func (m *Masks) renderMask(ctx context.Context, renderer *render.Renderer, camera *studio.Camera, target studio.Component, all []studio.Component, mode, name string) (err error) {
	st := m.rt.Studio
	eng := st.Engine()

	others := make([]string, 0, len(all))
	for _, component := range all {
		if component.Object == target.Object {
			continue
		}
		others = append(others, component.Object)
	}
	if st.IsPCB {
		others = append(others, st.Rendered)
	}

	state := scene.ObjectRenderState{}
	if mode == "covered" {
		state = scene.ObjectRenderState{Visible: true, Holdout: true}
	}

	scope := &overrides.Scope{}
	defer releaseScope(ctx, scope, &err)
	if len(others) > 0 {
		if err := scope.Acquire(ctx, func(ctx context.Context) (overrides.Restore, error) {
			return overrides.Visibility(ctx, eng, state, others...)
		}); err != nil {
			return err
		}
	}
	if err := scope.Acquire(ctx, func(ctx context.Context) (overrides.Restore, error) {
		return overrides.Visibility(ctx, eng, scene.ObjectRenderState{Visible: true}, target.Object)
	}); err != nil {
		return err
	}

	if err := renderer.Render(ctx, camera.ObjectName, name); err != nil {
		return err
	}
	if err := renderer.Save(name, "PNG"); err != nil {
		return err
	}
	return renderer.ClearCache()
}

// targets filters the side's component index down to the selected
// designator groups. Non-PCB scenes mask every model object.
func (m *Masks) targets(components []studio.Component, highlighted []string) []studio.Component {
	if !m.rt.Studio.IsPCB {
		return components
	}
	var targets []studio.Component
	for _, component := range components {
		if component.MatchesAny(highlighted) {
			targets = append(targets, component)
		}
	}
	return targets
}
