package jobs

import (
	"context"
	"fmt"
	"strconv"

	"pcbooth/internal/errs"
	"pcbooth/internal/job"
	"pcbooth/internal/logging"
	"pcbooth/internal/overrides"
)

func init() {
	job.Register("ANIMATION", job.Schema{
		{Name: "FRAMES", Kind: job.KindStringList},
	}, func(rt *job.Runtime) job.Job { return &Animation{rt: rt} })
}

// Animation renders the scene's own keyframed animation per camera,
// position, and background, and sequences each frame run into
// <base>_animation videos. A scene without keyframes completes with a
// warning and no renders.
type Animation struct {
	rt *job.Runtime
}

func (a *Animation) Name() string { return "ANIMATION" }

func (a *Animation) Iterate(ctx context.Context) (err error) {
	st := a.rt.Studio
	eng := st.Engine()

	if st.Stash.Empty {
		a.rt.Logger.Warn("scene carries no keyframed animation, skipping",
			logging.Alert("no_animation"))
		return nil
	}

	renderer := a.rt.Env.NewRenderer()
	enc, err := a.rt.Env.NewEncoder()
	if err != nil {
		return errs.Wrap(errs.ErrEncodeFailure, a.Name(), "configure encoder", "", err)
	}

	scope := &overrides.Scope{}
	defer releaseScope(ctx, scope, &err)
	if err := scope.Acquire(ctx, func(ctx context.Context) (overrides.Restore, error) {
		return overrides.UserAnimation(ctx, eng, st.Stash)
	}); err != nil {
		return err
	}

	frameCount := st.Stash.End - st.Stash.Start + 1
	a.rt.Tracker.SetTotal(len(st.Positions) * len(st.Backgrounds) * len(st.Cameras) * frameCount)

	for _, position := range st.Positions {
		if err := st.ChangePosition(ctx, position); err != nil {
			return err
		}
		if err := st.AlignBackgrounds(ctx); err != nil {
			return err
		}
		for _, background := range st.Backgrounds {
			if err := st.UseBackground(ctx, background); err != nil {
				return err
			}
			for _, camera := range st.Cameras {
				if err := camera.ChangePosition(ctx, eng, position); err != nil {
					return errs.Wrap(errs.ErrScene, a.Name(), "move camera", camera.Name, err)
				}

				base := baseName(camera, position, background) + "_animation"
				for frame := st.Stash.Start; frame <= st.Stash.End; frame++ {
					if err := eng.SetFrame(ctx, frame); err != nil {
						return errs.Wrap(errs.ErrScene, a.Name(), "set frame", strconv.Itoa(frame), err)
					}
					name := fmt.Sprintf("%s_%04d", base, frame)
					if err := renderer.Render(ctx, camera.ObjectName, name); err != nil {
						return err
					}
					if err := renderer.Save(name, "PNG"); err != nil {
						return err
					}
					if err := renderer.ClearCache(); err != nil {
						return err
					}
					a.rt.Tracker.Advance()
				}

				if err := enc.Sequence(ctx, base, base); err != nil {
					return err
				}
				if err := enc.Thumbnail(ctx, base, base); err != nil {
					return err
				}
				if err := enc.ClearFrames(); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
