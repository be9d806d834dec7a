package jobs

import (
	"context"
	"strconv"

	"pcbooth/internal/errs"
	"pcbooth/internal/job"
	"pcbooth/internal/overrides"
)

func init() {
	job.Register("STATIC", job.Schema{
		{Name: "FRAMES", Kind: job.KindStringList},
	}, func(rt *job.Runtime) job.Job { return &Static{rt: rt} })
}

// Static renders one still per camera, position, background, and frame
// point. With no FRAMES parameter it renders the parked default frame; with
// frame points it brings the scene's own keyframes back for the duration of
// the job and suffixes each output with its frame point.
type Static struct {
	rt *job.Runtime
}

func (s *Static) Name() string { return "STATIC" }

func (s *Static) Iterate(ctx context.Context) (err error) {
	st := s.rt.Studio
	eng := st.Engine()
	renderer := s.rt.Env.NewRenderer()

	points, err := parseFramePoints(s.Name(), s.rt.Params.Strings("FRAMES"), st.FrameStart, st.Stash)
	if err != nil {
		return err
	}

	scope := &overrides.Scope{}
	defer releaseScope(ctx, scope, &err)
	if points.animation {
		if err := scope.Acquire(ctx, func(ctx context.Context) (overrides.Restore, error) {
			return overrides.UserAnimation(ctx, eng, st.Stash)
		}); err != nil {
			return err
		}
	}

	s.rt.Tracker.SetTotal(len(st.Positions) * len(st.Backgrounds) * len(st.Cameras) * len(points.frames))

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
					return errs.Wrap(errs.ErrScene, s.Name(), "move camera", camera.Name, err)
				}
				for _, frame := range points.frames {
					if err := eng.SetFrame(ctx, frame); err != nil {
						return errs.Wrap(errs.ErrScene, s.Name(), "set frame", strconv.Itoa(frame), err)
					}
					name := baseName(camera, position, background) + points.suffix(frame)
					if err := renderer.Still(ctx, camera.ObjectName, name); err != nil {
						return err
					}
					s.rt.Tracker.Advance()
				}
			}
		}
	}
	return nil
}
