package jobs

import (
	"context"

	"pcbooth/internal/errs"
	"pcbooth/internal/job"
	"pcbooth/internal/logging"
	"pcbooth/internal/overrides"
	"pcbooth/internal/scene"
	"pcbooth/internal/studio"
)

// transitionZoom widens the sensor on the middle keyframes of a camera
// swing so the board never clips at the frame edge mid-travel.
const transitionZoom = 1.1

func init() {
	job.Register("CAMERA_TRANSITION", nil,
		func(rt *job.Runtime) job.Job { return &CameraTransition{rt: rt} })
}

// CameraTransition animates a camera swing between every pair of enabled
// cameras per board position, against the transparent backdrop, and encodes
// <camA><P>_<camB><P> videos.
type CameraTransition struct {
	rt *job.Runtime
}

func (c *CameraTransition) Name() string { return "CAMERA_TRANSITION" }

// OverrideStudio forces the transparent backdrop.
func (c *CameraTransition) OverrideStudio(ctx context.Context) error {
	st := c.rt.Studio
	st.Backgrounds = []studio.Background{transparentBackground(st)}
	return nil
}

func (c *CameraTransition) Iterate(ctx context.Context) (err error) {
	st := c.rt.Studio
	eng := st.Engine()

	if len(st.Cameras) < 2 {
		c.rt.Logger.Warn("camera transitions need at least two enabled cameras, skipping",
			logging.Alert("too_few_cameras"))
		return nil
	}

	renderer := c.rt.Env.NewRenderer()
	enc, err := c.rt.Env.NewEncoder()
	if err != nil {
		return errs.Wrap(errs.ErrEncodeFailure, c.Name(), "configure encoder", "", err)
	}

	scope := &overrides.Scope{}
	defer releaseScope(ctx, scope, &err)
	if err := scope.Acquire(ctx, func(ctx context.Context) (overrides.Restore, error) {
		return overrides.FilmTransparent(ctx, eng, true)
	}); err != nil {
		return err
	}

	pairs := cameraPairs(st.Cameras)
	c.rt.Tracker.SetTotal(len(pairs) * len(st.Positions))
	start, end := st.FrameStart, st.FrameEnd

	for _, position := range st.Positions {
		if err := st.ChangePosition(ctx, position); err != nil {
			return err
		}
		if err := st.AlignBackgrounds(ctx); err != nil {
			return err
		}
		if err := st.UseBackground(ctx, st.Backgrounds[0]); err != nil {
			return err
		}

		for _, pair := range pairs {
			from, to := pair[0], pair[1]
			poseFrom, ok := from.PoseAt(position)
			if !ok {
				return errs.Wrap(errs.ErrScene, c.Name(), "keyframe camera", from.Name+": no pose at "+string(position), nil)
			}
			poseTo, ok := to.PoseAt(position)
			if !ok {
				return errs.Wrap(errs.ErrScene, c.Name(), "keyframe camera", to.Name+": no pose at "+string(position), nil)
			}

			keys := []struct {
				frame int
				pose  scene.Pose
			}{
				{start, poseFrom},
				{progressFrame(start, end, 0.2), lerpPose(poseFrom, poseTo, 0.2, transitionZoom)},
				{progressFrame(start, end, 0.5), lerpPose(poseFrom, poseTo, 0.5, transitionZoom)},
				{progressFrame(start, end, 0.8), lerpPose(poseFrom, poseTo, 0.8, transitionZoom)},
				{end, poseTo},
			}
			for _, key := range keys {
				if err := eng.KeyframeCamera(ctx, from.ObjectName, key.frame, key.pose); err != nil {
					return errs.Wrap(errs.ErrScene, c.Name(), "keyframe camera", from.Name, err)
				}
			}

			base := from.Key() + position.Suffix() + "_" + to.Key() + position.Suffix()
			if err := renderer.Frames(ctx, from.ObjectName, base); err != nil {
				return err
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

			// Each pair keyframes the same source camera; the swing must not
			// bleed into the next pair.
			if err := eng.ClearAnimation(ctx); err != nil {
				return errs.Wrap(errs.ErrScene, c.Name(), "clear animation", "", err)
			}
			c.rt.Tracker.Advance()
		}
	}
	return nil
}

// cameraPairs returns the 2-combinations of the enabled cameras in enable
// order.
func cameraPairs(cameras []*studio.Camera) [][2]*studio.Camera {
	var pairs [][2]*studio.Camera
	for i := 0; i < len(cameras); i++ {
		for j := i + 1; j < len(cameras); j++ {
			pairs = append(pairs, [2]*studio.Camera{cameras[i], cameras[j]})
		}
	}
	return pairs
}
