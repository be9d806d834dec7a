package jobs

import (
	"context"

	"pcbooth/internal/errs"
	"pcbooth/internal/job"
	"pcbooth/internal/overrides"
	"pcbooth/internal/scene"
	"pcbooth/internal/studio"
)

// flipZoom widens the sensor on the middle keyframes so the board stays in
// frame while it turns edge-on to the camera.
const flipZoom = 1.4

func init() {
	job.Register("FLIP_TRANSITION", nil,
		func(rt *job.Runtime) job.Job { return &FlipTransition{rt: rt} })
}

// FlipTransition animates the board flipping from TOP to BOTTOM per enabled
// camera, against the transparent backdrop, and encodes both the forward
// video (<cam>T_<cam>B) and its reverse (<cam>B_<cam>T).
type FlipTransition struct {
	rt *job.Runtime
}

func (f *FlipTransition) Name() string { return "FLIP_TRANSITION" }

// OverrideStudio forces the transparent backdrop and the TOP and BOTTOM
// positions the flip travels between.
func (f *FlipTransition) OverrideStudio(ctx context.Context) error {
	st := f.rt.Studio
	st.Backgrounds = []studio.Background{transparentBackground(st)}
	st.Positions = []studio.Position{studio.PositionTop, studio.PositionBottom}
	return nil
}

func (f *FlipTransition) Iterate(ctx context.Context) (err error) {
	st := f.rt.Studio
	eng := st.Engine()
	renderer := f.rt.Env.NewRenderer()
	enc, err := f.rt.Env.NewEncoder()
	if err != nil {
		return errs.Wrap(errs.ErrEncodeFailure, f.Name(), "configure encoder", "", err)
	}

	scope := &overrides.Scope{}
	defer releaseScope(ctx, scope, &err)
	if err := scope.Acquire(ctx, func(ctx context.Context) (overrides.Restore, error) {
		return overrides.FilmTransparent(ctx, eng, true)
	}); err != nil {
		return err
	}

	if err := st.ChangePosition(ctx, studio.PositionTop); err != nil {
		return err
	}
	if err := st.AlignBackgrounds(ctx); err != nil {
		return err
	}
	if err := st.UseBackground(ctx, st.Backgrounds[0]); err != nil {
		return err
	}

	start, end := st.FrameStart, st.FrameEnd

	// The board itself carries the flip keyframes; every camera renders the
	// same board motion from its own pose pair.
	if err := eng.KeyframeObjectRotation(ctx, st.Object, start, studio.PositionTop.Rotation()); err != nil {
		return errs.Wrap(errs.ErrScene, f.Name(), "keyframe board", "", err)
	}
	if err := eng.KeyframeObjectRotation(ctx, st.Object, end, studio.PositionBottom.Rotation()); err != nil {
		return errs.Wrap(errs.ErrScene, f.Name(), "keyframe board", "", err)
	}

	f.rt.Tracker.SetTotal(len(st.Cameras))

	for _, camera := range st.Cameras {
		poseTop, ok := camera.PoseAt(studio.PositionTop)
		if !ok {
			return errs.Wrap(errs.ErrScene, f.Name(), "keyframe camera", camera.Name+": no TOP pose", nil)
		}
		poseBottom, ok := camera.PoseAt(studio.PositionBottom)
		if !ok {
			return errs.Wrap(errs.ErrScene, f.Name(), "keyframe camera", camera.Name+": no BOTTOM pose", nil)
		}

		keys := []struct {
			frame int
			pose  scene.Pose
		}{
			{start, poseTop},
			{progressFrame(start, end, 0.3), lerpPose(poseTop, poseBottom, 0.3, flipZoom)},
			{progressFrame(start, end, 0.7), lerpPose(poseTop, poseBottom, 0.7, flipZoom)},
			{end, poseBottom},
		}
		for _, key := range keys {
			if err := eng.KeyframeCamera(ctx, camera.ObjectName, key.frame, key.pose); err != nil {
				return errs.Wrap(errs.ErrScene, f.Name(), "keyframe camera", camera.Name, err)
			}
		}

		forward := camera.Key() + "T_" + camera.Key() + "B"
		reverse := camera.Key() + "B_" + camera.Key() + "T"
		if err := renderer.Frames(ctx, camera.ObjectName, forward); err != nil {
			return err
		}
		if err := enc.Sequence(ctx, forward, forward); err != nil {
			return err
		}
		if err := enc.Reverse(ctx, forward, reverse); err != nil {
			return err
		}
		if err := enc.Thumbnail(ctx, forward, forward); err != nil {
			return err
		}
		if err := enc.Thumbnail(ctx, reverse, reverse); err != nil {
			return err
		}
		if err := enc.ClearFrames(); err != nil {
			return err
		}
		f.rt.Tracker.Advance()
	}
	return nil
}
