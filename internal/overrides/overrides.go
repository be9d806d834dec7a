package overrides

import (
	"context"
	"fmt"

	"pcbooth/internal/scene"
)

// Restore undoes one scoped override. Callers run it exactly once on every
// exit path, usually via defer, before the next job may touch global state.
type Restore func(ctx context.Context) error

// FastPreview drops the global render quality to the throwaway preview state
// used for mask renders and restores the captured quality afterwards.
func FastPreview(ctx context.Context, eng scene.Engine) (Restore, error) {
	return applyRenderState(ctx, eng, func(scene.RenderState) scene.RenderState {
		return scene.FastPreview()
	})
}

// FilmTransparent toggles film transparency, leaving the rest of the global
// quality state untouched.
func FilmTransparent(ctx context.Context, eng scene.Engine, transparent bool) (Restore, error) {
	return applyRenderState(ctx, eng, func(state scene.RenderState) scene.RenderState {
		state.FilmTransparent = transparent
		return state
	})
}

func applyRenderState(ctx context.Context, eng scene.Engine, mutate func(scene.RenderState) scene.RenderState) (Restore, error) {
	prev, err := eng.RenderState(ctx)
	if err != nil {
		return nil, fmt.Errorf("capture render state: %w", err)
	}
	if err := eng.ApplyRenderState(ctx, mutate(prev)); err != nil {
		return nil, fmt.Errorf("apply render state: %w", err)
	}
	return func(ctx context.Context) error {
		if err := eng.ApplyRenderState(ctx, prev); err != nil {
			return fmt.Errorf("restore render state: %w", err)
		}
		return nil
	}, nil
}

// MaterialOverride places a uniform override material on the global view
// layer so every surface renders with it.
func MaterialOverride(ctx context.Context, eng scene.Engine, material string) (Restore, error) {
	prev, err := eng.MaterialOverride(ctx)
	if err != nil {
		return nil, fmt.Errorf("capture material override: %w", err)
	}
	if err := eng.SetMaterialOverride(ctx, material); err != nil {
		return nil, fmt.Errorf("set material override: %w", err)
	}
	return func(ctx context.Context) error {
		if err := eng.SetMaterialOverride(ctx, prev); err != nil {
			return fmt.Errorf("restore material override: %w", err)
		}
		return nil
	}, nil
}

// Compositing switches the compositor program, e.g. to the black&white mask
// program, and switches back on restore.
func Compositing(ctx context.Context, eng scene.Engine, program string) (Restore, error) {
	prev, err := eng.CompositorProgram(ctx)
	if err != nil {
		return nil, fmt.Errorf("capture compositor: %w", err)
	}
	if err := eng.SetCompositorProgram(ctx, program); err != nil {
		return nil, fmt.Errorf("set compositor: %w", err)
	}
	return func(ctx context.Context) error {
		if err := eng.SetCompositorProgram(ctx, prev); err != nil {
			return fmt.Errorf("restore compositor: %w", err)
		}
		return nil
	}, nil
}

// WorldVisibility toggles whether the world environment contributes to
// render rays.
func WorldVisibility(ctx context.Context, eng scene.Engine, visible bool) (Restore, error) {
	prev, err := eng.WorldVisible(ctx)
	if err != nil {
		return nil, fmt.Errorf("capture world visibility: %w", err)
	}
	if err := eng.SetWorldVisible(ctx, visible); err != nil {
		return nil, fmt.Errorf("set world visibility: %w", err)
	}
	return func(ctx context.Context) error {
		if err := eng.SetWorldVisible(ctx, prev); err != nil {
			return fmt.Errorf("restore world visibility: %w", err)
		}
		return nil
	}, nil
}

// NodeValue overrides one named node-group input, such as the solder switch
// in the board's color group.
func NodeValue(ctx context.Context, eng scene.Engine, group, input string, value float64) (Restore, error) {
	prev, err := eng.NodeValue(ctx, group, input)
	if err != nil {
		return nil, fmt.Errorf("capture node %s/%s: %w", group, input, err)
	}
	if err := eng.SetNodeValue(ctx, group, input, value); err != nil {
		return nil, fmt.Errorf("set node %s/%s: %w", group, input, err)
	}
	return func(ctx context.Context) error {
		if err := eng.SetNodeValue(ctx, group, input, prev); err != nil {
			return fmt.Errorf("restore node %s/%s: %w", group, input, err)
		}
		return nil
	}, nil
}

// ObjectMaterial assigns material to every named object and restores each
// object's captured material afterwards. A mid-apply failure rolls the already
// adjusted objects back before returning.
func ObjectMaterial(ctx context.Context, eng scene.Engine, material string, objects ...string) (Restore, error) {
	captured := make([]string, 0, len(objects))
	restore := func(ctx context.Context) error {
		var firstErr error
		for i := len(captured) - 1; i >= 0; i-- {
			if err := eng.SetObjectMaterial(ctx, objects[i], captured[i]); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("restore material of %s: %w", objects[i], err)
			}
		}
		return firstErr
	}

	for _, name := range objects {
		prev, err := eng.ObjectMaterial(ctx, name)
		if err != nil {
			restore(ctx)
			return nil, fmt.Errorf("capture material of %s: %w", name, err)
		}
		if err := eng.SetObjectMaterial(ctx, name, material); err != nil {
			restore(ctx)
			return nil, fmt.Errorf("set material of %s: %w", name, err)
		}
		captured = append(captured, prev)
	}
	return restore, nil
}

// Visibility applies one render-visibility/holdout state to every named
// object and restores each object's captured state afterwards. A mid-apply
// failure rolls the already adjusted objects back before returning.
func Visibility(ctx context.Context, eng scene.Engine, state scene.ObjectRenderState, objects ...string) (Restore, error) {
	captured := make([]scene.ObjectRenderState, 0, len(objects))
	restore := func(ctx context.Context) error {
		var firstErr error
		for i := len(captured) - 1; i >= 0; i-- {
			if err := eng.SetObjectRenderState(ctx, objects[i], captured[i]); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("restore visibility of %s: %w", objects[i], err)
			}
		}
		return firstErr
	}

	for _, name := range objects {
		prev, err := eng.ObjectRenderState(ctx, name)
		if err != nil {
			restore(ctx)
			return nil, fmt.Errorf("capture visibility of %s: %w", name, err)
		}
		if err := eng.SetObjectRenderState(ctx, name, state); err != nil {
			restore(ctx)
			return nil, fmt.Errorf("set visibility of %s: %w", name, err)
		}
		captured = append(captured, prev)
	}
	return restore, nil
}

// FrameRange narrows the scene frame range and parks the playhead on the new
// start frame.
func FrameRange(ctx context.Context, eng scene.Engine, start, end int) (Restore, error) {
	prevStart, prevEnd, err := eng.FrameRange(ctx)
	if err != nil {
		return nil, fmt.Errorf("capture frame range: %w", err)
	}
	if err := eng.SetFrameRange(ctx, start, end); err != nil {
		return nil, fmt.Errorf("set frame range: %w", err)
	}
	if err := eng.SetFrame(ctx, start); err != nil {
		return nil, fmt.Errorf("set frame: %w", err)
	}
	return func(ctx context.Context) error {
		if err := eng.SetFrameRange(ctx, prevStart, prevEnd); err != nil {
			return fmt.Errorf("restore frame range: %w", err)
		}
		if err := eng.SetFrame(ctx, prevStart); err != nil {
			return fmt.Errorf("restore frame: %w", err)
		}
		return nil
	}, nil
}

// UserAnimation brings the detached user keyframes held in stash back into
// the scene and narrows the frame range to their span. The restore clears
// everything keyframed inside the scope, the job's additions included, and
// puts the frame range back; the stash stays held for the next job.
func UserAnimation(ctx context.Context, eng scene.Engine, stash scene.AnimationStash) (Restore, error) {
	prevStart, prevEnd, err := eng.FrameRange(ctx)
	if err != nil {
		return nil, fmt.Errorf("capture frame range: %w", err)
	}
	if !stash.Empty {
		if err := eng.RestoreAnimation(ctx, stash.ID); err != nil {
			return nil, fmt.Errorf("restore user animation: %w", err)
		}
	}
	if err := eng.SetFrameRange(ctx, stash.Start, stash.End); err != nil {
		return nil, fmt.Errorf("set frame range: %w", err)
	}
	if err := eng.SetFrame(ctx, stash.Start); err != nil {
		return nil, fmt.Errorf("set frame: %w", err)
	}
	return func(ctx context.Context) error {
		if err := eng.ClearAnimation(ctx); err != nil {
			return fmt.Errorf("clear animation: %w", err)
		}
		if err := eng.SetFrameRange(ctx, prevStart, prevEnd); err != nil {
			return fmt.Errorf("restore frame range: %w", err)
		}
		if err := eng.SetFrame(ctx, prevStart); err != nil {
			return fmt.Errorf("restore frame: %w", err)
		}
		return nil
	}, nil
}
