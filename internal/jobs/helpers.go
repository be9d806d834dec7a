package jobs

import (
	"context"

	"pcbooth/internal/overrides"
	"pcbooth/internal/scene"
	"pcbooth/internal/studio"
)

// baseName builds the output stem shared by every job: camera key, position
// suffix, underscore, background name.
func baseName(camera *studio.Camera, position studio.Position, background studio.Background) string {
	return camera.Key() + position.Suffix() + "_" + background.Name
}

// transparentBackground returns the studio's transparent backdrop when the
// scene carries one, or a synthetic entry that hides every backdrop. Jobs
// using it pair it with a film transparency override so the encoded frames
// keep their alpha channel.
func transparentBackground(st *studio.Studio) studio.Background {
	if background, ok := st.Background(studio.BackgroundTransparent); ok {
		return background
	}
	return studio.Background{Name: studio.BackgroundTransparent}
}

// sideComponents returns the component index entries facing the camera at
// the given board position. REAR shows the top side upside down.
func sideComponents(st *studio.Studio, position studio.Position) []studio.Component {
	if position == studio.PositionBottom {
		return st.BottomComponents
	}
	return st.TopComponents
}

// releaseScope restores a job's scoped overrides on every exit path. The
// body error wins when both the body and the release fail. Release uses a
// fresh context so a cancelled run still puts the scene back.
func releaseScope(ctx context.Context, scope *overrides.Scope, err *error) {
	if releaseErr := scope.Release(context.WithoutCancel(ctx)); releaseErr != nil && *err == nil {
		*err = releaseErr
	}
}

// progressFrame maps a 0..1 progress point onto the frame window.
func progressFrame(start, end int, t float64) int {
	return start + int(t*float64(end-start))
}

// lerpPose interpolates two camera poses and widens the sensor by zoom.
// Transition jobs key interpolated poses between their endpoint poses so the
// camera swings wide instead of cutting straight across the board.
func lerpPose(a, b scene.Pose, t, zoom float64) scene.Pose {
	lerp := func(x, y float64) float64 { return x + (y-x)*t }
	return scene.Pose{
		Location: scene.Vec3{
			X: lerp(a.Location.X, b.Location.X),
			Y: lerp(a.Location.Y, b.Location.Y),
			Z: lerp(a.Location.Z, b.Location.Z),
		},
		Rotation: scene.Euler{
			X: lerp(a.Rotation.X, b.Rotation.X),
			Y: lerp(a.Rotation.Y, b.Rotation.Y),
			Z: lerp(a.Rotation.Z, b.Rotation.Z),
		},
		Lens:          lerp(a.Lens, b.Lens),
		SensorWidth:   lerp(a.SensorWidth, b.SensorWidth) * zoom,
		FocusDistance: lerp(a.FocusDistance, b.FocusDistance),
		FStop:         lerp(a.FStop, b.FStop),
	}
}
