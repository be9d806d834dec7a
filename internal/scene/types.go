package scene

import "math"

// Vec3 is a location or extent in scene units.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Euler is an XYZ rotation in radians.
type Euler struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Degrees builds an Euler from degree components.
func Degrees(x, y, z float64) Euler {
	return Euler{
		X: x * math.Pi / 180,
		Y: y * math.Pi / 180,
		Z: z * math.Pi / 180,
	}
}

// Pose is a camera placement snapshot. Lens, sensor, and focus travel with
// the transform so a saved pose restores framing exactly.
type Pose struct {
	Location      Vec3    `json:"location"`
	Rotation      Euler   `json:"rotation"`
	Lens          float64 `json:"lens"`
	SensorWidth   float64 `json:"sensor_width"`
	FocusDistance float64 `json:"focus_distance"`
	FStop         float64 `json:"fstop"`
}

// CameraOptions configures camera optics when a rig is created or updated.
type CameraOptions struct {
	Lens         float64 `json:"lens"`
	ClipStart    float64 `json:"clip_start"`
	ClipEnd      float64 `json:"clip_end"`
	SensorWidth  float64 `json:"sensor_width"`
	Ortho        bool    `json:"ortho"`
	DepthOfField bool    `json:"depth_of_field"`
	FStop        float64 `json:"fstop"`
	FocusObject  string  `json:"focus_object,omitempty"`
}

// RenderState is the global quality state captured and restored by scoped
// overrides.
type RenderState struct {
	Samples          int  `json:"samples"`
	Denoise          bool `json:"denoise"`
	MaxBounces       int  `json:"max_bounces"`
	AdaptiveSampling bool `json:"adaptive_sampling"`
	FilmTransparent  bool `json:"film_transparent"`
	WorldRays        bool `json:"world_rays"`
}

// FastPreview returns the ultra-low quality state used for throwaway renders.
func FastPreview() RenderState {
	return RenderState{Samples: 1}
}

// RenderSettings is the baseline output configuration for a render pass.
type RenderSettings struct {
	Width           int  `json:"width"`
	Height          int  `json:"height"`
	Samples         int  `json:"samples"`
	FPS             int  `json:"fps"`
	FilmTransparent bool `json:"film_transparent"`
}

// ObjectRenderState is the per-object visibility state used by mask and
// highlight passes.
type ObjectRenderState struct {
	Visible bool `json:"visible"`
	Holdout bool `json:"holdout"`
}

// AnimationStash identifies user keyframe data the engine detached from the
// scene. Start and End span the stashed actions; Empty reports that the scene
// carried no keyframes when the stash was taken.
type AnimationStash struct {
	ID    string `json:"id"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Empty bool   `json:"empty"`
}
