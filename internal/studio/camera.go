package studio

import (
	"context"
	"fmt"
	"strings"

	"pcbooth/internal/scene"
)

// SensorDefault is the base sensor width in millimeters. Zoomed-out poses
// widen it by the configured zoom-out factor; transition jobs widen it again
// for their middle keyframes.
const SensorDefault = 36.0

const (
	lensDefault = 105.0
	lensOrtho   = 1000.0
	clipStart   = 0.1
	clipEnd     = 15000.0
)

// CameraCustom is the registry key of the pre-authored custom camera. Unlike
// the procedural presets it must already exist in the scene file.
const CameraCustom = "CUSTOM"

// customObjectName is the scene object the CUSTOM camera wraps.
const customObjectName = "camera_custom"

// cameraPresets maps preset keys to their rig rotations, in declaration
// order. Rotations are degrees.
var cameraPresetOrder = []string{"TOP", "ISO", "FRONT", "LEFT", "RIGHT", "PHOTO1", "PHOTO2"}

var cameraPresets = map[string]scene.Euler{
	"TOP":    scene.Degrees(0, 0, 0),
	"ISO":    scene.Degrees(54.736, 0, 45),
	"FRONT":  scene.Degrees(30, 0, 0),
	"LEFT":   scene.Degrees(190, -155, -200),
	"RIGHT":  scene.Degrees(190, -200, -155),
	"PHOTO1": scene.Degrees(38, 0, 13),
	"PHOTO2": scene.Degrees(60, 0, 20),
}

// Camera is a rigged camera with one saved pose per board position.
type Camera struct {
	// Name is the upper-case registry key, e.g. TOP or PHOTO1.
	Name string
	// ObjectName is the scene object backing the rig, e.g. camera_top.
	ObjectName string

	poses map[Position]scene.Pose
}

// Key is the lower-case filename prefix, e.g. the top in topT_paper_black.
func (c *Camera) Key() string {
	return strings.ToLower(c.Name)
}

// PoseAt returns the pose saved for the position.
func (c *Camera) PoseAt(position Position) (scene.Pose, bool) {
	pose, ok := c.poses[position]
	return pose, ok
}

// SavePose records the pose the camera should take at the position.
func (c *Camera) SavePose(position Position, pose scene.Pose) {
	if c.poses == nil {
		c.poses = make(map[Position]scene.Pose, len(AllPositions))
	}
	c.poses[position] = pose
}

// ChangePosition moves the camera to its saved pose for the position. Focus
// travels with the pose.
func (c *Camera) ChangePosition(ctx context.Context, eng scene.Engine, position Position) error {
	pose, ok := c.poses[position]
	if !ok {
		return fmt.Errorf("camera %s: no pose saved for position %s", c.Name, position)
	}
	return eng.SetCameraPose(ctx, c.ObjectName, pose)
}
