package scene

import "context"

// Compositor program names understood by the bridge.
const (
	CompositorDefault = "default"
	CompositorBWMask  = "bw_mask"
)

// Engine is the operation surface of the host render engine. Methods map
// one-to-one onto bridge protocol ops; implementations serialize calls and
// are safe for use from a single pipeline goroutine plus a shutdown path.
//
// bridge.Client implements Engine against a live subprocess; scenetest.Engine
// implements it in memory for tests.
type Engine interface {
	// Scene lifecycle.
	LoadScene(ctx context.Context, path string) error
	SaveScene(ctx context.Context, path string) error

	// Inventory.
	ListObjects(ctx context.Context) ([]string, error)
	ObjectExists(ctx context.Context, name string) (bool, error)
	CollectionExists(ctx context.Context, name string) (bool, error)
	CollectionObjects(ctx context.Context, name string) ([]string, error)
	ObjectProperty(ctx context.Context, object, key string) (string, bool, error)
	Dimensions(ctx context.Context, target string) (Vec3, error)
	CreateParent(ctx context.Context, name string, children []string) error

	// Cameras.
	CreateCamera(ctx context.Context, name string, rotation Euler) error
	ConfigureCamera(ctx context.Context, name string, opts CameraOptions) error
	FrameTarget(ctx context.Context, camera, target string, zoom float64) error
	CameraPose(ctx context.Context, camera string) (Pose, error)
	SetCameraPose(ctx context.Context, camera string, pose Pose) error

	// Object transforms.
	ObjectLocation(ctx context.Context, name string) (Vec3, error)
	SetObjectLocation(ctx context.Context, name string, location Vec3) error
	SetObjectRotation(ctx context.Context, name string, rotation Euler) error

	// Studio environment.
	EnsureLights(ctx context.Context, color string, intensity float64) error
	SetHDRIStrength(ctx context.Context, strength float64) error
	SetLEDsEnabled(ctx context.Context, enabled bool) error

	// Global render state, captured and restored by scoped overrides.
	RenderState(ctx context.Context) (RenderState, error)
	ApplyRenderState(ctx context.Context, state RenderState) error
	ConfigureRender(ctx context.Context, settings RenderSettings) error
	CompositorProgram(ctx context.Context) (string, error)
	SetCompositorProgram(ctx context.Context, program string) error
	MaterialOverride(ctx context.Context) (string, error)
	SetMaterialOverride(ctx context.Context, material string) error

	// Materials.
	CreateMaterial(ctx context.Context, name, rgbHex string) error
	ObjectMaterial(ctx context.Context, object string) (string, error)
	SetObjectMaterial(ctx context.Context, object, material string) error
	WorldVisible(ctx context.Context) (bool, error)
	SetWorldVisible(ctx context.Context, visible bool) error
	NodeValue(ctx context.Context, group, input string) (float64, error)
	SetNodeValue(ctx context.Context, group, input string, value float64) error
	ObjectRenderState(ctx context.Context, name string) (ObjectRenderState, error)
	SetObjectRenderState(ctx context.Context, name string, state ObjectRenderState) error

	// Animation.
	FrameRange(ctx context.Context) (start, end int, err error)
	SetFrameRange(ctx context.Context, start, end int) error
	SetFrame(ctx context.Context, frame int) error
	KeyframeCamera(ctx context.Context, camera string, frame int, pose Pose) error
	KeyframeObjectRotation(ctx context.Context, object string, frame int, rotation Euler) error
	ClearAnimation(ctx context.Context) error
	StashAnimation(ctx context.Context) (AnimationStash, error)
	RestoreAnimation(ctx context.Context, stash string) error

	// Rendering. Render writes the current scene state through camera into
	// outputPath and blocks until the engine finishes the frame.
	Render(ctx context.Context, camera, outputPath string) error
}
