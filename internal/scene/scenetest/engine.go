package scenetest

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"pcbooth/internal/scene"
)

// RenderRecord captures one engine render invocation.
type RenderRecord struct {
	Camera string
	Output string
	Frame  int
}

// KeyframeRecord captures one keyframe insertion.
type KeyframeRecord struct {
	Target string
	Frame  int
}

// ObjectState is the mutable per-object state tracked by the fake engine.
type ObjectState struct {
	Location    scene.Vec3
	Rotation    scene.Euler
	RenderState scene.ObjectRenderState
	Dimensions  scene.Vec3
	Camera      bool
	Pose        scene.Pose
	Options     scene.CameraOptions
	Material    string
}

// Engine is an in-memory scene.Engine for tests. It tracks the full mutable
// state the real bridge would hold so override and studio behavior can be
// asserted without a subprocess.
type Engine struct {
	mu sync.Mutex

	objects     map[string]*ObjectState
	collections map[string][]string
	properties  map[string]map[string]string
	nodeValues  map[string]float64
	materials   map[string]string
	stashes     map[string]scene.AnimationStash

	userAnimStart int
	userAnimEnd   int
	animAttached  bool

	renderState      scene.RenderState
	renderSettings   scene.RenderSettings
	compositor       string
	materialOverride string
	worldVisible     bool
	hdriStrength     float64
	ledsEnabled      bool
	lightsColor      string
	lightsIntensity  float64
	frameStart       int
	frameEnd         int
	currentFrame     int
	nextStash        int

	loadedScene string
	savedScenes []string

	calls     map[string]int
	renders   []RenderRecord
	keyframes []KeyframeRecord

	failOps      map[string]error
	failRenderAt map[int]error
}

// NewEngine returns an empty fake engine with sane global defaults.
func NewEngine() *Engine {
	return &Engine{
		objects:      make(map[string]*ObjectState),
		collections:  make(map[string][]string),
		properties:   make(map[string]map[string]string),
		nodeValues:   make(map[string]float64),
		materials:    make(map[string]string),
		stashes:      make(map[string]scene.AnimationStash),
		renderState:  scene.RenderState{Samples: 200, Denoise: true, MaxBounces: 12, AdaptiveSampling: true, WorldRays: true},
		compositor:   scene.CompositorDefault,
		worldVisible: true,
		hdriStrength: 1.0,
		ledsEnabled:  true,
		frameStart:   1,
		frameEnd:     1,
		currentFrame: 1,
		calls:        make(map[string]int),
		failOps:      make(map[string]error),
		failRenderAt: make(map[int]error),
	}
}

var _ scene.Engine = (*Engine)(nil)

// AddObject seeds an object. The returned state may be adjusted before use.
func (e *Engine) AddObject(name string) *ObjectState {
	e.mu.Lock()
	defer e.mu.Unlock()
	state := &ObjectState{
		RenderState: scene.ObjectRenderState{Visible: true},
		Dimensions:  scene.Vec3{X: 10, Y: 10, Z: 1},
	}
	e.objects[name] = state
	return state
}

// AddCollection seeds a collection and its member objects.
func (e *Engine) AddCollection(name string, members ...string) {
	e.mu.Lock()
	collection := append([]string(nil), members...)
	e.collections[name] = collection
	e.mu.Unlock()
	for _, member := range members {
		e.mu.Lock()
		_, exists := e.objects[member]
		e.mu.Unlock()
		if !exists {
			e.AddObject(member)
		}
	}
}

// SetProperty seeds a custom property on an object.
func (e *Engine) SetProperty(object, key, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.properties[object] == nil {
		e.properties[object] = make(map[string]string)
	}
	e.properties[object][key] = value
}

// SeedNodeValue seeds a node group input.
func (e *Engine) SeedNodeValue(group, input string, value float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nodeValues[group+"/"+input] = value
}

// SeedUserAnimation marks the scene as carrying user keyframes over the
// given span, as a pre-authored scene file would.
func (e *Engine) SeedUserAnimation(start, end int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.userAnimStart = start
	e.userAnimEnd = end
	e.animAttached = true
}

// FailOp makes every subsequent call to op return err.
func (e *Engine) FailOp(op string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failOps[op] = err
}

// FailRenderAt makes the index-th render (1-based) return err.
func (e *Engine) FailRenderAt(index int, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failRenderAt[index] = err
}

// CallCount reports how many times op was invoked.
func (e *Engine) CallCount(op string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls[op]
}

// Renders returns the render invocations so far.
func (e *Engine) Renders() []RenderRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]RenderRecord(nil), e.renders...)
}

// Keyframes returns the keyframe insertions so far.
func (e *Engine) Keyframes() []KeyframeRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]KeyframeRecord(nil), e.keyframes...)
}

// SavedScenes returns the paths passed to SaveScene.
func (e *Engine) SavedScenes() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.savedScenes...)
}

// Object returns the state for name, or nil when absent.
func (e *Engine) Object(name string) *ObjectState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.objects[name]
}

// GlobalRenderState returns the current global quality state.
func (e *Engine) GlobalRenderState() scene.RenderState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.renderState
}

// Compositor returns the active compositor program.
func (e *Engine) Compositor() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.compositor
}

// ActiveMaterialOverride returns the current view-layer override material.
func (e *Engine) ActiveMaterialOverride() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.materialOverride
}

// LEDsEnabled reports the LED switch state.
func (e *Engine) LEDsEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledsEnabled
}

// Lights reports the procedural light parameters applied by EnsureLights.
func (e *Engine) Lights() (color string, intensity float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lightsColor, e.lightsIntensity
}

// AnimationAttached reports whether user keyframes are live in the scene.
func (e *Engine) AnimationAttached() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.animAttached
}

// HeldStashes reports how many animation stashes the engine still holds.
func (e *Engine) HeldStashes() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.stashes)
}

// CurrentFrame reports the engine's current frame.
func (e *Engine) CurrentFrame() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentFrame
}

// begin records the call and returns the injected failure, if any.
func (e *Engine) begin(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls[op]++
	if err, ok := e.failOps[op]; ok {
		return err
	}
	return nil
}

func (e *Engine) LoadScene(ctx context.Context, path string) error {
	if err := e.begin(ctx, "load_scene"); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loadedScene = path
	return nil
}

func (e *Engine) SaveScene(ctx context.Context, path string) error {
	if err := e.begin(ctx, "save_scene"); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.savedScenes = append(e.savedScenes, path)
	return nil
}

func (e *Engine) ListObjects(ctx context.Context) ([]string, error) {
	if err := e.begin(ctx, "list_objects"); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, 0, len(e.objects))
	for name := range e.objects {
		names = append(names, name)
	}
	return names, nil
}

func (e *Engine) ObjectExists(ctx context.Context, name string) (bool, error) {
	if err := e.begin(ctx, "object_exists"); err != nil {
		return false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.objects[name]
	return ok, nil
}

func (e *Engine) CollectionExists(ctx context.Context, name string) (bool, error) {
	if err := e.begin(ctx, "collection_exists"); err != nil {
		return false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.collections[name]
	return ok, nil
}

func (e *Engine) CollectionObjects(ctx context.Context, name string) ([]string, error) {
	if err := e.begin(ctx, "collection_objects"); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	members, ok := e.collections[name]
	if !ok {
		return nil, fmt.Errorf("collection %q not found", name)
	}
	return append([]string(nil), members...), nil
}

func (e *Engine) ObjectProperty(ctx context.Context, object, key string) (string, bool, error) {
	if err := e.begin(ctx, "object_property"); err != nil {
		return "", false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	props, ok := e.properties[object]
	if !ok {
		return "", false, nil
	}
	value, ok := props[key]
	return value, ok, nil
}

func (e *Engine) Dimensions(ctx context.Context, target string) (scene.Vec3, error) {
	if err := e.begin(ctx, "dimensions"); err != nil {
		return scene.Vec3{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if state, ok := e.objects[target]; ok {
		return state.Dimensions, nil
	}
	if _, ok := e.collections[target]; ok {
		return scene.Vec3{X: 10, Y: 10, Z: 1}, nil
	}
	return scene.Vec3{}, fmt.Errorf("target %q not found", target)
}

func (e *Engine) CreateParent(ctx context.Context, name string, children []string) error {
	if err := e.begin(ctx, "create_parent"); err != nil {
		return err
	}
	e.mu.Lock()
	_, exists := e.objects[name]
	e.mu.Unlock()
	if !exists {
		e.AddObject(name)
	}
	return nil
}

func (e *Engine) CreateCamera(ctx context.Context, name string, rotation scene.Euler) error {
	if err := e.begin(ctx, "create_camera"); err != nil {
		return err
	}
	state := e.AddObject(name)
	e.mu.Lock()
	defer e.mu.Unlock()
	state.Camera = true
	state.Rotation = rotation
	state.Pose.Rotation = rotation
	return nil
}

func (e *Engine) ConfigureCamera(ctx context.Context, name string, opts scene.CameraOptions) error {
	if err := e.begin(ctx, "configure_camera"); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	state, ok := e.objects[name]
	if !ok || !state.Camera {
		return fmt.Errorf("camera %q not found", name)
	}
	state.Options = opts
	state.Pose.Lens = opts.Lens
	state.Pose.SensorWidth = opts.SensorWidth
	return nil
}

func (e *Engine) FrameTarget(ctx context.Context, camera, target string, zoom float64) error {
	if err := e.begin(ctx, "frame_target"); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	state, ok := e.objects[camera]
	if !ok || !state.Camera {
		return fmt.Errorf("camera %q not found", camera)
	}
	if _, ok := e.objects[target]; !ok {
		if _, ok := e.collections[target]; !ok {
			return fmt.Errorf("target %q not found", target)
		}
	}
	// Deterministic placement derived from the zoom factor so saved poses
	// differ per rigging.
	state.Pose.Location = scene.Vec3{X: 0, Y: 0, Z: 100 * zoom}
	state.Pose.FocusDistance = 100 * zoom
	return nil
}

func (e *Engine) CameraPose(ctx context.Context, camera string) (scene.Pose, error) {
	if err := e.begin(ctx, "camera_pose"); err != nil {
		return scene.Pose{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	state, ok := e.objects[camera]
	if !ok || !state.Camera {
		return scene.Pose{}, fmt.Errorf("camera %q not found", camera)
	}
	return state.Pose, nil
}

func (e *Engine) SetCameraPose(ctx context.Context, camera string, pose scene.Pose) error {
	if err := e.begin(ctx, "set_camera_pose"); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	state, ok := e.objects[camera]
	if !ok || !state.Camera {
		return fmt.Errorf("camera %q not found", camera)
	}
	state.Pose = pose
	return nil
}

func (e *Engine) ObjectLocation(ctx context.Context, name string) (scene.Vec3, error) {
	if err := e.begin(ctx, "object_location"); err != nil {
		return scene.Vec3{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	state, ok := e.objects[name]
	if !ok {
		return scene.Vec3{}, fmt.Errorf("object %q not found", name)
	}
	return state.Location, nil
}

func (e *Engine) SetObjectLocation(ctx context.Context, name string, location scene.Vec3) error {
	if err := e.begin(ctx, "set_object_location"); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	state, ok := e.objects[name]
	if !ok {
		return fmt.Errorf("object %q not found", name)
	}
	state.Location = location
	return nil
}

func (e *Engine) SetObjectRotation(ctx context.Context, name string, rotation scene.Euler) error {
	if err := e.begin(ctx, "set_object_rotation"); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	state, ok := e.objects[name]
	if !ok {
		return fmt.Errorf("object %q not found", name)
	}
	state.Rotation = rotation
	return nil
}

func (e *Engine) EnsureLights(ctx context.Context, color string, intensity float64) error {
	if err := e.begin(ctx, "ensure_lights"); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lightsColor = color
	e.lightsIntensity = intensity
	return nil
}

func (e *Engine) SetHDRIStrength(ctx context.Context, strength float64) error {
	if err := e.begin(ctx, "set_hdri_strength"); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hdriStrength = strength
	return nil
}

func (e *Engine) SetLEDsEnabled(ctx context.Context, enabled bool) error {
	if err := e.begin(ctx, "set_leds_enabled"); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ledsEnabled = enabled
	return nil
}

func (e *Engine) RenderState(ctx context.Context) (scene.RenderState, error) {
	if err := e.begin(ctx, "render_state"); err != nil {
		return scene.RenderState{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.renderState, nil
}

func (e *Engine) ApplyRenderState(ctx context.Context, state scene.RenderState) error {
	if err := e.begin(ctx, "apply_render_state"); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderState = state
	return nil
}

func (e *Engine) ConfigureRender(ctx context.Context, settings scene.RenderSettings) error {
	if err := e.begin(ctx, "configure_render"); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderSettings = settings
	return nil
}

func (e *Engine) CompositorProgram(ctx context.Context) (string, error) {
	if err := e.begin(ctx, "compositor_program"); err != nil {
		return "", err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.compositor, nil
}

func (e *Engine) SetCompositorProgram(ctx context.Context, program string) error {
	if err := e.begin(ctx, "set_compositor_program"); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.compositor = program
	return nil
}

func (e *Engine) MaterialOverride(ctx context.Context) (string, error) {
	if err := e.begin(ctx, "material_override"); err != nil {
		return "", err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.materialOverride, nil
}

func (e *Engine) SetMaterialOverride(ctx context.Context, material string) error {
	if err := e.begin(ctx, "set_material_override"); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.materialOverride = material
	return nil
}

func (e *Engine) CreateMaterial(ctx context.Context, name, rgbHex string) error {
	if err := e.begin(ctx, "create_material"); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.materials[name] = rgbHex
	return nil
}

func (e *Engine) ObjectMaterial(ctx context.Context, object string) (string, error) {
	if err := e.begin(ctx, "object_material"); err != nil {
		return "", err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	state, ok := e.objects[object]
	if !ok {
		return "", fmt.Errorf("object %q not found", object)
	}
	return state.Material, nil
}

func (e *Engine) SetObjectMaterial(ctx context.Context, object, material string) error {
	if err := e.begin(ctx, "set_object_material"); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	state, ok := e.objects[object]
	if !ok {
		return fmt.Errorf("object %q not found", object)
	}
	if material != "" {
		if _, known := e.materials[material]; !known {
			return fmt.Errorf("material %q not found", material)
		}
	}
	state.Material = material
	return nil
}

// Material returns the RGB seed of a created material, or "" when unknown.
func (e *Engine) Material(name string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.materials[name]
}

func (e *Engine) WorldVisible(ctx context.Context) (bool, error) {
	if err := e.begin(ctx, "world_visible"); err != nil {
		return false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.worldVisible, nil
}

func (e *Engine) SetWorldVisible(ctx context.Context, visible bool) error {
	if err := e.begin(ctx, "set_world_visible"); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.worldVisible = visible
	return nil
}

func (e *Engine) NodeValue(ctx context.Context, group, input string) (float64, error) {
	if err := e.begin(ctx, "node_value"); err != nil {
		return 0, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	value, ok := e.nodeValues[group+"/"+input]
	if !ok {
		return 0, fmt.Errorf("node group %q input %q not found", group, input)
	}
	return value, nil
}

func (e *Engine) SetNodeValue(ctx context.Context, group, input string, value float64) error {
	if err := e.begin(ctx, "set_node_value"); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.nodeValues[group+"/"+input]; !ok {
		return fmt.Errorf("node group %q input %q not found", group, input)
	}
	e.nodeValues[group+"/"+input] = value
	return nil
}

func (e *Engine) ObjectRenderState(ctx context.Context, name string) (scene.ObjectRenderState, error) {
	if err := e.begin(ctx, "object_render_state"); err != nil {
		return scene.ObjectRenderState{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	state, ok := e.objects[name]
	if !ok {
		return scene.ObjectRenderState{}, fmt.Errorf("object %q not found", name)
	}
	return state.RenderState, nil
}

func (e *Engine) SetObjectRenderState(ctx context.Context, name string, state scene.ObjectRenderState) error {
	if err := e.begin(ctx, "set_object_render_state"); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	object, ok := e.objects[name]
	if !ok {
		return fmt.Errorf("object %q not found", name)
	}
	object.RenderState = state
	return nil
}

func (e *Engine) FrameRange(ctx context.Context) (int, int, error) {
	if err := e.begin(ctx, "frame_range"); err != nil {
		return 0, 0, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frameStart, e.frameEnd, nil
}

func (e *Engine) SetFrameRange(ctx context.Context, start, end int) error {
	if err := e.begin(ctx, "set_frame_range"); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frameStart, e.frameEnd = start, end
	return nil
}

func (e *Engine) SetFrame(ctx context.Context, frame int) error {
	if err := e.begin(ctx, "set_frame"); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.currentFrame = frame
	return nil
}

func (e *Engine) KeyframeCamera(ctx context.Context, camera string, frame int, pose scene.Pose) error {
	if err := e.begin(ctx, "keyframe_camera"); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	state, ok := e.objects[camera]
	if !ok || !state.Camera {
		return fmt.Errorf("camera %q not found", camera)
	}
	e.keyframes = append(e.keyframes, KeyframeRecord{Target: camera, Frame: frame})
	return nil
}

func (e *Engine) KeyframeObjectRotation(ctx context.Context, object string, frame int, rotation scene.Euler) error {
	if err := e.begin(ctx, "keyframe_object_rotation"); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.objects[object]; !ok {
		return fmt.Errorf("object %q not found", object)
	}
	e.keyframes = append(e.keyframes, KeyframeRecord{Target: object, Frame: frame})
	return nil
}

func (e *Engine) ClearAnimation(ctx context.Context) error {
	if err := e.begin(ctx, "clear_animation"); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.keyframes = nil
	e.animAttached = false
	return nil
}

func (e *Engine) StashAnimation(ctx context.Context) (scene.AnimationStash, error) {
	if err := e.begin(ctx, "stash_animation"); err != nil {
		return scene.AnimationStash{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextStash++
	stash := scene.AnimationStash{
		ID:    fmt.Sprintf("stash-%d", e.nextStash),
		Start: e.userAnimStart,
		End:   e.userAnimEnd,
		Empty: !e.animAttached,
	}
	if stash.Empty {
		stash.Start = e.frameStart
		stash.End = e.frameEnd
	}
	e.animAttached = false
	e.stashes[stash.ID] = stash
	return stash, nil
}

// RestoreAnimation copies a held stash's keyframes back into the scene. The
// stash stays held so later jobs can restore the same user animation again.
func (e *Engine) RestoreAnimation(ctx context.Context, stash string) error {
	if err := e.begin(ctx, "restore_animation"); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	held, ok := e.stashes[stash]
	if !ok {
		return fmt.Errorf("stash %q not held", stash)
	}
	if !held.Empty {
		e.animAttached = true
	}
	return nil
}

// Render writes a small valid PNG to outputPath so callers can decode it.
func (e *Engine) Render(ctx context.Context, camera, outputPath string) error {
	if err := e.begin(ctx, "render"); err != nil {
		return err
	}
	e.mu.Lock()
	state, ok := e.objects[camera]
	if !ok || !state.Camera {
		e.mu.Unlock()
		return fmt.Errorf("camera %q not found", camera)
	}
	index := len(e.renders) + 1
	if err, ok := e.failRenderAt[index]; ok {
		e.mu.Unlock()
		return err
	}
	e.renders = append(e.renders, RenderRecord{Camera: camera, Output: outputPath, Frame: e.currentFrame})
	e.mu.Unlock()

	return writePNG(outputPath, index)
}

func writePNG(path string, seed int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	shade := uint8(seed * 37)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: shade, G: 0x80, B: 0x40, A: 0xFF})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
