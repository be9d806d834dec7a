package bridge

import (
	"context"

	"pcbooth/internal/scene"
)

var _ scene.Engine = (*Client)(nil)

func (c *Client) LoadScene(ctx context.Context, path string) error {
	return c.call(ctx, "load_scene", args{"path": path}, nil)
}

func (c *Client) SaveScene(ctx context.Context, path string) error {
	return c.call(ctx, "save_scene", args{"path": path}, nil)
}

func (c *Client) ListObjects(ctx context.Context) ([]string, error) {
	var result struct {
		Objects []string `json:"objects"`
	}
	if err := c.call(ctx, "list_objects", nil, &result); err != nil {
		return nil, err
	}
	return result.Objects, nil
}

func (c *Client) ObjectExists(ctx context.Context, name string) (bool, error) {
	var result struct {
		Exists bool `json:"exists"`
	}
	if err := c.call(ctx, "object_exists", args{"name": name}, &result); err != nil {
		return false, err
	}
	return result.Exists, nil
}

func (c *Client) CollectionExists(ctx context.Context, name string) (bool, error) {
	var result struct {
		Exists bool `json:"exists"`
	}
	if err := c.call(ctx, "collection_exists", args{"name": name}, &result); err != nil {
		return false, err
	}
	return result.Exists, nil
}

func (c *Client) CollectionObjects(ctx context.Context, name string) ([]string, error) {
	var result struct {
		Objects []string `json:"objects"`
	}
	if err := c.call(ctx, "collection_objects", args{"name": name}, &result); err != nil {
		return nil, err
	}
	return result.Objects, nil
}

func (c *Client) ObjectProperty(ctx context.Context, object, key string) (string, bool, error) {
	var result struct {
		Value string `json:"value"`
		Found bool   `json:"found"`
	}
	if err := c.call(ctx, "object_property", args{"object": object, "key": key}, &result); err != nil {
		return "", false, err
	}
	return result.Value, result.Found, nil
}

func (c *Client) Dimensions(ctx context.Context, target string) (scene.Vec3, error) {
	var result struct {
		Dimensions scene.Vec3 `json:"dimensions"`
	}
	if err := c.call(ctx, "dimensions", args{"target": target}, &result); err != nil {
		return scene.Vec3{}, err
	}
	return result.Dimensions, nil
}

func (c *Client) CreateParent(ctx context.Context, name string, children []string) error {
	return c.call(ctx, "create_parent", args{"name": name, "children": children}, nil)
}

func (c *Client) CreateCamera(ctx context.Context, name string, rotation scene.Euler) error {
	return c.call(ctx, "create_camera", args{"name": name, "rotation": rotation}, nil)
}

func (c *Client) ConfigureCamera(ctx context.Context, name string, opts scene.CameraOptions) error {
	return c.call(ctx, "configure_camera", args{"name": name, "options": opts}, nil)
}

func (c *Client) FrameTarget(ctx context.Context, camera, target string, zoom float64) error {
	return c.call(ctx, "frame_target", args{"camera": camera, "target": target, "zoom": zoom}, nil)
}

func (c *Client) CameraPose(ctx context.Context, camera string) (scene.Pose, error) {
	var result struct {
		Pose scene.Pose `json:"pose"`
	}
	if err := c.call(ctx, "camera_pose", args{"camera": camera}, &result); err != nil {
		return scene.Pose{}, err
	}
	return result.Pose, nil
}

func (c *Client) SetCameraPose(ctx context.Context, camera string, pose scene.Pose) error {
	return c.call(ctx, "set_camera_pose", args{"camera": camera, "pose": pose}, nil)
}

func (c *Client) ObjectLocation(ctx context.Context, name string) (scene.Vec3, error) {
	var result struct {
		Location scene.Vec3 `json:"location"`
	}
	if err := c.call(ctx, "object_location", args{"name": name}, &result); err != nil {
		return scene.Vec3{}, err
	}
	return result.Location, nil
}

func (c *Client) SetObjectLocation(ctx context.Context, name string, location scene.Vec3) error {
	return c.call(ctx, "set_object_location", args{"name": name, "location": location}, nil)
}

func (c *Client) SetObjectRotation(ctx context.Context, name string, rotation scene.Euler) error {
	return c.call(ctx, "set_object_rotation", args{"name": name, "rotation": rotation}, nil)
}

func (c *Client) EnsureLights(ctx context.Context, color string, intensity float64) error {
	return c.call(ctx, "ensure_lights", args{"color": color, "intensity": intensity}, nil)
}

func (c *Client) SetHDRIStrength(ctx context.Context, strength float64) error {
	return c.call(ctx, "set_hdri_strength", args{"strength": strength}, nil)
}

func (c *Client) SetLEDsEnabled(ctx context.Context, enabled bool) error {
	return c.call(ctx, "set_leds_enabled", args{"enabled": enabled}, nil)
}

func (c *Client) RenderState(ctx context.Context) (scene.RenderState, error) {
	var result struct {
		State scene.RenderState `json:"state"`
	}
	if err := c.call(ctx, "render_state", nil, &result); err != nil {
		return scene.RenderState{}, err
	}
	return result.State, nil
}

func (c *Client) ApplyRenderState(ctx context.Context, state scene.RenderState) error {
	return c.call(ctx, "apply_render_state", args{"state": state}, nil)
}

func (c *Client) ConfigureRender(ctx context.Context, settings scene.RenderSettings) error {
	return c.call(ctx, "configure_render", args{"settings": settings}, nil)
}

func (c *Client) CompositorProgram(ctx context.Context) (string, error) {
	var result struct {
		Program string `json:"program"`
	}
	if err := c.call(ctx, "compositor_program", nil, &result); err != nil {
		return "", err
	}
	return result.Program, nil
}

func (c *Client) SetCompositorProgram(ctx context.Context, program string) error {
	return c.call(ctx, "set_compositor_program", args{"program": program}, nil)
}

func (c *Client) MaterialOverride(ctx context.Context) (string, error) {
	var result struct {
		Material string `json:"material"`
	}
	if err := c.call(ctx, "material_override", nil, &result); err != nil {
		return "", err
	}
	return result.Material, nil
}

func (c *Client) SetMaterialOverride(ctx context.Context, material string) error {
	return c.call(ctx, "set_material_override", args{"material": material}, nil)
}

func (c *Client) CreateMaterial(ctx context.Context, name, rgbHex string) error {
	return c.call(ctx, "create_material", args{"name": name, "rgb": rgbHex}, nil)
}

func (c *Client) ObjectMaterial(ctx context.Context, object string) (string, error) {
	var result struct {
		Material string `json:"material"`
	}
	if err := c.call(ctx, "object_material", args{"object": object}, &result); err != nil {
		return "", err
	}
	return result.Material, nil
}

func (c *Client) SetObjectMaterial(ctx context.Context, object, material string) error {
	return c.call(ctx, "set_object_material", args{"object": object, "material": material}, nil)
}

func (c *Client) WorldVisible(ctx context.Context) (bool, error) {
	var result struct {
		Visible bool `json:"visible"`
	}
	if err := c.call(ctx, "world_visible", nil, &result); err != nil {
		return false, err
	}
	return result.Visible, nil
}

func (c *Client) SetWorldVisible(ctx context.Context, visible bool) error {
	return c.call(ctx, "set_world_visible", args{"visible": visible}, nil)
}

func (c *Client) NodeValue(ctx context.Context, group, input string) (float64, error) {
	var result struct {
		Value float64 `json:"value"`
	}
	if err := c.call(ctx, "node_value", args{"group": group, "input": input}, &result); err != nil {
		return 0, err
	}
	return result.Value, nil
}

func (c *Client) SetNodeValue(ctx context.Context, group, input string, value float64) error {
	return c.call(ctx, "set_node_value", args{"group": group, "input": input, "value": value}, nil)
}

func (c *Client) ObjectRenderState(ctx context.Context, name string) (scene.ObjectRenderState, error) {
	var result struct {
		State scene.ObjectRenderState `json:"state"`
	}
	if err := c.call(ctx, "object_render_state", args{"name": name}, &result); err != nil {
		return scene.ObjectRenderState{}, err
	}
	return result.State, nil
}

func (c *Client) SetObjectRenderState(ctx context.Context, name string, state scene.ObjectRenderState) error {
	return c.call(ctx, "set_object_render_state", args{"name": name, "state": state}, nil)
}

func (c *Client) FrameRange(ctx context.Context) (int, int, error) {
	var result struct {
		Start int `json:"start"`
		End   int `json:"end"`
	}
	if err := c.call(ctx, "frame_range", nil, &result); err != nil {
		return 0, 0, err
	}
	return result.Start, result.End, nil
}

func (c *Client) SetFrameRange(ctx context.Context, start, end int) error {
	return c.call(ctx, "set_frame_range", args{"start": start, "end": end}, nil)
}

func (c *Client) SetFrame(ctx context.Context, frame int) error {
	return c.call(ctx, "set_frame", args{"frame": frame}, nil)
}

func (c *Client) KeyframeCamera(ctx context.Context, camera string, frame int, pose scene.Pose) error {
	return c.call(ctx, "keyframe_camera", args{"camera": camera, "frame": frame, "pose": pose}, nil)
}

func (c *Client) KeyframeObjectRotation(ctx context.Context, object string, frame int, rotation scene.Euler) error {
	return c.call(ctx, "keyframe_object_rotation", args{"object": object, "frame": frame, "rotation": rotation}, nil)
}

func (c *Client) ClearAnimation(ctx context.Context) error {
	return c.call(ctx, "clear_animation", nil, nil)
}

func (c *Client) StashAnimation(ctx context.Context) (scene.AnimationStash, error) {
	var result struct {
		Stash scene.AnimationStash `json:"stash"`
	}
	if err := c.call(ctx, "stash_animation", nil, &result); err != nil {
		return scene.AnimationStash{}, err
	}
	return result.Stash, nil
}

func (c *Client) RestoreAnimation(ctx context.Context, stash string) error {
	return c.call(ctx, "restore_animation", args{"stash": stash}, nil)
}

func (c *Client) Render(ctx context.Context, camera, outputPath string) error {
	return c.call(ctx, "render", args{"camera": camera, "output": outputPath}, nil)
}
