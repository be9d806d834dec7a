package studio

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"pcbooth/internal/config"
	"pcbooth/internal/errs"
	"pcbooth/internal/logging"
	"pcbooth/internal/scene"
)

// ComponentsCollection is the scene collection picknblend-style importers
// place board components into.
const ComponentsCollection = "Components"

// BoardCollection marks a PCB-shaped scene when present together with a
// board object named after the project. Its members carry the board layer
// meshes the stackup job explodes.
const BoardCollection = "Board"

// sideProperty is the custom property carrying a component's board side.
const sideProperty = "PCB_Side"

// Component is one entry of the component index used by mask and highlight
// jobs.
type Component struct {
	// Object is the scene object name, e.g. "C1:0402".
	Object string
	// Designator is the object name up to the first colon, e.g. "C1".
	Designator string
	// Side is PositionTop or PositionBottom.
	Side Position
}

// MatchesAny reports whether the component's designator starts with one of
// the prefixes.
func (c Component) MatchesAny(prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(c.Designator, prefix) {
			return true
		}
	}
	return false
}

// Designator derives the schematic designator from a component object name.
func Designator(objectName string) string {
	if idx := strings.IndexByte(objectName, ':'); idx > 0 {
		return objectName[:idx]
	}
	return objectName
}

// Studio is the resolved shared render context. The pipeline constructs it
// once per run; jobs receive a Clone and may narrow the dimension slices for
// their own execution window.
type Studio struct {
	Cameras     []*Camera
	Backgrounds []Background
	Positions   []Position

	// Object is the top-level parent the studio rotates into board
	// positions; Rendered is the entity cameras frame. They coincide for
	// PCB and unrecognized scenes.
	Object   string
	Rendered string
	IsPCB    bool

	TopComponents    []Component
	BottomComponents []Component

	// Default frame window and the detached user keyframes, restored by
	// jobs that render the scene's own animation.
	FrameStart int
	FrameEnd   int
	Stash      scene.AnimationStash

	eng            scene.Engine
	logger         *slog.Logger
	allCameras     map[string]*Camera
	allBackgrounds []Background
	zoomOut        float64
}

// Clone returns a job-local copy. The dimension slices are copied so a job
// override never reaches the shared instance; the engine binding and the
// resolved scene facts are shared.
func (s *Studio) Clone() *Studio {
	clone := *s
	clone.Cameras = append([]*Camera(nil), s.Cameras...)
	clone.Backgrounds = append([]Background(nil), s.Backgrounds...)
	clone.Positions = append([]Position(nil), s.Positions...)
	return &clone
}

// Engine exposes the host engine binding for jobs.
func (s *Studio) Engine() scene.Engine {
	return s.eng
}

// Camera looks up any rigged camera by key, the disabled presets included.
func (s *Studio) Camera(name string) (*Camera, bool) {
	camera, ok := s.allCameras[strings.ToUpper(strings.TrimSpace(name))]
	return camera, ok
}

// Background looks up a scene background by name, enabled or not.
func (s *Studio) Background(name string) (Background, bool) {
	for _, background := range s.allBackgrounds {
		if background.Name == name {
			return background, true
		}
	}
	return Background{}, false
}

// Components returns the component index with duplicates (present on both
// sides) removed, top side first.
func (s *Studio) Components() []Component {
	seen := make(map[string]struct{}, len(s.TopComponents)+len(s.BottomComponents))
	components := make([]Component, 0, len(s.TopComponents)+len(s.BottomComponents))
	for _, component := range s.TopComponents {
		if _, ok := seen[component.Object]; ok {
			continue
		}
		seen[component.Object] = struct{}{}
		components = append(components, component)
	}
	for _, component := range s.BottomComponents {
		if _, ok := seen[component.Object]; ok {
			continue
		}
		seen[component.Object] = struct{}{}
		components = append(components, component)
	}
	return components
}

// ChangePosition rotates the top parent into the preset board orientation.
func (s *Studio) ChangePosition(ctx context.Context, position Position) error {
	if err := s.eng.SetObjectRotation(ctx, s.Object, position.Rotation()); err != nil {
		return errs.Wrap(errs.ErrScene, "", "change position", string(position), err)
	}
	s.logger.Debug("moved rendered object",
		logging.String(logging.FieldPosition, string(position)))
	return nil
}

// AlignBackgrounds moves every background asset to follow the top parent, so
// the board stays framed against the backdrop after a position change.
func (s *Studio) AlignBackgrounds(ctx context.Context) error {
	location, err := s.eng.ObjectLocation(ctx, s.Object)
	if err != nil {
		return errs.Wrap(errs.ErrScene, "", "align backgrounds", s.Object, err)
	}
	for _, background := range s.allBackgrounds {
		if err := s.eng.SetObjectLocation(ctx, background.ObjectName, location); err != nil {
			return errs.Wrap(errs.ErrScene, "", "align backgrounds", background.Name, err)
		}
	}
	return nil
}

// UseBackground makes one background render-visible and hides the rest.
func (s *Studio) UseBackground(ctx context.Context, background Background) error {
	for _, other := range s.allBackgrounds {
		state := scene.ObjectRenderState{Visible: other.ObjectName == background.ObjectName}
		if err := s.eng.SetObjectRenderState(ctx, other.ObjectName, state); err != nil {
			return errs.Wrap(errs.ErrScene, "", "use background", other.Name, err)
		}
	}
	s.logger.Debug("switched background", logging.String(logging.FieldBackground, background.Name))
	return nil
}

// SetDefaultFrames parks the scene on the default frame window.
func (s *Studio) SetDefaultFrames(ctx context.Context) error {
	if err := s.eng.SetFrameRange(ctx, s.FrameStart, s.FrameEnd); err != nil {
		return errs.Wrap(errs.ErrScene, "", "set frames", "", err)
	}
	if err := s.eng.SetFrame(ctx, s.FrameStart); err != nil {
		return errs.Wrap(errs.ErrScene, "", "set frames", "", err)
	}
	return nil
}

// Resolve builds the Studio: it configures baseline render settings, detaches
// user keyframes, detects the rendered object, rigs every preset camera for
// every position, sets up lights, and validates the configured backgrounds.
// projectName is the scene file stem, used to recognize PCB-shaped models.
func Resolve(ctx context.Context, eng scene.Engine, cfg *config.Config, projectName string, logger *slog.Logger) (*Studio, error) {
	s := &Studio{
		FrameStart: 1,
		FrameEnd:   cfg.Renderer.FPS,
		eng:        eng,
		logger:     logging.NewComponentLogger(logger, "studio"),
		allCameras: make(map[string]*Camera),
		zoomOut:    cfg.Scene.ZoomOut,
	}

	if err := eng.ConfigureRender(ctx, scene.RenderSettings{
		Width:   cfg.Renderer.ImageWidth,
		Height:  cfg.Renderer.ImageHeight,
		Samples: cfg.Renderer.Samples,
		FPS:     cfg.Renderer.FPS,
	}); err != nil {
		return nil, errs.Wrap(errs.ErrScene, "", "configure render", "", err)
	}
	if err := eng.SetCompositorProgram(ctx, scene.CompositorDefault); err != nil {
		return nil, errs.Wrap(errs.ErrScene, "", "configure compositor", "", err)
	}

	// Detach pre-authored keyframes so job keyframing starts from a clean
	// scene. Jobs that render the user animation restore the stash scoped.
	stash, err := eng.StashAnimation(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.ErrScene, "", "stash animation", "", err)
	}
	s.Stash = stash
	if err := s.SetDefaultFrames(ctx); err != nil {
		return nil, err
	}

	if err := s.detectRenderedObject(ctx, cfg, projectName); err != nil {
		return nil, err
	}
	if err := s.indexComponents(ctx); err != nil {
		return nil, err
	}

	if err := eng.EnsureLights(ctx, cfg.Scene.LightsColor, cfg.Scene.LightsIntensity); err != nil {
		return nil, errs.Wrap(errs.ErrScene, "", "lights", "", err)
	}
	if err := eng.SetHDRIStrength(ctx, cfg.Scene.HDRIIntensity); err != nil {
		return nil, errs.Wrap(errs.ErrScene, "", "lights", "hdri", err)
	}
	if err := eng.SetLEDsEnabled(ctx, cfg.Scene.LEDOn); err != nil {
		return nil, errs.Wrap(errs.ErrScene, "", "lights", "leds", err)
	}

	if err := s.resolveCameras(ctx, cfg); err != nil {
		return nil, err
	}
	if err := s.resolveBackgrounds(ctx, cfg); err != nil {
		return nil, err
	}
	s.Positions = enabledPositions(cfg)

	// Park everything at TOP for the first job.
	if err := s.ChangePosition(ctx, PositionTop); err != nil {
		return nil, err
	}
	for _, camera := range s.allCameras {
		if err := camera.ChangePosition(ctx, eng, PositionTop); err != nil {
			return nil, errs.Wrap(errs.ErrScene, "", "rig cameras", camera.Name, err)
		}
	}

	s.logger.Info("studio resolved",
		logging.Int("cameras", len(s.Cameras)),
		logging.Int("backgrounds", len(s.Backgrounds)),
		logging.Int("positions", len(s.Positions)),
		logging.String(logging.FieldOutput, s.Rendered),
		logging.Bool("pcb", s.IsPCB))
	return s, nil
}

// detectRenderedObject picks the entity cameras frame: explicit override,
// recognized PCB structure, single-object scene, or the whole scene grouped
// under a parent empty.
func (s *Studio) detectRenderedObject(ctx context.Context, cfg *config.Config, projectName string) error {
	switch cfg.Scene.RenderedObjectKind {
	case "object":
		name := cfg.Scene.RenderedObjectName
		exists, err := s.eng.ObjectExists(ctx, name)
		if err != nil {
			return errs.Wrap(errs.ErrScene, "", "resolve rendered object", name, err)
		}
		if !exists {
			return errs.Wrap(errs.ErrMissingAsset, "", "scene.rendered_object", "object "+name+" not found in scene", nil)
		}
		s.Rendered = name
		return s.groupScene(ctx, name)
	case "collection":
		name := cfg.Scene.RenderedObjectName
		exists, err := s.eng.CollectionExists(ctx, name)
		if err != nil {
			return errs.Wrap(errs.ErrScene, "", "resolve rendered object", name, err)
		}
		if !exists {
			return errs.Wrap(errs.ErrMissingAsset, "", "scene.rendered_object", "collection "+name+" not found in scene", nil)
		}
		members, err := s.eng.CollectionObjects(ctx, name)
		if err != nil {
			return errs.Wrap(errs.ErrScene, "", "resolve rendered object", name, err)
		}
		if err := s.eng.CreateParent(ctx, "_rendered_parent", members); err != nil {
			return errs.Wrap(errs.ErrScene, "", "resolve rendered object", name, err)
		}
		s.Rendered = "_rendered_parent"
		return s.groupScene(ctx, "")
	}

	// Recognized PCB: a Board collection plus a board object named after
	// the project.
	if projectName != "" {
		boardExists, err := s.eng.CollectionExists(ctx, BoardCollection)
		if err != nil {
			return errs.Wrap(errs.ErrScene, "", "resolve rendered object", BoardCollection, err)
		}
		objectExists, err := s.eng.ObjectExists(ctx, projectName)
		if err != nil {
			return errs.Wrap(errs.ErrScene, "", "resolve rendered object", projectName, err)
		}
		if boardExists && objectExists {
			s.logger.Info("recognized PCB model", logging.String(logging.FieldOutput, projectName))
			s.IsPCB = true
			s.Object = projectName
			s.Rendered = projectName
			return nil
		}
	}

	content, err := s.sceneContent(ctx)
	if err != nil {
		return err
	}
	if len(content) == 1 {
		s.logger.Info("single-object scene", logging.String(logging.FieldOutput, content[0]))
		s.Rendered = content[0]
		return s.groupScene(ctx, content[0])
	}

	s.logger.Info("unrecognized model, rendering whole scene")
	if err := s.eng.CreateParent(ctx, "_parent", content); err != nil {
		return errs.Wrap(errs.ErrScene, "", "resolve rendered object", "_parent", err)
	}
	s.Object = "_parent"
	s.Rendered = "_parent"
	return nil
}

// groupScene parents the whole scene content under one empty the studio can
// rotate. rendered may name the framed object when it differs.
func (s *Studio) groupScene(ctx context.Context, rendered string) error {
	content, err := s.sceneContent(ctx)
	if err != nil {
		return err
	}
	if err := s.eng.CreateParent(ctx, "_parent", content); err != nil {
		return errs.Wrap(errs.ErrScene, "", "resolve rendered object", "_parent", err)
	}
	s.Object = "_parent"
	if rendered == "" && s.Rendered == "" {
		s.Rendered = "_parent"
	}
	return nil
}

// sceneContent lists the model's own objects: studio assets (cameras,
// backgrounds, parent empties) are excluded.
func (s *Studio) sceneContent(ctx context.Context) ([]string, error) {
	objects, err := s.eng.ListObjects(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.ErrScene, "", "list objects", "", err)
	}

	backgrounds := make(map[string]struct{})
	if exists, err := s.eng.CollectionExists(ctx, BackgroundsCollection); err == nil && exists {
		members, err := s.eng.CollectionObjects(ctx, BackgroundsCollection)
		if err == nil {
			for _, member := range members {
				backgrounds[member] = struct{}{}
			}
		}
	}

	content := make([]string, 0, len(objects))
	for _, name := range objects {
		if strings.HasPrefix(name, "_") || strings.HasPrefix(name, "camera_") {
			continue
		}
		if _, isBackground := backgrounds[name]; isBackground {
			continue
		}
		content = append(content, name)
	}
	sort.Strings(content)
	return content, nil
}

// indexComponents loads the per-side component lists. PCB models read the
// Components collection and the PCB_Side property; other models treat every
// model object as present on both sides.
func (s *Studio) indexComponents(ctx context.Context) error {
	if !s.IsPCB {
		content, err := s.sceneContent(ctx)
		if err != nil {
			return err
		}
		for _, name := range content {
			if name == s.Object || name == s.Rendered {
				continue
			}
			component := Component{Object: name, Designator: Designator(name)}
			top := component
			top.Side = PositionTop
			bottom := component
			bottom.Side = PositionBottom
			s.TopComponents = append(s.TopComponents, top)
			s.BottomComponents = append(s.BottomComponents, bottom)
		}
		return nil
	}

	exists, err := s.eng.CollectionExists(ctx, ComponentsCollection)
	if err != nil {
		return errs.Wrap(errs.ErrScene, "", "index components", "", err)
	}
	if !exists {
		return nil
	}
	members, err := s.eng.CollectionObjects(ctx, ComponentsCollection)
	if err != nil {
		return errs.Wrap(errs.ErrScene, "", "index components", "", err)
	}
	sort.Strings(members)
	for _, member := range members {
		side, found, err := s.eng.ObjectProperty(ctx, member, sideProperty)
		if err != nil {
			return errs.Wrap(errs.ErrScene, "", "index components", member, err)
		}
		if !found {
			continue
		}
		component := Component{Object: member, Designator: Designator(member)}
		switch side {
		case "T":
			component.Side = PositionTop
			s.TopComponents = append(s.TopComponents, component)
		case "B":
			component.Side = PositionBottom
			s.BottomComponents = append(s.BottomComponents, component)
		}
	}
	s.logger.Debug("indexed components",
		logging.Int("top", len(s.TopComponents)),
		logging.Int("bottom", len(s.BottomComponents)))
	return nil
}

// resolveCameras creates every preset rig, wraps the custom camera when
// enabled, and saves a pose per position by rotating the board and framing
// the rendered object. The enabled subset becomes the studio dimension.
func (s *Studio) resolveCameras(ctx context.Context, cfg *config.Config) error {
	options := scene.CameraOptions{
		Lens:         cfg.Scene.FocalLength,
		ClipStart:    clipStart,
		ClipEnd:      clipEnd,
		SensorWidth:  SensorDefault,
		Ortho:        cfg.Scene.OrthoCam,
		DepthOfField: cfg.Scene.DepthOfField,
		FocusObject:  s.Rendered,
	}
	if options.Lens <= 0 {
		options.Lens = lensDefault
	}
	if cfg.Scene.OrthoCam {
		options.Lens = lensOrtho
	}
	if !cfg.Scene.FocalRatioAuto {
		options.FStop = cfg.Scene.FocalRatioValue
	}

	for _, name := range cameraPresetOrder {
		objectName := "camera_" + strings.ToLower(name)
		if err := s.eng.CreateCamera(ctx, objectName, cameraPresets[name]); err != nil {
			return errs.Wrap(errs.ErrScene, "", "rig cameras", name, err)
		}
		if err := s.eng.ConfigureCamera(ctx, objectName, options); err != nil {
			return errs.Wrap(errs.ErrScene, "", "rig cameras", name, err)
		}
		s.allCameras[name] = &Camera{Name: name, ObjectName: objectName}
	}

	if cfg.Cameras.Custom {
		exists, err := s.eng.ObjectExists(ctx, customObjectName)
		if err != nil {
			return errs.Wrap(errs.ErrScene, "", "rig cameras", CameraCustom, err)
		}
		if !exists {
			return errs.Wrap(errs.ErrMissingAsset, "", "cameras.custom", customObjectName+" not found in scene", nil)
		}
		if err := s.eng.ConfigureCamera(ctx, customObjectName, options); err != nil {
			return errs.Wrap(errs.ErrScene, "", "rig cameras", CameraCustom, err)
		}
		s.allCameras[CameraCustom] = &Camera{Name: CameraCustom, ObjectName: customObjectName}
	}

	// Rig each camera for each board position and save the resulting pose.
	zoom := s.zoomOut
	if zoom <= 0 {
		zoom = 1
	}
	for _, position := range AllPositions {
		if err := s.ChangePosition(ctx, position); err != nil {
			return err
		}
		for _, name := range s.cameraNames() {
			camera := s.allCameras[name]
			if err := s.eng.FrameTarget(ctx, camera.ObjectName, s.Rendered, zoom); err != nil {
				return errs.Wrap(errs.ErrScene, "", "rig cameras", camera.Name, err)
			}
			pose, err := s.eng.CameraPose(ctx, camera.ObjectName)
			if err != nil {
				return errs.Wrap(errs.ErrScene, "", "rig cameras", camera.Name, err)
			}
			camera.SavePose(position, pose)
		}
	}

	for _, name := range enabledCameraNames(cfg) {
		camera, ok := s.allCameras[name]
		if !ok {
			continue
		}
		s.Cameras = append(s.Cameras, camera)
	}
	return nil
}

// cameraNames returns the rigged camera keys in preset order, CUSTOM last.
func (s *Studio) cameraNames() []string {
	names := make([]string, 0, len(s.allCameras))
	for _, name := range cameraPresetOrder {
		if _, ok := s.allCameras[name]; ok {
			names = append(names, name)
		}
	}
	if _, ok := s.allCameras[CameraCustom]; ok {
		names = append(names, CameraCustom)
	}
	return names
}

// resolveBackgrounds validates every configured name against the scene's
// Backgrounds collection. An empty configured list is a valid, empty
// dimension.
func (s *Studio) resolveBackgrounds(ctx context.Context, cfg *config.Config) error {
	exists, err := s.eng.CollectionExists(ctx, BackgroundsCollection)
	if err != nil {
		return errs.Wrap(errs.ErrScene, "", "resolve backgrounds", "", err)
	}
	var available []string
	if exists {
		if available, err = s.eng.CollectionObjects(ctx, BackgroundsCollection); err != nil {
			return errs.Wrap(errs.ErrScene, "", "resolve backgrounds", "", err)
		}
	}
	availableSet := make(map[string]struct{}, len(available))
	for _, name := range available {
		availableSet[name] = struct{}{}
		s.allBackgrounds = append(s.allBackgrounds, Background{Name: name, ObjectName: name})
	}

	for _, name := range cfg.Backgrounds.List {
		if _, ok := availableSet[name]; !ok {
			return errs.Wrap(errs.ErrMissingAsset, "", "backgrounds.list", "background "+name+" not found in scene", nil)
		}
		s.Backgrounds = append(s.Backgrounds, Background{Name: name, ObjectName: name})
	}
	return nil
}

func enabledCameraNames(cfg *config.Config) []string {
	var names []string
	add := func(enabled bool, name string) {
		if enabled {
			names = append(names, name)
		}
	}
	add(cfg.Cameras.Top, "TOP")
	add(cfg.Cameras.ISO, "ISO")
	add(cfg.Cameras.Front, "FRONT")
	add(cfg.Cameras.Left, "LEFT")
	add(cfg.Cameras.Right, "RIGHT")
	add(cfg.Cameras.Photo1, "PHOTO1")
	add(cfg.Cameras.Photo2, "PHOTO2")
	add(cfg.Cameras.Custom, CameraCustom)
	return names
}

func enabledPositions(cfg *config.Config) []Position {
	var positions []Position
	if cfg.Positions.Top {
		positions = append(positions, PositionTop)
	}
	if cfg.Positions.Bottom {
		positions = append(positions, PositionBottom)
	}
	if cfg.Positions.Rear {
		positions = append(positions, PositionRear)
	}
	return positions
}
