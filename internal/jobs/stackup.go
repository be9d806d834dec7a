package jobs

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"pcbooth/internal/errs"
	"pcbooth/internal/job"
	"pcbooth/internal/logging"
	"pcbooth/internal/overrides"
	"pcbooth/internal/scene"
	"pcbooth/internal/studio"
)

// layerStem marks the board layer meshes inside the Board collection.
const layerStem = "PCB_layer"

// Explode offsets relative to the first layer's extents.
const (
	stackupOffsetYDivisor = 20.0
	stackupOffsetZDivisor = 7.5
)

func init() {
	job.Register("STACKUP", nil,
		func(rt *job.Runtime) job.Job { return &Stackup{rt: rt} })
}

// Stackup explodes the board's layer meshes into a staircase and renders
// them back-to-front, revealing one more layer per still. Output names
// count down from the layer total, so layer1 is the fully stacked board.
type Stackup struct {
	rt *job.Runtime
}

func (s *Stackup) Name() string { return "STACKUP" }

// OverrideStudio forces the FRONT camera at the TOP position against the
// transparent backdrop; the staircase only reads from a raking angle.
func (s *Stackup) OverrideStudio(ctx context.Context) error {
	st := s.rt.Studio
	front, ok := st.Camera("FRONT")
	if !ok {
		return errs.Wrap(errs.ErrScene, s.Name(), "override studio", "FRONT camera not rigged", nil)
	}
	st.Cameras = []*studio.Camera{front}
	st.Backgrounds = []studio.Background{transparentBackground(st)}
	st.Positions = []studio.Position{studio.PositionTop}
	return nil
}

func (s *Stackup) Iterate(ctx context.Context) (err error) {
	st := s.rt.Studio
	eng := st.Engine()
	renderer := s.rt.Env.NewRenderer()

	if !st.IsPCB {
		s.rt.Logger.Warn("scene is not a recognized PCB model, skipping",
			logging.Alert("not_a_pcb"))
		return nil
	}

	layers, err := s.boardLayers(ctx)
	if err != nil {
		return err
	}
	if len(layers) < 2 {
		s.rt.Logger.Warn("board has fewer than two layer meshes, skipping",
			logging.Alert("too_few_layers"))
		return nil
	}

	dims, err := eng.Dimensions(ctx, layers[0])
	if err != nil {
		return errs.Wrap(errs.ErrScene, s.Name(), "measure layer", layers[0], err)
	}
	offsetY := dims.Y / stackupOffsetYDivisor
	offsetZ := dims.X / stackupOffsetZDivisor

	scope := &overrides.Scope{}
	defer releaseScope(ctx, scope, &err)
	if err := scope.Acquire(ctx, func(ctx context.Context) (overrides.Restore, error) {
		return overrides.FilmTransparent(ctx, eng, true)
	}); err != nil {
		return err
	}

	// Solder mask off, so inner copper reads through the staircase. Not
	// every board export carries the switch node.
	if _, nodeErr := eng.NodeValue(ctx, "Color_group", "Solder_Switch"); nodeErr == nil {
		if err := scope.Acquire(ctx, func(ctx context.Context) (overrides.Restore, error) {
			return overrides.NodeValue(ctx, eng, "Color_group", "Solder_Switch", 0)
		}); err != nil {
			return err
		}
	} else {
		s.rt.Logger.Debug("solder switch node not present", logging.Error(nodeErr))
	}

	position := st.Positions[0]
	camera := st.Cameras[0]
	if err := st.ChangePosition(ctx, position); err != nil {
		return err
	}
	if err := st.AlignBackgrounds(ctx); err != nil {
		return err
	}
	if err := st.UseBackground(ctx, st.Backgrounds[0]); err != nil {
		return err
	}

	if err := s.explodeLayers(ctx, scope, layers, offsetY, offsetZ); err != nil {
		return err
	}

	// Reframe on the exploded stack; the saved pose fits the flat board.
	if err := eng.FrameTarget(ctx, camera.ObjectName, st.Rendered, 1); err != nil {
		return errs.Wrap(errs.ErrScene, s.Name(), "frame stack", camera.Name, err)
	}

	// Start from nothing visible and reveal one layer per still.
	hiddenObjects := append([]string(nil), layers...)
	for _, component := range st.Components() {
		hiddenObjects = append(hiddenObjects, component.Object)
	}
	if err := scope.Acquire(ctx, func(ctx context.Context) (overrides.Restore, error) {
		return overrides.Visibility(ctx, eng, scene.ObjectRenderState{}, hiddenObjects...)
	}); err != nil {
		return err
	}

	s.rt.Tracker.SetTotal(len(layers))
	for idx, layer := range layers {
		if err := eng.SetObjectRenderState(ctx, layer, scene.ObjectRenderState{Visible: true}); err != nil {
			return errs.Wrap(errs.ErrScene, s.Name(), "reveal layer", layer, err)
		}
		name := fmt.Sprintf("layer%d", len(layers)-idx)
		if err := renderer.Still(ctx, camera.ObjectName, name); err != nil {
			return err
		}
		s.rt.Tracker.Advance()
	}
	return nil
}

// boardLayers lists the Board collection's layer meshes sorted by their
// trailing layer number.
func (s *Stackup) boardLayers(ctx context.Context) ([]string, error) {
	eng := s.rt.Studio.Engine()
	members, err := eng.CollectionObjects(ctx, studio.BoardCollection)
	if err != nil {
		return nil, errs.Wrap(errs.ErrScene, s.Name(), "list board layers", "", err)
	}
	var layers []string
	for _, member := range members {
		if strings.Contains(member, layerStem) {
			layers = append(layers, member)
		}
	}
	sort.Slice(layers, func(i, j int) bool {
		return layerNumber(layers[i]) < layerNumber(layers[j])
	})
	return layers, nil
}

// explodeLayers offsets each layer along y and z by its index, registering
// a restore that puts every layer back where it was. A mid-explode failure
// rolls the already moved layers back before the error surfaces.
func (s *Stackup) explodeLayers(ctx context.Context, scope *overrides.Scope, layers []string, offsetY, offsetZ float64) error {
	eng := s.rt.Studio.Engine()
	return scope.Acquire(ctx, func(ctx context.Context) (overrides.Restore, error) {
		moved := make(map[string]scene.Vec3, len(layers))
		restore := func(ctx context.Context) error {
			for layer, location := range moved {
				if err := eng.SetObjectLocation(ctx, layer, location); err != nil {
					return fmt.Errorf("restore layer %s: %w", layer, err)
				}
			}
			return nil
		}
		for idx, layer := range layers {
			if idx == 0 {
				continue
			}
			location, err := eng.ObjectLocation(ctx, layer)
			if err == nil {
				moved[layer] = location
				step := float64(idx)
				if idx == len(layers)-1 {
					step = float64(idx - 1)
				}
				err = eng.SetObjectLocation(ctx, layer, scene.Vec3{
					X: location.X,
					Y: location.Y + step*offsetY,
					Z: location.Z + step*offsetZ,
				})
			}
			if err != nil {
				restoreErr := restore(ctx)
				if restoreErr != nil {
					return nil, fmt.Errorf("explode layer %s: %w (rollback: %v)", layer, err, restoreErr)
				}
				return nil, fmt.Errorf("explode layer %s: %w", layer, err)
			}
		}
		return restore, nil
	})
}

// layerNumber extracts the trailing digits of a layer mesh name.
func layerNumber(name string) int {
	idx := len(name)
	for idx > 0 && name[idx-1] >= '0' && name[idx-1] <= '9' {
		idx--
	}
	number, _ := strconv.Atoi(name[idx:])
	return number
}
