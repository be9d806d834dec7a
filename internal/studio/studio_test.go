package studio_test

import (
	"context"
	"errors"
	"testing"

	"pcbooth/internal/errs"
	"pcbooth/internal/scene/scenetest"
	"pcbooth/internal/studio"
	"pcbooth/internal/testsupport"
)

func TestResolveRecognizesPCB(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	eng := testsupport.NewPCBEngine(t, "board")

	st := testsupport.ResolveStudio(t, eng, cfg, "board")
	if !st.IsPCB {
		t.Fatal("expected PCB recognition")
	}
	if st.Object != "board" || st.Rendered != "board" {
		t.Errorf("unexpected object/rendered: %s/%s", st.Object, st.Rendered)
	}
	if len(st.TopComponents) != 3 {
		t.Errorf("expected 3 top components, got %d", len(st.TopComponents))
	}
	if len(st.BottomComponents) != 1 {
		t.Errorf("expected 1 bottom component, got %d", len(st.BottomComponents))
	}
	if got := len(st.Components()); got != 4 {
		t.Errorf("expected 4 deduplicated components, got %d", got)
	}
}

func TestResolveEnabledDimensions(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCameras("TOP", "PHOTO1"))
	eng := testsupport.NewPCBEngine(t, "board")

	st := testsupport.ResolveStudio(t, eng, cfg, "board")
	if len(st.Cameras) != 2 {
		t.Fatalf("expected 2 enabled cameras, got %d", len(st.Cameras))
	}
	if st.Cameras[0].Name != "TOP" || st.Cameras[1].Name != "PHOTO1" {
		t.Errorf("unexpected camera order: %s, %s", st.Cameras[0].Name, st.Cameras[1].Name)
	}
	if st.Cameras[1].Key() != "photo1" {
		t.Errorf("unexpected camera key: %s", st.Cameras[1].Key())
	}
	if len(st.Positions) != 1 || st.Positions[0] != studio.PositionTop {
		t.Errorf("unexpected positions: %v", st.Positions)
	}
	if len(st.Backgrounds) != 1 || st.Backgrounds[0].Name != "paper_black" {
		t.Errorf("unexpected backgrounds: %v", st.Backgrounds)
	}
}

func TestResolveRigsAllPresets(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	eng := testsupport.NewPCBEngine(t, "board")

	st := testsupport.ResolveStudio(t, eng, cfg, "board")
	// Disabled presets stay rigged so jobs can override to them.
	front, ok := st.Camera("front")
	if !ok {
		t.Fatal("expected FRONT camera rigged despite being disabled")
	}
	for _, position := range studio.AllPositions {
		if _, ok := front.PoseAt(position); !ok {
			t.Errorf("expected FRONT pose at %s", position)
		}
	}
	if eng.Object("camera_front") == nil {
		t.Error("expected camera_front object created")
	}
}

func TestResolveUnknownBackground(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithBackgrounds("no_such_backdrop"))
	eng := testsupport.NewPCBEngine(t, "board")

	_, err := studio.Resolve(context.Background(), eng, cfg, "board", nil)
	if err == nil {
		t.Fatal("expected error for unknown background")
	}
	if !errors.Is(err, errs.ErrMissingAsset) {
		t.Fatalf("expected ErrMissingAsset, got %v", err)
	}
}

func TestResolveUnrecognizedSceneGroupsContent(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithBackgrounds())
	eng := scenetest.NewEngine()
	eng.AddObject("gear")
	eng.AddObject("housing")

	st := testsupport.ResolveStudio(t, eng, cfg, "enclosure")
	if st.IsPCB {
		t.Fatal("expected non-PCB scene")
	}
	if st.Object != "_parent" {
		t.Errorf("expected grouped parent, got %s", st.Object)
	}
	// Every model object doubles as a component on both sides.
	if len(st.TopComponents) != 2 || len(st.BottomComponents) != 2 {
		t.Errorf("unexpected component index: %d top, %d bottom",
			len(st.TopComponents), len(st.BottomComponents))
	}
}

func TestResolveSingleObjectScene(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithBackgrounds())
	eng := scenetest.NewEngine()
	eng.AddObject("gear")

	st := testsupport.ResolveStudio(t, eng, cfg, "gear_project")
	if st.Rendered != "gear" {
		t.Errorf("expected single object rendered, got %s", st.Rendered)
	}
}

func TestResolveDetachesUserAnimation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	eng := testsupport.NewPCBEngine(t, "board")
	eng.SeedUserAnimation(5, 40)

	st := testsupport.ResolveStudio(t, eng, cfg, "board")
	if st.Stash.Empty {
		t.Fatal("expected non-empty stash for keyframed scene")
	}
	if st.Stash.Start != 5 || st.Stash.End != 40 {
		t.Errorf("unexpected stash span: %d..%d", st.Stash.Start, st.Stash.End)
	}
	if eng.AnimationAttached() {
		t.Error("expected user keyframes detached after resolve")
	}
}

func TestCloneIsolatesDimensions(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	eng := testsupport.NewPCBEngine(t, "board")
	st := testsupport.ResolveStudio(t, eng, cfg, "board")

	clone := st.Clone()
	clone.Positions = append(clone.Positions[:0], studio.PositionBottom)
	clone.Backgrounds = nil

	if len(st.Positions) != 1 || st.Positions[0] != studio.PositionTop {
		t.Errorf("clone mutation reached the shared studio: %v", st.Positions)
	}
	if len(st.Backgrounds) != 1 {
		t.Errorf("clone mutation reached shared backgrounds: %v", st.Backgrounds)
	}
}

func TestChangePositionRotatesBoard(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	eng := testsupport.NewPCBEngine(t, "board")
	st := testsupport.ResolveStudio(t, eng, cfg, "board")

	if err := st.ChangePosition(context.Background(), studio.PositionBottom); err != nil {
		t.Fatalf("ChangePosition: %v", err)
	}
	want := studio.PositionBottom.Rotation()
	if got := eng.Object("board").Rotation; got != want {
		t.Errorf("unexpected board rotation: %+v", got)
	}
}

func TestUseBackgroundHidesOthers(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	eng := testsupport.NewPCBEngine(t, "board")
	st := testsupport.ResolveStudio(t, eng, cfg, "board")

	background, ok := st.Background("paper_black")
	if !ok {
		t.Fatal("expected paper_black resolvable")
	}
	if err := st.UseBackground(context.Background(), background); err != nil {
		t.Fatalf("UseBackground: %v", err)
	}
	if !eng.Object("paper_black").RenderState.Visible {
		t.Error("expected selected background visible")
	}
	if eng.Object("transparent").RenderState.Visible {
		t.Error("expected other backgrounds hidden")
	}
}

func TestComponentMatchesAny(t *testing.T) {
	component := studio.Component{Object: "J1:conn_02x05", Designator: "J1"}
	if !component.MatchesAny([]string{"J", "U"}) {
		t.Error("expected J1 to match prefix J")
	}
	if component.MatchesAny([]string{"SW", "R"}) {
		t.Error("expected J1 not to match SW or R")
	}
	if component.MatchesAny([]string{""}) {
		t.Error("empty prefix must not match")
	}
}

func TestDesignator(t *testing.T) {
	if got := studio.Designator("C1:0402"); got != "C1" {
		t.Errorf("Designator(C1:0402) = %s", got)
	}
	if got := studio.Designator("Solder"); got != "Solder" {
		t.Errorf("Designator(Solder) = %s", got)
	}
}

func TestPositionSuffix(t *testing.T) {
	if studio.PositionTop.Suffix() != "T" || studio.PositionBottom.Suffix() != "B" || studio.PositionRear.Suffix() != "R" {
		t.Error("unexpected position suffixes")
	}
}
