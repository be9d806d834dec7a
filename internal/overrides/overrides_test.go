package overrides_test

import (
	"context"
	"testing"

	"pcbooth/internal/overrides"
	"pcbooth/internal/scene"
	"pcbooth/internal/scene/scenetest"
)

func TestFastPreviewRestoresQuality(t *testing.T) {
	ctx := context.Background()
	eng := scenetest.NewEngine()
	before := eng.GlobalRenderState()

	restore, err := overrides.FastPreview(ctx, eng)
	if err != nil {
		t.Fatal(err)
	}

	preview := eng.GlobalRenderState()
	if preview.Samples != 1 || preview.Denoise || preview.MaxBounces != 0 || preview.WorldRays {
		t.Fatalf("preview state not applied: %+v", preview)
	}

	if err := restore(ctx); err != nil {
		t.Fatal(err)
	}
	if got := eng.GlobalRenderState(); got != before {
		t.Fatalf("render state not restored: got %+v, want %+v", got, before)
	}
}

func TestFilmTransparentKeepsOtherFields(t *testing.T) {
	ctx := context.Background()
	eng := scenetest.NewEngine()
	before := eng.GlobalRenderState()

	restore, err := overrides.FilmTransparent(ctx, eng, true)
	if err != nil {
		t.Fatal(err)
	}

	got := eng.GlobalRenderState()
	if !got.FilmTransparent {
		t.Fatal("film transparency not applied")
	}
	if got.Samples != before.Samples || got.Denoise != before.Denoise {
		t.Fatalf("unrelated quality fields changed: %+v", got)
	}

	if err := restore(ctx); err != nil {
		t.Fatal(err)
	}
	if eng.GlobalRenderState() != before {
		t.Fatal("render state not restored")
	}
}

func TestVisibilityAppliesAndRestores(t *testing.T) {
	ctx := context.Background()
	eng := scenetest.NewEngine()
	eng.AddObject("C1")
	eng.AddObject("C2")

	hidden := scene.ObjectRenderState{Visible: false}
	restore, err := overrides.Visibility(ctx, eng, hidden, "C1", "C2")
	if err != nil {
		t.Fatal(err)
	}
	if eng.Object("C1").RenderState.Visible || eng.Object("C2").RenderState.Visible {
		t.Fatal("objects still visible after override")
	}

	if err := restore(ctx); err != nil {
		t.Fatal(err)
	}
	if !eng.Object("C1").RenderState.Visible || !eng.Object("C2").RenderState.Visible {
		t.Fatal("visibility not restored")
	}
}

func TestVisibilityRollsBackOnMidApplyFailure(t *testing.T) {
	ctx := context.Background()
	eng := scenetest.NewEngine()
	eng.AddObject("C1")

	hidden := scene.ObjectRenderState{Visible: false}
	_, err := overrides.Visibility(ctx, eng, hidden, "C1", "missing")
	if err == nil {
		t.Fatal("expected error for missing object")
	}
	if !eng.Object("C1").RenderState.Visible {
		t.Fatal("C1 left hidden after failed acquisition")
	}
}

func TestScopeReleasesInReverseOrder(t *testing.T) {
	ctx := context.Background()
	eng := scenetest.NewEngine()
	eng.SeedNodeValue("Color_group", "Solder_Switch", 0)

	var scope overrides.Scope
	acquire := func(value float64) {
		t.Helper()
		err := scope.Acquire(ctx, func(ctx context.Context) (overrides.Restore, error) {
			return overrides.NodeValue(ctx, eng, "Color_group", "Solder_Switch", value)
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	acquire(1)
	acquire(2)

	if scope.Len() != 2 {
		t.Fatalf("scope holds %d overrides, want 2", scope.Len())
	}
	if err := scope.Release(ctx); err != nil {
		t.Fatal(err)
	}

	got, err := eng.NodeValue(ctx, "Color_group", "Solder_Switch")
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Fatalf("node value = %v after release, want 0 (reverse-order restore)", got)
	}
	if scope.Len() != 0 {
		t.Fatal("scope not emptied by release")
	}
}

func TestScopeReleasesOnFailedAcquire(t *testing.T) {
	ctx := context.Background()
	eng := scenetest.NewEngine()
	eng.SeedNodeValue("Color_group", "Solder_Switch", 0)

	var scope overrides.Scope
	err := scope.Acquire(ctx, func(ctx context.Context) (overrides.Restore, error) {
		return overrides.NodeValue(ctx, eng, "Color_group", "Solder_Switch", 1)
	})
	if err != nil {
		t.Fatal(err)
	}

	err = scope.Acquire(ctx, func(ctx context.Context) (overrides.Restore, error) {
		return overrides.NodeValue(ctx, eng, "Missing_group", "Input", 1)
	})
	if err == nil {
		t.Fatal("expected error for missing node group")
	}

	got, _ := eng.NodeValue(ctx, "Color_group", "Solder_Switch")
	if got != 0 {
		t.Fatalf("node value = %v after failed acquire, want 0", got)
	}
	if scope.Len() != 0 {
		t.Fatal("failed acquire must release the scope")
	}
}

func TestUserAnimationScope(t *testing.T) {
	ctx := context.Background()
	eng := scenetest.NewEngine()
	eng.SeedUserAnimation(5, 50)

	stash, err := eng.StashAnimation(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stash.Empty {
		t.Fatal("stash should hold the seeded keyframes")
	}
	if eng.AnimationAttached() {
		t.Fatal("animation still attached after stash")
	}

	restore, err := overrides.UserAnimation(ctx, eng, stash)
	if err != nil {
		t.Fatal(err)
	}
	if !eng.AnimationAttached() {
		t.Fatal("user animation not restored inside scope")
	}
	start, end, err := eng.FrameRange(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if start != 5 || end != 50 {
		t.Fatalf("frame range = %d..%d, want 5..50", start, end)
	}
	if eng.CurrentFrame() != 5 {
		t.Fatalf("current frame = %d, want 5", eng.CurrentFrame())
	}

	if err := restore(ctx); err != nil {
		t.Fatal(err)
	}
	if eng.AnimationAttached() {
		t.Fatal("animation left attached after scope exit")
	}
	if eng.HeldStashes() != 1 {
		t.Fatalf("stash count = %d after exit, want 1 (stash stays held)", eng.HeldStashes())
	}
	start, end, _ = eng.FrameRange(ctx)
	if start != 1 || end != 1 {
		t.Fatalf("frame range = %d..%d after exit, want 1..1", start, end)
	}
}

func TestEveryOverrideRestoresAroundFailingBody(t *testing.T) {
	ctx := context.Background()
	eng := scenetest.NewEngine()
	eng.AddObject("C1")
	eng.SeedNodeValue("Color_group", "Solder_Switch", 0.25)

	type snapshot struct {
		render     scene.RenderState
		compositor string
		material   string
		node       float64
		visible    bool
	}
	take := func() snapshot {
		node, err := eng.NodeValue(ctx, "Color_group", "Solder_Switch")
		if err != nil {
			t.Fatal(err)
		}
		return snapshot{
			render:     eng.GlobalRenderState(),
			compositor: eng.Compositor(),
			material:   eng.ActiveMaterialOverride(),
			node:       node,
			visible:    eng.Object("C1").RenderState.Visible,
		}
	}
	before := take()

	var scope overrides.Scope
	steps := []func(ctx context.Context) (overrides.Restore, error){
		func(ctx context.Context) (overrides.Restore, error) { return overrides.FastPreview(ctx, eng) },
		func(ctx context.Context) (overrides.Restore, error) {
			return overrides.Compositing(ctx, eng, scene.CompositorBWMask)
		},
		func(ctx context.Context) (overrides.Restore, error) {
			return overrides.MaterialOverride(ctx, eng, "_override")
		},
		func(ctx context.Context) (overrides.Restore, error) {
			return overrides.NodeValue(ctx, eng, "Color_group", "Solder_Switch", 1)
		},
		func(ctx context.Context) (overrides.Restore, error) {
			return overrides.Visibility(ctx, eng, scene.ObjectRenderState{Visible: false, Holdout: true}, "C1")
		},
	}
	for _, step := range steps {
		if err := scope.Acquire(ctx, step); err != nil {
			t.Fatal(err)
		}
	}

	if err := scope.Release(ctx); err != nil {
		t.Fatal(err)
	}

	if after := take(); after != before {
		t.Fatalf("engine state diverged after release:\n before %+v\n after  %+v", before, after)
	}
}
