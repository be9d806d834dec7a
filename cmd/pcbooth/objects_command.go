package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"pcbooth/internal/logging"
	"pcbooth/internal/scene/bridge"
	"pcbooth/internal/studio"
)

func newObjectsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "objects <scene file>",
		Short: "Inspect a scene's rendered object and component index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runObjects(cmd, ctx, args[0], jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable JSON")
	return cmd
}

func runObjects(cmd *cobra.Command, cmdCtx *commandContext, sceneArg string, jsonOutput bool) error {
	runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return err
	}

	// Inspection output is the product here; keep log chatter down to
	// warnings so the tables stay readable.
	logger, err := logging.New(logging.Options{Level: "warn", Format: cfg.Log.Format})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	scenePath, err := filepath.Abs(sceneArg)
	if err != nil {
		return fmt.Errorf("resolve scene path: %w", err)
	}

	engine, err := bridge.Start(runCtx, cfg.Renderer.BridgeBinary, bridge.WithLogger(logger))
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := engine.LoadScene(runCtx, scenePath); err != nil {
		return err
	}

	project := projectName(scenePath, cfg.Settings.ProjectExtension)
	st, err := studio.Resolve(runCtx, engine, cfg, project, logger)
	if err != nil {
		return err
	}

	objects, err := engine.ListObjects(runCtx)
	if err != nil {
		return err
	}

	components := st.Components()

	if jsonOutput {
		type jsonComponent struct {
			Object     string `json:"object"`
			Designator string `json:"designator"`
			Side       string `json:"side"`
		}
		payload := struct {
			Project    string          `json:"project"`
			Object     string          `json:"object"`
			Rendered   string          `json:"rendered"`
			PCB        bool            `json:"pcb"`
			Objects    []string        `json:"objects"`
			Components []jsonComponent `json:"components"`
		}{
			Project:  project,
			Object:   st.Object,
			Rendered: st.Rendered,
			PCB:      st.IsPCB,
			Objects:  objects,
		}
		for _, comp := range components {
			payload.Components = append(payload.Components, jsonComponent{
				Object:     comp.Object,
				Designator: comp.Designator,
				Side:       comp.Side.String(),
			})
		}
		return writeJSON(cmd, payload)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Project:         %s\n", project)
	fmt.Fprintf(out, "Rendered object: %s\n", st.Rendered)
	if st.Object != st.Rendered {
		fmt.Fprintf(out, "Rotation parent: %s\n", st.Object)
	}
	fmt.Fprintf(out, "PCB model:       %s\n", yesNo(st.IsPCB))
	fmt.Fprintln(out)

	if len(components) > 0 {
		rows := make([][]string, 0, len(components))
		for _, comp := range components {
			rows = append(rows, []string{comp.Designator, comp.Object, comp.Side.String()})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Designator", "Object", "Side"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft},
		))
		fmt.Fprintln(out)
	}

	rows := make([][]string, 0, len(objects))
	for _, name := range objects {
		rows = append(rows, []string{name, objectRole(st, name)})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Object", "Role"},
		rows,
		[]columnAlignment{alignLeft, alignLeft},
	))
	return nil
}

// objectRole labels the scene objects the resolver classified; everything
// else is left blank.
func objectRole(st *studio.Studio, name string) string {
	if name == st.Rendered {
		return "rendered object"
	}
	if name == st.Object {
		return "rotation parent"
	}
	if strings.HasPrefix(name, "camera_") {
		return "camera rig"
	}
	for _, comp := range st.TopComponents {
		if comp.Object == name {
			return "component (top)"
		}
	}
	for _, comp := range st.BottomComponents {
		if comp.Object == name {
			return "component (bottom)"
		}
	}
	return ""
}
