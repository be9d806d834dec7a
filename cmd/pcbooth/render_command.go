package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"pcbooth/internal/config"
	"pcbooth/internal/deps"
	"pcbooth/internal/errs"
	"pcbooth/internal/job"
	"pcbooth/internal/ledger"
	"pcbooth/internal/logging"
	"pcbooth/internal/pipeline"
	"pcbooth/internal/preflight"
	"pcbooth/internal/scene/bridge"
	"pcbooth/internal/studio"
)

type renderOptions struct {
	jobName  string
	logLevel string
	logFile  string
	noLedger bool
}

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render <scene file>",
		Short: "Render the configured outputs for a scene",
		Long: "Render runs the configured job list against a scene file: preflight\n" +
			"checks, bridge startup, studio resolution, then each output job in\n" +
			"order. The run halts on the first failing job; earlier outputs are kept.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, ctx, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.jobName, "job", "", "Run a single named job instead of the configured outputs")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Override the configured log level")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "Append logs to this file in addition to the console")
	cmd.Flags().BoolVar(&opts.noLedger, "no-ledger", false, "Skip run history recording for this run")

	return cmd
}

func runRender(cmd *cobra.Command, cmdCtx *commandContext, sceneArg string, opts renderOptions) error {
	runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return err
	}
	applyLogOverrides(cfg, opts)

	scenePath, err := filepath.Abs(sceneArg)
	if err != nil {
		return fmt.Errorf("resolve scene path: %w", err)
	}
	sceneDir := filepath.Dir(scenePath)

	// Output directories resolve against the scene location. Rewrite the
	// settings so preflight and the render environment agree on one answer.
	rendersDir, animationsDir := cfg.OutputPaths(sceneDir)
	cfg.Settings.RenderDir = rendersDir
	cfg.Settings.AnimationDir = animationsDir

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	entries, err := resolveJobEntries(cfg, opts.jobName)
	if err != nil {
		return err
	}

	if err := reportPreflight(cmd, runCtx, cfg, scenePath); err != nil {
		return err
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

	var history *ledger.Ledger
	if cfg.Ledger.Enabled && !opts.noLedger {
		history, err = ledger.Open(cfg.Ledger.Path)
		if err != nil {
			logger.Warn("run history unavailable", logging.Error(err))
		} else {
			defer history.Close()
		}
	}

	deps := &pipeline.Deps{
		Env: &job.Env{
			Engine:        engine,
			Config:        cfg,
			Logger:        logger,
			RendersDir:    rendersDir,
			AnimationsDir: animationsDir,
		},
		Studio:    st,
		Ledger:    history,
		Project:   project,
		ScenePath: scenePath,
		Preset:    cmdCtx.presetValue(),
		Logger:    logger,
	}

	report, runErr := pipeline.Run(runCtx, deps, entries)
	printRunReport(cmd, report)
	return runErr
}

func applyLogOverrides(cfg *config.Config, opts renderOptions) {
	if level := strings.TrimSpace(opts.logLevel); level != "" {
		cfg.Log.Level = level
	}
	if file := strings.TrimSpace(opts.logFile); file != "" {
		cfg.Log.File = file
	}
}

// resolveJobEntries returns the configured outputs, or a single entry with
// default parameters when --job names one directly.
func resolveJobEntries(cfg *config.Config, jobName string) ([]config.JobEntry, error) {
	name := strings.ToUpper(strings.TrimSpace(jobName))
	if name == "" {
		return cfg.JobEntries(), nil
	}
	if _, err := job.Discover(name); err != nil {
		return nil, err
	}
	return []config.JobEntry{{Name: name, Params: map[string]any{}}}, nil
}

// projectName derives the PCB project name the scene's board object should
// carry. A KiCad project file next to the scene wins; otherwise the scene
// file stem is used.
func projectName(scenePath, projectExtension string) string {
	sceneDir := filepath.Dir(scenePath)
	if projectExtension != "" {
		matches, err := filepath.Glob(filepath.Join(sceneDir, "*"+projectExtension))
		if err == nil && len(matches) > 0 {
			sort.Strings(matches)
			return strings.TrimSuffix(filepath.Base(matches[0]), projectExtension)
		}
	}
	base := filepath.Base(scenePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func reportPreflight(cmd *cobra.Command, ctx context.Context, cfg *config.Config, scenePath string) error {
	results := preflight.RunAll(ctx, cfg, scenePath)
	results = append(results, binaryResults(preflight.CheckSystemDeps(ctx, cfg))...)

	rows := make([][]string, 0, len(results))
	for _, res := range results {
		rows = append(rows, []string{res.Name, checkLabel(res.Passed), res.Detail})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Check", "Status", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft},
	))

	if failed := preflight.Failed(results); len(failed) > 0 {
		return errs.Wrap(errs.ErrConfig, "", "preflight",
			strconv.Itoa(len(failed))+" check(s) failed", nil)
	}
	return nil
}

// binaryResults folds binary availability into the preflight result shape so
// one table covers both.
func binaryResults(statuses []deps.Status) []preflight.Result {
	results := make([]preflight.Result, 0, len(statuses))
	for _, status := range statuses {
		detail := status.Detail
		if detail == "" {
			detail = status.Command
		}
		results = append(results, preflight.Result{
			Name:   status.Name,
			Passed: status.Available || status.Optional,
			Detail: detail,
		})
	}
	return results
}

func checkLabel(passed bool) string {
	if passed {
		if stdoutIsTerminal() {
			return text.FgGreen.Sprint("ok")
		}
		return "ok"
	}
	if stdoutIsTerminal() {
		return text.FgRed.Sprint("failed")
	}
	return "failed"
}

func printRunReport(cmd *cobra.Command, report *pipeline.RunReport) {
	out := cmd.OutOrStdout()
	if report == nil || len(report.Jobs) == 0 {
		return
	}

	rows := make([][]string, 0, len(report.Jobs))
	for _, jobReport := range report.Jobs {
		detail := ""
		if jobReport.Err != nil {
			detail = jobReport.Err.Error()
		}
		rows = append(rows, []string{
			jobReport.Name,
			strings.ToLower(string(jobReport.Status)),
			fmt.Sprintf("%d/%d", jobReport.Renders, jobReport.Total),
			jobReport.Elapsed.Round(time.Millisecond).String(),
			detail,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Job", "Status", "Renders", "Elapsed", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	))

	summary := fmt.Sprintf("%d job(s), %d render(s) in %s",
		len(report.Jobs), report.Renders(), report.Elapsed.Round(time.Millisecond))
	if report.RunID != "" {
		summary += " (run " + report.RunID + ")"
	}
	fmt.Fprintln(out, summary)
}
