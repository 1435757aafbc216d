package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cinetag/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	tagsDir    string
	configPath string
}

func setupCLITestEnv(t *testing.T, extra string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("CINETAG_TAGS_DIR", "")
	env := &cliTestEnv{
		baseDir:    base,
		tagsDir:    filepath.Join(base, "tags"),
		configPath: filepath.Join(base, "cinetag.toml"),
	}
	testsupport.MkdirAll(t, env.tagsDir)
	content := fmt.Sprintf("[paths]\ntags_dir = %q\ndata_dir = %q\nlog_dir = %q\n%s",
		env.tagsDir,
		filepath.Join(base, "data"),
		filepath.Join(base, "logs"),
		extra,
	)
	testsupport.WriteFile(t, env.configPath, []byte(content))
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

const introSnapshot = `asset: objects/cinematics/intro
shots:
  - frames:
      - matrix: [1,0,0,0, 0,1,0,0, 0,0,1,0, 0,0,0,1]
        dof: {use_dof: true, focus_distance: 5, aperture_fstop: 2.8}
objects:
  - name: chief
    shot_visibility: {0: true}
  - name: "rig:crate"
`

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t, "")

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
}

func TestConfigShow(t *testing.T) {
	env := setupCLITestEnv(t, "[export]\nengine = \"legacy\"\n")
	out, _, err := runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "legacy")
	requireContains(t, out, env.tagsDir)
}

func TestOpticsCommand(t *testing.T) {
	out, _, err := runCLI(t, []string{"optics", "--focus", "5", "--aperture", "2.8"}, "")
	if err != nil {
		t.Fatalf("optics: %v", err)
	}
	requireContains(t, out, "Hyperfocal distance")
	requireContains(t, out, "29761.9048")
	requireContains(t, out, "Engine focal length (split)")

	if _, _, err := runCLI(t, []string{"optics", "--focus", "50", "--focal-length", "50"}, ""); err == nil {
		t.Fatal("expected degenerate optics error")
	}
}

func TestExportInspectAndHistory(t *testing.T) {
	env := setupCLITestEnv(t, "")
	snap := testsupport.WriteSnapshot(t, env.baseDir, "intro.yaml", introSnapshot)

	out, _, err := runCLI(t, []string{"export", snap}, env.configPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	requireContains(t, out, "intro_000")
	requireContains(t, out, "success")

	dataTag := filepath.Join(env.tagsDir, "objects", "cinematics", "intro", "intro_000.cinematic_scene_data")
	out, _, err = runCLI(t, []string{"inspect", dataTag}, "")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	requireContains(t, out, "cinematic_scene_data")
	requireContains(t, out, "Objects (2)")
	requireContains(t, out, "rig_crate")

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "intro_000")
	requireContains(t, out, "split")
}

func TestExportDryRunAndFailure(t *testing.T) {
	env := setupCLITestEnv(t, "")
	snap := testsupport.WriteSnapshot(t, env.baseDir, "intro.yaml", introSnapshot)

	out, _, err := runCLI(t, []string{"export", "--dry-run", "--engine", "legacy", snap}, env.configPath)
	if err != nil {
		t.Fatalf("export --dry-run: %v", err)
	}
	requireContains(t, out, "Dry run")
	requireContains(t, out, "legacy")
	if _, err := os.Stat(filepath.Join(env.tagsDir, "objects", "cinematics", "intro", "intro_000.cinematic_scene")); !os.IsNotExist(err) {
		t.Fatalf("dry run wrote the scene tag (stat err=%v)", err)
	}

	bad := testsupport.WriteSnapshot(t, env.baseDir, "bad.yaml", "shots: []\n")
	out, _, err = runCLI(t, []string{"export", bad}, env.configPath)
	if err == nil {
		t.Fatal("expected export failure")
	}
	requireContains(t, out, "invalid")
}

func TestHistoryDisabled(t *testing.T) {
	env := setupCLITestEnv(t, "[history]\nenabled = false\n")
	if _, _, err := runCLI(t, []string{"history"}, env.configPath); err != errHistoryDisabled {
		t.Fatalf("expected errHistoryDisabled, got %v", err)
	}
}

func TestExportRequiresSnapshot(t *testing.T) {
	env := setupCLITestEnv(t, "")
	if _, _, err := runCLI(t, []string{"export"}, env.configPath); err == nil {
		t.Fatal("expected argument error")
	}
}

func TestCheckCommand(t *testing.T) {
	env := setupCLITestEnv(t, "")
	testsupport.WriteTagStub(t, env.tagsDir, "objects/characters/chief/chief.biped")

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	requireContains(t, out, "Tags root")
	requireContains(t, out, "(1 tags)")
	requireContains(t, out, "Export history")

	if err := os.RemoveAll(env.tagsDir); err != nil {
		t.Fatal(err)
	}
	out, _, err = runCLI(t, []string{"check"}, env.configPath)
	if err == nil {
		t.Fatal("expected check failure without a tags root")
	}
	requireContains(t, out, "FAIL")

	snap := testsupport.WriteSnapshot(t, env.baseDir, "intro.yaml", introSnapshot)
	if _, _, err := runCLI(t, []string{"export", snap}, env.configPath); err == nil || !strings.Contains(err.Error(), "Tags root") {
		t.Fatalf("expected export to stop at preflight, got %v", err)
	}
}

func TestCommandContextClosesLogFiles(t *testing.T) {
	env := setupCLITestEnv(t, "")
	configPath := env.configPath
	ctx := newCommandContext(&configPath)

	logger, err := ctx.logger()
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	logger.Info("context logger ready")
	if len(ctx.closers) != 1 {
		t.Fatalf("expected one log file closer, got %d", len(ctx.closers))
	}
	if err := ctx.close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if len(ctx.closers) != 0 {
		t.Fatal("expected closers to be released")
	}

	content, err := os.ReadFile(filepath.Join(env.baseDir, "logs", "cinetag.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	requireContains(t, string(content), "context logger ready")
}
