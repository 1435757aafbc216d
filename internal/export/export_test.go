package export_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cinetag/internal/cinematic"
	"cinetag/internal/export"
	"cinetag/internal/history"
	"cinetag/internal/services"
	"cinetag/internal/tag"
	"cinetag/internal/testsupport"
)

const identity = "[1,0,0,0, 0,1,0,0, 0,0,1,0, 0,0,0,1]"

func snapshotYAML(asset string, objects ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "asset: %s\n", asset)
	b.WriteString("shots:\n")
	b.WriteString("  - frames:\n")
	for i := 0; i < 3; i++ {
		fmt.Fprintf(&b, "      - matrix: %s\n        dof: {use_dof: true, focus_distance: 5, aperture_fstop: 2.8}\n", identity)
	}
	b.WriteString("  - frames: []\n")
	b.WriteString("objects:\n")
	for _, obj := range objects {
		fmt.Fprintf(&b, "  - %s\n", obj)
	}
	return b.String()
}

func objectNames(t *testing.T, tg *tag.Tag) string {
	t.Helper()
	var names []string
	for _, el := range tg.Block("objects").Elements() {
		name, err := el.String("name")
		if err != nil {
			t.Fatalf("read name: %v", err)
		}
		names = append(names, name)
	}
	return strings.Join(names, ",")
}

func TestExportSplitWritesBothTags(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	testsupport.WriteTagStub(t, cfg.Paths.TagsDir, "objects/characters/chief/chief.model_animation_graph")
	testsupport.WriteTagStub(t, cfg.Paths.TagsDir, "objects/characters/chief/chief.biped")
	snap := testsupport.WriteSnapshot(t, testsupport.BaseDir(cfg), "intro.yaml", snapshotYAML("objects/cinematics/intro",
		"{name: chief, animation_graph: objects/characters/chief/chief, object_type: objects/characters/chief/chief}",
		"{name: 'rig:crate', shot_visibility: {0: false}}",
	))

	exp := export.New(cfg, nil, store)
	res, err := exp.Export(context.Background(), snap, export.Options{})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if res.Schema != cinematic.SchemaSplit || res.Scene != "intro_000" || res.RunID == "" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Summary.Frames != 3 || res.Summary.Added != 2 {
		t.Fatalf("unexpected summary %+v", res.Summary)
	}

	sceneTag, err := tag.Load(res.Paths.Tag)
	if err != nil {
		t.Fatalf("load scene tag: %v", err)
	}
	if got := objectNames(t, sceneTag); got != "chief,rig_crate" {
		t.Fatalf("scene objects = %q", got)
	}
	dataTag, err := tag.Load(res.Paths.DataTag)
	if err != nil {
		t.Fatalf("load data tag: %v", err)
	}
	if dataTag.Group() != cinematic.GroupSceneData {
		t.Fatalf("data tag group = %q", dataTag.Group())
	}
	if got := objectNames(t, dataTag); got != "chief,rig_crate" {
		t.Fatalf("data objects = %q", got)
	}
	if _, err := os.Stat(res.Paths.Qua); !os.IsNotExist(err) {
		t.Fatalf("qua file should not be written, stat err=%v", err)
	}

	records, err := store.List(context.Background(), history.Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 || records[0].Outcome != services.OutcomeSuccess || records[0].RunID != res.RunID {
		t.Fatalf("unexpected history %#v", records)
	}
}

func TestExportLegacyWithQua(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithEngine("legacy"), testsupport.WithQua(), testsupport.WithoutHistory())
	snap := testsupport.WriteSnapshot(t, testsupport.BaseDir(cfg), "intro.yaml", snapshotYAML("objects/cinematics/intro", "{name: chief}"))

	res, err := export.New(cfg, nil, nil).Export(context.Background(), snap, export.Options{})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if res.Paths.DataTag != "" {
		t.Fatalf("legacy export has no data tag, got %s", res.Paths.DataTag)
	}
	if !res.QuaFile {
		t.Fatal("expected qua output")
	}
	data, err := os.ReadFile(res.Paths.Qua)
	if err != nil {
		t.Fatalf("read qua: %v", err)
	}
	if !strings.HasPrefix(string(data), ";### VERSION ###") {
		t.Fatalf("unexpected qua content %q", string(data))
	}
	if _, err := tag.Load(res.Paths.Tag); err != nil {
		t.Fatalf("load scene tag: %v", err)
	}
}

func TestExportEngineOverride(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutHistory())
	snap := testsupport.WriteSnapshot(t, testsupport.BaseDir(cfg), "intro.yaml", snapshotYAML("a/intro", "{name: chief}"))

	res, err := export.New(cfg, nil, nil).Export(context.Background(), snap, export.Options{Engine: "old"})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if res.Schema != cinematic.SchemaLegacy {
		t.Fatalf("schema = %s, want legacy", res.Schema)
	}
}

func TestExportReconcilesExistingTag(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutHistory())
	base := testsupport.BaseDir(cfg)
	exp := export.New(cfg, nil, nil)

	first := testsupport.WriteSnapshot(t, base, "v1.yaml", snapshotYAML("a/intro", "{name: A}", "{name: B}", "{name: C}"))
	if _, err := exp.Export(context.Background(), first, export.Options{}); err != nil {
		t.Fatalf("first export: %v", err)
	}
	second := testsupport.WriteSnapshot(t, base, "v2.yaml", snapshotYAML("a/intro", "{name: B}", "{name: C}", "{name: D}"))
	res, err := exp.Export(context.Background(), second, export.Options{Backup: true})
	if err != nil {
		t.Fatalf("second export: %v", err)
	}
	if res.Summary.Removed != 1 || res.Summary.Added != 1 {
		t.Fatalf("unexpected summary %+v", res.Summary)
	}
	for _, path := range []string{res.Paths.Tag, res.Paths.DataTag} {
		tg, err := tag.Load(path)
		if err != nil {
			t.Fatalf("load %s: %v", path, err)
		}
		if got := objectNames(t, tg); got != "B,C,D" {
			t.Fatalf("%s objects = %q, want B,C,D", filepath.Base(path), got)
		}
		backup, err := tag.Load(path + ".bak")
		if err != nil {
			t.Fatalf("load backup: %v", err)
		}
		if got := objectNames(t, backup); got != "A,B,C" {
			t.Fatalf("backup objects = %q", got)
		}
	}
}

func TestExportDryRunWritesNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	snap := testsupport.WriteSnapshot(t, testsupport.BaseDir(cfg), "intro.yaml", snapshotYAML("a/intro", "{name: chief}"))

	res, err := export.New(cfg, nil, store).Export(context.Background(), snap, export.Options{DryRun: true, WriteQua: true})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	for _, path := range []string{res.Paths.Tag, res.Paths.DataTag, res.Paths.Qua} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("dry run wrote %s (stat err=%v)", path, err)
		}
	}
	records, err := store.List(context.Background(), history.Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 || !records[0].DryRun {
		t.Fatalf("expected dry-run history record, got %#v", records)
	}
}

func TestExportUnresolvedReferenceLeavesDiskUntouched(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	snap := testsupport.WriteSnapshot(t, testsupport.BaseDir(cfg), "intro.yaml",
		snapshotYAML("a/intro", "{name: elite, animation_graph: objects/characters/elite/elite}"))

	res, err := export.New(cfg, nil, store).Export(context.Background(), snap, export.Options{})
	if !errors.Is(err, tag.ErrUnresolvedReference) || !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected unresolved reference, got %v", err)
	}
	if _, statErr := os.Stat(res.Paths.Tag); !os.IsNotExist(statErr) {
		t.Fatalf("failed export wrote the scene tag (stat err=%v)", statErr)
	}
	records, err := store.List(context.Background(), history.Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 || records[0].Outcome != services.OutcomeInvalid || records[0].ErrorMessage == "" {
		t.Fatalf("unexpected history %#v", records)
	}
}

func TestExportLockedTagConflicts(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutHistory())
	snap := testsupport.WriteSnapshot(t, testsupport.BaseDir(cfg), "intro.yaml", snapshotYAML("a/intro", "{name: chief}"))

	paths := cinematic.ScenePaths(cfg.Paths.TagsDir, "a/intro", cinematic.SchemaSplit)
	held, err := tag.Open(paths.Tag, cinematic.GroupScene)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer held.Close()

	_, err = export.New(cfg, nil, nil).Export(context.Background(), snap, export.Options{})
	if !errors.Is(err, tag.ErrLocked) || !errors.Is(err, services.ErrConflict) {
		t.Fatalf("expected lock conflict, got %v", err)
	}
}

func TestExportCanceledBeforeCommit(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutHistory())
	snap := testsupport.WriteSnapshot(t, testsupport.BaseDir(cfg), "intro.yaml", snapshotYAML("a/intro", "{name: chief}"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := export.New(cfg, nil, nil).Export(ctx, snap, export.Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res.Outcome() != services.OutcomeCanceled {
		t.Fatalf("outcome = %s", res.Outcome())
	}
	if _, statErr := os.Stat(res.Paths.Tag); !os.IsNotExist(statErr) {
		t.Fatalf("canceled export wrote the scene tag (stat err=%v)", statErr)
	}
}

func TestExportAllReportsEveryFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutHistory())
	base := testsupport.BaseDir(cfg)
	paths := []string{
		testsupport.WriteSnapshot(t, base, "one.yaml", snapshotYAML("a/one", "{name: chief}")),
		testsupport.WriteSnapshot(t, base, "bad.yaml", "shots: []\n"),
		testsupport.WriteSnapshot(t, base, "two.yaml", snapshotYAML("a/two", "{name: chief}")),
		filepath.Join(base, "missing.yaml"),
	}

	results, err := export.New(cfg, nil, nil).ExportAll(context.Background(), paths, export.Options{})
	if err == nil {
		t.Fatal("expected joined error")
	}
	if len(results) != len(paths) {
		t.Fatalf("results = %d, want %d", len(results), len(paths))
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Fatalf("good snapshots failed: %v / %v", results[0].Err, results[2].Err)
	}
	if !errors.Is(results[1].Err, services.ErrValidation) {
		t.Fatalf("bad snapshot error = %v", results[1].Err)
	}
	if !errors.Is(results[3].Err, services.ErrNotFound) {
		t.Fatalf("missing snapshot error = %v", results[3].Err)
	}
	if !strings.Contains(err.Error(), "bad.yaml") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("joined error misses a failure: %v", err)
	}
	for _, i := range []int{0, 2} {
		if _, statErr := os.Stat(results[i].Paths.DataTag); statErr != nil {
			t.Fatalf("expected data tag for %s: %v", results[i].Scene, statErr)
		}
	}
}
