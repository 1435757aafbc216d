package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"cinetag/internal/services"
)

const sample = `
asset: objects/cinematics/intro
engine: Split
anchor:
  name: anchor
  matrix: [1,0,0,2, 0,1,0,0, 0,0,1,0, 0,0,0,1]
shots:
  - frames:
      - matrix: [1,0,0,0, 0,1,0,0, 0,0,1,0, 0,0,0,1]
        lens: 35
        dof:
          use_dof: true
          focus_distance: 5
          aperture_fstop: 1.4
      - matrix: [1,0,0,0, 0,1,0,0, 0,0,1,0, 0,0,0,1]
  - frames: []
objects:
  - name: chief
    identifier: chief_01
    animation_graph: objects/characters/chief/chief
    shot_visibility:
      1: false
`

func TestParseAppliesDefaults(t *testing.T) {
	snap, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if snap.Asset != "objects/cinematics/intro" || snap.Engine != "split" {
		t.Fatalf("unexpected header: %+v", snap)
	}
	if snap.SceneName() != "intro_000" {
		t.Fatalf("scene name = %q", snap.SceneName())
	}
	if len(snap.Shots) != 2 || snap.FrameCount() != 2 {
		t.Fatalf("unexpected shots: %d shots, %d frames", len(snap.Shots), snap.FrameCount())
	}
	first := snap.Shots[0].Frames[0]
	if first.Lens != 35 || !first.DOF.Enabled || first.DOF.FStop != 1.4 {
		t.Fatalf("explicit camera values lost: %+v", first)
	}
	second := snap.Shots[0].Frames[1]
	if second.Lens != DefaultLens || second.SensorWidth != DefaultSensorWidth {
		t.Fatalf("lens defaults not applied: %+v", second)
	}
	if second.ClipStart != DefaultClipStart || second.ClipEnd != DefaultClipEnd {
		t.Fatalf("clip defaults not applied: %+v", second)
	}
	if second.DOF.FStop != DefaultFStop || second.DOF.FocusDistance != DefaultFocusDistance {
		t.Fatalf("dof defaults not applied: %+v", second.DOF)
	}
}

func TestObjectVisibilityDefaultsToVisible(t *testing.T) {
	snap, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	chief := snap.Objects[0]
	if !chief.VisibleIn(0) {
		t.Fatal("shot 0 has no entry and should be visible")
	}
	if chief.VisibleIn(1) {
		t.Fatal("shot 1 is explicitly hidden")
	}
}

func TestMatrixIsRowMajor(t *testing.T) {
	snap, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	m := snap.Anchor.Matrix.Mat4()
	if got := m.Col(3).Vec3(); got != (mgl64.Vec3{2, 0, 0}) {
		t.Fatalf("translation column = %v", got)
	}
	if Matrix(nil).Mat4() != mgl64.Ident4() {
		t.Fatal("empty matrix should be identity")
	}
}

func TestParseRejectsInvalidSnapshots(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing asset", "shots: []\n"},
		{"escaping asset", "asset: ../outside\n"},
		{"short camera matrix", "asset: a/b\nshots:\n  - frames:\n      - matrix: [1,2,3]\n"},
		{"inverted clip", "asset: a/b\nshots:\n  - frames:\n      - matrix: [1,0,0,0,0,1,0,0,0,0,1,0,0,0,0,1]\n        clip_start: 5\n        clip_end: 1\n"},
		{"unnamed object", "asset: a/b\nobjects:\n  - identifier: x\n"},
		{"visibility out of range", "asset: a/b\nobjects:\n  - name: x\n    shot_visibility: {3: true}\n"},
		{"bad yaml", "asset: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intro.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	snap, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap.Objects) != 1 {
		t.Fatalf("objects = %d", len(snap.Objects))
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
