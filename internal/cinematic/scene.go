package cinematic

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"

	"cinetag/internal/geom"
	"cinetag/internal/services"
	"cinetag/internal/snapshot"
	"cinetag/internal/textutil"
)

// ErrDuplicateActor reports two objects whose sanitized names collide.
var ErrDuplicateActor = errors.New("duplicate actor name")

// Paths locates the files an export writes.
type Paths struct {
	Tag string
	// DataTag is empty for the legacy schema.
	DataTag string
	Qua     string
}

// Scene is the model of one cinematic export.
type Scene struct {
	Name   string
	Asset  string
	Schema Schema
	Paths  Paths
	Anchor *geom.Anchor
	Shots  []Shot
	Actors []*Actor
}

// BuildOptions controls how a snapshot becomes a Scene.
type BuildOptions struct {
	TagsDir string
	Schema  Schema
	CoC     float64
}

// ScenePaths returns the tag and text paths for an asset directory. The file
// stem is the sanitized last path element of the asset plus "_000".
func ScenePaths(tagsDir, asset string, schema Schema) Paths {
	dir := filepath.Join(tagsDir, filepath.FromSlash(asset))
	stem := filepath.Join(dir, textutil.SanitizeFileName(path.Base(asset))+"_000")
	paths := Paths{
		Tag: stem + "." + GroupScene,
		Qua: stem + ".qua",
	}
	if schema.Split() {
		paths.DataTag = stem + "." + GroupSceneData
	}
	return paths
}

// Build assembles a Scene from a snapshot.
func Build(snap *snapshot.Snapshot, opts BuildOptions) (*Scene, error) {
	if snap == nil {
		return nil, services.Wrap(services.ErrValidation, "build", "scene", "nil snapshot", nil)
	}
	scene := &Scene{
		Name:   textutil.SanitizeFileName(snap.SceneName()),
		Asset:  snap.Asset,
		Schema: opts.Schema,
		Paths:  ScenePaths(opts.TagsDir, snap.Asset, opts.Schema),
	}
	if snap.Anchor != nil {
		anchor := geom.AnchorFrom(snap.Anchor.Matrix.Mat4())
		scene.Anchor = &anchor
	}

	frameOpts := FrameOptions{Schema: opts.Schema, Anchor: scene.Anchor, CoC: opts.CoC}
	scene.Shots = make([]Shot, 0, len(snap.Shots))
	for i, src := range snap.Shots {
		shot := Shot{Frames: make([]Frame, 0, len(src.Frames))}
		for j, cam := range src.Frames {
			frame, err := NewFrame(cam, frameOpts)
			if err != nil {
				return nil, services.Wrap(services.ErrValidation, "build", "frame", fmt.Sprintf("shot %d frame %d", i, j), err)
			}
			shot.Frames = append(shot.Frames, frame)
		}
		scene.Shots = append(scene.Shots, shot)
	}

	seen := make(map[string]string, len(snap.Objects))
	scene.Actors = make([]*Actor, 0, len(snap.Objects))
	for _, obj := range snap.Objects {
		actor := NewActor(obj)
		if prev, ok := seen[actor.Name]; ok {
			return nil, fmt.Errorf("%w: %w: %q and %q both become %q",
				services.ErrValidation, ErrDuplicateActor, prev, obj.Name, actor.Name)
		}
		seen[actor.Name] = obj.Name
		actor.SetShotBitMask(len(scene.Shots))
		scene.Actors = append(scene.Actors, actor)
	}
	return scene, nil
}

// FrameCount returns the number of frames across all shots.
func (s *Scene) FrameCount() int {
	total := 0
	for _, shot := range s.Shots {
		total += shot.FrameCount()
	}
	return total
}

// ActorNames returns actor names in actor order.
func (s *Scene) ActorNames() []string {
	names := make([]string, len(s.Actors))
	for i, a := range s.Actors {
		names[i] = a.Name
	}
	return names
}
