package tagsync

import (
	"context"
	"fmt"

	"cinetag/internal/cinematic"
	"cinetag/internal/services"
	"cinetag/internal/tag"
)

// Summary reports what a sync changed.
type Summary struct {
	Shots   int
	Frames  int
	Actors  int
	Added   int
	Removed int
	// SkippedShots lists shots left untouched because they have no frames.
	SkippedShots []int
}

// Sync writes scene into the target tags using the layout of the scene's
// schema. ctx is checked between shots and between actors.
func Sync(ctx context.Context, scene *cinematic.Scene, targets Targets, refs *tag.Index) (Summary, error) {
	layout := LayoutFor(scene.Schema)
	if err := layout.Check(targets); err != nil {
		return Summary{}, err
	}

	objects, err := resolveObjects(ctx, scene.Actors, refs)
	if err != nil {
		return Summary{}, err
	}

	writeHeader(targets.Scene.Root(), scene)

	summary := Summary{Shots: len(scene.Shots), Actors: len(scene.Actors)}
	for _, block := range layout.ShotBlocks(targets) {
		ResizeBlock(block, len(scene.Shots))
	}
	layout.Prune(targets)
	frames := layout.FrameBlock(targets)
	for i, shot := range scene.Shots {
		if err := ctx.Err(); err != nil {
			return Summary{}, err
		}
		if shot.FrameCount() == 0 {
			summary.SkippedShots = append(summary.SkippedShots, i)
			continue
		}
		el, err := frames.Element(i)
		if err != nil {
			return Summary{}, err
		}
		writeShot(el, shot, layout)
		summary.Frames += shot.FrameCount()
	}

	rec, err := Reconcile(targets.Scene.Block(blockObjects), scene.ActorNames())
	if err != nil {
		return Summary{}, services.Wrap(services.ErrValidation, "sync", "objects", "reconcile", err)
	}
	if err := layout.WriteObjects(ctx, targets, objects, rec); err != nil {
		return Summary{}, err
	}
	summary.Added = rec.Added()
	summary.Removed = len(rec.Removed)
	return summary, nil
}

func writeHeader(root *tag.Element, scene *cinematic.Scene) {
	root.SetString(fieldName, scene.Name)
	if scene.Anchor == nil {
		return
	}
	root.SetPoint(fieldAnchorPosition, [3]float64(scene.Anchor.Position))
	root.SetReal(fieldAnchorYaw, scene.Anchor.Yaw)
	root.SetReal(fieldAnchorPitch, scene.Anchor.Pitch)
	root.SetReal(fieldAnchorRoll, scene.Anchor.Roll)
}

func writeShot(el *tag.Element, shot cinematic.Shot, layout Layout) {
	el.SetInt(fieldFrameCount, int64(shot.FrameCount()))
	block := el.Block(blockFrames)
	block.Clear()
	for _, f := range shot.Frames {
		layout.WriteFrame(block.Add(), f)
	}
	el.Block(blockDialogue).Clear()
	el.Block(blockScript).Clear()
	el.Block(blockEffects).Clear()
}

func resolveObjects(ctx context.Context, actors []*cinematic.Actor, refs *tag.Index) ([]ObjectData, error) {
	out := make([]ObjectData, 0, len(actors))
	for _, a := range actors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		obj := ObjectData{
			Name:        a.Name,
			Identifier:  a.Identifier,
			ShotsActive: a.ShotsActive,
		}
		if a.AnimationGraph != "" || a.ObjectType != "" {
			if refs == nil {
				return nil, services.Wrap(services.ErrConfiguration, "sync", "object "+a.Name, "no tags index for references", nil)
			}
			var err error
			if obj.AnimationGraph, err = refs.Resolve(a.AnimationGraph, graphGroups...); err != nil {
				return nil, services.Wrap(services.ErrNotFound, "sync", "object "+a.Name, "animation graph", err)
			}
			if obj.ObjectType, err = refs.Resolve(a.ObjectType, objectGroups...); err != nil {
				return nil, services.Wrap(services.ErrNotFound, "sync", "object "+a.Name, "object type", err)
			}
		}
		out = append(out, obj)
	}
	return out, nil
}

// String renders the summary for log lines.
func (s Summary) String() string {
	return fmt.Sprintf("%d shots, %d frames, %d actors (+%d/-%d)", s.Shots, s.Frames, s.Actors, s.Added, s.Removed)
}
