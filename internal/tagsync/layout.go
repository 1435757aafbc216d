package tagsync

import (
	"context"
	"fmt"
	"slices"

	"cinetag/internal/cinematic"
	"cinetag/internal/services"
	"cinetag/internal/tag"
)

// Targets are the in-memory tags a sync writes. Data is only used by the
// split schema.
type Targets struct {
	Scene *tag.Tag
	Data  *tag.Tag
}

// Layout is the schema-specific part of a sync.
type Layout interface {
	Schema() cinematic.Schema
	// Check verifies the targets carry every tag the layout writes.
	Check(t Targets) error
	// ShotBlocks returns every shots block that mirrors the shot count.
	ShotBlocks(t Targets) []*tag.Block
	// FrameBlock returns the shots block whose elements receive frames.
	FrameBlock(t Targets) *tag.Block
	// Prune drops scene tag content another schema left behind.
	Prune(t Targets)
	WriteFrame(el *tag.Element, f cinematic.Frame)
	WriteObjects(ctx context.Context, t Targets, objects []ObjectData, rec Reconciliation) error
}

// ObjectData is an actor with its references resolved.
type ObjectData struct {
	Name           string
	Identifier     string
	AnimationGraph tag.Reference
	ObjectType     tag.Reference
	ShotsActive    []bool
}

// LayoutFor returns the layout of a schema.
func LayoutFor(schema cinematic.Schema) Layout {
	if schema.Split() {
		return splitLayout{}
	}
	return legacyLayout{}
}

type legacyLayout struct{}

func (legacyLayout) Schema() cinematic.Schema { return cinematic.SchemaLegacy }

func (legacyLayout) Check(t Targets) error {
	if t.Scene == nil {
		return services.Wrap(services.ErrValidation, "sync", "legacy", "scene tag is required", nil)
	}
	return nil
}

func (legacyLayout) ShotBlocks(t Targets) []*tag.Block {
	return []*tag.Block{t.Scene.Block(blockShots)}
}

func (legacyLayout) FrameBlock(t Targets) *tag.Block {
	return t.Scene.Block(blockShots)
}

// Prune is a no-op; the legacy schema overwrites everything it owns in place.
func (legacyLayout) Prune(Targets) {}

func (legacyLayout) WriteFrame(el *tag.Element, f cinematic.Frame) {
	writeCamera(el, f)
	el.SetReal(fieldFocalDepth, f.FocalDepth)
	el.SetReal(fieldBlur, f.BlurAmount)
}

// WriteObjects fills the reconciled elements in place.
func (legacyLayout) WriteObjects(ctx context.Context, _ Targets, objects []ObjectData, rec Reconciliation) error {
	for i, m := range rec.Matches {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeObject(m.Element, objects[i]); err != nil {
			return fmt.Errorf("object %s: %w", m.Name, err)
		}
	}
	return nil
}

type splitLayout struct{}

func (splitLayout) Schema() cinematic.Schema { return cinematic.SchemaSplit }

func (splitLayout) Check(t Targets) error {
	if t.Scene == nil || t.Data == nil {
		return services.Wrap(services.ErrValidation, "sync", "split", "scene and scene data tags are required", nil)
	}
	return nil
}

func (splitLayout) ShotBlocks(t Targets) []*tag.Block {
	return []*tag.Block{t.Scene.Block(blockShots), t.Data.Block(blockShots)}
}

func (splitLayout) FrameBlock(t Targets) *tag.Block {
	return t.Data.Block(blockShots)
}

// Prune strips frames from the scene tag shots. A scene tag written by the
// legacy schema keeps them otherwise.
func (splitLayout) Prune(t Targets) {
	for _, shot := range t.Scene.Block(blockShots).Elements() {
		shot.DeleteField(fieldFrameCount)
		shot.DeleteBlock(blockFrames)
	}
}

func (splitLayout) WriteFrame(el *tag.Element, f cinematic.Frame) {
	writeCamera(el, f)
	el.SetReal(fieldNearDepth, f.NearFocalDepth)
	el.SetReal(fieldFarDepth, f.FarFocalDepth)
	el.SetReal(fieldNearBlur, f.NearBlurAmount)
	el.SetReal(fieldFarBlur, f.FarBlurAmount)
}

// WriteObjects reduces the scene tag objects to their names and rebuilds the
// data tag objects block from scratch, ordered by each actor's position in
// the scene tag objects block.
func (splitLayout) WriteObjects(ctx context.Context, t Targets, objects []ObjectData, rec Reconciliation) error {
	for _, m := range rec.Matches {
		m.Element.KeepFields(fieldName)
	}

	order := make([]int, len(rec.Matches))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return rec.Matches[a].Index - rec.Matches[b].Index
	})

	data := t.Data.Block(blockObjects)
	data.Clear()
	for _, i := range order {
		if err := ctx.Err(); err != nil {
			return err
		}
		el := data.Add()
		el.SetString(fieldName, objects[i].Name)
		if err := writeObject(el, objects[i]); err != nil {
			return fmt.Errorf("object %s: %w", objects[i].Name, err)
		}
	}
	return nil
}

func writeCamera(el *tag.Element, f cinematic.Frame) {
	el.SetPoint(fieldPosition, [3]float64(f.Position))
	el.SetVector(fieldForward, [3]float64(f.Forward))
	el.SetVector(fieldUp, [3]float64(f.Up))
	el.SetReal(fieldFocalLength, f.FocalLength)
	dof := int64(0)
	if f.DepthOfField {
		dof = 1
	}
	el.SetInt(fieldDepthOfField, dof)
	el.SetReal(fieldNearPlane, f.NearFocalPlaneDistance)
	el.SetReal(fieldFarPlane, f.FarFocalPlaneDistance)
}

func writeObject(el *tag.Element, obj ObjectData) error {
	el.SetString(fieldIdentifier, obj.Identifier)
	el.SetReference(fieldAnimationGraph, obj.AnimationGraph)
	el.SetReference(fieldObjectType, obj.ObjectType)

	flags, err := el.Flags(fieldShotsActive)
	if err != nil {
		return err
	}
	flags.Resize(len(obj.ShotsActive))
	for i, active := range obj.ShotsActive {
		if err := flags.Set(i, active); err != nil {
			return err
		}
	}
	return nil
}
